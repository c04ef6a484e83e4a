package app

import (
	"upsc-trainer/internal/domain"
	"upsc-trainer/internal/scoring"
)

// OptionView is one answer option as shown to the user.
type OptionView struct {
	Index      int    `json:"index"`
	Text       string `json:"text"`
	Selected   bool   `json:"selected"`
	Eliminated bool   `json:"eliminated"`
}

// QuestionView is the render-ready projection of the current question. The
// answer key and explanation are only present once revealed (learning mode,
// after answering); test-mode clients never see them before submit.
type QuestionView struct {
	Index       int                 `json:"index"`
	Total       int                 `json:"total"`
	ID          string              `json:"id"`
	Kind        domain.QuestionKind `json:"kind"`
	Subject     string              `json:"subject"`
	Topic       string              `json:"topic"`
	Year        int                 `json:"year,omitempty"`
	Text        string              `json:"text"`
	PassageText string              `json:"passageText,omitempty"`
	ImageURL    string              `json:"imageUrl,omitempty"`
	Options     []OptionView        `json:"options"`
	Bookmarked  bool                `json:"bookmarked"`
	Answered    bool                `json:"answered"`
	Revealed    bool                `json:"revealed"`
	Correct     *int                `json:"correct,omitempty"`
	Explanation string              `json:"explanation,omitempty"`
	Remaining   int                 `json:"remaining"`
	Clock       string              `json:"clock"`
	Paused      bool                `json:"paused"`
}

// QuestionStatus is one cell of the navigation map.
type QuestionStatus struct {
	Index      int  `json:"index"`
	Current    bool `json:"current"`
	Answered   bool `json:"answered"`
	Bookmarked bool `json:"bookmarked"`
}

// View projects the current question for display.
func (s *Session) View() QuestionView {
	s.mu.Lock()
	defer s.mu.Unlock()

	q := s.questions[s.current]
	selected, answered := s.answers[q.ID]
	eliminated := s.eliminated[q.ID]

	options := make([]OptionView, len(q.Options))
	for i, text := range q.Options {
		options[i] = OptionView{
			Index:      i,
			Text:       text,
			Selected:   answered && selected == i,
			Eliminated: eliminated[i],
		}
	}

	view := QuestionView{
		Index:       s.current,
		Total:       len(s.questions),
		ID:          q.ID,
		Kind:        q.Kind,
		Subject:     q.Subject,
		Topic:       q.Topic,
		Year:        q.Year,
		Text:        q.Text,
		PassageText: q.PassageText,
		ImageURL:    q.ImageURL,
		Options:     options,
		Bookmarked:  s.bookmarks[q.ID],
		Answered:    answered,
		Paused:      s.paused,
	}

	if s.config.Mode == domain.ModeLearning && answered {
		view.Revealed = true
		correct := q.CorrectIndex
		view.Correct = &correct
		view.Explanation = q.Explanation
	}

	if s.config.Mode == domain.ModeTest && s.config.TimeLimit > 0 {
		remaining := s.config.TimeLimit - s.elapsedLocked()
		if remaining < 0 {
			remaining = 0
		}
		view.Remaining = remaining
		view.Clock = scoring.FormatClock(remaining)
	} else {
		view.Remaining = -1
		view.Clock = scoring.FormatClock(s.elapsedLocked())
	}
	return view
}

// Overview returns the navigation map over all questions.
func (s *Session) Overview() []QuestionStatus {
	s.mu.Lock()
	defer s.mu.Unlock()

	statuses := make([]QuestionStatus, len(s.questions))
	for i, q := range s.questions {
		_, answered := s.answers[q.ID]
		statuses[i] = QuestionStatus{
			Index:      i,
			Current:    i == s.current,
			Answered:   answered,
			Bookmarked: s.bookmarks[q.ID],
		}
	}
	return statuses
}
