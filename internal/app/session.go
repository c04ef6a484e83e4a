package app

import (
	"sync"
	"time"

	"upsc-trainer/internal/domain"
	"upsc-trainer/internal/scoring"
)

// SessionState is the lifecycle phase of a quiz session.
type SessionState int

const (
	StateLoading SessionState = iota
	StateActive
	StateSubmitting
	StateTerminated
)

// Session is the quiz state machine: a fixed, ordered question list plus the
// user's answers, eliminations, bookmarks and per-question time. All
// mutations go through its methods; once Submit has run the session is
// terminated and every further mutation is rejected.
//
// Pausing suspends time accrual entirely: the open interval is closed on
// Pause and reopened on Resume, so background time never charges the current
// question and the test-mode deadline stretches by the paused span.
type Session struct {
	mu sync.Mutex

	config    domain.SessionConfig
	questions []domain.Question
	state     SessionState

	current    int
	answers    map[string]int
	eliminated map[string]map[int]bool
	bookmarks  map[string]bool
	timeSpent  map[string]int

	startedAt time.Time
	openedAt  time.Time
	paused    bool

	marksPerCorrect float64
	negativeMark    float64

	now func() time.Time
}

// NewSession starts a session over a non-empty question list. The caller is
// responsible for shuffling and slicing to the configured count beforehand;
// the order is fixed here for the session's lifetime.
func NewSession(questions []domain.Question, config domain.SessionConfig) (*Session, error) {
	return newSessionWithClock(questions, config, time.Now)
}

// newSessionWithClock allows deterministic timestamps in tests.
func newSessionWithClock(questions []domain.Question, config domain.SessionConfig, now func() time.Time) (*Session, error) {
	if len(questions) == 0 {
		return nil, domain.ErrEmptySession
	}
	start := now()
	return &Session{
		config:          config,
		questions:       questions,
		state:           StateActive,
		answers:         make(map[string]int),
		eliminated:      make(map[string]map[int]bool),
		bookmarks:       make(map[string]bool),
		timeSpent:       make(map[string]int),
		startedAt:       start,
		openedAt:        start,
		marksPerCorrect: scoring.DefaultMarksPerCorrect,
		negativeMark:    scoring.DefaultNegativeMark,
		now:             now,
	}, nil
}

// SetMarking overrides the default marking scheme before any submit.
func (s *Session) SetMarking(marksPerCorrect, negativeMark float64) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.marksPerCorrect = marksPerCorrect
	s.negativeMark = negativeMark
}

// Config returns the session configuration.
func (s *Session) Config() domain.SessionConfig {
	return s.config
}

// State returns the lifecycle phase.
func (s *Session) State() SessionState {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state
}

// Len returns the number of questions in the session.
func (s *Session) Len() int {
	return len(s.questions)
}

// CurrentIndex returns the position of the open question.
func (s *Session) CurrentIndex() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.current
}

// SelectOption toggles the answer for a question: re-selecting the recorded
// index clears it (back to skipped), any other index overwrites it. Whether
// an eliminated option may be picked is the caller's policy, not enforced here.
func (s *Session) SelectOption(questionID string, index int) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.state != StateActive {
		return domain.ErrSessionFinished
	}
	q, ok := s.questionByID(questionID)
	if !ok {
		return domain.ErrQuestionNotFound
	}
	if index < 0 || index >= len(q.Options) {
		return domain.ErrIndexOutOfRange
	}

	if current, answered := s.answers[questionID]; answered && current == index {
		delete(s.answers, questionID)
	} else {
		s.answers[questionID] = index
	}
	return nil
}

// EliminateOption toggles an option in the question's elimination set. The
// set is advisory: it never affects recorded answers or scoring.
func (s *Session) EliminateOption(questionID string, index int) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.state != StateActive {
		return domain.ErrSessionFinished
	}
	q, ok := s.questionByID(questionID)
	if !ok {
		return domain.ErrQuestionNotFound
	}
	if index < 0 || index >= len(q.Options) {
		return domain.ErrIndexOutOfRange
	}

	set := s.eliminated[questionID]
	if set == nil {
		set = make(map[int]bool)
		s.eliminated[questionID] = set
	}
	if set[index] {
		delete(set, index)
	} else {
		set[index] = true
	}
	return nil
}

// ToggleBookmark flips bookmark membership for a question.
func (s *Session) ToggleBookmark(questionID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.state != StateActive {
		return domain.ErrSessionFinished
	}
	if _, ok := s.questionByID(questionID); !ok {
		return domain.ErrQuestionNotFound
	}
	if s.bookmarks[questionID] {
		delete(s.bookmarks, questionID)
	} else {
		s.bookmarks[questionID] = true
	}
	return nil
}

// GoTo moves to the question at index, closing the open time interval of the
// question being left and opening one for the target.
func (s *Session) GoTo(index int) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.state != StateActive {
		return domain.ErrSessionFinished
	}
	if index < 0 || index >= len(s.questions) {
		return domain.ErrIndexOutOfRange
	}
	s.closeIntervalLocked()
	s.current = index
	return nil
}

// Next advances to the next question; at the last question it is a no-op and
// reports false so the caller can offer submit instead.
func (s *Session) Next() (bool, error) {
	s.mu.Lock()
	idx := s.current
	s.mu.Unlock()
	if idx >= len(s.questions)-1 {
		return false, nil
	}
	return true, s.GoTo(idx + 1)
}

// Prev moves back one question when possible.
func (s *Session) Prev() (bool, error) {
	s.mu.Lock()
	idx := s.current
	s.mu.Unlock()
	if idx == 0 {
		return false, nil
	}
	return true, s.GoTo(idx - 1)
}

// Pause suspends time accrual and the countdown. Mutating operations stay
// valid while paused.
func (s *Session) Pause() {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.state != StateActive || s.paused {
		return
	}
	s.closeIntervalLocked()
	s.paused = true
}

// Resume reopens the time interval for the current question.
func (s *Session) Resume() {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.state != StateActive || !s.paused {
		return
	}
	s.paused = false
	s.openedAt = s.now()
}

// Paused reports whether the session is paused.
func (s *Session) Paused() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.paused
}

// ElapsedSeconds is the total active time so far: closed intervals plus the
// currently open one. It never decreases while the session is active.
func (s *Session) ElapsedSeconds() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.elapsedLocked()
}

// RemainingSeconds is the countdown value for timed sessions; untimed
// (learning) sessions report -1.
func (s *Session) RemainingSeconds() int {
	if s.config.Mode != domain.ModeTest || s.config.TimeLimit <= 0 {
		return -1
	}
	remaining := s.config.TimeLimit - s.ElapsedSeconds()
	if remaining < 0 {
		return 0
	}
	return remaining
}

// Expired reports whether a timed session has run out its limit.
func (s *Session) Expired() bool {
	if s.config.Mode != domain.ModeTest || s.config.TimeLimit <= 0 {
		return false
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state == StateActive && s.elapsedLocked() >= s.config.TimeLimit
}

// Submit closes the final open interval, scores the answer sheet and
// terminates the session. It is idempotent in effect: a second call returns
// ErrSessionFinished and changes nothing.
func (s *Session) Submit() (domain.Result, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.state != StateActive {
		return domain.Result{}, domain.ErrSessionFinished
	}
	s.state = StateSubmitting
	s.closeIntervalLocked()

	score := scoring.Score(s.questions, s.answers, s.marksPerCorrect, s.negativeMark)

	totalTime := 0
	for _, secs := range s.timeSpent {
		totalTime += secs
	}

	snapshot := make([]domain.AnsweredQuestion, 0, len(s.questions))
	for _, q := range s.questions {
		aq := domain.AnsweredQuestion{Question: q}
		if sel, ok := s.answers[q.ID]; ok {
			selected := sel
			aq.Selected = &selected
		}
		snapshot = append(snapshot, aq)
	}

	result := domain.Result{
		Score:     score.Score,
		Total:     len(s.questions),
		Correct:   score.Correct,
		Wrong:     score.Wrong,
		Skipped:   score.Skipped,
		Subject:   s.config.Subject,
		Topic:     s.config.Topic,
		Mode:      s.config.Mode,
		Paper:     s.config.Paper,
		Accuracy:  score.AttemptedAccuracy,
		TimeSpent: totalTime,
		Questions: snapshot,
		Timestamp: s.now(),
	}
	s.state = StateTerminated
	return result, nil
}

// Checkpoint snapshots the in-progress answers, position and per-question
// time for the durability tick.
func (s *Session) Checkpoint() domain.Checkpoint {
	s.mu.Lock()
	defer s.mu.Unlock()

	answers := make(map[string]int, len(s.answers))
	for id, sel := range s.answers {
		answers[id] = sel
	}
	timeSpent := make(map[string]int, len(s.timeSpent))
	for id, secs := range s.timeSpent {
		timeSpent[id] = secs
	}
	return domain.Checkpoint{
		Answers:      answers,
		CurrentIndex: s.current,
		TimeSpent:    timeSpent,
	}
}

// Restore replays a checkpoint into a fresh session, matching answers and
// accumulated time by question id.
func (s *Session) Restore(cp domain.Checkpoint) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.state != StateActive {
		return
	}
	for id, sel := range cp.Answers {
		if q, ok := s.questionByID(id); ok && sel >= 0 && sel < len(q.Options) {
			s.answers[id] = sel
		}
	}
	for id, secs := range cp.TimeSpent {
		if _, ok := s.questionByID(id); ok && secs > 0 {
			s.timeSpent[id] = secs
		}
	}
	if cp.CurrentIndex >= 0 && cp.CurrentIndex < len(s.questions) {
		s.current = cp.CurrentIndex
	}
}

func (s *Session) questionByID(id string) (domain.Question, bool) {
	for _, q := range s.questions {
		if q.ID == id {
			return q, true
		}
	}
	return domain.Question{}, false
}

// closeIntervalLocked folds the open interval into the current question's
// cumulative time. No-op while paused (the interval was already closed) or
// after termination.
func (s *Session) closeIntervalLocked() {
	if s.paused || s.state == StateTerminated {
		return
	}
	now := s.now()
	elapsed := int(now.Sub(s.openedAt).Round(time.Second) / time.Second)
	if elapsed > 0 {
		id := s.questions[s.current].ID
		s.timeSpent[id] += elapsed
	}
	s.openedAt = now
}

func (s *Session) elapsedLocked() int {
	total := 0
	for _, secs := range s.timeSpent {
		total += secs
	}
	if s.state == StateActive && !s.paused {
		total += int(s.now().Sub(s.openedAt).Round(time.Second) / time.Second)
	}
	return total
}
