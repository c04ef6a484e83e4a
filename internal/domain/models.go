package domain

import "time"

// QuestionKind discriminates how a question is presented.
type QuestionKind string

const (
	KindStandard QuestionKind = "standard"
	KindPassage  QuestionKind = "passage"
	KindImage    QuestionKind = "image"
)

// Question is the canonical, post-adapter shape. Raw bank records never leave
// the adapter; everything downstream works on this struct.
type Question struct {
	ID           string       `json:"id"`
	Text         string       `json:"text"`
	Options      []string     `json:"options"`
	CorrectIndex int          `json:"correct"`
	Explanation  string       `json:"explanation,omitempty"`
	Kind         QuestionKind `json:"kind"`
	Subject      string       `json:"subject"`
	Topic        string       `json:"topic"`
	Year         int          `json:"year,omitempty"`
	Difficulty   string       `json:"difficulty,omitempty"`
	ImageURL     string       `json:"imageUrl,omitempty"`
	PassageText  string       `json:"passageText,omitempty"`
}

// AnsweredQuestion is a question snapshot annotated with the user's selection,
// as embedded in a Result. Selected is nil when the question was skipped.
type AnsweredQuestion struct {
	Question
	Selected *int `json:"userSel,omitempty"`
}

// Correct reports whether the recorded selection matches the answer key.
func (a AnsweredQuestion) Correct() bool {
	return a.Selected != nil && *a.Selected == a.CorrectIndex
}

// Skipped reports whether no selection was recorded.
func (a AnsweredQuestion) Skipped() bool {
	return a.Selected == nil
}

// Mode selects session behavior: test enforces a deadline, learning reveals
// explanations after each answer.
type Mode string

const (
	ModeTest     Mode = "test"
	ModeLearning Mode = "learning"
)

// Paper identifies the exam paper variant, which drives pacing.
type Paper string

const (
	PaperGS1  Paper = "gs1"
	PaperCSAT Paper = "csat"
)

// SecondsPerQuestion is the per-question time allowance for a paper.
func (p Paper) SecondsPerQuestion() int {
	if p == PaperCSAT {
		return 90
	}
	return 72
}

// SessionConfig is produced by the selection step and consumed by the session.
type SessionConfig struct {
	Mode      Mode   `json:"mode"`
	Paper     Paper  `json:"paper"`
	Subject   string `json:"subject"`
	Topic     string `json:"topic"`
	Count     int    `json:"count"`
	TimeLimit int    `json:"timeLimit"` // seconds; only enforced in test mode
	QuickType string `json:"quickType,omitempty"`
}

// NewSessionConfig fills defaults and derives the time limit from the paper pacing.
func NewSessionConfig(mode Mode, paper Paper, subject, topic string, count int) SessionConfig {
	if mode == "" {
		mode = ModeTest
	}
	if paper == "" {
		paper = PaperGS1
	}
	if subject == "" {
		subject = "Mixed"
	}
	if topic == "" {
		topic = "All Topics"
	}
	if count <= 0 {
		count = 10
	}
	return SessionConfig{
		Mode:      mode,
		Paper:     paper,
		Subject:   subject,
		Topic:     topic,
		Count:     count,
		TimeLimit: count * paper.SecondsPerQuestion(),
	}
}

// MockCount returns the question count for a mock test.
func MockCount(paper Paper, full bool) int {
	if paper == PaperCSAT {
		if full {
			return 80
		}
		return 40
	}
	if full {
		return 100
	}
	return 50
}

// EstimateMinutes is the advertised duration for a quiz of the given size.
func EstimateMinutes(count int, paper Paper) int {
	secs := count * paper.SecondsPerQuestion()
	return (secs + 30) / 60
}

// Result is the immutable outcome of a completed session. Only the Synced flag
// may change after the result is appended to history.
type Result struct {
	Score     float64            `json:"score"`
	Total     int                `json:"total"`
	Correct   int                `json:"correct"`
	Wrong     int                `json:"wrong"`
	Skipped   int                `json:"skipped"`
	Subject   string             `json:"subject"`
	Topic     string             `json:"topic"`
	Mode      Mode               `json:"mode"`
	Paper     Paper              `json:"paper"`
	Accuracy  int                `json:"accuracy"`
	TimeSpent int                `json:"timeSpent"` // seconds
	Questions []AnsweredQuestion `json:"quiz"`
	Timestamp time.Time          `json:"timestamp"`
	Synced    bool               `json:"synced"`
}

// MistakeRecord is one entry of the mistake bank.
type MistakeRecord struct {
	ID          string    `json:"id"`
	Subject     string    `json:"subject"`
	Text        string    `json:"text"`
	Options     []string  `json:"options"`
	Correct     int       `json:"correct"`
	UserAnswer  int       `json:"userAnswer"`
	Explanation string    `json:"explanation,omitempty"`
	SavedAt     time.Time `json:"savedAt"`
}

// AsQuestion rebuilds a canonical question from a stored mistake so the bank
// can be replayed as a quiz.
func (m MistakeRecord) AsQuestion() Question {
	return Question{
		ID:           m.ID,
		Text:         m.Text,
		Options:      m.Options,
		CorrectIndex: m.Correct,
		Explanation:  m.Explanation,
		Kind:         KindStandard,
		Subject:      m.Subject,
		Topic:        "General",
	}
}

// Checkpoint is the transient in-progress snapshot written while a session
// runs; the final submit supersedes and clears it.
type Checkpoint struct {
	Answers      map[string]int `json:"answers"`
	CurrentIndex int            `json:"currentIdx"`
	TimeSpent    map[string]int `json:"timeSpent"`
}

// SubjectStat is one per-subject bucket of the lifetime aggregates.
type SubjectStat struct {
	Questions int `json:"qs"`
	Correct   int `json:"correct"`
	Accuracy  int `json:"acc"`
}

// Stats is the derived dashboard view over the full result history.
type Stats struct {
	TotalQuestions int                    `json:"totalQuestions"`
	Accuracy       int                    `json:"accuracy"`
	StudyMinutes   int                    `json:"studyMinutes"`
	Subjects       map[string]SubjectStat `json:"subjects"`
	AccuracyTrend  []int                  `json:"accuracyTrend"`
	Strong         []string               `json:"strong"`
	Moderate       []string               `json:"moderate"`
	Weak           []string               `json:"weak"`
}
