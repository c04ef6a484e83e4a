package app

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log"
	"math/rand"
	"sync"
	"time"

	"upsc-trainer/internal/bank"
	"upsc-trainer/internal/domain"
	"upsc-trainer/internal/scoring"
)

// BankRepository serves normalized question banks by slug.
type BankRepository interface {
	GetBank(ctx context.Context, slug string) ([]domain.Question, error)
}

// ResultStore is the append-only session history plus the last-result slot.
type ResultStore interface {
	Append(ctx context.Context, result domain.Result) error
	All(ctx context.Context) []domain.Result
	SaveLast(ctx context.Context, result domain.Result) error
}

// MistakeStore is the durable bank of missed questions.
type MistakeStore interface {
	Record(ctx context.Context, missed []domain.AnsweredQuestion) error
	Recent(ctx context.Context, count int) []domain.MistakeRecord
	All(ctx context.Context) []domain.MistakeRecord
}

// CheckpointStore persists the transient in-progress snapshot.
type CheckpointStore interface {
	SaveCheckpoint(ctx context.Context, cp domain.Checkpoint) error
	ClearCheckpoint(ctx context.Context) error
}

// SyncBackend pushes results to a remote copy. It is optional: a nil backend
// means local-only operation. Local durability never depends on it.
type SyncBackend interface {
	SyncResult(ctx context.Context, result domain.Result) error
}

// TrainerService wires banks, the durable stores and the active session into
// the trainer's use cases. One session runs at a time.
type TrainerService struct {
	banks       BankRepository
	results     ResultStore
	mistakes    MistakeStore
	checkpoints CheckpointStore
	sync        SyncBackend

	marksPerCorrect float64
	negativeMark    float64

	rnd *rand.Rand
	now func() time.Time

	mu      sync.Mutex
	session *Session
}

func NewTrainerService(banks BankRepository, results ResultStore, mistakes MistakeStore, checkpoints CheckpointStore, syncBackend SyncBackend) *TrainerService {
	return &TrainerService{
		banks:           banks,
		results:         results,
		mistakes:        mistakes,
		checkpoints:     checkpoints,
		sync:            syncBackend,
		marksPerCorrect: scoring.DefaultMarksPerCorrect,
		negativeMark:    scoring.DefaultNegativeMark,
		rnd:             rand.New(rand.NewSource(time.Now().UnixNano())),
		now:             time.Now,
	}
}

// SetMarking overrides the default marking scheme for sessions started later.
func (t *TrainerService) SetMarking(marksPerCorrect, negativeMark float64) {
	t.marksPerCorrect = marksPerCorrect
	t.negativeMark = negativeMark
}

// StartSession resolves a configuration into a concrete question list and
// opens a session over it. Bank failures degrade to the built-in demo set;
// only a genuinely empty list (an empty mistake review) is a hard error.
func (t *TrainerService) StartSession(ctx context.Context, cfg domain.SessionConfig) (*Session, error) {
	questions := t.resolveQuestions(ctx, cfg)

	if cfg.QuickType != "mistakes" {
		if len(questions) == 0 {
			log.Printf("no questions for %q, falling back to demo set", cfg.Subject)
			questions = bank.DemoQuestions()
		}
		questions = t.shuffled(questions)
	}
	if cfg.Count > 0 && len(questions) > cfg.Count {
		questions = questions[:cfg.Count]
	}

	session, err := newSessionWithClock(questions, cfg, t.now)
	if err != nil {
		return nil, err
	}
	session.SetMarking(t.marksPerCorrect, t.negativeMark)

	t.mu.Lock()
	t.session = session
	t.mu.Unlock()
	return session, nil
}

func (t *TrainerService) resolveQuestions(ctx context.Context, cfg domain.SessionConfig) []domain.Question {
	if cfg.QuickType == "mistakes" {
		records := t.mistakes.Recent(ctx, cfg.Count)
		questions := make([]domain.Question, 0, len(records))
		for _, m := range records {
			questions = append(questions, m.AsQuestion())
		}
		return questions
	}

	slug := bank.SlugForSubject(cfg.Subject)
	if cfg.Subject == "Mock Test" {
		// TODO: blend questions across every subject of the paper instead of
		// drawing the mock from the polity bank only.
		slug = "polity"
		if cfg.Paper == domain.PaperCSAT {
			slug = "csat_reasoning"
		}
	}

	questions, err := t.banks.GetBank(ctx, slug)
	if err != nil {
		if !errors.Is(err, domain.ErrBankNotFound) {
			log.Printf("load bank %s: %v", slug, err)
		}
		return nil
	}
	return filterByTopic(questions, cfg.Topic)
}

// filterByTopic narrows to a topic when the bank actually tags questions with
// it; untagged banks keep their full list rather than going empty.
func filterByTopic(questions []domain.Question, topic string) []domain.Question {
	if topic == "" || topic == "All Topics" {
		return questions
	}
	var matched []domain.Question
	for _, q := range questions {
		if q.Topic == topic {
			matched = append(matched, q)
		}
	}
	if len(matched) == 0 {
		return questions
	}
	return matched
}

func (t *TrainerService) shuffled(questions []domain.Question) []domain.Question {
	out := make([]domain.Question, len(questions))
	copy(out, questions)
	t.rnd.Shuffle(len(out), func(i, j int) {
		out[i], out[j] = out[j], out[i]
	})
	return out
}

// Session returns the active session, if one is running.
func (t *TrainerService) Session() (*Session, bool) {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.session, t.session != nil
}

// SubmitSession finalizes the active session: scores it, records mistakes,
// appends the result to history and clears the checkpoint. The local write
// always happens first; an optional sync backend runs after and its failure
// is only logged.
func (t *TrainerService) SubmitSession(ctx context.Context) (domain.Result, error) {
	t.mu.Lock()
	session := t.session
	t.mu.Unlock()
	if session == nil {
		return domain.Result{}, domain.ErrNoActiveSession
	}

	result, err := session.Submit()
	if err != nil {
		return domain.Result{}, err
	}

	var missed []domain.AnsweredQuestion
	for _, q := range result.Questions {
		if !q.Skipped() && !q.Correct() {
			missed = append(missed, q)
		}
	}
	if err := t.mistakes.Record(ctx, missed); err != nil {
		log.Printf("record mistakes: %v", err)
	}

	if err := t.results.Append(ctx, result); err != nil {
		return domain.Result{}, fmt.Errorf("append result: %w", err)
	}
	if err := t.results.SaveLast(ctx, result); err != nil {
		log.Printf("save last result: %v", err)
	}
	if err := t.checkpoints.ClearCheckpoint(ctx); err != nil {
		log.Printf("clear checkpoint: %v", err)
	}

	if t.sync != nil {
		if err := t.sync.SyncResult(ctx, result); err != nil {
			log.Printf("cloud sync failed (result kept locally): %v", err)
		} else {
			result.Synced = true
			_ = t.results.SaveLast(ctx, result)
		}
	}

	t.mu.Lock()
	t.session = nil
	t.mu.Unlock()
	return result, nil
}

// AutoSubmitIfExpired submits the active session when its time limit has run
// out. The submit guard makes the auto-submit fire at most once.
func (t *TrainerService) AutoSubmitIfExpired(ctx context.Context) (domain.Result, bool) {
	t.mu.Lock()
	session := t.session
	t.mu.Unlock()
	if session == nil || !session.Expired() {
		return domain.Result{}, false
	}
	result, err := t.SubmitSession(ctx)
	if err != nil {
		if !errors.Is(err, domain.ErrSessionFinished) {
			log.Printf("auto-submit: %v", err)
		}
		return domain.Result{}, false
	}
	log.Printf("time up, session auto-submitted (score %.2f)", result.Score)
	return result, true
}

// ExitSession discards the active session without scoring it. No compensating
// writes happen; the checkpoint is left for the next session start to replace.
func (t *TrainerService) ExitSession() {
	t.mu.Lock()
	t.session = nil
	t.mu.Unlock()
}

// Checkpoint persists the in-progress snapshot of the active session.
func (t *TrainerService) Checkpoint(ctx context.Context) error {
	t.mu.Lock()
	session := t.session
	t.mu.Unlock()
	if session == nil || session.State() != StateActive {
		return nil
	}
	return t.checkpoints.SaveCheckpoint(ctx, session.Checkpoint())
}

// RunCheckpointLoop writes a checkpoint every interval until ctx ends.
func (t *TrainerService) RunCheckpointLoop(ctx context.Context, interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if err := t.Checkpoint(ctx); err != nil {
				log.Printf("checkpoint: %v", err)
			}
		}
	}
}

// Stats folds the full history into the dashboard aggregates.
func (t *TrainerService) Stats(ctx context.Context) domain.Stats {
	return ComputeStats(t.results.All(ctx))
}

// RecentMistakes exposes the mistake bank for review sessions.
func (t *TrainerService) RecentMistakes(ctx context.Context, count int) []domain.MistakeRecord {
	return t.mistakes.Recent(ctx, count)
}

// exportDump is the one-way backup document.
type exportDump struct {
	ExportDate time.Time              `json:"exportDate"`
	History    []domain.Result        `json:"history"`
	Mistakes   []domain.MistakeRecord `json:"mistakes"`
}

// Export writes the full history and mistake bank as one JSON document.
func (t *TrainerService) Export(ctx context.Context, w io.Writer) error {
	dump := exportDump{
		ExportDate: t.now(),
		History:    t.results.All(ctx),
		Mistakes:   t.mistakes.All(ctx),
	}
	if dump.History == nil {
		dump.History = []domain.Result{}
	}
	if dump.Mistakes == nil {
		dump.Mistakes = []domain.MistakeRecord{}
	}
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(dump)
}

// ExportFilename is the ISO-dated name for the backup document.
func (t *TrainerService) ExportFilename() string {
	return fmt.Sprintf("upsc_trainer_backup_%s.json", t.now().Format("2006-01-02"))
}
