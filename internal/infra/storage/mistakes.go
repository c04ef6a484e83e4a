package storage

import (
	"context"
	"time"

	"upsc-trainer/internal/domain"
)

// DefaultMistakeCapacity bounds the mistake bank; oldest entries are evicted
// first once the cap is hit.
const DefaultMistakeCapacity = 100

// MistakeBank is the durable store of previously missed questions, kept for
// spaced re-practice. Entries are deduplicated by question id, first-seen wins.
type MistakeBank struct {
	store    Store
	capacity int
	clock    func() time.Time
}

func NewMistakeBank(store Store, capacity int) *MistakeBank {
	if capacity <= 0 {
		capacity = DefaultMistakeCapacity
	}
	return &MistakeBank{store: store, capacity: capacity, clock: time.Now}
}

// Record appends mistake entries for missed questions. A question already in
// the bank is never re-added or updated. After insertion the bank is trimmed
// to the most-recently-appended entries within capacity.
func (b *MistakeBank) Record(ctx context.Context, missed []domain.AnsweredQuestion) error {
	if len(missed) == 0 {
		return nil
	}

	saved := b.all(ctx)
	seen := make(map[string]struct{}, len(saved))
	for _, m := range saved {
		seen[m.ID] = struct{}{}
	}

	now := b.clock()
	added := false
	for _, q := range missed {
		if q.Selected == nil || q.Correct() {
			continue
		}
		if _, dup := seen[q.ID]; dup {
			continue
		}
		seen[q.ID] = struct{}{}
		saved = append(saved, domain.MistakeRecord{
			ID:          q.ID,
			Subject:     q.Subject,
			Text:        q.Text,
			Options:     q.Options,
			Correct:     q.CorrectIndex,
			UserAnswer:  *q.Selected,
			Explanation: q.Explanation,
			SavedAt:     now,
		})
		added = true
	}
	if !added {
		return nil
	}

	if len(saved) > b.capacity {
		saved = saved[len(saved)-b.capacity:]
	}
	return writeJSON(ctx, b.store, KeyMistakes, saved)
}

// Recent returns up to count entries, most recently appended first. Reads do
// not disturb the stored insertion order.
func (b *MistakeBank) Recent(ctx context.Context, count int) []domain.MistakeRecord {
	saved := b.all(ctx)
	recent := make([]domain.MistakeRecord, 0, count)
	for i := len(saved) - 1; i >= 0 && len(recent) < count; i-- {
		recent = append(recent, saved[i])
	}
	return recent
}

// Len reports the current number of stored mistakes.
func (b *MistakeBank) Len(ctx context.Context) int {
	return len(b.all(ctx))
}

// All returns every stored entry in insertion order, for the export dump.
func (b *MistakeBank) All(ctx context.Context) []domain.MistakeRecord {
	return b.all(ctx)
}

func (b *MistakeBank) all(ctx context.Context) []domain.MistakeRecord {
	var saved []domain.MistakeRecord
	readJSON(ctx, b.store, KeyMistakes, &saved)
	return saved
}
