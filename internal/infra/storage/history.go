package storage

import (
	"context"

	"upsc-trainer/internal/domain"
)

// HistoryStore is the append-only record of completed sessions plus the
// last-result slot the analysis view reads.
type HistoryStore struct {
	store Store
}

func NewHistoryStore(store Store) *HistoryStore {
	return &HistoryStore{store: store}
}

// Append adds a result to the history. Results are immutable once appended.
func (h *HistoryStore) Append(ctx context.Context, result domain.Result) error {
	history := h.All(ctx)
	history = append(history, result)
	return writeJSON(ctx, h.store, KeyHistory, history)
}

// All returns the full history, oldest first. Missing or corrupt data reads
// as an empty history.
func (h *HistoryStore) All(ctx context.Context) []domain.Result {
	var history []domain.Result
	readJSON(ctx, h.store, KeyHistory, &history)
	return history
}

// SaveLast stores the most recent result for the analysis view.
func (h *HistoryStore) SaveLast(ctx context.Context, result domain.Result) error {
	return writeJSON(ctx, h.store, KeyLastResult, result)
}

// Last returns the most recently completed result, if any.
func (h *HistoryStore) Last(ctx context.Context) (domain.Result, bool) {
	value, ok, err := h.store.Get(ctx, KeyLastResult)
	if err != nil || !ok || value == "" {
		return domain.Result{}, false
	}
	var result domain.Result
	readJSON(ctx, h.store, KeyLastResult, &result)
	return result, true
}
