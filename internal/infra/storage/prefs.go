package storage

import (
	"context"

	"upsc-trainer/internal/domain"
)

// Prefs covers the small settings surface: display preferences, the pending
// session configuration, and the in-progress checkpoint.
type Prefs struct {
	store Store
}

func NewPrefs(store Store) *Prefs {
	return &Prefs{store: store}
}

func (p *Prefs) Theme(ctx context.Context) string {
	value, ok, err := p.store.Get(ctx, KeyTheme)
	if err != nil || !ok {
		return "light"
	}
	return value
}

func (p *Prefs) SetTheme(ctx context.Context, theme string) error {
	return p.store.Set(ctx, KeyTheme, theme)
}

func (p *Prefs) FontSize(ctx context.Context) string {
	value, ok, err := p.store.Get(ctx, KeyFontSize)
	if err != nil || !ok {
		return "md"
	}
	return value
}

func (p *Prefs) SetFontSize(ctx context.Context, size string) error {
	return p.store.Set(ctx, KeyFontSize, size)
}

// SaveQuizConfig persists the configuration produced by the selection step.
func (p *Prefs) SaveQuizConfig(ctx context.Context, cfg domain.SessionConfig) error {
	return writeJSON(ctx, p.store, KeyQuizConfig, cfg)
}

// QuizConfig returns the pending session configuration, if one was saved.
func (p *Prefs) QuizConfig(ctx context.Context) (domain.SessionConfig, bool) {
	value, ok, err := p.store.Get(ctx, KeyQuizConfig)
	if err != nil || !ok || value == "" {
		return domain.SessionConfig{}, false
	}
	var cfg domain.SessionConfig
	readJSON(ctx, p.store, KeyQuizConfig, &cfg)
	return cfg, cfg.Count > 0
}

// SaveCheckpoint writes the transient in-progress snapshot.
func (p *Prefs) SaveCheckpoint(ctx context.Context, cp domain.Checkpoint) error {
	return writeJSON(ctx, p.store, KeyCheckpoint, cp)
}

// Checkpoint returns the in-progress snapshot, if present.
func (p *Prefs) Checkpoint(ctx context.Context) (domain.Checkpoint, bool) {
	value, ok, err := p.store.Get(ctx, KeyCheckpoint)
	if err != nil || !ok || value == "" {
		return domain.Checkpoint{}, false
	}
	var cp domain.Checkpoint
	readJSON(ctx, p.store, KeyCheckpoint, &cp)
	return cp, true
}

// ClearCheckpoint drops the snapshot; submit is authoritative over it.
func (p *Prefs) ClearCheckpoint(ctx context.Context) error {
	return p.store.Delete(ctx, KeyCheckpoint)
}

// ClearHistory removes quiz outcomes but keeps display preferences.
func (p *Prefs) ClearHistory(ctx context.Context) error {
	for _, key := range []string{KeyHistory, KeyMistakes, KeyLastResult} {
		if err := p.store.Delete(ctx, key); err != nil {
			return err
		}
	}
	return nil
}

// FactoryReset wipes every key in the store.
func (p *Prefs) FactoryReset(ctx context.Context) error {
	return p.store.Clear(ctx)
}
