// Package storage holds the durable keyspace layout and the data-access
// objects built on top of it. Values are JSON text under well-known keys, so
// any Store backend (memory, file, redis) can carry the same layout.
package storage

import (
	"context"
	"encoding/json"
	"log"
)

// Store is an opaque text key/value store.
type Store interface {
	Get(ctx context.Context, key string) (string, bool, error)
	Set(ctx context.Context, key, value string) error
	Delete(ctx context.Context, key string) error
	// Clear wipes every key (factory reset).
	Clear(ctx context.Context) error
}

// Durable keyspace layout.
const (
	KeyHistory    = "upsc_history"
	KeyMistakes   = "upsc_mistakes"
	KeyLastResult = "upsc_last_result"
	KeyQuizConfig = "upsc_quiz_config"
	KeyCheckpoint = "upsc_quiz_progress"
	KeyTheme      = "upsc_theme"
	KeyFontSize   = "upsc_font_size"
)

// readJSON loads key into out. A missing key, a backend error, or a parse
// failure all leave out untouched: readers always get a usable default.
func readJSON(ctx context.Context, s Store, key string, out interface{}) {
	value, ok, err := s.Get(ctx, key)
	if err != nil {
		log.Printf("storage: read %s: %v", key, err)
		return
	}
	if !ok || value == "" {
		return
	}
	if err := json.Unmarshal([]byte(value), out); err != nil {
		log.Printf("storage: corrupt value under %s, using default: %v", key, err)
	}
}

func writeJSON(ctx context.Context, s Store, key string, v interface{}) error {
	data, err := json.Marshal(v)
	if err != nil {
		return err
	}
	return s.Set(ctx, key, string(data))
}
