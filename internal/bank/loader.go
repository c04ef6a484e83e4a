package bank

import (
	"context"
	"errors"
	"log"
	"os"
	"path/filepath"

	"upsc-trainer/internal/domain"
)

// Loader fetches the question list for one bank slug from a backing store.
type Loader interface {
	LoadBank(ctx context.Context, slug string) ([]domain.Question, error)
}

// FileLoader reads static JSON bank files (<dir>/<slug>.json). Malformed
// payloads are logged and surface as empty lists; the session layer
// substitutes the demo set.
type FileLoader struct {
	dir string
}

func NewFileLoader(dir string) *FileLoader {
	return &FileLoader{dir: dir}
}

func (l *FileLoader) LoadBank(_ context.Context, slug string) ([]domain.Question, error) {
	path := filepath.Join(l.dir, slug+".json")
	payload, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, domain.ErrBankNotFound
		}
		return nil, err
	}

	questions, err := ParseBank(payload)
	if err != nil {
		if errors.Is(err, domain.ErrInvalidFormat) {
			log.Printf("bank %s: invalid payload format, treating as empty", slug)
			return nil, nil
		}
		return nil, err
	}
	return questions, nil
}

// StaticLoader serves banks from an in-memory map (tests and demos).
type StaticLoader struct {
	banks map[string][]domain.Question
}

func NewStaticLoader(banks map[string][]domain.Question) *StaticLoader {
	return &StaticLoader{banks: banks}
}

func (l *StaticLoader) LoadBank(_ context.Context, slug string) ([]domain.Question, error) {
	if questions, ok := l.banks[slug]; ok {
		return questions, nil
	}
	return nil, domain.ErrBankNotFound
}
