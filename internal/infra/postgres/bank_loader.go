package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v4"
	"github.com/jackc/pgx/v4/pgxpool"

	"upsc-trainer/internal/bank"
	"upsc-trainer/internal/domain"
)

// BankLoader loads question-bank JSONB from Postgres. The stored payload is
// the raw wire format (either field convention); it goes through the adapter
// on the way out so raw shapes never leak past this boundary.
type BankLoader struct {
	pool *pgxpool.Pool
}

func NewBankLoader(pool *pgxpool.Pool) *BankLoader {
	return &BankLoader{pool: pool}
}

func (l *BankLoader) LoadBank(ctx context.Context, slug string) ([]domain.Question, error) {
	var raw []byte
	err := l.pool.QueryRow(ctx, `SELECT data FROM banks WHERE slug=$1`, slug).Scan(&raw)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, domain.ErrBankNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("load bank %s: %w", slug, err)
	}

	questions, err := bank.ParseBank(raw)
	if err != nil {
		if errors.Is(err, domain.ErrInvalidFormat) {
			return nil, nil
		}
		return nil, fmt.Errorf("parse bank %s: %w", slug, err)
	}
	return questions, nil
}
