package storage_test

import (
	"context"
	"fmt"
	"testing"

	"upsc-trainer/internal/domain"
	"upsc-trainer/internal/infra/memory"
	"upsc-trainer/internal/infra/storage"
)

func TestMistakeBankDedupFirstSeenWins(t *testing.T) {
	ctx := context.Background()
	bank := storage.NewMistakeBank(memory.NewStore(), 100)

	if err := bank.Record(ctx, []domain.AnsweredQuestion{missed("q1", 2)}); err != nil {
		t.Fatalf("record: %v", err)
	}
	// Same question missed again with a different wrong answer: no-op.
	if err := bank.Record(ctx, []domain.AnsweredQuestion{missed("q1", 3)}); err != nil {
		t.Fatalf("record dup: %v", err)
	}

	recent := bank.Recent(ctx, 10)
	if len(recent) != 1 {
		t.Fatalf("expected 1 entry, got %d", len(recent))
	}
	if recent[0].UserAnswer != 2 {
		t.Fatalf("first-seen entry was overwritten: %+v", recent[0])
	}
}

func TestMistakeBankSkipsCorrectAndSkipped(t *testing.T) {
	ctx := context.Background()
	bank := storage.NewMistakeBank(memory.NewStore(), 100)

	correctSel := 1
	entries := []domain.AnsweredQuestion{
		{Question: question("q1"), Selected: &correctSel}, // correct
		{Question: question("q2"), Selected: nil},         // skipped
	}
	if err := bank.Record(ctx, entries); err != nil {
		t.Fatalf("record: %v", err)
	}
	if n := bank.Len(ctx); n != 0 {
		t.Fatalf("expected nothing recorded, got %d", n)
	}
}

func TestMistakeBankCapacity(t *testing.T) {
	ctx := context.Background()
	bank := storage.NewMistakeBank(memory.NewStore(), 100)

	for i := 0; i < 120; i++ {
		q := missed(fmt.Sprintf("q%03d", i), 0)
		if err := bank.Record(ctx, []domain.AnsweredQuestion{q}); err != nil {
			t.Fatalf("record %d: %v", i, err)
		}
	}

	if n := bank.Len(ctx); n != 100 {
		t.Fatalf("expected cap at 100, got %d", n)
	}
	recent := bank.Recent(ctx, 1)
	if len(recent) != 1 || recent[0].ID != "q119" {
		t.Fatalf("expected newest entry kept, got %+v", recent)
	}
	// Oldest 20 evicted.
	all := bank.Recent(ctx, 100)
	if all[len(all)-1].ID != "q020" {
		t.Fatalf("expected q020 as oldest survivor, got %s", all[len(all)-1].ID)
	}
}

func TestMistakeBankRecentOrder(t *testing.T) {
	ctx := context.Background()
	bank := storage.NewMistakeBank(memory.NewStore(), 100)

	_ = bank.Record(ctx, []domain.AnsweredQuestion{missed("q1", 0), missed("q2", 0), missed("q3", 0)})

	recent := bank.Recent(ctx, 2)
	if len(recent) != 2 || recent[0].ID != "q3" || recent[1].ID != "q2" {
		t.Fatalf("expected most-recent-first [q3 q2], got %+v", recent)
	}

	// Reading must not disturb stored order for future truncation.
	_ = bank.Record(ctx, []domain.AnsweredQuestion{missed("q4", 0)})
	all := bank.Recent(ctx, 10)
	if all[0].ID != "q4" || all[len(all)-1].ID != "q1" {
		t.Fatalf("stored order disturbed: %+v", all)
	}
}

func question(id string) domain.Question {
	return domain.Question{
		ID:           id,
		Text:         "text for " + id,
		Options:      []string{"a", "b", "c", "d"},
		CorrectIndex: 1,
		Subject:      "Polity",
		Topic:        "General",
		Kind:         domain.KindStandard,
	}
}

func missed(id string, wrongIdx int) domain.AnsweredQuestion {
	q := question(id)
	if wrongIdx == q.CorrectIndex {
		wrongIdx = q.CorrectIndex + 1
	}
	sel := wrongIdx
	return domain.AnsweredQuestion{Question: q, Selected: &sel}
}
