package storage_test

import (
	"context"
	"testing"

	"upsc-trainer/internal/domain"
	"upsc-trainer/internal/infra/memory"
	"upsc-trainer/internal/infra/storage"
)

func TestPrefsDefaults(t *testing.T) {
	ctx := context.Background()
	prefs := storage.NewPrefs(memory.NewStore())

	if theme := prefs.Theme(ctx); theme != "light" {
		t.Fatalf("expected light default, got %q", theme)
	}
	if size := prefs.FontSize(ctx); size != "md" {
		t.Fatalf("expected md default, got %q", size)
	}
	if _, ok := prefs.QuizConfig(ctx); ok {
		t.Fatalf("expected no pending config")
	}
	if _, ok := prefs.Checkpoint(ctx); ok {
		t.Fatalf("expected no checkpoint")
	}
}

func TestPrefsQuizConfigRoundTrip(t *testing.T) {
	ctx := context.Background()
	prefs := storage.NewPrefs(memory.NewStore())

	cfg := domain.NewSessionConfig(domain.ModeTest, domain.PaperCSAT, "Mathematics", "Percentage", 20)
	if err := prefs.SaveQuizConfig(ctx, cfg); err != nil {
		t.Fatalf("save config: %v", err)
	}
	got, ok := prefs.QuizConfig(ctx)
	if !ok {
		t.Fatalf("expected config back")
	}
	if got.TimeLimit != 20*90 {
		t.Fatalf("csat time limit should be count*90, got %d", got.TimeLimit)
	}
	if got.Subject != "Mathematics" || got.Mode != domain.ModeTest {
		t.Fatalf("config mangled: %+v", got)
	}
}

func TestCheckpointLifecycle(t *testing.T) {
	ctx := context.Background()
	prefs := storage.NewPrefs(memory.NewStore())

	cp := domain.Checkpoint{
		Answers:      map[string]int{"q1": 2},
		CurrentIndex: 3,
		TimeSpent:    map[string]int{"q1": 40},
	}
	if err := prefs.SaveCheckpoint(ctx, cp); err != nil {
		t.Fatalf("save checkpoint: %v", err)
	}
	got, ok := prefs.Checkpoint(ctx)
	if !ok || got.CurrentIndex != 3 || got.Answers["q1"] != 2 {
		t.Fatalf("checkpoint mangled: %+v ok=%v", got, ok)
	}

	if err := prefs.ClearCheckpoint(ctx); err != nil {
		t.Fatalf("clear checkpoint: %v", err)
	}
	if _, ok := prefs.Checkpoint(ctx); ok {
		t.Fatalf("expected checkpoint cleared")
	}
}

func TestClearHistoryKeepsPrefs(t *testing.T) {
	ctx := context.Background()
	store := memory.NewStore()
	prefs := storage.NewPrefs(store)
	history := storage.NewHistoryStore(store)

	_ = prefs.SetTheme(ctx, "dark")
	_ = history.Append(ctx, sampleResult("Polity", 3, 5))

	if err := prefs.ClearHistory(ctx); err != nil {
		t.Fatalf("clear history: %v", err)
	}
	if got := history.All(ctx); len(got) != 0 {
		t.Fatalf("expected history wiped, got %d", len(got))
	}
	if theme := prefs.Theme(ctx); theme != "dark" {
		t.Fatalf("display prefs must survive clear-history, got %q", theme)
	}

	if err := prefs.FactoryReset(ctx); err != nil {
		t.Fatalf("factory reset: %v", err)
	}
	if theme := prefs.Theme(ctx); theme != "light" {
		t.Fatalf("factory reset should drop prefs, got %q", theme)
	}
}
