package app

import (
	"reflect"
	"testing"

	"upsc-trainer/internal/domain"
)

func TestComputeStatsEmptyHistory(t *testing.T) {
	stats := ComputeStats(nil)
	if stats.TotalQuestions != 0 || stats.Accuracy != 0 || stats.StudyMinutes != 0 {
		t.Fatalf("expected zeroed stats, got %+v", stats)
	}
	if len(stats.AccuracyTrend) != 0 {
		t.Fatalf("expected empty trend, got %v", stats.AccuracyTrend)
	}
	if len(stats.Subjects) != 0 {
		t.Fatalf("expected no subject buckets, got %v", stats.Subjects)
	}
}

func TestComputeStatsSingleSession(t *testing.T) {
	history := []domain.Result{
		{Subject: "Polity", Total: 5, Correct: 3, TimeSpent: 120},
	}
	stats := ComputeStats(history)

	if stats.TotalQuestions != 5 {
		t.Fatalf("expected 5 questions, got %d", stats.TotalQuestions)
	}
	if stats.Accuracy != 60 {
		t.Fatalf("expected 60%% accuracy, got %d", stats.Accuracy)
	}
	if stats.StudyMinutes != 2 {
		t.Fatalf("expected 2 study minutes, got %d", stats.StudyMinutes)
	}
	if got := stats.Subjects["Polity"]; got.Questions != 5 || got.Correct != 3 || got.Accuracy != 60 {
		t.Fatalf("unexpected Polity bucket: %+v", got)
	}
	if !reflect.DeepEqual(stats.AccuracyTrend, []int{60}) {
		t.Fatalf("unexpected trend: %v", stats.AccuracyTrend)
	}
}

func TestComputeStatsEmptySubjectIsMixed(t *testing.T) {
	stats := ComputeStats([]domain.Result{{Total: 4, Correct: 2}})
	if _, ok := stats.Subjects["Mixed"]; !ok {
		t.Fatalf("expected Mixed bucket, got %v", stats.Subjects)
	}
}

func TestComputeStatsTrendKeepsLastTen(t *testing.T) {
	history := make([]domain.Result, 12)
	for i := range history {
		history[i] = domain.Result{Subject: "Polity", Total: 10, Correct: i} // 0%..110% capped by data
	}
	stats := ComputeStats(history)

	if len(stats.AccuracyTrend) != 10 {
		t.Fatalf("expected trend of 10, got %d", len(stats.AccuracyTrend))
	}
	// Oldest-to-newest: sessions 2..11 survive.
	if stats.AccuracyTrend[0] != 20 || stats.AccuracyTrend[9] != 110 {
		t.Fatalf("unexpected trend window: %v", stats.AccuracyTrend)
	}
}

func TestComputeStatsSwotBuckets(t *testing.T) {
	history := []domain.Result{
		{Subject: "Polity", Total: 10, Correct: 9},   // 90 strong
		{Subject: "Economy", Total: 10, Correct: 5},  // 50 moderate
		{Subject: "Geography", Total: 10, Correct: 4}, // 40 moderate (boundary)
		{Subject: "History", Total: 10, Correct: 2},  // 20 weak
	}
	stats := ComputeStats(history)

	if !reflect.DeepEqual(stats.Strong, []string{"Polity"}) {
		t.Fatalf("strong: %v", stats.Strong)
	}
	if !reflect.DeepEqual(stats.Moderate, []string{"Economy", "Geography"}) {
		t.Fatalf("moderate: %v", stats.Moderate)
	}
	if !reflect.DeepEqual(stats.Weak, []string{"History"}) {
		t.Fatalf("weak: %v", stats.Weak)
	}
}

func TestComputeStatsStudyMinutesRounds(t *testing.T) {
	// 89s rounds to 1 minute, 90s to 2.
	if got := ComputeStats([]domain.Result{{Total: 1, TimeSpent: 89}}).StudyMinutes; got != 1 {
		t.Fatalf("89s: expected 1 minute, got %d", got)
	}
	if got := ComputeStats([]domain.Result{{Total: 1, TimeSpent: 90}}).StudyMinutes; got != 2 {
		t.Fatalf("90s: expected 2 minutes, got %d", got)
	}
}
