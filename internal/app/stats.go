package app

import (
	"sort"

	"upsc-trainer/internal/domain"
	"upsc-trainer/internal/scoring"
)

// Accuracy bands used to bucket subjects on the stats view.
const (
	strongThreshold   = 65
	moderateThreshold = 40
	trendLength       = 10
)

// ComputeStats folds the full result history into lifetime totals, per-subject
// buckets and the rolling accuracy trend. It is a pure fold: stats are derived
// on demand and never persisted.
func ComputeStats(history []domain.Result) domain.Stats {
	stats := domain.Stats{
		Subjects:      make(map[string]domain.SubjectStat),
		AccuracyTrend: []int{},
	}

	totalCorrect := 0
	totalSeconds := 0
	trend := make([]int, 0, len(history))

	for _, r := range history {
		stats.TotalQuestions += r.Total
		totalCorrect += r.Correct
		totalSeconds += r.TimeSpent

		// Trend uses the result's own total, not the attempted count.
		trend = append(trend, scoring.Percent(r.Correct, r.Total))

		subject := r.Subject
		if subject == "" {
			subject = "Mixed"
		}
		bucket := stats.Subjects[subject]
		bucket.Questions += r.Total
		bucket.Correct += r.Correct
		stats.Subjects[subject] = bucket
	}

	stats.Accuracy = scoring.Percent(totalCorrect, stats.TotalQuestions)
	stats.StudyMinutes = (totalSeconds + 30) / 60

	for name, bucket := range stats.Subjects {
		bucket.Accuracy = scoring.Percent(bucket.Correct, bucket.Questions)
		stats.Subjects[name] = bucket

		switch {
		case bucket.Accuracy > strongThreshold:
			stats.Strong = append(stats.Strong, name)
		case bucket.Accuracy >= moderateThreshold:
			stats.Moderate = append(stats.Moderate, name)
		default:
			stats.Weak = append(stats.Weak, name)
		}
	}
	sort.Strings(stats.Strong)
	sort.Strings(stats.Moderate)
	sort.Strings(stats.Weak)

	// Most recent sessions only, oldest-to-newest.
	if len(trend) > trendLength {
		trend = trend[len(trend)-trendLength:]
	}
	stats.AccuracyTrend = trend
	return stats
}
