package cli

import (
	"context"
	"fmt"
	"sort"
	"strings"

	"github.com/spf13/cobra"

	"upsc-trainer/internal/config"
	"upsc-trainer/internal/scoring"
)

// NewStatsCmd prints the study dashboard to stdout.
func NewStatsCmd(configPath *string) *cobra.Command {
	return &cobra.Command{
		Use:   "stats",
		Short: "Show lifetime study statistics",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runStats(cmd.Context(), *configPath)
		},
	}
}

func runStats(ctx context.Context, configPath string) error {
	cfg, err := config.Load(configPath)
	if err != nil {
		return err
	}
	service, _, cleanup, err := buildTrainer(ctx, cfg)
	if err != nil {
		return err
	}
	defer cleanup()

	stats := service.Stats(ctx)

	fmt.Printf("Questions attempted: %d\n", stats.TotalQuestions)
	fmt.Printf("Overall accuracy:    %d%%\n", stats.Accuracy)
	fmt.Printf("Study time:          %s\n", scoring.FormatDuration(stats.StudyMinutes*60))

	if len(stats.Subjects) > 0 {
		fmt.Println("\nBy subject:")
		names := make([]string, 0, len(stats.Subjects))
		for name := range stats.Subjects {
			names = append(names, name)
		}
		sort.Strings(names)
		for _, name := range names {
			s := stats.Subjects[name]
			fmt.Printf("  %-20s %3d%%  (%d/%d)\n", name, s.Accuracy, s.Correct, s.Questions)
		}
	}

	if len(stats.Strong) > 0 {
		fmt.Printf("\nStrong:   %s\n", strings.Join(stats.Strong, ", "))
	}
	if len(stats.Moderate) > 0 {
		fmt.Printf("Moderate: %s\n", strings.Join(stats.Moderate, ", "))
	}
	if len(stats.Weak) > 0 {
		fmt.Printf("Weak:     %s\n", strings.Join(stats.Weak, ", "))
	}

	if len(stats.AccuracyTrend) > 0 {
		parts := make([]string, len(stats.AccuracyTrend))
		for i, pct := range stats.AccuracyTrend {
			parts[i] = fmt.Sprintf("%d", pct)
		}
		fmt.Printf("\nRecent accuracy: %s\n", strings.Join(parts, " "))
	}
	return nil
}
