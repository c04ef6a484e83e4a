package scoring

import (
	"math"

	"upsc-trainer/internal/domain"
)

// Default marking scheme: +2 per correct answer, -0.66 per wrong answer.
const (
	DefaultMarksPerCorrect = 2.0
	DefaultNegativeMark    = 0.66
)

// ScoreResult summarizes one scored answer sheet.
type ScoreResult struct {
	Correct           int
	Wrong             int
	Skipped           int
	Attempted         int
	Score             float64
	AttemptedAccuracy int
}

// Score grades an answer map against a question list with negative marking.
// A missing key in answers means the question was skipped. The raw score may
// be negative and is rounded half-up at the second decimal.
func Score(questions []domain.Question, answers map[string]int, marksPerCorrect, negativeMark float64) ScoreResult {
	var res ScoreResult
	for _, q := range questions {
		sel, ok := answers[q.ID]
		switch {
		case !ok:
			res.Skipped++
		case sel == q.CorrectIndex:
			res.Correct++
		default:
			res.Wrong++
		}
	}

	res.Attempted = res.Correct + res.Wrong
	raw := float64(res.Correct)*marksPerCorrect - float64(res.Wrong)*negativeMark
	res.Score = round2(raw)
	if res.Attempted > 0 {
		res.AttemptedAccuracy = Percent(res.Correct, res.Attempted)
	}
	return res
}

// Percent computes round(part/whole*100), returning 0 when whole is 0.
func Percent(part, whole int) int {
	if whole == 0 {
		return 0
	}
	return int(math.Round(float64(part) / float64(whole) * 100))
}

// round2 rounds half away from zero at two decimal places, so -0.66 survives
// the float trip intact.
func round2(v float64) float64 {
	return math.Round(v*100) / 100
}
