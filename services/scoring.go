package services

import (
	"math"

	"github.com/anjiri1684/quiz_platform/models"
)

// ComputeScore counts correct answers and scores them against the number of
// answers actually recorded, not the attempt's total_questions: skipped
// questions do not lower the score. An empty answer set scores 0.
func ComputeScore(answers []models.Answer) (correct, score int) {
	for _, a := range answers {
		if a.IsCorrect {
			correct++
		}
	}
	return correct, percentage(correct, len(answers))
}

func percentage(part, whole int) int {
	if whole == 0 {
		return 0
	}
	return int(math.Round(float64(part) / float64(whole) * 100))
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}
