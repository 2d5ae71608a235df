package usecase

import "github.com/cecepns/stroke-care/internal/domain"

// Screening answers are letter grades per question: A is the highest-risk
// option, C the lowest. The score is a fixed lookup, not a formula the
// client controls.
var answerPoints = map[string]int{
	"A": 3,
	"B": 1,
	"C": 0,
}

// ScreeningResult is the scored outcome of a questionnaire.
type ScreeningResult struct {
	Score     int
	Category  string
	RiskLevel string
}

// ScoreScreening computes the score and risk banding from the submitted
// answers. Bands: 0-4 low, 5-8 medium, 9+ high.
func ScoreScreening(answers map[string]string) ScreeningResult {
	score := 0
	for _, answer := range answers {
		score += answerPoints[answer]
	}

	result := ScreeningResult{Score: score}
	switch {
	case score <= 4:
		result.Category = "BERISIKO RENDAH"
		result.RiskLevel = domain.RiskLow
	case score <= 8:
		result.Category = "BERISIKO SEDANG"
		result.RiskLevel = domain.RiskMedium
	default:
		result.Category = "BERISIKO TINGGI"
		result.RiskLevel = domain.RiskHigh
	}
	return result
}
