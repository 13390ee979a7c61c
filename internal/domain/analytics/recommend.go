package analytics

import "github.com/quizforge/backend/internal/domain/questionbank"

// Bloom focus labels passed to the question generator for the next round.
const (
	FocusRemember = "Remember"
	FocusMixed    = "Mixed"
	FocusAnalyze  = "Analyze"
)

// Recommendation suggests the settings for the next generated quiz.
type Recommendation struct {
	Difficulty questionbank.Difficulty
	BloomFocus string
}

// Recommend maps a finished round to the next round's settings. Accuracy
// above 80% moves to hard, below 40% to easy. Very fast accurate rounds are
// pushed to hard, and more than two skips always backs off to easy.
func Recommend(s Summary) Recommendation {
	accuracy := s.Overall().Accuracy()

	var rec Recommendation
	switch {
	case accuracy > 80:
		rec = Recommendation{Difficulty: questionbank.Hard, BloomFocus: FocusAnalyze}
	case accuracy < 40:
		rec = Recommendation{Difficulty: questionbank.Easy, BloomFocus: FocusRemember}
	default:
		rec = Recommendation{Difficulty: questionbank.Medium, BloomFocus: FocusMixed}
	}

	if s.AverageTimeSeconds < 10 && accuracy > 70 {
		rec.Difficulty = questionbank.Hard
	}
	if s.Skipped > 2 {
		rec.Difficulty = questionbank.Easy
	}
	return rec
}
