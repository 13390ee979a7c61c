package quizengine

import (
	"time"

	"github.com/quizforge/backend/internal/domain/questionbank"
)

// NextDifficulty applies the ladder rule to one answer:
//   - correct and faster than fast: one level harder
//   - correct otherwise: unchanged
//   - wrong: one level easier
//   - slower than slow: one further level easier
//
// The two decrements stack, so a wrong and slow answer can drop two levels.
// The ladder is clamped to [easy, hard].
func NextDifficulty(current questionbank.Difficulty, correct bool, elapsed, fast, slow time.Duration) questionbank.Difficulty {
	idx := current.Index()
	if idx < 0 {
		idx = questionbank.Medium.Index()
	}
	top := len(questionbank.Levels) - 1

	switch {
	case correct && elapsed < fast:
		idx = min(idx+1, top)
	case correct:
	default:
		idx = max(idx-1, 0)
	}

	if elapsed > slow && idx > 0 {
		idx--
	}

	return questionbank.Levels[idx]
}
