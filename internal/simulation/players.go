package simulation

import (
	"math/rand"
	"time"

	"github.com/quizforge/backend/internal/domain/questionbank"
)

// wrongAnswer picks something that never matches the expected answer.
func wrongAnswer(q questionbank.Question) string {
	for _, opt := range q.Options {
		if opt != q.Answer {
			return opt
		}
	}
	return q.Answer + " (wrong)"
}

// Expert answers everything correctly and quickly.
type Expert struct{}

func (Expert) Name() string { return "expert" }

func (Expert) Play(q questionbank.Question, _ int) Move {
	return Move{Answer: q.Answer, Think: 4 * time.Second}
}

// Struggler answers everything wrong and slowly.
type Struggler struct{}

func (Struggler) Name() string { return "struggler" }

func (Struggler) Play(q questionbank.Question, _ int) Move {
	return Move{Answer: wrongAnswer(q), Think: 45 * time.Second}
}

// Novice only knows easy questions and skips hard ones.
type Novice struct{}

func (Novice) Name() string { return "novice" }

func (Novice) Play(q questionbank.Question, _ int) Move {
	switch q.Difficulty {
	case questionbank.Easy:
		return Move{Answer: q.Answer, Think: 8 * time.Second}
	case questionbank.Hard:
		return Move{Skip: true, Think: 3 * time.Second}
	default:
		return Move{Answer: wrongAnswer(q), Think: 20 * time.Second}
	}
}

// Guesser picks a random option with a random think time.
type Guesser struct {
	rng *rand.Rand
}

func NewGuesser(seed int64) *Guesser {
	return &Guesser{rng: rand.New(rand.NewSource(seed))}
}

func (g *Guesser) Name() string { return "guesser" }

func (g *Guesser) Play(q questionbank.Question, _ int) Move {
	think := time.Duration(2+g.rng.Intn(40)) * time.Second
	if len(q.Options) == 0 {
		return Move{Skip: true, Think: think}
	}
	return Move{Answer: q.Options[g.rng.Intn(len(q.Options))], Think: think}
}

// DefaultPlayers returns one of each built-in player.
func DefaultPlayers(seed int64) []Player {
	return []Player{Expert{}, Struggler{}, Novice{}, NewGuesser(seed)}
}
