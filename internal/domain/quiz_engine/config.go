package quizengine

import "time"

// DefaultTargetSize is the number of questions drawn per session.
const DefaultTargetSize = 25

// Config holds the tunables of one engine.
type Config struct {
	TargetSize int           // questions per session, capped at the pool size
	FastAnswer time.Duration // correct answers quicker than this step difficulty up
	SlowAnswer time.Duration // answers slower than this step difficulty down
}

// DefaultConfig returns the 25-question, 10s/30s ladder.
func DefaultConfig() Config {
	return Config{
		TargetSize: DefaultTargetSize,
		FastAnswer: 10 * time.Second,
		SlowAnswer: 30 * time.Second,
	}
}
