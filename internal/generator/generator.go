package generator

import (
	"context"
	"fmt"

	"github.com/quizforge/backend/internal/domain/questionbank"
)

// Generator turns study material into topics and questions.
// Implementations may call an LLM or return canned results (for tests).
type Generator interface {
	// ExtractTopics lists the main topics covered by text.
	ExtractTopics(ctx context.Context, text string) ([]string, error)
	// GenerateQuestions returns validated questions for req. Invalid
	// questions returned by the backend are dropped, not reported.
	GenerateQuestions(ctx context.Context, req Request) ([]questionbank.Question, error)
}

// Request describes one batch of questions to generate.
type Request struct {
	Topic      string
	SourceText string                  // optional reference material
	Count      int                     // number of questions wanted
	Difficulty questionbank.Difficulty // empty = mixed difficulties
	BloomFocus string                  // optional, e.g. "Remember" or "Analyze"
}

// GenerationError is returned when generation fails so the caller can
// tell "the model answered badly" apart from "the model was unreachable".
type GenerationError struct {
	Reason  string
	Wrapped error
}

func (e *GenerationError) Error() string {
	if e.Wrapped != nil {
		return fmt.Sprintf("generation failed: %s: %v", e.Reason, e.Wrapped)
	}
	return fmt.Sprintf("generation failed: %s", e.Reason)
}

func (e *GenerationError) Unwrap() error {
	return e.Wrapped
}
