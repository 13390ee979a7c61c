package questionbank

import (
	"errors"
	"fmt"
	"slices"
	"strings"
)

// Question is an immutable record from the question source.
// Options is only populated for KindMultipleChoice.
type Question struct {
	ID          string
	Topic       string
	Difficulty  Difficulty
	Kind        Kind
	Prompt      string
	Options     []string
	Answer      string
	Explanation string
}

// Validate enforces the record invariants: a known difficulty and kind,
// and for multiple choice an answer that is one of the options.
func (q Question) Validate() error {
	if strings.TrimSpace(q.Prompt) == "" {
		return errors.New("question prompt cannot be empty")
	}
	if strings.TrimSpace(q.Topic) == "" {
		return errors.New("question topic cannot be empty")
	}
	if !q.Difficulty.Valid() {
		return fmt.Errorf("invalid difficulty %q", q.Difficulty)
	}
	if !q.Kind.Valid() {
		return fmt.Errorf("invalid kind %q", q.Kind)
	}
	if q.Answer == "" {
		return errors.New("question answer cannot be empty")
	}

	if q.Kind == KindMultipleChoice {
		if len(q.Options) < 2 {
			return errors.New("multiple choice question needs at least two options")
		}
		if !slices.Contains(q.Options, q.Answer) {
			return fmt.Errorf("answer %q is not one of the options", q.Answer)
		}
		return nil
	}

	if len(q.Options) > 0 {
		return fmt.Errorf("%s question cannot have options", q.Kind)
	}
	return nil
}

// IsCorrect reports whether value answers the question. Multiple choice
// compares option text exactly; free-text kinds ignore case and
// surrounding whitespace.
func (q Question) IsCorrect(value string) bool {
	if q.Kind == KindMultipleChoice {
		return value == q.Answer
	}
	return strings.EqualFold(strings.TrimSpace(value), strings.TrimSpace(q.Answer))
}

// Clone returns a copy that shares no slices with q.
func (q Question) Clone() Question {
	q.Options = slices.Clone(q.Options)
	return q
}
