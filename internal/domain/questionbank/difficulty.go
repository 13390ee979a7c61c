package questionbank

import "fmt"

// Difficulty is the coarse complexity tag used by the adaptive ladder.
type Difficulty string

const (
	Easy   Difficulty = "easy"
	Medium Difficulty = "medium"
	Hard   Difficulty = "hard"
)

// Levels lists the difficulties in ladder order, easiest first.
var Levels = []Difficulty{Easy, Medium, Hard}

// Index returns the position of d in Levels, or -1 for an unknown value.
func (d Difficulty) Index() int {
	for i, l := range Levels {
		if l == d {
			return i
		}
	}
	return -1
}

func (d Difficulty) Valid() bool {
	return d.Index() >= 0
}

// ParseDifficulty accepts the canonical lowercase names.
func ParseDifficulty(s string) (Difficulty, error) {
	d := Difficulty(s)
	if !d.Valid() {
		return "", fmt.Errorf("invalid difficulty %q: must be easy, medium, or hard", s)
	}
	return d, nil
}

// Kind discriminates the question variants.
type Kind string

const (
	KindMultipleChoice Kind = "multiple_choice"
	KindFillBlank      Kind = "fill_blank"
	KindShortAnswer    Kind = "short_answer"
)

func (k Kind) Valid() bool {
	switch k {
	case KindMultipleChoice, KindFillBlank, KindShortAnswer:
		return true
	}
	return false
}

// ParseKind maps an empty string to KindMultipleChoice.
func ParseKind(s string) (Kind, error) {
	if s == "" {
		return KindMultipleChoice, nil
	}
	k := Kind(s)
	if !k.Valid() {
		return "", fmt.Errorf("invalid kind %q: must be multiple_choice, fill_blank, or short_answer", s)
	}
	return k, nil
}
