package quizengine

import "errors"

var (
	// ErrEmptyPool is returned by Initialize when there are no candidate questions.
	ErrEmptyPool = errors.New("quiz engine: question pool is empty")
	// ErrInvalidTargetSize is returned by Initialize for a non-positive target.
	ErrInvalidTargetSize = errors.New("quiz engine: target size must be positive")
	// ErrSessionExhausted is returned once every selected question was answered.
	ErrSessionExhausted = errors.New("quiz engine: session exhausted")
	// ErrNoQuestionServed is returned by SubmitAnswer before CurrentQuestion.
	ErrNoQuestionServed = errors.New("quiz engine: no question served for the current index")
)
