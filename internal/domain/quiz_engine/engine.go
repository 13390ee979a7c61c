package quizengine

import (
	"math/rand"
	"slices"
	"time"

	"github.com/quizforge/backend/internal/domain/questionbank"
)

// AnswerEvent is the telemetry recorded for one answered or skipped question.
type AnswerEvent struct {
	QuestionID       string
	Topic            string
	Difficulty       questionbank.Difficulty // difficulty of the served question
	TargetDifficulty questionbank.Difficulty // ladder level when it was chosen
	TimeTaken        time.Duration
	IsCorrect        bool
	Skipped          bool
	Answer           string
}

// TimeTakenSeconds returns TimeTaken as fractional seconds.
func (e AnswerEvent) TimeTakenSeconds() float64 {
	return e.TimeTaken.Seconds()
}

// SessionState is the mutable state of one quiz attempt.
type SessionState struct {
	SelectedQuestions []questionbank.Question
	CurrentIndex      int
	Score             int
	CurrentDifficulty questionbank.Difficulty
	BehaviorLog       []AnswerEvent
}

func (s SessionState) clone() SessionState {
	out := s
	out.SelectedQuestions = make([]questionbank.Question, len(s.SelectedQuestions))
	for i, q := range s.SelectedQuestions {
		out.SelectedQuestions[i] = q.Clone()
	}
	out.BehaviorLog = slices.Clone(s.BehaviorLog)
	return out
}

// SubmitResult is returned after every answer.
type SubmitResult struct {
	IsCorrect      bool
	CorrectAnswer  string
	NextDifficulty questionbank.Difficulty
	IsFinished     bool
	Event          AnswerEvent
}

// Engine runs one adaptive quiz attempt. It is not safe for concurrent use;
// callers sharing an Engine must serialize access themselves.
type Engine struct {
	cfg Config
	rng *rand.Rand
	now func() time.Time

	state     SessionState
	servedAt  time.Time
	servedIdx int // index the pending serve belongs to, -1 if none
}

// Option customizes an Engine.
type Option func(*Engine)

// WithRand makes selection and shuffling use r.
func WithRand(r *rand.Rand) Option {
	return func(e *Engine) { e.rng = r }
}

// WithClock replaces time.Now for answer timing.
func WithClock(now func() time.Time) Option {
	return func(e *Engine) { e.now = now }
}

// New creates an engine. Initialize must be called before serving questions.
func New(cfg Config, opts ...Option) *Engine {
	def := DefaultConfig()
	if cfg.TargetSize <= 0 {
		cfg.TargetSize = def.TargetSize
	}
	if cfg.FastAnswer <= 0 {
		cfg.FastAnswer = def.FastAnswer
	}
	if cfg.SlowAnswer <= 0 {
		cfg.SlowAnswer = def.SlowAnswer
	}

	e := &Engine{
		cfg:       cfg,
		now:       time.Now,
		servedIdx: -1,
		state:     SessionState{CurrentDifficulty: questionbank.Medium},
	}
	for _, opt := range opts {
		opt(e)
	}
	if e.rng == nil {
		e.rng = rand.New(rand.NewSource(time.Now().UnixNano()))
	}
	return e
}

// Config returns the engine configuration.
func (e *Engine) Config() Config {
	return e.cfg
}

// Initialize selects a balanced subset of pool and resets the session.
//
// One question per (topic, difficulty) pair is taken first, topics in
// first-seen order and difficulties easy to hard. Any remaining capacity
// is filled with uniformly random picks, then the selection is shuffled.
// The pool is never modified.
func (e *Engine) Initialize(pool []questionbank.Question, targetSize int) error {
	if len(pool) == 0 {
		return ErrEmptyPool
	}
	if targetSize <= 0 {
		return ErrInvalidTargetSize
	}
	target := min(targetSize, len(pool))

	remaining := make([]questionbank.Question, len(pool))
	for i, q := range pool {
		remaining[i] = q.Clone()
	}
	selected := make([]questionbank.Question, 0, target)

	take := func(i int) {
		selected = append(selected, remaining[i])
		remaining = slices.Delete(remaining, i, i+1)
	}

balance:
	for _, topic := range questionbank.Topics(remaining) {
		for _, d := range questionbank.Levels {
			if len(selected) >= target {
				break balance
			}
			i := slices.IndexFunc(remaining, func(q questionbank.Question) bool {
				return q.Topic == topic && q.Difficulty == d
			})
			if i >= 0 {
				take(i)
			}
		}
	}

	for len(selected) < target && len(remaining) > 0 {
		take(e.rng.Intn(len(remaining)))
	}

	e.rng.Shuffle(len(selected), func(i, j int) {
		selected[i], selected[j] = selected[j], selected[i]
	})

	e.state = SessionState{
		SelectedQuestions: selected,
		CurrentIndex:      0,
		Score:             0,
		CurrentDifficulty: questionbank.Medium,
		BehaviorLog:       []AnswerEvent{},
	}
	e.servedIdx = -1
	e.servedAt = time.Time{}
	return nil
}

// CurrentQuestion serves the question at the cursor. The first not-yet-served
// question matching the current difficulty is swapped to the cursor; if none
// matches, the question already there is served. Serving starts the answer
// timer, and serving again restarts it.
func (e *Engine) CurrentQuestion() (questionbank.Question, error) {
	s := &e.state
	if s.CurrentIndex >= len(s.SelectedQuestions) {
		return questionbank.Question{}, ErrSessionExhausted
	}

	rest := s.SelectedQuestions[s.CurrentIndex:]
	if i := slices.IndexFunc(rest, func(q questionbank.Question) bool {
		return q.Difficulty == s.CurrentDifficulty
	}); i > 0 {
		rest[0], rest[i] = rest[i], rest[0]
	}

	e.servedAt = e.now()
	e.servedIdx = s.CurrentIndex
	return rest[0].Clone(), nil
}

// SubmitAnswer grades value against the served question, records the
// answer event, moves the difficulty ladder and advances the cursor.
func (e *Engine) SubmitAnswer(value string) (SubmitResult, error) {
	return e.submit(value, false)
}

// Skip records the served question as skipped, which always counts as wrong.
func (e *Engine) Skip() (SubmitResult, error) {
	return e.submit("", true)
}

func (e *Engine) submit(value string, skipped bool) (SubmitResult, error) {
	s := &e.state
	if s.CurrentIndex >= len(s.SelectedQuestions) {
		return SubmitResult{}, ErrSessionExhausted
	}
	if e.servedIdx != s.CurrentIndex {
		return SubmitResult{}, ErrNoQuestionServed
	}

	q := s.SelectedQuestions[s.CurrentIndex]
	elapsed := max(e.now().Sub(e.servedAt), 0)
	correct := !skipped && q.IsCorrect(value)

	event := AnswerEvent{
		QuestionID:       q.ID,
		Topic:            q.Topic,
		Difficulty:       q.Difficulty,
		TargetDifficulty: s.CurrentDifficulty,
		TimeTaken:        elapsed,
		IsCorrect:        correct,
		Skipped:          skipped,
		Answer:           value,
	}
	s.BehaviorLog = append(s.BehaviorLog, event)
	if correct {
		s.Score++
	}
	s.CurrentDifficulty = NextDifficulty(s.CurrentDifficulty, correct, elapsed, e.cfg.FastAnswer, e.cfg.SlowAnswer)
	s.CurrentIndex++
	e.servedIdx = -1

	return SubmitResult{
		IsCorrect:      correct,
		CorrectAnswer:  q.Answer,
		NextDifficulty: s.CurrentDifficulty,
		IsFinished:     s.CurrentIndex >= len(s.SelectedQuestions),
		Event:          event,
	}, nil
}

// State returns a deep copy of the session state.
func (e *Engine) State() SessionState {
	return e.state.clone()
}

// Finished reports whether every selected question has been answered.
func (e *Engine) Finished() bool {
	return e.state.CurrentIndex >= len(e.state.SelectedQuestions)
}

// Progress returns the cursor and the session length.
func (e *Engine) Progress() (index, total int) {
	return e.state.CurrentIndex, len(e.state.SelectedQuestions)
}

// Difficulty returns the ladder level used to pick the next question.
func (e *Engine) Difficulty() questionbank.Difficulty {
	return e.state.CurrentDifficulty
}

// Score returns the number of correct answers so far.
func (e *Engine) Score() int {
	return e.state.Score
}
