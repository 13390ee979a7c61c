// simulation/simulation.go
package simulation

import (
	"errors"
	"fmt"
	"math/rand"
	"strconv"
	"time"

	"github.com/quizforge/backend/internal/domain/analytics"
	"github.com/quizforge/backend/internal/domain/questionbank"
	quizengine "github.com/quizforge/backend/internal/domain/quiz_engine"
	"github.com/quizforge/backend/internal/worker"
)

// Move is what a simulated player does with one served question.
type Move struct {
	Answer string
	Skip   bool
	Think  time.Duration // time spent before answering
}

// Player decides a Move for each served question. step counts from 0.
type Player interface {
	Name() string
	Play(q questionbank.Question, step int) Move
}

// Step records one round of a simulated session.
type Step struct {
	Question questionbank.Question
	Target   questionbank.Difficulty
	Move     Move
	Result   quizengine.SubmitResult
}

// Result is the outcome of one simulated session.
type Result struct {
	Player         string
	Steps          []Step
	State          quizengine.SessionState
	Summary        analytics.Summary
	Recommendation analytics.Recommendation
}

// clock is a manual clock advanced by each Move's think time.
type clock struct {
	t time.Time
}

func (c *clock) now() time.Time { return c.t }

// Run plays one full session of bank with p. The same seed always produces
// the same selection and order.
func Run(bank *questionbank.QuestionBank, targetSize int, p Player, seed int64) (*Result, error) {
	c := &clock{t: time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)}
	e := quizengine.New(quizengine.DefaultConfig(),
		quizengine.WithRand(rand.New(rand.NewSource(seed))),
		quizengine.WithClock(c.now),
	)
	if err := e.Initialize(bank.Questions, targetSize); err != nil {
		return nil, err
	}

	res := &Result{Player: p.Name()}
	for step := 0; !e.Finished(); step++ {
		target := e.Difficulty()
		q, err := e.CurrentQuestion()
		if err != nil {
			return nil, err
		}

		move := p.Play(q, step)
		c.t = c.t.Add(move.Think)

		var out quizengine.SubmitResult
		if move.Skip {
			out, err = e.Skip()
		} else {
			out, err = e.SubmitAnswer(move.Answer)
		}
		if err != nil {
			return nil, err
		}
		res.Steps = append(res.Steps, Step{Question: q, Target: target, Move: move, Result: out})
	}

	res.State = e.State()
	summary, err := analytics.Compute(res.State.BehaviorLog, res.State.Score, len(res.State.SelectedQuestions))
	if err != nil {
		return nil, err
	}
	res.Summary = summary
	res.Recommendation = analytics.Recommend(summary)
	return res, nil
}

type runOutput struct {
	result *Result
	err    error
}

// RunAll plays one session per player concurrently and returns the results
// in the order of players. Every player gets the same seed.
func RunAll(bank *questionbank.QuestionBank, targetSize int, players []Player, seed int64, workers int) ([]*Result, error) {
	pool := worker.NewPool[runOutput](workers, len(players))
	for i, p := range players {
		pool.Submit(strconv.Itoa(i), func() runOutput {
			r, err := Run(bank, targetSize, p, seed)
			return runOutput{result: r, err: err}
		})
	}
	pool.Close()

	results := make([]*Result, len(players))
	var errs []error
	for out := range pool.Results() {
		i, _ := strconv.Atoi(out.JobID)
		if out.Output.err != nil {
			errs = append(errs, fmt.Errorf("%s: %w", players[i].Name(), out.Output.err))
			continue
		}
		results[i] = out.Output.result
	}
	return results, errors.Join(errs...)
}
