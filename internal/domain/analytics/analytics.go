package analytics

import (
	"errors"

	"github.com/quizforge/backend/internal/domain/questionbank"
	quizengine "github.com/quizforge/backend/internal/domain/quiz_engine"
)

// ErrEmptyLog is returned when there is nothing to summarize.
var ErrEmptyLog = errors.New("analytics: behavior log is empty")

// Performance counts correct answers out of total.
type Performance struct {
	Correct int
	Total   int
}

// Accuracy returns the percentage of correct answers, 0 when Total is 0.
func (p Performance) Accuracy() float64 {
	if p.Total == 0 {
		return 0
	}
	return float64(p.Correct) * 100 / float64(p.Total)
}

// Summary is derived from a behavior log and never stored on its own.
type Summary struct {
	Score      int
	TargetSize int
	Percentage float64 // Score / TargetSize, as a percentage
	Answered   int
	Skipped    int

	TopicOrder            []string // topics in the order they were answered
	TopicPerformance      map[string]Performance
	DifficultyPerformance map[questionbank.Difficulty]Performance

	AverageTimeSeconds float64
}

// Overall returns correct/total across the whole log.
func (s Summary) Overall() Performance {
	var p Performance
	for _, d := range questionbank.Levels {
		p.Correct += s.DifficultyPerformance[d].Correct
		p.Total += s.DifficultyPerformance[d].Total
	}
	return p
}

// Compute folds log into per-topic and per-difficulty counts. Difficulty
// groups use the difficulty of the served question; all three levels are
// always present. The headline percentage comes from score, not the log.
// It fails with ErrEmptyLog when log has no events.
func Compute(log []quizengine.AnswerEvent, score, targetSize int) (Summary, error) {
	if len(log) == 0 {
		return Summary{}, ErrEmptyLog
	}

	s := Summary{
		Score:                 score,
		TargetSize:            targetSize,
		Answered:              len(log),
		TopicPerformance:      make(map[string]Performance),
		DifficultyPerformance: make(map[questionbank.Difficulty]Performance, len(questionbank.Levels)),
	}
	if targetSize > 0 {
		s.Percentage = float64(score) * 100 / float64(targetSize)
	}
	for _, d := range questionbank.Levels {
		s.DifficultyPerformance[d] = Performance{}
	}

	var totalSeconds float64
	for _, ev := range log {
		tp, seen := s.TopicPerformance[ev.Topic]
		if !seen {
			s.TopicOrder = append(s.TopicOrder, ev.Topic)
		}
		s.TopicPerformance[ev.Topic] = tally(tp, ev.IsCorrect)
		s.DifficultyPerformance[ev.Difficulty] = tally(s.DifficultyPerformance[ev.Difficulty], ev.IsCorrect)

		if ev.Skipped {
			s.Skipped++
		}
		totalSeconds += ev.TimeTakenSeconds()
	}
	s.AverageTimeSeconds = totalSeconds / float64(len(log))

	return s, nil
}

func tally(p Performance, correct bool) Performance {
	p.Total++
	if correct {
		p.Correct++
	}
	return p
}
