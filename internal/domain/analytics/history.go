package analytics

import (
	"time"

	quizengine "github.com/quizforge/backend/internal/domain/quiz_engine"
)

// AttemptLog is the stored record of one quiz attempt.
type AttemptLog struct {
	SessionID  string
	StartedAt  time.Time
	Finished   bool
	Score      int
	TargetSize int
	Log        []quizengine.AnswerEvent
}

// Attempt is one summarized entry of a bank's quiz history.
type Attempt struct {
	Number    int // 1-based, in the order the attempts were started
	SessionID string
	StartedAt time.Time
	Finished  bool
	Summary   Summary
}

// QuestionStats tracks one question across attempts.
type QuestionStats struct {
	QuestionID    string
	Topic         string
	TimesAnswered int
	TimesCorrect  int
	LatestCorrect bool
}

// Mastery is 0-100: the latest answer weighs 60% and the earlier average 40%.
func (qs QuestionStats) Mastery() int {
	if qs.TimesAnswered == 0 {
		return 0
	}

	latest := 0
	if qs.LatestCorrect {
		latest = 100
	}
	if qs.TimesAnswered == 1 {
		return latest
	}

	earlierCorrect := qs.TimesCorrect
	if qs.LatestCorrect {
		earlierCorrect--
	}
	historicalAvg := float64(earlierCorrect) * 100 / float64(qs.TimesAnswered-1)

	mastery := int(float64(latest)*0.6 + historicalAvg*0.4)
	return min(max(mastery, 0), 100)
}

// History aggregates every attempt made on one bank.
type History struct {
	TotalQuizzes      int
	AveragePercentage float64

	TopicOrder       []string
	TopicPerformance map[string]Performance
	Questions        []QuestionStats // in first-answered order

	Attempts []Attempt
}

// Mastery averages the mastery of every answered question.
func (h History) Mastery() int {
	if len(h.Questions) == 0 {
		return 0
	}
	total := 0
	for _, q := range h.Questions {
		total += q.Mastery()
	}
	return total / len(h.Questions)
}

// Combine folds attempts, oldest first, into a History. Attempts with no
// answers are left out.
func Combine(attempts []AttemptLog) History {
	h := History{TopicPerformance: make(map[string]Performance)}
	questions := make(map[string]int) // question id → index in h.Questions

	var percentages float64
	for _, a := range attempts {
		summary, err := Compute(a.Log, a.Score, a.TargetSize)
		if err != nil {
			continue
		}

		h.TotalQuizzes++
		percentages += summary.Percentage
		h.Attempts = append(h.Attempts, Attempt{
			Number:    h.TotalQuizzes,
			SessionID: a.SessionID,
			StartedAt: a.StartedAt,
			Finished:  a.Finished,
			Summary:   summary,
		})

		for _, t := range summary.TopicOrder {
			p, seen := h.TopicPerformance[t]
			if !seen {
				h.TopicOrder = append(h.TopicOrder, t)
			}
			tp := summary.TopicPerformance[t]
			h.TopicPerformance[t] = Performance{Correct: p.Correct + tp.Correct, Total: p.Total + tp.Total}
		}

		for _, ev := range a.Log {
			i, seen := questions[ev.QuestionID]
			if !seen {
				i = len(h.Questions)
				questions[ev.QuestionID] = i
				h.Questions = append(h.Questions, QuestionStats{QuestionID: ev.QuestionID, Topic: ev.Topic})
			}
			q := &h.Questions[i]
			q.TimesAnswered++
			if ev.IsCorrect {
				q.TimesCorrect++
			}
			q.LatestCorrect = ev.IsCorrect
		}
	}

	if h.TotalQuizzes > 0 {
		h.AveragePercentage = percentages / float64(h.TotalQuizzes)
	}
	return h
}
