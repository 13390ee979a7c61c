package analytics_test

import (
	"testing"
	"time"

	"github.com/quizforge/backend/internal/domain/analytics"
	"github.com/quizforge/backend/internal/domain/questionbank"
	quizengine "github.com/quizforge/backend/internal/domain/quiz_engine"
)

func TestQuestionStats_Mastery(t *testing.T) {
	tests := []struct {
		name  string
		stats analytics.QuestionStats
		want  int
	}{
		{"never answered", analytics.QuestionStats{}, 0},
		{"first attempt correct", analytics.QuestionStats{TimesAnswered: 1, TimesCorrect: 1, LatestCorrect: true}, 100},
		{"first attempt wrong", analytics.QuestionStats{TimesAnswered: 1}, 0},
		{"wrong then correct", analytics.QuestionStats{TimesAnswered: 2, TimesCorrect: 1, LatestCorrect: true}, 60},
		{"correct then wrong", analytics.QuestionStats{TimesAnswered: 2, TimesCorrect: 1}, 40},
		{"half then correct", analytics.QuestionStats{TimesAnswered: 3, TimesCorrect: 2, LatestCorrect: true}, 80},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.stats.Mastery(); got != tt.want {
				t.Errorf("expected mastery %d, got %d", tt.want, got)
			}
		})
	}
}

func TestCombine(t *testing.T) {
	day := time.Date(2026, 5, 1, 9, 0, 0, 0, time.UTC)
	first := []quizengine.AnswerEvent{
		event("Science", questionbank.Medium, false, 10),
		event("History", questionbank.Easy, true, 10),
	}
	second := []quizengine.AnswerEvent{
		event("Science", questionbank.Medium, true, 5),
		event("Science", questionbank.Hard, true, 5),
	}

	h := analytics.Combine([]analytics.AttemptLog{
		{SessionID: "a", StartedAt: day, Finished: true, Score: 1, TargetSize: 2, Log: first},
		{SessionID: "empty", StartedAt: day.Add(time.Hour), TargetSize: 2},
		{SessionID: "b", StartedAt: day.Add(2 * time.Hour), Score: 2, TargetSize: 2, Log: second},
	})

	if h.TotalQuizzes != 2 || len(h.Attempts) != 2 {
		t.Fatalf("expected 2 attempts, got %d", h.TotalQuizzes)
	}
	if h.Attempts[1].SessionID != "b" || h.Attempts[1].Number != 2 {
		t.Errorf("unexpected second attempt %+v", h.Attempts[1])
	}
	if h.AveragePercentage != 75 {
		t.Errorf("expected 75%% average, got %v", h.AveragePercentage)
	}

	if got := h.TopicPerformance["Science"]; got != (analytics.Performance{Correct: 2, Total: 3}) {
		t.Errorf("unexpected Science performance %+v", got)
	}
	if len(h.TopicOrder) != 2 || h.TopicOrder[0] != "Science" || h.TopicOrder[1] != "History" {
		t.Errorf("unexpected topic order %v", h.TopicOrder)
	}

	if len(h.Questions) != 3 {
		t.Fatalf("expected 3 distinct questions, got %d", len(h.Questions))
	}
	if q := h.Questions[0]; q.QuestionID != "Science-medium" || q.TimesAnswered != 2 || q.Mastery() != 60 {
		t.Errorf("unexpected Science-medium stats %+v (mastery %d)", q, q.Mastery())
	}
	if h.Mastery() != (60+100+100)/3 {
		t.Errorf("unexpected bank mastery %d", h.Mastery())
	}
}

func TestCombine_NoAttempts(t *testing.T) {
	h := analytics.Combine(nil)
	if h.TotalQuizzes != 0 || h.AveragePercentage != 0 || h.Mastery() != 0 {
		t.Errorf("expected empty history, got %+v", h)
	}
}
