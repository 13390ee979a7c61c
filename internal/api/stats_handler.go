package api

import (
	"net/http"
	"time"

	"github.com/quizforge/backend/internal/domain/analytics"
)

// ── Request / Response types ────────────────────────────────────────────────

type QuestionMasteryResponse struct {
	QuestionID    string `json:"question_id"`
	Topic         string `json:"topic"`
	TimesAnswered int    `json:"times_answered"`
	TimesCorrect  int    `json:"times_correct"`
	Mastery       int    `json:"mastery"`
}

type QuizHistoryResponse struct {
	QuizNumber int       `json:"quiz_number"`
	SessionID  string    `json:"session_id"`
	Score      int       `json:"score"`
	TargetSize int       `json:"target_size"`
	Percentage float64   `json:"percentage"`
	Finished   bool      `json:"finished"`
	Date       time.Time `json:"date"`
}

type BankStatsResponse struct {
	BankID       string                     `json:"bank_id"`
	TotalQuizzes int                        `json:"total_quizzes"`
	AverageScore float64                    `json:"average_score"`
	Mastery      int                        `json:"mastery"`
	Topics       []TopicPerformanceResponse `json:"topic_performance"`
	Questions    []QuestionMasteryResponse  `json:"questions"`
	History      []QuizHistoryResponse      `json:"quiz_history"`
}

type NextQuizRequest struct {
	QuestionsPerTopic int `json:"questions_per_topic,omitempty"`
}

func (r *NextQuizRequest) Validate() error {
	return validateQuestionsPerTopic(r.QuestionsPerTopic)
}

type NextQuizResponse struct {
	GenerateResponse
	PreviousSessionID string                 `json:"previous_session_id"`
	Recommendation    RecommendationResponse `json:"recommendation"`
}

func toBankStatsResponse(bankID string, h *analytics.History) BankStatsResponse {
	resp := BankStatsResponse{
		BankID:       bankID,
		TotalQuizzes: h.TotalQuizzes,
		AverageScore: h.AveragePercentage,
		Mastery:      h.Mastery(),
		Topics:       make([]TopicPerformanceResponse, len(h.TopicOrder)),
		Questions:    make([]QuestionMasteryResponse, len(h.Questions)),
		History:      make([]QuizHistoryResponse, len(h.Attempts)),
	}
	for i, t := range h.TopicOrder {
		resp.Topics[i] = TopicPerformanceResponse{
			Topic:               t,
			PerformanceResponse: toPerformanceResponse(h.TopicPerformance[t]),
		}
	}
	for i, q := range h.Questions {
		resp.Questions[i] = QuestionMasteryResponse{
			QuestionID:    q.QuestionID,
			Topic:         q.Topic,
			TimesAnswered: q.TimesAnswered,
			TimesCorrect:  q.TimesCorrect,
			Mastery:       q.Mastery(),
		}
	}
	for i, a := range h.Attempts {
		resp.History[i] = QuizHistoryResponse{
			QuizNumber: a.Number,
			SessionID:  a.SessionID,
			Score:      a.Summary.Score,
			TargetSize: a.Summary.TargetSize,
			Percentage: a.Summary.Percentage,
			Finished:   a.Finished,
			Date:       a.StartedAt,
		}
	}
	return resp
}

// ── Handlers ────────────────────────────────────────────────────────────────

// GET /banks/{bankID}/stats
func (h *Handler) bankStats(w http.ResponseWriter, r *http.Request) {
	bankID := r.PathValue("bankID")
	history, err := h.quiz.BankHistory(r.Context(), bankID)
	if h.handleServiceError(w, err, "bank") {
		return
	}
	respondJSON(w, http.StatusOK, toBankStatsResponse(bankID, history))
}

// POST /sessions/{sessionID}/next
// Generates a new bank from the session's bank at the recommended settings.
// The body is optional.
func (h *Handler) nextQuiz(w http.ResponseWriter, r *http.Request) {
	var req NextQuizRequest
	if r.ContentLength != 0 && !decodeAndValidate(w, r, &req) {
		return
	}

	report, err := h.quiz.Analytics(r.Context(), r.PathValue("sessionID"))
	if h.handleServiceError(w, err, "session") {
		return
	}

	res, err := h.generation.GenerateFollowUp(r.Context(), report.BankID, report.Recommendation, req.QuestionsPerTopic)
	if h.handleServiceError(w, err, "bank") {
		return
	}

	failed := res.FailedTopics
	if failed == nil {
		failed = []string{}
	}
	respondJSON(w, http.StatusCreated, NextQuizResponse{
		GenerateResponse: GenerateResponse{
			Bank:         toBankResponse(res.Bank),
			Topics:       res.Bank.Topics(),
			FailedTopics: failed,
		},
		PreviousSessionID: report.SessionID,
		Recommendation: RecommendationResponse{
			Difficulty: string(report.Recommendation.Difficulty),
			BloomFocus: report.Recommendation.BloomFocus,
		},
	})
}
