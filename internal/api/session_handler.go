package api

import (
	"errors"
	"net/http"
	"time"

	"github.com/quizforge/backend/internal/domain/analytics"
	"github.com/quizforge/backend/internal/domain/questionbank"
	quizengine "github.com/quizforge/backend/internal/domain/quiz_engine"
)

// ── Request / Response types ────────────────────────────────────────────────

type CreateSessionRequest struct {
	BankID     string `json:"bank_id"`
	TargetSize int    `json:"target_size,omitempty"` // 0 = server default
}

func (r *CreateSessionRequest) Validate() error {
	if r.BankID == "" {
		return errors.New("bank_id is required")
	}
	if r.TargetSize < 0 {
		return errors.New("target_size must not be negative")
	}
	return nil
}

type CreateSessionResponse struct {
	ID         string `json:"id"`
	BankID     string `json:"bank_id"`
	Total      int    `json:"total"`
	Difficulty string `json:"difficulty"`
}

type SessionSummaryResponse struct {
	ID                string    `json:"id"`
	BankID            string    `json:"bank_id"`
	TargetSize        int       `json:"target_size"`
	Score             int       `json:"score"`
	CurrentDifficulty string    `json:"current_difficulty"`
	Finished          bool      `json:"finished"`
	CreatedAt         time.Time `json:"created_at"`
	UpdatedAt         time.Time `json:"updated_at"`
}

// ServedQuestionResponse never carries the answer.
type ServedQuestionResponse struct {
	ID         string   `json:"id"`
	Topic      string   `json:"topic"`
	Difficulty string   `json:"difficulty"`
	Kind       string   `json:"kind"`
	Prompt     string   `json:"prompt"`
	Options    []string `json:"options,omitempty"`
	Index      int      `json:"index"`
	Total      int      `json:"total"`
	Target     string   `json:"target_difficulty"`
}

type SubmitAnswerRequest struct {
	Answer string `json:"answer"`
}

type SubmitAnswerResponse struct {
	IsCorrect        bool    `json:"is_correct"`
	CorrectAnswer    string  `json:"correct_answer"`
	NextDifficulty   string  `json:"next_difficulty"`
	IsFinished       bool    `json:"is_finished"`
	TimeTakenSeconds float64 `json:"time_taken_seconds"`
}

type PerformanceResponse struct {
	Correct  int     `json:"correct"`
	Total    int     `json:"total"`
	Accuracy float64 `json:"accuracy"`
}

type TopicPerformanceResponse struct {
	Topic string `json:"topic"`
	PerformanceResponse
}

type AnalyticsResponse struct {
	SessionID          string                         `json:"session_id"`
	Finished           bool                           `json:"finished"`
	Score              int                            `json:"score"`
	TargetSize         int                            `json:"target_size"`
	Percentage         float64                        `json:"percentage"`
	Answered           int                            `json:"answered"`
	Skipped            int                            `json:"skipped"`
	AverageTimeSeconds float64                        `json:"average_time_seconds"`
	Topics             []TopicPerformanceResponse     `json:"topics"`
	Difficulties       map[string]PerformanceResponse `json:"difficulties"`
	Recommendation     RecommendationResponse         `json:"recommendation"`
}

type RecommendationResponse struct {
	Difficulty string `json:"difficulty"`
	BloomFocus string `json:"bloom_focus"`
}

func toPerformanceResponse(p analytics.Performance) PerformanceResponse {
	return PerformanceResponse{Correct: p.Correct, Total: p.Total, Accuracy: p.Accuracy()}
}

func toSubmitAnswerResponse(res *quizengine.SubmitResult) SubmitAnswerResponse {
	return SubmitAnswerResponse{
		IsCorrect:        res.IsCorrect,
		CorrectAnswer:    res.CorrectAnswer,
		NextDifficulty:   string(res.NextDifficulty),
		IsFinished:       res.IsFinished,
		TimeTakenSeconds: res.Event.TimeTakenSeconds(),
	}
}

// ── Handlers ────────────────────────────────────────────────────────────────

// POST /sessions
func (h *Handler) createSession(w http.ResponseWriter, r *http.Request) {
	var req CreateSessionRequest
	if !decodeAndValidate(w, r, &req) {
		return
	}

	info, err := h.quiz.StartSession(r.Context(), req.BankID, req.TargetSize)
	if h.handleServiceError(w, err, "bank") {
		return
	}

	respondJSON(w, http.StatusCreated, CreateSessionResponse{
		ID:         info.ID,
		BankID:     info.BankID,
		Total:      info.Total,
		Difficulty: string(info.Difficulty),
	})
}

// GET /sessions/{sessionID}/question
func (h *Handler) currentQuestion(w http.ResponseWriter, r *http.Request) {
	served, err := h.quiz.CurrentQuestion(r.Context(), r.PathValue("sessionID"))
	if h.handleServiceError(w, err, "session") {
		return
	}

	q := served.Question
	respondJSON(w, http.StatusOK, ServedQuestionResponse{
		ID:         q.ID,
		Topic:      q.Topic,
		Difficulty: string(q.Difficulty),
		Kind:       string(q.Kind),
		Prompt:     q.Prompt,
		Options:    q.Options,
		Index:      served.Index,
		Total:      served.Total,
		Target:     string(served.Difficulty),
	})
}

// POST /sessions/{sessionID}/answers
func (h *Handler) submitAnswer(w http.ResponseWriter, r *http.Request) {
	var req SubmitAnswerRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	res, err := h.quiz.SubmitAnswer(r.Context(), r.PathValue("sessionID"), req.Answer)
	if h.handleServiceError(w, err, "session") {
		return
	}
	respondJSON(w, http.StatusOK, toSubmitAnswerResponse(res))
}

// POST /sessions/{sessionID}/skip
func (h *Handler) skipQuestion(w http.ResponseWriter, r *http.Request) {
	res, err := h.quiz.Skip(r.Context(), r.PathValue("sessionID"))
	if h.handleServiceError(w, err, "session") {
		return
	}
	respondJSON(w, http.StatusOK, toSubmitAnswerResponse(res))
}

// GET /sessions/{sessionID}/analytics
func (h *Handler) sessionAnalytics(w http.ResponseWriter, r *http.Request) {
	report, err := h.quiz.Analytics(r.Context(), r.PathValue("sessionID"))
	if h.handleServiceError(w, err, "session") {
		return
	}

	s := report.Summary
	topics := make([]TopicPerformanceResponse, len(s.TopicOrder))
	for i, t := range s.TopicOrder {
		topics[i] = TopicPerformanceResponse{
			Topic:               t,
			PerformanceResponse: toPerformanceResponse(s.TopicPerformance[t]),
		}
	}
	difficulties := make(map[string]PerformanceResponse, len(questionbank.Levels))
	for _, d := range questionbank.Levels {
		difficulties[string(d)] = toPerformanceResponse(s.DifficultyPerformance[d])
	}

	respondJSON(w, http.StatusOK, AnalyticsResponse{
		SessionID:          report.SessionID,
		Finished:           report.Finished,
		Score:              s.Score,
		TargetSize:         s.TargetSize,
		Percentage:         s.Percentage,
		Answered:           s.Answered,
		Skipped:            s.Skipped,
		AverageTimeSeconds: s.AverageTimeSeconds,
		Topics:             topics,
		Difficulties:       difficulties,
		Recommendation: RecommendationResponse{
			Difficulty: string(report.Recommendation.Difficulty),
			BloomFocus: report.Recommendation.BloomFocus,
		},
	})
}
