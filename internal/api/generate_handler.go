package api

import (
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/quizforge/backend/internal/domain/questionbank"
	"github.com/quizforge/backend/internal/service"
)

// ── Request / Response types ────────────────────────────────────────────────

type ContentRequest struct {
	Text string `json:"text"`
}

func (r *ContentRequest) Validate() error {
	if strings.TrimSpace(r.Text) == "" {
		return errors.New("text is required")
	}
	return nil
}

const maxQuestionsPerTopic = 20

func validateQuestionsPerTopic(n int) error {
	if n < 0 {
		return errors.New("questions_per_topic must not be negative")
	}
	if n > maxQuestionsPerTopic {
		return fmt.Errorf("questions_per_topic must be at most %d", maxQuestionsPerTopic)
	}
	return nil
}

type ContentResponse struct {
	Topics []string `json:"topics"`
}

type GenerateRequest struct {
	Subject           string   `json:"subject,omitempty"`
	SourceText        string   `json:"source_text,omitempty"`
	Topics            []string `json:"topics,omitempty"`
	QuestionsPerTopic int      `json:"questions_per_topic,omitempty"`
	Difficulty        string   `json:"difficulty,omitempty"`
	BloomFocus        string   `json:"bloom_focus,omitempty"`
}

func (r *GenerateRequest) Validate() error {
	if len(r.Topics) == 0 && strings.TrimSpace(r.SourceText) == "" {
		return errors.New("topics or source_text is required")
	}
	if err := validateQuestionsPerTopic(r.QuestionsPerTopic); err != nil {
		return err
	}
	if r.Difficulty != "" {
		if _, err := questionbank.ParseDifficulty(r.Difficulty); err != nil {
			return err
		}
	}
	return nil
}

type GenerateResponse struct {
	Bank         BankResponse `json:"bank"`
	Topics       []string     `json:"topics"`
	FailedTopics []string     `json:"failed_topics"`
}

// ── Handlers ────────────────────────────────────────────────────────────────

// POST /content
func (h *Handler) extractTopics(w http.ResponseWriter, r *http.Request) {
	var req ContentRequest
	if !decodeAndValidate(w, r, &req) {
		return
	}

	topics, err := h.generation.ExtractTopics(r.Context(), req.Text)
	if h.handleServiceError(w, err, "content") {
		return
	}
	respondJSON(w, http.StatusOK, ContentResponse{Topics: topics})
}

// POST /generate
func (h *Handler) generateBank(w http.ResponseWriter, r *http.Request) {
	var req GenerateRequest
	if !decodeAndValidate(w, r, &req) {
		return
	}

	res, err := h.generation.GenerateBank(r.Context(), service.GenerateRequest{
		Subject:           req.Subject,
		SourceText:        req.SourceText,
		Topics:            req.Topics,
		QuestionsPerTopic: req.QuestionsPerTopic,
		Difficulty:        questionbank.Difficulty(req.Difficulty),
		BloomFocus:        req.BloomFocus,
	})
	if h.handleServiceError(w, err, "generation") {
		return
	}

	failed := res.FailedTopics
	if failed == nil {
		failed = []string{}
	}
	respondJSON(w, http.StatusCreated, GenerateResponse{
		Bank:         toBankResponse(res.Bank),
		Topics:       res.Bank.Topics(),
		FailedTopics: failed,
	})
}
