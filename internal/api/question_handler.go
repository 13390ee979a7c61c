package api

import (
	"net/http"

	"github.com/quizforge/backend/internal/domain/questionbank"
)

// ── Request / Response types ────────────────────────────────────────────────

type AddQuestionRequest struct {
	Topic       string   `json:"topic"`
	Difficulty  string   `json:"difficulty"`
	Kind        string   `json:"kind,omitempty"`
	Prompt      string   `json:"prompt"`
	Options     []string `json:"options,omitempty"`
	Answer      string   `json:"answer"`
	Explanation string   `json:"explanation,omitempty"`
}

func (r *AddQuestionRequest) toQuestion() (questionbank.Question, error) {
	d, err := questionbank.ParseDifficulty(r.Difficulty)
	if err != nil {
		return questionbank.Question{}, err
	}
	k, err := questionbank.ParseKind(r.Kind)
	if err != nil {
		return questionbank.Question{}, err
	}
	return questionbank.Question{
		Topic:       r.Topic,
		Difficulty:  d,
		Kind:        k,
		Prompt:      r.Prompt,
		Options:     r.Options,
		Answer:      r.Answer,
		Explanation: r.Explanation,
	}, nil
}

// ── Handlers ────────────────────────────────────────────────────────────────

// POST /banks/{bankID}/questions
func (h *Handler) addQuestion(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	bankID := r.PathValue("bankID")

	bank, err := h.store.GetBank(ctx, bankID)
	if h.handleStoreError(w, err, "bank") {
		return
	}

	var req AddQuestionRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	q, err := req.toQuestion()
	if err != nil {
		respondError(w, http.StatusBadRequest, err.Error())
		return
	}
	added, err := bank.AddQuestion(q)
	if err != nil {
		respondError(w, http.StatusBadRequest, err.Error())
		return
	}

	if err := h.store.AddQuestion(ctx, bankID, added); err != nil {
		h.logger.Error("failed to save question", "bank_id", bankID, "error", err)
		respondError(w, http.StatusInternalServerError, "failed to save question")
		return
	}

	respondJSON(w, http.StatusCreated, toQuestionResponse(added))
}

// DELETE /banks/{bankID}/questions/{questionID}
func (h *Handler) deleteQuestion(w http.ResponseWriter, r *http.Request) {
	err := h.store.DeleteQuestion(r.Context(), r.PathValue("bankID"), r.PathValue("questionID"))
	if h.handleStoreError(w, err, "question") {
		return
	}

	w.WriteHeader(http.StatusNoContent)
}
