package api

import (
	"errors"
	"net/http"
	"time"

	"github.com/quizforge/backend/internal/domain/questionbank"
)

const exportVersion = "1.0"

// ── Request / Response types ────────────────────────────────────────────────

type ExportQuestion struct {
	Topic       string   `json:"topic"`
	Difficulty  string   `json:"difficulty"`
	Kind        string   `json:"kind"`
	Prompt      string   `json:"prompt"`
	Options     []string `json:"options,omitempty"`
	Answer      string   `json:"answer"`
	Explanation string   `json:"explanation,omitempty"`
}

type ExportData struct {
	Version    string           `json:"version"`
	ExportedAt string           `json:"exported_at"`
	Subject    string           `json:"subject"`
	SourceText string           `json:"source_text,omitempty"`
	Questions  []ExportQuestion `json:"questions"`
}

func (d *ExportData) Validate() error {
	if d.Subject == "" {
		return errors.New("subject is required")
	}
	return nil
}

type ImportResult struct {
	BankID           string   `json:"bank_id"`
	QuestionsCreated int      `json:"questions_created"`
	Errors           []string `json:"errors"`
}

// ── Handlers ────────────────────────────────────────────────────────────────

// GET /banks/{bankID}/export
func (h *Handler) exportBank(w http.ResponseWriter, r *http.Request) {
	bank, err := h.store.GetBank(r.Context(), r.PathValue("bankID"))
	if h.handleStoreError(w, err, "bank") {
		return
	}

	data := ExportData{
		Version:    exportVersion,
		ExportedAt: time.Now().UTC().Format(time.RFC3339),
		Subject:    bank.Subject,
		SourceText: bank.SourceText,
		Questions:  make([]ExportQuestion, len(bank.Questions)),
	}
	for i, q := range bank.Questions {
		data.Questions[i] = ExportQuestion{
			Topic:       q.Topic,
			Difficulty:  string(q.Difficulty),
			Kind:        string(q.Kind),
			Prompt:      q.Prompt,
			Options:     q.Options,
			Answer:      q.Answer,
			Explanation: q.Explanation,
		}
	}

	w.Header().Set("Content-Disposition", "attachment; filename=quizforge-"+bank.ID+".json")
	respondJSON(w, http.StatusOK, data)
}

// POST /import
func (h *Handler) importBank(w http.ResponseWriter, r *http.Request) {
	var data ExportData
	if !decodeAndValidate(w, r, &data) {
		return
	}

	bank := questionbank.New(data.Subject)
	bank.SourceText = data.SourceText
	result := ImportResult{BankID: bank.ID, Errors: []string{}}

	for i, eq := range data.Questions {
		req := AddQuestionRequest(eq)
		q, err := req.toQuestion()
		if err == nil {
			_, err = bank.AddQuestion(q)
		}
		if err != nil {
			h.logger.Warn("skipping imported question", "index", i, "error", err)
			result.Errors = append(result.Errors, err.Error())
			continue
		}
		result.QuestionsCreated++
	}

	if err := h.store.SaveBank(r.Context(), bank); err != nil {
		h.logger.Error("failed to save imported bank", "error", err)
		respondError(w, http.StatusInternalServerError, "failed to save bank")
		return
	}

	respondJSON(w, http.StatusCreated, result)
}
