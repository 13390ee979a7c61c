package api

import (
	"errors"
	"net/http"
	"path/filepath"
	"strings"
	"time"

	"github.com/quizforge/backend/internal/domain/questionbank"
	"github.com/quizforge/backend/internal/importer"
)

// maxUploadBytes caps spreadsheet uploads.
const maxUploadBytes = 10 << 20

// ── Request / Response types ────────────────────────────────────────────────

type CreateBankRequest struct {
	Subject    string `json:"subject"`
	SourceText string `json:"source_text,omitempty"`
}

func (r *CreateBankRequest) Validate() error {
	if strings.TrimSpace(r.Subject) == "" {
		return errors.New("subject is required")
	}
	return nil
}

type BankResponse struct {
	ID            string    `json:"id"`
	Subject       string    `json:"subject"`
	CreatedAt     time.Time `json:"created_at"`
	QuestionCount int       `json:"question_count"`
}

type GetBankResponse struct {
	ID         string             `json:"id"`
	Subject    string             `json:"subject"`
	SourceText string             `json:"source_text,omitempty"`
	CreatedAt  time.Time          `json:"created_at"`
	Topics     []string           `json:"topics"`
	Questions  []QuestionResponse `json:"questions"`
}

type QuestionResponse struct {
	ID          string   `json:"id"`
	Topic       string   `json:"topic"`
	Difficulty  string   `json:"difficulty"`
	Kind        string   `json:"kind"`
	Prompt      string   `json:"prompt"`
	Options     []string `json:"options,omitempty"`
	Answer      string   `json:"answer"`
	Explanation string   `json:"explanation,omitempty"`
}

type ImportFileResponse struct {
	Bank           BankResponse `json:"bank"`
	TotalProcessed int          `json:"total_processed"`
	Imported       int          `json:"imported"`
	Errors         []string     `json:"errors"`
}

func toQuestionResponse(q questionbank.Question) QuestionResponse {
	return QuestionResponse{
		ID:          q.ID,
		Topic:       q.Topic,
		Difficulty:  string(q.Difficulty),
		Kind:        string(q.Kind),
		Prompt:      q.Prompt,
		Options:     q.Options,
		Answer:      q.Answer,
		Explanation: q.Explanation,
	}
}

func toBankResponse(bank *questionbank.QuestionBank) BankResponse {
	return BankResponse{
		ID:            bank.ID,
		Subject:       bank.Subject,
		CreatedAt:     bank.CreatedAt,
		QuestionCount: len(bank.Questions),
	}
}

// ── Handlers ────────────────────────────────────────────────────────────────

// POST /banks
func (h *Handler) createBank(w http.ResponseWriter, r *http.Request) {
	var req CreateBankRequest
	if !decodeAndValidate(w, r, &req) {
		return
	}

	bank := questionbank.New(strings.TrimSpace(req.Subject))
	bank.SourceText = req.SourceText

	if err := h.store.SaveBank(r.Context(), bank); err != nil {
		h.logger.Error("failed to save bank", "error", err)
		respondError(w, http.StatusInternalServerError, "failed to save bank")
		return
	}

	respondJSON(w, http.StatusCreated, toBankResponse(bank))
}

// GET /banks
func (h *Handler) listBanks(w http.ResponseWriter, r *http.Request) {
	banks, err := h.store.ListBanks(r.Context())
	if h.handleStoreError(w, err, "banks") {
		return
	}

	response := make([]BankResponse, len(banks))
	for i, b := range banks {
		response[i] = BankResponse{
			ID:            b.ID,
			Subject:       b.Subject,
			CreatedAt:     b.CreatedAt,
			QuestionCount: b.QuestionCount,
		}
	}
	respondJSON(w, http.StatusOK, response)
}

// GET /banks/{bankID}
func (h *Handler) getBank(w http.ResponseWriter, r *http.Request) {
	bank, err := h.store.GetBank(r.Context(), r.PathValue("bankID"))
	if h.handleStoreError(w, err, "bank") {
		return
	}

	questions := make([]QuestionResponse, len(bank.Questions))
	for i, q := range bank.Questions {
		questions[i] = toQuestionResponse(q)
	}

	respondJSON(w, http.StatusOK, GetBankResponse{
		ID:         bank.ID,
		Subject:    bank.Subject,
		SourceText: bank.SourceText,
		CreatedAt:  bank.CreatedAt,
		Topics:     bank.Topics(),
		Questions:  questions,
	})
}

// DELETE /banks/{bankID}
func (h *Handler) deleteBank(w http.ResponseWriter, r *http.Request) {
	bankID := r.PathValue("bankID")
	if h.handleStoreError(w, h.store.DeleteBank(r.Context(), bankID), "bank") {
		return
	}
	h.quiz.EvictBank(bankID)
	w.WriteHeader(http.StatusNoContent)
}

// POST /banks/import
//
// Multipart form with a "file" field (.xlsx or .csv) and an optional
// "subject". Invalid rows are reported and skipped.
func (h *Handler) importBankFile(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, maxUploadBytes)
	if err := r.ParseMultipartForm(maxUploadBytes); err != nil {
		respondError(w, http.StatusBadRequest, "invalid multipart form")
		return
	}

	file, header, err := r.FormFile("file")
	if err != nil {
		respondError(w, http.StatusBadRequest, "file is required")
		return
	}
	defer file.Close()

	result, err := importer.Import(header.Filename, file)
	if err != nil {
		respondError(w, http.StatusBadRequest, err.Error())
		return
	}
	if len(result.Questions) == 0 {
		respondJSON(w, http.StatusUnprocessableEntity, map[string]any{
			"error":  "no valid questions in file",
			"errors": result.Errors,
		})
		return
	}

	subject := strings.TrimSpace(r.FormValue("subject"))
	if subject == "" {
		subject = strings.TrimSuffix(header.Filename, filepath.Ext(header.Filename))
	}

	bank := questionbank.New(subject)
	var rowErrors []string
	rowErrors = append(rowErrors, result.Errors...)
	for _, q := range result.Questions {
		if _, err := bank.AddQuestion(q); err != nil {
			rowErrors = append(rowErrors, err.Error())
		}
	}

	if err := h.store.SaveBank(r.Context(), bank); err != nil {
		h.logger.Error("failed to save imported bank", "error", err)
		respondError(w, http.StatusInternalServerError, "failed to save bank")
		return
	}

	h.logger.Info("bank imported from file",
		"bank_id", bank.ID,
		"file", header.Filename,
		"questions", len(bank.Questions),
		"errors", len(rowErrors),
	)

	if rowErrors == nil {
		rowErrors = []string{}
	}
	respondJSON(w, http.StatusCreated, ImportFileResponse{
		Bank:           toBankResponse(bank),
		TotalProcessed: result.TotalProcessed,
		Imported:       len(bank.Questions),
		Errors:         rowErrors,
	})
}

// GET /banks/{bankID}/sessions
func (h *Handler) listBankSessions(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	bankID := r.PathValue("bankID")

	if _, err := h.store.GetBank(ctx, bankID); h.handleStoreError(w, err, "bank") {
		return
	}
	sessions, err := h.store.ListSessionsByBank(ctx, bankID)
	if h.handleStoreError(w, err, "sessions") {
		return
	}

	response := make([]SessionSummaryResponse, len(sessions))
	for i, s := range sessions {
		response[i] = SessionSummaryResponse{
			ID:                s.ID,
			BankID:            s.BankID,
			TargetSize:        s.TargetSize,
			Score:             s.Score,
			CurrentDifficulty: string(s.CurrentDifficulty),
			Finished:          s.Finished,
			CreatedAt:         s.CreatedAt,
			UpdatedAt:         s.UpdatedAt,
		}
	}
	respondJSON(w, http.StatusOK, response)
}
