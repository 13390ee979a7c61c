// internal/api/handler.go
package api

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"github.com/quizforge/backend/internal/domain/analytics"
	quizengine "github.com/quizforge/backend/internal/domain/quiz_engine"
	"github.com/quizforge/backend/internal/generator"
	"github.com/quizforge/backend/internal/service"
	"github.com/quizforge/backend/internal/store"
)

// maxBodyBytes caps JSON request bodies. Uploads use maxUploadBytes.
const maxBodyBytes = 1 << 20

// Handler holds all dependencies needed by HTTP handlers.
// Instead of relying on package-level globals, every handler method
// receives its dependencies through this struct.
type Handler struct {
	store      store.Store
	quiz       *service.QuizService
	generation *service.GenerationService
	logger     *slog.Logger
}

// NewHandler creates a Handler with the given dependencies.
func NewHandler(s store.Store, quiz *service.QuizService, generation *service.GenerationService, logger *slog.Logger) *Handler {
	return &Handler{
		store:      s,
		quiz:       quiz,
		generation: generation,
		logger:     logger,
	}
}

type validator interface {
	Validate() error
}

type errorResponse struct {
	Error string `json:"error"`
}

// respondJSON writes a JSON response with the given status code.
func respondJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}

func respondError(w http.ResponseWriter, status int, msg string) {
	respondJSON(w, status, errorResponse{Error: msg})
}

// decodeJSON decodes the request body into v. It writes a 400 and returns
// false on malformed input.
func decodeJSON(w http.ResponseWriter, r *http.Request, v any) bool {
	r.Body = http.MaxBytesReader(w, r.Body, maxBodyBytes)
	if err := json.NewDecoder(r.Body).Decode(v); err != nil {
		respondError(w, http.StatusBadRequest, "invalid json")
		return false
	}
	return true
}

func decodeAndValidate(w http.ResponseWriter, r *http.Request, v validator) bool {
	if !decodeJSON(w, r, v) {
		return false
	}
	if err := v.Validate(); err != nil {
		respondError(w, http.StatusBadRequest, err.Error())
		return false
	}
	return true
}

// handleStoreError checks for common store errors and writes the appropriate
// HTTP response. Returns true if an error was handled (caller should return).
func (h *Handler) handleStoreError(w http.ResponseWriter, err error, entity string) bool {
	if err == nil {
		return false
	}
	if errors.Is(err, store.ErrNotFound) {
		respondError(w, http.StatusNotFound, entity+" not found")
		return true
	}
	h.logger.Error("store error", "error", err, "entity", entity)
	respondError(w, http.StatusInternalServerError, "internal error")
	return true
}

// handleServiceError maps quiz and generation errors to status codes.
// Returns true if an error was handled.
func (h *Handler) handleServiceError(w http.ResponseWriter, err error, entity string) bool {
	if err == nil {
		return false
	}

	var genErr *generator.GenerationError
	switch {
	case errors.Is(err, store.ErrNotFound):
		respondError(w, http.StatusNotFound, entity+" not found")
	case errors.Is(err, service.ErrSessionExpired):
		respondError(w, http.StatusGone, err.Error())
	case errors.Is(err, quizengine.ErrSessionExhausted),
		errors.Is(err, quizengine.ErrNoQuestionServed),
		errors.Is(err, analytics.ErrEmptyLog):
		respondError(w, http.StatusConflict, err.Error())
	case errors.Is(err, quizengine.ErrEmptyPool),
		errors.Is(err, quizengine.ErrInvalidTargetSize),
		errors.Is(err, service.ErrNoTopics):
		respondError(w, http.StatusBadRequest, err.Error())
	case errors.As(err, &genErr):
		h.logger.Warn("generation failed", "error", err)
		respondError(w, http.StatusBadGateway, err.Error())
	default:
		h.logger.Error("service error", "error", err, "entity", entity)
		respondError(w, http.StatusInternalServerError, "internal error")
	}
	return true
}
