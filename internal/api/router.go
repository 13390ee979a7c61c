// internal/api/router.go
package api

import "net/http"

func RegisterRoutes(mux *http.ServeMux, h *Handler) {
	mux.HandleFunc("GET /health", h.health)

	// Banks
	mux.HandleFunc("POST /banks", h.createBank)
	mux.HandleFunc("GET /banks", h.listBanks)
	mux.HandleFunc("POST /banks/import", h.importBankFile)
	mux.HandleFunc("GET /banks/{bankID}", h.getBank)
	mux.HandleFunc("DELETE /banks/{bankID}", h.deleteBank)
	mux.HandleFunc("GET /banks/{bankID}/sessions", h.listBankSessions)
	mux.HandleFunc("GET /banks/{bankID}/stats", h.bankStats)
	mux.HandleFunc("GET /banks/{bankID}/export", h.exportBank)

	// Questions
	mux.HandleFunc("POST /banks/{bankID}/questions", h.addQuestion)
	mux.HandleFunc("DELETE /banks/{bankID}/questions/{questionID}", h.deleteQuestion)

	// Export / Import
	mux.HandleFunc("POST /import", h.importBank)

	// Generation
	mux.HandleFunc("POST /content", h.extractTopics)
	mux.HandleFunc("POST /generate", h.generateBank)

	// Sessions
	mux.HandleFunc("POST /sessions", h.createSession)
	mux.HandleFunc("GET /sessions/{sessionID}/question", h.currentQuestion)
	mux.HandleFunc("POST /sessions/{sessionID}/answers", h.submitAnswer)
	mux.HandleFunc("POST /sessions/{sessionID}/skip", h.skipQuestion)
	mux.HandleFunc("GET /sessions/{sessionID}/analytics", h.sessionAnalytics)
	mux.HandleFunc("POST /sessions/{sessionID}/next", h.nextQuiz)
}

// GET /health
func (h *Handler) health(w http.ResponseWriter, r *http.Request) {
	respondJSON(w, http.StatusOK, map[string]any{
		"status":          "ok",
		"active_sessions": h.quiz.ActiveSessions(),
	})
}
