package main

import (
	"context"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/quizforge/backend/internal/api"
	"github.com/quizforge/backend/internal/domain/questionbank"
	quizengine "github.com/quizforge/backend/internal/domain/quiz_engine"
	"github.com/quizforge/backend/internal/generator"
	"github.com/quizforge/backend/internal/infrastructure/config"
	"github.com/quizforge/backend/internal/scheduler"
	"github.com/quizforge/backend/internal/service"
	"github.com/quizforge/backend/internal/store"
)

func main() {
	cfg := config.Load()
	logger := slog.New(slog.NewJSONHandler(os.Stdout, nil))

	// ── Dependencies ────────────────────────────────────────────────
	db, err := store.NewSQLite(cfg.DBPath)
	if err != nil {
		logger.Error("failed to open database", "error", err)
		os.Exit(1)
	}
	defer db.Close()

	if cfg.SeedSampleBank {
		if err := seedSampleBank(context.Background(), db, logger); err != nil {
			logger.Error("failed to seed sample bank", "error", err)
			os.Exit(1)
		}
	}

	quizCfg := quizengine.DefaultConfig()
	quizCfg.TargetSize = cfg.QuizSize
	quizSvc := service.NewQuizService(db, quizCfg, logger)

	llm := generator.NewOpenAIGenerator(cfg.LLMURL, cfg.LLMAPIKey, cfg.LLMModel)
	generationSvc := service.NewGenerationService(db, llm, cfg.GenerationWorkers, logger)

	handler := api.NewHandler(db, quizSvc, generationSvc, logger)

	sched := scheduler.New(quizSvc, cfg.SessionTTL, cfg.EvictInterval, logger)
	if err := sched.Start(); err != nil {
		logger.Error("failed to start scheduler", "error", err)
		os.Exit(1)
	}
	defer sched.Stop()

	// ── Routes ──────────────────────────────────────────────────────
	mux := http.NewServeMux()
	api.RegisterRoutes(mux, handler)

	// ── Middleware chain: Logging → CORS → mux ──────────────────────
	logged := api.Logging(logger)(api.CORS(mux))

	// ── Server ──────────────────────────────────────────────────────
	server := &http.Server{
		Addr:              cfg.ServerAddress,
		Handler:           logged,
		ReadTimeout:       15 * time.Second,
		ReadHeaderTimeout: 5 * time.Second,
		WriteTimeout:      120 * time.Second, // generation waits on the LLM
		IdleTimeout:       60 * time.Second,
	}

	go func() {
		sigChan := make(chan os.Signal, 1)
		signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)
		<-sigChan

		ctx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
		defer cancel()

		logger.Info("shutting down server")
		if err := server.Shutdown(ctx); err != nil {
			logger.Error("server forced to shutdown", "error", err)
		}
	}()

	logger.Info("starting server", "address", cfg.ServerAddress, "db", cfg.DBPath, "llm_model", cfg.LLMModel)
	if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		logger.Error("server failed to start", "error", err)
		os.Exit(1)
	}
}

// seedSampleBank stores the built-in bank when the database has no banks.
func seedSampleBank(ctx context.Context, db *store.SQLiteStore, logger *slog.Logger) error {
	banks, err := db.ListBanks(ctx)
	if err != nil {
		return err
	}
	if len(banks) > 0 {
		return nil
	}

	bank, err := questionbank.Sample()
	if err != nil {
		return err
	}
	if err := db.SaveBank(ctx, bank); err != nil {
		return err
	}
	logger.Info("seeded sample bank", "bank_id", bank.ID, "questions", len(bank.Questions))
	return nil
}
