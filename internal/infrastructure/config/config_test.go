package config

import (
	"testing"
	"time"
)

func TestLoad_Defaults(t *testing.T) {
	t.Setenv("SERVER_ADDRESS", ":9090")
	t.Setenv("SHUTDOWN_TIMEOUT", "5s")
	for _, k := range []string{"DB_PATH", "SEED_SAMPLE_BANK", "QUIZ_SIZE", "SESSION_TTL",
		"EVICT_INTERVAL", "LLM_URL", "LLM_MODEL", "LLM_API_KEY", "GENERATION_WORKERS"} {
		t.Setenv(k, "")
	}

	cfg := Load()

	if cfg.ServerAddress != ":9090" || cfg.ShutdownTimeout != 5*time.Second {
		t.Errorf("unexpected server settings %+v", cfg)
	}
	if cfg.DBPath != "quizforge.db" || !cfg.SeedSampleBank {
		t.Errorf("unexpected storage settings %+v", cfg)
	}
	if cfg.QuizSize != 25 || cfg.SessionTTL != 2*time.Hour || cfg.EvictInterval != 10*time.Minute {
		t.Errorf("unexpected quiz settings %+v", cfg)
	}
	if cfg.LLMURL != "http://localhost:1234" || cfg.LLMModel != "qwen3-8b" || cfg.GenerationWorkers != 3 {
		t.Errorf("unexpected generation settings %+v", cfg)
	}
}

func TestLoad_Overrides(t *testing.T) {
	t.Setenv("SERVER_ADDRESS", ":8080")
	t.Setenv("SHUTDOWN_TIMEOUT", "10s")
	t.Setenv("DB_PATH", "/tmp/quiz.db")
	t.Setenv("SEED_SAMPLE_BANK", "false")
	t.Setenv("QUIZ_SIZE", "10")
	t.Setenv("SESSION_TTL", "30m")
	t.Setenv("EVICT_INTERVAL", "1m")
	t.Setenv("LLM_API_KEY", "secret")
	t.Setenv("GENERATION_WORKERS", "8")

	cfg := Load()

	if cfg.DBPath != "/tmp/quiz.db" || cfg.SeedSampleBank {
		t.Errorf("unexpected storage settings %+v", cfg)
	}
	if cfg.QuizSize != 10 || cfg.SessionTTL != 30*time.Minute || cfg.EvictInterval != time.Minute {
		t.Errorf("unexpected quiz settings %+v", cfg)
	}
	if cfg.LLMAPIKey != "secret" || cfg.GenerationWorkers != 8 {
		t.Errorf("unexpected generation settings %+v", cfg)
	}
}
