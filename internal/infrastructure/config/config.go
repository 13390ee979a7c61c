package config

import (
	"log"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

type Config struct {
	ServerAddress   string
	ShutdownTimeout time.Duration

	// Storage
	DBPath         string // SQLite file
	SeedSampleBank bool   // load the built-in bank when the store is empty

	// Quiz sessions
	QuizSize      int           // default number of questions per session
	SessionTTL    time.Duration // idle time before a live session is evicted
	EvictInterval time.Duration // how often idle sessions are swept

	// Question generation
	LLMURL            string // OpenAI-compatible endpoint, e.g. "http://localhost:1234"
	LLMModel          string // model name, e.g. "qwen3-8b"
	LLMAPIKey         string
	GenerationWorkers int
}

func Load() *Config {
	// Load .env file if it exists
	_ = godotenv.Load()
	return &Config{
		ServerAddress:     mustGetenv("SERVER_ADDRESS"),
		ShutdownTimeout:   mustGetDuration("SHUTDOWN_TIMEOUT"),
		DBPath:            getenvDefault("DB_PATH", "quizforge.db"),
		SeedSampleBank:    getenvBool("SEED_SAMPLE_BANK", true),
		QuizSize:          getenvInt("QUIZ_SIZE", 25),
		SessionTTL:        getenvDuration("SESSION_TTL", 2*time.Hour),
		EvictInterval:     getenvDuration("EVICT_INTERVAL", 10*time.Minute),
		LLMURL:            getenvDefault("LLM_URL", "http://localhost:1234"),
		LLMModel:          getenvDefault("LLM_MODEL", "qwen3-8b"),
		LLMAPIKey:         os.Getenv("LLM_API_KEY"),
		GenerationWorkers: getenvInt("GENERATION_WORKERS", 3),
	}
}

func mustGetenv(k string) string {
	v := os.Getenv(k)
	if v == "" {
		log.Fatalf("config: required environment variable %s is not set", k)
	}
	return v
}

func mustGetDuration(k string) time.Duration {
	v := os.Getenv(k)
	if v == "" {
		log.Fatalf("config: required environment variable %s is not set", k)
	}
	d, err := time.ParseDuration(v)
	if err != nil {
		log.Fatalf("config: %s=%q is not a valid duration: %v", k, v, err)
	}
	return d
}

func getenvDefault(k, fallback string) string {
	if v := os.Getenv(k); v != "" {
		return v
	}
	return fallback
}

func getenvInt(k string, fallback int) int {
	v := os.Getenv(k)
	if v == "" {
		return fallback
	}
	n, err := strconv.Atoi(v)
	if err != nil || n <= 0 {
		log.Fatalf("config: %s=%q must be a positive integer", k, v)
	}
	return n
}

func getenvDuration(k string, fallback time.Duration) time.Duration {
	v := os.Getenv(k)
	if v == "" {
		return fallback
	}
	d, err := time.ParseDuration(v)
	if err != nil || d <= 0 {
		log.Fatalf("config: %s=%q is not a valid positive duration", k, v)
	}
	return d
}

func getenvBool(k string, fallback bool) bool {
	v := os.Getenv(k)
	if v == "" {
		return fallback
	}
	b, err := strconv.ParseBool(v)
	if err != nil {
		log.Fatalf("config: %s=%q is not a valid boolean", k, v)
	}
	return b
}
