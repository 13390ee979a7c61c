// Command simulate plays the built-in question bank with scripted players
// and logs how the difficulty ladder and analytics respond.
package main

import (
	"flag"
	"log/slog"
	"os"

	"github.com/quizforge/backend/internal/domain/questionbank"
	"github.com/quizforge/backend/internal/simulation"
)

func main() {
	size := flag.Int("size", 10, "questions per session")
	seed := flag.Int64("seed", 1, "random seed for selection and the guesser")
	workers := flag.Int("workers", 2, "sessions simulated concurrently")
	verbose := flag.Bool("v", false, "log every step")
	flag.Parse()

	level := slog.LevelInfo
	if *verbose {
		level = slog.LevelDebug
	}
	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: level}))

	bank, err := questionbank.Sample()
	if err != nil {
		logger.Error("failed to load sample bank", "error", err)
		os.Exit(1)
	}

	results, err := simulation.RunAll(bank, *size, simulation.DefaultPlayers(*seed), *seed, *workers)
	if err != nil {
		logger.Error("simulation failed", "error", err)
		os.Exit(1)
	}

	for _, r := range results {
		for i, s := range r.Steps {
			logger.Debug("step",
				"player", r.Player,
				"step", i,
				"target", s.Target,
				"question_id", s.Question.ID,
				"question_difficulty", s.Question.Difficulty,
				"correct", s.Result.IsCorrect,
				"skipped", s.Move.Skip,
				"next", s.Result.NextDifficulty,
			)
		}

		attrs := []any{
			"player", r.Player,
			"score", r.Summary.Score,
			"percentage", r.Summary.Percentage,
			"avg_seconds", r.Summary.AverageTimeSeconds,
			"final_difficulty", r.State.CurrentDifficulty,
			"next_difficulty", r.Recommendation.Difficulty,
			"bloom_focus", r.Recommendation.BloomFocus,
		}
		for _, topic := range r.Summary.TopicOrder {
			attrs = append(attrs, "topic_"+topic, r.Summary.TopicPerformance[topic].Accuracy())
		}
		logger.Info("session finished", attrs...)
	}
}
