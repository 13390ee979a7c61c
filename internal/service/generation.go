// internal/service/generation.go
package service

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/quizforge/backend/internal/domain/analytics"
	"github.com/quizforge/backend/internal/domain/questionbank"
	"github.com/quizforge/backend/internal/generator"
	"github.com/quizforge/backend/internal/store"
	"github.com/quizforge/backend/internal/worker"
)

const defaultQuestionsPerTopic = 5

// GenerateRequest asks for a new bank built from study material.
type GenerateRequest struct {
	Subject           string
	SourceText        string
	Topics            []string // extracted from SourceText when empty
	QuestionsPerTopic int
	Difficulty        questionbank.Difficulty // empty = mixed
	BloomFocus        string
}

// GenerateResult is the saved bank plus the topics that produced nothing.
type GenerateResult struct {
	Bank         *questionbank.QuestionBank
	FailedTopics []string
}

type topicOutput struct {
	questions []questionbank.Question
	err       error
}

// GenerationService builds question banks with a Generator, one topic per
// worker.
type GenerationService struct {
	store     store.Store
	generator generator.Generator
	workers   int
	logger    *slog.Logger
}

func NewGenerationService(s store.Store, g generator.Generator, workers int, logger *slog.Logger) *GenerationService {
	return &GenerationService{
		store:     s,
		generator: g,
		workers:   workers,
		logger:    logger,
	}
}

// ExtractTopics lists the topics covered by text.
func (gs *GenerationService) ExtractTopics(ctx context.Context, text string) ([]string, error) {
	topics, err := gs.generator.ExtractTopics(ctx, text)
	if err != nil {
		gs.logger.Error("topic extraction failed", "error", err)
		return nil, err
	}
	gs.logger.Info("topics extracted", "count", len(topics))
	return topics, nil
}

// GenerateBank generates questions for every topic concurrently and saves
// them as a new bank. Topics that fail are reported in the result; the call
// only fails when no topic produced a question.
func (gs *GenerationService) GenerateBank(ctx context.Context, req GenerateRequest) (*GenerateResult, error) {
	topics := cleanTopics(req.Topics)
	if len(topics) == 0 && strings.TrimSpace(req.SourceText) != "" {
		extracted, err := gs.ExtractTopics(ctx, req.SourceText)
		if err != nil {
			return nil, err
		}
		topics = cleanTopics(extracted)
	}
	if len(topics) == 0 {
		return nil, ErrNoTopics
	}

	perTopic := req.QuestionsPerTopic
	if perTopic <= 0 {
		perTopic = defaultQuestionsPerTopic
	}

	subject := strings.TrimSpace(req.Subject)
	if subject == "" {
		subject = topics[0]
	}

	pool := worker.NewPool[topicOutput](gs.workers, len(topics))
	for _, topic := range topics {
		pool.Submit(topic, func() topicOutput {
			qs, err := gs.generator.GenerateQuestions(ctx, generator.Request{
				Topic:      topic,
				SourceText: req.SourceText,
				Count:      perTopic,
				Difficulty: req.Difficulty,
				BloomFocus: req.BloomFocus,
			})
			return topicOutput{questions: qs, err: err}
		})
	}
	pool.Close()

	outputs := make(map[string]topicOutput, len(topics))
	for res := range pool.Results() {
		outputs[res.JobID] = res.Output
	}

	bank := questionbank.New(subject)
	bank.SourceText = req.SourceText
	var failed []string

	for _, topic := range topics {
		out := outputs[topic]
		if out.err != nil {
			gs.logger.Warn("topic generation failed", "topic", topic, "error", out.err)
			failed = append(failed, topic)
			continue
		}
		added := 0
		for _, q := range out.questions {
			if _, err := bank.AddQuestion(q); err != nil {
				gs.logger.Debug("dropping generated question", "topic", topic, "error", err)
				continue
			}
			added++
		}
		if added == 0 {
			failed = append(failed, topic)
		}
	}

	if len(bank.Questions) == 0 {
		return nil, &generator.GenerationError{
			Reason: fmt.Sprintf("no questions generated for %d topic(s)", len(topics)),
		}
	}

	if err := gs.store.SaveBank(ctx, bank); err != nil {
		return nil, err
	}

	gs.logger.Info("question bank generated",
		"bank_id", bank.ID,
		"subject", bank.Subject,
		"questions", len(bank.Questions),
		"failed_topics", len(failed),
	)

	return &GenerateResult{Bank: bank, FailedTopics: failed}, nil
}

// GenerateFollowUp generates the next round for a bank: same subject, topics
// and source text, at the recommended difficulty and Bloom focus.
func (gs *GenerationService) GenerateFollowUp(ctx context.Context, bankID string, rec analytics.Recommendation, questionsPerTopic int) (*GenerateResult, error) {
	bank, err := gs.store.GetBank(ctx, bankID)
	if err != nil {
		return nil, err
	}

	gs.logger.Info("generating follow-up bank",
		"bank_id", bankID,
		"difficulty", rec.Difficulty,
		"bloom_focus", rec.BloomFocus,
	)

	return gs.GenerateBank(ctx, GenerateRequest{
		Subject:           bank.Subject,
		SourceText:        bank.SourceText,
		Topics:            bank.Topics(),
		QuestionsPerTopic: questionsPerTopic,
		Difficulty:        rec.Difficulty,
		BloomFocus:        rec.BloomFocus,
	})
}

// cleanTopics trims topics and drops blanks and case-insensitive duplicates.
func cleanTopics(in []string) []string {
	seen := make(map[string]bool, len(in))
	out := make([]string, 0, len(in))
	for _, t := range in {
		t = strings.TrimSpace(t)
		key := strings.ToLower(t)
		if t == "" || seen[key] {
			continue
		}
		seen[key] = true
		out = append(out, t)
	}
	return out
}
