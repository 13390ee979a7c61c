package service_test

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"testing"

	"github.com/quizforge/backend/internal/domain/analytics"
	"github.com/quizforge/backend/internal/domain/questionbank"
	"github.com/quizforge/backend/internal/generator"
	"github.com/quizforge/backend/internal/service"
	"github.com/quizforge/backend/internal/store"
)

// fakeGenerator returns two questions per topic unless the topic is listed
// in fail.
type fakeGenerator struct {
	topics []string
	fail   map[string]bool

	mu       sync.Mutex
	requests []generator.Request
}

func (f *fakeGenerator) ExtractTopics(_ context.Context, _ string) ([]string, error) {
	return f.topics, nil
}

func (f *fakeGenerator) GenerateQuestions(_ context.Context, req generator.Request) ([]questionbank.Question, error) {
	f.mu.Lock()
	f.requests = append(f.requests, req)
	f.mu.Unlock()

	if f.fail[req.Topic] {
		return nil, &generator.GenerationError{Reason: "model refused"}
	}
	d := req.Difficulty
	if d == "" {
		d = questionbank.Medium
	}
	out := make([]questionbank.Question, 0, req.Count)
	for i := 0; i < req.Count; i++ {
		out = append(out, questionbank.Question{
			Topic:      req.Topic,
			Difficulty: d,
			Kind:       questionbank.KindMultipleChoice,
			Prompt:     fmt.Sprintf("%s question %d", req.Topic, i),
			Options:    []string{"yes", "no"},
			Answer:     "yes",
		})
	}
	return out, nil
}

func TestGenerateBank_ExtractsTopics(t *testing.T) {
	s := newStore(t)
	gen := &fakeGenerator{topics: []string{"Cells", "Genes", "cells"}}
	gs := service.NewGenerationService(s, gen, 2, discardLogger())

	res, err := gs.GenerateBank(context.Background(), service.GenerateRequest{
		SourceText:        "Cells contain genes.",
		QuestionsPerTopic: 2,
	})
	if err != nil {
		t.Fatalf("generate: %v", err)
	}

	if res.Bank.Subject != "Cells" {
		t.Errorf("expected subject from first topic, got %q", res.Bank.Subject)
	}
	if len(res.Bank.Questions) != 4 || len(res.FailedTopics) != 0 {
		t.Fatalf("expected 4 questions and no failures, got %d / %v", len(res.Bank.Questions), res.FailedTopics)
	}
	topics := res.Bank.Topics()
	if len(topics) != 2 || topics[0] != "Cells" || topics[1] != "Genes" {
		t.Errorf("expected questions in topic order, got %v", topics)
	}

	stored, err := s.GetBank(context.Background(), res.Bank.ID)
	if err != nil {
		t.Fatalf("get bank: %v", err)
	}
	if len(stored.Questions) != 4 || stored.SourceText != "Cells contain genes." {
		t.Errorf("unexpected stored bank %+v", stored)
	}
}

func TestGenerateBank_PartialFailure(t *testing.T) {
	s := newStore(t)
	gen := &fakeGenerator{fail: map[string]bool{"Orbits": true}}
	gs := service.NewGenerationService(s, gen, 3, discardLogger())

	res, err := gs.GenerateBank(context.Background(), service.GenerateRequest{
		Subject:           "Space",
		Topics:            []string{"Stars", "Orbits", "Planets"},
		QuestionsPerTopic: 1,
		Difficulty:        questionbank.Hard,
		BloomFocus:        "Analyze",
	})
	if err != nil {
		t.Fatalf("generate: %v", err)
	}
	if len(res.Bank.Questions) != 2 {
		t.Errorf("expected 2 questions, got %d", len(res.Bank.Questions))
	}
	if len(res.FailedTopics) != 1 || res.FailedTopics[0] != "Orbits" {
		t.Errorf("expected Orbits to fail, got %v", res.FailedTopics)
	}
	for _, q := range res.Bank.Questions {
		if q.Difficulty != questionbank.Hard {
			t.Errorf("expected hard question, got %s", q.Difficulty)
		}
	}
	for _, req := range gen.requests {
		if req.BloomFocus != "Analyze" || req.Count != 1 {
			t.Errorf("unexpected request %+v", req)
		}
	}
}

func TestGenerateBank_AllTopicsFail(t *testing.T) {
	s := newStore(t)
	gen := &fakeGenerator{fail: map[string]bool{"A": true, "B": true}}
	gs := service.NewGenerationService(s, gen, 2, discardLogger())

	_, err := gs.GenerateBank(context.Background(), service.GenerateRequest{Topics: []string{"A", "B"}})
	var genErr *generator.GenerationError
	if !errors.As(err, &genErr) {
		t.Fatalf("expected GenerationError, got %v", err)
	}

	banks, _ := s.ListBanks(context.Background())
	if len(banks) != 0 {
		t.Errorf("expected nothing saved, got %d banks", len(banks))
	}
}

func TestGenerateBank_NoTopics(t *testing.T) {
	gs := service.NewGenerationService(newStore(t), &fakeGenerator{}, 1, discardLogger())

	_, err := gs.GenerateBank(context.Background(), service.GenerateRequest{Topics: []string{" ", ""}})
	if !errors.Is(err, service.ErrNoTopics) {
		t.Errorf("expected ErrNoTopics, got %v", err)
	}
}

func TestGenerateBank_DefaultsQuestionsPerTopic(t *testing.T) {
	gen := &fakeGenerator{}
	gs := service.NewGenerationService(newStore(t), gen, 1, discardLogger())

	res, err := gs.GenerateBank(context.Background(), service.GenerateRequest{Topics: []string{"Only"}})
	if err != nil {
		t.Fatalf("generate: %v", err)
	}
	if len(res.Bank.Questions) != 5 {
		t.Errorf("expected 5 questions by default, got %d", len(res.Bank.Questions))
	}
}

func TestGenerateFollowUp_UsesRecommendation(t *testing.T) {
	s := newStore(t)
	gen := &fakeGenerator{}
	gs := service.NewGenerationService(s, gen, 2, discardLogger())
	ctx := context.Background()

	first, err := gs.GenerateBank(ctx, service.GenerateRequest{
		Subject:           "Space",
		SourceText:        "Stars orbit galaxies.",
		Topics:            []string{"Stars", "Galaxies"},
		QuestionsPerTopic: 1,
	})
	if err != nil {
		t.Fatalf("generate: %v", err)
	}

	gen.requests = nil
	res, err := gs.GenerateFollowUp(ctx, first.Bank.ID, analytics.Recommendation{
		Difficulty: questionbank.Hard,
		BloomFocus: analytics.FocusAnalyze,
	}, 2)
	if err != nil {
		t.Fatalf("follow-up: %v", err)
	}

	if res.Bank.ID == first.Bank.ID || res.Bank.Subject != "Space" || res.Bank.SourceText != "Stars orbit galaxies." {
		t.Errorf("unexpected follow-up bank %+v", res.Bank)
	}
	if len(res.Bank.Questions) != 4 {
		t.Errorf("expected 4 questions, got %d", len(res.Bank.Questions))
	}
	if len(gen.requests) != 2 {
		t.Fatalf("expected one request per topic, got %d", len(gen.requests))
	}
	for _, req := range gen.requests {
		if req.Difficulty != questionbank.Hard || req.BloomFocus != analytics.FocusAnalyze || req.SourceText != "Stars orbit galaxies." {
			t.Errorf("unexpected request %+v", req)
		}
	}

	if _, err := gs.GenerateFollowUp(ctx, "missing", analytics.Recommendation{}, 1); !errors.Is(err, store.ErrNotFound) {
		t.Errorf("expected ErrNotFound, got %v", err)
	}
}
