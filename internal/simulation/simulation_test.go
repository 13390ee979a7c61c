package simulation_test

import (
	"testing"

	"github.com/quizforge/backend/internal/domain/analytics"
	"github.com/quizforge/backend/internal/domain/questionbank"
	"github.com/quizforge/backend/internal/simulation"
)

func sampleBank(t *testing.T) *questionbank.QuestionBank {
	t.Helper()
	bank, err := questionbank.Sample()
	if err != nil {
		t.Fatalf("sample: %v", err)
	}
	return bank
}

func TestRun_ExpertClimbsToHard(t *testing.T) {
	res, err := simulation.Run(sampleBank(t), 6, simulation.Expert{}, 1)
	if err != nil {
		t.Fatalf("run: %v", err)
	}

	if len(res.Steps) != 6 || res.State.Score != 6 {
		t.Fatalf("expected 6 correct steps, got %d steps, score %d", len(res.Steps), res.State.Score)
	}
	if res.Steps[0].Target != questionbank.Medium {
		t.Errorf("expected first target medium, got %s", res.Steps[0].Target)
	}
	for _, s := range res.Steps[1:] {
		if s.Target != questionbank.Hard {
			t.Errorf("expected hard target after a fast correct answer, got %s", s.Target)
		}
	}
	if res.Recommendation.Difficulty != questionbank.Hard || res.Recommendation.BloomFocus != analytics.FocusAnalyze {
		t.Errorf("unexpected recommendation %+v", res.Recommendation)
	}
}

func TestRun_StrugglerFallsToEasy(t *testing.T) {
	res, err := simulation.Run(sampleBank(t), 5, simulation.Struggler{}, 1)
	if err != nil {
		t.Fatalf("run: %v", err)
	}

	if res.State.Score != 0 || res.State.CurrentDifficulty != questionbank.Easy {
		t.Errorf("unexpected final state score=%d difficulty=%s", res.State.Score, res.State.CurrentDifficulty)
	}
	if res.Summary.AverageTimeSeconds != 45 {
		t.Errorf("expected 45s average, got %v", res.Summary.AverageTimeSeconds)
	}
	if res.Recommendation.Difficulty != questionbank.Easy {
		t.Errorf("expected easy recommendation, got %s", res.Recommendation.Difficulty)
	}
}

func TestRun_Deterministic(t *testing.T) {
	bank := sampleBank(t)
	a, err := simulation.Run(bank, 10, simulation.Novice{}, 42)
	if err != nil {
		t.Fatalf("run: %v", err)
	}
	b, err := simulation.Run(bank, 10, simulation.Novice{}, 42)
	if err != nil {
		t.Fatalf("run: %v", err)
	}

	for i := range a.Steps {
		if a.Steps[i].Question.ID != b.Steps[i].Question.ID {
			t.Fatalf("step %d differs: %s vs %s", i, a.Steps[i].Question.ID, b.Steps[i].Question.ID)
		}
	}
}

func TestRun_EmptyBank(t *testing.T) {
	if _, err := simulation.Run(questionbank.New("empty"), 5, simulation.Expert{}, 1); err == nil {
		t.Error("expected error for empty bank")
	}
}

func TestRunAll_KeepsPlayerOrder(t *testing.T) {
	players := simulation.DefaultPlayers(3)
	results, err := simulation.RunAll(sampleBank(t), 8, players, 9, 2)
	if err != nil {
		t.Fatalf("run all: %v", err)
	}
	if len(results) != len(players) {
		t.Fatalf("expected %d results, got %d", len(players), len(results))
	}
	for i, r := range results {
		if r.Player != players[i].Name() {
			t.Errorf("result %d: expected %s, got %s", i, players[i].Name(), r.Player)
		}
		if r.Summary.Answered != 8 {
			t.Errorf("%s: expected 8 answers, got %d", r.Player, r.Summary.Answered)
		}
	}
}
