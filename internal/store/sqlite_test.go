package store_test

import (
	"context"
	"errors"
	"path/filepath"
	"testing"
	"time"

	"github.com/quizforge/backend/internal/domain/questionbank"
	quizengine "github.com/quizforge/backend/internal/domain/quiz_engine"
	"github.com/quizforge/backend/internal/store"
)

func newStore(t *testing.T) *store.SQLiteStore {
	t.Helper()
	s, err := store.NewSQLite(filepath.Join(t.TempDir(), "test.db"))
	if err != nil {
		t.Fatalf("open store: %v", err)
	}
	t.Cleanup(func() { s.Close() })
	return s
}

func sampleBank(t *testing.T) *questionbank.QuestionBank {
	t.Helper()
	bank := questionbank.New("Go")
	bank.SourceText = "Goroutines and channels."
	questions := []questionbank.Question{
		{Topic: "Concurrency", Difficulty: questionbank.Easy, Kind: questionbank.KindMultipleChoice,
			Prompt: "What starts a goroutine?", Options: []string{"go", "run", "spawn"}, Answer: "go"},
		{Topic: "Channels", Difficulty: questionbank.Hard, Kind: questionbank.KindShortAnswer,
			Prompt: "Which builtin closes a channel?", Answer: "close"},
	}
	for _, q := range questions {
		if _, err := bank.AddQuestion(q); err != nil {
			t.Fatalf("add question: %v", err)
		}
	}
	return bank
}

func TestBank_RoundTrip(t *testing.T) {
	ctx := context.Background()
	s := newStore(t)
	bank := sampleBank(t)

	if err := s.SaveBank(ctx, bank); err != nil {
		t.Fatalf("save bank: %v", err)
	}

	got, err := s.GetBank(ctx, bank.ID)
	if err != nil {
		t.Fatalf("get bank: %v", err)
	}
	if got.Subject != "Go" || got.SourceText != bank.SourceText {
		t.Errorf("unexpected bank %+v", got)
	}
	if len(got.Questions) != 2 {
		t.Fatalf("expected 2 questions, got %d", len(got.Questions))
	}
	if got.Questions[0].ID != bank.Questions[0].ID || len(got.Questions[0].Options) != 3 {
		t.Errorf("unexpected first question %+v", got.Questions[0])
	}
	if got.Questions[1].Kind != questionbank.KindShortAnswer || got.Questions[1].Options != nil {
		t.Errorf("unexpected second question %+v", got.Questions[1])
	}
	if !got.CreatedAt.Equal(bank.CreatedAt.Truncate(time.Millisecond)) {
		t.Errorf("expected created_at %v, got %v", bank.CreatedAt, got.CreatedAt)
	}
}

func TestGetBank_NotFound(t *testing.T) {
	s := newStore(t)
	_, err := s.GetBank(context.Background(), "missing")
	if !errors.Is(err, store.ErrNotFound) {
		t.Errorf("expected ErrNotFound, got %v", err)
	}
}

func TestListBanks_CountsQuestions(t *testing.T) {
	ctx := context.Background()
	s := newStore(t)
	bank := sampleBank(t)
	if err := s.SaveBank(ctx, bank); err != nil {
		t.Fatalf("save bank: %v", err)
	}
	if err := s.SaveBank(ctx, questionbank.New("Empty")); err != nil {
		t.Fatalf("save bank: %v", err)
	}

	banks, err := s.ListBanks(ctx)
	if err != nil {
		t.Fatalf("list banks: %v", err)
	}
	if len(banks) != 2 {
		t.Fatalf("expected 2 banks, got %d", len(banks))
	}
	counts := map[string]int{}
	for _, b := range banks {
		counts[b.Subject] = b.QuestionCount
	}
	if counts["Go"] != 2 || counts["Empty"] != 0 {
		t.Errorf("unexpected counts %v", counts)
	}
}

func TestAddAndDeleteQuestion(t *testing.T) {
	ctx := context.Background()
	s := newStore(t)
	bank := sampleBank(t)
	if err := s.SaveBank(ctx, bank); err != nil {
		t.Fatalf("save bank: %v", err)
	}

	q, err := bank.AddQuestion(questionbank.Question{
		Topic: "Channels", Difficulty: questionbank.Medium, Kind: questionbank.KindFillBlank,
		Prompt: "A nil channel blocks ____.", Answer: "forever",
	})
	if err != nil {
		t.Fatalf("add question: %v", err)
	}
	if err := s.AddQuestion(ctx, bank.ID, q); err != nil {
		t.Fatalf("store question: %v", err)
	}

	got, _ := s.GetBank(ctx, bank.ID)
	if len(got.Questions) != 3 || got.Questions[2].ID != q.ID {
		t.Fatalf("expected new question last, got %+v", got.Questions)
	}

	if err := s.DeleteQuestion(ctx, bank.ID, q.ID); err != nil {
		t.Fatalf("delete question: %v", err)
	}
	if err := s.DeleteQuestion(ctx, bank.ID, q.ID); !errors.Is(err, store.ErrNotFound) {
		t.Errorf("expected ErrNotFound on second delete, got %v", err)
	}
}

func TestSession_RecordAnswers(t *testing.T) {
	ctx := context.Background()
	s := newStore(t)
	bank := sampleBank(t)
	if err := s.SaveBank(ctx, bank); err != nil {
		t.Fatalf("save bank: %v", err)
	}

	now := time.Now().UTC()
	sess := &store.StoredSession{
		ID: "session-1", BankID: bank.ID, TargetSize: 2,
		CurrentDifficulty: questionbank.Medium, CreatedAt: now, UpdatedAt: now,
	}
	if err := s.SaveSession(ctx, sess); err != nil {
		t.Fatalf("save session: %v", err)
	}

	events := []quizengine.AnswerEvent{
		{QuestionID: bank.Questions[0].ID, Topic: "Concurrency", Difficulty: questionbank.Easy,
			TargetDifficulty: questionbank.Medium, TimeTaken: 4200 * time.Millisecond, IsCorrect: true, Answer: "go"},
		{QuestionID: bank.Questions[1].ID, Topic: "Channels", Difficulty: questionbank.Hard,
			TargetDifficulty: questionbank.Hard, TimeTaken: 41 * time.Second, Skipped: true},
	}
	if err := s.RecordAnswer(ctx, sess.ID, 0, events[0], 1, questionbank.Hard, false); err != nil {
		t.Fatalf("record answer: %v", err)
	}
	if err := s.RecordAnswer(ctx, sess.ID, 1, events[1], 1, questionbank.Medium, true); err != nil {
		t.Fatalf("record answer: %v", err)
	}

	got, err := s.GetSession(ctx, sess.ID)
	if err != nil {
		t.Fatalf("get session: %v", err)
	}
	if got.Score != 1 || !got.Finished || got.CurrentDifficulty != questionbank.Medium {
		t.Errorf("unexpected session %+v", got)
	}

	stored, err := s.ListAnswerEvents(ctx, sess.ID)
	if err != nil {
		t.Fatalf("list events: %v", err)
	}
	if len(stored) != 2 {
		t.Fatalf("expected 2 events, got %d", len(stored))
	}
	for i := range events {
		if stored[i] != events[i] {
			t.Errorf("event %d: expected %+v, got %+v", i, events[i], stored[i])
		}
	}

	list, err := s.ListSessionsByBank(ctx, bank.ID)
	if err != nil || len(list) != 1 {
		t.Errorf("expected 1 session for bank, got %d (%v)", len(list), err)
	}
}

func TestRecordAnswer_UnknownSession(t *testing.T) {
	s := newStore(t)
	err := s.RecordAnswer(context.Background(), "missing", 0, quizengine.AnswerEvent{}, 0, questionbank.Easy, false)
	if !errors.Is(err, store.ErrNotFound) {
		t.Errorf("expected ErrNotFound, got %v", err)
	}
}

func TestDeleteBank_Cascades(t *testing.T) {
	ctx := context.Background()
	s := newStore(t)
	bank := sampleBank(t)
	if err := s.SaveBank(ctx, bank); err != nil {
		t.Fatalf("save bank: %v", err)
	}
	now := time.Now()
	if err := s.SaveSession(ctx, &store.StoredSession{ID: "s", BankID: bank.ID, TargetSize: 1,
		CurrentDifficulty: questionbank.Medium, CreatedAt: now, UpdatedAt: now}); err != nil {
		t.Fatalf("save session: %v", err)
	}

	if err := s.DeleteBank(ctx, bank.ID); err != nil {
		t.Fatalf("delete bank: %v", err)
	}
	if _, err := s.GetSession(ctx, "s"); !errors.Is(err, store.ErrNotFound) {
		t.Errorf("expected session removed with bank, got %v", err)
	}
	if err := s.DeleteBank(ctx, bank.ID); !errors.Is(err, store.ErrNotFound) {
		t.Errorf("expected ErrNotFound, got %v", err)
	}
}
