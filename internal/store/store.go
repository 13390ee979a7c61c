package store

import (
	"context"
	"errors"
	"time"

	"github.com/quizforge/backend/internal/domain/questionbank"
	quizengine "github.com/quizforge/backend/internal/domain/quiz_engine"
)

var (
	ErrNotFound = errors.New("not found")
)

// BankSummary is a bank row without its questions.
type BankSummary struct {
	ID            string
	Subject       string
	CreatedAt     time.Time
	QuestionCount int
}

// StoredSession is the persisted header of a quiz attempt. The live engine
// state is kept in memory; this row tracks progress for history.
type StoredSession struct {
	ID                string
	BankID            string
	TargetSize        int
	Score             int
	CurrentDifficulty questionbank.Difficulty
	Finished          bool
	CreatedAt         time.Time
	UpdatedAt         time.Time
}

// Store is the persistence used by the services.
type Store interface {
	SaveBank(ctx context.Context, bank *questionbank.QuestionBank) error
	GetBank(ctx context.Context, id string) (*questionbank.QuestionBank, error)
	ListBanks(ctx context.Context) ([]BankSummary, error)
	DeleteBank(ctx context.Context, id string) error
	AddQuestion(ctx context.Context, bankID string, q questionbank.Question) error
	DeleteQuestion(ctx context.Context, bankID, questionID string) error

	SaveSession(ctx context.Context, s *StoredSession) error
	GetSession(ctx context.Context, id string) (*StoredSession, error)
	ListSessionsByBank(ctx context.Context, bankID string) ([]StoredSession, error)
	RecordAnswer(ctx context.Context, sessionID string, position int, ev quizengine.AnswerEvent, score int, next questionbank.Difficulty, finished bool) error
	ListAnswerEvents(ctx context.Context, sessionID string) ([]quizengine.AnswerEvent, error)
}
