// internal/store/sqlite.go
package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"
	_ "modernc.org/sqlite"

	"github.com/quizforge/backend/internal/domain/questionbank"
	quizengine "github.com/quizforge/backend/internal/domain/quiz_engine"
)

const schema = `
CREATE TABLE IF NOT EXISTS banks (
    id TEXT PRIMARY KEY,
    subject TEXT NOT NULL,
    source_text TEXT NOT NULL DEFAULT '',
    created_at INTEGER NOT NULL
);

CREATE TABLE IF NOT EXISTS questions (
    bank_id TEXT NOT NULL,
    id TEXT NOT NULL,
    position INTEGER NOT NULL,
    topic TEXT NOT NULL,
    difficulty TEXT NOT NULL,
    kind TEXT NOT NULL,
    prompt TEXT NOT NULL,
    options TEXT NOT NULL,
    answer TEXT NOT NULL,
    explanation TEXT NOT NULL DEFAULT '',
    PRIMARY KEY (bank_id, id),
    FOREIGN KEY (bank_id) REFERENCES banks(id) ON DELETE CASCADE
);

CREATE TABLE IF NOT EXISTS quiz_sessions (
    id TEXT PRIMARY KEY,
    bank_id TEXT NOT NULL,
    target_size INTEGER NOT NULL,
    score INTEGER NOT NULL DEFAULT 0,
    current_difficulty TEXT NOT NULL,
    finished BOOLEAN NOT NULL DEFAULT FALSE,
    created_at INTEGER NOT NULL,
    updated_at INTEGER NOT NULL,
    FOREIGN KEY (bank_id) REFERENCES banks(id) ON DELETE CASCADE
);

CREATE TABLE IF NOT EXISTS answer_events (
    session_id TEXT NOT NULL,
    position INTEGER NOT NULL,
    question_id TEXT NOT NULL,
    topic TEXT NOT NULL,
    difficulty TEXT NOT NULL,
    target_difficulty TEXT NOT NULL,
    time_taken_ms INTEGER NOT NULL,
    is_correct BOOLEAN NOT NULL,
    skipped BOOLEAN NOT NULL,
    answer TEXT NOT NULL,
    PRIMARY KEY (session_id, position),
    FOREIGN KEY (session_id) REFERENCES quiz_sessions(id) ON DELETE CASCADE
);
`

type SQLiteStore struct {
	db *sqlx.DB
}

// Compile-time check: *SQLiteStore satisfies the Store interface.
var _ Store = (*SQLiteStore)(nil)

func NewSQLite(dbPath string) (*SQLiteStore, error) {
	db, err := sqlx.Connect("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}

	// SQLite doesn't support multiple writers; one connection also keeps
	// the foreign_keys pragma in effect for every statement.
	db.SetMaxOpenConns(1)
	db.SetMaxIdleConns(1)

	if _, err := db.Exec("PRAGMA foreign_keys = ON"); err != nil {
		db.Close()
		return nil, fmt.Errorf("enable foreign keys: %w", err)
	}
	if _, err := db.Exec(schema); err != nil {
		db.Close()
		return nil, fmt.Errorf("create schema: %w", err)
	}

	return &SQLiteStore{db: db}, nil
}

func (s *SQLiteStore) Close() error {
	return s.db.Close()
}

func toMillis(t time.Time) int64 {
	return t.UnixMilli()
}

func fromMillis(ms int64) time.Time {
	return time.UnixMilli(ms).UTC()
}

// ── Rows ────────────────────────────────────────────────────────────────────

type bankRow struct {
	ID         string `db:"id"`
	Subject    string `db:"subject"`
	SourceText string `db:"source_text"`
	CreatedAt  int64  `db:"created_at"`
}

type bankSummaryRow struct {
	ID            string `db:"id"`
	Subject       string `db:"subject"`
	CreatedAt     int64  `db:"created_at"`
	QuestionCount int    `db:"question_count"`
}

type questionRow struct {
	BankID      string `db:"bank_id"`
	ID          string `db:"id"`
	Position    int    `db:"position"`
	Topic       string `db:"topic"`
	Difficulty  string `db:"difficulty"`
	Kind        string `db:"kind"`
	Prompt      string `db:"prompt"`
	Options     string `db:"options"` // JSON array
	Answer      string `db:"answer"`
	Explanation string `db:"explanation"`
}

func newQuestionRow(bankID string, position int, q questionbank.Question) (questionRow, error) {
	options, err := json.Marshal(q.Options)
	if err != nil {
		return questionRow{}, err
	}
	return questionRow{
		BankID:      bankID,
		ID:          q.ID,
		Position:    position,
		Topic:       q.Topic,
		Difficulty:  string(q.Difficulty),
		Kind:        string(q.Kind),
		Prompt:      q.Prompt,
		Options:     string(options),
		Answer:      q.Answer,
		Explanation: q.Explanation,
	}, nil
}

func (r questionRow) question() (questionbank.Question, error) {
	q := questionbank.Question{
		ID:          r.ID,
		Topic:       r.Topic,
		Difficulty:  questionbank.Difficulty(r.Difficulty),
		Kind:        questionbank.Kind(r.Kind),
		Prompt:      r.Prompt,
		Answer:      r.Answer,
		Explanation: r.Explanation,
	}
	if err := json.Unmarshal([]byte(r.Options), &q.Options); err != nil {
		return questionbank.Question{}, fmt.Errorf("decode options of question %s: %w", r.ID, err)
	}
	return q, nil
}

type sessionRow struct {
	ID                string `db:"id"`
	BankID            string `db:"bank_id"`
	TargetSize        int    `db:"target_size"`
	Score             int    `db:"score"`
	CurrentDifficulty string `db:"current_difficulty"`
	Finished          bool   `db:"finished"`
	CreatedAt         int64  `db:"created_at"`
	UpdatedAt         int64  `db:"updated_at"`
}

func (r sessionRow) session() StoredSession {
	return StoredSession{
		ID:                r.ID,
		BankID:            r.BankID,
		TargetSize:        r.TargetSize,
		Score:             r.Score,
		CurrentDifficulty: questionbank.Difficulty(r.CurrentDifficulty),
		Finished:          r.Finished,
		CreatedAt:         fromMillis(r.CreatedAt),
		UpdatedAt:         fromMillis(r.UpdatedAt),
	}
}

type eventRow struct {
	SessionID        string `db:"session_id"`
	Position         int    `db:"position"`
	QuestionID       string `db:"question_id"`
	Topic            string `db:"topic"`
	Difficulty       string `db:"difficulty"`
	TargetDifficulty string `db:"target_difficulty"`
	TimeTakenMS      int64  `db:"time_taken_ms"`
	IsCorrect        bool   `db:"is_correct"`
	Skipped          bool   `db:"skipped"`
	Answer           string `db:"answer"`
}

func (r eventRow) event() quizengine.AnswerEvent {
	return quizengine.AnswerEvent{
		QuestionID:       r.QuestionID,
		Topic:            r.Topic,
		Difficulty:       questionbank.Difficulty(r.Difficulty),
		TargetDifficulty: questionbank.Difficulty(r.TargetDifficulty),
		TimeTaken:        time.Duration(r.TimeTakenMS) * time.Millisecond,
		IsCorrect:        r.IsCorrect,
		Skipped:          r.Skipped,
		Answer:           r.Answer,
	}
}

// ============================================================================
// Banks
// ============================================================================

// SaveBank inserts the bank and all of its questions in one transaction.
func (s *SQLiteStore) SaveBank(ctx context.Context, bank *questionbank.QuestionBank) error {
	tx, err := s.db.BeginTxx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	_, err = tx.NamedExecContext(ctx,
		"INSERT INTO banks (id, subject, source_text, created_at) VALUES (:id, :subject, :source_text, :created_at)",
		bankRow{ID: bank.ID, Subject: bank.Subject, SourceText: bank.SourceText, CreatedAt: toMillis(bank.CreatedAt)},
	)
	if err != nil {
		return err
	}

	for i, q := range bank.Questions {
		if err := insertQuestion(ctx, tx, bank.ID, i, q); err != nil {
			return err
		}
	}

	return tx.Commit()
}

const insertQuestionQuery = `INSERT INTO questions (bank_id, id, position, topic, difficulty, kind, prompt, options, answer, explanation)
	VALUES (:bank_id, :id, :position, :topic, :difficulty, :kind, :prompt, :options, :answer, :explanation)`

func insertQuestion(ctx context.Context, tx *sqlx.Tx, bankID string, position int, q questionbank.Question) error {
	row, err := newQuestionRow(bankID, position, q)
	if err != nil {
		return err
	}
	_, err = tx.NamedExecContext(ctx, insertQuestionQuery, row)
	return err
}

func (s *SQLiteStore) GetBank(ctx context.Context, id string) (*questionbank.QuestionBank, error) {
	var b bankRow
	err := s.db.GetContext(ctx, &b, "SELECT id, subject, source_text, created_at FROM banks WHERE id = ?", id)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}

	var rows []questionRow
	err = s.db.SelectContext(ctx, &rows,
		`SELECT bank_id, id, position, topic, difficulty, kind, prompt, options, answer, explanation
		 FROM questions WHERE bank_id = ? ORDER BY position`, id,
	)
	if err != nil {
		return nil, err
	}

	bank := &questionbank.QuestionBank{
		ID:         b.ID,
		Subject:    b.Subject,
		SourceText: b.SourceText,
		CreatedAt:  fromMillis(b.CreatedAt),
		Questions:  make([]questionbank.Question, 0, len(rows)),
	}
	for _, r := range rows {
		q, err := r.question()
		if err != nil {
			return nil, err
		}
		bank.Questions = append(bank.Questions, q)
	}
	return bank, nil
}

func (s *SQLiteStore) ListBanks(ctx context.Context) ([]BankSummary, error) {
	var rows []bankSummaryRow
	err := s.db.SelectContext(ctx, &rows, `
		SELECT b.id, b.subject, b.created_at, COUNT(q.id) AS question_count
		FROM banks b LEFT JOIN questions q ON q.bank_id = b.id
		GROUP BY b.id
		ORDER BY b.created_at, b.id
	`)
	if err != nil {
		return nil, err
	}

	banks := make([]BankSummary, len(rows))
	for i, r := range rows {
		banks[i] = BankSummary{
			ID:            r.ID,
			Subject:       r.Subject,
			CreatedAt:     fromMillis(r.CreatedAt),
			QuestionCount: r.QuestionCount,
		}
	}
	return banks, nil
}

// DeleteBank removes the bank; questions and sessions cascade.
func (s *SQLiteStore) DeleteBank(ctx context.Context, id string) error {
	result, err := s.db.ExecContext(ctx, "DELETE FROM banks WHERE id = ?", id)
	if err != nil {
		return err
	}
	return requireRow(result)
}

// AddQuestion appends q after the bank's last question.
func (s *SQLiteStore) AddQuestion(ctx context.Context, bankID string, q questionbank.Question) error {
	tx, err := s.db.BeginTxx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	var position int
	err = tx.GetContext(ctx, &position,
		"SELECT COALESCE(MAX(position) + 1, 0) FROM questions WHERE bank_id = ?", bankID,
	)
	if err != nil {
		return err
	}

	if err := insertQuestion(ctx, tx, bankID, position, q); err != nil {
		return err
	}
	return tx.Commit()
}

func (s *SQLiteStore) DeleteQuestion(ctx context.Context, bankID, questionID string) error {
	result, err := s.db.ExecContext(ctx,
		"DELETE FROM questions WHERE bank_id = ? AND id = ?", bankID, questionID,
	)
	if err != nil {
		return err
	}
	return requireRow(result)
}

func requireRow(result sql.Result) error {
	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return err
	}
	if rowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

// ============================================================================
// Sessions
// ============================================================================

func (s *SQLiteStore) SaveSession(ctx context.Context, sess *StoredSession) error {
	_, err := s.db.NamedExecContext(ctx,
		`INSERT INTO quiz_sessions (id, bank_id, target_size, score, current_difficulty, finished, created_at, updated_at)
		 VALUES (:id, :bank_id, :target_size, :score, :current_difficulty, :finished, :created_at, :updated_at)`,
		sessionRow{
			ID:                sess.ID,
			BankID:            sess.BankID,
			TargetSize:        sess.TargetSize,
			Score:             sess.Score,
			CurrentDifficulty: string(sess.CurrentDifficulty),
			Finished:          sess.Finished,
			CreatedAt:         toMillis(sess.CreatedAt),
			UpdatedAt:         toMillis(sess.UpdatedAt),
		},
	)
	return err
}

const sessionColumns = "id, bank_id, target_size, score, current_difficulty, finished, created_at, updated_at"

func (s *SQLiteStore) GetSession(ctx context.Context, id string) (*StoredSession, error) {
	var r sessionRow
	err := s.db.GetContext(ctx, &r, "SELECT "+sessionColumns+" FROM quiz_sessions WHERE id = ?", id)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	sess := r.session()
	return &sess, nil
}

func (s *SQLiteStore) ListSessionsByBank(ctx context.Context, bankID string) ([]StoredSession, error) {
	var rows []sessionRow
	err := s.db.SelectContext(ctx, &rows,
		"SELECT "+sessionColumns+" FROM quiz_sessions WHERE bank_id = ? ORDER BY created_at, id", bankID,
	)
	if err != nil {
		return nil, err
	}

	sessions := make([]StoredSession, len(rows))
	for i, r := range rows {
		sessions[i] = r.session()
	}
	return sessions, nil
}

// RecordAnswer appends one answer event and updates the session progress
// in the same transaction.
func (s *SQLiteStore) RecordAnswer(ctx context.Context, sessionID string, position int, ev quizengine.AnswerEvent, score int, next questionbank.Difficulty, finished bool) error {
	tx, err := s.db.BeginTxx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	result, err := tx.ExecContext(ctx,
		"UPDATE quiz_sessions SET score = ?, current_difficulty = ?, finished = ?, updated_at = ? WHERE id = ?",
		score, string(next), finished, toMillis(time.Now()), sessionID,
	)
	if err != nil {
		return err
	}
	if err := requireRow(result); err != nil {
		return err
	}

	_, err = tx.NamedExecContext(ctx,
		`INSERT INTO answer_events (session_id, position, question_id, topic, difficulty, target_difficulty, time_taken_ms, is_correct, skipped, answer)
		 VALUES (:session_id, :position, :question_id, :topic, :difficulty, :target_difficulty, :time_taken_ms, :is_correct, :skipped, :answer)`,
		eventRow{
			SessionID:        sessionID,
			Position:         position,
			QuestionID:       ev.QuestionID,
			Topic:            ev.Topic,
			Difficulty:       string(ev.Difficulty),
			TargetDifficulty: string(ev.TargetDifficulty),
			TimeTakenMS:      ev.TimeTaken.Milliseconds(),
			IsCorrect:        ev.IsCorrect,
			Skipped:          ev.Skipped,
			Answer:           ev.Answer,
		},
	)
	if err != nil {
		return err
	}
	return tx.Commit()
}

func (s *SQLiteStore) ListAnswerEvents(ctx context.Context, sessionID string) ([]quizengine.AnswerEvent, error) {
	var rows []eventRow
	err := s.db.SelectContext(ctx, &rows,
		`SELECT session_id, position, question_id, topic, difficulty, target_difficulty, time_taken_ms, is_correct, skipped, answer
		 FROM answer_events WHERE session_id = ? ORDER BY position`, sessionID,
	)
	if err != nil {
		return nil, err
	}

	events := make([]quizengine.AnswerEvent, len(rows))
	for i, r := range rows {
		events[i] = r.event()
	}
	return events, nil
}
