// internal/service/quiz.go
package service

import (
	"context"
	"errors"
	"log/slog"
	"sync"
	"sync/atomic"
	"time"

	"github.com/quizforge/backend/internal/domain/analytics"
	"github.com/quizforge/backend/internal/domain/questionbank"
	quizengine "github.com/quizforge/backend/internal/domain/quiz_engine"
	"github.com/quizforge/backend/internal/id"
	"github.com/quizforge/backend/internal/store"
)

// SessionInfo describes a freshly started quiz attempt.
type SessionInfo struct {
	ID         string
	BankID     string
	Total      int
	Difficulty questionbank.Difficulty
}

// ServedQuestion is the question at the cursor plus progress.
type ServedQuestion struct {
	Question   questionbank.Question
	Index      int
	Total      int
	Difficulty questionbank.Difficulty
}

// Report bundles the analytics of a session with the next-round advice.
type Report struct {
	SessionID      string
	BankID         string
	Finished       bool
	Summary        analytics.Summary
	Recommendation analytics.Recommendation
}

// liveSession guards one engine. The engine is not reentrant, so every
// call on it happens under mu. lastActive is read by the idle sweep without
// taking mu.
type liveSession struct {
	mu         sync.Mutex
	bankID     string
	engine     *quizengine.Engine
	lastActive atomic.Int64 // unix nanos
}

func (ls *liveSession) touch(t time.Time) { ls.lastActive.Store(t.UnixNano()) }

func (ls *liveSession) idleSince(cutoff time.Time) bool {
	return ls.lastActive.Load() < cutoff.UnixNano()
}

// QuizService runs quiz attempts. Engines live in memory; progress and
// answer events are persisted so analytics survive eviction.
type QuizService struct {
	store      store.Store
	logger     *slog.Logger
	cfg        quizengine.Config
	engineOpts []quizengine.Option
	now        func() time.Time

	mu       sync.RWMutex
	sessions map[string]*liveSession // sessionID → live engine
}

// QuizOption customizes a QuizService.
type QuizOption func(*QuizService)

// WithEngineOptions passes opts to every engine the service creates.
func WithEngineOptions(opts ...quizengine.Option) QuizOption {
	return func(qs *QuizService) { qs.engineOpts = append(qs.engineOpts, opts...) }
}

// WithNow replaces time.Now for idle tracking.
func WithNow(now func() time.Time) QuizOption {
	return func(qs *QuizService) { qs.now = now }
}

// NewQuizService creates a QuizService.
func NewQuizService(s store.Store, cfg quizengine.Config, logger *slog.Logger, opts ...QuizOption) *QuizService {
	qs := &QuizService{
		store:    s,
		logger:   logger,
		cfg:      cfg,
		now:      time.Now,
		sessions: make(map[string]*liveSession),
	}
	for _, opt := range opts {
		opt(qs)
	}
	return qs
}

// StartSession draws a balanced session from the bank. A non-positive
// targetSize uses the configured default.
func (qs *QuizService) StartSession(ctx context.Context, bankID string, targetSize int) (*SessionInfo, error) {
	bank, err := qs.store.GetBank(ctx, bankID)
	if err != nil {
		return nil, err
	}

	if targetSize <= 0 {
		targetSize = qs.cfg.TargetSize
	}

	engine := quizengine.New(qs.cfg, qs.engineOpts...)
	if err := engine.Initialize(bank.Questions, targetSize); err != nil {
		return nil, err
	}
	_, total := engine.Progress()

	now := qs.now()
	stored := &store.StoredSession{
		ID:                id.New(),
		BankID:            bank.ID,
		TargetSize:        total,
		CurrentDifficulty: questionbank.Medium,
		CreatedAt:         now,
		UpdatedAt:         now,
	}
	if err := qs.store.SaveSession(ctx, stored); err != nil {
		return nil, err
	}

	ls := &liveSession{bankID: bank.ID, engine: engine}
	ls.touch(now)
	qs.mu.Lock()
	qs.sessions[stored.ID] = ls
	qs.mu.Unlock()

	qs.logger.Info("quiz session started",
		"session_id", stored.ID,
		"bank_id", bank.ID,
		"questions", total,
	)

	return &SessionInfo{
		ID:         stored.ID,
		BankID:     bank.ID,
		Total:      total,
		Difficulty: questionbank.Medium,
	}, nil
}

// live returns the in-memory session. Without one it returns the stored row
// with ErrSessionExpired, or store.ErrNotFound.
func (qs *QuizService) live(ctx context.Context, sessionID string) (*liveSession, *store.StoredSession, error) {
	qs.mu.RLock()
	ls, ok := qs.sessions[sessionID]
	qs.mu.RUnlock()
	if ok {
		return ls, nil, nil
	}

	stored, err := qs.store.GetSession(ctx, sessionID)
	if err != nil {
		return nil, nil, err
	}
	return nil, stored, ErrSessionExpired
}

// playable is live for the serve and answer paths. An evicted session that
// had already finished reports ErrSessionExhausted, as the live engine would.
func (qs *QuizService) playable(ctx context.Context, sessionID string) (*liveSession, error) {
	ls, stored, err := qs.live(ctx, sessionID)
	if errors.Is(err, ErrSessionExpired) && stored.Finished {
		return nil, quizengine.ErrSessionExhausted
	}
	return ls, err
}

// CurrentQuestion serves the question at the cursor and starts its timer.
func (qs *QuizService) CurrentQuestion(ctx context.Context, sessionID string) (*ServedQuestion, error) {
	ls, err := qs.playable(ctx, sessionID)
	if err != nil {
		return nil, err
	}

	ls.mu.Lock()
	defer ls.mu.Unlock()
	ls.touch(qs.now())

	q, err := ls.engine.CurrentQuestion()
	if err != nil {
		return nil, err
	}
	index, total := ls.engine.Progress()
	return &ServedQuestion{
		Question:   q,
		Index:      index,
		Total:      total,
		Difficulty: ls.engine.Difficulty(),
	}, nil
}

// SubmitAnswer grades value for the served question.
func (qs *QuizService) SubmitAnswer(ctx context.Context, sessionID, value string) (*quizengine.SubmitResult, error) {
	return qs.answer(ctx, sessionID, func(e *quizengine.Engine) (quizengine.SubmitResult, error) {
		return e.SubmitAnswer(value)
	})
}

// Skip records the served question as skipped.
func (qs *QuizService) Skip(ctx context.Context, sessionID string) (*quizengine.SubmitResult, error) {
	return qs.answer(ctx, sessionID, (*quizengine.Engine).Skip)
}

func (qs *QuizService) answer(ctx context.Context, sessionID string, submit func(*quizengine.Engine) (quizengine.SubmitResult, error)) (*quizengine.SubmitResult, error) {
	ls, err := qs.playable(ctx, sessionID)
	if err != nil {
		return nil, err
	}

	ls.mu.Lock()
	defer ls.mu.Unlock()
	ls.touch(qs.now())

	position, _ := ls.engine.Progress()
	res, err := submit(ls.engine)
	if err != nil {
		return nil, err
	}

	score := ls.engine.Score()
	err = qs.store.RecordAnswer(ctx, sessionID, position, res.Event, score, res.NextDifficulty, res.IsFinished)
	switch {
	case errors.Is(err, store.ErrNotFound):
		// The session row went with its bank; nothing more can be recorded.
		qs.drop(sessionID)
		qs.logger.Warn("answer for deleted session", "session_id", sessionID)
		return nil, err
	case err != nil:
		// The engine already advanced; the attempt stays playable and only
		// the history row is lost.
		qs.logger.Error("failed to record answer",
			"session_id", sessionID,
			"question_id", res.Event.QuestionID,
			"error", err,
		)
	}

	qs.logger.Debug("answer recorded",
		"session_id", sessionID,
		"question_id", res.Event.QuestionID,
		"correct", res.IsCorrect,
		"skipped", res.Event.Skipped,
		"next_difficulty", res.NextDifficulty,
	)
	if res.IsFinished {
		qs.logger.Info("quiz session finished", "session_id", sessionID, "score", score)
	}

	return &res, nil
}

// Analytics summarizes a session. Live sessions are read from memory;
// evicted ones are rebuilt from the stored answer events.
func (qs *QuizService) Analytics(ctx context.Context, sessionID string) (*Report, error) {
	var (
		log      []quizengine.AnswerEvent
		bankID   string
		score    int
		target   int
		finished bool
	)

	ls, stored, err := qs.live(ctx, sessionID)
	switch {
	case err == nil:
		ls.mu.Lock()
		state := ls.engine.State()
		finished = ls.engine.Finished()
		ls.mu.Unlock()
		bankID = ls.bankID
		log, score, target = state.BehaviorLog, state.Score, len(state.SelectedQuestions)

	case errors.Is(err, ErrSessionExpired):
		log, err = qs.store.ListAnswerEvents(ctx, sessionID)
		if err != nil {
			return nil, err
		}
		bankID = stored.BankID
		score, target, finished = stored.Score, stored.TargetSize, stored.Finished

	default:
		return nil, err
	}

	summary, err := analytics.Compute(log, score, target)
	if err != nil {
		return nil, err
	}
	return &Report{
		SessionID:      sessionID,
		BankID:         bankID,
		Finished:       finished,
		Summary:        summary,
		Recommendation: analytics.Recommend(summary),
	}, nil
}

// BankHistory folds every stored attempt on a bank into cross-attempt
// statistics. Live attempts count with the answers recorded so far.
func (qs *QuizService) BankHistory(ctx context.Context, bankID string) (*analytics.History, error) {
	if _, err := qs.store.GetBank(ctx, bankID); err != nil {
		return nil, err
	}
	sessions, err := qs.store.ListSessionsByBank(ctx, bankID)
	if err != nil {
		return nil, err
	}

	attempts := make([]analytics.AttemptLog, 0, len(sessions))
	for _, s := range sessions {
		log, err := qs.store.ListAnswerEvents(ctx, s.ID)
		if err != nil {
			return nil, err
		}
		attempts = append(attempts, analytics.AttemptLog{
			SessionID:  s.ID,
			StartedAt:  s.CreatedAt,
			Finished:   s.Finished,
			Score:      s.Score,
			TargetSize: s.TargetSize,
			Log:        log,
		})
	}

	history := analytics.Combine(attempts)
	return &history, nil
}

// EvictIdle drops live sessions untouched for longer than ttl and returns
// how many were removed. Candidates are collected under the read lock so
// lookups are not blocked while the sweep runs.
func (qs *QuizService) EvictIdle(ttl time.Duration) int {
	cutoff := qs.now().Add(-ttl)

	qs.mu.RLock()
	var idle []string
	for sid, ls := range qs.sessions {
		if ls.idleSince(cutoff) {
			idle = append(idle, sid)
		}
	}
	qs.mu.RUnlock()

	if len(idle) == 0 {
		return 0
	}

	qs.mu.Lock()
	evicted := 0
	for _, sid := range idle {
		// Skip sessions touched since the scan.
		if ls, ok := qs.sessions[sid]; ok && ls.idleSince(cutoff) {
			delete(qs.sessions, sid)
			evicted++
		}
	}
	remaining := len(qs.sessions)
	qs.mu.Unlock()

	if evicted > 0 {
		qs.logger.Info("evicted idle quiz sessions", "count", evicted, "remaining", remaining)
	}
	return evicted
}

// EvictBank drops the live sessions of a deleted bank and returns how many
// were removed.
func (qs *QuizService) EvictBank(bankID string) int {
	qs.mu.Lock()
	defer qs.mu.Unlock()

	evicted := 0
	for sid, ls := range qs.sessions {
		if ls.bankID == bankID {
			delete(qs.sessions, sid)
			evicted++
		}
	}
	if evicted > 0 {
		qs.logger.Info("dropped sessions of deleted bank", "bank_id", bankID, "count", evicted)
	}
	return evicted
}

func (qs *QuizService) drop(sessionID string) {
	qs.mu.Lock()
	delete(qs.sessions, sessionID)
	qs.mu.Unlock()
}

// ActiveSessions returns the number of live engines.
func (qs *QuizService) ActiveSessions() int {
	qs.mu.RLock()
	defer qs.mu.RUnlock()
	return len(qs.sessions)
}
