package questionbank

import (
	"fmt"
	"time"

	"github.com/quizforge/backend/internal/id"
)

// QuestionBank is a named collection of questions, usually produced from
// one piece of study material.
type QuestionBank struct {
	ID         string
	Subject    string
	SourceText string // Optional - material the questions were generated from
	CreatedAt  time.Time
	Questions  []Question
}

func New(subject string) *QuestionBank {
	return &QuestionBank{
		ID:        id.New(),
		Subject:   subject,
		CreatedAt: time.Now().UTC(),
		Questions: []Question{},
	}
}

// AddQuestion validates q, assigns an ID when it has none and appends it.
// The bank is left untouched on error.
func (qb *QuestionBank) AddQuestion(q Question) (Question, error) {
	if q.Kind == "" {
		q.Kind = KindMultipleChoice
	}
	if err := q.Validate(); err != nil {
		return Question{}, err
	}
	if q.ID == "" {
		q.ID = id.NewQuestion()
	}
	for _, existing := range qb.Questions {
		if existing.ID == q.ID {
			return Question{}, fmt.Errorf("duplicate question id %q", q.ID)
		}
	}

	q = q.Clone()
	qb.Questions = append(qb.Questions, q)
	return q, nil
}

// Topics returns the distinct topics in first-seen order.
func (qb *QuestionBank) Topics() []string {
	return Topics(qb.Questions)
}

// Topics returns the distinct topics of questions in first-seen order.
func Topics(questions []Question) []string {
	seen := make(map[string]bool)
	var topics []string
	for _, q := range questions {
		if !seen[q.Topic] {
			seen[q.Topic] = true
			topics = append(topics, q.Topic)
		}
	}
	return topics
}
