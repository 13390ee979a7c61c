package questionbank

import (
	_ "embed"
	"encoding/json"
	"fmt"
)

//go:embed sample_questions.json
var sampleJSON []byte

// SampleSubject names the built-in bank.
const SampleSubject = "General Knowledge (built-in)"

type sampleQuestion struct {
	ID         string   `json:"id"`
	Topic      string   `json:"topic"`
	Difficulty string   `json:"difficulty"`
	Kind       string   `json:"kind"`
	Prompt     string   `json:"prompt"`
	Options    []string `json:"options"`
	Answer     string   `json:"answer"`
}

// Sample returns the static question bank shipped with the service.
// Every call returns a fresh bank with a new ID.
func Sample() (*QuestionBank, error) {
	var raw []sampleQuestion
	if err := json.Unmarshal(sampleJSON, &raw); err != nil {
		return nil, fmt.Errorf("decode sample bank: %w", err)
	}

	bank := New(SampleSubject)
	for _, r := range raw {
		_, err := bank.AddQuestion(Question{
			ID:         r.ID,
			Topic:      r.Topic,
			Difficulty: Difficulty(r.Difficulty),
			Kind:       Kind(r.Kind),
			Prompt:     r.Prompt,
			Options:    r.Options,
			Answer:     r.Answer,
		})
		if err != nil {
			return nil, fmt.Errorf("sample question %s: %w", r.ID, err)
		}
	}
	return bank, nil
}
