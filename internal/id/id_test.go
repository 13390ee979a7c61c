package id_test

import (
	"strings"
	"testing"

	"github.com/quizforge/backend/internal/id"
)

func TestNew_Length(t *testing.T) {
	if got := len(id.New()); got != 16 {
		t.Errorf("expected 16 characters, got %d", got)
	}
	if got := len(id.NewQuestion()); got != 10 {
		t.Errorf("expected 10 characters, got %d", got)
	}
}

func TestNew_Alphabet(t *testing.T) {
	for _, r := range id.New() {
		if !strings.ContainsRune("abcdefghijklmnopqrstuvwxyz0123456789", r) {
			t.Fatalf("unexpected character %q", r)
		}
	}
}

func TestNew_Unique(t *testing.T) {
	seen := make(map[string]bool)
	for i := 0; i < 100; i++ {
		v := id.New()
		if seen[v] {
			t.Fatalf("duplicate id %q", v)
		}
		seen[v] = true
	}
}
