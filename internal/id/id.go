package id

import "crypto/rand"

const alphabet = "abcdefghijklmnopqrstuvwxyz0123456789"

// New returns a random 16-character alphanumeric ID used for banks and
// quiz sessions.
func New() string {
	return generate(16)
}

// NewQuestion returns a shorter 10-character ID for individual questions.
func NewQuestion() string {
	return generate(10)
}

func generate(n int) string {
	b := make([]byte, n)
	if _, err := rand.Read(b); err != nil {
		panic("crypto/rand failed: " + err.Error())
	}
	for i := range b {
		b[i] = alphabet[b[i]%byte(len(alphabet))]
	}
	return string(b)
}
