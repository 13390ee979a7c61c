package service

import "errors"

var (
	// ErrSessionExpired is returned for a stored session whose live engine
	// was evicted or lost on restart. Its analytics remain available.
	ErrSessionExpired = errors.New("session expired")
	// ErrNoTopics is returned when generation has no topic to work on.
	ErrNoTopics = errors.New("no topics to generate questions for")
)
