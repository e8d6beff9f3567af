package domain

import "errors"

var (
	// ErrNoTopicSelected is returned when an attempt is started without a topic.
	ErrNoTopicSelected = errors.New("no topic selected")
	// ErrTopicNotFound indicates the requested topic does not exist in the catalog.
	ErrTopicNotFound = errors.New("topic not found")
	// ErrQuestionsUnavailable indicates the topic's question set could not be loaded.
	ErrQuestionsUnavailable = errors.New("questions unavailable")
	// ErrUserNotFound indicates an unknown user id.
	ErrUserNotFound = errors.New("user not found")
	// ErrInvalidCredentials indicates a failed login.
	ErrInvalidCredentials = errors.New("invalid credentials")
	// ErrAttemptNotFound is returned when acting on a user with no live attempt.
	ErrAttemptNotFound = errors.New("quiz attempt not found")
)
