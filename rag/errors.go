package rag

import "errors"

var (
	// ErrSearcherRequired is returned when a context searcher is not provided.
	ErrSearcherRequired = errors.New("context searcher required")

	// ErrAIProviderRequired is returned when an AI provider is not provided.
	ErrAIProviderRequired = errors.New("AI provider required")

	// ErrChatRepositoryRequired is returned when chat turns are used
	// without a chat repository.
	ErrChatRepositoryRequired = errors.New("chat repository required")

	// ErrEmptyQuestion is returned for blank questions.
	ErrEmptyQuestion = errors.New("empty question")
)
