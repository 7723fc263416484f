// Copyright 2025 Recall Systems
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.


package rag

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/recallhq/recall/ai"
	"github.com/recallhq/recall/core"
	"github.com/recallhq/recall/storage"
)

const (
	// NoContextAnswer is returned when no saved content qualifies as
	// grounding for the question. No model call is made in that case.
	NoContextAnswer = "I couldn't find anything in your saved content that answers this."

	// BusyAnswer is returned when the AI provider is out of quota or
	// capacity on every configured credential.
	BusyAnswer = "The answering service is at capacity right now. Please try again in a little while."

	// contextDelimiter separates context entries inside the prompt.
	contextDelimiter = "\n---\n"
)

const answerPromptTemplate = `You answer questions using ONLY the saved content provided below. Each entry has a
title and a summary, separated by "---". Do not use outside knowledge. If the entries do not contain the
answer, say that the saved content does not cover it. Answer concisely and mention which entries you drew on
by their titles.

Saved content:
%s

Question: %s`

// ContextSearcher retrieves grounding material for a question.
// *search.Searcher satisfies it.
type ContextSearcher interface {
	ContextSearch(ctx context.Context, owner, query string) ([]*core.ContextHit, error)
}

// Answer is a generated answer plus the context entries it was grounded on.
type Answer struct {
	Answer  string
	Sources []*core.ContextHit
}

// Answerer composes grounded answers over one owner's vault.
type Answerer struct {
	contexts  ContextSearcher
	generator ai.Generator
	chats     storage.ChatRepository
	logger    *slog.Logger
}

// Option configures an Answerer.
type Option func(*Answerer) error

// WithLogger sets a custom logger.
// Default is slog.Default().
func WithLogger(logger *slog.Logger) Option {
	return func(a *Answerer) error {
		if logger == nil {
			logger = slog.Default()
		}
		a.logger = logger
		return nil
	}
}

// WithChatRepository enables the chat surface.
func WithChatRepository(chats storage.ChatRepository) Option {
	return func(a *Answerer) error {
		a.chats = chats
		return nil
	}
}

// NewAnswerer creates a new Answerer.
func NewAnswerer(contexts ContextSearcher, provider ai.Provider, opts ...Option) (*Answerer, error) {
	if contexts == nil {
		return nil, ErrSearcherRequired
	}
	if provider == nil {
		return nil, ErrAIProviderRequired
	}

	a := &Answerer{
		contexts:  contexts,
		generator: provider.Generator(),
		logger:    slog.Default().With("component", "answerer"),
	}

	for _, opt := range opts {
		if err := opt(a); err != nil {
			return nil, err
		}
	}

	return a, nil
}

// Ask answers a one-shot question from the owner's saved content. With no
// qualifying context the fixed NoContextAnswer comes back immediately; when
// the provider is out of quota on every credential the answer degrades to
// BusyAnswer instead of an error.
func (a *Answerer) Ask(ctx context.Context, owner, question string) (*Answer, error) {
	if strings.TrimSpace(question) == "" {
		return nil, ErrEmptyQuestion
	}

	hits, err := a.contexts.ContextSearch(ctx, owner, question)
	if err != nil {
		return nil, err
	}

	if len(hits) == 0 {
		a.logger.Debug("no qualifying context, skipping generation", "question", question)
		return &Answer{Answer: NoContextAnswer, Sources: []*core.ContextHit{}}, nil
	}

	prompt := fmt.Sprintf(answerPromptTemplate, buildContextBlock(hits), question)

	text, err := a.generator.Generate(ctx, ai.GenerateRequest{
		Parts: []ai.Part{ai.TextPart(prompt)},
	})
	if err != nil {
		if ai.IsQuotaExceeded(err) {
			a.logger.Warn("provider at capacity, returning busy answer", "err", err)
			return &Answer{Answer: BusyAnswer, Sources: hits}, nil
		}
		a.logger.Error("answer generation failed", "err", err)
		return nil, err
	}

	return &Answer{Answer: strings.TrimSpace(text), Sources: hits}, nil
}

// buildContextBlock renders context hits into the prompt.
func buildContextBlock(hits []*core.ContextHit) string {
	entries := make([]string, 0, len(hits))
	for _, hit := range hits {
		entries = append(entries, fmt.Sprintf("Title: %s\nSummary: %s", hit.Title, hit.Summary))
	}
	return strings.Join(entries, contextDelimiter)
}
