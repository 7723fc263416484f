package rag

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"testing"

	"github.com/recallhq/recall/ai"
	"github.com/recallhq/recall/ai/mock"
	"github.com/recallhq/recall/core"
	"github.com/recallhq/recall/storage/badger"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// staticContexts is a ContextSearcher test double.
type staticContexts struct {
	hits []*core.ContextHit
	err  error
}

func (s *staticContexts) ContextSearch(_ context.Context, _, _ string) ([]*core.ContextHit, error) {
	return s.hits, s.err
}

func someHits() []*core.ContextHit {
	return []*core.ContextHit{
		{Id: 1, Title: "Sourdough basics", Summary: "Starter feeding schedules and hydration ratios."},
		{Id: 2, Title: "Oven spring", Summary: "Steam and scoring for better rise."},
	}
}

func TestNewAnswerer(t *testing.T) {
	provider := mock.NewMockProvider()

	t.Run("valid configuration", func(t *testing.T) {
		answerer, err := NewAnswerer(&staticContexts{}, provider)
		require.NoError(t, err)
		assert.NotNil(t, answerer)
	})

	t.Run("nil searcher", func(t *testing.T) {
		_, err := NewAnswerer(nil, provider)
		assert.Equal(t, ErrSearcherRequired, err)
	})

	t.Run("nil provider", func(t *testing.T) {
		_, err := NewAnswerer(&staticContexts{}, nil)
		assert.Equal(t, ErrAIProviderRequired, err)
	})
}

func TestAsk_NoContextShortCircuits(t *testing.T) {
	provider := mock.NewMockProvider()
	answerer, err := NewAnswerer(&staticContexts{hits: nil}, provider)
	require.NoError(t, err)

	answer, err := answerer.Ask(context.Background(), "alice", "how do I feed my starter?")
	require.NoError(t, err)

	assert.Equal(t, NoContextAnswer, answer.Answer)
	assert.Empty(t, answer.Sources)
	// The generator is never consulted without grounding.
	assert.Equal(t, 0, provider.(*mock.MockProvider).GetMockGenerator().CallCount())
}

func TestAsk_GroundedAnswer(t *testing.T) {
	provider := mock.NewMockProvider()
	generator := provider.(*mock.MockProvider).GetMockGenerator()
	generator.Response = "Feed the starter twice a day."

	answerer, err := NewAnswerer(&staticContexts{hits: someHits()}, provider)
	require.NoError(t, err)

	answer, err := answerer.Ask(context.Background(), "alice", "how do I feed my starter?")
	require.NoError(t, err)

	assert.Equal(t, "Feed the starter twice a day.", answer.Answer)
	assert.Len(t, answer.Sources, 2)
	assert.Equal(t, 1, generator.CallCount())

	// The prompt carries every context entry and the question.
	req := generator.LastRequest()
	require.Len(t, req.Parts, 1)
	prompt := string(req.Parts[0].(ai.TextPart))
	assert.Contains(t, prompt, "Sourdough basics")
	assert.Contains(t, prompt, "Oven spring")
	assert.Contains(t, prompt, "---")
	assert.Contains(t, prompt, "how do I feed my starter?")
}

func TestAsk_QuotaDegradesToBusy(t *testing.T) {
	provider := mock.NewMockProvider()
	generator := provider.(*mock.MockProvider).GetMockGenerator()
	generator.GenerateFunc = func(context.Context, ai.GenerateRequest) (string, error) {
		return "", &ai.ExhaustedError{
			Attempts: 2,
			LastErr:  &ai.ProviderError{Code: ai.CodeRateLimited, Err: errors.New("429")},
		}
	}

	answerer, err := NewAnswerer(&staticContexts{hits: someHits()}, provider)
	require.NoError(t, err)

	answer, err := answerer.Ask(context.Background(), "alice", "question")
	require.NoError(t, err)
	assert.Equal(t, BusyAnswer, answer.Answer)
	assert.Len(t, answer.Sources, 2)
}

func TestAsk_OtherErrorsPropagate(t *testing.T) {
	provider := mock.NewMockProvider()
	generator := provider.(*mock.MockProvider).GetMockGenerator()
	failure := &ai.ExhaustedError{
		Attempts: 2,
		LastErr:  &ai.ProviderError{Code: ai.CodeUnauthorized, Err: errors.New("401")},
	}
	generator.GenerateFunc = func(context.Context, ai.GenerateRequest) (string, error) {
		return "", failure
	}

	answerer, err := NewAnswerer(&staticContexts{hits: someHits()}, provider)
	require.NoError(t, err)

	_, err = answerer.Ask(context.Background(), "alice", "question")
	assert.ErrorIs(t, err, failure)
}

func TestAsk_EmptyQuestion(t *testing.T) {
	answerer, err := NewAnswerer(&staticContexts{}, mock.NewMockProvider())
	require.NoError(t, err)

	_, err = answerer.Ask(context.Background(), "alice", "  ")
	assert.ErrorIs(t, err, ErrEmptyQuestion)
}

func TestChatTurn(t *testing.T) {
	_, chatRepo, backend, err := badger.NewMemoryRepositories()
	require.NoError(t, err)
	defer func() {
		chatRepo.Close()
		backend.Close()
	}()

	provider := mock.NewMockProvider()
	generator := provider.(*mock.MockProvider).GetMockGenerator()
	generator.Response = "Hello! I found your bread notes."

	answerer, err := NewAnswerer(&staticContexts{hits: someHits()}, provider,
		WithChatRepository(chatRepo))
	require.NoError(t, err)

	ctx := context.Background()
	reply, err := answerer.ChatTurn(ctx, "alice", 1, "what do I know about bread?")
	require.NoError(t, err)

	assert.Equal(t, core.RoleAssistant, reply.Role)
	assert.Equal(t, "Hello! I found your bread notes.", reply.Content)
	assert.NotZero(t, reply.Id)

	// Both sides of the turn are persisted in order.
	history, err := chatRepo.GetRecentMessages(ctx, "alice", 1, 10)
	require.NoError(t, err)
	require.Len(t, history, 2)
	assert.Equal(t, core.RoleUser, history[0].Role)
	assert.Equal(t, "what do I know about bread?", history[0].Content)
	assert.Equal(t, core.RoleAssistant, history[1].Role)
}

func TestChatTurn_HistoryInPrompt(t *testing.T) {
	_, chatRepo, backend, err := badger.NewMemoryRepositories()
	require.NoError(t, err)
	defer func() {
		chatRepo.Close()
		backend.Close()
	}()

	provider := mock.NewMockProvider()
	generator := provider.(*mock.MockProvider).GetMockGenerator()

	answerer, err := NewAnswerer(&staticContexts{hits: someHits()}, provider,
		WithChatRepository(chatRepo))
	require.NoError(t, err)

	ctx := context.Background()
	_, err = answerer.ChatTurn(ctx, "alice", 1, "first question")
	require.NoError(t, err)
	_, err = answerer.ChatTurn(ctx, "alice", 1, "second question")
	require.NoError(t, err)

	prompt := string(generator.LastRequest().Parts[0].(ai.TextPart))
	assert.Contains(t, prompt, "user: first question")
	assert.Contains(t, prompt, "user: second question")
	// The first assistant reply is part of the transcript too.
	assert.True(t, strings.Count(prompt, "assistant:") >= 1)
}

func TestChatTurn_HistoryCap(t *testing.T) {
	_, chatRepo, backend, err := badger.NewMemoryRepositories()
	require.NoError(t, err)
	defer func() {
		chatRepo.Close()
		backend.Close()
	}()

	// Preload more turns than the window carries.
	ctx := context.Background()
	for i := 0; i < historyLimit+10; i++ {
		_, err := chatRepo.AppendMessages(ctx, &core.ChatMessage{
			ChatId:  1,
			Owner:   "alice",
			Role:    core.RoleUser,
			Content: fmt.Sprintf("old message %d", i),
		})
		require.NoError(t, err)
	}

	provider := mock.NewMockProvider()
	generator := provider.(*mock.MockProvider).GetMockGenerator()

	answerer, err := NewAnswerer(&staticContexts{hits: someHits()}, provider,
		WithChatRepository(chatRepo))
	require.NoError(t, err)

	_, err = answerer.ChatTurn(ctx, "alice", 1, "latest")
	require.NoError(t, err)

	prompt := string(generator.LastRequest().Parts[0].(ai.TextPart))
	assert.NotContains(t, prompt, "old message 0\n")
	assert.Contains(t, prompt, fmt.Sprintf("old message %d", historyLimit+9))
}

func TestChatTurn_WithoutRepository(t *testing.T) {
	answerer, err := NewAnswerer(&staticContexts{}, mock.NewMockProvider())
	require.NoError(t, err)

	_, err = answerer.ChatTurn(context.Background(), "alice", 1, "hello")
	assert.ErrorIs(t, err, ErrChatRepositoryRequired)
}
