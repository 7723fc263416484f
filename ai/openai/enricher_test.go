package openai

import (
	"context"
	"errors"
	"testing"

	"github.com/recallhq/recall/ai"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// staticGenerator returns a canned response or error.
type staticGenerator struct {
	response  string
	err       error
	callCount int
	lastReq   ai.GenerateRequest
}

func (g *staticGenerator) Generate(_ context.Context, req ai.GenerateRequest) (string, error) {
	g.callCount++
	g.lastReq = req
	if g.err != nil {
		return "", g.err
	}
	return g.response, nil
}

func TestEnricher_Enrich(t *testing.T) {
	gen := &staticGenerator{
		response: `{"title": "Go Concurrency", "summary": "Goroutines and channels explained.", "tags": ["go", "concurrency"]}`,
	}
	enricher := newEnricher(gen)

	enrichment, err := enricher.Enrich(context.Background(), []ai.Part{ai.TextPart("some extracted text")})
	require.NoError(t, err)

	assert.Equal(t, "Go Concurrency", enrichment.Title)
	assert.Equal(t, "Goroutines and channels explained.", enrichment.Summary)
	assert.Equal(t, []string{"go", "concurrency"}, enrichment.Tags)
	assert.True(t, gen.lastReq.JSONMode)
	require.NotEmpty(t, gen.lastReq.Parts)

	// Instructions come first, content parts after.
	_, ok := gen.lastReq.Parts[0].(ai.TextPart)
	assert.True(t, ok)
	assert.Len(t, gen.lastReq.Parts, 2)
}

func TestEnricher_Enrich_StripsCodeFences(t *testing.T) {
	gen := &staticGenerator{
		response: "```json\n{\"title\": \"T\", \"summary\": \"S\", \"tags\": [\"a\"]}\n```",
	}
	enricher := newEnricher(gen)

	enrichment, err := enricher.Enrich(context.Background(), []ai.Part{ai.TextPart("text")})
	require.NoError(t, err)
	assert.Equal(t, "T", enrichment.Title)
}

func TestEnricher_Enrich_NormalizesTags(t *testing.T) {
	gen := &staticGenerator{
		response: `{"title": "T", "summary": "S", "tags": ["Machine Learning", " GO ", ""]}`,
	}
	enricher := newEnricher(gen)

	enrichment, err := enricher.Enrich(context.Background(), []ai.Part{ai.TextPart("text")})
	require.NoError(t, err)
	assert.Equal(t, []string{"machine-learning", "go"}, enrichment.Tags)
}

func TestEnricher_Enrich_MalformedResponse(t *testing.T) {
	tests := []struct {
		name     string
		response string
	}{
		{"not json", "here is your summary!"},
		{"missing title", `{"summary": "S", "tags": ["a"]}`},
		{"missing summary", `{"title": "T", "tags": ["a"]}`},
		{"empty tags", `{"title": "T", "summary": "S", "tags": []}`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			gen := &staticGenerator{response: tt.response}
			enricher := newEnricher(gen)

			_, err := enricher.Enrich(context.Background(), []ai.Part{ai.TextPart("text")})
			assert.ErrorIs(t, err, ai.ErrMalformedEnrichment)
			// Parse failures are terminal, not retried.
			assert.Equal(t, 1, gen.callCount)
		})
	}
}

func TestEnricher_Enrich_GeneratorError(t *testing.T) {
	genErr := &ai.ExhaustedError{Attempts: 2, LastErr: errors.New("429")}
	gen := &staticGenerator{err: genErr}
	enricher := newEnricher(gen)

	_, err := enricher.Enrich(context.Background(), []ai.Part{ai.TextPart("text")})
	var exhausted *ai.ExhaustedError
	assert.ErrorAs(t, err, &exhausted)
}

func TestRepairJSON(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected string
	}{
		{"valid passthrough", `{"title": "T"}`, `{"title": "T"}`},
		{"missing opening quote", `{title": "T", tags": []}`, `{"title": "T", "tags": []}`},
		{"empty", "", ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, repairJSON(tt.input))
		})
	}
}
