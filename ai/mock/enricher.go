package mock

import (
	"context"
	"strings"

	"github.com/recallhq/recall/ai"
)

// MockEnricher is a test double for ai.Enricher.
// It allows custom behavior injection via function fields.
type MockEnricher struct {
	// EnrichFunc is called by Enrich if set.
	// If nil, uses default deterministic behavior.
	EnrichFunc func(ctx context.Context, parts []ai.Part) (*ai.Enrichment, error)

	callCount int
}

// NewMockEnricher creates a mock enricher with default deterministic behavior.
// Note: Returns concrete type to allow test assertions via GetMockEnricher().
func NewMockEnricher() *MockEnricher {
	return &MockEnricher{}
}

// Enrich derives a deterministic enrichment from the text parts.
// The title is the first few words, the summary is the joined text, and the
// tags are the first distinct lowercase words.
func (m *MockEnricher) Enrich(ctx context.Context, parts []ai.Part) (*ai.Enrichment, error) {
	m.callCount++

	if m.EnrichFunc != nil {
		return m.EnrichFunc(ctx, parts)
	}

	var texts []string
	for _, part := range parts {
		if text, ok := part.(ai.TextPart); ok {
			texts = append(texts, string(text))
		}
	}
	joined := strings.TrimSpace(strings.Join(texts, " "))
	if joined == "" {
		joined = "untitled content"
	}

	words := strings.Fields(strings.ToLower(joined))
	title := joined
	if len(words) > 5 {
		title = strings.Join(strings.Fields(joined)[:5], " ")
	}

	tags := make([]string, 0, 3)
	seen := map[string]bool{}
	for _, word := range words {
		word = strings.Trim(word, ".,!?;:\"'()")
		if len(word) < 3 || seen[word] {
			continue
		}
		seen[word] = true
		tags = append(tags, word)
		if len(tags) == 3 {
			break
		}
	}
	if len(tags) == 0 {
		tags = []string{"untagged"}
	}

	return &ai.Enrichment{
		Title:   title,
		Summary: joined,
		Tags:    tags,
	}, nil
}

// CallCount returns the number of times Enrich was called.
func (m *MockEnricher) CallCount() int {
	return m.callCount
}

// Reset clears the call count and injected behavior.
func (m *MockEnricher) Reset() {
	m.callCount = 0
	m.EnrichFunc = nil
}
