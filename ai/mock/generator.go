package mock

import (
	"context"

	"github.com/recallhq/recall/ai"
)

// MockGenerator is a test double for ai.Generator.
// It allows custom behavior injection via function fields.
type MockGenerator struct {
	// GenerateFunc is called by Generate if set.
	// If nil, Response (or a canned string) is returned.
	GenerateFunc func(ctx context.Context, req ai.GenerateRequest) (string, error)

	// Response is the canned answer returned by the default behavior.
	Response string

	callCount int
	lastReq   ai.GenerateRequest
}

// NewMockGenerator creates a mock generator with default canned behavior.
// Note: Returns concrete type to allow test assertions via GetMockGenerator().
func NewMockGenerator() *MockGenerator {
	return &MockGenerator{}
}

// Generate returns the injected or canned response.
func (m *MockGenerator) Generate(ctx context.Context, req ai.GenerateRequest) (string, error) {
	m.callCount++
	m.lastReq = req

	if m.GenerateFunc != nil {
		return m.GenerateFunc(ctx, req)
	}
	if m.Response != "" {
		return m.Response, nil
	}
	return "mock generated response", nil
}

// CallCount returns the number of times Generate was called.
func (m *MockGenerator) CallCount() int {
	return m.callCount
}

// LastRequest returns the request passed to the most recent Generate call.
func (m *MockGenerator) LastRequest() ai.GenerateRequest {
	return m.lastReq
}

// Reset clears the call count and injected behavior.
func (m *MockGenerator) Reset() {
	m.callCount = 0
	m.lastReq = ai.GenerateRequest{}
	m.GenerateFunc = nil
	m.Response = ""
}
