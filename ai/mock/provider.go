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


package mock

import "github.com/recallhq/recall/ai"

// MockProvider is a test double for ai.Provider.
// It aggregates mock enricher, embedder and generator instances.
type MockProvider struct {
	enricher  *MockEnricher
	embedder  *MockEmbedder
	generator *MockGenerator
}

// NewMockProvider creates a new mock provider with default mock services.
//
// Returns ai.Provider interface for consistency with production constructors.
// Use GetMockEnricher()/GetMockEmbedder()/GetMockGenerator() to access
// concrete types for test assertions.
func NewMockProvider() ai.Provider {
	return &MockProvider{
		enricher:  NewMockEnricher(),
		embedder:  NewMockEmbedder(),
		generator: NewMockGenerator(),
	}
}

// NewMockProviderWithServices creates a mock provider with custom mock services.
// This allows full control over the behavior of each service.
func NewMockProviderWithServices(enricher *MockEnricher, embedder *MockEmbedder, generator *MockGenerator) ai.Provider {
	return &MockProvider{
		enricher:  enricher,
		embedder:  embedder,
		generator: generator,
	}
}

// Enricher returns the mock enricher.
func (p *MockProvider) Enricher() ai.Enricher {
	return p.enricher
}

// Embedder returns the mock embedder.
func (p *MockProvider) Embedder() ai.Embedder {
	return p.embedder
}

// Generator returns the mock generator.
func (p *MockProvider) Generator() ai.Generator {
	return p.generator
}

// Close is a no-op for mock provider.
func (p *MockProvider) Close() error {
	return nil
}

// GetMockEnricher returns the underlying mock enricher for test assertions.
func (p *MockProvider) GetMockEnricher() *MockEnricher {
	return p.enricher
}

// GetMockEmbedder returns the underlying mock embedder for test assertions.
func (p *MockProvider) GetMockEmbedder() *MockEmbedder {
	return p.embedder
}

// GetMockGenerator returns the underlying mock generator for test assertions.
func (p *MockProvider) GetMockGenerator() *MockGenerator {
	return p.generator
}
