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


package openai

import (
	"log/slog"

	"github.com/recallhq/recall/ai"
)

// Provider implements ai.Provider using OpenAI-compatible services.
// The enricher, embedder and generator share one Dispatcher, so every call
// path sees the same credential order and failover behavior.
type Provider struct {
	config     *ai.Config
	dispatcher *Dispatcher
	enricher   *Enricher
	embedder   *Embedder
	logger     *slog.Logger
}

// NewProvider creates a new AI provider with OpenAI-compatible services.
// The config is validated and normalized before use.
//
// Returns ai.Provider interface (not *Provider) to enforce abstraction
// and prevent coupling to OpenAI-specific implementation details.
func NewProvider(config *ai.Config) (ai.Provider, error) {
	dispatcher, err := NewDispatcher(config)
	if err != nil {
		return nil, err
	}

	return &Provider{
		config:     config,
		dispatcher: dispatcher,
		enricher:   newEnricher(dispatcher),
		embedder:   newEmbedder(dispatcher),
		logger:     slog.Default().With("component", "openai-provider"),
	}, nil
}

// Enricher returns the content enrichment service.
func (p *Provider) Enricher() ai.Enricher {
	return p.enricher
}

// Embedder returns the text embedding service.
func (p *Provider) Embedder() ai.Embedder {
	return p.embedder
}

// Generator returns the raw text generation service.
func (p *Provider) Generator() ai.Generator {
	return p.dispatcher
}

// Close releases resources held by the provider.
// Currently a no-op as the underlying clients don't require explicit cleanup.
func (p *Provider) Close() error {
	p.logger.Debug("closing OpenAI provider")
	return nil
}
