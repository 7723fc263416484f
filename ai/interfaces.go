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


package ai

import "context"

// Enricher produces structured enrichment (title, summary, tags) from
// extracted content.
type Enricher interface {
	// Enrich generates an Enrichment for the given prompt parts. The parts
	// carry the extracted text and, for images, the raw bytes.
	Enrich(ctx context.Context, parts []Part) (*Enrichment, error)
}

// Embedder generates fixed-dimension vector embeddings from text.
type Embedder interface {
	// EmbedText generates an embedding vector for a single text.
	EmbedText(ctx context.Context, text string) ([]float32, error)

	// EmbedTexts generates embedding vectors for multiple texts.
	EmbedTexts(ctx context.Context, texts []string) ([][]float32, error)
}

// Generator produces free-form or JSON-constrained text completions.
type Generator interface {
	Generate(ctx context.Context, req GenerateRequest) (string, error)
}

// Provider bundles the AI capabilities behind one configured backend.
// All three views share the same credential pool and failover behavior.
type Provider interface {
	Enricher() Enricher
	Embedder() Embedder
	Generator() Generator

	// Close releases any resources held by the provider.
	Close() error
}
