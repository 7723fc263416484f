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


package ingestion

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/recallhq/recall/ai"
	"github.com/recallhq/recall/core"
	"github.com/recallhq/recall/extract"
	"github.com/recallhq/recall/storage"
)

// Extractor resolves raw submissions into extraction results.
// *extract.Extractor satisfies it.
type Extractor interface {
	Extract(ctx context.Context, req *extract.Request) (*extract.Result, error)
}

// Pipeline turns submissions into persisted, searchable content items.
// Stages run in order for each item; no stage is skipped and nothing is
// written until every stage has succeeded.
type Pipeline struct {
	items     storage.ItemRepository
	extractor Extractor
	enricher  ai.Enricher
	embedder  ai.Embedder
	dims      int
	logger    *slog.Logger
}

// Option configures a Pipeline.
type Option func(*Pipeline) error

// WithLogger sets a custom logger.
// Default is slog.Default().
func WithLogger(logger *slog.Logger) Option {
	return func(p *Pipeline) error {
		if logger == nil {
			logger = slog.Default()
		}
		p.logger = logger
		return nil
	}
}

// NewPipeline creates a new ingestion pipeline. dims is the embedding width
// items are validated against before persistence.
func NewPipeline(
	items storage.ItemRepository,
	extractor Extractor,
	provider ai.Provider,
	dims int,
	opts ...Option,
) (*Pipeline, error) {
	if items == nil {
		return nil, ErrItemRepositoryRequired
	}
	if extractor == nil {
		return nil, ErrExtractorRequired
	}
	if provider == nil {
		return nil, ErrAIProviderRequired
	}
	if dims <= 0 {
		dims = ai.DefaultEmbeddingDimensions
	}

	p := &Pipeline{
		items:     items,
		extractor: extractor,
		enricher:  provider.Enricher(),
		embedder:  provider.Embedder(),
		dims:      dims,
		logger:    slog.Default().With("component", "ingestion"),
	}

	for _, opt := range opts {
		if err := opt(p); err != nil {
			return nil, err
		}
	}

	return p, nil
}

// Ingest captures one submission end to end and returns the stored item.
func (p *Pipeline) Ingest(ctx context.Context, owner string, req *extract.Request) (*core.ContentItem, error) {
	if strings.TrimSpace(owner) == "" {
		return nil, core.ErrEmptyOwner
	}

	// 1. Extraction
	extracted, err := p.extractor.Extract(ctx, req)
	if err != nil {
		p.logger.Warn("extraction failed", "kind", req.Kind, "err", err)
		return nil, err
	}

	// 2. Enrichment
	enrichment, err := p.enricher.Enrich(ctx, buildPromptParts(extracted))
	if err != nil {
		p.logger.Error("enrichment failed", "kind", extracted.Kind, "err", err)
		return nil, err
	}

	// 3. Embedding over the enriched fields, not the raw extraction
	vector, err := p.embedder.EmbedText(ctx, ai.EmbeddingText(enrichment.Title, enrichment.Summary))
	if err != nil {
		p.logger.Error("embedding failed", "title", enrichment.Title, "err", err)
		return nil, err
	}
	if len(vector) != p.dims {
		return nil, fmt.Errorf("%w: got %d dimensions, storage expects %d",
			ai.ErrEmbeddingDimension, len(vector), p.dims)
	}

	// 4. Validate and persist
	item := &core.ContentItem{
		Owner:     owner,
		Kind:      extracted.Kind,
		SourceURL: extracted.SourceURL,
		Title:     enrichment.Title,
		Summary:   enrichment.Summary,
		Tags:      enrichment.Tags,
		Vector:    vector,
	}
	if err := core.ValidateContentItem(item, p.dims); err != nil {
		return nil, err
	}

	stored, err := p.items.AddItems(ctx, item)
	if err != nil {
		p.logger.Error("persistence failed", "title", item.Title, "err", err)
		return nil, err
	}

	p.logger.Info("item ingested",
		"id", stored[0].Id,
		"kind", stored[0].Kind.String(),
		"title", stored[0].Title)
	return stored[0], nil
}

// buildPromptParts assembles the enrichment prompt material from an
// extraction result. The extracted text is labeled so the model can tell
// source metadata from body content; image payloads ride along as binary
// parts.
func buildPromptParts(extracted *extract.Result) []ai.Part {
	var b strings.Builder
	if extracted.Title != "" {
		b.WriteString("Original title: ")
		b.WriteString(extracted.Title)
		b.WriteString("\n")
	}
	if extracted.Description != "" {
		b.WriteString("Description: ")
		b.WriteString(extracted.Description)
		b.WriteString("\n")
	}
	if extracted.SourceURL != "" {
		b.WriteString("Source: ")
		b.WriteString(extracted.SourceURL)
		b.WriteString("\n")
	}
	if extracted.Body != "" {
		b.WriteString("\n")
		b.WriteString(extracted.Body)
	}

	parts := []ai.Part{ai.TextPart(b.String())}
	if len(extracted.ImageData) > 0 {
		parts = append(parts, ai.BinaryPart{
			MIMEType: extracted.ImageMIMEType,
			Data:     extracted.ImageData,
		})
	}
	return parts
}
