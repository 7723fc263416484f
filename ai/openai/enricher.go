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
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"strings"

	"github.com/recallhq/recall/ai"
)

// Enricher implements ai.Enricher using JSON-mode chat completions.
type Enricher struct {
	generator ai.Generator
	logger    *slog.Logger
}

// newEnricher is an internal constructor that returns the concrete type.
// Used by Provider to manage the instance.
func newEnricher(generator ai.Generator) *Enricher {
	return &Enricher{
		generator: generator,
		logger:    slog.Default().With("component", "openai-enricher"),
	}
}

// NewEnricher creates a standalone enricher using the provided configuration.
//
// Returns ai.Enricher interface to enforce abstraction.
func NewEnricher(config *ai.Config) (ai.Enricher, error) {
	dispatcher, err := NewDispatcher(config)
	if err != nil {
		return nil, err
	}
	return newEnricher(dispatcher), nil
}

// Enrich generates a title, summary and tags for the given content parts.
// The credential failover lives in the generator; a response that parses
// incorrectly is a malformed-output failure and is not retried.
func (e *Enricher) Enrich(ctx context.Context, parts []ai.Part) (*ai.Enrichment, error) {
	prompt := make([]ai.Part, 0, len(parts)+1)
	prompt = append(prompt, ai.TextPart(buildEnrichmentPrompt()))
	prompt = append(prompt, parts...)

	response, err := e.generator.Generate(ctx, ai.GenerateRequest{
		Parts:    prompt,
		JSONMode: true,
	})
	if err != nil {
		e.logger.Error("enrichment generation failed", "err", err)
		return nil, err
	}

	// Strip markdown code fences if present
	responseText := strings.TrimSpace(response)
	responseText = strings.TrimPrefix(responseText, "```json")
	responseText = strings.TrimPrefix(responseText, "```")
	responseText = strings.TrimSuffix(responseText, "```")
	responseText = strings.TrimSpace(responseText)

	// Try to repair common JSON issues
	responseText = repairJSON(responseText)

	var enrichment ai.Enrichment
	if err := json.Unmarshal([]byte(responseText), &enrichment); err != nil {
		e.logger.Error("error parsing enrichment response",
			"response", responseText,
			"err", err)
		return nil, fmt.Errorf("%w: %v", ai.ErrMalformedEnrichment, err)
	}

	if err := validateEnrichment(&enrichment); err != nil {
		e.logger.Error("incomplete enrichment response", "err", err)
		return nil, err
	}

	normalizeTags(&enrichment)

	e.logger.Debug("content enriched",
		"title", enrichment.Title,
		"tags", len(enrichment.Tags))
	return &enrichment, nil
}

// validateEnrichment rejects responses that parsed as JSON but are missing
// required fields.
func validateEnrichment(enrichment *ai.Enrichment) error {
	if strings.TrimSpace(enrichment.Title) == "" {
		return fmt.Errorf("%w: missing title", ai.ErrMalformedEnrichment)
	}
	if strings.TrimSpace(enrichment.Summary) == "" {
		return fmt.Errorf("%w: missing summary", ai.ErrMalformedEnrichment)
	}
	if len(enrichment.Tags) == 0 {
		return fmt.Errorf("%w: missing tags", ai.ErrMalformedEnrichment)
	}
	return nil
}

// normalizeTags lowercases tags and drops blank entries. Models occasionally
// ignore the casing rule in the prompt.
func normalizeTags(enrichment *ai.Enrichment) {
	tags := make([]string, 0, len(enrichment.Tags))
	for _, tag := range enrichment.Tags {
		tag = strings.ToLower(strings.TrimSpace(tag))
		if tag != "" {
			tags = append(tags, strings.ReplaceAll(tag, " ", "-"))
		}
	}
	enrichment.Tags = tags
}
