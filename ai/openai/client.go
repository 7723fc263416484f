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
	"strings"

	"github.com/recallhq/recall/ai"
	"github.com/tmc/langchaingo/embeddings"
	"github.com/tmc/langchaingo/llms"
	openaillm "github.com/tmc/langchaingo/llms/openai"
)

// providerClient is the per-credential surface the Dispatcher drives.
// One instance is bound to exactly one API key.
type providerClient interface {
	GenerateContent(ctx context.Context, parts []ai.Part, jsonMode bool) (string, error)
	CreateEmbedding(ctx context.Context, text string) ([]float32, error)
}

// clientFactory builds a providerClient for a single credential.
type clientFactory func(credential string) (providerClient, error)

// langchainClient implements providerClient using langchaingo's OpenAI
// bindings.
type langchainClient struct {
	llm      *openaillm.LLM
	embedder embeddings.Embedder
}

func newLangchainClient(config *ai.Config, credential string) (providerClient, error) {
	llm, err := openaillm.New(
		openaillm.WithBaseURL(config.Host),
		openaillm.WithToken(credential),
		openaillm.WithModel(config.GenerationModel),
		openaillm.WithEmbeddingModel(config.EmbeddingModel),
	)
	if err != nil {
		return nil, err
	}

	embedder, err := embeddings.NewEmbedder(llm, embeddings.WithStripNewLines(true))
	if err != nil {
		return nil, err
	}

	return &langchainClient{llm: llm, embedder: embedder}, nil
}

func (c *langchainClient) GenerateContent(ctx context.Context, parts []ai.Part, jsonMode bool) (string, error) {
	content := []llms.MessageContent{
		{
			Role:  llms.ChatMessageTypeHuman,
			Parts: toContentParts(parts),
		},
	}

	opts := []llms.CallOption{llms.WithTemperature(0.2)}
	if jsonMode {
		opts = append(opts, llms.WithJSONMode())
	}

	response, err := c.llm.GenerateContent(ctx, content, opts...)
	if err != nil {
		return "", classify(err)
	}
	if len(response.Choices) < 1 {
		return "", &ai.ProviderError{Code: ai.CodeUnknown, Err: ai.ErrEmptyResponse}
	}
	return response.Choices[0].Content, nil
}

func (c *langchainClient) CreateEmbedding(ctx context.Context, text string) ([]float32, error) {
	vectors, err := c.embedder.EmbedDocuments(ctx, []string{text})
	if err != nil {
		return nil, classify(err)
	}
	if len(vectors) == 0 {
		return nil, &ai.ProviderError{Code: ai.CodeUnknown, Err: ai.ErrEmptyResponse}
	}
	return vectors[0], nil
}

// toContentParts converts the transport-neutral parts to langchaingo's
// content parts.
func toContentParts(parts []ai.Part) []llms.ContentPart {
	out := make([]llms.ContentPart, 0, len(parts))
	for _, part := range parts {
		switch p := part.(type) {
		case ai.TextPart:
			out = append(out, llms.TextPart(string(p)))
		case ai.BinaryPart:
			out = append(out, llms.BinaryPart(p.MIMEType, p.Data))
		}
	}
	return out
}

// classify maps a raw transport error to a *ai.ProviderError. The underlying
// client surfaces HTTP failures as formatted strings, so this is the single
// place in the system where provider error text is interpreted.
func classify(err error) error {
	msg := strings.ToLower(err.Error())
	code := ai.CodeUnknown
	switch {
	case strings.Contains(msg, "429"),
		strings.Contains(msg, "rate limit"),
		strings.Contains(msg, "quota"),
		strings.Contains(msg, "resource_exhausted"):
		code = ai.CodeRateLimited
	case strings.Contains(msg, "503"),
		strings.Contains(msg, "overloaded"),
		strings.Contains(msg, "unavailable"):
		code = ai.CodeOverloaded
	case strings.Contains(msg, "401"),
		strings.Contains(msg, "403"),
		strings.Contains(msg, "unauthorized"),
		strings.Contains(msg, "invalid api key"),
		strings.Contains(msg, "incorrect api key"):
		code = ai.CodeUnauthorized
	}
	return &ai.ProviderError{Code: code, Err: err}
}
