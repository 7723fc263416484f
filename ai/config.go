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

import (
	"errors"
	"fmt"
	"strings"
)

// DefaultEmbeddingDimensions is the vector width the storage schema is sized
// for. Ingestion and search must embed with the same model/dimension pair;
// a single configured pair is enforced at startup.
const DefaultEmbeddingDimensions = 768

// Config holds configuration for AI service providers.
// It is immutable after Validate; construct once at process start and inject.
type Config struct {
	// Host is the base URL for the OpenAI-compatible API.
	// Example: "http://localhost:11434/v1" for a local server
	Host string

	// Credentials is the ordered list of API keys used for failover.
	// Every provider call tries them in order, starting from the first.
	Credentials []string

	// GenerationModel is the model identifier used for enrichment and
	// answer generation.
	GenerationModel string

	// EmbeddingModel is the model identifier used for text embeddings.
	// Exactly one embedding model is configured; the ingestion and search
	// paths share it.
	EmbeddingModel string

	// EmbeddingDimensions is the fixed vector width produced by
	// EmbeddingModel. Must match the storage schema.
	EmbeddingDimensions int
}

// ConfigOption is a functional option for configuring a Config.
type ConfigOption func(*Config)

// WithHost sets the provider host URL.
func WithHost(host string) ConfigOption {
	return func(c *Config) {
		c.Host = host
	}
}

// WithCredentials sets the ordered credential list.
func WithCredentials(keys ...string) ConfigOption {
	return func(c *Config) {
		c.Credentials = keys
	}
}

// WithGenerationModel sets the generation model identifier.
func WithGenerationModel(model string) ConfigOption {
	return func(c *Config) {
		c.GenerationModel = model
	}
}

// WithEmbeddingModel sets the embedding model identifier and its dimensionality.
// The two travel together so the ingestion and search paths cannot drift apart.
func WithEmbeddingModel(model string, dims int) ConfigOption {
	return func(c *Config) {
		c.EmbeddingModel = model
		c.EmbeddingDimensions = dims
	}
}

// DefaultConfig returns a Config with sensible defaults for local
// OpenAI-compatible services. Credentials are not defaulted; they come from
// the environment via CredentialsFromEnv.
func DefaultConfig() *Config {
	return &Config{
		Host:                "http://localhost:11434/v1",
		GenerationModel:     "gemma3:4b",
		EmbeddingModel:      "embeddinggemma",
		EmbeddingDimensions: DefaultEmbeddingDimensions,
	}
}

// NewConfig creates a Config with the default values and applies the provided
// options. This is the recommended way to create a Config with custom settings.
//
// Example:
//
//	cfg := ai.NewConfig(
//	    ai.WithHost("https://api.example.com"),
//	    ai.WithCredentials(ai.CredentialsFromEnv()...),
//	)
func NewConfig(opts ...ConfigOption) *Config {
	cfg := DefaultConfig()
	for _, opt := range opts {
		opt(cfg)
	}
	return cfg
}

// Normalize ensures the configuration is in a canonical form.
// It adds the /v1 suffix to the host if missing, which is required by most
// OpenAI-compatible APIs (Ollama, LocalAI, vLLM, etc), and drops blank
// credentials.
func (c *Config) Normalize() {
	if c.Host != "" && !strings.HasSuffix(c.Host, "/v1") {
		c.Host = strings.TrimSuffix(c.Host, "/")
		c.Host = c.Host + "/v1"
	}

	keys := make([]string, 0, len(c.Credentials))
	for _, key := range c.Credentials {
		if key = strings.TrimSpace(key); key != "" {
			keys = append(keys, key)
		}
	}
	c.Credentials = keys
}

// Validate checks that the configuration is valid and complete.
// It automatically normalizes the configuration before validation.
// An empty credential list is a startup error, not a per-call one.
func (c *Config) Validate() error {
	c.Normalize()

	if c.Host == "" {
		return errors.New("ai config: Host is required")
	}
	if len(c.Credentials) == 0 {
		return fmt.Errorf("ai config: %w", ErrNoCredentials)
	}
	if c.GenerationModel == "" {
		return errors.New("ai config: GenerationModel is required")
	}
	if c.EmbeddingModel == "" {
		return errors.New("ai config: EmbeddingModel is required")
	}
	if c.EmbeddingDimensions <= 0 {
		return errors.New("ai config: EmbeddingDimensions must be positive")
	}
	return nil
}
