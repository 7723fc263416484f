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


// Package recall is a personal content vault: it captures notes, links,
// videos and images, enriches them with AI-generated titles, summaries and
// tags, and makes them retrievable through semantic search and grounded
// question answering. Vault is the assembly point; the heavy lifting lives
// in the subpackages.
package recall

import (
	"log/slog"

	"github.com/recallhq/recall/ai"
	"github.com/recallhq/recall/ai/openai"
	"github.com/recallhq/recall/extract"
	"github.com/recallhq/recall/ingestion"
	"github.com/recallhq/recall/rag"
	"github.com/recallhq/recall/search"
	"github.com/recallhq/recall/storage"
	"github.com/recallhq/recall/storage/badger"
)

// Vault bundles the storage backend, the AI provider and the extractor
// behind one handle.
type Vault struct {
	backend   *badger.Backend
	itemRepo  storage.ItemRepository
	chatRepo  storage.ChatRepository
	provider  ai.Provider
	extractor *extract.Extractor
	aiConfig  *ai.Config
	logger    *slog.Logger
}

// VaultOption configures a Vault.
type VaultOption func(*vaultOptions)

type vaultOptions struct {
	aiConfig      *ai.Config
	provider      ai.Provider
	youtubeAPIKey string
	inMemory      bool
}

// WithAIConfig sets the AI provider configuration.
func WithAIConfig(config *ai.Config) VaultOption {
	return func(o *vaultOptions) {
		o.aiConfig = config
	}
}

// WithProvider injects a pre-built AI provider, bypassing the OpenAI
// provider construction. Used by tests and embedders of the library.
func WithProvider(provider ai.Provider) VaultOption {
	return func(o *vaultOptions) {
		o.provider = provider
	}
}

// WithYouTubeAPIKey enables video metadata lookups during extraction.
func WithYouTubeAPIKey(key string) VaultOption {
	return func(o *vaultOptions) {
		o.youtubeAPIKey = key
	}
}

// WithInMemoryStorage keeps all data in memory. Nothing survives Close.
func WithInMemoryStorage() VaultOption {
	return func(o *vaultOptions) {
		o.inMemory = true
	}
}

// Open opens (or creates) a vault at the given path.
func Open(filePath string, opts ...VaultOption) (*Vault, error) {
	options := &vaultOptions{
		aiConfig: ai.NewConfig(ai.WithCredentials(ai.CredentialsFromEnv()...)),
	}
	for _, opt := range opts {
		opt(options)
	}

	backend, err := badger.OpenBackend(filePath, options.inMemory)
	if err != nil {
		return nil, err
	}

	itemRepo, err := badger.NewItemRepository(backend)
	if err != nil {
		backend.Close()
		return nil, err
	}

	chatRepo, err := badger.NewChatRepository(backend)
	if err != nil {
		itemRepo.Close()
		backend.Close()
		return nil, err
	}

	provider := options.provider
	if provider == nil {
		provider, err = openai.NewProvider(options.aiConfig)
		if err != nil {
			chatRepo.Close()
			itemRepo.Close()
			backend.Close()
			return nil, err
		}
	}

	extractor := extract.NewExtractor(extract.WithYouTubeAPIKey(options.youtubeAPIKey))

	return &Vault{
		backend:   backend,
		itemRepo:  itemRepo,
		chatRepo:  chatRepo,
		provider:  provider,
		extractor: extractor,
		aiConfig:  options.aiConfig,
		logger:    slog.Default(),
	}, nil
}

// Close releases the provider, repositories and backend.
func (v *Vault) Close() error {
	if err := v.provider.Close(); err != nil {
		v.logger.Error("error closing AI provider", "err", err)
	}

	if err := v.itemRepo.Close(); err != nil {
		v.logger.Error("error closing item repository", "err", err)
		return err
	}
	if err := v.chatRepo.Close(); err != nil {
		v.logger.Error("error closing chat repository", "err", err)
		return err
	}

	if err := v.backend.Close(); err != nil {
		v.logger.Error("error closing backend storage", "err", err)
		return err
	}
	return nil
}

// ItemRepository exposes direct item access for callers that manage items
// outside the pipeline (favorites, collections, deletion).
func (v *Vault) ItemRepository() storage.ItemRepository {
	return v.itemRepo
}

// ChatRepository exposes stored conversation history.
func (v *Vault) ChatRepository() storage.ChatRepository {
	return v.chatRepo
}

// NewIngestionPipeline assembles the capture pipeline over this vault.
func (v *Vault) NewIngestionPipeline(opts ...ingestion.Option) (*ingestion.Pipeline, error) {
	return ingestion.NewPipeline(v.itemRepo, v.extractor, v.provider, v.aiConfig.EmbeddingDimensions, opts...)
}

// NewSearcher assembles a searcher over this vault.
func (v *Vault) NewSearcher(opts ...search.Option) (*search.Searcher, error) {
	return search.NewSearcher(v.itemRepo, v.provider, opts...)
}

// NewAnswerer assembles a question answerer over this vault, with the chat
// surface wired in.
func (v *Vault) NewAnswerer(opts ...rag.Option) (*rag.Answerer, error) {
	searcher, err := v.NewSearcher()
	if err != nil {
		return nil, err
	}
	opts = append([]rag.Option{rag.WithChatRepository(v.chatRepo)}, opts...)
	return rag.NewAnswerer(searcher, v.provider, opts...)
}
