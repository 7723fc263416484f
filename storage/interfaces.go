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


// Package storage defines the persistence contracts for the vault. Every
// read and write is scoped to an owner; no operation can observe another
// owner's records. Concrete backends live in subpackages.
package storage

import (
	"context"

	"github.com/recallhq/recall/core"
)

// VectorSearcher finds stored items by embedding similarity.
type VectorSearcher interface {
	// FindSimilar returns the owner's items whose vectors score at least
	// minSimilarity against the query vector, ordered by score descending
	// and capped at limit.
	FindSimilar(ctx context.Context, owner string, vector []float32, minSimilarity float32, limit int) ([]*core.ItemMatch, error)
}

// ItemRepository persists enriched content items.
type ItemRepository interface {
	VectorSearcher

	// AddItems stores new items, assigning IDs and timestamps.
	AddItems(ctx context.Context, items ...*core.ContentItem) ([]*core.ContentItem, error)

	// UpdateItems rewrites existing items. The stored vector and creation
	// time are preserved; embeddings are never silently recomputed.
	UpdateItems(ctx context.Context, items ...*core.ContentItem) ([]*core.ContentItem, error)

	// DeleteItems removes the owner's items by ID.
	DeleteItems(ctx context.Context, owner string, ids ...core.ID) error

	// GetItem retrieves a single item. Returns ErrNotFound when the item
	// does not exist for this owner.
	GetItem(ctx context.Context, owner string, id core.ID) (*core.ContentItem, error)

	// GetItems retrieves multiple items, silently skipping missing IDs.
	GetItems(ctx context.Context, owner string, ids ...core.ID) ([]*core.ContentItem, error)

	// GetRecentItems returns the owner's most recently saved items,
	// newest first.
	GetRecentItems(ctx context.Context, owner string, limit int) ([]*core.ContentItem, error)

	// GetItemsByTag returns the IDs of the owner's items carrying the
	// given tag.
	GetItemsByTag(ctx context.Context, owner string, tag string) ([]core.ID, error)

	// Close releases repository resources.
	Close() error
}

// ChatRepository persists conversation history for the chat surface.
type ChatRepository interface {
	// AppendMessages stores messages, assigning IDs and timestamps.
	AppendMessages(ctx context.Context, messages ...*core.ChatMessage) ([]*core.ChatMessage, error)

	// GetRecentMessages returns up to limit of the conversation's newest
	// messages in chronological order.
	GetRecentMessages(ctx context.Context, owner string, chatID core.ID, limit int) ([]*core.ChatMessage, error)

	// DeleteChat removes an entire conversation.
	DeleteChat(ctx context.Context, owner string, chatID core.ID) error

	// Close releases repository resources.
	Close() error
}
