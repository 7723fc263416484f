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


package search

import (
	"context"
	"log/slog"
	"sort"
	"strings"

	"github.com/recallhq/recall/ai"
	"github.com/recallhq/recall/core"
	"github.com/recallhq/recall/storage"
)

const (
	// MinSimilarity is the similarity floor for plain search hits.
	MinSimilarity = 0.5

	// MaxHits caps plain search results.
	MaxHits = 20

	// ContextMinSimilarity is the stricter floor for answer grounding.
	ContextMinSimilarity = 0.75

	// ContextMaxHits caps the context passed to answer generation.
	ContextMaxHits = 5
)

// Searcher provides hybrid semantic and tag search over content items.
type Searcher struct {
	items    storage.ItemRepository
	embedder ai.Embedder
	logger   *slog.Logger
}

// Option configures a Searcher.
type Option func(*Searcher) error

// WithLogger sets a custom logger.
// Default is slog.Default().
func WithLogger(logger *slog.Logger) Option {
	return func(s *Searcher) error {
		if logger == nil {
			logger = slog.Default()
		}
		s.logger = logger
		return nil
	}
}

// NewSearcher creates a new searcher.
func NewSearcher(items storage.ItemRepository, provider ai.Provider, opts ...Option) (*Searcher, error) {
	if items == nil {
		return nil, ErrItemRepositoryRequired
	}
	if provider == nil {
		return nil, ErrAIProviderRequired
	}

	s := &Searcher{
		items:    items,
		embedder: provider.Embedder(),
		logger:   slog.Default().With("component", "searcher"),
	}

	for _, opt := range opts {
		if err := opt(s); err != nil {
			return nil, err
		}
	}

	return s, nil
}

// Search runs hybrid search over one owner's vault. The query is embedded
// once; every item scoring at least MinSimilarity qualifies semantically,
// and items whose tags literally match a query word qualify regardless of
// similarity. Results are ranked by combined score and capped at MaxHits.
// Given identical stored items and vectors, the same query always produces
// the same ranking.
func (s *Searcher) Search(ctx context.Context, owner, query string) ([]*core.SearchHit, error) {
	return s.search(ctx, owner, query, 0)
}

// SearchByKind is Search restricted to items of one content kind.
func (s *Searcher) SearchByKind(ctx context.Context, owner, query string, kind core.ContentKind) ([]*core.SearchHit, error) {
	return s.search(ctx, owner, query, kind)
}

// kind zero means no kind filter.
func (s *Searcher) search(ctx context.Context, owner, query string, kind core.ContentKind) ([]*core.SearchHit, error) {
	if strings.TrimSpace(query) == "" {
		return nil, ErrEmptyQuery
	}

	// 1. Semantic search
	embedding, err := s.embedder.EmbedText(ctx, query)
	if err != nil {
		s.logger.Error("error generating embedding for query", "query", query, "err", err)
		return nil, err
	}

	matches, err := s.items.FindSimilar(ctx, owner, embedding, MinSimilarity, MaxHits)
	if err != nil {
		s.logger.Error("error querying for similar items", "err", err)
		return nil, err
	}

	semanticScores := make(map[core.ID]float32, len(matches))
	itemsByID := make(map[core.ID]*core.ContentItem, len(matches))
	for _, match := range matches {
		semanticScores[match.Item.Id] = match.Score
		itemsByID[match.Item.Id] = match.Item
	}

	// 2. Literal tag matching on query words
	tagSet := make(map[core.ID]bool)
	for _, word := range tokenizeAndFilter(query) {
		ids, err := s.items.GetItemsByTag(ctx, owner, word)
		if err != nil {
			s.logger.Warn("failed to look up tag", "tag", word, "err", err)
			continue
		}
		for _, id := range ids {
			tagSet[id] = true
		}
	}

	// Fetch tag-only items
	var missing []core.ID
	for id := range tagSet {
		if _, ok := itemsByID[id]; !ok {
			missing = append(missing, id)
		}
	}
	if len(missing) > 0 {
		fetched, err := s.items.GetItems(ctx, owner, missing...)
		if err != nil {
			s.logger.Error("error retrieving tag-matched items", "err", err)
			return nil, err
		}
		for _, item := range fetched {
			itemsByID[item.Id] = item
		}
	}

	// 3. Score and build results
	hits := make([]*core.SearchHit, 0, len(itemsByID))
	for id, item := range itemsByID {
		if kind != 0 && item.Kind != kind {
			continue
		}
		similarity, inSemantic := semanticScores[id]
		inTags := tagSet[id]

		var score float32
		switch {
		case inSemantic && inTags:
			// In both: similarity plus a tag boost
			score = similarity + 0.25
		case inTags:
			// Exact tag match with no semantic hit counts as full relevance
			score = 1.0
		default:
			score = similarity
		}

		// Apply verbatim match boost
		if containsAllQueryWords(item.Title+" "+item.Summary, query) {
			score += 0.3
		}

		hits = append(hits, &core.SearchHit{
			Id:         item.Id,
			Title:      item.Title,
			Summary:    item.Summary,
			Tags:       item.Tags,
			Similarity: score,
		})
	}

	// Sort by score descending, ID ascending for deterministic ties
	sort.Slice(hits, func(i, j int) bool {
		if hits[i].Similarity != hits[j].Similarity {
			return hits[i].Similarity > hits[j].Similarity
		}
		return hits[i].Id < hits[j].Id
	})
	if len(hits) > MaxHits {
		hits = hits[:MaxHits]
	}

	s.logger.Debug("search complete",
		"query", query,
		"semantic", len(matches),
		"tag_matched", len(tagSet),
		"hits", len(hits))
	return hits, nil
}

// ContextSearch retrieves grounding material for question answering. It is
// purely semantic with a stricter threshold and a smaller cap, and projects
// each hit down to the fields a prompt needs.
func (s *Searcher) ContextSearch(ctx context.Context, owner, query string) ([]*core.ContextHit, error) {
	if strings.TrimSpace(query) == "" {
		return nil, ErrEmptyQuery
	}

	embedding, err := s.embedder.EmbedText(ctx, query)
	if err != nil {
		s.logger.Error("error generating embedding for question", "err", err)
		return nil, err
	}

	matches, err := s.items.FindSimilar(ctx, owner, embedding, ContextMinSimilarity, ContextMaxHits)
	if err != nil {
		s.logger.Error("error querying for context items", "err", err)
		return nil, err
	}

	hits := make([]*core.ContextHit, 0, len(matches))
	for _, match := range matches {
		hits = append(hits, &core.ContextHit{
			Id:      match.Item.Id,
			Title:   match.Item.Title,
			Summary: match.Item.Summary,
		})
	}
	return hits, nil
}
