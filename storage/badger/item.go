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


package badger

import (
	"context"
	"slices"
	"time"

	"github.com/dgraph-io/badger/v4"
	"github.com/recallhq/recall/core"
	"github.com/recallhq/recall/storage"
)

// ItemRepository implements storage.ItemRepository for BadgerDB.
type ItemRepository struct {
	backend *Backend
	idSeq   *badger.Sequence
}

var _ storage.ItemRepository = (*ItemRepository)(nil)

// NewItemRepository creates a new ItemRepository.
func NewItemRepository(backend *Backend) (*ItemRepository, error) {
	idSeq, err := backend.GetSequence(itemRecordIDSeq)
	if err != nil {
		return nil, err
	}

	return &ItemRepository{
		backend: backend,
		idSeq:   idSeq,
	}, nil
}

// Close releases the ID sequence.
func (r *ItemRepository) Close() error {
	return r.idSeq.Release()
}

// FindSimilar delegates to the backend.
func (r *ItemRepository) FindSimilar(ctx context.Context, owner string, vector []float32, minSimilarity float32, limit int) ([]*core.ItemMatch, error) {
	return r.backend.FindSimilar(ctx, owner, vector, minSimilarity, limit)
}

// nextID draws the next item ID from the sequence.
func (r *ItemRepository) nextID() (core.ID, error) {
	next, err := r.idSeq.Next()
	if err != nil {
		return 0, err
	}
	// BadgerDB sequences can return 0 on first call, so we skip it
	if next == 0 {
		next, err = r.idSeq.Next()
		if err != nil {
			return 0, err
		}
	}
	return core.ID(next), nil
}

// AddItems adds one or more content items to storage.
func (r *ItemRepository) AddItems(ctx context.Context, items ...*core.ContentItem) ([]*core.ContentItem, error) {
	err := r.backend.WithTx(func(tx *badger.Txn) error {
		for _, item := range items {
			id, err := r.nextID()
			if err != nil {
				return err
			}
			item.Id = id

			item.CreatedAt = time.Now().UTC()
			item.UpdatedAt = item.CreatedAt

			// Store primary record
			key := makeItemKey(item.Owner, item.Id)
			if err := tx.Set(key, storage.MarshalContentItem(item)); err != nil {
				return err
			}

			// Update date index
			dateKey := makeItemDateKey(item.Owner, item.CreatedAt, item.Id)
			if err := tx.Set(dateKey, storage.MarshalID(item.Id)); err != nil {
				return err
			}

			// Update tag index
			if err := r.updateTagIndex(tx, item); err != nil {
				return err
			}
		}
		return tx.Commit()
	}, true)

	return items, err
}

// UpdateItems updates existing content items. The stored creation time and
// embedding vector are carried over from the old record; an item edit never
// recomputes the embedding.
func (r *ItemRepository) UpdateItems(ctx context.Context, items ...*core.ContentItem) ([]*core.ContentItem, error) {
	err := r.backend.WithTx(func(tx *badger.Txn) error {
		for _, item := range items {
			key := makeItemKey(item.Owner, item.Id)

			old, err := r.readItem(tx, key)
			if err != nil {
				return err
			}
			if old == nil {
				return storage.ErrNotFound
			}

			item.CreatedAt = old.CreatedAt
			item.Vector = old.Vector
			item.UpdatedAt = time.Now().UTC()

			if err := tx.Set(key, storage.MarshalContentItem(item)); err != nil {
				return err
			}

			// Update tag index if tags changed
			if !slices.Equal(old.Tags, item.Tags) {
				if err := r.deleteTagIndex(tx, old); err != nil {
					return err
				}
				if err := r.updateTagIndex(tx, item); err != nil {
					return err
				}
			}
		}
		return tx.Commit()
	}, true)

	return items, err
}

// DeleteItems removes the owner's items by their IDs.
func (r *ItemRepository) DeleteItems(ctx context.Context, owner string, ids ...core.ID) error {
	return r.backend.WithTx(func(tx *badger.Txn) error {
		for _, id := range ids {
			key := makeItemKey(owner, id)

			// Read record to get metadata for index cleanup
			item, err := r.readItem(tx, key)
			if err != nil {
				return err
			}
			if item == nil {
				return storage.ErrNotFound
			}

			dateKey := makeItemDateKey(owner, item.CreatedAt, item.Id)
			if err := tx.Delete(dateKey); err != nil {
				return err
			}

			if err := r.deleteTagIndex(tx, item); err != nil {
				return err
			}

			if err := tx.Delete(key); err != nil {
				return err
			}
		}
		return tx.Commit()
	}, true)
}

// GetItem retrieves a single content item by ID.
func (r *ItemRepository) GetItem(ctx context.Context, owner string, id core.ID) (*core.ContentItem, error) {
	var result *core.ContentItem
	err := r.backend.WithTx(func(tx *badger.Txn) error {
		var err error
		result, err = r.readItem(tx, makeItemKey(owner, id))
		if err != nil {
			return err
		}
		if result == nil {
			return storage.ErrNotFound
		}
		return nil
	}, false)
	return result, err
}

// GetItems retrieves multiple content items by their IDs.
// Missing IDs are skipped.
func (r *ItemRepository) GetItems(ctx context.Context, owner string, ids ...core.ID) ([]*core.ContentItem, error) {
	var result []*core.ContentItem
	err := r.backend.WithTx(func(tx *badger.Txn) error {
		for _, id := range ids {
			item, err := r.readItem(tx, makeItemKey(owner, id))
			if err != nil {
				return err
			}
			if item != nil {
				result = append(result, item)
			}
		}
		return nil
	}, false)
	return result, err
}

// GetRecentItems retrieves the owner's N most recently saved items, newest
// first.
func (r *ItemRepository) GetRecentItems(ctx context.Context, owner string, limit int) ([]*core.ContentItem, error) {
	var results []*core.ContentItem
	err := r.backend.WithTx(func(tx *badger.Txn) error {
		// Use reverse iterator to get most recent records first
		opts := badger.DefaultIteratorOptions
		opts.Reverse = true

		iter := tx.NewIterator(opts)
		defer iter.Close()

		prefix := makeOwnerItemDatePrefix(owner)

		// Seek to the last possible key within this owner's date index.
		startKey := makeItemDateKey(owner, time.Date(9999, 12, 31, 23, 59, 59, 999999999, time.UTC), core.ID(^uint64(0)))

		count := 0
		for iter.Seek(startKey); iter.Valid() && count < limit; iter.Next() {
			key := iter.Item().Key()
			if len(key) < len(prefix) || !slices.Equal(key[:len(prefix)], prefix) {
				break
			}

			var itemID core.ID
			if err := iter.Item().Value(func(val []byte) error {
				var err error
				itemID, err = storage.UnmarshalID(val)
				return err
			}); err != nil {
				return err
			}

			item, err := r.readItem(tx, makeItemKey(owner, itemID))
			if err != nil {
				return err
			}
			if item != nil {
				results = append(results, item)
				count++
			}
		}
		return nil
	}, false)

	return results, err
}

// GetItemsByTag returns the IDs of the owner's items carrying the given
// tag. Matching is case-insensitive through the tag ID derivation.
func (r *ItemRepository) GetItemsByTag(ctx context.Context, owner string, tag string) ([]core.ID, error) {
	var ids []core.ID
	err := r.backend.WithTx(func(tx *badger.Txn) error {
		opts := badger.DefaultIteratorOptions
		opts.Prefix = makePartialItemTagKey(owner, core.TagID(tag))
		iter := tx.NewIterator(opts)
		defer iter.Close()

		for iter.Rewind(); iter.Valid(); iter.Next() {
			var itemID core.ID
			if err := iter.Item().Value(func(val []byte) error {
				var err error
				itemID, err = storage.UnmarshalID(val)
				return err
			}); err != nil {
				return err
			}
			ids = append(ids, itemID)
		}
		return nil
	}, false)
	return ids, err
}

// readItem reads and unmarshals an item, returning nil if not found.
func (r *ItemRepository) readItem(tx *badger.Txn, key []byte) (*core.ContentItem, error) {
	entry, err := tx.Get(key)
	if err != nil {
		if err == badger.ErrKeyNotFound {
			return nil, nil
		}
		return nil, err
	}

	var item *core.ContentItem
	err = entry.Value(func(val []byte) error {
		var err error
		item, err = storage.UnmarshalContentItem(val)
		return err
	})
	return item, err
}

// updateTagIndex writes one tag index entry per tag on the item.
func (r *ItemRepository) updateTagIndex(tx *badger.Txn, item *core.ContentItem) error {
	for _, tag := range item.Tags {
		key := makeItemTagKey(item.Owner, core.TagID(tag), item.Id)
		if err := tx.Set(key, storage.MarshalID(item.Id)); err != nil {
			return err
		}
	}
	return nil
}

// deleteTagIndex removes the item's tag index entries.
func (r *ItemRepository) deleteTagIndex(tx *badger.Txn, item *core.ContentItem) error {
	for _, tag := range item.Tags {
		key := makeItemTagKey(item.Owner, core.TagID(tag), item.Id)
		if err := tx.Delete(key); err != nil {
			return err
		}
	}
	return nil
}
