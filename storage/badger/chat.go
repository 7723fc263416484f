package badger

import (
	"context"
	"time"

	"github.com/dgraph-io/badger/v4"
	"github.com/recallhq/recall/core"
	"github.com/recallhq/recall/storage"
)

// ChatRepository implements storage.ChatRepository for BadgerDB.
type ChatRepository struct {
	backend *Backend
	idSeq   *badger.Sequence
}

var _ storage.ChatRepository = (*ChatRepository)(nil)

// NewChatRepository creates a new ChatRepository.
func NewChatRepository(backend *Backend) (*ChatRepository, error) {
	idSeq, err := backend.GetSequence(chatMessageIDSeq)
	if err != nil {
		return nil, err
	}

	return &ChatRepository{
		backend: backend,
		idSeq:   idSeq,
	}, nil
}

// Close releases the ID sequence.
func (r *ChatRepository) Close() error {
	return r.idSeq.Release()
}

// AppendMessages adds messages to their conversations. IDs come from a
// monotonic sequence, so key order within a conversation is insertion order.
func (r *ChatRepository) AppendMessages(ctx context.Context, messages ...*core.ChatMessage) ([]*core.ChatMessage, error) {
	err := r.backend.WithTx(func(tx *badger.Txn) error {
		for _, message := range messages {
			next, err := r.idSeq.Next()
			if err != nil {
				return err
			}
			// BadgerDB sequences can return 0 on first call, so we skip it
			if next == 0 {
				next, err = r.idSeq.Next()
				if err != nil {
					return err
				}
			}
			message.Id = core.ID(next)
			message.CreatedAt = time.Now().UTC()

			key := makeChatMessageKey(message.Owner, message.ChatId, message.Id)
			if err := tx.Set(key, storage.MarshalChatMessage(message)); err != nil {
				return err
			}
		}
		return tx.Commit()
	}, true)

	return messages, err
}

// GetRecentMessages returns up to limit of the conversation's newest
// messages, oldest first.
func (r *ChatRepository) GetRecentMessages(ctx context.Context, owner string, chatID core.ID, limit int) ([]*core.ChatMessage, error) {
	var results []*core.ChatMessage
	err := r.backend.WithTx(func(tx *badger.Txn) error {
		opts := badger.DefaultIteratorOptions
		opts.Prefix = makePartialChatKey(owner, chatID)
		iter := tx.NewIterator(opts)
		defer iter.Close()

		for iter.Rewind(); iter.Valid(); iter.Next() {
			var message *core.ChatMessage
			if err := iter.Item().Value(func(val []byte) error {
				var err error
				message, err = storage.UnmarshalChatMessage(val)
				return err
			}); err != nil {
				return err
			}
			if message != nil {
				results = append(results, message)
			}
		}
		return nil
	}, false)
	if err != nil {
		return nil, err
	}

	// Keep only the tail; order stays chronological.
	if limit > 0 && len(results) > limit {
		results = results[len(results)-limit:]
	}
	return results, nil
}

// DeleteChat removes an entire conversation.
func (r *ChatRepository) DeleteChat(ctx context.Context, owner string, chatID core.ID) error {
	return r.backend.WithTx(func(tx *badger.Txn) error {
		opts := badger.DefaultIteratorOptions
		opts.Prefix = makePartialChatKey(owner, chatID)
		opts.PrefetchValues = false
		iter := tx.NewIterator(opts)

		var keys [][]byte
		for iter.Rewind(); iter.Valid(); iter.Next() {
			keys = append(keys, iter.Item().KeyCopy(nil))
		}
		iter.Close()

		for _, key := range keys {
			if err := tx.Delete(key); err != nil {
				return err
			}
		}
		return tx.Commit()
	}, true)
}
