package openai

import (
	"context"
	"log/slog"

	"github.com/recallhq/recall/ai"
)

// Embedder implements ai.Embedder on top of the Dispatcher. All calls
// inherit credential failover and the dimensionality assertion.
type Embedder struct {
	dispatcher *Dispatcher
	logger     *slog.Logger
}

// newEmbedder is an internal constructor that returns the concrete type.
// Used by Provider to manage the instance.
func newEmbedder(dispatcher *Dispatcher) *Embedder {
	return &Embedder{
		dispatcher: dispatcher,
		logger:     slog.Default().With("component", "openai-embedder"),
	}
}

// NewEmbedder creates a standalone embedder using the provided configuration.
//
// Returns ai.Embedder interface to enforce abstraction.
func NewEmbedder(config *ai.Config) (ai.Embedder, error) {
	dispatcher, err := NewDispatcher(config)
	if err != nil {
		return nil, err
	}
	return newEmbedder(dispatcher), nil
}

// EmbedText generates a vector embedding for a single text string.
func (e *Embedder) EmbedText(ctx context.Context, text string) ([]float32, error) {
	e.logger.Debug("generating embedding for single text", "length", len(text))
	return e.dispatcher.Embed(ctx, text)
}

// EmbedTexts generates vector embeddings for multiple text strings.
// Each text is dispatched separately so that failover state never spans
// more than one provider call.
func (e *Embedder) EmbedTexts(ctx context.Context, texts []string) ([][]float32, error) {
	e.logger.Debug("generating embeddings for texts", "count", len(texts))

	vectors := make([][]float32, 0, len(texts))
	for _, text := range texts {
		vector, err := e.dispatcher.Embed(ctx, text)
		if err != nil {
			e.logger.Error("failed to generate embeddings", "count", len(texts), "err", err)
			return nil, err
		}
		vectors = append(vectors, vector)
	}
	return vectors, nil
}
