package recall

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/recallhq/recall/ai"
	"github.com/recallhq/recall/ai/mock"
	"github.com/recallhq/recall/core"
	"github.com/recallhq/recall/extract"
)

func TestOpen(t *testing.T) {
	t.Run("create new vault", func(t *testing.T) {
		tmpDir := filepath.Join(t.TempDir(), "test_vault")
		vault, err := Open(tmpDir, WithProvider(mock.NewMockProvider()))
		require.NoError(t, err)
		require.NotNil(t, vault)
		defer vault.Close()

		// Verify components are initialized
		assert.NotNil(t, vault.ItemRepository())
		assert.NotNil(t, vault.ChatRepository())
		assert.NotNil(t, vault.backend)
		assert.NotNil(t, vault.extractor)
	})

	t.Run("error with invalid path", func(t *testing.T) {
		// Try to create a vault at a file path instead of a directory
		tmpFile := filepath.Join(t.TempDir(), "not_a_dir")
		err := os.WriteFile(tmpFile, []byte("test"), 0644)
		require.NoError(t, err)

		vault, err := Open(tmpFile, WithProvider(mock.NewMockProvider()))
		assert.Error(t, err)
		assert.Nil(t, vault)
	})

	t.Run("error without credentials", func(t *testing.T) {
		// No injected provider and no keys in the environment means the
		// OpenAI provider cannot be constructed.
		t.Setenv("RECALL_API_KEYS", "")

		vault, err := Open(filepath.Join(t.TempDir(), "vault"))
		assert.Error(t, err)
		assert.Nil(t, vault)
	})
}

func TestVault_Close(t *testing.T) {
	vault, err := Open(t.TempDir(), WithProvider(mock.NewMockProvider()))
	require.NoError(t, err)
	require.NotNil(t, vault)

	err = vault.Close()
	assert.NoError(t, err)
}

func TestVault_FactoryMethods(t *testing.T) {
	vault, err := Open("", WithInMemoryStorage(), WithProvider(mock.NewMockProvider()))
	require.NoError(t, err)
	require.NotNil(t, vault)
	defer vault.Close()

	t.Run("can create ingestion pipeline", func(t *testing.T) {
		pipeline, err := vault.NewIngestionPipeline()
		require.NoError(t, err)
		require.NotNil(t, pipeline)
	})

	t.Run("can create searcher", func(t *testing.T) {
		searcher, err := vault.NewSearcher()
		require.NoError(t, err)
		require.NotNil(t, searcher)
	})

	t.Run("can create answerer", func(t *testing.T) {
		answerer, err := vault.NewAnswerer()
		require.NoError(t, err)
		require.NotNil(t, answerer)
	})
}

// TestVault_CaptureAndRetrieve walks a note through the full path: ingest,
// search, ask.
func TestVault_CaptureAndRetrieve(t *testing.T) {
	ctx := context.Background()

	embedder := mock.NewMockEmbedder()
	embedder.Dimensions = 4
	// Every text embeds to the same unit vector, so anything ingested is a
	// perfect match for any query.
	embedder.EmbedTextFunc = func(ctx context.Context, text string) ([]float32, error) {
		return []float32{1, 0, 0, 0}, nil
	}
	generator := mock.NewMockGenerator()
	generator.Response = "Your note says the meeting moved to Thursday."
	provider := mock.NewMockProviderWithServices(mock.NewMockEnricher(), embedder, generator)

	cfg := ai.NewConfig(
		ai.WithCredentials("test-key"),
		ai.WithEmbeddingModel("test-embed", 4),
	)
	vault, err := Open("", WithInMemoryStorage(), WithProvider(provider), WithAIConfig(cfg))
	require.NoError(t, err)
	defer vault.Close()

	pipeline, err := vault.NewIngestionPipeline()
	require.NoError(t, err)

	item, err := pipeline.Ingest(ctx, "alice", &extract.Request{
		Kind:    core.ContentKindNote,
		Content: "The weekly planning meeting moved from Wednesday to Thursday.",
	})
	require.NoError(t, err)
	require.NotZero(t, item.Id)
	assert.Equal(t, "alice", item.Owner)
	assert.NotEmpty(t, item.Title)
	assert.NotEmpty(t, item.Summary)

	searcher, err := vault.NewSearcher()
	require.NoError(t, err)

	hits, err := searcher.Search(ctx, "alice", "when is the planning meeting")
	require.NoError(t, err)
	require.Len(t, hits, 1)
	assert.Equal(t, item.Id, hits[0].Id)

	// Other owners see nothing.
	hits, err = searcher.Search(ctx, "bob", "planning meeting")
	require.NoError(t, err)
	assert.Empty(t, hits)

	answerer, err := vault.NewAnswerer()
	require.NoError(t, err)

	answer, err := answerer.Ask(ctx, "alice", "when is the planning meeting?")
	require.NoError(t, err)
	assert.Equal(t, generator.Response, answer.Answer)
	require.Len(t, answer.Sources, 1)
	assert.Equal(t, item.Id, answer.Sources[0].Id)
}
