package storage

import (
	"testing"
	"time"

	"github.com/recallhq/recall/core"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestContentItemRoundTrip(t *testing.T) {
	now := time.Now().UTC().Truncate(time.Microsecond)
	item := &core.ContentItem{
		Id:           42,
		Owner:        "alice",
		Kind:         core.ContentKindLink,
		SourceURL:    "https://example.com/post",
		Title:        "A post",
		Summary:      "What the post says.",
		Tags:         []string{"posts", "examples"},
		Vector:       []float32{0.25, -0.5, 1.0},
		Favorited:    true,
		CollectionId: 7,
		CreatedAt:    now,
		UpdatedAt:    now,
	}

	decoded, err := UnmarshalContentItem(MarshalContentItem(item))
	require.NoError(t, err)
	assert.Equal(t, item, decoded)
}

func TestUnmarshalContentItem_Garbage(t *testing.T) {
	_, err := UnmarshalContentItem([]byte{0xff})
	assert.Error(t, err)
}
