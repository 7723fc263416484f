package badger

import (
	"context"
	"errors"
	"testing"

	"github.com/recallhq/recall/core"
	"github.com/recallhq/recall/storage"
)

func newTestRepos(t *testing.T) (storage.ItemRepository, storage.ChatRepository) {
	t.Helper()
	itemRepo, chatRepo, backend, err := NewMemoryRepositories()
	if err != nil {
		t.Fatalf("Failed to create repositories: %v", err)
	}
	t.Cleanup(func() {
		itemRepo.Close()
		chatRepo.Close()
		backend.Close()
	})
	return itemRepo, chatRepo
}

func testItem(owner, title string, vector []float32) *core.ContentItem {
	return &core.ContentItem{
		Owner:   owner,
		Kind:    core.ContentKindNote,
		Title:   title,
		Summary: "summary of " + title,
		Tags:    []string{"testing", "notes"},
		Vector:  vector,
	}
}

func TestItemBasics(t *testing.T) {
	itemRepo, _ := newTestRepos(t)
	ctx := context.Background()

	added, err := itemRepo.AddItems(ctx, testItem("alice", "First note", []float32{1, 0, 0}))
	if err != nil {
		t.Fatalf("Failed to add item: %v", err)
	}
	if len(added) != 1 {
		t.Fatalf("Expected 1 item, got %d", len(added))
	}
	if added[0].Id == 0 {
		t.Fatal("Expected non-zero ID")
	}
	if added[0].CreatedAt.IsZero() {
		t.Fatal("Expected CreatedAt to be set")
	}

	retrieved, err := itemRepo.GetItem(ctx, "alice", added[0].Id)
	if err != nil {
		t.Fatalf("Failed to get item: %v", err)
	}
	if retrieved.Title != "First note" {
		t.Fatalf("Expected 'First note', got '%s'", retrieved.Title)
	}
	if len(retrieved.Vector) != 3 {
		t.Fatalf("Expected 3-dimension vector, got %d", len(retrieved.Vector))
	}
}

func TestItemOwnerIsolation(t *testing.T) {
	itemRepo, _ := newTestRepos(t)
	ctx := context.Background()

	added, err := itemRepo.AddItems(ctx, testItem("alice", "Alice's note", []float32{1, 0, 0}))
	if err != nil {
		t.Fatalf("Failed to add item: %v", err)
	}

	// Another owner must not see the record, even with the right ID.
	_, err = itemRepo.GetItem(ctx, "bob", added[0].Id)
	if !errors.Is(err, storage.ErrNotFound) {
		t.Fatalf("Expected ErrNotFound for other owner, got %v", err)
	}

	// Prefix owners must stay disjoint.
	_, err = itemRepo.GetItem(ctx, "ali", added[0].Id)
	if !errors.Is(err, storage.ErrNotFound) {
		t.Fatalf("Expected ErrNotFound for prefix owner, got %v", err)
	}
}

func TestItemUpdate(t *testing.T) {
	itemRepo, _ := newTestRepos(t)
	ctx := context.Background()

	added, err := itemRepo.AddItems(ctx, testItem("alice", "Original", []float32{1, 0, 0}))
	if err != nil {
		t.Fatalf("Failed to add item: %v", err)
	}
	original := *added[0]

	updated := *added[0]
	updated.Title = "Renamed"
	updated.Tags = []string{"renamed"}
	updated.Vector = nil
	updated.Favorited = true

	if _, err := itemRepo.UpdateItems(ctx, &updated); err != nil {
		t.Fatalf("Failed to update item: %v", err)
	}

	retrieved, err := itemRepo.GetItem(ctx, "alice", original.Id)
	if err != nil {
		t.Fatalf("Failed to get item: %v", err)
	}
	if retrieved.Title != "Renamed" {
		t.Fatalf("Expected 'Renamed', got '%s'", retrieved.Title)
	}
	if !retrieved.Favorited {
		t.Fatal("Expected Favorited to be set")
	}
	// Vector and CreatedAt survive the update untouched.
	if len(retrieved.Vector) != 3 {
		t.Fatalf("Expected vector to be preserved, got %d dimensions", len(retrieved.Vector))
	}
	if !retrieved.CreatedAt.Equal(original.CreatedAt) {
		t.Fatal("Expected CreatedAt to be preserved")
	}

	// Tag index follows the new tags.
	ids, err := itemRepo.GetItemsByTag(ctx, "alice", "renamed")
	if err != nil {
		t.Fatalf("Failed to get items by tag: %v", err)
	}
	if len(ids) != 1 || ids[0] != original.Id {
		t.Fatalf("Expected tag index to contain item %d, got %v", original.Id, ids)
	}
	ids, err = itemRepo.GetItemsByTag(ctx, "alice", "testing")
	if err != nil {
		t.Fatalf("Failed to get items by tag: %v", err)
	}
	if len(ids) != 0 {
		t.Fatalf("Expected old tag entries to be gone, got %v", ids)
	}
}

func TestItemUpdateMissing(t *testing.T) {
	itemRepo, _ := newTestRepos(t)

	missing := testItem("alice", "Ghost", nil)
	missing.Id = 12345

	_, err := itemRepo.UpdateItems(context.Background(), missing)
	if !errors.Is(err, storage.ErrNotFound) {
		t.Fatalf("Expected ErrNotFound, got %v", err)
	}
}

func TestItemDelete(t *testing.T) {
	itemRepo, _ := newTestRepos(t)
	ctx := context.Background()

	added, err := itemRepo.AddItems(ctx, testItem("alice", "Doomed", []float32{1, 0, 0}))
	if err != nil {
		t.Fatalf("Failed to add item: %v", err)
	}

	if err := itemRepo.DeleteItems(ctx, "alice", added[0].Id); err != nil {
		t.Fatalf("Failed to delete item: %v", err)
	}

	_, err = itemRepo.GetItem(ctx, "alice", added[0].Id)
	if !errors.Is(err, storage.ErrNotFound) {
		t.Fatalf("Expected ErrNotFound after delete, got %v", err)
	}

	ids, err := itemRepo.GetItemsByTag(ctx, "alice", "testing")
	if err != nil {
		t.Fatalf("Failed to get items by tag: %v", err)
	}
	if len(ids) != 0 {
		t.Fatalf("Expected tag index cleanup, got %v", ids)
	}
}

func TestGetItemsByTagCaseFolding(t *testing.T) {
	itemRepo, _ := newTestRepos(t)
	ctx := context.Background()

	item := testItem("alice", "Tagged", nil)
	item.Tags = []string{"machine-learning"}
	if _, err := itemRepo.AddItems(ctx, item); err != nil {
		t.Fatalf("Failed to add item: %v", err)
	}

	ids, err := itemRepo.GetItemsByTag(ctx, "alice", "Machine-Learning")
	if err != nil {
		t.Fatalf("Failed to get items by tag: %v", err)
	}
	if len(ids) != 1 {
		t.Fatalf("Expected case-insensitive tag match, got %v", ids)
	}
}

func TestGetRecentItems(t *testing.T) {
	itemRepo, _ := newTestRepos(t)
	ctx := context.Background()

	for _, title := range []string{"one", "two", "three", "four"} {
		if _, err := itemRepo.AddItems(ctx, testItem("alice", title, nil)); err != nil {
			t.Fatalf("Failed to add item: %v", err)
		}
	}
	if _, err := itemRepo.AddItems(ctx, testItem("bob", "other owner", nil)); err != nil {
		t.Fatalf("Failed to add item: %v", err)
	}

	recent, err := itemRepo.GetRecentItems(ctx, "alice", 3)
	if err != nil {
		t.Fatalf("Failed to get recent items: %v", err)
	}
	if len(recent) != 3 {
		t.Fatalf("Expected 3 items, got %d", len(recent))
	}
	if recent[0].Title != "four" {
		t.Fatalf("Expected newest item first, got '%s'", recent[0].Title)
	}
}

func TestFindSimilar(t *testing.T) {
	itemRepo, _ := newTestRepos(t)
	ctx := context.Background()

	items := []*core.ContentItem{
		testItem("alice", "exact", []float32{1, 0, 0}),
		testItem("alice", "close", []float32{0.8, 0.6, 0}),
		testItem("alice", "far", []float32{0, 0, 1}),
		testItem("bob", "other owner exact", []float32{1, 0, 0}),
	}
	if _, err := itemRepo.AddItems(ctx, items...); err != nil {
		t.Fatalf("Failed to add items: %v", err)
	}

	matches, err := itemRepo.FindSimilar(ctx, "alice", []float32{1, 0, 0}, 0.5, 10)
	if err != nil {
		t.Fatalf("Failed to find similar: %v", err)
	}

	if len(matches) != 2 {
		t.Fatalf("Expected 2 matches, got %d", len(matches))
	}
	if matches[0].Item.Title != "exact" {
		t.Fatalf("Expected best match first, got '%s'", matches[0].Item.Title)
	}
	for _, match := range matches {
		if match.Item.Owner != "alice" {
			t.Fatalf("Match leaked from owner '%s'", match.Item.Owner)
		}
		if match.Score < 0.5 {
			t.Fatalf("Match below threshold: %f", match.Score)
		}
	}

	// Limit is respected.
	matches, err = itemRepo.FindSimilar(ctx, "alice", []float32{1, 0, 0}, 0.0, 1)
	if err != nil {
		t.Fatalf("Failed to find similar: %v", err)
	}
	if len(matches) != 1 {
		t.Fatalf("Expected limit of 1, got %d", len(matches))
	}
}
