package badger

import (
	"context"
	"fmt"
	"testing"

	"github.com/recallhq/recall/core"
)

func TestChatMessageBasics(t *testing.T) {
	_, chatRepo := newTestRepos(t)
	ctx := context.Background()

	message := &core.ChatMessage{
		ChatId:  7,
		Owner:   "alice",
		Role:    core.RoleUser,
		Content: "Hello, vault!",
	}

	added, err := chatRepo.AppendMessages(ctx, message)
	if err != nil {
		t.Fatalf("Failed to append message: %v", err)
	}
	if len(added) != 1 {
		t.Fatalf("Expected 1 message, got %d", len(added))
	}
	if added[0].Id == 0 {
		t.Fatal("Expected non-zero ID")
	}
	if added[0].CreatedAt.IsZero() {
		t.Fatal("Expected CreatedAt to be set")
	}

	history, err := chatRepo.GetRecentMessages(ctx, "alice", 7, 10)
	if err != nil {
		t.Fatalf("Failed to get messages: %v", err)
	}
	if len(history) != 1 {
		t.Fatalf("Expected 1 message, got %d", len(history))
	}
	if history[0].Content != "Hello, vault!" {
		t.Fatalf("Expected 'Hello, vault!', got '%s'", history[0].Content)
	}
}

func TestGetRecentMessagesOrderAndLimit(t *testing.T) {
	_, chatRepo := newTestRepos(t)
	ctx := context.Background()

	for i := 0; i < 5; i++ {
		role := core.RoleUser
		if i%2 == 1 {
			role = core.RoleAssistant
		}
		_, err := chatRepo.AppendMessages(ctx, &core.ChatMessage{
			ChatId:  1,
			Owner:   "alice",
			Role:    role,
			Content: fmt.Sprintf("message %d", i),
		})
		if err != nil {
			t.Fatalf("Failed to append message: %v", err)
		}
	}

	history, err := chatRepo.GetRecentMessages(ctx, "alice", 1, 3)
	if err != nil {
		t.Fatalf("Failed to get messages: %v", err)
	}
	if len(history) != 3 {
		t.Fatalf("Expected 3 messages, got %d", len(history))
	}
	// The tail of the conversation, oldest first.
	if history[0].Content != "message 2" || history[2].Content != "message 4" {
		t.Fatalf("Unexpected window: %s .. %s", history[0].Content, history[2].Content)
	}
}

func TestChatConversationIsolation(t *testing.T) {
	_, chatRepo := newTestRepos(t)
	ctx := context.Background()

	_, err := chatRepo.AppendMessages(ctx,
		&core.ChatMessage{ChatId: 1, Owner: "alice", Role: core.RoleUser, Content: "chat one"},
		&core.ChatMessage{ChatId: 2, Owner: "alice", Role: core.RoleUser, Content: "chat two"},
		&core.ChatMessage{ChatId: 1, Owner: "bob", Role: core.RoleUser, Content: "bob's chat"},
	)
	if err != nil {
		t.Fatalf("Failed to append messages: %v", err)
	}

	history, err := chatRepo.GetRecentMessages(ctx, "alice", 1, 10)
	if err != nil {
		t.Fatalf("Failed to get messages: %v", err)
	}
	if len(history) != 1 || history[0].Content != "chat one" {
		t.Fatalf("Expected only alice's chat 1, got %v", history)
	}
}

func TestDeleteChat(t *testing.T) {
	_, chatRepo := newTestRepos(t)
	ctx := context.Background()

	_, err := chatRepo.AppendMessages(ctx,
		&core.ChatMessage{ChatId: 1, Owner: "alice", Role: core.RoleUser, Content: "first"},
		&core.ChatMessage{ChatId: 1, Owner: "alice", Role: core.RoleAssistant, Content: "second"},
		&core.ChatMessage{ChatId: 2, Owner: "alice", Role: core.RoleUser, Content: "survives"},
	)
	if err != nil {
		t.Fatalf("Failed to append messages: %v", err)
	}

	if err := chatRepo.DeleteChat(ctx, "alice", 1); err != nil {
		t.Fatalf("Failed to delete chat: %v", err)
	}

	history, err := chatRepo.GetRecentMessages(ctx, "alice", 1, 10)
	if err != nil {
		t.Fatalf("Failed to get messages: %v", err)
	}
	if len(history) != 0 {
		t.Fatalf("Expected empty chat after delete, got %d messages", len(history))
	}

	history, err = chatRepo.GetRecentMessages(ctx, "alice", 2, 10)
	if err != nil {
		t.Fatalf("Failed to get messages: %v", err)
	}
	if len(history) != 1 {
		t.Fatalf("Expected chat 2 to survive, got %d messages", len(history))
	}
}
