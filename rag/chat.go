package rag

import (
	"context"
	"fmt"
	"strings"

	"github.com/recallhq/recall/ai"
	"github.com/recallhq/recall/core"
)

// historyLimit caps how many stored messages accompany a chat turn.
const historyLimit = 30

const chatPromptTemplate = `You are chatting with the owner of a personal content vault. Use ONLY the saved
content provided below to answer; if it does not cover the question, say so. Stay consistent with the
conversation so far.

Saved content:
%s

Conversation so far:
%s

Respond to the latest user message.`

// ChatTurn runs one turn of a conversation. The user message is persisted,
// the most recent stored history accompanies the generation call verbatim,
// and the assistant reply is persisted and returned.
func (a *Answerer) ChatTurn(ctx context.Context, owner string, chatID core.ID, message string) (*core.ChatMessage, error) {
	if a.chats == nil {
		return nil, ErrChatRepositoryRequired
	}
	if strings.TrimSpace(message) == "" {
		return nil, ErrEmptyQuestion
	}

	history, err := a.chats.GetRecentMessages(ctx, owner, chatID, historyLimit)
	if err != nil {
		return nil, err
	}

	userMessage := &core.ChatMessage{
		ChatId:  chatID,
		Owner:   owner,
		Role:    core.RoleUser,
		Content: message,
	}
	if _, err := a.chats.AppendMessages(ctx, userMessage); err != nil {
		return nil, err
	}

	hits, err := a.contexts.ContextSearch(ctx, owner, message)
	if err != nil {
		return nil, err
	}

	contextBlock := buildContextBlock(hits)
	if len(hits) == 0 {
		contextBlock = "(nothing relevant saved)"
	}

	prompt := fmt.Sprintf(chatPromptTemplate, contextBlock, buildTranscript(history, message))

	text, err := a.generator.Generate(ctx, ai.GenerateRequest{
		Parts: []ai.Part{ai.TextPart(prompt)},
	})
	if err != nil {
		if ai.IsQuotaExceeded(err) {
			text = BusyAnswer
		} else {
			a.logger.Error("chat generation failed", "chat_id", chatID, "err", err)
			return nil, err
		}
	}

	assistantMessage := &core.ChatMessage{
		ChatId:  chatID,
		Owner:   owner,
		Role:    core.RoleAssistant,
		Content: strings.TrimSpace(text),
	}
	if _, err := a.chats.AppendMessages(ctx, assistantMessage); err != nil {
		return nil, err
	}
	return assistantMessage, nil
}

// buildTranscript renders stored history plus the new user message.
func buildTranscript(history []*core.ChatMessage, latest string) string {
	var b strings.Builder
	for _, message := range history {
		b.WriteString(message.Role.String())
		b.WriteString(": ")
		b.WriteString(message.Content)
		b.WriteString("\n")
	}
	b.WriteString(core.RoleUser.String())
	b.WriteString(": ")
	b.WriteString(latest)
	return b.String()
}
