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


package core

import "fmt"

// ValidateContentItem validates a ContentItem against the persistence rules.
//
// Validation rules:
//   - Owner must not be empty
//   - Kind must be a known content kind
//   - Title, Summary and Tags must all be populated (the enrichment triple)
//   - Vector must have exactly dims entries
//
// NOT validated:
//   - ID (0 is valid before the database sequence assigns one)
//   - CollectionId (0 means no collection)
func ValidateContentItem(item *ContentItem, dims int) error {
	if item == nil {
		return fmt.Errorf("%w: item is nil", ErrInvalidContentItem)
	}

	if item.Owner == "" {
		return fmt.Errorf("%w: %w", ErrInvalidContentItem, ErrEmptyOwner)
	}

	if err := ValidateContentKind(item.Kind); err != nil {
		return fmt.Errorf("%w: %w", ErrInvalidContentItem, err)
	}

	if item.Title == "" {
		return fmt.Errorf("%w: %w", ErrInvalidContentItem, ErrEmptyTitle)
	}

	if item.Summary == "" {
		return fmt.Errorf("%w: %w", ErrInvalidContentItem, ErrEmptySummary)
	}

	if len(item.Tags) == 0 {
		return fmt.Errorf("%w: %w", ErrInvalidContentItem, ErrEmptyTags)
	}

	if len(item.Vector) != dims {
		return fmt.Errorf("%w: %w: got %d, want %d",
			ErrInvalidContentItem, ErrVectorDimension, len(item.Vector), dims)
	}

	return nil
}

// ValidateChatMessage validates a ChatMessage according to domain rules.
//
// Validation rules:
//   - Owner must not be empty
//   - Content must not be empty
//   - Role must be valid (user or assistant)
func ValidateChatMessage(msg *ChatMessage) error {
	if msg == nil {
		return fmt.Errorf("%w: message is nil", ErrInvalidChatMessage)
	}

	if msg.Owner == "" {
		return fmt.Errorf("%w: %w", ErrInvalidChatMessage, ErrEmptyOwner)
	}

	if msg.Content == "" {
		return fmt.Errorf("%w: %w", ErrInvalidChatMessage, ErrEmptyContent)
	}

	if err := ValidateRole(msg.Role); err != nil {
		return fmt.Errorf("%w: %w", ErrInvalidChatMessage, err)
	}

	return nil
}

// ValidateContentKind validates that a ContentKind has a known value.
func ValidateContentKind(kind ContentKind) error {
	switch kind {
	case ContentKindNote, ContentKindLink, ContentKindVideo, ContentKindImage, ContentKindDocument:
		return nil
	default:
		return fmt.Errorf("%w: value %d", ErrInvalidContentKind, kind)
	}
}

// ValidateRole validates that a Role has a valid value.
func ValidateRole(role Role) error {
	if role != RoleUser && role != RoleAssistant {
		return fmt.Errorf("%w: value %d", ErrInvalidRole, role)
	}
	return nil
}
