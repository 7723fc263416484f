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

import "errors"

// Domain validation errors
var (
	// ErrInvalidContentItem indicates a ContentItem failed validation.
	ErrInvalidContentItem = errors.New("invalid content item")

	// ErrInvalidChatMessage indicates a ChatMessage failed validation.
	ErrInvalidChatMessage = errors.New("invalid chat message")

	// ErrInvalidContentKind indicates an unknown ContentKind value or name.
	ErrInvalidContentKind = errors.New("invalid content kind")

	// ErrInvalidRole indicates an invalid Role value.
	ErrInvalidRole = errors.New("invalid role")

	// ErrEmptyOwner indicates the Owner field is empty.
	ErrEmptyOwner = errors.New("owner cannot be empty")

	// ErrEmptyTitle indicates the Title field is empty.
	ErrEmptyTitle = errors.New("title cannot be empty")

	// ErrEmptySummary indicates the Summary field is empty.
	ErrEmptySummary = errors.New("summary cannot be empty")

	// ErrEmptyTags indicates the Tags list is empty.
	ErrEmptyTags = errors.New("tags cannot be empty")

	// ErrEmptyContent indicates the Content field is empty.
	ErrEmptyContent = errors.New("content cannot be empty")

	// ErrVectorDimension indicates the embedding vector does not match the
	// configured dimensionality.
	ErrVectorDimension = errors.New("embedding dimensionality mismatch")
)
