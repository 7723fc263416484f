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


package storage

import (
	"github.com/recallhq/recall/core"
)

// MarshalID serializes an ID to bytes.
func MarshalID(id core.ID) []byte {
	buf := make([]byte, core.IDMUS.Size(id))
	core.IDMUS.Marshal(id, buf)
	return buf
}

// UnmarshalID deserializes an ID from bytes.
func UnmarshalID(data []byte) (core.ID, error) {
	id, _, err := core.IDMUS.Unmarshal(data)
	return id, err
}

// MarshalContentItem serializes a ContentItem to bytes.
func MarshalContentItem(item *core.ContentItem) []byte {
	buf := make([]byte, core.ContentItemMUS.Size(*item))
	core.ContentItemMUS.Marshal(*item, buf)
	return buf
}

// UnmarshalContentItem deserializes a ContentItem from bytes.
func UnmarshalContentItem(data []byte) (*core.ContentItem, error) {
	item, _, err := core.ContentItemMUS.Unmarshal(data)
	if err != nil {
		return nil, err
	}
	return &item, nil
}

// MarshalChatMessage serializes a ChatMessage to bytes.
func MarshalChatMessage(message *core.ChatMessage) []byte {
	buf := make([]byte, core.ChatMessageMUS.Size(*message))
	core.ChatMessageMUS.Marshal(*message, buf)
	return buf
}

// UnmarshalChatMessage deserializes a ChatMessage from bytes.
func UnmarshalChatMessage(data []byte) (*core.ChatMessage, error) {
	message, _, err := core.ChatMessageMUS.Unmarshal(data)
	if err != nil {
		return nil, err
	}
	return &message, nil
}
