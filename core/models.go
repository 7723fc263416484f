package core

//go:generate go run ../cmd/musgen

import (
	"encoding/binary"
	"fmt"
	"strings"
	"time"

	"github.com/go-crypt/x/blake2b"
)

// ID is a unique identifier for domain entities.
// It is generated using content-based hashing or database sequences.
type ID uint64

// IDFromContent generates a deterministic ID from text content using BLAKE2b hashing.
// This ensures that identical content produces identical IDs.
func IDFromContent(text string) ID {
	h, _ := blake2b.New(8, nil) // 8 bytes = 64 bits
	h.Write([]byte(text))
	sum := h.Sum(nil)
	return ID(binary.LittleEndian.Uint64(sum))
}

// TagID generates a deterministic ID for a tag literal.
// Tags are case-folded so "Go" and "go" index the same entry.
func TagID(tag string) ID {
	return IDFromContent(strings.ToLower(strings.TrimSpace(tag)))
}

// ContentKind identifies the kind of source an item was captured from.
type ContentKind int

const (
	// ContentKindNote is free text entered directly by the user.
	ContentKindNote ContentKind = iota + 1
	// ContentKindLink is a web page URL.
	ContentKindLink
	// ContentKindVideo is a YouTube video URL.
	ContentKindVideo
	// ContentKindImage is an image payload or image URL.
	ContentKindImage
	// ContentKindDocument is accepted at capture time but has no extraction
	// path yet; the extractor rejects it.
	ContentKindDocument
)

// String returns the wire name of the content kind.
func (k ContentKind) String() string {
	switch k {
	case ContentKindNote:
		return "note"
	case ContentKindLink:
		return "link"
	case ContentKindVideo:
		return "video"
	case ContentKindImage:
		return "image"
	case ContentKindDocument:
		return "document"
	default:
		return fmt.Sprintf("kind(%d)", int(k))
	}
}

// ParseContentKind parses a wire name into a ContentKind.
func ParseContentKind(s string) (ContentKind, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "note":
		return ContentKindNote, nil
	case "link":
		return ContentKindLink, nil
	case "video":
		return ContentKindVideo, nil
	case "image":
		return ContentKindImage, nil
	case "document":
		return ContentKindDocument, nil
	default:
		return 0, fmt.Errorf("%w: %q", ErrInvalidContentKind, s)
	}
}

// Role identifies the author of a chat message.
type Role int

const (
	// RoleUser represents a human user.
	RoleUser Role = iota + 1
	// RoleAssistant represents the AI assistant.
	RoleAssistant
)

// String returns the wire name of the role.
func (r Role) String() string {
	switch r {
	case RoleUser:
		return "user"
	case RoleAssistant:
		return "assistant"
	default:
		return fmt.Sprintf("role(%d)", int(r))
	}
}

// ContentItem is the persisted unit of captured content.
// Title, Summary, Tags and Vector are produced by the enrichment and embedding
// stages; an item is never persisted without all four populated.
type ContentItem struct {
	Id           ID
	Owner        string // every read and write is filtered by this
	Kind         ContentKind
	SourceURL    string // original URL for link/video/image captures, empty for notes
	Title        string
	Summary      string
	Tags         []string
	Vector       []float32 // fixed dimensionality, write-once at creation
	Favorited    bool
	CollectionId ID // 0 means no collection
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

// ChatMessage is a single turn in a stored conversation.
type ChatMessage struct {
	Id        ID
	ChatId    ID
	Owner     string
	Role      Role
	Content   string
	CreatedAt time.Time
}

// ItemMatch is a content item match from vector similarity search.
type ItemMatch struct {
	Item  *ContentItem
	Score float32
}

// SearchHit is one result of a plain search.
type SearchHit struct {
	Id         ID
	Title      string
	Summary    string
	Tags       []string
	Similarity float32
}

// ContextHit is the minimal projection used to ground a RAG answer.
type ContextHit struct {
	Id      ID
	Title   string
	Summary string
}
