package core

import (
	"testing"
)

func TestIDFromContent(t *testing.T) {
	tests := []struct {
		name    string
		content string
	}{
		{name: "same content produces same ID", content: "test content"},
		{name: "empty string", content: ""},
		{name: "long content", content: "A much longer piece of content that should still hash consistently"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			id1 := IDFromContent(tt.content)
			id2 := IDFromContent(tt.content)

			if id1 != id2 {
				t.Errorf("IDFromContent() produced different IDs for same content: %d vs %d", id1, id2)
			}
		})
	}
}

func TestIDFromContent_Different(t *testing.T) {
	id1 := IDFromContent("content1")
	id2 := IDFromContent("content2")

	if id1 == id2 {
		t.Errorf("IDFromContent() produced same ID for different content")
	}
}

func TestTagID_CaseFolding(t *testing.T) {
	if TagID("Golang") != TagID("golang") {
		t.Errorf("TagID() should be case-insensitive")
	}
	if TagID(" golang ") != TagID("golang") {
		t.Errorf("TagID() should trim surrounding whitespace")
	}
	if TagID("golang") == TagID("rust") {
		t.Errorf("TagID() produced same ID for different tags")
	}
}

func TestParseContentKind(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		want    ContentKind
		wantErr bool
	}{
		{name: "note", input: "note", want: ContentKindNote},
		{name: "link", input: "link", want: ContentKindLink},
		{name: "video", input: "video", want: ContentKindVideo},
		{name: "image", input: "image", want: ContentKindImage},
		{name: "document", input: "document", want: ContentKindDocument},
		{name: "mixed case", input: "Note", want: ContentKindNote},
		{name: "surrounding whitespace", input: " link ", want: ContentKindLink},
		{name: "unknown", input: "spreadsheet", wantErr: true},
		{name: "empty", input: "", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ParseContentKind(tt.input)
			if tt.wantErr {
				if err == nil {
					t.Errorf("ParseContentKind(%q) expected error, got %v", tt.input, got)
				}
				return
			}
			if err != nil {
				t.Fatalf("ParseContentKind(%q) unexpected error: %v", tt.input, err)
			}
			if got != tt.want {
				t.Errorf("ParseContentKind(%q) = %v, want %v", tt.input, got, tt.want)
			}
		})
	}
}

func TestContentKind_String_RoundTrip(t *testing.T) {
	kinds := []ContentKind{
		ContentKindNote, ContentKindLink, ContentKindVideo,
		ContentKindImage, ContentKindDocument,
	}
	for _, kind := range kinds {
		parsed, err := ParseContentKind(kind.String())
		if err != nil {
			t.Fatalf("ParseContentKind(%q) unexpected error: %v", kind.String(), err)
		}
		if parsed != kind {
			t.Errorf("round trip of %v produced %v", kind, parsed)
		}
	}
}

func TestRole_String(t *testing.T) {
	if RoleUser.String() != "user" {
		t.Errorf("RoleUser.String() = %q", RoleUser.String())
	}
	if RoleAssistant.String() != "assistant" {
		t.Errorf("RoleAssistant.String() = %q", RoleAssistant.String())
	}
}
