package ai

import "strings"

// Part is one element of a multimodal prompt. Implementations are TextPart
// and BinaryPart; providers translate them to their wire format.
type Part interface {
	part()
}

// TextPart is a plain-text prompt fragment.
type TextPart string

func (TextPart) part() {}

// BinaryPart is a binary prompt fragment, typically an image attached to an
// enrichment request.
type BinaryPart struct {
	MIMEType string
	Data     []byte
}

func (BinaryPart) part() {}

// Enrichment is the structured output of content enrichment: a generated
// title, a search-optimized summary, and categorization tags. All three
// fields are required for an enrichment to be usable.
type Enrichment struct {
	Title   string   `json:"title"`
	Summary string   `json:"summary"`
	Tags    []string `json:"tags"`
}

// GenerateRequest describes a single text-generation call.
type GenerateRequest struct {
	// Parts is the ordered multimodal prompt.
	Parts []Part

	// JSONMode requests that the provider constrain output to a single
	// JSON object.
	JSONMode bool
}

// EmbeddingText builds the canonical text that gets embedded for a stored
// item. Search-time query embeddings live in the same vector space only
// because both sides use this exact shape.
func EmbeddingText(title, summary string) string {
	var b strings.Builder
	b.WriteString("Title: ")
	b.WriteString(title)
	b.WriteString("\nSummary: ")
	b.WriteString(summary)
	return b.String()
}
