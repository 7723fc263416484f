// Package ai defines the AI service contracts used by the vault: content
// enrichment, text embedding, and answer generation. Concrete providers live
// in subpackages (openai for real services, mock for tests); this package
// holds only the interfaces, configuration, the ordered credential pool, and
// the classified error types shared by all of them.
package ai
