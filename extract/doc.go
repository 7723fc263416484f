// Package extract turns raw user submissions into text ready for AI
// enrichment. Notes pass through verbatim, links are fetched and reduced to
// readable text, YouTube URLs are resolved to metadata plus a best-effort
// transcript, and images become binary prompt payloads. Extraction never
// calls an AI service; its output is the prompt material, not the
// enrichment.
package extract
