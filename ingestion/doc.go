// Package ingestion drives a submission through the full capture pipeline:
// extraction, AI enrichment, embedding, validation, and the single
// persistence write. The stages are strictly sequential for one item; any
// stage failure aborts the item with nothing persisted.
package ingestion
