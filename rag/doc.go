// Package rag answers natural-language questions from a single owner's
// saved content. Grounding context comes from strict-threshold similarity
// search; the generation prompt forbids outside knowledge, so a question
// with no qualifying context gets a fixed fallback answer without any model
// call. The package also drives multi-turn chat over the same grounding
// mechanism.
package rag
