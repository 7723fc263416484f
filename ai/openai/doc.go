// Package openai implements the ai interfaces on top of OpenAI-compatible
// HTTP APIs (OpenAI, Ollama, LocalAI, vLLM, and similar). All calls route
// through a Dispatcher that walks the configured credential list in order,
// moving to the next key only after the current one fails, and classifies
// provider failures into structured codes at this boundary.
package openai
