package openai

import "fmt"

const enrichmentResponseSchema = `{
  "$schema": "http://json-schema.org/draft-07/schema#",
  "type": "object",
  "properties": {
    "title": {
      "type": "string",
      "minLength": 1,
      "maxLength": 120
    },
    "summary": {
      "type": "string",
      "minLength": 1
    },
    "tags": {
      "type": "array",
      "items": {
        "type": "string",
        "pattern": "^[a-z0-9]+(-[a-z0-9]+)*$"
      },
      "minItems": 1,
      "maxItems": 10
    }
  },
  "required": ["title", "summary", "tags"],
  "additionalProperties": false
}`

const enrichmentPromptTemplate = `You catalog content saved into a personal knowledge vault. Given the extracted
content below, produce a title, a summary, and tags as JSON.

Output ONLY valid JSON which complies with the schema given below. Do not include any preamble, explanation,
greeting, or acknowledgment. Start your response directly with the opening brace { and end with the closing
brace }. Your output must exactly follow this schema:

%s

Rules:
- The title is short and descriptive. If the content already has a good title, reuse it.
- The summary is one dense paragraph written for retrieval: include the specific names, terms, numbers and
  claims from the content, not generic phrasing. Someone searching for any detail mentioned in the content
  should land on this summary.
- Tags are lowercase, hyphenated when multi-word, between 3 and 10 of them, covering topic, domain and
  content type.
- Describe only what is actually in the content. Do not hallucinate.
- If an image is attached, describe what it shows and fold that into the summary.
- The JSON must parse without errors; no trailing commas, no extra keys, and no extraneous text outside the object.

Content follows.

`

// buildEnrichmentPrompt assembles the instruction block that precedes the
// extracted content parts.
func buildEnrichmentPrompt() string {
	return fmt.Sprintf(enrichmentPromptTemplate, enrichmentResponseSchema)
}
