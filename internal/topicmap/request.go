package topicmap

import (
	"encoding/json"
	"fmt"

	"github.com/quizforge/quizforge/internal/batch"
	"github.com/quizforge/quizforge/internal/segment"
)

// RequestID is the custom id of the single topic-map request.
const RequestID = "topicmap_0001"

// DefaultMaxTokens is the output budget for the topic-map response. The map
// is small relative to its input, but reasoning models spend tokens before
// emitting JSON, so the budget is generous.
const DefaultMaxTokens = 8000

const systemPrompt = `You are an expert instructional designer.
From ordered chunks of a single document, produce a compact topic map that fully covers the material.

OUTPUT CONTRACT (STRICT):
- Return ONLY a single JSON object. No prose, no code fences, no markdown.
- The FIRST character must be '{' and the LAST character must be '}'.

SCHEMA:
{
  "schema_version": "1.0",
  "units": [
    {
      "unit_id": "u1",
      "title": "Unit Title",
      "topics": [
        {"topic_id": "u1_t1_slug", "title": "Topic Title", "summary": "1-2 sentences",
         "chunk_span": [start_idx, end_idx]}
      ]
    }
  ]
}

HARD CONSTRAINTS (must all be satisfied):
- You will be given N (total_chunks) and the valid chunk indices 0..N-1 in the user message.
- The UNION of all topic chunk_span ranges MUST cover EVERY index in 0..N-1 with no gaps and no overlaps.
- chunk_span uses inclusive integer indices and MUST stay within [0, N-1].
- Enforce start_idx <= end_idx for every chunk_span.
- Respect semantic boundaries: headings and separator lines have been preserved in chunking; avoid splitting a topic across unrelated sections.
- Titles must be concise and specific; prefer 6-15 topics for a ~3,000-line text; add more units if needed.
- If a chunk contains only boilerplate (e.g., "Objective", "Note", "Demo"), roll it into the nearest relevant topic so coverage remains continuous.
- If resolving a boundary ambiguity would cause either a gap or an overlap, EXPAND the earlier topic's end by one index to absorb the boundary so coverage remains continuous and non-overlapping.
`

const userPromptFmt = `Create the topic map from these CHUNKS (index + first lines shown).

TOTAL_CHUNKS (N): %d
VALID INDICES: 0..%d
EXPLICIT INDEX LIST: [%s]

Guidance:
- These chunks are aligned to lesson/section boundaries using separator lines (minor breaks) and heavier runs (unit ends).
- Group related chunks into coherent topics; keep each topic's span contiguous.
- Prefer unit titles like "Unit 1 - Preparing the Modeling Environment" and topic titles that name the concrete subject of the span.

CHUNKS PREVIEW:
%s

Return ONLY the JSON object described by the system message (no extra text).`

// BuildRequest builds the single batch request that asks the model for a
// topic map over the chunk previews.
func BuildRequest(previews []segment.ChunkPreview, model string, maxTokens int) (batch.Request, error) {
	previewJSON, err := json.Marshal(previews)
	if err != nil {
		return batch.Request{}, fmt.Errorf("encode chunk previews: %w", err)
	}

	total := len(previews)
	user := fmt.Sprintf(userPromptFmt, total, total-1, indexList(total), previewJSON)
	return batch.NewRequest(RequestID, model, systemPrompt, user, maxTokens)
}
