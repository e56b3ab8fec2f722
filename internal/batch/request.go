package batch

import (
	"bufio"
	"bytes"
	"encoding/json"
	"fmt"
)

// ResponsesEndpoint is the generation endpoint every request line targets.
const ResponsesEndpoint = "/v1/responses"

// Request is one line of a batch input file: a uniquely identified
// generation request. CustomID must be unique across the whole planned set,
// not just within one shard.
type Request struct {
	CustomID string          `json:"custom_id"`
	Method   string          `json:"method"`
	URL      string          `json:"url"`
	Body     json.RawMessage `json:"body"`
}

// message is one chat-style input entry of a request body.
type message struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type textFormat struct {
	Format map[string]string `json:"format"`
}

type requestBody struct {
	Model           string    `json:"model"`
	Input           []message `json:"input"`
	Text            textFormat `json:"text"`
	MaxOutputTokens int       `json:"max_output_tokens"`
}

// NewRequest builds a JSON-object-mode generation request with a system and
// a user message.
func NewRequest(customID, model, system, user string, maxTokens int) (Request, error) {
	body, err := json.Marshal(requestBody{
		Model: model,
		Input: []message{
			{Role: "system", Content: system},
			{Role: "user", Content: user},
		},
		Text:            textFormat{Format: map[string]string{"type": "json_object"}},
		MaxOutputTokens: maxTokens,
	})
	if err != nil {
		return Request{}, fmt.Errorf("failed to encode request body: %w", err)
	}
	return Request{
		CustomID: customID,
		Method:   "POST",
		URL:      ResponsesEndpoint,
		Body:     body,
	}, nil
}

// EncodeJSONL serializes requests as line-delimited JSON.
func EncodeJSONL(reqs []Request) ([]byte, error) {
	var buf bytes.Buffer
	for i, r := range reqs {
		line, err := json.Marshal(r)
		if err != nil {
			return nil, fmt.Errorf("failed to encode request #%d (%s): %w", i+1, r.CustomID, err)
		}
		buf.Write(line)
		buf.WriteByte('\n')
	}
	return buf.Bytes(), nil
}

// Record is one raw output line of a completed job, correlated to its
// request by custom id. The line is kept verbatim for the normalizer;
// output order within a shard is service-defined, so callers must match by
// CustomID, never by position.
type Record struct {
	CustomID string
	Line     []byte
}

// SplitRecords breaks a downloaded JSONL artifact into records, extracting
// each line's custom id. Blank lines are skipped; a line that is not a JSON
// object still becomes a record (with an empty custom id) so the normalizer
// can log it.
func SplitRecords(data []byte) []Record {
	var out []Record
	sc := bufio.NewScanner(bytes.NewReader(data))
	sc.Buffer(make([]byte, 0, 64*1024), 16*1024*1024)
	for sc.Scan() {
		line := bytes.TrimSpace(sc.Bytes())
		if len(line) == 0 {
			continue
		}
		var envelope struct {
			CustomID string `json:"custom_id"`
		}
		_ = json.Unmarshal(line, &envelope)
		out = append(out, Record{CustomID: envelope.CustomID, Line: append([]byte(nil), line...)})
	}
	return out
}
