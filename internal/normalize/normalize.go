// Package normalize turns heterogeneous batch response envelopes into plain
// JSON payloads. Providers and SDK versions disagree about where generated
// JSON lives, so extraction walks a fixed ladder of envelope shapes and stops
// at the first one that yields a value.
package normalize

import (
	"encoding/json"
	"log/slog"
	"strings"

	"github.com/tidwall/gjson"

	"github.com/quizforge/quizforge/internal/batch"
	"github.com/quizforge/quizforge/internal/platform/logger"
)

// Payload is one extracted JSON value keyed by the request that produced it.
type Payload struct {
	CustomID string
	Value    any
}

// Stats summarizes an extraction pass.
type Stats struct {
	Parsed int
	Errors int
	Empty  int
}

// Extract parses every record and returns payloads in record order. Records
// whose envelope carries an API error or no recognizable JSON are counted and
// logged but do not abort the pass.
func Extract(log *slog.Logger, records []batch.Record) ([]Payload, Stats) {
	var (
		out      []Payload
		stats    Stats
		errIDs   []string
		emptyIDs []string
	)

	for _, rec := range records {
		body := gjson.GetBytes(rec.Line, "response.body")
		vals := FromBody(body)
		if len(vals) > 0 {
			for _, v := range vals {
				out = append(out, Payload{CustomID: rec.CustomID, Value: v})
			}
			stats.Parsed += len(vals)
			continue
		}

		logUnparsed(log, rec, body)
		if body.Get("error").Exists() {
			stats.Errors++
			errIDs = append(errIDs, rec.CustomID)
		} else {
			stats.Empty++
			emptyIDs = append(emptyIDs, rec.CustomID)
		}
	}

	if stats.Errors > 0 {
		log.Warn("records returned API error bodies",
			slog.Int("count", stats.Errors),
			slog.String("examples", logger.Redact(join(errIDs, 5))),
		)
	}
	if stats.Empty > 0 {
		log.Warn("records had no parseable payload",
			slog.Int("count", stats.Empty),
			slog.String("examples", logger.Redact(join(emptyIDs, 5))),
		)
	}
	return out, stats
}

// logUnparsed records the diagnostic shape of a record nothing could be
// extracted from: the HTTP status, the body's top-level keys, the content
// block kinds that were present, and any embedded API error.
func logUnparsed(log *slog.Logger, rec batch.Record, body gjson.Result) {
	attrs := []any{
		slog.String("custom_id", rec.CustomID),
		slog.Int64("status", gjson.GetBytes(rec.Line, "response.status_code").Int()),
		slog.String("body_keys", strings.Join(topLevelKeys(body), ",")),
	}
	if kinds := contentKinds(body.Get("output")); len(kinds) > 0 {
		attrs = append(attrs, slog.String("content_kinds", strings.Join(kinds, ",")))
	}
	if apiErr := body.Get("error"); apiErr.Exists() {
		attrs = append(attrs,
			slog.String("error_code", apiErr.Get("code").String()),
			slog.String("error_message", logger.Redact(apiErr.Get("message").String())),
		)
	}
	log.Warn("no payload extracted from record", attrs...)
}

func topLevelKeys(body gjson.Result) []string {
	var keys []string
	if body.IsObject() {
		body.ForEach(func(k, _ gjson.Result) bool {
			keys = append(keys, k.String())
			return true
		})
	}
	return keys
}

// contentKinds lists the distinct content block types seen across output
// items, in first-seen order.
func contentKinds(output gjson.Result) []string {
	var kinds []string
	seen := make(map[string]bool)
	output.ForEach(func(_, item gjson.Result) bool {
		item.Get("content").ForEach(func(_, c gjson.Result) bool {
			kind := c.Get("type").String()
			if kind == "" {
				switch {
				case c.Get("json").Exists():
					kind = "json"
				case c.Get("text").Exists():
					kind = "text"
				default:
					kind = "unknown"
				}
			}
			if !seen[kind] {
				seen[kind] = true
				kinds = append(kinds, kind)
			}
			return true
		})
		return true
	})
	return kinds
}

// FromBody extracts JSON values from a single response body using ordered
// strategies: structured json blocks, the synthesized output_text field, raw
// text blocks, a nested response envelope, then chat-completions compat.
func FromBody(body gjson.Result) []any {
	if !body.Exists() {
		return nil
	}

	if vals := structuredBlocks(body.Get("output")); len(vals) > 0 {
		return vals
	}

	if v, ok := parseTextField(body.Get("output_text")); ok {
		return []any{v}
	}

	if vals := textBlocks(body.Get("output")); len(vals) > 0 {
		return vals
	}

	if nested := body.Get("response"); nested.Exists() {
		if vals := FromBody(nested); len(vals) > 0 {
			return vals
		}
	}

	if v, ok := parseTextField(body.Get("choices.0.message.content")); ok {
		return []any{v}
	}
	return nil
}

// structuredBlocks collects explicit JSON payloads from output[*].content[*].
func structuredBlocks(output gjson.Result) []any {
	var vals []any
	output.ForEach(func(_, item gjson.Result) bool {
		item.Get("content").ForEach(func(_, c gjson.Result) bool {
			if j := c.Get("json"); j.IsObject() || j.IsArray() {
				if v, ok := decode(j); ok {
					vals = append(vals, v)
				}
				return true
			}
			if c.Get("type").String() == "json" {
				if d := c.Get("data"); d.IsObject() || d.IsArray() {
					if v, ok := decode(d); ok {
						vals = append(vals, v)
					}
				}
			}
			return true
		})
		return true
	})
	return vals
}

// textBlocks parses each output[*].content[*].text block independently so a
// response carrying several JSON objects never gets concatenated into one
// unparseable string.
func textBlocks(output gjson.Result) []any {
	var vals []any
	output.ForEach(func(_, item gjson.Result) bool {
		item.Get("content").ForEach(func(_, c gjson.Result) bool {
			if v, ok := parseTextField(c.Get("text")); ok {
				vals = append(vals, v)
			}
			return true
		})
		return true
	})
	return vals
}

func parseTextField(r gjson.Result) (any, bool) {
	if r.Type != gjson.String {
		return nil, false
	}
	return ParseJSONText(r.String())
}

func decode(r gjson.Result) (any, bool) {
	var v any
	if err := json.Unmarshal([]byte(r.Raw), &v); err != nil {
		return nil, false
	}
	return v, true
}

func join(ids []string, max int) string {
	s := ""
	for i, id := range ids {
		if i >= max {
			s += " ..."
			break
		}
		if i > 0 {
			s += ", "
		}
		s += id
	}
	return s
}
