// Package topicmap plans and audits the span map that assigns every chunk of
// the source document to exactly one topic.
package topicmap

import (
	"encoding/json"
	"errors"
	"fmt"
	"sort"
	"strings"
)

var (
	// ErrNoUnits indicates a payload without a usable units list.
	ErrNoUnits = errors.New("topic map has no units")
	// ErrInvalidSpan indicates a chunk_span outside [0, N-1] or reversed.
	ErrInvalidSpan = errors.New("topic map span out of range")
)

// Topic is one contiguous span of chunks with a title and short summary.
type Topic struct {
	TopicID   string `json:"topic_id"`
	Title     string `json:"title"`
	Summary   string `json:"summary"`
	ChunkSpan [2]int `json:"chunk_span"`
}

// Unit groups consecutive topics.
type Unit struct {
	UnitID string  `json:"unit_id"`
	Title  string  `json:"title"`
	Topics []Topic `json:"topics"`
}

// TopicMap is the full document decomposition.
type TopicMap struct {
	SchemaVersion string `json:"schema_version,omitempty"`
	Units         []Unit `json:"units"`
}

// TopicCount returns the number of topics across all units.
func (m *TopicMap) TopicCount() int {
	n := 0
	for _, u := range m.Units {
		n += len(u.Topics)
	}
	return n
}

// Parse converts an extracted payload into a TopicMap.
func Parse(payload any) (*TopicMap, error) {
	raw, err := json.Marshal(payload)
	if err != nil {
		return nil, fmt.Errorf("re-encode topic map payload: %w", err)
	}
	var m TopicMap
	if err := json.Unmarshal(raw, &m); err != nil {
		return nil, fmt.Errorf("decode topic map: %w", err)
	}
	if len(m.Units) == 0 {
		return nil, ErrNoUnits
	}
	return &m, nil
}

// CoverageError reports which chunk indices violate the exact-cover
// requirement.
type CoverageError struct {
	Missing  []int
	Overlaps []int
}

func (e *CoverageError) Error() string {
	return fmt.Sprintf("topic map coverage violation: missing=%v overlaps=%v", e.Missing, e.Overlaps)
}

// Audit verifies that the union of all topic spans covers every index in
// 0..total-1 exactly once. Fatal by design: downstream question planning
// assumes each chunk belongs to one topic.
func Audit(m *TopicMap, total int) error {
	counts := make(map[int]int)
	for _, u := range m.Units {
		for _, t := range u.Topics {
			start, end := t.ChunkSpan[0], t.ChunkSpan[1]
			if start < 0 || end >= total || start > end {
				return fmt.Errorf("%w: topic %q span [%d,%d] with %d chunks",
					ErrInvalidSpan, t.TopicID, start, end, total)
			}
			for i := start; i <= end; i++ {
				counts[i]++
			}
		}
	}

	var cov CoverageError
	for i := 0; i < total; i++ {
		switch counts[i] {
		case 0:
			cov.Missing = append(cov.Missing, i)
		case 1:
		default:
			cov.Overlaps = append(cov.Overlaps, i)
		}
	}
	sort.Ints(cov.Overlaps)
	if len(cov.Missing) > 0 || len(cov.Overlaps) > 0 {
		return &cov
	}
	return nil
}

func indexList(total int) string {
	parts := make([]string, total)
	for i := range parts {
		parts[i] = fmt.Sprintf("%d", i)
	}
	return strings.Join(parts, ", ")
}
