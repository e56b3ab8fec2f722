package batch

import (
	"encoding/json"
	"errors"
	"fmt"
)

// ErrDuplicateCustomID marks a planning bug: two requests in one planned
// set share a custom id. It is always caught before submission.
var ErrDuplicateCustomID = errors.New("duplicate custom_id in planned requests")

// ErrMissingCustomID marks a request with no custom id at all.
var ErrMissingCustomID = errors.New("request missing custom_id")

// AssertUniqueCustomIDs verifies every request carries a custom id and no
// two requests share one. The check spans the entire planned set so ids
// stay unique across shard boundaries.
func AssertUniqueCustomIDs(reqs []Request) error {
	seen := make(map[string]int, len(reqs))
	for i, r := range reqs {
		if r.CustomID == "" {
			return fmt.Errorf("%w: request #%d", ErrMissingCustomID, i+1)
		}
		if prev, dup := seen[r.CustomID]; dup {
			return fmt.Errorf("%w: %q appears at requests #%d and #%d",
				ErrDuplicateCustomID, r.CustomID, prev, i+1)
		}
		seen[r.CustomID] = i + 1
	}
	return nil
}

// Shard packs requests into groups bounded by count and serialized-byte
// budget. Either bound may be zero to disable it; with both disabled the
// whole set is a single shard. A shard closes as soon as either bound would
// be exceeded by the next request, so request order is preserved across
// shards.
func Shard(reqs []Request, maxPer, maxBytes int) [][]Request {
	if len(reqs) == 0 {
		return nil
	}
	if maxPer <= 0 && maxBytes <= 0 {
		return [][]Request{reqs}
	}

	var shards [][]Request
	var cur []Request
	curBytes := 0

	for _, r := range reqs {
		line, err := json.Marshal(r)
		if err != nil {
			// Marshal of a Request cannot fail (raw body already JSON),
			// but fall back to a conservative estimate if it ever does.
			line = r.Body
		}
		size := len(line) + 1

		if len(cur) > 0 &&
			((maxPer > 0 && len(cur) >= maxPer) ||
				(maxBytes > 0 && curBytes+size > maxBytes)) {
			shards = append(shards, cur)
			cur, curBytes = nil, 0
		}
		cur = append(cur, r)
		curBytes += size
	}
	if len(cur) > 0 {
		shards = append(shards, cur)
	}
	return shards
}
