// Package segment splits raw source text into ordered, size-bounded chunks
// along semantic boundaries. Segmentation is a pure function of the text and
// the two size knobs; the same input always yields the same chunks.
package segment

import (
	"regexp"
	"strings"
)

// Separator conventions: a long row of a single repeated punctuation
// character ends a section (strong split); a short dotted row marks a minor
// break inside a section (soft split). Both separator rows are structural
// markers only and are consumed, never emitted.

const (
	strongDotLen  = 6 // "......" and longer end a section
	underlineLen  = 4 // "----", "====" and similar rows end a section
	minorDotLen   = 3 // "..." up to strongDotLen-1 is a minor break
	separatorRune = ".-=_*~#"
)

var headingRes = []*regexp.Regexp{
	regexp.MustCompile(`^#{1,6}\s+\S`),
	regexp.MustCompile(`(?i)^(unit|chapter|lesson|section|module|part)\s+\d+\b`),
	regexp.MustCompile(`^\d+(\.\d+)*[.)]\s+\S`),
}

// Segment splits text into chunks of at most maxChars characters, packing
// whole semantic blocks greedily. A chunk shorter than softMin that holds
// more than one block defers its last block to the next chunk instead of
// being flushed undersized. An empty input yields no chunks; a single block
// larger than maxChars becomes its own oversized chunk.
func Segment(text string, maxChars, softMin int) []string {
	blocks := splitBlocks(text)
	if len(blocks) == 0 {
		return nil
	}
	return pack(blocks, maxChars, softMin)
}

// splitBlocks runs the strong and soft phases: sections are cut on strong
// separator rows, then each section is cut on minor separators and heading
// lines. A heading always starts a new block and stays attached to the text
// that follows it.
func splitBlocks(text string) []string {
	var blocks []string
	var cur []string

	flush := func() {
		b := strings.TrimRight(strings.Join(cur, "\n"), "\n")
		b = strings.Trim(b, "\n")
		if strings.TrimSpace(b) != "" {
			blocks = append(blocks, b)
		}
		cur = cur[:0]
	}

	for _, line := range strings.Split(text, "\n") {
		switch classifySeparator(line) {
		case sepStrong, sepMinor:
			flush()
			continue
		}
		if isHeading(line) && len(cur) > 0 {
			flush()
		}
		cur = append(cur, line)
	}
	flush()
	return blocks
}

type sepKind int

const (
	sepNone sepKind = iota
	sepMinor
	sepStrong
)

func classifySeparator(line string) sepKind {
	s := strings.TrimSpace(line)
	if len(s) < minorDotLen {
		return sepNone
	}
	r := rune(s[0])
	if !strings.ContainsRune(separatorRune, r) {
		return sepNone
	}
	for _, c := range s {
		if c != r {
			return sepNone
		}
	}
	if r == '.' {
		if len(s) >= strongDotLen {
			return sepStrong
		}
		return sepMinor
	}
	if len(s) >= underlineLen {
		return sepStrong
	}
	return sepNone
}

func isHeading(line string) bool {
	s := strings.TrimSpace(line)
	if s == "" || len(s) > 120 {
		return false
	}
	for _, re := range headingRes {
		if re.MatchString(s) {
			return true
		}
	}
	return false
}

// pack concatenates blocks greedily up to maxChars. When adding a block
// would overflow, the current chunk is flushed, except that an undersized
// multi-block chunk gives up its last block to the next chunk first.
func pack(blocks []string, maxChars, softMin int) []string {
	var chunks []string
	var cur []string
	curLen := 0

	join := func(bs []string) string { return strings.Join(bs, "\n\n") }
	joined := func(n int, add int) int {
		// length of cur plus one more block of length add, with separators
		return curLen + add + 2*n
	}

	for _, b := range blocks {
		for len(cur) > 0 && joined(len(cur), len(b)) > maxChars {
			if curLen < softMin && len(cur) > 1 {
				// defer the last block so this chunk is not undersized
				last := cur[len(cur)-1]
				cur = cur[:len(cur)-1]
				chunks = append(chunks, join(cur))
				cur = []string{last}
				curLen = len(last)
			} else {
				chunks = append(chunks, join(cur))
				cur = cur[:0]
				curLen = 0
			}
		}
		cur = append(cur, b)
		curLen += len(b)
	}
	if len(cur) > 0 {
		chunks = append(chunks, join(cur))
	}
	return chunks
}
