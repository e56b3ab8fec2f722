package segment

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSegmentEmptyInput(t *testing.T) {
	t.Parallel()

	assert.Nil(t, Segment("", 7000, 600))
	assert.Nil(t, Segment("\n\n...\n......\n", 7000, 600))
}

func TestSegmentStrongSeparators(t *testing.T) {
	t.Parallel()

	text := "alpha line one\nalpha line two\n......\nbeta line\n======\ngamma line"
	chunks := Segment(text, 20, 0)

	require.Len(t, chunks, 3)
	assert.Equal(t, "alpha line one\nalpha line two", chunks[0])
	assert.Equal(t, "beta line", chunks[1])
	assert.Equal(t, "gamma line", chunks[2])
}

func TestSegmentMinorSeparatorsAreConsumed(t *testing.T) {
	t.Parallel()

	text := "first block\n...\nsecond block"
	chunks := Segment(text, 7000, 0)

	require.Len(t, chunks, 1)
	assert.Equal(t, "first block\n\nsecond block", chunks[0])
	assert.NotContains(t, chunks[0], "...")
}

func TestSegmentHeadingStartsBlock(t *testing.T) {
	t.Parallel()

	text := "intro text\n# Getting Started\nbody of the section"
	chunks := Segment(text, 12, 0)

	require.Len(t, chunks, 2)
	assert.Equal(t, "intro text", chunks[0])
	// The heading is retained as the first line of the following block,
	// never isolated into its own micro-block.
	assert.Equal(t, "# Getting Started\nbody of the section", chunks[1])
}

func TestSegmentOversizedBlockKept(t *testing.T) {
	t.Parallel()

	big := strings.Repeat("x", 500)
	chunks := Segment(big, 100, 0)

	require.Len(t, chunks, 1)
	assert.Equal(t, big, chunks[0])
}

func TestSegmentSoftMinDefersLastBlock(t *testing.T) {
	t.Parallel()

	// Three blocks of 30 chars each; max 70 fits two, and the next block
	// would overflow. With softMin 100 the current chunk is undersized, so
	// its last block is deferred to keep chunks near the minimum.
	b := strings.Repeat("a", 30)
	text := b + "\n...\n" + b + "\n...\n" + b
	chunks := Segment(text, 70, 100)

	require.Len(t, chunks, 2)
	assert.Equal(t, b, chunks[0])
	assert.Equal(t, b+"\n\n"+b, chunks[1])
}

func TestSegmentSizeBound(t *testing.T) {
	t.Parallel()

	var parts []string
	for i := 0; i < 40; i++ {
		parts = append(parts, strings.Repeat("w", 90))
	}
	text := strings.Join(parts, "\n...\n")
	chunks := Segment(text, 400, 0)

	require.Greater(t, len(chunks), 1)
	for i, ch := range chunks[:len(chunks)-1] {
		assert.LessOrEqual(t, len(ch), 400, "non-final chunk %d exceeds max", i)
	}
}

// All non-separator content must survive segmentation, in order, exactly
// once.
func TestSegmentCoverage(t *testing.T) {
	t.Parallel()

	text := "one\ntwo\n...\nthree\n......\n# Unit 2\nfour\nfive\n----\nsix"
	chunks := Segment(text, 25, 0)

	var got []string
	for _, ch := range chunks {
		for _, line := range strings.Split(ch, "\n") {
			if strings.TrimSpace(line) != "" {
				got = append(got, line)
			}
		}
	}
	assert.Equal(t, []string{"one", "two", "three", "# Unit 2", "four", "five", "six"}, got)
}

func TestSegmentDeterministic(t *testing.T) {
	t.Parallel()

	text := "a\n...\nbb\n......\nccc\n1. heading\nbody"
	first := Segment(text, 10, 4)
	second := Segment(text, 10, 4)
	assert.Equal(t, first, second)
}

func TestClassifySeparator(t *testing.T) {
	t.Parallel()

	tests := []struct {
		line string
		want sepKind
	}{
		{"...", sepMinor},
		{".....", sepMinor},
		{"......", sepStrong},
		{"..........", sepStrong},
		{"----", sepStrong},
		{"====", sepStrong},
		{"___________", sepStrong},
		{"--", sepNone},
		{"..", sepNone},
		{"...text", sepNone},
		{"normal line", sepNone},
		{"  ......  ", sepStrong},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, classifySeparator(tt.line), "line %q", tt.line)
	}
}

func TestPreview(t *testing.T) {
	t.Parallel()

	chunks := []string{"l1\nl2\nl3", "only"}
	got := Preview(chunks, 2)

	require.Len(t, got, 2)
	assert.Equal(t, 0, got[0].Index)
	assert.Equal(t, "l1\nl2", got[0].Text)
	assert.Equal(t, 1, got[1].Index)
	assert.Equal(t, "only", got[1].Text)
}
