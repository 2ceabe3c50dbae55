package tiktoken

import (
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

// byteTable builds a MergeTable with every single byte mapped to its own
// value's rank, the baseline every piece-level test in this file extends
// with a handful of multi-byte merges.
func byteTable(extra map[string]Rank) MergeTable {
	t := make(MergeTable, 256+len(extra))
	for b := 0; b < 256; b++ {
		t[string([]byte{byte(b)})] = Rank(b)
	}
	for k, v := range extra {
		t[k] = v
	}
	return t
}

func TestEncodePieceWholeKeyHit(t *testing.T) {
	table := byteTable(map[string]Rank{"ab": 300})
	assert.Equal(t, Tokens{300}, encodePiece(table, []byte("ab")))
}

func TestEncodePieceMergesLeftmostLowestRank(t *testing.T) {
	// "abc" with "ab" a lower rank than "bc" must merge "ab" first.
	table := byteTable(map[string]Rank{"ab": 300, "bc": 400})
	got := encodePiece(table, []byte("abc"))
	assert.Equal(t, Tokens{300, Rank('c')}, got)
}

func TestEncodePieceTieBreaksLeftmost(t *testing.T) {
	// "aaaaa" (5 bytes, not itself a key): every adjacent "aa" pair ties at
	// the same rank. The leftmost candidate must win at each step, so the
	// first merge lands on bytes [0:2], not [2:4] or elsewhere.
	table := byteTable(map[string]Rank{"aa": 300})
	got := splitPiece(table, []byte("aaaaa"))
	assert.Equal(t, [][]byte{[]byte("aa"), []byte("aa"), []byte("a")}, got)
}

func TestEncodePieceNoMergesAvailable(t *testing.T) {
	table := byteTable(nil)
	got := encodePiece(table, []byte("xyz"))
	assert.Equal(t, Tokens{Rank('x'), Rank('y'), Rank('z')}, got)
}

func TestSplitPieceWholeKeyHit(t *testing.T) {
	table := byteTable(map[string]Rank{"xyz": 9000})
	assert.Equal(t, [][]byte{[]byte("xyz")}, splitPiece(table, []byte("xyz")))
}

func TestMergeEngineHandlesAdversarialRepetition(t *testing.T) {
	// 10,000 identical bytes with chained merges ("aa", "aaaa", "aaaaaaaa",
	// ...) is the adversarial shape spec.md 4.2 and 9 call out by name:
	// O(1) removal is required for this to stay fast.
	table := byteTable(nil)
	piece := []byte("a")
	rank := Rank(300)
	for len(piece) < 16384 {
		table[string(piece)+string(piece)] = rank
		rank++
		piece = append(piece, piece...)
	}

	input := strings.Repeat("a", 10000)
	start := time.Now()
	toks := encodePiece(table, []byte(input))
	elapsed := time.Since(start)

	assert.Less(t, elapsed, time.Second, "adversarial merge took too long: %v", elapsed)
	assert.NotEmpty(t, toks)

	// Round trip: the merged segments concatenate back to the original run.
	segs := splitPiece(table, []byte(input))
	var rebuilt []byte
	for _, s := range segs {
		rebuilt = append(rebuilt, s...)
	}
	assert.Equal(t, input, string(rebuilt))
}

func TestMergeEngineCachedRankUpdatesOnRemoval(t *testing.T) {
	// Regression for the cached-rank invalidation spec.md 4.2 specifies:
	// removing a node must refresh the rank cached at both the merged
	// node and its new left neighbour, not just the merged node.
	// "abcdx" (not itself a key): ab=10, cd=10 (tie, "ab" wins as leftmost),
	// then "cd" merges, which must refresh the rank cached at "ab" to that of
	// "abcd" (5). A stale cache would leave "ab" and "cd" unmerged.
	table := byteTable(map[string]Rank{
		"ab": 10, "cd": 10, "abcd": 5,
	})
	got := encodePiece(table, []byte("abcdx"))
	assert.Equal(t, Tokens{5, Rank('x')}, got, "left neighbour's cached rank must be refreshed after a merge")
}

func TestRankOfMissingSliceIsNoRank(t *testing.T) {
	table := byteTable(nil)
	got := rankOf(table, []byte("z"), 0, 0)
	assert.Equal(t, noRank, got)
}
