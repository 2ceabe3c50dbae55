package tiktoken

import (
	"bytes"
	"sort"
	"unicode"
	"unicode/utf8"
)

func isAllSpaceByte(b byte) bool {
	switch b {
	case ' ', '\t', '\n', '\r', '\v', '\f':
		return true
	}
	return false
}

func tokenIsAllSpace(b []byte) bool {
	for _, c := range b {
		if !isAllSpaceByte(c) {
			return false
		}
	}
	return len(b) > 0
}

// increaseLastPieceTokenLen extends lastPieceTokenLen (spec.md 4.7) to
// cover a maximal run of trailing tokens whose decoded bytes are pure
// whitespace, starting from the last token in tokens, but only when that
// last token is itself whitespace-only. A caller who later sees one more
// byte of input could legitimately re-merge any token in that run
// differently, so the run is the "unstable" suffix of the encoding.
func increaseLastPieceTokenLen(tokens Tokens, lastPieceTokenLen int, decode func(Rank) []byte) int {
	if lastPieceTokenLen == 0 || len(tokens) == 0 {
		return lastPieceTokenLen
	}
	if !tokenIsAllSpace(decode(tokens[len(tokens)-1])) {
		return lastPieceTokenLen
	}
	for lastPieceTokenLen < len(tokens) {
		idx := len(tokens) - lastPieceTokenLen - 1
		if idx < 0 || !tokenIsAllSpace(decode(tokens[idx])) {
			break
		}
		lastPieceTokenLen++
	}
	return lastPieceTokenLen
}

// completionSet deduplicates candidate token sequences by value, the way
// a caller comparing Python tuples for set membership would, since Tokens
// is a slice and so not itself comparable.
type completionSet struct {
	seen map[string]bool
	out  []Tokens
}

func newCompletionSet() *completionSet {
	return &completionSet{seen: make(map[string]bool)}
}

func (c *completionSet) add(toks Tokens) {
	if len(toks) == 0 {
		return
	}
	key := string(toks.ToBin())
	if !c.seen[key] {
		c.seen[key] = true
		c.out = append(c.out, toks)
	}
}

// truncateByDecodedLen keeps tokens, in order, up to and including the
// first one whose cumulative decoded byte length reaches targetLen: the
// "keep prefix tokens up to the first token that makes the accumulated
// byte length >= |unstable|" step of spec.md 4.7.
func truncateByDecodedLen(tokens Tokens, decode func(Rank) []byte, targetLen int) Tokens {
	out := make(Tokens, 0, len(tokens))
	acc := 0
	for _, t := range tokens {
		out = append(out, t)
		acc += len(decode(t))
		if acc >= targetLen {
			break
		}
	}
	return out
}

// EncodeWithUnstable implements the unstable-boundary helper (spec.md 4.7):
// the input is encoded in full, then its final piece's tokens, if they
// could plausibly change shape were more text appended, are reported
// separately as a set of plausible continuations rather than folded into
// the returned token sequence.
func (e *Encoder) EncodeWithUnstable(text string, allowed AllowedSpecial) (stable Tokens, completions []Tokens, err error) {
	tokens, lastPieceTokenLen, err := e.encodeNative(text, allowed, AllDisallowed())
	if err != nil {
		return nil, nil, err
	}
	if lastPieceTokenLen == 0 {
		return tokens, nil, nil
	}

	decode := func(r Rank) []byte {
		b, _ := e.DecodeSingleTokenBytes(r)
		return b
	}
	lastPieceTokenLen = increaseLastPieceTokenLen(tokens, lastPieceTokenLen, decode)

	stableCount := len(tokens) - lastPieceTokenLen
	unstableTokens := tokens[stableCount:]
	unstableBytes, decErr := e.DecodeBytes(unstableTokens)
	if decErr != nil {
		return nil, nil, decErr
	}

	set := newCompletionSet()
	e.addPrefixCompletions(set, unstableBytes)
	e.addSplitCompletions(set, unstableBytes, decode)
	e.addWhitespaceSplitCompletion(set, unstableBytes)

	return tokens[:stableCount], set.out, nil
}

// addPrefixCompletions adds, for every merge-table key that has
// unstableBytes as a prefix, the single-token completion that key
// represents (spec.md 4.7 step 5, first bullet). sortedKeys is
// binary-searched since it is kept in lexicographic order for exactly this
// purpose (spec.md 3).
func (e *Encoder) addPrefixCompletions(set *completionSet, unstableBytes []byte) {
	if len(unstableBytes) == 0 {
		return
	}
	start := sort.Search(len(e.sortedKeys), func(i int) bool {
		return e.sortedKeys[i] >= string(unstableBytes)
	})
	for i := start; i < len(e.sortedKeys); i++ {
		if !bytes.HasPrefix([]byte(e.sortedKeys[i]), unstableBytes) {
			break
		}
		set.add(Tokens{e.merges[e.sortedKeys[i]]})
	}
}

// addSplitCompletions implements spec.md 4.7 step 5's second bullet: for
// every way of splitting unstableBytes at i, find every key that continues
// the suffix unstableBytes[i:], and re-encode the combined
// unstableBytes[:i] ‖ key, keeping only as much of the result as covers
// unstableBytes's own length.
func (e *Encoder) addSplitCompletions(set *completionSet, unstableBytes []byte, decode func(Rank) []byte) {
	for i := 1; i < len(unstableBytes); i++ {
		suffix := string(unstableBytes[i:])
		start := sort.Search(len(e.sortedKeys), func(j int) bool {
			return e.sortedKeys[j] >= suffix
		})
		for j := start; j < len(e.sortedKeys); j++ {
			key := e.sortedKeys[j]
			if !bytes.HasPrefix([]byte(key), []byte(suffix)) {
				break
			}
			combined := make([]byte, 0, i+len(key))
			combined = append(combined, unstableBytes[:i]...)
			combined = append(combined, key...)

			reencoded, err := e.EncodeOrdinary(string(combined))
			if err != nil {
				continue
			}
			set.add(truncateByDecodedLen(reencoded, decode, len(unstableBytes)))
		}
	}
}

// addWhitespaceSplitCompletion implements spec.md 4.7 step 5's third
// bullet: when unstableBytes ends in whitespace and is more than one byte
// long, BPE-encode the portion before the trailing whitespace and the
// trailing whitespace separately (rather than as one merge call) and offer
// their concatenation as its own candidate.
func (e *Encoder) addWhitespaceSplitCompletion(set *completionSet, unstableBytes []byte) {
	if len(unstableBytes) <= 1 {
		return
	}
	lastRune, size := utf8.DecodeLastRune(unstableBytes)
	if lastRune == utf8.RuneError || !unicode.IsSpace(lastRune) {
		return
	}
	head := unstableBytes[:len(unstableBytes)-size]
	tail := unstableBytes[len(unstableBytes)-size:]
	if len(head) == 0 {
		return
	}
	seq := append(Tokens{}, encodePiece(e.merges, head)...)
	seq = append(seq, encodePiece(e.merges, tail)...)
	set.add(seq)
}
