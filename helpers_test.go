package tiktoken

import "testing"

// newTestEncoder builds a tiny Encoder over the gpt2 pretokenizer pattern
// with a hand-picked merge table, small enough to reason about by hand but
// exercising the same code paths a shipped vocabulary does: byte-level
// fallback, a handful of real merges, and one special token.
func newTestEncoder(t *testing.T) *Encoder {
	t.Helper()
	merges := make(MergeTable, 256+8)
	for b := 0; b < 256; b++ {
		merges[string([]byte{byte(b)})] = Rank(b)
	}
	extra := map[string]Rank{
		"he":    256,
		"ll":    257,
		"hell":  258,
		"hello": 259,
		" wor":  260,
		"ld":    261,
		" world": 262,
	}
	for k, v := range extra {
		merges[k] = v
	}

	def := &EncodingDef{
		Name:    "test_encoding",
		Pattern: gpt2Pattern,
		Specials: map[string]Rank{
			EndOfText: 9000,
			"<|sep|>": 9001,
		},
	}
	enc, err := NewEncoder(def, merges)
	if err != nil {
		t.Fatalf("newTestEncoder: %v", err)
	}
	return enc
}
