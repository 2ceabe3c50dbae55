package tiktoken

import (
	"bytes"
	"fmt"
	"unicode/utf8"

	lru "github.com/hashicorp/golang-lru"

	"github.com/tiktoken-go/tiktoken/internal/bpeerr"
	"github.com/tiktoken-go/tiktoken/pkg/unitrim"
)

// MaxInputScalarValues bounds the number of Unicode scalar values a single
// Encode call will accept, guarding against unbounded memory use on
// adversarial input. Callers that need to process more must chunk it
// themselves. spec.md 4.5 fixes this at 1,000,000 scalar code points.
var MaxInputScalarValues = 1_000_000

// pieceCacheSize is the ARC cache capacity for per-piece merge results,
// generalizing the teacher's encoder.Cache field (gpt_bpe.go) from a fixed
// Token vocabulary to this package's Rank type.
const pieceCacheSize = 8192

// Encoder is a constructed, immutable tokenizer for one encoding. Every
// method is safe for concurrent use: all the state it reads is either
// read-only after construction or, for the piece cache, internally
// synchronized by golang-lru's ARCCache.
type Encoder struct {
	def            *EncodingDef
	merges         MergeTable
	inverse        map[Rank][]byte
	specialInverse map[Rank]string
	sortedKeys     []string
	pre            *pretokenizer
	specialRe      *specialMatcher
	cache          *lru.ARCCache
	maxTokenValue  Rank
	tokenBytes     [][]byte
	scalarStart    []bool
}

// NewEncoder constructs an Encoder from a parsed merge table and an
// encoding definition. It fails if the pattern does not compile, if a
// special token's text overlaps another's (specialtrie.go), or if the
// merge table is empty.
func NewEncoder(def *EncodingDef, merges MergeTable) (*Encoder, error) {
	if len(merges) == 0 {
		return nil, &bpeerr.InvalidData{Message: "merge table is empty"}
	}
	if err := assertNoOverlap(def.Specials); err != nil {
		return nil, err
	}

	pre, err := newPretokenizer(def.Pattern)
	if err != nil {
		return nil, err
	}
	specialRe, err := newSpecialMatcher(def.Specials)
	if err != nil {
		return nil, err
	}

	cache, err := lru.NewARC(pieceCacheSize)
	if err != nil {
		return nil, fmt.Errorf("tiktoken: allocating piece cache: %w", err)
	}

	inverse := merges.Inverse()
	specialInverse := make(map[Rank]string, len(def.Specials))
	var maxTokenValue Rank
	for marker, rank := range def.Specials {
		specialInverse[rank] = marker
		if rank > maxTokenValue {
			maxTokenValue = rank
		}
	}
	for _, rank := range merges {
		if rank > maxTokenValue {
			maxTokenValue = rank
		}
	}

	tokenBytes := make([][]byte, maxTokenValue+1)
	for r, b := range inverse {
		tokenBytes[r] = b
	}
	for marker, r := range def.Specials {
		tokenBytes[r] = []byte(marker)
	}

	return &Encoder{
		def:            def,
		merges:         merges,
		inverse:        inverse,
		specialInverse: specialInverse,
		sortedKeys:     merges.SortedKeys(),
		pre:            pre,
		specialRe:      specialRe,
		cache:          cache,
		maxTokenValue:  maxTokenValue,
		tokenBytes:     tokenBytes,
		scalarStart:    unitrim.Build(tokenBytes),
	}, nil
}

func (e *Encoder) checkInputSize(text string) error {
	if n := utf8.RuneCountInString(text); n > MaxInputScalarValues {
		return &bpeerr.InputTooLarge{Length: n, Max: MaxInputScalarValues}
	}
	return nil
}

func (e *Encoder) encodePieceCached(piece string) Tokens {
	if v, ok := e.cache.Get(piece); ok {
		return v.(Tokens)
	}
	toks := encodePiece(e.merges, []byte(piece))
	e.cache.Add(piece, toks)
	return toks
}

// encodeOrdinaryNative is EncodeOrdinary's implementation, additionally
// reporting last_piece_token_len (spec.md 4.4): the number of tokens the
// final pretokenized piece contributed. This is 0 for empty input, and is
// what the unstable-boundary helper (unstable.go) and EncodeBytes' invalid
// UTF-8 tail handling both key off.
func (e *Encoder) encodeOrdinaryNative(text string) (Tokens, int, error) {
	if err := e.checkInputSize(text); err != nil {
		return nil, 0, err
	}
	pieces, err := e.pre.split(text)
	if err != nil {
		return nil, 0, err
	}
	out := make(Tokens, 0, len(text)/3+1)
	lastPieceTokenLen := 0
	for _, piece := range pieces {
		toks := e.encodePieceCached(piece)
		out = append(out, toks...)
		lastPieceTokenLen = len(toks)
	}
	return out, lastPieceTokenLen, nil
}

// EncodeOrdinary encodes text with no special-token handling whatsoever:
// reserved marker text is tokenized as ordinary bytes (spec.md 4.3).
func (e *Encoder) EncodeOrdinary(text string) (Tokens, error) {
	toks, _, err := e.encodeOrdinaryNative(text)
	return toks, err
}

// AllowedSpecial selects which reserved marker strings Encode is permitted
// to treat as special tokens, per spec.md 4.4.
type AllowedSpecial struct {
	all bool
	set map[string]bool
}

// AllSpecial permits every special token this encoding defines.
func AllSpecial() AllowedSpecial { return AllowedSpecial{all: true} }

// NoSpecial permits none: any reserved marker text found in input is an
// error.
func NoSpecial() AllowedSpecial { return AllowedSpecial{} }

// SpecialSet permits exactly the named markers.
func SpecialSet(names ...string) AllowedSpecial {
	set := make(map[string]bool, len(names))
	for _, n := range names {
		set[n] = true
	}
	return AllowedSpecial{set: set}
}

func (e *Encoder) resolveAllowed(a AllowedSpecial) map[string]bool {
	if a.all {
		out := make(map[string]bool, len(e.def.Specials))
		for marker := range e.def.Specials {
			out[marker] = true
		}
		return out
	}
	return a.set
}

// DisallowedSpecial selects which reserved marker strings Encode must
// reject outright if seen, per spec.md 4.4. The zero value is the empty
// set (nothing disallowed); AllDisallowed is the spec's default policy of
// "every special not explicitly allowed".
type DisallowedSpecial struct {
	all bool
	set map[string]bool
}

// AllDisallowed is the default disallowed policy: every special token not
// named in allowed is rejected.
func AllDisallowed() DisallowedSpecial { return DisallowedSpecial{all: true} }

// NoneDisallowed permits every marker not in allowed to fall through as
// ordinary text instead of failing the call.
func NoneDisallowed() DisallowedSpecial { return DisallowedSpecial{} }

// DisallowedSet rejects exactly the named markers; any other marker not in
// allowed is treated as ordinary text.
func DisallowedSet(names ...string) DisallowedSpecial {
	set := make(map[string]bool, len(names))
	for _, n := range names {
		set[n] = true
	}
	return DisallowedSpecial{set: set}
}

func (e *Encoder) resolveDisallowed(d DisallowedSpecial, allowedSet map[string]bool) func(string) bool {
	if d.all {
		return func(marker string) bool { return !allowedSet[marker] }
	}
	set := d.set
	return func(marker string) bool { return set[marker] }
}

// encodeNative is Encode's implementation, additionally reporting
// last_piece_token_len: 0 if the final emission was a special token,
// otherwise the token count of the final ordinary segment's final piece
// (spec.md 4.4).
func (e *Encoder) encodeNative(text string, allowed AllowedSpecial, disallowed DisallowedSpecial) (Tokens, int, error) {
	if err := e.checkInputSize(text); err != nil {
		return nil, 0, err
	}
	allowedSet := e.resolveAllowed(allowed)
	isAllowed := func(marker string) bool { return allowedSet[marker] }
	isDisallowed := e.resolveDisallowed(disallowed, allowedSet)
	segments, err := segmentBySpecials(text, e.specialRe, isAllowed, isDisallowed)
	if err != nil {
		return nil, 0, err
	}

	var out Tokens
	lastPieceTokenLen := 0
	for _, seg := range segments {
		if seg.special != "" {
			out = append(out, e.def.Specials[seg.special])
			lastPieceTokenLen = 0
			continue
		}
		toks, segLastLen, err := e.encodeOrdinaryNative(seg.text)
		if err != nil {
			return nil, 0, err
		}
		out = append(out, toks...)
		lastPieceTokenLen = segLastLen
	}
	return out, lastPieceTokenLen, nil
}

// Encode encodes text, splitting out any reserved marker in allowed as a
// special token and reporting a DisallowedSpecialToken error for any other
// reserved marker found in text (spec.md 4.4's default disallowed policy:
// every special not in allowed). Use EncodeWithDisallowed to override which
// unlisted markers are actually rejected.
func (e *Encoder) Encode(text string, allowed AllowedSpecial) (Tokens, error) {
	toks, _, err := e.encodeNative(text, allowed, AllDisallowed())
	return toks, err
}

// EncodeWithDisallowed is Encode with an explicit disallowed policy
// (spec.md 4.5's encode(text, allowed, disallowed)): a marker that is
// neither allowed nor disallowed is left as ordinary text instead of
// raising an error.
func (e *Encoder) EncodeWithDisallowed(text string, allowed AllowedSpecial, disallowed DisallowedSpecial) (Tokens, error) {
	toks, _, err := e.encodeNative(text, allowed, disallowed)
	return toks, err
}

// EncodeWithAllSpecials is Encode with every special token allowed.
func (e *Encoder) EncodeWithAllSpecials(text string) (Tokens, error) {
	return e.Encode(text, AllSpecial())
}

// EncodeBytes implements spec.md 4.5's encode_bytes: if raw is valid UTF-8
// it behaves exactly as EncodeOrdinary. Otherwise the longest valid-UTF-8
// prefix is encoded ordinarily, the unstable tail of that encoding
// (spec.md 4.7's increaseLastPieceTokenLen) is peeled back off and its
// bytes prepended to the invalid remainder, and that combined byte run is
// run through the merge engine directly as one raw BPE call — so an
// invalid byte never gets glued onto a valid piece mid-pretokenizer-match.
func (e *Encoder) EncodeBytes(raw []byte) (Tokens, error) {
	if len(raw) == 0 {
		return nil, nil
	}
	if utf8.Valid(raw) {
		return e.EncodeOrdinary(string(raw))
	}

	validLen := validUTF8PrefixLen(raw)
	prefix, invalidTail := raw[:validLen], raw[validLen:]

	tokens, lastPieceTokenLen, err := e.encodeOrdinaryNative(string(prefix))
	if err != nil {
		return nil, err
	}
	decode := func(r Rank) []byte {
		b, _ := e.DecodeSingleTokenBytes(r)
		return b
	}
	lastPieceTokenLen = increaseLastPieceTokenLen(tokens, lastPieceTokenLen, decode)

	stableCount := len(tokens) - lastPieceTokenLen
	discarded := tokens[stableCount:]
	discardedBytes, err := e.DecodeBytes(discarded)
	if err != nil {
		return nil, err
	}

	combined := make([]byte, 0, len(discardedBytes)+len(invalidTail))
	combined = append(combined, discardedBytes...)
	combined = append(combined, invalidTail...)

	out := tokens[:stableCount].Clone()
	out = append(out, encodePiece(e.merges, combined)...)
	return out, nil
}

// EncodeSinglePiece encodes piece and fails unless it resolves to exactly
// one token.
func (e *Encoder) EncodeSinglePiece(piece string) (Rank, error) {
	toks := e.encodePieceCached(piece)
	if len(toks) != 1 {
		return 0, &bpeerr.EncodeError{
			Message: fmt.Sprintf("%q does not encode to exactly one token", piece),
		}
	}
	return toks[0], nil
}

// EncodeSingleToken looks piece up as an exact vocabulary or special-token
// entry, without running the merge engine.
func (e *Encoder) EncodeSingleToken(piece []byte) (Rank, error) {
	if r, ok := e.merges[string(piece)]; ok {
		return r, nil
	}
	if r, ok := e.def.Specials[string(piece)]; ok {
		return r, nil
	}
	return 0, &bpeerr.EncodeError{
		Message: fmt.Sprintf("%q is not a single token", piece),
	}
}

// DecodeBytes concatenates the byte values of tokens in order.
func (e *Encoder) DecodeBytes(tokens Tokens) ([]byte, error) {
	var buf bytes.Buffer
	for _, t := range tokens {
		if b, ok := e.inverse[t]; ok {
			buf.Write(b)
			continue
		}
		if s, ok := e.specialInverse[t]; ok {
			buf.WriteString(s)
			continue
		}
		return nil, &bpeerr.DecodeKeyError{Rank: uint32(t)}
	}
	return buf.Bytes(), nil
}

// Decode concatenates tokens' byte values and requires the result to be
// valid UTF-8 text.
func (e *Encoder) Decode(tokens Tokens) (string, error) {
	b, err := e.DecodeBytes(tokens)
	if err != nil {
		return "", err
	}
	if !utf8.Valid(b) {
		return "", &bpeerr.DecodeError{Message: "decoded token sequence is not valid UTF-8"}
	}
	return string(b), nil
}

// DecodeSingleTokenBytes returns one token's byte value.
func (e *Encoder) DecodeSingleTokenBytes(token Rank) ([]byte, error) {
	if b, ok := e.inverse[token]; ok {
		return b, nil
	}
	if s, ok := e.specialInverse[token]; ok {
		return []byte(s), nil
	}
	return nil, &bpeerr.DecodeKeyError{Rank: uint32(token)}
}

// TokenByteValues returns, indexed by Rank, every token's byte value. A nil
// entry means that rank is unused.
func (e *Encoder) TokenByteValues() [][]byte {
	out := make([][]byte, len(e.tokenBytes))
	copy(out, e.tokenBytes)
	return out
}

// tokenStartsScalar reports whether token's decoded bytes begin a new
// UTF-8 scalar value rather than continuing one a previous token left
// incomplete (pkg/unitrim), the fast pre-check AlignTokens (trim.go) uses
// before falling back to a full decode.
func (e *Encoder) tokenStartsScalar(token Rank) bool {
	if int(token) >= len(e.scalarStart) {
		return true
	}
	return e.scalarStart[token]
}

// NVocab is the total number of distinct token ids: the definition's
// ExplicitNVocab when it is set, otherwise merge-table entries plus special
// tokens.
func (e *Encoder) NVocab() int {
	if e.def.ExplicitNVocab != 0 {
		return e.def.ExplicitNVocab
	}
	return len(e.merges) + len(e.def.Specials)
}

// MaxTokenValue is the largest Rank any token in this encoding uses.
func (e *Encoder) MaxTokenValue() Rank { return e.maxTokenValue }

// EOTToken returns the encoding's end-of-text marker's Rank, if it defines
// one.
func (e *Encoder) EOTToken() (Rank, bool) {
	r, ok := e.def.Specials[EndOfText]
	return r, ok
}

// IsSpecial reports whether marker is one of this encoding's reserved
// special tokens.
func (e *Encoder) IsSpecial(marker string) bool {
	_, ok := e.def.Specials[marker]
	return ok
}

// Name returns the encoding this Encoder was built for.
func (e *Encoder) Name() Encoding { return e.def.Name }
