package tiktoken

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewEncoderRejectsEmptyMergeTable(t *testing.T) {
	_, err := NewEncoder(&EncodingDef{Name: "empty", Pattern: gpt2Pattern}, MergeTable{})
	assert.Error(t, err)
}

func TestNewEncoderRejectsOverlappingSpecials(t *testing.T) {
	merges := MergeTable{"a": 0}
	def := &EncodingDef{
		Name:    "bad",
		Pattern: gpt2Pattern,
		Specials: map[string]Rank{
			"<|x|>":    0,
			"<|x|>ext": 1,
		},
	}
	_, err := NewEncoder(def, merges)
	assert.Error(t, err)
}

func TestEncodeOrdinaryWholeKeyMerges(t *testing.T) {
	enc := newTestEncoder(t)
	toks, err := enc.EncodeOrdinary("hello world")
	require.NoError(t, err)
	assert.Equal(t, Tokens{259, 262}, toks)
}

func TestEncodeOrdinaryRoundTripsThroughDecode(t *testing.T) {
	enc := newTestEncoder(t)
	for _, text := range []string{
		"hello world", "hell", "xyz123", "", " \t\n", "he said hello",
	} {
		toks, err := enc.EncodeOrdinary(text)
		require.NoError(t, err)
		back, err := enc.Decode(toks)
		require.NoError(t, err)
		assert.Equal(t, text, back, "round trip failed for %q", text)
	}
}

func TestEncodeOrdinaryIgnoresSpecialMarkerText(t *testing.T) {
	enc := newTestEncoder(t)
	toks, err := enc.EncodeOrdinary(EndOfText)
	require.NoError(t, err)
	// The marker text is tokenized as ordinary bytes: it must not contain
	// the reserved special-token rank 9000.
	assert.NotContains(t, toks, Rank(9000))
}

func TestEncodeDisallowsUnlistedSpecial(t *testing.T) {
	enc := newTestEncoder(t)
	_, err := enc.Encode("a"+EndOfText+"b", NoSpecial())
	assert.Error(t, err)
}

func TestEncodeAllowsListedSpecial(t *testing.T) {
	enc := newTestEncoder(t)
	toks, err := enc.Encode("a"+EndOfText+"b", SpecialSet(EndOfText))
	require.NoError(t, err)
	require.Contains(t, toks, Rank(9000))
}

func TestEncodeWithDisallowedNoneTreatsUnlistedSpecialAsText(t *testing.T) {
	enc := newTestEncoder(t)
	toks, err := enc.EncodeWithDisallowed(EndOfText, NoSpecial(), NoneDisallowed())
	require.NoError(t, err)
	assert.NotEqual(t, Tokens{9000}, toks)
	assert.NotEmpty(t, toks)
}

func TestEncodeWithDisallowedSetOnlyRejectsNamedMarkers(t *testing.T) {
	enc := newTestEncoder(t)

	_, err := enc.EncodeWithDisallowed("a"+EndOfText+"b", NoSpecial(), DisallowedSet(EndOfText))
	assert.Error(t, err)

	toks, err := enc.EncodeWithDisallowed("a"+"<|sep|>"+"b", NoSpecial(), DisallowedSet(EndOfText))
	require.NoError(t, err)
	assert.NotContains(t, toks, Rank(9001))
}

func TestEncodeWithAllSpecialsAllowsEveryMarker(t *testing.T) {
	enc := newTestEncoder(t)
	toks, err := enc.EncodeWithAllSpecials("a" + EndOfText + "b" + "<|sep|>" + "c")
	require.NoError(t, err)
	assert.Contains(t, toks, Rank(9000))
	assert.Contains(t, toks, Rank(9001))
}

func TestEncodeSinglePiece(t *testing.T) {
	enc := newTestEncoder(t)
	rank, err := enc.EncodeSinglePiece("hello")
	require.NoError(t, err)
	assert.Equal(t, Rank(259), rank)

	_, err = enc.EncodeSinglePiece("hello world")
	assert.Error(t, err, "two pieces worth of text must not resolve to a single token")
}

func TestEncodeSingleToken(t *testing.T) {
	enc := newTestEncoder(t)
	rank, err := enc.EncodeSingleToken([]byte("hello"))
	require.NoError(t, err)
	assert.Equal(t, Rank(259), rank)

	rank, err = enc.EncodeSingleToken([]byte(EndOfText))
	require.NoError(t, err)
	assert.Equal(t, Rank(9000), rank)

	_, err = enc.EncodeSingleToken([]byte("not a token"))
	assert.Error(t, err)
}

func TestDecodeRejectsUnknownRank(t *testing.T) {
	enc := newTestEncoder(t)
	_, err := enc.Decode(Tokens{999999})
	assert.Error(t, err)
}

func TestDecodeBytesAcceptsSpecialTokens(t *testing.T) {
	enc := newTestEncoder(t)
	b, err := enc.DecodeBytes(Tokens{9000})
	require.NoError(t, err)
	assert.Equal(t, []byte(EndOfText), b)
}

func TestInputTooLargeIsRejected(t *testing.T) {
	enc := newTestEncoder(t)
	old := MaxInputScalarValues
	MaxInputScalarValues = 4
	defer func() { MaxInputScalarValues = old }()

	_, err := enc.EncodeOrdinary("this is more than four runes")
	assert.Error(t, err)
}

func TestNVocabCountsMergesAndSpecials(t *testing.T) {
	enc := newTestEncoder(t)
	assert.Equal(t, len(enc.merges)+2, enc.NVocab())
}

func TestEOTToken(t *testing.T) {
	enc := newTestEncoder(t)
	rank, ok := enc.EOTToken()
	assert.True(t, ok)
	assert.Equal(t, Rank(9000), rank)
}

func TestIsSpecial(t *testing.T) {
	enc := newTestEncoder(t)
	assert.True(t, enc.IsSpecial(EndOfText))
	assert.False(t, enc.IsSpecial("not a marker"))
}

func TestEncodeBytesValidUTF8MatchesEncodeOrdinary(t *testing.T) {
	enc := newTestEncoder(t)
	want, err := enc.EncodeOrdinary("hello world")
	require.NoError(t, err)
	got, err := enc.EncodeBytes([]byte("hello world"))
	require.NoError(t, err)
	assert.Equal(t, want, got)
}

func TestEncodeBytesEmptyInput(t *testing.T) {
	enc := newTestEncoder(t)
	toks, err := enc.EncodeBytes(nil)
	require.NoError(t, err)
	assert.Nil(t, toks)
}

func TestEncodeBytesInvalidUTF8TailDecodesBack(t *testing.T) {
	enc := newTestEncoder(t)
	// "hello" followed by a lone UTF-8 continuation byte: not valid UTF-8,
	// but EncodeBytes must still produce a token sequence whose decoded
	// bytes reproduce the original input exactly.
	raw := append([]byte("hello"), 0x80, 0x80)
	toks, err := enc.EncodeBytes(raw)
	require.NoError(t, err)

	back, err := enc.DecodeBytes(toks)
	require.NoError(t, err)
	assert.Equal(t, raw, back)
}

func TestTokenByteValuesIsIndependentCopy(t *testing.T) {
	enc := newTestEncoder(t)
	values := enc.TokenByteValues()
	values[0] = []byte("tampered")
	values2 := enc.TokenByteValues()
	assert.NotEqual(t, []byte("tampered"), values2[0])
}
