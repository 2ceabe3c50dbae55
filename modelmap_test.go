package tiktoken

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestEncodingForModelExactMatch(t *testing.T) {
	enc, ok := EncodingForModel("gpt-4o")
	assert.True(t, ok)
	assert.Equal(t, O200kBase, enc)
}

func TestEncodingForModelPrefixMatch(t *testing.T) {
	enc, ok := EncodingForModel("gpt-4-32k")
	assert.True(t, ok)
	assert.Equal(t, Cl100kBase, enc)
}

func TestEncodingForModelGPT4oPrefixNotGPT4Family(t *testing.T) {
	// "gpt-4o-mini" matches only the "gpt-4o-" prefix ("gpt-4-" needs a
	// hyphen right after the 4), so it must resolve to o200k_base rather
	// than the cl100k_base gpt-4 family.
	enc, ok := EncodingForModel("gpt-4o-mini")
	assert.True(t, ok)
	assert.Equal(t, O200kBase, enc)
}

func TestEncodingForModelExactBeatsPrefix(t *testing.T) {
	// "gpt-4" itself is an exact entry (Cl100kBase); it must not fall
	// through to a prefix match.
	enc, ok := EncodingForModel("gpt-4")
	assert.True(t, ok)
	assert.Equal(t, Cl100kBase, enc)
}

func TestEncodingForModelUnknownReturnsFalse(t *testing.T) {
	_, ok := EncodingForModel("totally-unknown-model-xyz")
	assert.False(t, ok)
}

func TestEncodingForModelFineTunedPrefixes(t *testing.T) {
	enc, ok := EncodingForModel("ft:gpt-4:acme::abc123")
	assert.True(t, ok)
	assert.Equal(t, Cl100kBase, enc)
}

func TestEncodingForModelGPTOSS(t *testing.T) {
	enc, ok := EncodingForModel("gpt-oss-120b")
	assert.True(t, ok)
	assert.Equal(t, O200kHarmony, enc)
}
