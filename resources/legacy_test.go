package resources

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDataGymByteToByteCoversAllBytes(t *testing.T) {
	table := dataGymByteToByte()
	seen := make(map[byte]bool, 256)
	for _, b := range table {
		assert.False(t, seen[b], "byte %d mapped twice", b)
		seen[b] = true
	}
	assert.Len(t, seen, 256)
}

func TestDataGymPrintableBytesMapToThemselves(t *testing.T) {
	table := dataGymByteToByte()
	assert.Equal(t, byte('a'), table[rune('a')])
	assert.Equal(t, byte('!'), table[rune('!')])
}

func TestLegacyMergeRanksAssignsByteRanksFirst(t *testing.T) {
	ranks, err := LegacyMergeRanks([]byte("#version: 0.2\n"), nil)
	require.NoError(t, err)
	assert.Len(t, ranks, 256)
}

func TestLegacyMergeRanksAppendsMergeLines(t *testing.T) {
	order := rankToByte()
	table := dataGymByteToByte()
	inverse := make(map[byte]rune, 256)
	for r, b := range table {
		inverse[b] = r
	}

	// Build a vocab.bpe merging order[0] with order[1], expressed in the
	// data-gym obfuscated alphabet the real file ships in.
	line := string(inverse[order[0]]) + " " + string(inverse[order[1]])
	vocabBPE := []byte("#version: 0.2\n" + line + "\n")

	ranks, err := LegacyMergeRanks(vocabBPE, nil)
	require.NoError(t, err)

	merged := string([]byte{order[0], order[1]})
	assert.Equal(t, uint32(256), ranks[merged])
	assert.Len(t, ranks, 257)
}

func TestLegacyMergeRanksRejectsMalformedLine(t *testing.T) {
	_, err := LegacyMergeRanks([]byte("#version: 0.2\nonly-one-field\n"), nil)
	assert.Error(t, err)
}

func TestLegacyMergeRanksDetectsEncoderJSONDisagreement(t *testing.T) {
	vocabBPE := []byte("#version: 0.2\n")
	encoderJSON := []byte(`{"<|endoftext|>": 50256, "zzz-not-a-real-token": 999999}`)
	_, err := LegacyMergeRanks(vocabBPE, encoderJSON)
	assert.Error(t, err)
}

func TestParseEncoderJSONKeysDecodesDataGymAlphabet(t *testing.T) {
	table := dataGymByteToByte()
	inverse := make(map[byte]rune, 256)
	for r, b := range table {
		inverse[b] = r
	}
	key := string(inverse['a']) + string(inverse['b'])
	data := []byte(`{"` + key + `": 42}`)

	out, err := ParseEncoderJSONKeys(data)
	require.NoError(t, err)
	assert.Equal(t, uint32(42), out["ab"])
}
