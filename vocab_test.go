package tiktoken

import (
	"encoding/base64"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func tiktokenLine(tok string, rank Rank) string {
	return base64.StdEncoding.EncodeToString([]byte(tok)) + " " + itoa(rank)
}

func itoa(r Rank) string {
	if r == 0 {
		return "0"
	}
	digits := []byte{}
	for r > 0 {
		digits = append([]byte{byte('0' + r%10)}, digits...)
		r /= 10
	}
	return string(digits)
}

func TestParseTiktokenBPE(t *testing.T) {
	data := []byte(
		tiktokenLine("a", 0) + "\n" +
			tiktokenLine("b", 1) + "\n" +
			tiktokenLine("ab", 2) + "\n",
	)
	table, err := ParseTiktokenBPE(data)
	require.NoError(t, err)
	assert.Equal(t, Rank(0), table["a"])
	assert.Equal(t, Rank(1), table["b"])
	assert.Equal(t, Rank(2), table["ab"])
	assert.Len(t, table, 3)
}

func TestParseTiktokenBPESkipsMalformedLines(t *testing.T) {
	data := []byte(
		tiktokenLine("a", 0) + "\n" +
			"not-base64-and-no-space\n" +
			"\n" +
			"== 1\n" + // invalid base64
			tiktokenLine("b", 1) + "\n",
	)
	table, err := ParseTiktokenBPE(data)
	require.NoError(t, err)
	assert.Len(t, table, 2)
	assert.Equal(t, Rank(0), table["a"])
	assert.Equal(t, Rank(1), table["b"])
}

func TestParseTiktokenBPERejectsInvalidUTF8(t *testing.T) {
	_, err := ParseTiktokenBPE([]byte{0xff, 0xfe, 0xfd})
	assert.Error(t, err)
}

func TestMergeTableSortedKeysIsLexicographic(t *testing.T) {
	table := MergeTable{"banana": 0, "apple": 1, "cherry": 2, "ab": 3}
	keys := table.SortedKeys()
	require.Len(t, keys, 4)
	for i := 1; i < len(keys); i++ {
		assert.True(t, keys[i-1] < keys[i], "keys not sorted: %v", keys)
	}
}

func TestMergeTableInverseRoundTrips(t *testing.T) {
	table := MergeTable{"hello": 5, "world": 6}
	inv := table.Inverse()
	assert.Equal(t, []byte("hello"), inv[5])
	assert.Equal(t, []byte("world"), inv[6])
	assert.Len(t, inv, 2)
}
