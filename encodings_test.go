package tiktoken

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStandardEncodingsCoversEverySpecName(t *testing.T) {
	defs := StandardEncodings()
	for _, name := range []Encoding{
		Cl100kBase, R50kBase, P50kBase, P50kEdit, O200kBase, O200kHarmony, GPT2,
	} {
		def, ok := defs[name]
		require.True(t, ok, "missing encoding %s", name)
		assert.Equal(t, name, def.Name)
		assert.NotEmpty(t, def.Pattern)
		assert.NotEmpty(t, def.Specials)
	}
}

func TestEveryEncodingDefinesEndOfText(t *testing.T) {
	for name, def := range StandardEncodings() {
		_, ok := def.Specials[EndOfText]
		assert.True(t, ok, "%s has no end-of-text marker", name)
	}
}

func TestO200kHarmonySpecialsFillsReservedRange(t *testing.T) {
	specials := o200kHarmonySpecials()

	seen := make(map[Rank]bool, len(specials))
	for _, r := range specials {
		assert.False(t, seen[r], "duplicate rank %d in o200k_harmony specials", r)
		seen[r] = true
	}

	for n := o200kHarmonyReservedLo; n <= o200kHarmonyReservedHi; n++ {
		assert.True(t, seen[n], "rank %d not covered by any harmony special", n)
	}
	for n := Rank(200000); n <= 200018; n++ {
		assert.True(t, seen[n], "rank %d not covered by any harmony special", n)
	}
}

func TestO200kHarmonySpecialsNamesKnownMarkers(t *testing.T) {
	specials := o200kHarmonySpecials()
	assert.Equal(t, Rank(199999), specials[EndOfText])
	assert.Equal(t, Rank(200018), specials[EndOfPrompt])
	assert.Equal(t, Rank(199998), specials["<|startoftext|>"])
	assert.Equal(t, Rank(200006), specials["<|start|>"])
	assert.Equal(t, Rank(200007), specials["<|end|>"])
}

func TestReservedMarkerFormat(t *testing.T) {
	assert.Equal(t, "<|reserved_200013|>", reservedMarker(200013))
}

func TestNoOverlapAmongEveryStandardEncodingsSpecials(t *testing.T) {
	for name, def := range StandardEncodings() {
		assert.NoError(t, assertNoOverlap(def.Specials), "overlap in %s", name)
	}
}
