package bpeerr

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestDecodeKeyErrorIsMatchesByRank(t *testing.T) {
	a := &DecodeKeyError{Rank: 5}
	b := &DecodeKeyError{Rank: 5}
	c := &DecodeKeyError{Rank: 6}

	assert.True(t, errors.Is(a, b))
	assert.False(t, errors.Is(a, c))
}

func TestDisallowedSpecialTokenIsMatchesByMarker(t *testing.T) {
	a := &DisallowedSpecialToken{Marker: "<|endoftext|>"}
	b := &DisallowedSpecialToken{Marker: "<|endoftext|>"}
	c := &DisallowedSpecialToken{Marker: "<|sep|>"}

	assert.True(t, errors.Is(a, b))
	assert.False(t, errors.Is(a, c))
}

func TestRegexErrorUnwraps(t *testing.T) {
	inner := errors.New("bad pattern")
	err := &RegexError{Pattern: "(", Err: inner}
	assert.ErrorIs(t, err, inner)
}

func TestErrorMessagesNameTheSubject(t *testing.T) {
	assert.Contains(t, (&DecodeKeyError{Rank: 42}).Error(), "42")
	assert.Contains(t, (&InputTooLarge{Length: 10, Max: 5}).Error(), "10")
	assert.Contains(t, (&InputTooLarge{Length: 10, Max: 5}).Error(), "5")
	assert.Contains(t, (&DisallowedSpecialToken{Marker: "<|x|>"}).Error(), "<|x|>")
}
