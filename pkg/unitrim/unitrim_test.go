package unitrim

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestBuildMarksContinuationBytesFalse(t *testing.T) {
	tokenBytes := [][]byte{
		[]byte("a"),        // ASCII, starts a scalar
		{0xC3, 0xA9},       // "é" lead byte, starts a scalar
		{0xA9},             // lone continuation byte, does not start a scalar
		nil,                // unused slot
		[]byte(""),         // empty, vacuously starts a scalar
	}
	got := Build(tokenBytes)
	assert.Equal(t, []bool{true, true, false, true, true}, got)
}

func TestIsUTF8ContinuationByte(t *testing.T) {
	assert.False(t, isUTF8ContinuationByte('a'))
	assert.False(t, isUTF8ContinuationByte(0xC3))
	assert.True(t, isUTF8ContinuationByte(0x80))
	assert.True(t, isUTF8ContinuationByte(0xBF))
}

func TestBuildEmptyInput(t *testing.T) {
	assert.Empty(t, Build(nil))
}
