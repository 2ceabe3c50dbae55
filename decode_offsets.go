package tiktoken

import (
	"unicode/utf8"

	"github.com/tiktoken-go/tiktoken/internal/bpeerr"
)

// DecodeWithOffsets decodes tokens and reports, for each token, the index
// of the Unicode scalar value in the returned string where that token's
// text begins (spec.md 4.6). A token whose bytes are themselves not a
// complete UTF-8 scalar value (its encoded bytes split a multi-byte
// character across a token boundary) is attributed to the index of the
// scalar it continues, since isUTF8ContinuationByte below treats a leading
// continuation byte as "this token doesn't start a new scalar".
func (e *Encoder) DecodeWithOffsets(tokens Tokens) (string, []int, error) {
	tokenBytes := make([][]byte, len(tokens))
	for i, t := range tokens {
		b, err := e.DecodeSingleTokenBytes(t)
		if err != nil {
			return "", nil, err
		}
		tokenBytes[i] = b
	}

	offsets := make([]int, len(tokens))
	scalarLen := 0
	var all []byte
	for i, b := range tokenBytes {
		offset := scalarLen
		if len(b) > 0 && isUTF8ContinuationByte(b[0]) && scalarLen > 0 {
			offset = scalarLen - 1
		}
		offsets[i] = offset
		for _, c := range b {
			if !isUTF8ContinuationByte(c) {
				scalarLen++
			}
		}
		all = append(all, b...)
	}

	if !utf8.Valid(all) {
		return "", nil, &bpeerr.DecodeError{Message: "invalid utf-8"}
	}
	return string(all), offsets, nil
}

// isUTF8ContinuationByte reports whether b is a non-leading byte of a
// multi-byte UTF-8 encoding (the 0b10xxxxxx pattern).
func isUTF8ContinuationByte(b byte) bool {
	return b&0xC0 == 0x80
}
