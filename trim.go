package tiktoken

import (
	"strings"
	"unicode/utf8"
)

// TrimDirection picks which end of a token sequence TrimToTokenLimit trims
// from, adapted from the teacher's TrimNewlines.
type TrimDirection int

const (
	TrimTop TrimDirection = iota
	TrimBottom
	TrimNone
)

// TrimToTokenLimit trims tokens to at most limit tokens along line
// boundaries: it decodes to text, splits on newlines, and re-encodes line
// by line from the chosen end, stopping before a line would push the
// running total over limit. This avoids truncating tokens mid-line, which
// TrimTokens-style index truncation cannot guarantee on its own.
func (e *Encoder) TrimToTokenLimit(tokens Tokens, direction TrimDirection, limit int) (Tokens, error) {
	if len(tokens) <= limit {
		return tokens, nil
	}
	if direction == TrimNone {
		return Tokens{}, nil
	}

	text, err := e.Decode(tokens)
	if err != nil {
		return nil, err
	}
	lines := strings.Split(text, "\n")

	var start, end, step int
	switch direction {
	case TrimTop:
		start, end, step = len(lines)-1, -1, -1
	case TrimBottom:
		start, end, step = 0, len(lines), 1
	}

	acc := Tokens{}
	for idx := start; idx != end; idx += step {
		line := lines[idx]
		switch direction {
		case TrimTop:
			line = "\n" + line
		case TrimBottom:
			line = line + "\n"
		}
		lineTokens, err := e.EncodeOrdinary(line)
		if err != nil {
			return nil, err
		}
		if len(lineTokens)+len(acc) > limit {
			return acc, nil
		}
		switch direction {
		case TrimTop:
			acc = append(lineTokens, acc...)
		case TrimBottom:
			acc = append(acc, lineTokens...)
		}
	}
	return acc, nil
}

// AlignTokens takes the first desiredLength tokens of tokens and, if that
// cut lands inside a multi-byte decoded character, decodes and re-encodes
// the chunk so the result is always a token sequence that round-trips
// cleanly through Decode. It returns the aligned chunk and how many of the
// input tokens it consumed, which can exceed desiredLength by a few tokens
// when the round trip re-merges differently at the boundary.
func (e *Encoder) AlignTokens(tokens Tokens, desiredLength int) (aligned Tokens, consumed int, err error) {
	if desiredLength > len(tokens) {
		desiredLength = len(tokens)
	}
	chunk := tokens[:desiredLength].Clone()

	if e.cutIsAligned(chunk, tokens, desiredLength) {
		return chunk, desiredLength, nil
	}

	decoded, decodeErr := e.DecodeBytes(chunk)
	if decodeErr != nil {
		return nil, 0, decodeErr
	}
	validLen := validUTF8PrefixLen(decoded)
	if validLen == len(decoded) {
		return chunk, desiredLength, nil
	}

	// The cut landed mid-character. Re-derive the token count that
	// exactly covers the longest valid-UTF-8 prefix.
	prefixText := string(decoded[:validLen])
	reencoded, encErr := e.EncodeOrdinary(prefixText)
	if encErr != nil {
		return nil, 0, encErr
	}
	return reencoded, len(reencoded), nil
}

// cutIsAligned cheaply confirms a token-count cut lands on a scalar
// boundary, without the full decode AlignTokens otherwise falls back to:
// the cut is clean when either nothing follows it, or the next token
// begins a new scalar (pkg/unitrim) and the cut chunk's own last token is,
// by itself, complete valid UTF-8 (so no continuation bytes are still
// owed to a scalar that started inside it).
func (e *Encoder) cutIsAligned(chunk, full Tokens, cut int) bool {
	if len(chunk) == 0 || cut >= len(full) {
		return true
	}
	if !e.tokenStartsScalar(full[cut]) {
		return false
	}
	last, err := e.DecodeSingleTokenBytes(chunk[len(chunk)-1])
	return err == nil && utf8.Valid(last)
}

// validUTF8PrefixLen returns the length of b's longest prefix that is
// complete, valid UTF-8: it decodes one rune at a time from the start and
// stops at the first byte that does not begin a valid encoding.
func validUTF8PrefixLen(b []byte) int {
	i := 0
	for i < len(b) {
		r, size := utf8.DecodeRune(b[i:])
		if r == utf8.RuneError && size == 1 {
			break
		}
		i += size
	}
	return i
}
