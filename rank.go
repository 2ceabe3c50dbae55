package tiktoken

import (
	"bytes"
	"encoding/binary"
)

// Rank is a token identifier and its BPE merge priority: a lower rank
// merges earlier. The zero value is a valid rank (the first byte learned
// by every vocabulary is rank 0).
type Rank uint32

// Tokens is a finite ordered sequence of Ranks with no separator framing.
type Tokens []Rank

// Clone returns a copy of t that shares no backing array with it.
func (t Tokens) Clone() Tokens {
	out := make(Tokens, len(t))
	copy(out, t)
	return out
}

// tokenSize is the on-disk width of one Rank, generalized from the
// teacher's fixed two-byte Token to this package's four-byte Rank: the
// largest shipped vocabulary, o200k_base, already exceeds 65536 entries.
const tokenSize = 4

// ToBin serializes t as a little-endian stream of 4-byte Ranks, the same
// framing the teacher's ToBin/TokensFromBin pair uses for its Token.
func (t Tokens) ToBin() []byte {
	buf := bytes.NewBuffer(make([]byte, 0, len(t)*tokenSize))
	for _, r := range t {
		_ = binary.Write(buf, binary.LittleEndian, uint32(r))
	}
	return buf.Bytes()
}

// TokensFromBin deserializes a buffer written by ToBin. A trailing partial
// record (fewer than tokenSize bytes) is silently dropped.
func TokensFromBin(bin []byte) Tokens {
	out := make(Tokens, 0, len(bin)/tokenSize)
	buf := bytes.NewReader(bin)
	for {
		var r uint32
		if err := binary.Read(buf, binary.LittleEndian, &r); err != nil {
			break
		}
		out = append(out, Rank(r))
	}
	return out
}
