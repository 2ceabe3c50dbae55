package resources

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strings"
)

// rankToByte and dataGymByteToByte implement the "data gym" byte-to-rune
// obfuscation GPT-2's own encoder.json and vocab.bpe files use: every byte
// value is represented by a printable, non-space rune, so that the merge
// file can be shipped as ordinary text. Bytes that are already printable
// map to themselves; everything else is assigned rune 256+n, n counting
// the non-printable bytes in byte order.
func rankToByte() [256]byte {
	var printable [256]byte
	n := 0
	for b := 0; b < 256; b++ {
		if isDataGymPrintable(byte(b)) {
			printable[n] = byte(b)
			n++
		}
	}
	for b := 0; b < 256; b++ {
		if !isDataGymPrintable(byte(b)) {
			printable[n] = byte(b)
			n++
		}
	}
	return printable
}

func isDataGymPrintable(b byte) bool {
	r := rune(b)
	return r != ' ' && r >= '!' && (r <= '~' || (r >= 0xA1 && r <= 0xAC) || (r >= 0xAE && r <= 0xFF))
}

func dataGymByteToByte() map[rune]byte {
	order := rankToByte()
	printableSet := make(map[byte]bool, 256)
	for b := 0; b < 256; b++ {
		if isDataGymPrintable(byte(b)) {
			printableSet[byte(b)] = true
		}
	}
	out := make(map[rune]byte, 256)
	n := 0
	for _, b := range order {
		if printableSet[b] {
			out[rune(b)] = b
		} else {
			out[rune(256+n)] = b
			n++
		}
	}
	return out
}

func decodeDataGym(s string, table map[rune]byte) ([]byte, error) {
	out := make([]byte, 0, len(s))
	for _, r := range s {
		b, ok := table[r]
		if !ok {
			return nil, fmt.Errorf("tiktoken: rune %q has no data-gym byte mapping", r)
		}
		out = append(out, b)
	}
	return out, nil
}

// LegacyMergeRanks parses the GPT-2-family "vocab.bpe" merge list into a
// byte-string -> rank table, the way the reference tokenizer's
// data_gym_to_mergeable_bpe_ranks does: the 256 single bytes get ranks
// 0..255 in rankToByte's order, and each subsequent merge line appends the
// next rank, in file order. encoderJSON, if non-nil, is used only as a
// consistency check: its entries (minus the two non-mergeable specials)
// must decode to exactly the same byte-string -> rank table, or an error
// is returned, since a mismatch means the two files disagree about merge
// priority order.
func LegacyMergeRanks(vocabBPE []byte, encoderJSON []byte) (map[string]uint32, error) {
	table := dataGymByteToByte()
	order := rankToByte()

	ranks := make(map[string]uint32, 1<<16)
	for rank, b := range order {
		ranks[string([]byte{b})] = uint32(rank)
	}

	lines := strings.Split(string(vocabBPE), "\n")
	if len(lines) > 0 && strings.HasPrefix(lines[0], "#version") {
		lines = lines[1:]
	}
	rank := uint32(len(ranks))
	for _, line := range lines {
		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}
		fields := strings.Fields(line)
		if len(fields) != 2 {
			return nil, fmt.Errorf("tiktoken: malformed merge line %q", line)
		}
		first, err := decodeDataGym(fields[0], table)
		if err != nil {
			return nil, err
		}
		second, err := decodeDataGym(fields[1], table)
		if err != nil {
			return nil, err
		}
		ranks[string(append(first, second...))] = rank
		rank++
	}

	if encoderJSON != nil {
		if err := checkEncoderJSON(encoderJSON, table, ranks); err != nil {
			return nil, err
		}
	}
	return ranks, nil
}

func checkEncoderJSON(data []byte, table map[rune]byte, ranks map[string]uint32) error {
	var raw map[string]uint32
	if err := json.Unmarshal(data, &raw); err != nil {
		return fmt.Errorf("tiktoken: parsing encoder.json: %w", err)
	}
	checked := 0
	for k, v := range raw {
		if k == "<|endoftext|>" || k == "<|startoftext|>" {
			continue
		}
		decoded, err := decodeDataGym(k, table)
		if err != nil {
			return err
		}
		got, ok := ranks[string(decoded)]
		if !ok || got != v {
			return fmt.Errorf(
				"tiktoken: encoder.json and vocab.bpe disagree on rank of %q", k)
		}
		checked++
	}
	if checked != len(ranks) {
		return fmt.Errorf(
			"tiktoken: encoder.json has %d mergeable entries, vocab.bpe yields %d",
			checked, len(ranks))
	}
	return nil
}

// ParseEncoderJSONKeys returns encoder.json's byte-string keys decoded from
// their data-gym obfuscation, without validating them against a merge
// list. Useful for loading the handful of encodings (CLIP, legacy llama
// forks) that ship only an encoder.json and no separate merge file.
func ParseEncoderJSONKeys(data []byte) (map[string]uint32, error) {
	var raw map[string]uint32
	dec := json.NewDecoder(bytes.NewReader(data))
	if err := dec.Decode(&raw); err != nil {
		return nil, fmt.Errorf("tiktoken: parsing encoder.json: %w", err)
	}
	table := dataGymByteToByte()
	out := make(map[string]uint32, len(raw))
	for k, v := range raw {
		decoded, err := decodeDataGym(k, table)
		if err != nil {
			return nil, err
		}
		out[string(decoded)] = v
	}
	return out, nil
}
