package tiktoken

import (
	"bufio"
	"bytes"
	"encoding/base64"
	"sort"
	"strconv"
	"strings"
	"unicode/utf8"

	"github.com/tiktoken-go/tiktoken/internal/bpeerr"
)

// MergeTable is the injective mapping from byte-string keys to Ranks that
// spec.md's data model calls the "merge table". Keys are stored as Go
// strings, which is the idiomatic hashable-borrowed-slice-key the teacher's
// own map[string]Token also relies on: converting a []byte to a string key
// for a map lookup is compiled by the Go runtime into a no-copy hash, so no
// allocation happens on read.
type MergeTable map[string]Rank

// ParseTiktokenBPE parses the "<base64-token> <rank>\n" vocabulary file
// format (spec.md 4.1). Lines that fail to parse are silently skipped, to
// match the reference tokenizer. The buffer must be valid UTF-8 text.
func ParseTiktokenBPE(data []byte) (MergeTable, error) {
	if !utf8.Valid(data) {
		return nil, &bpeerr.InvalidData{Message: "vocabulary buffer is not valid UTF-8"}
	}
	table := make(MergeTable, 1<<17)
	scanner := bufio.NewScanner(bytes.NewReader(data))
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)
	for scanner.Scan() {
		line := scanner.Text()
		if line == "" {
			continue
		}
		spaceIdx := strings.IndexByte(line, ' ')
		if spaceIdx <= 0 || spaceIdx == len(line)-1 {
			continue
		}
		tokenB64, rankStr := line[:spaceIdx], line[spaceIdx+1:]
		tokenBytes, err := base64.StdEncoding.DecodeString(tokenB64)
		if err != nil {
			continue
		}
		rank, err := strconv.ParseUint(rankStr, 10, 32)
		if err != nil {
			continue
		}
		table[string(tokenBytes)] = Rank(rank)
	}
	return table, nil
}

// SortedKeys returns the merge table's keys in lexicographic byte order,
// the array the unstable-boundary helper binary-searches (spec.md 4.7).
func (m MergeTable) SortedKeys() []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// Inverse builds the rank -> byte-string decode table. The merge table is
// required to be injective (spec.md 3), so this is total on the image.
func (m MergeTable) Inverse() map[Rank][]byte {
	inv := make(map[Rank][]byte, len(m))
	for k, v := range m {
		inv[v] = []byte(k)
	}
	return inv
}
