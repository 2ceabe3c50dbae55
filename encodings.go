package tiktoken

import "strconv"

// Encoding names the tiktoken-compatible vocabularies this package ships
// pattern and special-token tables for (spec.md 6).
type Encoding string

const (
	Cl100kBase   Encoding = "cl100k_base"
	R50kBase     Encoding = "r50k_base"
	P50kBase     Encoding = "p50k_base"
	P50kEdit     Encoding = "p50k_edit"
	O200kBase    Encoding = "o200k_base"
	O200kHarmony Encoding = "o200k_harmony"
	GPT2         Encoding = "gpt2"
)

// Well-known special tokens, shared by name across several encodings.
const (
	EndOfText   = "<|endoftext|>"
	FimPrefix   = "<|fim_prefix|>"
	FimMiddle   = "<|fim_middle|>"
	FimSuffix   = "<|fim_suffix|>"
	EndOfPrompt = "<|endofprompt|>"
)

// gpt2Pattern is shared by gpt2, r50k_base, p50k_base and p50k_edit: the
// original GPT-2 pretokenizer regex. The possessive quantifiers tiktoken's
// own pattern strings carry (`?+`, `*+`, `++`) are rewritten to their plain
// greedy form below, since they change backtracking cost, not the match
// boundaries these patterns ever actually produce.
const gpt2Pattern = `'s|'t|'re|'ve|'m|'ll|'d| ?\p{L}+| ?\p{N}+| ?[^\s\p{L}\p{N}]+|\s+$|\s+(?!\S)|\s+`

// cl100kPattern is cl100k_base's pretokenizer regex. Note the trailing
// "\s*[\r\n]" alternative has no "+": a single line break after a run of
// other whitespace, unlike o200k's "\s*[\r\n]+" below.
const cl100kPattern = `'(?i:[sdmt]|ll|ve|re)|[^\r\n\p{L}\p{N}]?\p{L}+|\p{N}{1,3}| ?[^\s\p{L}\p{N}]+[\r\n]*|\s*[\r\n]|\s+(?!\S)|\s+`

// o200kPattern is shared by o200k_base and o200k_harmony.
const o200kPattern = `[^\r\n\p{L}\p{N}]?[\p{Lu}\p{Lt}\p{Lm}\p{Lo}\p{M}]*[\p{Ll}\p{Lm}\p{Lo}\p{M}]+(?i:'s|'t|'re|'ve|'m|'ll|'d)?|[^\r\n\p{L}\p{N}]?[\p{Lu}\p{Lt}\p{Lm}\p{Lo}\p{M}]+[\p{Ll}\p{Lm}\p{Lo}\p{M}]*(?i:'s|'t|'re|'ve|'m|'ll|'d)?|\p{N}{1,3}| ?[^\s\p{L}\p{N}]+[\r\n/]*|\s*[\r\n]+|\s+(?!\S)|\s+`

// EncodingDef is the immutable description of a vocabulary: where its
// merge ranks live, which regex segments raw text before merging, and
// which literal strings are reserved as special tokens.
type EncodingDef struct {
	Name           Encoding
	Pattern        string
	VocabFile      string // vocabulary file name; resources.Fetch names cache entries by a SHA-1 of VocabURL, not by this
	VocabURL       string
	Specials       map[string]Rank
	ExplicitNVocab int // 0 means "derive from the merge table"

	// LegacyVocabBPEURL and LegacyEncoderJSONURL are set only for GPT2,
	// whose vocabulary predates the single-file .tiktoken format and
	// ships as a vocab.bpe merge list plus an encoder.json sanity check
	// (resources/legacy.go).
	LegacyVocabBPEURL     string
	LegacyEncoderJSONURL  string
}

// cl100kSpecials covers cl100k_base, used by gpt-3.5/gpt-4 chat models.
func cl100kSpecials() map[string]Rank {
	return map[string]Rank{
		EndOfText:   100257,
		FimPrefix:   100258,
		FimMiddle:   100259,
		FimSuffix:   100260,
		EndOfPrompt: 100276,
	}
}

func o200kSpecials() map[string]Rank {
	return map[string]Rank{
		EndOfText:   199999,
		EndOfPrompt: 200018,
	}
}

// o200kHarmonyReservedLo and o200kHarmonyReservedHi bound the reserved
// marker range spec.md 6 assigns to o200k_harmony: every rank in
// [lo, hi] not already claimed by a named harmony marker gets a
// "<|reserved_N|>" placeholder, so the encoding's vocabulary size matches
// the gpt-oss release's regardless of how many of its framing tokens this
// package names explicitly.
const (
	o200kHarmonyReservedLo Rank = 200013
	o200kHarmonyReservedHi Rank = 201087
)

// o200kHarmonySpecials extends o200k_base's table with the gpt-oss harmony
// chat format's framing tokens (spec.md 6): a fixed marker set at rank
// 199998 and across 200000-200018, the unnamed members of which are
// themselves reserved placeholders, plus reserved markers filling out the
// rest of [200013, 201087].
func o200kHarmonySpecials() map[string]Rank {
	specials := map[string]Rank{
		EndOfText:         199999,
		EndOfPrompt:       200018,
		"<|startoftext|>": 199998,
		"<|return|>":      200002,
		"<|constrain|>":   200003,
		"<|channel|>":     200005,
		"<|start|>":       200006,
		"<|end|>":         200007,
		"<|message|>":     200008,
		"<|call|>":        200012,
	}
	for n := Rank(200000); n <= 200018; n++ {
		if !harmonyRankNamed(specials, n) {
			specials[reservedMarker(n)] = n
		}
	}
	for n := o200kHarmonyReservedLo; n <= o200kHarmonyReservedHi; n++ {
		if !harmonyRankNamed(specials, n) {
			specials[reservedMarker(n)] = n
		}
	}
	return specials
}

func harmonyRankNamed(specials map[string]Rank, n Rank) bool {
	for _, r := range specials {
		if r == n {
			return true
		}
	}
	return false
}

func reservedMarker(n Rank) string {
	return "<|reserved_" + strconv.FormatUint(uint64(n), 10) + "|>"
}

func r50kSpecials() map[string]Rank {
	return map[string]Rank{EndOfText: 50256}
}

func p50kEditSpecials() map[string]Rank {
	return map[string]Rank{
		EndOfText:   50256,
		FimPrefix:   50281,
		FimMiddle:   50282,
		FimSuffix:   50283,
	}
}

func gpt2Specials() map[string]Rank {
	return map[string]Rank{EndOfText: 50256}
}

// StandardEncodings is the built-in registry of tiktoken-compatible
// encodings, indexed by name (spec.md 6).
func StandardEncodings() map[Encoding]*EncodingDef {
	return map[Encoding]*EncodingDef{
		Cl100kBase: {
			Name:      Cl100kBase,
			Pattern:   cl100kPattern,
			VocabFile: "cl100k_base.tiktoken",
			VocabURL:  "https://openaipublic.blob.core.windows.net/encodings/cl100k_base.tiktoken",
			Specials:  cl100kSpecials(),
		},
		R50kBase: {
			Name:      R50kBase,
			Pattern:   gpt2Pattern,
			VocabFile: "r50k_base.tiktoken",
			VocabURL:  "https://openaipublic.blob.core.windows.net/gpt-2/encodings/r50k_base.tiktoken",
			Specials:  r50kSpecials(),
		},
		P50kBase: {
			Name:      P50kBase,
			Pattern:   gpt2Pattern,
			VocabFile: "p50k_base.tiktoken",
			VocabURL:  "https://openaipublic.blob.core.windows.net/gpt-2/encodings/p50k_base.tiktoken",
			Specials:  r50kSpecials(),
		},
		P50kEdit: {
			Name:      P50kEdit,
			Pattern:   gpt2Pattern,
			VocabFile: "p50k_base.tiktoken",
			VocabURL:  "https://openaipublic.blob.core.windows.net/gpt-2/encodings/p50k_base.tiktoken",
			Specials:  p50kEditSpecials(),
		},
		O200kBase: {
			Name:      O200kBase,
			Pattern:   o200kPattern,
			VocabFile: "o200k_base.tiktoken",
			VocabURL:  "https://openaipublic.blob.core.windows.net/encodings/o200k_base.tiktoken",
			Specials:  o200kSpecials(),
		},
		O200kHarmony: {
			Name:      O200kHarmony,
			Pattern:   o200kPattern,
			VocabFile: "o200k_base.tiktoken",
			VocabURL:  "https://openaipublic.blob.core.windows.net/encodings/o200k_base.tiktoken",
			Specials:  o200kHarmonySpecials(),
		},
		GPT2: {
			Name:                 GPT2,
			Pattern:              gpt2Pattern,
			VocabFile:            "gpt2.tiktoken",
			Specials:             gpt2Specials(),
			ExplicitNVocab:       50257,
			LegacyVocabBPEURL:    "https://openaipublic.blob.core.windows.net/gpt-2/encodings/main/vocab.bpe",
			LegacyEncoderJSONURL: "https://openaipublic.blob.core.windows.net/gpt-2/encodings/main/encoder.json",
		},
	}
}
