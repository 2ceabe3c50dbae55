package tiktoken

import (
	"fmt"

	"github.com/tiktoken-go/tiktoken/resources"
)

// LoaderOptions customizes how LoadEncoding fetches a vocabulary.
type LoaderOptions struct {
	// CacheDir overrides resources.DefaultCacheDir.
	CacheDir string
	// ExpectedSHA256 pins the downloaded .tiktoken file's digest. Left
	// empty, no verification is performed beyond what ParseTiktokenBPE
	// itself does; this package does not hardcode digests for the
	// encodings it ships definitions for.
	ExpectedSHA256 string
}

// LoadEncoding builds an Encoder for name, downloading (and caching) its
// vocabulary if it is not already cached. GPT2 is special-cased onto the
// legacy vocab.bpe/encoder.json ingestion path (resources/legacy.go); every
// other standard encoding uses the single-file .tiktoken format.
func LoadEncoding(name Encoding, opts LoaderOptions) (*Encoder, error) {
	def, ok := StandardEncodings()[name]
	if !ok {
		return nil, fmt.Errorf("tiktoken: unknown encoding %q", name)
	}

	var merges MergeTable
	var err error
	if name == GPT2 {
		merges, err = loadLegacyMerges(def, opts)
	} else {
		merges, err = loadTiktokenMerges(def, opts)
	}
	if err != nil {
		return nil, err
	}
	return NewEncoder(def, merges)
}

func loadTiktokenMerges(def *EncodingDef, opts LoaderOptions) (MergeTable, error) {
	data, err := resources.Fetch(def.VocabURL, opts.CacheDir, opts.ExpectedSHA256)
	if err != nil {
		return nil, err
	}
	return ParseTiktokenBPE(data)
}

func loadLegacyMerges(def *EncodingDef, opts LoaderOptions) (MergeTable, error) {
	vocabBPE, err := resources.Fetch(def.LegacyVocabBPEURL, opts.CacheDir, "")
	if err != nil {
		return nil, err
	}
	encoderJSON, err := resources.Fetch(def.LegacyEncoderJSONURL, opts.CacheDir, "")
	if err != nil {
		return nil, err
	}
	ranks, err := resources.LegacyMergeRanks(vocabBPE, encoderJSON)
	if err != nil {
		return nil, err
	}
	table := make(MergeTable, len(ranks))
	for k, v := range ranks {
		table[k] = Rank(v)
	}
	return table, nil
}
