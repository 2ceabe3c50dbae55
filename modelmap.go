package tiktoken

import "strings"

// modelToEncoding resolves an exact model name to its encoding, mirroring
// the reference tokenizer's model.py table. Checked before the prefix
// table, so a more specific exact entry always wins over a prefix match.
var modelToEncoding = map[string]Encoding{
	"gpt-4o":        O200kBase,
	"gpt-oss":       O200kHarmony,
	"gpt-4":         Cl100kBase,
	"gpt-3.5-turbo": Cl100kBase,
	"gpt-3.5":       Cl100kBase,
	"gpt-35-turbo":  Cl100kBase,
	"davinci-002":   Cl100kBase,
	"babbage-002":   Cl100kBase,

	"text-davinci-003": P50kBase,
	"text-davinci-002": P50kBase,
	"code-davinci-002": P50kBase,
	"code-davinci-001": P50kBase,
	"code-cushman-002": P50kBase,
	"code-cushman-001": P50kBase,
	"davinci-codex":    P50kBase,
	"cushman-codex":    P50kBase,

	"text-davinci-edit-001": P50kEdit,
	"code-davinci-edit-001": P50kEdit,

	"text-davinci-001": R50kBase,
	"text-curie-001":   R50kBase,
	"text-babbage-001": R50kBase,
	"text-ada-001":     R50kBase,
	"davinci":          R50kBase,
	"curie":            R50kBase,
	"babbage":          R50kBase,
	"ada":              R50kBase,

	"text-embedding-ada-002": Cl100kBase,
	"text-embedding-3-small": Cl100kBase,
	"text-embedding-3-large": Cl100kBase,

	"gpt2":  GPT2,
	"gpt-2": GPT2,
}

// modelPrefixToEncoding is checked, longest prefix first, when no exact
// name matches. Order within equal-length prefixes is not significant
// because two distinct prefixes of the same length can never both match
// one model name.
var modelPrefixToEncoding = []struct {
	Prefix   string
	Encoding Encoding
}{
	{"o1-", O200kBase},
	{"o3-", O200kBase},
	{"gpt-oss-", O200kHarmony},
	{"chatgpt-4o-", O200kBase},
	{"gpt-4o-", O200kBase},
	{"gpt-4-", Cl100kBase},
	{"gpt-3.5-turbo-", Cl100kBase},
	{"gpt-35-turbo-", Cl100kBase},
	{"ft:gpt-4", Cl100kBase},
	{"ft:gpt-3.5-turbo", Cl100kBase},
	{"ft:davinci-002", Cl100kBase},
	{"ft:babbage-002", Cl100kBase},
}

// EncodingForModel resolves a model name to the encoding it was trained
// against. The empty Encoding and ok==false mean no table entry matched.
func EncodingForModel(model string) (enc Encoding, ok bool) {
	if enc, ok = modelToEncoding[model]; ok {
		return enc, true
	}
	bestLen := -1
	for _, entry := range modelPrefixToEncoding {
		if strings.HasPrefix(model, entry.Prefix) && len(entry.Prefix) > bestLen {
			enc, ok = entry.Encoding, true
			bestLen = len(entry.Prefix)
		}
	}
	return enc, ok
}
