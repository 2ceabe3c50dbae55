package main

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/tiktoken-go/tiktoken"
)

// encodingFlags are the --encoding/--model/--cache-dir flags shared by
// every subcommand that needs to resolve and load an Encoder.
type encodingFlags struct {
	encoding string
	model    string
	cacheDir string
}

func (f *encodingFlags) register(cmd *cobra.Command) {
	cmd.Flags().StringVar(&f.encoding, "encoding", "",
		"encoding name (cl100k_base, r50k_base, p50k_base, p50k_edit, o200k_base, o200k_harmony, gpt2)")
	cmd.Flags().StringVar(&f.model, "model", "",
		"model name to resolve an encoding from, instead of --encoding")
	cmd.Flags().StringVar(&f.cacheDir, "cache-dir", "",
		"vocabulary cache directory (defaults to TIKTOKEN_CACHE_DIR, DATA_GYM_CACHE_DIR, the user cache dir, or a temp dir)")
}

func (f *encodingFlags) resolve() (tiktoken.Encoding, error) {
	if f.encoding != "" {
		return tiktoken.Encoding(f.encoding), nil
	}
	if f.model != "" {
		enc, ok := tiktoken.EncodingForModel(f.model)
		if !ok {
			return "", fmt.Errorf("no known encoding for model %q", f.model)
		}
		return enc, nil
	}
	return "", fmt.Errorf("must provide --encoding or --model")
}

func (f *encodingFlags) load() (*tiktoken.Encoder, error) {
	enc, err := f.resolve()
	if err != nil {
		return nil, err
	}
	return tiktoken.LoadEncoding(enc, tiktoken.LoaderOptions{CacheDir: f.cacheDir})
}

// parseAllowedSpecial turns the --allow-special flag's value ("all",
// "none", or a comma-separated list of marker strings) into an
// AllowedSpecial.
func parseAllowedSpecial(value string) tiktoken.AllowedSpecial {
	switch value {
	case "", "none":
		return tiktoken.NoSpecial()
	case "all":
		return tiktoken.AllSpecial()
	default:
		return tiktoken.SpecialSet(strings.Split(value, ",")...)
	}
}

// readTextInput resolves -text/-file/stdin into the string to encode,
// matching the precedence the teacher's single-purpose commands gave their
// own -input flags.
func readTextInput(text, file string) (string, error) {
	if text != "" {
		return text, nil
	}
	if file != "" {
		b, err := os.ReadFile(file)
		if err != nil {
			return "", err
		}
		return string(b), nil
	}
	b, err := io.ReadAll(os.Stdin)
	if err != nil {
		return "", err
	}
	return string(b), nil
}
