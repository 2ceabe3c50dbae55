// Command tiktoken provides a command-line interface over the encoders in
// this module: encode, decode, count, download, and inspect the standard
// tiktoken-compatible vocabularies. Subcommand structure and flag naming
// follow the teacher's separate single-purpose command binaries
// (tokenizer_repl, detokenizer, tokens_transformer, model_downloader),
// consolidated here under one spf13/cobra root the way the pack's
// ollama-ollama command tree does.
package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:   "tiktoken",
		Short: "Encode, decode, and inspect tiktoken-compatible vocabularies",
	}
	root.AddCommand(
		newEncodeCmd(),
		newDecodeCmd(),
		newCountCmd(),
		newDownloadCmd(),
		newInfoCmd(),
		newReplCmd(),
		newTransformCmd(),
	)
	return root
}
