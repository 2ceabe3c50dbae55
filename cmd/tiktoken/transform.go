package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/tiktoken-go/tiktoken"
)

// newTransformCmd adapts the teacher's tokens_transformer: it decodes a
// binary token file under one encoding and re-encodes it under another,
// chunking by --context-size and padding short trailing chunks with the
// output encoding's end-of-text token.
func newTransformCmd() *cobra.Command {
	var inEncoding, outEncoding, input, output string
	var contextSize int
	var showContexts bool

	cmd := &cobra.Command{
		Use:   "transform",
		Short: "Retokenize a binary token file from one encoding to another",
		RunE: func(cmd *cobra.Command, args []string) error {
			if inEncoding == outEncoding {
				return fmt.Errorf("input and output encodings must differ")
			}
			in, err := tiktoken.LoadEncoding(tiktoken.Encoding(inEncoding), tiktoken.LoaderOptions{})
			if err != nil {
				return err
			}
			out, err := tiktoken.LoadEncoding(tiktoken.Encoding(outEncoding), tiktoken.LoaderOptions{})
			if err != nil {
				return err
			}

			raw, err := os.ReadFile(input)
			if err != nil {
				return err
			}
			inTokens := tiktoken.TokensFromBin(raw)

			padTok, _ := out.EOTToken()
			outFile, err := os.Create(output)
			if err != nil {
				return err
			}
			defer outFile.Close()

			for start := 0; start < len(inTokens); start += contextSize {
				end := start + contextSize
				if end > len(inTokens) {
					end = len(inTokens)
				}
				chunk := inTokens[start:end]

				decoded, err := in.DecodeBytes(chunk)
				if err != nil {
					return err
				}
				reencoded, err := out.EncodeOrdinary(string(decoded))
				if err != nil {
					return err
				}
				if len(reencoded) > contextSize {
					reencoded = reencoded[:contextSize]
				}
				if len(reencoded) < contextSize {
					padded := make(tiktoken.Tokens, contextSize)
					copy(padded, reencoded)
					for i := len(reencoded); i < contextSize; i++ {
						padded[i] = padTok
					}
					reencoded = padded
				}
				if _, err := outFile.Write(reencoded.ToBin()); err != nil {
					return err
				}
				if showContexts {
					redecoded, _ := out.Decode(reencoded)
					fmt.Fprintf(os.Stderr, "in: %q\nout: %q\n", decoded, redecoded)
				}
			}
			return nil
		},
	}
	cmd.Flags().StringVar(&inEncoding, "input-encoding", "gpt2", "encoding the input file is tokenized with")
	cmd.Flags().StringVar(&outEncoding, "output-encoding", "cl100k_base", "encoding to retokenize into")
	cmd.Flags().StringVar(&input, "input", "", "input binary token file")
	cmd.Flags().StringVar(&output, "output", "retokenized.tokens", "output binary token file")
	cmd.Flags().IntVar(&contextSize, "context-size", 2048, "number of tokens per chunk")
	cmd.Flags().BoolVar(&showContexts, "show-contexts", false, "print each chunk's text as it is retokenized")
	cmd.MarkFlagRequired("input")
	return cmd
}
