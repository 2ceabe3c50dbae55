package main

import (
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"github.com/tiktoken-go/tiktoken"
)

func newDecodeCmd() *cobra.Command {
	var flags encodingFlags
	var tokensArg, file string
	var binary bool

	cmd := &cobra.Command{
		Use:   "decode",
		Short: "Decode token ids back into text",
		RunE: func(cmd *cobra.Command, args []string) error {
			enc, err := flags.load()
			if err != nil {
				return err
			}

			var tokens tiktoken.Tokens
			switch {
			case binary:
				data, readErr := os.ReadFile(file)
				if readErr != nil {
					return readErr
				}
				tokens = tiktoken.TokensFromBin(data)
			default:
				tokens, err = parseTokenList(tokensArg)
				if err != nil {
					return err
				}
			}

			text, err := enc.Decode(tokens)
			if err != nil {
				return err
			}
			fmt.Println(text)
			return nil
		},
	}
	flags.register(cmd)
	cmd.Flags().StringVar(&tokensArg, "tokens", "", "space or comma separated token ids")
	cmd.Flags().StringVar(&file, "file", "", "binary token file to decode (see --binary)")
	cmd.Flags().BoolVar(&binary, "binary", false, "read --file as the ToBin binary token format instead of text")
	return cmd
}

func parseTokenList(s string) (tiktoken.Tokens, error) {
	s = strings.ReplaceAll(s, ",", " ")
	fields := strings.Fields(s)
	out := make(tiktoken.Tokens, 0, len(fields))
	for _, f := range fields {
		n, err := strconv.ParseUint(f, 10, 32)
		if err != nil {
			return nil, fmt.Errorf("invalid token %q: %w", f, err)
		}
		out = append(out, tiktoken.Rank(n))
	}
	return out, nil
}
