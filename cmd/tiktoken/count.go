package main

import (
	"fmt"

	"github.com/spf13/cobra"
)

func newCountCmd() *cobra.Command {
	var flags encodingFlags
	var text, file, allowSpecial string

	cmd := &cobra.Command{
		Use:   "count",
		Short: "Print the number of tokens text encodes to",
		RunE: func(cmd *cobra.Command, args []string) error {
			enc, err := flags.load()
			if err != nil {
				return err
			}
			input, err := readTextInput(text, file)
			if err != nil {
				return err
			}
			tokens, err := enc.Encode(input, parseAllowedSpecial(allowSpecial))
			if err != nil {
				return err
			}
			fmt.Println(len(tokens))
			return nil
		},
	}
	flags.register(cmd)
	cmd.Flags().StringVar(&text, "text", "", "text to count")
	cmd.Flags().StringVar(&file, "file", "", "file to count (defaults to stdin if --text is not set)")
	cmd.Flags().StringVar(&allowSpecial, "allow-special", "none",
		`"all", "none", or a comma-separated list of special tokens to permit`)
	return cmd
}
