package main

import (
	"bufio"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"
)

// newReplCmd adapts the teacher's tokenizer_repl into a cobra subcommand:
// a line-at-a-time loop that encodes whatever is typed and prints both the
// token ids and their individual decoded byte values.
func newReplCmd() *cobra.Command {
	var flags encodingFlags
	var allowSpecial string

	cmd := &cobra.Command{
		Use:   "repl",
		Short: "Interactively encode lines of input",
		RunE: func(cmd *cobra.Command, args []string) error {
			enc, err := flags.load()
			if err != nil {
				return err
			}
			allowed := parseAllowedSpecial(allowSpecial)

			reader := bufio.NewReader(os.Stdin)
			for {
				fmt.Print(">>> ")
				line, readErr := reader.ReadString('\n')
				if readErr != nil {
					return nil
				}
				line = strings.Replace(strings.TrimSuffix(line, "\n"), "\\n", "\n", -1)

				tokens, encErr := enc.Encode(line, allowed)
				if encErr != nil {
					fmt.Fprintln(os.Stderr, encErr)
					continue
				}
				fmt.Printf("%v\n", tokens)
				for _, t := range tokens {
					b, decErr := enc.DecodeSingleTokenBytes(t)
					if decErr != nil {
						fmt.Print("|?")
						continue
					}
					fmt.Printf("|%s", b)
				}
				fmt.Println()
			}
		},
	}
	flags.register(cmd)
	cmd.Flags().StringVar(&allowSpecial, "allow-special", "none",
		`"all", "none", or a comma-separated list of special tokens to permit`)
	return cmd
}
