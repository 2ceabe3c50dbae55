package main

import (
	"os"
	"sort"
	"strings"

	"github.com/olekukonko/tablewriter"
	"github.com/spf13/cobra"

	"github.com/tiktoken-go/tiktoken"
)

func newInfoCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "info",
		Short: "List the standard encodings and their special tokens",
		RunE: func(cmd *cobra.Command, args []string) error {
			defs := tiktoken.StandardEncodings()
			names := make([]string, 0, len(defs))
			for name := range defs {
				names = append(names, string(name))
			}
			sort.Strings(names)

			table := tablewriter.NewWriter(os.Stdout)
			table.SetHeader([]string{"Encoding", "Special Tokens", "Vocab URL"})
			for _, name := range names {
				def := defs[tiktoken.Encoding(name)]
				markers := make([]string, 0, len(def.Specials))
				for marker := range def.Specials {
					markers = append(markers, marker)
				}
				sort.Strings(markers)
				url := def.VocabURL
				if url == "" {
					url = def.LegacyVocabBPEURL
				}
				table.Append([]string{name, strings.Join(markers, ", "), url})
			}
			table.Render()
			return nil
		},
	}
	return cmd
}
