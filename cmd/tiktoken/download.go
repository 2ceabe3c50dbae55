package main

import (
	"fmt"

	"github.com/spf13/cobra"
)

func newDownloadCmd() *cobra.Command {
	var flags encodingFlags

	cmd := &cobra.Command{
		Use:   "download",
		Short: "Fetch and cache an encoding's vocabulary ahead of time",
		RunE: func(cmd *cobra.Command, args []string) error {
			enc, err := flags.load()
			if err != nil {
				return err
			}
			fmt.Printf("%s ready: %d vocabulary entries, max token value %d\n",
				enc.Name(), enc.NVocab(), enc.MaxTokenValue())
			return nil
		},
	}
	flags.register(cmd)
	return cmd
}
