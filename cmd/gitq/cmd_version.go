package main

import (
	"fmt"

	"github.com/daios-ai/gitcore"
	"github.com/spf13/cobra"
)

func newVersionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print the loaded libgit2 version",
		RunE: func(cmd *cobra.Command, args []string) error {
			lib, err := gitcore.Get()
			if err != nil {
				return err
			}
			major, minor, rev := lib.Version()
			fmt.Fprintf(cmd.OutOrStdout(), "libgit2 %d.%d.%d\n", major, minor, rev)
			return nil
		},
	}
}
