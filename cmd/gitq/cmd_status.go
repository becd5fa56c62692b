package main

import (
	"fmt"

	"github.com/daios-ai/gitcore"
	"github.com/spf13/cobra"
)

func newStatusCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "status",
		Short: "Show working tree status",
		RunE: func(cmd *cobra.Command, args []string) error {
			repo, err := openRepo(cmd)
			if err != nil {
				return err
			}
			defer repo.Free()

			list, err := gitcore.NewStatusList(repo)
			if err != nil {
				return err
			}
			defer list.Free()

			entries, err := list.Entries()
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			if len(entries) == 0 {
				fmt.Fprintln(out, "clean")
				return nil
			}
			for _, e := range entries {
				path := ""
				if delta, ok, err := e.IndexToWorkdir(); err == nil && ok {
					path = delta.NewFile.Path
				} else if delta, ok, err := e.HeadToIndex(); err == nil && ok {
					path = delta.NewFile.Path
				}
				fmt.Fprintf(out, "%08x %s\n", e.Status, path)
			}
			return nil
		},
	}
	addRepoFlag(cmd)
	return cmd
}
