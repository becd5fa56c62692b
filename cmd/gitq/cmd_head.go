package main

import (
	"fmt"

	"github.com/spf13/cobra"
)

func newHeadCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "head",
		Short: "Show the HEAD reference and its target",
		RunE: func(cmd *cobra.Command, args []string) error {
			repo, err := openRepo(cmd)
			if err != nil {
				return err
			}
			defer repo.Free()

			head, err := repo.Head()
			if err != nil {
				return err
			}
			defer head.Free()

			name, err := head.Name()
			if err != nil {
				return err
			}
			short, err := head.Shorthand()
			if err != nil {
				return err
			}
			target, err := head.Target()
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "%s (%s)\n", name, short)
			fmt.Fprintf(out, "-> %s\n", target)
			return nil
		},
	}
	addRepoFlag(cmd)
	return cmd
}
