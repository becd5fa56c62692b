package main

import (
	"fmt"

	"github.com/daios-ai/gitcore"
	"github.com/spf13/cobra"
)

func newTagsCmd() *cobra.Command {
	var long bool

	cmd := &cobra.Command{
		Use:   "tags",
		Short: "List tags",
		RunE: func(cmd *cobra.Command, args []string) error {
			repo, err := openRepo(cmd)
			if err != nil {
				return err
			}
			defer repo.Free()

			out := cmd.OutOrStdout()
			return gitcore.EachTag(repo, func(name string, id gitcore.Oid) error {
				if long {
					fmt.Fprintf(out, "%s %s\n", id, name)
				} else {
					fmt.Fprintln(out, name)
				}
				return nil
			})
		},
	}

	cmd.Flags().BoolVar(&long, "long", false, "include the tagged object id")
	addRepoFlag(cmd)
	return cmd
}
