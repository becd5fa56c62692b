package main

import (
	"fmt"
	"time"

	"github.com/daios-ai/gitcore"
	"github.com/spf13/cobra"
)

func newLogCmd() *cobra.Command {
	var oneline bool
	var limit int
	var topo bool

	cmd := &cobra.Command{
		Use:   "log",
		Short: "Walk commit history from HEAD",
		RunE: func(cmd *cobra.Command, args []string) error {
			repo, err := openRepo(cmd)
			if err != nil {
				return err
			}
			defer repo.Free()

			sorting := gitcore.SortTime
			if topo {
				sorting = gitcore.SortTopological
			}

			out := cmd.OutOrStdout()
			shown := 0
			return gitcore.EachCommit(repo, sorting, func(id gitcore.Oid) error {
				if limit > 0 && shown >= limit {
					return gitcore.ErrIterationStop
				}
				shown++

				c, err := repo.LookupCommit(id)
				if err != nil {
					return err
				}
				defer c.Free()

				if oneline {
					summary, err := c.Summary()
					if err != nil {
						return err
					}
					fmt.Fprintf(out, "%s %s\n", id.String()[:8], summary)
					return nil
				}

				author, err := c.Author()
				if err != nil {
					return err
				}
				msg, err := c.Message()
				if err != nil {
					return err
				}
				fmt.Fprintf(out, "commit %s\n", id)
				fmt.Fprintf(out, "Author: %s <%s>\n", author.Name, author.Email)
				fmt.Fprintf(out, "Date:   %s\n", time.Unix(author.Time, 0).Format("2006-01-02 15:04:05"))
				fmt.Fprintf(out, "\n    %s\n\n", msg)
				return nil
			})
		},
	}

	cmd.Flags().BoolVar(&oneline, "oneline", false, "compact one-line format")
	cmd.Flags().IntVarP(&limit, "limit", "n", 20, "maximum number of commits to show")
	cmd.Flags().BoolVar(&topo, "topo", false, "topological order instead of time order")
	addRepoFlag(cmd)
	return cmd
}
