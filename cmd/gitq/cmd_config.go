package main

import (
	"fmt"

	"github.com/daios-ai/gitcore"
	"github.com/spf13/cobra"
)

func newConfigCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "config [name]",
		Short: "Show repository configuration",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			repo, err := openRepo(cmd)
			if err != nil {
				return err
			}
			defer repo.Free()

			cfg, err := repo.Config()
			if err != nil {
				return err
			}
			defer cfg.Free()

			out := cmd.OutOrStdout()
			if len(args) == 1 {
				val, err := cfg.String(args[0])
				if err != nil {
					return err
				}
				fmt.Fprintln(out, val)
				return nil
			}

			return cfg.ForEach(func(e gitcore.ConfigEntry) error {
				fmt.Fprintf(out, "%s=%s\n", e.Name, e.Value)
				return nil
			})
		},
	}
	addRepoFlag(cmd)
	return cmd
}
