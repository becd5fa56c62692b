package main

import (
	"fmt"
	"os"

	"github.com/daios-ai/gitcore"
	"github.com/spf13/cobra"
)

func main() {
	var libPath string

	root := &cobra.Command{
		Use:   "gitq",
		Short: "Read-only git repository inspector backed by libgit2",
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			_, err := gitcore.LoadWith(gitcore.LoadOptions{LibraryPath: libPath})
			return err
		},
	}
	root.PersistentFlags().StringVar(&libPath, "lib", "", "path to the libgit2 shared library")

	root.AddCommand(newVersionCmd())
	root.AddCommand(newHeadCmd())
	root.AddCommand(newLogCmd())
	root.AddCommand(newTagsCmd())
	root.AddCommand(newCatFileCmd())
	root.AddCommand(newConfigCmd())
	root.AddCommand(newStatusCmd())

	err := root.Execute()
	gitcore.Unload()
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

// openRepo opens the repository named by the --repo flag on cmd, or the
// current directory when the flag is unset.
func openRepo(cmd *cobra.Command) (*gitcore.Repository, error) {
	path, _ := cmd.Flags().GetString("repo")
	if path == "" {
		path = "."
	}
	return gitcore.Open(path)
}

func addRepoFlag(cmd *cobra.Command) {
	cmd.Flags().String("repo", "", "path to the repository (default current directory)")
}
