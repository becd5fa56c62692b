package main

import (
	"fmt"

	"github.com/daios-ai/gitcore"
	"github.com/spf13/cobra"
)

func newCatFileCmd() *cobra.Command {
	var headerOnly bool

	cmd := &cobra.Command{
		Use:   "cat-file <oid>",
		Short: "Inspect an object by id or abbreviated id",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			repo, err := openRepo(cmd)
			if err != nil {
				return err
			}
			defer repo.Free()

			id, err := resolveOid(repo, args[0])
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			size, typ, err := repo.ReadHeader(id)
			if err != nil {
				return err
			}
			if headerOnly {
				fmt.Fprintf(out, "%s %s %d\n", id, typ, size)
				return nil
			}

			switch typ {
			case gitcore.ObjectBlob:
				blob, err := repo.LookupBlob(id)
				if err != nil {
					return err
				}
				defer blob.Free()
				content, err := blob.Content()
				if err != nil {
					return err
				}
				_, err = out.Write(content)
				return err
			case gitcore.ObjectCommit:
				c, err := repo.LookupCommit(id)
				if err != nil {
					return err
				}
				defer c.Free()
				msg, err := c.Message()
				if err != nil {
					return err
				}
				fmt.Fprint(out, msg)
				return nil
			case gitcore.ObjectTree:
				tree, err := repo.LookupTree(id)
				if err != nil {
					return err
				}
				defer tree.Free()
				return printTree(cmd, tree)
			case gitcore.ObjectTag:
				tag, err := repo.LookupTag(id)
				if err != nil {
					return err
				}
				defer tag.Free()
				name, err := tag.Name()
				if err != nil {
					return err
				}
				target, err := tag.TargetID()
				if err != nil {
					return err
				}
				msg, err := tag.Message()
				if err != nil {
					return err
				}
				fmt.Fprintf(out, "tag %s\nobject %s\n\n%s", name, target, msg)
				return nil
			default:
				return fmt.Errorf("cannot display object of type %s", typ)
			}
		},
	}

	cmd.Flags().BoolVarP(&headerOnly, "header", "s", false, "print type and size only")
	addRepoFlag(cmd)
	return cmd
}

// resolveOid parses hex as a full id, falling back to a prefix lookup for
// abbreviated ids.
func resolveOid(repo *gitcore.Repository, hex string) (gitcore.Oid, error) {
	if id, err := gitcore.ParseOid(hex); err == nil {
		return id, nil
	}
	prefix, err := gitcore.ParseOidPrefix(hex)
	if err != nil {
		return gitcore.Oid{}, err
	}
	c, err := repo.LookupCommitPrefix(prefix)
	if err != nil {
		return gitcore.Oid{}, err
	}
	defer c.Free()
	return c.ID()
}

func printTree(cmd *cobra.Command, tree *gitcore.Tree) error {
	n, err := tree.EntryCount()
	if err != nil {
		return err
	}
	out := cmd.OutOrStdout()
	for i := uint64(0); i < n; i++ {
		e, err := tree.EntryByIndex(i)
		if err != nil {
			return err
		}
		mode, err := e.Filemode()
		if err != nil {
			return err
		}
		typ, err := e.Type()
		if err != nil {
			return err
		}
		id, err := e.ID()
		if err != nil {
			return err
		}
		name, err := e.Name()
		if err != nil {
			return err
		}
		fmt.Fprintf(out, "%06o %s %s\t%s\n", mode, typ, id, name)
	}
	return nil
}
