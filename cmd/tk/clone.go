package main

import (
	"fmt"
	"path"
	"strings"

	"github.com/4thel00z/tickets/internal"
	"github.com/spf13/cobra"
)

func NewCloneCmd(repoSvc *internal.RepositoryService) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "clone <url> [directory]",
		Short: "Clone a repository together with its items",
		Long:  `Clone a repository and fetch the refs/tickets/* namespace a plain git clone leaves behind.`,
		Args:  cobra.RangeArgs(1, 2),
		RunE:  makeCloneRunner(repoSvc),
	}

	return cmd
}

func makeCloneRunner(repoSvc *internal.RepositoryService) func(*cobra.Command, []string) error {
	return func(cmd *cobra.Command, args []string) error {
		url := args[0]
		dir := cloneDir(url)
		if len(args) > 1 {
			dir = args[1]
		}

		scope, err := repoSvc.Clone(cmd.Context(), url, dir)
		if err != nil {
			return err
		}

		fmt.Fprintf(cmd.OutOrStdout(), "Cloned %s into %s\n", url, scope.Path)
		return nil
	}
}

// cloneDir derives the target directory the way git does: the last path
// element without a .git suffix.
func cloneDir(url string) string {
	name := path.Base(strings.TrimRight(url, "/"))
	if i := strings.LastIndex(name, ":"); i >= 0 {
		name = name[i+1:]
	}
	return strings.TrimSuffix(name, ".git")
}
