package main

import (
	"fmt"

	"github.com/4thel00z/tickets/internal"
	"github.com/spf13/cobra"
)

func NewInitCmd(repoSvc *internal.RepositoryService) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "init [directory]",
		Short: "Create an empty repository",
		Long:  `Create an empty git repository with HEAD on main and a default tickets config.`,
		Args:  cobra.MaximumNArgs(1),
		RunE:  makeInitRunner(repoSvc),
	}

	return cmd
}

func makeInitRunner(repoSvc *internal.RepositoryService) func(*cobra.Command, []string) error {
	return func(cmd *cobra.Command, args []string) error {
		dir := repoPath(cmd)
		if len(args) > 0 {
			dir = args[0]
		}
		if dir == "" {
			dir = "."
		}

		scope, err := repoSvc.Init(dir)
		if err != nil {
			return fmt.Errorf("init repository: %w", err)
		}

		if err := internal.SaveConfig(scope, internal.DefaultConfig()); err != nil {
			return fmt.Errorf("save config: %w", err)
		}

		fmt.Fprintf(cmd.OutOrStdout(), "Initialized empty tickets repository in %s\n", scope.GitDir)
		return nil
	}
}
