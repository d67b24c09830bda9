package main

import (
	"fmt"

	"github.com/4thel00z/tickets/internal"
	"github.com/spf13/cobra"
)

func NewConfigCmd(repoSvc *internal.RepositoryService) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "config",
		Short: "Read and write tickets.yaml",
		Long:  `Read and write the tickets config stored in the git directory.`,
	}

	cmd.AddCommand(
		newConfigGetCmd(repoSvc),
		newConfigSetCmd(repoSvc),
		newConfigListCmd(repoSvc),
	)
	return cmd
}

func newConfigGetCmd(repoSvc *internal.RepositoryService) *cobra.Command {
	return &cobra.Command{
		Use:   "get <key>",
		Short: "Print a config value",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, _, err := repoSvc.Config(repoPath(cmd))
			if err != nil {
				return err
			}
			v, err := cfg.Get(args[0])
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), v)
			return nil
		},
	}
}

func newConfigSetCmd(repoSvc *internal.RepositoryService) *cobra.Command {
	return &cobra.Command{
		Use:   "set <key> <value>",
		Short: "Change a config value",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			return repoSvc.SetConfig(args[0], args[1], repoPath(cmd))
		},
	}
}

func newConfigListCmd(repoSvc *internal.RepositoryService) *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "Print every config value",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, _, err := repoSvc.Config(repoPath(cmd))
			if err != nil {
				return err
			}

			if wantJSON(cmd) {
				values := make(map[string]string)
				for _, key := range internal.ConfigKeys() {
					values[key], _ = cfg.Get(key)
				}
				return writeJSON(cmd, values)
			}

			for _, key := range internal.ConfigKeys() {
				v, _ := cfg.Get(key)
				fmt.Fprintf(cmd.OutOrStdout(), "%s=%s\n", key, v)
			}
			return nil
		},
	}
}
