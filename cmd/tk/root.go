package main

import (
	"log/slog"

	"github.com/spf13/cobra"
)

func NewRootCmd(version string, a *app) *cobra.Command {
	rootCmd := &cobra.Command{
		Use:           "tk",
		Short:         "Git-backed ticket tracker",
		Long:          `Track issues, features and bugs as items stored on a dedicated git ref, next to your code.`,
		Version:       version,
		SilenceErrors: true,
		SilenceUsage:  true,
		Run: func(cmd *cobra.Command, _ []string) {
			_ = cmd.Help()
		},
	}

	addPersistentFlags(rootCmd)

	if a != nil {
		rootCmd.PersistentPreRun = func(cmd *cobra.Command, _ []string) {
			if verbose, _ := cmd.Flags().GetBool("verbose"); verbose {
				a.level.Set(slog.LevelDebug)
			}
		}
		addSubcommands(rootCmd, a)
	}

	return rootCmd
}

func addPersistentFlags(cmd *cobra.Command) {
	cmd.PersistentFlags().StringP("path", "C", "", "Run as if tk was started in this directory")
	cmd.PersistentFlags().Bool("json", false, "Output in JSON format")
	cmd.PersistentFlags().BoolP("verbose", "v", false, "Log repository operations to stderr")
}

func addSubcommands(root *cobra.Command, a *app) {
	root.AddCommand(
		NewInitCmd(a.repoSvc),
		NewCloneCmd(a.repoSvc),
		NewAddCmd(a.itemSvc),
		NewEditCmd(a.itemSvc),
		NewShowCmd(a.itemSvc),
		NewListCmd(a.itemSvc, a.repoSvc),
		NewSearchCmd(a.itemSvc),
		NewLogCmd(a.historySvc),
		NewWatchCmd(a.resolver, a.historySvc, a.repoSvc),
		NewConfigCmd(a.repoSvc),
	)
}
