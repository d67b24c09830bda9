package main

import (
	"fmt"

	"github.com/4thel00z/tickets/internal"
	"github.com/spf13/cobra"
)

func NewAddCmd(itemSvc *internal.ItemService) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "add <title>",
		Short: "Add an item",
		Long:  `Add a new item. Without --kind the configured default kind is used.`,
		Args:  cobra.ExactArgs(1),
		RunE:  makeAddRunner(itemSvc),
	}

	cmd.Flags().StringP("description", "d", "", "Item description")
	cmd.Flags().StringP("kind", "k", "", "Item kind, e.g. issue, bug or feature")
	return cmd
}

func makeAddRunner(itemSvc *internal.ItemService) func(*cobra.Command, []string) error {
	return func(cmd *cobra.Command, args []string) error {
		in := internal.AddItem{Title: internal.Text(args[0])}
		if cmd.Flags().Changed("description") {
			v, _ := cmd.Flags().GetString("description")
			in.Description = internal.Text(v)
		}
		if cmd.Flags().Changed("kind") {
			v, _ := cmd.Flags().GetString("kind")
			in.Kind = internal.Text(v)
		}

		item, err := itemSvc.Add(cmd.Context(), in, repoPath(cmd))
		if err != nil {
			return fmt.Errorf("add item: %w", err)
		}

		if wantJSON(cmd) {
			return writeJSON(cmd, item)
		}
		printItemLine(cmd.OutOrStdout(), item)
		return nil
	}
}
