package main

import (
	"fmt"

	"github.com/4thel00z/tickets/internal"
	"github.com/spf13/cobra"
)

func NewShowCmd(itemSvc *internal.ItemService) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "show <id>",
		Short: "Show an item",
		Args:  cobra.ExactArgs(1),
		RunE:  makeShowRunner(itemSvc),
	}

	return cmd
}

func makeShowRunner(itemSvc *internal.ItemService) func(*cobra.Command, []string) error {
	return func(cmd *cobra.Command, args []string) error {
		item, err := itemSvc.Get(cmd.Context(), args[0], repoPath(cmd))
		if err != nil {
			return fmt.Errorf("show item: %w", err)
		}

		if wantJSON(cmd) {
			return writeJSON(cmd, item)
		}
		printItem(cmd.OutOrStdout(), item)
		return nil
	}
}
