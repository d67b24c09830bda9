package main

import (
	"fmt"

	"github.com/4thel00z/tickets/internal"
	"github.com/spf13/cobra"
)

func NewSearchCmd(itemSvc *internal.ItemService) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "search <filter>...",
		Short: "Find items matching every filter",
		Long: `Find items matching every filter. A filter is <field><op>[value]:

  kind=bug          equal            kind!=bug     not equal
  title~crash       contains         title!~crash  does not contain
  title<m           sorts before     title>m       sorts after
  description?      has text         description!? has no text
  kind=null         explicit null    kind!=null    not null`,
		Args: cobra.MinimumNArgs(1),
		RunE: makeSearchRunner(itemSvc),
	}

	return cmd
}

func makeSearchRunner(itemSvc *internal.ItemService) func(*cobra.Command, []string) error {
	return func(cmd *cobra.Command, args []string) error {
		items, err := itemSvc.Search(cmd.Context(), args, repoPath(cmd))
		if err != nil {
			return fmt.Errorf("search: %w", err)
		}

		if wantJSON(cmd) {
			return writeJSON(cmd, items)
		}

		if len(items) == 0 {
			fmt.Fprintln(cmd.OutOrStdout(), "No items found.")
			return nil
		}
		for _, item := range items {
			printItemLine(cmd.OutOrStdout(), item)
		}
		return nil
	}
}
