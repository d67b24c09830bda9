package main

import (
	"fmt"

	"github.com/4thel00z/tickets/internal"
	"github.com/spf13/cobra"
)

func NewEditCmd(itemSvc *internal.ItemService) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "edit <id>",
		Short: "Edit an item",
		Long: `Change the given fields of an item and keep the others. --unset stores an
explicit null for a field (title, description or kind).`,
		Args: cobra.ExactArgs(1),
		RunE: makeEditRunner(itemSvc),
	}

	cmd.Flags().StringP("title", "t", "", "New title")
	cmd.Flags().StringP("description", "d", "", "New description")
	cmd.Flags().StringP("kind", "k", "", "New kind")
	cmd.Flags().StringSlice("unset", nil, "Fields to set to null")
	return cmd
}

func makeEditRunner(itemSvc *internal.ItemService) func(*cobra.Command, []string) error {
	return func(cmd *cobra.Command, args []string) error {
		in := internal.EditItem{ID: args[0]}

		fields := map[string]*internal.Field{
			"title":       &in.Title,
			"description": &in.Description,
			"kind":        &in.Kind,
		}

		unset, _ := cmd.Flags().GetStringSlice("unset")
		for _, name := range unset {
			f, ok := fields[name]
			if !ok {
				return fmt.Errorf("unknown field %q", name)
			}
			if cmd.Flags().Changed(name) {
				return fmt.Errorf("--%s and --unset %s are mutually exclusive", name, name)
			}
			*f = internal.Null()
		}

		for name, f := range fields {
			if cmd.Flags().Changed(name) {
				v, _ := cmd.Flags().GetString(name)
				*f = internal.Text(v)
			}
		}

		item, err := itemSvc.Edit(cmd.Context(), in, repoPath(cmd))
		if err != nil {
			return fmt.Errorf("edit item: %w", err)
		}

		if wantJSON(cmd) {
			return writeJSON(cmd, item)
		}
		printItemLine(cmd.OutOrStdout(), item)
		return nil
	}
}
