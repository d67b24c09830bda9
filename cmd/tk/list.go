package main

import (
	"errors"
	"fmt"

	"github.com/4thel00z/tickets/internal"
	"github.com/go-git/go-git/v5/plumbing"
	"github.com/spf13/cobra"
)

type listOutput struct {
	Items []internal.Item `json:"items"`
	Next  string          `json:"next,omitempty"`
}

func NewListCmd(itemSvc *internal.ItemService, repoSvc *internal.RepositoryService) *cobra.Command {
	cmd := &cobra.Command{
		Use:     "list",
		Aliases: []string{"ls"},
		Short:   "List items, newest first",
		Long: `List items newest first, one page at a time. When more items exist, the
cursor for the next page is printed; pass it back with --after.`,
		Args: cobra.NoArgs,
		RunE: makeListRunner(itemSvc, repoSvc),
	}

	cmd.Flags().IntP("size", "s", 0, "Page size (defaults to page_size from the config)")
	cmd.Flags().String("after", "", "Cursor to start the page at")
	cmd.Flags().Bool("all", false, "List every item without paging")
	return cmd
}

func makeListRunner(itemSvc *internal.ItemService, repoSvc *internal.RepositoryService) func(*cobra.Command, []string) error {
	return func(cmd *cobra.Command, _ []string) error {
		path := repoPath(cmd)
		size, _ := cmd.Flags().GetInt("size")
		after, _ := cmd.Flags().GetString("after")
		all, _ := cmd.Flags().GetBool("all")

		if cmd.Flags().Changed("size") && size <= 0 {
			return errors.New("size must be a strictly positive number")
		}

		opts := internal.ListOptions{Limit: size}
		if after != "" {
			if !plumbing.IsHash(after) {
				return fmt.Errorf("invalid cursor %q", after)
			}
			opts.Cursor = plumbing.NewHash(after)
		}

		switch {
		case all:
			opts.Limit = 0
		case opts.Limit == 0:
			cfg, _, err := repoSvc.Config(path)
			if err != nil {
				return err
			}
			opts.Limit = cfg.PageSize
		}

		page, err := itemSvc.List(cmd.Context(), opts, path)
		if err != nil {
			return fmt.Errorf("list items: %w", err)
		}

		out := listOutput{Items: page.Results}
		if page.HasNext {
			out.Next = page.Cursor.String()
		}

		if wantJSON(cmd) {
			return writeJSON(cmd, out)
		}

		for _, item := range out.Items {
			printItemLine(cmd.OutOrStdout(), item)
		}
		if out.Next != "" {
			fmt.Fprintln(cmd.ErrOrStderr(), hintStyle.Render("more items: tk list --after "+out.Next))
		}
		return nil
	}
}
