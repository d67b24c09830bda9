package main

import (
	"fmt"

	"github.com/4thel00z/tickets/internal"
	"github.com/spf13/cobra"
)

func NewLogCmd(historySvc *internal.HistoryService) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "log [revision]",
		Short: "Show commit history",
		Long:  `Show the commit history of HEAD, of a revision, or with --items of the item ref.`,
		Args:  cobra.MaximumNArgs(1),
		RunE:  makeLogRunner(historySvc),
	}

	cmd.Flags().IntP("number", "n", 10, "Limit number of commits")
	cmd.Flags().Bool("items", false, "Show the history of the item ref")
	cmd.Flags().Bool("oneline", false, "Show each commit on one line")
	return cmd
}

func makeLogRunner(historySvc *internal.HistoryService) func(*cobra.Command, []string) error {
	return func(cmd *cobra.Command, args []string) error {
		limit, _ := cmd.Flags().GetInt("number")
		items, _ := cmd.Flags().GetBool("items")
		oneline, _ := cmd.Flags().GetBool("oneline")

		var (
			page *internal.Page[internal.Commit]
			err  error
		)
		if items {
			page, err = historySvc.Items(cmd.Context(), limit, repoPath(cmd))
		} else {
			opts := internal.CommitLogOptions{Depth: limit}
			if len(args) > 0 {
				opts.Ref = args[0]
			}
			page, err = historySvc.Log(cmd.Context(), opts, repoPath(cmd))
		}
		if err != nil {
			return fmt.Errorf("get log: %w", err)
		}

		if wantJSON(cmd) {
			return outputCommitsJSON(cmd, page.Results)
		}

		for _, c := range page.Results {
			hash := c.Hash.String()
			if oneline {
				fmt.Fprintf(cmd.OutOrStdout(), "%s %s\n", hash[:7], c.Message)
			} else {
				fmt.Fprintf(cmd.OutOrStdout(), "commit %s\n", hash)
				fmt.Fprintf(cmd.OutOrStdout(), "Author: %s <%s>\n", c.Author, c.Email)
				fmt.Fprintf(cmd.OutOrStdout(), "Date:   %s\n\n", c.Timestamp.Format("Mon Jan 2 15:04:05 2006 -0700"))
				fmt.Fprintf(cmd.OutOrStdout(), "    %s\n\n", c.Message)
			}
		}
		return nil
	}
}

func outputCommitsJSON(cmd *cobra.Command, commits []internal.Commit) error {
	out := make([]map[string]any, 0, len(commits))
	for _, c := range commits {
		out = append(out, map[string]any{
			"hash":      c.Hash.String(),
			"message":   c.Message,
			"author":    c.Author,
			"timestamp": c.Timestamp,
		})
	}

	return writeJSON(cmd, out)
}
