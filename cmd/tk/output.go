package main

import (
	"encoding/json"
	"fmt"
	"io"

	"github.com/4thel00z/tickets/internal"
	"github.com/charmbracelet/lipgloss"
	"github.com/spf13/cobra"
)

var (
	idStyle    = lipgloss.NewStyle().Underline(true)
	kindStyle  = lipgloss.NewStyle().Italic(true)
	labelStyle = lipgloss.NewStyle().Bold(true)
	hintStyle  = lipgloss.NewStyle().Faint(true)
)

func writeJSON(cmd *cobra.Command, v any) error {
	enc := json.NewEncoder(cmd.OutOrStdout())
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

func wantJSON(cmd *cobra.Command) bool {
	asJSON, _ := cmd.Flags().GetBool("json")
	return asJSON
}

func repoPath(cmd *cobra.Command) string {
	path, _ := cmd.Flags().GetString("path")
	return path
}

// printItemLine writes "id<TAB>kind<TAB>title".
func printItemLine(w io.Writer, item internal.Item) {
	fmt.Fprintf(w, "%s\t%s\t%s\n",
		idStyle.Render(item.ID),
		kindStyle.Render(fieldText(item.Kind)),
		fieldText(item.Title),
	)
}

func printItem(w io.Writer, item internal.Item) {
	fmt.Fprintf(w, "%s %s\n", labelStyle.Render("id:         "), item.ID)
	fmt.Fprintf(w, "%s %s\n", labelStyle.Render("title:      "), fieldText(item.Title))
	fmt.Fprintf(w, "%s %s\n", labelStyle.Render("kind:       "), fieldText(item.Kind))
	fmt.Fprintf(w, "%s %s\n", labelStyle.Render("description:"), fieldText(item.Description))
}

// fieldText renders absent and null fields as "-".
func fieldText(f internal.Field) string {
	if v, ok := f.Value(); ok {
		return v
	}
	return "-"
}
