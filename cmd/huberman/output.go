package main

import (
	"fmt"

	"github.com/fatih/color"
	"github.com/urfave/cli/v2"

	"github.com/dshills/huberman-health-mcp/pkg/types"
)

func printResults(c *cli.Context, results []types.SearchResult, mode string) {
	w := c.App.Writer
	boldGreen := color.New(color.FgGreen, color.Bold).SprintFunc()
	boldCyan := color.New(color.FgCyan, color.Bold).SprintFunc()
	faint := color.New(color.Faint).SprintFunc()

	fmt.Fprintf(w, "%s %d results (%s)\n\n", boldGreen("Found"), len(results), mode)
	for _, r := range results {
		fmt.Fprintf(w, "%s %s\n", boldCyan(fmt.Sprintf("%d.", r.Rank)), r.Title)
		fmt.Fprintf(w, "   score %.1f at %s  %s\n", r.RelevanceScore, r.Timestamp, faint(r.URL))
		fmt.Fprintf(w, "   %q\n\n", r.Context)
	}
}
