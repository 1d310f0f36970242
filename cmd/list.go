package cmd

import (
	"encoding/json"
	"fmt"
	"os"
	"strings"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/chukul/sagectl/internal"
	"github.com/chukul/sagectl/internal/ui"
)

var listJSON bool

var listCmd = &cobra.Command{
	Use:   "list",
	Short: "Print deployed SageMaker endpoints once",
	Run: func(cmd *cobra.Command, args []string) {
		a, err := setup(os.Stderr)
		if err != nil {
			exitWithError(err)
		}

		load := func() (*internal.View, error) { return a.cache.View(cmd.Context()) }

		var v *internal.View
		if internal.IsTerminal(os.Stderr) && !listJSON {
			v, err = ui.Spin("Fetching endpoints...", load)
		} else {
			v, err = load()
		}
		if err != nil {
			exitWithError(err)
		}

		if listJSON {
			enc := json.NewEncoder(os.Stdout)
			enc.SetIndent("", "  ")
			if err := enc.Encode(v.Listing); err != nil {
				exitWithError(err)
			}
			return
		}

		if v.Empty {
			fmt.Println("ℹ️  " + ui.EmptyMessage)
			return
		}
		printTable(v.Table)
	},
}

func init() {
	listCmd.Flags().BoolVar(&listJSON, "json", false, "Output the raw listing as JSON for automation")
	rootCmd.AddCommand(listCmd)
}

func printTable(t *internal.Table) {
	const maxWidth = 72

	widths := make([]int, len(t.Columns))
	for i, c := range t.Columns {
		widths[i] = len(c)
	}
	for _, r := range t.Rows {
		for i, cell := range t.Cells(r) {
			if l := len(cell); l > widths[i] {
				widths[i] = min(l, maxWidth)
			}
		}
	}

	// Pad before coloring so escape codes do not count towards the width.
	header := color.New(color.FgCyan, color.Bold).SprintFunc()
	var cols []string
	for i, c := range t.Columns {
		cols = append(cols, header(fmt.Sprintf("%-*s", widths[i], c)))
	}
	fmt.Println(strings.Join(cols, "  "))

	total := 2 * (len(widths) - 1)
	for _, w := range widths {
		total += w
	}
	fmt.Println(strings.Repeat("-", total))

	for _, r := range t.Rows {
		cells := t.Cells(r)
		line := make([]string, len(cells))
		for i, cell := range cells {
			padded := fmt.Sprintf("%-*s", widths[i], truncateText(cell, widths[i]))
			if t.Columns[i] == internal.ColumnEndpointStatus {
				padded = statusColor(cell)(padded)
			}
			line[i] = padded
		}
		fmt.Println(strings.Join(line, "  "))
	}
}

func statusColor(status string) func(a ...interface{}) string {
	switch status {
	case "InService":
		return color.New(color.FgGreen).SprintFunc()
	case "Failed", "OutOfService", "RollingBack":
		return color.New(color.FgRed).SprintFunc()
	default:
		return color.New(color.FgYellow).SprintFunc()
	}
}
