package cmd

import (
	"encoding/json"
	"fmt"
	"os"
	"sort"
	"strings"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/chukul/sagectl/internal"
	"github.com/chukul/sagectl/internal/ui"
)

var describeJSON bool

var describeCmd = &cobra.Command{
	Use:   "describe [endpoint-name]",
	Short: "Show details, failure reason and tags of one endpoint",
	Long: `Show details of one SageMaker endpoint, including the failure reason and tags.

Without a name an interactive picker lists the endpoints from the cached listing.`,
	Args: cobra.MaximumNArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		a, err := setup(os.Stderr)
		if err != nil {
			exitWithError(err)
		}
		ctx := cmd.Context()

		var name string
		if len(args) > 0 {
			name = args[0]
		} else {
			if !internal.IsTerminal(os.Stdin) {
				exitWithError(fmt.Errorf("endpoint name is required when not running in a terminal"))
			}
			listing, err := ui.Spin("Fetching endpoints...", func() (*internal.Listing, error) {
				return a.cache.GetListing(ctx)
			})
			if err != nil {
				exitWithError(err)
			}
			if len(listing.Endpoints) == 0 {
				fmt.Println("ℹ️  " + ui.EmptyMessage)
				return
			}
			name, err = ui.SelectEndpoint("Select an endpoint", listing)
			if err != nil {
				exitWithError(err)
			}
			if name == "" {
				return
			}
		}

		sess, err := a.provider.Session(ctx)
		if err != nil {
			exitWithError(err)
		}
		ep, err := a.fetcher.DescribeEndpoint(ctx, sess, name)
		if err != nil {
			exitWithError(err)
		}

		if describeJSON {
			data, _ := json.MarshalIndent(ep, "", "  ")
			fmt.Println(string(data))
			return
		}
		printEndpoint(ep)
	},
}

func init() {
	describeCmd.Flags().BoolVar(&describeJSON, "json", false, "Output the endpoint as JSON")
	rootCmd.AddCommand(describeCmd)
}

func printEndpoint(ep *internal.Endpoint) {
	label := color.New(color.FgCyan, color.Bold).SprintFunc()
	field := func(name, value string) {
		fmt.Printf("%s %s\n", label(fmt.Sprintf("%-16s", name+":")), value)
	}

	field("Name", ep.Name)
	field("ARN", ep.Arn)
	field("Status", statusColor(string(ep.Status))(string(ep.Status)))
	field("Created", internal.FormatIn(ep.CreationTime, nil))
	field("Last Modified", internal.FormatIn(ep.LastModifiedTime, nil))
	if ep.FailureReason != "" {
		field("Failure Reason", color.RedString(ep.FailureReason))
	}

	if len(ep.Tags) == 0 {
		return
	}
	keys := make([]string, 0, len(ep.Tags))
	for k := range ep.Tags {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	fmt.Println(label("Tags:"))
	fmt.Println(strings.Repeat("-", 40))
	for _, k := range keys {
		fmt.Printf("  %s = %s\n", k, ep.Tags[k])
	}
}
