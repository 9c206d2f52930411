package cmd

import (
	"encoding/json"
	"fmt"

	"github.com/breverdbidder/claude-ai-deployer/internal/routing"
	"github.com/spf13/cobra"
)

// routesCmd represents the routes command
var routesCmd = &cobra.Command{
	Use:   "routes",
	Short: "Show the routing table in evaluation order",
	Long: `Print the effective routing rules in the order they are evaluated.
Order matters: the first matching rule wins. Use --test to see where a
specific filename would be deployed.`,
	RunE: runRoutes,
}

func init() {
	routesCmd.Flags().String("rules", "", "YAML file with a custom routing table")
	routesCmd.Flags().String("test", "", "Resolve a filename against the table")
	routesCmd.Flags().Bool("json", false, "Output the table as JSON")
}

func runRoutes(cmd *cobra.Command, args []string) error {
	rulesFile, _ := cmd.Flags().GetString("rules")
	testName, _ := cmd.Flags().GetString("test")
	jsonOutput, _ := cmd.Flags().GetBool("json")

	router, err := buildRouter(rulesFile)
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()

	if testName != "" {
		dest := router.Route(testName)
		if jsonOutput {
			data, err := json.MarshalIndent(dest, "", "  ")
			if err != nil {
				return err
			}
			fmt.Fprintln(out, string(data))
			return nil
		}
		fmt.Fprintf(out, "%s -> %s/%s (%s)\n", testName, dest.Repo, dest.Path, dest.Description)
		return nil
	}

	if jsonOutput {
		data, err := json.MarshalIndent(router.Rules(), "", "  ")
		if err != nil {
			return err
		}
		fmt.Fprintln(out, string(data))
		return nil
	}

	for i, rule := range router.Rules() {
		fmt.Fprintf(out, "%2d. %-24s -> %s/%s (%s)\n",
			i+1, rule.Pattern, rule.Destination.Repo, rule.Destination.Path, rule.Destination.Description)
	}
	fmt.Fprintf(out, "    %-24s -> %s/%s (%s)\n",
		"(default)", routing.DefaultDestination.Repo, routing.DefaultDestination.Path, routing.DefaultDestination.Description)
	return nil
}
