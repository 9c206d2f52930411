package cmd

import (
	"encoding/json"
	"fmt"

	"github.com/breverdbidder/claude-ai-deployer/internal/deploy"
	"github.com/breverdbidder/claude-ai-deployer/internal/deploylog"
	"github.com/breverdbidder/claude-ai-deployer/internal/githubapi"
	"github.com/breverdbidder/claude-ai-deployer/internal/report"
	"github.com/breverdbidder/claude-ai-deployer/internal/routing"
	"github.com/breverdbidder/claude-ai-deployer/internal/scan"
	"github.com/breverdbidder/claude-ai-deployer/pkg/config"
	"github.com/breverdbidder/claude-ai-deployer/pkg/logger"
	"github.com/spf13/cobra"
)

// deployCmd represents the deploy command
var deployCmd = &cobra.Command{
	Use:   "deploy [dir]",
	Short: "Classify and deploy artifacts from an outputs directory",
	Long: `Scan a directory for deployable files, route each one to its target
repository by filename, and record a replayable deployment log. By default
the run only prepares transport requests; --push sends them immediately.`,
	Args: cobra.MaximumNArgs(1),
	RunE: runDeploy,
}

func init() {
	deployCmd.Flags().String("log", "", "Path for the deployment log (default from config)")
	deployCmd.Flags().String("rules", "", "YAML file with a custom routing table")
	deployCmd.Flags().String("branch", "", "Target branch (default from config)")
	deployCmd.Flags().StringSlice("exclude", nil, "Glob patterns to exclude from the scan")
	deployCmd.Flags().Int("concurrency", 0, "Files processed in parallel (default from config)")
	deployCmd.Flags().Bool("push", false, "Push prepared requests to GitHub immediately")
	deployCmd.Flags().Bool("json", false, "Print the deployment log as JSON instead of the report")
}

func runDeploy(cmd *cobra.Command, args []string) error {
	cfg, err := config.Load()
	if err != nil {
		return err
	}

	if len(args) == 1 {
		cfg.Deploy.OutputsDir = args[0]
	}
	if v, _ := cmd.Flags().GetString("log"); v != "" {
		cfg.Deploy.LogPath = v
	}
	if v, _ := cmd.Flags().GetString("rules"); v != "" {
		cfg.Deploy.RulesFile = v
	}
	if v, _ := cmd.Flags().GetString("branch"); v != "" {
		cfg.GitHub.Branch = v
	}
	if v, _ := cmd.Flags().GetStringSlice("exclude"); len(v) > 0 {
		cfg.Deploy.Exclude = append(cfg.Deploy.Exclude, v...)
	}
	if v, _ := cmd.Flags().GetInt("concurrency"); v > 0 {
		cfg.Deploy.Concurrency = v
	}
	push, _ := cmd.Flags().GetBool("push")
	jsonOutput, _ := cmd.Flags().GetBool("json")

	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("invalid configuration: %w", err)
	}
	if push && cfg.GitHub.Token == "" {
		logger.Warn("Pushing without a token; set GITHUB_TOKEN for authenticated requests")
	}

	router, err := buildRouter(cfg.Deploy.RulesFile)
	if err != nil {
		return err
	}

	client := githubapi.NewContentsClient(cfg.GitHub.APIBase, cfg.GitHub.Owner, cfg.GitHub.Token, cfg.Verify.Timeout)
	scanner := scan.New(cfg.Deploy.OutputsDir, cfg.Deploy.Exclude)
	orchestrator := deploy.New(router, scanner, client, deploy.Options{
		Branch:      cfg.GitHub.Branch,
		Concurrency: cfg.Deploy.Concurrency,
		Push:        push,
	})

	log, err := orchestrator.DeployAll()
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	if jsonOutput {
		data, err := json.MarshalIndent(log, "", "  ")
		if err != nil {
			return err
		}
		fmt.Fprintln(out, string(data))
	} else {
		fmt.Fprintln(out, report.Summary(log))
	}

	if err := deploylog.Save(log, cfg.Deploy.LogPath); err != nil {
		return err
	}
	logger.Info("Deployment log saved", logger.String("path", cfg.Deploy.LogPath))
	return nil
}

// buildRouter compiles the routing table, preferring a user rules file.
func buildRouter(rulesFile string) (*routing.Router, error) {
	rules := routing.DefaultRules()
	if rulesFile != "" {
		loaded, err := routing.LoadRules(rulesFile)
		if err != nil {
			return nil, err
		}
		rules = loaded
	}
	return routing.NewRouter(rules)
}
