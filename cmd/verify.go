package cmd

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/breverdbidder/claude-ai-deployer/internal/deploylog"
	"github.com/breverdbidder/claude-ai-deployer/internal/githubapi"
	"github.com/breverdbidder/claude-ai-deployer/internal/report"
	"github.com/breverdbidder/claude-ai-deployer/internal/verify"
	"github.com/breverdbidder/claude-ai-deployer/pkg/config"
	"github.com/breverdbidder/claude-ai-deployer/pkg/logger"
	"github.com/spf13/cobra"
)

// verifyCmd represents the verify command
var verifyCmd = &cobra.Command{
	Use:   "verify",
	Short: "Verify a saved deployment log against GitHub",
	Long: `Replay a deployment log and query GitHub for each target path. Only an
exact "found" counts as verified; not-found, rate limits, and network errors
all read as unverified. The command exits non-zero when any entry fails and
aborts when the log itself is missing or malformed.`,
	RunE: runVerify,
}

func init() {
	verifyCmd.Flags().String("log", "", "Path of the deployment log to verify (default from config)")
	verifyCmd.Flags().String("report", "", "Path for the verification report (default from config)")
	verifyCmd.Flags().Bool("json", false, "Print the verification results as JSON instead of the summary")
}

func runVerify(cmd *cobra.Command, args []string) error {
	cfg, err := config.Load()
	if err != nil {
		return err
	}

	if v, _ := cmd.Flags().GetString("log"); v != "" {
		cfg.Deploy.LogPath = v
	}
	if v, _ := cmd.Flags().GetString("report"); v != "" {
		cfg.Verify.ReportPath = v
	}
	jsonOutput, _ := cmd.Flags().GetBool("json")

	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("invalid configuration: %w", err)
	}

	// A missing or malformed log is fatal: there is nothing to verify.
	log, err := deploylog.Load(cfg.Deploy.LogPath)
	if err != nil {
		return err
	}
	logger.Info("Verifying deployments",
		logger.String("log", cfg.Deploy.LogPath),
		logger.Int("entries", len(log.Deployments)))

	client := githubapi.NewContentsClient(cfg.GitHub.APIBase, cfg.GitHub.Owner, cfg.GitHub.Token, cfg.Verify.Timeout)
	verifier := verify.New(client, cfg.Verify.Delay)
	summary := verifier.VerifyAll(log)

	out := cmd.OutOrStdout()
	if jsonOutput {
		data, err := json.MarshalIndent(summary, "", "  ")
		if err != nil {
			return err
		}
		fmt.Fprintln(out, string(data))
	} else {
		fmt.Fprintln(out, report.VerificationSummary(summary))
	}

	rep := &report.VerificationReport{Timestamp: time.Now().UTC().Format(time.RFC3339), Results: summary}
	if err := report.SaveVerification(rep, cfg.Verify.ReportPath); err != nil {
		return err
	}
	logger.Info("Verification report saved", logger.String("path", cfg.Verify.ReportPath))

	if summary.Failed > 0 {
		return fmt.Errorf("%w: %d of %d deployments not found", errVerificationFailed, summary.Failed, summary.Total)
	}
	return nil
}
