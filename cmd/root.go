package cmd

import (
	"errors"
	"os"

	"github.com/breverdbidder/claude-ai-deployer/internal/deploylog"
	"github.com/breverdbidder/claude-ai-deployer/pkg/buildinfo"
	"github.com/breverdbidder/claude-ai-deployer/pkg/exitcode"
	"github.com/breverdbidder/claude-ai-deployer/pkg/logger"
	"github.com/spf13/cobra"
)

// errVerificationFailed signals that the run completed but at least one
// deployment did not verify; Execute maps it to a dedicated exit code.
var errVerificationFailed = errors.New("verification failed")

// newRootCommand creates a fresh root command instance.
// This factory pattern allows tests to create isolated command trees without shared state.
func newRootCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "aideploy",
		Short: "Publish generated artifacts into GitHub repositories",
		Long: `aideploy scans an outputs directory, classifies each file by name
against an ordered routing table, and publishes it to the matching GitHub
repository via the contents API. Every run produces a replayable deployment
log; a later verify pass checks that each logged path actually exists.

Examples:
   aideploy deploy              # Prepare deployments from the outputs dir
   aideploy deploy --push       # Prepare and push immediately
   aideploy verify              # Verify a saved deployment log
   aideploy routes --test x.py  # Show where a filename would land`,
		SilenceUsage: true,
		PersistentPreRun: func(cmd *cobra.Command, _ []string) {
			initializeLogger(cmd)
		},
	}

	// Add global flags
	cmd.PersistentFlags().String("log-level", "info", "Set log level (debug|info|warn|error)")
	cmd.PersistentFlags().Bool("json-logs", false, "Output logs in JSON format")
	cmd.PersistentFlags().Bool("no-color", false, "Disable colored output")

	// Wire Cobra's built-in --version
	cmd.Version = buildinfo.BinaryVersion
	cmd.SetVersionTemplate("aideploy {{.Version}}\n")

	return cmd
}

// registerSubcommands adds all subcommands to the root command.
func registerSubcommands(cmd *cobra.Command) {
	cmd.AddCommand(deployCmd)
	cmd.AddCommand(verifyCmd)
	cmd.AddCommand(routesCmd)
	cmd.AddCommand(versionCmd)
}

// rootCmd represents the base command when called without any subcommands
var rootCmd = newRootCommand()

// Execute runs the root command and maps errors to process exit codes.
// This is called by main.main().
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		code := exitcode.GeneralError
		switch {
		case errors.Is(err, deploylog.ErrLogNotFound):
			code = exitcode.MissingLog
		case errors.Is(err, errVerificationFailed):
			code = exitcode.VerificationFailed
		}
		logger.Error("Command execution failed", logger.Err(err))
		os.Exit(code)
	}
}

func initializeLogger(cmd *cobra.Command) {
	logLevelStr, _ := cmd.Flags().GetString("log-level")
	jsonLogs, _ := cmd.Flags().GetBool("json-logs")
	noColor, _ := cmd.Flags().GetBool("no-color")

	logger.Initialize(logger.Config{
		Level:     logger.ParseLevel(logLevelStr),
		UseColor:  !noColor,
		JSON:      jsonLogs,
		Component: "aideploy",
	})
}

func init() {
	registerSubcommands(rootCmd)
}
