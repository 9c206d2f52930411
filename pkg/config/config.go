package config

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// Config holds all configuration for aideploy
type Config struct {
	GitHub GitHubConfig `mapstructure:"github"`
	Deploy DeployConfig `mapstructure:"deploy"`
	Verify VerifyConfig `mapstructure:"verify"`
}

// GitHubConfig holds the transport credentials and addressing
type GitHubConfig struct {
	Token   string `mapstructure:"token"`
	APIBase string `mapstructure:"api_base"`
	Owner   string `mapstructure:"owner"`
	Branch  string `mapstructure:"branch"`
}

// DeployConfig holds deployment run options
type DeployConfig struct {
	OutputsDir  string   `mapstructure:"outputs_dir"`
	LogPath     string   `mapstructure:"log_path"`
	RulesFile   string   `mapstructure:"rules_file"`
	Exclude     []string `mapstructure:"exclude"`
	Concurrency int      `mapstructure:"concurrency"`
}

// VerifyConfig holds verification pass options
type VerifyConfig struct {
	Delay      time.Duration `mapstructure:"delay"`
	Timeout    time.Duration `mapstructure:"timeout"`
	ReportPath string        `mapstructure:"report_path"`
}

var defaultConfig = Config{
	GitHub: GitHubConfig{
		APIBase: "https://api.github.com",
		Owner:   "breverdbidder",
		Branch:  "main",
	},
	Deploy: DeployConfig{
		OutputsDir:  "/mnt/user-data/outputs",
		LogPath:     "deployment_log.json",
		Concurrency: 1,
	},
	Verify: VerifyConfig{
		Delay:      2 * time.Second,
		Timeout:    10 * time.Second,
		ReportPath: "verification_report.json",
	},
}

// Load reads configuration from defaults, an optional aideploy.yaml, and
// AIDEPLOY_* environment variables. The GitHub token is additionally bound
// to the conventional GITHUB_TOKEN variable.
func Load() (*Config, error) {
	v := viper.New()

	v.SetDefault("github.api_base", defaultConfig.GitHub.APIBase)
	v.SetDefault("github.owner", defaultConfig.GitHub.Owner)
	v.SetDefault("github.branch", defaultConfig.GitHub.Branch)
	v.SetDefault("deploy.outputs_dir", defaultConfig.Deploy.OutputsDir)
	v.SetDefault("deploy.log_path", defaultConfig.Deploy.LogPath)
	v.SetDefault("deploy.rules_file", "")
	v.SetDefault("deploy.exclude", []string{})
	v.SetDefault("deploy.concurrency", defaultConfig.Deploy.Concurrency)
	v.SetDefault("verify.delay", defaultConfig.Verify.Delay)
	v.SetDefault("verify.timeout", defaultConfig.Verify.Timeout)
	v.SetDefault("verify.report_path", defaultConfig.Verify.ReportPath)

	// Configuration file search paths
	v.SetConfigName("aideploy")
	v.SetConfigType("yaml")
	v.AddConfigPath(".")
	v.AddConfigPath("$HOME")

	// Environment variables
	v.SetEnvPrefix("AIDEPLOY")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
	_ = v.BindEnv("github.token", "AIDEPLOY_GITHUB_TOKEN", "GITHUB_TOKEN")

	// Config file is optional; fall back to defaults when absent
	_ = v.ReadInConfig()

	var config Config
	if err := v.Unmarshal(&config); err != nil {
		return nil, fmt.Errorf("error unmarshaling config: %w", err)
	}

	return &config, nil
}

// Validate checks that the configuration is usable for a run.
func (c *Config) Validate() error {
	if c.GitHub.Owner == "" {
		return errors.New("github.owner must not be empty")
	}
	if c.GitHub.APIBase == "" {
		return errors.New("github.api_base must not be empty")
	}
	if c.GitHub.Branch == "" {
		return errors.New("github.branch must not be empty")
	}
	if c.Deploy.Concurrency < 1 {
		return fmt.Errorf("deploy.concurrency must be at least 1, got %d", c.Deploy.Concurrency)
	}
	if c.Verify.Delay < 0 {
		return errors.New("verify.delay must not be negative")
	}
	return nil
}
