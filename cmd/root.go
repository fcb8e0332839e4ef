// Package cmd implements the cloudchat command line.
package cmd

import (
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/linanwx/cloudchat/config"
	"github.com/linanwx/cloudchat/logger"
)

var rootCmd = &cobra.Command{
	Use:   "cloudchat",
	Short: "Terminal client for the cloud services chatbot",
	Long: `cloudchat talks to a chatbot backend over HTTP.

Run without a subcommand to open the chat screen. Suggested questions float
across the top; press tab to pick one and enter to ask it, or click it.

Examples:
  cloudchat                                  # open the chat screen
  cloudchat ask -m "What is object storage?" # one question, print the answer
  cloudchat questions -n 5                   # print five suggested questions
  cloudchat --base-url http://10.0.0.5:8000  # use another backend`,
	SilenceUsage:      true,
	SilenceErrors:     true,
	PersistentPreRunE: applyGlobalFlags,
	RunE:              runChat,
}

var (
	configDirFlag string
	baseURLFlag   string
)

func init() {
	rootCmd.PersistentFlags().StringVar(&configDirFlag, "config-dir", "", "Config directory (default ~/.cloudchat)")
	rootCmd.PersistentFlags().StringVar(&baseURLFlag, "base-url", "", "Chatbot backend URL (overrides config)")
}

// Execute runs the root command.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

// applyGlobalFlags points config and logging at --config-dir when given.
func applyGlobalFlags(_ *cobra.Command, _ []string) error {
	dir := strings.TrimSpace(configDirFlag)
	if dir == "" {
		return nil
	}
	config.SetConfigDir(dir)

	cfg, err := config.Load()
	if err != nil {
		cfg = config.DefaultConfig()
	}
	if err := logger.Init(cfg.BuildLoggerConfig(), dir); err != nil {
		fmt.Fprintln(os.Stderr, "logger init error:", err)
	}
	return nil
}

// loadConfig loads the config and applies --base-url.
func loadConfig() (*config.Config, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}
	if u := strings.TrimSpace(baseURLFlag); u != "" {
		cfg.Server.BaseURL = strings.TrimRight(u, "/")
		if err := cfg.Validate(); err != nil {
			return nil, err
		}
	}
	return cfg, nil
}
