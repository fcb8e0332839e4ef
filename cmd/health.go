package cmd

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/linanwx/cloudchat/config"
	"github.com/linanwx/cloudchat/internal/health"
)

var healthCmd = &cobra.Command{
	Use:   "health",
	Short: "Check the config and whether the backend answers",
	RunE:  runHealth,
}

var healthFormat string

func init() {
	healthCmd.Flags().StringVar(&healthFormat, "format", "yaml", "Output format: yaml or json")
	rootCmd.AddCommand(healthCmd)
}

func runHealth(cmd *cobra.Command, _ []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	configPath, _ := config.ConfigPath()
	api := newClient(cfg)

	snapshot := health.Collect(cmd.Context(), health.Options{
		BaseURL:    api.BaseURL(),
		ConfigPath: configPath,
		LogFile:    cfg.Logging.File,
		Probe:      api,
	})

	var data []byte
	if strings.EqualFold(healthFormat, "json") {
		data, err = json.MarshalIndent(snapshot, "", "  ")
		data = append(data, '\n')
	} else {
		data, err = yaml.Marshal(snapshot)
	}
	if err != nil {
		return fmt.Errorf("failed to serialize health snapshot: %w", err)
	}
	fmt.Fprint(cmd.OutOrStdout(), string(data))
	return nil
}
