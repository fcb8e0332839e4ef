package cmd

import (
	"fmt"
	"net/url"
	"os"
	"strconv"
	"strings"

	"github.com/charmbracelet/huh"
	"github.com/spf13/cobra"

	"github.com/linanwx/cloudchat/config"
)

var onboardCmd = &cobra.Command{
	Use:   "onboard",
	Short: "Create the cloudchat configuration",
	Long:  `Create the cloudchat configuration directory and config file interactively.`,
	RunE:  runOnboard,
}

func init() {
	rootCmd.AddCommand(onboardCmd)
}

func runOnboard(_ *cobra.Command, _ []string) error {
	configPath, err := config.ConfigPath()
	if err != nil {
		return err
	}
	if _, err := os.Stat(configPath); err == nil {
		fmt.Println("Config already exists at:", configPath)
		fmt.Println("To reconfigure, edit the file directly or delete it first.")
		return nil
	}

	cfg := config.DefaultConfig()
	baseURL := cfg.Server.BaseURL
	count := strconv.Itoa(cfg.Suggestions.Count)
	showLogs := cfg.UI.ShowLogs

	err = huh.NewForm(
		huh.NewGroup(
			huh.NewInput().
				Title("Chatbot backend URL").
				Description("The server answering POST /chat and GET /random_questions.").
				Validate(validateBaseURL).
				Value(&baseURL),
			huh.NewInput().
				Title("Suggested questions per refresh").
				Validate(validateCount).
				Value(&count),
			huh.NewConfirm().
				Title("Show the log panel on start?").
				Description("It can be toggled with ctrl+l at any time.").
				Value(&showLogs),
		),
	).Run()
	if err != nil {
		return err
	}

	cfg.Server.BaseURL = strings.TrimRight(strings.TrimSpace(baseURL), "/")
	cfg.Suggestions.Count, _ = strconv.Atoi(strings.TrimSpace(count))
	cfg.UI.ShowLogs = showLogs

	if err := config.Save(cfg); err != nil {
		return fmt.Errorf("failed to save config: %w", err)
	}

	fmt.Println()
	fmt.Println("cloudchat configured successfully!")
	fmt.Println()
	fmt.Println("  Config:", configPath)
	fmt.Println("  Backend:", cfg.Server.BaseURL)
	fmt.Println()
	fmt.Println("Run 'cloudchat' to start.")
	return nil
}

func validateBaseURL(s string) error {
	u, err := url.Parse(strings.TrimSpace(s))
	if err != nil || (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
		return fmt.Errorf("enter an http:// or https:// URL")
	}
	return nil
}

func validateCount(s string) error {
	n, err := strconv.Atoi(strings.TrimSpace(s))
	if err != nil || n <= 0 {
		return fmt.Errorf("enter a positive number")
	}
	return nil
}
