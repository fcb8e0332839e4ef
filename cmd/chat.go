package cmd

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/linanwx/cloudchat/logger"
	"github.com/linanwx/cloudchat/tui"
)

var chatCmd = &cobra.Command{
	Use:   "chat",
	Short: "Open the chat screen (default command)",
	RunE:  runChat,
}

func init() {
	rootCmd.AddCommand(chatCmd)
}

func runChat(_ *cobra.Command, _ []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	container, closeBus := buildContainer(cfg)
	defer closeBus()

	logger.Info("chat started", "backend", cfg.Server.BaseURL)
	err = tui.Run(ctx, container, tui.Options{
		Title:    cfg.UI.Title,
		ShowLogs: cfg.UI.ShowLogs,
	})
	logger.Info("chat closed")
	return err
}
