// cloudchat is a terminal client for a cloud services chatbot.
package main

import (
	"fmt"
	"os"

	"github.com/linanwx/cloudchat/cmd"
	"github.com/linanwx/cloudchat/config"
	"github.com/linanwx/cloudchat/logger"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		cfg = config.DefaultConfig()
	}
	dir, _ := config.ConfigDir()
	if err := logger.Init(cfg.BuildLoggerConfig(), dir); err != nil {
		fmt.Fprintln(os.Stderr, "logger init error:", err)
	}
	defer logger.Close()
	cmd.Execute()
}
