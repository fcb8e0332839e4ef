// Package config handles configuration loading and saving.
package config

import (
	"fmt"
	"net/url"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/linanwx/cloudchat/logger"
)

const (
	configFileName = "config.yaml"
	configDirName  = ".cloudchat"
	configDirEnv   = "CLOUDCHAT_CONFIG_DIR"
)

var configDirOverride string

// SetConfigDir overrides the config directory for the current process.
// Empty value clears the override.
func SetConfigDir(dir string) {
	configDirOverride = strings.TrimSpace(dir)
}

// Config is the root configuration structure.
type Config struct {
	Server      ServerConfig      `json:"server" yaml:"server"`
	Chat        ChatConfig        `json:"chat,omitempty" yaml:"chat,omitempty"`
	Suggestions SuggestionsConfig `json:"suggestions,omitempty" yaml:"suggestions,omitempty"`
	UI          UIConfig          `json:"ui,omitempty" yaml:"ui,omitempty"`
	Logging     LoggingConfig     `json:"logging,omitempty" yaml:"logging,omitempty"`
}

// ServerConfig locates the chatbot backend.
type ServerConfig struct {
	BaseURL string `json:"baseURL" yaml:"baseURL" env:"CLOUDCHAT_BASE_URL"` // defaults to http://127.0.0.1:8000
}

// ChatConfig tunes chat submissions.
type ChatConfig struct {
	Timeout time.Duration `json:"timeout,omitempty" yaml:"timeout,omitempty" env:"CLOUDCHAT_CHAT_TIMEOUT"` // 0 = wait forever
}

// SuggestionsConfig tunes the suggested-question clouds.
type SuggestionsConfig struct {
	Count int `json:"count,omitempty" yaml:"count,omitempty" env:"CLOUDCHAT_SUGGESTION_COUNT"` // defaults to 50
}

// UIConfig contains terminal UI options.
type UIConfig struct {
	Title    string `json:"title,omitempty" yaml:"title,omitempty"`
	ShowLogs bool   `json:"showLogs,omitempty" yaml:"showLogs,omitempty"`
}

// LoggingConfig contains logging configuration.
type LoggingConfig struct {
	Enabled *bool  `json:"enabled,omitempty" yaml:"enabled,omitempty"`
	Level   string `json:"level,omitempty" yaml:"level,omitempty" env:"CLOUDCHAT_LOG_LEVEL"` // debug, info, warn, error
	Stdout  bool   `json:"stdout,omitempty" yaml:"stdout,omitempty"`
	File    string `json:"file,omitempty" yaml:"file,omitempty"` // relative to the config dir
}

// ConfigDir returns the directory holding config.yaml.
func ConfigDir() (string, error) {
	if configDirOverride != "" {
		return configDirOverride, nil
	}
	if dir := strings.TrimSpace(os.Getenv(configDirEnv)); dir != "" {
		return dir, nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("failed to resolve home dir: %w", err)
	}
	return filepath.Join(home, configDirName), nil
}

// ConfigPath returns the full path of config.yaml.
func ConfigPath() (string, error) {
	dir, err := ConfigDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, configFileName), nil
}

// Validate reports configuration values that cannot work.
func (c *Config) Validate() error {
	u, err := url.Parse(c.Server.BaseURL)
	if err != nil {
		return fmt.Errorf("invalid server.baseURL %q: %w", c.Server.BaseURL, err)
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return fmt.Errorf("invalid server.baseURL %q: scheme must be http or https", c.Server.BaseURL)
	}
	if u.Host == "" {
		return fmt.Errorf("invalid server.baseURL %q: missing host", c.Server.BaseURL)
	}
	if c.Chat.Timeout < 0 {
		return fmt.Errorf("chat.timeout must not be negative, got %s", c.Chat.Timeout)
	}
	return nil
}

// BuildLoggerConfig converts the logging section into logger settings.
func (c *Config) BuildLoggerConfig() logger.Config {
	enabled := true
	if c.Logging.Enabled != nil {
		enabled = *c.Logging.Enabled
	}
	return logger.Config{
		Enabled: enabled,
		Level:   c.Logging.Level,
		Stdout:  c.Logging.Stdout,
		File:    c.Logging.File,
	}
}
