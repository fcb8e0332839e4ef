package config

import "strings"

const (
	DefaultBaseURL         = "http://127.0.0.1:8000"
	DefaultSuggestionCount = 50
	defaultTitle           = "Cloud Services Chatbot"
)

// DefaultConfig returns a config with sensible defaults.
func DefaultConfig() *Config {
	return &Config{
		Server: ServerConfig{
			BaseURL: DefaultBaseURL,
		},
		Suggestions: SuggestionsConfig{
			Count: DefaultSuggestionCount,
		},
		UI: UIConfig{
			Title: defaultTitle,
		},
		Logging: defaultLoggingConfig(),
	}
}

func defaultLoggingConfig() LoggingConfig {
	enabled := true
	return LoggingConfig{
		Enabled: &enabled,
		Level:   "info",
		File:    "logs/cloudchat.log",
	}
}

func (c *Config) applyDefaults() {
	c.Server.BaseURL = strings.TrimRight(strings.TrimSpace(c.Server.BaseURL), "/")
	if c.Server.BaseURL == "" {
		c.Server.BaseURL = DefaultBaseURL
	}
	if c.Suggestions.Count <= 0 {
		c.Suggestions.Count = DefaultSuggestionCount
	}
	if strings.TrimSpace(c.UI.Title) == "" {
		c.UI.Title = defaultTitle
	}

	def := defaultLoggingConfig()
	if c.Logging == (LoggingConfig{}) {
		c.Logging = def
		return
	}
	if c.Logging.Enabled == nil {
		c.Logging.Enabled = def.Enabled
	}
	if c.Logging.Level == "" {
		c.Logging.Level = def.Level
	}
	if !c.Logging.Stdout && c.Logging.File == "" {
		c.Logging.File = def.File
	}
}
