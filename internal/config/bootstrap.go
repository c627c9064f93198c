package config

import (
	"fmt"
	"os"
)

// Bootstrap writes a default config at path. It refuses to overwrite an
// existing file.
func Bootstrap(path string) (*Config, error) {
	if _, err := os.Stat(path); err == nil {
		return nil, fmt.Errorf("config already exists at %s", path)
	} else if !os.IsNotExist(err) {
		return nil, err
	}

	cfg := &Config{
		ListenAddr: DefaultListenAddr,
		LogFormat:  "text",
		LogLevel:   "info",
		AI: AI{
			Provider:     "anthropic",
			Model:        "claude-sonnet-4-20250514",
			SystemPrompt: "You are a helpful assistant.",
		},
		WebSearch: WebSearch{
			Provider: "duckduckgo",
		},
	}
	if err := Save(path, cfg); err != nil {
		return nil, err
	}
	return cfg, nil
}
