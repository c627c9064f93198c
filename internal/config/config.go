// Package config is the on-disk configuration for agenticai. Files ending in
// .yaml or .yml are parsed as YAML; anything else as JSON.
package config

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"
)

type Config struct {
	// ListenAddr is the host:port the HTTP API binds to.
	ListenAddr string `json:"listen_addr,omitempty" yaml:"listen_addr,omitempty"`

	// DBPath is the SQLite file holding threads and conversation state.
	DBPath string `json:"db_path,omitempty" yaml:"db_path,omitempty"`

	// LogFormat is "json" or "text".
	LogFormat string `json:"log_format,omitempty" yaml:"log_format,omitempty"`
	// LogLevel is "debug|info|warn|error".
	LogLevel string `json:"log_level,omitempty" yaml:"log_level,omitempty"`

	AI        AI        `json:"ai" yaml:"ai"`
	WebSearch WebSearch `json:"web_search,omitempty" yaml:"web_search,omitempty"`
}

// AI selects the completion provider. The API key is read from the named
// environment variable so the key itself never lands in the file.
type AI struct {
	// Provider is "anthropic" or "openai".
	Provider string `json:"provider" yaml:"provider"`
	Model    string `json:"model" yaml:"model"`
	BaseURL  string `json:"base_url,omitempty" yaml:"base_url,omitempty"`
	// APIKeyEnv names the environment variable holding the provider key.
	// Defaults to ANTHROPIC_API_KEY or OPENAI_API_KEY per provider.
	APIKeyEnv string `json:"api_key_env,omitempty" yaml:"api_key_env,omitempty"`
	// SystemPrompt seeds new threads with an assistant persona.
	SystemPrompt string `json:"system_prompt,omitempty" yaml:"system_prompt,omitempty"`
}

// WebSearch selects the search backend for the research tools.
type WebSearch struct {
	// Provider is "duckduckgo" (default, keyless) or "brave".
	Provider  string `json:"provider,omitempty" yaml:"provider,omitempty"`
	APIKeyEnv string `json:"api_key_env,omitempty" yaml:"api_key_env,omitempty"`
}

const (
	DefaultListenAddr = "127.0.0.1:8080"
	defaultDBFile     = "agenticai.db"
)

func (c *Config) Validate() error {
	if c == nil {
		return errors.New("nil config")
	}
	switch strings.ToLower(strings.TrimSpace(c.AI.Provider)) {
	case "anthropic", "openai":
	case "":
		return errors.New("missing ai.provider")
	default:
		return fmt.Errorf("unsupported ai.provider %q", c.AI.Provider)
	}
	if strings.TrimSpace(c.AI.Model) == "" {
		return errors.New("missing ai.model")
	}
	switch strings.ToLower(strings.TrimSpace(c.WebSearch.Provider)) {
	case "", "duckduckgo", "brave":
	default:
		return fmt.Errorf("unsupported web_search.provider %q", c.WebSearch.Provider)
	}
	if strings.ToLower(strings.TrimSpace(c.LogFormat)) != "" {
		switch strings.ToLower(strings.TrimSpace(c.LogFormat)) {
		case "json", "text":
		default:
			return fmt.Errorf("unsupported log_format %q", c.LogFormat)
		}
	}
	return nil
}

// APIKey resolves the provider key from the environment.
func (a AI) APIKey() string {
	env := strings.TrimSpace(a.APIKeyEnv)
	if env == "" {
		switch strings.ToLower(strings.TrimSpace(a.Provider)) {
		case "anthropic":
			env = "ANTHROPIC_API_KEY"
		case "openai":
			env = "OPENAI_API_KEY"
		default:
			return ""
		}
	}
	return strings.TrimSpace(os.Getenv(env))
}

// APIKey resolves the search key from the environment; empty for keyless
// providers.
func (w WebSearch) APIKey() string {
	env := strings.TrimSpace(w.APIKeyEnv)
	if env == "" {
		return ""
	}
	return strings.TrimSpace(os.Getenv(env))
}

// Addr returns the listen address with the default applied.
func (c *Config) Addr() string {
	if addr := strings.TrimSpace(c.ListenAddr); addr != "" {
		return addr
	}
	return DefaultListenAddr
}

// DatabasePath returns the DB path with the default (next to the config
// file) applied.
func (c *Config) DatabasePath(configPath string) string {
	if p := strings.TrimSpace(c.DBPath); p != "" {
		return p
	}
	return filepath.Join(filepath.Dir(filepath.Clean(configPath)), defaultDBFile)
}

// DefaultConfigPath returns the default config path:
//
//	~/.agenticai/config.json
func DefaultConfigPath() string {
	home, err := os.UserHomeDir()
	if err != nil || strings.TrimSpace(home) == "" {
		return "agenticai.config.json"
	}
	return filepath.Join(home, ".agenticai", "config.json")
}

func Load(path string) (*Config, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	var cfg Config
	if isYAMLPath(path) {
		err = yaml.Unmarshal(b, &cfg)
	} else {
		err = json.Unmarshal(b, &cfg)
	}
	if err != nil {
		return nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}
	return &cfg, nil
}

func Save(path string, cfg *Config) error {
	if cfg == nil {
		return errors.New("nil config")
	}
	if err := cfg.Validate(); err != nil {
		return err
	}

	if err := os.MkdirAll(filepath.Dir(path), 0o700); err != nil {
		return err
	}

	var b []byte
	var err error
	if isYAMLPath(path) {
		b, err = yaml.Marshal(cfg)
	} else {
		b, err = json.MarshalIndent(cfg, "", "  ")
		b = append(b, '\n')
	}
	if err != nil {
		return err
	}

	// Write atomically.
	tmp := path + ".tmp"
	if err := os.WriteFile(tmp, b, 0o600); err != nil {
		return err
	}
	return os.Rename(tmp, path)
}

func isYAMLPath(path string) bool {
	switch strings.ToLower(filepath.Ext(strings.TrimSpace(path))) {
	case ".yaml", ".yml":
		return true
	default:
		return false
	}
}
