package config

import (
	"os"
	"path/filepath"
	"testing"
)

func TestSaveLoadJSON(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), "config.json")
	cfg := &Config{
		ListenAddr: "127.0.0.1:9000",
		AI:         AI{Provider: "anthropic", Model: "claude-sonnet-4-20250514"},
	}
	if err := Save(path, cfg); err != nil {
		t.Fatalf("Save: %v", err)
	}

	info, err := os.Stat(path)
	if err != nil {
		t.Fatalf("Stat: %v", err)
	}
	if perm := info.Mode().Perm(); perm != 0o600 {
		t.Fatalf("config perm=%o, want 600", perm)
	}

	loaded, err := Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if loaded.ListenAddr != cfg.ListenAddr || loaded.AI.Model != cfg.AI.Model {
		t.Fatalf("loaded=%+v, want %+v", loaded, cfg)
	}
}

func TestSaveLoadYAML(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), "config.yaml")
	cfg := &Config{AI: AI{Provider: "openai", Model: "gpt-4.1"}}
	if err := Save(path, cfg); err != nil {
		t.Fatalf("Save: %v", err)
	}
	loaded, err := Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if loaded.AI.Provider != "openai" || loaded.AI.Model != "gpt-4.1" {
		t.Fatalf("loaded=%+v", loaded)
	}
}

func TestValidate(t *testing.T) {
	t.Parallel()

	cases := []struct {
		name string
		cfg  Config
		ok   bool
	}{
		{"valid", Config{AI: AI{Provider: "anthropic", Model: "m"}}, true},
		{"missing provider", Config{AI: AI{Model: "m"}}, false},
		{"unknown provider", Config{AI: AI{Provider: "bard", Model: "m"}}, false},
		{"missing model", Config{AI: AI{Provider: "openai"}}, false},
		{"bad search provider", Config{AI: AI{Provider: "openai", Model: "m"}, WebSearch: WebSearch{Provider: "bing"}}, false},
		{"bad log format", Config{AI: AI{Provider: "openai", Model: "m"}, LogFormat: "xml"}, false},
	}
	for _, tc := range cases {
		err := tc.cfg.Validate()
		if tc.ok && err != nil {
			t.Fatalf("%s: Validate: %v", tc.name, err)
		}
		if !tc.ok && err == nil {
			t.Fatalf("%s: Validate accepted invalid config", tc.name)
		}
	}
}

func TestBootstrapRefusesOverwrite(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), "config.json")
	if _, err := Bootstrap(path); err != nil {
		t.Fatalf("Bootstrap: %v", err)
	}
	if _, err := Load(path); err != nil {
		t.Fatalf("Load of bootstrapped config: %v", err)
	}
	if _, err := Bootstrap(path); err == nil {
		t.Fatalf("Bootstrap overwrote an existing config")
	}
}

func TestDatabasePathDefault(t *testing.T) {
	t.Parallel()

	cfg := &Config{}
	if got := cfg.DatabasePath("/etc/agenticai/config.json"); got != "/etc/agenticai/agenticai.db" {
		t.Fatalf("DatabasePath=%q", got)
	}
	cfg.DBPath = "/var/lib/agenticai.db"
	if got := cfg.DatabasePath("/etc/agenticai/config.json"); got != "/var/lib/agenticai.db" {
		t.Fatalf("DatabasePath override=%q", got)
	}
}
