package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"syscall"

	"github.com/mabhisheksingh/AgenticAI/internal/ai"
	"github.com/mabhisheksingh/AgenticAI/internal/ai/threadstore"
	"github.com/mabhisheksingh/AgenticAI/internal/ai/tools"
	"github.com/mabhisheksingh/AgenticAI/internal/config"
	"github.com/mabhisheksingh/AgenticAI/internal/httpapi"
)

var (
	// Version is set via -ldflags at build time.
	Version = "dev"
	// Commit is set via -ldflags at build time.
	Commit = "unknown"
	// BuildTime is set via -ldflags at build time.
	BuildTime = "unknown"
)

func main() {
	if len(os.Args) < 2 {
		printUsage()
		os.Exit(2)
	}

	switch os.Args[1] {
	case "bootstrap":
		bootstrapCmd(os.Args[2:])
	case "run":
		runCmd(os.Args[2:])
	case "version":
		fmt.Printf("agenticai %s (%s) %s\n", Version, Commit, BuildTime)
	default:
		printUsage()
		os.Exit(2)
	}
}

func printUsage() {
	fmt.Fprintf(os.Stderr, `agenticai

Usage:
  agenticai bootstrap [flags]
  agenticai run [flags]
  agenticai version

Commands:
  bootstrap   Write a default config file.
  run         Run the chat engine using the local config file.
  version     Print build information.

`)
}

func bootstrapCmd(args []string) {
	fs := flag.NewFlagSet("bootstrap", flag.ExitOnError)
	cfgPath := fs.String("config", config.DefaultConfigPath(), "Config file path")
	_ = fs.Parse(args)

	if _, err := config.Bootstrap(filepath.Clean(*cfgPath)); err != nil {
		fmt.Fprintf(os.Stderr, "bootstrap failed: %v\n", err)
		os.Exit(1)
	}

	fmt.Printf("Config written: %s\n", filepath.Clean(*cfgPath))
}

func runCmd(args []string) {
	fs := flag.NewFlagSet("run", flag.ExitOnError)
	cfgPath := fs.String("config", config.DefaultConfigPath(), "Config file path")
	listen := fs.String("listen", "", "Listen address override (host:port)")
	dbPath := fs.String("db", "", "SQLite database path override")
	_ = fs.Parse(args)

	cfg, err := config.Load(filepath.Clean(*cfgPath))
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to load config: %v\n", err)
		os.Exit(1)
	}
	if strings.TrimSpace(*listen) != "" {
		cfg.ListenAddr = strings.TrimSpace(*listen)
	}
	if strings.TrimSpace(*dbPath) != "" {
		cfg.DBPath = strings.TrimSpace(*dbPath)
	}

	logger := newLogger(cfg)

	store, err := threadstore.Open(cfg.DatabasePath(*cfgPath))
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to open thread store: %v\n", err)
		os.Exit(1)
	}
	defer store.Close()

	apiKey := cfg.AI.APIKey()
	if apiKey == "" {
		fmt.Fprintf(os.Stderr, "missing provider api key (set the %s environment variable)\n", keyEnvName(cfg))
		os.Exit(1)
	}
	completer, err := ai.NewCompleter(cfg.AI.Provider, apiKey, cfg.AI.BaseURL)
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to init completion provider: %v\n", err)
		os.Exit(1)
	}

	registry := tools.NewRegistry()
	if err := errors.Join(
		tools.RegisterMathTools(registry),
		tools.RegisterUtilityTools(registry),
		tools.RegisterWebSearchTool(registry, cfg.WebSearch.Provider, cfg.WebSearch.APIKey()),
	); err != nil {
		fmt.Fprintf(os.Stderr, "failed to register tools: %v\n", err)
		os.Exit(1)
	}

	svc, err := ai.NewService(ai.ServiceOptions{
		Store:        store,
		Completer:    completer,
		Model:        cfg.AI.Model,
		SystemPrompt: cfg.AI.SystemPrompt,
		Registry:     registry,
		Log:          logger,
	})
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to init service: %v\n", err)
		os.Exit(1)
	}

	srv, err := httpapi.New(httpapi.Options{
		Logger:  logger,
		Addr:    cfg.Addr(),
		Service: svc,
	})
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to init http server: %v\n", err)
		os.Exit(1)
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Graceful shutdown on SIGINT/SIGTERM.
	stop := make(chan os.Signal, 1)
	signal.Notify(stop, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		<-stop
		cancel()
	}()

	if err := srv.Start(ctx); err != nil {
		fmt.Fprintf(os.Stderr, "failed to start http server: %v\n", err)
		os.Exit(1)
	}

	printWelcomeBanner(os.Stdout, welcomeBannerOptions{
		Version:    Version,
		ListenAddr: srv.Addr(),
		Provider:   cfg.AI.Provider,
		Model:      cfg.AI.Model,
	})

	<-ctx.Done()
	_ = srv.Close()
}

func newLogger(cfg *config.Config) *slog.Logger {
	level := slog.LevelInfo
	switch strings.ToLower(strings.TrimSpace(cfg.LogLevel)) {
	case "debug":
		level = slog.LevelDebug
	case "warn":
		level = slog.LevelWarn
	case "error":
		level = slog.LevelError
	}
	opts := &slog.HandlerOptions{Level: level}
	if strings.ToLower(strings.TrimSpace(cfg.LogFormat)) == "json" {
		return slog.New(slog.NewJSONHandler(os.Stdout, opts))
	}
	return slog.New(slog.NewTextHandler(os.Stdout, opts))
}

func keyEnvName(cfg *config.Config) string {
	if env := strings.TrimSpace(cfg.AI.APIKeyEnv); env != "" {
		return env
	}
	if strings.EqualFold(strings.TrimSpace(cfg.AI.Provider), "openai") {
		return "OPENAI_API_KEY"
	}
	return "ANTHROPIC_API_KEY"
}
