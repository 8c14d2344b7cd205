package main

import (
	"fmt"
	"log/slog"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/leofalp/genai/config"
	"github.com/leofalp/genai/core/client"
	"github.com/leofalp/genai/providers/observability"
	"github.com/leofalp/genai/providers/observability/slogobs"
)

var rootCmd = &cobra.Command{
	Use:           "genai",
	Short:         "Unified CLI for OpenAI-compatible, Azure, Gemini and Bedrock models",
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRun: func(cmd *cobra.Command, args []string) {
		level := slog.LevelInfo
		switch strings.ToLower(logLevel) {
		case "debug":
			level = slog.LevelDebug
		case "warn":
			level = slog.LevelWarn
		case "error":
			level = slog.LevelError
		}
		logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level}))
		slog.SetDefault(logger)
		cmd.SetContext(observability.ContextWithObserver(cmd.Context(), slogobs.New(logger)))
	},
}

var (
	configPath string
	provider   string
	model      string
	logLevel   string
)

func init() {
	rootCmd.PersistentFlags().StringVar(&configPath, "config", "", "YAML config file path")
	rootCmd.PersistentFlags().StringVar(&provider, "provider", "", "provider (openai, azure, gemini, bedrock)")
	rootCmd.PersistentFlags().StringVar(&model, "model", "", "model name")
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "info", "log level (debug, info, warn, error)")
}

// buildClient loads configuration and applies flag overrides. Flags beat
// both the config file and the environment.
func buildClient() (*client.Client, error) {
	cfg, err := config.Load(configPath)
	if err != nil {
		return nil, err
	}
	if provider != "" {
		cfg.Provider = client.ProviderKind(provider)
	}
	if model != "" {
		cfg.Model = model
	}
	return client.New(cfg)
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(1)
	}
}
