package main

import (
	"fmt"
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"github.com/aretw0/canvas/internal/config"
	"github.com/aretw0/canvas/internal/logging"
)

var rootCmd = &cobra.Command{
	Use:   "canvas",
	Short: "Canvas revises markdown artifacts with an LLM, one approved change at a time",
	Long: `Canvas keeps an append-only history of a markdown document and applies
LLM rewrites to it. Highlight edits suspend until a human approves them.`,
	SilenceUsage: true,
}

// Execute adds all child commands to the root command and sets flags appropriately.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().String("config", os.Getenv("CANVAS_CONFIG"), "Path to a YAML config file")
	rootCmd.PersistentFlags().String("env-file", envOr("CANVAS_ENV_FILE", ".env"), "Path to a .env file loaded before reading CANVAS_* variables")
	rootCmd.PersistentFlags().String("log-level", "", "Log level (debug, info, warn, error)")
	rootCmd.PersistentFlags().String("log-format", "", "Log format (text or json)")
}

// loadConfig resolves the configuration and logger shared by every command.
func loadConfig(cmd *cobra.Command) (*config.Config, *slog.Logger, error) {
	envFile, _ := cmd.Flags().GetString("env-file")
	if err := config.LoadEnvFile(envFile); err != nil {
		return nil, nil, err
	}

	path, _ := cmd.Flags().GetString("config")
	cfg, err := config.Load(path, os.Environ())
	if err != nil {
		return nil, nil, err
	}

	if level, _ := cmd.Flags().GetString("log-level"); level != "" {
		cfg.Log.Level = level
	}
	if format, _ := cmd.Flags().GetString("log-format"); format != "" {
		cfg.Log.Format = format
	}

	level, err := logging.ParseLevel(cfg.Log.Level)
	if err != nil {
		return nil, nil, err
	}
	logger, err := logging.NewWithFormat(cfg.Log.Format, level)
	if err != nil {
		return nil, nil, err
	}
	return cfg, logger, nil
}

func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}
