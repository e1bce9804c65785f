package cmd

import (
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"github.com/rayyan/tahfiz/internal/config"
)

var rootCmd = &cobra.Command{
	Use:   "tahfiz",
	Short: "Quran learning progress engine",
	Long:  "Tahfiz — progress, habit and gamification engine for Quran recitation and memorization.",
	RunE: func(cmd *cobra.Command, args []string) error {
		return cmd.Help()
	},
}

func Execute() error {
	return rootCmd.Execute()
}

func init() {
	rootCmd.PersistentFlags().String("journal", "", "Path to SQLite journal file (overrides JOURNAL_PATH env var)")

	rootCmd.AddCommand(demoCmd)
	rootCmd.AddCommand(statsCmd)
	rootCmd.AddCommand(versionCmd)
}

// loadConfig reads configuration, letting the --journal flag win over
// env and file.
func loadConfig(cmd *cobra.Command) (*config.Config, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, err
	}
	if p, _ := cmd.Flags().GetString("journal"); p != "" {
		cfg.Journal.Path = p
	}
	return cfg, nil
}

// setupLogger builds the process logger from config and installs it as
// the slog default.
func setupLogger(cfg config.Log) *slog.Logger {
	level := slog.LevelInfo
	switch cfg.Level {
	case "debug":
		level = slog.LevelDebug
	case "warn":
		level = slog.LevelWarn
	case "error":
		level = slog.LevelError
	}
	opts := &slog.HandlerOptions{Level: level}
	var handler slog.Handler
	if cfg.Format == "json" {
		handler = slog.NewJSONHandler(os.Stderr, opts)
	} else {
		handler = slog.NewTextHandler(os.Stderr, opts)
	}
	logger := slog.New(handler)
	slog.SetDefault(logger)
	return logger
}
