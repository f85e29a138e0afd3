package main

import (
	"fmt"
	"os"

	"github.com/joho/godotenv"
	"github.com/joshua-takyi/tampabay/internal/config"
	"github.com/rs/zerolog"
	"github.com/spf13/cobra"
)

var (
	logLevel  string
	logFormat string

	rootCmd = &cobra.Command{
		Use:   "tampabay",
		Short: "TampaBay events and reviews API",
		// serve is the default command
		RunE: func(cmd *cobra.Command, args []string) error {
			return serveCmd.RunE(cmd, args)
		},
		SilenceUsage: true,
	}
)

func init() {
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "", "log level (debug, info, warn, error), overrides LOG_LEVEL")
	rootCmd.PersistentFlags().StringVar(&logFormat, "log-format", "", "log format (json, console), overrides LOG_FORMAT")

	rootCmd.AddCommand(serveCmd)
	rootCmd.AddCommand(migrateCmd)
}

func main() {
	// .env.local wins over .env; neither overrides the real environment
	_ = godotenv.Load(".env.local")
	_ = godotenv.Load(".env")

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

// loadConfig reads the environment and builds the logger, applying flag overrides.
func loadConfig() (*config.Config, zerolog.Logger, error) {
	cfg, err := config.LoadConfig()
	if err != nil {
		return nil, zerolog.Nop(), err
	}
	if logLevel != "" {
		cfg.LogLevel = logLevel
	}
	if logFormat != "" {
		cfg.LogFormat = logFormat
	}
	return cfg, config.NewLogger(cfg), nil
}
