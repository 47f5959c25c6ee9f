package cmd

import (
	"fmt"
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"github.com/rezonia/invoice-exporter/internal/config"
	"github.com/rezonia/invoice-exporter/internal/logging"
)

var (
	version = "1.0.0"

	// Global flags
	envFile   string
	logLevel  string
	logFormat string
)

var rootCmd = &cobra.Command{
	Use:   "invoice-exporter",
	Short: "Export Rossum invoice annotations to postb.in",
	Long: `Invoice Exporter fetches an annotated invoice from a Rossum queue,
reshapes it into an InvoiceRegisters XML document and relays it,
base64 encoded, to a freshly created postb.in bin.

Credentials are read from the environment (or a .env file):
  USERNAME, PASSWORD                 basic auth for the HTTP API
  ROSSUM_USERNAME, ROSSUM_PASSWORD   Rossum login

Examples:
  # Start the HTTP API
  invoice-exporter serve --address :8080

  # Export one annotation and print the result
  invoice-exporter export --queue-id 123 --annotation-id 456

  # Transform a local export file without any network access
  invoice-exporter transform export.xml --annotation-id 456

  # Report which invoice fields an annotation carries
  invoice-exporter validate annotation.xml`,
	Version: version,
	PersistentPreRun: func(cmd *cobra.Command, args []string) {
		logging.Setup(logLevel, logFormat)
	},
}

func Execute() error {
	return rootCmd.Execute()
}

func init() {
	rootCmd.PersistentFlags().StringVar(&envFile, "env-file", ".env", "Dotenv file loaded before reading configuration")
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "info", "Log level (debug, info, warn, error)")
	rootCmd.PersistentFlags().StringVar(&logFormat, "log-format", "text", "Log format (text, json)")

	cobra.OnInitialize(initConfig)
}

func initConfig() {
	if err := config.LoadDotEnv(envFile); err != nil {
		fmt.Fprintf(os.Stderr, "Warning: could not load %s: %v\n", envFile, err)
	}
}

// loadConfig reads and validates the environment
func loadConfig() (*config.Config, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, err
	}
	slog.Debug("configuration loaded",
		"rossum_base_url", cfg.RossumBaseURL,
		"postbin_url", cfg.PostbinURL,
		"http_timeout", cfg.HTTPTimeout,
	)
	return cfg, nil
}
