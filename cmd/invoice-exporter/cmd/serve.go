package cmd

import (
	"log/slog"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/rezonia/invoice-exporter/internal/metrics"
	"github.com/rezonia/invoice-exporter/internal/server"
)

var (
	serverAddr   string
	serverDebug  bool
	readTimeout  time.Duration
	writeTimeout time.Duration
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the HTTP API server",
	Long: `Start an HTTP API server for exporting annotations.

The API provides endpoints for:
  - GET /export/queue_id/{queue_id}/annotation_id/{annotation_id}  - Export one annotation (basic auth)
  - GET /export                                                    - Usage (basic auth)
  - GET /health                                                    - Health check
  - GET /metrics                                                   - Prometheus metrics

Examples:
  # Start server on default port
  invoice-exporter serve

  # Start on custom port in debug mode
  invoice-exporter serve --address :9000 --debug`,
	RunE: runServe,
}

func init() {
	rootCmd.AddCommand(serveCmd)

	serveCmd.Flags().StringVar(&serverAddr, "address", ":8080", "Server listen address")
	serveCmd.Flags().BoolVar(&serverDebug, "debug", false, "Enable debug mode")
	serveCmd.Flags().DurationVar(&readTimeout, "read-timeout", 30*time.Second, "HTTP read timeout")
	serveCmd.Flags().DurationVar(&writeTimeout, "write-timeout", 5*time.Minute, "HTTP write timeout")
}

func runServe(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	m := metrics.New()
	srv := server.NewServer(&server.Config{
		Address:      serverAddr,
		Credentials:  cfg.App,
		ReadTimeout:  readTimeout,
		WriteTimeout: writeTimeout,
		Debug:        serverDebug,
	}, newExporter(cfg, m), m)

	ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	slog.Info("starting server", "address", serverAddr, "rossum_base_url", cfg.RossumBaseURL)
	if err := srv.Run(ctx); err != nil {
		return err
	}
	slog.Info("server stopped")
	return nil
}
