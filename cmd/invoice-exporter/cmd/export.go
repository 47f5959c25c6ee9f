package cmd

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/rezonia/invoice-exporter/internal/config"
	"github.com/rezonia/invoice-exporter/internal/exporter"
	"github.com/rezonia/invoice-exporter/internal/postbin"
	"github.com/rezonia/invoice-exporter/internal/rossum"
)

var (
	queueID      int64
	annotationID int64
)

var exportCmd = &cobra.Command{
	Use:   "export",
	Short: "Export one annotation to a new bin",
	Long: `Run a single export: log in to Rossum, export the queue, isolate the
annotation, transform it and relay it to a new postb.in bin.

The result is printed as JSON, exactly as the HTTP API returns it.
The command exits non-zero when the export did not succeed.

Examples:
  invoice-exporter export --queue-id 123 --annotation-id 456`,
	RunE: runExport,
}

func init() {
	rootCmd.AddCommand(exportCmd)

	exportCmd.Flags().Int64Var(&queueID, "queue-id", 0, "Rossum queue id")
	exportCmd.Flags().Int64Var(&annotationID, "annotation-id", 0, "Rossum annotation id")
	_ = exportCmd.MarkFlagRequired("queue-id")
	_ = exportCmd.MarkFlagRequired("annotation-id")
}

func runExport(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	result := newExporter(cfg, nil).Export(cmd.Context(), queueID, annotationID)

	encoder := json.NewEncoder(os.Stdout)
	encoder.SetIndent("", "  ")
	if err := encoder.Encode(result); err != nil {
		return err
	}
	if !result.Success {
		return fmt.Errorf("export failed")
	}
	return nil
}

// newExporter wires both API clients. observer may be nil.
func newExporter(cfg *config.Config, observer exporter.Observer) *exporter.Exporter {
	docs := rossum.NewClient(cfg.RossumBaseURL, cfg.Rossum.Username, cfg.Rossum.Password,
		rossum.WithTimeout(cfg.HTTPTimeout))
	relay := postbin.NewClient(cfg.PostbinURL, postbin.WithTimeout(cfg.HTTPTimeout))

	var opts []exporter.Option
	if observer != nil {
		opts = append(opts, exporter.WithObserver(observer))
	}
	return exporter.New(docs, relay, docs.BaseURL(), opts...)
}
