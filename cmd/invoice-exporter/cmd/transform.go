package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/rezonia/invoice-exporter/internal/config"
	"github.com/rezonia/invoice-exporter/pkg/exportlib"
)

var (
	outputFile        string
	transformID       int64
	transformBaseURL  string
	transformEncoding bool
)

var transformCmd = &cobra.Command{
	Use:   "transform [file]",
	Short: "Transform a local export file",
	Long: `Transform a Rossum XML export into an InvoiceRegisters document.

Nothing is fetched or posted. When --annotation-id is set the file is
treated as a whole queue export and the annotation is isolated first;
otherwise the file must already hold a single annotation.

Examples:
  invoice-exporter transform annotation.xml
  invoice-exporter transform export.xml --annotation-id 456 --base64
  invoice-exporter transform export.xml --annotation-id 456 --base-url https://acme.rossum.app/api/v1/ -o out.xml`,
	Args: cobra.ExactArgs(1),
	RunE: runTransform,
}

func init() {
	rootCmd.AddCommand(transformCmd)

	transformCmd.Flags().StringVarP(&outputFile, "output", "o", "", "Output file (default: stdout)")
	transformCmd.Flags().Int64Var(&transformID, "annotation-id", 0, "Isolate this annotation from a queue export first")
	transformCmd.Flags().StringVar(&transformBaseURL, "base-url", "", "API root of the annotation urls (default: derived from ROSSUM_USERNAME)")
	transformCmd.Flags().BoolVar(&transformEncoding, "base64", false, "Print the base64 encoded document")
}

func runTransform(cmd *cobra.Command, args []string) error {
	data, err := os.ReadFile(args[0])
	if err != nil {
		return fmt.Errorf("failed to read file: %w", err)
	}

	if cmd.Flags().Changed("annotation-id") {
		baseURL := transformBaseURL
		if baseURL == "" {
			baseURL = os.Getenv("ROSSUM_BASE_URL")
		}
		if baseURL == "" {
			baseURL = config.RossumBaseURL(os.Getenv("ROSSUM_USERNAME"))
		}

		annotation, err := exportlib.Filter(data, baseURL, transformID)
		if err != nil {
			return err
		}
		data = []byte(annotation)
	}

	doc, err := exportlib.Transform(data)
	if err != nil {
		return err
	}
	if transformEncoding {
		doc = exportlib.Encode(doc)
	}

	if outputFile == "" {
		_, err = fmt.Fprintln(os.Stdout, doc)
		return err
	}
	if err := os.WriteFile(outputFile, []byte(doc), 0o644); err != nil {
		return fmt.Errorf("failed to create output file: %w", err)
	}
	return nil
}
