package cmd

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/rezonia/invoice-exporter/pkg/exportlib"
)

var jsonOutput bool

var validateCmd = &cobra.Command{
	Use:   "validate [files...]",
	Short: "Report which invoice fields annotations carry",
	Long: `Report, per annotation file, which of the ten invoice header fields
are present and how many line items were found.

This is a presence check only. Values are not validated against any schema.

Examples:
  invoice-exporter validate annotation.xml
  invoice-exporter validate *.xml --json`,
	Args: cobra.MinimumNArgs(1),
	RunE: runValidate,
}

func init() {
	rootCmd.AddCommand(validateCmd)

	validateCmd.Flags().BoolVar(&jsonOutput, "json", false, "Print results as JSON")
}

func runValidate(cmd *cobra.Command, args []string) error {
	results := make([]*ValidationResult, 0, len(args))
	allComplete := true

	for _, file := range args {
		result := validateFile(file)
		results = append(results, result)
		if result.Error != "" || len(result.Missing) > 0 {
			allComplete = false
		}
	}

	if jsonOutput {
		encoder := json.NewEncoder(os.Stdout)
		encoder.SetIndent("", "  ")
		if err := encoder.Encode(results); err != nil {
			return err
		}
	} else {
		for _, r := range results {
			switch {
			case r.Error != "":
				fmt.Printf("✗ %s: %s\n", r.File, r.Error)
			case len(r.Missing) == 0:
				fmt.Printf("✓ %s: complete, %d line items\n", r.File, r.LineItems)
			default:
				fmt.Printf("✗ %s: incomplete, %d line items\n", r.File, r.LineItems)
				for _, f := range r.Missing {
					fmt.Printf("  - missing %s\n", f)
				}
			}
		}
	}

	if !allComplete {
		return fmt.Errorf("some annotations are incomplete")
	}
	return nil
}

func validateFile(filePath string) *ValidationResult {
	result := &ValidationResult{File: filePath}

	data, err := os.ReadFile(filePath)
	if err != nil {
		result.Error = fmt.Sprintf("failed to read file: %v", err)
		return result
	}

	inv, err := exportlib.Parse(data)
	if err != nil {
		result.Error = fmt.Sprintf("parse error: %v", err)
		return result
	}

	result.Missing = inv.MissingFields()
	missing := make(map[string]bool, len(result.Missing))
	for _, name := range result.Missing {
		missing[name] = true
	}
	for _, f := range inv.HeaderFields() {
		if !missing[f.Name] {
			result.Present = append(result.Present, f.Name)
		}
	}
	result.LineItems = len(inv.LineItems)
	return result
}

// ValidationResult holds the presence report for a single file
type ValidationResult struct {
	File      string   `json:"file"`
	Present   []string `json:"present,omitempty"`
	Missing   []string `json:"missing,omitempty"`
	LineItems int      `json:"line_items"`
	Error     string   `json:"error,omitempty"`
}
