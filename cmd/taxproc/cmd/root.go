package cmd

import (
	"fmt"
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"github.com/retailco/taxproc/internal/config"
)

var (
	version = "1.0.0"

	// Global flags
	verbose             bool
	apiKey              string
	baseURL             string
	extractionModel     string
	classificationModel string
	categoryFile        string
)

var rootCmd = &cobra.Command{
	Use:   "taxproc",
	Short: "Extract and tax-classify invoice data from PDFs",
	Long: `taxproc automates invoice processing with AI assistance.

For each PDF it extracts the invoice header and line items with a
vision model, classifies every line item into a fixed tax category
set, checks the notes for tax exemption, computes tax totals, and
writes JSON, CSV, and summary output files.

Examples:
  # Process every PDF in the Invoices directory
  taxproc process

  # Process a single invoice
  taxproc process invoice.pdf

  # Inspect the category table
  taxproc categories

  # Start the HTTP API
  taxproc serve --address :8080`,
	Version: version,
}

func Execute() error {
	return rootCmd.Execute()
}

func init() {
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Enable verbose output")
	rootCmd.PersistentFlags().StringVar(&apiKey, "api-key", "", "AI service API key (env: OPENAI_API_KEY)")
	rootCmd.PersistentFlags().StringVar(&baseURL, "base-url", "", "AI service base URL (env: OPENAI_BASE_URL)")
	rootCmd.PersistentFlags().StringVar(&extractionModel, "extraction-model", "", "Vision model for extraction (env: TAXPROC_EXTRACTION_MODEL)")
	rootCmd.PersistentFlags().StringVar(&classificationModel, "classification-model", "", "Text model for classification (env: TAXPROC_CLASSIFICATION_MODEL)")
	rootCmd.PersistentFlags().StringVar(&categoryFile, "categories", "", "Category tax rate CSV (env: TAXPROC_CATEGORY_FILE)")

	cobra.OnInitialize(initLogger)
}

func initLogger() {
	level := slog.LevelInfo
	if verbose {
		level = slog.LevelDebug
	}
	slog.SetDefault(slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
		Level: level,
	})))
}

// loadConfig builds the immutable process configuration: .env and
// environment first, explicit flags win.
func loadConfig() (*config.Config, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, err
	}

	if apiKey != "" {
		cfg.APIKey = apiKey
	}
	if baseURL != "" {
		cfg.BaseURL = baseURL
	}
	if extractionModel != "" {
		cfg.ExtractionModel = extractionModel
	}
	if classificationModel != "" {
		cfg.ClassificationModel = classificationModel
	}
	if categoryFile != "" {
		cfg.CategoryFile = categoryFile
	}

	return cfg, nil
}

func printVerbose(format string, args ...interface{}) {
	if verbose {
		fmt.Fprintf(os.Stderr, format, args...)
	}
}
