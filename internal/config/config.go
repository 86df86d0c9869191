// Package config holds the process-wide immutable configuration. It
// is loaded once at startup and passed explicitly to every component.
package config

import (
	"os"
	"time"

	"github.com/joho/godotenv"

	"github.com/retailco/taxproc/internal/model"
)

// Defaults mirroring the original service settings.
const (
	DefaultExtractionModel     = "gpt-4o"
	DefaultClassificationModel = "gpt-4o-mini"
	DefaultInvoicesDir         = "Invoices"
	DefaultCategoryFile        = "tax_rate_by_category.csv"
	DefaultOutputDir           = "output"
	DefaultMaxTokens           = 4000
	DefaultTimeout             = 2 * time.Minute
)

// Config is the immutable runtime configuration.
type Config struct {
	// APIKey authenticates against the AI service. Required.
	APIKey string

	// BaseURL overrides the AI service endpoint. Empty means the
	// SDK default.
	BaseURL string

	// ExtractionModel is the vision model used for document extraction.
	ExtractionModel string

	// ClassificationModel is the text model used for tax
	// classification and exemption detection.
	ClassificationModel string

	// InvoicesDir is scanned for PDF files when no explicit path is given.
	InvoicesDir string

	// CategoryFile is the CSV reference table of category tax rates.
	CategoryFile string

	// OutputDir receives the per-invoice output files.
	OutputDir string

	// MaxTokens caps completion length per AI call.
	MaxTokens int64

	// Timeout bounds each external call.
	Timeout time.Duration
}

// Load builds the configuration from a .env file (if present) and the
// process environment. A missing API key is a fatal configuration
// error, not a per-invoice one.
func Load() (*Config, error) {
	// Missing .env is fine; env vars may be set directly.
	_ = godotenv.Load()

	cfg := &Config{
		APIKey:              os.Getenv("OPENAI_API_KEY"),
		BaseURL:             os.Getenv("OPENAI_BASE_URL"),
		ExtractionModel:     envOr("TAXPROC_EXTRACTION_MODEL", DefaultExtractionModel),
		ClassificationModel: envOr("TAXPROC_CLASSIFICATION_MODEL", DefaultClassificationModel),
		InvoicesDir:         envOr("TAXPROC_INVOICES_DIR", DefaultInvoicesDir),
		CategoryFile:        envOr("TAXPROC_CATEGORY_FILE", DefaultCategoryFile),
		OutputDir:           envOr("TAXPROC_OUTPUT_DIR", DefaultOutputDir),
		MaxTokens:           DefaultMaxTokens,
		Timeout:             DefaultTimeout,
	}

	return cfg, nil
}

// Validate checks that required settings are present.
func (c *Config) Validate() error {
	if c.APIKey == "" {
		return model.NewConfigError("OPENAI_API_KEY", "not found in environment", nil)
	}
	if c.CategoryFile == "" {
		return model.NewConfigError("category_file", "no category table configured", nil)
	}
	return nil
}

func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}
