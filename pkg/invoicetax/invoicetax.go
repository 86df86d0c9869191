// Package invoicetax provides a public API for AI-assisted invoice
// tax processing.
//
// It wires the document extractor, tax classifier, and exemption
// detector over a single OpenAI-compatible client and runs the
// per-invoice pipeline end to end.
//
// Example usage:
//
//	proc, err := invoicetax.NewProcessor(invoicetax.Options{
//	    APIKey:       os.Getenv("OPENAI_API_KEY"),
//	    CategoryFile: "tax_rate_by_category.csv",
//	})
//	if err != nil {
//	    log.Fatal(err)
//	}
//	invoice, err := proc.ProcessPDF(ctx, pdfData)
package invoicetax

import (
	"time"

	"github.com/retailco/taxproc/internal/config"
	"github.com/retailco/taxproc/internal/model"
)

// Re-export core types for public API
type (
	Invoice    = model.Invoice
	LineItem   = model.LineItem
	Totals     = model.Totals
	TokenUsage = model.TokenUsage
)

// Re-export error types
type (
	ConfigError         = model.ConfigError
	ExtractionError     = model.ExtractionError
	ClassificationError = model.ClassificationError
	OutputError         = model.OutputError
)

// Options configures a Processor.
type Options struct {
	// APIKey authenticates against the AI service. Required.
	APIKey string

	// BaseURL overrides the AI service endpoint.
	BaseURL string

	// ExtractionModel is the vision model for document extraction.
	ExtractionModel string

	// ClassificationModel is the text model for classification and
	// exemption detection.
	ClassificationModel string

	// CategoryFile is the CSV table of category tax rates. Required.
	CategoryFile string

	// Timeout bounds each external call.
	Timeout time.Duration

	// ClassifyConcurrency bounds in-flight classification calls per
	// invoice. Zero means the default.
	ClassifyConcurrency int
}

// DefaultOptions returns options with the standard models and paths.
func DefaultOptions() Options {
	return Options{
		ExtractionModel:     config.DefaultExtractionModel,
		ClassificationModel: config.DefaultClassificationModel,
		CategoryFile:        config.DefaultCategoryFile,
		Timeout:             config.DefaultTimeout,
	}
}
