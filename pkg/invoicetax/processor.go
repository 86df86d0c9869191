package invoicetax

import (
	"context"
	"io"

	"github.com/retailco/taxproc/internal/config"
	"github.com/retailco/taxproc/internal/llm"
	"github.com/retailco/taxproc/internal/model"
	"github.com/retailco/taxproc/internal/parser/pdf"
	"github.com/retailco/taxproc/internal/processor"
	"github.com/retailco/taxproc/internal/taxonomy"
)

// Processor runs the invoice pipeline behind a stable public surface.
type Processor struct {
	pipeline *processor.Pipeline
	table    *taxonomy.Table
	options  Options
}

// NewProcessor creates a processor from the given options. The
// category table is loaded once; a missing or malformed table is a
// ConfigError.
func NewProcessor(opts Options) (*Processor, error) {
	if opts.APIKey == "" {
		return nil, model.NewConfigError("api_key", "API key is required", nil)
	}
	if opts.ExtractionModel == "" {
		opts.ExtractionModel = config.DefaultExtractionModel
	}
	if opts.ClassificationModel == "" {
		opts.ClassificationModel = config.DefaultClassificationModel
	}
	if opts.CategoryFile == "" {
		opts.CategoryFile = config.DefaultCategoryFile
	}
	if opts.Timeout == 0 {
		opts.Timeout = config.DefaultTimeout
	}

	table, err := taxonomy.Load(opts.CategoryFile)
	if err != nil {
		return nil, err
	}

	var clientOpts []llm.ClientOption
	if opts.BaseURL != "" {
		clientOpts = append(clientOpts, llm.WithBaseURL(opts.BaseURL))
	}
	clientOpts = append(clientOpts, llm.WithTimeout(opts.Timeout))
	client := llm.NewClient(opts.APIKey, clientOpts...)

	var pipelineOpts []processor.Option
	if opts.ClassifyConcurrency > 0 {
		pipelineOpts = append(pipelineOpts, processor.WithClassifyConcurrency(opts.ClassifyConcurrency))
	}

	pipeline := processor.NewPipeline(
		llm.NewExtractor(client, llm.WithExtractionModel(opts.ExtractionModel)),
		llm.NewClassifier(client, llm.WithClassificationModel(opts.ClassificationModel)),
		llm.NewExemptionDetector(client, llm.WithDetectionModel(opts.ClassificationModel)),
		table,
		pipelineOpts...,
	)

	return &Processor{
		pipeline: pipeline,
		table:    table,
		options:  opts,
	}, nil
}

// ProcessPDF processes one PDF document and returns the completed
// invoice record.
func (p *Processor) ProcessPDF(ctx context.Context, r io.Reader) (*Invoice, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, model.NewExtractionError("input", "failed to read input", err)
	}

	doc, err := pdf.Prepare("input.pdf", data)
	if err != nil {
		return nil, err
	}

	result := p.pipeline.Process(ctx, doc)
	if result.Error != nil {
		return nil, result.Error
	}
	return result.Invoice, nil
}

// Categories returns the valid category names in table order.
func (p *Processor) Categories() []string {
	return p.table.Categories()
}
