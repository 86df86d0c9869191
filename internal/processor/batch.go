package processor

import (
	"context"
	"log/slog"
	"os"

	"github.com/retailco/taxproc/internal/model"
	"github.com/retailco/taxproc/internal/parser/pdf"
)

// OutputWriter serializes a completed invoice record. Implemented by
// internal/output.
type OutputWriter interface {
	Write(inv *model.Invoice) ([]string, error)
}

// FileResult is the per-document outcome of a batch run.
type FileResult struct {
	File    string
	Invoice *model.Invoice
	Outputs []string
	Stage   Stage
	Err     error
}

// BatchReport summarizes a batch run. Per-document failures never
// abort the batch; only configuration errors do, and those are caught
// before a batch starts.
type BatchReport struct {
	Results []*FileResult
}

// Succeeded returns the count of fully processed and written invoices.
func (r *BatchReport) Succeeded() int {
	n := 0
	for _, res := range r.Results {
		if res.Err == nil {
			n++
		}
	}
	return n
}

// Failed returns the count of abandoned documents.
func (r *BatchReport) Failed() int {
	return len(r.Results) - r.Succeeded()
}

// Batch runs the pipeline over a set of PDF files, one at a time, end
// to end.
type Batch struct {
	pipeline *Pipeline
	writer   OutputWriter
	logger   *slog.Logger
	prepare  func(sourceFile string, data []byte) (*model.Document, error)
}

// BatchOption configures the batch runner
type BatchOption func(*Batch)

// WithBatchLogger sets the structured logger
func WithBatchLogger(logger *slog.Logger) BatchOption {
	return func(b *Batch) {
		b.logger = logger
	}
}

// WithPreparer overrides document preparation (tests)
func WithPreparer(prepare func(string, []byte) (*model.Document, error)) BatchOption {
	return func(b *Batch) {
		b.prepare = prepare
	}
}

// NewBatch creates a batch runner
func NewBatch(pipeline *Pipeline, writer OutputWriter, opts ...BatchOption) *Batch {
	b := &Batch{
		pipeline: pipeline,
		writer:   writer,
		logger:   slog.Default(),
		prepare:  pdf.Prepare,
	}
	for _, opt := range opts {
		opt(b)
	}
	return b
}

// Run processes every file in order. Each document runs to completion
// independently; failures are recorded and the batch continues.
func (b *Batch) Run(ctx context.Context, files []string) *BatchReport {
	report := &BatchReport{}

	for _, file := range files {
		report.Results = append(report.Results, b.runOne(ctx, file))
	}

	b.logger.Info("batch complete",
		"total", len(report.Results),
		"succeeded", report.Succeeded(),
		"failed", report.Failed())

	return report
}

func (b *Batch) runOne(ctx context.Context, file string) *FileResult {
	res := &FileResult{File: file, Stage: StageExtract}

	data, err := os.ReadFile(file)
	if err != nil {
		res.Err = model.NewExtractionError(file, "cannot read file", err)
		b.logger.Error("document failed", "file", file, "error", res.Err)
		return res
	}

	doc, err := b.prepare(file, data)
	if err != nil {
		res.Err = err
		b.logger.Error("document failed", "file", file, "error", err)
		return res
	}

	result := b.pipeline.Process(ctx, doc)
	res.Stage = result.Stage
	if result.Error != nil {
		res.Err = result.Error
		b.logger.Error("document failed", "file", file, "stage", string(result.Stage), "error", result.Error)
		return res
	}
	res.Invoice = result.Invoice

	outputs, err := b.writer.Write(result.Invoice)
	res.Outputs = outputs
	if err != nil {
		// Computation is done; only the write failed. Reported, not
		// rolled back.
		res.Err = err
		b.logger.Error("output failed", "file", file, "error", err)
	}

	return res
}
