// Package processor orchestrates the per-invoice pipeline: extract,
// check exemption, classify, resolve rates, compute totals, assemble.
package processor

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/shopspring/decimal"

	"github.com/retailco/taxproc/internal/model"
	"github.com/retailco/taxproc/internal/money"
	"github.com/retailco/taxproc/internal/taxonomy"
)

// Stage names the pipeline states. Transitions are strictly forward;
// a failure freezes the result at the stage that produced it.
type Stage string

const (
	StageExtract   Stage = "extract"
	StageExemption Stage = "check_exemption"
	StageClassify  Stage = "classify"
	StageRates     Stage = "resolve_rates"
	StageTotals    Stage = "compute_totals"
	StageAssemble  Stage = "assemble"
	StageCompleted Stage = "completed"
)

// Extractor is the document extraction collaborator: one atomic call
// per document.
type Extractor interface {
	Extract(ctx context.Context, doc *model.Document) (*model.Extraction, error)
}

// Classifier is the tax classification collaborator: one call per
// line item, always resolving to a member of the category table.
type Classifier interface {
	Classify(ctx context.Context, description string, table *taxonomy.Table) (*model.Classification, error)
}

// ExemptionDetector is the tax-exemption collaborator, invoked only
// when notes are non-empty.
type ExemptionDetector interface {
	Detect(ctx context.Context, notes string) (*model.ExemptionCheck, error)
}

// Result is the outcome of processing one document. On failure,
// Invoice is nil and Stage names where the pipeline stopped.
type Result struct {
	Invoice  *model.Invoice
	Stage    Stage
	Warnings []string
	Error    error
}

// Pipeline processes one document end to end. It holds no per-invoice
// state; a single pipeline may be reused across documents.
type Pipeline struct {
	extractor   Extractor
	classifier  Classifier
	detector    ExemptionDetector
	table       *taxonomy.Table
	logger      *slog.Logger
	concurrency int
	now         func() time.Time
}

// Option configures the pipeline
type Option func(*Pipeline)

// WithLogger sets the structured logger
func WithLogger(logger *slog.Logger) Option {
	return func(p *Pipeline) {
		p.logger = logger
	}
}

// WithClassifyConcurrency bounds how many classification calls run in
// flight per invoice. Values below 1 mean sequential.
func WithClassifyConcurrency(n int) Option {
	return func(p *Pipeline) {
		if n > 0 {
			p.concurrency = n
		}
	}
}

// WithClock overrides the timestamp source (tests)
func WithClock(now func() time.Time) Option {
	return func(p *Pipeline) {
		p.now = now
	}
}

// NewPipeline creates a pipeline over the three AI collaborators and
// the category table.
func NewPipeline(extractor Extractor, classifier Classifier, detector ExemptionDetector, table *taxonomy.Table, opts ...Option) *Pipeline {
	p := &Pipeline{
		extractor:   extractor,
		classifier:  classifier,
		detector:    detector,
		table:       table,
		logger:      slog.Default(),
		concurrency: 4,
		now:         time.Now,
	}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// Process runs the full state sequence for one prepared document.
func (p *Pipeline) Process(ctx context.Context, doc *model.Document) *Result {
	result := &Result{Stage: StageExtract}
	log := p.logger.With("file", doc.SourceFile)

	// EXTRACT: one atomic call. Failure abandons the invoice.
	extraction, err := p.extractor.Extract(ctx, doc)
	if err != nil {
		result.Error = err
		return result
	}
	log.Debug("extracted invoice",
		"invoice_number", extraction.InvoiceNumber,
		"line_items", len(extraction.Items))

	// CHECK_EXEMPTION: empty notes short-circuit to false at zero
	// token cost.
	result.Stage = StageExemption
	var usage model.TokenUsage
	usage.Add(extraction.Usage)

	exempt := false
	if extraction.Notes != "" {
		check, err := p.detector.Detect(ctx, extraction.Notes)
		if err != nil {
			// Taxable is the safe default when the check itself
			// fails; the invoice still completes.
			result.Warnings = append(result.Warnings,
				fmt.Sprintf("exemption check failed, assuming taxable: %v", err))
			log.Warn("exemption check failed", "error", err)
		} else {
			exempt = check.Exempt
			usage.Add(check.Usage)
		}
	}
	if exempt {
		log.Info("tax-exempt invoice detected from notes")
	}

	// CLASSIFY: one call per line item, independently.
	result.Stage = StageClassify
	items := make([]model.LineItem, len(extraction.Items))
	for i, raw := range extraction.Items {
		items[i] = model.LineItem{
			Description: raw.Description,
			Quantity:    raw.Quantity,
			UnitPrice:   raw.UnitPrice,
		}
	}

	classifications, err := p.classifyAll(ctx, items)
	if err != nil {
		result.Error = err
		return result
	}
	for i, cls := range classifications {
		items[i].Category = cls.Category
		usage.Add(cls.Usage)
	}

	// RATE_RESOLUTION: exemption overrides whatever the classifier
	// assigned.
	result.Stage = StageRates
	for i := range items {
		if exempt {
			items[i].Rate = decimal.Zero
			continue
		}
		rate, ok := p.table.Rate(items[i].Category)
		if !ok {
			// The classifier contract guarantees table membership, so
			// this is an internal error, fatal for the invoice.
			result.Error = model.NewClassificationError(items[i].Description, items[i].Category,
				"classifier returned a category missing from the table", nil)
			return result
		}
		items[i].Rate = rate
	}

	// COMPUTE_TOTALS
	result.Stage = StageTotals
	totals := model.Totals{PreTax: money.Zero, Tax: money.Zero, PostTax: money.Zero}
	for i := range items {
		items[i].PreTaxAmount = money.LineAmount(items[i].Quantity, items[i].UnitPrice)
		items[i].TaxAmount = money.TaxAmount(items[i].PreTaxAmount, items[i].Rate)
		items[i].PostTaxAmount = items[i].PreTaxAmount.Add(items[i].TaxAmount)

		totals.PreTax = totals.PreTax.Add(items[i].PreTaxAmount)
		totals.Tax = totals.Tax.Add(items[i].TaxAmount)
		totals.PostTax = totals.PostTax.Add(items[i].PostTaxAmount)
	}

	// ASSEMBLE
	result.Stage = StageAssemble
	result.Invoice = &model.Invoice{
		Number:      extraction.InvoiceNumber,
		Vendor:      extraction.Vendor,
		Date:        extraction.Date,
		Notes:       extraction.Notes,
		TaxExempt:   exempt,
		SourceFile:  doc.SourceFile,
		ProcessedAt: p.now(),
		LineItems:   items,
		Totals:      totals,
		Usage:       usage,
	}
	result.Stage = StageCompleted

	log.Info("invoice processed",
		"invoice_number", result.Invoice.Number,
		"line_items", len(items),
		"pre_tax", totals.PreTax.String(),
		"tax", totals.Tax.String(),
		"post_tax", totals.PostTax.String(),
		"tokens", usage.Total())

	return result
}

// classifyAll classifies every line item, up to p.concurrency calls
// in flight. Each goroutine owns a distinct result slot, so totals
// never depend on completion order.
func (p *Pipeline) classifyAll(ctx context.Context, items []model.LineItem) ([]*model.Classification, error) {
	results := make([]*model.Classification, len(items))
	errs := make([]error, len(items))

	concurrency := p.concurrency
	if concurrency < 1 {
		concurrency = 1
	}
	sem := make(chan struct{}, concurrency)
	done := make(chan int, len(items))

	for i := range items {
		go func(idx int, description string) {
			sem <- struct{}{}
			defer func() { <-sem }()

			cls, err := p.classifier.Classify(ctx, description, p.table)
			results[idx] = cls
			errs[idx] = err
			done <- idx
		}(i, items[i].Description)
	}

	for range items {
		<-done
	}

	// First error in item order wins, for deterministic reporting.
	for i, err := range errs {
		if err != nil {
			return nil, fmt.Errorf("line item %d: %w", i+1, err)
		}
	}

	return results, nil
}
