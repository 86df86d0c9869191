package llm

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/shopspring/decimal"

	"github.com/retailco/taxproc/internal/model"
	"github.com/retailco/taxproc/internal/money"
)

// Embedded PDF text sent alongside the page image is capped so prompt
// cost stays bounded on text-heavy documents.
const maxEmbeddedTextChars = 2000

// Extractor extracts structured invoice data from a rendered document
// using the vision model.
type Extractor struct {
	client    *Client
	model     string
	maxTokens int64
}

// ExtractorOption configures the extractor
type ExtractorOption func(*Extractor)

// WithExtractionModel sets the vision model
func WithExtractionModel(m string) ExtractorOption {
	return func(e *Extractor) {
		e.model = m
	}
}

// WithExtractionMaxTokens caps the completion length
func WithExtractionMaxTokens(n int64) ExtractorOption {
	return func(e *Extractor) {
		e.maxTokens = n
	}
}

// NewExtractor creates a document extractor backed by the given client
func NewExtractor(client *Client, opts ...ExtractorOption) *Extractor {
	e := &Extractor{
		client:    client,
		model:     ModelGPT4o,
		maxTokens: 4000,
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// ExtractionResponse is the strict wire schema of the extraction call.
type ExtractionResponse struct {
	InvoiceNumber string           `json:"invoice_number"`
	VendorName    string           `json:"vendor_name"`
	InvoiceDate   string           `json:"invoice_date"`
	LineItems     []ExtractionItem `json:"line_items"`
	Notes         string           `json:"notes"`
}

// ExtractionItem is one raw line item in the wire schema.
type ExtractionItem struct {
	Description string      `json:"description"`
	Quantity    json.Number `json:"quantity"`
	UnitPrice   json.Number `json:"unit_price"`
}

// Extract performs one atomic extraction call. A malformed or partial
// response is an ExtractionError; there are no partial-credit
// semantics.
func (e *Extractor) Extract(ctx context.Context, doc *model.Document) (*model.Extraction, error) {
	prompt := UserPromptExtraction
	if doc.Text != "" {
		text := doc.Text
		if len(text) > maxEmbeddedTextChars {
			text = text[:maxEmbeddedTextChars]
		}
		prompt += fmt.Sprintf(UserPromptExtractionText, text)
	}

	completion, err := e.client.ChatWithImage(ctx, e.model, prompt, doc.Image, doc.MIMEType, e.maxTokens)
	if err != nil {
		return nil, model.NewExtractionError(doc.SourceFile, "AI call failed", err)
	}

	var resp ExtractionResponse
	if err := json.Unmarshal([]byte(ExtractJSON(completion.Content)), &resp); err != nil {
		return nil, model.NewExtractionError(doc.SourceFile, "malformed AI response", err)
	}

	extraction, err := resp.Validate()
	if err != nil {
		return nil, model.NewExtractionError(doc.SourceFile, "invalid AI response", err)
	}

	extraction.Usage = completion.Usage
	return extraction, nil
}

// Validate enforces the schema at the boundary: any violation rejects
// the whole response rather than trusting ad hoc field access.
func (r *ExtractionResponse) Validate() (*model.Extraction, error) {
	if strings.TrimSpace(r.InvoiceNumber) == "" {
		return nil, fmt.Errorf("missing invoice_number")
	}

	extraction := &model.Extraction{
		InvoiceNumber: strings.TrimSpace(r.InvoiceNumber),
		Vendor:        strings.TrimSpace(r.VendorName),
		Date:          strings.TrimSpace(r.InvoiceDate),
		Notes:         strings.TrimSpace(r.Notes),
		Items:         make([]model.ExtractedItem, 0, len(r.LineItems)),
	}

	for i, item := range r.LineItems {
		if strings.TrimSpace(item.Description) == "" {
			return nil, fmt.Errorf("line item %d: missing description", i+1)
		}

		quantity, err := parseAmount(item.Quantity, "quantity", i)
		if err != nil {
			return nil, err
		}
		unitPrice, err := parseAmount(item.UnitPrice, "unit_price", i)
		if err != nil {
			return nil, err
		}

		extraction.Items = append(extraction.Items, model.ExtractedItem{
			Description: strings.TrimSpace(item.Description),
			Quantity:    quantity,
			UnitPrice:   unitPrice,
		})
	}

	return extraction, nil
}

func parseAmount(n json.Number, field string, index int) (decimal.Decimal, error) {
	if n == "" {
		return decimal.Zero, fmt.Errorf("line item %d: missing %s", index+1, field)
	}
	d, err := money.FromString(n.String())
	if err != nil {
		return decimal.Zero, fmt.Errorf("line item %d: invalid %s %q: %w", index+1, field, n.String(), err)
	}
	if !money.IsNonNegative(d) {
		return decimal.Zero, fmt.Errorf("line item %d: negative %s %s", index+1, field, d)
	}
	return d, nil
}
