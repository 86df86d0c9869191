// Package model defines the core invoice data model shared by the
// extraction, classification, and output layers.
package model

import (
	"time"

	"github.com/shopspring/decimal"
)

// TokenUsage tracks AI service consumption for cost accounting.
type TokenUsage struct {
	PromptTokens     int64 `json:"prompt_tokens"`
	CompletionTokens int64 `json:"completion_tokens"`
}

// Add accumulates another usage count into u.
func (u *TokenUsage) Add(other TokenUsage) {
	u.PromptTokens += other.PromptTokens
	u.CompletionTokens += other.CompletionTokens
}

// Total returns prompt plus completion tokens.
func (u TokenUsage) Total() int64 {
	return u.PromptTokens + u.CompletionTokens
}

// LineItem is one purchased product or service entry on an invoice.
//
// Category and Rate are filled by the classification step; the three
// amount fields are filled by the totals computation. A line item is
// never mutated after that.
type LineItem struct {
	Description   string          `json:"description"`
	Quantity      decimal.Decimal `json:"quantity"`
	UnitPrice     decimal.Decimal `json:"unit_price"`
	Category      string          `json:"category"`
	Rate          decimal.Decimal `json:"rate"`
	PreTaxAmount  decimal.Decimal `json:"pre_tax_amount"`
	TaxAmount     decimal.Decimal `json:"tax_amount"`
	PostTaxAmount decimal.Decimal `json:"post_tax_amount"`
}

// Totals holds the invoice-level sums over all line items.
type Totals struct {
	PreTax  decimal.Decimal `json:"pre_tax_total"`
	Tax     decimal.Decimal `json:"tax_total"`
	PostTax decimal.Decimal `json:"post_tax_total"`
}

// Invoice is the fully processed record for one source document.
// It is completely populated before being handed to the output
// writer and never mutated afterwards.
type Invoice struct {
	Number      string     `json:"invoice_number"`
	Vendor      string     `json:"vendor"`
	Date        string     `json:"date"`
	Notes       string     `json:"notes"`
	TaxExempt   bool       `json:"is_tax_exempt"`
	SourceFile  string     `json:"source_file,omitempty"`
	ProcessedAt time.Time  `json:"processed_at"`
	LineItems   []LineItem `json:"line_items"`
	Totals      Totals     `json:"totals"`
	Usage       TokenUsage `json:"token_usage"`
}

// Document is the rendered form of one source PDF, ready for the
// vision extraction call. Text is best-effort embedded text and may
// be empty for scanned documents.
type Document struct {
	SourceFile string
	Image      []byte
	MIMEType   string
	Text       string
	Pages      int
}

// ExtractedItem is a raw line item as returned by the document
// extractor, before classification.
type ExtractedItem struct {
	Description string
	Quantity    decimal.Decimal
	UnitPrice   decimal.Decimal
}

// Extraction is the structured response of one document extraction call.
type Extraction struct {
	InvoiceNumber string
	Vendor        string
	Date          string
	Notes         string
	Items         []ExtractedItem
	Usage         TokenUsage
}

// Classification is the response of one tax classification call.
// Category is always a canonical member of the category table.
type Classification struct {
	Category string
	Usage    TokenUsage
}

// ExemptionCheck is the response of one tax-exemption detection call.
type ExemptionCheck struct {
	Exempt bool
	Usage  TokenUsage
}
