// Package output serializes completed invoice records to the three
// on-disk representations: structured JSON, flattened CSV, and a
// plain-text summary.
package output

import (
	"encoding/csv"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/retailco/taxproc/internal/model"
)

// csvHeader is the flattened tabular layout: one row per line item,
// invoice-level fields repeated per row.
var csvHeader = []string{
	"invoice_number", "vendor", "date",
	"description", "quantity", "unit_price",
	"category", "rate", "pre_tax_amount", "tax_amount", "post_tax_amount",
	"pre_tax_total", "tax_total", "post_tax_total",
	"prompt_tokens", "completion_tokens",
	"notes", "is_tax_exempt",
}

// Writer writes per-invoice output files into a single directory.
type Writer struct {
	dir string
}

// NewWriter creates a writer rooted at dir, creating it if needed.
func NewWriter(dir string) (*Writer, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, model.NewOutputError(dir, "dir", err)
	}
	return &Writer{dir: dir}, nil
}

// Write serializes one completed invoice to <stem>.json, <stem>.csv,
// and <stem>.txt, where stem is derived from the source file name. It
// returns the paths written so far; a failure on any file is an
// OutputError for this invoice only.
func (w *Writer) Write(inv *model.Invoice) ([]string, error) {
	stem := stemFor(inv)
	var written []string

	jsonPath := filepath.Join(w.dir, stem+".json")
	if err := w.writeJSON(jsonPath, inv); err != nil {
		return written, err
	}
	written = append(written, jsonPath)

	csvPath := filepath.Join(w.dir, stem+".csv")
	if err := w.writeCSV(csvPath, inv); err != nil {
		return written, err
	}
	written = append(written, csvPath)

	txtPath := filepath.Join(w.dir, stem+".txt")
	if err := w.writeSummary(txtPath, inv); err != nil {
		return written, err
	}
	written = append(written, txtPath)

	return written, nil
}

func (w *Writer) writeJSON(path string, inv *model.Invoice) error {
	f, err := os.Create(path)
	if err != nil {
		return model.NewOutputError(path, "json", err)
	}
	defer f.Close()

	encoder := json.NewEncoder(f)
	encoder.SetIndent("", "  ")
	if err := encoder.Encode(inv); err != nil {
		return model.NewOutputError(path, "json", err)
	}
	return nil
}

func (w *Writer) writeCSV(path string, inv *model.Invoice) error {
	f, err := os.Create(path)
	if err != nil {
		return model.NewOutputError(path, "csv", err)
	}
	defer f.Close()

	writer := csv.NewWriter(f)
	if err := writer.Write(csvHeader); err != nil {
		return model.NewOutputError(path, "csv", err)
	}

	for _, item := range inv.LineItems {
		row := []string{
			inv.Number, inv.Vendor, inv.Date,
			item.Description, item.Quantity.String(), item.UnitPrice.String(),
			item.Category, item.Rate.String(),
			item.PreTaxAmount.String(), item.TaxAmount.String(), item.PostTaxAmount.String(),
			inv.Totals.PreTax.String(), inv.Totals.Tax.String(), inv.Totals.PostTax.String(),
			strconv.FormatInt(inv.Usage.PromptTokens, 10),
			strconv.FormatInt(inv.Usage.CompletionTokens, 10),
			inv.Notes, strconv.FormatBool(inv.TaxExempt),
		}
		if err := writer.Write(row); err != nil {
			return model.NewOutputError(path, "csv", err)
		}
	}

	writer.Flush()
	if err := writer.Error(); err != nil {
		return model.NewOutputError(path, "csv", err)
	}
	return nil
}

func (w *Writer) writeSummary(path string, inv *model.Invoice) error {
	var b strings.Builder

	fmt.Fprintf(&b, "INVOICE PROCESSING SUMMARY\n")
	fmt.Fprintf(&b, "%s\n\n", strings.Repeat("=", 60))
	fmt.Fprintf(&b, "Invoice Number:  %s\n", inv.Number)
	fmt.Fprintf(&b, "Vendor:          %s\n", inv.Vendor)
	fmt.Fprintf(&b, "Date:            %s\n", inv.Date)
	fmt.Fprintf(&b, "Source File:     %s\n", inv.SourceFile)
	fmt.Fprintf(&b, "Line Items:      %d\n", len(inv.LineItems))
	fmt.Fprintf(&b, "Tax Exempt:      %t\n\n", inv.TaxExempt)
	fmt.Fprintf(&b, "Pre-Tax Total:   $%s\n", inv.Totals.PreTax.StringFixed(2))
	fmt.Fprintf(&b, "Tax Total:       $%s\n", inv.Totals.Tax.StringFixed(2))
	fmt.Fprintf(&b, "Post-Tax Total:  $%s\n\n", inv.Totals.PostTax.StringFixed(2))
	fmt.Fprintf(&b, "Prompt Tokens:     %d\n", inv.Usage.PromptTokens)
	fmt.Fprintf(&b, "Completion Tokens: %d\n", inv.Usage.CompletionTokens)

	if err := os.WriteFile(path, []byte(b.String()), 0o644); err != nil {
		return model.NewOutputError(path, "txt", err)
	}
	return nil
}

func stemFor(inv *model.Invoice) string {
	base := filepath.Base(inv.SourceFile)
	stem := strings.TrimSuffix(base, filepath.Ext(base))
	if stem == "" || stem == "." {
		stem = "invoice_" + inv.Number
	}
	return stem
}
