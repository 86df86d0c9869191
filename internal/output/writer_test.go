package output_test

import (
	"encoding/csv"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/retailco/taxproc/internal/model"
	"github.com/retailco/taxproc/internal/output"
)

func sampleInvoice() *model.Invoice {
	return &model.Invoice{
		Number:      "INV-001",
		Vendor:      "Northside Office Supply",
		Date:        "2026-08-12",
		Notes:       "Net 30",
		SourceFile:  "invoice_aug.pdf",
		ProcessedAt: time.Date(2026, 8, 29, 12, 0, 0, 0, time.UTC),
		LineItems: []model.LineItem{
			{
				Description:   "Laptop",
				Quantity:      decimal.NewFromInt(1),
				UnitPrice:     decimal.NewFromInt(1000),
				Category:      "Computers & Laptops",
				Rate:          decimal.RequireFromString("0.10"),
				PreTaxAmount:  decimal.NewFromInt(1000),
				TaxAmount:     decimal.NewFromInt(100),
				PostTaxAmount: decimal.NewFromInt(1100),
			},
			{
				Description:   "Office Chair",
				Quantity:      decimal.NewFromInt(2),
				UnitPrice:     decimal.NewFromInt(150),
				Category:      "Office Furniture",
				Rate:          decimal.RequireFromString("0.05"),
				PreTaxAmount:  decimal.NewFromInt(300),
				TaxAmount:     decimal.NewFromInt(15),
				PostTaxAmount: decimal.NewFromInt(315),
			},
		},
		Totals: model.Totals{
			PreTax:  decimal.NewFromInt(1300),
			Tax:     decimal.NewFromInt(115),
			PostTax: decimal.NewFromInt(1415),
		},
		Usage: model.TokenUsage{PromptTokens: 1500, CompletionTokens: 230},
	}
}

func TestWrite_ThreeFiles(t *testing.T) {
	dir := t.TempDir()
	writer, err := output.NewWriter(dir)
	require.NoError(t, err)

	paths, err := writer.Write(sampleInvoice())
	require.NoError(t, err)
	require.Len(t, paths, 3)

	assert.FileExists(t, filepath.Join(dir, "invoice_aug.json"))
	assert.FileExists(t, filepath.Join(dir, "invoice_aug.csv"))
	assert.FileExists(t, filepath.Join(dir, "invoice_aug.txt"))
}

func TestWrite_JSONRoundTrip(t *testing.T) {
	dir := t.TempDir()
	writer, err := output.NewWriter(dir)
	require.NoError(t, err)

	_, err = writer.Write(sampleInvoice())
	require.NoError(t, err)

	data, err := os.ReadFile(filepath.Join(dir, "invoice_aug.json"))
	require.NoError(t, err)

	var got model.Invoice
	require.NoError(t, json.Unmarshal(data, &got))

	assert.Equal(t, "INV-001", got.Number)
	assert.Equal(t, "Northside Office Supply", got.Vendor)
	require.Len(t, got.LineItems, 2)
	assert.Equal(t, "Office Furniture", got.LineItems[1].Category)
	assert.True(t, got.Totals.PostTax.Equal(decimal.NewFromInt(1415)))
	assert.Equal(t, int64(1500), got.Usage.PromptTokens)
}

func TestWrite_CSVFlattened(t *testing.T) {
	dir := t.TempDir()
	writer, err := output.NewWriter(dir)
	require.NoError(t, err)

	_, err = writer.Write(sampleInvoice())
	require.NoError(t, err)

	f, err := os.Open(filepath.Join(dir, "invoice_aug.csv"))
	require.NoError(t, err)
	defer f.Close()

	rows, err := csv.NewReader(f).ReadAll()
	require.NoError(t, err)

	// Header plus one row per line item.
	require.Len(t, rows, 3)
	assert.Equal(t, "invoice_number", rows[0][0])

	// Invoice-level fields repeated on every row.
	assert.Equal(t, "INV-001", rows[1][0])
	assert.Equal(t, "INV-001", rows[2][0])
	assert.Equal(t, "Laptop", rows[1][3])
	assert.Equal(t, "Office Chair", rows[2][3])
	assert.Equal(t, "1415", rows[1][13])
	assert.Equal(t, "1415", rows[2][13])
}

func TestWrite_SummaryContent(t *testing.T) {
	dir := t.TempDir()
	writer, err := output.NewWriter(dir)
	require.NoError(t, err)

	_, err = writer.Write(sampleInvoice())
	require.NoError(t, err)

	data, err := os.ReadFile(filepath.Join(dir, "invoice_aug.txt"))
	require.NoError(t, err)
	text := string(data)

	assert.Contains(t, text, "INV-001")
	assert.Contains(t, text, "Northside Office Supply")
	assert.Contains(t, text, "$1300.00")
	assert.Contains(t, text, "$115.00")
	assert.Contains(t, text, "$1415.00")
	// Summary is header and totals only; line item details stay out.
	assert.NotContains(t, text, "Office Chair")
}

func TestWrite_BadDirectory(t *testing.T) {
	dir := t.TempDir()
	// A file where the writer expects a directory.
	blocked := filepath.Join(dir, "blocked")
	require.NoError(t, os.WriteFile(blocked, []byte("x"), 0o644))

	_, err := output.NewWriter(blocked)
	require.Error(t, err)

	var outErr *model.OutputError
	assert.ErrorAs(t, err, &outErr)
}
