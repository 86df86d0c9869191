// Package taxonomy loads the fixed category-to-tax-rate reference
// table and resolves classifier answers to canonical category names.
package taxonomy

import (
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/shopspring/decimal"

	"github.com/retailco/taxproc/internal/model"
	"github.com/retailco/taxproc/internal/money"
)

// Table is the immutable category name to tax rate mapping, loaded
// once at process start.
type Table struct {
	rates      map[string]decimal.Decimal
	categories []string
}

// Load reads the category table from a CSV file. Any problem with the
// file is a configuration error that aborts the run.
func Load(path string) (*Table, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, model.NewConfigError("category_file", "cannot open category table", err)
	}
	defer f.Close()

	t, err := Parse(f)
	if err != nil {
		return nil, model.NewConfigError("category_file", fmt.Sprintf("invalid category table %s", path), err)
	}
	return t, nil
}

// Parse reads a category table from CSV data. The expected layout is
// a header row followed by (category name, tax rate) rows, rate as a
// decimal fraction (0.10 means 10%).
func Parse(r io.Reader) (*Table, error) {
	reader := csv.NewReader(r)
	reader.FieldsPerRecord = 2
	reader.TrimLeadingSpace = true

	records, err := reader.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("malformed CSV: %w", err)
	}
	if len(records) < 2 {
		return nil, fmt.Errorf("category table is empty")
	}

	t := &Table{
		rates: make(map[string]decimal.Decimal, len(records)-1),
	}

	// Skip the header row.
	for i, record := range records[1:] {
		name := strings.TrimSpace(record[0])
		if name == "" {
			return nil, fmt.Errorf("row %d: empty category name", i+2)
		}
		if _, ok := t.rates[name]; ok {
			return nil, fmt.Errorf("row %d: duplicate category %q", i+2, name)
		}

		rate, err := money.FromString(strings.TrimSpace(record[1]))
		if err != nil {
			return nil, fmt.Errorf("row %d: invalid rate for %q: %w", i+2, name, err)
		}
		if !money.ValidRate(rate) {
			return nil, fmt.Errorf("row %d: rate %s for %q outside [0,1)", i+2, rate, name)
		}

		t.rates[name] = rate
		t.categories = append(t.categories, name)
	}

	return t, nil
}

// Rate returns the tax rate for an exact category name.
func (t *Table) Rate(name string) (decimal.Decimal, bool) {
	rate, ok := t.rates[name]
	return rate, ok
}

// Categories returns all valid category names in load order. The
// returned slice is a copy.
func (t *Table) Categories() []string {
	out := make([]string, len(t.categories))
	copy(out, t.categories)
	return out
}

// Len returns the number of categories.
func (t *Table) Len() int {
	return len(t.categories)
}

// Resolve maps a raw classifier answer to a canonical category name.
// It tolerates surrounding whitespace, quotes, trailing punctuation,
// and case differences, and falls back to a containment match. The
// second return is false when the answer cannot be resolved to any
// member of the table.
func (t *Table) Resolve(raw string) (string, bool) {
	answer := strings.TrimSpace(raw)
	answer = strings.Trim(answer, `"'`)
	answer = strings.TrimSuffix(answer, ".")
	if answer == "" {
		return "", false
	}

	if _, ok := t.rates[answer]; ok {
		return answer, true
	}

	lower := strings.ToLower(answer)
	for _, name := range t.categories {
		if strings.ToLower(name) == lower {
			return name, true
		}
	}

	// Containment pass: the model sometimes wraps the category in a
	// sentence, or abbreviates it.
	for _, name := range t.categories {
		nameLower := strings.ToLower(name)
		if strings.Contains(lower, nameLower) || strings.Contains(nameLower, lower) {
			return name, true
		}
	}

	return "", false
}
