package invoicetax_test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/retailco/taxproc/pkg/invoicetax"
)

const testCategoryCSV = `Category,Tax Rate
Computers & Laptops,0.10
Office Furniture,0.05
`

func writeCategoryFile(t *testing.T) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "categories.csv")
	require.NoError(t, os.WriteFile(path, []byte(testCategoryCSV), 0o644))
	return path
}

func TestDefaultOptions(t *testing.T) {
	opts := invoicetax.DefaultOptions()

	assert.Equal(t, "gpt-4o", opts.ExtractionModel)
	assert.Equal(t, "gpt-4o-mini", opts.ClassificationModel)
	assert.Equal(t, "tax_rate_by_category.csv", opts.CategoryFile)
	assert.NotZero(t, opts.Timeout)
}

func TestNewProcessor(t *testing.T) {
	proc, err := invoicetax.NewProcessor(invoicetax.Options{
		APIKey:       "test-api-key",
		CategoryFile: writeCategoryFile(t),
	})
	require.NoError(t, err)
	require.NotNil(t, proc)

	assert.Equal(t, []string{"Computers & Laptops", "Office Furniture"}, proc.Categories())
}

func TestNewProcessor_MissingAPIKey(t *testing.T) {
	_, err := invoicetax.NewProcessor(invoicetax.Options{
		CategoryFile: writeCategoryFile(t),
	})
	require.Error(t, err)

	var cfgErr *invoicetax.ConfigError
	assert.ErrorAs(t, err, &cfgErr)
}

func TestNewProcessor_MissingCategoryFile(t *testing.T) {
	_, err := invoicetax.NewProcessor(invoicetax.Options{
		APIKey:       "test-api-key",
		CategoryFile: filepath.Join(t.TempDir(), "nope.csv"),
	})
	require.Error(t, err)

	var cfgErr *invoicetax.ConfigError
	assert.ErrorAs(t, err, &cfgErr)
}
