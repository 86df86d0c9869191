package processor_test

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/retailco/taxproc/internal/model"
	"github.com/retailco/taxproc/internal/output"
	"github.com/retailco/taxproc/internal/processor"
)

// batchExtractor fails for one specific file and succeeds for the rest.
type batchExtractor struct {
	failFor string
}

func (e *batchExtractor) Extract(ctx context.Context, doc *model.Document) (*model.Extraction, error) {
	if doc.SourceFile == e.failFor {
		return nil, model.NewExtractionError(doc.SourceFile, "document unreadable", nil)
	}
	return &model.Extraction{
		InvoiceNumber: "INV-" + doc.SourceFile,
		Vendor:        "Vendor",
		Items: []model.ExtractedItem{
			{Description: "Laptop", Quantity: decimal.NewFromInt(1), UnitPrice: decimal.NewFromInt(100)},
		},
		Usage: model.TokenUsage{PromptTokens: 10, CompletionTokens: 1},
	}, nil
}

func writeBatchFiles(t *testing.T, dir string, names []string) []string {
	t.Helper()
	var paths []string
	for _, name := range names {
		path := filepath.Join(dir, name)
		require.NoError(t, os.WriteFile(path, []byte("%PDF-1.4 fake"), 0o644))
		paths = append(paths, path)
	}
	return paths
}

func TestBatch_OneFailureDoesNotAbort(t *testing.T) {
	srcDir := t.TempDir()
	outDir := t.TempDir()
	files := writeBatchFiles(t, srcDir, []string{"a.pdf", "b.pdf", "c.pdf", "d.pdf", "e.pdf"})

	classifier := &fakeClassifier{categories: map[string]string{"Laptop": "Computers & Laptops"}}
	pipeline := processor.NewPipeline(&batchExtractor{failFor: "c.pdf"}, classifier, &fakeDetector{}, testTable(t))

	writer, err := output.NewWriter(outDir)
	require.NoError(t, err)

	batch := processor.NewBatch(pipeline, writer,
		processor.WithPreparer(func(sourceFile string, data []byte) (*model.Document, error) {
			return &model.Document{
				SourceFile: filepath.Base(sourceFile),
				Image:      data,
				MIMEType:   "image/png",
				Pages:      1,
			}, nil
		}))

	report := batch.Run(context.Background(), files)

	require.Len(t, report.Results, 5)
	assert.Equal(t, 4, report.Succeeded())
	assert.Equal(t, 1, report.Failed())

	// Four complete output sets on disk, none for the failed document.
	for _, stem := range []string{"a", "b", "d", "e"} {
		for _, ext := range []string{".json", ".csv", ".txt"} {
			assert.FileExists(t, filepath.Join(outDir, stem+ext))
		}
	}
	assert.NoFileExists(t, filepath.Join(outDir, "c.json"))

	// The failure names its document and stage.
	var failed *processor.FileResult
	for _, res := range report.Results {
		if res.Err != nil {
			failed = res
		}
	}
	require.NotNil(t, failed)
	assert.Contains(t, failed.File, "c.pdf")
	assert.Equal(t, processor.StageExtract, failed.Stage)
}

func TestBatch_UnreadableFile(t *testing.T) {
	pipeline := processor.NewPipeline(&batchExtractor{}, &fakeClassifier{}, &fakeDetector{}, testTable(t))
	writer, err := output.NewWriter(t.TempDir())
	require.NoError(t, err)

	batch := processor.NewBatch(pipeline, writer)
	report := batch.Run(context.Background(), []string{filepath.Join(t.TempDir(), "missing.pdf")})

	require.Len(t, report.Results, 1)
	assert.Equal(t, 0, report.Succeeded())

	var extErr *model.ExtractionError
	assert.ErrorAs(t, report.Results[0].Err, &extErr)
}
