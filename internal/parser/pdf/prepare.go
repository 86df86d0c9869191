// Package pdf prepares source PDF documents for vision extraction:
// structural validation, first-page rendering, and best-effort
// embedded text extraction.
package pdf

import (
	"bytes"
	"image/png"
	"path/filepath"
	"strings"

	"github.com/gen2brain/go-fitz"
	"github.com/pdfcpu/pdfcpu/pkg/api"
	pdfmodel "github.com/pdfcpu/pdfcpu/pkg/pdfcpu/model"

	"github.com/retailco/taxproc/internal/model"
)

// Prepare validates the PDF and renders its first page to PNG for the
// vision call. Most invoices are single page; only the first page is
// rendered. An unreadable document is an ExtractionError, abandoning
// the invoice.
func Prepare(sourceFile string, data []byte) (*model.Document, error) {
	name := filepath.Base(sourceFile)

	conf := pdfmodel.NewDefaultConfiguration()
	pdfCtx, err := api.ReadValidateAndOptimize(bytes.NewReader(data), conf)
	if err != nil {
		return nil, model.NewExtractionError(name, "not a readable PDF", err)
	}
	if pdfCtx.PageCount == 0 {
		return nil, model.NewExtractionError(name, "PDF has no pages", nil)
	}

	doc, err := fitz.NewFromMemory(data)
	if err != nil {
		return nil, model.NewExtractionError(name, "cannot open PDF for rendering", err)
	}
	defer doc.Close()

	img, err := doc.Image(0)
	if err != nil {
		return nil, model.NewExtractionError(name, "cannot render first page", err)
	}

	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		return nil, model.NewExtractionError(name, "cannot encode page image", err)
	}

	// Embedded text is an extraction hint, not a requirement; scanned
	// documents legitimately have none.
	text, err := doc.Text(0)
	if err != nil {
		text = ""
	}

	return &model.Document{
		SourceFile: name,
		Image:      buf.Bytes(),
		MIMEType:   "image/png",
		Text:       strings.TrimSpace(text),
		Pages:      pdfCtx.PageCount,
	}, nil
}

// IsPDF reports whether data starts with the PDF magic header.
func IsPDF(data []byte) bool {
	return len(data) >= 4 && bytes.HasPrefix(data, []byte("%PDF"))
}
