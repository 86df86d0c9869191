package pdf_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/retailco/taxproc/internal/model"
	"github.com/retailco/taxproc/internal/parser/pdf"
)

func TestIsPDF(t *testing.T) {
	tests := []struct {
		name string
		data []byte
		want bool
	}{
		{"pdf header", []byte("%PDF-1.7\n..."), true},
		{"minimal header", []byte("%PDF"), true},
		{"plain text", []byte("hello world"), false},
		{"png header", []byte{0x89, 'P', 'N', 'G'}, false},
		{"too short", []byte("%PD"), false},
		{"empty", nil, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, pdf.IsPDF(tt.data))
		})
	}
}

func TestPrepare_MalformedDocument(t *testing.T) {
	_, err := pdf.Prepare("broken.pdf", []byte("%PDF-1.4 truncated garbage"))
	require.Error(t, err)

	var extErr *model.ExtractionError
	require.ErrorAs(t, err, &extErr)
	assert.Equal(t, "broken.pdf", extErr.Source)
}

func TestPrepare_NotAPDF(t *testing.T) {
	_, err := pdf.Prepare("/tmp/notes.txt", []byte("just some text"))
	require.Error(t, err)

	var extErr *model.ExtractionError
	require.ErrorAs(t, err, &extErr)
	assert.Equal(t, "notes.txt", extErr.Source)
}
