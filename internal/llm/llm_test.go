package llm_test

import (
	"encoding/json"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/retailco/taxproc/internal/llm"
)

func TestNewClient(t *testing.T) {
	client := llm.NewClient("test-api-key")
	require.NotNil(t, client)
}

func TestNewClient_WithOptions(t *testing.T) {
	client := llm.NewClient("test-api-key",
		llm.WithBaseURL("https://custom.api.com/v1"),
	)
	require.NotNil(t, client)
}

func TestNewExtractor(t *testing.T) {
	client := llm.NewClient("test-api-key")
	extractor := llm.NewExtractor(client, llm.WithExtractionModel(llm.ModelGPT4o))
	require.NotNil(t, extractor)
}

func TestNewClassifier(t *testing.T) {
	client := llm.NewClient("test-api-key")
	classifier := llm.NewClassifier(client, llm.WithClassificationModel(llm.ModelGPT4oMini))
	require.NotNil(t, classifier)
}

func TestNewExemptionDetector(t *testing.T) {
	client := llm.NewClient("test-api-key")
	detector := llm.NewExemptionDetector(client)
	require.NotNil(t, detector)
}

func TestExtractJSON(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected string
	}{
		{
			name:     "json code block",
			input:    "Here is the invoice data:\n```json\n{\"invoice_number\": \"001\"}\n```",
			expected: `{"invoice_number": "001"}`,
		},
		{
			name:     "generic code block",
			input:    "```\n{\"invoice_number\": \"002\"}\n```",
			expected: `{"invoice_number": "002"}`,
		},
		{
			name:     "raw json object",
			input:    `{"invoice_number": "003"}`,
			expected: `{"invoice_number": "003"}`,
		},
		{
			name:     "json with explanation",
			input:    "I found the following data:\n```json\n{\"total\": 1000}\n```\nThis represents the total amount.",
			expected: `{"total": 1000}`,
		},
		{
			name:     "plain text passthrough",
			input:    "  Office Furniture  ",
			expected: "Office Furniture",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := llm.ExtractJSON(tt.input)
			assert.Equal(t, tt.expected, result)
		})
	}
}

func TestExtractionResponse_Parsing(t *testing.T) {
	jsonResp := `{
		"invoice_number": "INV-2043",
		"vendor_name": "Northside Office Supply",
		"invoice_date": "2026-08-12",
		"line_items": [
			{
				"description": "Laptop",
				"quantity": 1,
				"unit_price": 1000
			},
			{
				"description": "Office Chair",
				"quantity": 2,
				"unit_price": 150.00
			}
		],
		"notes": "Net 30"
	}`

	var resp llm.ExtractionResponse
	err := json.Unmarshal([]byte(jsonResp), &resp)
	require.NoError(t, err)

	extraction, err := resp.Validate()
	require.NoError(t, err)

	assert.Equal(t, "INV-2043", extraction.InvoiceNumber)
	assert.Equal(t, "Northside Office Supply", extraction.Vendor)
	assert.Equal(t, "2026-08-12", extraction.Date)
	assert.Equal(t, "Net 30", extraction.Notes)
	require.Len(t, extraction.Items, 2)
	assert.Equal(t, "Office Chair", extraction.Items[1].Description)
	assert.True(t, extraction.Items[1].Quantity.Equal(decimal.NewFromInt(2)))
	assert.True(t, extraction.Items[1].UnitPrice.Equal(decimal.NewFromInt(150)))
}

func TestExtractionResponse_Validate_Rejects(t *testing.T) {
	tests := []struct {
		name string
		json string
		want string
	}{
		{
			name: "missing invoice number",
			json: `{"vendor_name": "X", "line_items": []}`,
			want: "missing invoice_number",
		},
		{
			name: "item without description",
			json: `{"invoice_number": "1", "line_items": [{"description": "", "quantity": 1, "unit_price": 5}]}`,
			want: "missing description",
		},
		{
			name: "item without quantity",
			json: `{"invoice_number": "1", "line_items": [{"description": "Pens", "unit_price": 5}]}`,
			want: "missing quantity",
		},
		{
			name: "negative unit price",
			json: `{"invoice_number": "1", "line_items": [{"description": "Pens", "quantity": 1, "unit_price": -5}]}`,
			want: "negative unit_price",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var resp llm.ExtractionResponse
			require.NoError(t, json.Unmarshal([]byte(tt.json), &resp))

			_, err := resp.Validate()
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.want)
		})
	}
}

func TestPromptTemplates(t *testing.T) {
	assert.NotEmpty(t, llm.UserPromptExtraction)
	assert.NotEmpty(t, llm.UserPromptClassification)
	assert.NotEmpty(t, llm.UserPromptClassificationRetry)
	assert.NotEmpty(t, llm.UserPromptExemption)

	assert.Contains(t, llm.UserPromptExtraction, "JSON")
	assert.Contains(t, llm.UserPromptClassification, "tax category")
	assert.Contains(t, llm.UserPromptExemption, "YES")
	assert.Contains(t, llm.UserPromptExemption, "NO")
}

// Benchmark tests

func BenchmarkExtractJSON(b *testing.B) {
	input := "Here is the data:\n```json\n{\"invoice_number\": \"001\", \"total\": 1000}\n```"

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		llm.ExtractJSON(input)
	}
}
