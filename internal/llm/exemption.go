package llm

import (
	"context"
	"fmt"
	"strings"

	"github.com/retailco/taxproc/internal/model"
)

// ExemptionDetector decides from free-text notes whether an invoice
// is tax exempt. Callers skip it entirely when notes are empty.
type ExemptionDetector struct {
	client    *Client
	model     string
	maxTokens int64
}

// DetectorOption configures the exemption detector
type DetectorOption func(*ExemptionDetector)

// WithDetectionModel sets the text model
func WithDetectionModel(m string) DetectorOption {
	return func(d *ExemptionDetector) {
		d.model = m
	}
}

// NewExemptionDetector creates an exemption detector backed by the given client
func NewExemptionDetector(client *Client, opts ...DetectorOption) *ExemptionDetector {
	d := &ExemptionDetector{
		client:    client,
		model:     ModelGPT4oMini,
		maxTokens: 10,
	}
	for _, opt := range opts {
		opt(d)
	}
	return d
}

// Detect runs the YES/NO exemption check on the notes text.
func (d *ExemptionDetector) Detect(ctx context.Context, notes string) (*model.ExemptionCheck, error) {
	prompt := fmt.Sprintf(UserPromptExemption, notes)

	completion, err := d.client.ChatText(ctx, d.model, SystemPromptExemption, prompt, d.maxTokens)
	if err != nil {
		return nil, fmt.Errorf("exemption check failed: %w", err)
	}

	answer := strings.ToUpper(strings.TrimSpace(completion.Content))
	answer = strings.Trim(answer, `."'`)

	switch {
	case strings.HasPrefix(answer, "YES"):
		return &model.ExemptionCheck{Exempt: true, Usage: completion.Usage}, nil
	case strings.HasPrefix(answer, "NO"):
		return &model.ExemptionCheck{Exempt: false, Usage: completion.Usage}, nil
	default:
		return nil, fmt.Errorf("exemption check returned %q, expected YES or NO", completion.Content)
	}
}
