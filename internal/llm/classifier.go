package llm

import (
	"context"
	"fmt"
	"strings"

	"github.com/retailco/taxproc/internal/model"
	"github.com/retailco/taxproc/internal/taxonomy"
)

// Classifier maps a line item description to exactly one category
// from the reference table.
type Classifier struct {
	client    *Client
	model     string
	maxTokens int64
}

// ClassifierOption configures the classifier
type ClassifierOption func(*Classifier)

// WithClassificationModel sets the text model
func WithClassificationModel(m string) ClassifierOption {
	return func(c *Classifier) {
		c.model = m
	}
}

// NewClassifier creates a tax classifier backed by the given client
func NewClassifier(client *Client, opts ...ClassifierOption) *Classifier {
	c := &Classifier{
		client:    client,
		model:     ModelGPT4oMini,
		maxTokens: 50,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Classify resolves a description to a canonical category name.
//
// The returned category is always a member of the table. An answer
// outside the valid set gets one corrective retry with the invalid
// answer quoted back; if that also fails to resolve, the result is a
// ClassificationError. A rate is never silently defaulted.
func (c *Classifier) Classify(ctx context.Context, description string, table *taxonomy.Table) (*model.Classification, error) {
	categories := enumerateCategories(table)

	var usage model.TokenUsage

	prompt := fmt.Sprintf(UserPromptClassification, description, categories)
	completion, err := c.client.ChatText(ctx, c.model, SystemPromptClassifier, prompt, c.maxTokens)
	if err != nil {
		return nil, model.NewClassificationError(description, "", "AI call failed", err)
	}
	usage.Add(completion.Usage)

	if category, ok := table.Resolve(completion.Content); ok {
		return &model.Classification{Category: category, Usage: usage}, nil
	}

	firstAnswer := strings.TrimSpace(completion.Content)

	retryPrompt := fmt.Sprintf(UserPromptClassificationRetry, firstAnswer, description, categories)
	completion, err = c.client.ChatText(ctx, c.model, SystemPromptClassifier, retryPrompt, c.maxTokens)
	if err != nil {
		return nil, model.NewClassificationError(description, firstAnswer, "AI retry call failed", err)
	}
	usage.Add(completion.Usage)

	if category, ok := table.Resolve(completion.Content); ok {
		return &model.Classification{Category: category, Usage: usage}, nil
	}

	return nil, model.NewClassificationError(description, strings.TrimSpace(completion.Content),
		"answer not in the valid category set after retry", nil)
}

func enumerateCategories(table *taxonomy.Table) string {
	names := table.Categories()
	var b strings.Builder
	for _, name := range names {
		b.WriteString("- ")
		b.WriteString(name)
		b.WriteByte('\n')
	}
	return strings.TrimRight(b.String(), "\n")
}
