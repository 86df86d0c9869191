package model

import "fmt"

// ConfigError represents a configuration problem that aborts the
// entire run before any document is processed.
type ConfigError struct {
	Field   string
	Message string
	Cause   error
}

func (e *ConfigError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("configuration error [%s]: %s (%v)", e.Field, e.Message, e.Cause)
	}
	return fmt.Sprintf("configuration error [%s]: %s", e.Field, e.Message)
}

func (e *ConfigError) Unwrap() error {
	return e.Cause
}

// NewConfigError creates a new configuration error
func NewConfigError(field, message string, cause error) *ConfigError {
	return &ConfigError{
		Field:   field,
		Message: message,
		Cause:   cause,
	}
}

// ExtractionError represents a per-document extraction failure: the
// source is unreadable or the AI response is malformed. The document
// is abandoned and the batch continues.
type ExtractionError struct {
	Source  string
	Message string
	Cause   error
}

func (e *ExtractionError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("extraction failed [%s]: %s (%v)", e.Source, e.Message, e.Cause)
	}
	return fmt.Sprintf("extraction failed [%s]: %s", e.Source, e.Message)
}

func (e *ExtractionError) Unwrap() error {
	return e.Cause
}

// NewExtractionError creates a new extraction error
func NewExtractionError(source, message string, cause error) *ExtractionError {
	return &ExtractionError{
		Source:  source,
		Message: message,
		Cause:   cause,
	}
}

// ClassificationError means the classifier could not resolve a line
// item description to a category in the valid set. It is never
// silently defaulted to a rate.
type ClassificationError struct {
	Description string
	Answer      string
	Message     string
	Cause       error
}

func (e *ClassificationError) Error() string {
	if e.Answer != "" {
		return fmt.Sprintf("classification failed for %q: %s (got %q)", e.Description, e.Message, e.Answer)
	}
	return fmt.Sprintf("classification failed for %q: %s", e.Description, e.Message)
}

func (e *ClassificationError) Unwrap() error {
	return e.Cause
}

// NewClassificationError creates a new classification error
func NewClassificationError(description, answer, message string, cause error) *ClassificationError {
	return &ClassificationError{
		Description: description,
		Answer:      answer,
		Message:     message,
		Cause:       cause,
	}
}

// OutputError represents a per-document write failure. It is reported
// and does not roll back computation or affect other documents.
type OutputError struct {
	Path   string
	Format string
	Cause  error
}

func (e *OutputError) Error() string {
	return fmt.Sprintf("output failed [%s] %s: %v", e.Format, e.Path, e.Cause)
}

func (e *OutputError) Unwrap() error {
	return e.Cause
}

// NewOutputError creates a new output error
func NewOutputError(path, format string, cause error) *OutputError {
	return &OutputError{
		Path:   path,
		Format: format,
		Cause:  cause,
	}
}
