// Package apperror provides structured error handling for the seeder.
// Every per-pair outcome that is not a successful write is an AppError, so the
// bulk runner can classify it without string matching.
package apperror

import (
	"errors"
	"fmt"
)

// Skip reasons. A skip is a deliberate no-op for one (field, entity) pair.
const (
	CodeUnsupportedType     = "unsupported_type"
	CodeInsufficientOptions = "insufficient_options"
	CodeTaxonomyUnresolved  = "taxonomy_unresolved"
)

// Hard failures.
const (
	CodePersistence  = "persistence_error"
	CodeInvalidField = "invalid_field"
	CodeConfig       = "config_error"
	CodeNotFound     = "not_found"
	CodeProvider     = "provider_error"
	CodeInvalidInput = "invalid_input"
)

// AppError is the standard error type for the seeder.
type AppError struct {
	// Code is a machine-readable error identifier
	Code string `json:"code"`

	// Message is a human-readable error description
	Message string `json:"message"`

	// Details contains additional context (field key, entity, counts)
	Details map[string]any `json:"details,omitempty"`

	// Err is the underlying error
	Err error `json:"-"`
}

// Error implements error interface
func (e *AppError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %s (caused by: %v)", e.Code, e.Message, e.Err)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

// Unwrap returns the underlying error for errors.Is/As support
func (e *AppError) Unwrap() error {
	return e.Err
}

// Skip reports whether the error is a deliberate skip rather than a failure.
func (e *AppError) Skip() bool {
	switch e.Code {
	case CodeUnsupportedType, CodeInsufficientOptions, CodeTaxonomyUnresolved:
		return true
	}
	return false
}

// WithDetail adds a key-value pair to error details
func (e *AppError) WithDetail(key string, value any) *AppError {
	if e.Details == nil {
		e.Details = make(map[string]any)
	}
	e.Details[key] = value
	return e
}

// WithCause sets the underlying error
func (e *AppError) WithCause(err error) *AppError {
	e.Err = err
	return e
}

// --- Factory functions ---

// NewUnsupportedType is returned for field types outside the dispatch table,
// including file fields which are never seeded.
func NewUnsupportedType(fieldType string) *AppError {
	return &AppError{
		Code:    CodeUnsupportedType,
		Message: fmt.Sprintf("field type %q is not seeded", fieldType),
		Details: map[string]any{"type": fieldType},
	}
}

// NewInsufficientOptions is returned when a choice field declares fewer
// options than its strategy needs.
func NewInsufficientOptions(metaKey string, required, available int) *AppError {
	return &AppError{
		Code:    CodeInsufficientOptions,
		Message: fmt.Sprintf("field %s needs %d options, has %d", metaKey, required, available),
		Details: map[string]any{
			"meta_key":  metaKey,
			"required":  required,
			"available": available,
		},
	}
}

// NewTaxonomyUnresolved is returned when a term field has no taxonomy or the
// taxonomy has no terms to sample from.
func NewTaxonomyUnresolved(taxonomy string) *AppError {
	return &AppError{
		Code:    CodeTaxonomyUnresolved,
		Message: fmt.Sprintf("taxonomy %q has no terms", taxonomy),
		Details: map[string]any{"taxonomy": taxonomy},
	}
}

// NewPersistence wraps a storage failure.
func NewPersistence(op string, err error) *AppError {
	return &AppError{
		Code:    CodePersistence,
		Message: op + " failed",
		Details: map[string]any{"op": op},
		Err:     err,
	}
}

// NewInvalidField is returned by field construction.
func NewInvalidField(metaKey, message string) *AppError {
	return &AppError{
		Code:    CodeInvalidField,
		Message: message,
		Details: map[string]any{"meta_key": metaKey},
	}
}

// NewConfig creates a configuration error.
func NewConfig(message string) *AppError {
	return &AppError{
		Code:    CodeConfig,
		Message: message,
	}
}

// NewNotFound creates a not found error.
func NewNotFound(entity string, id any) *AppError {
	return &AppError{
		Code:    CodeNotFound,
		Message: fmt.Sprintf("%s not found", entity),
		Details: map[string]any{"entity": entity, "id": id},
	}
}

// NewProvider wraps a failure of an external provider (photo API).
func NewProvider(provider string, err error) *AppError {
	return &AppError{
		Code:    CodeProvider,
		Message: provider + " request failed",
		Details: map[string]any{"provider": provider},
		Err:     err,
	}
}

// NewInvalidInput creates an invalid argument error.
func NewInvalidInput(message string) *AppError {
	return &AppError{
		Code:    CodeInvalidInput,
		Message: message,
	}
}

// --- Helper functions ---

// AsAppError extracts AppError from error chain
func AsAppError(err error) (*AppError, bool) {
	var appErr *AppError
	if errors.As(err, &appErr) {
		return appErr, true
	}
	return nil, false
}

// IsSkip reports whether err is a deliberate skip.
func IsSkip(err error) bool {
	if appErr, ok := AsAppError(err); ok {
		return appErr.Skip()
	}
	return false
}

// SkipReason returns the skip code, or "" when err is not a skip.
func SkipReason(err error) string {
	if appErr, ok := AsAppError(err); ok && appErr.Skip() {
		return appErr.Code
	}
	return ""
}

// IsNotFound checks if error is CodeNotFound
func IsNotFound(err error) bool {
	if appErr, ok := AsAppError(err); ok {
		return appErr.Code == CodeNotFound
	}
	return false
}

// IsPersistence checks if error is CodePersistence
func IsPersistence(err error) bool {
	if appErr, ok := AsAppError(err); ok {
		return appErr.Code == CodePersistence
	}
	return false
}
