package payment

import (
	"errors"
	"fmt"
	"sort"
	"strings"
)

var (
	ErrValidation        = errors.New("validation error")
	ErrInvalidCreditCard = errors.New("invalid credit card")
	ErrNotFound          = errors.New("payment not found")
	ErrInvalidStatus     = errors.New("invalid payment status")
	ErrProcessing        = errors.New("payment processing error")
)

// ValidationError carries the per-field reasons of a rejected request.
// Kind is ErrValidation or ErrInvalidCreditCard.
type ValidationError struct {
	Kind   error
	Reason string
	Fields map[string]string
}

func (e *ValidationError) Error() string {
	if len(e.Fields) == 0 {
		return fmt.Sprintf("%v: %s", e.Kind, e.Reason)
	}
	keys := make([]string, 0, len(e.Fields))
	for k := range e.Fields {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	parts := make([]string, 0, len(keys))
	for _, k := range keys {
		parts = append(parts, k+": "+e.Fields[k])
	}
	return fmt.Sprintf("%v: %s (%s)", e.Kind, e.Reason, strings.Join(parts, "; "))
}

func (e *ValidationError) Unwrap() error {
	return e.Kind
}

func validationErr(reason string, fields map[string]string) error {
	return &ValidationError{Kind: ErrValidation, Reason: reason, Fields: fields}
}

func invalidCardErr(field, reason string) error {
	return &ValidationError{Kind: ErrInvalidCreditCard, Reason: reason, Fields: map[string]string{field: reason}}
}

func notFoundErr(id string) error {
	return fmt.Errorf("%w: %s", ErrNotFound, id)
}

func invalidStatusErr(format string, args ...any) error {
	return fmt.Errorf("%w: %s", ErrInvalidStatus, fmt.Sprintf(format, args...))
}

func processingErr(format string, args ...any) error {
	return fmt.Errorf("%w: %s", ErrProcessing, fmt.Sprintf(format, args...))
}
