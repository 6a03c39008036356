package shared

import (
	"errors"
	"sort"
	"strings"
)

// Error codes shared across bounded contexts
const (
	CodeNotFound            = "NOT_FOUND"
	CodeAlreadyExists       = "ALREADY_EXISTS"
	CodeInvalidInput        = "INVALID_INPUT"
	CodeValidation          = "VALIDATION_ERROR"
	CodeConcurrencyConflict = "CONCURRENCY_CONFLICT"
	CodeUnauthorized        = "UNAUTHORIZED"
	CodeForbidden           = "FORBIDDEN"
	CodeInvalidState        = "INVALID_STATE"
)

// DomainError represents a domain-level error.
// Fields maps an input field name to a human-readable message and is set for
// validation failures and for invariant violations tied to a specific field.
type DomainError struct {
	Code    string            `json:"code"`
	Message string            `json:"message"`
	Fields  map[string]string `json:"fields,omitempty"`
}

// Error implements the error interface
func (e *DomainError) Error() string {
	return e.Message
}

// Is matches domain errors by code so sentinel values work with errors.Is
func (e *DomainError) Is(target error) bool {
	var other *DomainError
	if !errors.As(target, &other) {
		return false
	}
	return e.Code == other.Code
}

// FieldNames returns the field keys in sorted order
func (e *DomainError) FieldNames() []string {
	names := make([]string, 0, len(e.Fields))
	for name := range e.Fields {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// NewDomainError creates a new domain error
func NewDomainError(code, message string) *DomainError {
	return &DomainError{
		Code:    code,
		Message: message,
	}
}

// NewFieldError creates a domain error tagged with the offending field
func NewFieldError(code, field, message string) *DomainError {
	return &DomainError{
		Code:    code,
		Message: message,
		Fields:  map[string]string{field: message},
	}
}

// NewValidationError builds a VALIDATION_ERROR from a field -> message map.
// The top-level message is the message of the first field in sorted order.
func NewValidationError(fields map[string]string) *DomainError {
	err := &DomainError{
		Code:   CodeValidation,
		Fields: fields,
	}
	names := err.FieldNames()
	if len(names) == 0 {
		err.Message = "Validation failed"
		return err
	}
	err.Message = fields[names[0]]
	if len(names) > 1 {
		err.Message += " (and " + strings.Join(names[1:], ", ") + ")"
	}
	return err
}

// IsDomainErrorCode reports whether err is a DomainError carrying code
func IsDomainErrorCode(err error, code string) bool {
	var domainErr *DomainError
	if errors.As(err, &domainErr) {
		return domainErr.Code == code
	}
	return false
}

// Common domain errors
var (
	ErrNotFound            = NewDomainError(CodeNotFound, "Resource not found")
	ErrAlreadyExists       = NewDomainError(CodeAlreadyExists, "Resource already exists")
	ErrInvalidInput        = NewDomainError(CodeInvalidInput, "Invalid input provided")
	ErrConcurrencyConflict = NewDomainError(CodeConcurrencyConflict, "Resource was modified by another process")
	ErrUnauthorized        = NewDomainError(CodeUnauthorized, "Not authorized to perform this action")
	ErrForbidden           = NewDomainError(CodeForbidden, "Access to this resource is forbidden")
	ErrInvalidState        = NewDomainError(CodeInvalidState, "Operation not allowed in current state")
)
