package dto

import "net/http"

// Error code constants organized by category
// Format: ERR_<CATEGORY>_<DESCRIPTION>

// General error codes
const (
	ErrCodeUnknown  = "ERR_UNKNOWN"
	ErrCodeInternal = "ERR_INTERNAL"
)

// Validation error codes
const (
	ErrCodeValidation   = "ERR_VALIDATION"
	ErrCodeBadRequest   = "ERR_BAD_REQUEST"
	ErrCodeInvalidJSON  = "ERR_INVALID_JSON"
	ErrCodeInvalidInput = "ERR_INVALID_INPUT"
	// ErrCodeRequestTooLarge is used when the body exceeds http.max_body_size
	ErrCodeRequestTooLarge = "ERR_REQUEST_TOO_LARGE"
)

// Authentication error codes
const (
	ErrCodeUnauthorized = "ERR_UNAUTHORIZED"
	ErrCodeForbidden    = "ERR_FORBIDDEN"
	ErrCodeTokenExpired = "ERR_TOKEN_EXPIRED"
	ErrCodeTokenInvalid = "ERR_TOKEN_INVALID"
	ErrCodeTokenRevoked = "ERR_TOKEN_REVOKED"
)

// Resource error codes
const (
	ErrCodeNotFound            = "ERR_NOT_FOUND"
	ErrCodeAlreadyExists       = "ERR_ALREADY_EXISTS"
	ErrCodeConflict            = "ERR_CONFLICT"
	ErrCodeConcurrencyConflict = "ERR_CONCURRENCY_CONFLICT"
)

// Cash desk error codes
const (
	ErrCodeShiftAlreadyOpen          = "ERR_SHIFT_ALREADY_OPEN"
	ErrCodeDrawerHasOpenShift        = "ERR_DRAWER_HAS_OPEN_SHIFT"
	ErrCodeDuplicateRequest          = "ERR_DUPLICATE_REQUEST"
	ErrCodeDrawerInactive            = "ERR_DRAWER_INACTIVE"
	ErrCodeShiftNotOpen              = "ERR_SHIFT_NOT_OPEN"
	ErrCodeShiftAlreadyClosed        = "ERR_SHIFT_ALREADY_CLOSED"
	ErrCodeShiftNotUnderReview       = "ERR_SHIFT_NOT_UNDER_REVIEW"
	ErrCodeInvalidState              = "ERR_INVALID_STATE"
	ErrCodeDenominationMismatch      = "ERR_DENOMINATION_MISMATCH"
	ErrCodeDiscrepancyReasonRequired = "ERR_DISCREPANCY_REASON_REQUIRED"
)

// Rate limiting error codes
const (
	ErrCodeRateLimited = "ERR_RATE_LIMITED"
)

// ErrorCodeHTTPStatus maps error codes to HTTP status codes
var ErrorCodeHTTPStatus = map[string]int{
	ErrCodeUnknown:  http.StatusInternalServerError,
	ErrCodeInternal: http.StatusInternalServerError,

	// Field-tagged failures, including the count invariants
	ErrCodeValidation:                http.StatusBadRequest,
	ErrCodeBadRequest:                http.StatusBadRequest,
	ErrCodeInvalidJSON:               http.StatusBadRequest,
	ErrCodeInvalidInput:              http.StatusBadRequest,
	ErrCodeDenominationMismatch:      http.StatusBadRequest,
	ErrCodeDiscrepancyReasonRequired: http.StatusBadRequest,
	ErrCodeRequestTooLarge:           http.StatusRequestEntityTooLarge,

	ErrCodeUnauthorized: http.StatusUnauthorized,
	ErrCodeTokenExpired: http.StatusUnauthorized,
	ErrCodeTokenInvalid: http.StatusUnauthorized,
	ErrCodeTokenRevoked: http.StatusUnauthorized,
	ErrCodeForbidden:    http.StatusForbidden,

	ErrCodeNotFound: http.StatusNotFound,

	// Conflicts with concurrent or earlier requests
	ErrCodeAlreadyExists:       http.StatusConflict,
	ErrCodeConflict:            http.StatusConflict,
	ErrCodeConcurrencyConflict: http.StatusConflict,
	ErrCodeShiftAlreadyOpen:    http.StatusConflict,
	ErrCodeDrawerHasOpenShift:  http.StatusConflict,
	ErrCodeDuplicateRequest:    http.StatusConflict,

	// Operation not allowed in the current state
	ErrCodeDrawerInactive:      http.StatusUnprocessableEntity,
	ErrCodeShiftNotOpen:        http.StatusUnprocessableEntity,
	ErrCodeShiftAlreadyClosed:  http.StatusUnprocessableEntity,
	ErrCodeShiftNotUnderReview: http.StatusUnprocessableEntity,
	ErrCodeInvalidState:        http.StatusUnprocessableEntity,

	ErrCodeRateLimited: http.StatusTooManyRequests,
}

// GetHTTPStatus returns the HTTP status code for an error code
// Returns 500 Internal Server Error if the error code is not found
func GetHTTPStatus(code string) int {
	if status, ok := ErrorCodeHTTPStatus[code]; ok {
		return status
	}
	return http.StatusInternalServerError
}

// LegacyErrorCodeMapping maps domain error codes to API error codes
var LegacyErrorCodeMapping = map[string]string{
	"NOT_FOUND":                   ErrCodeNotFound,
	"ALREADY_EXISTS":              ErrCodeAlreadyExists,
	"INVALID_INPUT":               ErrCodeInvalidInput,
	"INVALID_STATE":               ErrCodeInvalidState,
	"UNAUTHORIZED":                ErrCodeUnauthorized,
	"FORBIDDEN":                   ErrCodeForbidden,
	"CONCURRENCY_CONFLICT":        ErrCodeConcurrencyConflict,
	"VALIDATION_ERROR":            ErrCodeValidation,
	"BAD_REQUEST":                 ErrCodeBadRequest,
	"INTERNAL_ERROR":              ErrCodeInternal,
	"SHIFT_ALREADY_OPEN":          ErrCodeShiftAlreadyOpen,
	"DRAWER_INACTIVE":             ErrCodeDrawerInactive,
	"DRAWER_HAS_OPEN_SHIFT":       ErrCodeDrawerHasOpenShift,
	"SHIFT_NOT_OPEN":              ErrCodeShiftNotOpen,
	"SHIFT_ALREADY_CLOSED":        ErrCodeShiftAlreadyClosed,
	"SHIFT_NOT_UNDER_REVIEW":      ErrCodeShiftNotUnderReview,
	"DENOMINATION_MISMATCH":       ErrCodeDenominationMismatch,
	"DISCREPANCY_REASON_REQUIRED": ErrCodeDiscrepancyReasonRequired,
	"DUPLICATE_REQUEST":           ErrCodeDuplicateRequest,
}

// NormalizeErrorCode converts a domain error code to the API format
// If the code is already in the API format or unknown, returns it as-is
func NormalizeErrorCode(code string) string {
	if newCode, ok := LegacyErrorCodeMapping[code]; ok {
		return newCode
	}
	return code
}
