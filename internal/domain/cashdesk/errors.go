package cashdesk

import (
	"fmt"

	"github.com/hotelops/backend/internal/domain/shared"
	"github.com/hotelops/backend/internal/domain/shared/valueobject"
)

// Error codes raised by the cashdesk context
const (
	CodeShiftAlreadyOpen          = "SHIFT_ALREADY_OPEN"
	CodeDrawerInactive            = "DRAWER_INACTIVE"
	CodeDrawerHasOpenShift        = "DRAWER_HAS_OPEN_SHIFT"
	CodeShiftNotOpen              = "SHIFT_NOT_OPEN"
	CodeShiftAlreadyClosed        = "SHIFT_ALREADY_CLOSED"
	CodeShiftNotUnderReview       = "SHIFT_NOT_UNDER_REVIEW"
	CodeDenominationMismatch      = "DENOMINATION_MISMATCH"
	CodeDiscrepancyReasonRequired = "DISCREPANCY_REASON_REQUIRED"
	CodeDuplicateRequest          = "DUPLICATE_REQUEST"
)

// Sentinels for errors.Is; DomainError matches on code
var (
	ErrShiftAlreadyOpen     = shared.NewFieldError(CodeShiftAlreadyOpen, "user_id", "User already has an open shift")
	ErrDrawerInactive       = shared.NewFieldError(CodeDrawerInactive, "drawer_id", "Cash drawer is not active")
	ErrDrawerHasOpenShift   = shared.NewFieldError(CodeDrawerHasOpenShift, "drawer_id", "Cash drawer has an open shift")
	ErrShiftNotOpen         = shared.NewFieldError(CodeShiftNotOpen, "shift", "Cannot record on a shift that is not open")
	ErrShiftAlreadyClosed   = shared.NewFieldError(CodeShiftAlreadyClosed, "shift", "Shift is already closed")
	ErrShiftNotUnderReview  = shared.NewFieldError(CodeShiftNotUnderReview, "shift", "Only shifts under review can be approved, rejected or adjusted")
	ErrDenominationMismatch = shared.NewFieldError(CodeDenominationMismatch, "denominations", "Denominations total does not match counted end saldo")
	ErrReasonRequired       = shared.NewFieldError(CodeDiscrepancyReasonRequired, "discrepancy_reason", "A reason is required when counted cash differs from expected")
	ErrDuplicateRequest     = shared.NewFieldError(CodeDuplicateRequest, "idempotency_key", "This request has already been submitted")
)

// NewShiftAlreadyOpenError names the drawer the user's open shift is on
func NewShiftAlreadyOpenError(drawerName string) *shared.DomainError {
	return shared.NewFieldError(CodeShiftAlreadyOpen, "user_id",
		fmt.Sprintf("User already has an open shift on drawer %q", drawerName))
}

// precisionMessage is the field message for an amount finer than its currency
func precisionMessage(c valueobject.Currency) string {
	return fmt.Sprintf("Must have at most %d decimal places for %s", c.Precision(), c)
}

// NewPrecisionError rejects an amount with more decimal places than c keeps
func NewPrecisionError(field string, c valueobject.Currency) *shared.DomainError {
	return shared.NewFieldError(shared.CodeValidation, field, precisionMessage(c))
}

// NewDenominationMismatchError reports both totals
func NewDenominationMismatchError(total, counted string) *shared.DomainError {
	return shared.NewFieldError(CodeDenominationMismatch, "denominations",
		fmt.Sprintf("Denominations total %s does not match counted end saldo %s", total, counted))
}
