package cashdesk

import (
	"time"

	"github.com/google/uuid"
	"github.com/hotelops/backend/internal/domain/shared"
	"github.com/hotelops/backend/internal/domain/shared/valueobject"
	"github.com/shopspring/decimal"
)

// EndSaldo is the closing balance of one currency for a shift
type EndSaldo struct {
	shared.BaseEntity
	ShiftID          uuid.UUID
	Currency         valueobject.Currency
	ExpectedEndSaldo decimal.Decimal
	CountedEndSaldo  decimal.Decimal
	Discrepancy      decimal.Decimal
	AdjustedBy       *uuid.UUID
	AdjustedAt       *time.Time
	AdjustmentReason string
}

// NewEndSaldo creates a closing balance row
func NewEndSaldo(shiftID uuid.UUID, currency valueobject.Currency, expected, counted decimal.Decimal) EndSaldo {
	return EndSaldo{
		BaseEntity:       shared.NewBaseEntity(),
		ShiftID:          shiftID,
		Currency:         currency,
		ExpectedEndSaldo: expected,
		CountedEndSaldo:  counted,
		Discrepancy:      counted.Sub(expected),
	}
}

// Recount replaces the figures after a new close and drops any earlier adjustment
func (e *EndSaldo) Recount(expected, counted decimal.Decimal) {
	e.ExpectedEndSaldo = expected
	e.CountedEndSaldo = counted
	e.Discrepancy = counted.Sub(expected)
	e.AdjustedBy = nil
	e.AdjustedAt = nil
	e.AdjustmentReason = ""
	e.Touch()
}

// Adjust overwrites the counted amount with a manager's figure
func (e *EndSaldo) Adjust(counted decimal.Decimal, adjustedBy uuid.UUID, reason string, at time.Time) {
	e.CountedEndSaldo = counted
	e.Discrepancy = counted.Sub(e.ExpectedEndSaldo)
	e.AdjustedBy = &adjustedBy
	e.AdjustedAt = &at
	e.AdjustmentReason = reason
	e.UpdatedAt = at
}

// HasDiscrepancy reports |discrepancy| > tolerance
func (e *EndSaldo) HasDiscrepancy(tolerance decimal.Decimal) bool {
	return exceedsTolerance(e.Discrepancy, tolerance)
}
