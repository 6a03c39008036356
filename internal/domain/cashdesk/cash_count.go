package cashdesk

import (
	"github.com/google/uuid"
	"github.com/hotelops/backend/internal/domain/shared"
	"github.com/hotelops/backend/internal/domain/shared/valueobject"
	"github.com/shopspring/decimal"
)

// Denomination is one line of a physical cash count
type Denomination struct {
	Value    decimal.Decimal `json:"denomination"`
	Quantity int             `json:"quantity"`
}

// Subtotal returns value x quantity
func (d Denomination) Subtotal() decimal.Decimal {
	return d.Value.Mul(decimal.NewFromInt(int64(d.Quantity)))
}

// DenominationsTotal sums the weighted denomination lines
func DenominationsTotal(lines []Denomination) decimal.Decimal {
	total := decimal.Zero
	for _, line := range lines {
		total = total.Add(line.Subtotal())
	}
	return total
}

// CashCount records the denomination breakdown of one close event
type CashCount struct {
	shared.BaseEntity
	ShiftID       uuid.UUID
	Currency      valueobject.Currency
	Denominations []Denomination
	Total         decimal.Decimal
	Notes         string
	CountedBy     uuid.UUID
}

// NewCashCount copies the lines and computes their total
func NewCashCount(shiftID uuid.UUID, currency valueobject.Currency, lines []Denomination, notes string, countedBy uuid.UUID) *CashCount {
	copied := make([]Denomination, len(lines))
	copy(copied, lines)
	return &CashCount{
		BaseEntity:    shared.NewBaseEntity(),
		ShiftID:       shiftID,
		Currency:      currency,
		Denominations: copied,
		Total:         DenominationsTotal(copied),
		Notes:         notes,
		CountedBy:     countedBy,
	}
}
