package cashdesk

import (
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/hotelops/backend/internal/domain/shared"
	"github.com/hotelops/backend/internal/domain/shared/valueobject"
	"github.com/shopspring/decimal"
)

// Note suffixes marking the two rows of an exchange
const (
	ComplexPart1Suffix = "(Part 1 of complex transaction)"
	ComplexPart2Suffix = "(Part 2 of complex transaction)"
)

// CashTransaction is one ledger row of a shift. Rows are never updated
// after creation.
type CashTransaction struct {
	shared.BaseEntity
	ShiftID     uuid.UUID
	Type        TransactionType
	Amount      decimal.Decimal
	Currency    valueobject.Currency
	OutCurrency valueobject.Currency // in_out only
	OutAmount   *decimal.Decimal     // in_out only
	Category    TransactionCategory  // empty when not categorised
	Reference   string
	Notes       string
	CreatedBy   uuid.UUID
	OccurredAt  time.Time
}

// SignedAmount returns the amount with the sign it contributes to the
// drawer balance of its currency
func (t *CashTransaction) SignedAmount() decimal.Decimal {
	return t.Amount.Mul(decimal.NewFromInt(t.Type.Sign()))
}

// Money returns the row amount as Money
func (t *CashTransaction) Money() valueobject.Money {
	return valueobject.MustNewMoney(t.Amount, t.Currency)
}

// TransactionEntry is the validated input for one logical cash movement
type TransactionEntry struct {
	Type        TransactionType
	Amount      decimal.Decimal
	Currency    valueobject.Currency
	OutCurrency valueobject.Currency
	OutAmount   decimal.Decimal
	Category    TransactionCategory
	Reference   string
	Notes       string
	OccurredAt  time.Time
}

// validate guards the entry invariants independent of the shift
func (e TransactionEntry) validate() error {
	fields := make(map[string]string)
	if !e.Type.IsValid() {
		fields["type"] = "Transaction type must be one of: in, out, in_out"
	}
	if !e.Amount.IsPositive() {
		fields["amount"] = "Amount must be greater than 0"
	} else if e.Currency.IsValid() && !e.Currency.FitsPrecision(e.Amount) {
		fields["amount"] = precisionMessage(e.Currency)
	}
	if !e.Currency.IsValid() {
		fields["currency"] = "Unsupported currency"
	}
	if e.Category != "" && !e.Category.IsValid() {
		fields["category"] = "Unknown transaction category"
	}
	if e.Type == TransactionTypeInOut {
		if !e.OutCurrency.IsValid() {
			fields["out_currency"] = "Out currency is required for in_out transactions"
		}
		if !e.OutAmount.IsPositive() {
			fields["out_amount"] = "Out amount must be greater than 0 for in_out transactions"
		} else if e.OutCurrency.IsValid() && !e.OutCurrency.FitsPrecision(e.OutAmount) {
			fields["out_amount"] = precisionMessage(e.OutCurrency)
		}
	}
	if len(fields) > 0 {
		return shared.NewValidationError(fields)
	}
	return nil
}

func appendNote(notes, suffix string) string {
	notes = strings.TrimSpace(notes)
	if notes == "" {
		return suffix
	}
	return notes + " " + suffix
}
