package cashdesk

import (
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/hotelops/backend/internal/domain/shared"
	"github.com/hotelops/backend/internal/domain/shared/valueobject"
	"github.com/shopspring/decimal"
)

// Field limits shared by the shift operations
const (
	MaxNotesLength     = 1000
	MaxReferenceLength = 255
)

// CashierShift is the aggregate root of the cash workflow: one cashier
// accountable for one drawer between opening and closing.
type CashierShift struct {
	shared.BaseAggregateRoot
	DrawerID          uuid.UUID
	UserID            uuid.UUID
	Status            ShiftStatus
	BeginningSaldo    decimal.Decimal
	ExpectedEndSaldo  decimal.Decimal
	CountedEndSaldo   *decimal.Decimal
	Discrepancy       *decimal.Decimal
	DiscrepancyReason string
	ApprovedBy        *uuid.UUID
	ApprovedAt        *time.Time
	ApprovalNotes     string
	RejectedBy        *uuid.UUID
	RejectedAt        *time.Time
	RejectionReason   string
	Notes             string
	OpenedAt          time.Time
	ClosedAt          *time.Time
}

// NewCashierShift opens a shift for userID on drawer
func NewCashierShift(drawer *CashDrawer, userID uuid.UUID, beginningSaldo decimal.Decimal, notes string) (*CashierShift, error) {
	if drawer == nil {
		return nil, shared.NewFieldError(shared.CodeValidation, "drawer_id", "Cash drawer is required")
	}
	if !drawer.IsActive {
		return nil, ErrDrawerInactive
	}
	if userID == uuid.Nil {
		return nil, shared.NewFieldError(shared.CodeValidation, "user_id", "User ID cannot be empty")
	}
	if beginningSaldo.IsNegative() {
		return nil, shared.NewFieldError(shared.CodeValidation, "beginning_saldo", "Beginning saldo cannot be negative")
	}
	if !valueobject.PrimaryCurrency.FitsPrecision(beginningSaldo) {
		return nil, NewPrecisionError("beginning_saldo", valueobject.PrimaryCurrency)
	}

	shift := &CashierShift{
		BaseAggregateRoot: shared.NewBaseAggregateRoot(),
		DrawerID:          drawer.ID,
		UserID:            userID,
		Status:            ShiftStatusOpen,
		BeginningSaldo:    beginningSaldo,
		ExpectedEndSaldo:  beginningSaldo,
		Notes:             strings.TrimSpace(notes),
	}
	shift.OpenedAt = shift.CreatedAt

	shift.AddDomainEvent(NewShiftStartedEvent(shift))
	return shift, nil
}

// IsOpen reports whether the shift accepts transactions
func (s *CashierShift) IsOpen() bool {
	return s.Status == ShiftStatusOpen
}

// CalculateExpectedEndSaldo returns the beginning saldo plus the signed sum
// of the shift's primary-currency rows. It has no side effects.
func (s *CashierShift) CalculateExpectedEndSaldo(txs []CashTransaction) decimal.Decimal {
	return ExpectedBalances(s.BeginningSaldo, txs).Get(valueobject.PrimaryCurrency)
}

// ExpectedBalances returns the expected closing balance of every currency
// the shift touched
func (s *CashierShift) ExpectedBalances(txs []CashTransaction) Balances {
	return ExpectedBalances(s.BeginningSaldo, txs)
}

// RecordTransaction builds the ledger rows for one cash movement. An in_out
// entry yields two rows: the incoming leg (type in_out) and a synthesized out
// leg on the out currency. The primary row is always first.
func (s *CashierShift) RecordTransaction(entry TransactionEntry, createdBy uuid.UUID) ([]CashTransaction, error) {
	if !s.Status.CanRecordTransactions() {
		return nil, ErrShiftNotOpen
	}
	if err := entry.validate(); err != nil {
		return nil, err
	}

	occurredAt := entry.OccurredAt
	if occurredAt.IsZero() {
		occurredAt = time.Now()
	}

	primary := CashTransaction{
		BaseEntity: shared.NewBaseEntity(),
		ShiftID:    s.ID,
		Type:       entry.Type,
		Amount:     entry.Amount,
		Currency:   entry.Currency,
		Category:   entry.Category,
		Reference:  strings.TrimSpace(entry.Reference),
		Notes:      strings.TrimSpace(entry.Notes),
		CreatedBy:  createdBy,
		OccurredAt: occurredAt,
	}

	if entry.Type != TransactionTypeInOut {
		s.AddDomainEvent(NewTransactionRecordedEvent(s, &primary, 1))
		return []CashTransaction{primary}, nil
	}

	outAmount := entry.OutAmount
	primary.OutCurrency = entry.OutCurrency
	primary.OutAmount = &outAmount
	primary.Notes = appendNote(entry.Notes, ComplexPart1Suffix)

	category := entry.Category
	if category == "" {
		category = CategoryChange
	}
	second := CashTransaction{
		BaseEntity: shared.NewBaseEntity(),
		ShiftID:    s.ID,
		Type:       TransactionTypeOut,
		Amount:     entry.OutAmount,
		Currency:   entry.OutCurrency,
		Category:   category,
		Reference:  primary.Reference,
		Notes:      appendNote(entry.Notes, ComplexPart2Suffix),
		CreatedBy:  createdBy,
		OccurredAt: occurredAt,
	}

	s.AddDomainEvent(NewTransactionRecordedEvent(s, &primary, 2))
	return []CashTransaction{primary, second}, nil
}

// ApplyLedger recomputes the expected end saldo from every row of the shift
func (s *CashierShift) ApplyLedger(txs []CashTransaction) {
	s.ExpectedEndSaldo = s.CalculateExpectedEndSaldo(txs)
	s.Touch()
}

// CloseShiftInput is the validated input of a close
type CloseShiftInput struct {
	CountedEndSaldo   decimal.Decimal
	Denominations     []Denomination
	CountedBalances   Balances // counted amounts of non-primary currencies
	Notes             string
	DiscrepancyReason string
	ClosedBy          uuid.UUID
	Tolerance         decimal.Decimal
}

// checkPrecision rejects counted amounts finer than their currency. All
// denominations are counted in the primary currency.
func (in CloseShiftInput) checkPrecision() error {
	primary := valueobject.PrimaryCurrency
	fields := make(map[string]string)
	if !primary.FitsPrecision(in.CountedEndSaldo) {
		fields["counted_end_saldo"] = precisionMessage(primary)
	}
	for i, line := range in.Denominations {
		if !primary.FitsPrecision(line.Value) {
			fields[fmt.Sprintf("denominations[%d].denomination", i)] = precisionMessage(primary)
		}
	}
	for c, amount := range in.CountedBalances {
		if c.IsValid() && !c.FitsPrecision(amount) {
			fields[fmt.Sprintf("counted_balances[%s]", c)] = precisionMessage(c)
		}
	}
	if len(fields) > 0 {
		return shared.NewValidationError(fields)
	}
	return nil
}

// CloseOutcome holds the rows produced by a close
type CloseOutcome struct {
	CashCount *CashCount
	EndSaldos []EndSaldo
}

// Close reconciles the counted cash against the ledger. A discrepancy beyond
// tolerance in any currency sends the shift to review and requires a reason;
// otherwise the shift is closed directly. existing holds end-saldo rows from
// an earlier close that was rejected; they are updated in place.
func (s *CashierShift) Close(in CloseShiftInput, txs []CashTransaction, existing []EndSaldo) (*CloseOutcome, error) {
	switch {
	case s.Status == ShiftStatusClosed:
		return nil, ErrShiftAlreadyClosed
	case !s.Status.CanClose():
		return nil, shared.NewFieldError(CodeShiftNotOpen, "shift",
			fmt.Sprintf("Cannot close a shift in %s status", s.Status))
	}
	if len(in.Denominations) == 0 {
		return nil, shared.NewFieldError(shared.CodeValidation, "denominations", "At least one denomination is required")
	}
	if in.CountedEndSaldo.IsNegative() {
		return nil, shared.NewFieldError(shared.CodeValidation, "counted_end_saldo", "Counted end saldo cannot be negative")
	}
	if err := in.checkPrecision(); err != nil {
		return nil, err
	}

	tolerance := in.Tolerance
	if tolerance.IsZero() {
		tolerance = DefaultTolerance
	}

	expected := s.CalculateExpectedEndSaldo(txs)
	discrepancy := in.CountedEndSaldo.Sub(expected)

	total := DenominationsTotal(in.Denominations)
	if exceedsTolerance(total.Sub(in.CountedEndSaldo), tolerance) {
		return nil, NewDenominationMismatchError(total.String(), in.CountedEndSaldo.String())
	}

	endSaldos := s.buildEndSaldos(in, txs, existing)
	hasDiscrepancy := false
	for i := range endSaldos {
		if endSaldos[i].HasDiscrepancy(tolerance) {
			hasDiscrepancy = true
			break
		}
	}

	reason := strings.TrimSpace(in.DiscrepancyReason)
	if hasDiscrepancy && reason == "" {
		return nil, ErrReasonRequired
	}

	now := time.Now()
	counted := in.CountedEndSaldo
	s.ExpectedEndSaldo = expected
	s.CountedEndSaldo = &counted
	s.Discrepancy = &discrepancy
	s.DiscrepancyReason = reason
	s.Notes = mergeNotes(s.Notes, in.Notes)
	s.ClosedAt = &now
	s.UpdatedAt = now
	if hasDiscrepancy {
		s.Status = ShiftStatusUnderReview
	} else {
		s.Status = ShiftStatusClosed
	}

	count := NewCashCount(s.ID, valueobject.PrimaryCurrency, in.Denominations, strings.TrimSpace(in.Notes), in.ClosedBy)

	s.AddDomainEvent(NewShiftClosedEvent(s, in.ClosedBy))
	return &CloseOutcome{CashCount: count, EndSaldos: endSaldos}, nil
}

func (s *CashierShift) buildEndSaldos(in CloseShiftInput, txs []CashTransaction, existing []EndSaldo) []EndSaldo {
	expected := s.ExpectedBalances(txs)
	counted := expected.Clone()
	for c, amount := range in.CountedBalances {
		if c == valueobject.PrimaryCurrency {
			continue
		}
		counted[c] = amount
		if _, ok := expected[c]; !ok {
			expected[c] = decimal.Zero
		}
	}
	counted[valueobject.PrimaryCurrency] = in.CountedEndSaldo

	byCurrency := make(map[valueobject.Currency]EndSaldo, len(existing))
	for _, row := range existing {
		byCurrency[row.Currency] = row
	}

	rows := make([]EndSaldo, 0, len(expected))
	for _, c := range expected.Currencies() {
		if row, ok := byCurrency[c]; ok {
			row.Recount(expected.Get(c), counted.Get(c))
			rows = append(rows, row)
			delete(byCurrency, c)
			continue
		}
		rows = append(rows, NewEndSaldo(s.ID, c, expected.Get(c), counted.Get(c)))
	}
	// currencies from an earlier close with no activity now
	for _, c := range leftoverCurrencies(byCurrency) {
		row := byCurrency[c]
		row.Recount(decimal.Zero, decimal.Zero)
		rows = append(rows, row)
	}
	return rows
}

// Approve finalizes a shift under review
func (s *CashierShift) Approve(approvedBy uuid.UUID, notes string) error {
	if !s.Status.CanReview() {
		return ErrShiftNotUnderReview
	}
	if approvedBy == uuid.Nil {
		return shared.NewFieldError(shared.CodeValidation, "approved_by", "Approver user ID cannot be empty")
	}

	now := time.Now()
	s.Status = ShiftStatusClosed
	s.ApprovedBy = &approvedBy
	s.ApprovedAt = &now
	s.ApprovalNotes = strings.TrimSpace(notes)
	s.UpdatedAt = now

	s.AddDomainEvent(NewShiftApprovedEvent(s, false))
	return nil
}

// Reject reopens a shift under review for a recount
func (s *CashierShift) Reject(rejectedBy uuid.UUID, reason string) error {
	if !s.Status.CanReview() {
		return ErrShiftNotUnderReview
	}
	if rejectedBy == uuid.Nil {
		return shared.NewFieldError(shared.CodeValidation, "rejected_by", "Rejector user ID cannot be empty")
	}
	reason = strings.TrimSpace(reason)
	if reason == "" {
		return shared.NewFieldError(shared.CodeValidation, "reason", "Rejection reason is required")
	}

	now := time.Now()
	s.Status = ShiftStatusOpen
	s.RejectedBy = &rejectedBy
	s.RejectedAt = &now
	s.RejectionReason = reason
	s.CountedEndSaldo = nil
	s.Discrepancy = nil
	s.DiscrepancyReason = ""
	s.ClosedAt = nil
	s.UpdatedAt = now

	s.AddDomainEvent(NewShiftRejectedEvent(s))
	return nil
}

// ApproveWithAdjustment overwrites the counted amount of each currency in
// adjusted, then closes the shift. It returns every end-saldo row of the
// shift after the adjustment; the drawer snapshot is rebuilt from them.
func (s *CashierShift) ApproveWithAdjustment(approvedBy uuid.UUID, adjusted Balances, reason string, endSaldos []EndSaldo) ([]EndSaldo, error) {
	if !s.Status.CanReview() {
		return nil, ErrShiftNotUnderReview
	}
	if approvedBy == uuid.Nil {
		return nil, shared.NewFieldError(shared.CodeValidation, "approved_by", "Approver user ID cannot be empty")
	}
	reason = strings.TrimSpace(reason)
	if reason == "" {
		return nil, shared.NewFieldError(shared.CodeValidation, "reason", "Adjustment reason is required")
	}
	if len(adjusted) == 0 {
		return nil, shared.NewFieldError(shared.CodeValidation, "adjusted_amounts", "At least one adjusted amount is required")
	}
	for c, amount := range adjusted {
		if !c.IsValid() {
			return nil, shared.NewFieldError(shared.CodeValidation, "adjusted_amounts", fmt.Sprintf("Unsupported currency %q", c))
		}
		if amount.IsNegative() {
			return nil, shared.NewFieldError(shared.CodeValidation, "adjusted_amounts", fmt.Sprintf("Adjusted amount for %s cannot be negative", c))
		}
		if !c.FitsPrecision(amount) {
			return nil, NewPrecisionError(fmt.Sprintf("adjusted_amounts[%s]", c), c)
		}
	}

	now := time.Now()
	rows := make([]EndSaldo, len(endSaldos))
	copy(rows, endSaldos)
	index := make(map[valueobject.Currency]int, len(rows))
	for i, row := range rows {
		index[row.Currency] = i
	}

	for _, c := range adjusted.Currencies() {
		i, ok := index[c]
		if !ok {
			rows = append(rows, NewEndSaldo(s.ID, c, decimal.Zero, decimal.Zero))
			i = len(rows) - 1
			index[c] = i
		}
		rows[i].Adjust(adjusted[c], approvedBy, reason, now)
	}

	if i, ok := index[valueobject.PrimaryCurrency]; ok {
		counted := rows[i].CountedEndSaldo
		discrepancy := rows[i].Discrepancy
		s.CountedEndSaldo = &counted
		s.Discrepancy = &discrepancy
	}

	s.Status = ShiftStatusClosed
	s.ApprovedBy = &approvedBy
	s.ApprovedAt = &now
	s.ApprovalNotes = "Approved with adjustment: " + reason
	s.UpdatedAt = now

	s.AddDomainEvent(NewShiftApprovedEvent(s, true))
	return rows, nil
}

func mergeNotes(existing, added string) string {
	existing = strings.TrimSpace(existing)
	added = strings.TrimSpace(added)
	switch {
	case added == "":
		return existing
	case existing == "":
		return added
	default:
		return existing + "\n" + added
	}
}

func leftoverCurrencies(rows map[valueobject.Currency]EndSaldo) []valueobject.Currency {
	keys := make(Balances, len(rows))
	for c := range rows {
		keys[c] = decimal.Zero
	}
	return keys.Currencies()
}
