package cashdesk

import (
	"time"

	"github.com/google/uuid"
	"github.com/hotelops/backend/internal/domain/shared"
	"github.com/hotelops/backend/internal/domain/shared/valueobject"
	"github.com/shopspring/decimal"
)

// Event type names
const (
	EventTypeShiftStarted        = "ShiftStarted"
	EventTypeTransactionRecorded = "TransactionRecorded"
	EventTypeShiftClosed         = "ShiftClosed"
	EventTypeShiftApproved       = "ShiftApproved"
	EventTypeShiftRejected       = "ShiftRejected"
)

const aggregateTypeShift = "CashierShift"

// ShiftStartedEvent is raised when a cashier opens a shift
type ShiftStartedEvent struct {
	shared.BaseDomainEvent
	ShiftID        uuid.UUID       `json:"shift_id"`
	DrawerID       uuid.UUID       `json:"drawer_id"`
	UserID         uuid.UUID       `json:"user_id"`
	BeginningSaldo decimal.Decimal `json:"beginning_saldo"`
	OpenedAt       time.Time       `json:"opened_at"`
}

// NewShiftStartedEvent creates a new ShiftStartedEvent
func NewShiftStartedEvent(shift *CashierShift) *ShiftStartedEvent {
	return &ShiftStartedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeShiftStarted, aggregateTypeShift, shift.ID),
		ShiftID:         shift.ID,
		DrawerID:        shift.DrawerID,
		UserID:          shift.UserID,
		BeginningSaldo:  shift.BeginningSaldo,
		OpenedAt:        shift.OpenedAt,
	}
}

// TransactionRecordedEvent is raised for each logical cash movement.
// Legs is 2 for an exchange.
type TransactionRecordedEvent struct {
	shared.BaseDomainEvent
	ShiftID       uuid.UUID            `json:"shift_id"`
	TransactionID uuid.UUID            `json:"transaction_id"`
	Type          TransactionType      `json:"type"`
	Amount        decimal.Decimal      `json:"amount"`
	Currency      valueobject.Currency `json:"currency"`
	Category      TransactionCategory  `json:"category,omitempty"`
	Legs          int                  `json:"legs"`
}

// NewTransactionRecordedEvent creates a new TransactionRecordedEvent
func NewTransactionRecordedEvent(shift *CashierShift, tx *CashTransaction, legs int) *TransactionRecordedEvent {
	return &TransactionRecordedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeTransactionRecorded, aggregateTypeShift, shift.ID),
		ShiftID:         shift.ID,
		TransactionID:   tx.ID,
		Type:            tx.Type,
		Amount:          tx.Amount,
		Currency:        tx.Currency,
		Category:        tx.Category,
		Legs:            legs,
	}
}

// ShiftClosedEvent is raised when a shift is counted. Status is closed or
// under_review.
type ShiftClosedEvent struct {
	shared.BaseDomainEvent
	ShiftID          uuid.UUID       `json:"shift_id"`
	DrawerID         uuid.UUID       `json:"drawer_id"`
	UserID           uuid.UUID       `json:"user_id"`
	ClosedBy         uuid.UUID       `json:"closed_by"`
	Status           ShiftStatus     `json:"status"`
	ExpectedEndSaldo decimal.Decimal `json:"expected_end_saldo"`
	CountedEndSaldo  decimal.Decimal `json:"counted_end_saldo"`
	Discrepancy      decimal.Decimal `json:"discrepancy"`
}

// NewShiftClosedEvent creates a new ShiftClosedEvent
func NewShiftClosedEvent(shift *CashierShift, closedBy uuid.UUID) *ShiftClosedEvent {
	e := &ShiftClosedEvent{
		BaseDomainEvent:  shared.NewBaseDomainEvent(EventTypeShiftClosed, aggregateTypeShift, shift.ID),
		ShiftID:          shift.ID,
		DrawerID:         shift.DrawerID,
		UserID:           shift.UserID,
		ClosedBy:         closedBy,
		Status:           shift.Status,
		ExpectedEndSaldo: shift.ExpectedEndSaldo,
	}
	if shift.CountedEndSaldo != nil {
		e.CountedEndSaldo = *shift.CountedEndSaldo
	}
	if shift.Discrepancy != nil {
		e.Discrepancy = *shift.Discrepancy
	}
	return e
}

// ShiftApprovedEvent is raised when a manager finalizes a reviewed shift
type ShiftApprovedEvent struct {
	shared.BaseDomainEvent
	ShiftID    uuid.UUID `json:"shift_id"`
	DrawerID   uuid.UUID `json:"drawer_id"`
	UserID     uuid.UUID `json:"user_id"`
	ApprovedBy uuid.UUID `json:"approved_by"`
	Adjusted   bool      `json:"adjusted"`
	Notes      string    `json:"notes,omitempty"`
}

// NewShiftApprovedEvent creates a new ShiftApprovedEvent
func NewShiftApprovedEvent(shift *CashierShift, adjusted bool) *ShiftApprovedEvent {
	var approvedBy uuid.UUID
	if shift.ApprovedBy != nil {
		approvedBy = *shift.ApprovedBy
	}
	return &ShiftApprovedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeShiftApproved, aggregateTypeShift, shift.ID),
		ShiftID:         shift.ID,
		DrawerID:        shift.DrawerID,
		UserID:          shift.UserID,
		ApprovedBy:      approvedBy,
		Adjusted:        adjusted,
		Notes:           shift.ApprovalNotes,
	}
}

// ShiftRejectedEvent is raised when a manager sends a shift back for recount
type ShiftRejectedEvent struct {
	shared.BaseDomainEvent
	ShiftID    uuid.UUID `json:"shift_id"`
	DrawerID   uuid.UUID `json:"drawer_id"`
	UserID     uuid.UUID `json:"user_id"`
	RejectedBy uuid.UUID `json:"rejected_by"`
	Reason     string    `json:"reason"`
}

// NewShiftRejectedEvent creates a new ShiftRejectedEvent
func NewShiftRejectedEvent(shift *CashierShift) *ShiftRejectedEvent {
	var rejectedBy uuid.UUID
	if shift.RejectedBy != nil {
		rejectedBy = *shift.RejectedBy
	}
	return &ShiftRejectedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeShiftRejected, aggregateTypeShift, shift.ID),
		ShiftID:         shift.ID,
		DrawerID:        shift.DrawerID,
		UserID:          shift.UserID,
		RejectedBy:      rejectedBy,
		Reason:          shift.RejectionReason,
	}
}
