package cashdesk

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// StartShiftCommand opens a shift on a drawer. BeginningSaldo is a pointer
// so an omitted value is told apart from an explicit zero.
type StartShiftCommand struct {
	DrawerID       uuid.UUID        `json:"-"`
	UserID         uuid.UUID        `json:"-"`
	BeginningSaldo *decimal.Decimal `json:"beginning_saldo" validate:"required,gte=0"`
	Notes          string           `json:"notes" validate:"max=1000"`
}

// RecordTransactionCommand appends one cash movement to an open shift.
// OutCurrency and OutAmount are required for in_out.
type RecordTransactionCommand struct {
	ShiftID        uuid.UUID        `json:"-"`
	UserID         uuid.UUID        `json:"-"`
	IdempotencyKey string           `json:"-"`
	Type           string           `json:"type" validate:"required,oneof=in out in_out"`
	Amount         decimal.Decimal  `json:"amount" validate:"gt=0"`
	Currency       string           `json:"currency" validate:"required,currency"`
	OutCurrency    string           `json:"out_currency" validate:"required_if=Type in_out,omitempty,currency"`
	OutAmount      *decimal.Decimal `json:"out_amount" validate:"required_if=Type in_out,omitnil,gt=0"`
	Category       string           `json:"category" validate:"omitempty,category"`
	Reference      string           `json:"reference" validate:"max=255"`
	Notes          string           `json:"notes" validate:"max=1000"`
	OccurredAt     *time.Time       `json:"occurred_at"`
}

// DenominationInput is one counted note or coin value.
type DenominationInput struct {
	Denomination decimal.Decimal `json:"denomination" validate:"gt=0.01"`
	Quantity     int             `json:"quantity" validate:"gte=0"`
}

// CloseShiftCommand submits the end-of-shift count. CountedBalances holds
// counted amounts for non-primary currencies; missing ones default to expected.
type CloseShiftCommand struct {
	ShiftID           uuid.UUID                  `json:"-"`
	UserID            uuid.UUID                  `json:"-"`
	CountedEndSaldo   *decimal.Decimal           `json:"counted_end_saldo" validate:"required,gte=0"`
	Denominations     []DenominationInput        `json:"denominations" validate:"required,min=1,dive"`
	CountedBalances   map[string]decimal.Decimal `json:"counted_balances" validate:"omitempty,dive,keys,currency,endkeys,gte=0"`
	Notes             string                     `json:"notes" validate:"max=1000"`
	DiscrepancyReason string                     `json:"discrepancy_reason" validate:"max=1000"`
}

// ApproveShiftCommand finalizes a shift under review.
type ApproveShiftCommand struct {
	ShiftID   uuid.UUID `json:"-"`
	ManagerID uuid.UUID `json:"-"`
	Notes     string    `json:"notes" validate:"max=1000"`
}

// RejectShiftCommand sends a shift under review back to its cashier.
type RejectShiftCommand struct {
	ShiftID   uuid.UUID `json:"-"`
	ManagerID uuid.UUID `json:"-"`
	Reason    string    `json:"reason" validate:"required,max=1000"`
}

// AdjustShiftCommand approves a shift after overriding counted amounts.
type AdjustShiftCommand struct {
	ShiftID         uuid.UUID                  `json:"-"`
	ManagerID       uuid.UUID                  `json:"-"`
	AdjustedAmounts map[string]decimal.Decimal `json:"adjusted_amounts" validate:"required,min=1,dive,keys,currency,endkeys,gte=0"`
	Reason          string                     `json:"reason" validate:"required,max=1000"`
}

// CreateDrawerCommand registers a cash drawer.
type CreateDrawerCommand struct {
	Name     string `json:"name" validate:"required,max=100"`
	Location string `json:"location" validate:"max=255"`
}

// UpdateDrawerCommand renames or relocates a drawer.
type UpdateDrawerCommand struct {
	ID       uuid.UUID `json:"-"`
	Name     string    `json:"name" validate:"required,max=100"`
	Location string    `json:"location" validate:"max=255"`
}

// DrawerListFilter filters drawer listings.
type DrawerListFilter struct {
	Search   string `form:"search"`
	IsActive *bool  `form:"is_active"`
	Page     int    `form:"page"`
	PageSize int    `form:"page_size"`
	OrderBy  string `form:"order_by"`
	OrderDir string `form:"order_dir"`
}

// ShiftListFilter filters shift listings.
type ShiftListFilter struct {
	Status   string     `form:"status" validate:"omitempty,oneof=open under_review closed"`
	DrawerID *uuid.UUID `form:"drawer_id"`
	UserID   *uuid.UUID `form:"user_id"`
	From     *time.Time `form:"from" time_format:"2006-01-02"`
	To       *time.Time `form:"to" time_format:"2006-01-02"`
	Page     int        `form:"page"`
	PageSize int        `form:"page_size"`
	OrderBy  string     `form:"order_by"`
	OrderDir string     `form:"order_dir"`
}

// TransactionListFilter filters a shift's ledger.
type TransactionListFilter struct {
	Type     string `form:"type" validate:"omitempty,oneof=in out in_out"`
	Currency string `form:"currency" validate:"omitempty,currency"`
	Category string `form:"category" validate:"omitempty,category"`
	Page     int    `form:"page"`
	PageSize int    `form:"page_size"`
	OrderBy  string `form:"order_by"`
	OrderDir string `form:"order_dir"`
}
