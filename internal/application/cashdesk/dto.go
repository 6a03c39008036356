package cashdesk

import (
	"time"

	"github.com/google/uuid"
	"github.com/hotelops/backend/internal/domain/cashdesk"
	"github.com/hotelops/backend/internal/domain/shared/valueobject"
	"github.com/shopspring/decimal"
)

// DrawerResponse represents a cash drawer in API responses
type DrawerResponse struct {
	ID        uuid.UUID                  `json:"id"`
	Name      string                     `json:"name"`
	Location  string                     `json:"location,omitempty"`
	IsActive  bool                       `json:"is_active"`
	Balances  map[string]decimal.Decimal `json:"balances"`
	Version   int                        `json:"version"`
	CreatedAt time.Time                  `json:"created_at"`
	UpdatedAt time.Time                  `json:"updated_at"`
}

// ShiftResponse represents a cashier shift in API responses
type ShiftResponse struct {
	ID                uuid.UUID        `json:"id"`
	DrawerID          uuid.UUID        `json:"drawer_id"`
	UserID            uuid.UUID        `json:"user_id"`
	Status            string           `json:"status"`
	StatusLabel       string           `json:"status_label"`
	StatusColor       string           `json:"status_color"`
	BeginningSaldo    decimal.Decimal  `json:"beginning_saldo"`
	ExpectedEndSaldo  decimal.Decimal  `json:"expected_end_saldo"`
	CountedEndSaldo   *decimal.Decimal `json:"counted_end_saldo,omitempty"`
	Discrepancy       *decimal.Decimal `json:"discrepancy,omitempty"`
	DiscrepancyReason string           `json:"discrepancy_reason,omitempty"`
	ApprovedBy        *uuid.UUID       `json:"approved_by,omitempty"`
	ApprovedAt        *time.Time       `json:"approved_at,omitempty"`
	ApprovalNotes     string           `json:"approval_notes,omitempty"`
	RejectedBy        *uuid.UUID       `json:"rejected_by,omitempty"`
	RejectedAt        *time.Time       `json:"rejected_at,omitempty"`
	RejectionReason   string           `json:"rejection_reason,omitempty"`
	Notes             string           `json:"notes,omitempty"`
	OpenedAt          time.Time        `json:"opened_at"`
	ClosedAt          *time.Time       `json:"closed_at,omitempty"`
	Version           int              `json:"version"`
	CreatedAt         time.Time        `json:"created_at"`
	UpdatedAt         time.Time        `json:"updated_at"`
}

// TransactionResponse represents one ledger row
type TransactionResponse struct {
	ID          uuid.UUID        `json:"id"`
	ShiftID     uuid.UUID        `json:"shift_id"`
	Type        string           `json:"type"`
	TypeLabel   string           `json:"type_label"`
	Amount      decimal.Decimal  `json:"amount"`
	Currency    string           `json:"currency"`
	Formatted   string           `json:"formatted"`
	OutCurrency string           `json:"out_currency,omitempty"`
	OutAmount   *decimal.Decimal `json:"out_amount,omitempty"`
	Category    string           `json:"category,omitempty"`
	Reference   string           `json:"reference,omitempty"`
	Notes       string           `json:"notes,omitempty"`
	CreatedBy   uuid.UUID        `json:"created_by"`
	OccurredAt  time.Time        `json:"occurred_at"`
	CreatedAt   time.Time        `json:"created_at"`
}

// DenominationResponse is one line of a cash count
type DenominationResponse struct {
	Denomination decimal.Decimal `json:"denomination"`
	Quantity     int             `json:"quantity"`
	Subtotal     decimal.Decimal `json:"subtotal"`
}

// CashCountResponse represents one close-time count
type CashCountResponse struct {
	ID            uuid.UUID              `json:"id"`
	ShiftID       uuid.UUID              `json:"shift_id"`
	Currency      string                 `json:"currency"`
	Denominations []DenominationResponse `json:"denominations"`
	Total         decimal.Decimal        `json:"total"`
	Notes         string                 `json:"notes,omitempty"`
	CountedBy     uuid.UUID              `json:"counted_by"`
	CreatedAt     time.Time              `json:"created_at"`
}

// EndSaldoResponse represents the closing balance of one currency
type EndSaldoResponse struct {
	ID               uuid.UUID       `json:"id"`
	Currency         string          `json:"currency"`
	ExpectedEndSaldo decimal.Decimal `json:"expected_end_saldo"`
	CountedEndSaldo  decimal.Decimal `json:"counted_end_saldo"`
	Discrepancy      decimal.Decimal `json:"discrepancy"`
	AdjustedBy       *uuid.UUID      `json:"adjusted_by,omitempty"`
	AdjustedAt       *time.Time      `json:"adjusted_at,omitempty"`
	AdjustmentReason string          `json:"adjustment_reason,omitempty"`
}

// ShiftDetailResponse is a shift with everything recorded against it
type ShiftDetailResponse struct {
	ShiftResponse
	ExpectedBalances map[string]decimal.Decimal `json:"expected_balances"`
	Transactions     []TransactionResponse      `json:"transactions"`
	CashCounts       []CashCountResponse        `json:"cash_counts"`
	EndSaldos        []EndSaldoResponse         `json:"end_saldos"`
}

// CurrencySummary totals one currency of a shift
type CurrencySummary struct {
	Currency  string          `json:"currency"`
	TotalIn   decimal.Decimal `json:"total_in"`
	TotalOut  decimal.Decimal `json:"total_out"`
	Net       decimal.Decimal `json:"net"`
	Expected  decimal.Decimal `json:"expected"`
	Formatted string          `json:"formatted"`
}

// CategorySummary totals one category of a shift, per currency
type CategorySummary struct {
	Category string          `json:"category"`
	Currency string          `json:"currency"`
	Count    int             `json:"count"`
	Net      decimal.Decimal `json:"net"`
}

// ShiftSummaryResponse aggregates a shift's ledger
type ShiftSummaryResponse struct {
	ShiftID          uuid.UUID         `json:"shift_id"`
	Status           string            `json:"status"`
	TransactionCount int               `json:"transaction_count"`
	Currencies       []CurrencySummary `json:"currencies"`
	Categories       []CategorySummary `json:"categories"`
}

// ReportLinkResponse points at an archived shift report
type ReportLinkResponse struct {
	ShiftID    uuid.UUID `json:"shift_id"`
	StorageKey string    `json:"storage_key"`
	URL        string    `json:"url"`
	ExpiresAt  time.Time `json:"expires_at"`
}

// ShiftReport is a rendered shift workbook
type ShiftReport struct {
	FileName    string
	ContentType string
	Content     []byte
}

// ToDrawerResponse converts a drawer to its response
func ToDrawerResponse(d *cashdesk.CashDrawer) DrawerResponse {
	return DrawerResponse{
		ID:        d.ID,
		Name:      d.Name,
		Location:  d.Location,
		IsActive:  d.IsActive,
		Balances:  balancesToMap(d.Balances),
		Version:   d.Version,
		CreatedAt: d.CreatedAt,
		UpdatedAt: d.UpdatedAt,
	}
}

// ToDrawerResponses converts a slice of drawers
func ToDrawerResponses(drawers []cashdesk.CashDrawer) []DrawerResponse {
	responses := make([]DrawerResponse, len(drawers))
	for i := range drawers {
		responses[i] = ToDrawerResponse(&drawers[i])
	}
	return responses
}

// ToShiftResponse converts a shift to its response
func ToShiftResponse(s *cashdesk.CashierShift) ShiftResponse {
	return ShiftResponse{
		ID:                s.ID,
		DrawerID:          s.DrawerID,
		UserID:            s.UserID,
		Status:            s.Status.String(),
		StatusLabel:       s.Status.Label(),
		StatusColor:       s.Status.Color(),
		BeginningSaldo:    s.BeginningSaldo,
		ExpectedEndSaldo:  s.ExpectedEndSaldo,
		CountedEndSaldo:   s.CountedEndSaldo,
		Discrepancy:       s.Discrepancy,
		DiscrepancyReason: s.DiscrepancyReason,
		ApprovedBy:        s.ApprovedBy,
		ApprovedAt:        s.ApprovedAt,
		ApprovalNotes:     s.ApprovalNotes,
		RejectedBy:        s.RejectedBy,
		RejectedAt:        s.RejectedAt,
		RejectionReason:   s.RejectionReason,
		Notes:             s.Notes,
		OpenedAt:          s.OpenedAt,
		ClosedAt:          s.ClosedAt,
		Version:           s.Version,
		CreatedAt:         s.CreatedAt,
		UpdatedAt:         s.UpdatedAt,
	}
}

// ToShiftResponses converts a slice of shifts
func ToShiftResponses(shifts []cashdesk.CashierShift) []ShiftResponse {
	responses := make([]ShiftResponse, len(shifts))
	for i := range shifts {
		responses[i] = ToShiftResponse(&shifts[i])
	}
	return responses
}

// ToTransactionResponse converts a ledger row to its response
func ToTransactionResponse(tx *cashdesk.CashTransaction) TransactionResponse {
	return TransactionResponse{
		ID:          tx.ID,
		ShiftID:     tx.ShiftID,
		Type:        tx.Type.String(),
		TypeLabel:   tx.Type.Label(),
		Amount:      tx.Amount,
		Currency:    tx.Currency.String(),
		Formatted:   tx.Currency.Format(tx.Amount),
		OutCurrency: tx.OutCurrency.String(),
		OutAmount:   tx.OutAmount,
		Category:    tx.Category.String(),
		Reference:   tx.Reference,
		Notes:       tx.Notes,
		CreatedBy:   tx.CreatedBy,
		OccurredAt:  tx.OccurredAt,
		CreatedAt:   tx.CreatedAt,
	}
}

// ToTransactionResponses converts a slice of ledger rows
func ToTransactionResponses(txs []cashdesk.CashTransaction) []TransactionResponse {
	responses := make([]TransactionResponse, len(txs))
	for i := range txs {
		responses[i] = ToTransactionResponse(&txs[i])
	}
	return responses
}

// ToCashCountResponse converts a cash count to its response
func ToCashCountResponse(c *cashdesk.CashCount) CashCountResponse {
	lines := make([]DenominationResponse, len(c.Denominations))
	for i, d := range c.Denominations {
		lines[i] = DenominationResponse{
			Denomination: d.Value,
			Quantity:     d.Quantity,
			Subtotal:     d.Subtotal(),
		}
	}
	return CashCountResponse{
		ID:            c.ID,
		ShiftID:       c.ShiftID,
		Currency:      c.Currency.String(),
		Denominations: lines,
		Total:         c.Total,
		Notes:         c.Notes,
		CountedBy:     c.CountedBy,
		CreatedAt:     c.CreatedAt,
	}
}

// ToEndSaldoResponse converts an end-saldo row to its response
func ToEndSaldoResponse(e *cashdesk.EndSaldo) EndSaldoResponse {
	return EndSaldoResponse{
		ID:               e.ID,
		Currency:         e.Currency.String(),
		ExpectedEndSaldo: e.ExpectedEndSaldo,
		CountedEndSaldo:  e.CountedEndSaldo,
		Discrepancy:      e.Discrepancy,
		AdjustedBy:       e.AdjustedBy,
		AdjustedAt:       e.AdjustedAt,
		AdjustmentReason: e.AdjustmentReason,
	}
}

func balancesToMap(b cashdesk.Balances) map[string]decimal.Decimal {
	out := make(map[string]decimal.Decimal, len(b))
	for c, amount := range b {
		out[c.String()] = amount
	}
	return out
}

// toBalances converts validated currency keys into domain balances
func toBalances(m map[string]decimal.Decimal) cashdesk.Balances {
	out := make(cashdesk.Balances, len(m))
	for code, amount := range m {
		out[valueobject.Currency(code)] = amount
	}
	return out
}

func toDenominations(lines []DenominationInput) []cashdesk.Denomination {
	out := make([]cashdesk.Denomination, len(lines))
	for i, l := range lines {
		out[i] = cashdesk.Denomination{Value: l.Denomination, Quantity: l.Quantity}
	}
	return out
}
