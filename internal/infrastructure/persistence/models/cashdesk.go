package models

import (
	"encoding/json"
	"time"

	"github.com/google/uuid"
	"github.com/hotelops/backend/internal/domain/cashdesk"
	"github.com/hotelops/backend/internal/domain/shared/valueobject"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

// logger for model conversion errors (silent failures are logged for debugging)
var modelLogger = zap.L().Named("cashdesk.models")

// CashDrawerModel is the persistence model for the CashDrawer aggregate root.
type CashDrawerModel struct {
	AggregateModel
	Name         string `gorm:"type:varchar(100);not null"`
	Location     string `gorm:"type:varchar(200)"`
	IsActive     bool   `gorm:"not null;default:true;index"`
	BalancesJSON string `gorm:"column:balances;type:jsonb;not null;default:'{}'"`
}

// TableName returns the table name for GORM
func (CashDrawerModel) TableName() string {
	return "cash_drawers"
}

// ToDomain converts the persistence model to a domain CashDrawer.
func (m *CashDrawerModel) ToDomain() *cashdesk.CashDrawer {
	return &cashdesk.CashDrawer{
		BaseAggregateRoot: m.ToDomainAggregateRoot(),
		Name:              m.Name,
		Location:          m.Location,
		IsActive:          m.IsActive,
		Balances:          decodeBalances(m.BalancesJSON, m.ID),
	}
}

// FromDomain populates the persistence model from a domain CashDrawer.
func (m *CashDrawerModel) FromDomain(d *cashdesk.CashDrawer) {
	m.FromDomainAggregateRoot(d.BaseAggregateRoot)
	m.Name = d.Name
	m.Location = d.Location
	m.IsActive = d.IsActive
	m.BalancesJSON = encodeBalances(d.Balances)
}

// CashDrawerModelFromDomain creates a new persistence model from a domain CashDrawer.
func CashDrawerModelFromDomain(d *cashdesk.CashDrawer) *CashDrawerModel {
	m := &CashDrawerModel{}
	m.FromDomain(d)
	return m
}

// CashierShiftModel is the persistence model for the CashierShift aggregate root.
// At most one row per user may be open; the partial unique index lives in the
// migration since GORM tags cannot express the WHERE clause.
type CashierShiftModel struct {
	AggregateModel
	DrawerID          uuid.UUID            `gorm:"type:uuid;not null;index"`
	UserID            uuid.UUID            `gorm:"type:uuid;not null;index"`
	Status            cashdesk.ShiftStatus `gorm:"type:varchar(20);not null;index"`
	BeginningSaldo    decimal.Decimal      `gorm:"type:decimal(18,2);not null"`
	ExpectedEndSaldo  decimal.Decimal      `gorm:"type:decimal(18,2);not null"`
	CountedEndSaldo   *decimal.Decimal     `gorm:"type:decimal(18,2)"`
	Discrepancy       *decimal.Decimal     `gorm:"type:decimal(18,2)"`
	DiscrepancyReason string               `gorm:"type:text"`
	ApprovedBy        *uuid.UUID           `gorm:"type:uuid"`
	ApprovedAt        *time.Time
	ApprovalNotes     string     `gorm:"type:text"`
	RejectedBy        *uuid.UUID `gorm:"type:uuid"`
	RejectedAt        *time.Time
	RejectionReason   string    `gorm:"type:text"`
	Notes             string    `gorm:"type:text"`
	OpenedAt          time.Time `gorm:"not null;index"`
	ClosedAt          *time.Time
}

// TableName returns the table name for GORM
func (CashierShiftModel) TableName() string {
	return "cashier_shifts"
}

// ToDomain converts the persistence model to a domain CashierShift.
func (m *CashierShiftModel) ToDomain() *cashdesk.CashierShift {
	return &cashdesk.CashierShift{
		BaseAggregateRoot: m.ToDomainAggregateRoot(),
		DrawerID:          m.DrawerID,
		UserID:            m.UserID,
		Status:            m.Status,
		BeginningSaldo:    m.BeginningSaldo,
		ExpectedEndSaldo:  m.ExpectedEndSaldo,
		CountedEndSaldo:   m.CountedEndSaldo,
		Discrepancy:       m.Discrepancy,
		DiscrepancyReason: m.DiscrepancyReason,
		ApprovedBy:        m.ApprovedBy,
		ApprovedAt:        m.ApprovedAt,
		ApprovalNotes:     m.ApprovalNotes,
		RejectedBy:        m.RejectedBy,
		RejectedAt:        m.RejectedAt,
		RejectionReason:   m.RejectionReason,
		Notes:             m.Notes,
		OpenedAt:          m.OpenedAt,
		ClosedAt:          m.ClosedAt,
	}
}

// FromDomain populates the persistence model from a domain CashierShift.
func (m *CashierShiftModel) FromDomain(s *cashdesk.CashierShift) {
	m.FromDomainAggregateRoot(s.BaseAggregateRoot)
	m.DrawerID = s.DrawerID
	m.UserID = s.UserID
	m.Status = s.Status
	m.BeginningSaldo = s.BeginningSaldo
	m.ExpectedEndSaldo = s.ExpectedEndSaldo
	m.CountedEndSaldo = s.CountedEndSaldo
	m.Discrepancy = s.Discrepancy
	m.DiscrepancyReason = s.DiscrepancyReason
	m.ApprovedBy = s.ApprovedBy
	m.ApprovedAt = s.ApprovedAt
	m.ApprovalNotes = s.ApprovalNotes
	m.RejectedBy = s.RejectedBy
	m.RejectedAt = s.RejectedAt
	m.RejectionReason = s.RejectionReason
	m.Notes = s.Notes
	m.OpenedAt = s.OpenedAt
	m.ClosedAt = s.ClosedAt
}

// CashierShiftModelFromDomain creates a new persistence model from a domain CashierShift.
func CashierShiftModelFromDomain(s *cashdesk.CashierShift) *CashierShiftModel {
	m := &CashierShiftModel{}
	m.FromDomain(s)
	return m
}

// CashTransactionModel is the persistence model for a ledger row.
type CashTransactionModel struct {
	BaseModel
	ShiftID     uuid.UUID                    `gorm:"type:uuid;not null;index"`
	Type        cashdesk.TransactionType     `gorm:"type:varchar(10);not null"`
	Amount      decimal.Decimal              `gorm:"type:decimal(18,2);not null"`
	Currency    valueobject.Currency         `gorm:"type:varchar(3);not null"`
	OutCurrency *valueobject.Currency        `gorm:"type:varchar(3)"`
	OutAmount   *decimal.Decimal             `gorm:"type:decimal(18,2)"`
	Category    cashdesk.TransactionCategory `gorm:"type:varchar(20)"`
	Reference   string                       `gorm:"type:varchar(255)"`
	Notes       string                       `gorm:"type:text"`
	CreatedBy   uuid.UUID                    `gorm:"type:uuid;not null"`
	OccurredAt  time.Time                    `gorm:"not null;index"`
}

// TableName returns the table name for GORM
func (CashTransactionModel) TableName() string {
	return "cash_transactions"
}

// ToDomain converts the persistence model to a domain CashTransaction.
func (m *CashTransactionModel) ToDomain() *cashdesk.CashTransaction {
	tx := &cashdesk.CashTransaction{
		BaseEntity: m.BaseModel.ToDomain(),
		ShiftID:    m.ShiftID,
		Type:       m.Type,
		Amount:     m.Amount,
		Currency:   m.Currency,
		OutAmount:  m.OutAmount,
		Category:   m.Category,
		Reference:  m.Reference,
		Notes:      m.Notes,
		CreatedBy:  m.CreatedBy,
		OccurredAt: m.OccurredAt,
	}
	if m.OutCurrency != nil {
		tx.OutCurrency = *m.OutCurrency
	}
	return tx
}

// FromDomain populates the persistence model from a domain CashTransaction.
func (m *CashTransactionModel) FromDomain(t *cashdesk.CashTransaction) {
	m.FromDomainBaseEntity(t.BaseEntity)
	m.ShiftID = t.ShiftID
	m.Type = t.Type
	m.Amount = t.Amount
	m.Currency = t.Currency
	m.OutCurrency = nil
	if t.OutCurrency != "" {
		c := t.OutCurrency
		m.OutCurrency = &c
	}
	m.OutAmount = t.OutAmount
	m.Category = t.Category
	m.Reference = t.Reference
	m.Notes = t.Notes
	m.CreatedBy = t.CreatedBy
	m.OccurredAt = t.OccurredAt
}

// CashTransactionModelFromDomain creates a new persistence model from a domain CashTransaction.
func CashTransactionModelFromDomain(t *cashdesk.CashTransaction) *CashTransactionModel {
	m := &CashTransactionModel{}
	m.FromDomain(t)
	return m
}

// CashCountModel is the persistence model for a denomination count.
type CashCountModel struct {
	BaseModel
	ShiftID           uuid.UUID            `gorm:"type:uuid;not null;index"`
	Currency          valueobject.Currency `gorm:"type:varchar(3);not null"`
	DenominationsJSON string               `gorm:"column:denominations;type:jsonb;not null"`
	Total             decimal.Decimal      `gorm:"type:decimal(18,2);not null"`
	Notes             string               `gorm:"type:text"`
	CountedBy         uuid.UUID            `gorm:"type:uuid;not null"`
}

// TableName returns the table name for GORM
func (CashCountModel) TableName() string {
	return "cash_counts"
}

// ToDomain converts the persistence model to a domain CashCount.
func (m *CashCountModel) ToDomain() *cashdesk.CashCount {
	count := &cashdesk.CashCount{
		BaseEntity:    m.BaseModel.ToDomain(),
		ShiftID:       m.ShiftID,
		Currency:      m.Currency,
		Denominations: make([]cashdesk.Denomination, 0),
		Total:         m.Total,
		Notes:         m.Notes,
		CountedBy:     m.CountedBy,
	}
	if m.DenominationsJSON != "" {
		if err := json.Unmarshal([]byte(m.DenominationsJSON), &count.Denominations); err != nil {
			modelLogger.Warn("failed to parse denominations JSON",
				zap.String("cash_count_id", m.ID.String()),
				zap.String("raw_json", m.DenominationsJSON),
				zap.Error(err))
		}
	}
	return count
}

// FromDomain populates the persistence model from a domain CashCount.
func (m *CashCountModel) FromDomain(c *cashdesk.CashCount) {
	m.FromDomainBaseEntity(c.BaseEntity)
	m.ShiftID = c.ShiftID
	m.Currency = c.Currency
	m.Total = c.Total
	m.Notes = c.Notes
	m.CountedBy = c.CountedBy
	m.DenominationsJSON = "[]"
	if len(c.Denominations) > 0 {
		if raw, err := json.Marshal(c.Denominations); err == nil {
			m.DenominationsJSON = string(raw)
		}
	}
}

// CashCountModelFromDomain creates a new persistence model from a domain CashCount.
func CashCountModelFromDomain(c *cashdesk.CashCount) *CashCountModel {
	m := &CashCountModel{}
	m.FromDomain(c)
	return m
}

// EndSaldoModel is the persistence model for a per-currency closing balance.
type EndSaldoModel struct {
	BaseModel
	ShiftID          uuid.UUID            `gorm:"type:uuid;not null;uniqueIndex:idx_end_saldo_shift_currency,priority:1"`
	Currency         valueobject.Currency `gorm:"type:varchar(3);not null;uniqueIndex:idx_end_saldo_shift_currency,priority:2"`
	ExpectedEndSaldo decimal.Decimal      `gorm:"type:decimal(18,2);not null"`
	CountedEndSaldo  decimal.Decimal      `gorm:"type:decimal(18,2);not null"`
	Discrepancy      decimal.Decimal      `gorm:"type:decimal(18,2);not null"`
	AdjustedBy       *uuid.UUID           `gorm:"type:uuid"`
	AdjustedAt       *time.Time
	AdjustmentReason string `gorm:"type:text"`
}

// TableName returns the table name for GORM
func (EndSaldoModel) TableName() string {
	return "end_saldos"
}

// ToDomain converts the persistence model to a domain EndSaldo.
func (m *EndSaldoModel) ToDomain() *cashdesk.EndSaldo {
	return &cashdesk.EndSaldo{
		BaseEntity:       m.BaseModel.ToDomain(),
		ShiftID:          m.ShiftID,
		Currency:         m.Currency,
		ExpectedEndSaldo: m.ExpectedEndSaldo,
		CountedEndSaldo:  m.CountedEndSaldo,
		Discrepancy:      m.Discrepancy,
		AdjustedBy:       m.AdjustedBy,
		AdjustedAt:       m.AdjustedAt,
		AdjustmentReason: m.AdjustmentReason,
	}
}

// FromDomain populates the persistence model from a domain EndSaldo.
func (m *EndSaldoModel) FromDomain(e *cashdesk.EndSaldo) {
	m.FromDomainBaseEntity(e.BaseEntity)
	m.ShiftID = e.ShiftID
	m.Currency = e.Currency
	m.ExpectedEndSaldo = e.ExpectedEndSaldo
	m.CountedEndSaldo = e.CountedEndSaldo
	m.Discrepancy = e.Discrepancy
	m.AdjustedBy = e.AdjustedBy
	m.AdjustedAt = e.AdjustedAt
	m.AdjustmentReason = e.AdjustmentReason
}

// EndSaldoModelFromDomain creates a new persistence model from a domain EndSaldo.
func EndSaldoModelFromDomain(e *cashdesk.EndSaldo) *EndSaldoModel {
	m := &EndSaldoModel{}
	m.FromDomain(e)
	return m
}

func encodeBalances(b cashdesk.Balances) string {
	if len(b) == 0 {
		return "{}"
	}
	raw, err := json.Marshal(b)
	if err != nil {
		return "{}"
	}
	return string(raw)
}

func decodeBalances(raw string, drawerID uuid.UUID) cashdesk.Balances {
	balances := make(cashdesk.Balances)
	if raw == "" || raw == "{}" {
		return balances
	}
	if err := json.Unmarshal([]byte(raw), &balances); err != nil {
		modelLogger.Warn("failed to parse drawer balances JSON",
			zap.String("drawer_id", drawerID.String()),
			zap.String("raw_json", raw),
			zap.Error(err))
	}
	return balances
}
