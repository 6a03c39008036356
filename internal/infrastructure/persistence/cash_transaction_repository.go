package persistence

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"github.com/hotelops/backend/internal/domain/cashdesk"
	"github.com/hotelops/backend/internal/domain/shared"
	"github.com/hotelops/backend/internal/infrastructure/persistence/models"
	"gorm.io/gorm"
)

// GormCashTransactionRepository implements CashTransactionRepository using GORM
type GormCashTransactionRepository struct {
	db *gorm.DB
}

// NewGormCashTransactionRepository creates a new GormCashTransactionRepository
func NewGormCashTransactionRepository(db *gorm.DB) *GormCashTransactionRepository {
	return &GormCashTransactionRepository{db: db}
}

// FindByID finds a ledger row by its ID
func (r *GormCashTransactionRepository) FindByID(ctx context.Context, id uuid.UUID) (*cashdesk.CashTransaction, error) {
	var model models.CashTransactionModel
	if err := r.db.WithContext(ctx).First(&model, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return model.ToDomain(), nil
}

// FindByShift returns the full ledger of a shift
func (r *GormCashTransactionRepository) FindByShift(ctx context.Context, shiftID uuid.UUID) ([]cashdesk.CashTransaction, error) {
	var rows []models.CashTransactionModel
	if err := r.db.WithContext(ctx).
		Where("shift_id = ?", shiftID).
		Order("occurred_at ASC, created_at ASC").
		Find(&rows).Error; err != nil {
		return nil, err
	}
	return toDomainTransactions(rows), nil
}

// FindAll finds a shift's ledger rows matching the filter
func (r *GormCashTransactionRepository) FindAll(ctx context.Context, filter cashdesk.TransactionFilter) ([]cashdesk.CashTransaction, error) {
	var rows []models.CashTransactionModel
	query := r.applyFilter(r.db.WithContext(ctx).Model(&models.CashTransactionModel{}), filter)
	query = applyPaging(query, filter.Filter, CashTransactionSortFields, "occurred_at")

	if err := query.Find(&rows).Error; err != nil {
		return nil, err
	}
	return toDomainTransactions(rows), nil
}

// Count counts a shift's ledger rows matching the filter
func (r *GormCashTransactionRepository) Count(ctx context.Context, filter cashdesk.TransactionFilter) (int64, error) {
	var count int64
	if err := r.applyFilter(r.db.WithContext(ctx).Model(&models.CashTransactionModel{}), filter).Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}

// CreateBatch inserts ledger rows in order
func (r *GormCashTransactionRepository) CreateBatch(ctx context.Context, txs []cashdesk.CashTransaction) error {
	if len(txs) == 0 {
		return nil
	}
	rows := make([]*models.CashTransactionModel, len(txs))
	for i := range txs {
		rows[i] = models.CashTransactionModelFromDomain(&txs[i])
	}
	return r.db.WithContext(ctx).Create(rows).Error
}

func (r *GormCashTransactionRepository) applyFilter(query *gorm.DB, filter cashdesk.TransactionFilter) *gorm.DB {
	query = query.Where("shift_id = ?", filter.ShiftID)
	if filter.Type != nil {
		query = query.Where("type = ?", *filter.Type)
	}
	if filter.Currency != nil {
		query = query.Where("currency = ?", *filter.Currency)
	}
	if filter.Category != nil {
		query = query.Where("category = ?", *filter.Category)
	}
	return query
}

func toDomainTransactions(rows []models.CashTransactionModel) []cashdesk.CashTransaction {
	txs := make([]cashdesk.CashTransaction, len(rows))
	for i := range rows {
		txs[i] = *rows[i].ToDomain()
	}
	return txs
}

// Ensure GormCashTransactionRepository implements CashTransactionRepository
var _ cashdesk.CashTransactionRepository = (*GormCashTransactionRepository)(nil)
