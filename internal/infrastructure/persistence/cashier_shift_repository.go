package persistence

import (
	"context"
	"errors"
	"strings"

	"github.com/google/uuid"
	"github.com/hotelops/backend/internal/domain/cashdesk"
	"github.com/hotelops/backend/internal/domain/shared"
	"github.com/hotelops/backend/internal/infrastructure/persistence/models"
	"gorm.io/gorm"
)

// GormCashierShiftRepository implements CashierShiftRepository using GORM
type GormCashierShiftRepository struct {
	db *gorm.DB
}

// NewGormCashierShiftRepository creates a new GormCashierShiftRepository
func NewGormCashierShiftRepository(db *gorm.DB) *GormCashierShiftRepository {
	return &GormCashierShiftRepository{db: db}
}

// FindByID finds a shift by its ID
func (r *GormCashierShiftRepository) FindByID(ctx context.Context, id uuid.UUID) (*cashdesk.CashierShift, error) {
	var model models.CashierShiftModel
	if err := r.db.WithContext(ctx).First(&model, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return model.ToDomain(), nil
}

// FindOpenByUser finds the user's open shift
func (r *GormCashierShiftRepository) FindOpenByUser(ctx context.Context, userID uuid.UUID) (*cashdesk.CashierShift, error) {
	var model models.CashierShiftModel
	if err := r.db.WithContext(ctx).
		Where("user_id = ? AND status = ?", userID, cashdesk.ShiftStatusOpen).
		First(&model).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return model.ToDomain(), nil
}

// ExistsOpenForDrawer checks whether the drawer has an open shift
func (r *GormCashierShiftRepository) ExistsOpenForDrawer(ctx context.Context, drawerID uuid.UUID) (bool, error) {
	var count int64
	if err := r.db.WithContext(ctx).Model(&models.CashierShiftModel{}).
		Where("drawer_id = ? AND status = ?", drawerID, cashdesk.ShiftStatusOpen).
		Count(&count).Error; err != nil {
		return false, err
	}
	return count > 0, nil
}

// FindAll finds all shifts matching the filter
func (r *GormCashierShiftRepository) FindAll(ctx context.Context, filter cashdesk.ShiftFilter) ([]cashdesk.CashierShift, error) {
	var rows []models.CashierShiftModel
	query := r.applyFilter(r.db.WithContext(ctx).Model(&models.CashierShiftModel{}), filter)
	query = applyPaging(query, filter.Filter, CashierShiftSortFields, "opened_at")

	if err := query.Find(&rows).Error; err != nil {
		return nil, err
	}
	shifts := make([]cashdesk.CashierShift, len(rows))
	for i := range rows {
		shifts[i] = *rows[i].ToDomain()
	}
	return shifts, nil
}

// Count counts shifts matching the filter
func (r *GormCashierShiftRepository) Count(ctx context.Context, filter cashdesk.ShiftFilter) (int64, error) {
	var count int64
	if err := r.applyFilter(r.db.WithContext(ctx).Model(&models.CashierShiftModel{}), filter).Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}

// Create inserts a new shift
func (r *GormCashierShiftRepository) Create(ctx context.Context, shift *cashdesk.CashierShift) error {
	if err := r.db.WithContext(ctx).Create(models.CashierShiftModelFromDomain(shift)).Error; err != nil {
		if isUniqueViolation(err) {
			return cashdesk.ErrShiftAlreadyOpen
		}
		return err
	}
	return nil
}

// SaveWithLock saves with optimistic locking (checks version)
func (r *GormCashierShiftRepository) SaveWithLock(ctx context.Context, shift *cashdesk.CashierShift) error {
	model := models.CashierShiftModelFromDomain(shift)
	result := r.db.WithContext(ctx).
		Model(&models.CashierShiftModel{}).
		Where("id = ? AND version = ?", shift.ID, shift.Version).
		Updates(map[string]interface{}{
			"status":             model.Status,
			"expected_end_saldo": model.ExpectedEndSaldo,
			"counted_end_saldo":  model.CountedEndSaldo,
			"discrepancy":        model.Discrepancy,
			"discrepancy_reason": model.DiscrepancyReason,
			"approved_by":        model.ApprovedBy,
			"approved_at":        model.ApprovedAt,
			"approval_notes":     model.ApprovalNotes,
			"rejected_by":        model.RejectedBy,
			"rejected_at":        model.RejectedAt,
			"rejection_reason":   model.RejectionReason,
			"notes":              model.Notes,
			"closed_at":          model.ClosedAt,
			"version":            shift.Version + 1,
			"updated_at":         model.UpdatedAt,
		})

	if result.Error != nil {
		if isUniqueViolation(result.Error) {
			return cashdesk.ErrShiftAlreadyOpen
		}
		return result.Error
	}
	if result.RowsAffected == 0 {
		return shared.ErrConcurrencyConflict
	}
	shift.IncrementVersion()
	return nil
}

func (r *GormCashierShiftRepository) applyFilter(query *gorm.DB, filter cashdesk.ShiftFilter) *gorm.DB {
	if filter.Status != nil {
		query = query.Where("status = ?", *filter.Status)
	}
	if filter.DrawerID != nil {
		query = query.Where("drawer_id = ?", *filter.DrawerID)
	}
	if filter.UserID != nil {
		query = query.Where("user_id = ?", *filter.UserID)
	}
	if filter.From != nil {
		query = query.Where("opened_at >= ?", *filter.From)
	}
	if filter.To != nil {
		query = query.Where("opened_at < ?", *filter.To)
	}
	return query
}

// isUniqueViolation detects unique constraint errors from postgres (23505)
// and sqlite, translated or raw
func isUniqueViolation(err error) bool {
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return true
	}
	msg := err.Error()
	return strings.Contains(msg, "SQLSTATE 23505") ||
		strings.Contains(msg, "duplicate key value") ||
		strings.Contains(msg, "UNIQUE constraint failed")
}

// Ensure GormCashierShiftRepository implements CashierShiftRepository
var _ cashdesk.CashierShiftRepository = (*GormCashierShiftRepository)(nil)
