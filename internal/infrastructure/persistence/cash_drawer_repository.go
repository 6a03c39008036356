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

// GormCashDrawerRepository implements CashDrawerRepository using GORM
type GormCashDrawerRepository struct {
	db *gorm.DB
}

// NewGormCashDrawerRepository creates a new GormCashDrawerRepository
func NewGormCashDrawerRepository(db *gorm.DB) *GormCashDrawerRepository {
	return &GormCashDrawerRepository{db: db}
}

// FindByID finds a drawer by its ID
func (r *GormCashDrawerRepository) FindByID(ctx context.Context, id uuid.UUID) (*cashdesk.CashDrawer, error) {
	var model models.CashDrawerModel
	if err := r.db.WithContext(ctx).First(&model, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return model.ToDomain(), nil
}

// FindAll finds all drawers matching the filter
func (r *GormCashDrawerRepository) FindAll(ctx context.Context, filter cashdesk.DrawerFilter) ([]cashdesk.CashDrawer, error) {
	var rows []models.CashDrawerModel
	query := r.applyFilter(r.db.WithContext(ctx).Model(&models.CashDrawerModel{}), filter)
	query = applyPaging(query, filter.Filter, CashDrawerSortFields, "name")

	if err := query.Find(&rows).Error; err != nil {
		return nil, err
	}
	drawers := make([]cashdesk.CashDrawer, len(rows))
	for i := range rows {
		drawers[i] = *rows[i].ToDomain()
	}
	return drawers, nil
}

// Count counts drawers matching the filter
func (r *GormCashDrawerRepository) Count(ctx context.Context, filter cashdesk.DrawerFilter) (int64, error) {
	var count int64
	if err := r.applyFilter(r.db.WithContext(ctx).Model(&models.CashDrawerModel{}), filter).Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}

// Create inserts a new drawer
func (r *GormCashDrawerRepository) Create(ctx context.Context, drawer *cashdesk.CashDrawer) error {
	return r.db.WithContext(ctx).Create(models.CashDrawerModelFromDomain(drawer)).Error
}

// SaveWithLock saves with optimistic locking (checks version)
func (r *GormCashDrawerRepository) SaveWithLock(ctx context.Context, drawer *cashdesk.CashDrawer) error {
	model := models.CashDrawerModelFromDomain(drawer)
	result := r.db.WithContext(ctx).
		Model(&models.CashDrawerModel{}).
		Where("id = ? AND version = ?", drawer.ID, drawer.Version).
		Updates(map[string]interface{}{
			"name":       model.Name,
			"location":   model.Location,
			"is_active":  model.IsActive,
			"balances":   model.BalancesJSON,
			"version":    drawer.Version + 1,
			"updated_at": model.UpdatedAt,
		})

	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return shared.ErrConcurrencyConflict
	}
	drawer.IncrementVersion()
	return nil
}

func (r *GormCashDrawerRepository) applyFilter(query *gorm.DB, filter cashdesk.DrawerFilter) *gorm.DB {
	if filter.IsActive != nil {
		query = query.Where("is_active = ?", *filter.IsActive)
	}
	if search := strings.TrimSpace(filter.Search); search != "" {
		pattern := "%" + strings.ToLower(search) + "%"
		query = query.Where("LOWER(name) LIKE ? OR LOWER(location) LIKE ?", pattern, pattern)
	}
	return query
}

// Ensure GormCashDrawerRepository implements CashDrawerRepository
var _ cashdesk.CashDrawerRepository = (*GormCashDrawerRepository)(nil)
