package persistence

import (
	"context"

	"github.com/google/uuid"
	"github.com/hotelops/backend/internal/domain/cashdesk"
	"github.com/hotelops/backend/internal/infrastructure/persistence/models"
	"gorm.io/gorm"
)

// GormCashCountRepository implements CashCountRepository using GORM
type GormCashCountRepository struct {
	db *gorm.DB
}

// NewGormCashCountRepository creates a new GormCashCountRepository
func NewGormCashCountRepository(db *gorm.DB) *GormCashCountRepository {
	return &GormCashCountRepository{db: db}
}

// FindByShift returns the counts of a shift, oldest first
func (r *GormCashCountRepository) FindByShift(ctx context.Context, shiftID uuid.UUID) ([]cashdesk.CashCount, error) {
	var rows []models.CashCountModel
	if err := r.db.WithContext(ctx).
		Where("shift_id = ?", shiftID).
		Order("created_at ASC").
		Find(&rows).Error; err != nil {
		return nil, err
	}
	counts := make([]cashdesk.CashCount, len(rows))
	for i := range rows {
		counts[i] = *rows[i].ToDomain()
	}
	return counts, nil
}

// Create inserts a count
func (r *GormCashCountRepository) Create(ctx context.Context, count *cashdesk.CashCount) error {
	return r.db.WithContext(ctx).Create(models.CashCountModelFromDomain(count)).Error
}

// Ensure GormCashCountRepository implements CashCountRepository
var _ cashdesk.CashCountRepository = (*GormCashCountRepository)(nil)
