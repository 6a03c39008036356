package persistence

import (
	"context"

	"github.com/google/uuid"
	"github.com/hotelops/backend/internal/domain/cashdesk"
	"github.com/hotelops/backend/internal/infrastructure/persistence/models"
	"gorm.io/gorm"
)

// GormEndSaldoRepository implements EndSaldoRepository using GORM
type GormEndSaldoRepository struct {
	db *gorm.DB
}

// NewGormEndSaldoRepository creates a new GormEndSaldoRepository
func NewGormEndSaldoRepository(db *gorm.DB) *GormEndSaldoRepository {
	return &GormEndSaldoRepository{db: db}
}

// FindByShift returns the closing balances of a shift
func (r *GormEndSaldoRepository) FindByShift(ctx context.Context, shiftID uuid.UUID) ([]cashdesk.EndSaldo, error) {
	var rows []models.EndSaldoModel
	if err := r.db.WithContext(ctx).
		Where("shift_id = ?", shiftID).
		Order("created_at ASC").
		Find(&rows).Error; err != nil {
		return nil, err
	}
	saldos := make([]cashdesk.EndSaldo, len(rows))
	for i := range rows {
		saldos[i] = *rows[i].ToDomain()
	}
	return saldos, nil
}

// SaveAll creates or updates closing balances by primary key
func (r *GormEndSaldoRepository) SaveAll(ctx context.Context, rows []cashdesk.EndSaldo) error {
	if len(rows) == 0 {
		return nil
	}
	db := r.db.WithContext(ctx)
	for i := range rows {
		if err := db.Save(models.EndSaldoModelFromDomain(&rows[i])).Error; err != nil {
			return err
		}
	}
	return nil
}

// Ensure GormEndSaldoRepository implements EndSaldoRepository
var _ cashdesk.EndSaldoRepository = (*GormEndSaldoRepository)(nil)
