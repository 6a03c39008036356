package telemetry

import (
	"context"

	"gorm.io/gorm"
)

// GormShiftMetricsProvider counts shifts straight from the cashier_shifts table.
type GormShiftMetricsProvider struct {
	db *gorm.DB
}

// NewGormShiftMetricsProvider creates a GormShiftMetricsProvider.
func NewGormShiftMetricsProvider(db *gorm.DB) *GormShiftMetricsProvider {
	return &GormShiftMetricsProvider{db: db}
}

// CountShiftsByStatus returns counts for open and under_review shifts.
// Statuses with no rows are reported as zero.
func (p *GormShiftMetricsProvider) CountShiftsByStatus(ctx context.Context) (map[string]int64, error) {
	type row struct {
		Status string `gorm:"column:status"`
		Count  int64  `gorm:"column:count"`
	}
	var rows []row
	err := p.db.WithContext(ctx).
		Table("cashier_shifts").
		Select("status, COUNT(*) AS count").
		Where("status IN ?", []string{"open", "under_review"}).
		Group("status").
		Find(&rows).Error
	if err != nil {
		return nil, err
	}

	counts := map[string]int64{"open": 0, "under_review": 0}
	for _, r := range rows {
		counts[r.Status] = r.Count
	}
	return counts, nil
}
