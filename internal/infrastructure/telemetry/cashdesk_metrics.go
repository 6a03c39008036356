package telemetry

import (
	"context"
	"sync"
	"time"

	"github.com/shopspring/decimal"
	"go.opentelemetry.io/otel/metric"
	"go.uber.org/zap"
)

// CashdeskMetrics records cashier shift activity.
type CashdeskMetrics struct {
	logger *zap.Logger

	shiftStartedTotal *Counter
	transactionTotal  *Counter
	shiftClosedTotal  *Counter
	reviewTotal       *Counter
	discrepancy       *Histogram
	shiftsByStatus    *Gauge

	provider    ShiftMetricsProvider
	stopChan    chan struct{}
	stopOnce    sync.Once
	collectOnce sync.Once
}

// ShiftMetricsProvider reports how many shifts sit in each non-terminal status.
type ShiftMetricsProvider interface {
	CountShiftsByStatus(ctx context.Context) (map[string]int64, error)
}

// CashdeskMetricsConfig configures NewCashdeskMetrics.
type CashdeskMetricsConfig struct {
	Meter    metric.Meter
	Logger   *zap.Logger
	Provider ShiftMetricsProvider
}

// ReviewOutcome labels the result of a manager review.
type ReviewOutcome string

const (
	ReviewApproved ReviewOutcome = "approved"
	ReviewRejected ReviewOutcome = "rejected"
	ReviewAdjusted ReviewOutcome = "adjusted"
)

// discrepancyBuckets are in UZS.
var discrepancyBuckets = []float64{0, 100, 1000, 5000, 10000, 50000, 100000, 500000}

// NewCashdeskMetrics creates all instruments on cfg.Meter.
func NewCashdeskMetrics(cfg CashdeskMetricsConfig) (*CashdeskMetrics, error) {
	if cfg.Meter == nil {
		return nil, ErrMeterNil
	}
	logger := cfg.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	m := &CashdeskMetrics{logger: logger, provider: cfg.Provider, stopChan: make(chan struct{})}

	var err error
	if m.shiftStartedTotal, err = NewCounter(cfg.Meter, "cashdesk_shift_started_total", "Cashier shifts started", "{shifts}"); err != nil {
		return nil, err
	}
	if m.transactionTotal, err = NewCounter(cfg.Meter, "cashdesk_transaction_total", "Cash transaction rows recorded", "{transactions}"); err != nil {
		return nil, err
	}
	if m.shiftClosedTotal, err = NewCounter(cfg.Meter, "cashdesk_shift_closed_total", "Cashier shifts closed by resulting status", "{shifts}"); err != nil {
		return nil, err
	}
	if m.reviewTotal, err = NewCounter(cfg.Meter, "cashdesk_shift_review_total", "Manager review decisions", "{reviews}"); err != nil {
		return nil, err
	}
	if m.discrepancy, err = NewHistogram(cfg.Meter, HistogramOpts{
		Name:        "cashdesk_shift_discrepancy",
		Description: "Absolute UZS discrepancy at shift close",
		Unit:        "UZS",
		Boundaries:  discrepancyBuckets,
	}); err != nil {
		return nil, err
	}
	if m.shiftsByStatus, err = NewGauge(cfg.Meter, "cashdesk_shifts", "Shifts currently in each non-terminal status", "{shifts}"); err != nil {
		return nil, err
	}
	return m, nil
}

// RecordShiftStarted counts a started shift.
func (m *CashdeskMetrics) RecordShiftStarted(ctx context.Context) {
	if m == nil {
		return
	}
	m.shiftStartedTotal.Inc(ctx)
}

// RecordTransaction counts one persisted transaction row.
func (m *CashdeskMetrics) RecordTransaction(ctx context.Context, txType, currency, category string) {
	if m == nil {
		return
	}
	m.transactionTotal.Inc(ctx,
		AttrTransactionType.String(txType),
		AttrCurrency.String(currency),
		AttrCategory.String(category),
	)
}

// RecordShiftClosed counts a close and its UZS discrepancy.
func (m *CashdeskMetrics) RecordShiftClosed(ctx context.Context, status string, discrepancy decimal.Decimal) {
	if m == nil {
		return
	}
	m.shiftClosedTotal.Inc(ctx, AttrShiftStatus.String(status))
	m.discrepancy.Record(ctx, discrepancy.Abs().InexactFloat64(), AttrShiftStatus.String(status))
}

// RecordReview counts a manager decision.
func (m *CashdeskMetrics) RecordReview(ctx context.Context, outcome ReviewOutcome) {
	if m == nil {
		return
	}
	m.reviewTotal.Inc(ctx, AttrReviewOutcome.String(string(outcome)))
}

// StartPeriodicCollection samples shift counts every interval (default 1m)
// until Stop is called or ctx is done.
func (m *CashdeskMetrics) StartPeriodicCollection(ctx context.Context, interval time.Duration) {
	if m == nil || m.provider == nil {
		return
	}
	m.collectOnce.Do(func() {
		if interval <= 0 {
			interval = time.Minute
		}
		go m.runPeriodicCollection(ctx, interval)
	})
}

func (m *CashdeskMetrics) runPeriodicCollection(ctx context.Context, interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	m.collectShiftCounts(ctx)
	for {
		select {
		case <-m.stopChan:
			return
		case <-ctx.Done():
			return
		case <-ticker.C:
			m.collectShiftCounts(ctx)
		}
	}
}

func (m *CashdeskMetrics) collectShiftCounts(ctx context.Context) {
	counts, err := m.provider.CountShiftsByStatus(ctx)
	if err != nil {
		m.logger.Warn("Failed to collect shift counts", zap.Error(err))
		return
	}
	for status, n := range counts {
		m.shiftsByStatus.Record(ctx, n, AttrShiftStatus.String(status))
	}
}

// Stop ends periodic collection.
func (m *CashdeskMetrics) Stop() {
	if m == nil {
		return
	}
	m.stopOnce.Do(func() { close(m.stopChan) })
}

// ErrMeterNil is returned when no meter is supplied.
var ErrMeterNil = &MetricsError{Op: "NewCashdeskMetrics", Err: "meter cannot be nil"}

// MetricsError describes an instrument setup failure.
type MetricsError struct {
	Op  string
	Err string
}

func (e *MetricsError) Error() string {
	return e.Op + ": " + e.Err
}
