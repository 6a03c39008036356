package cashdesk

import (
	"context"

	"github.com/hotelops/backend/internal/domain/cashdesk"
	"github.com/hotelops/backend/internal/domain/shared"
	"github.com/hotelops/backend/internal/infrastructure/telemetry"
)

// ShiftMetricsHandler turns committed shift events into business metrics
type ShiftMetricsHandler struct {
	metrics *telemetry.CashdeskMetrics
}

// NewShiftMetricsHandler creates a new ShiftMetricsHandler
func NewShiftMetricsHandler(metrics *telemetry.CashdeskMetrics) *ShiftMetricsHandler {
	return &ShiftMetricsHandler{metrics: metrics}
}

// EventTypes returns the event types this handler is interested in
func (h *ShiftMetricsHandler) EventTypes() []string {
	return []string{
		cashdesk.EventTypeShiftStarted,
		cashdesk.EventTypeTransactionRecorded,
		cashdesk.EventTypeShiftClosed,
		cashdesk.EventTypeShiftApproved,
		cashdesk.EventTypeShiftRejected,
	}
}

// Handle records the event. Unknown events are ignored.
func (h *ShiftMetricsHandler) Handle(ctx context.Context, event shared.DomainEvent) error {
	switch e := event.(type) {
	case *cashdesk.ShiftStartedEvent:
		h.metrics.RecordShiftStarted(ctx)
	case *cashdesk.TransactionRecordedEvent:
		h.metrics.RecordTransaction(ctx, e.Type.String(), e.Currency.String(), e.Category.String())
	case *cashdesk.ShiftClosedEvent:
		h.metrics.RecordShiftClosed(ctx, e.Status.String(), e.Discrepancy)
	case *cashdesk.ShiftApprovedEvent:
		outcome := telemetry.ReviewApproved
		if e.Adjusted {
			outcome = telemetry.ReviewAdjusted
		}
		h.metrics.RecordReview(ctx, outcome)
	case *cashdesk.ShiftRejectedEvent:
		h.metrics.RecordReview(ctx, telemetry.ReviewRejected)
	}
	return nil
}

var _ shared.EventHandler = (*ShiftMetricsHandler)(nil)
