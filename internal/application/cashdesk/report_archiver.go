package cashdesk

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/hotelops/backend/internal/domain/cashdesk"
	"github.com/hotelops/backend/internal/domain/shared"
	"go.uber.org/zap"
)

// ReportStorage is the object store shift reports are archived to
type ReportStorage interface {
	Upload(ctx context.Context, storageKey string, data []byte, contentType string) error
	ObjectExists(ctx context.Context, storageKey string) (bool, error)
	GenerateDownloadURL(ctx context.Context, storageKey string, expiresIn time.Duration) (string, time.Time, error)
}

// ReportKey is the storage key of a shift's archived report
func ReportKey(shiftID uuid.UUID, openedAt time.Time) string {
	return fmt.Sprintf("shift-reports/%04d/%02d/%s.xlsx", openedAt.Year(), int(openedAt.Month()), shiftID)
}

// ShiftReportArchiver uploads the XLSX report of every finally closed shift
type ShiftReportArchiver struct {
	queries *ShiftQueryService
	shifts  cashdesk.CashierShiftRepository
	storage ReportStorage
	logger  *zap.Logger
}

// NewShiftReportArchiver creates a new ShiftReportArchiver
func NewShiftReportArchiver(queries *ShiftQueryService, shifts cashdesk.CashierShiftRepository, storage ReportStorage, logger *zap.Logger) *ShiftReportArchiver {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &ShiftReportArchiver{queries: queries, shifts: shifts, storage: storage, logger: logger}
}

// EventTypes returns the event types this handler is interested in
func (h *ShiftReportArchiver) EventTypes() []string {
	return []string{cashdesk.EventTypeShiftClosed, cashdesk.EventTypeShiftApproved}
}

// Async asks the bus to run the upload off the request path
func (h *ShiftReportArchiver) Async() bool { return true }

// Handle archives the report when the shift reached closed
func (h *ShiftReportArchiver) Handle(ctx context.Context, event shared.DomainEvent) error {
	var shiftID uuid.UUID
	switch e := event.(type) {
	case *cashdesk.ShiftClosedEvent:
		if e.Status != cashdesk.ShiftStatusClosed {
			return nil
		}
		shiftID = e.ShiftID
	case *cashdesk.ShiftApprovedEvent:
		shiftID = e.ShiftID
	default:
		return fmt.Errorf("unexpected event type: %s", event.EventType())
	}

	shift, err := h.shifts.FindByID(ctx, shiftID)
	if err != nil {
		return fmt.Errorf("load shift %s: %w", shiftID, err)
	}
	report, err := h.queries.ExportShiftReport(ctx, shiftID)
	if err != nil {
		return fmt.Errorf("render shift report: %w", err)
	}

	key := ReportKey(shift.ID, shift.OpenedAt)
	if err := h.storage.Upload(ctx, key, report.Content, report.ContentType); err != nil {
		return fmt.Errorf("upload shift report: %w", err)
	}

	h.logger.Info("Shift report archived",
		zap.String("shift_id", shiftID.String()),
		zap.String("storage_key", key),
		zap.Int("bytes", len(report.Content)),
	)
	return nil
}

var _ shared.EventHandler = (*ShiftReportArchiver)(nil)
