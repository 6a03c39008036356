package cashdesk

import (
	"context"
	"errors"
	"testing"

	"github.com/hotelops/backend/internal/domain/cashdesk"
	"github.com/hotelops/backend/internal/domain/shared"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func (p *recordingPublisher) last(eventType string) shared.DomainEvent {
	p.mu.Lock()
	defer p.mu.Unlock()
	for i := len(p.events) - 1; i >= 0; i-- {
		if p.events[i].EventType() == eventType {
			return p.events[i]
		}
	}
	return nil
}

func newArchiver(f *shiftFixture, storage ReportStorage) *ShiftReportArchiver {
	return NewShiftReportArchiver(f.queries, f.repos.Shifts, storage, nil)
}

func TestShiftReportArchiver(t *testing.T) {
	t.Run("uploads the report of a directly closed shift", func(t *testing.T) {
		f := newShiftFixture(t)
		shift := f.scenarioA(t)
		_, err := f.close(shift.ID, "135000", "", line("135000", 1))
		require.NoError(t, err)

		storage := new(mockReportStorage)
		storage.On("Upload", mock.Anything, ReportKey(shift.ID, shift.OpenedAt), mock.AnythingOfType("[]uint8"), XLSXContentType).Return(nil)

		err = newArchiver(f, storage).Handle(context.Background(), f.publisher.last(cashdesk.EventTypeShiftClosed))
		require.NoError(t, err)
		storage.AssertExpectations(t)
	})

	t.Run("skips a close that went to review", func(t *testing.T) {
		f := newShiftFixture(t)
		f.underReview(t)

		storage := new(mockReportStorage)
		err := newArchiver(f, storage).Handle(context.Background(), f.publisher.last(cashdesk.EventTypeShiftClosed))
		require.NoError(t, err)
		storage.AssertNotCalled(t, "Upload", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
	})

	t.Run("uploads after approval", func(t *testing.T) {
		f := newShiftFixture(t)
		shift := f.underReview(t)
		_, err := f.approvals.Approve(context.Background(), ApproveShiftCommand{ShiftID: shift.ID, ManagerID: f.manager})
		require.NoError(t, err)

		storage := new(mockReportStorage)
		storage.On("Upload", mock.Anything, ReportKey(shift.ID, shift.OpenedAt), mock.Anything, XLSXContentType).Return(nil)

		err = newArchiver(f, storage).Handle(context.Background(), f.publisher.last(cashdesk.EventTypeShiftApproved))
		require.NoError(t, err)
		storage.AssertExpectations(t)
	})

	t.Run("returns upload failures", func(t *testing.T) {
		f := newShiftFixture(t)
		shift := f.start(t, "100")
		_, err := f.close(shift.ID, "100", "", line("100", 1))
		require.NoError(t, err)

		storage := new(mockReportStorage)
		storage.On("Upload", mock.Anything, mock.Anything, mock.Anything, mock.Anything).Return(errors.New("bucket gone"))

		err = newArchiver(f, storage).Handle(context.Background(), f.publisher.last(cashdesk.EventTypeShiftClosed))
		assert.ErrorContains(t, err, "bucket gone")
	})

	t.Run("subscribes to close and approval", func(t *testing.T) {
		archiver := newArchiver(newShiftFixture(t), new(mockReportStorage))
		assert.ElementsMatch(t, []string{cashdesk.EventTypeShiftClosed, cashdesk.EventTypeShiftApproved}, archiver.EventTypes())
		assert.True(t, archiver.Async())
	})
}
