package cashdesk

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/hotelops/backend/internal/domain/cashdesk"
	"github.com/hotelops/backend/internal/domain/shared"
	"github.com/hotelops/backend/internal/domain/shared/valueobject"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// underReview runs scenario A and closes it 2000 over
func (f *shiftFixture) underReview(t *testing.T) *ShiftResponse {
	t.Helper()
	shift := f.scenarioA(t)
	closed, err := f.close(shift.ID, "137000", "found extra notes", line("137000", 1))
	require.NoError(t, err)
	require.Equal(t, "under_review", closed.Status)
	return closed
}

func (f *shiftFixture) drawerBalance(t *testing.T, currency string) decimal.Decimal {
	t.Helper()
	drawer, err := f.repos.Drawers.FindByID(context.Background(), f.drawer.ID)
	require.NoError(t, err)
	return drawer.Balances.Get(valueobject.Currency(currency))
}

func TestApprovalService_Approve(t *testing.T) {
	t.Run("closes the shift and sets the drawer to the counted amount", func(t *testing.T) {
		f := newShiftFixture(t)
		shift := f.underReview(t)

		approved, err := f.approvals.Approve(context.Background(), ApproveShiftCommand{
			ShiftID: shift.ID, ManagerID: f.manager, Notes: "ok",
		})
		require.NoError(t, err)
		assert.Equal(t, "closed", approved.Status)
		require.NotNil(t, approved.ApprovedBy)
		assert.Equal(t, f.manager, *approved.ApprovedBy)
		assert.Equal(t, "ok", approved.ApprovalNotes)
		assert.True(t, f.drawerBalance(t, "UZS").Equal(dec("137000")))
		assert.Contains(t, f.publisher.types(), cashdesk.EventTypeShiftApproved)
	})

	t.Run("open shift cannot be approved", func(t *testing.T) {
		f := newShiftFixture(t)
		shift := f.start(t, "0")

		_, err := f.approvals.Approve(context.Background(), ApproveShiftCommand{ShiftID: shift.ID, ManagerID: f.manager})
		requireCode(t, err, cashdesk.CodeShiftNotUnderReview)
	})

	t.Run("unknown shift", func(t *testing.T) {
		f := newShiftFixture(t)
		_, err := f.approvals.Approve(context.Background(), ApproveShiftCommand{ShiftID: uuid.New(), ManagerID: f.manager})
		assert.ErrorIs(t, err, shared.ErrNotFound)
	})
}

func TestApprovalService_Reject(t *testing.T) {
	t.Run("reopens the shift for a recount", func(t *testing.T) {
		f := newShiftFixture(t)
		shift := f.underReview(t)

		rejected, err := f.approvals.Reject(context.Background(), RejectShiftCommand{
			ShiftID: shift.ID, ManagerID: f.manager, Reason: "recount the 5000 notes",
		})
		require.NoError(t, err)
		assert.Equal(t, "open", rejected.Status)
		assert.Nil(t, rejected.CountedEndSaldo)
		assert.Nil(t, rejected.ClosedAt)
		assert.Equal(t, "recount the 5000 notes", rejected.RejectionReason)

		// the recount overwrites the end saldo rows of the first close
		closed, err := f.close(shift.ID, "135000", "", line("100000", 1), line("5000", 7))
		require.NoError(t, err)
		assert.Equal(t, "closed", closed.Status)

		detail, err := f.queries.GetShift(context.Background(), shift.ID)
		require.NoError(t, err)
		require.Len(t, detail.EndSaldos, 1)
		assert.True(t, detail.EndSaldos[0].CountedEndSaldo.Equal(dec("135000")))
		assert.Len(t, detail.CashCounts, 2)
	})

	t.Run("reason is required", func(t *testing.T) {
		f := newShiftFixture(t)
		shift := f.underReview(t)

		_, err := f.approvals.Reject(context.Background(), RejectShiftCommand{ShiftID: shift.ID, ManagerID: f.manager})
		domainErr := requireCode(t, err, shared.CodeValidation)
		assert.Contains(t, domainErr.Fields, "reason")
	})

	t.Run("blocked while the cashier has another open shift", func(t *testing.T) {
		f := newShiftFixture(t)
		shift := f.underReview(t)
		f.start(t, "0")

		_, err := f.approvals.Reject(context.Background(), RejectShiftCommand{
			ShiftID: shift.ID, ManagerID: f.manager, Reason: "recount",
		})
		requireCode(t, err, cashdesk.CodeShiftAlreadyOpen)

		stored, err := f.repos.Shifts.FindByID(context.Background(), shift.ID)
		require.NoError(t, err)
		assert.Equal(t, cashdesk.ShiftStatusUnderReview, stored.Status)
	})
}

func TestApprovalService_ApproveWithAdjustment(t *testing.T) {
	t.Run("overrides the counted amount and rebuilds the drawer", func(t *testing.T) {
		f := newShiftFixture(t)
		shift := f.underReview(t)

		adjusted, err := f.approvals.ApproveWithAdjustment(context.Background(), AdjustShiftCommand{
			ShiftID:         shift.ID,
			ManagerID:       f.manager,
			AdjustedAmounts: map[string]decimal.Decimal{"UZS": dec("135000"), "USD": dec("5")},
			Reason:          "miscounted",
		})
		require.NoError(t, err)
		assert.Equal(t, "closed", adjusted.Status)
		assert.True(t, adjusted.CountedEndSaldo.Equal(dec("135000")))
		assert.True(t, adjusted.Discrepancy.IsZero())
		assert.Contains(t, adjusted.ApprovalNotes, "miscounted")

		assert.True(t, f.drawerBalance(t, "UZS").Equal(dec("135000")))
		assert.True(t, f.drawerBalance(t, "USD").Equal(dec("5")))

		detail, err := f.queries.GetShift(context.Background(), shift.ID)
		require.NoError(t, err)
		require.Len(t, detail.EndSaldos, 2)
		for _, row := range detail.EndSaldos {
			require.NotNil(t, row.AdjustedBy)
			assert.Equal(t, f.manager, *row.AdjustedBy)
			assert.Equal(t, "miscounted", row.AdjustmentReason)
		}
	})

	t.Run("unknown currency fails validation", func(t *testing.T) {
		f := newShiftFixture(t)
		shift := f.underReview(t)

		_, err := f.approvals.ApproveWithAdjustment(context.Background(), AdjustShiftCommand{
			ShiftID:         shift.ID,
			ManagerID:       f.manager,
			AdjustedAmounts: map[string]decimal.Decimal{"XYZ": dec("1")},
			Reason:          "typo",
		})
		requireCode(t, err, shared.CodeValidation)
	})

	t.Run("closed shift cannot be adjusted", func(t *testing.T) {
		f := newShiftFixture(t)
		shift := f.scenarioA(t)
		_, err := f.close(shift.ID, "135000", "", line("135000", 1))
		require.NoError(t, err)

		_, err = f.approvals.ApproveWithAdjustment(context.Background(), AdjustShiftCommand{
			ShiftID:         shift.ID,
			ManagerID:       f.manager,
			AdjustedAmounts: map[string]decimal.Decimal{"UZS": dec("1")},
			Reason:          "late",
		})
		requireCode(t, err, cashdesk.CodeShiftNotUnderReview)
	})
}
