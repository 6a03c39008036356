package cashdesk

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/hotelops/backend/internal/domain/cashdesk"
	"github.com/hotelops/backend/internal/domain/shared"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func dec(s string) decimal.Decimal {
	return decimal.RequireFromString(s)
}

func decPtr(s string) *decimal.Decimal {
	d := dec(s)
	return &d
}

type shiftFixture struct {
	store     *memStore
	repos     *Repositories
	shifts    *ShiftService
	approvals *ApprovalService
	queries   *ShiftQueryService
	publisher *recordingPublisher
	drawer    *cashdesk.CashDrawer
	cashier   uuid.UUID
	manager   uuid.UUID
}

func newShiftFixture(t *testing.T) *shiftFixture {
	t.Helper()
	store := newMemStore()
	repos := store.repositories()
	publisher := &recordingPublisher{}

	drawer, err := cashdesk.NewCashDrawer("Front Desk", "Lobby")
	require.NoError(t, err)
	require.NoError(t, repos.Drawers.Create(context.Background(), drawer))

	shifts := NewShiftService(repos, nil)
	shifts.SetEventPublisher(publisher)
	approvals := NewApprovalService(repos, nil)
	approvals.SetEventPublisher(publisher)

	return &shiftFixture{
		store:     store,
		repos:     repos,
		shifts:    shifts,
		approvals: approvals,
		queries:   NewShiftQueryService(repos, nil),
		publisher: publisher,
		drawer:    drawer,
		cashier:   uuid.New(),
		manager:   uuid.New(),
	}
}

func (f *shiftFixture) start(t *testing.T, beginning string) *ShiftResponse {
	t.Helper()
	shift, err := f.shifts.StartShift(context.Background(), StartShiftCommand{
		DrawerID:       f.drawer.ID,
		UserID:         f.cashier,
		BeginningSaldo: decPtr(beginning),
	})
	require.NoError(t, err)
	return shift
}

func (f *shiftFixture) record(t *testing.T, shiftID uuid.UUID, cmd RecordTransactionCommand) *TransactionResponse {
	t.Helper()
	cmd.ShiftID = shiftID
	cmd.UserID = f.cashier
	tx, err := f.shifts.RecordTransaction(context.Background(), cmd)
	require.NoError(t, err)
	return tx
}

// scenarioA opens a shift with 100000 and records a sale of 50000 and an
// expense of 15000
func (f *shiftFixture) scenarioA(t *testing.T) *ShiftResponse {
	t.Helper()
	shift := f.start(t, "100000")
	f.record(t, shift.ID, RecordTransactionCommand{Type: "in", Amount: dec("50000"), Currency: "UZS", Category: "sale"})
	f.record(t, shift.ID, RecordTransactionCommand{Type: "out", Amount: dec("15000"), Currency: "UZS", Category: "expense"})
	return shift
}

func (f *shiftFixture) close(shiftID uuid.UUID, counted string, reason string, lines ...DenominationInput) (*ShiftResponse, error) {
	return f.shifts.CloseShift(context.Background(), CloseShiftCommand{
		ShiftID:           shiftID,
		UserID:            f.cashier,
		CountedEndSaldo:   decPtr(counted),
		Denominations:     lines,
		DiscrepancyReason: reason,
	})
}

func line(value string, qty int) DenominationInput {
	return DenominationInput{Denomination: dec(value), Quantity: qty}
}

func requireCode(t *testing.T, err error, code string) *shared.DomainError {
	t.Helper()
	require.Error(t, err)
	var domainErr *shared.DomainError
	require.True(t, errors.As(err, &domainErr), "expected DomainError, got %T: %v", err, err)
	assert.Equal(t, code, domainErr.Code)
	return domainErr
}

func TestShiftService_StartShift(t *testing.T) {
	t.Run("opens a shift with expected equal to beginning", func(t *testing.T) {
		f := newShiftFixture(t)
		shift := f.start(t, "100000")

		assert.Equal(t, "open", shift.Status)
		assert.True(t, shift.ExpectedEndSaldo.Equal(dec("100000")))
		assert.Equal(t, f.drawer.ID, shift.DrawerID)
		assert.Equal(t, []string{cashdesk.EventTypeShiftStarted}, f.publisher.types())
	})

	t.Run("second start names the drawer of the open shift", func(t *testing.T) {
		f := newShiftFixture(t)
		f.start(t, "100000")

		other, err := cashdesk.NewCashDrawer("Bar", "Restaurant")
		require.NoError(t, err)
		require.NoError(t, f.repos.Drawers.Create(context.Background(), other))

		_, err = f.shifts.StartShift(context.Background(), StartShiftCommand{
			DrawerID: other.ID, UserID: f.cashier, BeginningSaldo: decPtr("0"),
		})
		domainErr := requireCode(t, err, cashdesk.CodeShiftAlreadyOpen)
		assert.Contains(t, domainErr.Message, "Front Desk")
		assert.Equal(t, 1, f.store.shiftRows())
	})

	t.Run("inactive drawer is refused", func(t *testing.T) {
		f := newShiftFixture(t)
		_, err := NewDrawerService(f.repos, f.repos, nil).DeactivateDrawer(context.Background(), f.drawer.ID)
		require.NoError(t, err)

		_, err = f.shifts.StartShift(context.Background(), StartShiftCommand{
			DrawerID: f.drawer.ID, UserID: f.cashier, BeginningSaldo: decPtr("10"),
		})
		requireCode(t, err, cashdesk.CodeDrawerInactive)
	})

	t.Run("unknown drawer", func(t *testing.T) {
		f := newShiftFixture(t)
		_, err := f.shifts.StartShift(context.Background(), StartShiftCommand{
			DrawerID: uuid.New(), UserID: f.cashier, BeginningSaldo: decPtr("10"),
		})
		assert.ErrorIs(t, err, shared.ErrNotFound)
	})

	t.Run("negative beginning saldo fails validation before any write", func(t *testing.T) {
		f := newShiftFixture(t)
		_, err := f.shifts.StartShift(context.Background(), StartShiftCommand{
			DrawerID: f.drawer.ID, UserID: f.cashier, BeginningSaldo: decPtr("-1"),
		})
		domainErr := requireCode(t, err, shared.CodeValidation)
		assert.Contains(t, domainErr.Fields, "beginning_saldo")
		assert.Equal(t, 0, f.store.shiftRows())
	})
}

type fakeLocker struct {
	held     map[string]bool
	released []string
}

func (l *fakeLocker) Lock(_ context.Context, key string, _ time.Duration) (func(context.Context) error, error) {
	if l.held[key] {
		return nil, shared.ErrConcurrencyConflict
	}
	return func(context.Context) error {
		l.released = append(l.released, key)
		return nil
	}, nil
}

func TestShiftService_StartShiftLocking(t *testing.T) {
	t.Run("lock is released after start", func(t *testing.T) {
		f := newShiftFixture(t)
		locker := &fakeLocker{}
		f.shifts.SetLocker(locker)

		f.start(t, "0")
		assert.Equal(t, []string{startShiftLockKey(f.cashier.String())}, locker.released)
	})

	t.Run("held lock refuses a concurrent start", func(t *testing.T) {
		f := newShiftFixture(t)
		f.shifts.SetLocker(&fakeLocker{held: map[string]bool{startShiftLockKey(f.cashier.String()): true}})

		_, err := f.shifts.StartShift(context.Background(), StartShiftCommand{
			DrawerID: f.drawer.ID, UserID: f.cashier, BeginningSaldo: decPtr("0"),
		})
		requireCode(t, err, shared.CodeConcurrencyConflict)
		assert.Equal(t, 0, f.store.shiftRows())
	})
}

func TestShiftService_RecordTransaction(t *testing.T) {
	t.Run("scenario A expected end saldo", func(t *testing.T) {
		f := newShiftFixture(t)
		shift := f.scenarioA(t)

		detail, err := f.queries.GetShift(context.Background(), shift.ID)
		require.NoError(t, err)
		assert.True(t, detail.ExpectedEndSaldo.Equal(dec("135000")), "got %s", detail.ExpectedEndSaldo)
		assert.Len(t, detail.Transactions, 2)
	})

	t.Run("scenario D exchange yields two legs", func(t *testing.T) {
		f := newShiftFixture(t)
		shift := f.start(t, "500000")

		primary := f.record(t, shift.ID, RecordTransactionCommand{
			Type: "in_out", Amount: dec("30"), Currency: "USD",
			OutCurrency: "UZS", OutAmount: decPtr("300000"), Reference: "EX-1",
		})
		assert.Equal(t, "in_out", primary.Type)
		assert.Equal(t, "USD", primary.Currency)
		assert.Contains(t, primary.Notes, cashdesk.ComplexPart1Suffix)

		detail, err := f.queries.GetShift(context.Background(), shift.ID)
		require.NoError(t, err)
		require.Len(t, detail.Transactions, 2)
		second := detail.Transactions[1]
		assert.Equal(t, "out", second.Type)
		assert.Equal(t, "UZS", second.Currency)
		assert.True(t, second.Amount.Equal(dec("300000")))
		assert.Equal(t, "change", second.Category)
		assert.Equal(t, "EX-1", second.Reference)
		assert.Contains(t, second.Notes, cashdesk.ComplexPart2Suffix)

		assert.True(t, detail.ExpectedEndSaldo.Equal(dec("200000")))
		assert.True(t, detail.ExpectedBalances["USD"].Equal(dec("30")))
	})

	t.Run("exchange without out fields names both", func(t *testing.T) {
		f := newShiftFixture(t)
		shift := f.start(t, "0")

		_, err := f.shifts.RecordTransaction(context.Background(), RecordTransactionCommand{
			ShiftID: shift.ID, UserID: f.cashier, Type: "in_out", Amount: dec("30"), Currency: "USD",
		})
		domainErr := requireCode(t, err, shared.CodeValidation)
		assert.Contains(t, domainErr.Fields, "out_currency")
		assert.Contains(t, domainErr.Fields, "out_amount")
		assert.Equal(t, 0, f.store.transactionRows())
	})

	t.Run("invalid input", func(t *testing.T) {
		f := newShiftFixture(t)
		shift := f.start(t, "0")

		tests := []struct {
			name  string
			cmd   RecordTransactionCommand
			field string
		}{
			{"zero amount", RecordTransactionCommand{Type: "in", Amount: dec("0"), Currency: "UZS"}, "amount"},
			{"unknown type", RecordTransactionCommand{Type: "transfer", Amount: dec("1"), Currency: "UZS"}, "type"},
			{"unknown currency", RecordTransactionCommand{Type: "in", Amount: dec("1"), Currency: "GBP"}, "currency"},
			{"unknown category", RecordTransactionCommand{Type: "in", Amount: dec("1"), Currency: "UZS", Category: "tips"}, "category"},
		}
		for _, tt := range tests {
			t.Run(tt.name, func(t *testing.T) {
				tt.cmd.ShiftID = shift.ID
				tt.cmd.UserID = f.cashier
				_, err := f.shifts.RecordTransaction(context.Background(), tt.cmd)
				domainErr := requireCode(t, err, shared.CodeValidation)
				assert.Contains(t, domainErr.Fields, tt.field)
			})
		}
	})

	t.Run("another cashier cannot record on the shift", func(t *testing.T) {
		f := newShiftFixture(t)
		shift := f.start(t, "0")

		_, err := f.shifts.RecordTransaction(context.Background(), RecordTransactionCommand{
			ShiftID: shift.ID, UserID: uuid.New(), Type: "in", Amount: dec("1"), Currency: "UZS",
		})
		requireCode(t, err, shared.CodeForbidden)
	})

	t.Run("closed shift rejects transactions", func(t *testing.T) {
		f := newShiftFixture(t)
		shift := f.start(t, "100")
		_, err := f.close(shift.ID, "100", "", line("100", 1))
		require.NoError(t, err)

		_, err = f.shifts.RecordTransaction(context.Background(), RecordTransactionCommand{
			ShiftID: shift.ID, UserID: f.cashier, Type: "in", Amount: dec("1"), Currency: "UZS",
		})
		requireCode(t, err, cashdesk.CodeShiftNotOpen)
	})

	t.Run("repeated idempotency key is rejected and failures release the key", func(t *testing.T) {
		f := newShiftFixture(t)
		store := newMemIdempotency()
		f.shifts.SetIdempotencyStore(store, 0)
		shift := f.start(t, "0")

		cmd := RecordTransactionCommand{
			ShiftID: shift.ID, UserID: f.cashier, IdempotencyKey: "k-1",
			Type: "in", Amount: dec("10"), Currency: "UZS",
		}
		_, err := f.shifts.RecordTransaction(context.Background(), cmd)
		require.NoError(t, err)
		_, err = f.shifts.RecordTransaction(context.Background(), cmd)
		requireCode(t, err, cashdesk.CodeDuplicateRequest)
		assert.Equal(t, 1, f.store.transactionRows())

		foreign := cmd
		foreign.IdempotencyKey = "k-2"
		foreign.UserID = uuid.New()
		_, err = f.shifts.RecordTransaction(context.Background(), foreign)
		requireCode(t, err, shared.CodeForbidden)
		processed, _ := store.IsProcessed(context.Background(), f.shifts.idempotencyKey(foreign))
		assert.False(t, processed)
	})
}

func TestShiftService_CloseShift(t *testing.T) {
	t.Run("scenario B exact count closes directly", func(t *testing.T) {
		f := newShiftFixture(t)
		shift := f.scenarioA(t)

		closed, err := f.close(shift.ID, "135000", "", line("100000", 1), line("5000", 7))
		require.NoError(t, err)
		assert.Equal(t, "closed", closed.Status)
		require.NotNil(t, closed.Discrepancy)
		assert.True(t, closed.Discrepancy.IsZero())
		require.NotNil(t, closed.ClosedAt)

		detail, err := f.queries.GetShift(context.Background(), shift.ID)
		require.NoError(t, err)
		require.Len(t, detail.CashCounts, 1)
		assert.True(t, detail.CashCounts[0].Total.Equal(dec("135000")))

		drawer, err := f.repos.Drawers.FindByID(context.Background(), f.drawer.ID)
		require.NoError(t, err)
		assert.True(t, drawer.Balances.Get("UZS").Equal(dec("135000")))
	})

	t.Run("scenario C discrepancy without reason leaves the shift untouched", func(t *testing.T) {
		f := newShiftFixture(t)
		shift := f.scenarioA(t)

		_, err := f.close(shift.ID, "137000", "", line("137000", 1))
		requireCode(t, err, cashdesk.CodeDiscrepancyReasonRequired)

		stored, err := f.repos.Shifts.FindByID(context.Background(), shift.ID)
		require.NoError(t, err)
		assert.Equal(t, cashdesk.ShiftStatusOpen, stored.Status)
		assert.Nil(t, stored.CountedEndSaldo)
		assert.Equal(t, 0, f.store.countRows())
	})

	t.Run("discrepancy with reason goes to review and leaves the drawer alone", func(t *testing.T) {
		f := newShiftFixture(t)
		shift := f.scenarioA(t)

		closed, err := f.close(shift.ID, "137000", "found extra notes", line("137000", 1))
		require.NoError(t, err)
		assert.Equal(t, "under_review", closed.Status)
		assert.True(t, closed.Discrepancy.Equal(dec("2000")))

		drawer, err := f.repos.Drawers.FindByID(context.Background(), f.drawer.ID)
		require.NoError(t, err)
		assert.Empty(t, drawer.Balances)
	})

	t.Run("denominations must match the counted amount", func(t *testing.T) {
		f := newShiftFixture(t)
		shift := f.scenarioA(t)

		_, err := f.close(shift.ID, "135000", "", line("100000", 1))
		requireCode(t, err, cashdesk.CodeDenominationMismatch)
		assert.Equal(t, 0, f.store.countRows())
	})

	t.Run("tiny denomination fails validation", func(t *testing.T) {
		f := newShiftFixture(t)
		shift := f.start(t, "0")

		_, err := f.close(shift.ID, "0.01", "", line("0.01", 1))
		domainErr := requireCode(t, err, shared.CodeValidation)
		assert.Contains(t, domainErr.Fields, "denominations[0].denomination")
	})

	t.Run("closing twice", func(t *testing.T) {
		f := newShiftFixture(t)
		shift := f.start(t, "100")
		_, err := f.close(shift.ID, "100", "", line("100", 1))
		require.NoError(t, err)

		_, err = f.close(shift.ID, "100", "", line("100", 1))
		requireCode(t, err, cashdesk.CodeShiftAlreadyClosed)
	})

	t.Run("counted balances of other currencies", func(t *testing.T) {
		f := newShiftFixture(t)
		shift := f.start(t, "0")
		f.record(t, shift.ID, RecordTransactionCommand{Type: "in", Amount: dec("100"), Currency: "USD"})

		closed, err := f.shifts.CloseShift(context.Background(), CloseShiftCommand{
			ShiftID:           shift.ID,
			UserID:            f.cashier,
			CountedEndSaldo:   decPtr("0"),
			Denominations:     []DenominationInput{line("1000", 0)},
			CountedBalances:   map[string]decimal.Decimal{"USD": dec("90")},
			DiscrepancyReason: "short ten dollars",
		})
		require.NoError(t, err)
		assert.Equal(t, "under_review", closed.Status)

		detail, err := f.queries.GetShift(context.Background(), shift.ID)
		require.NoError(t, err)
		require.Len(t, detail.EndSaldos, 2)
		assert.Equal(t, "UZS", detail.EndSaldos[0].Currency)
		assert.Equal(t, "USD", detail.EndSaldos[1].Currency)
		assert.True(t, detail.EndSaldos[1].Discrepancy.Equal(dec("-10")))
	})
}
