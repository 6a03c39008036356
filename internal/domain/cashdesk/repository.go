package cashdesk

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/hotelops/backend/internal/domain/shared"
	"github.com/hotelops/backend/internal/domain/shared/valueobject"
)

// DrawerFilter narrows drawer listings
type DrawerFilter struct {
	shared.Filter
	IsActive *bool
	Search   string
}

// ShiftFilter narrows shift listings
type ShiftFilter struct {
	shared.Filter
	Status   *ShiftStatus
	DrawerID *uuid.UUID
	UserID   *uuid.UUID
	From     *time.Time // opened_at >= From
	To       *time.Time // opened_at < To
}

// TransactionFilter narrows a shift's ledger listing
type TransactionFilter struct {
	shared.Filter
	ShiftID  uuid.UUID
	Type     *TransactionType
	Currency *valueobject.Currency
	Category *TransactionCategory
}

// CashDrawerRepository persists cash drawers
type CashDrawerRepository interface {
	// FindByID returns the drawer or shared.ErrNotFound
	FindByID(ctx context.Context, id uuid.UUID) (*CashDrawer, error)

	// FindAll lists drawers matching the filter
	FindAll(ctx context.Context, filter DrawerFilter) ([]CashDrawer, error)

	// Count counts drawers matching the filter
	Count(ctx context.Context, filter DrawerFilter) (int64, error)

	// Create inserts a new drawer
	Create(ctx context.Context, drawer *CashDrawer) error

	// SaveWithLock updates a drawer if its version is unchanged since it was
	// loaded, and bumps the version. Returns shared.ErrConcurrencyConflict otherwise.
	SaveWithLock(ctx context.Context, drawer *CashDrawer) error
}

// CashierShiftRepository persists cashier shifts
type CashierShiftRepository interface {
	// FindByID returns the shift or shared.ErrNotFound
	FindByID(ctx context.Context, id uuid.UUID) (*CashierShift, error)

	// FindOpenByUser returns the user's open shift on any drawer, or shared.ErrNotFound
	FindOpenByUser(ctx context.Context, userID uuid.UUID) (*CashierShift, error)

	// ExistsOpenForDrawer reports whether any shift is open on the drawer
	ExistsOpenForDrawer(ctx context.Context, drawerID uuid.UUID) (bool, error)

	// FindAll lists shifts matching the filter
	FindAll(ctx context.Context, filter ShiftFilter) ([]CashierShift, error)

	// Count counts shifts matching the filter
	Count(ctx context.Context, filter ShiftFilter) (int64, error)

	// Create inserts a new shift. A second open shift for the same user is
	// rejected by the store with ErrShiftAlreadyOpen.
	Create(ctx context.Context, shift *CashierShift) error

	// SaveWithLock updates a shift with an optimistic version check and bumps
	// the version. Reopening into a second open shift yields ErrShiftAlreadyOpen.
	SaveWithLock(ctx context.Context, shift *CashierShift) error
}

// CashTransactionRepository persists ledger rows
type CashTransactionRepository interface {
	// FindByID returns the row or shared.ErrNotFound
	FindByID(ctx context.Context, id uuid.UUID) (*CashTransaction, error)

	// FindByShift returns every row of a shift ordered by occurrence
	FindByShift(ctx context.Context, shiftID uuid.UUID) ([]CashTransaction, error)

	// FindAll lists a shift's rows matching the filter
	FindAll(ctx context.Context, filter TransactionFilter) ([]CashTransaction, error)

	// Count counts a shift's rows matching the filter
	Count(ctx context.Context, filter TransactionFilter) (int64, error)

	// CreateBatch inserts rows in order
	CreateBatch(ctx context.Context, txs []CashTransaction) error
}

// CashCountRepository persists denomination counts
type CashCountRepository interface {
	// FindByShift returns the counts of a shift, oldest first
	FindByShift(ctx context.Context, shiftID uuid.UUID) ([]CashCount, error)

	// Create inserts a count
	Create(ctx context.Context, count *CashCount) error
}

// EndSaldoRepository persists per-currency closing balances
type EndSaldoRepository interface {
	// FindByShift returns the shift's rows
	FindByShift(ctx context.Context, shiftID uuid.UUID) ([]EndSaldo, error)

	// SaveAll inserts new rows and updates existing ones by id
	SaveAll(ctx context.Context, rows []EndSaldo) error
}
