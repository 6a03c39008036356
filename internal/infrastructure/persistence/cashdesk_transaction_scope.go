package persistence

import (
	"context"

	appcashdesk "github.com/hotelops/backend/internal/application/cashdesk"
	"github.com/hotelops/backend/internal/domain/cashdesk"
	"gorm.io/gorm"
)

// GormTransactionScope implements TransactionScope using GORM transactions.
// It provides atomic execution of multiple repository operations.
type GormTransactionScope struct {
	db *gorm.DB
}

// NewGormTransactionScope creates a new GormTransactionScope.
func NewGormTransactionScope(db *gorm.DB) *GormTransactionScope {
	return &GormTransactionScope{db: db}
}

// Execute runs the given function within a database transaction.
// If the function returns an error, the transaction is rolled back.
// If the function succeeds, the transaction is committed.
func (s *GormTransactionScope) Execute(ctx context.Context, fn func(repos appcashdesk.TransactionalRepositories) error) error {
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		repos := &gormTransactionalRepositories{tx: tx}
		return fn(repos)
	})
}

// NewCashdeskRepositories returns the cashdesk repositories bound to db
// outside any transaction, for read paths and drawer administration.
func NewCashdeskRepositories(db *gorm.DB) *appcashdesk.Repositories {
	return &appcashdesk.Repositories{
		Drawers:      NewGormCashDrawerRepository(db),
		Shifts:       NewGormCashierShiftRepository(db),
		Transactions: NewGormCashTransactionRepository(db),
		Counts:       NewGormCashCountRepository(db),
		EndSaldos:    NewGormEndSaldoRepository(db),
	}
}

// gormTransactionalRepositories provides access to all repositories within a transaction.
type gormTransactionalRepositories struct {
	tx *gorm.DB
}

// DrawerRepo returns the cash drawer repository scoped to the current transaction.
func (r *gormTransactionalRepositories) DrawerRepo() cashdesk.CashDrawerRepository {
	return NewGormCashDrawerRepository(r.tx)
}

// ShiftRepo returns the cashier shift repository scoped to the current transaction.
func (r *gormTransactionalRepositories) ShiftRepo() cashdesk.CashierShiftRepository {
	return NewGormCashierShiftRepository(r.tx)
}

// TransactionRepo returns the cash transaction repository scoped to the current transaction.
func (r *gormTransactionalRepositories) TransactionRepo() cashdesk.CashTransactionRepository {
	return NewGormCashTransactionRepository(r.tx)
}

// CountRepo returns the cash count repository scoped to the current transaction.
func (r *gormTransactionalRepositories) CountRepo() cashdesk.CashCountRepository {
	return NewGormCashCountRepository(r.tx)
}

// EndSaldoRepo returns the end saldo repository scoped to the current transaction.
func (r *gormTransactionalRepositories) EndSaldoRepo() cashdesk.EndSaldoRepository {
	return NewGormEndSaldoRepository(r.tx)
}

// Ensure GormTransactionScope implements TransactionScope
var _ appcashdesk.TransactionScope = (*GormTransactionScope)(nil)

// Ensure gormTransactionalRepositories implements TransactionalRepositories
var _ appcashdesk.TransactionalRepositories = (*gormTransactionalRepositories)(nil)
