package cashdesk

import (
	"context"

	"github.com/hotelops/backend/internal/domain/cashdesk"
)

// TransactionScope runs a unit of work against repositories that share one
// database transaction. An error returned from fn rolls everything back.
type TransactionScope interface {
	Execute(ctx context.Context, fn func(repos TransactionalRepositories) error) error
}

// TransactionalRepositories exposes every cashdesk repository bound to the
// current transaction.
//
// The shift aggregate owns its ledger rows, counts and end saldos; they have
// separate repositories only because they are stored in separate tables.
type TransactionalRepositories interface {
	DrawerRepo() cashdesk.CashDrawerRepository
	ShiftRepo() cashdesk.CashierShiftRepository
	TransactionRepo() cashdesk.CashTransactionRepository
	CountRepo() cashdesk.CashCountRepository
	EndSaldoRepo() cashdesk.EndSaldoRepository
}

// Repositories is a plain set of repositories. As a TransactionScope it
// runs fn without a database transaction, which suits tests with fakes.
type Repositories struct {
	Drawers      cashdesk.CashDrawerRepository
	Shifts       cashdesk.CashierShiftRepository
	Transactions cashdesk.CashTransactionRepository
	Counts       cashdesk.CashCountRepository
	EndSaldos    cashdesk.EndSaldoRepository
}

// Execute calls fn with the repositories as they are.
func (r *Repositories) Execute(_ context.Context, fn func(repos TransactionalRepositories) error) error {
	return fn(r)
}

func (r *Repositories) DrawerRepo() cashdesk.CashDrawerRepository           { return r.Drawers }
func (r *Repositories) ShiftRepo() cashdesk.CashierShiftRepository          { return r.Shifts }
func (r *Repositories) TransactionRepo() cashdesk.CashTransactionRepository { return r.Transactions }
func (r *Repositories) CountRepo() cashdesk.CashCountRepository             { return r.Counts }
func (r *Repositories) EndSaldoRepo() cashdesk.EndSaldoRepository           { return r.EndSaldos }

var (
	_ TransactionScope          = (*Repositories)(nil)
	_ TransactionalRepositories = (*Repositories)(nil)
)
