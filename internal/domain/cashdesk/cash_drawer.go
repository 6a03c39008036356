package cashdesk

import (
	"strings"

	"github.com/hotelops/backend/internal/domain/shared"
	"github.com/hotelops/backend/internal/domain/shared/valueobject"
	"github.com/shopspring/decimal"
)

// CashDrawer is a physical cash box at a location. Its balances hold the
// last reconciled amount per currency.
type CashDrawer struct {
	shared.BaseAggregateRoot
	Name     string
	Location string
	IsActive bool
	Balances Balances
}

// NewCashDrawer creates an active drawer with empty balances
func NewCashDrawer(name, location string) (*CashDrawer, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, shared.NewFieldError(shared.CodeValidation, "name", "Drawer name cannot be empty")
	}
	if len(name) > 100 {
		return nil, shared.NewFieldError(shared.CodeValidation, "name", "Drawer name cannot exceed 100 characters")
	}

	return &CashDrawer{
		BaseAggregateRoot: shared.NewBaseAggregateRoot(),
		Name:              name,
		Location:          strings.TrimSpace(location),
		IsActive:          true,
		Balances:          make(Balances),
	}, nil
}

// Update changes the drawer's descriptive fields
func (d *CashDrawer) Update(name, location string) error {
	name = strings.TrimSpace(name)
	if name == "" {
		return shared.NewFieldError(shared.CodeValidation, "name", "Drawer name cannot be empty")
	}
	if len(name) > 100 {
		return shared.NewFieldError(shared.CodeValidation, "name", "Drawer name cannot exceed 100 characters")
	}
	d.Name = name
	d.Location = strings.TrimSpace(location)
	d.Touch()
	return nil
}

// Activate allows shifts to be started on the drawer
func (d *CashDrawer) Activate() {
	if d.IsActive {
		return
	}
	d.IsActive = true
	d.Touch()
}

// Deactivate blocks new shifts on the drawer
func (d *CashDrawer) Deactivate() {
	if !d.IsActive {
		return
	}
	d.IsActive = false
	d.Touch()
}

// Balance returns the drawer balance for a currency
func (d *CashDrawer) Balance(c valueobject.Currency) decimal.Decimal {
	return d.Balances.Get(c)
}

// ReplaceBalances overwrites the balance snapshot in one step
func (d *CashDrawer) ReplaceBalances(balances Balances) {
	d.Balances = balances.Clone()
	d.Touch()
}
