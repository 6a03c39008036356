package cashdesk

import (
	"sort"

	"github.com/hotelops/backend/internal/domain/shared/valueobject"
	"github.com/shopspring/decimal"
)

// DefaultTolerance is the absolute difference treated as "no discrepancy"
var DefaultTolerance = decimal.New(1, -2)

// Balances maps a currency to an amount
type Balances map[valueobject.Currency]decimal.Decimal

// Get returns the amount for a currency, zero when absent
func (b Balances) Get(c valueobject.Currency) decimal.Decimal {
	if amount, ok := b[c]; ok {
		return amount
	}
	return decimal.Zero
}

// Add adds amount to the currency's balance
func (b Balances) Add(c valueobject.Currency, amount decimal.Decimal) {
	b[c] = b.Get(c).Add(amount)
}

// Currencies returns the keys in display order, unknown codes last
func (b Balances) Currencies() []valueobject.Currency {
	order := make(map[valueobject.Currency]int)
	for i, c := range valueobject.AllCurrencies() {
		order[c] = i
	}
	keys := make([]valueobject.Currency, 0, len(b))
	for c := range b {
		keys = append(keys, c)
	}
	sort.Slice(keys, func(i, j int) bool {
		oi, iok := order[keys[i]]
		oj, jok := order[keys[j]]
		switch {
		case iok && jok:
			return oi < oj
		case iok != jok:
			return iok
		default:
			return keys[i] < keys[j]
		}
	})
	return keys
}

// Clone returns an independent copy
func (b Balances) Clone() Balances {
	out := make(Balances, len(b))
	for c, amount := range b {
		out[c] = amount
	}
	return out
}

// Equal compares amounts by value
func (b Balances) Equal(other Balances) bool {
	if len(b) != len(other) {
		return false
	}
	for c, amount := range b {
		o, ok := other[c]
		if !ok || !o.Equal(amount) {
			return false
		}
	}
	return true
}

// ExpectedBalances folds a shift's ledger rows into per-currency expected
// balances. The beginning saldo is held in the primary currency. The result
// does not depend on the order of txs.
func ExpectedBalances(beginningSaldo decimal.Decimal, txs []CashTransaction) Balances {
	balances := Balances{valueobject.PrimaryCurrency: beginningSaldo}
	for _, tx := range txs {
		balances.Add(tx.Currency, tx.SignedAmount())
	}
	return balances
}

// BalancesFromEndSaldos reduces a shift's end-saldo rows into the drawer
// snapshot: one counted amount per currency.
func BalancesFromEndSaldos(rows []EndSaldo) Balances {
	balances := make(Balances, len(rows))
	for _, row := range rows {
		balances[row.Currency] = row.CountedEndSaldo
	}
	return balances
}

// exceedsTolerance reports |amount| > tolerance
func exceedsTolerance(amount, tolerance decimal.Decimal) bool {
	return amount.Abs().GreaterThan(tolerance)
}
