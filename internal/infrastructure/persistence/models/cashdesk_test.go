package models

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/hotelops/backend/internal/domain/cashdesk"
	"github.com/hotelops/backend/internal/domain/shared/valueobject"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCashdeskModels_TableNames(t *testing.T) {
	assert.Equal(t, "cash_drawers", CashDrawerModel{}.TableName())
	assert.Equal(t, "cashier_shifts", CashierShiftModel{}.TableName())
	assert.Equal(t, "cash_transactions", CashTransactionModel{}.TableName())
	assert.Equal(t, "cash_counts", CashCountModel{}.TableName())
	assert.Equal(t, "end_saldos", EndSaldoModel{}.TableName())
}

func TestCashDrawerModel_Balances(t *testing.T) {
	drawer, err := cashdesk.NewCashDrawer("Front Desk", "Lobby")
	require.NoError(t, err)
	drawer.ReplaceBalances(cashdesk.Balances{
		valueobject.UZS: decimal.RequireFromString("135000.50"),
		valueobject.USD: decimal.NewFromInt(30),
	})

	model := CashDrawerModelFromDomain(drawer)
	assert.JSONEq(t, `{"UZS":"135000.5","USD":"30"}`, model.BalancesJSON)

	back := model.ToDomain()
	assert.Equal(t, drawer.ID, back.ID)
	assert.Equal(t, drawer.Version, back.Version)
	assert.True(t, back.Balances.Equal(drawer.Balances))

	t.Run("empty and corrupt balances decode to empty map", func(t *testing.T) {
		model.BalancesJSON = "{}"
		assert.Empty(t, model.ToDomain().Balances)
		model.BalancesJSON = "not json"
		assert.NotNil(t, model.ToDomain().Balances)
	})
}

func TestCashierShiftModel_RoundTrip(t *testing.T) {
	drawer, err := cashdesk.NewCashDrawer("Front Desk", "")
	require.NoError(t, err)
	shift, err := cashdesk.NewCashierShift(drawer, uuid.New(), decimal.NewFromInt(100000), "morning")
	require.NoError(t, err)
	counted := decimal.NewFromInt(137000)
	diff := decimal.NewFromInt(2000)
	closedAt := time.Now()
	shift.CountedEndSaldo = &counted
	shift.Discrepancy = &diff
	shift.ClosedAt = &closedAt
	shift.Status = cashdesk.ShiftStatusUnderReview

	back := CashierShiftModelFromDomain(shift).ToDomain()
	assert.Equal(t, shift.ID, back.ID)
	assert.Equal(t, shift.DrawerID, back.DrawerID)
	assert.Equal(t, shift.UserID, back.UserID)
	assert.Equal(t, cashdesk.ShiftStatusUnderReview, back.Status)
	assert.True(t, back.CountedEndSaldo.Equal(counted))
	assert.Equal(t, "morning", back.Notes)
	assert.Empty(t, back.GetDomainEvents())
}

func TestCashTransactionModel_OutCurrency(t *testing.T) {
	outAmount := decimal.NewFromInt(300000)
	tx := &cashdesk.CashTransaction{
		ShiftID:     uuid.New(),
		Type:        cashdesk.TransactionTypeInOut,
		Amount:      decimal.NewFromInt(30),
		Currency:    valueobject.USD,
		OutCurrency: valueobject.UZS,
		OutAmount:   &outAmount,
	}
	model := CashTransactionModelFromDomain(tx)
	require.NotNil(t, model.OutCurrency)
	assert.Equal(t, valueobject.UZS, *model.OutCurrency)
	assert.Equal(t, valueobject.UZS, model.ToDomain().OutCurrency)

	tx.OutCurrency = ""
	tx.OutAmount = nil
	model = CashTransactionModelFromDomain(tx)
	assert.Nil(t, model.OutCurrency)
	assert.Equal(t, valueobject.Currency(""), model.ToDomain().OutCurrency)
}

func TestCashCountModel_Denominations(t *testing.T) {
	count := cashdesk.NewCashCount(uuid.New(), valueobject.UZS, []cashdesk.Denomination{
		{Value: decimal.NewFromInt(50000), Quantity: 2},
		{Value: decimal.NewFromInt(5000), Quantity: 7},
	}, "", uuid.New())

	model := CashCountModelFromDomain(count)
	assert.JSONEq(t, `[{"denomination":"50000","quantity":2},{"denomination":"5000","quantity":7}]`, model.DenominationsJSON)

	back := model.ToDomain()
	require.Len(t, back.Denominations, 2)
	assert.True(t, back.Total.Equal(decimal.NewFromInt(135000)))
	assert.True(t, back.Denominations[1].Value.Equal(decimal.NewFromInt(5000)))
}
