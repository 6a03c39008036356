package cashdesk

import (
	"testing"

	"github.com/google/uuid"
	"github.com/hotelops/backend/internal/domain/shared"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestValidateCommand(t *testing.T) {
	tests := []struct {
		name    string
		cmd     any
		wantErr map[string]string
	}{
		{
			name: "valid exchange",
			cmd: RecordTransactionCommand{
				Type: "in_out", Amount: dec("30"), Currency: "USD", OutCurrency: "UZS", OutAmount: decPtr("300000"),
			},
		},
		{
			name: "exchange out amount must be positive",
			cmd: RecordTransactionCommand{
				Type: "in_out", Amount: dec("30"), Currency: "USD", OutCurrency: "UZS", OutAmount: decPtr("0"),
			},
			wantErr: map[string]string{"out_amount": "Must be greater than 0"},
		},
		{
			name:    "notes too long",
			cmd:     StartShiftCommand{DrawerID: uuid.New(), UserID: uuid.New(), BeginningSaldo: decPtr("0"), Notes: string(make([]byte, 1001))},
			wantErr: map[string]string{"notes": "Must be at most 1000 characters"},
		},
		{
			name: "explicit zero beginning saldo",
			cmd:  StartShiftCommand{DrawerID: uuid.New(), UserID: uuid.New(), BeginningSaldo: decPtr("0")},
		},
		{
			name:    "beginning saldo omitted",
			cmd:     StartShiftCommand{DrawerID: uuid.New(), UserID: uuid.New(), Notes: "x"},
			wantErr: map[string]string{"beginning_saldo": "This field is required"},
		},
		{
			name:    "negative beginning saldo",
			cmd:     StartShiftCommand{DrawerID: uuid.New(), UserID: uuid.New(), BeginningSaldo: decPtr("-1")},
			wantErr: map[string]string{"beginning_saldo": "Must be greater than or equal to 0"},
		},
		{
			name: "counted end saldo omitted",
			cmd: CloseShiftCommand{
				Denominations: []DenominationInput{{Denomination: dec("10"), Quantity: 1}},
			},
			wantErr: map[string]string{"counted_end_saldo": "This field is required"},
		},
		{
			name:    "close without denominations",
			cmd:     CloseShiftCommand{CountedEndSaldo: decPtr("10")},
			wantErr: map[string]string{"denominations": "This field is required"},
		},
		{
			name: "negative quantity",
			cmd: CloseShiftCommand{
				CountedEndSaldo: decPtr("10"),
				Denominations:   []DenominationInput{{Denomination: dec("10"), Quantity: -1}},
			},
			wantErr: map[string]string{"denominations[0].quantity": "Must be greater than or equal to 0"},
		},
		{
			name: "negative counted balance",
			cmd: CloseShiftCommand{
				CountedEndSaldo: decPtr("10"),
				Denominations:   []DenominationInput{{Denomination: dec("10"), Quantity: 1}},
				CountedBalances: map[string]decimal.Decimal{"USD": dec("-1")},
			},
			wantErr: map[string]string{"counted_balances[USD]": "Must be greater than or equal to 0"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := validateCommand(tt.cmd)
			if tt.wantErr == nil {
				assert.NoError(t, err)
				return
			}
			domainErr := requireCode(t, err, shared.CodeValidation)
			for field, msg := range tt.wantErr {
				require.Contains(t, domainErr.Fields, field)
				assert.Equal(t, msg, domainErr.Fields[field])
			}
		})
	}
}
