package valueobject

import (
	"fmt"
	"strings"

	"github.com/shopspring/decimal"
	"golang.org/x/text/language"
	"golang.org/x/text/message"
	"golang.org/x/text/number"
)

// Currency represents a supported cash currency (ISO 4217 code)
type Currency string

const (
	UZS Currency = "UZS" // Uzbek Som (primary)
	EUR Currency = "EUR" // Euro
	USD Currency = "USD" // US Dollar
	RUB Currency = "RUB" // Russian Ruble
)

// PrimaryCurrency is the currency shift saldos are kept in
const PrimaryCurrency = UZS

// currencyInfo is the display lookup table for a currency
type currencyInfo struct {
	label     string
	symbol    string
	precision int32
}

var currencies = map[Currency]currencyInfo{
	UZS: {label: "Uzbek Som", symbol: "so'm", precision: 2},
	EUR: {label: "Euro", symbol: "€", precision: 2},
	USD: {label: "US Dollar", symbol: "$", precision: 2},
	RUB: {label: "Russian Ruble", symbol: "₽", precision: 2},
}

var amountPrinter = message.NewPrinter(language.English)

// AllCurrencies returns the supported currencies in display order
func AllCurrencies() []Currency {
	return []Currency{UZS, EUR, USD, RUB}
}

// ParseCurrency parses a currency code, case-insensitively
func ParseCurrency(s string) (Currency, error) {
	c := Currency(strings.ToUpper(strings.TrimSpace(s)))
	if !c.IsValid() {
		return "", fmt.Errorf("unsupported currency: %q", s)
	}
	return c, nil
}

// IsValid reports whether the currency is supported
func (c Currency) IsValid() bool {
	_, ok := currencies[c]
	return ok
}

// String returns the currency code
func (c Currency) String() string {
	return string(c)
}

// Label returns the human-readable currency name
func (c Currency) Label() string {
	if info, ok := currencies[c]; ok {
		return info.label
	}
	return string(c)
}

// Symbol returns the currency symbol
func (c Currency) Symbol() string {
	if info, ok := currencies[c]; ok {
		return info.symbol
	}
	return string(c)
}

// Precision returns the number of decimal places amounts are kept at
func (c Currency) Precision() int32 {
	if info, ok := currencies[c]; ok {
		return info.precision
	}
	return 2
}

// FitsPrecision reports whether amount has no more decimal places than the
// currency keeps. Trailing zeros do not count.
func (c Currency) FitsPrecision(amount decimal.Decimal) bool {
	return amount.Round(c.Precision()).Equal(amount)
}

// Format renders amount with digit grouping and the currency symbol,
// e.g. "135,000.00 so'm"
func (c Currency) Format(amount decimal.Decimal) string {
	scale := int(c.Precision())
	f, _ := amount.Round(c.Precision()).Float64()
	return amountPrinter.Sprintf("%v %s", number.Decimal(f, number.Scale(scale)), c.Symbol())
}
