package persistence

import (
	"strings"

	"github.com/hotelops/backend/internal/domain/shared"
	"gorm.io/gorm"
)

// ValidateSortOrder validates and normalizes the sort order to ASC or DESC.
// Returns "DESC" as the default if the input is invalid or empty.
func ValidateSortOrder(orderDir string) string {
	normalized := strings.ToUpper(strings.TrimSpace(orderDir))
	if normalized == "ASC" {
		return "ASC"
	}
	return "DESC"
}

// ValidateSortField validates the sort field against a whitelist of allowed fields.
// Returns the defaultField if the input is invalid, empty, or not in the whitelist.
func ValidateSortField(sortField string, allowedFields map[string]bool, defaultField string) string {
	trimmed := strings.TrimSpace(sortField)
	if trimmed == "" {
		return defaultField
	}
	if allowedFields[trimmed] {
		return trimmed
	}
	return defaultField
}

// applyPaging orders and pages a query with a whitelisted sort field
func applyPaging(query *gorm.DB, filter shared.Filter, allowed map[string]bool, defaultField string) *gorm.DB {
	field := ValidateSortField(filter.OrderBy, allowed, defaultField)
	query = query.Order(field + " " + ValidateSortOrder(filter.OrderDir))
	if filter.PageSize > 0 {
		query = query.Offset(filter.Offset()).Limit(filter.PageSize)
	}
	return query
}

// CashDrawerSortFields contains allowed sort fields for cash drawers
var CashDrawerSortFields = map[string]bool{
	"id":         true,
	"created_at": true,
	"updated_at": true,
	"name":       true,
	"location":   true,
	"is_active":  true,
}

// CashierShiftSortFields contains allowed sort fields for cashier shifts
var CashierShiftSortFields = map[string]bool{
	"id":                 true,
	"created_at":         true,
	"updated_at":         true,
	"opened_at":          true,
	"closed_at":          true,
	"status":             true,
	"drawer_id":          true,
	"user_id":            true,
	"beginning_saldo":    true,
	"expected_end_saldo": true,
	"discrepancy":        true,
}

// CashTransactionSortFields contains allowed sort fields for ledger rows
var CashTransactionSortFields = map[string]bool{
	"id":          true,
	"created_at":  true,
	"updated_at":  true,
	"occurred_at": true,
	"type":        true,
	"amount":      true,
	"currency":    true,
	"category":    true,
}
