package testutil

import (
	"testing"

	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// cashdeskSQLiteSchema mirrors migrations/ with SQLite-compatible types,
// including the partial unique index on open shifts.
var cashdeskSQLiteSchema = []string{
	`CREATE TABLE cash_drawers (
		id TEXT PRIMARY KEY, name TEXT NOT NULL, location TEXT NOT NULL DEFAULT '',
		is_active BOOLEAN NOT NULL DEFAULT 1, balances TEXT NOT NULL DEFAULT '{}',
		version INTEGER NOT NULL DEFAULT 1, created_at DATETIME NOT NULL, updated_at DATETIME NOT NULL)`,
	`CREATE TABLE cashier_shifts (
		id TEXT PRIMARY KEY, drawer_id TEXT NOT NULL, user_id TEXT NOT NULL, status TEXT NOT NULL,
		beginning_saldo TEXT NOT NULL, expected_end_saldo TEXT NOT NULL,
		counted_end_saldo TEXT, discrepancy TEXT, discrepancy_reason TEXT NOT NULL DEFAULT '',
		approved_by TEXT, approved_at DATETIME, approval_notes TEXT NOT NULL DEFAULT '',
		rejected_by TEXT, rejected_at DATETIME, rejection_reason TEXT NOT NULL DEFAULT '',
		notes TEXT NOT NULL DEFAULT '', opened_at DATETIME NOT NULL, closed_at DATETIME,
		version INTEGER NOT NULL DEFAULT 1, created_at DATETIME NOT NULL, updated_at DATETIME NOT NULL)`,
	`CREATE UNIQUE INDEX ux_cashier_shifts_open_user ON cashier_shifts (user_id) WHERE status = 'open'`,
	`CREATE TABLE cash_transactions (
		id TEXT PRIMARY KEY, shift_id TEXT NOT NULL, type TEXT NOT NULL, amount TEXT NOT NULL,
		currency TEXT NOT NULL, out_currency TEXT, out_amount TEXT, category TEXT NOT NULL DEFAULT '',
		reference TEXT NOT NULL DEFAULT '', notes TEXT NOT NULL DEFAULT '', created_by TEXT NOT NULL,
		occurred_at DATETIME NOT NULL, created_at DATETIME NOT NULL, updated_at DATETIME NOT NULL)`,
	`CREATE TABLE cash_counts (
		id TEXT PRIMARY KEY, shift_id TEXT NOT NULL, currency TEXT NOT NULL, denominations TEXT NOT NULL,
		total TEXT NOT NULL, notes TEXT NOT NULL DEFAULT '', counted_by TEXT NOT NULL,
		created_at DATETIME NOT NULL, updated_at DATETIME NOT NULL)`,
	`CREATE TABLE end_saldos (
		id TEXT PRIMARY KEY, shift_id TEXT NOT NULL, currency TEXT NOT NULL,
		expected_end_saldo TEXT NOT NULL, counted_end_saldo TEXT NOT NULL, discrepancy TEXT NOT NULL,
		adjusted_by TEXT, adjusted_at DATETIME, adjustment_reason TEXT NOT NULL DEFAULT '',
		created_at DATETIME NOT NULL, updated_at DATETIME NOT NULL, UNIQUE (shift_id, currency))`,
}

// NewCashdeskSQLite opens an in-memory SQLite database with the cashdesk
// tables created. Errors are translated so unique violations surface as
// gorm.ErrDuplicatedKey.
func NewCashdeskSQLite(t *testing.T) *gorm.DB {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger:         logger.Default.LogMode(logger.Silent),
		TranslateError: true,
	})
	require.NoError(t, err)

	// a single connection keeps every query on the same in-memory database
	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)
	t.Cleanup(func() { _ = sqlDB.Close() })

	for _, stmt := range cashdeskSQLiteSchema {
		require.NoError(t, db.Exec(stmt).Error)
	}
	return db
}
