package cashdesk

import (
	"fmt"

	"github.com/xuri/excelize/v2"
)

// XLSXContentType is the MIME type of rendered shift reports
const XLSXContentType = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"

const (
	sheetSummary      = "Summary"
	sheetTransactions = "Transactions"
	sheetCashCount    = "Cash Count"
)

// RenderShiftReport writes a shift workbook with a summary sheet, the full
// ledger and every cash count
func RenderShiftReport(detail *ShiftDetailResponse, summary *ShiftSummaryResponse) (*ShiftReport, error) {
	f := excelize.NewFile()
	defer func() { _ = f.Close() }()

	if err := f.SetSheetName("Sheet1", sheetSummary); err != nil {
		return nil, fmt.Errorf("rename summary sheet: %w", err)
	}
	for _, name := range []string{sheetTransactions, sheetCashCount} {
		if _, err := f.NewSheet(name); err != nil {
			return nil, fmt.Errorf("create sheet %s: %w", name, err)
		}
	}

	if err := writeSummarySheet(f, detail, summary); err != nil {
		return nil, err
	}
	if err := writeTransactionsSheet(f, detail.Transactions); err != nil {
		return nil, err
	}
	if err := writeCashCountSheet(f, detail.CashCounts); err != nil {
		return nil, err
	}

	buf, err := f.WriteToBuffer()
	if err != nil {
		return nil, fmt.Errorf("write workbook: %w", err)
	}
	return &ShiftReport{
		FileName:    fmt.Sprintf("shift-%s.xlsx", detail.ID),
		ContentType: XLSXContentType,
		Content:     buf.Bytes(),
	}, nil
}

func writeSummarySheet(f *excelize.File, detail *ShiftDetailResponse, summary *ShiftSummaryResponse) error {
	rows := [][]any{
		{"Shift", detail.ID.String()},
		{"Drawer", detail.DrawerID.String()},
		{"Cashier", detail.UserID.String()},
		{"Status", detail.StatusLabel},
		{"Opened at", detail.OpenedAt.Format("2006-01-02 15:04:05")},
		{"Closed at", formatOptionalTime(detail)},
		{"Beginning saldo", detail.BeginningSaldo.String()},
		{"Expected end saldo", detail.ExpectedEndSaldo.String()},
		{"Counted end saldo", optionalDecimal(detail.CountedEndSaldo)},
		{"Discrepancy", optionalDecimal(detail.Discrepancy)},
		{"Discrepancy reason", detail.DiscrepancyReason},
		{"Approval notes", detail.ApprovalNotes},
		{},
		{"Currency", "Total in", "Total out", "Net", "Expected", "Counted", "Discrepancy"},
	}

	counted := make(map[string]EndSaldoResponse, len(detail.EndSaldos))
	for _, row := range detail.EndSaldos {
		counted[row.Currency] = row
	}
	for _, c := range summary.Currencies {
		line := []any{c.Currency, c.TotalIn.String(), c.TotalOut.String(), c.Net.String(), c.Expected.String()}
		if row, ok := counted[c.Currency]; ok {
			line = append(line, row.CountedEndSaldo.String(), row.Discrepancy.String())
		}
		rows = append(rows, line)
	}

	if len(summary.Categories) > 0 {
		rows = append(rows, []any{}, []any{"Category", "Currency", "Count", "Net"})
		for _, c := range summary.Categories {
			rows = append(rows, []any{c.Category, c.Currency, c.Count, c.Net.String()})
		}
	}
	return writeRows(f, sheetSummary, rows)
}

func writeTransactionsSheet(f *excelize.File, txs []TransactionResponse) error {
	rows := [][]any{{"Occurred at", "Type", "Amount", "Currency", "Out amount", "Out currency", "Category", "Reference", "Notes"}}
	for _, tx := range txs {
		rows = append(rows, []any{
			tx.OccurredAt.Format("2006-01-02 15:04:05"),
			tx.TypeLabel,
			tx.Amount.String(),
			tx.Currency,
			optionalDecimal(tx.OutAmount),
			tx.OutCurrency,
			tx.Category,
			tx.Reference,
			tx.Notes,
		})
	}
	return writeRows(f, sheetTransactions, rows)
}

func writeCashCountSheet(f *excelize.File, counts []CashCountResponse) error {
	rows := [][]any{{"Counted at", "Denomination", "Quantity", "Subtotal"}}
	for _, count := range counts {
		at := count.CreatedAt.Format("2006-01-02 15:04:05")
		for _, line := range count.Denominations {
			rows = append(rows, []any{at, line.Denomination.String(), line.Quantity, line.Subtotal.String()})
		}
		rows = append(rows, []any{at, "Total", "", count.Total.String()})
	}
	return writeRows(f, sheetCashCount, rows)
}

func writeRows(f *excelize.File, sheet string, rows [][]any) error {
	for i, row := range rows {
		if len(row) == 0 {
			continue
		}
		cell, err := excelize.CoordinatesToCellName(1, i+1)
		if err != nil {
			return err
		}
		if err := f.SetSheetRow(sheet, cell, &row); err != nil {
			return fmt.Errorf("write %s row %d: %w", sheet, i+1, err)
		}
	}
	return nil
}

func formatOptionalTime(detail *ShiftDetailResponse) string {
	if detail.ClosedAt == nil {
		return ""
	}
	return detail.ClosedAt.Format("2006-01-02 15:04:05")
}
