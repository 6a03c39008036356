package cashdesk

import (
	"context"
	"sort"
	"time"

	"github.com/google/uuid"
	"github.com/hotelops/backend/internal/domain/cashdesk"
	"github.com/hotelops/backend/internal/domain/shared"
	"github.com/hotelops/backend/internal/domain/shared/valueobject"
	"github.com/hotelops/backend/internal/infrastructure/telemetry"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

const (
	defaultPageSize = 20
	maxPageSize     = 100
)

// uncategorized groups ledger rows without a category in summaries
const uncategorized = "uncategorized"

// ShiftQueryService answers read-only questions about shifts
type ShiftQueryService struct {
	repos      TransactionalRepositories
	storage    ReportStorage
	linkExpiry time.Duration
	logger     *zap.Logger
}

// NewShiftQueryService creates a new ShiftQueryService
func NewShiftQueryService(repos TransactionalRepositories, logger *zap.Logger) *ShiftQueryService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &ShiftQueryService{repos: repos, logger: logger, linkExpiry: 15 * time.Minute}
}

// SetReportStorage enables links to archived reports
func (s *ShiftQueryService) SetReportStorage(storage ReportStorage, linkExpiry time.Duration) {
	s.storage = storage
	if linkExpiry > 0 {
		s.linkExpiry = linkExpiry
	}
}

// GetShift returns a shift with its ledger, counts and end saldos
func (s *ShiftQueryService) GetShift(ctx context.Context, shiftID uuid.UUID) (*ShiftDetailResponse, error) {
	shift, err := s.repos.ShiftRepo().FindByID(ctx, shiftID)
	if err != nil {
		return nil, err
	}
	return s.detail(ctx, shift)
}

// GetCurrentShift returns the user's open shift
func (s *ShiftQueryService) GetCurrentShift(ctx context.Context, userID uuid.UUID) (*ShiftDetailResponse, error) {
	shift, err := s.repos.ShiftRepo().FindOpenByUser(ctx, userID)
	if err != nil {
		return nil, err
	}
	return s.detail(ctx, shift)
}

// ListShifts lists shifts matching the filter
func (s *ShiftQueryService) ListShifts(ctx context.Context, filter ShiftListFilter) (*shared.Paginated[ShiftResponse], error) {
	if err := validateCommand(filter); err != nil {
		return nil, err
	}

	domainFilter := cashdesk.ShiftFilter{
		Filter:   toPageFilter(filter.Page, filter.PageSize, filter.OrderBy, filter.OrderDir, "opened_at"),
		DrawerID: filter.DrawerID,
		UserID:   filter.UserID,
		From:     filter.From,
		To:       filter.To,
	}
	if filter.Status != "" {
		status := cashdesk.ShiftStatus(filter.Status)
		domainFilter.Status = &status
	}

	shifts, err := s.repos.ShiftRepo().FindAll(ctx, domainFilter)
	if err != nil {
		return nil, err
	}
	total, err := s.repos.ShiftRepo().Count(ctx, domainFilter)
	if err != nil {
		return nil, err
	}

	page := shared.NewPaginated(ToShiftResponses(shifts), total, domainFilter.Page, domainFilter.PageSize)
	return &page, nil
}

// ListTransactions lists the ledger rows of a shift
func (s *ShiftQueryService) ListTransactions(ctx context.Context, shiftID uuid.UUID, filter TransactionListFilter) (*shared.Paginated[TransactionResponse], error) {
	if err := validateCommand(filter); err != nil {
		return nil, err
	}
	if _, err := s.repos.ShiftRepo().FindByID(ctx, shiftID); err != nil {
		return nil, err
	}

	domainFilter := cashdesk.TransactionFilter{
		Filter:  toPageFilter(filter.Page, filter.PageSize, filter.OrderBy, filter.OrderDir, "occurred_at"),
		ShiftID: shiftID,
	}
	if filter.Type != "" {
		t := cashdesk.TransactionType(filter.Type)
		domainFilter.Type = &t
	}
	if filter.Currency != "" {
		c := valueobject.Currency(filter.Currency)
		domainFilter.Currency = &c
	}
	if filter.Category != "" {
		c := cashdesk.TransactionCategory(filter.Category)
		domainFilter.Category = &c
	}

	txs, err := s.repos.TransactionRepo().FindAll(ctx, domainFilter)
	if err != nil {
		return nil, err
	}
	total, err := s.repos.TransactionRepo().Count(ctx, domainFilter)
	if err != nil {
		return nil, err
	}

	page := shared.NewPaginated(ToTransactionResponses(txs), total, domainFilter.Page, domainFilter.PageSize)
	return &page, nil
}

// GetShiftSummary totals a shift's ledger per currency and per category
func (s *ShiftQueryService) GetShiftSummary(ctx context.Context, shiftID uuid.UUID) (*ShiftSummaryResponse, error) {
	shift, err := s.repos.ShiftRepo().FindByID(ctx, shiftID)
	if err != nil {
		return nil, err
	}
	txs, err := s.repos.TransactionRepo().FindByShift(ctx, shift.ID)
	if err != nil {
		return nil, err
	}
	return summarize(shift, txs), nil
}

// ExportShiftReport renders the shift as an XLSX workbook
func (s *ShiftQueryService) ExportShiftReport(ctx context.Context, shiftID uuid.UUID) (*ShiftReport, error) {
	ctx, span := telemetry.StartServiceSpan(ctx, "shift_report", "export")
	defer span.End()
	telemetry.SetAttribute(span, telemetry.SpanAttrShiftID, shiftID.String())

	var report *ShiftReport
	var operationErr error
	telemetry.WithProfilingLabels(ctx, telemetry.CashdeskOperationLabels(telemetry.OperationExportShiftReport, ""), func(c context.Context) {
		report, operationErr = s.buildReport(c, shiftID)
	})
	if operationErr != nil {
		telemetry.RecordError(span, operationErr)
		return nil, operationErr
	}
	telemetry.SetAttribute(span, "report.bytes", len(report.Content))
	return report, nil
}

// GetArchivedReportURL returns a time-limited download link for the archived
// report of a closed shift
func (s *ShiftQueryService) GetArchivedReportURL(ctx context.Context, shiftID uuid.UUID) (*ReportLinkResponse, error) {
	if s.storage == nil {
		return nil, shared.NewDomainError(shared.CodeInvalidState, "Report archive is not configured")
	}
	shift, err := s.repos.ShiftRepo().FindByID(ctx, shiftID)
	if err != nil {
		return nil, err
	}
	if shift.Status != cashdesk.ShiftStatusClosed {
		return nil, shared.NewFieldError(shared.CodeInvalidState, "shift", "Only closed shifts have an archived report")
	}

	key := ReportKey(shift.ID, shift.OpenedAt)
	exists, err := s.storage.ObjectExists(ctx, key)
	if err != nil {
		return nil, err
	}
	if !exists {
		return nil, shared.ErrNotFound
	}
	url, expiresAt, err := s.storage.GenerateDownloadURL(ctx, key, s.linkExpiry)
	if err != nil {
		return nil, err
	}
	return &ReportLinkResponse{ShiftID: shift.ID, StorageKey: key, URL: url, ExpiresAt: expiresAt}, nil
}

func (s *ShiftQueryService) buildReport(ctx context.Context, shiftID uuid.UUID) (*ShiftReport, error) {
	shift, err := s.repos.ShiftRepo().FindByID(ctx, shiftID)
	if err != nil {
		return nil, err
	}
	txs, err := s.repos.TransactionRepo().FindByShift(ctx, shift.ID)
	if err != nil {
		return nil, err
	}
	detail, err := s.detailWithLedger(ctx, shift, txs)
	if err != nil {
		return nil, err
	}
	return RenderShiftReport(detail, summarize(shift, txs))
}

func (s *ShiftQueryService) detail(ctx context.Context, shift *cashdesk.CashierShift) (*ShiftDetailResponse, error) {
	txs, err := s.repos.TransactionRepo().FindByShift(ctx, shift.ID)
	if err != nil {
		return nil, err
	}
	return s.detailWithLedger(ctx, shift, txs)
}

func (s *ShiftQueryService) detailWithLedger(ctx context.Context, shift *cashdesk.CashierShift, txs []cashdesk.CashTransaction) (*ShiftDetailResponse, error) {
	counts, err := s.repos.CountRepo().FindByShift(ctx, shift.ID)
	if err != nil {
		return nil, err
	}
	endSaldos, err := s.repos.EndSaldoRepo().FindByShift(ctx, shift.ID)
	if err != nil {
		return nil, err
	}

	countResponses := make([]CashCountResponse, len(counts))
	for i := range counts {
		countResponses[i] = ToCashCountResponse(&counts[i])
	}
	endSaldoResponses := make([]EndSaldoResponse, len(endSaldos))
	for i := range endSaldos {
		endSaldoResponses[i] = ToEndSaldoResponse(&endSaldos[i])
	}
	sort.Slice(endSaldoResponses, func(i, j int) bool {
		return currencyRank(endSaldoResponses[i].Currency) < currencyRank(endSaldoResponses[j].Currency)
	})

	return &ShiftDetailResponse{
		ShiftResponse:    ToShiftResponse(shift),
		ExpectedBalances: balancesToMap(shift.ExpectedBalances(txs)),
		Transactions:     ToTransactionResponses(txs),
		CashCounts:       countResponses,
		EndSaldos:        endSaldoResponses,
	}, nil
}

// summarize reduces the ledger into per-currency and per-category totals
func summarize(shift *cashdesk.CashierShift, txs []cashdesk.CashTransaction) *ShiftSummaryResponse {
	expected := shift.ExpectedBalances(txs)
	totalIn := make(cashdesk.Balances)
	totalOut := make(cashdesk.Balances)

	type categoryKey struct {
		category string
		currency valueobject.Currency
	}
	categories := make(map[categoryKey]*CategorySummary)

	for i := range txs {
		tx := &txs[i]
		if tx.Type.Sign() > 0 {
			totalIn.Add(tx.Currency, tx.Amount)
		} else {
			totalOut.Add(tx.Currency, tx.Amount)
		}

		name := tx.Category.String()
		if name == "" {
			name = uncategorized
		}
		key := categoryKey{category: name, currency: tx.Currency}
		entry, ok := categories[key]
		if !ok {
			entry = &CategorySummary{Category: name, Currency: tx.Currency.String()}
			categories[key] = entry
		}
		entry.Count++
		entry.Net = entry.Net.Add(tx.SignedAmount())
	}

	currencies := make([]CurrencySummary, 0, len(expected))
	for _, c := range expected.Currencies() {
		in, out := totalIn.Get(c), totalOut.Get(c)
		currencies = append(currencies, CurrencySummary{
			Currency:  c.String(),
			TotalIn:   in,
			TotalOut:  out,
			Net:       in.Sub(out),
			Expected:  expected.Get(c),
			Formatted: c.Format(expected.Get(c)),
		})
	}

	categoryList := make([]CategorySummary, 0, len(categories))
	for _, entry := range categories {
		categoryList = append(categoryList, *entry)
	}
	sort.Slice(categoryList, func(i, j int) bool {
		if categoryList[i].Category != categoryList[j].Category {
			return categoryList[i].Category < categoryList[j].Category
		}
		return currencyRank(categoryList[i].Currency) < currencyRank(categoryList[j].Currency)
	})

	return &ShiftSummaryResponse{
		ShiftID:          shift.ID,
		Status:           shift.Status.String(),
		TransactionCount: len(txs),
		Currencies:       currencies,
		Categories:       categoryList,
	}
}

func currencyRank(code string) int {
	for i, c := range valueobject.AllCurrencies() {
		if c.String() == code {
			return i
		}
	}
	return len(valueobject.AllCurrencies())
}

func toPageFilter(page, pageSize int, orderBy, orderDir, defaultOrder string) shared.Filter {
	f := shared.DefaultFilter()
	if page > 0 {
		f.Page = page
	}
	switch {
	case pageSize > maxPageSize:
		f.PageSize = maxPageSize
	case pageSize > 0:
		f.PageSize = pageSize
	default:
		f.PageSize = defaultPageSize
	}
	f.OrderBy = defaultOrder
	if orderBy != "" {
		f.OrderBy = orderBy
	}
	if orderDir == "asc" || orderDir == "desc" {
		f.OrderDir = orderDir
	}
	return f
}

func optionalDecimal(d *decimal.Decimal) string {
	if d == nil {
		return ""
	}
	return d.String()
}
