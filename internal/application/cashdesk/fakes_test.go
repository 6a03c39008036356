package cashdesk

import (
	"context"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/hotelops/backend/internal/domain/cashdesk"
	"github.com/hotelops/backend/internal/domain/shared"
)

// memStore is an in-memory implementation of every cashdesk repository.
// It copies values in and out so callers never share state with the store.
type memStore struct {
	mu           sync.Mutex
	drawers      map[uuid.UUID]cashdesk.CashDrawer
	shifts       map[uuid.UUID]cashdesk.CashierShift
	transactions []cashdesk.CashTransaction
	counts       []cashdesk.CashCount
	endSaldos    map[uuid.UUID]cashdesk.EndSaldo
}

func newMemStore() *memStore {
	return &memStore{
		drawers:   make(map[uuid.UUID]cashdesk.CashDrawer),
		shifts:    make(map[uuid.UUID]cashdesk.CashierShift),
		endSaldos: make(map[uuid.UUID]cashdesk.EndSaldo),
	}
}

func (m *memStore) repositories() *Repositories {
	return &Repositories{
		Drawers:      memDrawers{m},
		Shifts:       memShifts{m},
		Transactions: memTransactions{m},
		Counts:       memCounts{m},
		EndSaldos:    memEndSaldos{m},
	}
}

func (m *memStore) shiftRows() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.shifts)
}

func (m *memStore) transactionRows() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.transactions)
}

func (m *memStore) countRows() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.counts)
}

type memDrawers struct{ m *memStore }

func (r memDrawers) FindByID(_ context.Context, id uuid.UUID) (*cashdesk.CashDrawer, error) {
	r.m.mu.Lock()
	defer r.m.mu.Unlock()
	d, ok := r.m.drawers[id]
	if !ok {
		return nil, shared.ErrNotFound
	}
	d.Balances = d.Balances.Clone()
	return &d, nil
}

func (r memDrawers) FindAll(_ context.Context, filter cashdesk.DrawerFilter) ([]cashdesk.CashDrawer, error) {
	r.m.mu.Lock()
	defer r.m.mu.Unlock()
	out := make([]cashdesk.CashDrawer, 0, len(r.m.drawers))
	for _, d := range r.m.drawers {
		if filter.IsActive != nil && d.IsActive != *filter.IsActive {
			continue
		}
		if filter.Search != "" && !strings.Contains(strings.ToLower(d.Name), strings.ToLower(filter.Search)) {
			continue
		}
		out = append(out, d)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out, nil
}

func (r memDrawers) Count(ctx context.Context, filter cashdesk.DrawerFilter) (int64, error) {
	all, _ := r.FindAll(ctx, filter)
	return int64(len(all)), nil
}

func (r memDrawers) Create(_ context.Context, d *cashdesk.CashDrawer) error {
	r.m.mu.Lock()
	defer r.m.mu.Unlock()
	stored := *d
	stored.Balances = d.Balances.Clone()
	stored.ClearDomainEvents()
	r.m.drawers[d.ID] = stored
	return nil
}

func (r memDrawers) SaveWithLock(_ context.Context, d *cashdesk.CashDrawer) error {
	r.m.mu.Lock()
	defer r.m.mu.Unlock()
	current, ok := r.m.drawers[d.ID]
	if !ok {
		return shared.ErrNotFound
	}
	if current.Version != d.Version {
		return shared.ErrConcurrencyConflict
	}
	d.IncrementVersion()
	stored := *d
	stored.Balances = d.Balances.Clone()
	stored.ClearDomainEvents()
	r.m.drawers[d.ID] = stored
	return nil
}

type memShifts struct{ m *memStore }

func (r memShifts) FindByID(_ context.Context, id uuid.UUID) (*cashdesk.CashierShift, error) {
	r.m.mu.Lock()
	defer r.m.mu.Unlock()
	s, ok := r.m.shifts[id]
	if !ok {
		return nil, shared.ErrNotFound
	}
	return &s, nil
}

func (r memShifts) FindOpenByUser(_ context.Context, userID uuid.UUID) (*cashdesk.CashierShift, error) {
	r.m.mu.Lock()
	defer r.m.mu.Unlock()
	for _, s := range r.m.shifts {
		if s.UserID == userID && s.Status == cashdesk.ShiftStatusOpen {
			return &s, nil
		}
	}
	return nil, shared.ErrNotFound
}

func (r memShifts) ExistsOpenForDrawer(_ context.Context, drawerID uuid.UUID) (bool, error) {
	r.m.mu.Lock()
	defer r.m.mu.Unlock()
	for _, s := range r.m.shifts {
		if s.DrawerID == drawerID && s.Status == cashdesk.ShiftStatusOpen {
			return true, nil
		}
	}
	return false, nil
}

func (r memShifts) FindAll(_ context.Context, filter cashdesk.ShiftFilter) ([]cashdesk.CashierShift, error) {
	r.m.mu.Lock()
	defer r.m.mu.Unlock()
	out := make([]cashdesk.CashierShift, 0)
	for _, s := range r.m.shifts {
		if filter.Status != nil && s.Status != *filter.Status {
			continue
		}
		if filter.UserID != nil && s.UserID != *filter.UserID {
			continue
		}
		if filter.DrawerID != nil && s.DrawerID != *filter.DrawerID {
			continue
		}
		out = append(out, s)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].OpenedAt.After(out[j].OpenedAt) })
	return out, nil
}

func (r memShifts) Count(ctx context.Context, filter cashdesk.ShiftFilter) (int64, error) {
	all, _ := r.FindAll(ctx, filter)
	return int64(len(all)), nil
}

func (r memShifts) Create(_ context.Context, s *cashdesk.CashierShift) error {
	r.m.mu.Lock()
	defer r.m.mu.Unlock()
	if r.openConflict(s) {
		return cashdesk.ErrShiftAlreadyOpen
	}
	stored := *s
	stored.ClearDomainEvents()
	r.m.shifts[s.ID] = stored
	return nil
}

func (r memShifts) SaveWithLock(_ context.Context, s *cashdesk.CashierShift) error {
	r.m.mu.Lock()
	defer r.m.mu.Unlock()
	current, ok := r.m.shifts[s.ID]
	if !ok {
		return shared.ErrNotFound
	}
	if current.Version != s.Version {
		return shared.ErrConcurrencyConflict
	}
	if r.openConflict(s) {
		return cashdesk.ErrShiftAlreadyOpen
	}
	s.IncrementVersion()
	stored := *s
	stored.ClearDomainEvents()
	r.m.shifts[s.ID] = stored
	return nil
}

// openConflict mirrors the partial unique index on open shifts per user
func (r memShifts) openConflict(s *cashdesk.CashierShift) bool {
	if s.Status != cashdesk.ShiftStatusOpen {
		return false
	}
	for id, other := range r.m.shifts {
		if id != s.ID && other.UserID == s.UserID && other.Status == cashdesk.ShiftStatusOpen {
			return true
		}
	}
	return false
}

type memTransactions struct{ m *memStore }

func (r memTransactions) FindByID(_ context.Context, id uuid.UUID) (*cashdesk.CashTransaction, error) {
	r.m.mu.Lock()
	defer r.m.mu.Unlock()
	for _, tx := range r.m.transactions {
		if tx.ID == id {
			return &tx, nil
		}
	}
	return nil, shared.ErrNotFound
}

func (r memTransactions) FindByShift(_ context.Context, shiftID uuid.UUID) ([]cashdesk.CashTransaction, error) {
	r.m.mu.Lock()
	defer r.m.mu.Unlock()
	out := make([]cashdesk.CashTransaction, 0)
	for _, tx := range r.m.transactions {
		if tx.ShiftID == shiftID {
			out = append(out, tx)
		}
	}
	return out, nil
}

func (r memTransactions) FindAll(ctx context.Context, filter cashdesk.TransactionFilter) ([]cashdesk.CashTransaction, error) {
	rows, _ := r.FindByShift(ctx, filter.ShiftID)
	out := make([]cashdesk.CashTransaction, 0, len(rows))
	for _, tx := range rows {
		if filter.Type != nil && tx.Type != *filter.Type {
			continue
		}
		if filter.Currency != nil && tx.Currency != *filter.Currency {
			continue
		}
		if filter.Category != nil && tx.Category != *filter.Category {
			continue
		}
		out = append(out, tx)
	}
	return out, nil
}

func (r memTransactions) Count(ctx context.Context, filter cashdesk.TransactionFilter) (int64, error) {
	all, _ := r.FindAll(ctx, filter)
	return int64(len(all)), nil
}

func (r memTransactions) CreateBatch(_ context.Context, txs []cashdesk.CashTransaction) error {
	r.m.mu.Lock()
	defer r.m.mu.Unlock()
	r.m.transactions = append(r.m.transactions, txs...)
	return nil
}

type memCounts struct{ m *memStore }

func (r memCounts) FindByShift(_ context.Context, shiftID uuid.UUID) ([]cashdesk.CashCount, error) {
	r.m.mu.Lock()
	defer r.m.mu.Unlock()
	out := make([]cashdesk.CashCount, 0)
	for _, c := range r.m.counts {
		if c.ShiftID == shiftID {
			out = append(out, c)
		}
	}
	return out, nil
}

func (r memCounts) Create(_ context.Context, c *cashdesk.CashCount) error {
	r.m.mu.Lock()
	defer r.m.mu.Unlock()
	r.m.counts = append(r.m.counts, *c)
	return nil
}

type memEndSaldos struct{ m *memStore }

func (r memEndSaldos) FindByShift(_ context.Context, shiftID uuid.UUID) ([]cashdesk.EndSaldo, error) {
	r.m.mu.Lock()
	defer r.m.mu.Unlock()
	out := make([]cashdesk.EndSaldo, 0)
	for _, row := range r.m.endSaldos {
		if row.ShiftID == shiftID {
			out = append(out, row)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Currency < out[j].Currency })
	return out, nil
}

func (r memEndSaldos) SaveAll(_ context.Context, rows []cashdesk.EndSaldo) error {
	r.m.mu.Lock()
	defer r.m.mu.Unlock()
	for _, row := range rows {
		r.m.endSaldos[row.ID] = row
	}
	return nil
}

// recordingPublisher collects published events
type recordingPublisher struct {
	mu     sync.Mutex
	events []shared.DomainEvent
}

func (p *recordingPublisher) Publish(_ context.Context, events ...shared.DomainEvent) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.events = append(p.events, events...)
	return nil
}

func (p *recordingPublisher) types() []string {
	p.mu.Lock()
	defer p.mu.Unlock()
	out := make([]string, len(p.events))
	for i, e := range p.events {
		out[i] = e.EventType()
	}
	return out
}

// memIdempotency is a map-backed idempotency store
type memIdempotency struct {
	mu   sync.Mutex
	keys map[string]bool
}

func newMemIdempotency() *memIdempotency {
	return &memIdempotency{keys: make(map[string]bool)}
}

func (s *memIdempotency) MarkProcessed(_ context.Context, key string, _ time.Duration) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.keys[key] {
		return false, nil
	}
	s.keys[key] = true
	return true, nil
}

func (s *memIdempotency) IsProcessed(_ context.Context, key string) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.keys[key], nil
}

func (s *memIdempotency) Release(_ context.Context, key string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.keys, key)
	return nil
}

func (s *memIdempotency) Close() error { return nil }
