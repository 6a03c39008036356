package cashdesk

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/hotelops/backend/internal/domain/cashdesk"
	"github.com/hotelops/backend/internal/domain/shared"
	"github.com/hotelops/backend/internal/domain/shared/valueobject"
	"github.com/hotelops/backend/internal/infrastructure/telemetry"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

// DefaultIdempotencyTTL is how long a RecordTransaction idempotency key is remembered
const DefaultIdempotencyTTL = 24 * time.Hour

// ShiftService runs the cashier side of the shift workflow: opening a
// shift, recording cash movements and closing with a count.
type ShiftService struct {
	scope          TransactionScope
	logger         *zap.Logger
	tolerance      decimal.Decimal
	eventPublisher shared.EventPublisher
	idempotency    shared.IdempotencyStore
	idempotencyTTL time.Duration
	locker         Locker
}

// NewShiftService creates a new ShiftService
func NewShiftService(scope TransactionScope, logger *zap.Logger) *ShiftService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &ShiftService{
		scope:          scope,
		logger:         logger,
		tolerance:      cashdesk.DefaultTolerance,
		idempotencyTTL: DefaultIdempotencyTTL,
	}
}

// SetEventPublisher sets the publisher used after each committed action
func (s *ShiftService) SetEventPublisher(publisher shared.EventPublisher) {
	s.eventPublisher = publisher
}

// SetIdempotencyStore enables Idempotency-Key handling for RecordTransaction
func (s *ShiftService) SetIdempotencyStore(store shared.IdempotencyStore, ttl time.Duration) {
	s.idempotency = store
	if ttl > 0 {
		s.idempotencyTTL = ttl
	}
}

// SetLocker makes StartShift hold a per-cashier lock across instances
func (s *ShiftService) SetLocker(locker Locker) {
	s.locker = locker
}

// SetTolerance overrides the discrepancy tolerance used when closing
func (s *ShiftService) SetTolerance(tolerance decimal.Decimal) {
	if tolerance.IsPositive() {
		s.tolerance = tolerance
	}
}

// StartShift opens a shift for the user on a drawer
func (s *ShiftService) StartShift(ctx context.Context, cmd StartShiftCommand) (*ShiftResponse, error) {
	ctx, span := telemetry.StartServiceSpan(ctx, "cashier_shift", "start")
	defer span.End()

	telemetry.SetAttributes(span,
		telemetry.SpanAttrDrawerID, cmd.DrawerID.String(),
		telemetry.SpanAttrUserID, cmd.UserID.String(),
		telemetry.SpanAttrAmount, optionalDecimal(cmd.BeginningSaldo),
	)

	if err := validateCommand(cmd); err != nil {
		telemetry.RecordError(span, err)
		return nil, err
	}

	if s.locker != nil {
		release, err := s.locker.Lock(ctx, startShiftLockKey(cmd.UserID.String()), startShiftLockTTL)
		if err != nil {
			telemetry.RecordError(span, err)
			return nil, err
		}
		defer func() {
			if err := release(context.WithoutCancel(ctx)); err != nil {
				s.logger.Warn("Failed to release start shift lock", zap.String("user_id", cmd.UserID.String()), zap.Error(err))
			}
		}()
	}

	var shift *cashdesk.CashierShift
	var events []shared.DomainEvent
	var operationErr error
	telemetry.WithProfilingLabels(ctx, telemetry.CashdeskOperationLabels(telemetry.OperationStartShift, string(valueobject.PrimaryCurrency)), func(c context.Context) {
		operationErr = s.scope.Execute(c, func(repos TransactionalRepositories) error {
			if err := ensureNoOpenShift(c, repos, cmd.UserID); err != nil {
				return err
			}

			drawer, err := repos.DrawerRepo().FindByID(c, cmd.DrawerID)
			if err != nil {
				return err
			}

			shift, err = cashdesk.NewCashierShift(drawer, cmd.UserID, *cmd.BeginningSaldo, cmd.Notes)
			if err != nil {
				return err
			}
			if err := repos.ShiftRepo().Create(c, shift); err != nil {
				return err
			}
			events = shift.PullDomainEvents()
			return nil
		})
	})
	if operationErr != nil {
		telemetry.RecordError(span, operationErr)
		return nil, operationErr
	}

	telemetry.SetAttribute(span, telemetry.SpanAttrShiftID, shift.ID.String())
	s.logger.Info("Shift started",
		zap.String("shift_id", shift.ID.String()),
		zap.String("drawer_id", shift.DrawerID.String()),
		zap.String("user_id", shift.UserID.String()),
		zap.String("beginning_saldo", shift.BeginningSaldo.String()),
	)
	s.publish(ctx, events)

	response := ToShiftResponse(shift)
	return &response, nil
}

// RecordTransaction appends a cash movement to the user's open shift and
// returns the primary ledger row
func (s *ShiftService) RecordTransaction(ctx context.Context, cmd RecordTransactionCommand) (_ *TransactionResponse, err error) {
	ctx, span := telemetry.StartServiceSpan(ctx, "cashier_shift", "record_transaction")
	defer span.End()

	telemetry.SetAttributes(span,
		telemetry.SpanAttrShiftID, cmd.ShiftID.String(),
		telemetry.SpanAttrUserID, cmd.UserID.String(),
		telemetry.SpanAttrTransactionType, cmd.Type,
		telemetry.SpanAttrAmount, cmd.Amount.String(),
		telemetry.SpanAttrCurrency, cmd.Currency,
	)

	if err := validateCommand(cmd); err != nil {
		telemetry.RecordError(span, err)
		return nil, err
	}

	if key := s.idempotencyKey(cmd); key != "" {
		fresh, markErr := s.idempotency.MarkProcessed(ctx, key, s.idempotencyTTL)
		switch {
		case markErr != nil:
			s.logger.Warn("Idempotency store unavailable, recording without key check",
				zap.String("shift_id", cmd.ShiftID.String()),
				zap.Error(markErr),
			)
		case !fresh:
			telemetry.RecordError(span, cashdesk.ErrDuplicateRequest)
			return nil, cashdesk.ErrDuplicateRequest
		default:
			defer func() {
				if err != nil {
					if relErr := s.idempotency.Release(context.WithoutCancel(ctx), key); relErr != nil {
						s.logger.Warn("Failed to release idempotency key", zap.String("key", key), zap.Error(relErr))
					}
				}
			}()
		}
	}

	entry := toTransactionEntry(cmd)

	var primary *cashdesk.CashTransaction
	var legs int
	var events []shared.DomainEvent
	var operationErr error
	telemetry.WithProfilingLabels(ctx, telemetry.CashdeskOperationLabels(telemetry.OperationRecordTransaction, cmd.Currency), func(c context.Context) {
		operationErr = s.scope.Execute(c, func(repos TransactionalRepositories) error {
			shift, err := repos.ShiftRepo().FindByID(c, cmd.ShiftID)
			if err != nil {
				return err
			}
			if err := ensureOwner(shift, cmd.UserID); err != nil {
				return err
			}

			rows, err := shift.RecordTransaction(entry, cmd.UserID)
			if err != nil {
				return err
			}
			if err := repos.TransactionRepo().CreateBatch(c, rows); err != nil {
				return err
			}

			ledger, err := repos.TransactionRepo().FindByShift(c, shift.ID)
			if err != nil {
				return err
			}
			shift.ApplyLedger(ledger)
			if err := repos.ShiftRepo().SaveWithLock(c, shift); err != nil {
				return err
			}

			primary = &rows[0]
			legs = len(rows)
			events = shift.PullDomainEvents()
			return nil
		})
	})
	if operationErr != nil {
		telemetry.RecordError(span, operationErr)
		return nil, operationErr
	}

	s.logger.Info("Cash transaction recorded",
		zap.String("shift_id", cmd.ShiftID.String()),
		zap.String("transaction_id", primary.ID.String()),
		zap.String("type", primary.Type.String()),
		zap.String("amount", primary.Amount.String()),
		zap.String("currency", primary.Currency.String()),
		zap.Int("legs", legs),
	)
	s.publish(ctx, events)

	response := ToTransactionResponse(primary)
	return &response, nil
}

// CloseShift reconciles the counted cash of the user's open shift. The
// shift ends closed, or under_review when any currency is off by more than
// the tolerance.
func (s *ShiftService) CloseShift(ctx context.Context, cmd CloseShiftCommand) (*ShiftResponse, error) {
	ctx, span := telemetry.StartServiceSpan(ctx, "cashier_shift", "close")
	defer span.End()

	telemetry.SetAttributes(span,
		telemetry.SpanAttrShiftID, cmd.ShiftID.String(),
		telemetry.SpanAttrUserID, cmd.UserID.String(),
		telemetry.SpanAttrAmount, optionalDecimal(cmd.CountedEndSaldo),
	)

	if err := validateCommand(cmd); err != nil {
		telemetry.RecordError(span, err)
		return nil, err
	}

	input := cashdesk.CloseShiftInput{
		CountedEndSaldo:   *cmd.CountedEndSaldo,
		Denominations:     toDenominations(cmd.Denominations),
		CountedBalances:   toBalances(cmd.CountedBalances),
		Notes:             cmd.Notes,
		DiscrepancyReason: cmd.DiscrepancyReason,
		ClosedBy:          cmd.UserID,
		Tolerance:         s.tolerance,
	}

	var shift *cashdesk.CashierShift
	var events []shared.DomainEvent
	var operationErr error
	telemetry.WithProfilingLabels(ctx, telemetry.CashdeskOperationLabels(telemetry.OperationCloseShift, string(valueobject.PrimaryCurrency)), func(c context.Context) {
		operationErr = s.scope.Execute(c, func(repos TransactionalRepositories) error {
			var err error
			shift, err = repos.ShiftRepo().FindByID(c, cmd.ShiftID)
			if err != nil {
				return err
			}
			if err := ensureOwner(shift, cmd.UserID); err != nil {
				return err
			}

			ledger, err := repos.TransactionRepo().FindByShift(c, shift.ID)
			if err != nil {
				return err
			}
			existing, err := repos.EndSaldoRepo().FindByShift(c, shift.ID)
			if err != nil {
				return err
			}

			outcome, err := shift.Close(input, ledger, existing)
			if err != nil {
				return err
			}
			if err := repos.CountRepo().Create(c, outcome.CashCount); err != nil {
				return err
			}
			if err := repos.EndSaldoRepo().SaveAll(c, outcome.EndSaldos); err != nil {
				return err
			}
			if err := repos.ShiftRepo().SaveWithLock(c, shift); err != nil {
				return err
			}
			if shift.Status == cashdesk.ShiftStatusClosed {
				if err := rebuildDrawerBalances(c, repos, shift.DrawerID, outcome.EndSaldos); err != nil {
					return err
				}
			}
			events = shift.PullDomainEvents()
			return nil
		})
	})
	if operationErr != nil {
		telemetry.RecordError(span, operationErr)
		return nil, operationErr
	}

	discrepancy := decimal.Zero
	if shift.Discrepancy != nil {
		discrepancy = *shift.Discrepancy
	}
	telemetry.SetAttributes(span,
		telemetry.SpanAttrShiftStatus, shift.Status.String(),
		telemetry.SpanAttrDiscrepancy, discrepancy.String(),
	)
	s.logger.Info("Shift closed",
		zap.String("shift_id", shift.ID.String()),
		zap.String("status", shift.Status.String()),
		zap.String("expected_end_saldo", shift.ExpectedEndSaldo.String()),
		zap.String("discrepancy", discrepancy.String()),
	)
	s.publish(ctx, events)

	response := ToShiftResponse(shift)
	return &response, nil
}

func (s *ShiftService) idempotencyKey(cmd RecordTransactionCommand) string {
	if s.idempotency == nil || cmd.IdempotencyKey == "" {
		return ""
	}
	return fmt.Sprintf("cashdesk:transaction:%s:%s", cmd.ShiftID, cmd.IdempotencyKey)
}

func (s *ShiftService) publish(ctx context.Context, events []shared.DomainEvent) {
	publishEvents(ctx, s.eventPublisher, s.logger, events)
}

// publishEvents hands committed events to the bus. Handler failures are
// logged by the bus; a publish error is only logged here since the action
// has already committed.
func publishEvents(ctx context.Context, publisher shared.EventPublisher, logger *zap.Logger, events []shared.DomainEvent) {
	if publisher == nil || len(events) == 0 {
		return
	}
	if err := publisher.Publish(ctx, events...); err != nil {
		logger.Warn("Failed to publish domain events", zap.Int("count", len(events)), zap.Error(err))
	}
}

// ensureNoOpenShift fails with SHIFT_ALREADY_OPEN naming the drawer when the
// user already has an open shift anywhere
func ensureNoOpenShift(ctx context.Context, repos TransactionalRepositories, userID uuid.UUID) error {
	open, err := repos.ShiftRepo().FindOpenByUser(ctx, userID)
	if errors.Is(err, shared.ErrNotFound) {
		return nil
	}
	if err != nil {
		return err
	}
	drawer, err := repos.DrawerRepo().FindByID(ctx, open.DrawerID)
	if err != nil {
		return cashdesk.ErrShiftAlreadyOpen
	}
	return cashdesk.NewShiftAlreadyOpenError(drawer.Name)
}

func ensureOwner(shift *cashdesk.CashierShift, userID uuid.UUID) error {
	if shift.UserID != userID {
		return shared.NewFieldError(shared.CodeForbidden, "shift", "Shift belongs to another cashier")
	}
	return nil
}

// rebuildDrawerBalances replaces the drawer's balances with the reconciled
// amounts of one shift
func rebuildDrawerBalances(ctx context.Context, repos TransactionalRepositories, drawerID uuid.UUID, rows []cashdesk.EndSaldo) error {
	drawer, err := repos.DrawerRepo().FindByID(ctx, drawerID)
	if err != nil {
		return err
	}
	drawer.ReplaceBalances(cashdesk.BalancesFromEndSaldos(rows))
	return repos.DrawerRepo().SaveWithLock(ctx, drawer)
}

func toTransactionEntry(cmd RecordTransactionCommand) cashdesk.TransactionEntry {
	entry := cashdesk.TransactionEntry{
		Type:        cashdesk.TransactionType(cmd.Type),
		Amount:      cmd.Amount,
		Currency:    valueobject.Currency(cmd.Currency),
		OutCurrency: valueobject.Currency(cmd.OutCurrency),
		Category:    cashdesk.TransactionCategory(cmd.Category),
		Reference:   cmd.Reference,
		Notes:       cmd.Notes,
	}
	if cmd.OutAmount != nil {
		entry.OutAmount = *cmd.OutAmount
	}
	if cmd.OccurredAt != nil {
		entry.OccurredAt = *cmd.OccurredAt
	}
	return entry
}
