package cashdesk

import (
	"context"

	"github.com/google/uuid"
	"github.com/hotelops/backend/internal/domain/cashdesk"
	"github.com/hotelops/backend/internal/domain/shared"
	"github.com/hotelops/backend/internal/infrastructure/telemetry"
	"go.uber.org/zap"
)

// ApprovalService runs the manager review of shifts closed with a discrepancy
type ApprovalService struct {
	scope          TransactionScope
	logger         *zap.Logger
	eventPublisher shared.EventPublisher
}

// NewApprovalService creates a new ApprovalService
func NewApprovalService(scope TransactionScope, logger *zap.Logger) *ApprovalService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &ApprovalService{scope: scope, logger: logger}
}

// SetEventPublisher sets the publisher used after each committed review
func (s *ApprovalService) SetEventPublisher(publisher shared.EventPublisher) {
	s.eventPublisher = publisher
}

// Approve accepts the counted amounts as they are and closes the shift.
// The drawer balances are rebuilt from the shift's end saldos.
func (s *ApprovalService) Approve(ctx context.Context, cmd ApproveShiftCommand) (*ShiftResponse, error) {
	ctx, span := telemetry.StartServiceSpan(ctx, "shift_review", "approve")
	defer span.End()

	telemetry.SetAttributes(span,
		telemetry.SpanAttrShiftID, cmd.ShiftID.String(),
		telemetry.SpanAttrUserID, cmd.ManagerID.String(),
	)

	if err := validateCommand(cmd); err != nil {
		telemetry.RecordError(span, err)
		return nil, err
	}

	shift, events, err := s.review(ctx, cmd.ShiftID, func(c context.Context, repos TransactionalRepositories, shift *cashdesk.CashierShift) error {
		if err := shift.Approve(cmd.ManagerID, cmd.Notes); err != nil {
			return err
		}
		if err := repos.ShiftRepo().SaveWithLock(c, shift); err != nil {
			return err
		}
		rows, err := repos.EndSaldoRepo().FindByShift(c, shift.ID)
		if err != nil {
			return err
		}
		return rebuildDrawerBalances(c, repos, shift.DrawerID, rows)
	})
	if err != nil {
		telemetry.RecordError(span, err)
		return nil, err
	}

	s.logger.Info("Shift approved",
		zap.String("shift_id", shift.ID.String()),
		zap.String("approved_by", cmd.ManagerID.String()),
	)
	publishEvents(ctx, s.eventPublisher, s.logger, events)

	response := ToShiftResponse(shift)
	return &response, nil
}

// Reject reopens the shift so the cashier can recount. It fails with
// SHIFT_ALREADY_OPEN when the cashier has opened another shift since.
func (s *ApprovalService) Reject(ctx context.Context, cmd RejectShiftCommand) (*ShiftResponse, error) {
	ctx, span := telemetry.StartServiceSpan(ctx, "shift_review", "reject")
	defer span.End()

	telemetry.SetAttributes(span,
		telemetry.SpanAttrShiftID, cmd.ShiftID.String(),
		telemetry.SpanAttrUserID, cmd.ManagerID.String(),
	)

	if err := validateCommand(cmd); err != nil {
		telemetry.RecordError(span, err)
		return nil, err
	}

	shift, events, err := s.review(ctx, cmd.ShiftID, func(c context.Context, repos TransactionalRepositories, shift *cashdesk.CashierShift) error {
		if err := shift.Reject(cmd.ManagerID, cmd.Reason); err != nil {
			return err
		}
		if err := ensureNoOpenShift(c, repos, shift.UserID); err != nil {
			return err
		}
		return repos.ShiftRepo().SaveWithLock(c, shift)
	})
	if err != nil {
		telemetry.RecordError(span, err)
		return nil, err
	}

	s.logger.Info("Shift rejected",
		zap.String("shift_id", shift.ID.String()),
		zap.String("rejected_by", cmd.ManagerID.String()),
		zap.String("reason", shift.RejectionReason),
	)
	publishEvents(ctx, s.eventPublisher, s.logger, events)

	response := ToShiftResponse(shift)
	return &response, nil
}

// ApproveWithAdjustment overrides the counted amount of the given currencies,
// closes the shift and rebuilds the drawer balances from every end saldo of
// the shift in one write.
func (s *ApprovalService) ApproveWithAdjustment(ctx context.Context, cmd AdjustShiftCommand) (*ShiftResponse, error) {
	ctx, span := telemetry.StartServiceSpan(ctx, "shift_review", "approve_with_adjustment")
	defer span.End()

	telemetry.SetAttributes(span,
		telemetry.SpanAttrShiftID, cmd.ShiftID.String(),
		telemetry.SpanAttrUserID, cmd.ManagerID.String(),
		"adjusted_currencies", len(cmd.AdjustedAmounts),
	)

	if err := validateCommand(cmd); err != nil {
		telemetry.RecordError(span, err)
		return nil, err
	}
	adjusted := toBalances(cmd.AdjustedAmounts)

	shift, events, err := s.review(ctx, cmd.ShiftID, func(c context.Context, repos TransactionalRepositories, shift *cashdesk.CashierShift) error {
		existing, err := repos.EndSaldoRepo().FindByShift(c, shift.ID)
		if err != nil {
			return err
		}
		rows, err := shift.ApproveWithAdjustment(cmd.ManagerID, adjusted, cmd.Reason, existing)
		if err != nil {
			return err
		}
		if err := repos.EndSaldoRepo().SaveAll(c, rows); err != nil {
			return err
		}
		if err := repos.ShiftRepo().SaveWithLock(c, shift); err != nil {
			return err
		}
		return rebuildDrawerBalances(c, repos, shift.DrawerID, rows)
	})
	if err != nil {
		telemetry.RecordError(span, err)
		return nil, err
	}

	s.logger.Info("Shift approved with adjustment",
		zap.String("shift_id", shift.ID.String()),
		zap.String("approved_by", cmd.ManagerID.String()),
		zap.Strings("currencies", currencyCodes(adjusted)),
	)
	publishEvents(ctx, s.eventPublisher, s.logger, events)

	response := ToShiftResponse(shift)
	return &response, nil
}

// review loads the shift inside a transaction, applies fn and collects the
// events it raised
func (s *ApprovalService) review(
	ctx context.Context,
	shiftID uuid.UUID,
	fn func(c context.Context, repos TransactionalRepositories, shift *cashdesk.CashierShift) error,
) (*cashdesk.CashierShift, []shared.DomainEvent, error) {
	var shift *cashdesk.CashierShift
	var events []shared.DomainEvent
	var operationErr error
	telemetry.WithProfilingLabels(ctx, telemetry.CashdeskOperationLabels(telemetry.OperationReviewShift, ""), func(c context.Context) {
		operationErr = s.scope.Execute(c, func(repos TransactionalRepositories) error {
			var err error
			shift, err = repos.ShiftRepo().FindByID(c, shiftID)
			if err != nil {
				return err
			}
			if err := fn(c, repos, shift); err != nil {
				return err
			}
			events = shift.PullDomainEvents()
			return nil
		})
	})
	if operationErr != nil {
		return nil, nil, operationErr
	}
	return shift, events, nil
}

func currencyCodes(b cashdesk.Balances) []string {
	currencies := b.Currencies()
	codes := make([]string, len(currencies))
	for i, c := range currencies {
		codes[i] = c.String()
	}
	return codes
}
