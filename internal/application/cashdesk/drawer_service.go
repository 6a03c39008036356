package cashdesk

import (
	"context"
	"strings"

	"github.com/google/uuid"
	"github.com/hotelops/backend/internal/domain/cashdesk"
	"github.com/hotelops/backend/internal/domain/shared"
	"go.uber.org/zap"
)

// DrawerService administers cash drawers
type DrawerService struct {
	scope  TransactionScope
	repos  TransactionalRepositories
	logger *zap.Logger
}

// NewDrawerService creates a new DrawerService. repos serves reads outside
// a transaction.
func NewDrawerService(scope TransactionScope, repos TransactionalRepositories, logger *zap.Logger) *DrawerService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &DrawerService{scope: scope, repos: repos, logger: logger}
}

// CreateDrawer registers an active drawer with empty balances
func (s *DrawerService) CreateDrawer(ctx context.Context, cmd CreateDrawerCommand) (*DrawerResponse, error) {
	if err := validateCommand(cmd); err != nil {
		return nil, err
	}
	drawer, err := cashdesk.NewCashDrawer(cmd.Name, cmd.Location)
	if err != nil {
		return nil, err
	}
	if err := s.repos.DrawerRepo().Create(ctx, drawer); err != nil {
		s.logger.Error("Failed to create cash drawer", zap.String("name", drawer.Name), zap.Error(err))
		return nil, err
	}

	s.logger.Info("Cash drawer created",
		zap.String("drawer_id", drawer.ID.String()),
		zap.String("name", drawer.Name),
	)
	response := ToDrawerResponse(drawer)
	return &response, nil
}

// GetDrawer returns one drawer
func (s *DrawerService) GetDrawer(ctx context.Context, id uuid.UUID) (*DrawerResponse, error) {
	drawer, err := s.repos.DrawerRepo().FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	response := ToDrawerResponse(drawer)
	return &response, nil
}

// ListDrawers lists drawers, optionally only active or inactive ones
func (s *DrawerService) ListDrawers(ctx context.Context, filter DrawerListFilter) (*shared.Paginated[DrawerResponse], error) {
	domainFilter := cashdesk.DrawerFilter{
		Filter:   toPageFilter(filter.Page, filter.PageSize, filter.OrderBy, filter.OrderDir, "name"),
		IsActive: filter.IsActive,
		Search:   strings.TrimSpace(filter.Search),
	}
	if filter.OrderDir == "" {
		domainFilter.OrderDir = "asc"
	}

	drawers, err := s.repos.DrawerRepo().FindAll(ctx, domainFilter)
	if err != nil {
		return nil, err
	}
	total, err := s.repos.DrawerRepo().Count(ctx, domainFilter)
	if err != nil {
		return nil, err
	}
	page := shared.NewPaginated(ToDrawerResponses(drawers), total, domainFilter.Page, domainFilter.PageSize)
	return &page, nil
}

// UpdateDrawer changes a drawer's name and location
func (s *DrawerService) UpdateDrawer(ctx context.Context, cmd UpdateDrawerCommand) (*DrawerResponse, error) {
	if err := validateCommand(cmd); err != nil {
		return nil, err
	}
	return s.mutate(ctx, cmd.ID, "updated", func(_ context.Context, _ TransactionalRepositories, d *cashdesk.CashDrawer) error {
		return d.Update(cmd.Name, cmd.Location)
	})
}

// ActivateDrawer allows new shifts on a drawer
func (s *DrawerService) ActivateDrawer(ctx context.Context, id uuid.UUID) (*DrawerResponse, error) {
	return s.mutate(ctx, id, "activated", func(_ context.Context, _ TransactionalRepositories, d *cashdesk.CashDrawer) error {
		d.Activate()
		return nil
	})
}

// DeactivateDrawer blocks new shifts on a drawer. It is refused while a
// shift is open on it.
func (s *DrawerService) DeactivateDrawer(ctx context.Context, id uuid.UUID) (*DrawerResponse, error) {
	return s.mutate(ctx, id, "deactivated", func(c context.Context, repos TransactionalRepositories, d *cashdesk.CashDrawer) error {
		open, err := repos.ShiftRepo().ExistsOpenForDrawer(c, d.ID)
		if err != nil {
			return err
		}
		if open {
			return cashdesk.ErrDrawerHasOpenShift
		}
		d.Deactivate()
		return nil
	})
}

func (s *DrawerService) mutate(
	ctx context.Context,
	id uuid.UUID,
	action string,
	fn func(c context.Context, repos TransactionalRepositories, d *cashdesk.CashDrawer) error,
) (*DrawerResponse, error) {
	var drawer *cashdesk.CashDrawer
	err := s.scope.Execute(ctx, func(repos TransactionalRepositories) error {
		var err error
		drawer, err = repos.DrawerRepo().FindByID(ctx, id)
		if err != nil {
			return err
		}
		if err := fn(ctx, repos, drawer); err != nil {
			return err
		}
		return repos.DrawerRepo().SaveWithLock(ctx, drawer)
	})
	if err != nil {
		return nil, err
	}

	s.logger.Info("Cash drawer "+action,
		zap.String("drawer_id", drawer.ID.String()),
		zap.Bool("is_active", drawer.IsActive),
	)
	response := ToDrawerResponse(drawer)
	return &response, nil
}
