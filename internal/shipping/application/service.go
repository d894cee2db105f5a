package application

import (
	"context"

	"github.com/shopspring/decimal"
	"github.com/wyfcoding/ecommerce/internal/shipping/domain"
)

type CreateMethodCommand struct {
	Name          string
	Fee           decimal.Decimal
	EstimatedDays int
}

// ShippingApplicationService 配送方式管理。
type ShippingApplicationService struct {
	repo domain.MethodRepository
}

func NewShippingApplicationService(repo domain.MethodRepository) *ShippingApplicationService {
	return &ShippingApplicationService{repo: repo}
}

func (s *ShippingApplicationService) CreateMethod(ctx context.Context, cmd CreateMethodCommand) (uint, error) {
	method := &domain.ShippingMethod{
		Name:          cmd.Name,
		Fee:           cmd.Fee,
		EstimatedDays: cmd.EstimatedDays,
		Active:        true,
	}
	if err := method.Validate(); err != nil {
		return 0, err
	}
	if err := s.repo.Save(ctx, method); err != nil {
		return 0, err
	}
	return method.ID, nil
}

func (s *ShippingApplicationService) GetMethod(ctx context.Context, id uint) (*domain.ShippingMethod, error) {
	return s.repo.GetActive(ctx, id)
}

func (s *ShippingApplicationService) ListMethods(ctx context.Context, includeInactive bool) ([]*domain.ShippingMethod, error) {
	return s.repo.List(ctx, includeInactive)
}

func (s *ShippingApplicationService) DeactivateMethod(ctx context.Context, id uint) error {
	return s.repo.Deactivate(ctx, id)
}
