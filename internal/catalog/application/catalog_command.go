package application

import (
	"context"
	"fmt"
	"time"

	"github.com/shopspring/decimal"
	"github.com/wyfcoding/ecommerce/internal/catalog/domain"
	"github.com/wyfcoding/pkg/contextx"
)

// CreateProductCommand 创建商品命令
type CreateProductCommand struct {
	Name              string
	Description       string
	Category          string
	BasePrice         decimal.Decimal
	DiscountPercent   *decimal.Decimal
	TrackQuantity     bool
	AvailableQuantity int64
}

// CatalogCommandService 商品目录命令服务
type CatalogCommandService struct {
	repo      domain.ProductRepository
	publisher domain.EventPublisher
}

// NewCatalogCommandService 创建商品目录命令服务实例
func NewCatalogCommandService(repo domain.ProductRepository, publisher domain.EventPublisher) *CatalogCommandService {
	return &CatalogCommandService{repo: repo, publisher: publisher}
}

// CreateProduct 处理创建商品
func (s *CatalogCommandService) CreateProduct(ctx context.Context, cmd CreateProductCommand) (uint, error) {
	product := &domain.Product{
		Name:              cmd.Name,
		Description:       cmd.Description,
		Category:          cmd.Category,
		BasePrice:         cmd.BasePrice,
		DiscountPercent:   cmd.DiscountPercent,
		TrackQuantity:     cmd.TrackQuantity,
		AvailableQuantity: cmd.AvailableQuantity,
		Status:            domain.ProductStatusActive,
	}
	if err := product.Validate(); err != nil {
		return 0, err
	}

	err := s.repo.WithTx(ctx, func(txCtx context.Context) error {
		if err := s.repo.Save(txCtx, product); err != nil {
			return err
		}
		event := domain.ProductCreatedEvent{
			ProductID:         product.ID,
			Name:              product.Name,
			BasePrice:         product.BasePrice.String(),
			TrackQuantity:     product.TrackQuantity,
			AvailableQuantity: product.AvailableQuantity,
			Category:          product.Category,
			Timestamp:         time.Now(),
		}
		if product.DiscountPercent != nil {
			event.DiscountPercent = product.DiscountPercent.String()
		}
		return s.publisher.PublishInTx(txCtx, contextx.GetTx(txCtx), domain.ProductCreatedEventType, fmt.Sprintf("%d", product.ID), event)
	})
	if err != nil {
		return 0, err
	}
	return product.ID, nil
}

// UpdateProduct 按补丁更新商品，只触碰补丁中置位的字段。
func (s *CatalogCommandService) UpdateProduct(ctx context.Context, id uint, patch domain.ProductPatch) error {
	return s.repo.WithTx(ctx, func(txCtx context.Context) error {
		product, err := s.repo.GetByID(txCtx, id)
		if err != nil {
			return err
		}

		oldStock := product.AvailableQuantity
		product.Apply(patch)
		if err := product.Validate(); err != nil {
			return err
		}
		if err := s.repo.Save(txCtx, product); err != nil {
			return err
		}

		event := domain.ProductUpdatedEvent{
			ProductID: product.ID,
			Name:      product.Name,
			BasePrice: product.BasePrice.String(),
			Category:  product.Category,
			Timestamp: time.Now(),
		}
		if product.DiscountPercent != nil {
			event.DiscountPercent = product.DiscountPercent.String()
		}
		if err := s.publisher.PublishInTx(txCtx, contextx.GetTx(txCtx), domain.ProductUpdatedEventType, fmt.Sprintf("%d", product.ID), event); err != nil {
			return err
		}

		if oldStock != product.AvailableQuantity {
			stockEvent := domain.ProductStockChangedEvent{
				ProductID: product.ID,
				OldStock:  oldStock,
				NewStock:  product.AvailableQuantity,
				Timestamp: time.Now(),
			}
			return s.publisher.PublishInTx(txCtx, contextx.GetTx(txCtx), domain.ProductStockChangedEventType, fmt.Sprintf("%d", product.ID), stockEvent)
		}
		return nil
	})
}

// DeleteProduct 下架商品（显式生命周期状态，而非直接删行）。
func (s *CatalogCommandService) DeleteProduct(ctx context.Context, id uint) error {
	return s.repo.WithTx(ctx, func(txCtx context.Context) error {
		product, err := s.repo.GetByID(txCtx, id)
		if err != nil {
			return err
		}
		product.MarkDeleted(time.Now())
		if err := s.repo.Save(txCtx, product); err != nil {
			return err
		}
		event := domain.ProductDeletedEvent{ProductID: product.ID, Name: product.Name, Timestamp: time.Now()}
		return s.publisher.PublishInTx(txCtx, contextx.GetTx(txCtx), domain.ProductDeletedEventType, fmt.Sprintf("%d", product.ID), event)
	})
}

// RestockProduct 管理端补货。
func (s *CatalogCommandService) RestockProduct(ctx context.Context, id uint, qty int64) error {
	if qty <= 0 {
		return domain.ErrInvalidQuantity
	}
	return s.repo.IncrementStock(ctx, id, qty)
}
