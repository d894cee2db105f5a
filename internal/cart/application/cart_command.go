package application

import (
	"context"

	"github.com/wyfcoding/ecommerce/internal/cart/domain"
	"github.com/wyfcoding/pkg/logging"
)

// CartCommandService 购物车写路径。
// 每次变更都重新取目录快照做守卫校验，落库后刷新客户端快照。
// 单个用户的会话串行访问自己的购物车，聚合内部不加锁。
type CartCommandService struct {
	repo      domain.CartRepository
	catalog   domain.CatalogReader
	snapshots domain.SnapshotStore
}

func NewCartCommandService(repo domain.CartRepository, catalog domain.CatalogReader, snapshots domain.SnapshotStore) *CartCommandService {
	return &CartCommandService{repo: repo, catalog: catalog, snapshots: snapshots}
}

// AddLine 追加（或合并）一行，返回合并后的行数量。
func (s *CartCommandService) AddLine(ctx context.Context, userID string, productID uint, size, color string, qty int64) (int64, error) {
	snapshot, err := s.catalog.GetProduct(ctx, productID)
	if err != nil {
		return 0, err
	}
	cart, err := s.repo.GetByUserID(ctx, userID)
	if err != nil {
		return 0, err
	}

	lineQty, err := cart.AddLine(snapshot, size, color, qty)
	if err != nil {
		return 0, err
	}
	if err := s.repo.Save(ctx, cart); err != nil {
		return 0, err
	}
	s.persistSnapshot(ctx, cart)
	return lineQty, nil
}

// SetQuantity 覆盖行数量，qty <= 0 删除该行。
func (s *CartCommandService) SetQuantity(ctx context.Context, userID string, productID uint, size, color string, qty int64) error {
	cart, err := s.repo.GetByUserID(ctx, userID)
	if err != nil {
		return err
	}

	if qty <= 0 {
		// 删除不需要目录快照，且对缺失行幂等。
		cart.RemoveLine(productID, size, color)
	} else {
		snapshot, err := s.catalog.GetProduct(ctx, productID)
		if err != nil {
			return err
		}
		if err := cart.SetQuantity(snapshot, size, color, qty); err != nil {
			return err
		}
	}

	if err := s.repo.Save(ctx, cart); err != nil {
		return err
	}
	s.persistSnapshot(ctx, cart)
	return nil
}

// RemoveLine 无条件删除一行。
func (s *CartCommandService) RemoveLine(ctx context.Context, userID string, productID uint, size, color string) error {
	cart, err := s.repo.GetByUserID(ctx, userID)
	if err != nil {
		return err
	}
	cart.RemoveLine(productID, size, color)
	if err := s.repo.Save(ctx, cart); err != nil {
		return err
	}
	s.persistSnapshot(ctx, cart)
	return nil
}

// ClearCart 清空购物车。
func (s *CartCommandService) ClearCart(ctx context.Context, userID string) error {
	if err := s.repo.Delete(ctx, userID); err != nil {
		return err
	}
	if err := s.snapshots.Remove(ctx, userID); err != nil {
		logging.Warn(ctx, "failed to remove cart snapshot", "user_id", userID, "error", err)
	}
	return nil
}

// HydrateFromSnapshot 会话开始时从客户端持有态重建购物车。
func (s *CartCommandService) HydrateFromSnapshot(ctx context.Context, userID string) (*domain.Cart, error) {
	lines, err := s.snapshots.Get(ctx, userID)
	if err != nil {
		return nil, err
	}
	cart, err := s.repo.GetByUserID(ctx, userID)
	if err != nil {
		return nil, err
	}
	if len(lines) > 0 && cart.IsEmpty() {
		cart.Hydrate(lines)
		if err := s.repo.Save(ctx, cart); err != nil {
			return nil, err
		}
	}
	return cart, nil
}

// 快照写失败不阻塞主流程，下一次变更会覆盖。
func (s *CartCommandService) persistSnapshot(ctx context.Context, cart *domain.Cart) {
	if err := s.snapshots.Set(ctx, cart.UserID, cart.Snapshot()); err != nil {
		logging.Warn(ctx, "failed to persist cart snapshot", "user_id", cart.UserID, "error", err)
	}
}
