package application

import (
	"context"
	"time"

	"github.com/wyfcoding/ecommerce/internal/order/domain"
	"github.com/wyfcoding/pkg/contextx"
)

// UpdateStatusCommand 状态变更命令
type UpdateStatusCommand struct {
	OrderNo string
	Status  domain.OrderStatus
}

// CancelOrderCommand 取消订单命令
type CancelOrderCommand struct {
	OrderNo string
	UserID  string
}

// OrderCommandService 处理订单状态相关的命令操作
type OrderCommandService struct {
	repo      domain.OrderRepository
	publisher domain.EventPublisher
}

func NewOrderCommandService(repo domain.OrderRepository, publisher domain.EventPublisher) *OrderCommandService {
	return &OrderCommandService{repo: repo, publisher: publisher}
}

// UpdateStatus 沿生命周期推进订单状态，非法迁移被拒绝。
func (s *OrderCommandService) UpdateStatus(ctx context.Context, cmd UpdateStatusCommand) error {
	return s.repo.WithTx(ctx, func(txCtx context.Context) error {
		order, err := s.repo.GetByOrderNo(txCtx, cmd.OrderNo)
		if err != nil {
			return err
		}

		oldStatus := order.Status
		if err := order.TransitionTo(cmd.Status); err != nil {
			return err
		}
		if err := s.repo.Save(txCtx, order); err != nil {
			return err
		}

		event := domain.OrderStatusChangedEvent{
			OrderNo:   order.OrderNo,
			UserID:    order.UserID,
			OldStatus: string(oldStatus),
			NewStatus: string(order.Status),
			Timestamp: time.Now(),
		}
		return s.publisher.PublishInTx(txCtx, contextx.GetTx(txCtx), domain.OrderStatusChangedEventType, order.OrderNo, event)
	})
}

// CancelOrder 用户侧取消，只允许取消自己的非终态订单。
func (s *OrderCommandService) CancelOrder(ctx context.Context, cmd CancelOrderCommand) error {
	return s.repo.WithTx(ctx, func(txCtx context.Context) error {
		order, err := s.repo.GetByOrderNo(txCtx, cmd.OrderNo)
		if err != nil {
			return err
		}
		if order.UserID != cmd.UserID {
			return domain.ErrUnauthorized
		}

		oldStatus := order.Status
		if err := order.TransitionTo(domain.OrderStatusCancelled); err != nil {
			return err
		}
		if err := s.repo.Save(txCtx, order); err != nil {
			return err
		}

		event := domain.OrderStatusChangedEvent{
			OrderNo:   order.OrderNo,
			UserID:    order.UserID,
			OldStatus: string(oldStatus),
			NewStatus: string(order.Status),
			Timestamp: time.Now(),
		}
		return s.publisher.PublishInTx(txCtx, contextx.GetTx(txCtx), domain.OrderStatusChangedEventType, order.OrderNo, event)
	})
}
