package application

import (
	"context"
	"fmt"

	"github.com/wyfcoding/ecommerce/internal/notification/domain"
	"github.com/wyfcoding/pkg/idgen"
	"github.com/wyfcoding/pkg/logging"
)

// OrderCreatedNotice 订单创建通知的输入
type OrderCreatedNotice struct {
	OrderNo string
	UserID  string
	Total   string
}

// OrderStatusNotice 订单状态变更通知的输入
type OrderStatusNotice struct {
	OrderNo   string
	UserID    string
	OldStatus string
	NewStatus string
}

// NotificationService 把订单事件落库为通知记录并投递。
// 发送失败只记录状态，不阻塞消费。
type NotificationService struct {
	repo   domain.NotificationRepository
	sender domain.Sender
}

func NewNotificationService(repo domain.NotificationRepository, sender domain.Sender) *NotificationService {
	return &NotificationService{repo: repo, sender: sender}
}

// NotifyOrderCreated 记录并投递下单成功通知。
func (s *NotificationService) NotifyOrderCreated(ctx context.Context, notice OrderCreatedNotice) error {
	notification := &domain.Notification{
		NotificationID: fmt.Sprintf("NTF-%d", idgen.GenID()),
		UserID:         notice.UserID,
		Type:           domain.NotificationTypeOrderCreated,
		OrderNo:        notice.OrderNo,
		Subject:        "订单创建成功",
		Content:        fmt.Sprintf("订单 %s 已创建，应付金额 %s。", notice.OrderNo, notice.Total),
		Status:         domain.NotificationStatusPending,
	}
	return s.deliver(ctx, notification)
}

// NotifyOrderStatusChanged 记录并投递订单状态变更通知。
func (s *NotificationService) NotifyOrderStatusChanged(ctx context.Context, notice OrderStatusNotice) error {
	notification := &domain.Notification{
		NotificationID: fmt.Sprintf("NTF-%d", idgen.GenID()),
		UserID:         notice.UserID,
		Type:           domain.NotificationTypeOrderStatus,
		OrderNo:        notice.OrderNo,
		Subject:        "订单状态更新",
		Content:        fmt.Sprintf("订单 %s 状态由 %s 变更为 %s。", notice.OrderNo, notice.OldStatus, notice.NewStatus),
		Status:         domain.NotificationStatusPending,
	}
	return s.deliver(ctx, notification)
}

func (s *NotificationService) deliver(ctx context.Context, notification *domain.Notification) error {
	if err := s.sender.Send(ctx, notification.UserID, notification.Subject, notification.Content); err != nil {
		logging.Warn(ctx, "Failed to send notification",
			"notification_id", notification.NotificationID,
			"user_id", notification.UserID,
			"error", err)
		notification.MarkFailed(err)
	} else {
		notification.MarkSent()
	}
	return s.repo.Save(ctx, notification)
}

// ListNotifications 分页查询用户通知历史。
func (s *NotificationService) ListNotifications(ctx context.Context, userID string, limit, offset int) ([]*domain.Notification, int64, error) {
	if limit <= 0 {
		limit = 20
	}
	if offset < 0 {
		offset = 0
	}
	return s.repo.ListByUserID(ctx, userID, limit, offset)
}
