package consumer

import (
	"context"
	"encoding/json"
	"log/slog"

	"github.com/segmentio/kafka-go"
	"github.com/wyfcoding/ecommerce/internal/notification/application"
	orderdomain "github.com/wyfcoding/ecommerce/internal/order/domain"
)

// OrderEventHandler 消费订单事件并生成通知。
type OrderEventHandler struct {
	service *application.NotificationService
	logger  *slog.Logger
}

func NewOrderEventHandler(service *application.NotificationService, logger *slog.Logger) *OrderEventHandler {
	return &OrderEventHandler{service: service, logger: logger}
}

func (h *OrderEventHandler) Handle(ctx context.Context, msg kafka.Message) error {
	switch msg.Topic {
	case orderdomain.OrderCreatedEventType:
		var event orderdomain.OrderCreatedEvent
		if err := json.Unmarshal(msg.Value, &event); err != nil {
			h.logger.ErrorContext(ctx, "failed to unmarshal order created event", "error", err)
			return err
		}
		if event.OrderNo == "" {
			return nil
		}
		return h.service.NotifyOrderCreated(ctx, application.OrderCreatedNotice{
			OrderNo: event.OrderNo,
			UserID:  event.UserID,
			Total:   event.Total,
		})
	case orderdomain.OrderStatusChangedEventType:
		var event orderdomain.OrderStatusChangedEvent
		if err := json.Unmarshal(msg.Value, &event); err != nil {
			h.logger.ErrorContext(ctx, "failed to unmarshal order status event", "error", err)
			return err
		}
		if event.OrderNo == "" {
			return nil
		}
		return h.service.NotifyOrderStatusChanged(ctx, application.OrderStatusNotice{
			OrderNo:   event.OrderNo,
			UserID:    event.UserID,
			OldStatus: event.OldStatus,
			NewStatus: event.NewStatus,
		})
	default:
		h.logger.WarnContext(ctx, "unknown order event topic", "topic", msg.Topic)
		return nil
	}
}
