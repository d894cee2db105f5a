package domain

import "time"

const (
	OrderCreatedEventType       = "order.created"
	OrderStatusChangedEventType = "order.status.changed"
)

// OrderCreatedEvent 订单创建事件
type OrderCreatedEvent struct {
	OrderNo        string           `json:"order_no"`
	UserID         string           `json:"user_id"`
	Lines          []OrderLineEvent `json:"lines"`
	ShippingMethod string           `json:"shipping_method"`
	ShippingFee    string           `json:"shipping_fee"`
	Total          string           `json:"total"`
	Timestamp      time.Time        `json:"timestamp"`
}

type OrderLineEvent struct {
	ProductID uint   `json:"product_id"`
	Size      string `json:"size,omitempty"`
	Color     string `json:"color,omitempty"`
	Quantity  int64  `json:"quantity"`
	UnitPrice string `json:"unit_price"`
}

// OrderStatusChangedEvent 订单状态变更事件
type OrderStatusChangedEvent struct {
	OrderNo   string    `json:"order_no"`
	UserID    string    `json:"user_id"`
	OldStatus string    `json:"old_status"`
	NewStatus string    `json:"new_status"`
	Timestamp time.Time `json:"timestamp"`
}
