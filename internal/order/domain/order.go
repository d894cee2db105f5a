// Package domain 包含订单与结算对账的领域模型。
package domain

import (
	"context"
	"errors"
	"fmt"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// OrderStatus 订单状态
type OrderStatus string

const (
	OrderStatusPending    OrderStatus = "PENDING"
	OrderStatusProcessing OrderStatus = "PROCESSING"
	OrderStatusShipped    OrderStatus = "SHIPPED"
	OrderStatusDelivered  OrderStatus = "DELIVERED"
	OrderStatusCancelled  OrderStatus = "CANCELLED"
)

var (
	ErrOrderNotFound     = errors.New("order not found")
	ErrInvalidTransition = errors.New("invalid order status transition")
	ErrEmptyCart         = errors.New("cart is empty")
	ErrUnauthorized      = errors.New("order does not belong to user")
)

// StockConflictError 结算提交阶段发现的库存竞争，携带可用量供客户端重渲染。
type StockConflictError struct {
	ProductID uint
	Available int64
}

func (e *StockConflictError) Error() string {
	return fmt.Sprintf("stock conflict for product %d: %d available", e.ProductID, e.Available)
}

// ProductUnavailableError 商品在结算校验时已不存在或已下架。
type ProductUnavailableError struct {
	ProductID uint
}

func (e *ProductUnavailableError) Error() string {
	return fmt.Sprintf("product %d is no longer available", e.ProductID)
}

// Order 订单实体。创建后除状态外不可变，永不删除。
type Order struct {
	gorm.Model
	OrderNo        string          `gorm:"column:order_no;type:varchar(32);uniqueIndex;not null" json:"order_no"`
	UserID         string          `gorm:"column:user_id;type:varchar(36);index;not null" json:"user_id"`
	Lines          []OrderLine     `gorm:"foreignKey:OrderID" json:"lines"`
	ShippingMethod string          `gorm:"column:shipping_method;type:varchar(100);not null" json:"shipping_method"`
	ShippingFee    decimal.Decimal `gorm:"column:shipping_fee;type:decimal(10,2);not null" json:"shipping_fee"`
	Total          decimal.Decimal `gorm:"column:total;type:decimal(12,2);not null" json:"total"`
	Status         OrderStatus     `gorm:"column:status;type:varchar(16);index;not null" json:"status"`
}

func (Order) TableName() string { return "orders" }

// OrderLine 订单行，单价在结算时刻冻结。
type OrderLine struct {
	gorm.Model
	OrderID   uint            `gorm:"column:order_id;index;not null" json:"-"`
	ProductID uint            `gorm:"column:product_id;not null" json:"product_id"`
	Name      string          `gorm:"column:name;type:varchar(255)" json:"name"`
	Size      string          `gorm:"column:size;type:varchar(20);not null;default:''" json:"size,omitempty"`
	Color     string          `gorm:"column:color;type:varchar(30);not null;default:''" json:"color,omitempty"`
	Quantity  int64           `gorm:"column:quantity;not null" json:"quantity"`
	UnitPrice decimal.Decimal `gorm:"column:unit_price;type:decimal(12,4);not null" json:"unit_price"`
}

func (OrderLine) TableName() string { return "order_lines" }

// transitions 合法状态迁移表。CANCELLED 可从任意非终态进入。
var transitions = map[OrderStatus][]OrderStatus{
	OrderStatusPending:    {OrderStatusProcessing, OrderStatusCancelled},
	OrderStatusProcessing: {OrderStatusShipped, OrderStatusCancelled},
	OrderStatusShipped:    {OrderStatusDelivered, OrderStatusCancelled},
	OrderStatusDelivered:  {},
	OrderStatusCancelled:  {},
}

// CanTransitionTo 是否允许迁移到目标状态。
func (o *Order) CanTransitionTo(next OrderStatus) bool {
	for _, allowed := range transitions[o.Status] {
		if allowed == next {
			return true
		}
	}
	return false
}

// TransitionTo 执行状态迁移，非法迁移返回 ErrInvalidTransition。
func (o *Order) TransitionTo(next OrderStatus) error {
	if !o.CanTransitionTo(next) {
		return fmt.Errorf("%w: %s -> %s", ErrInvalidTransition, o.Status, next)
	}
	o.Status = next
	return nil
}

// IsTerminal 是否处于终态。
func (o *Order) IsTerminal() bool {
	return o.Status == OrderStatusDelivered || o.Status == OrderStatusCancelled
}

// OrderRepository 订单仓储接口
type OrderRepository interface {
	Save(ctx context.Context, order *Order) error
	GetByOrderNo(ctx context.Context, orderNo string) (*Order, error)
	ListByUser(ctx context.Context, userID string, status OrderStatus, limit, offset int) ([]*Order, int64, error)
	// WithTx 事务执行，事务句柄通过 context 传递给同事务内的其它仓储调用。
	WithTx(ctx context.Context, fn func(txCtx context.Context) error) error
}

// EventPublisher 订单事件发布接口
type EventPublisher interface {
	Publish(ctx context.Context, topic string, key string, event any) error
	PublishInTx(ctx context.Context, tx any, topic string, key string, event any) error
}
