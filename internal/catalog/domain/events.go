package domain

import "time"

const (
	ProductCreatedEventType      = "product.created"
	ProductUpdatedEventType      = "product.updated"
	ProductStockChangedEventType = "product.stock.changed"
	ProductDeletedEventType      = "product.deleted"
)

// ProductCreatedEvent 商品创建事件
type ProductCreatedEvent struct {
	ProductID         uint      `json:"product_id"`
	Name              string    `json:"name"`
	BasePrice         string    `json:"base_price"`
	DiscountPercent   string    `json:"discount_percent,omitempty"`
	TrackQuantity     bool      `json:"track_quantity"`
	AvailableQuantity int64     `json:"available_quantity"`
	Category          string    `json:"category"`
	Timestamp         time.Time `json:"timestamp"`
}

// ProductUpdatedEvent 商品更新事件
type ProductUpdatedEvent struct {
	ProductID       uint      `json:"product_id"`
	Name            string    `json:"name"`
	BasePrice       string    `json:"base_price"`
	DiscountPercent string    `json:"discount_percent,omitempty"`
	Category        string    `json:"category"`
	Timestamp       time.Time `json:"timestamp"`
}

// ProductStockChangedEvent 商品库存变更事件
type ProductStockChangedEvent struct {
	ProductID uint      `json:"product_id"`
	OldStock  int64     `json:"old_stock"`
	NewStock  int64     `json:"new_stock"`
	Timestamp time.Time `json:"timestamp"`
}

// ProductDeletedEvent 商品删除（下架）事件
type ProductDeletedEvent struct {
	ProductID uint      `json:"product_id"`
	Name      string    `json:"name"`
	Timestamp time.Time `json:"timestamp"`
}
