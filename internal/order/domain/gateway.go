package domain

import (
	"context"

	"github.com/shopspring/decimal"
)

// CatalogProduct 结算校验时刻的商品视图。
type CatalogProduct struct {
	ID                uint
	Name              string
	BasePrice         decimal.Decimal
	DiscountPercent   *decimal.Decimal
	TrackQuantity     bool
	AvailableQuantity int64
	Active            bool
}

// CatalogGateway 结算消费的目录窄接口。
type CatalogGateway interface {
	// GetProduct 商品不存在或已下架返回 (*ProductUnavailableError)。
	GetProduct(ctx context.Context, productID uint) (CatalogProduct, error)
	// DecrementStock 原子条件扣减，库存不足返回 (*StockConflictError)。
	// 必须尊重 context 中携带的事务。
	DecrementStock(ctx context.Context, productID uint, qty int64) error
}

// CartLineView 结算输入的购物车行。
type CartLineView struct {
	ProductID uint
	Size      string
	Color     string
	Quantity  int64
}

// CartGateway 结算消费的购物车窄接口。
type CartGateway interface {
	GetLines(ctx context.Context, userID string) ([]CartLineView, error)
	// ClearLines 清除已提交的行，必须尊重 context 中携带的事务。
	ClearLines(ctx context.Context, userID string, lines []CartLineView) error
	// RemoveSnapshot 作废客户端持有态快照，否则 hydrate 会复活已成单的行。
	RemoveSnapshot(ctx context.Context, userID string) error
}

// ShippingMethodView 结算选定的配送方式。
type ShippingMethodView struct {
	ID   uint
	Name string
	Fee  decimal.Decimal
}

// ShippingGateway 配送方式查询口。
type ShippingGateway interface {
	GetMethod(ctx context.Context, id uint) (ShippingMethodView, error)
}
