package domain

import "context"

// CatalogReader 购物车侧消费的目录读取口。
// 商品不存在或已下架时返回 ErrProductUnavailable。
type CatalogReader interface {
	GetProduct(ctx context.Context, productID uint) (ProductSnapshot, error)
}
