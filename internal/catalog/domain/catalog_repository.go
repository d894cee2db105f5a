package domain

import "context"

type ProductRepository interface {
	Save(ctx context.Context, product *Product) error
	// GetByID 只返回 ACTIVE 商品，未找到或已删除返回 ErrProductNotFound。
	GetByID(ctx context.Context, id uint) (*Product, error)
	List(ctx context.Context, category string, offset, limit int) ([]*Product, int64, error)
	// DecrementStock 条件扣减库存：仅当 track_quantity 关闭或剩余库存充足时生效，
	// 否则返回 ErrStockConflict。实现必须是单条原子更新，可在调用方事务内执行。
	DecrementStock(ctx context.Context, id uint, qty int64) error
	// IncrementStock 回补库存（管理端补货）。
	IncrementStock(ctx context.Context, id uint, qty int64) error
	WithTx(ctx context.Context, fn func(txCtx context.Context) error) error
}

// EventPublisher 目录事件发布接口。
type EventPublisher interface {
	Publish(ctx context.Context, topic string, key string, event any) error
	PublishInTx(ctx context.Context, tx any, topic string, key string, event any) error
}
