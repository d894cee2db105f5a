package domain

import "context"

type CartRepository interface {
	// GetByUserID 不存在时返回空购物车，不报错。
	GetByUserID(ctx context.Context, userID string) (*Cart, error)
	Save(ctx context.Context, cart *Cart) error
	// ClearLines 删除指定行（结算提交后调用），可在调用方事务内执行。
	ClearLines(ctx context.Context, userID string, keys []LineKey) error
	Delete(ctx context.Context, userID string) error
}

// SnapshotStore 客户端持有态的存储适配器：按用户键 get/set/remove。
// 生命周期为"会话开始时 hydrate，每次变更后 persist"。
type SnapshotStore interface {
	Get(ctx context.Context, userID string) ([]LineSnapshot, error)
	Set(ctx context.Context, userID string, lines []LineSnapshot) error
	Remove(ctx context.Context, userID string) error
}
