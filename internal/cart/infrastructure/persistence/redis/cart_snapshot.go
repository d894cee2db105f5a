package redis

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/wyfcoding/ecommerce/internal/cart/domain"
)

// CartSnapshotStore 客户端持有态的 redis 适配：会话开始时 hydrate，
// 每次变更后整体覆盖写。
type CartSnapshotStore struct {
	client redis.UniversalClient
	prefix string
	ttl    time.Duration
}

func NewCartSnapshotStore(client redis.UniversalClient) *CartSnapshotStore {
	return &CartSnapshotStore{
		client: client,
		prefix: "cart:snapshot:",
		ttl:    30 * 24 * time.Hour,
	}
}

func (s *CartSnapshotStore) Get(ctx context.Context, userID string) ([]domain.LineSnapshot, error) {
	data, err := s.client.Get(ctx, s.key(userID)).Bytes()
	if err != nil {
		if err == redis.Nil {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get cart snapshot: %w", err)
	}
	var lines []domain.LineSnapshot
	if err := json.Unmarshal(data, &lines); err != nil {
		return nil, fmt.Errorf("failed to unmarshal cart snapshot: %w", err)
	}
	return lines, nil
}

func (s *CartSnapshotStore) Set(ctx context.Context, userID string, lines []domain.LineSnapshot) error {
	data, err := json.Marshal(lines)
	if err != nil {
		return fmt.Errorf("failed to marshal cart snapshot: %w", err)
	}
	return s.client.Set(ctx, s.key(userID), data, s.ttl).Err()
}

func (s *CartSnapshotStore) Remove(ctx context.Context, userID string) error {
	return s.client.Del(ctx, s.key(userID)).Err()
}

func (s *CartSnapshotStore) key(userID string) string {
	return s.prefix + userID
}
