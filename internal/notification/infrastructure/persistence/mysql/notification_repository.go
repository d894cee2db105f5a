package mysql

import (
	"context"
	"errors"

	"github.com/wyfcoding/ecommerce/internal/notification/domain"
	"github.com/wyfcoding/pkg/contextx"
	"gorm.io/gorm"
)

type notificationRepository struct {
	db *gorm.DB
}

func NewNotificationRepository(db *gorm.DB) domain.NotificationRepository {
	return &notificationRepository{db: db}
}

func (r *notificationRepository) getDB(ctx context.Context) *gorm.DB {
	if tx, ok := contextx.GetTx(ctx).(*gorm.DB); ok {
		return tx
	}
	return r.db
}

func (r *notificationRepository) Save(ctx context.Context, notification *domain.Notification) error {
	return r.getDB(ctx).WithContext(ctx).Save(notification).Error
}

func (r *notificationRepository) Get(ctx context.Context, notificationID string) (*domain.Notification, error) {
	var notification domain.Notification
	err := r.getDB(ctx).WithContext(ctx).
		Where("notification_id = ?", notificationID).
		First(&notification).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domain.ErrNotificationNotFound
		}
		return nil, err
	}
	return &notification, nil
}

func (r *notificationRepository) ListByUserID(ctx context.Context, userID string, limit, offset int) ([]*domain.Notification, int64, error) {
	db := r.getDB(ctx).WithContext(ctx).Model(&domain.Notification{}).
		Where("user_id = ?", userID)

	var total int64
	if err := db.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var notifications []*domain.Notification
	err := db.Order("created_at DESC").
		Limit(limit).Offset(offset).
		Find(&notifications).Error
	if err != nil {
		return nil, 0, err
	}
	return notifications, total, nil
}
