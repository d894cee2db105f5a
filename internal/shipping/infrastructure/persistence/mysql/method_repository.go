package mysql

import (
	"context"
	"errors"

	"github.com/wyfcoding/ecommerce/internal/shipping/domain"
	"gorm.io/gorm"
)

type methodRepository struct{ db *gorm.DB }

func NewMethodRepository(db *gorm.DB) domain.MethodRepository {
	return &methodRepository{db: db}
}

func (r *methodRepository) Save(ctx context.Context, method *domain.ShippingMethod) error {
	return r.db.WithContext(ctx).Save(method).Error
}

func (r *methodRepository) GetActive(ctx context.Context, id uint) (*domain.ShippingMethod, error) {
	var m domain.ShippingMethod
	err := r.db.WithContext(ctx).Where("id = ? AND active = true", id).First(&m).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domain.ErrMethodNotFound
		}
		return nil, err
	}
	return &m, nil
}

func (r *methodRepository) List(ctx context.Context, includeInactive bool) ([]*domain.ShippingMethod, error) {
	var methods []*domain.ShippingMethod
	q := r.db.WithContext(ctx).Order("id")
	if !includeInactive {
		q = q.Where("active = true")
	}
	err := q.Find(&methods).Error
	return methods, err
}

func (r *methodRepository) Deactivate(ctx context.Context, id uint) error {
	result := r.db.WithContext(ctx).Model(&domain.ShippingMethod{}).
		Where("id = ?", id).Update("active", false)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return domain.ErrMethodNotFound
	}
	return nil
}
