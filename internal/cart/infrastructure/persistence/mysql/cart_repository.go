package mysql

import (
	"context"
	"errors"

	"github.com/wyfcoding/ecommerce/internal/cart/domain"
	"github.com/wyfcoding/pkg/contextx"
	"gorm.io/gorm"
)

type cartRepository struct{ db *gorm.DB }

func NewCartRepository(db *gorm.DB) domain.CartRepository {
	return &cartRepository{db: db}
}

func (r *cartRepository) getDB(ctx context.Context) *gorm.DB {
	if tx, ok := contextx.GetTx(ctx).(*gorm.DB); ok {
		return tx
	}
	return r.db
}

func (r *cartRepository) GetByUserID(ctx context.Context, userID string) (*domain.Cart, error) {
	var cart domain.Cart
	err := r.getDB(ctx).WithContext(ctx).Preload("Lines").Where("user_id = ?", userID).First(&cart).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return &domain.Cart{UserID: userID}, nil
	}
	return &cart, err
}

func (r *cartRepository) Save(ctx context.Context, cart *domain.Cart) error {
	db := r.getDB(ctx).WithContext(ctx)
	if err := db.Session(&gorm.Session{FullSaveAssociations: true}).Save(cart).Error; err != nil {
		return err
	}
	// 聚合里已删除的行要从关联表清掉
	ids := make([]uint, 0, len(cart.Lines))
	for i := range cart.Lines {
		if cart.Lines[i].ID != 0 {
			ids = append(ids, cart.Lines[i].ID)
		}
	}
	q := db.Where("cart_id = ?", cart.ID)
	if len(ids) > 0 {
		q = q.Where("id NOT IN ?", ids)
	}
	return q.Delete(&domain.CartLine{}).Error
}

func (r *cartRepository) ClearLines(ctx context.Context, userID string, keys []domain.LineKey) error {
	if len(keys) == 0 {
		return nil
	}
	db := r.getDB(ctx).WithContext(ctx)
	var cart domain.Cart
	if err := db.Where("user_id = ?", userID).First(&cart).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil
		}
		return err
	}
	for _, key := range keys {
		if err := db.Where("cart_id = ? AND product_id = ? AND size = ? AND color = ?",
			cart.ID, key.ProductID, key.Size, key.Color).
			Delete(&domain.CartLine{}).Error; err != nil {
			return err
		}
	}
	return nil
}

func (r *cartRepository) Delete(ctx context.Context, userID string) error {
	db := r.getDB(ctx).WithContext(ctx)
	var cart domain.Cart
	if err := db.Where("user_id = ?", userID).First(&cart).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil
		}
		return err
	}
	if err := db.Where("cart_id = ?", cart.ID).Delete(&domain.CartLine{}).Error; err != nil {
		return err
	}
	// user_id 带唯一索引，软删墓碑会挡住该用户下一个购物车
	return db.Unscoped().Delete(&cart).Error
}
