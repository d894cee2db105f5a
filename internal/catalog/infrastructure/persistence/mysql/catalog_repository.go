package mysql

import (
	"context"
	"errors"

	"github.com/wyfcoding/ecommerce/internal/catalog/domain"
	"github.com/wyfcoding/pkg/contextx"
	"gorm.io/gorm"
)

type productRepository struct{ db *gorm.DB }

func NewProductRepository(db *gorm.DB) domain.ProductRepository {
	return &productRepository{db: db}
}

func (r *productRepository) getDB(ctx context.Context) *gorm.DB {
	if tx, ok := contextx.GetTx(ctx).(*gorm.DB); ok {
		return tx
	}
	return r.db
}

func (r *productRepository) Save(ctx context.Context, product *domain.Product) error {
	return r.getDB(ctx).WithContext(ctx).Save(product).Error
}

func (r *productRepository) GetByID(ctx context.Context, id uint) (*domain.Product, error) {
	var p domain.Product
	err := r.getDB(ctx).WithContext(ctx).
		Where("id = ? AND status = ?", id, domain.ProductStatusActive).
		First(&p).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domain.ErrProductNotFound
		}
		return nil, err
	}
	return &p, nil
}

func (r *productRepository) List(ctx context.Context, category string, offset, limit int) ([]*domain.Product, int64, error) {
	var products []*domain.Product
	var total int64
	q := r.getDB(ctx).WithContext(ctx).Model(&domain.Product{}).
		Where("status = ?", domain.ProductStatusActive)
	if category != "" {
		q = q.Where("category = ?", category)
	}
	if err := q.Count(&total).Error; err != nil {
		return nil, 0, err
	}
	err := q.Order("id").Offset(offset).Limit(limit).Find(&products).Error
	return products, total, err
}

// DecrementStock 单条条件更新，靠 RowsAffected 判定并发冲突。
// track_quantity 关闭的商品无条件通过。
func (r *productRepository) DecrementStock(ctx context.Context, id uint, qty int64) error {
	result := r.getDB(ctx).WithContext(ctx).
		Exec(`UPDATE products
		      SET available_quantity = CASE WHEN track_quantity THEN available_quantity - ? ELSE available_quantity END
		      WHERE id = ? AND status = ? AND (track_quantity = false OR available_quantity >= ?)`,
			qty, id, domain.ProductStatusActive, qty)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return domain.ErrStockConflict
	}
	return nil
}

func (r *productRepository) IncrementStock(ctx context.Context, id uint, qty int64) error {
	result := r.getDB(ctx).WithContext(ctx).
		Exec(`UPDATE products SET available_quantity = available_quantity + ? WHERE id = ? AND status = ?`,
			qty, id, domain.ProductStatusActive)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return domain.ErrProductNotFound
	}
	return nil
}

func (r *productRepository) WithTx(ctx context.Context, fn func(txCtx context.Context) error) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		txCtx := contextx.WithTx(ctx, tx)
		return fn(txCtx)
	})
}
