package catalogreader

import (
	"context"
	"errors"

	cartdomain "github.com/wyfcoding/ecommerce/internal/cart/domain"
	catalogdomain "github.com/wyfcoding/ecommerce/internal/catalog/domain"
)

// reader 把目录仓储适配成购物车需要的快照视图。
type reader struct {
	products catalogdomain.ProductRepository
}

func New(products catalogdomain.ProductRepository) cartdomain.CatalogReader {
	return &reader{products: products}
}

func (r *reader) GetProduct(ctx context.Context, productID uint) (cartdomain.ProductSnapshot, error) {
	p, err := r.products.GetByID(ctx, productID)
	if err != nil {
		if errors.Is(err, catalogdomain.ErrProductNotFound) {
			return cartdomain.ProductSnapshot{}, cartdomain.ErrProductUnavailable
		}
		return cartdomain.ProductSnapshot{}, err
	}
	return cartdomain.ProductSnapshot{
		ID:                p.ID,
		Name:              p.Name,
		BasePrice:         p.BasePrice,
		DiscountPercent:   p.DiscountPercent,
		TrackQuantity:     p.TrackQuantity,
		AvailableQuantity: p.AvailableQuantity,
		Active:            p.IsActive(),
	}, nil
}
