// Package gateway 把目录、购物车、配送仓储适配成结算消费的窄接口。
// 各适配器透传 context，保证结算事务能贯穿到底层仓储。
package gateway

import (
	"context"
	"errors"

	cartdomain "github.com/wyfcoding/ecommerce/internal/cart/domain"
	catalogdomain "github.com/wyfcoding/ecommerce/internal/catalog/domain"
	orderdomain "github.com/wyfcoding/ecommerce/internal/order/domain"
	shippingdomain "github.com/wyfcoding/ecommerce/internal/shipping/domain"
)

type catalogGateway struct {
	products catalogdomain.ProductRepository
}

func NewCatalogGateway(products catalogdomain.ProductRepository) orderdomain.CatalogGateway {
	return &catalogGateway{products: products}
}

func (g *catalogGateway) GetProduct(ctx context.Context, productID uint) (orderdomain.CatalogProduct, error) {
	p, err := g.products.GetByID(ctx, productID)
	if err != nil {
		if errors.Is(err, catalogdomain.ErrProductNotFound) {
			return orderdomain.CatalogProduct{}, &orderdomain.ProductUnavailableError{ProductID: productID}
		}
		return orderdomain.CatalogProduct{}, err
	}
	return orderdomain.CatalogProduct{
		ID:                p.ID,
		Name:              p.Name,
		BasePrice:         p.BasePrice,
		DiscountPercent:   p.DiscountPercent,
		TrackQuantity:     p.TrackQuantity,
		AvailableQuantity: p.AvailableQuantity,
		Active:            p.IsActive(),
	}, nil
}

func (g *catalogGateway) DecrementStock(ctx context.Context, productID uint, qty int64) error {
	err := g.products.DecrementStock(ctx, productID, qty)
	if err == nil {
		return nil
	}
	if errors.Is(err, catalogdomain.ErrStockConflict) || errors.Is(err, catalogdomain.ErrProductNotFound) {
		// 冲突后重读拿不到行级精确值也没关系，尽力带上当前可用量
		var available int64
		if p, gerr := g.products.GetByID(ctx, productID); gerr == nil {
			available = p.AvailableQuantity
		}
		return &orderdomain.StockConflictError{ProductID: productID, Available: available}
	}
	return err
}

type cartGateway struct {
	carts     cartdomain.CartRepository
	snapshots cartdomain.SnapshotStore
}

func NewCartGateway(carts cartdomain.CartRepository, snapshots cartdomain.SnapshotStore) orderdomain.CartGateway {
	return &cartGateway{carts: carts, snapshots: snapshots}
}

func (g *cartGateway) GetLines(ctx context.Context, userID string) ([]orderdomain.CartLineView, error) {
	cart, err := g.carts.GetByUserID(ctx, userID)
	if err != nil {
		return nil, err
	}
	views := make([]orderdomain.CartLineView, 0, len(cart.Lines))
	for i := range cart.Lines {
		views = append(views, orderdomain.CartLineView{
			ProductID: cart.Lines[i].ProductID,
			Size:      cart.Lines[i].Size,
			Color:     cart.Lines[i].Color,
			Quantity:  cart.Lines[i].Quantity,
		})
	}
	return views, nil
}

func (g *cartGateway) ClearLines(ctx context.Context, userID string, lines []orderdomain.CartLineView) error {
	keys := make([]cartdomain.LineKey, 0, len(lines))
	for _, l := range lines {
		keys = append(keys, cartdomain.LineKey{ProductID: l.ProductID, Size: l.Size, Color: l.Color})
	}
	return g.carts.ClearLines(ctx, userID, keys)
}

func (g *cartGateway) RemoveSnapshot(ctx context.Context, userID string) error {
	return g.snapshots.Remove(ctx, userID)
}

type shippingGateway struct {
	methods shippingdomain.MethodRepository
}

func NewShippingGateway(methods shippingdomain.MethodRepository) orderdomain.ShippingGateway {
	return &shippingGateway{methods: methods}
}

func (g *shippingGateway) GetMethod(ctx context.Context, id uint) (orderdomain.ShippingMethodView, error) {
	m, err := g.methods.GetActive(ctx, id)
	if err != nil {
		return orderdomain.ShippingMethodView{}, err
	}
	return orderdomain.ShippingMethodView{ID: m.ID, Name: m.Name, Fee: m.Fee}, nil
}
