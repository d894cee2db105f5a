package application

import (
	"context"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/wyfcoding/ecommerce/internal/order/domain"
)

func dec(s string) decimal.Decimal {
	v, err := decimal.NewFromString(s)
	if err != nil {
		panic(err)
	}
	return v
}

// memStore 聚合所有假仓储的共享状态，WithTx 通过整体快照/回滚模拟事务。
type memStore struct {
	products map[uint]domain.CatalogProduct
	// staleView 覆盖 GetProduct 返回的可用量，用来模拟
	// VALIDATED 与 COMMITTED 之间被并发结算扣走库存的竞态。
	staleView map[uint]int64
	orders    map[string]*domain.Order
	carts     map[string][]domain.CartLineView
	snapshots map[string]bool
	events    []string
}

func newMemStore() *memStore {
	return &memStore{
		products:  map[uint]domain.CatalogProduct{},
		staleView: map[uint]int64{},
		orders:    map[string]*domain.Order{},
		carts:     map[string][]domain.CartLineView{},
		snapshots: map[string]bool{},
	}
}

func (s *memStore) clone() *memStore {
	c := newMemStore()
	for k, v := range s.products {
		c.products[k] = v
	}
	for k, v := range s.staleView {
		c.staleView[k] = v
	}
	for k, v := range s.orders {
		o := *v
		c.orders[k] = &o
	}
	for k, v := range s.carts {
		c.carts[k] = append([]domain.CartLineView(nil), v...)
	}
	for k, v := range s.snapshots {
		c.snapshots[k] = v
	}
	c.events = append([]string(nil), s.events...)
	return c
}

type fakeOrders struct{ s *memStore }

func (f *fakeOrders) Save(_ context.Context, order *domain.Order) error {
	o := *order
	f.s.orders[order.OrderNo] = &o
	return nil
}

func (f *fakeOrders) GetByOrderNo(_ context.Context, orderNo string) (*domain.Order, error) {
	o, ok := f.s.orders[orderNo]
	if !ok {
		return nil, domain.ErrOrderNotFound
	}
	return o, nil
}

func (f *fakeOrders) ListByUser(_ context.Context, userID string, _ domain.OrderStatus, _, _ int) ([]*domain.Order, int64, error) {
	var out []*domain.Order
	for _, o := range f.s.orders {
		if o.UserID == userID {
			out = append(out, o)
		}
	}
	return out, int64(len(out)), nil
}

func (f *fakeOrders) WithTx(ctx context.Context, fn func(txCtx context.Context) error) error {
	backup := f.s.clone()
	if err := fn(ctx); err != nil {
		*f.s = *backup
		return err
	}
	return nil
}

type fakeCatalog struct{ s *memStore }

func (f *fakeCatalog) GetProduct(_ context.Context, productID uint) (domain.CatalogProduct, error) {
	p, ok := f.s.products[productID]
	if !ok {
		return domain.CatalogProduct{}, &domain.ProductUnavailableError{ProductID: productID}
	}
	if stale, ok := f.s.staleView[productID]; ok {
		p.AvailableQuantity = stale
	}
	return p, nil
}

func (f *fakeCatalog) DecrementStock(_ context.Context, productID uint, qty int64) error {
	p, ok := f.s.products[productID]
	if !ok || !p.Active {
		return &domain.StockConflictError{ProductID: productID}
	}
	if !p.TrackQuantity {
		return nil
	}
	if p.AvailableQuantity < qty {
		return &domain.StockConflictError{ProductID: productID, Available: p.AvailableQuantity}
	}
	p.AvailableQuantity -= qty
	f.s.products[productID] = p
	return nil
}

type fakeCarts struct{ s *memStore }

func (f *fakeCarts) GetLines(_ context.Context, userID string) ([]domain.CartLineView, error) {
	return f.s.carts[userID], nil
}

func (f *fakeCarts) ClearLines(_ context.Context, userID string, lines []domain.CartLineView) error {
	remaining := f.s.carts[userID][:0:0]
	for _, have := range f.s.carts[userID] {
		cleared := false
		for _, l := range lines {
			if have.ProductID == l.ProductID && have.Size == l.Size && have.Color == l.Color {
				cleared = true
				break
			}
		}
		if !cleared {
			remaining = append(remaining, have)
		}
	}
	f.s.carts[userID] = remaining
	return nil
}

func (f *fakeCarts) RemoveSnapshot(_ context.Context, userID string) error {
	delete(f.s.snapshots, userID)
	return nil
}

type fakeShipping struct{ methods map[uint]domain.ShippingMethodView }

func (f *fakeShipping) GetMethod(_ context.Context, id uint) (domain.ShippingMethodView, error) {
	m, ok := f.methods[id]
	if !ok {
		return domain.ShippingMethodView{}, assert.AnError
	}
	return m, nil
}

type fakePublisher struct{ s *memStore }

func (f *fakePublisher) Publish(_ context.Context, topic, _ string, _ any) error {
	f.s.events = append(f.s.events, topic)
	return nil
}

func (f *fakePublisher) PublishInTx(_ context.Context, _ any, topic, _ string, _ any) error {
	f.s.events = append(f.s.events, topic)
	return nil
}

func newReconciler(s *memStore) *CheckoutReconciler {
	return NewCheckoutReconciler(
		&fakeOrders{s: s},
		&fakeCatalog{s: s},
		&fakeCarts{s: s},
		&fakeShipping{methods: map[uint]domain.ShippingMethodView{
			1: {ID: 1, Name: "standard", Fee: dec("5")},
		}},
		&fakePublisher{s: s},
	)
}

func trackedProduct(id uint, price string, available int64) domain.CatalogProduct {
	return domain.CatalogProduct{
		ID:                id,
		Name:              "product",
		BasePrice:         dec(price),
		TrackQuantity:     true,
		AvailableQuantity: available,
		Active:            true,
	}
}

func TestCheckoutCommitsOnceAndDecrements(t *testing.T) {
	s := newMemStore()
	s.products[1] = trackedProduct(1, "50", 3)
	s.carts["u1"] = []domain.CartLineView{{ProductID: 1, Size: "M", Color: "red", Quantity: 3}}

	result, err := newReconciler(s).Checkout(context.Background(), CheckoutCommand{UserID: "u1", ShippingMethodID: 1})
	require.NoError(t, err)
	assert.Equal(t, CheckoutCommitted, result.State)
	assert.Equal(t, "155.00", result.Total) // 50*3 + 5 运费

	assert.Equal(t, int64(0), s.products[1].AvailableQuantity)
	assert.Empty(t, s.carts["u1"])
	assert.Equal(t, []string{domain.OrderCreatedEventType}, s.events)

	order := s.orders[result.OrderNo]
	require.NotNil(t, order)
	assert.Equal(t, domain.OrderStatusPending, order.Status)
}

func TestCheckoutTwiceIsEmptyCartNoop(t *testing.T) {
	s := newMemStore()
	s.products[1] = trackedProduct(1, "50", 3)
	s.carts["u1"] = []domain.CartLineView{{ProductID: 1, Quantity: 1}}

	r := newReconciler(s)
	_, err := r.Checkout(context.Background(), CheckoutCommand{UserID: "u1", ShippingMethodID: 1})
	require.NoError(t, err)

	_, err = r.Checkout(context.Background(), CheckoutCommand{UserID: "u1", ShippingMethodID: 1})
	assert.ErrorIs(t, err, domain.ErrEmptyCart)
	assert.Len(t, s.orders, 1)
	assert.Equal(t, int64(2), s.products[1].AvailableQuantity)
}

func TestCheckoutFreezesDiscountedPrice(t *testing.T) {
	s := newMemStore()
	discount := dec("20")
	p := trackedProduct(1, "1000", 10)
	p.DiscountPercent = &discount
	s.products[1] = p
	s.carts["u1"] = []domain.CartLineView{
		{ProductID: 1, Quantity: 1},
		{ProductID: 1, Size: "M", Quantity: 2},
	}

	result, err := newReconciler(s).Checkout(context.Background(), CheckoutCommand{UserID: "u1", ShippingMethodID: 1})
	require.NoError(t, err)
	assert.Equal(t, "2405.00", result.Total) // 800*1 + 800*2 + 5 运费

	order := s.orders[result.OrderNo]
	require.Len(t, order.Lines, 2)
	for _, l := range order.Lines {
		assert.True(t, l.UnitPrice.Equal(dec("800")))
	}
}

func TestCheckoutAllOrNothingOnValidation(t *testing.T) {
	s := newMemStore()
	s.products[1] = trackedProduct(1, "10", 5)
	s.products[2] = trackedProduct(2, "10", 1)
	s.carts["u1"] = []domain.CartLineView{
		{ProductID: 1, Quantity: 2},
		{ProductID: 2, Quantity: 3}, // 超库存
	}

	_, err := newReconciler(s).Checkout(context.Background(), CheckoutCommand{UserID: "u1", ShippingMethodID: 1})
	var conflict *domain.StockConflictError
	require.ErrorAs(t, err, &conflict)
	assert.Equal(t, uint(2), conflict.ProductID)
	assert.Equal(t, int64(1), conflict.Available)

	// 整单失败：没有订单、库存与购物车原样
	assert.Empty(t, s.orders)
	assert.Equal(t, int64(5), s.products[1].AvailableQuantity)
	assert.Len(t, s.carts["u1"], 2)
	assert.Empty(t, s.events)
}

func TestCheckoutProductGoneFailsWhole(t *testing.T) {
	s := newMemStore()
	s.products[1] = trackedProduct(1, "10", 5)
	s.carts["u1"] = []domain.CartLineView{
		{ProductID: 1, Quantity: 1},
		{ProductID: 99, Quantity: 1},
	}

	_, err := newReconciler(s).Checkout(context.Background(), CheckoutCommand{UserID: "u1", ShippingMethodID: 1})
	var unavailable *domain.ProductUnavailableError
	require.ErrorAs(t, err, &unavailable)
	assert.Equal(t, uint(99), unavailable.ProductID)
	assert.Empty(t, s.orders)
}

func TestCheckoutCommitRaceRollsBackEverything(t *testing.T) {
	s := newMemStore()
	s.products[1] = trackedProduct(1, "10", 5)
	s.products[2] = trackedProduct(2, "10", 0)
	// 校验阶段看到的是过期视图：另一个结算在 VALIDATED 之后抢走了库存
	s.staleView[2] = 1
	s.carts["u1"] = []domain.CartLineView{
		{ProductID: 1, Quantity: 2},
		{ProductID: 2, Quantity: 1},
	}

	_, err := newReconciler(s).Checkout(context.Background(), CheckoutCommand{UserID: "u1", ShippingMethodID: 1})
	var conflict *domain.StockConflictError
	require.ErrorAs(t, err, &conflict)
	assert.Equal(t, uint(2), conflict.ProductID)

	// 事务整体回滚：商品 1 的扣减不能幸存，购物车行保留，无订单无事件
	assert.Equal(t, int64(5), s.products[1].AvailableQuantity)
	assert.Len(t, s.carts["u1"], 2)
	assert.Empty(t, s.orders)
	assert.Empty(t, s.events)
}

func TestConcurrentCheckoutsExactlyOneWins(t *testing.T) {
	s := newMemStore()
	s.products[1] = trackedProduct(1, "10", 1)
	s.carts["u1"] = []domain.CartLineView{{ProductID: 1, Quantity: 1}}
	s.carts["u2"] = []domain.CartLineView{{ProductID: 1, Quantity: 1}}
	// 两个结算都基于 available=1 校验通过，提交阶段由条件扣减裁决
	s.staleView[1] = 1

	r := newReconciler(s)
	_, err1 := r.Checkout(context.Background(), CheckoutCommand{UserID: "u1", ShippingMethodID: 1})
	_, err2 := r.Checkout(context.Background(), CheckoutCommand{UserID: "u2", ShippingMethodID: 1})

	require.NoError(t, err1)
	var conflict *domain.StockConflictError
	require.ErrorAs(t, err2, &conflict)
	assert.Equal(t, int64(0), conflict.Available)

	assert.Len(t, s.orders, 1)
	assert.Equal(t, int64(0), s.products[1].AvailableQuantity)
	assert.Len(t, s.carts["u2"], 1)
}

func TestCheckoutUntrackedProductSkipsGuard(t *testing.T) {
	s := newMemStore()
	s.products[1] = domain.CatalogProduct{ID: 1, Name: "digital", BasePrice: dec("9.99"), Active: true}
	s.carts["u1"] = []domain.CartLineView{{ProductID: 1, Quantity: 100}}

	result, err := newReconciler(s).Checkout(context.Background(), CheckoutCommand{UserID: "u1", ShippingMethodID: 1})
	require.NoError(t, err)
	assert.Equal(t, "1004.00", result.Total)
}

func TestCheckoutInvalidatesCartSnapshot(t *testing.T) {
	s := newMemStore()
	s.products[1] = trackedProduct(1, "50", 3)
	s.carts["u1"] = []domain.CartLineView{{ProductID: 1, Quantity: 2}}
	s.snapshots["u1"] = true

	_, err := newReconciler(s).Checkout(context.Background(), CheckoutCommand{UserID: "u1", ShippingMethodID: 1})
	require.NoError(t, err)

	// 提交后客户端持有态必须作废，否则 hydrate 会复活已成单的行
	assert.False(t, s.snapshots["u1"])
}

func TestFailedCheckoutKeepsCartSnapshot(t *testing.T) {
	s := newMemStore()
	s.products[1] = trackedProduct(1, "50", 1)
	s.carts["u1"] = []domain.CartLineView{{ProductID: 1, Quantity: 2}}
	s.snapshots["u1"] = true

	_, err := newReconciler(s).Checkout(context.Background(), CheckoutCommand{UserID: "u1", ShippingMethodID: 1})
	require.Error(t, err)

	assert.True(t, s.snapshots["u1"])
}
