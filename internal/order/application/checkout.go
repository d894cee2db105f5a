package application

import (
	"context"
	"fmt"
	"time"

	"github.com/shopspring/decimal"
	"github.com/wyfcoding/ecommerce/internal/order/domain"
	"github.com/wyfcoding/ecommerce/internal/pricing"
	"github.com/wyfcoding/pkg/contextx"
	"github.com/wyfcoding/pkg/idgen"
	"github.com/wyfcoding/pkg/logging"
)

// CheckoutState 单次结算尝试的状态
type CheckoutState string

const (
	CheckoutStarted   CheckoutState = "STARTED"
	CheckoutValidated CheckoutState = "VALIDATED"
	CheckoutCommitted CheckoutState = "COMMITTED"
	CheckoutFailed    CheckoutState = "FAILED"
)

// CheckoutCommand 结算命令
type CheckoutCommand struct {
	UserID           string
	ShippingMethodID uint
}

// CheckoutResult 结算结果
type CheckoutResult struct {
	OrderNo string        `json:"order_no"`
	Total   string        `json:"total"`
	State   CheckoutState `json:"state"`
}

// CheckoutReconciler 结算对账器。
// 对购物车快照做全量复核（商品在售、库存充足），冻结单价，
// 然后在单一事务内完成扣减库存、落订单、清购物车行。
// 任一行校验失败整单失败，不做部分提交；提交期间发现并发冲突
// 整个事务回滚，不会留下部分扣减。失败原因原样上报，不自动重试。
type CheckoutReconciler struct {
	orders    domain.OrderRepository
	catalog   domain.CatalogGateway
	carts     domain.CartGateway
	shipping  domain.ShippingGateway
	publisher domain.EventPublisher
}

func NewCheckoutReconciler(
	orders domain.OrderRepository,
	catalog domain.CatalogGateway,
	carts domain.CartGateway,
	shipping domain.ShippingGateway,
	publisher domain.EventPublisher,
) *CheckoutReconciler {
	return &CheckoutReconciler{
		orders:    orders,
		catalog:   catalog,
		carts:     carts,
		shipping:  shipping,
		publisher: publisher,
	}
}

// Checkout 执行一次结算尝试：STARTED → VALIDATED → COMMITTED，任一步失败转 FAILED。
func (r *CheckoutReconciler) Checkout(ctx context.Context, cmd CheckoutCommand) (*CheckoutResult, error) {
	state := CheckoutStarted

	// STARTED：取候选购物车与配送方式
	cartLines, err := r.carts.GetLines(ctx, cmd.UserID)
	if err != nil {
		return nil, r.fail(ctx, cmd.UserID, state, err)
	}
	if len(cartLines) == 0 {
		// 已提交过的购物车再次结算走到这里：空购物车直接拒绝
		return nil, r.fail(ctx, cmd.UserID, state, domain.ErrEmptyCart)
	}
	method, err := r.shipping.GetMethod(ctx, cmd.ShippingMethodID)
	if err != nil {
		return nil, r.fail(ctx, cmd.UserID, state, err)
	}

	// VALIDATED：逐行复核在售与库存，冻结单价，计算总额
	orderLines := make([]domain.OrderLine, 0, len(cartLines))
	linesTotal := decimal.Zero
	for _, line := range cartLines {
		product, err := r.catalog.GetProduct(ctx, line.ProductID)
		if err != nil {
			return nil, r.fail(ctx, cmd.UserID, state, err)
		}
		if !product.Active {
			return nil, r.fail(ctx, cmd.UserID, state, &domain.ProductUnavailableError{ProductID: line.ProductID})
		}
		if product.TrackQuantity && line.Quantity > product.AvailableQuantity {
			return nil, r.fail(ctx, cmd.UserID, state, &domain.StockConflictError{
				ProductID: line.ProductID,
				Available: product.AvailableQuantity,
			})
		}

		unitPrice := pricing.EffectivePrice(product.BasePrice, product.DiscountPercent)
		orderLines = append(orderLines, domain.OrderLine{
			ProductID: line.ProductID,
			Name:      product.Name,
			Size:      line.Size,
			Color:     line.Color,
			Quantity:  line.Quantity,
			UnitPrice: unitPrice,
		})
		linesTotal = linesTotal.Add(pricing.LineSubtotal(unitPrice, line.Quantity))
	}
	state = CheckoutValidated
	total := pricing.RoundDisplay(linesTotal.Add(method.Fee))

	order := &domain.Order{
		OrderNo:        fmt.Sprintf("ORD-%d", idgen.GenID()),
		UserID:         cmd.UserID,
		Lines:          orderLines,
		ShippingMethod: method.Name,
		ShippingFee:    method.Fee,
		Total:          total,
		Status:         domain.OrderStatusPending,
	}

	// COMMITTED：单一事务边界内扣库存、落订单、清购物车行、发事件
	err = r.orders.WithTx(ctx, func(txCtx context.Context) error {
		for _, line := range order.Lines {
			if err := r.catalog.DecrementStock(txCtx, line.ProductID, line.Quantity); err != nil {
				return err
			}
		}
		if err := r.orders.Save(txCtx, order); err != nil {
			return err
		}
		if err := r.carts.ClearLines(txCtx, cmd.UserID, cartLines); err != nil {
			return err
		}

		event := domain.OrderCreatedEvent{
			OrderNo:        order.OrderNo,
			UserID:         order.UserID,
			ShippingMethod: order.ShippingMethod,
			ShippingFee:    order.ShippingFee.StringFixed(pricing.DisplayScale),
			Total:          order.Total.StringFixed(pricing.DisplayScale),
			Timestamp:      time.Now(),
		}
		for _, l := range order.Lines {
			event.Lines = append(event.Lines, domain.OrderLineEvent{
				ProductID: l.ProductID,
				Size:      l.Size,
				Color:     l.Color,
				Quantity:  l.Quantity,
				UnitPrice: l.UnitPrice.String(),
			})
		}
		return r.publisher.PublishInTx(txCtx, contextx.GetTx(txCtx), domain.OrderCreatedEventType, order.OrderNo, event)
	})
	if err != nil {
		return nil, r.fail(ctx, cmd.UserID, state, err)
	}
	state = CheckoutCommitted

	// 事务已提交，作废客户端持有态快照，防止 hydrate 复活已成单的行。
	// 快照非权威，删除失败只告警，由下一次变更覆盖。
	if err := r.carts.RemoveSnapshot(ctx, cmd.UserID); err != nil {
		logging.Warn(ctx, "failed to remove cart snapshot after checkout",
			"user_id", cmd.UserID,
			"order_no", order.OrderNo,
			"error", err,
		)
	}

	logging.Info(ctx, "Checkout committed",
		"user_id", cmd.UserID,
		"order_no", order.OrderNo,
		"lines", len(order.Lines),
		"total", order.Total.StringFixed(pricing.DisplayScale),
	)
	return &CheckoutResult{
		OrderNo: order.OrderNo,
		Total:   order.Total.StringFixed(pricing.DisplayScale),
		State:   state,
	}, nil
}

func (r *CheckoutReconciler) fail(ctx context.Context, userID string, from CheckoutState, err error) error {
	logging.Warn(ctx, "Checkout failed",
		"user_id", userID,
		"state", string(from),
		"error", err,
	)
	return err
}
