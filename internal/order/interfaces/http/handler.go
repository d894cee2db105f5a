package http

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/wyfcoding/ecommerce/internal/order/application"
	"github.com/wyfcoding/ecommerce/internal/order/domain"
	shippingdomain "github.com/wyfcoding/ecommerce/internal/shipping/domain"
	"github.com/wyfcoding/pkg/logging"
	"github.com/wyfcoding/pkg/response"
)

// OrderHandler HTTP 处理器
// 负责结算与订单相关的 HTTP 请求
type OrderHandler struct {
	checkout *application.CheckoutReconciler
	cmd      *application.OrderCommandService
	query    *application.OrderQueryService
}

func NewOrderHandler(checkout *application.CheckoutReconciler, cmd *application.OrderCommandService, query *application.OrderQueryService) *OrderHandler {
	return &OrderHandler{checkout: checkout, cmd: cmd, query: query}
}

// 注册路由
func (h *OrderHandler) RegisterRoutes(router *gin.RouterGroup) {
	api := router.Group("/v1/orders")
	{
		api.POST("/checkout", h.Checkout)
		api.GET("/:order_no", h.GetOrder)
		api.GET("", h.ListOrders)
		api.POST("/:order_no/cancel", h.CancelOrder)
		api.PUT("/:order_no/status", h.UpdateStatus)
	}
}

// CheckoutRequest 结算请求

type CheckoutRequest struct {
	UserID           string `json:"user_id" binding:"required"`
	ShippingMethodID uint   `json:"shipping_method_id" binding:"required"`
}

// Checkout 结算：复核库存、冻结价格、原子成单。
// 失败明细（商品与可用量）原样返回，客户端据此重渲染购物车。
func (h *OrderHandler) Checkout(c *gin.Context) {
	var req CheckoutRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.ErrorWithStatus(c, http.StatusBadRequest, err.Error(), "")
		return
	}

	result, err := h.checkout.Checkout(c.Request.Context(), application.CheckoutCommand{
		UserID:           req.UserID,
		ShippingMethodID: req.ShippingMethodID,
	})
	if err != nil {
		h.reportCheckoutError(c, req.UserID, err)
		return
	}
	response.Success(c, result)
}

func (h *OrderHandler) reportCheckoutError(c *gin.Context, userID string, err error) {
	var conflict *domain.StockConflictError
	var unavailable *domain.ProductUnavailableError
	switch {
	case errors.As(err, &conflict):
		response.ErrorWithStatus(c, http.StatusConflict, err.Error(),
			strconv.FormatInt(conflict.Available, 10))
	case errors.As(err, &unavailable):
		response.ErrorWithStatus(c, http.StatusConflict, err.Error(), "")
	case errors.Is(err, domain.ErrEmptyCart):
		response.ErrorWithStatus(c, http.StatusBadRequest, err.Error(), "")
	case errors.Is(err, shippingdomain.ErrMethodNotFound):
		response.ErrorWithStatus(c, http.StatusBadRequest, err.Error(), "")
	default:
		logging.Error(c.Request.Context(), "Checkout failed", "user_id", userID, "error", err)
		response.ErrorWithStatus(c, http.StatusInternalServerError, err.Error(), "")
	}
}

func (h *OrderHandler) GetOrder(c *gin.Context) {
	order, err := h.query.GetOrder(c.Request.Context(), c.Param("order_no"))
	if err != nil {
		if errors.Is(err, domain.ErrOrderNotFound) {
			response.ErrorWithStatus(c, http.StatusNotFound, err.Error(), "")
			return
		}
		logging.Error(c.Request.Context(), "Failed to get order", "order_no", c.Param("order_no"), "error", err)
		response.ErrorWithStatus(c, http.StatusInternalServerError, err.Error(), "")
		return
	}
	response.Success(c, order)
}

func (h *OrderHandler) ListOrders(c *gin.Context) {
	userID := c.Query("user_id")
	if userID == "" {
		response.ErrorWithStatus(c, http.StatusBadRequest, "user_id is required", "")
		return
	}
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "20"))
	offset, _ := strconv.Atoi(c.DefaultQuery("offset", "0"))

	orders, total, err := h.query.ListOrdersByUser(c.Request.Context(), userID, domain.OrderStatus(c.Query("status")), limit, offset)
	if err != nil {
		logging.Error(c.Request.Context(), "Failed to list orders", "user_id", userID, "error", err)
		response.ErrorWithStatus(c, http.StatusInternalServerError, err.Error(), "")
		return
	}
	response.Success(c, gin.H{"items": orders, "total": total})
}

// CancelOrderRequest 取消订单请求

type CancelOrderRequest struct {
	UserID string `json:"user_id" binding:"required"`
}

func (h *OrderHandler) CancelOrder(c *gin.Context) {
	var req CancelOrderRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.ErrorWithStatus(c, http.StatusBadRequest, err.Error(), "")
		return
	}

	err := h.cmd.CancelOrder(c.Request.Context(), application.CancelOrderCommand{
		OrderNo: c.Param("order_no"),
		UserID:  req.UserID,
	})
	if err != nil {
		h.reportStatusError(c, err)
		return
	}
	response.Success(c, gin.H{"order_no": c.Param("order_no"), "status": domain.OrderStatusCancelled})
}

// UpdateStatusRequest 状态推进请求（管理端）

type UpdateStatusRequest struct {
	Status string `json:"status" binding:"required"`
}

func (h *OrderHandler) UpdateStatus(c *gin.Context) {
	var req UpdateStatusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.ErrorWithStatus(c, http.StatusBadRequest, err.Error(), "")
		return
	}

	err := h.cmd.UpdateStatus(c.Request.Context(), application.UpdateStatusCommand{
		OrderNo: c.Param("order_no"),
		Status:  domain.OrderStatus(req.Status),
	})
	if err != nil {
		h.reportStatusError(c, err)
		return
	}
	response.Success(c, gin.H{"order_no": c.Param("order_no"), "status": req.Status})
}

func (h *OrderHandler) reportStatusError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, domain.ErrOrderNotFound):
		response.ErrorWithStatus(c, http.StatusNotFound, err.Error(), "")
	case errors.Is(err, domain.ErrInvalidTransition):
		response.ErrorWithStatus(c, http.StatusConflict, err.Error(), "")
	case errors.Is(err, domain.ErrUnauthorized):
		response.ErrorWithStatus(c, http.StatusForbidden, err.Error(), "")
	default:
		logging.Error(c.Request.Context(), "Order status operation failed", "order_no", c.Param("order_no"), "error", err)
		response.ErrorWithStatus(c, http.StatusInternalServerError, err.Error(), "")
	}
}
