package http

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/wyfcoding/ecommerce/internal/cart/application"
	"github.com/wyfcoding/ecommerce/internal/cart/domain"
	"github.com/wyfcoding/pkg/logging"
	"github.com/wyfcoding/pkg/response"
)

// CartHandler HTTP 处理器
type CartHandler struct {
	cmd   *application.CartCommandService
	query *application.CartQueryService
}

func NewCartHandler(cmd *application.CartCommandService, query *application.CartQueryService) *CartHandler {
	return &CartHandler{cmd: cmd, query: query}
}

// 注册路由。user_id 由会话中间件注入，这里按路径参数收取。
func (h *CartHandler) RegisterRoutes(router *gin.RouterGroup) {
	api := router.Group("/v1/carts/:user_id")
	{
		api.GET("", h.GetCart)
		api.POST("/lines", h.AddLine)
		api.PUT("/lines", h.SetQuantity)
		api.DELETE("/lines", h.RemoveLine)
		api.DELETE("", h.ClearCart)
		api.POST("/hydrate", h.Hydrate)
	}
}

// AddLineRequest 加购请求

type AddLineRequest struct {
	ProductID uint   `json:"product_id" binding:"required"`
	Size      string `json:"size"`
	Color     string `json:"color"`
	Quantity  int64  `json:"quantity" binding:"required"`
}

func (h *CartHandler) AddLine(c *gin.Context) {
	var req AddLineRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.ErrorWithStatus(c, http.StatusBadRequest, err.Error(), "")
		return
	}

	qty, err := h.cmd.AddLine(c.Request.Context(), c.Param("user_id"), req.ProductID, req.Size, req.Color, req.Quantity)
	if err != nil {
		h.reportError(c, "Failed to add cart line", req.ProductID, err)
		return
	}
	response.Success(c, gin.H{"product_id": req.ProductID, "quantity": qty})
}

// SetQuantityRequest 覆盖行数量请求

type SetQuantityRequest struct {
	ProductID uint   `json:"product_id" binding:"required"`
	Size      string `json:"size"`
	Color     string `json:"color"`
	Quantity  int64  `json:"quantity"`
}

func (h *CartHandler) SetQuantity(c *gin.Context) {
	var req SetQuantityRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.ErrorWithStatus(c, http.StatusBadRequest, err.Error(), "")
		return
	}

	if err := h.cmd.SetQuantity(c.Request.Context(), c.Param("user_id"), req.ProductID, req.Size, req.Color, req.Quantity); err != nil {
		h.reportError(c, "Failed to set cart quantity", req.ProductID, err)
		return
	}
	response.Success(c, gin.H{"product_id": req.ProductID, "quantity": req.Quantity})
}

func (h *CartHandler) RemoveLine(c *gin.Context) {
	productID, err := strconv.ParseUint(c.Query("product_id"), 10, 64)
	if err != nil {
		response.ErrorWithStatus(c, http.StatusBadRequest, "invalid product_id", "")
		return
	}

	if err := h.cmd.RemoveLine(c.Request.Context(), c.Param("user_id"), uint(productID), c.Query("size"), c.Query("color")); err != nil {
		h.reportError(c, "Failed to remove cart line", uint(productID), err)
		return
	}
	response.Success(c, gin.H{"product_id": productID})
}

func (h *CartHandler) GetCart(c *gin.Context) {
	cart, err := h.query.GetCart(c.Request.Context(), c.Param("user_id"))
	if err != nil {
		logging.Error(c.Request.Context(), "Failed to get cart", "user_id", c.Param("user_id"), "error", err)
		response.ErrorWithStatus(c, http.StatusInternalServerError, err.Error(), "")
		return
	}
	response.Success(c, cart)
}

func (h *CartHandler) ClearCart(c *gin.Context) {
	if err := h.cmd.ClearCart(c.Request.Context(), c.Param("user_id")); err != nil {
		logging.Error(c.Request.Context(), "Failed to clear cart", "user_id", c.Param("user_id"), "error", err)
		response.ErrorWithStatus(c, http.StatusInternalServerError, err.Error(), "")
		return
	}
	response.Success(c, gin.H{"cleared": true})
}

// Hydrate 会话开始时从客户端持有态重建购物车。
func (h *CartHandler) Hydrate(c *gin.Context) {
	cart, err := h.cmd.HydrateFromSnapshot(c.Request.Context(), c.Param("user_id"))
	if err != nil {
		logging.Error(c.Request.Context(), "Failed to hydrate cart", "user_id", c.Param("user_id"), "error", err)
		response.ErrorWithStatus(c, http.StatusInternalServerError, err.Error(), "")
		return
	}
	response.Success(c, gin.H{"item_count": cart.ItemCount()})
}

func (h *CartHandler) reportError(c *gin.Context, msg string, productID uint, err error) {
	var stockErr *domain.InsufficientStockError
	switch {
	case errors.As(err, &stockErr):
		response.ErrorWithStatus(c, http.StatusConflict, err.Error(),
			strconv.FormatInt(stockErr.Available, 10))
	case errors.Is(err, domain.ErrProductUnavailable):
		response.ErrorWithStatus(c, http.StatusNotFound, err.Error(), "")
	case errors.Is(err, domain.ErrInvalidQuantity):
		response.ErrorWithStatus(c, http.StatusBadRequest, err.Error(), "")
	default:
		logging.Error(c.Request.Context(), msg, "product_id", productID, "error", err)
		response.ErrorWithStatus(c, http.StatusInternalServerError, err.Error(), "")
	}
}
