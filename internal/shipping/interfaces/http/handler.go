package http

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"
	"github.com/wyfcoding/ecommerce/internal/shipping/application"
	"github.com/wyfcoding/ecommerce/internal/shipping/domain"
	"github.com/wyfcoding/pkg/logging"
	"github.com/wyfcoding/pkg/response"
)

type ShippingHandler struct {
	app *application.ShippingApplicationService
}

func NewShippingHandler(app *application.ShippingApplicationService) *ShippingHandler {
	return &ShippingHandler{app: app}
}

func (h *ShippingHandler) RegisterRoutes(router *gin.RouterGroup) {
	api := router.Group("/v1/shipping-methods")
	{
		api.GET("", h.ListMethods)
		api.POST("", h.CreateMethod)
		api.DELETE("/:id", h.DeactivateMethod)
	}
}

// CreateMethodRequest 创建配送方式请求

type CreateMethodRequest struct {
	Name          string `json:"name" binding:"required"`
	Fee           string `json:"fee" binding:"required"`
	EstimatedDays int    `json:"estimated_days"`
}

func (h *ShippingHandler) CreateMethod(c *gin.Context) {
	var req CreateMethodRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.ErrorWithStatus(c, http.StatusBadRequest, err.Error(), "")
		return
	}
	fee, err := decimal.NewFromString(req.Fee)
	if err != nil {
		response.ErrorWithStatus(c, http.StatusBadRequest, "invalid fee", "")
		return
	}

	id, err := h.app.CreateMethod(c.Request.Context(), application.CreateMethodCommand{
		Name:          req.Name,
		Fee:           fee,
		EstimatedDays: req.EstimatedDays,
	})
	if err != nil {
		if errors.Is(err, domain.ErrInvalidFee) {
			response.ErrorWithStatus(c, http.StatusBadRequest, err.Error(), "")
			return
		}
		logging.Error(c.Request.Context(), "Failed to create shipping method", "error", err)
		response.ErrorWithStatus(c, http.StatusInternalServerError, err.Error(), "")
		return
	}
	response.Success(c, gin.H{"method_id": id})
}

func (h *ShippingHandler) ListMethods(c *gin.Context) {
	includeInactive := c.Query("all") == "true"
	methods, err := h.app.ListMethods(c.Request.Context(), includeInactive)
	if err != nil {
		logging.Error(c.Request.Context(), "Failed to list shipping methods", "error", err)
		response.ErrorWithStatus(c, http.StatusInternalServerError, err.Error(), "")
		return
	}
	response.Success(c, methods)
}

func (h *ShippingHandler) DeactivateMethod(c *gin.Context) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil {
		response.ErrorWithStatus(c, http.StatusBadRequest, "invalid method id", "")
		return
	}
	if err := h.app.DeactivateMethod(c.Request.Context(), uint(id)); err != nil {
		if errors.Is(err, domain.ErrMethodNotFound) {
			response.ErrorWithStatus(c, http.StatusNotFound, err.Error(), "")
			return
		}
		logging.Error(c.Request.Context(), "Failed to deactivate shipping method", "method_id", id, "error", err)
		response.ErrorWithStatus(c, http.StatusInternalServerError, err.Error(), "")
		return
	}
	response.Success(c, gin.H{"method_id": id})
}
