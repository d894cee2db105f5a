package http

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"
	"github.com/wyfcoding/ecommerce/internal/catalog/application"
	"github.com/wyfcoding/ecommerce/internal/catalog/domain"
	"github.com/wyfcoding/pkg/logging"
	"github.com/wyfcoding/pkg/response"
)

// CatalogHandler HTTP 处理器
type CatalogHandler struct {
	cmd   *application.CatalogCommandService
	query *application.CatalogQueryService
}

func NewCatalogHandler(cmd *application.CatalogCommandService, query *application.CatalogQueryService) *CatalogHandler {
	return &CatalogHandler{cmd: cmd, query: query}
}

// 注册路由
func (h *CatalogHandler) RegisterRoutes(router *gin.RouterGroup) {
	api := router.Group("/v1/products")
	{
		api.GET("", h.ListProducts)
		api.GET("/:id", h.GetProduct)
	}
	admin := router.Group("/v1/admin/products")
	{
		admin.POST("", h.CreateProduct)
		admin.PATCH("/:id", h.UpdateProduct)
		admin.DELETE("/:id", h.DeleteProduct)
		admin.POST("/:id/restock", h.RestockProduct)
	}
}

// CreateProductRequest 创建商品请求

type CreateProductRequest struct {
	Name              string  `json:"name" binding:"required"`
	Description       string  `json:"description"`
	Category          string  `json:"category"`
	BasePrice         string  `json:"base_price" binding:"required"`
	DiscountPercent   *string `json:"discount_percent"`
	TrackQuantity     bool    `json:"track_quantity"`
	AvailableQuantity int64   `json:"available_quantity"`
}

func (h *CatalogHandler) CreateProduct(c *gin.Context) {
	var req CreateProductRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.ErrorWithStatus(c, http.StatusBadRequest, err.Error(), "")
		return
	}

	basePrice, err := decimal.NewFromString(req.BasePrice)
	if err != nil {
		response.ErrorWithStatus(c, http.StatusBadRequest, "invalid base_price", "")
		return
	}
	cmd := application.CreateProductCommand{
		Name:              req.Name,
		Description:       req.Description,
		Category:          req.Category,
		BasePrice:         basePrice,
		TrackQuantity:     req.TrackQuantity,
		AvailableQuantity: req.AvailableQuantity,
	}
	if req.DiscountPercent != nil {
		d, err := decimal.NewFromString(*req.DiscountPercent)
		if err != nil {
			response.ErrorWithStatus(c, http.StatusBadRequest, "invalid discount_percent", "")
			return
		}
		cmd.DiscountPercent = &d
	}

	id, err := h.cmd.CreateProduct(c.Request.Context(), cmd)
	if err != nil {
		logging.Error(c.Request.Context(), "Failed to create product", "error", err)
		response.ErrorWithStatus(c, statusFor(err), err.Error(), "")
		return
	}
	response.Success(c, gin.H{"product_id": id})
}

// UpdateProductRequest 部分更新请求，缺省字段不参与更新

type UpdateProductRequest struct {
	Name              *string `json:"name"`
	Description       *string `json:"description"`
	Category          *string `json:"category"`
	BasePrice         *string `json:"base_price"`
	DiscountPercent   *string `json:"discount_percent"`
	ClearDiscount     bool    `json:"clear_discount"`
	TrackQuantity     *bool   `json:"track_quantity"`
	AvailableQuantity *int64  `json:"available_quantity"`
}

func (h *CatalogHandler) UpdateProduct(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}
	var req UpdateProductRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.ErrorWithStatus(c, http.StatusBadRequest, err.Error(), "")
		return
	}

	patch := domain.ProductPatch{
		Name:              req.Name,
		Description:       req.Description,
		Category:          req.Category,
		ClearDiscount:     req.ClearDiscount,
		TrackQuantity:     req.TrackQuantity,
		AvailableQuantity: req.AvailableQuantity,
	}
	if req.BasePrice != nil {
		p, err := decimal.NewFromString(*req.BasePrice)
		if err != nil {
			response.ErrorWithStatus(c, http.StatusBadRequest, "invalid base_price", "")
			return
		}
		patch.BasePrice = &p
	}
	if req.DiscountPercent != nil {
		d, err := decimal.NewFromString(*req.DiscountPercent)
		if err != nil {
			response.ErrorWithStatus(c, http.StatusBadRequest, "invalid discount_percent", "")
			return
		}
		patch.DiscountPercent = &d
	}

	if err := h.cmd.UpdateProduct(c.Request.Context(), id, patch); err != nil {
		logging.Error(c.Request.Context(), "Failed to update product", "product_id", id, "error", err)
		response.ErrorWithStatus(c, statusFor(err), err.Error(), "")
		return
	}
	response.Success(c, gin.H{"product_id": id})
}

func (h *CatalogHandler) DeleteProduct(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}
	if err := h.cmd.DeleteProduct(c.Request.Context(), id); err != nil {
		logging.Error(c.Request.Context(), "Failed to delete product", "product_id", id, "error", err)
		response.ErrorWithStatus(c, statusFor(err), err.Error(), "")
		return
	}
	response.Success(c, gin.H{"product_id": id})
}

// RestockRequest 补货请求

type RestockRequest struct {
	Quantity int64 `json:"quantity" binding:"required"`
}

func (h *CatalogHandler) RestockProduct(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}
	var req RestockRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.ErrorWithStatus(c, http.StatusBadRequest, err.Error(), "")
		return
	}
	if err := h.cmd.RestockProduct(c.Request.Context(), id, req.Quantity); err != nil {
		logging.Error(c.Request.Context(), "Failed to restock product", "product_id", id, "error", err)
		response.ErrorWithStatus(c, statusFor(err), err.Error(), "")
		return
	}
	response.Success(c, gin.H{"product_id": id})
}

func (h *CatalogHandler) GetProduct(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}
	product, err := h.query.GetProduct(c.Request.Context(), id)
	if err != nil {
		response.ErrorWithStatus(c, statusFor(err), err.Error(), "")
		return
	}
	response.Success(c, product)
}

func (h *CatalogHandler) ListProducts(c *gin.Context) {
	page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
	size, _ := strconv.Atoi(c.DefaultQuery("size", "20"))
	products, total, err := h.query.ListProducts(c.Request.Context(), c.Query("category"), page, size)
	if err != nil {
		logging.Error(c.Request.Context(), "Failed to list products", "error", err)
		response.ErrorWithStatus(c, http.StatusInternalServerError, err.Error(), "")
		return
	}
	response.Success(c, gin.H{"items": products, "total": total})
}

func parseID(c *gin.Context) (uint, bool) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil {
		response.ErrorWithStatus(c, http.StatusBadRequest, "invalid product id", "")
		return 0, false
	}
	return uint(id), true
}

func statusFor(err error) int {
	switch {
	case errors.Is(err, domain.ErrProductNotFound):
		return http.StatusNotFound
	case errors.Is(err, domain.ErrStockConflict):
		return http.StatusConflict
	case errors.Is(err, domain.ErrInvalidPrice),
		errors.Is(err, domain.ErrInvalidDiscount),
		errors.Is(err, domain.ErrInvalidQuantity):
		return http.StatusBadRequest
	default:
		return http.StatusInternalServerError
	}
}
