package application

import (
	"context"
	"errors"

	"github.com/shopspring/decimal"
	"github.com/wyfcoding/ecommerce/internal/cart/domain"
	"github.com/wyfcoding/ecommerce/internal/pricing"
)

// CartLineDTO 读模型：按目录现价解析后的购物车行。
type CartLineDTO struct {
	ProductID uint   `json:"product_id"`
	Name      string `json:"name"`
	Size      string `json:"size,omitempty"`
	Color     string `json:"color,omitempty"`
	Quantity  int64  `json:"quantity"`
	UnitPrice string `json:"unit_price"`
	Subtotal  string `json:"subtotal"`
	Available bool   `json:"available"`
}

type CartDTO struct {
	UserID    string        `json:"user_id"`
	Lines     []CartLineDTO `json:"lines"`
	ItemCount int64         `json:"item_count"`
	Total     string        `json:"total"`
}

// CartQueryService 购物车读路径，展示价取目录现价，合计仅在输出时舍入。
type CartQueryService struct {
	repo    domain.CartRepository
	catalog domain.CatalogReader
}

func NewCartQueryService(repo domain.CartRepository, catalog domain.CatalogReader) *CartQueryService {
	return &CartQueryService{repo: repo, catalog: catalog}
}

func (s *CartQueryService) GetCart(ctx context.Context, userID string) (*CartDTO, error) {
	cart, err := s.repo.GetByUserID(ctx, userID)
	if err != nil {
		return nil, err
	}

	dto := &CartDTO{UserID: userID, Lines: make([]CartLineDTO, 0, len(cart.Lines))}
	total := decimal.Zero
	for i := range cart.Lines {
		line := cart.Lines[i]
		item := CartLineDTO{
			ProductID: line.ProductID,
			Name:      line.Name,
			Size:      line.Size,
			Color:     line.Color,
			Quantity:  line.Quantity,
		}
		snapshot, err := s.catalog.GetProduct(ctx, line.ProductID)
		switch {
		case errors.Is(err, domain.ErrProductUnavailable):
			// 行保留，标记不可用，由用户决定移除
			item.Available = false
		case err != nil:
			return nil, err
		default:
			item.Available = true
			unit := snapshot.UnitPrice()
			subtotal := pricing.LineSubtotal(unit, line.Quantity)
			item.Name = snapshot.Name
			item.UnitPrice = pricing.RoundDisplay(unit).StringFixed(pricing.DisplayScale)
			item.Subtotal = pricing.RoundDisplay(subtotal).StringFixed(pricing.DisplayScale)
			total = total.Add(subtotal)
			dto.ItemCount += line.Quantity
		}
		dto.Lines = append(dto.Lines, item)
	}
	dto.Total = pricing.RoundDisplay(total).StringFixed(pricing.DisplayScale)
	return dto, nil
}
