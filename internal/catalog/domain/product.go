package domain

import (
	"errors"
	"time"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

var (
	ErrProductNotFound = errors.New("product not found")
	ErrStockConflict   = errors.New("stock conflict: available quantity changed concurrently")
	ErrInvalidPrice    = errors.New("base price must be non-negative")
	ErrInvalidDiscount = errors.New("discount percent must be between 0 and 100")
	ErrInvalidQuantity = errors.New("quantity must be non-negative")
)

// ProductStatus 商品生命周期状态。软删除通过显式状态表达，所有读取都按状态过滤。
type ProductStatus string

const (
	ProductStatusActive  ProductStatus = "ACTIVE"
	ProductStatusDeleted ProductStatus = "DELETED"
)

type Product struct {
	gorm.Model
	Name              string           `gorm:"column:name;type:varchar(255);not null" json:"name"`
	Description       string           `gorm:"column:description;type:text" json:"description"`
	Category          string           `gorm:"column:category;type:varchar(100);index" json:"category"`
	BasePrice         decimal.Decimal  `gorm:"column:base_price;type:decimal(12,2);not null" json:"base_price"`
	DiscountPercent   *decimal.Decimal `gorm:"column:discount_percent;type:decimal(5,2)" json:"discount_percent,omitempty"`
	TrackQuantity     bool             `gorm:"column:track_quantity;not null;default:false" json:"track_quantity"`
	AvailableQuantity int64            `gorm:"column:available_quantity;not null;default:0" json:"available_quantity"`
	Status            ProductStatus    `gorm:"column:status;type:varchar(16);index;not null;default:'ACTIVE'" json:"status"`
	StatusChangedAt   *time.Time       `gorm:"column:status_changed_at" json:"status_changed_at,omitempty"`
}

func (Product) TableName() string { return "products" }

func (p *Product) IsActive() bool { return p.Status == ProductStatusActive }

// Validate 在目录边界校验价格、折扣与库存的取值范围。
func (p *Product) Validate() error {
	if p.BasePrice.IsNegative() {
		return ErrInvalidPrice
	}
	if p.DiscountPercent != nil {
		if p.DiscountPercent.IsNegative() || p.DiscountPercent.GreaterThan(decimal.NewFromInt(100)) {
			return ErrInvalidDiscount
		}
	}
	if p.AvailableQuantity < 0 {
		return ErrInvalidQuantity
	}
	return nil
}

// MarkDeleted 转入 DELETED 状态并记录时间。
func (p *Product) MarkDeleted(at time.Time) {
	p.Status = ProductStatusDeleted
	p.StatusChangedAt = &at
}

// ProductPatch 管理端部分更新结构。只有显式置位的字段才会被修改，
// 避免 any 型补丁带来的意外覆盖置空。
type ProductPatch struct {
	Name              *string
	Description       *string
	Category          *string
	BasePrice         *decimal.Decimal
	DiscountPercent   *decimal.Decimal
	ClearDiscount     bool
	TrackQuantity     *bool
	AvailableQuantity *int64
}

// Apply 将补丁应用到商品，调用方随后仍需 Validate。
func (p *Product) Apply(patch ProductPatch) {
	if patch.Name != nil {
		p.Name = *patch.Name
	}
	if patch.Description != nil {
		p.Description = *patch.Description
	}
	if patch.Category != nil {
		p.Category = *patch.Category
	}
	if patch.BasePrice != nil {
		p.BasePrice = *patch.BasePrice
	}
	if patch.ClearDiscount {
		p.DiscountPercent = nil
	} else if patch.DiscountPercent != nil {
		v := *patch.DiscountPercent
		p.DiscountPercent = &v
	}
	if patch.TrackQuantity != nil {
		p.TrackQuantity = *patch.TrackQuantity
	}
	if patch.AvailableQuantity != nil {
		p.AvailableQuantity = *patch.AvailableQuantity
	}
}
