package domain

import (
	"context"
	"errors"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

var (
	ErrMethodNotFound = errors.New("shipping method not found")
	ErrInvalidFee     = errors.New("shipping fee must be non-negative")
)

type ShippingMethod struct {
	gorm.Model
	Name          string          `gorm:"column:name;type:varchar(100);not null" json:"name"`
	Fee           decimal.Decimal `gorm:"column:fee;type:decimal(10,2);not null" json:"fee"`
	EstimatedDays int             `gorm:"column:estimated_days;not null;default:0" json:"estimated_days"`
	Active        bool            `gorm:"column:active;not null;default:true" json:"active"`
}

func (ShippingMethod) TableName() string { return "shipping_methods" }

func (m *ShippingMethod) Validate() error {
	if m.Fee.IsNegative() {
		return ErrInvalidFee
	}
	return nil
}

type MethodRepository interface {
	Save(ctx context.Context, method *ShippingMethod) error
	// GetActive 只返回启用的配送方式，其余返回 ErrMethodNotFound。
	GetActive(ctx context.Context, id uint) (*ShippingMethod, error)
	List(ctx context.Context, includeInactive bool) ([]*ShippingMethod, error)
	Deactivate(ctx context.Context, id uint) error
}
