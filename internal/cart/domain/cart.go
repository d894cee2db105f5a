// Package domain 实现购物车聚合。
// 购物车不拥有库存，只依据调用时拿到的商品快照做防超卖校验；
// 最终裁决在结算对账（checkout）阶段完成。
package domain

import (
	"errors"
	"fmt"
	"time"

	"github.com/shopspring/decimal"
	"github.com/wyfcoding/ecommerce/internal/pricing"
	"gorm.io/gorm"
)

var (
	ErrInvalidQuantity    = errors.New("quantity must be positive")
	ErrProductUnavailable = errors.New("product unavailable")
)

// InsufficientStockError 请求数量超过可用库存。携带可用量供客户端重渲染。
type InsufficientStockError struct {
	ProductID uint
	Available int64
}

func (e *InsufficientStockError) Error() string {
	return fmt.Sprintf("insufficient stock for product %d: %d available", e.ProductID, e.Available)
}

// ProductSnapshot 调用时刻的商品目录视图。
type ProductSnapshot struct {
	ID                uint
	Name              string
	BasePrice         decimal.Decimal
	DiscountPercent   *decimal.Decimal
	TrackQuantity     bool
	AvailableQuantity int64
	Active            bool
}

// UnitPrice 快照对应的有效单价。
func (s ProductSnapshot) UnitPrice() decimal.Decimal {
	return pricing.EffectivePrice(s.BasePrice, s.DiscountPercent)
}

// LineKey 购物车行的复合键。size/color 为空串表示"不适用"。
type LineKey struct {
	ProductID uint
	Size      string
	Color     string
}

type Cart struct {
	gorm.Model
	UserID string     `gorm:"column:user_id;type:varchar(36);uniqueIndex;not null"`
	Lines  []CartLine `gorm:"foreignKey:CartID"`
}

func (Cart) TableName() string { return "carts" }

// CartLine 行唯一键以购物车为界，硬删除，避免软删墓碑占住唯一索引。
type CartLine struct {
	ID        uint `gorm:"primaryKey"`
	CreatedAt time.Time
	UpdatedAt time.Time
	CartID    uint            `gorm:"column:cart_id;uniqueIndex:idx_cart_line_key;not null"`
	ProductID uint            `gorm:"column:product_id;uniqueIndex:idx_cart_line_key;not null"`
	Size      string          `gorm:"column:size;type:varchar(20);uniqueIndex:idx_cart_line_key;not null;default:''"`
	Color     string          `gorm:"column:color;type:varchar(30);uniqueIndex:idx_cart_line_key;not null;default:''"`
	Quantity  int64           `gorm:"column:quantity;not null"`
	UnitPrice decimal.Decimal `gorm:"column:unit_price;type:decimal(12,4);not null"`
	Name      string          `gorm:"column:name;type:varchar(255)"`
}

func (CartLine) TableName() string { return "cart_lines" }

func (l *CartLine) Key() LineKey {
	return LineKey{ProductID: l.ProductID, Size: l.Size, Color: l.Color}
}

func (c *Cart) find(key LineKey) int {
	for i := range c.Lines {
		if c.Lines[i].Key() == key {
			return i
		}
	}
	return -1
}

// AddLine 合并同键行并做库存守卫。失败时购物车保持不变。
// 返回合并后的行数量。
func (c *Cart) AddLine(snapshot ProductSnapshot, size, color string, qty int64) (int64, error) {
	if qty <= 0 {
		return 0, ErrInvalidQuantity
	}
	if !snapshot.Active {
		return 0, ErrProductUnavailable
	}

	key := LineKey{ProductID: snapshot.ID, Size: size, Color: color}
	requested := qty
	idx := c.find(key)
	if idx >= 0 {
		requested += c.Lines[idx].Quantity
	}
	if snapshot.TrackQuantity && requested > snapshot.AvailableQuantity {
		return 0, &InsufficientStockError{ProductID: snapshot.ID, Available: snapshot.AvailableQuantity}
	}

	if idx >= 0 {
		c.Lines[idx].Quantity = requested
		c.Lines[idx].UnitPrice = snapshot.UnitPrice()
		c.Lines[idx].Name = snapshot.Name
	} else {
		c.Lines = append(c.Lines, CartLine{
			ProductID: snapshot.ID,
			Size:      size,
			Color:     color,
			Quantity:  qty,
			UnitPrice: snapshot.UnitPrice(),
			Name:      snapshot.Name,
		})
	}
	return requested, nil
}

// SetQuantity 覆盖式设置行数量。qty <= 0 等价于删除（幂等）。
func (c *Cart) SetQuantity(snapshot ProductSnapshot, size, color string, qty int64) error {
	key := LineKey{ProductID: snapshot.ID, Size: size, Color: color}
	if qty <= 0 {
		c.remove(key)
		return nil
	}
	if !snapshot.Active {
		return ErrProductUnavailable
	}
	if snapshot.TrackQuantity && qty > snapshot.AvailableQuantity {
		return &InsufficientStockError{ProductID: snapshot.ID, Available: snapshot.AvailableQuantity}
	}

	if idx := c.find(key); idx >= 0 {
		c.Lines[idx].Quantity = qty
		c.Lines[idx].UnitPrice = snapshot.UnitPrice()
		c.Lines[idx].Name = snapshot.Name
		return nil
	}
	c.Lines = append(c.Lines, CartLine{
		ProductID: snapshot.ID,
		Size:      size,
		Color:     color,
		Quantity:  qty,
		UnitPrice: snapshot.UnitPrice(),
		Name:      snapshot.Name,
	})
	return nil
}

// RemoveLine 无条件删除，行不存在视为成功。
func (c *Cart) RemoveLine(productID uint, size, color string) {
	c.remove(LineKey{ProductID: productID, Size: size, Color: color})
}

func (c *Cart) remove(key LineKey) {
	if idx := c.find(key); idx >= 0 {
		c.Lines = append(c.Lines[:idx], c.Lines[idx+1:]...)
	}
}

// Total 全精度合计，展示层再舍入。无副作用，与加入顺序无关。
func (c *Cart) Total() decimal.Decimal {
	total := decimal.Zero
	for i := range c.Lines {
		total = total.Add(pricing.LineSubtotal(c.Lines[i].UnitPrice, c.Lines[i].Quantity))
	}
	return total
}

// ItemCount 数量合计，用于角标展示。
func (c *Cart) ItemCount() int64 {
	var n int64
	for i := range c.Lines {
		n += c.Lines[i].Quantity
	}
	return n
}

func (c *Cart) IsEmpty() bool { return len(c.Lines) == 0 }

// LineSnapshot 客户端持有的序列化表示：(productId, size, color) -> quantity。
type LineSnapshot struct {
	ProductID uint   `json:"product_id"`
	Size      string `json:"size,omitempty"`
	Color     string `json:"color,omitempty"`
	Quantity  int64  `json:"quantity"`
}

// Snapshot 导出序列化表示，保持行序。
func (c *Cart) Snapshot() []LineSnapshot {
	out := make([]LineSnapshot, 0, len(c.Lines))
	for i := range c.Lines {
		out = append(out, LineSnapshot{
			ProductID: c.Lines[i].ProductID,
			Size:      c.Lines[i].Size,
			Color:     c.Lines[i].Color,
			Quantity:  c.Lines[i].Quantity,
		})
	}
	return out
}

// Hydrate 从序列化表示重建聚合。同键条目合并求和，保证无重复行不变式。
// 价格字段留待读取路径按目录现价解析。
func (c *Cart) Hydrate(lines []LineSnapshot) {
	c.Lines = c.Lines[:0]
	for _, l := range lines {
		if l.Quantity <= 0 {
			continue
		}
		key := LineKey{ProductID: l.ProductID, Size: l.Size, Color: l.Color}
		if idx := c.find(key); idx >= 0 {
			c.Lines[idx].Quantity += l.Quantity
			continue
		}
		c.Lines = append(c.Lines, CartLine{
			ProductID: l.ProductID,
			Size:      l.Size,
			Color:     l.Color,
			Quantity:  l.Quantity,
		})
	}
}
