// Package pricing 负责商品有效价格的计算。
// 折扣率的合法性([0,100])由 catalog 边界校验，这里只做纯计算。
package pricing

import "github.com/shopspring/decimal"

var hundred = decimal.NewFromInt(100)

// DisplayScale 货币最小单位精度，只在展示/汇总输出时舍入。
const DisplayScale = 2

// EffectivePrice 计算有效单价：存在折扣时为 base * (1 - discount/100)，否则为原价。
// 中间结果保留全精度，不做舍入。
func EffectivePrice(base decimal.Decimal, discountPercent *decimal.Decimal) decimal.Decimal {
	if discountPercent == nil {
		return base
	}
	factor := decimal.NewFromInt(1).Sub(discountPercent.Div(hundred))
	return base.Mul(factor)
}

// LineSubtotal 计算单行小计（全精度）。
func LineSubtotal(unitPrice decimal.Decimal, quantity int64) decimal.Decimal {
	return unitPrice.Mul(decimal.NewFromInt(quantity))
}

// RoundDisplay 按货币最小单位做银行家舍入，仅用于展示和最终合计。
func RoundDisplay(amount decimal.Decimal) decimal.Decimal {
	return amount.RoundBank(DisplayScale)
}
