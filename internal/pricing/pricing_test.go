package pricing

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func d(s string) decimal.Decimal {
	v, err := decimal.NewFromString(s)
	if err != nil {
		panic(err)
	}
	return v
}

func TestEffectivePriceNoDiscount(t *testing.T) {
	assert.True(t, EffectivePrice(d("19.99"), nil).Equal(d("19.99")))
}

func TestEffectivePriceWithDiscount(t *testing.T) {
	discount := d("20")
	got := EffectivePrice(d("1000"), &discount)
	assert.True(t, got.Equal(d("800")), "20%% off 1000 should be 800, got %s", got)
}

func TestEffectivePriceFullDiscount(t *testing.T) {
	discount := d("100")
	assert.True(t, EffectivePrice(d("50"), &discount).IsZero())
}

func TestEffectivePriceZeroDiscount(t *testing.T) {
	discount := d("0")
	assert.True(t, EffectivePrice(d("50"), &discount).Equal(d("50")))
}

func TestLineSubtotalAccumulation(t *testing.T) {
	discount := d("20")
	unit := EffectivePrice(d("1000"), &discount)
	total := LineSubtotal(unit, 1).Add(LineSubtotal(unit, 2))
	require.True(t, total.Equal(d("2400")), "800*1 + 800*2 = 2400, got %s", total)
}

func TestAccumulateBeforeRounding(t *testing.T) {
	// 三分之一折扣产生循环小数，先累加后舍入不应放大误差。
	discount := d("33.333333")
	unit := EffectivePrice(d("0.03"), &discount)
	sum := decimal.Zero
	for i := 0; i < 100; i++ {
		sum = sum.Add(LineSubtotal(unit, 1))
	}
	assert.True(t, RoundDisplay(sum).Equal(d("2.00")), "got %s", RoundDisplay(sum))
}

func TestRoundDisplayBankers(t *testing.T) {
	assert.Equal(t, "2.42", RoundDisplay(d("2.425")).StringFixed(2))
	assert.Equal(t, "2.44", RoundDisplay(d("2.435")).StringFixed(2))
}
