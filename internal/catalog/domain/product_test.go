package domain

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func dec(s string) decimal.Decimal {
	v, err := decimal.NewFromString(s)
	if err != nil {
		panic(err)
	}
	return v
}

func TestValidateRejectsNegativePrice(t *testing.T) {
	p := &Product{Name: "tee", BasePrice: dec("-1"), Status: ProductStatusActive}
	assert.ErrorIs(t, p.Validate(), ErrInvalidPrice)
}

func TestValidateDiscountBounds(t *testing.T) {
	for _, tc := range []struct {
		discount string
		wantErr  bool
	}{
		{"0", false},
		{"100", false},
		{"42.5", false},
		{"-0.01", true},
		{"100.01", true},
	} {
		d := dec(tc.discount)
		p := &Product{Name: "tee", BasePrice: dec("10"), DiscountPercent: &d, Status: ProductStatusActive}
		err := p.Validate()
		if tc.wantErr {
			assert.ErrorIs(t, err, ErrInvalidDiscount, "discount %s", tc.discount)
		} else {
			assert.NoError(t, err, "discount %s", tc.discount)
		}
	}
}

func TestValidateRejectsNegativeStock(t *testing.T) {
	p := &Product{Name: "tee", BasePrice: dec("10"), TrackQuantity: true, AvailableQuantity: -1}
	assert.ErrorIs(t, p.Validate(), ErrInvalidQuantity)
}

func TestApplyPatchOnlyChangesPresentFields(t *testing.T) {
	d := dec("10")
	p := &Product{
		Name:              "tee",
		Description:       "cotton tee",
		Category:          "apparel",
		BasePrice:         dec("25"),
		DiscountPercent:   &d,
		TrackQuantity:     true,
		AvailableQuantity: 5,
		Status:            ProductStatusActive,
	}

	newPrice := dec("30")
	p.Apply(ProductPatch{BasePrice: &newPrice})

	assert.Equal(t, "tee", p.Name)
	assert.Equal(t, "cotton tee", p.Description)
	assert.True(t, p.BasePrice.Equal(dec("30")))
	require.NotNil(t, p.DiscountPercent)
	assert.True(t, p.DiscountPercent.Equal(dec("10")))
	assert.Equal(t, int64(5), p.AvailableQuantity)
}

func TestApplyPatchClearDiscount(t *testing.T) {
	d := dec("10")
	p := &Product{Name: "tee", BasePrice: dec("25"), DiscountPercent: &d}

	p.Apply(ProductPatch{ClearDiscount: true})
	assert.Nil(t, p.DiscountPercent)
}

func TestMarkDeleted(t *testing.T) {
	p := &Product{Name: "tee", BasePrice: dec("25"), Status: ProductStatusActive}
	at := time.Now()
	p.MarkDeleted(at)

	assert.Equal(t, ProductStatusDeleted, p.Status)
	require.NotNil(t, p.StatusChangedAt)
	assert.True(t, p.StatusChangedAt.Equal(at))
	assert.False(t, p.IsActive())
}
