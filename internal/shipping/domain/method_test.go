package domain

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
)

func TestValidateRejectsNegativeFee(t *testing.T) {
	method := &ShippingMethod{
		Name: "Express",
		Fee:  decimal.NewFromInt(-1),
	}
	assert.ErrorIs(t, method.Validate(), ErrInvalidFee)
}

func TestValidateAcceptsFreeShipping(t *testing.T) {
	method := &ShippingMethod{
		Name: "Standard",
		Fee:  decimal.Zero,
	}
	assert.NoError(t, method.Validate())
}
