package domain

import (
	"encoding/json"
	"reflect"
	"testing"

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

func tracked(id uint, price string, available int64) ProductSnapshot {
	return ProductSnapshot{
		ID:                id,
		Name:              "product",
		BasePrice:         dec(price),
		TrackQuantity:     true,
		AvailableQuantity: available,
		Active:            true,
	}
}

func untracked(id uint, price string) ProductSnapshot {
	return ProductSnapshot{ID: id, Name: "product", BasePrice: dec(price), Active: true}
}

func TestAddLineMergesSameKey(t *testing.T) {
	cart := &Cart{UserID: "u1"}
	snap := tracked(1, "10", 10)

	qty, err := cart.AddLine(snap, "M", "red", 2)
	require.NoError(t, err)
	assert.Equal(t, int64(2), qty)

	qty, err = cart.AddLine(snap, "M", "red", 3)
	require.NoError(t, err)
	assert.Equal(t, int64(5), qty)
	assert.Len(t, cart.Lines, 1)
}

func TestAddLineDistinctVariantsAreDistinctLines(t *testing.T) {
	cart := &Cart{UserID: "u1"}
	snap := tracked(1, "10", 100)

	_, err := cart.AddLine(snap, "M", "red", 1)
	require.NoError(t, err)
	_, err = cart.AddLine(snap, "L", "red", 1)
	require.NoError(t, err)
	_, err = cart.AddLine(snap, "M", "blue", 1)
	require.NoError(t, err)
	_, err = cart.AddLine(snap, "", "", 1)
	require.NoError(t, err)

	assert.Len(t, cart.Lines, 4)
	seen := map[LineKey]bool{}
	for _, l := range cart.Lines {
		assert.False(t, seen[l.Key()], "duplicate key %+v", l.Key())
		seen[l.Key()] = true
	}
}

func TestAddLineInsufficientStockLeavesCartUnchanged(t *testing.T) {
	cart := &Cart{UserID: "u1"}
	snap := tracked(7, "10", 3)

	_, err := cart.AddLine(snap, "M", "red", 2)
	require.NoError(t, err)

	_, err = cart.AddLine(snap, "M", "red", 2)
	var stockErr *InsufficientStockError
	require.ErrorAs(t, err, &stockErr)
	assert.Equal(t, uint(7), stockErr.ProductID)
	assert.Equal(t, int64(3), stockErr.Available)

	require.Len(t, cart.Lines, 1)
	assert.Equal(t, int64(2), cart.Lines[0].Quantity)
}

func TestAddLineUntrackedIgnoresStock(t *testing.T) {
	cart := &Cart{UserID: "u1"}
	_, err := cart.AddLine(untracked(1, "10"), "", "", 1000)
	assert.NoError(t, err)
}

func TestAddLineRejectsInactiveAndBadQuantity(t *testing.T) {
	cart := &Cart{UserID: "u1"}

	inactive := tracked(1, "10", 5)
	inactive.Active = false
	_, err := cart.AddLine(inactive, "", "", 1)
	assert.ErrorIs(t, err, ErrProductUnavailable)

	_, err = cart.AddLine(tracked(1, "10", 5), "", "", 0)
	assert.ErrorIs(t, err, ErrInvalidQuantity)
	assert.True(t, cart.IsEmpty())
}

func TestSetQuantityReplacesNotAdds(t *testing.T) {
	cart := &Cart{UserID: "u1"}
	snap := tracked(1, "10", 3)

	_, err := cart.AddLine(snap, "M", "red", 2)
	require.NoError(t, err)

	require.NoError(t, cart.SetQuantity(snap, "M", "red", 3))
	assert.Equal(t, int64(3), cart.Lines[0].Quantity)

	err = cart.SetQuantity(snap, "M", "red", 4)
	var stockErr *InsufficientStockError
	require.ErrorAs(t, err, &stockErr)
	assert.Equal(t, int64(3), cart.Lines[0].Quantity)
}

func TestSetQuantityZeroRemovesIdempotently(t *testing.T) {
	cart := &Cart{UserID: "u1"}
	snap := tracked(1, "10", 5)

	_, err := cart.AddLine(snap, "M", "red", 1)
	require.NoError(t, err)

	require.NoError(t, cart.SetQuantity(snap, "M", "red", 0))
	assert.True(t, cart.IsEmpty())
	// 再次删除同一行仍然成功
	require.NoError(t, cart.SetQuantity(snap, "M", "red", 0))
	require.NoError(t, cart.SetQuantity(snap, "XL", "green", -1))
}

func TestRemoveLineAbsentIsNoop(t *testing.T) {
	cart := &Cart{UserID: "u1"}
	cart.RemoveLine(99, "M", "red")
	assert.True(t, cart.IsEmpty())
}

func TestTotalInvariantUnderReordering(t *testing.T) {
	discount := dec("20")
	a := ProductSnapshot{ID: 1, BasePrice: dec("1000"), DiscountPercent: &discount, Active: true}
	b := untracked(2, "19.99")

	first := &Cart{UserID: "u1"}
	_, err := first.AddLine(a, "", "", 1)
	require.NoError(t, err)
	_, err = first.AddLine(b, "M", "", 3)
	require.NoError(t, err)
	_, err = first.AddLine(a, "", "", 2)
	require.NoError(t, err)

	second := &Cart{UserID: "u1"}
	_, err = second.AddLine(b, "M", "", 3)
	require.NoError(t, err)
	_, err = second.AddLine(a, "", "", 3)
	require.NoError(t, err)

	assert.True(t, first.Total().Equal(second.Total()))
	assert.Equal(t, first.ItemCount(), second.ItemCount())
}

func TestTotalWithDiscount(t *testing.T) {
	discount := dec("20")
	snap := ProductSnapshot{ID: 1, BasePrice: dec("1000"), DiscountPercent: &discount, Active: true}

	cart := &Cart{UserID: "u1"}
	_, err := cart.AddLine(snap, "", "", 1)
	require.NoError(t, err)
	_, err = cart.AddLine(snap, "M", "", 2)
	require.NoError(t, err)

	assert.True(t, cart.Total().Equal(dec("2400")), "800*1 + 800*2 = 2400, got %s", cart.Total())
}

func TestSpecScenarioStockGuard(t *testing.T) {
	// availableQuantity=3 的完整走查场景。
	cart := &Cart{UserID: "u1"}
	snap := tracked(1, "50", 3)

	qty, err := cart.AddLine(snap, "M", "red", 2)
	require.NoError(t, err)
	assert.Equal(t, int64(2), qty)

	_, err = cart.AddLine(snap, "M", "red", 2)
	var stockErr *InsufficientStockError
	require.ErrorAs(t, err, &stockErr)
	assert.Equal(t, int64(3), stockErr.Available)
	assert.Equal(t, int64(2), cart.Lines[0].Quantity)

	require.NoError(t, cart.SetQuantity(snap, "M", "red", 3))
	assert.Equal(t, int64(3), cart.Lines[0].Quantity)
}

func TestSnapshotRoundTrip(t *testing.T) {
	cart := &Cart{UserID: "u1"}
	_, err := cart.AddLine(tracked(1, "10", 10), "M", "red", 2)
	require.NoError(t, err)
	_, err = cart.AddLine(untracked(2, "5"), "", "", 4)
	require.NoError(t, err)

	data, err := json.Marshal(cart.Snapshot())
	require.NoError(t, err)

	var lines []LineSnapshot
	require.NoError(t, json.Unmarshal(data, &lines))

	restored := &Cart{UserID: "u1"}
	restored.Hydrate(lines)

	assert.Equal(t, cart.Snapshot(), restored.Snapshot())
	assert.Equal(t, cart.ItemCount(), restored.ItemCount())
}

func TestHydrateMergesDuplicateKeys(t *testing.T) {
	cart := &Cart{UserID: "u1"}
	cart.Hydrate([]LineSnapshot{
		{ProductID: 1, Size: "M", Quantity: 2},
		{ProductID: 1, Size: "M", Quantity: 3},
		{ProductID: 2, Quantity: 0},
	})

	require.Len(t, cart.Lines, 1)
	assert.Equal(t, int64(5), cart.Lines[0].Quantity)
}

func TestCartLineUniqueKeyIsScopedToCart(t *testing.T) {
	typ := reflect.TypeOf(CartLine{})

	for _, name := range []string{"CartID", "ProductID", "Size", "Color"} {
		field, ok := typ.FieldByName(name)
		require.True(t, ok, name)
		assert.Contains(t, field.Tag.Get("gorm"), "uniqueIndex:idx_cart_line_key", name)
	}
}

func TestCartLineHasNoSoftDeleteTombstone(t *testing.T) {
	// 删除必须是硬删除：软删墓碑会留在唯一索引里，
	// 阻止同一用户结算后重新加入同款商品行。
	_, hasDeletedAt := reflect.TypeOf(CartLine{}).FieldByName("DeletedAt")
	assert.False(t, hasDeletedAt)
}
