//revive:disable-next-line:var-naming // legacy package name widely used across the project
package model

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const cartPayload = `{
  "id": 3,
  "items": [
    {"id": 10, "product": {"id": 1, "name": "Mug"}, "variant": null, "quantity": 2, "total_price": "20.00"},
    {"id": 11, "product": {"id": 2, "name": "Shirt"}, "variant": {"id": 5, "name": "L"}, "quantity": 1, "total_price": "15.00"}
  ],
  "total_items": 3,
  "subtotal": "35.00",
  "total_discount": "",
  "total": "35.00"
}`

func TestCartDerivations(t *testing.T) {
	var cart Cart
	require.NoError(t, json.Unmarshal([]byte(cartPayload), &cart))

	assert.Equal(t, 3, CartItemCount(&cart))
	assert.Equal(t, "35.00", CartSubtotal(&cart))
	assert.Equal(t, "0.00", CartTotalDiscount(&cart))
	assert.Equal(t, "35.00", CartTotal(&cart))
	assert.False(t, CartIsEmpty(&cart))

	item, ok := FindCartItem(&cart, 1, 0)
	require.True(t, ok)
	assert.Equal(t, int64(10), item.ID)

	item, ok = FindCartItem(&cart, 2, 5)
	require.True(t, ok)
	assert.Equal(t, int64(11), item.ID)

	_, ok = FindCartItem(&cart, 2, 0)
	assert.False(t, ok, "variant line must not match a variantless lookup")
	_, ok = FindCartItem(&cart, 1, 9)
	assert.False(t, ok)
}

func TestCartDerivations_NilCart(t *testing.T) {
	assert.True(t, CartIsEmpty(nil))
	assert.Zero(t, CartItemCount(nil))
	assert.Equal(t, "0.00", CartSubtotal(nil))
	assert.Equal(t, "0.00", CartTotal(nil))
	assert.Equal(t, "0.00", CartTotalDiscount(nil))
}
