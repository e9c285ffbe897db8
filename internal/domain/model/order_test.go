//revive:disable-next-line:var-naming // legacy package name widely used across the project
package model

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestOrderEnvelope_UnmarshalJSON(t *testing.T) {
	var wrapped OrderEnvelope
	require.NoError(t, json.Unmarshal([]byte(`{"message":"Order created","order":{"id":1,"order_number":"ORD-1","status":"pending"}}`), &wrapped))
	assert.Equal(t, "ORD-1", wrapped.Order.OrderNumber)
	assert.Equal(t, "Order created", wrapped.Message)

	var bare OrderEnvelope
	require.NoError(t, json.Unmarshal([]byte(`{"id":2,"order_number":"ORD-2","status":"cancelled"}`), &bare))
	assert.Equal(t, "ORD-2", bare.Order.OrderNumber)
	assert.Equal(t, OrderStatusCancelled, bare.Order.Status)
}

func TestOrderStatus_Valid(t *testing.T) {
	assert.True(t, OrderStatusShipped.Valid())
	assert.False(t, OrderStatus("lost").Valid())
}

func TestOrder_IsCancellable(t *testing.T) {
	assert.True(t, Order{Status: OrderStatusPending}.IsCancellable())
	assert.True(t, Order{Status: OrderStatusProcessing}.IsCancellable())
	assert.False(t, Order{Status: OrderStatusShipped}.IsCancellable())
	assert.False(t, Order{Status: OrderStatusCancelled}.IsCancellable())
}

func TestOrdersByStatus(t *testing.T) {
	orders := []Order{
		{OrderNumber: "A", Status: OrderStatusPending},
		{OrderNumber: "B", Status: OrderStatusPaid},
		{OrderNumber: "C", Status: OrderStatusPending},
	}
	got := OrdersByStatus(orders, OrderStatusPending)
	require.Len(t, got, 2)
	assert.Equal(t, "A", got[0].OrderNumber)
	assert.Equal(t, "C", got[1].OrderNumber)
	assert.Empty(t, OrdersByStatus(orders, OrderStatusRefunded))
}

func TestPage_Navigation(t *testing.T) {
	next := "http://api/orders/?page=2"
	p := &Page[Order]{Count: 30, Next: &next}
	assert.True(t, p.HasNext())
	assert.False(t, p.HasPrevious())

	var nilPage *Page[Order]
	assert.False(t, nilPage.HasNext())
}
