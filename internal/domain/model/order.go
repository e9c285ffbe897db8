//revive:disable-next-line:var-naming // legacy package name widely used across the project
package model

import "time"

// OrderStatus is the fulfilment state of an order.
type OrderStatus string

const (
	OrderStatusPending    OrderStatus = "pending"
	OrderStatusPaid       OrderStatus = "paid"
	OrderStatusProcessing OrderStatus = "processing"
	OrderStatusShipped    OrderStatus = "shipped"
	OrderStatusDelivered  OrderStatus = "delivered"
	OrderStatusCancelled  OrderStatus = "cancelled"
	OrderStatusRefunded   OrderStatus = "refunded"
)

// Valid reports whether the status is one the backend emits.
func (s OrderStatus) Valid() bool {
	switch s {
	case OrderStatusPending, OrderStatusPaid, OrderStatusProcessing, OrderStatusShipped,
		OrderStatusDelivered, OrderStatusCancelled, OrderStatusRefunded:
		return true
	default:
		return false
	}
}

// PaymentMethod is the payment option chosen at checkout.
type PaymentMethod string

const (
	PaymentMethodCard           PaymentMethod = "card"
	PaymentMethodPayPal         PaymentMethod = "paypal"
	PaymentMethodStripe         PaymentMethod = "stripe"
	PaymentMethodCashOnDelivery PaymentMethod = "cash_on_delivery"
)

// ShippingAddress is the delivery address attached to an order.
type ShippingAddress struct {
	ID           int64  `json:"id"`
	FullName     string `json:"full_name"`
	Phone        string `json:"phone"`
	AddressLine1 string `json:"address_line1"`
	AddressLine2 string `json:"address_line2,omitempty"`
	City         string `json:"city"`
	State        string `json:"state"`
	PostalCode   string `json:"postal_code"`
	Country      string `json:"country"`
	IsDefault    bool   `json:"is_default"`
}

// OrderItem is a purchased line, denormalized at order time.
type OrderItem struct {
	ID             int64  `json:"id"`
	Product        *int64 `json:"product"`
	Variant        *int64 `json:"variant"`
	ProductName    string `json:"product_name"`
	VariantName    string `json:"variant_name,omitempty"`
	SKU            string `json:"sku"`
	Quantity       int    `json:"quantity"`
	UnitPrice      string `json:"unit_price"`
	DiscountAmount string `json:"discount_amount"`
	TotalPrice     string `json:"total_price"`
}

// OrderStatusChange is one entry of an order's status history.
type OrderStatusChange struct {
	ID            int64       `json:"id"`
	Status        OrderStatus `json:"status"`
	Notes         string      `json:"notes,omitempty"`
	ChangedByName string      `json:"changed_by_name,omitempty"`
	CreatedAt     time.Time   `json:"created_at"`
}

// Order is a placed order.
type Order struct {
	ID              int64               `json:"id"`
	OrderNumber     string              `json:"order_number"`
	ShippingAddress *ShippingAddress    `json:"shipping_address"`
	Status          OrderStatus         `json:"status"`
	PaymentMethod   PaymentMethod       `json:"payment_method"`
	IsPaid          bool                `json:"is_paid"`
	PaidAt          *time.Time          `json:"paid_at"`
	Subtotal        string              `json:"subtotal"`
	DiscountAmount  string              `json:"discount_amount"`
	TaxAmount       string              `json:"tax_amount"`
	ShippingCost    string              `json:"shipping_cost"`
	Total           string              `json:"total"`
	TrackingNumber  string              `json:"tracking_number,omitempty"`
	ShippedAt       *time.Time          `json:"shipped_at"`
	DeliveredAt     *time.Time          `json:"delivered_at"`
	CustomerNotes   string              `json:"customer_notes,omitempty"`
	Items           []OrderItem         `json:"items"`
	StatusHistory   []OrderStatusChange `json:"status_history,omitempty"`
	TotalItems      int                 `json:"total_items"`
	CreatedAt       time.Time           `json:"created_at"`
	UpdatedAt       time.Time           `json:"updated_at"`
}

// IsCancellable reports whether the order may still be cancelled by the customer.
func (o Order) IsCancellable() bool {
	switch o.Status {
	case OrderStatusShipped, OrderStatusDelivered, OrderStatusCancelled, OrderStatusRefunded:
		return false
	default:
		return true
	}
}

// CreateOrderInput is the body of the order creation endpoint.
type CreateOrderInput struct {
	ShippingAddressID int64         `json:"shipping_address_id" validate:"required,gt=0"`
	PaymentMethod     PaymentMethod `json:"payment_method"      validate:"required,oneof=card paypal stripe cash_on_delivery"`
	CustomerNotes     string        `json:"customer_notes,omitempty"`
	CouponCode        string        `json:"coupon_code,omitempty"`
}

// OrderEnvelope decodes order mutation payloads, which are either
// `{"order": {...}, ...}` or the bare order.
type OrderEnvelope struct {
	Order   Order
	Message string
}

// UnmarshalJSON accepts both the wrapped and the bare shape.
func (e *OrderEnvelope) UnmarshalJSON(data []byte) error {
	msg, err := unwrapEnvelope(data, "order", &e.Order)
	e.Message = msg
	return err
}

// OrdersByStatus filters orders by status, preserving order.
func OrdersByStatus(orders []Order, status OrderStatus) []Order {
	var out []Order
	for _, o := range orders {
		if o.Status == status {
			out = append(out, o)
		}
	}
	return out
}
