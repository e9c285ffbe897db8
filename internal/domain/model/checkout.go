//revive:disable-next-line:var-naming // legacy package name widely used across the project
package model

import "time"

// ShippingAddressInput is the body of the address create and update
// endpoints. Updates are partial: empty fields are omitted.
type ShippingAddressInput struct {
	FullName     string `json:"full_name,omitempty"     validate:"required"`
	Phone        string `json:"phone,omitempty"         validate:"required"`
	AddressLine1 string `json:"address_line1,omitempty" validate:"required"`
	AddressLine2 string `json:"address_line2,omitempty"`
	City         string `json:"city,omitempty"          validate:"required"`
	State        string `json:"state,omitempty"         validate:"required"`
	PostalCode   string `json:"postal_code,omitempty"   validate:"required"`
	Country      string `json:"country,omitempty"`
	IsDefault    *bool  `json:"is_default,omitempty"`
}

// DefaultAddress returns the address flagged as default, or nil.
func DefaultAddress(addresses []ShippingAddress) *ShippingAddress {
	for i := range addresses {
		if addresses[i].IsDefault {
			a := addresses[i]
			return &a
		}
	}
	return nil
}

// DiscountType is how a coupon discounts an order.
type DiscountType string

const (
	DiscountPercentage DiscountType = "percentage"
	DiscountFixed      DiscountType = "fixed"
)

// Coupon is a discount code.
type Coupon struct {
	ID                 int64        `json:"id"`
	Code               string       `json:"code"`
	Description        string       `json:"description,omitempty"`
	DiscountType       DiscountType `json:"discount_type"`
	DiscountValue      string       `json:"discount_value"`
	MinimumOrderAmount string       `json:"minimum_order_amount,omitempty"`
	IsValid            bool         `json:"is_valid"`
	ValidFrom          *time.Time   `json:"valid_from,omitempty"`
	ValidTo            *time.Time   `json:"valid_to,omitempty"`
}

// ValidateCouponInput is the body of the coupon validation endpoint.
// OrderAmount is a decimal string; empty skips the discount calculation.
type ValidateCouponInput struct {
	Code        string `json:"code"                   validate:"required"`
	OrderAmount string `json:"order_amount,omitempty" validate:"omitempty,number"`
}

// CouponValidation is the answer of the coupon validation endpoint. An
// invalid code is reported as a validation error, not as Valid=false.
type CouponValidation struct {
	Valid          bool    `json:"valid"`
	Coupon         *Coupon `json:"coupon"`
	DiscountAmount Decimal `json:"discount_amount"`
	Message        string  `json:"message,omitempty"`
}

// PaymentStatus is the state of a payment attempt.
type PaymentStatus string

const (
	PaymentStatusPending    PaymentStatus = "pending"
	PaymentStatusProcessing PaymentStatus = "processing"
	PaymentStatusCompleted  PaymentStatus = "completed"
	PaymentStatusFailed     PaymentStatus = "failed"
	PaymentStatusRefunded   PaymentStatus = "refunded"
	PaymentStatusCancelled  PaymentStatus = "cancelled"
)

// Payment is a payment recorded against an order.
type Payment struct {
	ID            int64         `json:"id"`
	Order         int64         `json:"order"`
	PaymentID     string        `json:"payment_id"`
	PaymentMethod PaymentMethod `json:"payment_method"`
	Amount        string        `json:"amount"`
	Currency      string        `json:"currency"`
	Status        PaymentStatus `json:"status"`
	TransactionID string        `json:"transaction_id,omitempty"`
	ErrorMessage  string        `json:"error_message,omitempty"`
	CreatedAt     time.Time     `json:"created_at"`
}

// PaymentResult is the answer of the pay-for-order endpoint.
type PaymentResult struct {
	Message string  `json:"message,omitempty"`
	Payment Payment `json:"payment"`
	Order   *Order  `json:"order"`
}

// AddressEnvelope decodes address payloads, which are either
// `{"address": {...}, "message": ...}` or the bare address.
type AddressEnvelope struct {
	Address ShippingAddress
	Message string
}

// UnmarshalJSON accepts both the wrapped and the bare shape.
func (e *AddressEnvelope) UnmarshalJSON(data []byte) error {
	msg, err := unwrapEnvelope(data, "address", &e.Address)
	e.Message = msg
	return err
}
