//revive:disable-next-line:var-naming // legacy package name widely used across the project
package model

import "time"

const zeroAmount = "0.00"

// CartItem is a single line in the cart.
type CartItem struct {
	ID             int64          `json:"id"`
	Product        ProductSummary `json:"product"`
	Variant        *Variant       `json:"variant"`
	Quantity       int            `json:"quantity"`
	UnitPrice      string         `json:"unit_price"`
	OriginalPrice  string         `json:"original_price"`
	TotalPrice     string         `json:"total_price"`
	DiscountAmount string         `json:"discount_amount"`
	IsAvailable    bool           `json:"is_available"`
	CreatedAt      time.Time      `json:"created_at"`
	UpdatedAt      time.Time      `json:"updated_at"`
}

// Matches reports whether the line holds productID in variantID.
// A zero variantID matches only lines without a variant.
func (i CartItem) Matches(productID, variantID int64) bool {
	if i.Product.ID != productID {
		return false
	}
	if variantID == 0 {
		return i.Variant == nil
	}
	return i.Variant != nil && i.Variant.ID == variantID
}

// Cart is the user's cart as returned by every cart endpoint.
type Cart struct {
	ID            int64      `json:"id"`
	Items         []CartItem `json:"items"`
	TotalItems    int        `json:"total_items"`
	Subtotal      string     `json:"subtotal"`
	TotalDiscount string     `json:"total_discount"`
	Total         string     `json:"total"`
	CreatedAt     time.Time  `json:"created_at"`
	UpdatedAt     time.Time  `json:"updated_at"`
}

// AddToCartInput is the body of the add-to-cart endpoint.
type AddToCartInput struct {
	ProductID int64  `json:"product_id" validate:"required,gt=0"`
	VariantID *int64 `json:"variant_id"`
	Quantity  int    `json:"quantity"   validate:"gte=1"`
}

// UpdateCartItemInput is the body of the cart item update endpoint.
type UpdateCartItemInput struct {
	Quantity int `json:"quantity" validate:"gte=1"`
}

// CartItems returns the cart lines, or nil for a missing cart.
func CartItems(c *Cart) []CartItem {
	if c == nil {
		return nil
	}
	return c.Items
}

// CartItemCount sums quantities across lines.
func CartItemCount(c *Cart) int {
	n := 0
	for _, item := range CartItems(c) {
		n += item.Quantity
	}
	return n
}

// CartSubtotal returns the subtotal, defaulting to "0.00".
func CartSubtotal(c *Cart) string {
	if c == nil {
		return zeroAmount
	}
	return amountOrZero(c.Subtotal)
}

// CartTotalDiscount returns the total discount, defaulting to "0.00".
func CartTotalDiscount(c *Cart) string {
	if c == nil {
		return zeroAmount
	}
	return amountOrZero(c.TotalDiscount)
}

// CartTotal returns the total, defaulting to "0.00".
func CartTotal(c *Cart) string {
	if c == nil {
		return zeroAmount
	}
	return amountOrZero(c.Total)
}

// CartIsEmpty reports whether there is no cart or it has no lines.
func CartIsEmpty(c *Cart) bool {
	return len(CartItems(c)) == 0
}

// FindCartItem returns the line for productID/variantID, if any.
func FindCartItem(c *Cart, productID, variantID int64) (CartItem, bool) {
	for _, item := range CartItems(c) {
		if item.Matches(productID, variantID) {
			return item, true
		}
	}
	return CartItem{}, false
}

func amountOrZero(v string) string {
	if v == "" {
		return zeroAmount
	}
	return v
}

// CartMutation is the payload of the cart add, update, remove and clear endpoints.
type CartMutation struct {
	Message string    `json:"message"`
	Item    *CartItem `json:"item,omitempty"`
}
