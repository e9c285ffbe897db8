//revive:disable-next-line:var-naming // legacy package name widely used across the project
package model

import "time"

// WishlistItem is a saved product.
type WishlistItem struct {
	ID        int64          `json:"id"`
	User      int64          `json:"user,omitempty"`
	Product   ProductSummary `json:"product"`
	CreatedAt time.Time      `json:"created_at"`
}

// AddToWishlistInput is the body of the add-to-wishlist endpoint.
type AddToWishlistInput struct {
	ProductID int64 `json:"product_id" validate:"required,gt=0"`
}

// WishlistItems decodes the wishlist payload, which is either a paginated
// envelope or a bare list.
type WishlistItems []WishlistItem

// UnmarshalJSON accepts both `{"results": [...]}` and `[...]`.
func (w *WishlistItems) UnmarshalJSON(data []byte) error {
	items, err := decodeList[WishlistItem](data)
	if err != nil {
		return err
	}
	*w = items
	return nil
}

// ProductIDs returns the product ID of every item, in order.
func (w WishlistItems) ProductIDs() []int64 {
	ids := make([]int64, 0, len(w))
	for _, item := range w {
		ids = append(ids, item.Product.ID)
	}
	return ids
}

// Contains reports whether productID is saved.
func (w WishlistItems) Contains(productID int64) bool {
	for _, item := range w {
		if item.Product.ID == productID {
			return true
		}
	}
	return false
}

// Without returns a copy with productID removed.
func (w WishlistItems) Without(productID int64) WishlistItems {
	out := make(WishlistItems, 0, len(w))
	for _, item := range w {
		if item.Product.ID != productID {
			out = append(out, item)
		}
	}
	return out
}
