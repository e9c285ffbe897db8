//revive:disable-next-line:var-naming // legacy package name widely used across the project
package model

// ProductSummary is the compact product representation embedded in cart,
// wishlist and order payloads. Monetary values are decimal strings as sent by
// the backend and are never parsed into floats.
type ProductSummary struct {
	ID                 int64   `json:"id"`
	Name               string  `json:"name"`
	Slug               string  `json:"slug"`
	ShortDescription   string  `json:"short_description,omitempty"`
	CategoryName       string  `json:"category_name,omitempty"`
	BrandName          string  `json:"brand_name,omitempty"`
	BasePrice          string  `json:"base_price,omitempty"`
	DiscountPrice      *string `json:"discount_price,omitempty"`
	Price              string  `json:"price,omitempty"`
	DiscountPercentage int     `json:"discount_percentage,omitempty"`
	AverageRating      float64 `json:"average_rating,omitempty"`
	ReviewsCount       int     `json:"reviews_count,omitempty"`
	IsInStock          bool    `json:"is_in_stock"`
	PrimaryImage       string  `json:"primary_image,omitempty"`
}

// Variant is a purchasable variation of a product (size, color, ...).
type Variant struct {
	ID            int64             `json:"id"`
	Name          string            `json:"name"`
	SKU           string            `json:"sku"`
	Price         string            `json:"price,omitempty"`
	Attributes    map[string]string `json:"attributes,omitempty"`
	StockQuantity int               `json:"stock_quantity"`
	IsInStock     bool              `json:"is_in_stock"`
	IsActive      bool              `json:"is_active"`
	Image         string            `json:"image,omitempty"`
}
