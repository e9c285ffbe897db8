//revive:disable-next-line:var-naming // legacy package name widely used across the project
package model

import "time"

// Category is a product category. Children are only present on the detail view.
type Category struct {
	ID            int64      `json:"id"`
	Name          string     `json:"name"`
	Slug          string     `json:"slug"`
	Description   string     `json:"description,omitempty"`
	Image         string     `json:"image,omitempty"`
	IsActive      bool       `json:"is_active"`
	ProductsCount int        `json:"products_count"`
	Parent        *Category  `json:"parent,omitempty"`
	Children      []Category `json:"children,omitempty"`
}

// Brand is a product brand.
type Brand struct {
	ID            int64  `json:"id"`
	Name          string `json:"name"`
	Slug          string `json:"slug"`
	Description   string `json:"description,omitempty"`
	Logo          string `json:"logo,omitempty"`
	Website       string `json:"website,omitempty"`
	IsActive      bool   `json:"is_active"`
	ProductsCount int    `json:"products_count"`
}

// Tag labels products.
type Tag struct {
	ID   int64  `json:"id"`
	Name string `json:"name"`
	Slug string `json:"slug"`
}

// ProductImage is one picture of a product.
type ProductImage struct {
	ID        int64  `json:"id"`
	Image     string `json:"image"`
	AltText   string `json:"alt_text,omitempty"`
	IsPrimary bool   `json:"is_primary"`
	Order     int    `json:"order"`
}

// Product is the full product detail.
type Product struct {
	ProductSummary
	Description   string         `json:"description,omitempty"`
	Category      *Category      `json:"category"`
	Brand         *Brand         `json:"brand"`
	StockQuantity int            `json:"stock_quantity"`
	SKU           string         `json:"sku,omitempty"`
	IsFeatured    bool           `json:"is_featured"`
	IsNew         bool           `json:"is_new"`
	ViewsCount    int            `json:"views_count,omitempty"`
	Images        []ProductImage `json:"images,omitempty"`
	Variants      []Variant      `json:"variants,omitempty"`
	Tags          []Tag          `json:"tags,omitempty"`
}

// ProductFilter narrows the product list. Zero values are omitted from the query.
type ProductFilter struct {
	Search    string
	Category  string
	Brand     string
	MinPrice  string
	MaxPrice  string
	MinRating int
	InStock   bool
	Featured  bool
	New       bool
	Ordering  string
	Page      int
	PageSize  int
}

// DefaultProductOrdering lists the newest products first.
const DefaultProductOrdering = "-created_at"

// Review is a customer's product review.
type Review struct {
	ID         int64     `json:"id"`
	User       int64     `json:"user"`
	UserName   string    `json:"user_name"`
	Rating     int       `json:"rating"`
	Title      string    `json:"title,omitempty"`
	Comment    string    `json:"comment"`
	IsApproved bool      `json:"is_approved"`
	CreatedAt  time.Time `json:"created_at"`
	UpdatedAt  time.Time `json:"updated_at"`
}

// ReviewInput is the body of the review create and update endpoints.
type ReviewInput struct {
	Rating  int    `json:"rating"          validate:"required,min=1,max=5"`
	Title   string `json:"title,omitempty" validate:"max=200"`
	Comment string `json:"comment"         validate:"required"`
}

// ReviewEnvelope decodes review mutation payloads, which are either
// `{"review": {...}, "message": ...}` or the bare review.
type ReviewEnvelope struct {
	Review  Review
	Message string
}

// UnmarshalJSON accepts both the wrapped and the bare shape.
func (e *ReviewEnvelope) UnmarshalJSON(data []byte) error {
	msg, err := unwrapEnvelope(data, "review", &e.Review)
	e.Message = msg
	return err
}
