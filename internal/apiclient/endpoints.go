package apiclient

import (
	"fmt"
	"net/url"
	"strings"
)

// Backend endpoints. Paths keep their trailing slash; the backend redirects without it.
const (
	RegisterPath       = "/api/v1/auth/register/"
	LoginPath          = "/api/v1/auth/login/"
	LogoutPath         = "/api/v1/auth/logout/"
	RefreshPath        = "/api/v1/auth/token/refresh/"
	ProfilePath        = "/api/v1/auth/profile/"
	ChangePasswordPath = "/api/v1/auth/change-password/"
	UploadImagePath    = "/api/v1/upload/image/"

	CartPath      = "/cart/"
	CartAddPath   = "/cart/add/"
	CartClearPath = "/cart/clear/"

	WishlistPath    = "/wishlist/"
	WishlistAddPath = "/wishlist/add/"

	OrdersPath      = "/payment/orders/"
	OrderCreatePath = "/payment/orders/create/"

	ShippingAddressesPath     = "/payment/shipping-addresses/"
	ShippingAddressCreatePath = "/payment/shipping-addresses/create/"
	CouponValidatePath        = "/payment/coupons/validate/"

	ProductsPath   = "/products/"
	CategoriesPath = "/categories/"
	BrandsPath     = "/brands/"
	TagsPath       = "/tags/"
)

// CartItemUpdatePath returns the update path for a cart line.
func CartItemUpdatePath(itemID int64) string {
	return fmt.Sprintf("/cart/items/%d/update/", itemID)
}

// CartItemRemovePath returns the removal path for a cart line.
func CartItemRemovePath(itemID int64) string {
	return fmt.Sprintf("/cart/items/%d/remove/", itemID)
}

// WishlistRemovePath returns the removal path for a saved product.
func WishlistRemovePath(productID int64) string {
	return fmt.Sprintf("/wishlist/remove/%d/", productID)
}

// OrderPath returns the detail path for an order number.
func OrderPath(number string) string {
	return OrdersPath + url.PathEscape(number) + "/"
}

// OrderCancelPath returns the cancellation path for an order number.
func OrderCancelPath(number string) string {
	return OrdersPath + url.PathEscape(number) + "/cancel/"
}

// ShippingAddressPath returns the detail path for a shipping address.
func ShippingAddressPath(id int64) string {
	return fmt.Sprintf("%s%d/", ShippingAddressesPath, id)
}

func ShippingAddressUpdatePath(id int64) string {
	return fmt.Sprintf("%s%d/update/", ShippingAddressesPath, id)
}

func ShippingAddressDeletePath(id int64) string {
	return fmt.Sprintf("%s%d/delete/", ShippingAddressesPath, id)
}

func ShippingAddressSetDefaultPath(id int64) string {
	return fmt.Sprintf("%s%d/set-default/", ShippingAddressesPath, id)
}

// PaymentCreatePath returns the path that pays for an order.
func PaymentCreatePath(orderNumber string) string {
	return "/payment/payments/" + url.PathEscape(orderNumber) + "/create/"
}

// PaymentPath returns the detail path for a payment.
func PaymentPath(id int64) string {
	return fmt.Sprintf("/payment/payments/%d/", id)
}

// ProductPath returns the detail path for a product slug.
func ProductPath(slug string) string {
	return ProductsPath + url.PathEscape(slug) + "/"
}

func ProductRelatedPath(slug string) string {
	return ProductPath(slug) + "related/"
}

func ProductReviewsPath(slug string) string {
	return ProductPath(slug) + "reviews/"
}

func ReviewCreatePath(slug string) string {
	return ProductPath(slug) + "reviews/create/"
}

func ReviewUpdatePath(id int64) string {
	return fmt.Sprintf("/reviews/%d/update/", id)
}

func ReviewDeletePath(id int64) string {
	return fmt.Sprintf("/reviews/%d/delete/", id)
}

// CategoryPath returns the detail path for a category slug.
func CategoryPath(slug string) string {
	return CategoriesPath + url.PathEscape(slug) + "/"
}

func CategoryProductsPath(slug string) string {
	return CategoryPath(slug) + "products/"
}

// BrandPath returns the detail path for a brand slug.
func BrandPath(slug string) string {
	return BrandsPath + url.PathEscape(slug) + "/"
}

// OtherRoute tags requests whose path matches no known endpoint.
const OtherRoute = "other"

// routeTemplates lists the parameterized endpoints. A "{...}" segment matches
// any single path segment.
var routeTemplates = []string{
	"/cart/items/{id}/update/",
	"/cart/items/{id}/remove/",
	"/wishlist/remove/{product_id}/",
	"/payment/orders/{number}/",
	"/payment/orders/{number}/cancel/",
	"/payment/shipping-addresses/{id}/",
	"/payment/shipping-addresses/{id}/update/",
	"/payment/shipping-addresses/{id}/delete/",
	"/payment/shipping-addresses/{id}/set-default/",
	"/payment/payments/{number}/create/",
	"/payment/payments/{id}/",
	"/products/{slug}/",
	"/products/{slug}/related/",
	"/products/{slug}/reviews/",
	"/products/{slug}/reviews/create/",
	"/reviews/{id}/update/",
	"/reviews/{id}/delete/",
	"/categories/{slug}/",
	"/categories/{slug}/products/",
	"/brands/{slug}/",
}

var fixedRoutes = map[string]bool{
	RegisterPath: true, LoginPath: true, LogoutPath: true, RefreshPath: true,
	ProfilePath: true, ChangePasswordPath: true, UploadImagePath: true,
	CartPath: true, CartAddPath: true, CartClearPath: true,
	WishlistPath: true, WishlistAddPath: true,
	OrdersPath: true, OrderCreatePath: true,
	ShippingAddressesPath: true, ShippingAddressCreatePath: true, CouponValidatePath: true,
	ProductsPath: true, CategoriesPath: true, BrandsPath: true, TagsPath: true,
}

// RouteOf maps a request path to its endpoint template, e.g.
// "/payment/orders/ORD-1/cancel/" to "/payment/orders/{number}/cancel/".
// Fixed endpoints map to themselves; unknown paths map to OtherRoute.
func RouteOf(path string) string {
	if fixedRoutes[path] {
		return path
	}
	segments := strings.Split(path, "/")
	for _, tmpl := range routeTemplates {
		if matchRoute(strings.Split(tmpl, "/"), segments) {
			return tmpl
		}
	}
	return OtherRoute
}

func matchRoute(tmpl, segments []string) bool {
	if len(tmpl) != len(segments) {
		return false
	}
	for i, part := range tmpl {
		if strings.HasPrefix(part, "{") {
			if segments[i] == "" {
				return false
			}
			continue
		}
		if part != segments[i] {
			return false
		}
	}
	return true
}
