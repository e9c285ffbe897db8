package service

import (
	"context"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/target/storefront/internal/apiclient"
	domainauth "github.com/target/storefront/internal/domain/auth"
	"github.com/target/storefront/internal/domain/model"
	apperrors "github.com/target/storefront/internal/errors"
	"github.com/target/storefront/internal/testutil"
)

func productBody(id int64, slug string) map[string]any {
	return map[string]any{"id": id, "name": slug, "slug": slug, "price": "10.00"}
}

func newCatalogService(t *testing.T) (*CatalogService, *sessionFixture) {
	t.Helper()
	f := newSessionFixture(t, domainauth.Credentials{})
	return NewCatalogService(CatalogServiceOptions{Client: f.client}), f
}

func TestProductQuery(t *testing.T) {
	tests := []struct {
		name   string
		filter model.ProductFilter
		want   string
	}{
		{name: "empty", filter: model.ProductFilter{}, want: ""},
		{
			name:   "text and slugs",
			filter: model.ProductFilter{Search: "red shoe", Category: "shoes", Brand: "acme", Ordering: "price"},
			want:   "brand__slug=acme&category__slug=shoes&ordering=price&search=red+shoe",
		},
		{
			name:   "flags and ranges",
			filter: model.ProductFilter{MinPrice: "5", MaxPrice: "50", MinRating: 4, InStock: true, Featured: true, New: true},
			want:   "in_stock=true&is_featured=true&is_new=true&max_price=50&min_price=5&min_rating=4",
		},
		{name: "paging", filter: model.ProductFilter{Page: 2, PageSize: 12}, want: "page=2&page_size=12"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, productQuery(tt.filter).Encode())
		})
	}
}

func TestCatalogService_ProductsAndNextPage(t *testing.T) {
	svc, f := newCatalogService(t)
	ctx := context.Background()
	next := testutil.BackendURL + apiclient.ProductsPath + "?page=2"
	f.backend.Reply(http.MethodGet, apiclient.ProductsPath,
		testutil.Reply{Status: http.StatusOK, Body: map[string]any{
			"count": 3, "next": next, "results": []any{productBody(1, "a"), productBody(2, "b")},
		}},
		testutil.Reply{Status: http.StatusOK, Body: map[string]any{
			"count": 3, "results": []any{productBody(3, "c")},
		}},
	)

	page, err := svc.Products(ctx, model.ProductFilter{Category: "shoes", PageSize: 2})
	require.NoError(t, err)
	assert.Len(t, page.Results, 2)
	assert.Equal(t, Pagination{Count: 3, Page: 1, PageSize: 2, Next: next}, svc.Pagination())
	require.NotNil(t, svc.Cached("b"))
	assert.Equal(t, int64(2), svc.Cached("b").ID)

	page, err = svc.NextPage(ctx)
	require.NoError(t, err)
	assert.Len(t, page.Results, 1)
	assert.Equal(t, "category__slug=shoes&page=2&page_size=2",
		f.backend.Calls(http.MethodGet, apiclient.ProductsPath)[1].Query)
	assert.Nil(t, svc.Cached("b"))
	assert.Equal(t, 2, svc.Pagination().Page)

	page, err = svc.NextPage(ctx)
	require.NoError(t, err)
	assert.Nil(t, page, "no page after the last one")
	assert.Equal(t, 2, f.backend.Count(http.MethodGet, apiclient.ProductsPath))
}

func TestCatalogService_ProductsFailureEmptiesCache(t *testing.T) {
	svc, f := newCatalogService(t)
	f.backend.Reply(http.MethodGet, apiclient.ProductsPath,
		testutil.Reply{Status: http.StatusOK, Body: map[string]any{"count": 1, "results": []any{productBody(1, "a")}}},
		testutil.Reply{Status: http.StatusNotFound},
	)

	_, err := svc.Products(context.Background(), model.ProductFilter{})
	require.NoError(t, err)
	require.NotNil(t, svc.Cached("a"))

	_, err = svc.Products(context.Background(), model.ProductFilter{Page: 9})
	require.Error(t, err)
	assert.True(t, apperrors.IsNotFound(err))
	assert.Nil(t, svc.Cached("a"))
}

func TestCatalogService_ProductDetail(t *testing.T) {
	svc, f := newCatalogService(t)
	body := productBody(1, "boot")
	body["description"] = "Waterproof"
	body["category"] = map[string]any{"id": 2, "name": "Shoes", "slug": "shoes"}
	body["tags"] = []any{map[string]any{"id": 1, "name": "Winter", "slug": "winter"}}
	f.backend.JSON(http.MethodGet, apiclient.ProductPath("boot"), http.StatusOK, body)

	product, err := svc.Product(context.Background(), "boot")
	require.NoError(t, err)
	assert.Equal(t, "boot", product.Slug)
	assert.Equal(t, "Waterproof", product.Description)
	assert.Equal(t, "shoes", product.Category.Slug)
	assert.Equal(t, "winter", product.Tags[0].Slug)
	require.NotNil(t, svc.Current())
	assert.Equal(t, int64(1), svc.Current().ID)

	_, err = svc.Product(context.Background(), "missing")
	require.Error(t, err)
	assert.Nil(t, svc.Current())
}

func TestCatalogService_ListsAcceptBothShapes(t *testing.T) {
	svc, f := newCatalogService(t)
	ctx := context.Background()
	f.backend.JSON(http.MethodGet, apiclient.CategoriesPath, http.StatusOK, map[string]any{
		"count": 1, "results": []any{map[string]any{"id": 1, "name": "Shoes", "slug": "shoes"}},
	})
	f.backend.JSON(http.MethodGet, apiclient.BrandsPath, http.StatusOK, []any{map[string]any{"id": 1, "name": "Acme", "slug": "acme"}})
	f.backend.JSON(http.MethodGet, apiclient.TagsPath, http.StatusOK, []any{map[string]any{"id": 1, "name": "Sale", "slug": "sale"}})
	f.backend.JSON(http.MethodGet, apiclient.ProductRelatedPath("boot"), http.StatusOK, []any{productBody(2, "sock")})

	categories, err := svc.Categories(ctx)
	require.NoError(t, err)
	assert.Equal(t, "shoes", categories[0].Slug)

	brands, err := svc.Brands(ctx)
	require.NoError(t, err)
	assert.Equal(t, "acme", brands[0].Slug)

	tags, err := svc.Tags(ctx)
	require.NoError(t, err)
	assert.Equal(t, "sale", tags[0].Slug)

	related, err := svc.Related(ctx, "boot")
	require.NoError(t, err)
	assert.Equal(t, "sock", related[0].Slug)
}

func TestCatalogService_FeaturedAndCategoryProducts(t *testing.T) {
	svc, f := newCatalogService(t)
	ctx := context.Background()
	f.backend.JSON(http.MethodGet, apiclient.ProductsPath, http.StatusOK, map[string]any{"count": 1, "results": []any{productBody(1, "a")}})
	f.backend.JSON(http.MethodGet, apiclient.CategoryProductsPath("shoes"), http.StatusOK, map[string]any{"count": 1, "results": []any{productBody(2, "b")}})

	featured, err := svc.Featured(ctx, 4)
	require.NoError(t, err)
	assert.Len(t, featured, 1)
	assert.Equal(t, "is_featured=true&page_size=4", f.backend.Calls(http.MethodGet, apiclient.ProductsPath)[0].Query)
	assert.Nil(t, svc.Cached("a"), "featured products stay out of the list cache")

	page, err := svc.CategoryProducts(ctx, "shoes", model.PageParams{Page: 2})
	require.NoError(t, err)
	assert.Equal(t, "b", page.Results[0].Slug)
	assert.Equal(t, "page=2", f.backend.Calls(http.MethodGet, apiclient.CategoryProductsPath("shoes"))[0].Query)
}

func TestCatalogService_SendsTokenWhenSignedIn(t *testing.T) {
	svc, f := newCatalogService(t)
	f.signIn(t)
	f.backend.JSON(http.MethodGet, apiclient.TagsPath, http.StatusOK, []any{})

	_, err := svc.Tags(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "A1", f.backend.Calls(http.MethodGet, apiclient.TagsPath)[0].Bearer())
}
