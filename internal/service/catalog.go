package service

import (
	"context"
	"fmt"
	"log/slog"
	"net/url"
	"slices"
	"strconv"
	"sync"

	"github.com/target/storefront/internal/apiclient"
	"github.com/target/storefront/internal/domain/model"
)

// CatalogServiceOptions groups dependencies for CatalogService.
type CatalogServiceOptions struct {
	Client APIClient    // Required
	Logger *slog.Logger // Optional
}

// CatalogService browses products, categories, brands and tags. The catalog
// is public; calls carry the bearer token only when a session is held.
type CatalogService struct {
	client APIClient
	logger *slog.Logger

	mu         sync.RWMutex
	products   []model.ProductSummary
	current    *model.Product
	categories []model.Category
	brands     []model.Brand
	filter     model.ProductFilter
	pagination Pagination
}

// NewCatalogService constructs a new CatalogService.
func NewCatalogService(opts CatalogServiceOptions) *CatalogService {
	if opts.Client == nil {
		panic("APIClient is required")
	}
	logger := opts.Logger
	if logger == nil {
		logger = slog.Default()
	}
	return &CatalogService{
		client:     opts.Client,
		logger:     logger.With("component", "catalog"),
		filter:     model.ProductFilter{Ordering: model.DefaultProductOrdering},
		pagination: Pagination{Page: 1, PageSize: model.DefaultPageSize},
	}
}

// Products loads one page of products matching filter and remembers the
// filter for paging. A failed load empties the cached list.
func (s *CatalogService) Products(ctx context.Context, filter model.ProductFilter) (*model.Page[model.ProductSummary], error) {
	var page model.Page[model.ProductSummary]
	if err := s.client.Get(ctx, apiclient.ProductsPath, productQuery(filter), &page); err != nil {
		s.mu.Lock()
		s.products = nil
		s.mu.Unlock()
		return nil, fmt.Errorf("list products: %w", err)
	}

	p := Pagination{Count: page.Count, Page: max(filter.Page, 1), PageSize: filter.PageSize}
	if p.PageSize <= 0 {
		p.PageSize = model.DefaultPageSize
	}
	if page.Next != nil {
		p.Next = *page.Next
	}
	if page.Previous != nil {
		p.Previous = *page.Previous
	}

	s.mu.Lock()
	s.products = slices.Clone(page.Results)
	s.filter = filter
	s.pagination = p
	s.mu.Unlock()
	return &page, nil
}

// NextPage loads the page after the cached one with the same filter. It
// returns nil, nil on the last page.
func (s *CatalogService) NextPage(ctx context.Context) (*model.Page[model.ProductSummary], error) {
	s.mu.RLock()
	filter, p := s.filter, s.pagination
	s.mu.RUnlock()
	if p.Next == "" {
		return nil, nil
	}
	filter.Page = p.Page + 1
	return s.Products(ctx, filter)
}

// Featured loads up to limit featured products without touching the cached list.
func (s *CatalogService) Featured(ctx context.Context, limit int) ([]model.ProductSummary, error) {
	var page model.Page[model.ProductSummary]
	query := productQuery(model.ProductFilter{Featured: true, PageSize: limit})
	if err := s.client.Get(ctx, apiclient.ProductsPath, query, &page); err != nil {
		return nil, fmt.Errorf("list featured products: %w", err)
	}
	return page.Results, nil
}

// Product loads a product by slug and makes it current.
func (s *CatalogService) Product(ctx context.Context, slug string) (*model.Product, error) {
	var product model.Product
	if err := s.client.Get(ctx, apiclient.ProductPath(slug), nil, &product); err != nil {
		s.mu.Lock()
		s.current = nil
		s.mu.Unlock()
		return nil, fmt.Errorf("get product %s: %w", slug, err)
	}
	s.mu.Lock()
	current := product
	s.current = &current
	s.mu.Unlock()
	return &product, nil
}

// Related lists products related to slug.
func (s *CatalogService) Related(ctx context.Context, slug string) ([]model.ProductSummary, error) {
	var list model.List[model.ProductSummary]
	if err := s.client.Get(ctx, apiclient.ProductRelatedPath(slug), nil, &list); err != nil {
		return nil, fmt.Errorf("related products %s: %w", slug, err)
	}
	return list, nil
}

// Categories loads the category list.
func (s *CatalogService) Categories(ctx context.Context) ([]model.Category, error) {
	var list model.List[model.Category]
	if err := s.client.Get(ctx, apiclient.CategoriesPath, nil, &list); err != nil {
		s.mu.Lock()
		s.categories = nil
		s.mu.Unlock()
		return nil, fmt.Errorf("list categories: %w", err)
	}
	s.mu.Lock()
	s.categories = slices.Clone([]model.Category(list))
	s.mu.Unlock()
	return list, nil
}

// CategoryProducts lists one page of a category's products.
func (s *CatalogService) CategoryProducts(ctx context.Context, slug string, params model.PageParams) (*model.Page[model.ProductSummary], error) {
	var page model.Page[model.ProductSummary]
	if err := s.client.Get(ctx, apiclient.CategoryProductsPath(slug), pageQuery(params), &page); err != nil {
		return nil, fmt.Errorf("list category %s products: %w", slug, err)
	}
	return &page, nil
}

// Brands loads the brand list.
func (s *CatalogService) Brands(ctx context.Context) ([]model.Brand, error) {
	var list model.List[model.Brand]
	if err := s.client.Get(ctx, apiclient.BrandsPath, nil, &list); err != nil {
		s.mu.Lock()
		s.brands = nil
		s.mu.Unlock()
		return nil, fmt.Errorf("list brands: %w", err)
	}
	s.mu.Lock()
	s.brands = slices.Clone([]model.Brand(list))
	s.mu.Unlock()
	return list, nil
}

// Tags loads every product tag.
func (s *CatalogService) Tags(ctx context.Context) ([]model.Tag, error) {
	var list model.List[model.Tag]
	if err := s.client.Get(ctx, apiclient.TagsPath, nil, &list); err != nil {
		return nil, fmt.Errorf("list tags: %w", err)
	}
	return list, nil
}

// Cached returns the cached product with slug, or nil.
func (s *CatalogService) Cached(slug string) *model.ProductSummary {
	s.mu.RLock()
	defer s.mu.RUnlock()
	i := slices.IndexFunc(s.products, func(p model.ProductSummary) bool { return p.Slug == slug })
	if i < 0 {
		return nil
	}
	p := s.products[i]
	return &p
}

// Current returns a copy of the product being viewed, or nil.
func (s *CatalogService) Current() *model.Product {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.current == nil {
		return nil
	}
	p := *s.current
	return &p
}

// Pagination returns the cached pagination state.
func (s *CatalogService) Pagination() Pagination {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.pagination
}

func productQuery(f model.ProductFilter) url.Values {
	params := map[string]any{
		"search":         f.Search,
		"category__slug": f.Category,
		"brand__slug":    f.Brand,
		"min_price":      f.MinPrice,
		"max_price":      f.MaxPrice,
		"ordering":       f.Ordering,
	}
	if f.MinRating > 0 {
		params["min_rating"] = strconv.Itoa(f.MinRating)
	}
	if f.InStock {
		params["in_stock"] = "true"
	}
	if f.Featured {
		params["is_featured"] = "true"
	}
	if f.New {
		params["is_new"] = "true"
	}
	if f.Page > 0 {
		params["page"] = strconv.Itoa(f.Page)
	}
	if f.PageSize > 0 {
		params["page_size"] = strconv.Itoa(f.PageSize)
	}
	return apiclient.BuildQuery(params)
}
