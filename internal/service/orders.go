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

// OrderServiceOptions groups dependencies for OrderService.
type OrderServiceOptions struct {
	Client APIClient    // Required
	Logger *slog.Logger // Optional
}

// Pagination describes the cached order page.
type Pagination struct {
	Count    int
	Next     string
	Previous string
	Page     int
	PageSize int
}

// OrderService keeps the last-fetched order page and the order being viewed.
type OrderService struct {
	client APIClient
	logger *slog.Logger

	mu         sync.RWMutex
	orders     []model.Order
	current    *model.Order
	pagination Pagination
}

// NewOrderService constructs a new OrderService.
func NewOrderService(opts OrderServiceOptions) *OrderService {
	if opts.Client == nil {
		panic("APIClient is required")
	}
	logger := opts.Logger
	if logger == nil {
		logger = slog.Default()
	}
	return &OrderService{
		client:     opts.Client,
		logger:     logger.With("component", "orders"),
		pagination: Pagination{Page: 1, PageSize: model.DefaultPageSize},
	}
}

// List loads one page of orders. A failed load empties the cached list.
func (s *OrderService) List(ctx context.Context, params model.PageParams) (*model.Page[model.Order], error) {
	var page model.Page[model.Order]
	if err := s.client.Get(ctx, apiclient.OrdersPath, pageQuery(params), &page); err != nil {
		s.mu.Lock()
		s.orders = nil
		s.mu.Unlock()
		return nil, fmt.Errorf("list orders: %w", err)
	}

	p := Pagination{Count: page.Count, Page: params.Page, PageSize: params.PageSize}
	if p.Page <= 0 {
		p.Page = 1
	}
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
	s.orders = slices.Clone(page.Results)
	s.pagination = p
	s.mu.Unlock()
	return &page, nil
}

// NextPage loads the page after the cached one. It returns nil, nil on the last page.
func (s *OrderService) NextPage(ctx context.Context) (*model.Page[model.Order], error) {
	p := s.Pagination()
	if p.Next == "" {
		return nil, nil
	}
	return s.List(ctx, model.PageParams{Page: p.Page + 1, PageSize: p.PageSize})
}

// PreviousPage loads the page before the cached one. It returns nil, nil on the first page.
func (s *OrderService) PreviousPage(ctx context.Context) (*model.Page[model.Order], error) {
	p := s.Pagination()
	if p.Previous == "" {
		return nil, nil
	}
	return s.List(ctx, model.PageParams{Page: p.Page - 1, PageSize: p.PageSize})
}

// Get loads an order by number and makes it current. A failed load clears the current order.
func (s *OrderService) Get(ctx context.Context, number string) (*model.Order, error) {
	var order model.Order
	if err := s.client.Get(ctx, apiclient.OrderPath(number), nil, &order); err != nil {
		s.mu.Lock()
		s.current = nil
		s.mu.Unlock()
		return nil, fmt.Errorf("get order %s: %w", number, err)
	}
	s.mu.Lock()
	s.current = &order
	s.mu.Unlock()
	out := order
	return &out, nil
}

// Create places an order, prepends it to the cached list and makes it current.
func (s *OrderService) Create(ctx context.Context, in model.CreateOrderInput) (*model.Order, error) {
	if err := validateInput(in); err != nil {
		return nil, err
	}
	var env model.OrderEnvelope
	if err := s.client.Post(ctx, apiclient.OrderCreatePath, in, &env); err != nil {
		return nil, fmt.Errorf("create order: %w", err)
	}

	order := env.Order
	s.mu.Lock()
	s.orders = slices.Insert(s.orders, 0, order)
	current := order
	s.current = &current
	s.mu.Unlock()

	s.logger.InfoContext(ctx, "order placed", "order_number", order.OrderNumber, "status", order.Status)
	return &order, nil
}

// Cancel cancels an order and replaces it in the cached list and current order.
func (s *OrderService) Cancel(ctx context.Context, number string) (*model.Order, error) {
	var env model.OrderEnvelope
	if err := s.client.Post(ctx, apiclient.OrderCancelPath(number), nil, &env); err != nil {
		return nil, fmt.Errorf("cancel order %s: %w", number, err)
	}

	order := env.Order
	s.mu.Lock()
	if i := slices.IndexFunc(s.orders, func(o model.Order) bool { return o.OrderNumber == number }); i >= 0 {
		s.orders[i] = order
	}
	if s.current != nil && s.current.OrderNumber == number {
		current := order
		s.current = &current
	}
	s.mu.Unlock()

	s.logger.InfoContext(ctx, "order cancelled", "order_number", number)
	return &order, nil
}

// Orders returns a copy of the cached page.
func (s *OrderService) Orders() []model.Order {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return slices.Clone(s.orders)
}

// ByStatus returns the cached orders with status.
func (s *OrderService) ByStatus(status model.OrderStatus) []model.Order {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return model.OrdersByStatus(s.orders, status)
}

// Current returns a copy of the order being viewed, or nil.
func (s *OrderService) Current() *model.Order {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.current == nil {
		return nil
	}
	o := *s.current
	return &o
}

// Pagination returns the cached pagination state.
func (s *OrderService) Pagination() Pagination {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.pagination
}

// HasNextPage reports whether the cached page has a successor.
func (s *OrderService) HasNextPage() bool {
	return s.Pagination().Next != ""
}

// HasPreviousPage reports whether the cached page has a predecessor.
func (s *OrderService) HasPreviousPage() bool {
	return s.Pagination().Previous != ""
}

// ClearCurrent forgets the order being viewed.
func (s *OrderService) ClearCurrent() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.current = nil
}

// Reset drops every cached order.
func (s *OrderService) Reset() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.orders = nil
	s.current = nil
	s.pagination = Pagination{Page: 1, PageSize: model.DefaultPageSize}
}

func pageQuery(p model.PageParams) url.Values {
	params := map[string]any{
		"status":   p.Status,
		"ordering": p.Ordering,
	}
	if p.Page > 0 {
		params["page"] = strconv.Itoa(p.Page)
	}
	if p.PageSize > 0 {
		params["page_size"] = strconv.Itoa(p.PageSize)
	}
	return apiclient.BuildQuery(params)
}
