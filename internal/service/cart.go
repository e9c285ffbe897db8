package service

import (
	"context"
	"fmt"
	"log/slog"
	"slices"
	"sync"

	"github.com/target/storefront/internal/apiclient"
	"github.com/target/storefront/internal/domain/model"
)

// CartServiceOptions groups dependencies for CartService.
type CartServiceOptions struct {
	Client APIClient    // Required
	Logger *slog.Logger // Optional
}

// CartService keeps the last-fetched cart. Mutation endpoints return only the
// touched line, so every mutation is followed by a refetch.
type CartService struct {
	client APIClient
	logger *slog.Logger

	mu   sync.RWMutex
	cart *model.Cart
}

// NewCartService constructs a new CartService.
func NewCartService(opts CartServiceOptions) *CartService {
	if opts.Client == nil {
		panic("APIClient is required")
	}
	logger := opts.Logger
	if logger == nil {
		logger = slog.Default()
	}
	return &CartService{client: opts.Client, logger: logger.With("component", "cart")}
}

// Fetch loads the cart. A failed fetch drops the cached cart.
func (s *CartService) Fetch(ctx context.Context) (*model.Cart, error) {
	var cart model.Cart
	if err := s.client.Get(ctx, apiclient.CartPath, nil, &cart); err != nil {
		s.set(nil)
		return nil, fmt.Errorf("fetch cart: %w", err)
	}
	s.set(&cart)
	return s.Cart(), nil
}

// Add puts quantity of a product (and optional variant) in the cart. The
// backend merges it into an existing line for the same product and variant.
func (s *CartService) Add(ctx context.Context, in model.AddToCartInput) (*model.Cart, error) {
	if in.Quantity == 0 {
		in.Quantity = 1
	}
	if err := validateInput(in); err != nil {
		return nil, err
	}
	return s.mutate(ctx, "add to cart", func(out *model.CartMutation) error {
		return s.client.Post(ctx, apiclient.CartAddPath, in, out)
	})
}

// UpdateQuantity sets the quantity of a cart line.
func (s *CartService) UpdateQuantity(ctx context.Context, itemID int64, quantity int) (*model.Cart, error) {
	in := model.UpdateCartItemInput{Quantity: quantity}
	if err := validateInput(in); err != nil {
		return nil, err
	}
	return s.mutate(ctx, "update cart item", func(out *model.CartMutation) error {
		return s.client.Patch(ctx, apiclient.CartItemUpdatePath(itemID), in, out)
	})
}

// Remove deletes a cart line.
func (s *CartService) Remove(ctx context.Context, itemID int64) (*model.Cart, error) {
	return s.mutate(ctx, "remove cart item", func(out *model.CartMutation) error {
		return s.client.Delete(ctx, apiclient.CartItemRemovePath(itemID), out)
	})
}

// Clear empties the cart.
func (s *CartService) Clear(ctx context.Context) (*model.Cart, error) {
	return s.mutate(ctx, "clear cart", func(out *model.CartMutation) error {
		return s.client.Delete(ctx, apiclient.CartClearPath, out)
	})
}

func (s *CartService) mutate(ctx context.Context, op string, call func(*model.CartMutation) error) (*model.Cart, error) {
	var result model.CartMutation
	if err := call(&result); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	s.logger.DebugContext(ctx, "cart mutated", "op", op, "message", result.Message)
	return s.Fetch(ctx)
}

// Reset drops the cached cart.
func (s *CartService) Reset() {
	s.set(nil)
}

func (s *CartService) set(cart *model.Cart) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.cart = cart
}

// Cart returns a copy of the cached cart, or nil.
func (s *CartService) Cart() *model.Cart {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.cart == nil {
		return nil
	}
	c := *s.cart
	c.Items = slices.Clone(s.cart.Items)
	return &c
}

// Items returns the cached cart lines.
func (s *CartService) Items() []model.CartItem {
	return model.CartItems(s.Cart())
}

// ItemCount sums quantities across the cached lines.
func (s *CartService) ItemCount() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return model.CartItemCount(s.cart)
}

// Subtotal returns the cached subtotal, "0.00" when unknown.
func (s *CartService) Subtotal() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return model.CartSubtotal(s.cart)
}

// TotalDiscount returns the cached total discount, "0.00" when unknown.
func (s *CartService) TotalDiscount() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return model.CartTotalDiscount(s.cart)
}

// Total returns the cached total, "0.00" when unknown.
func (s *CartService) Total() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return model.CartTotal(s.cart)
}

// IsEmpty reports whether no cart is cached or it has no lines.
func (s *CartService) IsEmpty() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return model.CartIsEmpty(s.cart)
}

// FindItem returns the cached line for productID/variantID. Pass 0 for a
// product without variants.
func (s *CartService) FindItem(productID, variantID int64) (model.CartItem, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return model.FindCartItem(s.cart, productID, variantID)
}

// Contains reports whether productID/variantID is in the cached cart.
func (s *CartService) Contains(productID, variantID int64) bool {
	_, ok := s.FindItem(productID, variantID)
	return ok
}
