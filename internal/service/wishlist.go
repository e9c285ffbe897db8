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

// WishlistServiceOptions groups dependencies for WishlistService.
type WishlistServiceOptions struct {
	Client APIClient    // Required
	Logger *slog.Logger // Optional
}

// WishlistService keeps the last-fetched wishlist.
type WishlistService struct {
	client APIClient
	logger *slog.Logger

	mu    sync.RWMutex
	items model.WishlistItems
}

// NewWishlistService constructs a new WishlistService.
func NewWishlistService(opts WishlistServiceOptions) *WishlistService {
	if opts.Client == nil {
		panic("APIClient is required")
	}
	logger := opts.Logger
	if logger == nil {
		logger = slog.Default()
	}
	return &WishlistService{client: opts.Client, logger: logger.With("component", "wishlist")}
}

// Fetch loads the wishlist. A failed fetch empties the cache.
func (s *WishlistService) Fetch(ctx context.Context) ([]model.WishlistItem, error) {
	var items model.WishlistItems
	if err := s.client.Get(ctx, apiclient.WishlistPath, nil, &items); err != nil {
		s.set(nil)
		return nil, fmt.Errorf("fetch wishlist: %w", err)
	}
	s.set(items)
	return s.Items(), nil
}

// Add saves productID and reloads the wishlist.
func (s *WishlistService) Add(ctx context.Context, productID int64) ([]model.WishlistItem, error) {
	in := model.AddToWishlistInput{ProductID: productID}
	if err := validateInput(in); err != nil {
		return nil, err
	}
	if err := s.client.Post(ctx, apiclient.WishlistAddPath, in, nil); err != nil {
		return nil, fmt.Errorf("add to wishlist: %w", err)
	}
	return s.Fetch(ctx)
}

// Remove unsaves productID and drops it from the cache without refetching.
func (s *WishlistService) Remove(ctx context.Context, productID int64) error {
	if err := s.client.Delete(ctx, apiclient.WishlistRemovePath(productID), nil); err != nil {
		return fmt.Errorf("remove from wishlist: %w", err)
	}
	s.mu.Lock()
	s.items = s.items.Without(productID)
	s.mu.Unlock()
	return nil
}

// Toggle removes productID when saved and adds it otherwise. It reports
// whether the product is saved afterwards.
func (s *WishlistService) Toggle(ctx context.Context, productID int64) (bool, error) {
	if s.Contains(productID) {
		return false, s.Remove(ctx, productID)
	}
	if _, err := s.Add(ctx, productID); err != nil {
		return false, err
	}
	return true, nil
}

// Reset empties the cache.
func (s *WishlistService) Reset() {
	s.set(nil)
}

func (s *WishlistService) set(items model.WishlistItems) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.items = items
}

// Items returns a copy of the cached items.
func (s *WishlistService) Items() []model.WishlistItem {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return slices.Clone([]model.WishlistItem(s.items))
}

// Count returns the number of cached items.
func (s *WishlistService) Count() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.items)
}

// ProductIDs returns the saved product IDs.
func (s *WishlistService) ProductIDs() []int64 {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.items.ProductIDs()
}

// Contains reports whether productID is saved.
func (s *WishlistService) Contains(productID int64) bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.items.Contains(productID)
}
