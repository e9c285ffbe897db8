package service

import (
	"context"
	"fmt"

	"golang.org/x/sync/errgroup"

	"github.com/target/storefront/internal/ports"
)

// StorefrontOptions groups dependencies for Storefront.
type StorefrontOptions struct {
	Client    APIClient             // Required
	Store     ports.CredentialStore // Required
	Telemetry Telemetry             // Optional
}

// Storefront is the session context handed to callers: the session manager
// plus the per-user collaborators that call through the same client.
type Storefront struct {
	Session  *SessionManager
	Cart     *CartService
	Wishlist *WishlistService
	Orders   *OrderService
	Checkout *CheckoutService
	Catalog  *CatalogService
	Reviews  *ReviewService
}

// NewStorefront wires the session manager and collaborators around one client.
// Collaborator caches are dropped whenever the session is cleared.
func NewStorefront(opts StorefrontOptions) *Storefront {
	s := &Storefront{
		Session: NewSessionManager(SessionManagerOptions(opts)),
		Cart:    NewCartService(CartServiceOptions{Client: opts.Client, Logger: opts.Telemetry.Logger}),
		Wishlist: NewWishlistService(WishlistServiceOptions{
			Client: opts.Client,
			Logger: opts.Telemetry.Logger,
		}),
		Orders:   NewOrderService(OrderServiceOptions{Client: opts.Client, Logger: opts.Telemetry.Logger}),
		Checkout: NewCheckoutService(CheckoutServiceOptions{Client: opts.Client, Logger: opts.Telemetry.Logger}),
		Catalog:  NewCatalogService(CatalogServiceOptions{Client: opts.Client, Logger: opts.Telemetry.Logger}),
		Reviews:  NewReviewService(ReviewServiceOptions{Client: opts.Client, Logger: opts.Telemetry.Logger}),
	}
	s.Session.OnCleared(func(string) { s.Reset() })
	return s
}

// Start restores the persisted session and, when signed in, hydrates the
// collaborators. A discarded session is not an error.
func (s *Storefront) Start(ctx context.Context) error {
	if err := s.Session.Initialize(ctx); err != nil && !IsReauthRequired(err) {
		s.Session.logger.WarnContext(ctx, "session not restored", "error", err)
	}
	if !s.Session.IsAuthenticated() {
		return nil
	}
	return s.Hydrate(ctx)
}

// Hydrate fetches the cart and the wishlist concurrently.
func (s *Storefront) Hydrate(ctx context.Context) error {
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		_, err := s.Cart.Fetch(gctx)
		return err
	})
	g.Go(func() error {
		_, err := s.Wishlist.Fetch(gctx)
		return err
	})
	if err := g.Wait(); err != nil {
		return fmt.Errorf("hydrate storefront: %w", err)
	}
	return nil
}

// Reset drops every per-user collaborator cache. The public catalog is kept.
func (s *Storefront) Reset() {
	s.Cart.Reset()
	s.Wishlist.Reset()
	s.Orders.Reset()
	s.Checkout.Reset()
	s.Reviews.Reset()
}
