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

// ReviewServiceOptions groups dependencies for ReviewService.
type ReviewServiceOptions struct {
	Client APIClient    // Required
	Logger *slog.Logger // Optional
}

// ReviewService reads and writes product reviews, caching them per product slug.
type ReviewService struct {
	client APIClient
	logger *slog.Logger

	mu        sync.RWMutex
	byProduct map[string][]model.Review
}

// NewReviewService constructs a new ReviewService.
func NewReviewService(opts ReviewServiceOptions) *ReviewService {
	if opts.Client == nil {
		panic("APIClient is required")
	}
	logger := opts.Logger
	if logger == nil {
		logger = slog.Default()
	}
	return &ReviewService{
		client:    opts.Client,
		logger:    logger.With("component", "reviews"),
		byProduct: make(map[string][]model.Review),
	}
}

// Fetch loads the reviews of a product. A failed load empties its cache entry.
func (s *ReviewService) Fetch(ctx context.Context, slug string) ([]model.Review, error) {
	var list model.List[model.Review]
	if err := s.client.Get(ctx, apiclient.ProductReviewsPath(slug), nil, &list); err != nil {
		s.mu.Lock()
		s.byProduct[slug] = nil
		s.mu.Unlock()
		return nil, fmt.Errorf("fetch reviews for %s: %w", slug, err)
	}
	s.mu.Lock()
	s.byProduct[slug] = slices.Clone([]model.Review(list))
	s.mu.Unlock()
	return s.Reviews(slug), nil
}

// Create posts a review and puts it first in the product's cached list. The
// backend holds new reviews for approval.
func (s *ReviewService) Create(ctx context.Context, slug string, in model.ReviewInput) (*model.Review, string, error) {
	if err := validateInput(in); err != nil {
		return nil, "", err
	}
	var env model.ReviewEnvelope
	if err := s.client.Post(ctx, apiclient.ReviewCreatePath(slug), in, &env); err != nil {
		return nil, "", fmt.Errorf("create review for %s: %w", slug, err)
	}
	s.mu.Lock()
	s.byProduct[slug] = slices.Insert(s.byProduct[slug], 0, env.Review)
	s.mu.Unlock()

	s.logger.InfoContext(ctx, "review submitted", "product", slug, "review_id", env.Review.ID)
	review := env.Review
	return &review, env.Message, nil
}

// Update replaces a review and refreshes it in every cached list.
func (s *ReviewService) Update(ctx context.Context, id int64, in model.ReviewInput) (*model.Review, error) {
	if err := validateInput(in); err != nil {
		return nil, err
	}
	var review model.Review
	if err := s.client.Put(ctx, apiclient.ReviewUpdatePath(id), in, &review); err != nil {
		return nil, fmt.Errorf("update review %d: %w", id, err)
	}
	s.mu.Lock()
	for slug, reviews := range s.byProduct {
		if i := slices.IndexFunc(reviews, func(r model.Review) bool { return r.ID == id }); i >= 0 {
			s.byProduct[slug][i] = review
		}
	}
	s.mu.Unlock()
	return &review, nil
}

// Delete removes a review from the backend and from every cached list.
func (s *ReviewService) Delete(ctx context.Context, id int64) error {
	if err := s.client.Delete(ctx, apiclient.ReviewDeletePath(id), nil); err != nil {
		return fmt.Errorf("delete review %d: %w", id, err)
	}
	s.mu.Lock()
	for slug, reviews := range s.byProduct {
		s.byProduct[slug] = slices.DeleteFunc(reviews, func(r model.Review) bool { return r.ID == id })
	}
	s.mu.Unlock()
	return nil
}

// Reviews returns a copy of the cached reviews of a product.
func (s *ReviewService) Reviews(slug string) []model.Review {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return slices.Clone(s.byProduct[slug])
}

// Reset drops every cached review.
func (s *ReviewService) Reset() {
	s.mu.Lock()
	defer s.mu.Unlock()
	clear(s.byProduct)
}
