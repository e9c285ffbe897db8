package service

import (
	"context"
	"net/http"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/target/storefront/internal/apiclient"
	domainauth "github.com/target/storefront/internal/domain/auth"
	"github.com/target/storefront/internal/domain/model"
	apperrors "github.com/target/storefront/internal/errors"
	"github.com/target/storefront/internal/testutil"
)

func reviewBody(id int64, rating int, comment string) map[string]any {
	return map[string]any{"id": id, "user": 1, "user_name": "u", "rating": rating, "comment": comment}
}

func newReviewService(t *testing.T) (*ReviewService, *sessionFixture) {
	t.Helper()
	f := newSessionFixture(t, domainauth.Credentials{})
	f.signIn(t)
	return NewReviewService(ReviewServiceOptions{Client: f.client}), f
}

func TestReviewService_FetchAndCreate(t *testing.T) {
	svc, f := newReviewService(t)
	ctx := context.Background()
	f.backend.JSON(http.MethodGet, apiclient.ProductReviewsPath("boot"), http.StatusOK, map[string]any{
		"count": 1, "results": []any{reviewBody(1, 4, "Warm")},
	})
	f.backend.JSON(http.MethodPost, apiclient.ReviewCreatePath("boot"), http.StatusCreated, map[string]any{
		"message": "Review submitted successfully. It will be visible after approval.",
		"review":  reviewBody(2, 5, "Great"),
	})

	reviews, err := svc.Fetch(ctx, "boot")
	require.NoError(t, err)
	assert.Len(t, reviews, 1)

	review, msg, err := svc.Create(ctx, "boot", model.ReviewInput{Rating: 5, Comment: "Great"})
	require.NoError(t, err)
	assert.Equal(t, int64(2), review.ID)
	assert.Contains(t, msg, "after approval")
	assert.JSONEq(t, `{"rating":5,"comment":"Great"}`,
		string(f.backend.Calls(http.MethodPost, apiclient.ReviewCreatePath("boot"))[0].Body))

	cached := svc.Reviews("boot")
	require.Len(t, cached, 2)
	assert.Equal(t, int64(2), cached[0].ID, "new reviews go first")
}

func TestReviewService_CreateValidation(t *testing.T) {
	tests := []struct {
		name  string
		in    model.ReviewInput
		field string
		msg   string
	}{
		{name: "rating too high", in: model.ReviewInput{Rating: 6, Comment: "x"}, field: "rating", msg: "less than or equal to 5"},
		{name: "rating missing", in: model.ReviewInput{Comment: "x"}, field: "rating"},
		{name: "comment missing", in: model.ReviewInput{Rating: 3}, field: "comment"},
		{name: "title too long", in: model.ReviewInput{Rating: 3, Comment: "x", Title: strings.Repeat("t", 201)}, field: "title", msg: "no more than 200 characters"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc, f := newReviewService(t)

			_, _, err := svc.Create(context.Background(), "boot", tt.in)
			require.Error(t, err)
			assert.True(t, apperrors.IsValidation(err))
			assert.Equal(t, tt.field, apperrors.GetField(err))
			if tt.msg != "" {
				assert.Contains(t, err.Error(), tt.msg)
			}
			assert.Zero(t, f.backend.Count(http.MethodPost, apiclient.ReviewCreatePath("boot")))
		})
	}
}

func TestReviewService_UpdateAndDeleteAcrossProducts(t *testing.T) {
	svc, f := newReviewService(t)
	ctx := context.Background()
	f.backend.JSON(http.MethodGet, apiclient.ProductReviewsPath("boot"), http.StatusOK, []any{reviewBody(1, 4, "Warm"), reviewBody(2, 3, "Ok")})
	f.backend.JSON(http.MethodGet, apiclient.ProductReviewsPath("sock"), http.StatusOK, []any{reviewBody(3, 2, "Thin")})
	_, err := svc.Fetch(ctx, "boot")
	require.NoError(t, err)
	_, err = svc.Fetch(ctx, "sock")
	require.NoError(t, err)

	f.backend.JSON(http.MethodPut, apiclient.ReviewUpdatePath(2), http.StatusOK, reviewBody(2, 5, "Better"))
	_, err = svc.Update(ctx, 2, model.ReviewInput{Rating: 5, Comment: "Better"})
	require.NoError(t, err)
	assert.Equal(t, "Better", svc.Reviews("boot")[1].Comment)

	f.backend.JSON(http.MethodDelete, apiclient.ReviewDeletePath(3), http.StatusNoContent, nil)
	require.NoError(t, svc.Delete(ctx, 3))
	assert.Empty(t, svc.Reviews("sock"))
	assert.Len(t, svc.Reviews("boot"), 2)

	svc.Reset()
	assert.Empty(t, svc.Reviews("boot"))
}

func TestReviewService_FetchFailureEmptiesEntry(t *testing.T) {
	svc, f := newReviewService(t)
	f.backend.Reply(http.MethodGet, apiclient.ProductReviewsPath("boot"),
		testutil.Reply{Status: http.StatusOK, Body: []any{reviewBody(1, 4, "Warm")}},
		testutil.Reply{Status: http.StatusNotFound},
	)
	_, err := svc.Fetch(context.Background(), "boot")
	require.NoError(t, err)

	_, err = svc.Fetch(context.Background(), "boot")
	require.Error(t, err)
	assert.Empty(t, svc.Reviews("boot"))
}
