package redis

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	domainauth "github.com/target/storefront/internal/domain/auth"
	"github.com/target/storefront/internal/testutil"
)

var testPolicy = domainauth.CredentialPolicy{AccessTTL: 30 * time.Minute, RefreshTTL: 24 * time.Hour}

func TestCredentialStore_SaveLoadClear(t *testing.T) {
	client := testutil.SetupTestRedis(t)
	store := NewCredentialStore(client, CredentialStoreOptions{Prefix: "test:creds:", Policy: testPolicy})
	ctx := context.Background()

	creds, err := store.Load(ctx)
	require.NoError(t, err)
	assert.True(t, creds.Empty())

	require.NoError(t, store.Save(ctx, domainauth.Credentials{AccessToken: "A1", RefreshToken: "R1"}))
	creds, err = store.Load(ctx)
	require.NoError(t, err)
	assert.Equal(t, domainauth.Credentials{AccessToken: "A1", RefreshToken: "R1"}, creds)

	accessTTL, err := store.TTL(ctx, domainauth.AccessTokenEntry)
	require.NoError(t, err)
	refreshTTL, err := store.TTL(ctx, domainauth.RefreshTokenEntry)
	require.NoError(t, err)
	assert.InDelta(t, (30 * time.Minute).Seconds(), accessTTL.Seconds(), 5)
	assert.InDelta(t, (24 * time.Hour).Seconds(), refreshTTL.Seconds(), 5)

	require.NoError(t, store.Clear(ctx))
	creds, err = store.Load(ctx)
	require.NoError(t, err)
	assert.True(t, creds.Empty())
	_, err = store.TTL(ctx, domainauth.AccessTokenEntry)
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestCredentialStore_ShortLivedTokenKeepsPolicyTTL(t *testing.T) {
	client := testutil.SetupTestRedis(t)
	store := NewCredentialStore(client, CredentialStoreOptions{Policy: testPolicy})
	ctx := context.Background()
	access := testutil.SignedToken(t, "1", time.Now().Add(5*time.Minute))

	require.NoError(t, store.Save(ctx, domainauth.Credentials{AccessToken: access, RefreshToken: "R1"}))

	ttl, err := store.TTL(ctx, domainauth.AccessTokenEntry)
	require.NoError(t, err)
	assert.InDelta(t, testPolicy.AccessTTL.Seconds(), ttl.Seconds(), 5)
}

func TestCredentialStore_ExpiredTokenIsStillStored(t *testing.T) {
	client := testutil.SetupTestRedis(t)
	store := NewCredentialStore(client, CredentialStoreOptions{Policy: testPolicy})
	ctx := context.Background()

	expired := testutil.SignedToken(t, "1", time.Now().Add(-time.Minute))
	require.NoError(t, store.Save(ctx, domainauth.Credentials{AccessToken: expired, RefreshToken: "R1"}))

	creds, err := store.Load(ctx)
	require.NoError(t, err)
	assert.Equal(t, domainauth.Credentials{AccessToken: expired, RefreshToken: "R1"}, creds,
		"the backend decides whether the token is still good")
}

func TestNewCredentialStore_RequiresClient(t *testing.T) {
	assert.Panics(t, func() { NewCredentialStore(nil, CredentialStoreOptions{}) })
}
