package auth

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	domainauth "github.com/target/storefront/internal/domain/auth"
	apperrors "github.com/target/storefront/internal/errors"
	"github.com/target/storefront/internal/ports"
)

func TestCredentialStore_RoundTrip(t *testing.T) {
	ctx := context.Background()
	store := NewCredentialStore(domainauth.Credentials{})

	creds, err := store.Load(ctx)
	require.NoError(t, err)
	assert.True(t, creds.Empty())

	require.NoError(t, store.Save(ctx, domainauth.Credentials{AccessToken: "A", RefreshToken: "R"}))
	assert.Equal(t, "A", store.Stored().AccessToken)
	assert.Equal(t, 1, store.SaveCalls())

	require.NoError(t, store.Clear(ctx))
	assert.True(t, store.Stored().Empty())
	assert.Equal(t, 1, store.ClearCalls())
}

func TestCredentialStore_InjectedErrors(t *testing.T) {
	ctx := context.Background()
	boom := errors.New("boom")
	store := &CredentialStore{LoadErr: boom, SaveErr: boom}

	_, err := store.Load(ctx)
	require.ErrorIs(t, err, boom)

	err = store.Save(ctx, domainauth.Credentials{AccessToken: "A"})
	require.ErrorIs(t, err, boom)
	assert.True(t, store.Stored().Empty(), "failed save must not change state")
}

func TestRecordingNotifier(t *testing.T) {
	n := &RecordingNotifier{}
	n.Notify(context.Background(), ports.Notification{Code: apperrors.ErrCodeNotFound, Message: "gone"})
	n.Notify(context.Background(), ports.Notification{Code: apperrors.ErrCodeNotFound, Message: "gone"})

	assert.Equal(t, []apperrors.ErrorCode{apperrors.ErrCodeNotFound, apperrors.ErrCodeNotFound}, n.Codes())
	assert.Len(t, n.Notifications(), 2)

	n.Reset()
	assert.Empty(t, n.Notifications())
}
