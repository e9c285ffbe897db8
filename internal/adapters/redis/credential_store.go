package redis

// Package redis provides Redis-backed adapters for storefront sessions.

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	domainauth "github.com/target/storefront/internal/domain/auth"
	"github.com/target/storefront/internal/ports"
)

const defaultPrefix = "storefront:credentials:"

var _ ports.CredentialStore = (*CredentialStore)(nil)

// CredentialStoreOptions configures a CredentialStore.
type CredentialStoreOptions struct {
	Prefix string                      // Optional key prefix
	Policy domainauth.CredentialPolicy // Entry lifetimes
	Now    func() time.Time            // Optional, defaults to time.Now
}

// CredentialStore keeps each credential entry under its own key so Redis
// expires the access and refresh entries independently.
type CredentialStore struct {
	client redis.UniversalClient
	prefix string
	policy domainauth.CredentialPolicy
	now    func() time.Time
}

// NewCredentialStore creates a Redis credential store.
func NewCredentialStore(client redis.UniversalClient, opts CredentialStoreOptions) *CredentialStore {
	if client == nil {
		panic("redis client is required")
	}
	prefix := opts.Prefix
	if prefix == "" {
		prefix = defaultPrefix
	}
	now := opts.Now
	if now == nil {
		now = time.Now
	}
	return &CredentialStore{client: client, prefix: prefix, policy: opts.Policy, now: now}
}

func (s *CredentialStore) key(entry string) string {
	return s.prefix + entry
}

func (s *CredentialStore) Load(ctx context.Context) (domainauth.Credentials, error) {
	vals, err := s.client.MGet(ctx, s.key(domainauth.AccessTokenEntry), s.key(domainauth.RefreshTokenEntry)).Result()
	if err != nil {
		return domainauth.Credentials{}, fmt.Errorf("redis mget: %w", err)
	}
	return domainauth.Credentials{
		AccessToken:  stringValue(vals, 0),
		RefreshToken: stringValue(vals, 1),
	}, nil
}

// Save writes both entries in one MULTI/EXEC so readers never see a mixed pair.
// An empty token deletes its key.
func (s *CredentialStore) Save(ctx context.Context, creds domainauth.Credentials) error {
	now := s.now()
	_, err := s.client.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		s.setOrDelete(ctx, pipe, domainauth.AccessTokenEntry, creds.AccessToken, s.policy.AccessExpiry(now).Sub(now))
		s.setOrDelete(ctx, pipe, domainauth.RefreshTokenEntry, creds.RefreshToken, s.policy.RefreshExpiry(now).Sub(now))
		return nil
	})
	if err != nil {
		return fmt.Errorf("redis save credentials: %w", err)
	}
	return nil
}

func (s *CredentialStore) setOrDelete(ctx context.Context, pipe redis.Pipeliner, entry, value string, ttl time.Duration) {
	if value == "" || ttl <= 0 {
		pipe.Del(ctx, s.key(entry))
		return
	}
	pipe.Set(ctx, s.key(entry), value, ttl)
}

func (s *CredentialStore) Clear(ctx context.Context) error {
	if err := s.client.Del(ctx, s.key(domainauth.AccessTokenEntry), s.key(domainauth.RefreshTokenEntry)).Err(); err != nil {
		return fmt.Errorf("redis clear credentials: %w", err)
	}
	return nil
}

// TTL returns the remaining lifetime of an entry, or an error when it is absent.
func (s *CredentialStore) TTL(ctx context.Context, entry string) (time.Duration, error) {
	ttl, err := s.client.TTL(ctx, s.key(entry)).Result()
	if err != nil {
		return 0, fmt.Errorf("redis ttl: %w", err)
	}
	if ttl < 0 {
		return 0, ErrNotFound
	}
	return ttl, nil
}

func stringValue(vals []any, i int) string {
	if i >= len(vals) {
		return ""
	}
	s, _ := vals[i].(string)
	return s
}

// ErrNotFound is returned when a credential entry is not stored.
var ErrNotFound = errors.New("credential entry not found")
