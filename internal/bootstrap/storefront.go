package bootstrap

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/redis/go-redis/v9"

	"github.com/target/storefront/config"
	"github.com/target/storefront/internal/adapters/credstore"
	redisstore "github.com/target/storefront/internal/adapters/redis"
	"github.com/target/storefront/internal/apiclient"
	domainauth "github.com/target/storefront/internal/domain/auth"
	"github.com/target/storefront/internal/observability/metrics"
	"github.com/target/storefront/internal/observability/statsd"
	"github.com/target/storefront/internal/ports"
	"github.com/target/storefront/internal/service"
)

// ContainerOptions configures Build.
type ContainerOptions struct {
	Config   config.AppConfig
	Logger   *slog.Logger   // Optional
	Notifier ports.Notifier // Optional
}

// Container holds the wired object graph for one process.
type Container struct {
	Storefront *service.Storefront
	Client     *apiclient.Client
	Store      ports.CredentialStore
	Metrics    *statsd.Client

	redis redis.UniversalClient
}

// Build wires the credential store, metrics, API client and storefront services.
func Build(ctx context.Context, opts ContainerOptions) (*Container, error) {
	logger := opts.Logger
	if logger == nil {
		logger = slog.Default()
	}
	cfg := opts.Config

	c := &Container{Metrics: buildMetrics(logger, cfg.Observability.Metrics)}
	apiMetrics := metrics.NewAPIMetrics(c.Metrics)
	if !c.Metrics.Enabled() {
		apiMetrics = nil
	}

	store, rdb, err := buildCredentialStore(ctx, cfg, logger)
	if err != nil {
		_ = c.Close()
		return nil, err
	}
	c.Store, c.redis = store, rdb

	client, err := apiclient.New(apiclient.Options{
		BaseURL:   cfg.API.BaseURL,
		Timeout:   cfg.API.Timeout,
		UserAgent: cfg.API.UserAgent,
		Logger:    logger,
		Notifier:  opts.Notifier,
		Metrics:   apiMetrics,
	})
	if err != nil {
		_ = c.Close()
		return nil, fmt.Errorf("create api client: %w", err)
	}
	c.Client = client

	c.Storefront = service.NewStorefront(service.StorefrontOptions{
		Client:    client,
		Store:     store,
		Telemetry: service.Telemetry{Logger: logger, Metrics: apiMetrics},
	})
	return c, nil
}

// Close releases the Redis connection and the metrics socket.
func (c *Container) Close() error {
	var errs []error
	if c.redis != nil {
		if err := c.redis.Close(); err != nil {
			errs = append(errs, fmt.Errorf("close redis: %w", err))
		}
	}
	if err := c.Metrics.Close(); err != nil {
		errs = append(errs, fmt.Errorf("close statsd: %w", err))
	}
	return errors.Join(errs...)
}

func credentialPolicy(cfg config.CredentialsConfig) domainauth.CredentialPolicy {
	return domainauth.CredentialPolicy{
		AccessTTL:  cfg.AccessTTL,
		RefreshTTL: cfg.RefreshTTL,
		Secure:     cfg.Secure,
	}
}

//nolint:ireturn // the store backend is selected by configuration.
func buildCredentialStore(ctx context.Context, cfg config.AppConfig, logger *slog.Logger) (ports.CredentialStore, redis.UniversalClient, error) {
	policy := credentialPolicy(cfg.Credentials)

	switch cfg.Credentials.Store {
	case config.CredentialStoreMemory:
		return credstore.NewMemoryStore(policy, nil), nil, nil
	case config.CredentialStoreRedis:
		rdb, err := ConnectRedis(ctx, RedisOptions{Config: cfg.Redis, Logger: logger})
		if err != nil {
			return nil, nil, fmt.Errorf("connect redis credential store: %w", err)
		}
		store := redisstore.NewCredentialStore(rdb, redisstore.CredentialStoreOptions{
			Prefix: cfg.Credentials.KeyPrefix,
			Policy: policy,
		})
		return store, rdb, nil
	default:
		store, err := credstore.NewFileStore(credstore.FileStoreOptions{
			Path:   cfg.Credentials.FilePath,
			Policy: policy,
		})
		if err != nil {
			return nil, nil, fmt.Errorf("create credential file store: %w", err)
		}
		logger.DebugContext(ctx, "using credential file", "path", store.Path())
		return store, nil, nil
	}
}

// buildMetrics returns a statsd client; failures degrade to a disabled client.
func buildMetrics(logger *slog.Logger, cfg config.ObservabilityMetricsConfig) *statsd.Client {
	disabled := func() *statsd.Client {
		client, _ := statsd.NewClient(statsd.Config{Logger: logger})
		return client
	}
	if !cfg.IsEnabled() {
		return disabled()
	}
	client, err := statsd.NewClient(statsd.Config{
		Enabled: true,
		Address: cfg.StatsdAddress,
		Prefix:  cfg.Prefix,
		Logger:  logger,
	})
	if err != nil {
		logger.Error("failed to initialise statsd client", "error", err)
		return disabled()
	}
	return client
}
