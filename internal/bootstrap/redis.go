package bootstrap

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/target/storefront/config"
)

const defaultPingTimeout = 5 * time.Second

// RedisOptions configures ConnectRedis.
type RedisOptions struct {
	Config config.RedisConfig
	Logger *slog.Logger
}

// ConnectRedis opens the client selected by the configured mode and pings it.
//
//nolint:ireturn // direct, sentinel and cluster clients share redis.UniversalClient.
func ConnectRedis(ctx context.Context, opts RedisOptions) (redis.UniversalClient, error) {
	cfg := opts.Config
	uopts, err := universalOptions(cfg)
	if err != nil {
		return nil, err
	}

	var client redis.UniversalClient
	switch cfg.Mode() {
	case config.RedisModeCluster:
		client = redis.NewClusterClient(uopts.Cluster())
	case config.RedisModeSentinel:
		client = redis.NewFailoverClient(uopts.Failover())
	default:
		client = redis.NewClient(uopts.Simple())
	}

	timeout := cfg.DialTimeout
	if timeout <= 0 {
		timeout = defaultPingTimeout
	}
	pingCtx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()
	if err := client.Ping(pingCtx).Err(); err != nil {
		if cerr := client.Close(); cerr != nil {
			err = errors.Join(err, fmt.Errorf("close redis client: %w", cerr))
		}
		return nil, fmt.Errorf("ping redis (%s): %w", cfg.Mode(), err)
	}

	if opts.Logger != nil {
		opts.Logger.InfoContext(ctx, "redis connected",
			"mode", string(cfg.Mode()),
			"addrs", strings.Join(uopts.Addrs, ","),
			"db", uopts.DB,
		)
	}
	return client, nil
}

// universalOptions maps the configuration onto go-redis options. Credentials
// embedded in a redis:// URI override the separate password setting.
func universalOptions(cfg config.RedisConfig) (*redis.UniversalOptions, error) {
	uopts := &redis.UniversalOptions{
		Password:    cfg.Password,
		DB:          cfg.DB,
		DialTimeout: cfg.DialTimeout,
	}

	switch cfg.Mode() {
	case config.RedisModeSentinel:
		if len(cfg.SentinelNodes) == 0 {
			return nil, errors.New("redis sentinel mode requires REDIS_SENTINEL_NODES")
		}
		uopts.Addrs = cfg.SentinelNodes
		uopts.MasterName = cfg.SentinelMasterName
		uopts.SentinelPassword = cfg.SentinelPassword
		return uopts, nil
	case config.RedisModeCluster:
		if len(cfg.ClusterNodes) > 0 {
			uopts.Addrs = cfg.ClusterNodes
			return uopts, nil
		}
	}

	if cfg.URI == "" {
		return nil, fmt.Errorf("redis %s mode requires REDIS_URI", cfg.Mode())
	}
	if !isRedisURL(cfg.URI) {
		uopts.Addrs = []string{cfg.URI}
		return uopts, nil
	}

	parsed, err := redis.ParseURL(cfg.URI)
	if err != nil {
		return nil, fmt.Errorf("parse redis url: %w", err)
	}
	uopts.Addrs = []string{parsed.Addr}
	uopts.Username = parsed.Username
	if parsed.Password != "" {
		uopts.Password = parsed.Password
	}
	uopts.DB = parsed.DB
	uopts.TLSConfig = parsed.TLSConfig
	return uopts, nil
}

func isRedisURL(value string) bool {
	return strings.HasPrefix(value, "redis://") || strings.HasPrefix(value, "rediss://")
}
