package config

import (
	"strings"
	"time"
)

// RedisMode selects how the Redis credential store connects.
type RedisMode string

const (
	RedisModeDirect   RedisMode = "direct"
	RedisModeSentinel RedisMode = "sentinel"
	RedisModeCluster  RedisMode = "cluster"
)

// RedisConfig contains the connection settings for CREDENTIALS_STORE=redis.
// URI accepts host:port or a redis:// / rediss:// URL.
type RedisConfig struct {
	URI                string        `env:"URI"                  envDefault:"localhost:6379"`
	Password           string        `env:"PASSWORD"             envDefault:""`
	DB                 int           `env:"DB"                   envDefault:"0"`
	DialTimeout        time.Duration `env:"DIAL_TIMEOUT"         envDefault:"5s"`
	SentinelNodes      []string      `env:"SENTINEL_NODES"       envDefault:"localhost:26379"`
	SentinelMasterName string        `env:"SENTINEL_MASTER_NAME" envDefault:"mymaster"`
	SentinelPassword   string        `env:"SENTINEL_PASSWORD"    envDefault:""`
	UseSentinel        bool          `env:"USE_SENTINEL"         envDefault:"false"`
	ClusterNodes       []string      `env:"CLUSTER_NODES"        envDefault:""`
	UseCluster         bool          `env:"USE_CLUSTER"          envDefault:"false"`
}

const defaultRedisDialTimeout = 5 * time.Second

// Mode reports the connection mode. Cluster wins over sentinel.
func (c RedisConfig) Mode() RedisMode {
	switch {
	case c.UseCluster:
		return RedisModeCluster
	case c.UseSentinel:
		return RedisModeSentinel
	default:
		return RedisModeDirect
	}
}

// Sanitize trims addresses and drops blank node entries.
func (c *RedisConfig) Sanitize() {
	c.URI = strings.TrimSpace(c.URI)
	c.SentinelNodes = compactList(c.SentinelNodes)
	c.ClusterNodes = compactList(c.ClusterNodes)
	if c.DialTimeout <= 0 {
		c.DialTimeout = defaultRedisDialTimeout
	}
}

func compactList(raw []string) []string {
	out := raw[:0:0]
	for _, v := range raw {
		if v = strings.TrimSpace(v); v != "" {
			out = append(out, v)
		}
	}
	return out
}
