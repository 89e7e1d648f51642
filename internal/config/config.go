package config

import (
	"fmt"
	"os"
	"strconv"
	"time"
)

type Config struct {
	Server     ServerConfig
	Delivery   DeliveryConfig
	Retry      RetryConfig
	Cache      CacheConfig
	Dispatcher DispatcherConfig
}

type ServerConfig struct {
	Host string
	Port string
}

type DeliveryConfig struct {
	// HTTPTimeout bounds a single outbound webhook request.
	HTTPTimeout time.Duration
	// FanoutConcurrency caps how many subscriber requests one event issues at once.
	FanoutConcurrency int
}

type RetryConfig struct {
	// MaxRetries bounds the automatic retry chain per (event, webhook) pair.
	MaxRetries int
	// BaseDelay is the first retry delay; attempt N waits BaseDelay << (N-1).
	BaseDelay time.Duration
}

type CacheConfig struct {
	TTL  time.Duration
	Size int
}

type DispatcherConfig struct {
	Workers   int
	QueueSize int
}

// Load reads configuration from environment variables, applying defaults for
// anything unset. Invalid numeric or duration values are reported together.
func Load() (*Config, error) {
	var invalid []string

	getInt := func(key string, def int) int {
		val := os.Getenv(key)
		if val == "" {
			return def
		}
		n, err := strconv.Atoi(val)
		if err != nil || n <= 0 {
			invalid = append(invalid, key)
			return def
		}
		return n
	}

	getDuration := func(key string, def time.Duration) time.Duration {
		val := os.Getenv(key)
		if val == "" {
			return def
		}
		d, err := time.ParseDuration(val)
		if err != nil || d <= 0 {
			invalid = append(invalid, key)
			return def
		}
		return d
	}

	getString := func(key, def string) string {
		if val := os.Getenv(key); val != "" {
			return val
		}
		return def
	}

	config := &Config{
		Server: ServerConfig{
			Host: getString("SERVER_HOST", "0.0.0.0"),
			Port: getString("SERVER_PORT", "3001"),
		},
		Delivery: DeliveryConfig{
			HTTPTimeout:       getDuration("WEBHOOK_TIMEOUT", 10*time.Second),
			FanoutConcurrency: getInt("FANOUT_CONCURRENCY", 16),
		},
		Retry: RetryConfig{
			MaxRetries: getInt("MAX_RETRIES", 3),
			BaseDelay:  getDuration("RETRY_BASE_DELAY", 1*time.Second),
		},
		Cache: CacheConfig{
			TTL:  getDuration("CACHE_TTL", 1*time.Hour),
			Size: getInt("CACHE_SIZE", 1024),
		},
		Dispatcher: DispatcherConfig{
			Workers:   getInt("DISPATCH_WORKERS", 4),
			QueueSize: getInt("DISPATCH_QUEUE_SIZE", 256),
		},
	}

	if len(invalid) > 0 {
		return nil, fmt.Errorf("invalid environment variables: %v", invalid)
	}

	return config, nil
}
