package cachestore

import (
	"context"
	"errors"
	"fmt"
	"time"

	pkgerrors "storeadmin/pkg/errors"

	"github.com/redis/go-redis/v9"
	"github.com/sony/gobreaker"
	"go.uber.org/zap"
)

// BreakerConfig controls when the Redis circuit opens.
type BreakerConfig struct {
	MaxRequests      uint32
	Interval         time.Duration
	Timeout          time.Duration
	FailureThreshold float64
	MinRequests      uint32
}

// DefaultBreakerConfig returns the breaker settings used in deployments.
func DefaultBreakerConfig() BreakerConfig {
	return BreakerConfig{
		MaxRequests:      5,
		Interval:         30 * time.Second,
		Timeout:          30 * time.Second,
		FailureThreshold: 0.5,
		MinRequests:      10,
	}
}

// RedisOptions configures a RedisStore.
type RedisOptions struct {
	URL          string
	Prefix       string
	PoolSize     int
	DialTimeout  time.Duration
	ReadTimeout  time.Duration
	WriteTimeout time.Duration
	Breaker      BreakerConfig
}

// RedisStore is a cache shared by every API instance. Calls go through a
// circuit breaker; while it is open every operation fails fast with
// CACHE_UNAVAILABLE.
type RedisStore struct {
	client  redis.UniversalClient
	prefix  string
	breaker *gobreaker.CircuitBreaker
	logger  *zap.Logger
}

// NewRedisStore connects to opts.URL and verifies the connection.
func NewRedisStore(ctx context.Context, opts RedisOptions, logger *zap.Logger) (*RedisStore, error) {
	opt, err := redis.ParseURL(opts.URL)
	if err != nil {
		return nil, fmt.Errorf("invalid Redis URL: %w", err)
	}
	if opts.PoolSize > 0 {
		opt.PoolSize = opts.PoolSize
	}
	if opts.DialTimeout > 0 {
		opt.DialTimeout = opts.DialTimeout
	}
	if opts.ReadTimeout > 0 {
		opt.ReadTimeout = opts.ReadTimeout
	}
	if opts.WriteTimeout > 0 {
		opt.WriteTimeout = opts.WriteTimeout
	}

	client := redis.NewClient(opt)

	pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	if err := client.Ping(pingCtx).Err(); err != nil {
		client.Close()
		return nil, fmt.Errorf("failed to connect to Redis: %w", err)
	}

	return NewRedisStoreFromClient(client, opts.Prefix, opts.Breaker, logger), nil
}

// NewRedisStoreFromClient wraps an existing client without pinging it.
func NewRedisStoreFromClient(client redis.UniversalClient, prefix string, cfg BreakerConfig, logger *zap.Logger) *RedisStore {
	s := &RedisStore{client: client, prefix: prefix, logger: logger}
	s.breaker = gobreaker.NewCircuitBreaker(gobreaker.Settings{
		Name:        "redis-cache",
		MaxRequests: cfg.MaxRequests,
		Interval:    cfg.Interval,
		Timeout:     cfg.Timeout,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			if counts.Requests < cfg.MinRequests {
				return false
			}
			return float64(counts.TotalFailures)/float64(counts.Requests) >= cfg.FailureThreshold
		},
		OnStateChange: func(name string, from gobreaker.State, to gobreaker.State) {
			logger.Warn("Circuit breaker state changed",
				zap.String("breaker", name),
				zap.String("from", from.String()),
				zap.String("to", to.String()),
			)
		},
	})
	return s
}

func (s *RedisStore) key(k string) string {
	return s.prefix + k
}

type lookup struct {
	value []byte
	found bool
}

func (s *RedisStore) Get(ctx context.Context, key string) ([]byte, bool, error) {
	res, err := s.breaker.Execute(func() (interface{}, error) {
		value, err := s.client.Get(ctx, s.key(key)).Bytes()
		if errors.Is(err, redis.Nil) {
			return lookup{}, nil
		}
		if err != nil {
			return nil, err
		}
		return lookup{value: value, found: true}, nil
	})
	if err != nil {
		return nil, false, pkgerrors.NewCacheUnavailableError("get", err)
	}
	l := res.(lookup)
	return l.value, l.found, nil
}

// Set stores value; a zero ttl keeps the key until it is deleted.
func (s *RedisStore) Set(ctx context.Context, key string, value []byte, ttl time.Duration) error {
	_, err := s.breaker.Execute(func() (interface{}, error) {
		return nil, s.client.Set(ctx, s.key(key), value, ttl).Err()
	})
	if err != nil {
		return pkgerrors.NewCacheUnavailableError("set", err)
	}
	return nil
}

func (s *RedisStore) Has(ctx context.Context, key string) (bool, error) {
	res, err := s.breaker.Execute(func() (interface{}, error) {
		return s.client.Exists(ctx, s.key(key)).Result()
	})
	if err != nil {
		return false, pkgerrors.NewCacheUnavailableError("has", err)
	}
	return res.(int64) > 0, nil
}

// Delete issues one DEL per key in a single pipeline so keys may live in
// different cluster slots.
func (s *RedisStore) Delete(ctx context.Context, keys ...string) error {
	if len(keys) == 0 {
		return nil
	}
	_, err := s.breaker.Execute(func() (interface{}, error) {
		pipe := s.client.Pipeline()
		for _, k := range keys {
			pipe.Del(ctx, s.key(k))
		}
		_, err := pipe.Exec(ctx)
		return nil, err
	})
	if err != nil {
		return pkgerrors.NewCacheUnavailableError("delete", err)
	}
	return nil
}

// State exposes the breaker state for readiness checks.
func (s *RedisStore) State() gobreaker.State {
	return s.breaker.State()
}

func (s *RedisStore) Close() error {
	return s.client.Close()
}
