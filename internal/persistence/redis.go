package persistence

import (
	"context"
	"errors"
	"time"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"github.com/spec-kit/ticket-dashboard/internal/config"
)

// ErrRedisDisabled is returned by Ping when no address is configured.
var ErrRedisDisabled = errors.New("redis client not configured")

// Redis holds the optional preference store connection. A nil *Redis means
// preferences live in memory; every method accepts it.
type Redis struct {
	Client *redis.Client
	addr   string
}

// Health states reported by Status.
const (
	RedisDisabled = "disabled"
	RedisOK       = "ok"
)

// NewRedis connects to Redis using the provided configuration. It returns
// nil when cfg.Addr is empty; callers fall back to in-memory state.
func NewRedis(cfg config.RedisConfig, logger *zap.Logger) *Redis {
	if cfg.Addr == "" {
		logger.Info("redis disabled, theme preferences kept in memory")
		return nil
	}
	client := redis.NewClient(&redis.Options{
		Addr:        cfg.Addr,
		Password:    cfg.Password,
		DB:          cfg.DB,
		DialTimeout: 2 * time.Second,
		ReadTimeout: time.Second,
	})
	r := &Redis{Client: client, addr: cfg.Addr}

	ctx, cancel := context.WithTimeout(context.Background(), 3*time.Second)
	defer cancel()
	// An unreachable server is not fatal; readiness reports it until it recovers.
	if status := r.Status(ctx); status != RedisOK {
		logger.Warn("unable to reach redis", zap.String("addr", cfg.Addr), zap.String("status", status))
	} else {
		logger.Info("connected to redis", zap.String("addr", cfg.Addr))
	}
	return r
}

// Close closes the client.
func (r *Redis) Close() {
	if r != nil && r.Client != nil {
		_ = r.Client.Close()
	}
}

// Ping verifies Redis connectivity.
func (r *Redis) Ping(ctx context.Context) error {
	if r == nil || r.Client == nil {
		return ErrRedisDisabled
	}
	return r.Client.Ping(ctx).Err()
}

// Status summarizes connectivity for readiness probes: RedisDisabled,
// RedisOK, or the ping error text.
func (r *Redis) Status(ctx context.Context) string {
	err := r.Ping(ctx)
	switch {
	case errors.Is(err, ErrRedisDisabled):
		return RedisDisabled
	case err != nil:
		return err.Error()
	default:
		return RedisOK
	}
}

// Addr returns the configured address, or "" when disabled.
func (r *Redis) Addr() string {
	if r == nil {
		return ""
	}
	return r.addr
}
