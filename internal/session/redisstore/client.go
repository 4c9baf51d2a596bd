// Package redisstore keeps camera sessions and device locations in Redis so
// several service replicas share the previously applied intent.
package redisstore

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
	maintnotifications "github.com/redis/go-redis/v9/maintnotifications"

	"github.com/mohammed-shakir/camera-stop-engine/internal/camera/controller"
	"github.com/mohammed-shakir/camera-stop-engine/internal/core/observability"
	"github.com/mohammed-shakir/camera-stop-engine/internal/session"
	"github.com/mohammed-shakir/camera-stop-engine/internal/session/keys"
)

type Option func(*redis.Options)

func WithPoolSize(n int) Option {
	return func(o *redis.Options) { o.PoolSize = n }
}

func WithDialTimeout(d time.Duration) Option {
	return func(o *redis.Options) { o.DialTimeout = d }
}

func WithReadTimeout(d time.Duration) Option {
	return func(o *redis.Options) { o.ReadTimeout = d }
}

func WithWriteTimeout(d time.Duration) Option {
	return func(o *redis.Options) { o.WriteTimeout = d }
}

type Client struct {
	rdb *redis.Client
	ttl time.Duration
}

var _ session.Store = (*Client)(nil)

// New connects and pings. ttl bounds how long an idle camera session is
// remembered; zero keeps sessions forever.
func New(ctx context.Context, addr string, ttl time.Duration, opts ...Option) (*Client, error) {
	if addr == "" {
		return nil, errors.New("redis address is required")
	}

	ro := &redis.Options{
		Addr:         addr,
		PoolSize:     32,
		MinIdleConns: 2,
		DialTimeout:  2 * time.Second,
		ReadTimeout:  1 * time.Second,
		WriteTimeout: 1 * time.Second,
		MaintNotificationsConfig: &maintnotifications.Config{
			Mode: maintnotifications.ModeDisabled,
		},
	}
	for _, f := range opts {
		f(ro)
	}

	rdb := redis.NewClient(ro)

	start := time.Now()
	err := rdb.Ping(ctx).Err()
	observability.ObserveStoreOp("ping", err, time.Since(start).Seconds())
	if err != nil {
		_ = rdb.Close()
		return nil, fmt.Errorf("redis ping: %w", err)
	}
	return &Client{rdb: rdb, ttl: ttl}, nil
}

func (c *Client) Load(ctx context.Context, cameraID string) (controller.State, bool, error) {
	b, ok, err := c.get(ctx, "load", keys.Camera(cameraID))
	if err != nil || !ok {
		return controller.State{}, false, err
	}
	var st controller.State
	if err := json.Unmarshal(b, &st); err != nil {
		return controller.State{}, false, fmt.Errorf("decode session %q: %w", cameraID, err)
	}
	return st, true, nil
}

func (c *Client) Save(ctx context.Context, cameraID string, st controller.State) error {
	b, err := json.Marshal(st)
	if err != nil {
		return fmt.Errorf("encode session %q: %w", cameraID, err)
	}
	return c.set(ctx, "save", keys.Camera(cameraID), b)
}

func (c *Client) Delete(ctx context.Context, cameraID string) error {
	start := time.Now()
	key := keys.Camera(cameraID)
	err := c.rdb.Del(ctx, key).Err()
	observability.ObserveStoreOp("delete", err, time.Since(start).Seconds())
	if err != nil {
		return fmt.Errorf("redis DEL %q: %w", key, err)
	}
	return nil
}

// SaveLocation mirrors a device's last-known location record.
func (c *Client) SaveLocation(ctx context.Context, deviceID string, payload []byte) error {
	return c.set(ctx, "save_location", keys.Device(deviceID), payload)
}

// LoadLocation returns the mirrored record, if any.
func (c *Client) LoadLocation(ctx context.Context, deviceID string) ([]byte, bool, error) {
	return c.get(ctx, "load_location", keys.Device(deviceID))
}

func (c *Client) get(ctx context.Context, op, key string) ([]byte, bool, error) {
	start := time.Now()
	b, err := c.rdb.Get(ctx, key).Bytes()
	if errors.Is(err, redis.Nil) {
		observability.ObserveStoreOp(op, nil, time.Since(start).Seconds())
		return nil, false, nil
	}
	observability.ObserveStoreOp(op, err, time.Since(start).Seconds())
	if err != nil {
		return nil, false, fmt.Errorf("redis GET %q: %w", key, err)
	}
	return b, true, nil
}

func (c *Client) set(ctx context.Context, op, key string, val []byte) error {
	start := time.Now()
	err := c.rdb.Set(ctx, key, val, c.ttl).Err()
	observability.ObserveStoreOp(op, err, time.Since(start).Seconds())
	if err != nil {
		return fmt.Errorf("redis SET %q: %w", key, err)
	}
	return nil
}

// Ping reports whether redis answers; it backs the readiness probe.
func (c *Client) Ping(ctx context.Context) error {
	start := time.Now()
	err := c.rdb.Ping(ctx).Err()
	observability.ObserveStoreOp("ping", err, time.Since(start).Seconds())
	if err != nil {
		return fmt.Errorf("redis ping: %w", err)
	}
	return nil
}

func (c *Client) Close() error {
	if err := c.rdb.Close(); err != nil {
		return fmt.Errorf("redis close: %w", err)
	}
	return nil
}
