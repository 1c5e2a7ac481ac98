// Package redis implements the best-effort idempotency fast-path cache
// (SPEC_FULL.md §4.O), grounded on
// _examples/LerianStudio-midaz's common/mredis/redis.go
// Connect/GetDB singleton wrapper shape; the SETNX usage itself is
// re-derived (the pack's mredis file is connection plumbing only, no
// cache methods — see DESIGN.md).
package redis

import (
	"context"
	"time"

	"github.com/redis/go-redis/v9"
)

// Connection wraps a singleton *redis.Client, matching the teacher's
// lazy-connect-then-reuse idiom.
type Connection struct {
	Addr     string
	Password string
	DB       int

	client    *redis.Client
	connected bool
}

func (c *Connection) connect(ctx context.Context) (*redis.Client, error) {
	if c.connected {
		return c.client, nil
	}

	client := redis.NewClient(&redis.Options{
		Addr:     c.Addr,
		Password: c.Password,
		DB:       c.DB,
	})

	if err := client.Ping(ctx).Err(); err != nil {
		return nil, err
	}

	c.client = client
	c.connected = true

	return c.client, nil
}

// idempotencyTTL bounds how long a reservation's fast-path marker lives;
// Postgres remains authoritative after expiry (SPEC_FULL.md §4.O).
const idempotencyTTL = 5 * time.Minute

// Cache is the fast-path idempotency accelerator. A miss, or any Redis
// error, must never be treated as "not reserved" by the caller — it only
// ever shortcuts a lookup that Postgres would answer the same way.
type Cache struct {
	conn *Connection
}

func New(conn *Connection) *Cache {
	return &Cache{conn: conn}
}

func cacheKey(idempotencyKey, fileDigest string) string {
	return "idem:" + idempotencyKey + ":" + fileDigest
}

// TryMark attempts to atomically claim (idempotencyKey, fileDigest) in
// the cache. ok=false with a nil error means the key was already present,
// and command.LoadOrders.Execute then reports BEING_PROCESSED without a
// Postgres lookup. ok=false with a non-nil error means Redis was
// unreachable, and Execute falls through to the Postgres lookup.
func (c *Cache) TryMark(ctx context.Context, idempotencyKey, fileDigest string) (ok bool, err error) {
	client, err := c.conn.connect(ctx)
	if err != nil {
		return false, err
	}

	return client.SetNX(ctx, cacheKey(idempotencyKey, fileDigest), "PROCESSING", idempotencyTTL).Result()
}

// Forget removes a reservation marker, used after a FAILED transition so
// a retry is not needlessly blocked by a stale cache entry.
func (c *Cache) Forget(ctx context.Context, idempotencyKey, fileDigest string) error {
	client, err := c.conn.connect(ctx)
	if err != nil {
		return err
	}

	return client.Del(ctx, cacheKey(idempotencyKey, fileDigest)).Err()
}
