package redis

import (
	"context"
	"errors"
	"time"

	"github.com/redis/go-redis/v9"
)

// IdempotencyStore keeps the first response recorded for a client-supplied key.
type IdempotencyStore interface {
	LoadResponse(ctx context.Context, scope, clientKey string) (string, bool, error)
	SaveResponse(ctx context.Context, scope, clientKey, payload string, ttl time.Duration) (bool, error)
}

// LoadResponse returns the stored payload and whether one existed.
func (c *Client) LoadResponse(ctx context.Context, scope, clientKey string) (string, bool, error) {
	if err := c.ready(); err != nil {
		return "", false, err
	}
	payload, err := c.cmds.Get(ctx, idempotencyKey(scope, clientKey)).Result()
	if errors.Is(err, redis.Nil) {
		return "", false, nil
	}
	if err != nil {
		return "", false, err
	}
	return payload, true, nil
}

// SaveResponse stores payload unless another request already claimed the key.
// It reports whether this call won.
func (c *Client) SaveResponse(ctx context.Context, scope, clientKey, payload string, ttl time.Duration) (bool, error) {
	if err := c.ready(); err != nil {
		return false, err
	}
	return c.cmds.SetNX(ctx, idempotencyKey(scope, clientKey), payload, ttl).Result()
}

func idempotencyKey(scope, clientKey string) string {
	return key("idempotency", scope, clientKey)
}
