package redis

import (
	"context"
	"time"
)

// Window is the state of one fixed-window counter after a hit.
type Window struct {
	Count   int64
	Limit   int64
	ResetIn time.Duration
}

// Allowed reports whether the hit fit inside the limit.
func (w Window) Allowed() bool {
	return w.Count <= w.Limit
}

// Hit counts one request against scope. The first hit of a window arms the
// expiry; a counter found without one is re-armed so it cannot block forever.
func (c *Client) Hit(ctx context.Context, scope string, limit int64, window time.Duration) (Window, error) {
	if err := c.ready(); err != nil {
		return Window{}, err
	}
	k := rateLimitKey(scope)

	count, err := c.cmds.Incr(ctx, k).Result()
	if err != nil {
		return Window{}, err
	}
	result := Window{Count: count, Limit: limit, ResetIn: window}

	if count == 1 {
		if err := c.cmds.Expire(ctx, k, window).Err(); err != nil {
			return result, err
		}
		return result, nil
	}

	ttl, err := c.cmds.TTL(ctx, k).Result()
	if err != nil {
		return result, err
	}
	if ttl < 0 {
		if err := c.cmds.Expire(ctx, k, window).Err(); err != nil {
			return result, err
		}
		return result, nil
	}
	result.ResetIn = ttl
	return result, nil
}

func rateLimitKey(scope string) string {
	return key("rate_limit", scope)
}
