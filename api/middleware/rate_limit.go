package middleware

import (
	"context"
	"encoding/json"
	"fmt"
	"math"
	"net"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/angelmondragon/discswap-backend/api/responses"
	pkgerrors "github.com/angelmondragon/discswap-backend/pkg/errors"
	"github.com/angelmondragon/discswap-backend/pkg/logger"
	pkgredis "github.com/angelmondragon/discswap-backend/pkg/redis"
)

type rateLimiterStore interface {
	Hit(ctx context.Context, scope string, limit int64, window time.Duration) (pkgredis.Window, error)
}

// RateLimitPolicy defines the throttling parameters for a traffic surface.
// ownerLimit counts requests per listing owner named in the JSON body.
type RateLimitPolicy struct {
	name       string
	window     time.Duration
	ipLimit    int
	ownerLimit int
}

// NewRateLimitPolicy builds a policy with the supplied window and limits.
func NewRateLimitPolicy(name string, window time.Duration, ipLimit, ownerLimit int) RateLimitPolicy {
	return RateLimitPolicy{
		name:       strings.ToLower(strings.TrimSpace(name)),
		window:     window,
		ipLimit:    ipLimit,
		ownerLimit: ownerLimit,
	}
}

func (p RateLimitPolicy) enabled() bool {
	return p.window > 0 && (p.ipLimit > 0 || p.ownerLimit > 0)
}

func (p RateLimitPolicy) normalizedName() string {
	if p.name == "" {
		return "default"
	}
	return p.name
}

func (p RateLimitPolicy) ipScope(ip string) string {
	if ip == "" {
		return ""
	}
	return fmt.Sprintf("ip:%s:%s", p.normalizedName(), ip)
}

func (p RateLimitPolicy) ownerScope(hash string) string {
	if hash == "" {
		return ""
	}
	return fmt.Sprintf("owner:%s:%s", p.normalizedName(), hash)
}

// RateLimit enforces fixed-window counters per client IP and, when configured,
// per owner named in the JSON body. A nil store disables limiting.
func RateLimit(policy RateLimitPolicy, store rateLimiterStore, logg *logger.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		if !policy.enabled() || store == nil {
			return next
		}

		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ctx := r.Context()

			if policy.ipLimit > 0 {
				if scope := policy.ipScope(clientIP(r)); scope != "" {
					if !allow(ctx, logg, w, store, policy, "ip", scope, policy.ipLimit) {
						return
					}
				}
			}

			if policy.ownerLimit > 0 && r.Body != nil {
				body, err := bufferBody(r)
				if err != nil {
					responses.WriteError(ctx, logg, w, err)
					return
				}

				if owner := extractOwner(body); owner != "" {
					scope := policy.ownerScope(digest([]byte(owner)))
					if !allow(ctx, logg, w, store, policy, "owner", scope, policy.ownerLimit) {
						return
					}
				}
			}

			next.ServeHTTP(w, r)
		})
	}
}

// allow counts the hit and writes the rejection itself when it returns false.
func allow(ctx context.Context, logg *logger.Logger, w http.ResponseWriter, store rateLimiterStore, policy RateLimitPolicy, kind, scope string, limit int) bool {
	window, err := store.Hit(ctx, scope, int64(limit), policy.window)
	if err != nil {
		responses.WriteError(ctx, logg, w, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "rate limiting"))
		return false
	}
	if window.Allowed() {
		return true
	}

	if logg != nil {
		logg.Warn(logg.WithFields(ctx, map[string]any{
			"scope":    kind,
			"policy":   policy.normalizedName(),
			"attempts": window.Count,
			"limit":    limit,
			"reset_in": window.ResetIn.String(),
		}), "rate_limit.blocked")
	}
	w.Header().Set("Retry-After", strconv.Itoa(retryAfterSeconds(window.ResetIn, policy.window)))
	responses.WriteError(ctx, nil, w, pkgerrors.New(pkgerrors.CodeRateLimit, "rate limit exceeded"))
	return false
}

func retryAfterSeconds(resetIn, window time.Duration) int {
	if resetIn <= 0 {
		resetIn = window
	}
	secs := int(math.Ceil(resetIn.Seconds()))
	if secs < 1 {
		return 1
	}
	return secs
}

func clientIP(r *http.Request) string {
	if r == nil {
		return ""
	}
	if header := r.Header.Get("X-Forwarded-For"); header != "" {
		for _, part := range strings.Split(header, ",") {
			if ip := strings.TrimSpace(part); ip != "" {
				return ip
			}
		}
	}
	if ip := strings.TrimSpace(r.Header.Get("X-Real-IP")); ip != "" {
		return ip
	}
	host, _, err := net.SplitHostPort(r.RemoteAddr)
	if err == nil && host != "" {
		return host
	}
	return r.RemoteAddr
}

func extractOwner(payload []byte) string {
	var body struct {
		Owner string `json:"owner"`
	}
	if err := json.Unmarshal(payload, &body); err != nil {
		return ""
	}
	return strings.TrimSpace(body.Owner)
}
