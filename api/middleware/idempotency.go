package middleware

import (
	"bytes"
	"context"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"net/http"
	"strings"
	"time"

	"github.com/angelmondragon/discswap-backend/api/responses"
	pkgerrors "github.com/angelmondragon/discswap-backend/pkg/errors"
	"github.com/angelmondragon/discswap-backend/pkg/logger"
	pkgredis "github.com/angelmondragon/discswap-backend/pkg/redis"
)

const (
	idempotencyHeader     = "Idempotency-Key"
	replayedHeader        = "Idempotent-Replayed"
	defaultIdempotencyTTL = 24 * time.Hour
	maxIdempotencyKeyLen  = 255
)

// listingWrite names a write endpoint that honors Idempotency-Key.
type listingWrite struct {
	method string
	match  func(path string) bool
	// keyRequired rejects the request when no key is sent.
	keyRequired bool
}

var listingWrites = []listingWrite{
	{method: http.MethodPost, match: isListingsCollection, keyRequired: true},
	{method: http.MethodPatch, match: isListingStatus},
}

func isListingsCollection(path string) bool {
	return strings.TrimSuffix(path, "/") == "/api/v1/listings"
}

func isListingStatus(path string) bool {
	id, ok := strings.CutPrefix(path, "/api/v1/listings/")
	if !ok {
		return false
	}
	id, ok = strings.CutSuffix(id, "/status")
	return ok && id != "" && !strings.Contains(id, "/")
}

// storedResponse is what gets replayed for a repeated key.
type storedResponse struct {
	Status      int    `json:"status"`
	ContentType string `json:"content_type,omitempty"`
	Body        []byte `json:"body"`
	BodyHash    string `json:"body_hash"`
}

// Idempotency makes listing writes safe to retry. The first final response
// for (method, path, key) is stored and replayed for later requests with the
// same body; a different body under the same key is rejected. A nil store
// turns the middleware off.
func Idempotency(store pkgredis.IdempotencyStore, ttl time.Duration, logg *logger.Logger) func(http.Handler) http.Handler {
	if ttl <= 0 {
		ttl = defaultIdempotencyTTL
	}
	return func(next http.Handler) http.Handler {
		if store == nil {
			return next
		}
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ctx := r.Context()

			// Route patterns are incomplete inside mounted subrouters, so match the raw path.
			write, ok := lookupListingWrite(r.Method, r.URL.Path)
			if !ok {
				next.ServeHTTP(w, r)
				return
			}

			clientKey := strings.TrimSpace(r.Header.Get(idempotencyHeader))
			switch {
			case clientKey == "" && write.keyRequired:
				responses.WriteError(ctx, logg, w, pkgerrors.New(pkgerrors.CodeValidation, "Idempotency-Key header required"))
				return
			case clientKey == "":
				next.ServeHTTP(w, r)
				return
			case len(clientKey) > maxIdempotencyKeyLen:
				responses.WriteError(ctx, logg, w, pkgerrors.New(pkgerrors.CodeValidation, "Idempotency-Key header too long").
					WithDetails(map[string]any{"max": maxIdempotencyKeyLen}))
				return
			}

			body, err := bufferBody(r)
			if err != nil {
				responses.WriteError(ctx, logg, w, err)
				return
			}

			scope := r.Method + "|" + r.URL.Path
			bodyHash := digest(body)

			payload, found, err := store.LoadResponse(ctx, scope, clientKey)
			if err != nil {
				responses.WriteError(ctx, logg, w, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "check idempotency"))
				return
			}
			if found {
				replay(ctx, logg, w, payload, bodyHash)
				return
			}

			capture := &responseCapture{ResponseWriter: w}
			next.ServeHTTP(capture, r)

			if !storable(capture.statusCode()) {
				return
			}
			encoded, err := json.Marshal(storedResponse{
				Status:      capture.statusCode(),
				ContentType: capture.Header().Get("Content-Type"),
				Body:        capture.body.Bytes(),
				BodyHash:    bodyHash,
			})
			if err != nil {
				logError(ctx, logg, "idempotency.encode_failed", err)
				return
			}
			if _, err := store.SaveResponse(ctx, scope, clientKey, string(encoded), ttl); err != nil {
				logError(ctx, logg, "idempotency.save_failed", err)
			}
		})
	}
}

// storable reports whether a response is final. Throttling, timeouts and
// server errors are left unstored so a retry under the same key runs again.
func storable(status int) bool {
	switch status {
	case http.StatusTooManyRequests, http.StatusRequestTimeout:
		return false
	}
	return status < http.StatusInternalServerError
}

func lookupListingWrite(method, path string) (listingWrite, bool) {
	for _, write := range listingWrites {
		if write.method == method && write.match(path) {
			return write, true
		}
	}
	return listingWrite{}, false
}

func replay(ctx context.Context, logg *logger.Logger, w http.ResponseWriter, payload, bodyHash string) {
	var stored storedResponse
	if err := json.Unmarshal([]byte(payload), &stored); err != nil {
		responses.WriteError(ctx, logg, w, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "decode idempotency record"))
		return
	}
	if stored.BodyHash != bodyHash {
		responses.WriteError(ctx, logg, w, pkgerrors.New(pkgerrors.CodeIdempotency, "idempotency key reused with different request body"))
		return
	}
	if stored.ContentType != "" {
		w.Header().Set("Content-Type", stored.ContentType)
	}
	w.Header().Set(replayedHeader, "true")
	w.WriteHeader(stored.Status)
	_, _ = w.Write(stored.Body)
}

func digest(payload []byte) string {
	sum := sha256.Sum256(payload)
	return hex.EncodeToString(sum[:])
}

// responseCapture tees the handler's response so it can be stored.
type responseCapture struct {
	http.ResponseWriter
	body   bytes.Buffer
	status int
}

func (c *responseCapture) WriteHeader(code int) {
	if c.status == 0 {
		c.status = code
	}
	c.ResponseWriter.WriteHeader(code)
}

func (c *responseCapture) Write(b []byte) (int, error) {
	if c.status == 0 {
		c.status = http.StatusOK
	}
	c.body.Write(b)
	return c.ResponseWriter.Write(b)
}

func (c *responseCapture) statusCode() int {
	if c.status == 0 {
		return http.StatusOK
	}
	return c.status
}

func logError(ctx context.Context, logg *logger.Logger, msg string, err error) {
	if logg == nil || err == nil {
		return
	}
	logg.Error(ctx, msg, err)
}
