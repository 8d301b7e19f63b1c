package middleware

import (
	"bytes"
	"io"
	"net/http"

	pkgerrors "github.com/angelmondragon/discswap-backend/pkg/errors"
)

// maxBufferedBody matches the cap validators.DecodeJSONBody reads up to.
const maxBufferedBody = 1 << 20

// bufferBody reads the request body and rewinds r.Body for the next handler.
func bufferBody(r *http.Request) ([]byte, error) {
	body, err := io.ReadAll(io.LimitReader(r.Body, maxBufferedBody+1))
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "read request body")
	}
	if len(body) > maxBufferedBody {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "request body too large").
			WithDetails(map[string]any{"max_bytes": maxBufferedBody})
	}
	r.Body = io.NopCloser(bytes.NewReader(body))
	return body, nil
}
