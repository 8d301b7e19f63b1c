package responses

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	pkgerrors "github.com/angelmondragon/discswap-backend/pkg/errors"
	"github.com/angelmondragon/discswap-backend/pkg/logger"
	"github.com/angelmondragon/discswap-backend/pkg/types"
	"github.com/rs/zerolog"
)

func TestWriteSuccess(t *testing.T) {
	w := httptest.NewRecorder()
	WriteSuccess(w, map[string]string{"hello": "world"})

	if got := w.Code; got != http.StatusOK {
		t.Fatalf("expected status 200 but got %d", got)
	}
	if ct := w.Header().Get("Content-Type"); ct != "application/json" {
		t.Fatalf("unexpected content type %q", ct)
	}

	var body types.SuccessEnvelope
	if err := json.NewDecoder(w.Body).Decode(&body); err != nil {
		t.Fatalf("failed to decode success envelope: %v", err)
	}
	if body.Data.(map[string]any)["hello"] != "world" {
		t.Fatalf("unexpected payload %v", body.Data)
	}
}

func TestWriteSuccessStatusAndNoContent(t *testing.T) {
	w := httptest.NewRecorder()
	WriteSuccessStatus(w, http.StatusCreated, []int{})
	if w.Code != http.StatusCreated || strings.TrimSpace(w.Body.String()) != `{"data":[]}` {
		t.Fatalf("unexpected response %d %s", w.Code, w.Body.String())
	}

	w = httptest.NewRecorder()
	WriteNoContent(w)
	if w.Code != http.StatusNoContent || w.Body.Len() != 0 {
		t.Fatalf("expected empty 204, got %d %q", w.Code, w.Body.String())
	}
}

func TestWriteErrorMapsTypedError(t *testing.T) {
	w := httptest.NewRecorder()
	err := pkgerrors.New(pkgerrors.CodeValidation, "invalid listing").
		WithDetails(map[string]string{"weight": "must be greater than 0"})
	WriteError(context.Background(), nil, w, err)

	if got := w.Code; got != http.StatusBadRequest {
		t.Fatalf("expected status 400 but got %d", got)
	}

	var body types.ErrorEnvelope
	if err := json.NewDecoder(w.Body).Decode(&body); err != nil {
		t.Fatalf("failed to decode error envelope: %v", err)
	}
	if body.Error.Code != string(pkgerrors.CodeValidation) {
		t.Fatalf("unexpected code %s", body.Error.Code)
	}
	if body.Error.Message != "invalid listing" {
		t.Fatalf("unexpected message %q", body.Error.Message)
	}
	if body.Error.Details == nil {
		t.Fatalf("expected details in public payload")
	}
}

func TestWriteErrorStatusPerCode(t *testing.T) {
	cases := map[pkgerrors.Code]int{
		pkgerrors.CodeNotFound:      http.StatusNotFound,
		pkgerrors.CodeStateConflict: http.StatusUnprocessableEntity,
		pkgerrors.CodePersistence:   http.StatusServiceUnavailable,
		pkgerrors.CodeRateLimit:     http.StatusTooManyRequests,
		pkgerrors.CodeIdempotency:   http.StatusConflict,
	}
	for code, status := range cases {
		w := httptest.NewRecorder()
		WriteError(context.Background(), nil, w, pkgerrors.New(code, "x"))
		if w.Code != status {
			t.Fatalf("%s: expected %d, got %d", code, status, w.Code)
		}
	}
}

func TestWriteErrorHidesPersistenceDetails(t *testing.T) {
	w := httptest.NewRecorder()
	err := pkgerrors.Wrap(pkgerrors.CodePersistence, errors.New("dial tcp 10.0.0.5:5432: refused"), "db: list listings").
		WithDetails(map[string]any{"host": "10.0.0.5"})
	WriteError(context.Background(), nil, w, err)

	var body types.ErrorEnvelope
	if err := json.NewDecoder(w.Body).Decode(&body); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if body.Error.Message != pkgerrors.MetadataFor(pkgerrors.CodePersistence).PublicMessage {
		t.Fatalf("expected public message, got %q", body.Error.Message)
	}
	if body.Error.Details != nil {
		t.Fatalf("details must not leak: %v", body.Error.Details)
	}
}

func TestWriteErrorDefaultsToInternalForUntrustedErrors(t *testing.T) {
	var buf bytes.Buffer
	logg := logger.New(logger.Options{ServiceName: "test", Level: zerolog.DebugLevel, Format: logger.FormatJSON, Output: &buf})

	w := httptest.NewRecorder()
	WriteError(context.Background(), logg, w, errors.New("boom"))

	if got := w.Code; got != http.StatusInternalServerError {
		t.Fatalf("expected status 500 but got %d", got)
	}
	if strings.Contains(w.Body.String(), "boom") {
		t.Fatalf("internal error text leaked: %s", w.Body.String())
	}
	if !strings.Contains(buf.String(), `"error_code":"INTERNAL_ERROR"`) {
		t.Fatalf("expected error log with code, got %s", buf.String())
	}
}
