package controllers

import (
	"context"
	"errors"
	"net/http"
	"strings"
	"testing"

	"github.com/angelmondragon/discswap-backend/pkg/config"
	"github.com/angelmondragon/discswap-backend/pkg/logger"
)

type pingFunc func(ctx context.Context) error

func (f pingFunc) Ping(ctx context.Context) error { return f(ctx) }

func TestHealthLive(t *testing.T) {
	cfg := &config.Config{App: config.AppConfig{Env: "dev"}}
	rec := serve(HealthLive(cfg), http.MethodGet, "/health/live", "")
	if rec.Code != http.StatusOK || rec.Header().Get(envHeader) != "dev" {
		t.Fatalf("unexpected live response %d %v", rec.Code, rec.Header())
	}
}

func TestHealthReady(t *testing.T) {
	cfg := &config.Config{App: config.AppConfig{Env: "dev"}}
	ok := pingFunc(func(context.Context) error { return nil })
	down := pingFunc(func(context.Context) error { return errors.New("connection refused") })

	rec := serve(HealthReady(cfg, logger.Nop(), ReadinessCheck{Name: "database", Pinger: ok}, ReadinessCheck{Name: "redis"}), http.MethodGet, "/health/ready", "")
	if rec.Code != http.StatusOK {
		t.Fatalf("expected ready, got %d", rec.Code)
	}

	rec = serve(HealthReady(cfg, logger.Nop(), ReadinessCheck{Name: "database", Pinger: ok}, ReadinessCheck{Name: "redis", Pinger: down}), http.MethodGet, "/health/ready", "")
	if rec.Code != http.StatusServiceUnavailable {
		t.Fatalf("expected 503, got %d", rec.Code)
	}
	if !strings.Contains(rec.Body.String(), `"redis":"connection refused"`) {
		t.Fatalf("expected failing dependency in details, got %s", rec.Body.String())
	}
}
