package controllers

import (
	"context"
	"net/http"
	"time"

	"github.com/angelmondragon/discswap-backend/api/responses"
	"github.com/angelmondragon/discswap-backend/pkg/config"
	"github.com/angelmondragon/discswap-backend/pkg/db"
	pkgerrors "github.com/angelmondragon/discswap-backend/pkg/errors"
	"github.com/angelmondragon/discswap-backend/pkg/logger"
)

const (
	envHeader    = "X-Discswap-Env"
	readyTimeout = 2 * time.Second
)

// ReadinessCheck names a dependency checked by HealthReady.
type ReadinessCheck struct {
	Name   string
	Pinger db.Pinger
}

func HealthLive(cfg *config.Config) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set(envHeader, cfg.App.Env)
		responses.WriteSuccess(w, map[string]string{"status": "live"})
	}
}

// HealthReady pings every dependency and answers 503 listing the failures.
func HealthReady(cfg *config.Config, logg *logger.Logger, checks ...ReadinessCheck) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set(envHeader, cfg.App.Env)

		ctx, cancel := context.WithTimeout(r.Context(), readyTimeout)
		defer cancel()

		failed := map[string]string{}
		for _, check := range checks {
			if check.Pinger == nil {
				continue
			}
			if err := check.Pinger.Ping(ctx); err != nil {
				failed[check.Name] = err.Error()
			}
		}

		if len(failed) > 0 {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeDependency, "dependencies unavailable").WithDetails(failed))
			return
		}
		responses.WriteSuccess(w, map[string]string{"status": "ready"})
	}
}
