package routes

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus"

	"github.com/angelmondragon/discswap-backend/api/controllers"
	"github.com/angelmondragon/discswap-backend/api/middleware"
	"github.com/angelmondragon/discswap-backend/internal/listings"
	"github.com/angelmondragon/discswap-backend/internal/search"
	"github.com/angelmondragon/discswap-backend/pkg/config"
	"github.com/angelmondragon/discswap-backend/pkg/db"
	"github.com/angelmondragon/discswap-backend/pkg/logger"
	"github.com/angelmondragon/discswap-backend/pkg/metrics"
	"github.com/angelmondragon/discswap-backend/pkg/redis"
)

// NewRouter wires the HTTP surface. redisClient may be nil, which turns off
// idempotency replay and rate limiting.
func NewRouter(
	cfg *config.Config,
	logg *logger.Logger,
	dbP db.Pinger,
	redisClient *redis.Client,
	registry *prometheus.Registry,
	httpMetrics *metrics.HTTPMetrics,
	listingsService listings.Service,
	searchService search.Service,
) http.Handler {
	r := chi.NewRouter()
	r.Use(
		middleware.Recoverer(logg),
		middleware.RequestID(logg),
		middleware.Logging(logg),
		middleware.Metrics(httpMetrics),
		middleware.CORS(cfg.App.CORSOrigins),
	)

	checks := []controllers.ReadinessCheck{{Name: "database", Pinger: dbP}}
	var (
		idempotencyStore redis.IdempotencyStore
		limiter          *redis.Client
	)
	if redisClient != nil {
		checks = append(checks, controllers.ReadinessCheck{Name: "redis", Pinger: redisClient})
		idempotencyStore = redisClient
		limiter = redisClient
	}

	searchPolicy := middleware.NewRateLimitPolicy(
		"search",
		cfg.RateLimit.SearchWindow,
		cfg.RateLimit.SearchIPLimit,
		0,
	)
	createPolicy := middleware.NewRateLimitPolicy(
		"create",
		cfg.RateLimit.CreateWindow,
		cfg.RateLimit.CreateIPLimit,
		cfg.RateLimit.CreateOwnerLimit,
	)

	r.Route("/health", func(r chi.Router) {
		r.Get("/live", controllers.HealthLive(cfg))
		r.Get("/ready", controllers.HealthReady(cfg, logg, checks...))
	})
	r.Method(http.MethodGet, "/metrics", metrics.Handler(registry))

	r.Route("/api/v1", func(r chi.Router) {
		r.Use(middleware.Idempotency(idempotencyStore, cfg.RateLimit.IdempotencyTTL, logg))

		r.Route("/listings", func(r chi.Router) {
			r.With(rateLimit(createPolicy, limiter, logg)).Post("/", controllers.ListingCreate(listingsService, logg))
			r.Get("/", controllers.ListingList(listingsService, logg))
			r.Route("/{listingId}", func(r chi.Router) {
				r.Get("/", controllers.ListingGet(listingsService, logg))
				r.Delete("/", controllers.ListingDelete(listingsService, logg))
				r.Patch("/status", controllers.ListingUpdateStatus(listingsService, logg))
			})
		})

		r.With(rateLimit(searchPolicy, limiter, logg)).
			Get("/search", controllers.SearchListings(searchService, cfg.Search.DefaultThreshold, logg))
	})

	return r
}

func rateLimit(policy middleware.RateLimitPolicy, limiter *redis.Client, logg *logger.Logger) func(http.Handler) http.Handler {
	if limiter == nil {
		return func(next http.Handler) http.Handler { return next }
	}
	return middleware.RateLimit(policy, limiter, logg)
}
