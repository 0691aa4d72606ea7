package routes

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/cambroos/rentals-backend/api/controllers"
	"github.com/cambroos/rentals-backend/api/middleware"
	"github.com/cambroos/rentals-backend/internal/relay"
	"github.com/cambroos/rentals-backend/pkg/config"
	"github.com/cambroos/rentals-backend/pkg/logger"
	"github.com/cambroos/rentals-backend/pkg/metrics"
	"github.com/cambroos/rentals-backend/pkg/redis"
)

// Params bundles what the HTTP surface needs. Redis and Gatherer are optional.
type Params struct {
	Config   *config.Config
	Logger   *logger.Logger
	Relay    relay.Service
	Metrics  *metrics.RelayMetrics
	Redis    *redis.Client
	Gatherer prometheus.Gatherer
}

func NewRouter(p Params) http.Handler {
	cfg := p.Config
	logg := p.Logger

	r := chi.NewRouter()
	r.Use(
		middleware.Recoverer(logg),
		middleware.RequestID(logg),
		middleware.Logging(logg),
		middleware.CORS(cfg.CORS),
	)

	// Typed nils would defeat the middleware pass-through checks.
	var (
		rateStore        redis.RateLimitStore
		idempotencyStore redis.IdempotencyStore
		ready            = map[string]controllers.Pinger{}
	)
	if p.Redis != nil {
		rateStore = p.Redis
		idempotencyStore = p.Redis
		ready["redis"] = p.Redis
	}

	quotePolicy := middleware.NewRateLimitPolicy(
		"quote",
		cfg.RateLimit.Window,
		cfg.RateLimit.IPLimit,
		cfg.RateLimit.EmailLimit,
	)

	r.Route("/health", func(r chi.Router) {
		r.Get("/live", controllers.HealthLive(cfg))
		r.Get("/ready", controllers.HealthReady(cfg, logg, ready))
	})

	r.Get("/api/health", controllers.APIHealth())
	r.With(
		middleware.RateLimit(quotePolicy, rateStore, p.Metrics, logg),
		middleware.Idempotency(idempotencyStore, cfg.Eventing.IdempotencyTTL, logg),
	).HandleFunc(config.SendOrderPath, controllers.SendOrder(p.Relay, p.Metrics, logg))

	if p.Gatherer != nil {
		r.Method(http.MethodGet, "/metrics", promhttp.HandlerFor(p.Gatherer, promhttp.HandlerOpts{}))
	}

	return r
}
