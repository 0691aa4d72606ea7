package controllers

import (
	"context"
	"net/http"
	"time"

	"github.com/cambroos/rentals-backend/api/responses"
	"github.com/cambroos/rentals-backend/pkg/config"
	"github.com/cambroos/rentals-backend/pkg/logger"
	"github.com/cambroos/rentals-backend/pkg/types"
)

const (
	envHeader         = "X-Cambroos-Env"
	readyCheckTimeout = 2 * time.Second
)

// Pinger is a dependency readiness probe.
type Pinger interface {
	Ping(context.Context) error
}

// APIHealth answers the quote form's service check.
func APIHealth() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		responses.WriteJSON(w, http.StatusOK, types.HealthResponse{Status: "ok", Message: "Email service is running"})
	}
}

func HealthLive(cfg *config.Config) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set(envHeader, cfg.App.Env)
		responses.WriteJSON(w, http.StatusOK, types.HealthResponse{Status: "live"})
	}
}

// HealthReady pings each configured dependency; a nil map entry is skipped.
func HealthReady(cfg *config.Config, logg *logger.Logger, deps map[string]Pinger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set(envHeader, cfg.App.Env)

		ctx, cancel := context.WithTimeout(r.Context(), readyCheckTimeout)
		defer cancel()

		for name, dep := range deps {
			if dep == nil {
				continue
			}
			if err := dep.Ping(ctx); err != nil {
				if logg != nil {
					logg.Error(logg.WithField(r.Context(), "dependency", name), "health.ready.failed", err)
				}
				responses.WriteJSON(w, http.StatusServiceUnavailable, types.HealthResponse{
					Status:  "unavailable",
					Message: name + " unreachable",
				})
				return
			}
		}
		responses.WriteJSON(w, http.StatusOK, types.HealthResponse{Status: "ready"})
	}
}
