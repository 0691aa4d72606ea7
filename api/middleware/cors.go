package middleware

import (
	"net/http"

	"github.com/go-chi/cors"

	"github.com/cambroos/rentals-backend/pkg/config"
)

var corsAllowedHeaders = []string{
	"X-CSRF-Token",
	"X-Requested-With",
	"Accept",
	"Accept-Version",
	"Content-Length",
	"Content-MD5",
	"Content-Type",
	"Date",
	"X-Api-Version",
	"Idempotency-Key",
	requestIDHeader,
}

// CORS applies the quote form's cross-origin policy.
func CORS(cfg config.CORSConfig) func(http.Handler) http.Handler {
	origins := cfg.AllowedOrigins
	if len(origins) == 0 {
		origins = []string{"*"}
	}
	return cors.New(cors.Options{
		AllowedOrigins:   origins,
		AllowedMethods:   []string{"GET", "OPTIONS", "PATCH", "DELETE", "POST", "PUT"},
		AllowedHeaders:   corsAllowedHeaders,
		ExposedHeaders:   []string{requestIDHeader},
		AllowCredentials: true,
		MaxAge:           300,
	}).Handler
}
