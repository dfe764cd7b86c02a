package api

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/isdelr/ender-auth-be/internal/api/handlers"
	"github.com/isdelr/ender-auth-be/internal/auth"
	"github.com/isdelr/ender-auth-be/internal/metrics"
	"github.com/isdelr/ender-auth-be/internal/services"
	"github.com/rs/zerolog/log"
)

// Dependencies are the collaborators the router wires into handlers.
// Metrics may be nil to disable instrumentation and the /metrics endpoint.
type Dependencies struct {
	Accounts *services.AccountService
	Tokens   *auth.TokenIssuer
	Metrics  *metrics.Metrics
}

// NewRouter creates and configures a new Chi router.
func NewRouter(deps Dependencies) *chi.Mux {
	r := chi.NewRouter()

	// Basic middleware stack
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(requestLogger)
	r.Use(middleware.Recoverer)
	if deps.Metrics != nil {
		r.Use(deps.Metrics.Middleware)
	}

	accountHandler := handlers.NewAccountHandler(deps.Accounts, deps.Tokens, deps.Metrics)
	healthHandler := handlers.NewHealthHandler(deps.Accounts)

	r.Get("/user", healthHandler.Hello)
	r.Get("/ready", healthHandler.Ready)
	r.Post("/register", accountHandler.Register)
	r.Post("/login", accountHandler.Login)

	r.Group(func(r chi.Router) {
		r.Use(deps.Tokens.Middleware())
		r.Get("/user/me", healthHandler.Me)
	})

	if deps.Metrics != nil {
		r.Method(http.MethodGet, "/metrics", deps.Metrics.Handler())
	}

	return r
}

// requestLogger writes one zerolog line per request.
func requestLogger(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)

		defer func() {
			log.Info().
				Str("request_id", middleware.GetReqID(r.Context())).
				Str("method", r.Method).
				Str("path", r.URL.Path).
				Int("status", ww.Status()).
				Int("bytes", ww.BytesWritten()).
				Dur("duration", time.Since(start)).
				Msg("Request handled")
		}()

		next.ServeHTTP(ww, r)
	})
}
