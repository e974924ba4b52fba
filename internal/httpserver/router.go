package httpserver

import (
	"net/http"

	"mintme-bridge/internal/auth"
	"mintme-bridge/internal/health"
	"mintme-bridge/internal/httputil"
	"mintme-bridge/internal/marketdata"
	"mintme-bridge/internal/orders"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
)

type RouterDeps struct {
	AuthHandler   *auth.Handler
	AuthService   *auth.Service
	HealthHandler *health.Handler
	MarketHandler *marketdata.Handler
	OrderHandler  *orders.Handler
	WSHandler     http.Handler
	RateLimiter   *RateLimiter
	Origin        string
}

func NewRouter(d RouterDeps) http.Handler {
	r := chi.NewRouter()

	r.Use(func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			origin := d.Origin
			if origin == "" {
				origin = "*"
			}
			w.Header().Set("Access-Control-Allow-Origin", origin)
			w.Header().Set("Access-Control-Allow-Methods", "GET, POST, OPTIONS")
			w.Header().Set("Access-Control-Allow-Headers", "Content-Type, Authorization, X-Internal-Token, X-Request-ID")
			if r.Method == http.MethodOptions {
				w.WriteHeader(http.StatusOK)
				return
			}
			next.ServeHTTP(w, r)
		})
	})
	r.Use(RequestID)
	r.Use(middleware.Recoverer)
	r.Use(SecurityHeaders)
	if d.RateLimiter != nil {
		r.Use(d.RateLimiter.Middleware)
	}

	r.Get("/health", d.HealthHandler.Live)
	r.Get("/health/ready", d.HealthHandler.Ready)
	r.Get("/health/full", d.HealthHandler.Full)
	r.Get("/health/metrics", d.HealthHandler.Metrics)

	r.Route("/v1", func(r chi.Router) {
		r.Get("/markets", d.MarketHandler.Markets)
		r.Get("/markets/{id}", d.MarketHandler.Market)
		r.Get("/assets", d.MarketHandler.Assets)
		r.Post("/auth/token", d.AuthHandler.Token)
		r.Get("/ws", d.WSHandler.ServeHTTP)

		r.Group(func(r chi.Router) {
			r.Use(WithAuth(d.AuthService))
			r.Post("/orders", func(w http.ResponseWriter, r *http.Request) {
				subject, ok := Subject(r)
				if !ok {
					httputil.WriteJSON(w, http.StatusUnauthorized, httputil.ErrorResponse{Error: "unauthorized"})
					return
				}
				d.OrderHandler.Place(w, r, subject)
			})
			r.Get("/orders/active", d.OrderHandler.Active)
			r.Get("/orders/finished", d.OrderHandler.Finished)
			r.Get("/journal", d.OrderHandler.Journal)
		})
	})
	return r
}
