package router

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"courierflow/internal/http/handlers"
	appmw "courierflow/internal/http/middleware"
	"courierflow/internal/logx"
)

// Deps are the handlers and middleware the router mounts.
type Deps struct {
	Logger      logx.Logger
	Base        *handlers.Handlers
	Match       *handlers.MatchHandler
	Claim       *handlers.ClaimHandler
	Transitions *handlers.TransitionHandler
	Tracking    *handlers.TrackingHandler
	RateLimit   func(http.Handler) http.Handler
}

// New constructs a chi-based http.Handler with base middleware and routes.
func New(d Deps) http.Handler {
	r := chi.NewRouter()

	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(appmw.Observability(d.Logger))
	r.Use(middleware.Recoverer)
	r.Use(middleware.Timeout(10 * time.Second))
	if d.RateLimit != nil {
		r.Use(d.RateLimit)
	}

	r.Get("/ping", d.Base.Ping)
	r.Method(http.MethodHead, "/healthcheck", http.HandlerFunc(d.Base.HealthcheckHead))
	r.Handle("/metrics", promhttp.Handler())

	r.Post("/couriers/{courierID}/candidates", d.Match.FindCandidates)
	r.Post("/requests/{requestID}/claim", d.Claim.Claim)
	r.Post("/deliveries/{deliveryID}/transitions", d.Transitions.Transition)
	r.Post("/deliveries/{deliveryID}/tracking", d.Tracking.Append)
	r.Get("/deliveries/{deliveryID}/tracking", d.Tracking.History)

	r.NotFound(http.HandlerFunc(d.Base.NotFound))

	return r
}
