package api

import (
	"net/http"
	"sort"
	"strings"

	"github.com/eventdeck/server/internal/api/handlers"
	"github.com/eventdeck/server/internal/api/middleware"
	"github.com/eventdeck/server/internal/auth"
	"github.com/eventdeck/server/internal/config"
	"github.com/eventdeck/server/internal/domain/events"
	"github.com/eventdeck/server/internal/domain/users"
	"github.com/eventdeck/server/internal/metrics"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/zerolog"
)

// Deps carries the wired services the router mounts. The serve command
// builds them from config; tests substitute fakes behind the same types.
type Deps struct {
	Users   *users.Service
	Events  *events.Service
	Tokens  *auth.TokenManager
	DB      handlers.Pinger
	Version string
}

// NewRouter mounts every route behind the middleware chain: correlation id,
// request logging, and per-route auth guards.
func NewRouter(cfg config.Config, logger zerolog.Logger, deps Deps) http.Handler {
	authHandler := handlers.NewAuthHandler(deps.Users)
	usersHandler := handlers.NewUsersHandler(deps.Users)
	eventsHandler := handlers.NewEventsHandler(deps.Events)
	healthHandler := handlers.NewHealthHandler(deps.DB, deps.Version)

	userGuard := middleware.RequireRole(deps.Tokens, auth.RoleUser)
	adminGuard := middleware.RequireRole(deps.Tokens, auth.RoleAdmin)
	loginLimit := middleware.LoginRateLimit(cfg.RateLimit.LoginPerMinute)

	mux := http.NewServeMux()

	mux.Handle("/healthz", http.HandlerFunc(healthHandler.Healthz))
	mux.Handle("/readyz", http.HandlerFunc(healthHandler.Readyz))
	mux.Handle("/metrics", promhttp.HandlerFor(metrics.Registry, promhttp.HandlerOpts{}))

	mux.Handle("/api/register", methodMux(map[string]http.Handler{
		http.MethodPost: loginLimit(http.HandlerFunc(authHandler.Register)),
	}))
	mux.Handle("/api/login", methodMux(map[string]http.Handler{
		http.MethodPost: loginLimit(http.HandlerFunc(authHandler.Login)),
	}))

	mux.Handle("/api/user", methodMux(map[string]http.Handler{
		http.MethodGet: userGuard(http.HandlerFunc(usersHandler.Me)),
	}))
	mux.Handle("/api/admin", methodMux(map[string]http.Handler{
		http.MethodGet:  adminGuard(http.HandlerFunc(usersHandler.MeAdmin)),
		http.MethodPost: adminGuard(http.HandlerFunc(usersHandler.CreateAdmin)),
	}))
	mux.Handle("/api/users", methodMux(map[string]http.Handler{
		http.MethodGet: adminGuard(http.HandlerFunc(usersHandler.List)),
	}))

	mux.Handle("/api/events", methodMux(map[string]http.Handler{
		http.MethodPost: userGuard(http.HandlerFunc(eventsHandler.Create)),
	}))
	mux.Handle("/api/events/{id}", methodMux(map[string]http.Handler{
		http.MethodPut:    userGuard(http.HandlerFunc(eventsHandler.Update)),
		http.MethodDelete: adminGuard(http.HandlerFunc(eventsHandler.AdminDelete)),
	}))
	mux.Handle("/api/events/{id}/approve", methodMux(map[string]http.Handler{
		http.MethodPut: adminGuard(http.HandlerFunc(eventsHandler.Approve)),
	}))

	mux.Handle("/api/user/events", methodMux(map[string]http.Handler{
		http.MethodGet: userGuard(http.HandlerFunc(eventsHandler.ListForUser)),
	}))
	mux.Handle("/api/user/event/{id}", methodMux(map[string]http.Handler{
		http.MethodGet: userGuard(http.HandlerFunc(eventsHandler.Get)),
	}))
	mux.Handle("/api/user/events/{id}", methodMux(map[string]http.Handler{
		http.MethodDelete: userGuard(http.HandlerFunc(eventsHandler.UserDelete)),
	}))
	mux.Handle("/api/admin/events", methodMux(map[string]http.Handler{
		http.MethodGet: adminGuard(http.HandlerFunc(eventsHandler.ListForAdmin)),
	}))

	chain := middleware.CorrelationID(logger)(middleware.RequestLogging(logger)(mux))
	return chain
}

func methodMux(handlers map[string]http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if handler, ok := handlers[r.Method]; ok {
			handler.ServeHTTP(w, r)
			return
		}
		w.Header().Set("Allow", allowedMethods(handlers))
		w.WriteHeader(http.StatusMethodNotAllowed)
	})
}

func allowedMethods(handlers map[string]http.Handler) string {
	methods := make([]string, 0, len(handlers))
	for method := range handlers {
		methods = append(methods, method)
	}
	sort.Strings(methods)
	return strings.Join(methods, ", ")
}
