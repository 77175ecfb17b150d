package server

import (
	"database/sql"
	"log/slog"
	"net/http"
	"net/url"
	"time"

	"github.com/dukerupert/grocerybuddy/internal/handler"
	"github.com/dukerupert/grocerybuddy/internal/middleware"
	"github.com/dukerupert/grocerybuddy/internal/service"
	"github.com/dukerupert/grocerybuddy/internal/session"
	"github.com/dukerupert/grocerybuddy/internal/store"
	ws "github.com/dukerupert/grocerybuddy/internal/websocket"
)

const (
	authRateLimit  = 10
	authRateWindow = time.Minute
)

type Options struct {
	Production     bool
	BcryptCost     int
	AllowedOrigins []string
	// TrustProxyHeaders keys the auth rate limit on CF-Connecting-IP or
	// X-Forwarded-For. Only safe behind a proxy that sets them.
	TrustProxyHeaders bool
}

type Server struct {
	hub         *ws.Hub
	sessions    *session.Manager
	authH       *handler.AuthHandler
	groceryH    *handler.GroceryHandler
	dashboardH  *handler.DashboardHandler
	healthH     *handler.HealthHandler
	rateLimiter *middleware.RateLimiter
	opts        Options
	logger      *slog.Logger
}

// New wires stores, services and handlers. sessions decides where session
// records live; the item and user stores always use db.
func New(db *sql.DB, sessions *session.Manager, opts Options, logger *slog.Logger) *Server {
	hub := ws.NewHub(logger.With("component", "websocket"))

	userStore := store.NewUserStore(db)
	groceryStore := store.NewGroceryStore(db)

	authSvc := service.NewAuthService(userStore, opts.BcryptCost)
	grocerySvc := service.NewGroceryService(groceryStore, hub)

	pages := handler.NewPages(logger.With("component", "template"))

	return &Server{
		hub:         hub,
		sessions:    sessions,
		authH:       handler.NewAuthHandler(authSvc, sessions, pages, opts.Production, logger.With("component", "auth")),
		groceryH:    handler.NewGroceryHandler(grocerySvc, opts.Production, logger.With("component", "grocery")),
		dashboardH:  handler.NewDashboardHandler(grocerySvc, pages, logger.With("component", "dashboard")),
		healthH:     handler.NewHealthHandler(db, logger.With("component", "health")),
		rateLimiter: middleware.NewRateLimiter(),
		opts:        opts,
		logger:      logger,
	}
}

// RateLimiter returns the rate limiter for cleanup tasks.
func (s *Server) RateLimiter() *middleware.RateLimiter {
	return s.rateLimiter
}

func (s *Server) Hub() *ws.Hub {
	return s.hub
}

func (s *Server) Router() http.Handler {
	outerMux := http.NewServeMux()

	// Public routes. OptionalAuth lets the auth pages and / see an existing
	// session without requiring one.
	optional := middleware.OptionalAuth(s.sessions)
	outerMux.Handle("GET /login", optional(http.HandlerFunc(s.authH.LoginPage)))
	outerMux.HandleFunc("POST /login", s.rateLimitedHandler(s.authH.Login))
	outerMux.Handle("GET /register", optional(http.HandlerFunc(s.authH.RegisterPage)))
	outerMux.HandleFunc("POST /register", s.rateLimitedHandler(s.authH.Register))
	outerMux.HandleFunc("GET /logout", s.authH.Logout)
	outerMux.HandleFunc("GET /api/health", s.healthH.Health)
	outerMux.Handle("GET /{$}", optional(http.HandlerFunc(handler.Root)))

	protectedMux := http.NewServeMux()
	s.registerProtectedRoutes(protectedMux)
	protected := middleware.RequireAuth(s.sessions)(protectedMux)

	// Unknown paths are a plain 404 for everyone rather than a login bounce.
	outerMux.HandleFunc("/", func(w http.ResponseWriter, r *http.Request) {
		if _, pattern := protectedMux.Handler(r); pattern == "" {
			notFound(w, r)
			return
		}
		protected.ServeHTTP(w, r)
	})

	var h http.Handler = outerMux
	h = middleware.CORS(s.opts.AllowedOrigins)(h)
	h = middleware.RequestLogger(s.logger.With("component", "http"))(h)
	h = middleware.RequestID(h)
	return h
}

func (s *Server) rateLimitedHandler(h http.HandlerFunc) http.HandlerFunc {
	rl := middleware.RateLimit(s.rateLimiter, middleware.ClientIP(s.opts.TrustProxyHeaders), authRateLimit, authRateWindow)
	wrapped := rl(h)
	return wrapped.ServeHTTP
}

func (s *Server) registerProtectedRoutes(mux *http.ServeMux) {
	mux.HandleFunc("GET /dashboard", s.dashboardH.Dashboard)
	mux.HandleFunc("GET /ws", ws.HandleWebSocket(s.hub, originHosts(s.opts.AllowedOrigins)))

	mux.HandleFunc("GET /api/groceries", s.groceryH.ListItems)
	mux.HandleFunc("POST /api/groceries", s.groceryH.CreateItem)
	mux.HandleFunc("GET /api/groceries/suggest", s.groceryH.Suggest)
	mux.HandleFunc("PUT /api/groceries/{id}", s.groceryH.UpdateItem)
	mux.HandleFunc("PATCH /api/groceries/{id}/toggle", s.groceryH.ToggleItem)
	mux.HandleFunc("DELETE /api/groceries/{id}", s.groceryH.DeleteItem)
	mux.HandleFunc("DELETE /api/groceries/bulk/completed", s.groceryH.ClearCompleted)
	mux.HandleFunc("DELETE /api/groceries/bulk/all", s.groceryH.ClearAll)
}

// originHosts turns configured origins into the host patterns the websocket
// upgrader matches against.
func originHosts(origins []string) []string {
	hosts := make([]string, 0, len(origins))
	for _, o := range origins {
		if u, err := url.Parse(o); err == nil && u.Host != "" {
			hosts = append(hosts, u.Host)
		}
	}
	return hosts
}

func notFound(w http.ResponseWriter, r *http.Request) {
	if middleware.WantsJSON(r) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusNotFound)
		w.Write([]byte(`{"error":"Not found"}` + "\n"))
		return
	}
	http.Error(w, "Page not found", http.StatusNotFound)
}
