package server

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	httpSwagger "github.com/swaggo/http-swagger"

	"github.com/aethergame/vanitycore/internal/activation"
	"github.com/aethergame/vanitycore/internal/broadcast"
	"github.com/aethergame/vanitycore/internal/catalog"
	"github.com/aethergame/vanitycore/internal/database"
	"github.com/aethergame/vanitycore/internal/effect"
	"github.com/aethergame/vanitycore/internal/entitlement"
	"github.com/aethergame/vanitycore/internal/handler"
	"github.com/aethergame/vanitycore/internal/logger"
	"github.com/aethergame/vanitycore/internal/metrics"
	"github.com/aethergame/vanitycore/internal/session"
	"github.com/aethergame/vanitycore/internal/sse"
	"github.com/aethergame/vanitycore/internal/wardrobe"
)

type Server struct {
	httpServer *http.Server
	dbPool     database.Pool
	hub        *sse.Hub
}

// Services bundles the domain components the router exposes.
type Services struct {
	Catalog      *catalog.Catalog
	Wardrobe     *wardrobe.Service
	Activation   *activation.Gateway
	Broadcaster  *broadcast.Broadcaster
	Entitlements *entitlement.Store
	Sessions     *session.Manager
	Hub          *sse.Hub
	Effects      *effect.Dispatcher
}

// Paths the catalog reload endpoint re-reads.
type CatalogSources struct {
	CatalogPath   string
	OverridesPath string
}

// NewServer creates a new Server instance
func NewServer(port int, apiKey string, trustedProxies []string, dbPool database.Pool, svcs Services, sources CatalogSources) *Server {
	r := chi.NewRouter()

	// Middleware stack
	// Chi middleware executes in order defined (outermost to innermost)
	detector := NewSuspiciousActivityDetector()

	r.Use(SecurityHeadersMiddleware())
	r.Use(AuthMiddleware(apiKey, trustedProxies, detector))
	r.Use(SecurityLoggingMiddleware(trustedProxies, detector))
	r.Use(RequestSizeLimitMiddleware(1 << 20)) // 1MB limit
	r.Use(metrics.MetricsMiddleware)
	r.Use(loggingMiddleware)

	// Health check routes (unversioned)
	r.Get("/healthz", handler.HandleHealthz())
	r.Get("/readyz", handler.HandleReadyz(dbPool))

	// Version endpoint (public, for deployment verification)
	r.Get("/version", handler.HandleVersion())

	// Metrics endpoint (public, for Prometheus scraping)
	r.Handle("/metrics", promhttp.Handler())

	// API v1 routes
	r.Route("/api/v1", func(r chi.Router) {
		// Event stream; every snapshot, denial and replay event for an
		// account arrives here.
		r.Get("/events", sse.Handler(svcs.Hub))

		r.Route("/loadout", func(r chi.Router) {
			r.Get("/", handler.HandleGetLoadout(svcs.Wardrobe))
			r.Post("/equip", handler.HandleEquip(svcs.Wardrobe))
		})

		r.Post("/activate", handler.HandleActivate(svcs.Activation))

		r.Route("/observe", func(r chi.Router) {
			r.Post("/start", handler.HandleObserveStart(svcs.Broadcaster))
			r.Post("/stop", handler.HandleObserveStop(svcs.Broadcaster))
		})

		r.Route("/session", func(r chi.Router) {
			r.Post("/join", handler.HandleSessionJoin(svcs.Sessions))
			r.Post("/leave", handler.HandleSessionLeave(svcs.Sessions))
			r.Post("/position", handler.HandleSessionPosition(svcs.Sessions))
		})

		r.Get("/effects/preview", handler.HandleEffectPreview(svcs.Effects))

		r.Route("/catalog", func(r chi.Router) {
			r.Get("/", handler.HandleGetCatalog(svcs.Catalog))
			r.Get("/categories", handler.HandleGetCategories(svcs.Catalog))
			r.Get("/packs", handler.HandleGetPacks(svcs.Catalog))
		})

		// Admin routes
		r.Route("/admin", func(r chi.Router) {
			r.Post("/grant-pack", handler.HandleGrantPack(svcs.Entitlements, svcs.Broadcaster))
			r.Post("/revoke-pack", handler.HandleRevokePack(svcs.Entitlements, svcs.Broadcaster))
			r.Post("/grant-item", handler.HandleGrantItem(svcs.Entitlements, svcs.Broadcaster))
			r.Post("/revoke-item", handler.HandleRevokeItem(svcs.Entitlements, svcs.Broadcaster))
			r.Post("/catalog/reload", handler.HandleReloadCatalog(svcs.Catalog, sources.CatalogPath, sources.OverridesPath))
		})
	})

	// Swagger documentation
	r.Get("/swagger/*", httpSwagger.WrapHandler)

	return &Server{
		httpServer: &http.Server{
			Addr:              fmt.Sprintf(":%d", port),
			Handler:           r,
			ReadHeaderTimeout: 5 * time.Second,
		},
		dbPool: dbPool,
		hub:    svcs.Hub,
	}
}

// responseWriter wraps http.ResponseWriter to capture the status code
type responseWriter struct {
	http.ResponseWriter
	statusCode int
	written    bool
}

func newResponseWriter(w http.ResponseWriter) *responseWriter {
	return &responseWriter{
		ResponseWriter: w,
		statusCode:     http.StatusOK, // default status
	}
}

func (rw *responseWriter) WriteHeader(statusCode int) {
	if !rw.written {
		rw.statusCode = statusCode
		rw.written = true
		rw.ResponseWriter.WriteHeader(statusCode)
	}
}

func (rw *responseWriter) Write(b []byte) (int, error) {
	if !rw.written {
		rw.WriteHeader(http.StatusOK)
	}
	return rw.ResponseWriter.Write(b)
}

// Flush forwards to the wrapped writer so the event stream can push
// incrementally through the middleware chain.
func (rw *responseWriter) Flush() {
	if f, ok := rw.ResponseWriter.(http.Flusher); ok {
		f.Flush()
	}
}

func loggingMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()

		// Skip logging for health check endpoints and metrics
		// Use HasPrefix to catch potential variations (e.g. /healthz/)
		if strings.HasPrefix(r.URL.Path, "/healthz") ||
			strings.HasPrefix(r.URL.Path, "/readyz") ||
			strings.HasPrefix(r.URL.Path, "/metrics") {
			next.ServeHTTP(w, r)
			return
		}

		// Generate unique request ID
		requestID := logger.GenerateRequestID()

		// Add request ID to context
		ctx := logger.WithRequestID(r.Context(), requestID)
		r = r.WithContext(ctx)

		// Get scoped logger
		log := logger.FromContext(ctx)

		log.Info(LogMsgRequestStarted,
			"method", r.Method,
			"path", r.URL.Path,
			"remote_addr", r.RemoteAddr,
			"content_length", r.ContentLength,
			"user_agent", r.UserAgent())

		// Sanitize headers for logging
		sanitizedHeaders := make(http.Header)
		for k, v := range r.Header {
			if strings.EqualFold(k, HeaderAPIKey) || strings.EqualFold(k, HeaderAuthorization) {
				sanitizedHeaders[k] = []string{RedactedValue}
			} else {
				sanitizedHeaders[k] = v
			}
		}
		log.Debug(LogMsgRequestHeaders, "headers", sanitizedHeaders)

		// Wrap response writer to capture status code
		rw := newResponseWriter(w)

		next.ServeHTTP(rw, r)

		duration := time.Since(start)
		log.Info(LogMsgRequestCompleted,
			"method", r.Method,
			"path", r.URL.Path,
			"status", rw.statusCode,
			"duration_ms", duration.Milliseconds(),
			"duration", duration)
	})
}

// Start starts the server
func (s *Server) Start() error {
	slog.Default().Info(LogMsgServerStarting, "addr", s.httpServer.Addr)
	return s.httpServer.ListenAndServe()
}

// Stop stops the server gracefully
func (s *Server) Stop(ctx context.Context) error {
	s.hub.Stop()
	return s.httpServer.Shutdown(ctx)
}
