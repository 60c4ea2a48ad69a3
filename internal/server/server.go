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

	"github.com/healthquest/healthquest/internal/auth"
	"github.com/healthquest/healthquest/internal/boss"
	"github.com/healthquest/healthquest/internal/character"
	"github.com/healthquest/healthquest/internal/database"
	"github.com/healthquest/healthquest/internal/handler"
	"github.com/healthquest/healthquest/internal/identity"
	"github.com/healthquest/healthquest/internal/inventory"
	"github.com/healthquest/healthquest/internal/leaderboard"
	"github.com/healthquest/healthquest/internal/logger"
	"github.com/healthquest/healthquest/internal/metrics"
	"github.com/healthquest/healthquest/internal/quest"
)

// Services bundles everything the router needs. Keeps NewServer's signature
// from growing a positional parameter per feature.
type Services struct {
	Identity    identity.Service
	Character   character.Service
	Quest       quest.Service
	Boss        boss.Service
	Inventory   inventory.Service
	Leaderboard leaderboard.Service
}

type Server struct {
	httpServer *http.Server
	dbPool     database.Pool
}

// NewServer creates a new Server instance
func NewServer(port int, trustedProxies []string, dbPool database.Pool, svc Services) *Server {
	r := chi.NewRouter()

	// Middleware stack
	// Chi middleware executes in order defined (outermost to innermost)
	detector := NewSuspiciousActivityDetector()

	r.Use(SecurityHeadersMiddleware())
	r.Use(SecurityLoggingMiddleware(trustedProxies, detector))
	r.Use(RequestSizeLimitMiddleware(1 << 20)) // 1MB limit
	r.Use(metrics.Middleware)
	r.Use(loggingMiddleware)

	authenticated := auth.Middleware(svc.Identity)

	// Health check routes (unversioned)
	r.Get("/healthz", handler.HandleHealthz())
	r.Get("/readyz", handler.HandleReadyz(dbPool))

	// Version endpoint (public, for deployment verification)
	r.Get("/version", handler.HandleVersion())

	// Metrics endpoint (public, for Prometheus scraping)
	r.Handle("/metrics", promhttp.Handler())

	// API v1 routes
	r.Route("/api/v1", func(r chi.Router) {
		r.Post("/auth/token", handler.HandleIssueToken(svc.Identity))

		// User routes: reads are public, mutations require the caller to
		// hold a token for the wallet in the path.
		r.Route("/users/{wallet}", func(r chi.Router) {
			r.Get("/", handler.HandleGetUser(svc.Identity))
			r.With(authenticated, auth.RequireOwner).
				Put("/", handler.HandleUpdateProfile(svc.Identity))

			r.Get("/items", handler.HandleListItems(svc.Inventory))
			r.Group(func(r chi.Router) {
				r.Use(authenticated, auth.RequireOwner)
				r.Post("/items/{id}/equip", handler.HandleEquipItem(svc.Inventory))
				r.Post("/items/{id}/sell", handler.HandleSellItem(svc.Inventory))
			})
		})

		// Character routes
		r.Route("/characters/{wallet}", func(r chi.Router) {
			r.Get("/", handler.HandleGetCharacter(svc.Character))
			r.Group(func(r chi.Router) {
				r.Use(authenticated, auth.RequireOwner)
				r.Post("/", handler.HandleMintCharacter(svc.Character))
				r.Post("/allocate", handler.HandleAllocateStats(svc.Character))
			})
		})

		// Quest routes
		r.Route("/quests", func(r chi.Router) {
			r.Get("/", handler.HandleListQuests(svc.Quest))
			r.Get("/history", handler.HandleQuestHistory(svc.Quest))
			r.Group(func(r chi.Router) {
				r.Use(authenticated)
				r.Post("/personal", handler.HandleGeneratePersonalQuest(svc.Quest))
				r.Put("/{id}/start", handler.HandleStartQuest(svc.Quest))
				r.Put("/{id}/complete-active", handler.HandleCompleteActiveQuest(svc.Quest))
				r.Post("/{id}/complete", handler.HandleCompleteServerQuest(svc.Quest))
			})
		})

		// Boss routes
		r.Route("/boss", func(r chi.Router) {
			r.Get("/active", handler.HandleGetActiveBoss(svc.Boss))
			r.Get("/{id}/records", handler.HandleBossDamageRecords(svc.Boss))
			r.With(authenticated).
				Post("/{id}/attack", handler.HandleAttackBoss(svc.Boss))
		})

		// Marketplace routes
		r.Route("/marketplace", func(r chi.Router) {
			r.Get("/catalog", handler.HandleGetCatalog(svc.Inventory))
			r.With(authenticated).
				Post("/buy", handler.HandleBuyItem(svc.Inventory))
		})

		r.Get("/leaderboard", handler.HandleGetLeaderboard(svc.Leaderboard))
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

		// Log request start with details
		log.Info(LogMsgRequestStarted,
			"method", r.Method,
			"path", r.URL.Path,
			"remote_addr", r.RemoteAddr,
			"content_length", r.ContentLength,
			"user_agent", r.UserAgent())

		// Sanitize headers for logging
		sanitizedHeaders := make(http.Header)
		for k, v := range r.Header {
			if strings.EqualFold(k, HeaderAuthorization) {
				sanitizedHeaders[k] = []string{RedactedValue}
			} else {
				sanitizedHeaders[k] = v
			}
		}
		log.Debug(LogMsgRequestHeaders, "headers", sanitizedHeaders)

		// Wrap response writer to capture status code
		rw := newResponseWriter(w)

		// Process request
		next.ServeHTTP(rw, r)

		// Log request completion with metrics
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
	return s.httpServer.Shutdown(ctx)
}
