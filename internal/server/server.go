// internal/server/server.go

package server

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/zerolog"

	"localfeed/internal/config"
	domain "localfeed/internal/domain/recommend"
	"localfeed/internal/server/handlers"
)

// Dependencies are the collaborators the HTTP server routes to.
// Ingest writers and the subscriber are optional; their routes are omitted when nil.
type Dependencies struct {
	Service     domain.Service
	PlaceWriter handlers.PlaceWriter
	VideoWriter handlers.VideoWriter
	Subscriber  handlers.Subscriber
	EventsTopic string
	Logger      zerolog.Logger
}

// Server represents the HTTP server
type Server struct {
	server *http.Server
	router *chi.Mux
}

// NewServer creates a new HTTP server
func NewServer(cfg config.ServerConfig, deps Dependencies) *Server {
	router := NewRouter(cfg, deps)

	// Create HTTP server
	httpServer := &http.Server{
		Addr:         fmt.Sprintf("%s:%d", cfg.Host, cfg.Port),
		Handler:      router,
		ReadTimeout:  cfg.ReadTimeout,
		WriteTimeout: cfg.WriteTimeout,
	}

	return &Server{
		server: httpServer,
		router: router,
	}
}

// NewRouter builds the chi router with middleware and all routes
func NewRouter(cfg config.ServerConfig, deps Dependencies) *chi.Mux {
	router := chi.NewRouter()

	// Middleware
	router.Use(middleware.RequestID)
	router.Use(middleware.RealIP)
	router.Use(requestLogger(deps.Logger))
	router.Use(middleware.Recoverer)

	// CORS configuration
	router.Use(cors.Handler(cors.Options{
		AllowedOrigins:   cfg.CorsOrigins,
		AllowedMethods:   []string{"GET", "POST", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type", "X-Request-ID"},
		ExposedHeaders:   []string{"Link"},
		AllowCredentials: true,
		MaxAge:           300,
	}))

	// Create handler dependencies
	recommendHandler := handlers.NewRecommendationHandler(deps.Service, deps.Logger)

	// Routes
	router.Route("/api", func(r chi.Router) {
		r.Use(middleware.Timeout(60 * time.Second))

		// Health check
		r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
			w.Write([]byte("OK"))
		})

		// API version
		r.Route("/v1", func(r chi.Router) {
			// Recommendations API
			r.Route("/recommendations", func(r chi.Router) {
				r.Get("/", recommendHandler.GetCityRecommendations)
				r.Post("/", recommendHandler.CreateRecommendations)
			})

			// Video matching API
			r.Post("/videos/match", recommendHandler.MatchVideos)

			// Ingest API
			if deps.PlaceWriter != nil && deps.VideoWriter != nil {
				ingestHandler := handlers.NewIngestHandler(deps.PlaceWriter, deps.VideoWriter, deps.Logger)
				r.Post("/places", ingestHandler.SavePlaces)
				r.Post("/videos", ingestHandler.SaveVideos)
			}
		})
	})

	router.Handle("/metrics", promhttp.Handler())

	// WebSocket endpoint for the live recommendation feed
	if deps.Subscriber != nil {
		router.Get("/ws/recommendations/{city}", handlers.FeedWebSocketHandler(
			deps.Subscriber,
			deps.EventsTopic,
			handlers.DefaultWebSocketConfig(),
			deps.Logger,
		))
	}

	return router
}

// requestLogger logs each request through zerolog
func requestLogger(logger zerolog.Logger) func(http.Handler) http.Handler {
	logger = logger.With().Str("component", "http").Logger()

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
			start := time.Now()

			defer func() {
				logger.Info().
					Str("method", r.Method).
					Str("path", r.URL.Path).
					Int("status", ww.Status()).
					Int("bytes", ww.BytesWritten()).
					Dur("duration", time.Since(start)).
					Str("request_id", middleware.GetReqID(r.Context())).
					Msg("request")
			}()

			next.ServeHTTP(ww, r)
		})
	}
}

// ListenAndServe starts the HTTP server
func (s *Server) ListenAndServe() error {
	return s.server.ListenAndServe()
}

// Shutdown gracefully shuts down the HTTP server
func (s *Server) Shutdown(ctx context.Context) error {
	return s.server.Shutdown(ctx)
}
