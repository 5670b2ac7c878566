// cmd/api/main.go

package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/jackc/pgx/v4/pgxpool"
	"github.com/nats-io/nats.go"

	"localfeed/internal/adapter/events"
	"localfeed/internal/adapter/storage"
	"localfeed/internal/config"
	"localfeed/internal/logging"
	"localfeed/internal/server"
	"localfeed/internal/service/recommend"
)

func main() {
	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		logging.Fatal().Err(err).Msg("Failed to load configuration")
	}

	logging.Init(logging.Config{
		Level:  cfg.Logging.Level,
		Format: cfg.Logging.Format,
	})
	logger := logging.WithComponent("api")

	// Setup context with cancellation for graceful shutdown
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Setup signal handling for graceful shutdown
	shutdown := make(chan os.Signal, 1)
	signal.Notify(shutdown, os.Interrupt, syscall.SIGTERM)

	// Initialize dependencies
	db, err := initDatabase(ctx, cfg.Database)
	if err != nil {
		logger.Fatal().Err(err).Msg("Failed to initialize database")
	}
	defer db.Close()

	natsConn, err := initNATS(cfg.NATS)
	if err != nil {
		logger.Fatal().Err(err).Msg("Failed to connect to NATS")
	}
	defer natsConn.Close()

	// Initialize storage adapters
	placeStore := storage.NewPlaceStore(db)
	videoStore := storage.NewVideoStore(db)

	// Initialize services
	publisher := events.NewPublisher(natsConn, cfg.Recommend.EventsTopic)

	recommendService, err := recommend.NewRecommendationService(
		recommendConfig(cfg.Recommend),
		recommend.DefaultTables(),
		placeStore,
		videoStore,
		publisher,
		logging.Logger(),
	)
	if err != nil {
		logger.Fatal().Err(err).Msg("Failed to initialize recommendation service")
	}

	// Initialize HTTP server
	httpServer := server.NewServer(cfg.Server, server.Dependencies{
		Service:     recommendService,
		PlaceWriter: placeStore,
		VideoWriter: videoStore,
		Subscriber:  natsConn,
		EventsTopic: cfg.Recommend.EventsTopic,
		Logger:      logging.Logger(),
	})

	// Start HTTP server
	go func() {
		logger.Info().Str("host", cfg.Server.Host).Int("port", cfg.Server.Port).Msg("Starting HTTP server")
		if err := httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Fatal().Err(err).Msg("HTTP server error")
		}
	}()

	// Wait for shutdown signal
	<-shutdown
	logger.Info().Msg("Shutdown signal received")

	// Create shutdown context with timeout
	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
	defer shutdownCancel()

	// Shutdown HTTP server
	if err := httpServer.Shutdown(shutdownCtx); err != nil {
		logger.Error().Err(err).Msg("HTTP server shutdown error")
	}

	// Flush pending events before the deferred close
	if err := natsConn.FlushWithContext(shutdownCtx); err != nil {
		logger.Error().Err(err).Msg("NATS flush error")
	}

	logger.Info().Msg("Shutdown complete")
}

// recommendConfig maps environment configuration onto the recommendation core config
func recommendConfig(cfg config.RecommendConfig) recommend.Config {
	return recommend.Config{
		ProximityThresholdKm: cfg.ProximityThresholdKm,
		TimeWindow:           cfg.TimeWindow,
		RelevanceThreshold:   cfg.RelevanceThreshold,
		MaxKeywords:          cfg.MaxKeywords,
		MinKeywordLength:     cfg.MinKeywordLength,
		MaxItineraries:       cfg.MaxItineraries,
		MaxVideosPerEvent:    cfg.MaxVideosPerEvent,
		Weights: recommend.Weights{
			Category:     cfg.CategoryWeight,
			TagOverlap:   cfg.TagOverlapWeight,
			City:         cfg.CityWeight,
			Keyword:      cfg.KeywordWeight,
			ActivityType: cfg.ActivityTypeWeight,
			TimeOfDay:    cfg.TimeOfDayWeight,
		},
	}
}

// Initialize database connection
func initDatabase(ctx context.Context, cfg config.DatabaseConfig) (*pgxpool.Pool, error) {
	connString := fmt.Sprintf(
		"postgres://%s:%s@%s:%d/%s?sslmode=%s",
		cfg.User, cfg.Password, cfg.Host, cfg.Port, cfg.Database, cfg.SSLMode,
	)

	poolConfig, err := pgxpool.ParseConfig(connString)
	if err != nil {
		return nil, fmt.Errorf("unable to parse connection string: %w", err)
	}

	poolConfig.MaxConns = int32(cfg.MaxOpenConns)
	poolConfig.MinConns = int32(cfg.MaxIdleConns)
	poolConfig.MaxConnLifetime = cfg.MaxLifetime

	db, err := pgxpool.ConnectConfig(ctx, poolConfig)
	if err != nil {
		return nil, fmt.Errorf("unable to connect to database: %w", err)
	}

	// Test connection
	if err := db.Ping(ctx); err != nil {
		return nil, fmt.Errorf("unable to ping database: %w", err)
	}

	return db, nil
}

// Initialize NATS connection
func initNATS(cfg config.NATSConfig) (*nats.Conn, error) {
	logger := logging.WithComponent("nats")

	options := []nats.Option{
		nats.Name("localfeed-api"),
		nats.MaxReconnects(cfg.MaxReconnects),
		nats.ReconnectWait(cfg.ReconnectWait),
		nats.Timeout(cfg.ConnectTimeout),
		nats.DisconnectErrHandler(func(nc *nats.Conn, err error) {
			logger.Warn().Err(err).Msg("NATS disconnected")
		}),
		nats.ReconnectHandler(func(nc *nats.Conn) {
			logger.Info().Str("url", nc.ConnectedUrl()).Msg("NATS reconnected")
		}),
		nats.ClosedHandler(func(nc *nats.Conn) {
			logger.Info().Msg("NATS connection closed")
		}),
	}

	nc, err := nats.Connect(cfg.URL, options...)
	if err != nil {
		return nil, fmt.Errorf("unable to connect to NATS: %w", err)
	}

	return nc, nil
}
