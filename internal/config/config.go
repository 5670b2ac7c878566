// internal/config/config.go

package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"

	"localfeed/internal/logging"
)

// Config holds all application configuration
type Config struct {
	Environment string
	Server      ServerConfig
	Database    DatabaseConfig
	NATS        NATSConfig
	Logging     LoggingConfig
	Recommend   RecommendConfig
}

// ServerConfig holds server configuration
type ServerConfig struct {
	Host            string
	Port            int
	ReadTimeout     time.Duration
	WriteTimeout    time.Duration
	ShutdownTimeout time.Duration
	CorsOrigins     []string
}

// DatabaseConfig holds database configuration
type DatabaseConfig struct {
	Host         string
	Port         int
	User         string
	Password     string
	Database     string
	MaxOpenConns int
	MaxIdleConns int
	MaxLifetime  time.Duration
	SSLMode      string
}

// NATSConfig holds NATS configuration
type NATSConfig struct {
	URL            string
	MaxReconnects  int
	ReconnectWait  time.Duration
	ConnectTimeout time.Duration
}

// LoggingConfig holds logger configuration
type LoggingConfig struct {
	Level  string
	Format string
}

// RecommendConfig holds clustering and video matching configuration
type RecommendConfig struct {
	ProximityThresholdKm float64
	TimeWindow           time.Duration
	RelevanceThreshold   float64
	MaxKeywords          int
	MinKeywordLength     int
	MaxItineraries       int
	MaxVideosPerEvent    int
	EventsTopic          string

	CategoryWeight     float64
	TagOverlapWeight   float64
	CityWeight         float64
	KeywordWeight      float64
	ActivityTypeWeight float64
	TimeOfDayWeight    float64
}

// loadDotenv loads the given env files, defaulting to .env. A missing file is not an error.
func loadDotenv(filenames ...string) error {
	err := godotenv.Load(filenames...)
	if err == nil || errors.Is(err, fs.ErrNotExist) {
		return nil
	}
	return err
}

// Load loads configuration from a .env file, if present, and environment variables
func Load() (Config, error) {
	if err := loadDotenv(); err != nil {
		logging.Warn().Err(err).Msg("Error loading .env file, using environment only")
	}

	config := Config{
		Environment: getEnv("APP_ENV", "development"),
		Server: ServerConfig{
			Host:            getEnv("SERVER_HOST", "0.0.0.0"),
			Port:            getEnvAsInt("SERVER_PORT", 8080),
			ReadTimeout:     getEnvAsDuration("SERVER_READ_TIMEOUT", 10*time.Second),
			WriteTimeout:    getEnvAsDuration("SERVER_WRITE_TIMEOUT", 30*time.Second),
			ShutdownTimeout: getEnvAsDuration("SERVER_SHUTDOWN_TIMEOUT", 10*time.Second),
			CorsOrigins:     getEnvAsSlice("SERVER_CORS_ORIGINS", []string{"*"}),
		},
		Database: DatabaseConfig{
			Host:         getEnv("DB_HOST", "localhost"),
			Port:         getEnvAsInt("DB_PORT", 5432),
			User:         getEnv("DB_USER", "postgres"),
			Password:     getEnv("DB_PASSWORD", "postgres"),
			Database:     getEnv("DB_NAME", "localfeed"),
			MaxOpenConns: getEnvAsInt("DB_MAX_OPEN_CONNS", 25),
			MaxIdleConns: getEnvAsInt("DB_MAX_IDLE_CONNS", 5),
			MaxLifetime:  getEnvAsDuration("DB_MAX_LIFETIME", 5*time.Minute),
			SSLMode:      getEnv("DB_SSL_MODE", "disable"),
		},
		NATS: NATSConfig{
			URL:            getEnv("NATS_URL", "nats://localhost:4222"),
			MaxReconnects:  getEnvAsInt("NATS_MAX_RECONNECTS", 10),
			ReconnectWait:  getEnvAsDuration("NATS_RECONNECT_WAIT", 1*time.Second),
			ConnectTimeout: getEnvAsDuration("NATS_CONNECT_TIMEOUT", 2*time.Second),
		},
		Logging: LoggingConfig{
			Level:  getEnv("LOG_LEVEL", "info"),
			Format: getEnv("LOG_FORMAT", "json"),
		},
		Recommend: RecommendConfig{
			ProximityThresholdKm: getEnvAsFloat("RECOMMEND_PROXIMITY_KM", 2.0),
			TimeWindow:           getEnvAsDuration("RECOMMEND_TIME_WINDOW", 24*time.Hour),
			RelevanceThreshold:   getEnvAsFloat("RECOMMEND_RELEVANCE_THRESHOLD", 20.0),
			MaxKeywords:          getEnvAsInt("RECOMMEND_MAX_KEYWORDS", 10),
			MinKeywordLength:     getEnvAsInt("RECOMMEND_MIN_KEYWORD_LENGTH", 3),
			MaxItineraries:       getEnvAsInt("RECOMMEND_MAX_ITINERARIES", 5),
			MaxVideosPerEvent:    getEnvAsInt("RECOMMEND_MAX_VIDEOS_PER_EVENT", 3),
			EventsTopic:          getEnv("RECOMMEND_EVENTS_TOPIC", "recommendations"),
			CategoryWeight:       getEnvAsFloat("RECOMMEND_WEIGHT_CATEGORY", 40),
			TagOverlapWeight:     getEnvAsFloat("RECOMMEND_WEIGHT_TAG_OVERLAP", 15),
			CityWeight:           getEnvAsFloat("RECOMMEND_WEIGHT_CITY", 25),
			KeywordWeight:        getEnvAsFloat("RECOMMEND_WEIGHT_KEYWORD", 10),
			ActivityTypeWeight:   getEnvAsFloat("RECOMMEND_WEIGHT_ACTIVITY_TYPE", 20),
			TimeOfDayWeight:      getEnvAsFloat("RECOMMEND_WEIGHT_TIME_OF_DAY", 10),
		},
	}

	return config, validate(config)
}

// validate checks if config is valid
func validate(config Config) error {
	var errs []error

	if config.Server.Port <= 0 || config.Server.Port > 65535 {
		errs = append(errs, fmt.Errorf("server port out of range: %d", config.Server.Port))
	}
	if config.Recommend.ProximityThresholdKm <= 0 {
		errs = append(errs, fmt.Errorf("proximity threshold must be positive"))
	}
	if config.Recommend.TimeWindow < 0 {
		errs = append(errs, fmt.Errorf("time window must not be negative"))
	}
	if config.Recommend.MaxKeywords <= 0 {
		errs = append(errs, fmt.Errorf("max keywords must be positive"))
	}
	if config.Recommend.MaxItineraries < 0 || config.Recommend.MaxVideosPerEvent < 0 {
		errs = append(errs, fmt.Errorf("result limits must not be negative"))
	}
	if config.Recommend.EventsTopic == "" {
		errs = append(errs, fmt.Errorf("events topic must be set"))
	}
	if config.Database.Password == "postgres" && config.Environment == "production" {
		errs = append(errs, fmt.Errorf("database password must be set in production"))
	}

	return errors.Join(errs...)
}

// Helper functions

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvAsInt(key string, defaultValue int) int {
	valueStr := getEnv(key, "")
	if value, err := strconv.Atoi(valueStr); err == nil {
		return value
	}
	return defaultValue
}

func getEnvAsFloat(key string, defaultValue float64) float64 {
	valueStr := getEnv(key, "")
	if value, err := strconv.ParseFloat(valueStr, 64); err == nil {
		return value
	}
	return defaultValue
}

func getEnvAsDuration(key string, defaultValue time.Duration) time.Duration {
	valueStr := getEnv(key, "")
	if value, err := time.ParseDuration(valueStr); err == nil {
		return value
	}
	return defaultValue
}

func getEnvAsSlice(key string, defaultValue []string) []string {
	valueStr := getEnv(key, "")
	if valueStr == "" {
		return defaultValue
	}

	parts := strings.Split(valueStr, ",")
	values := make([]string, 0, len(parts))
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			values = append(values, p)
		}
	}
	return values
}
