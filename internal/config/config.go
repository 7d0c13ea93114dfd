package config

import (
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// Config holds application configuration.
type Config struct {
	AppName     string
	AppVersion  string
	Environment string
	HTTPAddr    string

	AdminToken string

	OTLPEndpoint string

	DBType            string
	DBHost            string
	DBPort            string
	DBName            string
	DBUser            string
	DBPassword        string
	DBSSLMode         string
	DBMaxIdleConn     int
	DBMaxOpenConn     int
	DBConnMaxLifetime int
	DBConnMaxIdleTime int

	Redis RedisConfig
	Cache CacheConfig

	RateLimit RateLimitConfig
}

type RedisConfig struct {
	Addr     string
	Password string
	DB       int
}

// CacheConfig carries TTL knobs for the stale-while-revalidate layer.
type CacheConfig struct {
	DetailTTL           time.Duration
	ListTTL             time.Duration
	LeaderboardTTL      time.Duration
	RevalidateThreshold time.Duration
}

type RateLimitConfig struct {
	MaxRatingsPerDay int
	Window           time.Duration
	// UseRedisCounter switches to the redis counter policy. The DB count
	// policy is the default: it stays correct across instances and never
	// drifts from the rating rows themselves.
	UseRedisCounter bool
}

// Load loads configuration from environment variables and .env file.
func Load() Config {
	_ = godotenv.Load()

	return Config{
		AppName:     getenv("APP_SERVICE", "uwazi"),
		AppVersion:  getenv("APP_VERSION", "0.1.0"),
		Environment: getenv("ENVIRONMENT", "development"),
		HTTPAddr:    getenv("HTTP_ADDR", ":8080"),

		AdminToken: strings.TrimSpace(getenv("ADMIN_API_TOKEN", "")),

		OTLPEndpoint: getenv("OTLP_ENDPOINT", "localhost:4317"),

		DBType:            getenv("DATABASE_TYPE", "postgres"),
		DBHost:            getenv("DATABASE_HOST", "localhost"),
		DBPort:            getenv("DATABASE_PORT", "5432"),
		DBName:            getenv("DATABASE_NAME", "uwazi"),
		DBUser:            getenv("DATABASE_USER", "uwazi"),
		DBPassword:        getenv("DATABASE_PASSWORD", ""),
		DBSSLMode:         getenv("DATABASE_SSLMODE", "disable"),
		DBMaxIdleConn:     getenvInt("DATABASE_MAX_IDLE_CONN", 5),
		DBMaxOpenConn:     getenvInt("DATABASE_MAX_OPEN_CONN", 25),
		DBConnMaxLifetime: getenvInt("DATABASE_CONN_MAX_LIFETIME", 1800),
		DBConnMaxIdleTime: getenvInt("DATABASE_CONN_MAX_IDLE_TIME", 300),

		Redis: RedisConfig{
			Addr:     strings.TrimSpace(getenv("REDIS_ADDR", "")),
			Password: strings.TrimSpace(getenv("REDIS_PASSWORD", "")),
			DB:       getenvInt("REDIS_DB", 0),
		},
		Cache: CacheConfig{
			DetailTTL:           getenvDuration("CACHE_DETAIL_TTL", 30*time.Minute),
			ListTTL:             getenvDuration("CACHE_LIST_TTL", 10*time.Minute),
			LeaderboardTTL:      getenvDuration("CACHE_LEADERBOARD_TTL", time.Hour),
			RevalidateThreshold: getenvDuration("CACHE_REVALIDATE_THRESHOLD", time.Minute),
		},
		RateLimit: RateLimitConfig{
			MaxRatingsPerDay: getenvInt("RATE_LIMIT_MAX_RATINGS", 5),
			Window:           getenvDuration("RATE_LIMIT_WINDOW", 24*time.Hour),
			UseRedisCounter:  getenvBool("RATE_LIMIT_USE_REDIS_COUNTER", false),
		},
	}
}

func getenv(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

func getenvBool(key string, def bool) bool {
	value := strings.ToLower(strings.TrimSpace(os.Getenv(key)))
	if value == "" {
		return def
	}
	switch value {
	case "1", "true", "yes", "y", "on":
		return true
	case "0", "false", "no", "n", "off":
		return false
	default:
		return def
	}
}

func getenvInt(key string, def int) int {
	value := strings.TrimSpace(os.Getenv(key))
	if value == "" {
		return def
	}
	parsed, err := strconv.Atoi(value)
	if err != nil {
		return def
	}
	return parsed
}

func getenvDuration(key string, def time.Duration) time.Duration {
	value := strings.TrimSpace(os.Getenv(key))
	if value == "" {
		return def
	}
	parsed, err := time.ParseDuration(value)
	if err != nil {
		return def
	}
	return parsed
}

