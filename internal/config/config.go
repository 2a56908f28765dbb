package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// Config aggregates runtime configuration for the dashboard.
type Config struct {
	App     AppConfig
	Backend BackendConfig
	Redis   RedisConfig
	Logger  LoggerConfig
	Auth    AuthConfig
	Session SessionConfig
}

// AppConfig controls server level behavior.
type AppConfig struct {
	Name                  string
	Env                   string
	Host                  string
	Port                  string
	Version               string
	RequestTimeoutSeconds int
}

// BackendConfig points at the ticket API the dashboard mirrors.
type BackendConfig struct {
	BaseURL        string
	FilesBaseURL   string
	EmployeesPath  string
	MyTicketsPath  string
	StreamPath     string
	TimeoutSeconds int
}

// RedisConfig holds Redis connection values.
type RedisConfig struct {
	Addr     string
	Password string
	DB       int
}

// LoggerConfig configures logging behavior.
type LoggerConfig struct {
	Level string
	// File redirects output away from stdout. The terminal client sets it.
	File string
}

// AuthConfig defines where the bearer credential is read from.
type AuthConfig struct {
	CookieName string
}

// SessionConfig tunes mounted dashboard sessions.
type SessionConfig struct {
	IdleTTLMinutes      int
	ReapIntervalSeconds int
}

// Load reads configuration from environment variables, applying defaults where possible.
func Load() (*Config, error) {
	_ = godotenv.Load()

	redisDB, err := strconv.Atoi(getEnv("REDIS_DB", "0"))
	if err != nil {
		return nil, fmt.Errorf("invalid REDIS_DB: %w", err)
	}

	baseURL := strings.TrimRight(getEnv("BACKEND_BASE_URL", "http://127.0.0.1:5000"), "/")

	cfg := &Config{
		App: AppConfig{
			Name:                  getEnv("APP_NAME", "ticket-dashboard"),
			Env:                   getEnv("APP_ENV", "development"),
			Host:                  getEnv("APP_HOST", "0.0.0.0"),
			Port:                  getEnv("APP_PORT", "8080"),
			Version:               getEnv("APP_VERSION", "dev"),
			RequestTimeoutSeconds: getEnvAsInt("HTTP_REQUEST_TIMEOUT_SECONDS", 30),
		},
		Backend: BackendConfig{
			BaseURL:        baseURL,
			FilesBaseURL:   strings.TrimRight(getEnv("BACKEND_FILES_BASE_URL", baseURL+"/user_ticket"), "/"),
			EmployeesPath:  getEnv("BACKEND_EMPLOYEES_PATH", "/api/v1/employees/"),
			MyTicketsPath:  getEnv("BACKEND_MY_TICKETS_PATH", "/api/v1/tickets/getMyTickets"),
			StreamPath:     getEnv("BACKEND_STREAM_PATH", "/api/v1/tickets/events"),
			TimeoutSeconds: getEnvAsInt("BACKEND_TIMEOUT_SECONDS", 10),
		},
		Redis: RedisConfig{
			Addr:     os.Getenv("REDIS_ADDR"),
			Password: os.Getenv("REDIS_PASSWORD"),
			DB:       redisDB,
		},
		Logger: LoggerConfig{
			Level: getEnv("LOG_LEVEL", "info"),
			File:  os.Getenv("LOG_FILE"),
		},
		Auth: AuthConfig{
			CookieName: getEnv("AUTH_COOKIE_NAME", "accessToken"),
		},
		Session: SessionConfig{
			IdleTTLMinutes:      getEnvAsInt("SESSION_IDLE_TTL_MINUTES", 30),
			ReapIntervalSeconds: getEnvAsInt("SESSION_REAP_INTERVAL_SECONDS", 60),
		},
	}

	return cfg, nil
}

// Addr returns the HTTP bind address.
func (a AppConfig) Addr() string {
	return fmt.Sprintf("%s:%s", a.Host, a.Port)
}

// RequestTimeout returns the configured request timeout duration.
func (a AppConfig) RequestTimeout() time.Duration {
	if a.RequestTimeoutSeconds <= 0 {
		return 0
	}
	return time.Duration(a.RequestTimeoutSeconds) * time.Second
}

// Timeout returns the per-request timeout for backend reads. The stream
// subscription is not bound by it.
func (b BackendConfig) Timeout() time.Duration {
	if b.TimeoutSeconds <= 0 {
		return 0
	}
	return time.Duration(b.TimeoutSeconds) * time.Second
}

// IdleTTL returns how long an untouched session survives.
func (s SessionConfig) IdleTTL() time.Duration {
	if s.IdleTTLMinutes <= 0 {
		return 0
	}
	return time.Duration(s.IdleTTLMinutes) * time.Minute
}

// ReapInterval returns how often idle sessions are swept.
func (s SessionConfig) ReapInterval() time.Duration {
	if s.ReapIntervalSeconds <= 0 {
		return time.Minute
	}
	return time.Duration(s.ReapIntervalSeconds) * time.Second
}

func getEnv(key, fallback string) string {
	if val := os.Getenv(key); val != "" {
		return val
	}
	return fallback
}

func getEnvAsInt(key string, fallback int) int {
	val := os.Getenv(key)
	if val == "" {
		return fallback
	}
	parsed, err := strconv.Atoi(val)
	if err != nil {
		return fallback
	}
	return parsed
}
