package config

import (
	"errors"
	"fmt"
	"log"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// Config holds all application configuration
type Config struct {
	// Server configuration
	Server ServerConfig

	// GLPI REST API configuration
	GLPI GLPIConfig

	// Dashboard behaviour
	Dashboard DashboardConfig

	// Rate limiting configuration
	RateLimit RateLimitConfig

	// WebSocket configuration
	WebSocket WebSocketConfig

	// Logging configuration
	Logging LoggingConfig

	// Application metadata
	App AppConfig
}

// ServerConfig holds HTTP server configuration
type ServerConfig struct {
	Port            string
	ReadTimeout     time.Duration
	WriteTimeout    time.Duration
	IdleTimeout     time.Duration
	ShutdownTimeout time.Duration
}

// GLPIConfig holds the GLPI connection settings
type GLPIConfig struct {
	URL       string
	AppToken  string
	UserToken string
	Timeout   time.Duration
	RateLimit float64 // outbound requests per second, 0 disables
	FetchMode string  // server or client
	PageSize  int
	DateField string
	// LevelField and StatusField override the record keys; empty means the
	// fetch mode's defaults (search option ids or field names).
	LevelField  string
	StatusField string
}

// DashboardConfig holds dashboard defaults
type DashboardConfig struct {
	Title          string
	DefaultStart   string
	DefaultEnd     string
	CacheSize      int
	TokenSecret    string
	TokenTTL       time.Duration
	AllowedOrigins []string
}

// RateLimitConfig holds rate limiting configuration
type RateLimitConfig struct {
	Enabled           bool
	RequestsPerSecond float64
	BurstSize         int
	EventRPS          float64 // date-range events per viewer
	EventBurst        int
}

// WebSocketConfig holds WebSocket configuration
type WebSocketConfig struct {
	AllowedOrigins  []string
	ReadBufferSize  int
	WriteBufferSize int
	PingInterval    time.Duration
	PongWait        time.Duration
}

// LoggingConfig holds logging configuration
type LoggingConfig struct {
	Level  string // debug, info, warn, error
	Format string // json, text
}

// AppConfig holds application metadata
type AppConfig struct {
	Name        string
	Version     string
	Environment string
}

// Load loads configuration from environment variables
func Load() (*Config, error) {
	loadDotEnv()

	cfg := FromEnv()
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// LoadGLPI loads the configuration but only requires the GLPI section.
func LoadGLPI() (*Config, error) {
	loadDotEnv()

	cfg := FromEnv()
	if err := cfg.ValidateGLPI(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// loadDotEnv loads .env if it exists (for local development)
func loadDotEnv() {
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found, using system environment variables")
	}
}

// FromEnv reads the configuration from the current environment without
// loading .env or validating.
func FromEnv() *Config {
	return &Config{
		Server: ServerConfig{
			Port:            getEnvOrDefault("SERVER_PORT", ":8050"),
			ReadTimeout:     getDurationOrDefault("SERVER_READ_TIMEOUT", 15*time.Second),
			WriteTimeout:    getDurationOrDefault("SERVER_WRITE_TIMEOUT", 60*time.Second),
			IdleTimeout:     getDurationOrDefault("SERVER_IDLE_TIMEOUT", 60*time.Second),
			ShutdownTimeout: getDurationOrDefault("SERVER_SHUTDOWN_TIMEOUT", 30*time.Second),
		},
		GLPI: GLPIConfig{
			URL:         firstEnv("GLPI_API_URL", "GLPI_URL"),
			AppToken:    firstEnv("GLPI_APP_TOKEN", "APP_TOKEN"),
			UserToken:   firstEnv("GLPI_USER_TOKEN", "USER_TOKEN"),
			Timeout:     getDurationOrDefault("GLPI_TIMEOUT", 30*time.Second),
			RateLimit:   getFloatOrDefault("GLPI_RATE_LIMIT_RPS", 0),
			FetchMode:   getEnvOrDefault("GLPI_FETCH_MODE", "server"),
			PageSize:    getIntOrDefault("GLPI_PAGE_SIZE", 1000),
			DateField:   getEnvOrDefault("GLPI_DATE_FIELD", "date"),
			LevelField:  os.Getenv("GLPI_LEVEL_FIELD"),
			StatusField: os.Getenv("GLPI_STATUS_FIELD"),
		},
		Dashboard: DashboardConfig{
			Title:          getEnvOrDefault("DASHBOARD_TITLE", "Painel Casa Civil TI"),
			DefaultStart:   os.Getenv("DEFAULT_START_DATE"),
			DefaultEnd:     os.Getenv("DEFAULT_END_DATE"),
			CacheSize:      getIntOrDefault("SUMMARY_CACHE_SIZE", 4),
			TokenSecret:    os.Getenv("DASHBOARD_TOKEN_SECRET"),
			TokenTTL:       getDurationOrDefault("DASHBOARD_TOKEN_TTL", 12*time.Hour),
			AllowedOrigins: getStringSliceOrDefault("CORS_ALLOWED_ORIGINS", []string{"*"}),
		},
		RateLimit: RateLimitConfig{
			Enabled:           getBoolOrDefault("RATE_LIMIT_ENABLED", true),
			RequestsPerSecond: getFloatOrDefault("RATE_LIMIT_RPS", 10),
			BurstSize:         getIntOrDefault("RATE_LIMIT_BURST", 20),
			EventRPS:          getFloatOrDefault("RATE_LIMIT_EVENT_RPS", 2),
			EventBurst:        getIntOrDefault("RATE_LIMIT_EVENT_BURST", 5),
		},
		WebSocket: WebSocketConfig{
			AllowedOrigins:  getStringSliceOrDefault("WS_ALLOWED_ORIGINS", []string{}),
			ReadBufferSize:  getIntOrDefault("WS_READ_BUFFER_SIZE", 1024),
			WriteBufferSize: getIntOrDefault("WS_WRITE_BUFFER_SIZE", 1024),
			PingInterval:    getDurationOrDefault("WS_PING_INTERVAL", 54*time.Second),
			PongWait:        getDurationOrDefault("WS_PONG_WAIT", 60*time.Second),
		},
		Logging: LoggingConfig{
			Level:  getEnvOrDefault("LOG_LEVEL", "info"),
			Format: getEnvOrDefault("LOG_FORMAT", "json"),
		},
		App: AppConfig{
			Name:        getEnvOrDefault("APP_NAME", "glpi-dashboard"),
			Version:     getEnvOrDefault("APP_VERSION", "dev"),
			Environment: getEnvOrDefault("APP_ENV", "development"),
		},
	}
}

// Validate validates the configuration
func (c *Config) Validate() error {
	errs := c.GLPI.validate()

	if err := validateDate("DEFAULT_START_DATE", c.Dashboard.DefaultStart); err != "" {
		errs = append(errs, err)
	}
	if err := validateDate("DEFAULT_END_DATE", c.Dashboard.DefaultEnd); err != "" {
		errs = append(errs, err)
	}
	if c.Dashboard.DefaultStart != "" && c.Dashboard.DefaultEnd != "" && c.Dashboard.DefaultStart > c.Dashboard.DefaultEnd {
		errs = append(errs, "DEFAULT_START_DATE cannot be after DEFAULT_END_DATE")
	}
	if c.Dashboard.CacheSize < 1 {
		errs = append(errs, "SUMMARY_CACHE_SIZE must be at least 1")
	}

	// Security validations
	if c.App.Environment == "production" {
		if len(c.Dashboard.TokenSecret) < 32 {
			errs = append(errs, "DASHBOARD_TOKEN_SECRET must be at least 32 characters in production")
		}

		if len(c.WebSocket.AllowedOrigins) == 0 {
			errs = append(errs, "WS_ALLOWED_ORIGINS must be set in production")
		}
	}

	if len(errs) > 0 {
		return errors.New("configuration errors:\n  - " + strings.Join(errs, "\n  - "))
	}

	return nil
}

// ValidateGLPI checks only the GLPI section, for tools that do not serve
// the dashboard.
func (c *Config) ValidateGLPI() error {
	if errs := c.GLPI.validate(); len(errs) > 0 {
		return errors.New("configuration errors:\n  - " + strings.Join(errs, "\n  - "))
	}
	return nil
}

func (g GLPIConfig) validate() []string {
	var errs []string
	if g.URL == "" {
		errs = append(errs, "GLPI_API_URL (or GLPI_URL) is required")
	}
	if g.AppToken == "" {
		errs = append(errs, "GLPI_APP_TOKEN (or APP_TOKEN) is required")
	}
	if g.UserToken == "" {
		errs = append(errs, "GLPI_USER_TOKEN (or USER_TOKEN) is required")
	}
	if g.FetchMode != "server" && g.FetchMode != "client" {
		errs = append(errs, "GLPI_FETCH_MODE must be server or client")
	}
	if g.PageSize < 1 {
		errs = append(errs, "GLPI_PAGE_SIZE must be at least 1")
	}
	if g.RateLimit < 0 {
		errs = append(errs, "GLPI_RATE_LIMIT_RPS cannot be negative")
	}
	return errs
}

func validateDate(key, value string) string {
	if value == "" {
		return ""
	}
	if _, err := time.Parse("2006-01-02", value); err != nil {
		return key + " must be a YYYY-MM-DD date"
	}
	return ""
}

// IsDevelopment returns true if running in development environment
func (c *Config) IsDevelopment() bool {
	return c.App.Environment == "development"
}

// IsProduction returns true if running in production environment
func (c *Config) IsProduction() bool {
	return c.App.Environment == "production"
}

// Helper functions

func getEnvOrDefault(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

// firstEnv returns the first non-empty variable among keys.
func firstEnv(keys ...string) string {
	for _, key := range keys {
		if value := os.Getenv(key); value != "" {
			return value
		}
	}
	return ""
}

func getIntOrDefault(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if intValue, err := strconv.Atoi(value); err == nil {
			return intValue
		}
	}
	return defaultValue
}

func getFloatOrDefault(key string, defaultValue float64) float64 {
	if value := os.Getenv(key); value != "" {
		if floatValue, err := strconv.ParseFloat(value, 64); err == nil {
			return floatValue
		}
	}
	return defaultValue
}

func getBoolOrDefault(key string, defaultValue bool) bool {
	if value := os.Getenv(key); value != "" {
		if boolValue, err := strconv.ParseBool(value); err == nil {
			return boolValue
		}
	}
	return defaultValue
}

func getDurationOrDefault(key string, defaultValue time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		if duration, err := time.ParseDuration(value); err == nil {
			return duration
		}
	}
	return defaultValue
}

func getStringSliceOrDefault(key string, defaultValue []string) []string {
	if value := os.Getenv(key); value != "" {
		parts := strings.Split(value, ",")
		result := make([]string, 0, len(parts))
		for _, part := range parts {
			trimmed := strings.TrimSpace(part)
			if trimmed != "" {
				result = append(result, trimmed)
			}
		}
		if len(result) > 0 {
			return result
		}
	}
	return defaultValue
}

// String returns a redacted string representation of the config (safe for logging)
func (c *Config) String() string {
	return fmt.Sprintf(
		"Config{Server: %s, GLPI: %s, Tokens: [REDACTED], FetchMode: %s, RateLimit: %v, Environment: %s}",
		c.Server.Port,
		c.GLPI.URL,
		c.GLPI.FetchMode,
		c.RateLimit.Enabled,
		c.App.Environment,
	)
}
