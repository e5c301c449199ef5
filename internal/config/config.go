package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/rs/zerolog/log"
)

// Config holds all application configuration loaded from environment variables.
type Config struct {
	Database DatabaseConfig
	Redis    RedisConfig
	Server   ServerConfig
	Cache    CacheConfig
	Admin    AdminConfig
}

// DatabaseConfig holds PostgreSQL connection settings.
type DatabaseConfig struct {
	Host     string
	Port     int
	User     string
	Password string //nolint:gosec // G117: DB connection config
	DBName   string
	SSLMode  string
	MaxConns int
}

// RedisConfig holds Redis connection settings. Redis is optional; with no
// address configured, cache purges stay local to this instance.
type RedisConfig struct {
	Addr     string
	Password string //nolint:gosec // G117: Redis connection config
	DB       int
}

// ServerConfig holds HTTP server settings.
type ServerConfig struct {
	Addr         string
	ReadTimeout  time.Duration
	WriteTimeout time.Duration
	CORSOrigins  []string
	RateLimitRPS float64
	RateBurst    int
}

// CacheConfig holds domain resolution cache settings.
type CacheConfig struct {
	DomainTTL   time.Duration
	DevFallback bool
}

// AdminConfig holds operational endpoint settings. An empty token disables
// the admin surface entirely.
type AdminConfig struct {
	Token string //nolint:gosec // G117: static admin token config
}

// Load reads configuration from the environment, with a best-effort .env
// overlay for local development. Defaults are safe for local development
// only; production deployments must set the sensitive values explicitly.
func Load() (*Config, error) {
	if err := godotenv.Load(); err != nil && !os.IsNotExist(err) {
		log.Warn().Err(err).Msg("could not read .env file, continuing with process environment")
	}

	dbPort, err := getEnvInt("NEWSGRID_DB_PORT", 5432)
	if err != nil {
		return nil, fmt.Errorf("config.Load: %w", err)
	}

	dbMaxConns, err := getEnvInt("NEWSGRID_DB_MAX_CONNS", 25)
	if err != nil {
		return nil, fmt.Errorf("config.Load: %w", err)
	}

	redisDB, err := getEnvInt("NEWSGRID_REDIS_DB", 0)
	if err != nil {
		return nil, fmt.Errorf("config.Load: %w", err)
	}

	readTimeout, err := getEnvDuration("NEWSGRID_SERVER_READ_TIMEOUT", 10*time.Second)
	if err != nil {
		return nil, fmt.Errorf("config.Load: %w", err)
	}

	writeTimeout, err := getEnvDuration("NEWSGRID_SERVER_WRITE_TIMEOUT", 30*time.Second)
	if err != nil {
		return nil, fmt.Errorf("config.Load: %w", err)
	}

	rateLimitRPS, err := getEnvFloat("NEWSGRID_RATE_LIMIT_RPS", 50)
	if err != nil {
		return nil, fmt.Errorf("config.Load: %w", err)
	}

	rateBurst, err := getEnvInt("NEWSGRID_RATE_LIMIT_BURST", 100)
	if err != nil {
		return nil, fmt.Errorf("config.Load: %w", err)
	}

	domainTTL, err := getEnvDuration("NEWSGRID_DOMAIN_CACHE_TTL", 60*time.Second)
	if err != nil {
		return nil, fmt.Errorf("config.Load: %w", err)
	}

	devFallback, err := getEnvBool("NEWSGRID_DEV_FALLBACK", false)
	if err != nil {
		return nil, fmt.Errorf("config.Load: %w", err)
	}

	corsOrigins := getEnvList("NEWSGRID_CORS_ORIGINS", []string{"http://localhost:5173"})

	cfg := &Config{
		Database: DatabaseConfig{
			Host:     getEnv("NEWSGRID_DB_HOST", "localhost"),
			Port:     dbPort,
			User:     getEnv("NEWSGRID_DB_USER", "newsgrid"),
			Password: getEnv("NEWSGRID_DB_PASSWORD", ""),
			DBName:   getEnv("NEWSGRID_DB_NAME", "newsgrid_dev"),
			SSLMode:  getEnv("NEWSGRID_DB_SSLMODE", "disable"),
			MaxConns: dbMaxConns,
		},
		Redis: RedisConfig{
			Addr:     getEnv("NEWSGRID_REDIS_ADDR", ""),
			Password: getEnv("NEWSGRID_REDIS_PASSWORD", ""),
			DB:       redisDB,
		},
		Server: ServerConfig{
			Addr:         getEnv("NEWSGRID_SERVER_ADDR", ":8080"),
			ReadTimeout:  readTimeout,
			WriteTimeout: writeTimeout,
			CORSOrigins:  corsOrigins,
			RateLimitRPS: rateLimitRPS,
			RateBurst:    rateBurst,
		},
		Cache: CacheConfig{
			DomainTTL:   domainTTL,
			DevFallback: devFallback,
		},
		Admin: AdminConfig{
			Token: getEnv("NEWSGRID_ADMIN_TOKEN", ""),
		},
	}

	err = cfg.validate()
	if err != nil {
		return nil, fmt.Errorf("config.Load: %w", err)
	}

	return cfg, nil
}

// validate checks required fields and value bounds.
func (c *Config) validate() error {
	if c.Database.SSLMode == "disable" {
		log.Warn().Msg("NEWSGRID_DB_SSLMODE=disable is insecure for production; set to 'require' or 'verify-full'")
	}
	if c.Admin.Token == "" {
		log.Warn().Msg("NEWSGRID_ADMIN_TOKEN is unset; admin endpoints are disabled")
	}

	// Bounds checks.
	if c.Database.Port < 1 || c.Database.Port > 65535 {
		return fmt.Errorf("NEWSGRID_DB_PORT must be 1-65535, got %d", c.Database.Port)
	}
	if c.Database.MaxConns < 1 {
		return fmt.Errorf("NEWSGRID_DB_MAX_CONNS must be >= 1, got %d", c.Database.MaxConns)
	}
	if c.Server.ReadTimeout <= 0 {
		return fmt.Errorf("NEWSGRID_SERVER_READ_TIMEOUT must be positive, got %s", c.Server.ReadTimeout)
	}
	if c.Server.WriteTimeout <= 0 {
		return fmt.Errorf("NEWSGRID_SERVER_WRITE_TIMEOUT must be positive, got %s", c.Server.WriteTimeout)
	}
	if c.Server.RateLimitRPS <= 0 {
		return fmt.Errorf("NEWSGRID_RATE_LIMIT_RPS must be positive, got %g", c.Server.RateLimitRPS)
	}
	if c.Server.RateBurst < 1 {
		return fmt.Errorf("NEWSGRID_RATE_LIMIT_BURST must be >= 1, got %d", c.Server.RateBurst)
	}
	if c.Cache.DomainTTL <= 0 {
		return fmt.Errorf("NEWSGRID_DOMAIN_CACHE_TTL must be positive, got %s", c.Cache.DomainTTL)
	}

	return nil
}

// DSN returns the PostgreSQL connection string.
func (c *DatabaseConfig) DSN() string {
	return fmt.Sprintf(
		"host=%s port=%d user=%s password=%s dbname=%s sslmode=%s",
		c.Host, c.Port, c.User, c.Password, c.DBName, c.SSLMode,
	)
}

func getEnv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func getEnvInt(key string, fallback int) (int, error) {
	v := os.Getenv(key)
	if v == "" {
		return fallback, nil
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return 0, fmt.Errorf("parsing %s=%q as int: %w", key, v, err)
	}
	return n, nil
}

func getEnvFloat(key string, fallback float64) (float64, error) {
	v := os.Getenv(key)
	if v == "" {
		return fallback, nil
	}
	f, err := strconv.ParseFloat(v, 64)
	if err != nil {
		return 0, fmt.Errorf("parsing %s=%q as float: %w", key, v, err)
	}
	return f, nil
}

func getEnvBool(key string, fallback bool) (bool, error) {
	v := os.Getenv(key)
	if v == "" {
		return fallback, nil
	}
	b, err := strconv.ParseBool(v)
	if err != nil {
		return false, fmt.Errorf("parsing %s=%q as bool: %w", key, v, err)
	}
	return b, nil
}

func getEnvDuration(key string, fallback time.Duration) (time.Duration, error) {
	v := os.Getenv(key)
	if v == "" {
		return fallback, nil
	}
	d, err := time.ParseDuration(v)
	if err != nil {
		return 0, fmt.Errorf("parsing %s=%q as duration: %w", key, v, err)
	}
	return d, nil
}

func getEnvList(key string, fallback []string) []string {
	v := os.Getenv(key)
	if v == "" {
		return fallback
	}
	parts := strings.Split(v, ",")
	result := make([]string, 0, len(parts))
	for _, p := range parts {
		p = strings.TrimSpace(p)
		if p != "" {
			result = append(result, p)
		}
	}
	return result
}
