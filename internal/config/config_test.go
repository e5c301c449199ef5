package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// ---------------------------------------------------------------------------
// Helper function tests
// ---------------------------------------------------------------------------

func TestGetEnv(t *testing.T) {
	tests := []struct {
		name     string
		key      string
		setVal   *string // nil = don't set; pointer to distinguish "" from unset
		fallback string
		want     string
	}{
		{name: "returns fallback when unset", key: "NEWSGRID_TEST_GETENV_UNSET", setVal: nil, fallback: "default", want: "default"},
		{name: "returns env value when set", key: "NEWSGRID_TEST_GETENV_SET", setVal: strPtr("custom"), fallback: "default", want: "custom"},
		{name: "returns fallback when empty string", key: "NEWSGRID_TEST_GETENV_EMPTY", setVal: strPtr(""), fallback: "default", want: "default"},
		{name: "preserves whitespace", key: "NEWSGRID_TEST_GETENV_WS", setVal: strPtr("  spaced  "), fallback: "x", want: "  spaced  "},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			if tc.setVal != nil {
				t.Setenv(tc.key, *tc.setVal)
			}

			got := getEnv(tc.key, tc.fallback)
			assert.Equal(t, tc.want, got)
		})
	}
}

func TestGetEnvInt(t *testing.T) {
	tests := []struct {
		name     string
		key      string
		setVal   *string
		fallback int
		want     int
		wantErr  bool
	}{
		{name: "returns fallback when unset", key: "NEWSGRID_TEST_INT_UNSET", setVal: nil, fallback: 42, want: 42},
		{name: "parses valid int", key: "NEWSGRID_TEST_INT_VALID", setVal: strPtr("8080"), fallback: 0, want: 8080},
		{name: "parses negative int", key: "NEWSGRID_TEST_INT_NEG", setVal: strPtr("-1"), fallback: 0, want: -1},
		{name: "parses zero", key: "NEWSGRID_TEST_INT_ZERO", setVal: strPtr("0"), fallback: 99, want: 0},
		{name: "returns fallback for empty string", key: "NEWSGRID_TEST_INT_EMPTY", setVal: strPtr(""), fallback: 25, want: 25},
		{name: "errors on non-numeric", key: "NEWSGRID_TEST_INT_NAN", setVal: strPtr("abc"), fallback: 0, wantErr: true},
		{name: "errors on float", key: "NEWSGRID_TEST_INT_FLOAT", setVal: strPtr("3.14"), fallback: 0, wantErr: true},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			if tc.setVal != nil {
				t.Setenv(tc.key, *tc.setVal)
			}

			got, err := getEnvInt(tc.key, tc.fallback)
			if tc.wantErr {
				require.Error(t, err)
				assert.Contains(t, err.Error(), tc.key)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tc.want, got)
		})
	}
}

func TestGetEnvFloat(t *testing.T) {
	tests := []struct {
		name     string
		key      string
		setVal   *string
		fallback float64
		want     float64
		wantErr  bool
	}{
		{name: "returns fallback when unset", key: "NEWSGRID_TEST_FLOAT_UNSET", setVal: nil, fallback: 50, want: 50},
		{name: "parses integer literal", key: "NEWSGRID_TEST_FLOAT_INT", setVal: strPtr("25"), fallback: 0, want: 25},
		{name: "parses fractional", key: "NEWSGRID_TEST_FLOAT_FRAC", setVal: strPtr("0.5"), fallback: 0, want: 0.5},
		{name: "errors on non-numeric", key: "NEWSGRID_TEST_FLOAT_NAN", setVal: strPtr("fast"), fallback: 0, wantErr: true},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			if tc.setVal != nil {
				t.Setenv(tc.key, *tc.setVal)
			}

			got, err := getEnvFloat(tc.key, tc.fallback)
			if tc.wantErr {
				require.Error(t, err)
				assert.Contains(t, err.Error(), tc.key)
				return
			}
			require.NoError(t, err)
			assert.InDelta(t, tc.want, got, 1e-9)
		})
	}
}

func TestGetEnvBool(t *testing.T) {
	tests := []struct {
		name     string
		key      string
		setVal   *string
		fallback bool
		want     bool
		wantErr  bool
	}{
		{name: "returns fallback when unset", key: "NEWSGRID_TEST_BOOL_UNSET", setVal: nil, fallback: false, want: false},
		{name: "fallback true when unset", key: "NEWSGRID_TEST_BOOL_UNSETTRUE", setVal: nil, fallback: true, want: true},
		{name: "parses true", key: "NEWSGRID_TEST_BOOL_TRUE", setVal: strPtr("true"), fallback: false, want: true},
		{name: "parses false", key: "NEWSGRID_TEST_BOOL_FALSE", setVal: strPtr("false"), fallback: true, want: false},
		{name: "parses 1", key: "NEWSGRID_TEST_BOOL_ONE", setVal: strPtr("1"), fallback: false, want: true},
		{name: "errors on invalid", key: "NEWSGRID_TEST_BOOL_INV", setVal: strPtr("yes"), fallback: false, wantErr: true},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			if tc.setVal != nil {
				t.Setenv(tc.key, *tc.setVal)
			}

			got, err := getEnvBool(tc.key, tc.fallback)
			if tc.wantErr {
				require.Error(t, err)
				assert.Contains(t, err.Error(), tc.key)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tc.want, got)
		})
	}
}

func TestGetEnvDuration(t *testing.T) {
	tests := []struct {
		name     string
		key      string
		setVal   *string
		fallback time.Duration
		want     time.Duration
		wantErr  bool
	}{
		{name: "returns fallback when unset", key: "NEWSGRID_TEST_DUR_UNSET", setVal: nil, fallback: 5 * time.Second, want: 5 * time.Second},
		{name: "parses seconds", key: "NEWSGRID_TEST_DUR_SEC", setVal: strPtr("30s"), fallback: 0, want: 30 * time.Second},
		{name: "parses minutes", key: "NEWSGRID_TEST_DUR_MIN", setVal: strPtr("15m"), fallback: 0, want: 15 * time.Minute},
		{name: "parses composite", key: "NEWSGRID_TEST_DUR_COMP", setVal: strPtr("1h30m"), fallback: 0, want: 90 * time.Minute},
		{name: "errors on invalid", key: "NEWSGRID_TEST_DUR_INV", setVal: strPtr("notaduration"), fallback: 0, wantErr: true},
		{name: "errors on bare number", key: "NEWSGRID_TEST_DUR_BARE", setVal: strPtr("30"), fallback: 0, wantErr: true},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			if tc.setVal != nil {
				t.Setenv(tc.key, *tc.setVal)
			}

			got, err := getEnvDuration(tc.key, tc.fallback)
			if tc.wantErr {
				require.Error(t, err)
				assert.Contains(t, err.Error(), tc.key)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tc.want, got)
		})
	}
}

// ---------------------------------------------------------------------------
// Load() error cases
// ---------------------------------------------------------------------------

func TestLoad_InvalidEnvVars(t *testing.T) {
	tests := []struct {
		name   string
		envKey string
		envVal string
		errMsg string
	}{
		// DB_PORT parse errors
		{name: "DB_PORT not a number", envKey: "NEWSGRID_DB_PORT", envVal: "abc", errMsg: "NEWSGRID_DB_PORT"},
		{name: "DB_PORT float", envKey: "NEWSGRID_DB_PORT", envVal: "3.14", errMsg: "NEWSGRID_DB_PORT"},

		// DB_PORT validation errors (parses fine, fails bounds)
		{name: "DB_PORT zero", envKey: "NEWSGRID_DB_PORT", envVal: "0", errMsg: "NEWSGRID_DB_PORT"},
		{name: "DB_PORT negative", envKey: "NEWSGRID_DB_PORT", envVal: "-1", errMsg: "NEWSGRID_DB_PORT"},
		{name: "DB_PORT too high", envKey: "NEWSGRID_DB_PORT", envVal: "65536", errMsg: "NEWSGRID_DB_PORT"},

		// DB_MAX_CONNS
		{name: "DB_MAX_CONNS zero", envKey: "NEWSGRID_DB_MAX_CONNS", envVal: "0", errMsg: "NEWSGRID_DB_MAX_CONNS"},
		{name: "DB_MAX_CONNS not a number", envKey: "NEWSGRID_DB_MAX_CONNS", envVal: "many", errMsg: "NEWSGRID_DB_MAX_CONNS"},

		// Server timeouts
		{name: "SERVER_READ_TIMEOUT invalid", envKey: "NEWSGRID_SERVER_READ_TIMEOUT", envVal: "notduration", errMsg: "NEWSGRID_SERVER_READ_TIMEOUT"},
		{name: "SERVER_WRITE_TIMEOUT invalid", envKey: "NEWSGRID_SERVER_WRITE_TIMEOUT", envVal: "notduration", errMsg: "NEWSGRID_SERVER_WRITE_TIMEOUT"},
		{name: "SERVER_READ_TIMEOUT zero", envKey: "NEWSGRID_SERVER_READ_TIMEOUT", envVal: "0s", errMsg: "NEWSGRID_SERVER_READ_TIMEOUT"},
		{name: "SERVER_WRITE_TIMEOUT zero", envKey: "NEWSGRID_SERVER_WRITE_TIMEOUT", envVal: "0s", errMsg: "NEWSGRID_SERVER_WRITE_TIMEOUT"},

		// Rate limiting
		{name: "RATE_LIMIT_RPS zero", envKey: "NEWSGRID_RATE_LIMIT_RPS", envVal: "0", errMsg: "NEWSGRID_RATE_LIMIT_RPS"},
		{name: "RATE_LIMIT_RPS not a number", envKey: "NEWSGRID_RATE_LIMIT_RPS", envVal: "fast", errMsg: "NEWSGRID_RATE_LIMIT_RPS"},
		{name: "RATE_LIMIT_BURST zero", envKey: "NEWSGRID_RATE_LIMIT_BURST", envVal: "0", errMsg: "NEWSGRID_RATE_LIMIT_BURST"},

		// Domain cache
		{name: "DOMAIN_CACHE_TTL invalid", envKey: "NEWSGRID_DOMAIN_CACHE_TTL", envVal: "badval", errMsg: "NEWSGRID_DOMAIN_CACHE_TTL"},
		{name: "DOMAIN_CACHE_TTL zero", envKey: "NEWSGRID_DOMAIN_CACHE_TTL", envVal: "0s", errMsg: "NEWSGRID_DOMAIN_CACHE_TTL"},
		{name: "DOMAIN_CACHE_TTL negative", envKey: "NEWSGRID_DOMAIN_CACHE_TTL", envVal: "-1m", errMsg: "NEWSGRID_DOMAIN_CACHE_TTL"},

		// Redis DB
		{name: "REDIS_DB not a number", envKey: "NEWSGRID_REDIS_DB", envVal: "abc", errMsg: "NEWSGRID_REDIS_DB"},

		// Dev fallback
		{name: "DEV_FALLBACK not a bool", envKey: "NEWSGRID_DEV_FALLBACK", envVal: "yes", errMsg: "NEWSGRID_DEV_FALLBACK"},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			t.Setenv(tc.envKey, tc.envVal)

			cfg, err := Load()
			require.Error(t, err, "expected error for %s=%q", tc.envKey, tc.envVal)
			assert.Nil(t, cfg)
			assert.Contains(t, err.Error(), tc.errMsg)
		})
	}
}

// ---------------------------------------------------------------------------
// Load() happy paths
// ---------------------------------------------------------------------------

func TestLoad_Defaults(t *testing.T) {
	cfg, err := Load()
	require.NoError(t, err)
	require.NotNil(t, cfg)

	// Database defaults.
	assert.Equal(t, "localhost", cfg.Database.Host)
	assert.Equal(t, 5432, cfg.Database.Port)
	assert.Equal(t, "newsgrid", cfg.Database.User)
	assert.Empty(t, cfg.Database.Password)
	assert.Equal(t, "newsgrid_dev", cfg.Database.DBName)
	assert.Equal(t, "disable", cfg.Database.SSLMode)
	assert.Equal(t, 25, cfg.Database.MaxConns)

	// Redis is opt-in.
	assert.Empty(t, cfg.Redis.Addr)
	assert.Empty(t, cfg.Redis.Password)
	assert.Equal(t, 0, cfg.Redis.DB)

	// Server defaults.
	assert.Equal(t, ":8080", cfg.Server.Addr)
	assert.Equal(t, 10*time.Second, cfg.Server.ReadTimeout)
	assert.Equal(t, 30*time.Second, cfg.Server.WriteTimeout)
	assert.InDelta(t, 50.0, cfg.Server.RateLimitRPS, 1e-9)
	assert.Equal(t, 100, cfg.Server.RateBurst)

	// Cache defaults.
	assert.Equal(t, 60*time.Second, cfg.Cache.DomainTTL)
	assert.False(t, cfg.Cache.DevFallback)

	// Admin surface disabled by default.
	assert.Empty(t, cfg.Admin.Token)
}

func TestLoad_AllCustomValues(t *testing.T) {
	envs := map[string]string{
		// Database
		"NEWSGRID_DB_HOST":      "db.prod.internal",
		"NEWSGRID_DB_PORT":      "5433",
		"NEWSGRID_DB_USER":      "prod_user",
		"NEWSGRID_DB_PASSWORD":  "s3cret!",
		"NEWSGRID_DB_NAME":      "newsgrid_prod",
		"NEWSGRID_DB_SSLMODE":   "require",
		"NEWSGRID_DB_MAX_CONNS": "50",
		// Redis
		"NEWSGRID_REDIS_ADDR":     "redis.prod:6380",
		"NEWSGRID_REDIS_PASSWORD": "redis-pass",
		"NEWSGRID_REDIS_DB":       "3",
		// Server
		"NEWSGRID_SERVER_ADDR":          ":9090",
		"NEWSGRID_SERVER_READ_TIMEOUT":  "5s",
		"NEWSGRID_SERVER_WRITE_TIMEOUT": "15s",
		"NEWSGRID_RATE_LIMIT_RPS":       "10",
		"NEWSGRID_RATE_LIMIT_BURST":     "20",
		// Cache
		"NEWSGRID_DOMAIN_CACHE_TTL": "2m",
		"NEWSGRID_DEV_FALLBACK":     "true",
		// Admin
		"NEWSGRID_ADMIN_TOKEN": "ops-token",
	}

	for k, v := range envs {
		t.Setenv(k, v)
	}

	cfg, err := Load()
	require.NoError(t, err)
	require.NotNil(t, cfg)

	// Database
	assert.Equal(t, "db.prod.internal", cfg.Database.Host)
	assert.Equal(t, 5433, cfg.Database.Port)
	assert.Equal(t, "prod_user", cfg.Database.User)
	assert.Equal(t, "s3cret!", cfg.Database.Password)
	assert.Equal(t, "newsgrid_prod", cfg.Database.DBName)
	assert.Equal(t, "require", cfg.Database.SSLMode)
	assert.Equal(t, 50, cfg.Database.MaxConns)

	// Redis
	assert.Equal(t, "redis.prod:6380", cfg.Redis.Addr)
	assert.Equal(t, "redis-pass", cfg.Redis.Password)
	assert.Equal(t, 3, cfg.Redis.DB)

	// Server
	assert.Equal(t, ":9090", cfg.Server.Addr)
	assert.Equal(t, 5*time.Second, cfg.Server.ReadTimeout)
	assert.Equal(t, 15*time.Second, cfg.Server.WriteTimeout)
	assert.InDelta(t, 10.0, cfg.Server.RateLimitRPS, 1e-9)
	assert.Equal(t, 20, cfg.Server.RateBurst)

	// Cache
	assert.Equal(t, 2*time.Minute, cfg.Cache.DomainTTL)
	assert.True(t, cfg.Cache.DevFallback)

	// Admin
	assert.Equal(t, "ops-token", cfg.Admin.Token)
}

// ---------------------------------------------------------------------------
// DSN() output format
// ---------------------------------------------------------------------------

func TestDatabaseConfig_DSN(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		cfg  DatabaseConfig
		want string
	}{
		{
			name: "default dev values",
			cfg: DatabaseConfig{
				Host: "localhost", Port: 5432, User: "newsgrid",
				Password: "", DBName: "newsgrid_dev", SSLMode: "disable",
			},
			want: "host=localhost port=5432 user=newsgrid password= dbname=newsgrid_dev sslmode=disable",
		},
		{
			name: "production values",
			cfg: DatabaseConfig{
				Host: "db.prod", Port: 5433, User: "admin",
				Password: "p@ss!", DBName: "newsgrid_prod", SSLMode: "require",
			},
			want: "host=db.prod port=5433 user=admin password=p@ss! dbname=newsgrid_prod sslmode=require",
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()
			assert.Equal(t, tc.want, tc.cfg.DSN())
		})
	}
}

// ---------------------------------------------------------------------------
// validate() direct tests
// ---------------------------------------------------------------------------

func TestValidate(t *testing.T) {
	t.Parallel()

	// validBase returns a Config that passes validation.
	validBase := func() *Config {
		return &Config{
			Database: DatabaseConfig{Port: 5432, MaxConns: 25},
			Server: ServerConfig{
				ReadTimeout:  10 * time.Second,
				WriteTimeout: 30 * time.Second,
				RateLimitRPS: 50,
				RateBurst:    100,
			},
			Cache: CacheConfig{DomainTTL: 60 * time.Second},
		}
	}

	t.Run("valid config passes", func(t *testing.T) {
		t.Parallel()
		assert.NoError(t, validBase().validate())
	})

	t.Run("port 0 fails", func(t *testing.T) {
		t.Parallel()
		c := validBase()
		c.Database.Port = 0
		assert.ErrorContains(t, c.validate(), "NEWSGRID_DB_PORT")
	})

	t.Run("port 65536 fails", func(t *testing.T) {
		t.Parallel()
		c := validBase()
		c.Database.Port = 65536
		assert.ErrorContains(t, c.validate(), "NEWSGRID_DB_PORT")
	})

	t.Run("port boundaries pass", func(t *testing.T) {
		t.Parallel()
		c := validBase()
		c.Database.Port = 1
		assert.NoError(t, c.validate())
		c.Database.Port = 65535
		assert.NoError(t, c.validate())
	})

	t.Run("MaxConns 0 fails", func(t *testing.T) {
		t.Parallel()
		c := validBase()
		c.Database.MaxConns = 0
		assert.ErrorContains(t, c.validate(), "NEWSGRID_DB_MAX_CONNS")
	})

	t.Run("ReadTimeout 0 fails", func(t *testing.T) {
		t.Parallel()
		c := validBase()
		c.Server.ReadTimeout = 0
		assert.ErrorContains(t, c.validate(), "NEWSGRID_SERVER_READ_TIMEOUT")
	})

	t.Run("WriteTimeout negative fails", func(t *testing.T) {
		t.Parallel()
		c := validBase()
		c.Server.WriteTimeout = -time.Second
		assert.ErrorContains(t, c.validate(), "NEWSGRID_SERVER_WRITE_TIMEOUT")
	})

	t.Run("RateLimitRPS 0 fails", func(t *testing.T) {
		t.Parallel()
		c := validBase()
		c.Server.RateLimitRPS = 0
		assert.ErrorContains(t, c.validate(), "NEWSGRID_RATE_LIMIT_RPS")
	})

	t.Run("RateBurst 0 fails", func(t *testing.T) {
		t.Parallel()
		c := validBase()
		c.Server.RateBurst = 0
		assert.ErrorContains(t, c.validate(), "NEWSGRID_RATE_LIMIT_BURST")
	})

	t.Run("DomainTTL 0 fails", func(t *testing.T) {
		t.Parallel()
		c := validBase()
		c.Cache.DomainTTL = 0
		assert.ErrorContains(t, c.validate(), "NEWSGRID_DOMAIN_CACHE_TTL")
	})
}

// ---------------------------------------------------------------------------
// Test helper
// ---------------------------------------------------------------------------

func strPtr(s string) *string {
	return &s
}
