package config

import (
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad(t *testing.T) {
	t.Run("loads with defaults when no env vars set", func(t *testing.T) {
		cfg, err := Load()
		if err != nil {
			t.Fatalf("Load() error = %v, want nil", err)
		}

		if cfg.Server.Port != "8080" {
			t.Errorf("Server.Port = %s, want 8080", cfg.Server.Port)
		}
		if !cfg.Server.IsDevelopment() {
			t.Errorf("Server.Environment = %s, want development", cfg.Server.Environment)
		}
		assert.Equal(t, []string{"chrome-extension://*"}, cfg.Server.AllowedOrigins)
		assert.Equal(t, "memory", cfg.Cache.Type)
		assert.Equal(t, 30*time.Minute, cfg.Cache.TTL)
		assert.Equal(t, 100, cfg.Cache.Capacity)
		assert.Equal(t, 5*time.Minute, cfg.Cache.CleanupInterval)
		assert.Equal(t, "https://world.openfoodfacts.org", cfg.OpenFoodFacts.BaseURL)
		assert.Equal(t, 10*time.Second, cfg.OpenFoodFacts.Timeout)
		assert.Equal(t, 60, cfg.Kassalapp.RequestsPerMinute)
		assert.Empty(t, cfg.Kassalapp.APIKey)
		assert.Equal(t, "https://api.nal.usda.gov/fdc", cfg.USDA.BaseURL)
		assert.Empty(t, cfg.FoodTable.Path)
		assert.Equal(t, 20, cfg.Search.DefaultLimit)
		assert.Equal(t, 50, cfg.Search.MaxLimit)
	})

	t.Run("loads custom values from environment variables", func(t *testing.T) {
		t.Setenv("GREENSCAN_SERVER_PORT", "9090")
		t.Setenv("GREENSCAN_SERVER_ENVIRONMENT", "production")
		t.Setenv("GREENSCAN_SERVER_ALLOWED_ORIGINS", "https://greenscan.no,http://localhost:3000")
		t.Setenv("GREENSCAN_LOG_LEVEL", "warn")
		t.Setenv("GREENSCAN_CACHE_TYPE", "redis")
		t.Setenv("GREENSCAN_CACHE_REDIS_URL", "redis://localhost:6379/0")
		t.Setenv("GREENSCAN_CACHE_TTL", "1h")
		t.Setenv("GREENSCAN_KASSALAPP_API_KEY", "kassal-key")
		t.Setenv("GREENSCAN_KASSALAPP_REQUESTS_PER_MINUTE", "30")
		t.Setenv("GREENSCAN_USDA_API_KEY", "usda-key")
		t.Setenv("GREENSCAN_FOODTABLE_PATH", "/var/lib/greenscan/foods.db")
		t.Setenv("GREENSCAN_SEARCH_MAX_LIMIT", "100")

		cfg, err := Load()
		require.NoError(t, err)

		if cfg.Server.Port != "9090" {
			t.Errorf("Server.Port = %s, want 9090", cfg.Server.Port)
		}
		assert.False(t, cfg.Server.IsDevelopment())
		assert.Equal(t, []string{"https://greenscan.no", "http://localhost:3000"}, cfg.Server.AllowedOrigins)
		assert.Equal(t, "warn", cfg.Log.Level)
		assert.Equal(t, "redis", cfg.Cache.Type)
		assert.Equal(t, "redis://localhost:6379/0", cfg.Cache.RedisURL)
		assert.Equal(t, time.Hour, cfg.Cache.TTL)
		assert.Equal(t, "kassal-key", cfg.Kassalapp.APIKey)
		assert.Equal(t, 30, cfg.Kassalapp.RequestsPerMinute)
		assert.Equal(t, "usda-key", cfg.USDA.APIKey)
		assert.Equal(t, "/var/lib/greenscan/foods.db", cfg.FoodTable.Path)
		assert.Equal(t, 100, cfg.Search.MaxLimit)
	})

	t.Run("fails validation for invalid cache type", func(t *testing.T) {
		t.Setenv("GREENSCAN_CACHE_TYPE", "memcached")

		_, err := Load()
		require.Error(t, err)
		assert.Contains(t, err.Error(), "cache type must be 'memory' or 'redis'")
	})

	t.Run("fails validation when redis URL is missing", func(t *testing.T) {
		t.Setenv("GREENSCAN_CACHE_TYPE", "redis")

		_, err := Load()
		require.Error(t, err)
		assert.True(t, strings.HasPrefix(err.Error(), "invalid configuration: redis URL is required"))
	})
}

func TestValidate(t *testing.T) {
	valid := func() *Config {
		return &Config{
			Server: ServerConfig{Port: "8080"},
			Cache:  CacheConfig{Type: "memory", TTL: time.Minute, Capacity: 10},
			Search: SearchConfig{DefaultLimit: 20, MaxLimit: 50},
		}
	}

	tests := []struct {
		name    string
		mutate  func(c *Config)
		wantErr string
	}{
		{"valid", func(c *Config) {}, ""},
		{"missing port", func(c *Config) { c.Server.Port = "" }, "server port is required"},
		{"zero capacity", func(c *Config) { c.Cache.Capacity = 0 }, "cache capacity must be positive"},
		{"zero ttl", func(c *Config) { c.Cache.TTL = 0 }, "cache ttl must be positive"},
		{"negative rate", func(c *Config) { c.Kassalapp.RequestsPerMinute = -1 }, "requests_per_minute"},
		{"zero limit", func(c *Config) { c.Search.MaxLimit = 0 }, "search limits must be positive"},
		{"default over max", func(c *Config) { c.Search.DefaultLimit = 60 }, "exceeds max_limit"},
		{"bad log encoding", func(c *Config) { c.Log.Encoding = "xml" }, "log encoding"},
		{"console log encoding", func(c *Config) { c.Log.Encoding = "console" }, ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := valid()
			tt.mutate(cfg)
			err := validate(cfg)
			if tt.wantErr == "" {
				assert.NoError(t, err)
				return
			}
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.wantErr)
		})
	}
}
