package config

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// Config holds all configuration for the application
type Config struct {
	Server        ServerConfig        `mapstructure:"server"`
	Log           LogConfig           `mapstructure:"log"`
	Cache         CacheConfig         `mapstructure:"cache"`
	OpenFoodFacts OpenFoodFactsConfig `mapstructure:"openfoodfacts"`
	Kassalapp     KassalappConfig     `mapstructure:"kassalapp"`
	USDA          USDAConfig          `mapstructure:"usda"`
	FoodTable     FoodTableConfig     `mapstructure:"foodtable"`
	Search        SearchConfig        `mapstructure:"search"`
}

// ServerConfig holds server-related configuration
type ServerConfig struct {
	Port           string   `mapstructure:"port"`
	Environment    string   `mapstructure:"environment"`
	AllowedOrigins []string `mapstructure:"allowed_origins"`
}

// LogConfig selects the zap level and encoding
type LogConfig struct {
	Level    string `mapstructure:"level"`
	Encoding string `mapstructure:"encoding"` // "json" or "console"
}

// CacheConfig holds cache-related configuration
type CacheConfig struct {
	Type            string        `mapstructure:"type"` // "memory" or "redis"
	RedisURL        string        `mapstructure:"redis_url"`
	TTL             time.Duration `mapstructure:"ttl"`
	Capacity        int           `mapstructure:"capacity"`
	CleanupInterval time.Duration `mapstructure:"cleanup_interval"`
}

// OpenFoodFactsConfig holds Open Food Facts API configuration
type OpenFoodFactsConfig struct {
	BaseURL   string        `mapstructure:"base_url"`
	UserAgent string        `mapstructure:"user_agent"`
	Timeout   time.Duration `mapstructure:"timeout"`
}

// KassalappConfig holds Kassalapp API configuration. An empty API key
// disables the adapter.
type KassalappConfig struct {
	BaseURL           string        `mapstructure:"base_url"`
	APIKey            string        `mapstructure:"api_key"`
	Timeout           time.Duration `mapstructure:"timeout"`
	RequestsPerMinute int           `mapstructure:"requests_per_minute"`
}

// USDAConfig holds USDA API configuration. An empty API key leaves only the
// local food table as nutrition reference.
type USDAConfig struct {
	APIKey  string `mapstructure:"api_key"`
	BaseURL string `mapstructure:"base_url"`
}

// FoodTableConfig locates the SQLite food composition table.
// An empty path keeps the table in memory.
type FoodTableConfig struct {
	Path     string `mapstructure:"path"`
	SeedFile string `mapstructure:"seed_file"`
}

// SearchConfig holds result limits for product search
type SearchConfig struct {
	DefaultLimit int `mapstructure:"default_limit"`
	MaxLimit     int `mapstructure:"max_limit"`
}

// IsDevelopment reports whether the server runs in development mode
func (c ServerConfig) IsDevelopment() bool {
	return c.Environment == "development"
}

// Load loads configuration from environment variables and config files
func Load() (*Config, error) {
	v := viper.New()

	v.SetConfigName("config")
	v.SetConfigType("yaml")
	v.AddConfigPath(".")
	v.AddConfigPath("./config")
	v.AddConfigPath("/etc/greenscan/")

	// GREENSCAN_CACHE_REDIS_URL -> cache.redis_url
	v.SetEnvPrefix("GREENSCAN")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	setDefaults(v)

	// The config file is optional
	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return nil, fmt.Errorf("error reading config file: %w", err)
		}
	}

	var config Config
	if err := v.Unmarshal(&config); err != nil {
		return nil, fmt.Errorf("unable to decode config: %w", err)
	}

	if err := validate(&config); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return &config, nil
}

// setDefaults sets default configuration values. Every key gets a default so
// that AutomaticEnv can override it during Unmarshal.
func setDefaults(v *viper.Viper) {
	v.SetDefault("server.port", "8080")
	v.SetDefault("server.environment", "development")
	v.SetDefault("server.allowed_origins", []string{"chrome-extension://*"})

	v.SetDefault("log.level", "")
	v.SetDefault("log.encoding", "")

	v.SetDefault("cache.type", "memory")
	v.SetDefault("cache.redis_url", "")
	v.SetDefault("cache.ttl", "30m")
	v.SetDefault("cache.capacity", 100)
	v.SetDefault("cache.cleanup_interval", "5m")

	v.SetDefault("openfoodfacts.base_url", "https://world.openfoodfacts.org")
	v.SetDefault("openfoodfacts.user_agent", "GreenScan/1.0 (https://github.com/greenscan/backend)")
	v.SetDefault("openfoodfacts.timeout", "10s")

	v.SetDefault("kassalapp.base_url", "https://kassal.app/api/v1")
	v.SetDefault("kassalapp.api_key", "")
	v.SetDefault("kassalapp.timeout", "10s")
	v.SetDefault("kassalapp.requests_per_minute", 60)

	v.SetDefault("usda.base_url", "https://api.nal.usda.gov/fdc")
	v.SetDefault("usda.api_key", "")

	v.SetDefault("foodtable.path", "")
	v.SetDefault("foodtable.seed_file", "")

	v.SetDefault("search.default_limit", 20)
	v.SetDefault("search.max_limit", 50)
}

// validate validates the configuration
func validate(config *Config) error {
	if config.Server.Port == "" {
		return fmt.Errorf("server port is required")
	}

	if config.Cache.Type != "memory" && config.Cache.Type != "redis" {
		return fmt.Errorf("cache type must be 'memory' or 'redis', got: %s", config.Cache.Type)
	}

	if config.Cache.Type == "redis" && config.Cache.RedisURL == "" {
		return fmt.Errorf("redis URL is required when cache type is 'redis' (set GREENSCAN_CACHE_REDIS_URL)")
	}

	if config.Cache.Capacity <= 0 {
		return fmt.Errorf("cache capacity must be positive, got: %d", config.Cache.Capacity)
	}

	if config.Cache.TTL <= 0 {
		return fmt.Errorf("cache ttl must be positive, got: %s", config.Cache.TTL)
	}

	if config.Kassalapp.RequestsPerMinute < 0 {
		return fmt.Errorf("kassalapp requests_per_minute must not be negative, got: %d", config.Kassalapp.RequestsPerMinute)
	}

	if config.Search.DefaultLimit <= 0 || config.Search.MaxLimit <= 0 {
		return fmt.Errorf("search limits must be positive")
	}

	if config.Search.DefaultLimit > config.Search.MaxLimit {
		return fmt.Errorf("search default_limit (%d) exceeds max_limit (%d)", config.Search.DefaultLimit, config.Search.MaxLimit)
	}

	switch config.Log.Encoding {
	case "", "json", "console":
	default:
		return fmt.Errorf("log encoding must be 'json' or 'console', got: %s", config.Log.Encoding)
	}

	return nil
}
