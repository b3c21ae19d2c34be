package config

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"gopkg.in/yaml.v3"
)

// Backend names accepted by StoreBackend, CacheBackend and MetricsBackend.
const (
	BackendMemory     = "memory"
	BackendDynamoDB   = "dynamodb"
	BackendRedis      = "redis"
	BackendPrometheus = "prometheus"
	BackendCloudWatch = "cloudwatch"
	BackendNone       = "none"
)

// Config holds all application configuration
type Config struct {
	// Server configuration
	ServerAddress   string        `yaml:"server_address"`
	Environment     string        `yaml:"environment"`
	ShutdownTimeout time.Duration `yaml:"shutdown_timeout"`

	// AWS configuration
	AWSRegion     string `yaml:"aws_region"`
	DynamoDBTable string `yaml:"dynamodb_table"`
	EntityIndex   string `yaml:"entity_index"`   // GSI1 - entity type by creation time
	RelationIndex string `yaml:"relation_index"` // GSI2 - user orders, product reviews, coupon codes
	EventBusName  string `yaml:"event_bus_name"`

	// Backends
	StoreBackend   string `yaml:"store_backend"`
	CacheBackend   string `yaml:"cache_backend"`
	MetricsBackend string `yaml:"metrics_backend"`

	// Cache
	RedisURL           string        `yaml:"redis_url"`
	CachePrefix        string        `yaml:"cache_prefix"`
	CacheSweepInterval time.Duration `yaml:"cache_sweep_interval"`

	// WebSocket configuration
	WebSocketEndpoint string `yaml:"websocket_endpoint"`
	ConnectionsTable  string `yaml:"connections_table"`

	// RateLimitPerMinute caps API requests per caller. Zero disables it.
	RateLimitPerMinute int `yaml:"rate_limit_per_minute"`

	// Logging
	LogLevel string `yaml:"log_level"`

	MetricsNamespace string `yaml:"metrics_namespace"`

	// Feature flags
	EnableTracing bool `yaml:"enable_tracing"`
	EnableCORS    bool `yaml:"enable_cors"`
}

func defaults() *Config {
	return &Config{
		ServerAddress:      ":8080",
		Environment:        "development",
		ShutdownTimeout:    15 * time.Second,
		AWSRegion:          "us-west-2",
		DynamoDBTable:      "storeadmin",
		EntityIndex:        "EntityIndex",
		RelationIndex:      "RelationIndex",
		EventBusName:       "storeadmin-events",
		StoreBackend:       BackendMemory,
		CacheBackend:       BackendMemory,
		MetricsBackend:     BackendPrometheus,
		CachePrefix:        "storeadmin:",
		CacheSweepInterval: time.Minute,
		ConnectionsTable:   "storeadmin-connections",
		RateLimitPerMinute: 600,
		LogLevel:           "info",
		MetricsNamespace:   "storeadmin",
		EnableCORS:         true,
	}
}

// LoadConfig builds the configuration from defaults, then the YAML file
// named by CONFIG_FILE, then environment variables.
func LoadConfig() (*Config, error) {
	cfg := defaults()

	if path := os.Getenv("CONFIG_FILE"); path != "" {
		if err := cfg.overlayFile(path); err != nil {
			return nil, err
		}
	}

	cfg.ServerAddress = getEnv("SERVER_ADDRESS", cfg.ServerAddress)
	cfg.Environment = getEnv("ENVIRONMENT", cfg.Environment)
	cfg.ShutdownTimeout = getEnvDuration("SHUTDOWN_TIMEOUT", cfg.ShutdownTimeout)
	cfg.AWSRegion = getEnv("AWS_REGION", cfg.AWSRegion)
	cfg.DynamoDBTable = getEnv("TABLE_NAME", getEnv("DYNAMODB_TABLE", cfg.DynamoDBTable))
	cfg.EntityIndex = getEnv("ENTITY_INDEX_NAME", cfg.EntityIndex)
	cfg.RelationIndex = getEnv("RELATION_INDEX_NAME", cfg.RelationIndex)
	cfg.EventBusName = getEnv("EVENT_BUS_NAME", cfg.EventBusName)

	cfg.StoreBackend = getEnv("STORE_BACKEND", cfg.StoreBackend)
	cfg.CacheBackend = getEnv("CACHE_BACKEND", cfg.CacheBackend)
	cfg.MetricsBackend = getEnv("METRICS_BACKEND", cfg.MetricsBackend)

	cfg.RedisURL = getEnv("REDIS_URL", cfg.RedisURL)
	cfg.CachePrefix = getEnv("CACHE_PREFIX", cfg.CachePrefix)
	cfg.CacheSweepInterval = getEnvDuration("CACHE_SWEEP_INTERVAL", cfg.CacheSweepInterval)

	cfg.WebSocketEndpoint = getEnv("WEBSOCKET_ENDPOINT", cfg.WebSocketEndpoint)
	cfg.ConnectionsTable = getEnv("CONNECTIONS_TABLE", cfg.ConnectionsTable)

	cfg.RateLimitPerMinute = getEnvInt("RATE_LIMIT_PER_MINUTE", cfg.RateLimitPerMinute)

	cfg.LogLevel = getEnv("LOG_LEVEL", cfg.LogLevel)
	cfg.MetricsNamespace = getEnv("METRICS_NAMESPACE", cfg.MetricsNamespace)
	cfg.EnableTracing = getEnvBool("ENABLE_TRACING", cfg.EnableTracing)
	cfg.EnableCORS = getEnvBool("ENABLE_CORS", cfg.EnableCORS)

	// Validate required configuration
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

// Load is an alias for LoadConfig
func Load() (*Config, error) {
	return LoadConfig()
}

func (c *Config) overlayFile(path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("read config file %s: %w", path, err)
	}
	if err := yaml.Unmarshal(data, c); err != nil {
		return fmt.Errorf("parse config file %s: %w", path, err)
	}
	return nil
}

// Validate checks if all required configuration is present
func (c *Config) Validate() error {
	switch c.StoreBackend {
	case BackendMemory, BackendDynamoDB:
	default:
		return fmt.Errorf("unknown STORE_BACKEND %q", c.StoreBackend)
	}

	switch c.CacheBackend {
	case BackendMemory:
	case BackendRedis:
		if c.RedisURL == "" {
			return fmt.Errorf("REDIS_URL is required when CACHE_BACKEND is redis")
		}
	default:
		return fmt.Errorf("unknown CACHE_BACKEND %q", c.CacheBackend)
	}

	switch c.MetricsBackend {
	case BackendPrometheus, BackendCloudWatch, BackendNone:
	default:
		return fmt.Errorf("unknown METRICS_BACKEND %q", c.MetricsBackend)
	}

	if c.RateLimitPerMinute < 0 {
		return fmt.Errorf("RATE_LIMIT_PER_MINUTE cannot be negative")
	}

	if c.CacheSweepInterval < 0 {
		return fmt.Errorf("CACHE_SWEEP_INTERVAL cannot be negative")
	}

	if c.StoreBackend == BackendDynamoDB && c.DynamoDBTable == "" {
		return fmt.Errorf("DYNAMODB_TABLE is required")
	}

	if c.Environment == "production" {
		if c.StoreBackend == BackendMemory {
			return fmt.Errorf("STORE_BACKEND memory is not allowed in production")
		}
		if c.EventBusName == "" {
			return fmt.Errorf("EVENT_BUS_NAME is required")
		}
	}

	return nil
}

// IsDevelopment checks if running in development mode
func (c *Config) IsDevelopment() bool {
	return c.Environment == "development"
}

// IsProduction checks if running in production mode
func (c *Config) IsProduction() bool {
	return c.Environment == "production"
}

// getEnv gets an environment variable with a default value
func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

// getEnvBool gets a boolean environment variable with a default value
func getEnvBool(key string, defaultValue bool) bool {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	return value == "true" || value == "1" || value == "yes"
}

// getEnvInt gets an integer environment variable with a default value
func getEnvInt(key string, defaultValue int) int {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	if n, err := strconv.Atoi(value); err == nil {
		return n
	}
	return defaultValue
}

// getEnvDuration accepts Go durations ("90s") or whole seconds ("90")
func getEnvDuration(key string, defaultValue time.Duration) time.Duration {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	if d, err := time.ParseDuration(value); err == nil {
		return d
	}
	if secs, err := strconv.Atoi(value); err == nil {
		return time.Duration(secs) * time.Second
	}
	return defaultValue
}
