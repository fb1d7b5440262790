package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

type Config struct {
	// Server
	Port     string `mapstructure:"PORT" validate:"required,numeric"`
	Env      string `mapstructure:"ENV" validate:"oneof=development production test"`
	LogLevel string `mapstructure:"LOG_LEVEL"`

	// CORS
	CorsOrigins []string `mapstructure:"CORS_ORIGINS"`

	// Inbound limits
	RateLimitRequests int           `mapstructure:"RATE_LIMIT_REQUESTS" validate:"gte=1"`
	RateLimitWindow   time.Duration `mapstructure:"RATE_LIMIT_WINDOW" validate:"gt=0"`
	MaxBodyBytes      int64         `mapstructure:"MAX_BODY_BYTES" validate:"gte=1"`
	MaxBatchSize      int           `mapstructure:"MAX_BATCH_SIZE" validate:"gte=1"`
	RequestTimeout    time.Duration `mapstructure:"REQUEST_TIMEOUT" validate:"gt=0"`

	// Resolver
	ResolverConcurrency int    `mapstructure:"RESOLVER_CONCURRENCY" validate:"gte=1,lte=16"`
	DefaultSeason       string `mapstructure:"DEFAULT_SEASON" validate:"required"`

	// Statistics provider
	ProviderBaseURL    string        `mapstructure:"PROVIDER_BASE_URL" validate:"required,url"`
	ProviderSearchPath string        `mapstructure:"PROVIDER_SEARCH_PATH" validate:"required,startswith=/"`
	ProviderDetailPath string        `mapstructure:"PROVIDER_DETAIL_PATH" validate:"required,startswith=/"`
	ProviderAPIKey     string        `mapstructure:"PROVIDER_API_KEY"`
	ProviderUserAgent  string        `mapstructure:"PROVIDER_USER_AGENT"`
	ExternalAPITimeout time.Duration `mapstructure:"EXTERNAL_API_TIMEOUT" validate:"gt=0"`
	ProviderRateLimit  float64       `mapstructure:"PROVIDER_RATE_LIMIT" validate:"gt=0"`
	ProviderMaxRetries int           `mapstructure:"PROVIDER_MAX_RETRIES" validate:"gte=0,lte=10"`
	ProviderMaxBackoff time.Duration `mapstructure:"PROVIDER_MAX_BACKOFF" validate:"gt=0"`

	// Circuit breaker
	CircuitBreakerThreshold int           `mapstructure:"CIRCUIT_BREAKER_THRESHOLD" validate:"gte=1"`
	CircuitBreakerTimeout   time.Duration `mapstructure:"CIRCUIT_BREAKER_TIMEOUT" validate:"gt=0"`

	// Redis response cache, disabled when REDIS_URL is empty
	RedisURL string        `mapstructure:"REDIS_URL"`
	CacheTTL time.Duration `mapstructure:"CACHE_TTL" validate:"gte=0"`
}

func LoadConfig() (*Config, error) {
	// .env is optional; real environment variables take precedence
	_ = godotenv.Load()

	v := viper.New()

	v.SetDefault("PORT", "3000")
	v.SetDefault("ENV", "development")
	v.SetDefault("LOG_LEVEL", "")
	v.SetDefault("CORS_ORIGINS", "*")
	v.SetDefault("RATE_LIMIT_REQUESTS", 60)
	v.SetDefault("RATE_LIMIT_WINDOW", "60s")
	v.SetDefault("MAX_BODY_BYTES", 1<<20)
	v.SetDefault("MAX_BATCH_SIZE", 50)
	v.SetDefault("REQUEST_TIMEOUT", "60s")
	v.SetDefault("RESOLVER_CONCURRENCY", 1) // one name at a time, in order
	v.SetDefault("DEFAULT_SEASON", "2025")
	v.SetDefault("PROVIDER_BASE_URL", "https://www.fotmob.com/api")
	v.SetDefault("PROVIDER_SEARCH_PATH", "/search")
	v.SetDefault("PROVIDER_DETAIL_PATH", "/playerData")
	v.SetDefault("PROVIDER_API_KEY", "")
	v.SetDefault("PROVIDER_USER_AGENT", "Mozilla/5.0")
	v.SetDefault("EXTERNAL_API_TIMEOUT", "10s")
	v.SetDefault("PROVIDER_RATE_LIMIT", 5)
	v.SetDefault("PROVIDER_MAX_RETRIES", 2)
	v.SetDefault("PROVIDER_MAX_BACKOFF", "5s")
	v.SetDefault("CIRCUIT_BREAKER_THRESHOLD", 5)
	v.SetDefault("CIRCUIT_BREAKER_TIMEOUT", "30s")
	v.SetDefault("REDIS_URL", "")
	v.SetDefault("CACHE_TTL", "10m")

	v.AutomaticEnv()

	var config Config
	if err := v.Unmarshal(&config); err != nil {
		return nil, fmt.Errorf("unable to decode config: %w", err)
	}

	// Parse CORS origins from comma-separated string
	config.CorsOrigins = splitList(v.GetString("CORS_ORIGINS"))

	if err := Validate(&config); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return &config, nil
}

// Validate checks the struct tags on cfg and reports every failing field.
func Validate(cfg *Config) error {
	if err := validator.New().Struct(cfg); err != nil {
		if validationErrs, ok := err.(validator.ValidationErrors); ok {
			messages := make([]string, 0, len(validationErrs))
			for _, e := range validationErrs {
				messages = append(messages, fmt.Sprintf("field '%s' failed validation: %s (value: '%v')", e.Field(), e.Tag(), e.Value()))
			}
			return fmt.Errorf("validation failed: %s", strings.Join(messages, "; "))
		}
		return err
	}
	return nil
}

func (c *Config) IsDevelopment() bool {
	return c.Env == "development"
}

func (c *Config) IsProduction() bool {
	return c.Env == "production"
}

// CacheEnabled reports whether provider responses should be cached in Redis.
func (c *Config) CacheEnabled() bool {
	return c.RedisURL != "" && c.CacheTTL > 0
}

func splitList(raw string) []string {
	var out []string
	for _, part := range strings.Split(raw, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}
