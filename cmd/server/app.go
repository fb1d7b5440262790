package main

import (
	"context"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/sirupsen/logrus"

	"github.com/stitts-dev/player-stats-relay/internal/api"
	"github.com/stitts-dev/player-stats-relay/internal/dfs"
	"github.com/stitts-dev/player-stats-relay/internal/providers"
	"github.com/stitts-dev/player-stats-relay/internal/services"
	"github.com/stitts-dev/player-stats-relay/internal/stats"
	"github.com/stitts-dev/player-stats-relay/pkg/config"
)

// app holds the wired service graph shared by serve and resolve
type app struct {
	services    api.Services
	redisClient *redis.Client
}

func (a *app) Close() {
	if a.redisClient != nil {
		_ = a.redisClient.Close()
	}
}

func newApp(cfg *config.Config, logger *logrus.Logger) *app {
	a := &app{}

	var cache dfs.CacheProvider
	var cacheService *services.CacheService
	if cfg.CacheEnabled() {
		cacheService, a.redisClient = connectCache(cfg, logger)
		if cacheService != nil {
			cache = cacheService
		}
	}

	client := providers.NewStatsAPIClient(providers.StatsAPIConfig{
		BaseURL:    cfg.ProviderBaseURL,
		SearchPath: cfg.ProviderSearchPath,
		DetailPath: cfg.ProviderDetailPath,
		APIKey:     cfg.ProviderAPIKey,
		UserAgent:  cfg.ProviderUserAgent,
		Timeout:    cfg.ExternalAPITimeout,
		RateLimit:  cfg.ProviderRateLimit,
		MaxRetries: cfg.ProviderMaxRetries,
		MaxBackoff: cfg.ProviderMaxBackoff,
		CacheTTL:   cfg.CacheTTL,
	}, cache, logger)

	breakers := services.NewCircuitBreakerService(cfg.CircuitBreakerThreshold, cfg.CircuitBreakerTimeout, logger)
	resolver := services.NewBatchResolver(
		services.NewGuardedProvider(client, breakers),
		logger,
		cfg.ResolverConcurrency,
		cfg.MaxBatchSize,
		cfg.DefaultSeason,
	)

	a.services = api.Services{
		Resolver: resolver,
		Scoring:  services.NewScoringService(resolver, stats.DefaultScoringRules),
		Breakers: breakers,
		Limiter:  services.NewClientRateLimiter(cfg.RateLimitRequests, cfg.RateLimitWindow),
		Logger:   logger,
	}
	if cacheService != nil {
		a.services.Cache = cacheService
	}

	return a
}

// connectCache returns nil when Redis cannot be used; the relay then runs uncached
func connectCache(cfg *config.Config, logger *logrus.Logger) (*services.CacheService, *redis.Client) {
	opt, err := redis.ParseURL(cfg.RedisURL)
	if err != nil {
		logger.WithError(err).Warn("Invalid REDIS_URL, response cache disabled")
		return nil, nil
	}

	client := redis.NewClient(opt)
	ctx, cancel := context.WithTimeout(context.Background(), 3*time.Second)
	defer cancel()
	if err := client.Ping(ctx).Err(); err != nil {
		logger.WithError(err).Warn("Redis unreachable, response cache disabled")
		_ = client.Close()
		return nil, nil
	}

	logger.WithField("ttl", cfg.CacheTTL.String()).Info("Provider response cache enabled")
	return services.NewCacheService(client), client
}
