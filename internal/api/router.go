package api

import (
	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"github.com/stitts-dev/player-stats-relay/internal/api/handlers"
	"github.com/stitts-dev/player-stats-relay/internal/api/middleware"
	"github.com/stitts-dev/player-stats-relay/internal/services"
	"github.com/stitts-dev/player-stats-relay/pkg/config"
)

// Services bundles what the HTTP layer depends on
type Services struct {
	Resolver *services.BatchResolver
	Scoring  *services.ScoringService
	Breakers *services.CircuitBreakerService
	Limiter  *services.ClientRateLimiter
	// Cache is nil when the response cache is disabled
	Cache  handlers.Pinger
	Logger *logrus.Logger
}

// NewRouter builds the gin engine with middleware and all routes registered
func NewRouter(cfg *config.Config, svc Services) *gin.Engine {
	router := gin.New()

	router.Use(middleware.Recovery(svc.Logger))
	router.Use(middleware.RequestID())
	router.Use(middleware.RequestLogger(svc.Logger))
	router.Use(middleware.CORS(cfg.CorsOrigins))

	healthHandler := handlers.NewHealthHandler(svc.Breakers, svc.Limiter, svc.Cache)
	router.GET("/health", healthHandler.GetHealth)

	api := router.Group("/api")
	api.Use(middleware.RateLimit(svc.Limiter, svc.Logger))
	api.Use(middleware.BodyLimit(cfg.MaxBodyBytes))
	SetupRoutes(api, svc, cfg)

	return router
}

// SetupRoutes configures all API routes on the given router group
func SetupRoutes(group *gin.RouterGroup, svc Services, cfg *config.Config) {
	statsHandler := handlers.NewStatsHandler(svc.Resolver, svc.Scoring, svc.Logger, cfg.RequestTimeout)

	group.POST("/player-stats-batch", statsHandler.PlayerStatsBatch)
	group.POST("/player-points-batch", statsHandler.PlayerPointsBatch)
	group.POST("/expert-leaderboard", statsHandler.ExpertLeaderboard)
}
