package handlers

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/sony/gobreaker"

	"github.com/stitts-dev/player-stats-relay/internal/services"
)

const healthCheckTimeout = 2 * time.Second

// Pinger is implemented by dependencies that can report reachability
type Pinger interface {
	Ping(ctx context.Context) error
}

type HealthHandler struct {
	breakers  *services.CircuitBreakerService
	limiter   *services.ClientRateLimiter
	cache     Pinger
	startTime time.Time
}

// NewHealthHandler creates a health handler. limiter and cache may be nil.
func NewHealthHandler(breakers *services.CircuitBreakerService, limiter *services.ClientRateLimiter, cache Pinger) *HealthHandler {
	return &HealthHandler{
		breakers:  breakers,
		limiter:   limiter,
		cache:     cache,
		startTime: time.Now(),
	}
}

// GetHealth always answers 200 while the process serves requests; status
// reports "degraded" when the provider breaker is open or the cache is unreachable.
func (h *HealthHandler) GetHealth(c *gin.Context) {
	status := "ok"

	breakerState := h.breakers.GetState(services.StatsProviderBreaker)
	if breakerState == gobreaker.StateOpen {
		status = "degraded"
	}

	cacheStatus := "disabled"
	if h.cache != nil {
		ctx, cancel := context.WithTimeout(c.Request.Context(), healthCheckTimeout)
		defer cancel()
		if err := h.cache.Ping(ctx); err != nil {
			cacheStatus = "unavailable"
			status = "degraded"
		} else {
			cacheStatus = "ok"
		}
	}

	counts := h.breakers.GetCounts(services.StatsProviderBreaker)
	body := gin.H{
		"status":          status,
		"service":         "player-stats-relay",
		"circuit_breaker": breakerState.String(),
		"breaker_counts": gin.H{
			"requests":             counts.Requests,
			"total_failures":       counts.TotalFailures,
			"consecutive_failures": counts.ConsecutiveFailures,
		},
		"cache":  cacheStatus,
		"uptime": time.Since(h.startTime).Round(time.Second).String(),
	}
	if h.limiter != nil {
		body["rate_limit"] = h.limiter.GetStats()
	}

	c.JSON(http.StatusOK, body)
}
