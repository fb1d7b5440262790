package handlers

import (
	"context"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/stitts-dev/player-stats-relay/internal/services"
)

type stubPinger struct {
	err error
}

func (p stubPinger) Ping(ctx context.Context) error {
	return p.err
}

func healthResponse(t *testing.T, breakers *services.CircuitBreakerService, cache Pinger) map[string]interface{} {
	t.Helper()
	return healthResponseWithLimiter(t, breakers, nil, cache)
}

func healthResponseWithLimiter(t *testing.T, breakers *services.CircuitBreakerService, limiter *services.ClientRateLimiter, cache Pinger) map[string]interface{} {
	t.Helper()
	router := gin.New()
	router.GET("/health", NewHealthHandler(breakers, limiter, cache).GetHealth)

	w := httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/health", nil))
	assert.Equal(t, http.StatusOK, w.Code)

	return decode[map[string]interface{}](t, w)
}

func TestHealthHandler_GetHealth(t *testing.T) {
	logger := logrus.New()
	logger.SetOutput(io.Discard)

	t.Run("cache disabled", func(t *testing.T) {
		body := healthResponse(t, services.NewCircuitBreakerService(5, time.Minute, logger), nil)
		assert.Equal(t, "ok", body["status"])
		assert.Equal(t, "disabled", body["cache"])
		assert.Equal(t, "closed", body["circuit_breaker"])
	})

	t.Run("cache reachable", func(t *testing.T) {
		body := healthResponse(t, services.NewCircuitBreakerService(5, time.Minute, logger), stubPinger{})
		assert.Equal(t, "ok", body["status"])
		assert.Equal(t, "ok", body["cache"])
	})

	t.Run("cache unreachable", func(t *testing.T) {
		body := healthResponse(t, services.NewCircuitBreakerService(5, time.Minute, logger), stubPinger{err: errors.New("dial tcp: refused")})
		assert.Equal(t, "degraded", body["status"])
		assert.Equal(t, "unavailable", body["cache"])
	})

	t.Run("breaker open", func(t *testing.T) {
		breakers := services.NewCircuitBreakerService(1, time.Minute, logger)
		_, _ = breakers.Execute(services.StatsProviderBreaker, func() (interface{}, error) {
			return nil, errors.New("upstream returned 503")
		})

		body := healthResponse(t, breakers, nil)
		assert.Equal(t, "degraded", body["status"])
		assert.Equal(t, "open", body["circuit_breaker"])
	})

	t.Run("breaker counts", func(t *testing.T) {
		breakers := services.NewCircuitBreakerService(5, time.Minute, logger)
		_, _ = breakers.Execute(services.StatsProviderBreaker, func() (interface{}, error) {
			return "ok", nil
		})
		_, _ = breakers.Execute(services.StatsProviderBreaker, func() (interface{}, error) {
			return nil, errors.New("upstream returned 502")
		})

		body := healthResponse(t, breakers, nil)
		counts, ok := body["breaker_counts"].(map[string]interface{})
		require.True(t, ok)
		assert.Equal(t, float64(2), counts["requests"])
		assert.Equal(t, float64(1), counts["total_failures"])
		assert.Equal(t, float64(1), counts["consecutive_failures"])
		assert.NotContains(t, body, "rate_limit")
	})

	t.Run("rate limit stats", func(t *testing.T) {
		limiter := services.NewClientRateLimiter(60, time.Minute)
		limiter.Allow("10.0.0.1")

		body := healthResponseWithLimiter(t, services.NewCircuitBreakerService(5, time.Minute, logger), limiter, nil)
		stats, ok := body["rate_limit"].(map[string]interface{})
		require.True(t, ok)
		assert.Equal(t, float64(1), stats["tracked_clients"])
		assert.Equal(t, float64(60), stats["max_requests"])
		assert.Equal(t, "1m0s", stats["window"])
	})
}
