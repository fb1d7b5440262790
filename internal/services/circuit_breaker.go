package services

import (
	"context"
	"errors"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/sony/gobreaker"

	"github.com/stitts-dev/player-stats-relay/internal/dfs"
	"github.com/stitts-dev/player-stats-relay/internal/models"
)

// StatsProviderBreaker is the breaker name used for the statistics provider
const StatsProviderBreaker = "stats-provider"

type CircuitBreakerService struct {
	breakers map[string]*gobreaker.CircuitBreaker
	logger   *logrus.Logger
}

func NewCircuitBreakerService(threshold int, timeout time.Duration, logger *logrus.Logger) *CircuitBreakerService {
	settings := gobreaker.Settings{
		Name:        StatsProviderBreaker,
		MaxRequests: 1,
		Timeout:     timeout,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			return counts.ConsecutiveFailures >= uint32(threshold)
		},
		// Misses and caller cancellations say nothing about provider health
		IsSuccessful: func(err error) bool {
			return err == nil ||
				errors.Is(err, dfs.ErrPlayerNotFound) ||
				errors.Is(err, context.Canceled)
		},
		OnStateChange: func(name string, from gobreaker.State, to gobreaker.State) {
			logger.WithFields(logrus.Fields{
				"component": "circuit_breaker",
				"service":   name,
				"from":      from.String(),
				"to":        to.String(),
			}).Warn("Circuit breaker state changed")
		},
	}

	breakers := map[string]*gobreaker.CircuitBreaker{
		StatsProviderBreaker: gobreaker.NewCircuitBreaker(settings),
	}

	return &CircuitBreakerService{
		breakers: breakers,
		logger:   logger,
	}
}

// Execute wraps a function call with circuit breaker protection
func (cb *CircuitBreakerService) Execute(service string, fn func() (interface{}, error)) (interface{}, error) {
	breaker, exists := cb.breakers[service]
	if !exists {
		cb.logger.WithFields(logrus.Fields{
			"component": "circuit_breaker",
			"service":   service,
		}).Warn("No circuit breaker found for service, executing without protection")
		return fn()
	}

	return breaker.Execute(fn)
}

// GetState returns the current state of a circuit breaker
func (cb *CircuitBreakerService) GetState(service string) gobreaker.State {
	if breaker, exists := cb.breakers[service]; exists {
		return breaker.State()
	}
	return gobreaker.StateClosed
}

// GetCounts returns the current counts for a circuit breaker
func (cb *CircuitBreakerService) GetCounts(service string) gobreaker.Counts {
	if breaker, exists := cb.breakers[service]; exists {
		return breaker.Counts()
	}
	return gobreaker.Counts{}
}

// GuardedProvider routes every provider call through the stats-provider breaker
type GuardedProvider struct {
	next     dfs.StatsProvider
	breakers *CircuitBreakerService
}

func NewGuardedProvider(next dfs.StatsProvider, breakers *CircuitBreakerService) *GuardedProvider {
	return &GuardedProvider{next: next, breakers: breakers}
}

func (p *GuardedProvider) SearchPlayers(ctx context.Context, name string) ([]models.PlayerCandidate, error) {
	result, err := p.breakers.Execute(StatsProviderBreaker, func() (interface{}, error) {
		return p.next.SearchPlayers(ctx, name)
	})
	if err != nil {
		return nil, err
	}
	candidates, _ := result.([]models.PlayerCandidate)
	return candidates, nil
}

func (p *GuardedProvider) GetPlayerDetail(ctx context.Context, playerID string) (models.Blob, error) {
	result, err := p.breakers.Execute(StatsProviderBreaker, func() (interface{}, error) {
		return p.next.GetPlayerDetail(ctx, playerID)
	})
	if err != nil {
		return nil, err
	}
	detail, _ := result.(models.Blob)
	return detail, nil
}
