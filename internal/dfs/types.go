package dfs

import (
	"context"
	"errors"
	"time"

	"github.com/stitts-dev/player-stats-relay/internal/models"
)

// ErrPlayerNotFound is returned when the provider has no record for a lookup
var ErrPlayerNotFound = errors.New("player not found")

// ErrCacheMiss is returned by CacheProvider.Get when the key is absent
var ErrCacheMiss = errors.New("cache miss")

// StatsProvider is the external statistics source consumed by the resolver
type StatsProvider interface {
	// SearchPlayers returns the candidates matching a free-text name, best match first
	SearchPlayers(ctx context.Context, name string) ([]models.PlayerCandidate, error)
	// GetPlayerDetail returns the raw detail payload for a candidate ID
	GetPlayerDetail(ctx context.Context, playerID string) (models.Blob, error)
}

// CacheProvider interface for cache operations
type CacheProvider interface {
	Set(ctx context.Context, key string, value interface{}, expiration time.Duration) error
	Get(ctx context.Context, key string, dest interface{}) error
}
