package providers

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"math/rand"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cast"
	"golang.org/x/time/rate"

	"github.com/stitts-dev/player-stats-relay/internal/dfs"
	"github.com/stitts-dev/player-stats-relay/internal/models"
)

const (
	defaultBackoffBase = 500 * time.Millisecond
	defaultMaxBackoff  = 5 * time.Second
	maxResponseBytes   = 5 << 20
)

// StatsAPIConfig configures the statistics API client
type StatsAPIConfig struct {
	BaseURL     string
	SearchPath  string
	DetailPath  string
	APIKey      string
	UserAgent   string
	Timeout     time.Duration
	RateLimit   float64 // requests per second
	MaxRetries  int
	BackoffBase time.Duration
	MaxBackoff  time.Duration // upper bound on any single retry wait, Retry-After included
	CacheTTL    time.Duration
}

// StatsAPIClient implements dfs.StatsProvider against the unofficial statistics API
type StatsAPIClient struct {
	httpClient  *http.Client
	cache       dfs.CacheProvider
	logger      *logrus.Logger
	rateLimiter *rate.Limiter
	cfg         StatsAPIConfig
}

// NewStatsAPIClient creates a new statistics API client. cache may be nil.
func NewStatsAPIClient(cfg StatsAPIConfig, cache dfs.CacheProvider, logger *logrus.Logger) *StatsAPIClient {
	if cfg.Timeout <= 0 {
		cfg.Timeout = 10 * time.Second
	}
	if cfg.RateLimit <= 0 {
		cfg.RateLimit = 5
	}
	if cfg.BackoffBase <= 0 {
		cfg.BackoffBase = defaultBackoffBase
	}
	if cfg.MaxBackoff <= 0 {
		cfg.MaxBackoff = defaultMaxBackoff
	}
	cfg.BaseURL = strings.TrimRight(cfg.BaseURL, "/")

	burst := int(cfg.RateLimit)
	if burst < 1 {
		burst = 1
	}

	return &StatsAPIClient{
		httpClient: &http.Client{
			Timeout: cfg.Timeout,
		},
		cache:       cache,
		logger:      logger,
		rateLimiter: rate.NewLimiter(rate.Limit(cfg.RateLimit), burst),
		cfg:         cfg,
	}
}

// SearchPlayers queries the provider's search endpoint for a player name
func (c *StatsAPIClient) SearchPlayers(ctx context.Context, name string) ([]models.PlayerCandidate, error) {
	cacheKey := fmt.Sprintf("stats:search:%s", strings.ToLower(strings.TrimSpace(name)))

	var cached []models.PlayerCandidate
	if c.cacheGet(ctx, cacheKey, &cached) {
		return cached, nil
	}

	endpoint := fmt.Sprintf("%s%s?term=%s", c.cfg.BaseURL, c.cfg.SearchPath, url.QueryEscape(name))

	var resp models.Blob
	if err := c.makeRequest(ctx, endpoint, &resp); err != nil {
		return nil, fmt.Errorf("failed to search players: %w", err)
	}

	candidates := parseCandidates(resp)
	c.cacheSet(ctx, cacheKey, candidates)

	return candidates, nil
}

// GetPlayerDetail fetches the raw season-stat payload for a player ID
func (c *StatsAPIClient) GetPlayerDetail(ctx context.Context, playerID string) (models.Blob, error) {
	cacheKey := fmt.Sprintf("stats:detail:%s", playerID)

	var cached models.Blob
	if c.cacheGet(ctx, cacheKey, &cached) && cached != nil {
		return cached, nil
	}

	endpoint := fmt.Sprintf("%s%s?id=%s", c.cfg.BaseURL, c.cfg.DetailPath, url.QueryEscape(playerID))

	var detail models.Blob
	if err := c.makeRequest(ctx, endpoint, &detail); err != nil {
		return nil, fmt.Errorf("failed to fetch player %s: %w", playerID, err)
	}
	if detail == nil {
		return nil, fmt.Errorf("failed to fetch player %s: %w", playerID, dfs.ErrPlayerNotFound)
	}

	c.cacheSet(ctx, cacheKey, detail)

	return detail, nil
}

// parseCandidates reads {"players": [{"id": ...}, ...]} without trusting its shape.
// Entries without a usable ID are kept so the caller sees the provider's order.
func parseCandidates(resp models.Blob) []models.PlayerCandidate {
	rows, _ := resp["players"].([]interface{})
	candidates := make([]models.PlayerCandidate, 0, len(rows))
	for _, row := range rows {
		entry, ok := row.(map[string]interface{})
		if !ok {
			candidates = append(candidates, models.PlayerCandidate{})
			continue
		}
		var candidate models.PlayerCandidate
		if id, ok := entry["id"]; ok && id != nil {
			if s, err := cast.ToStringE(id); err == nil {
				candidate.ID = strings.TrimSpace(s)
			}
		}
		if name, ok := entry["name"].(string); ok {
			candidate.Name = name
		}
		candidates = append(candidates, candidate)
	}
	return candidates
}

// makeRequest performs a rate-limited GET with exponential backoff and jitter.
// Network errors, 429 and 5xx responses are retried; 404 maps to ErrPlayerNotFound.
// A retry whose wait would outlast ctx's deadline is not attempted: the last
// error is returned while the caller still has time for other work.
func (c *StatsAPIClient) makeRequest(ctx context.Context, endpoint string, target interface{}) error {
	var lastErr error

	for attempt := 0; attempt <= c.cfg.MaxRetries; attempt++ {
		if attempt > 0 {
			wait := c.backoff(attempt, lastErr)
			if deadline, ok := ctx.Deadline(); ok && time.Until(deadline) <= wait {
				return fmt.Errorf("retry wait %s exceeds request deadline: %w", wait, lastErr)
			}
			c.logger.WithFields(logrus.Fields{
				"component": "stats_api",
				"attempt":   attempt,
				"wait":      wait,
				"error":     lastErr,
			}).Warn("Retrying provider request")

			select {
			case <-ctx.Done():
				return fmt.Errorf("context cancelled: %w", ctx.Err())
			case <-time.After(wait):
			}
		}

		if err := c.rateLimiter.Wait(ctx); err != nil {
			return fmt.Errorf("rate limiter error: %w", err)
		}

		retry, err := c.do(ctx, endpoint, target)
		if err == nil {
			return nil
		}
		if !retry || ctx.Err() != nil {
			return err
		}
		lastErr = err
	}

	return fmt.Errorf("request failed after %d attempts: %w", c.cfg.MaxRetries+1, lastErr)
}

func (c *StatsAPIClient) do(ctx context.Context, endpoint string, target interface{}) (bool, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return false, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	if c.cfg.UserAgent != "" {
		req.Header.Set("User-Agent", c.cfg.UserAgent)
	}
	if c.cfg.APIKey != "" {
		req.Header.Set("X-API-Key", c.cfg.APIKey)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return true, fmt.Errorf("network error: %w", err)
	}
	defer resp.Body.Close()

	switch {
	case resp.StatusCode == http.StatusOK:
	case resp.StatusCode == http.StatusNotFound:
		return false, dfs.ErrPlayerNotFound
	case resp.StatusCode == http.StatusTooManyRequests:
		return true, &retryAfterError{retryAfter: parseRetryAfter(resp.Header.Get("Retry-After"))}
	case resp.StatusCode >= 500:
		return true, fmt.Errorf("unexpected status code: %d", resp.StatusCode)
	default:
		return false, fmt.Errorf("unexpected status code: %d", resp.StatusCode)
	}

	if err := json.NewDecoder(io.LimitReader(resp.Body, maxResponseBytes)).Decode(target); err != nil {
		return false, fmt.Errorf("failed to decode response: %w", err)
	}
	return false, nil
}

func (c *StatsAPIClient) backoff(attempt int, lastErr error) time.Duration {
	var wait time.Duration
	var ra *retryAfterError
	if errors.As(lastErr, &ra) && ra.retryAfter > 0 {
		wait = ra.retryAfter
	} else {
		base := c.cfg.BackoffBase * time.Duration(1<<(attempt-1))
		wait = base + time.Duration(rand.Int63n(int64(base)/4+1))
	}
	if wait > c.cfg.MaxBackoff {
		wait = c.cfg.MaxBackoff
	}
	return wait
}

func (c *StatsAPIClient) cacheGet(ctx context.Context, key string, dest interface{}) bool {
	if c.cache == nil || c.cfg.CacheTTL <= 0 {
		return false
	}
	if err := c.cache.Get(ctx, key, dest); err != nil {
		if !errors.Is(err, dfs.ErrCacheMiss) {
			c.logger.WithError(err).WithField("cache_key", key).Warn("Provider cache read failed")
		}
		return false
	}
	c.logger.WithField("cache_key", key).Debug("Provider cache hit")
	return true
}

func (c *StatsAPIClient) cacheSet(ctx context.Context, key string, value interface{}) {
	if c.cache == nil || c.cfg.CacheTTL <= 0 {
		return
	}
	if err := c.cache.Set(ctx, key, value, c.cfg.CacheTTL); err != nil {
		c.logger.WithError(err).WithField("cache_key", key).Warn("Failed to cache provider response")
	}
}

type retryAfterError struct {
	retryAfter time.Duration
}

func (e *retryAfterError) Error() string {
	return "rate limited (429)"
}

func parseRetryAfter(header string) time.Duration {
	if header == "" {
		return 0
	}
	if seconds, err := strconv.Atoi(header); err == nil && seconds > 0 {
		return time.Duration(seconds) * time.Second
	}
	return 0
}
