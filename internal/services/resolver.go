package services

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"sync"

	"github.com/sirupsen/logrus"
	"golang.org/x/sync/errgroup"

	"github.com/stitts-dev/player-stats-relay/internal/dfs"
	"github.com/stitts-dev/player-stats-relay/internal/models"
	"github.com/stitts-dev/player-stats-relay/internal/stats"
	"github.com/stitts-dev/player-stats-relay/pkg/logger"
)

var (
	// ErrNoPlayers is returned when a batch contains no names
	ErrNoPlayers = errors.New("players array required")
	// ErrBatchTooLarge is returned when a batch exceeds the configured maximum
	ErrBatchTooLarge = errors.New("too many players")
)

// BatchResolver resolves player names to normalized stat records
type BatchResolver struct {
	provider      dfs.StatsProvider
	logger        *logrus.Logger
	concurrency   int
	maxBatchSize  int
	defaultSeason string
}

// NewBatchResolver creates a resolver. concurrency 1 resolves names one at a
// time in input order; maxBatchSize 0 disables the size check.
func NewBatchResolver(provider dfs.StatsProvider, logger *logrus.Logger, concurrency, maxBatchSize int, defaultSeason string) *BatchResolver {
	if concurrency < 1 {
		concurrency = 1
	}
	return &BatchResolver{
		provider:      provider,
		logger:        logger,
		concurrency:   concurrency,
		maxBatchSize:  maxBatchSize,
		defaultSeason: defaultSeason,
	}
}

// Validate checks a batch before any provider call is made
func (r *BatchResolver) Validate(names []string) error {
	if len(names) == 0 {
		return ErrNoPlayers
	}
	if r.maxBatchSize > 0 && len(names) > r.maxBatchSize {
		return fmt.Errorf("%w (max %d)", ErrBatchTooLarge, r.maxBatchSize)
	}
	return nil
}

// SeasonLabel returns the season substring used to pick the season row
func (r *BatchResolver) SeasonLabel(season *int) string {
	if season != nil && *season > 0 {
		return strconv.Itoa(*season)
	}
	return r.defaultSeason
}

// Resolve returns one FantasyStat per distinct name. Failures of a single name
// yield its zero record; only a cancelled or expired ctx fails the batch.
func (r *BatchResolver) Resolve(ctx context.Context, names []string, season *int) (models.BatchResult, error) {
	if err := r.Validate(names); err != nil {
		return nil, err
	}

	label := r.SeasonLabel(season)
	unique := uniqueNames(names)
	result := make(models.BatchResult, len(unique))
	correlationID := CorrelationIDFromContext(ctx)

	if r.concurrency == 1 {
		for _, name := range unique {
			if err := ctx.Err(); err != nil {
				return nil, fmt.Errorf("batch aborted: %w", err)
			}
			result[name] = r.resolveOne(ctx, correlationID, name, label)
		}
	} else {
		var mu sync.Mutex
		g, gctx := errgroup.WithContext(ctx)
		g.SetLimit(r.concurrency)
		for _, name := range unique {
			name := name
			g.Go(func() error {
				if err := gctx.Err(); err != nil {
					return err
				}
				stat := r.resolveOne(gctx, correlationID, name, label)
				mu.Lock()
				result[name] = stat
				mu.Unlock()
				return nil
			})
		}
		if err := g.Wait(); err != nil {
			return nil, fmt.Errorf("batch aborted: %w", err)
		}
	}

	if err := ctx.Err(); err != nil {
		return nil, fmt.Errorf("batch aborted: %w", err)
	}

	return result, nil
}

// resolveOne never fails: every error, including a panic, becomes the zero record
func (r *BatchResolver) resolveOne(ctx context.Context, correlationID, name, season string) (stat models.FantasyStat) {
	entry := r.logger.WithFields(logger.PlayerFields(correlationID, name)).
		WithField("component", "resolver")

	defer func() {
		if rec := recover(); rec != nil {
			entry.WithField("panic", rec).Error("Player resolution panicked")
			stat = models.ZeroStat(name)
		}
	}()

	blob, err := r.lookup(ctx, entry, name, season)
	if err != nil {
		entry.WithError(err).Warn("Player lookup failed, using zero record")
		return models.ZeroStat(name)
	}
	if blob == nil {
		entry.Debug("No provider candidate, using zero record")
	}

	return stats.Normalize(name, blob)
}

// lookup runs search then detail and returns the selected season aggregate.
// A nil blob with nil error means the provider had no candidate.
func (r *BatchResolver) lookup(ctx context.Context, entry *logrus.Entry, name, season string) (models.Blob, error) {
	candidates, err := r.provider.SearchPlayers(ctx, name)
	if err != nil {
		if errors.Is(err, dfs.ErrPlayerNotFound) {
			return nil, nil
		}
		return nil, fmt.Errorf("search: %w", err)
	}
	if len(candidates) == 0 {
		return nil, nil
	}

	// Only the top hit is considered
	top := candidates[0]
	entry.WithFields(logrus.Fields{
		"candidate_id":   top.ID,
		"candidate_name": top.Name,
		"candidates":     len(candidates),
	}).Debug("Selected provider candidate")
	if top.ID == "" {
		return nil, nil
	}

	detail, err := r.provider.GetPlayerDetail(ctx, top.ID)
	if err != nil {
		return nil, fmt.Errorf("detail %s: %w", top.ID, err)
	}

	return stats.SelectSeasonAggregate(detail, season), nil
}

func uniqueNames(names []string) []string {
	seen := make(map[string]struct{}, len(names))
	out := make([]string, 0, len(names))
	for _, name := range names {
		if _, ok := seen[name]; ok {
			continue
		}
		seen[name] = struct{}{}
		out = append(out, name)
	}
	return out
}
