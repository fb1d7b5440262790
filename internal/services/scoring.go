package services

import (
	"context"
	"sort"

	"github.com/stitts-dev/player-stats-relay/internal/models"
	"github.com/stitts-dev/player-stats-relay/internal/stats"
)

// ScoringService turns resolved stats into fantasy points and expert rankings
type ScoringService struct {
	resolver *BatchResolver
	rules    stats.ScoringRules
}

func NewScoringService(resolver *BatchResolver, rules stats.ScoringRules) *ScoringService {
	return &ScoringService{
		resolver: resolver,
		rules:    rules,
	}
}

// ScoreBatch resolves names and scores each record
func (s *ScoringService) ScoreBatch(ctx context.Context, names []string, season *int) (map[string]models.PlayerPoints, error) {
	resolved, err := s.resolver.Resolve(ctx, names, season)
	if err != nil {
		return nil, err
	}

	points := make(map[string]models.PlayerPoints, len(resolved))
	for name, stat := range resolved {
		points[name] = s.rules.Score(stat)
	}
	return points, nil
}

// Leaderboard resolves every distinct pick once, totals each expert's picks and
// ranks experts by total. Equal totals share a rank and keep input order.
func (s *ScoringService) Leaderboard(ctx context.Context, req models.LeaderboardRequest) (*models.Leaderboard, error) {
	var picks []string
	for _, expert := range req.Experts {
		picks = append(picks, expert.Players...)
	}
	picks = uniqueNames(picks)

	points, err := s.ScoreBatch(ctx, picks, req.Season)
	if err != nil {
		return nil, err
	}

	entries := make([]models.LeaderboardEntry, 0, len(req.Experts))
	for _, expert := range req.Experts {
		total := 0
		for _, player := range expert.Players {
			total += points[player].Points
		}
		entries = append(entries, models.LeaderboardEntry{
			Expert:  expert.Name,
			Players: expert.Players,
			Points:  total,
		})
	}

	sort.SliceStable(entries, func(i, j int) bool {
		return entries[i].Points > entries[j].Points
	})
	for i := range entries {
		if i > 0 && entries[i].Points == entries[i-1].Points {
			entries[i].Rank = entries[i-1].Rank
		} else {
			entries[i].Rank = i + 1
		}
	}

	board := &models.Leaderboard{
		Entries: entries,
		Players: points,
	}
	for _, name := range picks {
		p := points[name]
		if board.TopPlayer == nil || p.Points > board.TopPlayer.Points {
			top := p
			board.TopPlayer = &top
		}
	}

	return board, nil
}
