package services

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/stitts-dev/player-stats-relay/internal/models"
	"github.com/stitts-dev/player-stats-relay/internal/stats"
)

func newScoringService(provider *MockStatsProvider) *ScoringService {
	resolver := NewBatchResolver(provider, quietLogger(), 1, 50, "2025")
	return NewScoringService(resolver, stats.DefaultScoringRules)
}

func TestScoringService_ScoreBatch(t *testing.T) {
	provider := new(MockStatsProvider)
	// 15 NPG, 5 PG, 3 A, 1500 min, 2 YC: 300 + 75 + 30 + 16*5 - 10
	expectPlayer(provider, "Erling Haaland", "1100", statsBlob(20, 5, 3, 1500, 2, 0))
	provider.On("SearchPlayers", mock.Anything, "Nobody").Return([]models.PlayerCandidate{}, nil)

	points, err := newScoringService(provider).ScoreBatch(context.Background(), []string{"Erling Haaland", "Nobody"}, nil)

	require.NoError(t, err)
	require.Len(t, points, 2)
	assert.Equal(t, 475, points["Erling Haaland"].Points)
	assert.Equal(t, 16, points["Erling Haaland"].FullMatches)
	assert.Equal(t, 0, points["Nobody"].Points)
	assert.Equal(t, "Nobody", points["Nobody"].Stats.Name)
}

func TestScoringService_ScoreBatch_PropagatesValidation(t *testing.T) {
	provider := new(MockStatsProvider)

	_, err := newScoringService(provider).ScoreBatch(context.Background(), nil, nil)

	assert.ErrorIs(t, err, ErrNoPlayers)
	provider.AssertNotCalled(t, "SearchPlayers", mock.Anything, mock.Anything)
}

func TestScoringService_Leaderboard(t *testing.T) {
	provider := new(MockStatsProvider)
	// 1 NPG = 20
	expectPlayer(provider, "A", "1", statsBlob(1, 0, 0, 0, 0, 0))
	// 2 NPG = 40
	expectPlayer(provider, "B", "2", statsBlob(2, 0, 0, 0, 0, 0))
	// 3 A = 30
	expectPlayer(provider, "C", "3", statsBlob(0, 0, 3, 0, 0, 0))

	req := models.LeaderboardRequest{
		Experts: []models.ExpertPicks{
			{Name: "first", Players: []string{"A", "C"}},
			{Name: "second", Players: []string{"B", "A"}},
			{Name: "third", Players: []string{"A", "B"}},
			{Name: "fourth", Players: []string{"C"}},
		},
	}

	board, err := newScoringService(provider).Leaderboard(context.Background(), req)

	require.NoError(t, err)
	require.Len(t, board.Entries, 4)
	assert.Equal(t, models.LeaderboardEntry{Rank: 1, Expert: "second", Players: []string{"B", "A"}, Points: 60}, board.Entries[0])
	assert.Equal(t, models.LeaderboardEntry{Rank: 1, Expert: "third", Players: []string{"A", "B"}, Points: 60}, board.Entries[1])
	assert.Equal(t, models.LeaderboardEntry{Rank: 3, Expert: "first", Players: []string{"A", "C"}, Points: 50}, board.Entries[2])
	assert.Equal(t, 4, board.Entries[3].Rank)

	require.NotNil(t, board.TopPlayer)
	assert.Equal(t, "B", board.TopPlayer.Stats.Name)
	assert.Len(t, board.Players, 3)

	// each distinct pick is fetched once
	provider.AssertNumberOfCalls(t, "SearchPlayers", 3)
	provider.AssertExpectations(t)
}

func TestScoringService_Leaderboard_TopPlayerTieKeepsPickOrder(t *testing.T) {
	provider := new(MockStatsProvider)
	expectPlayer(provider, "X", "1", statsBlob(1, 0, 0, 0, 0, 0))
	expectPlayer(provider, "Y", "2", statsBlob(1, 0, 0, 0, 0, 0))

	req := models.LeaderboardRequest{
		Experts: []models.ExpertPicks{{Name: "solo", Players: []string{"X", "Y", "X"}}},
	}

	board, err := newScoringService(provider).Leaderboard(context.Background(), req)

	require.NoError(t, err)
	assert.Equal(t, "X", board.TopPlayer.Stats.Name)
	assert.Equal(t, 60, board.Entries[0].Points)
}
