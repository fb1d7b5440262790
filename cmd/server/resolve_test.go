package main

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/stitts-dev/player-stats-relay/internal/api"
	"github.com/stitts-dev/player-stats-relay/internal/models"
	"github.com/stitts-dev/player-stats-relay/internal/services"
	"github.com/stitts-dev/player-stats-relay/internal/stats"
	"github.com/stitts-dev/player-stats-relay/pkg/config"
)

type fixedProvider struct {
	details map[string]models.Blob
}

func (p fixedProvider) SearchPlayers(ctx context.Context, name string) ([]models.PlayerCandidate, error) {
	if _, ok := p.details[name]; !ok {
		return nil, nil
	}
	return []models.PlayerCandidate{{ID: name}}, nil
}

func (p fixedProvider) GetPlayerDetail(ctx context.Context, playerID string) (models.Blob, error) {
	return p.details[playerID], nil
}

func testServices() api.Services {
	logger := logrus.New()
	logger.SetOutput(io.Discard)

	provider := fixedProvider{details: map[string]models.Blob{
		"Erling Haaland": {"stats": map[string]interface{}{"goals": 20, "penaltiesScored": 5, "assists": 3, "minutes": 1500, "yellow": 2}},
	}}
	resolver := services.NewBatchResolver(provider, logger, 1, 50, "2025")
	return api.Services{
		Resolver: resolver,
		Scoring:  services.NewScoringService(resolver, stats.DefaultScoringRules),
		Logger:   logger,
	}
}

func TestRunResolve_Stats(t *testing.T) {
	var out bytes.Buffer

	err := runResolve(context.Background(), testServices(), []string{"Erling Haaland", "Nobody"}, nil, false, &out)

	require.NoError(t, err)
	var result models.BatchResult
	require.NoError(t, json.Unmarshal(out.Bytes(), &result))
	assert.Equal(t, 15, result["Erling Haaland"].NonPenaltyGoals)
	assert.Equal(t, models.ZeroStat("Nobody"), result["Nobody"])
}

func TestRunResolve_Points(t *testing.T) {
	var out bytes.Buffer

	err := runResolve(context.Background(), testServices(), []string{"Erling Haaland"}, nil, true, &out)

	require.NoError(t, err)
	var result map[string]models.PlayerPoints
	require.NoError(t, json.Unmarshal(out.Bytes(), &result))
	assert.Equal(t, 475, result["Erling Haaland"].Points)
}

func TestRunResolve_CancelledContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	var out bytes.Buffer
	err := runResolve(ctx, testServices(), []string{"Erling Haaland"}, nil, false, &out)

	assert.ErrorIs(t, err, context.Canceled)
	assert.Empty(t, out.String())
}

func TestNewApp_CacheDisabledByDefault(t *testing.T) {
	cfg := &config.Config{
		ProviderBaseURL:         "http://127.0.0.1:1",
		ProviderSearchPath:      "/search",
		ProviderDetailPath:      "/playerData",
		ResolverConcurrency:     1,
		MaxBatchSize:            50,
		DefaultSeason:           "2025",
		RateLimitRequests:       60,
		RateLimitWindow:         time.Minute,
		CircuitBreakerThreshold: 5,
		CircuitBreakerTimeout:   time.Minute,
	}
	logger := logrus.New()
	logger.SetOutput(io.Discard)

	a := newApp(cfg, logger)
	defer a.Close()

	assert.Nil(t, a.services.Cache)
	assert.Nil(t, a.redisClient)
	assert.NotNil(t, a.services.Resolver)
	assert.NotNil(t, a.services.Limiter)
}

func TestRootCommand_RegistersSubcommands(t *testing.T) {
	root := newRootCommand()

	names := make([]string, 0)
	for _, cmd := range root.Commands() {
		names = append(names, cmd.Name())
	}

	assert.Contains(t, names, "serve")
	assert.Contains(t, names, "resolve")
}

func TestGinMode(t *testing.T) {
	tests := []struct {
		env  string
		want string
	}{
		{env: "production", want: gin.ReleaseMode},
		{env: "development", want: gin.DebugMode},
		{env: "test", want: gin.TestMode},
	}

	for _, tt := range tests {
		t.Run(tt.env, func(t *testing.T) {
			assert.Equal(t, tt.want, ginMode(&config.Config{Env: tt.env}))
		})
	}
}
