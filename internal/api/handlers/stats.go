package handlers

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"github.com/stitts-dev/player-stats-relay/internal/models"
	"github.com/stitts-dev/player-stats-relay/internal/services"
	"github.com/stitts-dev/player-stats-relay/pkg/utils"
)

type StatsHandler struct {
	resolver *services.BatchResolver
	scoring  *services.ScoringService
	logger   *logrus.Logger
	timeout  time.Duration
}

func NewStatsHandler(resolver *services.BatchResolver, scoring *services.ScoringService, logger *logrus.Logger, timeout time.Duration) *StatsHandler {
	return &StatsHandler{
		resolver: resolver,
		scoring:  scoring,
		logger:   logger,
		timeout:  timeout,
	}
}

// PlayerStatsBatch resolves a list of player names to normalized stat records
func (h *StatsHandler) PlayerStatsBatch(c *gin.Context) {
	var req models.BatchRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		sendBindError(c, err, utils.MsgPlayersRequired)
		return
	}

	ctx, cancel := h.requestContext(c)
	defer cancel()

	result, err := h.resolver.Resolve(ctx, req.Players, req.Season)
	if err != nil {
		h.sendResolveError(c, err, utils.MsgPlayersRequired)
		return
	}

	utils.SendSuccess(c, result)
}

// PlayerPointsBatch resolves names and returns each record with its fantasy score
func (h *StatsHandler) PlayerPointsBatch(c *gin.Context) {
	var req models.BatchRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		sendBindError(c, err, utils.MsgPlayersRequired)
		return
	}

	ctx, cancel := h.requestContext(c)
	defer cancel()

	points, err := h.scoring.ScoreBatch(ctx, req.Players, req.Season)
	if err != nil {
		h.sendResolveError(c, err, utils.MsgPlayersRequired)
		return
	}

	utils.SendSuccess(c, points)
}

// ExpertLeaderboard ranks experts by the combined points of their picks
func (h *StatsHandler) ExpertLeaderboard(c *gin.Context) {
	var req models.LeaderboardRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		sendBindError(c, err, utils.MsgExpertsRequired)
		return
	}

	ctx, cancel := h.requestContext(c)
	defer cancel()

	board, err := h.scoring.Leaderboard(ctx, req)
	if err != nil {
		h.sendResolveError(c, err, utils.MsgExpertsRequired)
		return
	}

	utils.SendSuccess(c, board)
}

func (h *StatsHandler) requestContext(c *gin.Context) (context.Context, context.CancelFunc) {
	if h.timeout <= 0 {
		return context.WithCancel(c.Request.Context())
	}
	return context.WithTimeout(c.Request.Context(), h.timeout)
}

func (h *StatsHandler) sendResolveError(c *gin.Context, err error, requiredMsg string) {
	switch {
	case errors.Is(err, services.ErrNoPlayers):
		utils.SendBadRequest(c, requiredMsg)
	case errors.Is(err, services.ErrBatchTooLarge):
		utils.SendBadRequest(c, err.Error())
	default:
		_ = c.Error(err)
		h.logger.WithFields(logrus.Fields{
			"component":      "stats_handler",
			"path":           c.Request.URL.Path,
			"correlation_id": services.CorrelationIDFromContext(c.Request.Context()),
		}).WithError(err).Error("Batch resolution failed")
		utils.SendInternalError(c)
	}
}

// sendBindError maps any decode or validation failure to 400, except an
// oversized body which is 413.
func sendBindError(c *gin.Context, err error, message string) {
	var maxErr *http.MaxBytesError
	if errors.As(err, &maxErr) {
		utils.SendPayloadTooLarge(c)
		return
	}
	utils.SendBadRequest(c, message)
}
