package stats

import "github.com/stitts-dev/player-stats-relay/internal/models"

// FullMatchMinutes is the playing time counted as one full match
const FullMatchMinutes = 90

// ScoringRules holds the fantasy points awarded per unit of each category
type ScoringRules struct {
	NonPenaltyGoal int
	PenaltyGoal    int
	Assist         int
	MOTM           int
	FullMatch      int
	YellowCard     int
	RedCard        int
}

var DefaultScoringRules = ScoringRules{
	NonPenaltyGoal: 20,
	PenaltyGoal:    15,
	Assist:         10,
	MOTM:           5,
	FullMatch:      5,
	YellowCard:     -5,
	RedCard:        -10,
}

// Score computes fantasy points for a normalized stat record. Full matches are
// estimated from minutes since the provider exposes no per-match breakdown.
func (r ScoringRules) Score(stat models.FantasyStat) models.PlayerPoints {
	fullMatches := stat.Minutes / FullMatchMinutes

	motm := 0
	if stat.MOTM {
		motm = 1
	}

	breakdown := models.PointsBreakdown{
		NonPenaltyGoals: stat.NonPenaltyGoals * r.NonPenaltyGoal,
		PenaltyGoals:    stat.PenaltyGoals * r.PenaltyGoal,
		Assists:         stat.Assists * r.Assist,
		MOTM:            motm * r.MOTM,
		FullMatches:     fullMatches * r.FullMatch,
		YellowCards:     stat.YellowCards * r.YellowCard,
		RedCards:        stat.RedCards * r.RedCard,
	}

	return models.PlayerPoints{
		Stats:       stat,
		FullMatches: fullMatches,
		Points: breakdown.NonPenaltyGoals + breakdown.PenaltyGoals + breakdown.Assists +
			breakdown.MOTM + breakdown.FullMatches + breakdown.YellowCards + breakdown.RedCards,
		Breakdown: breakdown,
	}
}
