package models

// Blob is an untyped provider payload. Nothing about its shape is guaranteed.
type Blob map[string]interface{}

// PlayerCandidate is a single search hit returned by the statistics provider
type PlayerCandidate struct {
	ID   string `json:"id"`
	Name string `json:"name,omitempty"`
}

// FantasyStat is the normalized per-player record returned to clients
type FantasyStat struct {
	Name            string `json:"name"`
	NonPenaltyGoals int    `json:"nonPenaltyGoals"`
	PenaltyGoals    int    `json:"penaltyGoals"`
	Assists         int    `json:"assists"`
	Minutes         int    `json:"minutes"`
	YellowCards     int    `json:"yellowCards"`
	RedCards        int    `json:"redCards"`
	MOTM            bool   `json:"motm"`
}

// ZeroStat is the record used for any player that could not be resolved
func ZeroStat(name string) FantasyStat {
	return FantasyStat{Name: name}
}

// BatchRequest is the body accepted by the batch endpoints
type BatchRequest struct {
	Players []string `json:"players" binding:"required,min=1"`
	Season  *int     `json:"season,omitempty"`
}

// BatchResult maps each requested name to its stat record
type BatchResult map[string]FantasyStat

// PointsBreakdown holds the fantasy points earned per scoring category
type PointsBreakdown struct {
	NonPenaltyGoals int `json:"nonPenaltyGoals"`
	PenaltyGoals    int `json:"penaltyGoals"`
	Assists         int `json:"assists"`
	MOTM            int `json:"motm"`
	FullMatches     int `json:"fullMatches"`
	YellowCards     int `json:"yellowCards"`
	RedCards        int `json:"redCards"`
}

// PlayerPoints pairs a stat record with its fantasy score
type PlayerPoints struct {
	Stats       FantasyStat     `json:"stats"`
	FullMatches int             `json:"fullMatches"`
	Points      int             `json:"points"`
	Breakdown   PointsBreakdown `json:"breakdown"`
}

// ExpertPicks is one expert's selection of players
type ExpertPicks struct {
	Name    string   `json:"name" binding:"required"`
	Players []string `json:"players" binding:"required,min=1"`
}

// LeaderboardRequest is the body of the expert leaderboard endpoint
type LeaderboardRequest struct {
	Experts []ExpertPicks `json:"experts" binding:"required,min=1,dive"`
	Season  *int          `json:"season,omitempty"`
}

// LeaderboardEntry is one ranked expert
type LeaderboardEntry struct {
	Rank    int      `json:"rank"`
	Expert  string   `json:"expert"`
	Players []string `json:"players"`
	Points  int      `json:"points"`
}

// Leaderboard is the ranked result of an expert competition
type Leaderboard struct {
	Entries   []LeaderboardEntry      `json:"entries"`
	TopPlayer *PlayerPoints           `json:"topPlayer,omitempty"`
	Players   map[string]PlayerPoints `json:"players"`
}
