package stats

import (
	"strings"

	"github.com/spf13/cast"

	"github.com/stitts-dev/player-stats-relay/internal/models"
)

// Candidate paths per output field, tried in order. The "stats" namespace
// comes first, the legacy per-category objects second.
var (
	minutesPaths      = []string{"stats.minutes", "games.minutes"}
	goalsPaths        = []string{"stats.goals", "goals.total"}
	penaltyGoalsPaths = []string{"stats.penaltiesScored", "penalty.scored"}
	assistsPaths      = []string{"stats.assists", "goals.assists"}
	yellowCardsPaths  = []string{"stats.yellow", "cards.yellow"}
	redCardsPaths     = []string{"stats.red", "cards.red"}
)

var (
	seasonListPaths = []string{"seasons", "stats.seasons", "statistics", "seasonStats"}
	seasonLabelKeys = []string{"season", "seasonName", "name", "label"}
)

// Normalize projects a provider blob onto the fixed FantasyStat schema.
// A nil or empty blob yields the zero record for name.
func Normalize(name string, blob models.Blob) models.FantasyStat {
	stat := models.ZeroStat(name)
	if len(blob) == 0 {
		return stat
	}

	totalGoals := FirstCount(blob, goalsPaths...)
	penaltyGoals := FirstCount(blob, penaltyGoalsPaths...)

	stat.PenaltyGoals = penaltyGoals
	stat.NonPenaltyGoals = max(0, totalGoals-penaltyGoals)
	stat.Assists = FirstCount(blob, assistsPaths...)
	stat.Minutes = FirstCount(blob, minutesPaths...)
	stat.YellowCards = FirstCount(blob, yellowCardsPaths...)
	stat.RedCards = FirstCount(blob, redCardsPaths...)

	return stat
}

// SelectSeasonAggregate picks the part of a detail blob to normalize: the first
// season row whose label contains season, else the generic stats object, else
// the blob itself.
func SelectSeasonAggregate(blob models.Blob, season string) models.Blob {
	if blob == nil {
		return nil
	}

	if season != "" {
		for _, path := range seasonListPaths {
			raw, ok := Lookup(blob, path)
			if !ok {
				continue
			}
			rows, ok := raw.([]interface{})
			if !ok {
				continue
			}
			for _, row := range rows {
				entry := asObject(row)
				if entry == nil {
					continue
				}
				if strings.Contains(seasonLabel(entry), season) {
					return rooted(entry)
				}
			}
		}
	}

	if raw, ok := Lookup(blob, "stats"); ok {
		if generic := asObject(raw); generic != nil {
			return rooted(generic)
		}
	}

	return blob
}

func seasonLabel(entry map[string]interface{}) string {
	for _, key := range seasonLabelKeys {
		raw, ok := entry[key]
		if !ok || raw == nil {
			continue
		}
		// {"season": {"name": "2025/2026"}}
		if nested := asObject(raw); nested != nil {
			if label := seasonLabel(nested); label != "" {
				return label
			}
			continue
		}
		if label, err := cast.ToStringE(raw); err == nil && label != "" {
			return label
		}
	}
	return ""
}

// rooted exposes an aggregate both at the top level and under "stats", so the
// stats-namespaced paths and the legacy paths resolve against the same object.
func rooted(entry map[string]interface{}) models.Blob {
	if asObject(entry["stats"]) != nil {
		return models.Blob(entry)
	}
	out := make(models.Blob, len(entry)+1)
	for k, v := range entry {
		out[k] = v
	}
	out["stats"] = entry
	return out
}
