package memory

import (
	"time"

	"github.com/riskibarqy/club-odds/internal/domain/match"
)

const (
	TeamRiverside = "club-riverside-fc"
	TeamOldBoys   = "club-old-boys"
	TeamHarbour   = "club-harbour-united"
	TeamMillfield = "club-millfield-rovers"
)

// SeedMatches builds a small demo season around now: a double round robin
// already played and one upcoming round.
func SeedMatches(now time.Time) []match.Match {
	now = now.UTC().Truncate(time.Hour)
	played := []struct {
		id         string
		home, away string
		hs, as     int
		htH, htA   int
		daysAgo    int
	}{
		{"m-001", TeamRiverside, TeamOldBoys, 2, 1, 1, 0, 42},
		{"m-002", TeamHarbour, TeamMillfield, 0, 0, 0, 0, 42},
		{"m-003", TeamOldBoys, TeamHarbour, 1, 3, 0, 2, 35},
		{"m-004", TeamMillfield, TeamRiverside, 1, 1, 1, 0, 35},
		{"m-005", TeamRiverside, TeamHarbour, 3, 0, 2, 0, 28},
		{"m-006", TeamMillfield, TeamOldBoys, 2, 2, 1, 1, 28},
		{"m-007", TeamOldBoys, TeamRiverside, 0, 2, 0, 1, 21},
		{"m-008", TeamMillfield, TeamHarbour, 1, 2, 0, 1, 21},
		{"m-009", TeamHarbour, TeamOldBoys, 4, 1, 2, 0, 14},
		{"m-010", TeamRiverside, TeamMillfield, 2, 0, 0, 0, 14},
		{"m-011", TeamHarbour, TeamRiverside, 1, 1, 0, 1, 7},
		{"m-012", TeamOldBoys, TeamMillfield, 0, 1, 0, 0, 7},
	}

	out := make([]match.Match, 0, len(played)+3)
	for _, p := range played {
		out = append(out, match.Match{
			ID:                p.id,
			HomeTeamID:        p.home,
			AwayTeamID:        p.away,
			Status:            match.StatusCompleted,
			KickoffAt:         now.AddDate(0, 0, -p.daysAgo),
			HomeScore:         intPtr(p.hs),
			AwayScore:         intPtr(p.as),
			HalfTimeHomeScore: intPtr(p.htH),
			HalfTimeAwayScore: intPtr(p.htA),
		})
	}

	out = append(out,
		match.Match{ID: "m-013", HomeTeamID: TeamRiverside, AwayTeamID: TeamHarbour, Status: match.StatusUpcoming, KickoffAt: now.AddDate(0, 0, 3)},
		match.Match{ID: "m-014", HomeTeamID: TeamOldBoys, AwayTeamID: TeamMillfield, Status: match.StatusUpcoming, KickoffAt: now.AddDate(0, 0, 4)},
		match.Match{ID: "m-015", HomeTeamID: TeamMillfield, AwayTeamID: TeamRiverside, Status: match.StatusUpcoming, KickoffAt: now.AddDate(0, 0, 10)},
	)
	return out
}

func intPtr(v int) *int {
	return &v
}
