package postgres

import (
	"database/sql"
	"time"

	"github.com/riskibarqy/club-odds/internal/domain/match"
)

var matchColumns = []string{
	"public_id",
	"home_team_public_id",
	"away_team_public_id",
	"status",
	"kickoff_at",
	"home_score",
	"away_score",
	"half_time_home_score",
	"half_time_away_score",
}

type matchTableModel struct {
	PublicID          string        `db:"public_id"`
	HomeTeamID        string        `db:"home_team_public_id"`
	AwayTeamID        string        `db:"away_team_public_id"`
	Status            string        `db:"status"`
	KickoffAt         time.Time     `db:"kickoff_at"`
	HomeScore         sql.NullInt64 `db:"home_score"`
	AwayScore         sql.NullInt64 `db:"away_score"`
	HalfTimeHomeScore sql.NullInt64 `db:"half_time_home_score"`
	HalfTimeAwayScore sql.NullInt64 `db:"half_time_away_score"`
}

func (m matchTableModel) toDomain() match.Match {
	return match.Match{
		ID:                m.PublicID,
		HomeTeamID:        m.HomeTeamID,
		AwayTeamID:        m.AwayTeamID,
		Status:            match.NormalizeStatus(m.Status),
		KickoffAt:         m.KickoffAt.UTC(),
		HomeScore:         intPtr(m.HomeScore),
		AwayScore:         intPtr(m.AwayScore),
		HalfTimeHomeScore: intPtr(m.HalfTimeHomeScore),
		HalfTimeAwayScore: intPtr(m.HalfTimeAwayScore),
	}
}
