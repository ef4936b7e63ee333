package match

import (
	"context"
	"time"
)

// Repository exposes the read-only match history used by the odds engine.
type Repository interface {
	GetByID(ctx context.Context, matchID string) (Match, bool, error)
	// ListCompletedByTeam returns completed matches involving teamID, most recent first.
	ListCompletedByTeam(ctx context.Context, teamID string, limit int) ([]Match, error)
	// ListCompletedBetween returns completed meetings of the two teams in either venue, most recent first.
	ListCompletedBetween(ctx context.Context, teamA, teamB string, limit int) ([]Match, error)
	ListUpcoming(ctx context.Context, from, to time.Time) ([]Match, error)
	ListKickedOff(ctx context.Context, since, until time.Time) ([]Match, error)
}
