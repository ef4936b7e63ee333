package postgres

import (
	"context"
	"time"

	crerr "github.com/cockroachdb/errors"
	"github.com/jmoiron/sqlx"

	"github.com/riskibarqy/club-odds/internal/domain/match"
	qb "github.com/riskibarqy/club-odds/internal/platform/querybuilder"
)

// completedStatuses are the stored spellings treated as a finished match.
var completedStatuses = []any{match.StatusCompleted, "finished", "ft"}

type MatchRepository struct {
	db *sqlx.DB
}

func NewMatchRepository(db *sqlx.DB) *MatchRepository {
	return &MatchRepository{db: db}
}

func (r *MatchRepository) GetByID(ctx context.Context, matchID string) (match.Match, bool, error) {
	query, args, err := qb.Select(matchColumns...).
		From("matches").
		Where(qb.Eq("public_id", matchID), qb.IsNull("deleted_at")).
		Limit(1).
		ToSQL()
	if err != nil {
		return match.Match{}, false, crerr.Wrap(err, "build get match query")
	}

	var row matchTableModel
	if err := r.db.GetContext(ctx, &row, query, args...); err != nil {
		if isNotFound(err) {
			return match.Match{}, false, nil
		}
		return match.Match{}, false, crerr.Wrapf(err, "get match=%s", matchID)
	}
	return row.toDomain(), true, nil
}

func (r *MatchRepository) ListCompletedByTeam(ctx context.Context, teamID string, limit int) ([]match.Match, error) {
	return r.list(ctx, "list completed matches by team", limit,
		[]string{"kickoff_at DESC", "id DESC"},
		completedConditions(qb.Expr("(home_team_public_id = ? OR away_team_public_id = ?)", teamID, teamID))...,
	)
}

func (r *MatchRepository) ListCompletedBetween(ctx context.Context, teamA, teamB string, limit int) ([]match.Match, error) {
	return r.list(ctx, "list completed matches between teams", limit,
		[]string{"kickoff_at DESC", "id DESC"},
		completedConditions(qb.Expr("((home_team_public_id = ? AND away_team_public_id = ?) OR (home_team_public_id = ? AND away_team_public_id = ?))", teamA, teamB, teamB, teamA))...,
	)
}

// completedConditions selects finished, scored, live rows matching teams.
func completedConditions(teams qb.Condition) []qb.Condition {
	return []qb.Condition{
		qb.In("LOWER(status)", completedStatuses...),
		teams,
		qb.IsNotNull("home_score"),
		qb.IsNotNull("away_score"),
		qb.IsNull("deleted_at"),
	}
}

func (r *MatchRepository) ListUpcoming(ctx context.Context, from, to time.Time) ([]match.Match, error) {
	return r.list(ctx, "list upcoming matches", 0,
		[]string{"kickoff_at", "id"},
		qb.Eq("LOWER(status)", match.StatusUpcoming),
		qb.Gte("kickoff_at", from),
		qb.Lte("kickoff_at", to),
		qb.IsNull("deleted_at"),
	)
}

func (r *MatchRepository) ListKickedOff(ctx context.Context, since, until time.Time) ([]match.Match, error) {
	return r.list(ctx, "list kicked off matches", 0,
		[]string{"kickoff_at", "id"},
		qb.In("LOWER(status)", match.StatusUpcoming, match.StatusLive),
		qb.Gte("kickoff_at", since),
		qb.Lte("kickoff_at", until),
		qb.IsNull("deleted_at"),
	)
}

func (r *MatchRepository) list(ctx context.Context, op string, limit int, orderBy []string, where ...qb.Condition) ([]match.Match, error) {
	query, args, err := qb.Select(matchColumns...).
		From("matches").
		Where(where...).
		OrderBy(orderBy...).
		Limit(limit).
		ToSQL()
	if err != nil {
		return nil, crerr.Wrapf(err, "build %s query", op)
	}

	var rows []matchTableModel
	if err := r.db.SelectContext(ctx, &rows, query, args...); err != nil {
		return nil, crerr.Wrap(err, op)
	}

	out := make([]match.Match, 0, len(rows))
	for _, row := range rows {
		out = append(out, row.toDomain())
	}
	return out, nil
}
