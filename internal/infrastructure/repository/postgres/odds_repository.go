package postgres

import (
	"context"
	"time"

	crerr "github.com/cockroachdb/errors"
	"github.com/jmoiron/sqlx"

	"github.com/riskibarqy/club-odds/internal/domain/odds"
	qb "github.com/riskibarqy/club-odds/internal/platform/querybuilder"
)

// OddsRepository stores versioned odds in match_odds. Active rows have a
// NULL effective_until; a partial unique index keeps one active row per
// (match, market, selection).
type OddsRepository struct {
	db *sqlx.DB
}

func NewOddsRepository(db *sqlx.DB) *OddsRepository {
	return &OddsRepository{db: db}
}

func (r *OddsRepository) ReplaceActive(ctx context.Context, matchID string, rows []odds.Row, entry odds.HistoryEntry, at time.Time) error {
	return r.inMatchTx(ctx, matchID, "replace active odds", func(tx *sqlx.Tx) error {
		if _, err := expireActive(ctx, tx, matchID, at); err != nil {
			return err
		}

		if len(rows) > 0 {
			models := make([]oddsTableModel, 0, len(rows))
			for _, row := range rows {
				models = append(models, newOddsTableModel(matchID, row, at))
			}
			query, args, err := qb.InsertModels("match_odds", models, "")
			if err != nil {
				return crerr.Wrap(err, "build insert odds query")
			}
			if _, err := tx.ExecContext(ctx, query, args...); err != nil {
				return crerr.Wrap(err, "insert odds rows")
			}
		}

		return insertHistory(ctx, tx, matchID, entry)
	})
}

func (r *OddsRepository) ExpireActive(ctx context.Context, matchID string, entry odds.HistoryEntry, at time.Time) (int, error) {
	var expired int
	err := r.inMatchTx(ctx, matchID, "expire active odds", func(tx *sqlx.Tx) error {
		n, err := expireActive(ctx, tx, matchID, at)
		if err != nil {
			return err
		}
		expired = n
		if n == 0 {
			return nil
		}
		return insertHistory(ctx, tx, matchID, entry)
	})
	if err != nil {
		return 0, err
	}
	return expired, nil
}

func (r *OddsRepository) ListActive(ctx context.Context, matchID string) ([]odds.Row, error) {
	query, args, err := qb.Select(oddsRowColumns...).
		From("match_odds").
		Where(qb.Eq("match_public_id", matchID), qb.IsNull("effective_until")).
		OrderBy("id").
		ToSQL()
	if err != nil {
		return nil, crerr.Wrap(err, "build list active odds query")
	}

	var models []oddsTableModel
	if err := r.db.SelectContext(ctx, &models, query, args...); err != nil {
		return nil, crerr.Wrapf(err, "list active odds match=%s", matchID)
	}

	out := make([]odds.Row, 0, len(models))
	for _, m := range models {
		out = append(out, m.toDomain())
	}
	return out, nil
}

func (r *OddsRepository) ListHistory(ctx context.Context, matchID string, limit int) ([]odds.HistoryEntry, error) {
	query, args, err := qb.Select(historyColumns...).
		From("match_odds_history").
		Where(qb.Eq("match_public_id", matchID)).
		OrderBy("created_at DESC", "id DESC").
		Limit(limit).
		ToSQL()
	if err != nil {
		return nil, crerr.Wrap(err, "build list odds history query")
	}

	var models []oddsHistoryTableModel
	if err := r.db.SelectContext(ctx, &models, query, args...); err != nil {
		return nil, crerr.Wrapf(err, "list odds history match=%s", matchID)
	}

	out := make([]odds.HistoryEntry, 0, len(models))
	for _, m := range models {
		entry, err := m.toDomain()
		if err != nil {
			return nil, err
		}
		out = append(out, entry)
	}
	return out, nil
}

func (r *OddsRepository) inMatchTx(ctx context.Context, matchID, op string, fn func(tx *sqlx.Tx) error) error {
	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return crerr.Wrapf(err, "begin tx %s", op)
	}
	defer func() {
		_ = tx.Rollback()
	}()

	if err := lockMatch(ctx, tx, matchID); err != nil {
		return crerr.Wrapf(err, "lock match=%s", matchID)
	}
	if err := fn(tx); err != nil {
		return crerr.Wrapf(err, "%s match=%s", op, matchID)
	}
	if err := tx.Commit(); err != nil {
		return crerr.Wrapf(err, "commit tx %s", op)
	}
	return nil
}

func expireActive(ctx context.Context, tx *sqlx.Tx, matchID string, at time.Time) (int, error) {
	query, args, err := qb.Update("match_odds").
		Set("effective_until", at).
		Where(qb.Eq("match_public_id", matchID), qb.IsNull("effective_until")).
		ToSQL()
	if err != nil {
		return 0, crerr.Wrap(err, "build expire odds query")
	}

	res, err := tx.ExecContext(ctx, query, args...)
	if err != nil {
		return 0, crerr.Wrap(err, "expire odds rows")
	}
	n, err := res.RowsAffected()
	if err != nil {
		return 0, crerr.Wrap(err, "count expired odds rows")
	}
	return int(n), nil
}

func insertHistory(ctx context.Context, tx *sqlx.Tx, matchID string, entry odds.HistoryEntry) error {
	model, err := newOddsHistoryTableModel(matchID, entry)
	if err != nil {
		return err
	}
	query, args, err := qb.InsertModel("match_odds_history", model, "")
	if err != nil {
		return crerr.Wrap(err, "build insert odds history query")
	}
	if _, err := tx.ExecContext(ctx, query, args...); err != nil {
		return crerr.Wrap(err, "insert odds history")
	}
	return nil
}
