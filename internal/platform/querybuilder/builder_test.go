package querybuilder

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSelectBuilder(t *testing.T) {
	query, args, err := Select("id", "odds").
		From("match_odds").
		Where(Eq("match_public_id", "m1"), IsNull("effective_until"), In("market", "1X2", "BOTH_TEAMS_SCORE")).
		OrderBy("id").
		Limit(10).
		Offset(20).
		ToSQL()
	require.NoError(t, err)

	assert.Equal(t, "SELECT id, odds FROM match_odds WHERE match_public_id = $1 AND effective_until IS NULL AND market IN ($2, $3) ORDER BY id LIMIT 10 OFFSET 20", query)
	assert.Equal(t, []any{"m1", "1X2", "BOTH_TEAMS_SCORE"}, args)
}

func TestSelectBuilder_ForUpdateAndRanges(t *testing.T) {
	query, args, err := Select("balance").
		From("wallets").
		Where(Eq("user_id", "u1"), Gte("updated_at", 1), Lt("updated_at", 2), Lte("balance", 3), Expr("currency = ?", "EUR")).
		ForUpdate().
		ToSQL()
	require.NoError(t, err)

	assert.Equal(t, "SELECT balance FROM wallets WHERE user_id = $1 AND updated_at >= $2 AND updated_at < $3 AND balance <= $4 AND currency = $5 FOR UPDATE", query)
	assert.Len(t, args, 5)
}

func TestSelectBuilder_EmptyInMatchesNothing(t *testing.T) {
	query, args, err := Select("id").From("matches").Where(In("status")).ToSQL()
	require.NoError(t, err)
	assert.Equal(t, "SELECT id FROM matches WHERE 1=0", query)
	assert.Empty(t, args)
}

func TestInsertBuilder_MultiRow(t *testing.T) {
	query, args, err := InsertInto("match_odds").
		Columns("match_public_id", "odds").
		Values("m1", 1.5).
		Values("m1", 2.5).
		Suffix("RETURNING id").
		ToSQL()
	require.NoError(t, err)

	assert.Equal(t, "INSERT INTO match_odds (match_public_id, odds) VALUES ($1, $2), ($3, $4) RETURNING id", query)
	assert.Equal(t, []any{"m1", 1.5, "m1", 2.5}, args)
}

func TestInsertBuilder_RowWidthMismatch(t *testing.T) {
	_, _, err := InsertInto("t").Columns("a", "b").Values(1).ToSQL()
	require.Error(t, err)
}

func TestUpdateBuilder(t *testing.T) {
	query, args, err := Update("match_odds").
		Set("effective_until", "now").
		SetExpr("version", "version + ?", 1).
		Where(Eq("match_public_id", "m1"), IsNull("effective_until")).
		ToSQL()
	require.NoError(t, err)

	assert.Equal(t, "UPDATE match_odds SET effective_until = $1, version = version + $2 WHERE match_public_id = $3 AND effective_until IS NULL", query)
	assert.Equal(t, []any{"now", 1, "m1"}, args)
}

type rowModel struct {
	ID     int64   `db:"id,readonly"`
	Match  string  `db:"match_public_id"`
	Odds   float64 `db:"odds"`
	Ignore string  `db:"-"`
	hidden string
}

func TestInsertModels(t *testing.T) {
	query, args, err := InsertModels("match_odds", []rowModel{
		{ID: 9, Match: "m1", Odds: 1.9},
		{Match: "m1", Odds: 2.1},
	}, "")
	require.NoError(t, err)

	assert.Equal(t, "INSERT INTO match_odds (match_public_id, odds) VALUES ($1, $2), ($3, $4)", query)
	assert.Equal(t, []any{"m1", 1.9, "m1", 2.1}, args)
}

func TestInsertModel_RejectsNonStruct(t *testing.T) {
	_, _, err := InsertModel("t", 42, "")
	require.Error(t, err)

	var nilModel *rowModel
	_, _, err = InsertModel("t", nilModel, "")
	require.Error(t, err)
}

func TestSelectBuilder_IsNotNull(t *testing.T) {
	query, args, err := Select("id").From("matches").Where(IsNotNull("home_score"), IsNull("deleted_at")).ToSQL()
	require.NoError(t, err)
	assert.Equal(t, "SELECT id FROM matches WHERE home_score IS NOT NULL AND deleted_at IS NULL", query)
	assert.Empty(t, args)
}
