package postgres

import (
	"database/sql"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/riskibarqy/club-odds/internal/domain/match"
	"github.com/riskibarqy/club-odds/internal/domain/odds"
	"github.com/riskibarqy/club-odds/internal/domain/wallet"
	qb "github.com/riskibarqy/club-odds/internal/platform/querybuilder"
)

func TestMatchTableModelToDomain(t *testing.T) {
	kickoff := time.Date(2026, 3, 14, 15, 0, 0, 0, time.FixedZone("WIB", 7*3600))
	got := matchTableModel{
		PublicID:   "m-001",
		HomeTeamID: "riverside",
		AwayTeamID: "old-boys",
		Status:     " FT ",
		KickoffAt:  kickoff,
		HomeScore:  sql.NullInt64{Int64: 2, Valid: true},
		AwayScore:  sql.NullInt64{Int64: 1, Valid: true},
	}.toDomain()

	assert.Equal(t, "m-001", got.ID)
	assert.Equal(t, "ft", got.Status)
	assert.Equal(t, time.UTC, got.KickoffAt.Location())
	require.NotNil(t, got.HomeScore)
	assert.Equal(t, 2, *got.HomeScore)
	assert.Nil(t, got.HalfTimeHomeScore)
	assert.True(t, got.IsUsableSample())
}

func TestMatchTableModelBlankStatusIsUpcoming(t *testing.T) {
	got := matchTableModel{PublicID: "m-002"}.toDomain()
	assert.Equal(t, match.StatusUpcoming, got.Status)
	assert.False(t, got.IsUsableSample())
}

func TestOddsTableModelRoundTrip(t *testing.T) {
	at := time.Date(2026, 3, 14, 10, 0, 0, 0, time.UTC)
	line := 2.5
	row := odds.Row{
		Market:             odds.MarketOverUnder,
		Selection:          odds.SelectionOver,
		Line:               &line,
		Odds:               1.9,
		Source:             odds.SourceCalculated,
		Margin:             0.05,
		ImpliedProbability: 52.63,
	}

	model := newOddsTableModel("m-013", row, at)
	assert.Equal(t, "m-013", model.MatchID)
	assert.True(t, model.Line.Valid)
	assert.Nil(t, model.EffectiveUntil)
	assert.Equal(t, at, model.EffectiveFrom)

	back := model.toDomain()
	require.NotNil(t, back.Line)
	assert.Equal(t, 2.5, *back.Line)
	assert.Equal(t, odds.SelectionOver, back.Selection)
	assert.True(t, back.IsActive())

	until := at.Add(time.Hour)
	model.EffectiveUntil = &until
	assert.False(t, model.toDomain().IsActive())
}

func TestOddsInsertSkipsDatabaseAssignedID(t *testing.T) {
	at := time.Date(2026, 3, 14, 10, 0, 0, 0, time.UTC)
	models := []oddsTableModel{
		newOddsTableModel("m-013", odds.Row{Market: odds.MarketMatchResult, Selection: odds.SelectionHome, Odds: 1.75}, at),
		newOddsTableModel("m-013", odds.Row{Market: odds.MarketMatchResult, Selection: odds.SelectionDraw, Odds: 3.9}, at),
	}

	query, args, err := qb.InsertModels("match_odds", models, "")
	require.NoError(t, err)
	assert.NotContains(t, query, "(id,")
	assert.Contains(t, query, "INSERT INTO match_odds (match_public_id, market, selection, line, odds")
	assert.Len(t, args, 2*10)
}

func TestOddsHistoryTableModel(t *testing.T) {
	at := time.Date(2026, 3, 14, 10, 0, 0, 0, time.UTC)

	generated, err := newOddsHistoryTableModel("m-013", odds.HistoryEntry{
		Action:    odds.ActionGenerated,
		Source:    odds.SourceCalculated,
		Margin:    0.05,
		Odds:      map[string]float64{"1X2:1": 1.75},
		CreatedAt: at,
	})
	require.NoError(t, err)
	assert.JSONEq(t, `{"1X2:1":1.75}`, generated.Payload)
	assert.True(t, generated.Margin.Valid)
	assert.Equal(t, "CALCULATED", generated.Source.String)

	entry, err := generated.toDomain()
	require.NoError(t, err)
	assert.Equal(t, odds.ActionGenerated, entry.Action)
	assert.Equal(t, 1.75, entry.Odds["1X2:1"])

	locked, err := newOddsHistoryTableModel("m-013", odds.HistoryEntry{Action: odds.ActionLocked, CreatedAt: at})
	require.NoError(t, err)
	assert.Equal(t, "{}", locked.Payload)
	assert.False(t, locked.Margin.Valid)
	assert.False(t, locked.Source.Valid)

	entry, err = locked.toDomain()
	require.NoError(t, err)
	assert.Nil(t, entry.Odds)
}

func TestOddsHistoryTableModelRejectsCorruptPayload(t *testing.T) {
	_, err := oddsHistoryTableModel{ID: 7, Payload: "{not json"}.toDomain()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "id=7")
}

func TestWalletTransactionTableModel(t *testing.T) {
	at := time.Date(2026, 3, 14, 10, 0, 0, 0, time.UTC)
	txn := wallet.Transaction{
		ID:           "0190f7e2-0000-7000-8000-000000000001",
		UserID:       "u-1",
		Kind:         wallet.KindBetPlaced,
		Amount:       decimal.RequireFromString("-12.50"),
		BalanceAfter: decimal.RequireFromString("87.50"),
		Reference:    "m-013",
		CreatedAt:    at,
	}

	back := newWalletTransactionTableModel(txn).toDomain()
	assert.Equal(t, txn.ID, back.ID)
	assert.Equal(t, wallet.KindBetPlaced, back.Kind)
	assert.True(t, back.Amount.Equal(txn.Amount))
	assert.True(t, back.BalanceAfter.Equal(txn.BalanceAfter))
}

func TestNullHelpers(t *testing.T) {
	assert.False(t, nullFloat(nil).Valid)
	v := 1.5
	assert.Equal(t, sql.NullFloat64{Float64: 1.5, Valid: true}, nullFloat(&v))
	assert.Nil(t, floatPtr(sql.NullFloat64{}))
	assert.Nil(t, intPtr(sql.NullInt64{}))
	assert.False(t, nullString("").Valid)
	assert.True(t, isNotFound(sql.ErrNoRows))
}

func TestCompletedConditionsRequireScores(t *testing.T) {
	query, args, err := qb.Select("id").
		From("matches").
		Where(completedConditions(qb.Expr("(home_team_public_id = ? OR away_team_public_id = ?)", "t1", "t1"))...).
		ToSQL()
	require.NoError(t, err)

	assert.Equal(t, "SELECT id FROM matches WHERE LOWER(status) IN ($1, $2, $3) AND (home_team_public_id = $4 OR away_team_public_id = $5) AND home_score IS NOT NULL AND away_score IS NOT NULL AND deleted_at IS NULL", query)
	assert.Equal(t, []any{match.StatusCompleted, "finished", "ft", "t1", "t1"}, args)
}
