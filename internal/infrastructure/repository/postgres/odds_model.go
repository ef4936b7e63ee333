package postgres

import (
	"database/sql"
	"time"

	"github.com/bytedance/sonic"
	crerr "github.com/cockroachdb/errors"

	"github.com/riskibarqy/club-odds/internal/domain/odds"
)

var oddsRowColumns = []string{
	"id",
	"match_public_id",
	"market",
	"selection",
	"line",
	"odds",
	"source",
	"margin",
	"implied_probability",
	"effective_from",
	"effective_until",
}

type oddsTableModel struct {
	ID                 int64           `db:"id,readonly"`
	MatchID            string          `db:"match_public_id"`
	Market             string          `db:"market"`
	Selection          string          `db:"selection"`
	Line               sql.NullFloat64 `db:"line"`
	Odds               float64         `db:"odds"`
	Source             string          `db:"source"`
	Margin             float64         `db:"margin"`
	ImpliedProbability float64         `db:"implied_probability"`
	EffectiveFrom      time.Time       `db:"effective_from"`
	EffectiveUntil     *time.Time      `db:"effective_until"`
}

func newOddsTableModel(matchID string, row odds.Row, at time.Time) oddsTableModel {
	return oddsTableModel{
		MatchID:            matchID,
		Market:             string(row.Market),
		Selection:          string(row.Selection),
		Line:               nullFloat(row.Line),
		Odds:               row.Odds,
		Source:             string(row.Source),
		Margin:             row.Margin,
		ImpliedProbability: row.ImpliedProbability,
		EffectiveFrom:      at,
	}
}

func (m oddsTableModel) toDomain() odds.Row {
	row := odds.Row{
		ID:                 m.ID,
		MatchID:            m.MatchID,
		Market:             odds.MarketType(m.Market),
		Selection:          odds.SelectionKey(m.Selection),
		Line:               floatPtr(m.Line),
		Odds:               m.Odds,
		Source:             odds.Source(m.Source),
		Margin:             m.Margin,
		ImpliedProbability: m.ImpliedProbability,
		EffectiveFrom:      m.EffectiveFrom.UTC(),
	}
	if m.EffectiveUntil != nil {
		until := m.EffectiveUntil.UTC()
		row.EffectiveUntil = &until
	}
	return row
}

var historyColumns = []string{"id", "match_public_id", "action", "source", "margin", "payload", "created_at"}

type oddsHistoryTableModel struct {
	ID        int64           `db:"id,readonly"`
	MatchID   string          `db:"match_public_id"`
	Action    string          `db:"action"`
	Source    sql.NullString  `db:"source"`
	Margin    sql.NullFloat64 `db:"margin"`
	Payload   string          `db:"payload"`
	CreatedAt time.Time       `db:"created_at"`
}

func newOddsHistoryTableModel(matchID string, entry odds.HistoryEntry) (oddsHistoryTableModel, error) {
	payload := "{}"
	if len(entry.Odds) > 0 {
		encoded, err := sonic.MarshalString(entry.Odds)
		if err != nil {
			return oddsHistoryTableModel{}, crerr.Wrap(err, "encode odds history payload")
		}
		payload = encoded
	}

	model := oddsHistoryTableModel{
		MatchID:   matchID,
		Action:    string(entry.Action),
		Source:    nullString(string(entry.Source)),
		Payload:   payload,
		CreatedAt: entry.CreatedAt,
	}
	if entry.Action == odds.ActionGenerated {
		model.Margin = sql.NullFloat64{Float64: entry.Margin, Valid: true}
	}
	return model, nil
}

func (m oddsHistoryTableModel) toDomain() (odds.HistoryEntry, error) {
	entry := odds.HistoryEntry{
		ID:        m.ID,
		MatchID:   m.MatchID,
		Action:    odds.Action(m.Action),
		Source:    odds.Source(m.Source.String),
		Margin:    m.Margin.Float64,
		CreatedAt: m.CreatedAt.UTC(),
	}
	if len(m.Payload) > 0 {
		var snapshot map[string]float64
		if err := sonic.UnmarshalString(m.Payload, &snapshot); err != nil {
			return odds.HistoryEntry{}, crerr.Wrapf(err, "decode odds history payload id=%d", m.ID)
		}
		if len(snapshot) > 0 {
			entry.Odds = snapshot
		}
	}
	return entry, nil
}
