package odds

import (
	"strconv"
	"time"

	"github.com/riskibarqy/club-odds/pkg/oddsmath"
)

type Source string

const (
	SourceCalculated  Source = "CALCULATED"
	SourceManual      Source = "MANUAL"
	SourceExternalAPI Source = "EXTERNAL_API"
)

func (s Source) Valid() bool {
	switch s {
	case SourceCalculated, SourceManual, SourceExternalAPI:
		return true
	default:
		return false
	}
}

type Action string

const (
	ActionGenerated Action = "GENERATED"
	ActionLocked    Action = "LOCKED"
)

// MatchOdds is the full set of priced markets for one match.
// Build it with New; markets are read through the typed accessors.
type MatchOdds struct {
	MatchID     string
	Margin      float64
	LastUpdated time.Time
	markets     map[MarketType]Market
}

func New(matchID string, margin float64, lastUpdated time.Time, markets ...Market) MatchOdds {
	out := MatchOdds{
		MatchID:     matchID,
		Margin:      margin,
		LastUpdated: lastUpdated,
		markets:     make(map[MarketType]Market, len(markets)),
	}
	for _, m := range markets {
		if m == nil {
			continue
		}
		out.markets[m.Type()] = m
	}
	return out
}

func (o MatchOdds) Market(t MarketType) (Market, bool) {
	m, ok := o.markets[t]
	return m, ok
}

func (o MatchOdds) MatchResult() (MatchResult, bool) {
	m, ok := o.markets[MarketMatchResult].(MatchResult)
	return m, ok
}

func (o MatchOdds) DoubleChance() (DoubleChance, bool) {
	m, ok := o.markets[MarketDoubleChance].(DoubleChance)
	return m, ok
}

func (o MatchOdds) BothTeamsScore() (BothTeamsScore, bool) {
	m, ok := o.markets[MarketBothTeamsScore].(BothTeamsScore)
	return m, ok
}

func (o MatchOdds) OverUnder() (OverUnder, bool) {
	m, ok := o.markets[MarketOverUnder].(OverUnder)
	return m, ok
}

// Markets lists the present markets in MarketOrder.
func (o MatchOdds) Markets() []Market {
	out := make([]Market, 0, len(o.markets))
	for _, t := range MarketOrder {
		if m, ok := o.markets[t]; ok {
			out = append(out, m)
		}
	}
	return out
}

func (o MatchOdds) IsZero() bool {
	return o.MatchID == "" && len(o.markets) == 0
}

// Snapshot flattens the odds into "MARKET:SELECTION" keys. The over/under
// key carries its line, e.g. "OVER_UNDER(2.5):OVER".
func (o MatchOdds) Snapshot() map[string]float64 {
	out := make(map[string]float64)
	for _, m := range o.Markets() {
		prefix := string(m.Type())
		if ou, ok := m.(OverUnder); ok {
			prefix += "(" + strconv.FormatFloat(ou.Line, 'f', -1, 64) + ")"
		}
		for _, s := range m.Selections() {
			out[prefix+":"+string(s.Key)] = s.Odds
		}
	}
	return out
}

// Row is one persisted (match, market, selection) price version.
type Row struct {
	ID                 int64
	MatchID            string
	Market             MarketType
	Selection          SelectionKey
	Line               *float64
	Odds               float64
	Source             Source
	Margin             float64
	ImpliedProbability float64
	EffectiveFrom      time.Time
	EffectiveUntil     *time.Time
}

func (r Row) IsActive() bool {
	return r.EffectiveUntil == nil
}

// Rows flattens the odds into one active row per selection, effective from at.
func (o MatchOdds) Rows(source Source, at time.Time) []Row {
	out := make([]Row, 0, 10)
	for _, m := range o.Markets() {
		var line *float64
		if ou, ok := m.(OverUnder); ok {
			l := ou.Line
			line = &l
		}
		for _, s := range m.Selections() {
			out = append(out, Row{
				MatchID:            o.MatchID,
				Market:             m.Type(),
				Selection:          s.Key,
				Line:               line,
				Odds:               s.Odds,
				Source:             source,
				Margin:             o.Margin,
				ImpliedProbability: oddsmath.ImpliedProbability(s.Odds),
				EffectiveFrom:      at,
			})
		}
	}
	return out
}

// FromRows groups rows by market back into MatchOdds. Rows of unknown markets
// or selections are ignored. Returns false when nothing could be rebuilt.
func FromRows(matchID string, rows []Row) (MatchOdds, bool) {
	markets := make(map[MarketType]Market)
	var (
		margin      float64
		lastUpdated time.Time
	)

	for _, row := range rows {
		m, ok := markets[row.Market]
		if !ok {
			m, ok = emptyMarket(row.Market)
			if !ok {
				continue
			}
		}
		if ou, isOU := m.(OverUnder); isOU && row.Line != nil {
			ou.Line = *row.Line
			m = ou
		}
		m, ok = withSelection(m, row.Selection, row.Odds)
		if !ok {
			continue
		}
		markets[row.Market] = m

		margin = row.Margin
		if row.EffectiveFrom.After(lastUpdated) {
			lastUpdated = row.EffectiveFrom
		}
	}

	if len(markets) == 0 {
		return MatchOdds{}, false
	}

	list := make([]Market, 0, len(markets))
	for _, m := range markets {
		list = append(list, m)
	}
	return New(matchID, margin, lastUpdated, list...), true
}

// HistoryEntry is one append-only audit record of an odds change.
type HistoryEntry struct {
	ID        int64
	MatchID   string
	Action    Action
	Source    Source
	Margin    float64
	Odds      map[string]float64
	CreatedAt time.Time
}

// ChangeEvent is broadcast after active odds change.
type ChangeEvent struct {
	MatchID string             `json:"match_id"`
	Action  Action             `json:"action"`
	Source  Source             `json:"source,omitempty"`
	Odds    map[string]float64 `json:"odds,omitempty"`
	At      time.Time          `json:"at"`
}
