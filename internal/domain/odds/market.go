package odds

type MarketType string

const (
	MarketMatchResult    MarketType = "1X2"
	MarketDoubleChance   MarketType = "DOUBLE_CHANCE"
	MarketBothTeamsScore MarketType = "BOTH_TEAMS_SCORE"
	MarketOverUnder      MarketType = "OVER_UNDER"
)

// MarketOrder is the canonical order markets are listed and persisted in.
var MarketOrder = []MarketType{
	MarketMatchResult,
	MarketDoubleChance,
	MarketBothTeamsScore,
	MarketOverUnder,
}

type SelectionKey string

const (
	SelectionHome       SelectionKey = "1"
	SelectionDraw       SelectionKey = "X"
	SelectionAway       SelectionKey = "2"
	SelectionHomeOrDraw SelectionKey = "1X"
	SelectionDrawOrAway SelectionKey = "X2"
	SelectionHomeOrAway SelectionKey = "12"
	SelectionYes        SelectionKey = "YES"
	SelectionNo         SelectionKey = "NO"
	SelectionOver       SelectionKey = "OVER"
	SelectionUnder      SelectionKey = "UNDER"
)

// Selection is one priced outcome. Zero Odds means the selection is missing.
type Selection struct {
	Key  SelectionKey
	Odds float64
}

// Market is implemented by exactly one type per MarketType.
type Market interface {
	Type() MarketType
	// Selections lists every selection of the market, in display order.
	Selections() []Selection
	isMarket()
}

// MatchResult is the three-way 1X2 market.
type MatchResult struct {
	Home float64
	Draw float64
	Away float64
}

func (MatchResult) Type() MarketType { return MarketMatchResult }
func (MatchResult) isMarket()        {}

func (m MatchResult) Selections() []Selection {
	return []Selection{
		{Key: SelectionHome, Odds: m.Home},
		{Key: SelectionDraw, Odds: m.Draw},
		{Key: SelectionAway, Odds: m.Away},
	}
}

// DoubleChance covers two of the three 1X2 outcomes per selection.
type DoubleChance struct {
	HomeOrDraw float64
	DrawOrAway float64
	HomeOrAway float64
}

func (DoubleChance) Type() MarketType { return MarketDoubleChance }
func (DoubleChance) isMarket()        {}

func (m DoubleChance) Selections() []Selection {
	return []Selection{
		{Key: SelectionHomeOrDraw, Odds: m.HomeOrDraw},
		{Key: SelectionDrawOrAway, Odds: m.DrawOrAway},
		{Key: SelectionHomeOrAway, Odds: m.HomeOrAway},
	}
}

type BothTeamsScore struct {
	Yes float64
	No  float64
}

func (BothTeamsScore) Type() MarketType { return MarketBothTeamsScore }
func (BothTeamsScore) isMarket()        {}

func (m BothTeamsScore) Selections() []Selection {
	return []Selection{
		{Key: SelectionYes, Odds: m.Yes},
		{Key: SelectionNo, Odds: m.No},
	}
}

// OverUnder prices total goals against Line, e.g. 2.5.
type OverUnder struct {
	Line  float64
	Over  float64
	Under float64
}

func (OverUnder) Type() MarketType { return MarketOverUnder }
func (OverUnder) isMarket()        {}

func (m OverUnder) Selections() []Selection {
	return []Selection{
		{Key: SelectionOver, Odds: m.Over},
		{Key: SelectionUnder, Odds: m.Under},
	}
}

// withSelection returns a copy of the market with key priced at value.
// Unknown keys leave the market untouched and report false.
func withSelection(m Market, key SelectionKey, value float64) (Market, bool) {
	switch v := m.(type) {
	case MatchResult:
		switch key {
		case SelectionHome:
			v.Home = value
		case SelectionDraw:
			v.Draw = value
		case SelectionAway:
			v.Away = value
		default:
			return m, false
		}
		return v, true
	case DoubleChance:
		switch key {
		case SelectionHomeOrDraw:
			v.HomeOrDraw = value
		case SelectionDrawOrAway:
			v.DrawOrAway = value
		case SelectionHomeOrAway:
			v.HomeOrAway = value
		default:
			return m, false
		}
		return v, true
	case BothTeamsScore:
		switch key {
		case SelectionYes:
			v.Yes = value
		case SelectionNo:
			v.No = value
		default:
			return m, false
		}
		return v, true
	case OverUnder:
		switch key {
		case SelectionOver:
			v.Over = value
		case SelectionUnder:
			v.Under = value
		default:
			return m, false
		}
		return v, true
	}
	return m, false
}

func emptyMarket(t MarketType) (Market, bool) {
	switch t {
	case MarketMatchResult:
		return MatchResult{}, true
	case MarketDoubleChance:
		return DoubleChance{}, true
	case MarketBothTeamsScore:
		return BothTeamsScore{}, true
	case MarketOverUnder:
		return OverUnder{}, true
	default:
		return nil, false
	}
}
