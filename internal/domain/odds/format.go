package odds

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/riskibarqy/club-odds/pkg/oddsmath"
)

type Format string

const (
	FormatDecimal    Format = "decimal"
	FormatFractional Format = "fractional"
	FormatAmerican   Format = "american"
)

// ParseFormat accepts a format name case-insensitively. Empty means decimal.
func ParseFormat(raw string) (Format, error) {
	switch f := Format(strings.ToLower(strings.TrimSpace(raw))); f {
	case "":
		return FormatDecimal, nil
	case FormatDecimal, FormatFractional, FormatAmerican:
		return f, nil
	default:
		return "", fmt.Errorf("unknown odds format %q: valid values are %s, %s, %s", raw, FormatDecimal, FormatFractional, FormatAmerican)
	}
}

// FormatPrice renders decimal odds in the requested format.
func FormatPrice(f Format, decimalOdds float64) string {
	switch f {
	case FormatFractional:
		return oddsmath.DecimalToFractional(decimalOdds)
	case FormatAmerican:
		return oddsmath.FormatAmerican(oddsmath.DecimalToAmerican(decimalOdds))
	default:
		return strconv.FormatFloat(oddsmath.Round2(decimalOdds), 'f', 2, 64)
	}
}

type QuotedSelection struct {
	Key                SelectionKey
	Decimal            float64
	Price              string
	ImpliedProbability float64
}

type QuotedMarket struct {
	Market MarketType
	// Line is set for over/under only.
	Line *float64
	// MarginPercent is the market's overround, e.g. 5.26.
	MarginPercent float64
	Selections    []QuotedSelection
}

// Quote lists every present market in MarketOrder with prices rendered in f.
func (o MatchOdds) Quote(f Format) []QuotedMarket {
	markets := o.Markets()
	out := make([]QuotedMarket, 0, len(markets))
	for _, m := range markets {
		sels := m.Selections()
		q := QuotedMarket{
			Market:     m.Type(),
			Selections: make([]QuotedSelection, 0, len(sels)),
		}
		if ou, ok := m.(OverUnder); ok {
			line := ou.Line
			q.Line = &line
		}

		prices := make([]float64, 0, len(sels))
		for _, s := range sels {
			prices = append(prices, s.Odds)
			q.Selections = append(q.Selections, QuotedSelection{
				Key:                s.Key,
				Decimal:            s.Odds,
				Price:              FormatPrice(f, s.Odds),
				ImpliedProbability: oddsmath.ImpliedProbability(s.Odds),
			})
		}
		// Double chance selections overlap, so their overround is not a margin.
		if m.Type() != MarketDoubleChance {
			q.MarginPercent = oddsmath.BookmakerMargin(prices...)
		}
		out = append(out, q)
	}
	return out
}
