package odds

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseFormat(t *testing.T) {
	for raw, want := range map[string]Format{
		"":            FormatDecimal,
		"decimal":     FormatDecimal,
		" Fractional": FormatFractional,
		"AMERICAN":    FormatAmerican,
	} {
		got, err := ParseFormat(raw)
		require.NoError(t, err, raw)
		assert.Equal(t, want, got, raw)
	}

	_, err := ParseFormat("hongkong")
	require.Error(t, err)
}

func TestFormatPrice(t *testing.T) {
	assert.Equal(t, "2.50", FormatPrice(FormatDecimal, 2.5))
	assert.Equal(t, "3/2", FormatPrice(FormatFractional, 2.5))
	assert.Equal(t, "+150", FormatPrice(FormatAmerican, 2.5))
	assert.Equal(t, "-200", FormatPrice(FormatAmerican, 1.5))
	assert.Equal(t, "0/1", FormatPrice(FormatFractional, 1))
}

func TestQuote(t *testing.T) {
	o := New("m-1", 0.05, time.Date(2026, 3, 14, 10, 0, 0, 0, time.UTC),
		OverUnder{Line: 2.5, Over: 1.9, Under: 1.9},
		MatchResult{Home: 2.5, Draw: 3.4, Away: 2.9},
		DoubleChance{HomeOrDraw: 1.4, DrawOrAway: 1.55, HomeOrAway: 1.3},
	)

	quotes := o.Quote(FormatFractional)
	require.Len(t, quotes, 3)

	assert.Equal(t, MarketMatchResult, quotes[0].Market)
	assert.Nil(t, quotes[0].Line)
	assert.Equal(t, "3/2", quotes[0].Selections[0].Price)
	assert.Equal(t, 40.0, quotes[0].Selections[0].ImpliedProbability)

	assert.Equal(t, MarketDoubleChance, quotes[1].Market)
	assert.Zero(t, quotes[1].MarginPercent)

	assert.Equal(t, MarketOverUnder, quotes[2].Market)
	require.NotNil(t, quotes[2].Line)
	assert.Equal(t, 2.5, *quotes[2].Line)
	assert.Equal(t, 5.26, quotes[2].MarginPercent)
	assert.Equal(t, "9/10", quotes[2].Selections[0].Price)
}
