package main

import (
	"bytes"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/riskibarqy/club-odds/internal/domain/odds"
)

func sampleOdds() odds.MatchOdds {
	return odds.New("m-013", 0.05, time.Date(2026, 5, 1, 12, 0, 0, 0, time.UTC),
		odds.MatchResult{Home: 2.10, Draw: 3.40, Away: 3.20},
		odds.DoubleChance{HomeOrDraw: 1.30, DrawOrAway: 1.65, HomeOrAway: 1.30},
		odds.BothTeamsScore{Yes: 1.80, No: 1.95},
		odds.OverUnder{Line: 2.5, Over: 1.90, Under: 1.85},
	)
}

func TestPrintQuote_American(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, printQuote(&buf, sampleOdds(), odds.FormatAmerican))

	out := buf.String()
	assert.Contains(t, out, "match m-013  margin 5.00%")
	assert.Contains(t, out, "+110")
	assert.Contains(t, out, "2.5")
	assert.Equal(t, 1, strings.Count(out, "MARKET"))
}

func TestPrintHistory(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, printHistory(&buf, nil))
	assert.Equal(t, "no history\n", buf.String())

	buf.Reset()
	at := time.Date(2026, 5, 1, 12, 0, 0, 0, time.UTC)
	require.NoError(t, printHistory(&buf, []odds.HistoryEntry{
		{MatchID: "m-013", Action: odds.ActionLocked, CreatedAt: at.Add(time.Hour)},
		{MatchID: "m-013", Action: odds.ActionGenerated, Source: odds.SourceCalculated, Margin: 0.05,
			Odds: map[string]float64{"HOME": 2.1, "AWAY": 3.2}, CreatedAt: at},
	}))

	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	require.Len(t, lines, 3)
	assert.Contains(t, lines[1], "LOCKED")
	assert.Contains(t, lines[2], "5.00%")
	assert.Contains(t, lines[2], "AWAY=3.20 HOME=2.10")
}

func TestRootCmd_RegistersSubcommands(t *testing.T) {
	root := newRootCmd()
	for _, name := range []string{"regenerate", "bulk", "lock", "lock-kicked-off", "show", "history", "run"} {
		cmd, _, err := root.Find([]string{name})
		require.NoError(t, err, name)
		assert.Equal(t, name, cmd.Name())
	}
}
