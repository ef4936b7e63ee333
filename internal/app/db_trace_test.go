package app

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestFormatDBQueryForTrace(t *testing.T) {
	got := formatDBQueryForTrace(`
		SELECT id, odds -- active rows only
		FROM match_odds
		WHERE effective_until IS NULL`)
	assert.Equal(t, "SELECT id, odds FROM match_odds WHERE effective_until IS NULL", got)

	assert.Empty(t, formatDBQueryForTrace("   "))

	long := "SELECT " + strings.Repeat("é", 400)
	truncated := formatDBQueryForTrace(long)
	assert.True(t, strings.HasSuffix(truncated, "..."))
	assert.LessOrEqual(t, len(truncated), maxTracedQueryLength+3)
	assert.True(t, strings.ToValidUTF8(truncated, "?") == truncated)
}
