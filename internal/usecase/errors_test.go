package usecase

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/riskibarqy/club-odds/internal/domain/odds"
)

func TestOddsViolations(t *testing.T) {
	verr := &odds.ValidationError{MatchID: "m-1", Violations: []string{"a", "b"}}

	assert.Equal(t, []string{"a", "b"}, OddsViolations(fmt.Errorf("save: %w", verr)))
	assert.Nil(t, OddsViolations(errors.New("boom")))
	assert.Nil(t, OddsViolations(nil))
	assert.ErrorIs(t, verr, odds.ErrInvalidOdds)
}
