package usecase

import (
	"errors"

	"github.com/riskibarqy/club-odds/internal/domain/odds"
)

var (
	ErrInvalidInput          = errors.New("invalid input")
	ErrNotFound              = errors.New("resource not found")
	ErrDependencyUnavailable = errors.New("dependency unavailable")
)

// OddsViolations returns the validator findings carried by err, nil when
// err did not come from odds validation.
func OddsViolations(err error) []string {
	var verr *odds.ValidationError
	if errors.As(err, &verr) {
		return verr.Violations
	}
	return nil
}
