package odds

import (
	"strings"

	crerr "github.com/cockroachdb/errors"
)

var (
	ErrInvalidGenerateInput = crerr.New("invalid odds generation input")
	ErrInvalidOdds          = crerr.New("invalid odds")
)

// ValidationError carries every violation found in a rejected odds set.
type ValidationError struct {
	MatchID    string
	Violations []string
}

func (e *ValidationError) Error() string {
	return "invalid odds for match " + e.MatchID + ": " + strings.Join(e.Violations, "; ")
}

func (e *ValidationError) Unwrap() error {
	return ErrInvalidOdds
}
