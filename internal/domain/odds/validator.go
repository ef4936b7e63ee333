package odds

import (
	"fmt"
	"math"
)

type ValidatorConfig struct {
	// MinOdds is exclusive: every price must be strictly greater.
	MinOdds float64
	// MaxOdds is exclusive as well.
	MaxOdds   float64
	Tolerance float64
}

func DefaultValidatorConfig() ValidatorConfig {
	return ValidatorConfig{
		MinOdds:   1.0,
		MaxOdds:   1000,
		Tolerance: 0.01,
	}
}

type ValidationResult struct {
	Valid      bool
	Violations []string
}

// Err returns nil for a valid result, a *ValidationError otherwise.
func (r ValidationResult) Err(matchID string) error {
	if r.Valid {
		return nil
	}
	return &ValidationError{MatchID: matchID, Violations: append([]string(nil), r.Violations...)}
}

type Validator struct {
	cfg ValidatorConfig
}

func NewValidator(cfg ValidatorConfig) *Validator {
	def := DefaultValidatorConfig()
	if cfg.MinOdds < 1 {
		cfg.MinOdds = def.MinOdds
	}
	if cfg.MaxOdds <= cfg.MinOdds {
		cfg.MaxOdds = def.MaxOdds
	}
	if cfg.Tolerance <= 0 {
		cfg.Tolerance = def.Tolerance
	}
	return &Validator{cfg: cfg}
}

// Validate reports every consistency violation, not only the first one.
func (v *Validator) Validate(o MatchOdds) ValidationResult {
	var violations []string

	mr, ok := o.MatchResult()
	if !ok {
		violations = append(violations, fmt.Sprintf("market %s is missing", MarketMatchResult))
	}

	for _, m := range o.Markets() {
		for _, s := range m.Selections() {
			switch {
			case s.Odds == 0:
				violations = append(violations, fmt.Sprintf("market %s: missing selection %s", m.Type(), s.Key))
			case math.IsNaN(s.Odds) || math.IsInf(s.Odds, 0):
				violations = append(violations, fmt.Sprintf("market %s: selection %s odds are not finite", m.Type(), s.Key))
			case s.Odds <= v.cfg.MinOdds:
				violations = append(violations, fmt.Sprintf("market %s: selection %s odds %.2f must be greater than %.2f", m.Type(), s.Key, s.Odds, v.cfg.MinOdds))
			case s.Odds >= v.cfg.MaxOdds:
				violations = append(violations, fmt.Sprintf("market %s: selection %s odds %.2f must be below %.0f", m.Type(), s.Key, s.Odds, v.cfg.MaxOdds))
			}
		}
		if ou, isOU := m.(OverUnder); isOU && !(ou.Line > 0) {
			violations = append(violations, fmt.Sprintf("market %s: goal line %v must be positive", MarketOverUnder, ou.Line))
		}
	}

	if ok && complete(mr) {
		sum := 1/mr.Home + 1/mr.Draw + 1/mr.Away
		lo := math.Min(1, 1+o.Margin-v.cfg.Tolerance)
		hi := 1 + o.Margin + v.cfg.Tolerance
		if sum < lo || sum > hi {
			violations = append(violations, fmt.Sprintf("market %s: implied probability sum %.4f outside [%.4f, %.4f]", MarketMatchResult, sum, lo, hi))
		}
	}

	return ValidationResult{
		Valid:      len(violations) == 0,
		Violations: violations,
	}
}

func complete(mr MatchResult) bool {
	for _, s := range mr.Selections() {
		if !(s.Odds > 0) || math.IsInf(s.Odds, 0) {
			return false
		}
	}
	return true
}
