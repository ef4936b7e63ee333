// Package oddsmath converts between odds formats and computes implied
// probabilities and bookmaker margins. Functions never fail: undefined input
// yields a zero-valued sentinel.
package oddsmath

import (
	"math"
	"strconv"
	"strings"

	"github.com/shopspring/decimal"
)

const (
	// FractionalSentinel is returned for odds that cannot be expressed as a fraction.
	FractionalSentinel = "0/1"
	// AmericanSentinel is the display form of an undefined American price.
	AmericanSentinel = "+0"

	fractionalDenominator = 100
)

// Round2 rounds half away from zero to two decimal places.
func Round2(v float64) float64 {
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return 0
	}
	out, _ := decimal.NewFromFloat(v).Round(2).Float64()
	return out
}

// DecimalToFractional expresses (d - 1) as a reduced fraction, e.g. 2.50 -> "3/2".
func DecimalToFractional(d float64) string {
	if !isDefined(d) || d <= 1 {
		return FractionalSentinel
	}

	num := int64(math.Round((d - 1) * fractionalDenominator))
	if num <= 0 {
		return FractionalSentinel
	}
	den := int64(fractionalDenominator)
	g := gcd(num, den)

	return strconv.FormatInt(num/g, 10) + "/" + strconv.FormatInt(den/g, 10)
}

// FractionalToDecimal parses "num/den" and returns num/den + 1.
func FractionalToDecimal(s string) float64 {
	parts := strings.SplitN(strings.TrimSpace(s), "/", 2)
	if len(parts) != 2 {
		return 0
	}
	num, err := strconv.ParseFloat(strings.TrimSpace(parts[0]), 64)
	if err != nil {
		return 0
	}
	den, err := strconv.ParseFloat(strings.TrimSpace(parts[1]), 64)
	if err != nil || den <= 0 || num <= 0 {
		return 0
	}

	return num/den + 1
}

// DecimalToAmerican converts decimal odds to an American price.
// 2.50 -> +150, 1.50 -> -200. Returns 0 for odds that are not above 1.
func DecimalToAmerican(d float64) int {
	if !isDefined(d) || d <= 1 {
		return 0
	}
	if d >= 2 {
		return int(math.Round((d - 1) * 100))
	}
	return int(math.Round(-100 / (d - 1)))
}

// FormatAmerican renders an American price with an explicit sign.
func FormatAmerican(american int) string {
	if american == 0 {
		return AmericanSentinel
	}
	if american > 0 {
		return "+" + strconv.Itoa(american)
	}
	return strconv.Itoa(american)
}

// AmericanToDecimal is the inverse of DecimalToAmerican. Returns 0 for 0.
func AmericanToDecimal(american int) float64 {
	switch {
	case american > 0:
		return float64(american)/100 + 1
	case american < 0:
		return 100/float64(-american) + 1
	default:
		return 0
	}
}

// ImpliedProbability returns 100/d rounded to two decimals (a percentage).
func ImpliedProbability(d float64) float64 {
	if !isDefined(d) || d <= 0 {
		return 0
	}
	return Round2(100 / d)
}

// ProbabilityToDecimal returns 1/p for p in (0, 1], 0 otherwise.
func ProbabilityToDecimal(p float64) float64 {
	if !isDefined(p) || p <= 0 || p > 1 {
		return 0
	}
	return 1 / p
}

// BookmakerMargin returns the overround of a set of mutually exclusive
// selections as a percentage: (sum(1/odds) - 1) * 100.
func BookmakerMargin(odds ...float64) float64 {
	if len(odds) == 0 {
		return 0
	}

	var sum float64
	for _, o := range odds {
		if !isDefined(o) || o <= 0 {
			return 0
		}
		sum += 1 / o
	}

	return Round2((sum - 1) * 100)
}

func isDefined(v float64) bool {
	return !math.IsNaN(v) && !math.IsInf(v, 0)
}

func gcd(a, b int64) int64 {
	for b != 0 {
		a, b = b, a%b
	}
	if a < 0 {
		return -a
	}
	return a
}
