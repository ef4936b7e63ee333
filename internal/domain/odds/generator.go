package odds

import (
	"fmt"
	"math"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/riskibarqy/club-odds/internal/domain/teamstats"
	"github.com/riskibarqy/club-odds/pkg/oddsmath"
)

const (
	DefaultMargin   = 0.05
	DefaultGoalLine = 2.5
)

// GeneratorConfig tunes the goal model and the output price band.
type GeneratorConfig struct {
	// DefaultExpectedGoals is used for a side with no history. 1.3 fits amateur leagues.
	DefaultExpectedGoals float64
	MinExpectedGoals     float64
	MaxExpectedGoals     float64
	// MaxGoals truncates the score grid per side.
	MaxGoals             int
	HeadToHeadWeight     float64
	MinHeadToHeadMatches int
	MinOdds              float64
	MaxOdds              float64
}

func DefaultGeneratorConfig() GeneratorConfig {
	return GeneratorConfig{
		DefaultExpectedGoals: 1.3,
		MinExpectedGoals:     0.8,
		MaxExpectedGoals:     4.0,
		MaxGoals:             10,
		HeadToHeadWeight:     0.25,
		MinHeadToHeadMatches: 3,
		MinOdds:              1.01,
		MaxOdds:              1000,
	}
}

type GenerateInput struct {
	MatchID    string `validate:"required"`
	HomeTeamID string `validate:"required"`
	AwayTeamID string `validate:"required,nefield=HomeTeamID"`
	// Home and Away are nil when the team has no usable history.
	Home       *teamstats.Statistics
	Away       *teamstats.Statistics
	HeadToHead *teamstats.HeadToHead
	Margin     float64 `validate:"gte=0,lte=0.5"`
	// GoalLine defaults to DefaultGoalLine when zero.
	GoalLine float64 `validate:"gte=0"`
}

// Generator prices a fixture from both teams' statistics using an
// independent Poisson goal model.
type Generator struct {
	cfg      GeneratorConfig
	validate *validator.Validate
	now      func() time.Time
}

func NewGenerator(cfg GeneratorConfig) *Generator {
	def := DefaultGeneratorConfig()
	if cfg.DefaultExpectedGoals <= 0 {
		cfg.DefaultExpectedGoals = def.DefaultExpectedGoals
	}
	if cfg.MinExpectedGoals <= 0 {
		cfg.MinExpectedGoals = def.MinExpectedGoals
	}
	if cfg.MaxExpectedGoals < cfg.MinExpectedGoals {
		cfg.MaxExpectedGoals = def.MaxExpectedGoals
	}
	if cfg.MaxGoals <= 0 {
		cfg.MaxGoals = def.MaxGoals
	}
	if cfg.MinOdds <= 1 {
		cfg.MinOdds = def.MinOdds
	}
	if cfg.MaxOdds <= cfg.MinOdds {
		cfg.MaxOdds = def.MaxOdds
	}
	if cfg.HeadToHeadWeight < 0 || cfg.HeadToHeadWeight > 1 {
		cfg.HeadToHeadWeight = def.HeadToHeadWeight
	}

	return &Generator{
		cfg:      cfg,
		validate: validator.New(),
		now:      time.Now,
	}
}

// WithClock overrides the timestamp source, for tests.
func (g *Generator) WithClock(now func() time.Time) *Generator {
	g.now = now
	return g
}

func (g *Generator) Config() GeneratorConfig {
	return g.cfg
}

// Generate returns a complete odds set or an error, never a partial one.
func (g *Generator) Generate(in GenerateInput) (MatchOdds, error) {
	if err := g.validate.Struct(in); err != nil {
		return MatchOdds{}, fmt.Errorf("%w: %v", ErrInvalidGenerateInput, err)
	}

	line := in.GoalLine
	if line == 0 {
		line = DefaultGoalLine
	}
	if line-math.Floor(line) != 0.5 {
		return MatchOdds{}, fmt.Errorf("%w: goal line %v must be a half line", ErrInvalidGenerateInput, line)
	}

	homeXG := g.ExpectedGoals(in.Home, true)
	awayXG := g.ExpectedGoals(in.Away, false)
	if h := in.HeadToHead; h != nil && h.Matches >= g.cfg.MinHeadToHeadMatches {
		w := g.cfg.HeadToHeadWeight
		homeXG = g.clampGoals((1-w)*homeXG + w*h.AvgHomeGoals())
		awayXG = g.clampGoals((1-w)*awayXG + w*h.AvgAwayGoals())
	}

	grid := newScoreGrid(homeXG, awayXG, g.cfg.MaxGoals)
	pHome, pDraw, pAway := grid.matchResult()
	pBTTS := grid.bothTeamsScore()
	pOver := grid.over(line)
	m := in.Margin

	result := g.priceBook(m, pHome, pDraw, pAway)
	btts := g.priceBook(m, pBTTS, 1-pBTTS)
	overUnder := g.priceBook(m, pOver, 1-pOver)

	return New(in.MatchID, m, g.now(),
		MatchResult{Home: result[0], Draw: result[1], Away: result[2]},
		DoubleChance{
			HomeOrDraw: g.price(pHome+pDraw, m),
			DrawOrAway: g.price(pDraw+pAway, m),
			HomeOrAway: g.price(pHome+pAway, m),
		},
		BothTeamsScore{Yes: btts[0], No: btts[1]},
		OverUnder{Line: line, Over: overUnder[0], Under: overUnder[1]},
	), nil
}

// ExpectedGoals picks the venue-scoped scoring average, falling back to the
// overall average and then to the league default, clamped to the sane band.
func (g *Generator) ExpectedGoals(stats *teamstats.Statistics, home bool) float64 {
	if stats == nil || stats.MatchesPlayed == 0 {
		return g.clampGoals(g.cfg.DefaultExpectedGoals)
	}

	scoped := stats.Away
	if home {
		scoped = stats.Home
	}
	if scoped.MatchesPlayed > 0 {
		return g.clampGoals(scoped.AvgGoalsScored())
	}
	return g.clampGoals(stats.AvgGoalsScored())
}

func (g *Generator) clampGoals(v float64) float64 {
	return clamp(v, g.cfg.MinExpectedGoals, g.cfg.MaxExpectedGoals)
}

// price inflates p by the margin and inverts it. Used for overlapping
// selections, where no book total applies.
func (g *Generator) price(p, margin float64) float64 {
	const eps = 1e-6
	p = clamp(p, eps, 1-eps)
	o := oddsmath.Round2(1 / (p * (1 + margin)))
	return clamp(o, g.cfg.MinOdds, g.cfg.MaxOdds)
}

// priceBook prices mutually exclusive selections so their implied
// probabilities sum to 1 + margin. A selection whose inflated probability
// would price below MinOdds is pinned to MinOdds and the overround it cannot
// carry is spread over the remaining selections in proportion to p.
func (g *Generator) priceBook(margin float64, probs ...float64) []float64 {
	const eps = 1e-6
	ceiling := 1 / g.cfg.MinOdds

	implied := make([]float64, len(probs))
	pinned := make([]bool, len(probs))
	for {
		budget := 1 + margin
		var free float64
		for i, p := range probs {
			if pinned[i] {
				budget -= ceiling
				continue
			}
			free += clamp(p, eps, 1-eps)
		}
		if free <= 0 || budget <= 0 {
			break
		}

		changed := false
		for i, p := range probs {
			if pinned[i] {
				implied[i] = ceiling
				continue
			}
			implied[i] = clamp(p, eps, 1-eps) / free * budget
			if implied[i] > ceiling {
				pinned[i] = true
				changed = true
			}
		}
		if !changed {
			break
		}
	}

	out := make([]float64, len(probs))
	for i, q := range implied {
		if pinned[i] || q <= 0 {
			out[i] = g.cfg.MinOdds
			continue
		}
		out[i] = clamp(oddsmath.Round2(1/q), g.cfg.MinOdds, g.cfg.MaxOdds)
	}
	return out
}

func clamp(v, lo, hi float64) float64 {
	if math.IsNaN(v) {
		return lo
	}
	return math.Max(lo, math.Min(hi, v))
}
