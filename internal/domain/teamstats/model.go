package teamstats

import (
	"github.com/riskibarqy/club-odds/pkg/oddsmath"
)

const (
	// DefaultSampleSize is how many completed matches feed one team's statistics.
	DefaultSampleSize = 15
	// FormLength is the number of outcomes kept in the form string.
	FormLength = 5
)

type Outcome byte

const (
	OutcomeWin  Outcome = 'W'
	OutcomeDraw Outcome = 'D'
	OutcomeLoss Outcome = 'L'
)

// Record counts results and goals over a sample. Rates and averages are
// always derived from the counts.
type Record struct {
	MatchesPlayed int
	Wins          int
	Draws         int
	Losses        int
	GoalsScored   int
	GoalsConceded int
}

// Statistics aggregates a team's recent completed matches, overall and split by venue.
type Statistics struct {
	TeamID string
	Record
	Home Record
	Away Record
	// Form lists the latest outcomes, most recent first, e.g. "WWDLW".
	Form string
}

// HeadToHead sums previous meetings from the perspective of an upcoming fixture.
type HeadToHead struct {
	Matches   int
	HomeGoals int
	AwayGoals int
}

func (r Record) WinRate() float64  { return ratio(r.Wins, r.MatchesPlayed) }
func (r Record) DrawRate() float64 { return ratio(r.Draws, r.MatchesPlayed) }
func (r Record) LossRate() float64 { return ratio(r.Losses, r.MatchesPlayed) }

func (r Record) WinPct() float64  { return pct(r.WinRate()) }
func (r Record) DrawPct() float64 { return pct(r.DrawRate()) }
func (r Record) LossPct() float64 { return pct(r.LossRate()) }

func (r Record) AvgGoalsScored() float64   { return ratio(r.GoalsScored, r.MatchesPlayed) }
func (r Record) AvgGoalsConceded() float64 { return ratio(r.GoalsConceded, r.MatchesPlayed) }

// Consistent reports whether the outcome counts partition the sample.
func (r Record) Consistent() bool {
	return r.MatchesPlayed >= 0 && r.Wins+r.Draws+r.Losses == r.MatchesPlayed
}

func (r *Record) add(outcome Outcome, scored, conceded int) {
	r.MatchesPlayed++
	r.GoalsScored += scored
	r.GoalsConceded += conceded
	switch outcome {
	case OutcomeWin:
		r.Wins++
	case OutcomeDraw:
		r.Draws++
	default:
		r.Losses++
	}
}

// AvgHomeGoals is the average goals per meeting for the fixture's home team.
func (h HeadToHead) AvgHomeGoals() float64 { return ratio(h.HomeGoals, h.Matches) }

// AvgAwayGoals is the average goals per meeting for the fixture's away team.
func (h HeadToHead) AvgAwayGoals() float64 { return ratio(h.AwayGoals, h.Matches) }

func ratio(n, d int) float64 {
	if d <= 0 {
		return 0
	}
	return float64(n) / float64(d)
}

func pct(rate float64) float64 {
	return oddsmath.Round2(rate * 100)
}
