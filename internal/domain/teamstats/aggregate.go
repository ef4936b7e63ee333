package teamstats

import (
	"strings"

	"github.com/riskibarqy/club-odds/internal/domain/match"
)

// Build folds matches (most recent first) into a team's statistics. Matches
// that are not completed, lack a score or do not involve the team are skipped.
// The second return value is false when no usable sample remains.
func Build(teamID string, matches []match.Match) (Statistics, bool) {
	stats := Statistics{TeamID: teamID}
	var form strings.Builder

	for _, m := range matches {
		if !m.IsUsableSample() || !m.Involves(teamID) {
			continue
		}

		isHome := m.HomeTeamID == teamID
		scored, conceded := *m.HomeScore, *m.AwayScore
		if !isHome {
			scored, conceded = conceded, scored
		}
		outcome := outcomeOf(scored, conceded)

		stats.Record.add(outcome, scored, conceded)
		if isHome {
			stats.Home.add(outcome, scored, conceded)
		} else {
			stats.Away.add(outcome, scored, conceded)
		}
		if form.Len() < FormLength {
			form.WriteByte(byte(outcome))
		}
	}

	if stats.MatchesPlayed == 0 {
		return Statistics{}, false
	}
	stats.Form = form.String()
	return stats, true
}

// BuildHeadToHead sums completed meetings between the fixture's home and away
// team, attributing goals to each side whichever venue the meeting was at.
func BuildHeadToHead(homeTeamID, awayTeamID string, matches []match.Match) HeadToHead {
	var out HeadToHead
	for _, m := range matches {
		if !m.IsUsableSample() || !m.Involves(homeTeamID) || !m.Involves(awayTeamID) {
			continue
		}

		out.Matches++
		if m.HomeTeamID == homeTeamID {
			out.HomeGoals += *m.HomeScore
			out.AwayGoals += *m.AwayScore
			continue
		}
		out.HomeGoals += *m.AwayScore
		out.AwayGoals += *m.HomeScore
	}
	return out
}

func outcomeOf(scored, conceded int) Outcome {
	switch {
	case scored > conceded:
		return OutcomeWin
	case scored == conceded:
		return OutcomeDraw
	default:
		return OutcomeLoss
	}
}
