package match

import (
	"strings"
	"time"
)

const (
	StatusUpcoming  = "upcoming"
	StatusLive      = "live"
	StatusCompleted = "completed"
	StatusCancelled = "cancelled"
)

// Match is one fixture between two club teams.
type Match struct {
	ID                string
	HomeTeamID        string
	AwayTeamID        string
	Status            string
	KickoffAt         time.Time
	HomeScore         *int
	AwayScore         *int
	HalfTimeHomeScore *int
	HalfTimeAwayScore *int
}

func NormalizeStatus(value string) string {
	status := strings.ToLower(strings.TrimSpace(value))
	if status == "" {
		return StatusUpcoming
	}
	return status
}

func IsCompletedStatus(status string) bool {
	switch NormalizeStatus(status) {
	case StatusCompleted, "finished", "ft":
		return true
	default:
		return false
	}
}

// IsUsableSample reports whether the match can feed historical statistics.
func (m Match) IsUsableSample() bool {
	return IsCompletedStatus(m.Status) && m.HomeScore != nil && m.AwayScore != nil
}

// Involves reports whether teamID played in the match.
func (m Match) Involves(teamID string) bool {
	return teamID != "" && (m.HomeTeamID == teamID || m.AwayTeamID == teamID)
}
