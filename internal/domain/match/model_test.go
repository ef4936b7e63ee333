package match

import "testing"

func TestIsUsableSample(t *testing.T) {
	one, two := 1, 2

	tests := []struct {
		name  string
		match Match
		want  bool
	}{
		{"completed with scores", Match{Status: "completed", HomeScore: &one, AwayScore: &two}, true},
		{"legacy finished label", Match{Status: " Finished ", HomeScore: &one, AwayScore: &two}, true},
		{"completed without away score", Match{Status: StatusCompleted, HomeScore: &one}, false},
		{"upcoming", Match{Status: StatusUpcoming, HomeScore: &one, AwayScore: &two}, false},
		{"empty status defaults to upcoming", Match{HomeScore: &one, AwayScore: &two}, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.match.IsUsableSample(); got != tt.want {
				t.Fatalf("IsUsableSample() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestInvolves(t *testing.T) {
	m := Match{HomeTeamID: "home", AwayTeamID: "away"}
	if !m.Involves("home") || !m.Involves("away") {
		t.Fatalf("expected both participants to be involved")
	}
	if m.Involves("") || m.Involves("other") {
		t.Fatalf("unexpected participant match")
	}
}
