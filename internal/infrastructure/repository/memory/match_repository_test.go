package memory

import (
	"context"
	"testing"
	"time"

	"github.com/riskibarqy/club-odds/internal/domain/match"
)

var seedNow = time.Date(2026, 3, 10, 12, 0, 0, 0, time.UTC)

func TestMatchRepository_ListCompletedByTeam(t *testing.T) {
	t.Parallel()

	repo := NewMatchRepository(SeedMatches(seedNow))
	got, err := repo.ListCompletedByTeam(context.Background(), TeamRiverside, 4)
	if err != nil {
		t.Fatalf("list completed: %v", err)
	}
	if len(got) != 4 {
		t.Fatalf("expected 4 matches, got %d", len(got))
	}
	for i := 1; i < len(got); i++ {
		if got[i].KickoffAt.After(got[i-1].KickoffAt) {
			t.Fatalf("matches must be most recent first: %s after %s", got[i].KickoffAt, got[i-1].KickoffAt)
		}
	}
	if got[0].ID != "m-011" {
		t.Fatalf("expected most recent match m-011, got %s", got[0].ID)
	}
	for _, m := range got {
		if !m.Involves(TeamRiverside) || m.Status != match.StatusCompleted {
			t.Fatalf("unexpected match %+v", m)
		}
	}
}

func TestMatchRepository_ListCompletedBetween(t *testing.T) {
	t.Parallel()

	repo := NewMatchRepository(SeedMatches(seedNow))
	got, err := repo.ListCompletedBetween(context.Background(), TeamHarbour, TeamRiverside, 0)
	if err != nil {
		t.Fatalf("list between: %v", err)
	}
	if len(got) != 2 || got[0].ID != "m-011" || got[1].ID != "m-005" {
		t.Fatalf("unexpected head to head matches: %+v", got)
	}
}

func TestMatchRepository_ListUpcomingAndKickedOff(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	repo := NewMatchRepository(SeedMatches(seedNow))

	upcoming, err := repo.ListUpcoming(ctx, seedNow, seedNow.AddDate(0, 0, 7))
	if err != nil {
		t.Fatalf("list upcoming: %v", err)
	}
	if len(upcoming) != 2 || upcoming[0].ID != "m-013" || upcoming[1].ID != "m-014" {
		t.Fatalf("unexpected upcoming: %+v", upcoming)
	}

	live := match.Match{ID: "m-live", HomeTeamID: TeamHarbour, AwayTeamID: TeamOldBoys, Status: "LIVE", KickoffAt: seedNow.Add(-time.Hour)}
	if err := repo.Upsert(ctx, live); err != nil {
		t.Fatalf("upsert: %v", err)
	}
	started, err := repo.ListKickedOff(ctx, seedNow.Add(-6*time.Hour), seedNow)
	if err != nil {
		t.Fatalf("list kicked off: %v", err)
	}
	if len(started) != 1 || started[0].ID != "m-live" {
		t.Fatalf("unexpected kicked off: %+v", started)
	}

	if _, ok, _ := repo.GetByID(ctx, "m-live"); !ok {
		t.Fatalf("expected upserted match")
	}
}
