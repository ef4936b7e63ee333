package cache

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/riskibarqy/club-odds/internal/domain/match"
	"github.com/riskibarqy/club-odds/internal/domain/odds"
	matchmock "github.com/riskibarqy/club-odds/internal/mocks/domain/match"
	oddsmock "github.com/riskibarqy/club-odds/internal/mocks/domain/odds"
)

func TestOddsRepositoryCachesActiveRows(t *testing.T) {
	ctx := context.Background()
	next := oddsmock.NewRepository(t)
	rows := []odds.Row{{MatchID: "m-1", Market: odds.MarketMatchResult, Selection: odds.SelectionHome, Odds: 1.8}}
	next.On("ListActive", mock.Anything, "m-1").Return(rows, nil).Once()

	repo := NewOddsRepository(next, time.Minute)
	first, err := repo.ListActive(ctx, "m-1")
	require.NoError(t, err)
	second, err := repo.ListActive(ctx, "m-1")
	require.NoError(t, err)

	assert.Equal(t, rows, first)
	assert.Equal(t, rows, second)

	first[0].Odds = 99
	third, err := repo.ListActive(ctx, "m-1")
	require.NoError(t, err)
	assert.Equal(t, 1.8, third[0].Odds)
}

func TestOddsRepositoryWritesInvalidate(t *testing.T) {
	ctx := context.Background()
	at := time.Date(2026, 3, 14, 10, 0, 0, 0, time.UTC)
	next := oddsmock.NewRepository(t)
	next.On("ListActive", mock.Anything, "m-1").Return([]odds.Row{{Odds: 1.8}}, nil).Once()
	next.On("ReplaceActive", mock.Anything, "m-1", mock.Anything, mock.Anything, at).Return(nil).Once()
	next.On("ListActive", mock.Anything, "m-1").Return([]odds.Row{{Odds: 2.1}}, nil).Once()
	next.On("ExpireActive", mock.Anything, "m-1", mock.Anything, at).Return(0, errors.New("boom")).Once()
	next.On("ListActive", mock.Anything, "m-1").Return([]odds.Row(nil), nil).Once()

	repo := NewOddsRepository(next, time.Minute)

	got, err := repo.ListActive(ctx, "m-1")
	require.NoError(t, err)
	assert.Equal(t, 1.8, got[0].Odds)

	require.NoError(t, repo.ReplaceActive(ctx, "m-1", nil, odds.HistoryEntry{}, at))
	got, err = repo.ListActive(ctx, "m-1")
	require.NoError(t, err)
	assert.Equal(t, 2.1, got[0].Odds)

	_, err = repo.ExpireActive(ctx, "m-1", odds.HistoryEntry{}, at)
	require.Error(t, err)
	got, err = repo.ListActive(ctx, "m-1")
	require.NoError(t, err)
	assert.Empty(t, got)
}

func TestOddsRepositoryWriteDuringReadDoesNotLeaveStaleRows(t *testing.T) {
	ctx := context.Background()
	at := time.Date(2026, 3, 14, 10, 0, 0, 0, time.UTC)
	entered := make(chan struct{})
	release := make(chan struct{})
	next := oddsmock.NewRepository(t)
	next.On("ListActive", mock.Anything, "m-1").
		Run(func(mock.Arguments) {
			close(entered)
			<-release
		}).
		Return([]odds.Row{{Odds: 1.8}}, nil).
		Once()
	next.On("ReplaceActive", mock.Anything, "m-1", mock.Anything, mock.Anything, at).Return(nil).Once()
	next.On("ListActive", mock.Anything, "m-1").Return([]odds.Row{{Odds: 2.1}}, nil).Once()

	repo := NewOddsRepository(next, time.Minute)

	readDone := make(chan error, 1)
	go func() {
		_, err := repo.ListActive(ctx, "m-1")
		readDone <- err
	}()

	<-entered
	require.NoError(t, repo.ReplaceActive(ctx, "m-1", nil, odds.HistoryEntry{}, at))
	close(release)
	require.NoError(t, <-readDone)

	got, err := repo.ListActive(ctx, "m-1")
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, 2.1, got[0].Odds)
}

func TestOddsRepositoryDoesNotCacheErrors(t *testing.T) {
	ctx := context.Background()
	next := oddsmock.NewRepository(t)
	next.On("ListActive", mock.Anything, "m-1").Return(nil, errors.New("down")).Once()
	next.On("ListActive", mock.Anything, "m-1").Return([]odds.Row{{Odds: 1.5}}, nil).Once()

	repo := NewOddsRepository(next, time.Minute)
	_, err := repo.ListActive(ctx, "m-1")
	require.Error(t, err)

	got, err := repo.ListActive(ctx, "m-1")
	require.NoError(t, err)
	assert.Len(t, got, 1)
}

func TestMatchRepositoryCachesMisses(t *testing.T) {
	ctx := context.Background()
	next := matchmock.NewRepository(t)
	next.On("GetByID", mock.Anything, "missing").Return(match.Match{}, false, nil).Once()
	next.On("GetByID", mock.Anything, "m-1").Return(match.Match{ID: "m-1"}, true, nil).Once()

	repo := NewMatchRepository(next, time.Minute)
	for range 2 {
		_, exists, err := repo.GetByID(ctx, "missing")
		require.NoError(t, err)
		assert.False(t, exists)

		item, exists, err := repo.GetByID(ctx, "m-1")
		require.NoError(t, err)
		assert.True(t, exists)
		assert.Equal(t, "m-1", item.ID)
	}
}

func TestMatchRepositoryListsPassThrough(t *testing.T) {
	ctx := context.Background()
	from := time.Date(2026, 3, 14, 0, 0, 0, 0, time.UTC)
	to := from.AddDate(0, 0, 7)
	next := matchmock.NewRepository(t)
	next.On("ListUpcoming", mock.Anything, from, to).Return([]match.Match{{ID: "m-13"}}, nil).Twice()

	repo := NewMatchRepository(next, time.Minute)
	for range 2 {
		items, err := repo.ListUpcoming(ctx, from, to)
		require.NoError(t, err)
		assert.Len(t, items, 1)
	}
}
