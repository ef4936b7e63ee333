package oddsstream

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/riskibarqy/club-odds/internal/domain/odds"
	"github.com/riskibarqy/club-odds/internal/platform/logging"
	"github.com/riskibarqy/club-odds/internal/platform/resilience"
)

type fakeStream struct {
	calls []*redis.XAddArgs
	err   error
}

func (f *fakeStream) XAdd(_ context.Context, a *redis.XAddArgs) *redis.StringCmd {
	f.calls = append(f.calls, a)
	if f.err != nil {
		return redis.NewStringResult("", f.err)
	}
	return redis.NewStringResult("1700000000000-0", nil)
}

func sampleEvent() odds.ChangeEvent {
	return odds.ChangeEvent{
		MatchID: "m-013",
		Action:  odds.ActionGenerated,
		Source:  odds.SourceCalculated,
		Odds:    map[string]float64{"1X2:1": 1.75},
		At:      time.Date(2026, 3, 14, 10, 0, 0, 0, time.UTC),
	}
}

func TestRedisPublisherPublish(t *testing.T) {
	stream := &fakeStream{}
	p := NewRedisPublisher(stream, RedisPublisherConfig{MaxLen: 1000}, logging.NewNop())

	require.NoError(t, p.Publish(context.Background(), sampleEvent()))
	require.Len(t, stream.calls, 1)

	args := stream.calls[0]
	assert.Equal(t, DefaultStream, args.Stream)
	assert.Equal(t, int64(1000), args.MaxLen)
	assert.True(t, args.Approx)

	values, ok := args.Values.(map[string]any)
	require.True(t, ok)
	assert.Equal(t, "m-013", values["match_id"])
	assert.Equal(t, "GENERATED", values["action"])
	assert.JSONEq(t, `{"match_id":"m-013","action":"GENERATED","source":"CALCULATED","odds":{"1X2:1":1.75},"at":"2026-03-14T10:00:00Z"}`, values["data"].(string))
}

func TestRedisPublisherRejectsEventWithoutMatch(t *testing.T) {
	stream := &fakeStream{}
	p := NewRedisPublisher(stream, RedisPublisherConfig{}, logging.NewNop())

	require.Error(t, p.Publish(context.Background(), odds.ChangeEvent{Action: odds.ActionLocked}))
	assert.Empty(t, stream.calls)
}

func TestRedisPublisherOpensBreaker(t *testing.T) {
	stream := &fakeStream{err: errors.New("connection refused")}
	p := NewRedisPublisher(stream, RedisPublisherConfig{
		Stream: "odds.test",
		CircuitBreaker: resilience.BreakerConfig{
			Enabled:          true,
			FailureThreshold: 2,
			OpenTimeout:      time.Minute,
			HalfOpenProbes:   1,
		},
	}, logging.NewNop())

	ctx := context.Background()
	for range 2 {
		err := p.Publish(ctx, sampleEvent())
		require.Error(t, err)
		assert.Contains(t, err.Error(), "stream=odds.test")
	}
	assert.Equal(t, resilience.StateOpen, p.State())

	err := p.Publish(ctx, sampleEvent())
	require.ErrorIs(t, err, resilience.ErrCircuitOpen)
	assert.Len(t, stream.calls, 2)
}

func TestEncodeEventOmitsEmptyFields(t *testing.T) {
	got, err := encodeEvent(odds.ChangeEvent{
		MatchID: "m-001",
		Action:  odds.ActionLocked,
		At:      time.Date(2026, 3, 14, 10, 0, 0, 0, time.UTC),
	})
	require.NoError(t, err)
	assert.Equal(t, `{"match_id":"m-001","action":"LOCKED","at":"2026-03-14T10:00:00Z"}`, got)
}
