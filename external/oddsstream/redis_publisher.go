package oddsstream

import (
	"context"
	"fmt"
	"strings"
	"time"

	sonic "github.com/bytedance/sonic"
	crerr "github.com/cockroachdb/errors"
	"github.com/redis/go-redis/v9"
	"github.com/valyala/bytebufferpool"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"

	"github.com/riskibarqy/club-odds/internal/domain/odds"
	"github.com/riskibarqy/club-odds/internal/platform/logging"
	"github.com/riskibarqy/club-odds/internal/platform/resilience"
)

const DefaultStream = "odds.changed"

// StreamWriter is the subset of the redis client used for publishing.
type StreamWriter interface {
	XAdd(ctx context.Context, a *redis.XAddArgs) *redis.StringCmd
}

type RedisPublisherConfig struct {
	Stream string
	// MaxLen caps the stream length approximately; zero keeps every entry.
	MaxLen         int64
	Timeout        time.Duration
	CircuitBreaker resilience.BreakerConfig
}

// RedisPublisher appends odds change events to a redis stream, one entry
// per event with the JSON payload under the "data" field.
type RedisPublisher struct {
	client  StreamWriter
	stream  string
	maxLen  int64
	timeout time.Duration
	breaker *resilience.Breaker
	logger  *logging.Logger
}

func NewRedisPublisher(client StreamWriter, cfg RedisPublisherConfig, logger *logging.Logger) *RedisPublisher {
	stream := strings.TrimSpace(cfg.Stream)
	if stream == "" {
		stream = DefaultStream
	}
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = 2 * time.Second
	}
	if logger == nil {
		logger = logging.Default()
	}

	return &RedisPublisher{
		client:  client,
		stream:  stream,
		maxLen:  cfg.MaxLen,
		timeout: timeout,
		breaker: resilience.NewBreaker(cfg.CircuitBreaker),
		logger:  logger,
	}
}

func (p *RedisPublisher) Publish(ctx context.Context, event odds.ChangeEvent) error {
	if strings.TrimSpace(event.MatchID) == "" {
		return crerr.New("odds change event without match id")
	}

	payload, err := encodeEvent(event)
	if err != nil {
		return err
	}

	span := trace.SpanFromContext(ctx)
	if span.IsRecording() {
		span.SetAttributes(
			attribute.String("odds.stream", p.stream),
			attribute.String("odds.match_id", event.MatchID),
			attribute.String("odds.action", string(event.Action)),
		)
	}

	args := &redis.XAddArgs{
		Stream: p.stream,
		Values: map[string]any{
			"data":     payload,
			"match_id": event.MatchID,
			"action":   string(event.Action),
		},
	}
	if p.maxLen > 0 {
		args.MaxLen = p.maxLen
		args.Approx = true
	}

	var id string
	err = p.breaker.Do(ctx, func(ctx context.Context) error {
		callCtx, cancel := context.WithTimeout(ctx, p.timeout)
		defer cancel()

		res, err := p.client.XAdd(callCtx, args).Result()
		if err != nil {
			return fmt.Errorf("xadd stream=%s match=%s: %w", p.stream, event.MatchID, err)
		}
		id = res
		return nil
	})
	if err != nil {
		if crerr.Is(err, resilience.ErrCircuitOpen) {
			p.logger.WarnContext(ctx, "odds stream circuit breaker rejected publish", "state", p.breaker.State(), "match_id", event.MatchID)
			return fmt.Errorf("odds stream is temporarily unavailable: %w", err)
		}
		return err
	}

	p.logger.DebugContext(ctx, "odds change published", "stream", p.stream, "entry_id", id, "match_id", event.MatchID, "action", event.Action)
	return nil
}

func (p *RedisPublisher) State() resilience.State {
	return p.breaker.State()
}

func encodeEvent(event odds.ChangeEvent) (string, error) {
	buf := bytebufferpool.Get()
	defer bytebufferpool.Put(buf)

	if err := sonic.ConfigDefault.NewEncoder(buf).Encode(event); err != nil {
		return "", crerr.Wrapf(err, "encode odds change match=%s", event.MatchID)
	}
	return strings.TrimRight(buf.String(), "\n"), nil
}
