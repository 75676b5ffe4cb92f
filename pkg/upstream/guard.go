package upstream

import (
	"context"
	"errors"
	"time"

	"github.com/cenkalti/backoff/v4"
	"github.com/sony/gobreaker"
	"go.uber.org/zap"

	"micampo/pkg/metrics"
)

type Settings struct {
	Name            string
	MaxRetries      uint64
	InitialBackoff  time.Duration
	BreakerFailures uint32
	BreakerOpenFor  time.Duration
}

// Guard runs calls to one third-party API behind a circuit breaker with
// bounded exponential retry.
type Guard struct {
	name    string
	cb      *gobreaker.CircuitBreaker
	retries uint64
	initial time.Duration
	log     *zap.Logger
	m       *metrics.Metrics
}

func NewGuard(s Settings, log *zap.Logger, m *metrics.Metrics) *Guard {
	if log == nil {
		log = zap.NewNop()
	}
	if s.BreakerFailures == 0 {
		s.BreakerFailures = 5
	}
	if s.BreakerOpenFor == 0 {
		s.BreakerOpenFor = 30 * time.Second
	}
	if s.InitialBackoff == 0 {
		s.InitialBackoff = 500 * time.Millisecond
	}
	g := &Guard{name: s.Name, retries: s.MaxRetries, initial: s.InitialBackoff, log: log.Named(s.Name), m: m}
	fails := s.BreakerFailures
	g.cb = gobreaker.NewCircuitBreaker(gobreaker.Settings{
		Name:    s.Name,
		Timeout: s.BreakerOpenFor,
		ReadyToTrip: func(c gobreaker.Counts) bool {
			return c.ConsecutiveFailures >= fails
		},
		OnStateChange: func(name string, from, to gobreaker.State) {
			g.log.Warn("circuit breaker state", zap.String("from", from.String()), zap.String("to", to.String()))
		},
	})
	return g
}

// Do runs op until it succeeds, returns a permanent error, the breaker opens
// or the retry budget is spent.
func (g *Guard) Do(ctx context.Context, op func(ctx context.Context) error) error {
	bo := backoff.NewExponentialBackOff()
	bo.InitialInterval = g.initial
	bo.MaxElapsedTime = 0

	attempt := func() error {
		_, err := g.cb.Execute(func() (interface{}, error) {
			return nil, op(ctx)
		})
		if err == nil {
			return nil
		}
		if errors.Is(err, gobreaker.ErrOpenState) || errors.Is(err, gobreaker.ErrTooManyRequests) ||
			ctx.Err() != nil || !Retryable(err) {
			return backoff.Permanent(err)
		}
		g.log.Debug("retrying", zap.Error(err))
		return err
	}
	err := backoff.Retry(attempt, backoff.WithContext(backoff.WithMaxRetries(bo, g.retries), ctx))
	g.m.Upstream(g.name, err)
	return err
}

func (g *Guard) State() gobreaker.State { return g.cb.State() }
