package llm

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"github.com/sony/gobreaker"
)

// BreakerClient wraps a Client with a circuit breaker so a failing
// completion endpoint stops receiving traffic for a cooldown window.
// While the circuit is open, Complete degrades to an empty completion
// instead of returning an error, so extraction pipelines keep moving.
type BreakerClient struct {
	inner   Client
	breaker *gobreaker.CircuitBreaker
	logger  *slog.Logger
}

// NewBreakerClient wraps inner with a circuit breaker that opens after
// five consecutive failures and probes again after thirty seconds.
func NewBreakerClient(inner Client, logger *slog.Logger) *BreakerClient {
	if logger == nil {
		logger = slog.Default()
	}

	settings := gobreaker.Settings{
		Name:    "llm-completions",
		Timeout: 30 * time.Second,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			return counts.ConsecutiveFailures >= 5
		},
		OnStateChange: func(name string, from, to gobreaker.State) {
			logger.Warn("circuit breaker state change",
				"name", name,
				"from", from.String(),
				"to", to.String())
		},
	}

	return &BreakerClient{
		inner:   inner,
		breaker: gobreaker.NewCircuitBreaker(settings),
		logger:  logger,
	}
}

func (b *BreakerClient) Complete(ctx context.Context, prompt string, opts Options) (string, error) {
	result, err := b.breaker.Execute(func() (interface{}, error) {
		return b.inner.Complete(ctx, prompt, opts)
	})
	if err != nil {
		if errors.Is(err, gobreaker.ErrOpenState) || errors.Is(err, gobreaker.ErrTooManyRequests) {
			b.logger.Warn("completion skipped, circuit open", "model", b.inner.Model())
			return "", nil
		}
		return "", err
	}
	return result.(string), nil
}

func (b *BreakerClient) Model() string { return b.inner.Model() }

func (b *BreakerClient) Close() error { return b.inner.Close() }
