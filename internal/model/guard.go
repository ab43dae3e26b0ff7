package model

import (
	"context"
	"fmt"
	"time"

	"github.com/sony/gobreaker"
	"golang.org/x/time/rate"
)

// GuardedClient wraps a Client with a circuit breaker and a rate limiter so
// a misbehaving or overloaded inference backend cannot stall the pipeline.
// The breaker trips on 3 consecutive failures or a >5% failure rate over at
// least 20 requests.
type GuardedClient struct {
	inner   Client
	breaker *gobreaker.CircuitBreaker
	limiter *rate.Limiter
}

// Guard decorates a client. maxRPS <= 0 disables rate limiting.
func Guard(inner Client, maxRPS float64) *GuardedClient {
	settings := gobreaker.Settings{Name: inner.Name()}
	settings.Interval = 60 * time.Second
	settings.Timeout = 60 * time.Second
	settings.ReadyToTrip = func(counts gobreaker.Counts) bool {
		if counts.ConsecutiveFailures >= 3 {
			return true
		}
		if counts.Requests < 20 {
			return false
		}
		return float64(counts.TotalFailures)/float64(counts.Requests) > 0.05
	}

	var limiter *rate.Limiter
	if maxRPS > 0 {
		limiter = rate.NewLimiter(rate.Limit(maxRPS), int(maxRPS)+1)
	}

	return &GuardedClient{
		inner:   inner,
		breaker: gobreaker.NewCircuitBreaker(settings),
		limiter: limiter,
	}
}

func (g *GuardedClient) Name() string { return g.inner.Name() }

// PredictProba waits for rate-limit headroom, then runs the inner call under
// the breaker. An open breaker surfaces as an error immediately.
func (g *GuardedClient) PredictProba(ctx context.Context, features []float64) (float64, error) {
	if g.limiter != nil {
		if err := g.limiter.Wait(ctx); err != nil {
			return 0, fmt.Errorf("model %s: rate limit wait: %w", g.inner.Name(), err)
		}
	}

	out, err := g.breaker.Execute(func() (interface{}, error) {
		return g.inner.PredictProba(ctx, features)
	})
	if err != nil {
		return 0, fmt.Errorf("model %s: %w", g.inner.Name(), err)
	}
	return out.(float64), nil
}

// FeatureImportances passes through when the inner client reports them.
func (g *GuardedClient) FeatureImportances() map[string]float64 {
	if r, ok := g.inner.(ImportanceReporter); ok {
		return r.FeatureImportances()
	}
	return nil
}
