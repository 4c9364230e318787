package llm

import (
	"context"
	"errors"
	"math"
	"math/rand/v2"
	"net"
	"net/http"
	"time"
)

// RetryProvider resends a generation call that failed for a reason the
// provider may recover from. The factory only installs it when more than
// one attempt is configured; by default a generation is a single call.
type RetryProvider struct {
	inner  Provider
	config RetryConfig
}

// WithRetry wraps a Provider with retry logic.
func WithRetry(p Provider, cfg RetryConfig) Provider {
	return &RetryProvider{inner: p, config: cfg}
}

// retryClass says how a failed call may be resent.
type retryClass int

const (
	retryNever retryClass = iota
	retryOnce             // reply arrived but carried no completion text
	retryBackoff          // throttled or the provider is struggling
)

// classify maps a provider error onto a retry class. Only the typed
// errors the provider adapters produce, plus raw network timeouts, are
// resent; anything else is a caller or configuration fault.
func classify(err error) retryClass {
	if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
		return retryNever
	}

	var rl *ErrRateLimit
	if errors.As(err, &rl) {
		return retryBackoff
	}

	var unavail *ErrProviderUnavailable
	if errors.As(err, &unavail) {
		if unavail.Status >= http.StatusBadRequest && unavail.Status < http.StatusInternalServerError {
			return retryNever
		}
		return retryBackoff
	}

	var inv *ErrInvalidResponse
	if errors.As(err, &inv) {
		return retryOnce
	}

	var netErr net.Error
	if errors.As(err, &netErr) && netErr.Timeout() {
		return retryBackoff
	}
	return retryNever
}

func (r *RetryProvider) Generate(ctx context.Context, req Request) (*Response, error) {
	attempts := max(r.config.MaxAttempts, 1)
	invalidSeen := false

	var lastErr error
	for attempt := range attempts {
		resp, err := r.inner.Generate(ctx, req)
		if err == nil {
			return resp, nil
		}
		lastErr = err

		switch classify(err) {
		case retryNever:
			return nil, err
		case retryOnce:
			if invalidSeen {
				return nil, err
			}
			invalidSeen = true
		}

		if attempt == attempts-1 {
			break
		}

		wait := r.backoff(attempt, err)
		// A wait that outlives the caller's deadline cannot lead to a
		// usable reply; surface the provider's error instead of a timeout.
		if deadline, ok := ctx.Deadline(); ok && time.Until(deadline) <= wait {
			return nil, err
		}

		timer := time.NewTimer(wait)
		select {
		case <-ctx.Done():
			timer.Stop()
			return nil, ctx.Err()
		case <-timer.C:
		}
	}

	return nil, lastErr
}

func (r *RetryProvider) ModelID() string {
	return r.inner.ModelID()
}

// backoff computes the wait before the next attempt. A provider supplied
// Retry-After wins but is still capped at MaxWait.
func (r *RetryProvider) backoff(attempt int, err error) time.Duration {
	var rl *ErrRateLimit
	if errors.As(err, &rl) && rl.RetryAfter > 0 {
		if r.config.MaxWait > 0 && rl.RetryAfter > r.config.MaxWait {
			return r.config.MaxWait
		}
		return rl.RetryAfter
	}

	wait := float64(r.config.InitialWait) * math.Pow(r.config.Multiplier, float64(attempt))
	if r.config.MaxWait > 0 && wait > float64(r.config.MaxWait) {
		wait = float64(r.config.MaxWait)
	}

	// ±20% jitter
	wait += wait * 0.2 * (2*rand.Float64() - 1)
	if wait < 0 {
		wait = 0
	}
	return time.Duration(wait)
}
