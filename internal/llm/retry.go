package llm

import (
	"context"
	"errors"
	"math/rand/v2"
	"time"
)

// RetryProvider retries transient failures with jittered exponential
// backoff. A bad key, a truncated answer and a missing capability fail
// at once.
type RetryProvider struct {
	inner  Provider
	config RetryConfig
	sleep  func(context.Context, time.Duration) error
}

func WithRetry(p Provider, cfg RetryConfig) Provider {
	if cfg.MaxAttempts < 1 {
		cfg.MaxAttempts = 1
	}
	return &RetryProvider{inner: p, config: cfg, sleep: sleepCtx}
}

func (r *RetryProvider) ModelID() string { return r.inner.ModelID() }

func (r *RetryProvider) Generate(ctx context.Context, req Request) (*Response, error) {
	return retry(ctx, r, func() (*Response, error) { return r.inner.Generate(ctx, req) })
}

func (r *RetryProvider) Speak(ctx context.Context, req SpeechRequest) (*Speech, error) {
	sp, ok := r.inner.(SpeechProvider)
	if !ok {
		return nil, ErrSpeechUnsupported
	}
	return retry(ctx, r, func() (*Speech, error) { return sp.Speak(ctx, req) })
}

type verdict int

const (
	giveUp verdict = iota
	tryAgain
	tryOnceMore
)

// judge decides what a failed attempt deserves.
func judge(err error) verdict {
	var (
		auth    *ErrAuth
		maxTok  *ErrMaxTokensExceeded
		invalid *ErrInvalidResponse
	)
	switch {
	case errors.Is(err, context.Canceled), errors.Is(err, context.DeadlineExceeded):
		return giveUp
	case errors.Is(err, ErrUnsupportedAttachment), errors.Is(err, ErrSpeechUnsupported):
		return giveUp
	case errors.As(err, &auth), errors.As(err, &maxTok):
		return giveUp
	case errors.As(err, &invalid):
		// A second sample often parses; a third rarely does.
		return tryOnceMore
	}
	return tryAgain
}

func retry[T any](ctx context.Context, r *RetryProvider, call func() (*T, error)) (*T, error) {
	reparsed := false
	for attempt := 0; ; attempt++ {
		out, err := call()
		if err == nil {
			return out, nil
		}

		switch judge(err) {
		case giveUp:
			return nil, err
		case tryOnceMore:
			if reparsed {
				return nil, err
			}
			reparsed = true
		}
		if attempt+1 >= r.config.MaxAttempts {
			return nil, err
		}
		if serr := r.sleep(ctx, r.backoff(attempt, err)); serr != nil {
			return nil, serr
		}
	}
}

// backoff honours a rate limit's RetryAfter and otherwise grows the wait
// by Multiplier per attempt, capped at MaxWait, with ±20% jitter.
func (r *RetryProvider) backoff(attempt int, err error) time.Duration {
	var rl *ErrRateLimit
	if errors.As(err, &rl) && rl.RetryAfter > 0 {
		return rl.RetryAfter
	}

	wait := float64(r.config.InitialWait)
	for range attempt {
		wait *= r.config.Multiplier
		if wait >= float64(r.config.MaxWait) {
			wait = float64(r.config.MaxWait)
			break
		}
	}
	wait *= 0.8 + 0.4*rand.Float64()
	return time.Duration(max(wait, 0))
}

func sleepCtx(ctx context.Context, d time.Duration) error {
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-t.C:
		return nil
	}
}
