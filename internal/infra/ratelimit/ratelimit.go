// Package ratelimit implements fixed-window request counting. Counters are
// best effort: losing them on restart only resets the windows.
package ratelimit

import (
	"context"
	"errors"
	"fmt"
	"time"
)

var ErrInvalidConfig = errors.New("ratelimit: invalid config")

// Store increments the counter for key inside the current window and returns
// the new count and the time left until the window resets.
type Store interface {
	Increment(ctx context.Context, key string, window time.Duration) (count int64, resetIn time.Duration, err error)
}

type Result struct {
	Allowed    bool
	Limit      int64
	Remaining  int64
	RetryAfter time.Duration
}

type Limiter struct {
	store  Store
	limit  int64
	window time.Duration
}

func New(store Store, limit int, window time.Duration) (*Limiter, error) {
	if store == nil {
		return nil, fmt.Errorf("%w: nil store", ErrInvalidConfig)
	}
	if limit <= 0 {
		return nil, fmt.Errorf("%w: limit must be positive, got %d", ErrInvalidConfig, limit)
	}
	if window <= 0 {
		return nil, fmt.Errorf("%w: window must be positive, got %v", ErrInvalidConfig, window)
	}
	return &Limiter{store: store, limit: int64(limit), window: window}, nil
}

func (l *Limiter) Allow(ctx context.Context, key string) (Result, error) {
	count, resetIn, err := l.store.Increment(ctx, key, l.window)
	if err != nil {
		return Result{}, err
	}

	res := Result{Limit: l.limit, Remaining: max(l.limit-count, 0)}
	if count > l.limit {
		res.RetryAfter = resetIn
		return res, nil
	}
	res.Allowed = true
	return res, nil
}
