package otp

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/handabata/otp-service/internal/domain"
)

// RateLimitStore persists per-email attempt counters.
type RateLimitStore interface {
	Get(ctx context.Context, email string) (*domain.RateLimitRecord, error)
	Increment(ctx context.Context, email string, atMillis int64) error
	Reset(ctx context.Context, email string) error
}

// RateLimitPolicy refuses verification once an address has spent its attempt
// budget inside the rolling window. It is a single shared policy invoked by
// every verify path.
type RateLimitPolicy struct {
	store       RateLimitStore
	maxAttempts int
	window      time.Duration
	nowFn       func() time.Time
}

func NewRateLimitPolicy(store RateLimitStore, maxAttempts int, window time.Duration) *RateLimitPolicy {
	return &RateLimitPolicy{
		store:       store,
		maxAttempts: maxAttempts,
		window:      window,
		nowFn:       time.Now,
	}
}

// Check refuses when the budget is spent and the window is still open. A
// lapsed window clears the counter so the next attempt starts a fresh budget;
// the record itself is never deleted.
func (p *RateLimitPolicy) Check(ctx context.Context, email string) error {
	rec, err := p.store.Get(ctx, email)
	if errors.Is(err, domain.ErrNotFound) {
		return nil
	}
	if err != nil {
		return err
	}
	if rec.Attempts >= p.maxAttempts {
		if p.nowFn().Sub(time.UnixMilli(rec.LastAttempt)) < p.window {
			return fmt.Errorf("too many attempts, try again later: %w", domain.ErrTooManyRequests)
		}
		return p.store.Reset(ctx, email)
	}
	return nil
}

// RecordAttempt counts one verification attempt. Best effort — a failed
// write must not block the verification itself.
func (p *RateLimitPolicy) RecordAttempt(ctx context.Context, email string) {
	if err := p.store.Increment(ctx, email, p.nowFn().UnixMilli()); err != nil {
		slog.Warn("failed to record verification attempt", "email", email, "err", err)
	}
}
