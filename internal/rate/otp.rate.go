package rate

import (
	"context"
	"fmt"
	"strconv"
	"time"

	xerrors "agricure-auth-service/pkg/xerrors"
)

// Store is the slice of the cache the limiter needs.
type Store interface {
	Set(ctx context.Context, namespace, key string, value interface{}, ttl time.Duration) error
	Get(ctx context.Context, namespace, key string) (string, error)
	GetTTL(ctx context.Context, namespace, key string) (time.Duration, error)
	IncrWithExpire(ctx context.Context, namespace, key string, window time.Duration) (int64, error)
}

const namespace = "otp_rate"

// Limiter guards OTP dispatch with a per-flow resend cooldown plus a windowed
// request cap. The cooldown is advisory (it prevents accidental duplicate
// sends, it is not a hard provider-side limit); the windowed cap blocks abuse
// of a single signup flow. Checking and arming are separate: CanRequest only
// inspects state, MarkSent consumes a window slot and starts the cooldown, so
// a failed dispatch never locks the flow out.
type Limiter struct {
	store       Store
	window      time.Duration
	maxInWindow int
	cooldown    time.Duration
}

func NewLimiter(store Store, window time.Duration, max int, cooldown time.Duration) *Limiter {
	return &Limiter{store: store, window: window, maxInWindow: max, cooldown: cooldown}
}

func (l *Limiter) CanRequest(ctx context.Context, flowID string) error {
	blockKey := fmt.Sprintf("block:%s", flowID)
	lastKey := fmt.Sprintf("last:%s", flowID)
	countKey := fmt.Sprintf("count:%s", flowID)

	if ttl, _ := l.store.GetTTL(ctx, namespace, blockKey); ttl > 0 {
		return fmt.Errorf("%w: try again after %d seconds", xerrors.ErrTooManyOTPRequests, int(ttl.Seconds()))
	}

	if ttl, _ := l.store.GetTTL(ctx, namespace, lastKey); ttl > 0 {
		return fmt.Errorf("%w: %d seconds remaining", xerrors.ErrResendTooSoon, int(ttl.Seconds()))
	}

	if raw, err := l.store.Get(ctx, namespace, countKey); err == nil {
		if cnt, _ := strconv.Atoi(raw); cnt >= l.maxInWindow {
			_ = l.store.Set(ctx, namespace, blockKey, "1", l.window*3)
			return fmt.Errorf("%w: try again after %d seconds", xerrors.ErrTooManyOTPRequests, int((l.window * 3).Seconds()))
		}
	}
	return nil
}

// MarkSent records a successful dispatch: one window slot consumed, cooldown
// started. Never called on a failed send.
func (l *Limiter) MarkSent(ctx context.Context, flowID string) error {
	if _, err := l.store.IncrWithExpire(ctx, namespace, fmt.Sprintf("count:%s", flowID), l.window); err != nil {
		return err
	}
	return l.store.Set(ctx, namespace, fmt.Sprintf("last:%s", flowID), "1", l.cooldown)
}

// CooldownRemaining reports how long until the next send is allowed; zero
// when no cooldown is active.
func (l *Limiter) CooldownRemaining(ctx context.Context, flowID string) time.Duration {
	ttl, err := l.store.GetTTL(ctx, namespace, fmt.Sprintf("last:%s", flowID))
	if err != nil || ttl < 0 {
		return 0
	}
	return ttl
}
