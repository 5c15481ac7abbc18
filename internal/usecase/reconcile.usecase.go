package usecase

import (
	"context"
	"fmt"
	"log"
	"time"

	"agricure-auth-service/internal/domain"
	"agricure-auth-service/internal/service/otp"
	"agricure-auth-service/pkg/utils"
	xerrors "agricure-auth-service/pkg/xerrors"
)

// ProfileRepo is the minimal profile store surface needed by reconciliation.
type ProfileRepo interface {
	UpsertMerge(ctx context.Context, p *domain.Profile) (*domain.Profile, error)
}

// Reconciler guarantees the profile row for a freshly verified user reflects
// the staged signup data, tolerating the provider-side trigger having already
// created (or still being about to create) the same row. Both producers are
// idempotent null-coalescing merges on the same key, so arrival order does
// not matter and no one needs to know whether the trigger already ran.
type Reconciler struct {
	profiles ProfileRepo
	attempts int
	delay    time.Duration
	sleep    func(time.Duration)
}

// Retry exists for the window where the trigger's row creation has not landed
// yet and the upsert races it. Fixed delay, bounded.
const (
	reconcileAttempts = 3
	reconcileDelay    = time.Second
)

func NewReconciler(profiles ProfileRepo) *Reconciler {
	return &Reconciler{profiles: profiles, attempts: reconcileAttempts, delay: reconcileDelay, sleep: time.Sleep}
}

// NewReconcilerWithRetry overrides the retry policy; used by tests.
func NewReconcilerWithRetry(profiles ProfileRepo, attempts int, delay time.Duration, sleep func(time.Duration)) *Reconciler {
	if sleep == nil {
		sleep = time.Sleep
	}
	return &Reconciler{profiles: profiles, attempts: attempts, delay: delay, sleep: sleep}
}

// Reconcile upserts the staged fields onto the profile row keyed by userID.
// A phone that cannot be reduced to the storage shape ^\+\d{10,15}$ is
// dropped rather than failing the whole write. Exhausting retries returns an
// error for the caller to log; the signup itself must not fail on it.
func (r *Reconciler) Reconcile(ctx context.Context, userID string, staged *domain.StagedSignup) error {
	p := &domain.Profile{
		ID:        userID,
		FullName:  domain.StrPtr(staged.FullName),
		Email:     domain.StrPtr(staged.Email),
		ProductID: domain.StrPtr(staged.ProductID),
	}

	if normalized, err := otp.NormalizePhone(staged.MobileNumber); err == nil && utils.IsStorablePhone(normalized) {
		p.PhoneNumber = domain.StrPtr(normalized)
	} else {
		log.Printf("[reconcile] dropping non-storable phone for user=%s", userID)
	}

	var lastErr error
	for attempt := 1; attempt <= r.attempts; attempt++ {
		if _, err := r.profiles.UpsertMerge(ctx, p); err == nil {
			return nil
		} else {
			lastErr = err
			log.Printf("[reconcile] upsert attempt %d/%d failed for user=%s: %v", attempt, r.attempts, userID, err)
		}
		if attempt < r.attempts {
			r.sleep(r.delay)
		}
	}
	return fmt.Errorf("%w: %v", xerrors.ErrProfileReconciliation, lastErr)
}
