package repository

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"github.com/redis/go-redis/v9"

	"agricure-auth-service/internal/domain"
	"agricure-auth-service/pkg/cache"
	xerrors "agricure-auth-service/pkg/xerrors"
)

// stagingNamespace is the well-known key prefix for staged signup records.
const stagingNamespace = "signup_staging"

// StagingRepository holds the ephemeral signup payload between "Continue to
// Verification" and completion. One JSON record per flow; created on form
// submit, read by the OTP steps, destroyed on completion or abandonment. The
// TTL is a backstop for flows that are simply walked away from.
type StagingRepository struct {
	cache *cache.Cache
	ttl   time.Duration
}

func NewStagingRepository(cache *cache.Cache, ttl time.Duration) *StagingRepository {
	return &StagingRepository{cache: cache, ttl: ttl}
}

func (r *StagingRepository) Put(ctx context.Context, s *domain.StagedSignup) error {
	raw, err := json.Marshal(s)
	if err != nil {
		return err
	}
	return r.cache.Set(ctx, stagingNamespace, s.FlowID, raw, r.ttl)
}

func (r *StagingRepository) Get(ctx context.Context, flowID string) (*domain.StagedSignup, error) {
	raw, err := r.cache.Get(ctx, stagingNamespace, flowID)
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, xerrors.ErrSignupFlowNotFound
		}
		return nil, err
	}
	var s domain.StagedSignup
	if err := json.Unmarshal([]byte(raw), &s); err != nil {
		return nil, err
	}
	return &s, nil
}

func (r *StagingRepository) Delete(ctx context.Context, flowID string) error {
	return r.cache.Delete(ctx, stagingNamespace, flowID)
}
