package repository

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"agricure-auth-service/internal/domain"
	xerrors "agricure-auth-service/pkg/xerrors"
)

type ProfileRepository struct {
	db *pgxpool.Pool
}

func NewProfileRepository(db *pgxpool.Pool) *ProfileRepository {
	return &ProfileRepository{db: db}
}

// UpsertMerge writes the profile row keyed by user ID with null-coalescing
// conflict resolution: each field is replaced only when the incoming value is
// non-null, so the client-driven reconciliation and the trigger-driven
// auto-creation converge regardless of which lands first. Idempotent.
func (r *ProfileRepository) UpsertMerge(ctx context.Context, p *domain.Profile) (*domain.Profile, error) {
	var out domain.Profile
	err := r.db.QueryRow(ctx, `
		INSERT INTO profiles (id, full_name, email, phone_number, product_id, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, NOW(), NOW())
		ON CONFLICT (id) DO UPDATE SET
			full_name    = COALESCE(EXCLUDED.full_name, profiles.full_name),
			email        = COALESCE(EXCLUDED.email, profiles.email),
			phone_number = COALESCE(EXCLUDED.phone_number, profiles.phone_number),
			product_id   = COALESCE(EXCLUDED.product_id, profiles.product_id),
			updated_at   = NOW()
		RETURNING id, full_name, email, phone_number, product_id, created_at, updated_at
	`, p.ID, p.FullName, p.Email, p.PhoneNumber, p.ProductID).Scan(
		&out.ID, &out.FullName, &out.Email, &out.PhoneNumber, &out.ProductID, &out.CreatedAt, &out.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &out, nil
}

func (r *ProfileRepository) GetByID(ctx context.Context, userID string) (*domain.Profile, error) {
	var p domain.Profile
	err := r.db.QueryRow(ctx, `
		SELECT id, full_name, email, phone_number, product_id, created_at, updated_at
		FROM profiles
		WHERE id = $1
	`, userID).Scan(&p.ID, &p.FullName, &p.Email, &p.PhoneNumber, &p.ProductID, &p.CreatedAt, &p.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, xerrors.ErrNotFound
		}
		return nil, err
	}
	return &p, nil
}
