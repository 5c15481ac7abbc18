package repository

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"agricure-auth-service/internal/domain"
	xerrors "agricure-auth-service/pkg/xerrors"
)

type ProductRepository struct {
	db *pgxpool.Pool
}

func NewProductRepository(db *pgxpool.Pool) *ProductRepository {
	return &ProductRepository{db: db}
}

// FindActiveProduct resolves a product ID to an active product. Inactive rows
// are invisible here, matching the read policy on the table.
func (r *ProductRepository) FindActiveProduct(ctx context.Context, id string) (*domain.Product, error) {
	var p domain.Product
	err := r.db.QueryRow(ctx, `
		SELECT id, name, is_active
		FROM products
		WHERE id = $1 AND is_active = TRUE
	`, id).Scan(&p.ID, &p.Name, &p.IsActive)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, xerrors.ErrNotFound
		}
		return nil, err
	}
	return &p, nil
}
