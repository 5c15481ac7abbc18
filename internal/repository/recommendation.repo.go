package repository

import (
	"context"

	"github.com/jackc/pgx/v5/pgxpool"

	"agricure-auth-service/internal/domain"
)

type RecommendationRepository struct {
	db *pgxpool.Pool
}

func NewRecommendationRepository(db *pgxpool.Pool) *RecommendationRepository {
	return &RecommendationRepository{db: db}
}

// ListByProduct returns the fertilizer recommendations tied to a product,
// newest first. Read-only; rows are maintained out of band.
func (r *RecommendationRepository) ListByProduct(ctx context.Context, productID string) ([]*domain.Recommendation, error) {
	rows, err := r.db.Query(ctx, `
		SELECT id, product_id, crop, soil_type, fertilizer, dosage, notes, created_at
		FROM fertilizer_recommendations
		WHERE product_id = $1
		ORDER BY created_at DESC
	`, productID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []*domain.Recommendation
	for rows.Next() {
		var rec domain.Recommendation
		if err := rows.Scan(&rec.ID, &rec.ProductID, &rec.Crop, &rec.SoilType, &rec.Fertilizer, &rec.Dosage, &rec.Notes, &rec.CreatedAt); err != nil {
			return nil, err
		}
		out = append(out, &rec)
	}
	return out, rows.Err()
}
