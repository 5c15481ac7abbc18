package domain

import "time"

// Product gates signup: registration requires possession of a valid, active
// product ID.
type Product struct {
	ID       string `json:"id"` // human-chosen, e.g. "DEMO-001"
	Name     string `json:"name"`
	IsActive bool   `json:"is_active"`
}

// Recommendation is one fertilizer recommendation row shown on the dashboard
// for the product a profile is associated with.
type Recommendation struct {
	ID         string    `json:"id"`
	ProductID  string    `json:"product_id"`
	Crop       string    `json:"crop"`
	SoilType   string    `json:"soil_type"`
	Fertilizer string    `json:"fertilizer"`
	Dosage     string    `json:"dosage"`
	Notes      *string   `json:"notes,omitempty"`
	CreatedAt  time.Time `json:"created_at"`
}
