package handler

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"agricure-auth-service/internal/repository"
	"agricure-auth-service/pkg/response"
)

// RecommendationHandler serves the read-only data the fertilizer
// recommendation view sits on. Rendering is the client's concern.
type RecommendationHandler struct {
	repo *repository.RecommendationRepository
}

func NewRecommendationHandler(repo *repository.RecommendationRepository) *RecommendationHandler {
	return &RecommendationHandler{repo: repo}
}

func (h *RecommendationHandler) HandleListByProduct(w http.ResponseWriter, r *http.Request) {
	productID := chi.URLParam(r, "productID")
	if productID == "" {
		response.Error(w, http.StatusBadRequest, "Product ID is required")
		return
	}

	recs, err := h.repo.ListByProduct(r.Context(), productID)
	if err != nil {
		response.Error(w, http.StatusInternalServerError, "Failed to load recommendations")
		return
	}
	response.JSON(w, http.StatusOK, map[string]interface{}{
		"product_id":      productID,
		"recommendations": recs,
	})
}
