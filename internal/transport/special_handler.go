package transport

import (
	"net/http"

	"rabelani-cakes/internal/domain"
	"rabelani-cakes/internal/middleware"
	"rabelani-cakes/internal/service"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"
)

// SpecialRequest represents the admin payload for the featured special.
// Fields left blank fall back to the house defaults on read.
type SpecialRequest struct {
	TitleLine1    string  `json:"title_line1"`
	TitleLine2    string  `json:"title_line2"`
	Description   string  `json:"description"`
	OriginalPrice float64 `json:"original_price" validate:"gte=0"`
	SalePrice     float64 `json:"sale_price" validate:"gte=0"`
	ImageURL      string  `json:"image_url"`
}

// SpecialHandler handles HTTP requests for the featured special
type SpecialHandler struct {
	specialService service.SpecialService
	logger         *zap.Logger
}

// NewSpecialHandler creates a new SpecialHandler
func NewSpecialHandler(specialService service.SpecialService, logger *zap.Logger) *SpecialHandler {
	return &SpecialHandler{
		specialService: specialService,
		logger:         logger,
	}
}

// RegisterRoutes registers the special routes
func (h *SpecialHandler) RegisterRoutes(r chi.Router, authMiddleware, adminMiddleware func(http.Handler) http.Handler) {
	r.Get("/api/specials/featured", h.GetFeatured)

	r.Group(func(r chi.Router) {
		r.Use(authMiddleware)
		r.Use(adminMiddleware)
		r.Put("/api/admin/specials/featured", h.UpdateFeatured)
	})
}

// GetFeatured handles reading the featured special
func (h *SpecialHandler) GetFeatured(w http.ResponseWriter, r *http.Request) {
	special, err := h.specialService.Get(r.Context())
	if err != nil {
		h.logger.Error("Failed to load featured special", zap.Error(err))
		middleware.RespondWithError(w, http.StatusInternalServerError, "failed to load featured special")
		return
	}

	middleware.RespondWithJSON(w, http.StatusOK, special)
}

// UpdateFeatured handles the admin overwrite of the featured special
func (h *SpecialHandler) UpdateFeatured(w http.ResponseWriter, r *http.Request) {
	var req SpecialRequest
	if err := middleware.DecodeAndValidate(r, &req); err != nil {
		if validationErrors := middleware.FormatValidationErrors(err); len(validationErrors) > 0 {
			middleware.RespondWithValidationErrors(w, validationErrors)
			return
		}
		middleware.RespondWithError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	special := &domain.FeaturedSpecial{
		TitleLine1:    req.TitleLine1,
		TitleLine2:    req.TitleLine2,
		Description:   req.Description,
		OriginalPrice: req.OriginalPrice,
		SalePrice:     req.SalePrice,
		ImageURL:      req.ImageURL,
	}

	updated, err := h.specialService.Update(r.Context(), special)
	if err != nil {
		h.logger.Error("Failed to update featured special", zap.Error(err))
		middleware.RespondWithError(w, http.StatusInternalServerError, "failed to update featured special")
		return
	}

	h.logger.Info("Featured special updated", zap.String("title", updated.TitleLine1))
	middleware.RespondWithJSON(w, http.StatusOK, updated)
}
