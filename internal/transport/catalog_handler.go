package transport

import (
	"net/http"

	"rabelani-cakes/internal/domain"
	"rabelani-cakes/internal/middleware"
	"rabelani-cakes/internal/notify"
	"rabelani-cakes/internal/repository"
	"rabelani-cakes/internal/service"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// ProductRequest represents the payload for creating a product
type ProductRequest struct {
	Name        string  `json:"name" validate:"required"`
	Description string  `json:"description"`
	Price       float64 `json:"price" validate:"required,gt=0"`
	ImageURL    string  `json:"image_url"`
}

// ProductListRequest represents a full-list overwrite of a category
type ProductListRequest struct {
	Products []ProductListEntry `json:"products" validate:"required,dive"`
}

// ProductListEntry is one product within a full-list overwrite. Entries
// without an id are treated as new products.
type ProductListEntry struct {
	ID          string  `json:"id"`
	Name        string  `json:"name" validate:"required"`
	Description string  `json:"description"`
	Price       float64 `json:"price" validate:"required,gt=0"`
	ImageURL    string  `json:"image_url"`
}

// CoverRequest represents the payload for updating a category cover
type CoverRequest struct {
	ImageURL string `json:"image_url" validate:"required,url"`
}

// CatalogHandler handles HTTP requests for categories and products
type CatalogHandler struct {
	catalogService service.CatalogService
	notifier       *notify.Notifier
	logger         *zap.Logger
}

// NewCatalogHandler creates a new CatalogHandler
func NewCatalogHandler(catalogService service.CatalogService, notifier *notify.Notifier, logger *zap.Logger) *CatalogHandler {
	return &CatalogHandler{
		catalogService: catalogService,
		notifier:       notifier,
		logger:         logger,
	}
}

// RegisterRoutes registers all catalog routes
func (h *CatalogHandler) RegisterRoutes(r chi.Router, authMiddleware, adminMiddleware func(http.Handler) http.Handler) {
	r.Route("/api/categories", func(r chi.Router) {
		r.Get("/", h.ListCategories)
		r.Get("/{slug}/products", h.ListProducts)
	})

	r.Route("/api/admin", func(r chi.Router) {
		r.Use(authMiddleware)
		r.Use(adminMiddleware)

		r.Post("/categories/{slug}/products", h.CreateProduct)
		r.Put("/categories/{slug}/products", h.SaveProducts)
		r.Put("/categories/{slug}/cover", h.UpdateCover)
		r.Delete("/products/{id}", h.DeleteProduct)
		r.Get("/notifications", h.ListNotifications)
	})
}

// ListCategories handles listing all categories
func (h *CatalogHandler) ListCategories(w http.ResponseWriter, r *http.Request) {
	categories, err := h.catalogService.ListCategories(r.Context())
	if err != nil {
		h.logger.Error("Failed to list categories", zap.Error(err))
		middleware.RespondWithError(w, http.StatusInternalServerError, "failed to list categories")
		return
	}

	middleware.RespondWithJSON(w, http.StatusOK, categories)
}

// ListProducts handles listing a category's products
func (h *CatalogHandler) ListProducts(w http.ResponseWriter, r *http.Request) {
	slug := chi.URLParam(r, "slug")

	products, err := h.catalogService.ProductsBySlug(r.Context(), slug)
	if err != nil {
		if err == repository.ErrCategoryNotFound {
			middleware.RespondWithError(w, http.StatusNotFound, "category not found")
			return
		}
		h.logger.Error("Failed to list products", zap.String("category", slug), zap.Error(err))
		middleware.RespondWithError(w, http.StatusInternalServerError, "failed to list products")
		return
	}

	if products == nil {
		products = []*domain.Product{}
	}
	middleware.RespondWithJSON(w, http.StatusOK, products)
}

// CreateProduct handles adding a product to a category
func (h *CatalogHandler) CreateProduct(w http.ResponseWriter, r *http.Request) {
	slug := chi.URLParam(r, "slug")

	var req ProductRequest
	if err := middleware.DecodeAndValidate(r, &req); err != nil {
		if validationErrors := middleware.FormatValidationErrors(err); len(validationErrors) > 0 {
			middleware.RespondWithValidationErrors(w, validationErrors)
			return
		}
		middleware.RespondWithError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	product := &domain.Product{
		Name:        req.Name,
		Description: req.Description,
		Price:       req.Price,
		ImageURL:    req.ImageURL,
	}

	created, err := h.catalogService.CreateProduct(r.Context(), slug, product)
	if err != nil {
		if err == repository.ErrCategoryNotFound {
			middleware.RespondWithError(w, http.StatusNotFound, "category not found")
			return
		}
		h.logger.Error("Failed to create product", zap.String("category", slug), zap.Error(err))
		middleware.RespondWithError(w, http.StatusInternalServerError, "failed to create product")
		return
	}

	h.logger.Info("Product created",
		zap.String("product_id", created.ID.String()),
		zap.String("category", slug))
	middleware.RespondWithJSON(w, http.StatusCreated, created)
}

// SaveProducts handles a debounced full-list overwrite of a category
func (h *CatalogHandler) SaveProducts(w http.ResponseWriter, r *http.Request) {
	slug := chi.URLParam(r, "slug")

	var req ProductListRequest
	if err := middleware.DecodeAndValidate(r, &req); err != nil {
		if validationErrors := middleware.FormatValidationErrors(err); len(validationErrors) > 0 {
			middleware.RespondWithValidationErrors(w, validationErrors)
			return
		}
		middleware.RespondWithError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	products := make([]*domain.Product, 0, len(req.Products))
	for _, entry := range req.Products {
		product := &domain.Product{
			Name:        entry.Name,
			Description: entry.Description,
			Price:       entry.Price,
			ImageURL:    entry.ImageURL,
		}
		if entry.ID != "" {
			id, err := uuid.Parse(entry.ID)
			if err != nil {
				middleware.RespondWithError(w, http.StatusBadRequest, "invalid product id")
				return
			}
			product.ID = id
		}
		products = append(products, product)
	}

	if err := h.catalogService.SaveProducts(r.Context(), slug, products); err != nil {
		if err == repository.ErrCategoryNotFound {
			middleware.RespondWithError(w, http.StatusNotFound, "category not found")
			return
		}
		h.logger.Error("Failed to stage product overwrite", zap.String("category", slug), zap.Error(err))
		middleware.RespondWithError(w, http.StatusInternalServerError, "failed to save products")
		return
	}

	// The write is coalesced, not yet durable
	middleware.RespondWithJSON(w, http.StatusAccepted, map[string]string{"status": "pending"})
}

// DeleteProduct handles removing a product
func (h *CatalogHandler) DeleteProduct(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		middleware.RespondWithError(w, http.StatusBadRequest, "invalid product id")
		return
	}

	if err := h.catalogService.DeleteProduct(r.Context(), id); err != nil {
		if err == repository.ErrProductNotFound {
			middleware.RespondWithError(w, http.StatusNotFound, "product not found")
			return
		}
		h.logger.Error("Failed to delete product", zap.String("product_id", id.String()), zap.Error(err))
		middleware.RespondWithError(w, http.StatusInternalServerError, "failed to delete product")
		return
	}

	middleware.RespondWithJSON(w, http.StatusOK, map[string]string{"status": "deleted"})
}

// UpdateCover handles changing a category's cover image
func (h *CatalogHandler) UpdateCover(w http.ResponseWriter, r *http.Request) {
	slug := chi.URLParam(r, "slug")

	var req CoverRequest
	if err := middleware.DecodeAndValidate(r, &req); err != nil {
		if validationErrors := middleware.FormatValidationErrors(err); len(validationErrors) > 0 {
			middleware.RespondWithValidationErrors(w, validationErrors)
			return
		}
		middleware.RespondWithError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	if err := h.catalogService.UpdateCover(r.Context(), slug, req.ImageURL); err != nil {
		if err == repository.ErrCategoryNotFound {
			middleware.RespondWithError(w, http.StatusNotFound, "category not found")
			return
		}
		h.logger.Error("Failed to update cover", zap.String("category", slug), zap.Error(err))
		middleware.RespondWithError(w, http.StatusInternalServerError, "failed to update cover")
		return
	}

	middleware.RespondWithJSON(w, http.StatusOK, map[string]string{"status": "updated"})
}

// ListNotifications handles reading the recent admin notification feed
func (h *CatalogHandler) ListNotifications(w http.ResponseWriter, r *http.Request) {
	middleware.RespondWithJSON(w, http.StatusOK, h.notifier.Recent())
}
