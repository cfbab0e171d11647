package transport

import (
	"context"
	"net/http"

	"rabelani-cakes/internal/domain"
	"rabelani-cakes/internal/middleware"
	"rabelani-cakes/internal/repository"
	"rabelani-cakes/internal/service"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// AddCartItemRequest represents the payload for adding a product to the cart
type AddCartItemRequest struct {
	ProductID string `json:"product_id" validate:"required,uuid"`
}

// SyncCartRequest carries the anonymous cart a client built up before
// signing in.
type SyncCartRequest struct {
	Items []SyncCartItem `json:"items" validate:"dive"`
}

// SyncCartItem is one line of an anonymous cart
type SyncCartItem struct {
	ProductID string  `json:"product_id" validate:"required,uuid"`
	Name      string  `json:"name" validate:"required"`
	ImageURL  string  `json:"image_url"`
	Price     float64 `json:"price" validate:"gte=0"`
	Quantity  int     `json:"quantity" validate:"required,min=1"`
	Category  string  `json:"category"`
}

// CartHandler handles HTTP requests for cart operations
type CartHandler struct {
	cartService service.CartService
	logger      *zap.Logger
}

// NewCartHandler creates a new CartHandler
func NewCartHandler(cartService service.CartService, logger *zap.Logger) *CartHandler {
	return &CartHandler{
		cartService: cartService,
		logger:      logger,
	}
}

// RegisterRoutes registers all cart routes. Everything requires auth; the
// anonymous cart lives on the client until sign-in.
func (h *CartHandler) RegisterRoutes(r chi.Router, authMiddleware func(http.Handler) http.Handler) {
	r.Route("/api/cart", func(r chi.Router) {
		r.Use(authMiddleware)

		r.Get("/", h.GetCart)
		r.Delete("/", h.ClearCart)
		r.Post("/sync", h.SyncCart)
		r.Post("/items", h.AddItem)
		r.Post("/items/{productID}/increment", h.IncrementItem)
		r.Post("/items/{productID}/decrement", h.DecrementItem)
		r.Delete("/items/{productID}", h.RemoveItem)
	})
}

// GetCart handles reading the current cart
func (h *CartHandler) GetCart(w http.ResponseWriter, r *http.Request) {
	userID, ok := h.requireUserID(w, r)
	if !ok {
		return
	}

	cart, err := h.cartService.Get(r.Context(), userID)
	if err != nil {
		h.logger.Error("Failed to get cart", zap.Error(err))
		middleware.RespondWithError(w, http.StatusInternalServerError, "failed to get cart")
		return
	}

	middleware.RespondWithJSON(w, http.StatusOK, cart)
}

// AddItem handles adding a product to the cart
func (h *CartHandler) AddItem(w http.ResponseWriter, r *http.Request) {
	userID, ok := h.requireUserID(w, r)
	if !ok {
		return
	}

	var req AddCartItemRequest
	if err := middleware.DecodeAndValidate(r, &req); err != nil {
		if validationErrors := middleware.FormatValidationErrors(err); len(validationErrors) > 0 {
			middleware.RespondWithValidationErrors(w, validationErrors)
			return
		}
		middleware.RespondWithError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	productID, err := uuid.Parse(req.ProductID)
	if err != nil {
		middleware.RespondWithError(w, http.StatusBadRequest, "invalid product id")
		return
	}

	cart, err := h.cartService.Add(r.Context(), userID, productID)
	if err != nil {
		if err == repository.ErrProductNotFound {
			middleware.RespondWithError(w, http.StatusNotFound, "product not found")
			return
		}
		h.logger.Error("Failed to add cart item", zap.Error(err))
		middleware.RespondWithError(w, http.StatusInternalServerError, "failed to add cart item")
		return
	}

	middleware.RespondWithJSON(w, http.StatusOK, cart)
}

// IncrementItem handles bumping a cart line's quantity
func (h *CartHandler) IncrementItem(w http.ResponseWriter, r *http.Request) {
	h.adjustQuantity(w, r, h.cartService.Increment)
}

// DecrementItem handles lowering a cart line's quantity
func (h *CartHandler) DecrementItem(w http.ResponseWriter, r *http.Request) {
	h.adjustQuantity(w, r, h.cartService.Decrement)
}

// RemoveItem handles removing a line from the cart
func (h *CartHandler) RemoveItem(w http.ResponseWriter, r *http.Request) {
	h.adjustQuantity(w, r, h.cartService.Remove)
}

// ClearCart handles emptying the cart
func (h *CartHandler) ClearCart(w http.ResponseWriter, r *http.Request) {
	userID, ok := h.requireUserID(w, r)
	if !ok {
		return
	}

	cart, err := h.cartService.Clear(r.Context(), userID)
	if err != nil {
		h.logger.Error("Failed to clear cart", zap.Error(err))
		middleware.RespondWithError(w, http.StatusInternalServerError, "failed to clear cart")
		return
	}

	middleware.RespondWithJSON(w, http.StatusOK, cart)
}

// SyncCart handles reconciling an anonymous cart at sign-in
func (h *CartHandler) SyncCart(w http.ResponseWriter, r *http.Request) {
	userID, ok := h.requireUserID(w, r)
	if !ok {
		return
	}

	var req SyncCartRequest
	if err := middleware.DecodeAndValidate(r, &req); err != nil {
		if validationErrors := middleware.FormatValidationErrors(err); len(validationErrors) > 0 {
			middleware.RespondWithValidationErrors(w, validationErrors)
			return
		}
		middleware.RespondWithError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	localItems := make([]*domain.CartItem, 0, len(req.Items))
	for _, item := range req.Items {
		productID, err := uuid.Parse(item.ProductID)
		if err != nil {
			middleware.RespondWithError(w, http.StatusBadRequest, "invalid product id")
			return
		}
		localItems = append(localItems, &domain.CartItem{
			ProductID: productID,
			Name:      item.Name,
			ImageURL:  item.ImageURL,
			Price:     item.Price,
			Quantity:  item.Quantity,
			Category:  item.Category,
		})
	}

	cart, err := h.cartService.Sync(r.Context(), userID, localItems)
	if err != nil {
		h.logger.Error("Failed to sync cart", zap.Error(err))
		middleware.RespondWithError(w, http.StatusInternalServerError, "failed to sync cart")
		return
	}

	h.logger.Info("Cart synced",
		zap.String("user_id", userID.String()),
		zap.Int("items", len(cart.Items)))
	middleware.RespondWithJSON(w, http.StatusOK, cart)
}

func (h *CartHandler) adjustQuantity(w http.ResponseWriter, r *http.Request, op func(ctx context.Context, userID, productID uuid.UUID) (*service.Cart, error)) {
	userID, ok := h.requireUserID(w, r)
	if !ok {
		return
	}

	productID, err := uuid.Parse(chi.URLParam(r, "productID"))
	if err != nil {
		middleware.RespondWithError(w, http.StatusBadRequest, "invalid product id")
		return
	}

	cart, err := op(r.Context(), userID, productID)
	if err != nil {
		if err == service.ErrProductNotInCart {
			middleware.RespondWithError(w, http.StatusNotFound, "product is not in the cart")
			return
		}
		h.logger.Error("Failed to update cart item", zap.Error(err))
		middleware.RespondWithError(w, http.StatusInternalServerError, "failed to update cart item")
		return
	}

	middleware.RespondWithJSON(w, http.StatusOK, cart)
}

func (h *CartHandler) requireUserID(w http.ResponseWriter, r *http.Request) (uuid.UUID, bool) {
	userIDStr, ok := middleware.GetUserID(r.Context())
	if !ok {
		middleware.RespondWithError(w, http.StatusUnauthorized, "unauthorized")
		return uuid.Nil, false
	}

	userID, err := uuid.Parse(userIDStr)
	if err != nil {
		middleware.RespondWithError(w, http.StatusBadRequest, "invalid user ID")
		return uuid.Nil, false
	}

	return userID, true
}
