package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"rabelani-cakes/internal/domain"
	"rabelani-cakes/internal/repository"

	"github.com/google/uuid"
)

var ErrProductNotInCart = errors.New("product is not in the cart")

// Cart is the authoritative state returned after every cart mutation
type Cart struct {
	Items []*domain.CartItem `json:"items"`
	Total float64            `json:"total"`
}

// CartService defines the interface for cart business logic. Every mutation
// returns the resulting cart so the caller never has to guess what the
// server-side state looks like.
type CartService interface {
	Get(ctx context.Context, userID uuid.UUID) (*Cart, error)
	Add(ctx context.Context, userID, productID uuid.UUID) (*Cart, error)
	Increment(ctx context.Context, userID, productID uuid.UUID) (*Cart, error)
	Decrement(ctx context.Context, userID, productID uuid.UUID) (*Cart, error)
	Remove(ctx context.Context, userID, productID uuid.UUID) (*Cart, error)
	Clear(ctx context.Context, userID uuid.UUID) (*Cart, error)
	Sync(ctx context.Context, userID uuid.UUID, localItems []*domain.CartItem) (*Cart, error)
}

type cartService struct {
	cartRepo    repository.CartRepository
	productRepo repository.ProductRepository
}

// NewCartService creates a new instance of CartService
func NewCartService(cartRepo repository.CartRepository, productRepo repository.ProductRepository) CartService {
	return &cartService{
		cartRepo:    cartRepo,
		productRepo: productRepo,
	}
}

// Get returns the user's current cart with its computed total
func (s *cartService) Get(ctx context.Context, userID uuid.UUID) (*Cart, error) {
	return s.currentCart(ctx, userID)
}

// Add puts a product into the cart, or bumps its quantity when the product
// is already there.
func (s *cartService) Add(ctx context.Context, userID, productID uuid.UUID) (*Cart, error) {
	existing, err := s.cartRepo.FindItem(ctx, userID, productID)
	if err != nil && err != repository.ErrCartItemNotFound {
		return nil, fmt.Errorf("failed to look up cart item: %w", err)
	}

	if existing != nil {
		if err := s.cartRepo.UpdateQuantity(ctx, userID, productID, existing.Quantity+1); err != nil {
			return nil, fmt.Errorf("failed to increment cart item: %w", err)
		}
		return s.currentCart(ctx, userID)
	}

	product, err := s.productRepo.FindByID(ctx, productID)
	if err != nil {
		if err == repository.ErrProductNotFound {
			return nil, repository.ErrProductNotFound
		}
		return nil, fmt.Errorf("failed to load product: %w", err)
	}

	items, err := s.cartRepo.ListByUser(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to list cart: %w", err)
	}

	item := &domain.CartItem{
		ID:        uuid.New(),
		UserID:    userID,
		ProductID: product.ID,
		Name:      product.Name,
		ImageURL:  product.ImageURL,
		Price:     product.Price,
		Quantity:  1,
		Category:  product.Category,
		CreatedAt: time.Now(),
		UpdatedAt: time.Now(),
	}

	// Newest line goes to the top of the cart
	items = append([]*domain.CartItem{item}, items...)
	for position, it := range items {
		it.Position = position
	}
	if err := s.cartRepo.ReplaceForUser(ctx, userID, items); err != nil {
		return nil, fmt.Errorf("failed to add cart item: %w", err)
	}

	return s.currentCart(ctx, userID)
}

// Increment raises the quantity of a cart line by one
func (s *cartService) Increment(ctx context.Context, userID, productID uuid.UUID) (*Cart, error) {
	item, err := s.cartRepo.FindItem(ctx, userID, productID)
	if err != nil {
		if err == repository.ErrCartItemNotFound {
			return nil, ErrProductNotInCart
		}
		return nil, fmt.Errorf("failed to look up cart item: %w", err)
	}

	if err := s.cartRepo.UpdateQuantity(ctx, userID, productID, item.Quantity+1); err != nil {
		return nil, fmt.Errorf("failed to increment cart item: %w", err)
	}

	return s.currentCart(ctx, userID)
}

// Decrement lowers the quantity of a cart line by one. A line already at
// quantity 1 stays at 1; removing it takes an explicit Remove call.
func (s *cartService) Decrement(ctx context.Context, userID, productID uuid.UUID) (*Cart, error) {
	item, err := s.cartRepo.FindItem(ctx, userID, productID)
	if err != nil {
		if err == repository.ErrCartItemNotFound {
			return nil, ErrProductNotInCart
		}
		return nil, fmt.Errorf("failed to look up cart item: %w", err)
	}

	if item.Quantity > 1 {
		if err := s.cartRepo.UpdateQuantity(ctx, userID, productID, item.Quantity-1); err != nil {
			return nil, fmt.Errorf("failed to decrement cart item: %w", err)
		}
	}

	return s.currentCart(ctx, userID)
}

// Remove deletes a line from the cart regardless of its quantity
func (s *cartService) Remove(ctx context.Context, userID, productID uuid.UUID) (*Cart, error) {
	if err := s.cartRepo.DeleteItem(ctx, userID, productID); err != nil {
		if err == repository.ErrCartItemNotFound {
			return nil, ErrProductNotInCart
		}
		return nil, fmt.Errorf("failed to remove cart item: %w", err)
	}

	return s.currentCart(ctx, userID)
}

// Clear empties the cart
func (s *cartService) Clear(ctx context.Context, userID uuid.UUID) (*Cart, error) {
	if err := s.cartRepo.ClearForUser(ctx, userID); err != nil {
		return nil, fmt.Errorf("failed to clear cart: %w", err)
	}

	return &Cart{Items: []*domain.CartItem{}, Total: 0}, nil
}

// Sync reconciles the anonymous cart a client accumulated before signing in
// with the cart stored for the account. The stored cart wins whenever it has
// any items; the local cart only seeds an empty account cart. Last write
// wins, no per-line merging.
func (s *cartService) Sync(ctx context.Context, userID uuid.UUID, localItems []*domain.CartItem) (*Cart, error) {
	remote, err := s.cartRepo.ListByUser(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to list cart: %w", err)
	}

	if len(remote) > 0 || len(localItems) == 0 {
		return &Cart{Items: remote, Total: domain.CartTotal(remote)}, nil
	}

	seeded := make([]*domain.CartItem, 0, len(localItems))
	for i, item := range localItems {
		if item.Quantity < 1 {
			item.Quantity = 1
		}
		seeded = append(seeded, &domain.CartItem{
			ID:        uuid.New(),
			UserID:    userID,
			ProductID: item.ProductID,
			Name:      item.Name,
			ImageURL:  item.ImageURL,
			Price:     item.Price,
			Quantity:  item.Quantity,
			Category:  item.Category,
			Position:  i,
			CreatedAt: time.Now(),
			UpdatedAt: time.Now(),
		})
	}

	if err := s.cartRepo.ReplaceForUser(ctx, userID, seeded); err != nil {
		return nil, fmt.Errorf("failed to seed cart: %w", err)
	}

	return s.currentCart(ctx, userID)
}

func (s *cartService) currentCart(ctx context.Context, userID uuid.UUID) (*Cart, error) {
	items, err := s.cartRepo.ListByUser(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to list cart: %w", err)
	}
	return &Cart{Items: items, Total: domain.CartTotal(items)}, nil
}
