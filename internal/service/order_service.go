package service

import (
	"context"
	"crypto/rand"
	"errors"
	"fmt"
	"math/big"
	"time"

	"rabelani-cakes/internal/domain"
	"rabelani-cakes/internal/repository"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

var (
	ErrEmptyCart          = errors.New("cannot check out an empty cart")
	ErrInvalidOrderStatus = errors.New("invalid order status")
)

const orderNumberSuffixLen = 4

// OrderService defines the interface for order business logic
type OrderService interface {
	Checkout(ctx context.Context, userID uuid.UUID, customer domain.Customer) (*domain.Order, error)
	GetOrder(ctx context.Context, userID uuid.UUID, orderID uuid.UUID, isAdmin bool) (*domain.Order, error)
	ListByUser(ctx context.Context, userID uuid.UUID) ([]*domain.Order, error)
	ListAll(ctx context.Context) ([]*domain.Order, error)
	UpdateStatus(ctx context.Context, orderID uuid.UUID, status string) (*domain.Order, error)
}

type orderService struct {
	orderRepo repository.OrderRepository
	cartRepo  repository.CartRepository
	logger    *zap.Logger
}

// NewOrderService creates a new instance of OrderService
func NewOrderService(orderRepo repository.OrderRepository, cartRepo repository.CartRepository, logger *zap.Logger) OrderService {
	return &orderService{
		orderRepo: orderRepo,
		cartRepo:  cartRepo,
		logger:    logger,
	}
}

// Checkout turns the user's cart into a placed order and clears the cart.
// The order snapshots item names and prices, so later catalog edits never
// change what a customer already bought.
func (s *orderService) Checkout(ctx context.Context, userID uuid.UUID, customer domain.Customer) (*domain.Order, error) {
	cartItems, err := s.cartRepo.ListByUser(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to list cart: %w", err)
	}
	if len(cartItems) == 0 {
		return nil, ErrEmptyCart
	}

	orderItems := make([]*domain.OrderItem, 0, len(cartItems))
	for i, item := range cartItems {
		orderItems = append(orderItems, &domain.OrderItem{
			ID:        uuid.New(),
			ProductID: item.ProductID,
			Name:      item.Name,
			ImageURL:  item.ImageURL,
			Price:     item.Price,
			Quantity:  item.Quantity,
			Category:  item.Category,
			Position:  i,
		})
	}

	order := &domain.Order{
		ID:       uuid.New(),
		UserID:   userID,
		Items:    orderItems,
		Total:    domain.CartTotal(cartItems),
		Status:   domain.OrderStatusPlaced,
		Customer: customer,
	}

	// A generated number can collide with an existing order. Retry once
	// with a fresh number before giving up.
	for attempt := 0; attempt < 2; attempt++ {
		number, err := generateOrderNumber()
		if err != nil {
			return nil, fmt.Errorf("failed to generate order number: %w", err)
		}
		order.OrderNumber = number

		err = s.orderRepo.Create(ctx, order)
		if err == nil {
			break
		}
		if err == repository.ErrOrderNumberCollision && attempt == 0 {
			s.logger.Warn("Order number collision, retrying", zap.String("order_number", number))
			continue
		}
		return nil, fmt.Errorf("failed to create order: %w", err)
	}

	if err := s.cartRepo.ClearForUser(ctx, userID); err != nil {
		// The order exists; an uncleaned cart is recoverable, a lost order is not
		s.logger.Error("Failed to clear cart after checkout",
			zap.String("order_id", order.ID.String()),
			zap.Error(err))
	}

	return order, nil
}

// GetOrder fetches one order. Non-admin callers only see their own orders;
// anything else reads as not found.
func (s *orderService) GetOrder(ctx context.Context, userID uuid.UUID, orderID uuid.UUID, isAdmin bool) (*domain.Order, error) {
	order, err := s.orderRepo.FindByID(ctx, orderID)
	if err != nil {
		if err == repository.ErrOrderNotFound {
			return nil, repository.ErrOrderNotFound
		}
		return nil, fmt.Errorf("failed to find order: %w", err)
	}

	if !isAdmin && order.UserID != userID {
		return nil, repository.ErrOrderNotFound
	}

	return order, nil
}

// ListByUser returns the user's orders, most recent first
func (s *orderService) ListByUser(ctx context.Context, userID uuid.UUID) ([]*domain.Order, error) {
	orders, err := s.orderRepo.ListByUser(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to list orders: %w", err)
	}
	return orders, nil
}

// ListAll returns every order, most recent first
func (s *orderService) ListAll(ctx context.Context) ([]*domain.Order, error) {
	orders, err := s.orderRepo.ListAll(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list orders: %w", err)
	}
	return orders, nil
}

// UpdateStatus moves an order between placed and completed
func (s *orderService) UpdateStatus(ctx context.Context, orderID uuid.UUID, status string) (*domain.Order, error) {
	if status != domain.OrderStatusPlaced && status != domain.OrderStatusCompleted {
		return nil, ErrInvalidOrderStatus
	}

	if err := s.orderRepo.UpdateStatus(ctx, orderID, status); err != nil {
		if err == repository.ErrOrderNotFound {
			return nil, repository.ErrOrderNotFound
		}
		return nil, fmt.Errorf("failed to update order status: %w", err)
	}

	order, err := s.orderRepo.FindByID(ctx, orderID)
	if err != nil {
		return nil, fmt.Errorf("failed to reload order: %w", err)
	}
	return order, nil
}

// generateOrderNumber builds a human-readable reference like
// ORD-20260829-7K2M: the date plus a random base36 suffix.
func generateOrderNumber() (string, error) {
	const alphabet = "0123456789ABCDEFGHIJKLMNOPQRSTUVWXYZ"

	suffix := make([]byte, orderNumberSuffixLen)
	for i := range suffix {
		n, err := rand.Int(rand.Reader, big.NewInt(int64(len(alphabet))))
		if err != nil {
			return "", err
		}
		suffix[i] = alphabet[n.Int64()]
	}

	return fmt.Sprintf("ORD-%s-%s", time.Now().Format("20060102"), string(suffix)), nil
}
