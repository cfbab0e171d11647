package service

import (
	"context"
	"math"
	"testing"

	"rabelani-cakes/internal/domain"
	"rabelani-cakes/internal/repository"

	"github.com/google/uuid"
	"github.com/leanovate/gopter"
	"github.com/leanovate/gopter/gen"
	"github.com/leanovate/gopter/prop"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type mockCartRepository struct {
	itemsByUser map[uuid.UUID][]*domain.CartItem
}

func newMockCartRepository() *mockCartRepository {
	return &mockCartRepository{
		itemsByUser: make(map[uuid.UUID][]*domain.CartItem),
	}
}

func (m *mockCartRepository) ListByUser(ctx context.Context, userID uuid.UUID) ([]*domain.CartItem, error) {
	return m.itemsByUser[userID], nil
}

func (m *mockCartRepository) FindItem(ctx context.Context, userID, productID uuid.UUID) (*domain.CartItem, error) {
	for _, item := range m.itemsByUser[userID] {
		if item.ProductID == productID {
			return item, nil
		}
	}
	return nil, repository.ErrCartItemNotFound
}

func (m *mockCartRepository) ReplaceForUser(ctx context.Context, userID uuid.UUID, items []*domain.CartItem) error {
	m.itemsByUser[userID] = items
	return nil
}

func (m *mockCartRepository) UpdateQuantity(ctx context.Context, userID, productID uuid.UUID, quantity int) error {
	for _, item := range m.itemsByUser[userID] {
		if item.ProductID == productID {
			item.Quantity = quantity
			return nil
		}
	}
	return repository.ErrCartItemNotFound
}

func (m *mockCartRepository) DeleteItem(ctx context.Context, userID, productID uuid.UUID) error {
	items := m.itemsByUser[userID]
	for i, item := range items {
		if item.ProductID == productID {
			m.itemsByUser[userID] = append(items[:i], items[i+1:]...)
			return nil
		}
	}
	return repository.ErrCartItemNotFound
}

func (m *mockCartRepository) ClearForUser(ctx context.Context, userID uuid.UUID) error {
	m.itemsByUser[userID] = nil
	return nil
}

type mockProductRepository struct {
	products map[uuid.UUID]*domain.Product
}

func newMockProductRepository() *mockProductRepository {
	return &mockProductRepository{
		products: make(map[uuid.UUID]*domain.Product),
	}
}

func (m *mockProductRepository) Create(ctx context.Context, product *domain.Product) error {
	m.products[product.ID] = product
	return nil
}

func (m *mockProductRepository) Delete(ctx context.Context, id uuid.UUID) error {
	if _, ok := m.products[id]; !ok {
		return repository.ErrProductNotFound
	}
	delete(m.products, id)
	return nil
}

func (m *mockProductRepository) FindByID(ctx context.Context, id uuid.UUID) (*domain.Product, error) {
	product, ok := m.products[id]
	if !ok {
		return nil, repository.ErrProductNotFound
	}
	return product, nil
}

func (m *mockProductRepository) ListByCategory(ctx context.Context, categoryID uuid.UUID) ([]*domain.Product, error) {
	var out []*domain.Product
	for _, product := range m.products {
		if product.CategoryID == categoryID {
			out = append(out, product)
		}
	}
	return out, nil
}

func (m *mockProductRepository) ReplaceForCategory(ctx context.Context, categoryID uuid.UUID, products []*domain.Product) error {
	for id, product := range m.products {
		if product.CategoryID == categoryID {
			delete(m.products, id)
		}
	}
	for _, product := range products {
		if product.ID == uuid.Nil {
			product.ID = uuid.New()
		}
		m.products[product.ID] = product
	}
	return nil
}

func seedProduct(repo *mockProductRepository, name string, price float64) *domain.Product {
	product := &domain.Product{
		ID:         uuid.New(),
		Name:       name,
		Price:      price,
		CategoryID: uuid.New(),
		Category:   "Cakes",
		ImageURL:   "https://example.com/" + name + ".jpg",
	}
	repo.products[product.ID] = product
	return product
}

func TestProperty_CartQuantityNeverDropsBelowOne(t *testing.T) {
	properties := gopter.NewProperties(nil)

	properties.Property("decrementing an item any number of times leaves quantity >= 1", prop.ForAll(
		func(increments int, decrements int) bool {
			cartRepo := newMockCartRepository()
			productRepo := newMockProductRepository()
			service := NewCartService(cartRepo, productRepo)
			ctx := context.Background()

			userID := uuid.New()
			product := seedProduct(productRepo, "Velvet Slice", 6.5)

			if _, err := service.Add(ctx, userID, product.ID); err != nil {
				t.Logf("FAIL: Add failed: %v", err)
				return false
			}
			for i := 0; i < increments; i++ {
				if _, err := service.Increment(ctx, userID, product.ID); err != nil {
					t.Logf("FAIL: Increment failed: %v", err)
					return false
				}
			}

			var cart *Cart
			var err error
			for i := 0; i < decrements; i++ {
				cart, err = service.Decrement(ctx, userID, product.ID)
				if err != nil {
					t.Logf("FAIL: Decrement failed: %v", err)
					return false
				}
			}
			if cart == nil {
				cart, err = service.Get(ctx, userID)
				if err != nil {
					return false
				}
			}

			for _, item := range cart.Items {
				if item.Quantity < 1 {
					t.Logf("FAIL: quantity dropped to %d", item.Quantity)
					return false
				}
			}

			want := 1 + increments - decrements
			if want < 1 {
				want = 1
			}
			if cart.Items[0].Quantity != want {
				t.Logf("FAIL: expected quantity %d, got %d", want, cart.Items[0].Quantity)
				return false
			}

			return true
		},
		gen.IntRange(0, 8),
		gen.IntRange(0, 12),
	))

	properties.TestingRun(t, gopter.ConsoleReporter(false))
}

func TestProperty_CartTotalIsSumOfLines(t *testing.T) {
	properties := gopter.NewProperties(nil)

	properties.Property("the cart total equals the sum of price times quantity", prop.ForAll(
		func(prices []float64) bool {
			cartRepo := newMockCartRepository()
			productRepo := newMockProductRepository()
			service := NewCartService(cartRepo, productRepo)
			ctx := context.Background()

			userID := uuid.New()
			var want float64
			for i, price := range prices {
				product := seedProduct(productRepo, "Item", price)
				if _, err := service.Add(ctx, userID, product.ID); err != nil {
					t.Logf("FAIL: Add failed: %v", err)
					return false
				}
				// Bump some lines above quantity 1
				if i%2 == 0 {
					if _, err := service.Increment(ctx, userID, product.ID); err != nil {
						return false
					}
					want += 2 * price
				} else {
					want += price
				}
			}

			cart, err := service.Get(ctx, userID)
			if err != nil {
				return false
			}

			if math.Abs(cart.Total-want) > 1e-9 {
				t.Logf("FAIL: expected total %f, got %f", want, cart.Total)
				return false
			}

			return true
		},
		gen.SliceOf(gen.Float64Range(0.5, 100)),
	))

	properties.TestingRun(t, gopter.ConsoleReporter(false))
}

func TestAddSameProductTwiceIncrementsQuantity(t *testing.T) {
	cartRepo := newMockCartRepository()
	productRepo := newMockProductRepository()
	service := NewCartService(cartRepo, productRepo)
	ctx := context.Background()

	userID := uuid.New()
	product := seedProduct(productRepo, "Chocolate Eclair", 4.25)

	_, err := service.Add(ctx, userID, product.ID)
	require.NoError(t, err)
	cart, err := service.Add(ctx, userID, product.ID)
	require.NoError(t, err)

	require.Len(t, cart.Items, 1)
	assert.Equal(t, 2, cart.Items[0].Quantity)
	assert.InDelta(t, 8.5, cart.Total, 1e-9)
}

func TestAddPutsNewestLineFirst(t *testing.T) {
	cartRepo := newMockCartRepository()
	productRepo := newMockProductRepository()
	service := NewCartService(cartRepo, productRepo)
	ctx := context.Background()

	userID := uuid.New()
	first := seedProduct(productRepo, "Lemon Tart", 5.0)
	second := seedProduct(productRepo, "Carrot Slice", 4.5)

	_, err := service.Add(ctx, userID, first.ID)
	require.NoError(t, err)
	cart, err := service.Add(ctx, userID, second.ID)
	require.NoError(t, err)

	require.Len(t, cart.Items, 2)
	assert.Equal(t, "Carrot Slice", cart.Items[0].Name)
	assert.Equal(t, "Lemon Tart", cart.Items[1].Name)
	for position, item := range cart.Items {
		assert.Equal(t, position, item.Position)
	}
}

func TestRemoveDeletesLineRegardlessOfQuantity(t *testing.T) {
	cartRepo := newMockCartRepository()
	productRepo := newMockProductRepository()
	service := NewCartService(cartRepo, productRepo)
	ctx := context.Background()

	userID := uuid.New()
	product := seedProduct(productRepo, "Lemon Tart", 5.0)

	_, err := service.Add(ctx, userID, product.ID)
	require.NoError(t, err)
	_, err = service.Increment(ctx, userID, product.ID)
	require.NoError(t, err)

	cart, err := service.Remove(ctx, userID, product.ID)
	require.NoError(t, err)
	assert.Empty(t, cart.Items)
	assert.Zero(t, cart.Total)

	_, err = service.Remove(ctx, userID, product.ID)
	assert.ErrorIs(t, err, ErrProductNotInCart)
}

func TestSyncKeepsStoredCartWhenItHasItems(t *testing.T) {
	cartRepo := newMockCartRepository()
	productRepo := newMockProductRepository()
	service := NewCartService(cartRepo, productRepo)
	ctx := context.Background()

	userID := uuid.New()
	product := seedProduct(productRepo, "Carrot Cake", 30.0)
	_, err := service.Add(ctx, userID, product.ID)
	require.NoError(t, err)

	local := []*domain.CartItem{
		{ProductID: uuid.New(), Name: "Stale Local Item", Price: 9.99, Quantity: 5},
	}

	cart, err := service.Sync(ctx, userID, local)
	require.NoError(t, err)

	require.Len(t, cart.Items, 1)
	assert.Equal(t, product.ID, cart.Items[0].ProductID)
	assert.Equal(t, "Carrot Cake", cart.Items[0].Name)
}

func TestSyncSeedsEmptyStoredCartFromLocalItems(t *testing.T) {
	cartRepo := newMockCartRepository()
	productRepo := newMockProductRepository()
	service := NewCartService(cartRepo, productRepo)
	ctx := context.Background()

	userID := uuid.New()
	local := []*domain.CartItem{
		{ProductID: uuid.New(), Name: "Red Velvet", Price: 28.0, Quantity: 1},
		{ProductID: uuid.New(), Name: "Macaron Box", Price: 14.5, Quantity: 2},
	}

	cart, err := service.Sync(ctx, userID, local)
	require.NoError(t, err)

	require.Len(t, cart.Items, 2)
	assert.Equal(t, "Red Velvet", cart.Items[0].Name)
	assert.Equal(t, 2, cart.Items[1].Quantity)
	assert.InDelta(t, 57.0, cart.Total, 1e-9)

	for _, item := range cart.Items {
		assert.NotEqual(t, uuid.Nil, item.ID)
		assert.Equal(t, userID, item.UserID)
	}
}

func TestSyncWithBothCartsEmptyStaysEmpty(t *testing.T) {
	cartRepo := newMockCartRepository()
	productRepo := newMockProductRepository()
	service := NewCartService(cartRepo, productRepo)

	cart, err := service.Sync(context.Background(), uuid.New(), nil)
	require.NoError(t, err)
	assert.Empty(t, cart.Items)
	assert.Zero(t, cart.Total)
}
