package repository

import (
	"context"
	"testing"
	"time"

	"rabelani-cakes/internal/domain"

	"github.com/google/uuid"
	"github.com/leanovate/gopter"
	"github.com/leanovate/gopter/gen"
	"github.com/leanovate/gopter/prop"
)

func createTestCategory(t *testing.T, name string) *domain.Category {
	t.Helper()

	category := &domain.Category{
		ID:   uuid.New(),
		Name: name,
		Slug: domain.Slugify(name),
	}

	_, err := testDB.Exec(
		`INSERT INTO categories (id, name, slug) VALUES ($1, $2, $3)`,
		category.ID, category.Name, category.Slug,
	)
	if err != nil {
		t.Fatalf("Failed to create category: %v", err)
	}

	return category
}

func TestProperty_ProductCreationPreservesAttributes(t *testing.T) {
	productRepo := NewProductRepository(testDB)

	properties := gopter.NewProperties(nil)

	properties.Property("creating and retrieving a product preserves all attributes", prop.ForAll(
		func(name string, description string, price float64, imageURL string) bool {
			ctx := context.Background()
			category := createTestCategory(t, "Test Category "+uuid.New().String())

			product := &domain.Product{
				ID:          uuid.New(),
				Name:        name,
				Description: description,
				Price:       price,
				CategoryID:  category.ID,
				ImageURL:    imageURL,
				CreatedAt:   time.Now(),
				UpdatedAt:   time.Now(),
			}

			if err := productRepo.Create(ctx, product); err != nil {
				t.Logf("FAIL: Failed to create product: %v", err)
				return false
			}

			retrieved, err := productRepo.FindByID(ctx, product.ID)
			if err != nil {
				t.Logf("FAIL: Failed to retrieve product: %v", err)
				return false
			}

			ok := retrieved.Name == product.Name &&
				retrieved.Description == product.Description &&
				retrieved.CategoryID == category.ID &&
				retrieved.Category == category.Name &&
				retrieved.ImageURL == product.ImageURL &&
				retrieved.Price >= product.Price-0.01 &&
				retrieved.Price <= product.Price+0.01

			_, _ = testDB.Exec("DELETE FROM categories WHERE id = $1", category.ID)
			return ok
		},
		gen.RegexMatch(`[A-Za-z0-9 ]{3,50}`),
		gen.RegexMatch(`[A-Za-z0-9 .,!?]{10,200}`),
		gen.Float64Range(0.01, 9999.99),
		gen.RegexMatch(`https?://[a-z0-9.-]+/[a-z0-9/._-]{1,50}`),
	))

	properties.TestingRun(t, gopter.ConsoleReporter(false))
}

func TestNewestProductListsFirst(t *testing.T) {
	productRepo := NewProductRepository(testDB)
	ctx := context.Background()

	category := createTestCategory(t, "Ordering Category "+uuid.New().String())
	defer testDB.Exec("DELETE FROM categories WHERE id = $1", category.ID)

	names := []string{"First", "Second", "Third"}
	for _, name := range names {
		product := &domain.Product{
			ID:         uuid.New(),
			Name:       name,
			CategoryID: category.ID,
			CreatedAt:  time.Now(),
			UpdatedAt:  time.Now(),
		}
		if err := productRepo.Create(ctx, product); err != nil {
			t.Fatalf("Failed to create product %s: %v", name, err)
		}
	}

	products, err := productRepo.ListByCategory(ctx, category.ID)
	if err != nil {
		t.Fatalf("Failed to list products: %v", err)
	}

	if len(products) != 3 {
		t.Fatalf("Expected 3 products, got %d", len(products))
	}

	// Creation prepends, so the list reads newest first
	expected := []string{"Third", "Second", "First"}
	for i, name := range expected {
		if products[i].Name != name {
			t.Errorf("Position %d: expected %s, got %s", i, name, products[i].Name)
		}
	}
}

func TestReplaceForCategoryOverwritesWholeList(t *testing.T) {
	productRepo := NewProductRepository(testDB)
	ctx := context.Background()

	category := createTestCategory(t, "Replace Category "+uuid.New().String())
	defer testDB.Exec("DELETE FROM categories WHERE id = $1", category.ID)

	initial := &domain.Product{
		ID:         uuid.New(),
		Name:       "Old Cake",
		CategoryID: category.ID,
		CreatedAt:  time.Now(),
		UpdatedAt:  time.Now(),
	}
	if err := productRepo.Create(ctx, initial); err != nil {
		t.Fatalf("Failed to create initial product: %v", err)
	}

	replacement := []*domain.Product{
		{ID: uuid.New(), Name: "New Cake A", Price: 10, CreatedAt: time.Now(), UpdatedAt: time.Now()},
		{ID: uuid.New(), Name: "New Cake B", Price: 20, CreatedAt: time.Now(), UpdatedAt: time.Now()},
	}

	if err := productRepo.ReplaceForCategory(ctx, category.ID, replacement); err != nil {
		t.Fatalf("Failed to replace products: %v", err)
	}

	products, err := productRepo.ListByCategory(ctx, category.ID)
	if err != nil {
		t.Fatalf("Failed to list products: %v", err)
	}

	if len(products) != 2 {
		t.Fatalf("Expected 2 products after replace, got %d", len(products))
	}

	if products[0].Name != "New Cake A" || products[1].Name != "New Cake B" {
		t.Errorf("Replace did not preserve list order: got %s, %s", products[0].Name, products[1].Name)
	}

	if _, err := productRepo.FindByID(ctx, initial.ID); err != ErrProductNotFound {
		t.Errorf("Old product should be gone after replace, got %v", err)
	}
}

func TestReplaceForCategoryKeepsSurvivorTimestamps(t *testing.T) {
	productRepo := NewProductRepository(testDB)
	ctx := context.Background()

	category := createTestCategory(t, "Timestamp Category "+uuid.New().String())
	defer testDB.Exec("DELETE FROM categories WHERE id = $1", category.ID)

	born := time.Now().Add(-48 * time.Hour).Truncate(time.Second)
	survivor := &domain.Product{
		ID:         uuid.New(),
		Name:       "Survivor Cake",
		CategoryID: category.ID,
		CreatedAt:  born,
		UpdatedAt:  born,
	}
	if err := productRepo.Create(ctx, survivor); err != nil {
		t.Fatalf("Failed to create product: %v", err)
	}

	// The editor sends rows without timestamps
	replacement := []*domain.Product{
		{ID: survivor.ID, Name: "Survivor Cake", Price: 12},
		{ID: uuid.New(), Name: "Fresh Cake", Price: 8},
	}
	if err := productRepo.ReplaceForCategory(ctx, category.ID, replacement); err != nil {
		t.Fatalf("Failed to replace products: %v", err)
	}

	kept, err := productRepo.FindByID(ctx, survivor.ID)
	if err != nil {
		t.Fatalf("Failed to retrieve surviving product: %v", err)
	}
	if !kept.CreatedAt.Equal(born) {
		t.Errorf("Surviving product lost its creation time: got %v, want %v", kept.CreatedAt, born)
	}
	if !kept.UpdatedAt.After(born) {
		t.Errorf("Surviving product should carry a fresh update time, got %v", kept.UpdatedAt)
	}

	products, err := productRepo.ListByCategory(ctx, category.ID)
	if err != nil {
		t.Fatalf("Failed to list products: %v", err)
	}
	for _, p := range products {
		if p.CreatedAt.IsZero() || p.CreatedAt.Year() < 2000 {
			t.Errorf("Product %q has a bogus creation time %v", p.Name, p.CreatedAt)
		}
	}
}
