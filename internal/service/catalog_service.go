package service

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"sync"
	"time"

	"rabelani-cakes/internal/config"
	"rabelani-cakes/internal/domain"
	"rabelani-cakes/internal/notify"
	"rabelani-cakes/internal/repository"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

const mirrorKeyPrefix = "catalog:products:"

// CatalogService defines the interface for catalog business logic.
//
// Writes come in two flavours. Creating or deleting a product persists
// immediately. Edits to product fields arrive as full-list overwrites on
// every change, so SaveProducts coalesces them per category and only
// persists after a quiet period; Flush forces everything pending to disk.
type CatalogService interface {
	ListCategories(ctx context.Context) ([]*domain.Category, error)
	GetCategory(ctx context.Context, slug string) (*domain.Category, error)
	ProductsBySlug(ctx context.Context, slug string) ([]*domain.Product, error)
	CreateProduct(ctx context.Context, slug string, product *domain.Product) (*domain.Product, error)
	DeleteProduct(ctx context.Context, productID uuid.UUID) error
	SaveProducts(ctx context.Context, slug string, products []*domain.Product) error
	UpdateCover(ctx context.Context, slug, coverImageURL string) error
	Flush()
}

type pendingSave struct {
	timer      *time.Timer
	categoryID uuid.UUID
	products   []*domain.Product
}

type catalogService struct {
	categoryRepo repository.CategoryRepository
	productRepo  repository.ProductRepository
	redisClient  *redis.Client
	notifier     *notify.Notifier
	cfg          config.CatalogConfig
	logger       *zap.Logger

	mu      sync.Mutex
	pending map[string]*pendingSave
}

// NewCatalogService creates a new instance of CatalogService. The Redis
// client may be nil, in which case the mirror is disabled and every read
// goes straight to the database.
func NewCatalogService(
	categoryRepo repository.CategoryRepository,
	productRepo repository.ProductRepository,
	redisClient *redis.Client,
	notifier *notify.Notifier,
	cfg config.CatalogConfig,
	logger *zap.Logger,
) CatalogService {
	return &catalogService{
		categoryRepo: categoryRepo,
		productRepo:  productRepo,
		redisClient:  redisClient,
		notifier:     notifier,
		cfg:          cfg,
		logger:       logger,
		pending:      make(map[string]*pendingSave),
	}
}

// ListCategories returns all categories in display order
func (s *catalogService) ListCategories(ctx context.Context) ([]*domain.Category, error) {
	categories, err := s.categoryRepo.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list categories: %w", err)
	}
	return categories, nil
}

// GetCategory looks a category up by its slug
func (s *catalogService) GetCategory(ctx context.Context, slug string) (*domain.Category, error) {
	category, err := s.categoryRepo.FindBySlug(ctx, slug)
	if err != nil {
		if err == repository.ErrCategoryNotFound {
			return nil, repository.ErrCategoryNotFound
		}
		return nil, fmt.Errorf("failed to find category: %w", err)
	}
	return category, nil
}

// ProductsBySlug returns a category's products newest first, reading
// through the Redis mirror when one is available.
func (s *catalogService) ProductsBySlug(ctx context.Context, slug string) ([]*domain.Product, error) {
	if products, ok := s.mirrorGet(ctx, slug); ok {
		return products, nil
	}

	category, err := s.GetCategory(ctx, slug)
	if err != nil {
		return nil, err
	}

	products, err := s.productRepo.ListByCategory(ctx, category.ID)
	if err != nil {
		return nil, fmt.Errorf("failed to list products: %w", err)
	}

	s.mirrorSet(ctx, slug, products)
	return products, nil
}

// CreateProduct inserts a product at the front of a category's list. The
// write is immediate, not debounced.
func (s *catalogService) CreateProduct(ctx context.Context, slug string, product *domain.Product) (*domain.Product, error) {
	category, err := s.GetCategory(ctx, slug)
	if err != nil {
		return nil, err
	}

	product.ID = uuid.New()
	product.CategoryID = category.ID
	product.Category = category.Name
	product.CreatedAt = time.Now()
	product.UpdatedAt = time.Now()

	if err := s.productRepo.Create(ctx, product); err != nil {
		return nil, fmt.Errorf("failed to create product: %w", err)
	}

	s.mirrorInvalidate(ctx, slug)
	s.notifier.Publish(fmt.Sprintf("Added %q to %s", product.Name, category.Name), "success")
	return product, nil
}

// DeleteProduct removes a product immediately and drops any pending
// debounced overwrite for its category, which would otherwise resurrect
// the product when it fires.
func (s *catalogService) DeleteProduct(ctx context.Context, productID uuid.UUID) error {
	product, err := s.productRepo.FindByID(ctx, productID)
	if err != nil {
		if err == repository.ErrProductNotFound {
			return repository.ErrProductNotFound
		}
		return fmt.Errorf("failed to find product: %w", err)
	}

	slug := domain.Slugify(product.Category)
	s.cancelPending(slug)

	if err := s.productRepo.Delete(ctx, productID); err != nil {
		if err == repository.ErrProductNotFound {
			return repository.ErrProductNotFound
		}
		return fmt.Errorf("failed to delete product: %w", err)
	}

	s.mirrorInvalidate(ctx, slug)
	s.notifier.Publish(fmt.Sprintf("Removed %q from %s", product.Name, product.Category), "info")
	return nil
}

// SaveProducts schedules a full-list overwrite of a category. Successive
// calls for the same category within the debounce window supersede each
// other; only the last list is persisted once editing pauses.
func (s *catalogService) SaveProducts(ctx context.Context, slug string, products []*domain.Product) error {
	category, err := s.GetCategory(ctx, slug)
	if err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if p, ok := s.pending[slug]; ok {
		p.timer.Stop()
	}

	p := &pendingSave{
		categoryID: category.ID,
		products:   products,
	}
	p.timer = time.AfterFunc(s.cfg.DebounceWindow, func() {
		s.persist(slug)
	})
	s.pending[slug] = p

	return nil
}

// UpdateCover changes a category's cover image
func (s *catalogService) UpdateCover(ctx context.Context, slug, coverImageURL string) error {
	if err := s.categoryRepo.UpdateCover(ctx, slug, coverImageURL); err != nil {
		if err == repository.ErrCategoryNotFound {
			return repository.ErrCategoryNotFound
		}
		return fmt.Errorf("failed to update cover: %w", err)
	}

	s.notifier.Publish(fmt.Sprintf("Updated the %s cover image", slug), "success")
	return nil
}

// Flush persists every pending overwrite immediately. Called on shutdown
// so edits made just before the process stops are not lost.
func (s *catalogService) Flush() {
	s.mu.Lock()
	slugs := make([]string, 0, len(s.pending))
	for slug, p := range s.pending {
		p.timer.Stop()
		slugs = append(slugs, slug)
	}
	s.mu.Unlock()

	for _, slug := range slugs {
		s.persist(slug)
	}
}

func (s *catalogService) cancelPending(slug string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if p, ok := s.pending[slug]; ok {
		p.timer.Stop()
		delete(s.pending, slug)
	}
}

// persist writes one pending overwrite to the database. Runs off a timer,
// so it carries its own context.
func (s *catalogService) persist(slug string) {
	s.mu.Lock()
	p, ok := s.pending[slug]
	if ok {
		delete(s.pending, slug)
	}
	s.mu.Unlock()
	if !ok {
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := s.productRepo.ReplaceForCategory(ctx, p.categoryID, p.products); err != nil {
		s.logger.Error("Failed to persist catalog edits",
			zap.String("category", slug),
			zap.Error(err))
		s.notifier.Publish(fmt.Sprintf("Saving %s failed, please retry", slug), "error")
		return
	}

	s.mirrorInvalidate(ctx, slug)
	s.notifier.Publish(fmt.Sprintf("Saved changes to %s", slug), "success")
}

func (s *catalogService) mirrorGet(ctx context.Context, slug string) ([]*domain.Product, bool) {
	if s.redisClient == nil {
		return nil, false
	}

	payload, err := s.redisClient.Get(ctx, mirrorKeyPrefix+slug).Bytes()
	if err != nil {
		if err != redis.Nil {
			s.logger.Debug("Catalog mirror read failed", zap.String("category", slug), zap.Error(err))
		}
		return nil, false
	}

	var products []*domain.Product
	if err := json.Unmarshal(payload, &products); err != nil {
		s.logger.Warn("Catalog mirror entry is corrupt, dropping it",
			zap.String("category", slug),
			zap.Error(err))
		s.mirrorInvalidate(ctx, slug)
		return nil, false
	}

	return products, true
}

// mirrorSet writes a product list into the mirror. Entries carrying inline
// data URIs or exceeding the size cap are skipped; the mirror is a cache,
// not a blob store.
func (s *catalogService) mirrorSet(ctx context.Context, slug string, products []*domain.Product) {
	if s.redisClient == nil {
		return
	}

	for _, product := range products {
		if strings.HasPrefix(product.ImageURL, "data:") {
			s.logger.Debug("Skipping catalog mirror write, inline image data",
				zap.String("category", slug))
			return
		}
	}

	payload, err := json.Marshal(products)
	if err != nil {
		return
	}
	if len(payload) > s.cfg.MirrorMaxBytes {
		s.logger.Debug("Skipping catalog mirror write, payload too large",
			zap.String("category", slug),
			zap.Int("bytes", len(payload)))
		return
	}

	if err := s.redisClient.Set(ctx, mirrorKeyPrefix+slug, payload, s.cfg.MirrorTTL).Err(); err != nil {
		s.logger.Debug("Catalog mirror write failed", zap.String("category", slug), zap.Error(err))
	}
}

func (s *catalogService) mirrorInvalidate(ctx context.Context, slug string) {
	if s.redisClient == nil {
		return
	}
	if err := s.redisClient.Del(ctx, mirrorKeyPrefix+slug).Err(); err != nil {
		s.logger.Debug("Catalog mirror invalidation failed", zap.String("category", slug), zap.Error(err))
	}
}
