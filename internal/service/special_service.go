package service

import (
	"context"
	"fmt"
	"time"

	"rabelani-cakes/internal/domain"
	"rabelani-cakes/internal/repository"
)

// SpecialService defines the interface for the featured special
type SpecialService interface {
	Get(ctx context.Context) (*domain.FeaturedSpecial, error)
	Update(ctx context.Context, special *domain.FeaturedSpecial) (*domain.FeaturedSpecial, error)
}

type specialService struct {
	specialRepo repository.SpecialRepository
}

// NewSpecialService creates a new instance of SpecialService
func NewSpecialService(specialRepo repository.SpecialRepository) SpecialService {
	return &specialService{specialRepo: specialRepo}
}

// Get returns the featured special. When nothing has been stored, or the
// stored record leaves fields blank, the house defaults fill the gaps so
// the homepage banner is never empty.
func (s *specialService) Get(ctx context.Context) (*domain.FeaturedSpecial, error) {
	stored, err := s.specialRepo.Find(ctx, domain.FeaturedSpecialKey)
	if err != nil {
		if err == repository.ErrSpecialNotFound {
			return domain.DefaultFeaturedSpecial(), nil
		}
		return nil, fmt.Errorf("failed to load featured special: %w", err)
	}

	return mergeSpecialDefaults(stored), nil
}

// Update overwrites the featured special
func (s *specialService) Update(ctx context.Context, special *domain.FeaturedSpecial) (*domain.FeaturedSpecial, error) {
	special.Key = domain.FeaturedSpecialKey
	special.UpdatedAt = time.Now()

	if err := s.specialRepo.Upsert(ctx, special); err != nil {
		return nil, fmt.Errorf("failed to store featured special: %w", err)
	}

	return mergeSpecialDefaults(special), nil
}

func mergeSpecialDefaults(stored *domain.FeaturedSpecial) *domain.FeaturedSpecial {
	defaults := domain.DefaultFeaturedSpecial()

	merged := *stored
	if merged.TitleLine1 == "" {
		merged.TitleLine1 = defaults.TitleLine1
	}
	if merged.TitleLine2 == "" {
		merged.TitleLine2 = defaults.TitleLine2
	}
	if merged.Description == "" {
		merged.Description = defaults.Description
	}
	if merged.OriginalPrice == 0 {
		merged.OriginalPrice = defaults.OriginalPrice
	}
	if merged.SalePrice == 0 {
		merged.SalePrice = defaults.SalePrice
	}
	if merged.ImageURL == "" {
		merged.ImageURL = defaults.ImageURL
	}
	return &merged
}
