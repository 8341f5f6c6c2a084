package service

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/dentalflow/lab-system/internal/core/domain"
	"github.com/dentalflow/lab-system/internal/core/ports"
)

type catalogService struct {
	catalog ports.CatalogRepository
	log     zerolog.Logger
}

// NewCatalogService returns a CatalogService implementation.
func NewCatalogService(catalog ports.CatalogRepository, log zerolog.Logger) ports.CatalogService {
	return &catalogService{catalog: catalog, log: log}
}

func (s *catalogService) ListProducts(ctx context.Context, caller ports.ActorContext) ([]*domain.Product, error) {
	if caller.Role == "" {
		return nil, fmt.Errorf("list products: %w", domain.ErrForbidden)
	}
	return s.catalog.ListProducts(ctx)
}

func (s *catalogService) CreateProduct(ctx context.Context, caller ports.ActorContext, name, category string, materials []string) (*domain.Product, error) {
	if !domain.CanAccess(domain.CapabilityAdmin, caller.Role) {
		return nil, fmt.Errorf("create product: %w", domain.ErrForbidden)
	}
	if name == "" {
		return nil, fmt.Errorf("create product: name is required: %w", domain.ErrValidation)
	}

	p := &domain.Product{
		ID:        uuid.NewString(),
		Name:      name,
		Category:  category,
		Materials: materials,
		Active:    true,
		CreatedAt: time.Now().UTC(),
	}
	if err := s.catalog.CreateProduct(ctx, p); err != nil {
		return nil, err
	}
	s.log.Info().Str("product_id", p.ID).Str("name", p.Name).Msg("product created")
	return p, nil
}

func (s *catalogService) ListColors(ctx context.Context, caller ports.ActorContext) ([]*domain.ShadeColor, error) {
	if caller.Role == "" {
		return nil, fmt.Errorf("list colors: %w", domain.ErrForbidden)
	}
	return s.catalog.ListColors(ctx)
}

func (s *catalogService) CreateColor(ctx context.Context, caller ports.ActorContext, code, scale string) (*domain.ShadeColor, error) {
	if !domain.CanAccess(domain.CapabilityAdmin, caller.Role) {
		return nil, fmt.Errorf("create color: %w", domain.ErrForbidden)
	}
	if code == "" {
		return nil, fmt.Errorf("create color: code is required: %w", domain.ErrValidation)
	}

	c := &domain.ShadeColor{
		ID:        uuid.NewString(),
		Code:      code,
		Scale:     scale,
		CreatedAt: time.Now().UTC(),
	}
	if err := s.catalog.CreateColor(ctx, c); err != nil {
		return nil, err
	}
	return c, nil
}
