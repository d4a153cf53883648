// internal/service/catalog/catalog.go
package catalog

import (
	"context"

	"accounts-service/internal/domain/catalog"
	xerrors "accounts-service/internal/pkg/errors"

	"go.uber.org/zap"
)

// CatalogService is thin pass-through CRUD over the category and product
// repositories. Listing is unpaginated by design.
type CatalogService struct {
	categories catalog.CategoryRepository
	products   catalog.ProductRepository
	logger     *zap.Logger
}

func NewCatalogService(
	categories catalog.CategoryRepository,
	products catalog.ProductRepository,
	logger *zap.Logger,
) *CatalogService {
	return &CatalogService{
		categories: categories,
		products:   products,
		logger:     logger,
	}
}

// ========== Categories ==========

func (s *CatalogService) CreateCategory(ctx context.Context, req *catalog.CreateCategoryRequest) (*catalog.Category, error) {
	c := &catalog.Category{
		Name:        req.Name,
		Description: req.Description,
	}

	if err := s.categories.Create(ctx, c); err != nil {
		return nil, err
	}

	s.logger.Info("category created", zap.Int64("id", c.ID), zap.String("name", c.Name))
	return c, nil
}

func (s *CatalogService) ListCategories(ctx context.Context) ([]*catalog.Category, error) {
	return s.categories.List(ctx)
}

func (s *CatalogService) GetCategory(ctx context.Context, id int64) (*catalog.Category, error) {
	return s.categories.FindByID(ctx, id)
}

func (s *CatalogService) DeleteCategory(ctx context.Context, id int64) error {
	return s.categories.Delete(ctx, id)
}

// ========== Products ==========

func (s *CatalogService) CreateProduct(ctx context.Context, req *catalog.CreateProductRequest, createdBy int64) (*catalog.Product, error) {
	if _, err := s.categories.FindByID(ctx, req.CategoryID); err != nil {
		if xerrors.Is(err, xerrors.ErrNotFound) {
			return nil, xerrors.Wrap(xerrors.ErrInvalidInput, "unknown category")
		}
		return nil, err
	}

	p := &catalog.Product{
		Name:        req.Name,
		Description: req.Description,
		Price:       req.Price,
		CategoryID:  req.CategoryID,
		CreatedBy:   createdBy,
	}

	if err := s.products.Create(ctx, p); err != nil {
		return nil, err
	}

	s.logger.Info("product created", zap.Int64("id", p.ID), zap.String("name", p.Name))
	return p, nil
}

func (s *CatalogService) ListProducts(ctx context.Context) ([]*catalog.Product, error) {
	return s.products.List(ctx)
}

func (s *CatalogService) GetProduct(ctx context.Context, id int64) (*catalog.Product, error) {
	return s.products.FindByID(ctx, id)
}

// UpdateProduct applies the non-zero fields of req to the stored product.
func (s *CatalogService) UpdateProduct(ctx context.Context, id int64, req *catalog.UpdateProductRequest) (*catalog.Product, error) {
	p, err := s.products.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if req.Name != "" {
		p.Name = req.Name
	}
	if req.Description != "" {
		p.Description = req.Description
	}
	if req.Price > 0 {
		p.Price = req.Price
	}
	if req.CategoryID > 0 {
		if _, err := s.categories.FindByID(ctx, req.CategoryID); err != nil {
			if xerrors.Is(err, xerrors.ErrNotFound) {
				return nil, xerrors.Wrap(xerrors.ErrInvalidInput, "unknown category")
			}
			return nil, err
		}
		p.CategoryID = req.CategoryID
	}

	if err := s.products.Update(ctx, p); err != nil {
		return nil, err
	}

	return p, nil
}

func (s *CatalogService) DeleteProduct(ctx context.Context, id int64) error {
	return s.products.Delete(ctx, id)
}
