package catalog_test

import (
	"context"
	"sync"
	"testing"

	domain "accounts-service/internal/domain/catalog"
	xerrors "accounts-service/internal/pkg/errors"
	"accounts-service/internal/service/catalog"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

type fakeCategoryRepo struct {
	mu     sync.Mutex
	nextID int64
	rows   map[int64]*domain.Category
}

func newFakeCategoryRepo() *fakeCategoryRepo {
	return &fakeCategoryRepo{rows: make(map[int64]*domain.Category)}
}

func (f *fakeCategoryRepo) Create(_ context.Context, c *domain.Category) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, existing := range f.rows {
		if existing.Name == c.Name {
			return xerrors.ErrConflict
		}
	}
	f.nextID++
	c.ID = f.nextID
	copied := *c
	f.rows[c.ID] = &copied
	return nil
}

func (f *fakeCategoryRepo) List(_ context.Context) ([]*domain.Category, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []*domain.Category
	for _, c := range f.rows {
		copied := *c
		out = append(out, &copied)
	}
	return out, nil
}

func (f *fakeCategoryRepo) FindByID(_ context.Context, id int64) (*domain.Category, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	c, ok := f.rows[id]
	if !ok {
		return nil, xerrors.ErrNotFound
	}
	copied := *c
	return &copied, nil
}

func (f *fakeCategoryRepo) Delete(_ context.Context, id int64) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if _, ok := f.rows[id]; !ok {
		return xerrors.ErrNotFound
	}
	delete(f.rows, id)
	return nil
}

type fakeProductRepo struct {
	mu     sync.Mutex
	nextID int64
	rows   map[int64]*domain.Product
}

func newFakeProductRepo() *fakeProductRepo {
	return &fakeProductRepo{rows: make(map[int64]*domain.Product)}
}

func (f *fakeProductRepo) Create(_ context.Context, p *domain.Product) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.nextID++
	p.ID = f.nextID
	copied := *p
	f.rows[p.ID] = &copied
	return nil
}

func (f *fakeProductRepo) List(_ context.Context) ([]*domain.Product, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []*domain.Product
	for _, p := range f.rows {
		copied := *p
		out = append(out, &copied)
	}
	return out, nil
}

func (f *fakeProductRepo) FindByID(_ context.Context, id int64) (*domain.Product, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	p, ok := f.rows[id]
	if !ok {
		return nil, xerrors.ErrNotFound
	}
	copied := *p
	return &copied, nil
}

func (f *fakeProductRepo) Update(_ context.Context, p *domain.Product) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if _, ok := f.rows[p.ID]; !ok {
		return xerrors.ErrNotFound
	}
	copied := *p
	f.rows[p.ID] = &copied
	return nil
}

func (f *fakeProductRepo) Delete(_ context.Context, id int64) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if _, ok := f.rows[id]; !ok {
		return xerrors.ErrNotFound
	}
	delete(f.rows, id)
	return nil
}

func newService() (*catalog.CatalogService, *fakeCategoryRepo, *fakeProductRepo) {
	categories := newFakeCategoryRepo()
	products := newFakeProductRepo()
	return catalog.NewCatalogService(categories, products, zap.NewNop()), categories, products
}

func TestCreateCategory_DuplicateName(t *testing.T) {
	svc, _, _ := newService()
	ctx := context.Background()

	_, err := svc.CreateCategory(ctx, &domain.CreateCategoryRequest{Name: "books"})
	require.NoError(t, err)

	_, err = svc.CreateCategory(ctx, &domain.CreateCategoryRequest{Name: "books"})
	assert.ErrorIs(t, err, xerrors.ErrConflict)
}

func TestCreateProduct_UnknownCategory(t *testing.T) {
	svc, _, _ := newService()

	_, err := svc.CreateProduct(context.Background(), &domain.CreateProductRequest{
		Name:       "widget",
		Price:      9.99,
		CategoryID: 42,
	}, 1)

	assert.ErrorIs(t, err, xerrors.ErrInvalidInput)
}

func TestCreateProduct_RecordsCreator(t *testing.T) {
	svc, _, _ := newService()
	ctx := context.Background()

	c, err := svc.CreateCategory(ctx, &domain.CreateCategoryRequest{Name: "books"})
	require.NoError(t, err)

	p, err := svc.CreateProduct(ctx, &domain.CreateProductRequest{
		Name:       "novel",
		Price:      12.50,
		CategoryID: c.ID,
	}, 7)
	require.NoError(t, err)

	assert.Equal(t, int64(7), p.CreatedBy)
	assert.Equal(t, c.ID, p.CategoryID)
}

func TestUpdateProduct_PartialFields(t *testing.T) {
	svc, _, _ := newService()
	ctx := context.Background()

	c, err := svc.CreateCategory(ctx, &domain.CreateCategoryRequest{Name: "books"})
	require.NoError(t, err)
	p, err := svc.CreateProduct(ctx, &domain.CreateProductRequest{
		Name:       "novel",
		Price:      12.50,
		CategoryID: c.ID,
	}, 1)
	require.NoError(t, err)

	updated, err := svc.UpdateProduct(ctx, p.ID, &domain.UpdateProductRequest{Price: 15})
	require.NoError(t, err)

	assert.Equal(t, "novel", updated.Name)
	assert.Equal(t, 15.0, updated.Price)
}

func TestUpdateProduct_UnknownID(t *testing.T) {
	svc, _, _ := newService()

	_, err := svc.UpdateProduct(context.Background(), 999, &domain.UpdateProductRequest{Price: 1})

	assert.ErrorIs(t, err, xerrors.ErrNotFound)
}

func TestDeleteProduct_UnknownID(t *testing.T) {
	svc, _, _ := newService()

	err := svc.DeleteProduct(context.Background(), 999)

	assert.ErrorIs(t, err, xerrors.ErrNotFound)
}
