// internal/domain/catalog/entity.go
package catalog

import (
	"context"
	"time"
)

// Category groups products. Names are unique.
type Category struct {
	ID          int64     `json:"id"`
	Name        string    `json:"name"`
	Description string    `json:"description,omitempty"`
	CreatedAt   time.Time `json:"created_at"`
}

// Product is a catalog entry owned by the user that created it.
type Product struct {
	ID          int64     `json:"id"`
	Name        string    `json:"name"`
	Description string    `json:"description,omitempty"`
	Price       float64   `json:"price"`
	CategoryID  int64     `json:"category_id"`
	CreatedBy   int64     `json:"created_by"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

// CategoryRepository is the persistence contract for categories.
type CategoryRepository interface {
	Create(ctx context.Context, c *Category) error
	List(ctx context.Context) ([]*Category, error)
	FindByID(ctx context.Context, id int64) (*Category, error)
	Delete(ctx context.Context, id int64) error
}

// ProductRepository is the persistence contract for products.
type ProductRepository interface {
	Create(ctx context.Context, p *Product) error
	List(ctx context.Context) ([]*Product, error)
	FindByID(ctx context.Context, id int64) (*Product, error)
	Update(ctx context.Context, p *Product) error
	Delete(ctx context.Context, id int64) error
}
