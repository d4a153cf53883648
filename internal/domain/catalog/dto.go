// internal/domain/catalog/dto.go
package catalog

// CreateCategoryRequest is the payload for creating a category.
type CreateCategoryRequest struct {
	Name        string `json:"name" binding:"required"`
	Description string `json:"description"`
}

// CreateProductRequest is the payload for creating a product.
type CreateProductRequest struct {
	Name        string  `json:"name" binding:"required"`
	Description string  `json:"description"`
	Price       float64 `json:"price" binding:"required,gt=0"`
	CategoryID  int64   `json:"category_id" binding:"required"`
}

// UpdateProductRequest is the payload for updating a product. Zero-valued
// fields are left unchanged.
type UpdateProductRequest struct {
	Name        string  `json:"name"`
	Description string  `json:"description"`
	Price       float64 `json:"price"`
	CategoryID  int64   `json:"category_id"`
}
