// internal/handlers/catalog/catalog_handler.go
package catalog

import (
	"net/http"
	"strconv"

	domain "accounts-service/internal/domain/catalog"
	"accounts-service/internal/middleware"
	xerrors "accounts-service/internal/pkg/errors"
	"accounts-service/internal/pkg/response"
	catalogUsecase "accounts-service/internal/service/catalog"

	"github.com/gin-gonic/gin"
)

type CatalogHandler struct {
	catalogService *catalogUsecase.CatalogService
}

func NewCatalogHandler(catalogService *catalogUsecase.CatalogService) *CatalogHandler {
	return &CatalogHandler{catalogService: catalogService}
}

func statusFor(err error) int {
	switch {
	case xerrors.Is(err, xerrors.ErrNotFound):
		return http.StatusNotFound
	case xerrors.Is(err, xerrors.ErrConflict), xerrors.Is(err, xerrors.ErrInvalidInput):
		return http.StatusBadRequest
	default:
		return http.StatusInternalServerError
	}
}

func idParam(c *gin.Context) (int64, bool) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil || id <= 0 {
		response.ValidationError(c, "invalid id", err)
		return 0, false
	}
	return id, true
}

// ========== Categories ==========

func (h *CatalogHandler) CreateCategory(c *gin.Context) {
	var req domain.CreateCategoryRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.ValidationError(c, "invalid request", err)
		return
	}

	category, err := h.catalogService.CreateCategory(c.Request.Context(), &req)
	if err != nil {
		response.Error(c, statusFor(err), "failed to create category", err)
		return
	}

	response.Success(c, http.StatusCreated, "category created", category)
}

func (h *CatalogHandler) ListCategories(c *gin.Context) {
	categories, err := h.catalogService.ListCategories(c.Request.Context())
	if err != nil {
		response.Error(c, http.StatusInternalServerError, "failed to list categories", err)
		return
	}

	response.Success(c, http.StatusOK, "categories retrieved", categories)
}

func (h *CatalogHandler) GetCategory(c *gin.Context) {
	id, ok := idParam(c)
	if !ok {
		return
	}

	category, err := h.catalogService.GetCategory(c.Request.Context(), id)
	if err != nil {
		response.Error(c, statusFor(err), "failed to get category", err)
		return
	}

	response.Success(c, http.StatusOK, "category retrieved", category)
}

func (h *CatalogHandler) DeleteCategory(c *gin.Context) {
	id, ok := idParam(c)
	if !ok {
		return
	}

	if err := h.catalogService.DeleteCategory(c.Request.Context(), id); err != nil {
		response.Error(c, statusFor(err), "failed to delete category", err)
		return
	}

	response.Success(c, http.StatusOK, "category deleted", nil)
}

// ========== Products ==========

func (h *CatalogHandler) CreateProduct(c *gin.Context) {
	var req domain.CreateProductRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.ValidationError(c, "invalid request", err)
		return
	}

	product, err := h.catalogService.CreateProduct(c.Request.Context(), &req, middleware.MustGetUserID(c))
	if err != nil {
		response.Error(c, statusFor(err), "failed to create product", err)
		return
	}

	response.Success(c, http.StatusCreated, "product created", product)
}

func (h *CatalogHandler) ListProducts(c *gin.Context) {
	products, err := h.catalogService.ListProducts(c.Request.Context())
	if err != nil {
		response.Error(c, http.StatusInternalServerError, "failed to list products", err)
		return
	}

	response.Success(c, http.StatusOK, "products retrieved", products)
}

func (h *CatalogHandler) GetProduct(c *gin.Context) {
	id, ok := idParam(c)
	if !ok {
		return
	}

	product, err := h.catalogService.GetProduct(c.Request.Context(), id)
	if err != nil {
		response.Error(c, statusFor(err), "failed to get product", err)
		return
	}

	response.Success(c, http.StatusOK, "product retrieved", product)
}

func (h *CatalogHandler) UpdateProduct(c *gin.Context) {
	id, ok := idParam(c)
	if !ok {
		return
	}

	var req domain.UpdateProductRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.ValidationError(c, "invalid request", err)
		return
	}

	product, err := h.catalogService.UpdateProduct(c.Request.Context(), id, &req)
	if err != nil {
		response.Error(c, statusFor(err), "failed to update product", err)
		return
	}

	response.Success(c, http.StatusOK, "product updated", product)
}

func (h *CatalogHandler) DeleteProduct(c *gin.Context) {
	id, ok := idParam(c)
	if !ok {
		return
	}

	if err := h.catalogService.DeleteProduct(c.Request.Context(), id); err != nil {
		response.Error(c, statusFor(err), "failed to delete product", err)
		return
	}

	response.Success(c, http.StatusOK, "product deleted", nil)
}
