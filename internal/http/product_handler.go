package http

import (
	"context"
	"net/http"
	"time"

	"github.com/Tashika-Wijesooriya/GemXpert/internal/catalog"
	"github.com/Tashika-Wijesooriya/GemXpert/internal/domain"
	"github.com/go-chi/chi/v5"
)

type CatalogService interface {
	CreateProduct(ctx context.Context, in catalog.ProductInput) (*domain.Product, error)
	GetProduct(ctx context.Context, id string) (*domain.Product, error)
	ListProducts(ctx context.Context) ([]*domain.Product, error)
	CreateCategory(ctx context.Context, name string) (*domain.Category, error)
	ListCategories(ctx context.Context) ([]*domain.Category, error)
}

type ProductHandler struct {
	catalog CatalogService
	timeout time.Duration
}

func NewProductHandler(svc CatalogService, timeout time.Duration) *ProductHandler {
	return &ProductHandler{
		catalog: svc,
		timeout: timeout,
	}
}

type CategoryRequestDTO struct {
	Name string `json:"name"`
}

// GET /api/v1/products
func (h *ProductHandler) ListProducts(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), h.timeout)
	defer cancel()

	products, err := h.catalog.ListProducts(ctx)
	if err != nil {
		handleServiceError(r.Context(), w, err)
		return
	}
	if products == nil {
		products = make([]*domain.Product, 0)
	}
	respondJSON(w, http.StatusOK, products)
}

// GET /api/v1/products/{id}
func (h *ProductHandler) GetProduct(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), h.timeout)
	defer cancel()

	product, err := h.catalog.GetProduct(ctx, chi.URLParam(r, "id"))
	if err != nil {
		handleServiceError(r.Context(), w, err)
		return
	}
	respondJSON(w, http.StatusOK, product)
}

// POST /api/v1/products  (admin)
func (h *ProductHandler) CreateProduct(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), h.timeout)
	defer cancel()

	var in catalog.ProductInput
	if !decodeJSON(w, r, &in) {
		return
	}
	product, err := h.catalog.CreateProduct(ctx, in)
	if err != nil {
		handleServiceError(r.Context(), w, err)
		return
	}
	respondJSON(w, http.StatusCreated, product)
}

// GET /api/v1/categories
func (h *ProductHandler) ListCategories(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), h.timeout)
	defer cancel()

	categories, err := h.catalog.ListCategories(ctx)
	if err != nil {
		handleServiceError(r.Context(), w, err)
		return
	}
	if categories == nil {
		categories = make([]*domain.Category, 0)
	}
	respondJSON(w, http.StatusOK, categories)
}

// POST /api/v1/categories  (admin)
func (h *ProductHandler) CreateCategory(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), h.timeout)
	defer cancel()

	var req CategoryRequestDTO
	if !decodeJSON(w, r, &req) {
		return
	}
	category, err := h.catalog.CreateCategory(ctx, req.Name)
	if err != nil {
		handleServiceError(r.Context(), w, err)
		return
	}
	respondJSON(w, http.StatusCreated, category)
}
