package catalog

import (
	"context"

	"github.com/Tashika-Wijesooriya/GemXpert/internal/domain"
)

// Repository defines the interface for catalog data operations
type Repository interface {
	CreateProduct(ctx context.Context, p *domain.Product) error
	GetProduct(ctx context.Context, id string) (*domain.Product, error)
	ListProducts(ctx context.Context) ([]*domain.Product, error)
	CreateCategory(ctx context.Context, c *domain.Category) error
	GetCategoryByName(ctx context.Context, name string) (*domain.Category, error)
	ListCategories(ctx context.Context) ([]*domain.Category, error)
}
