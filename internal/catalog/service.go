// Package catalog manages products and categories.
package catalog

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/Tashika-Wijesooriya/GemXpert/internal/domain"
	"github.com/Tashika-Wijesooriya/GemXpert/internal/validation"
	validatorv10 "github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// ProductInput is the admin product form.
type ProductInput struct {
	Name         string          `json:"name" validate:"required"`
	Description  string          `json:"description" validate:"required"`
	Brand        string          `json:"brand" validate:"required"`
	Category     string          `json:"category" validate:"required"`
	Price        decimal.Decimal `json:"price"`
	Quantity     int             `json:"quantity" validate:"gt=0"`
	CountInStock int             `json:"countInStock" validate:"gte=0"`
	ImageURL     string          `json:"imageUrl" validate:"omitempty,url"`
}

func (in ProductInput) normalize() ProductInput {
	in.Name = strings.TrimSpace(in.Name)
	in.Description = strings.TrimSpace(in.Description)
	in.Brand = strings.TrimSpace(in.Brand)
	in.Category = strings.TrimSpace(in.Category)
	in.ImageURL = strings.TrimSpace(in.ImageURL)
	return in
}

func productInputValidation(sl validatorv10.StructLevel) {
	in := sl.Current().Interface().(ProductInput)
	if !in.Price.IsPositive() {
		sl.ReportError(in.Price, "price", "Price", "gt", "0")
	}
}

type Service struct {
	repo     Repository
	validate *validatorv10.Validate
	now      func() time.Time
}

func NewService(repo Repository) *Service {
	v := validation.New()
	v.RegisterStructValidation(productInputValidation, ProductInput{})
	return &Service{
		repo:     repo,
		validate: v,
		now:      func() time.Time { return time.Now().UTC() },
	}
}

func (s *Service) CreateProduct(ctx context.Context, in ProductInput) (*domain.Product, error) {
	in = in.normalize()
	if err := validation.Struct(s.validate, in); err != nil {
		return nil, err
	}

	category, err := s.repo.GetCategoryByName(ctx, in.Category)
	if errors.Is(err, domain.ErrCategoryNotFound) {
		return nil, domain.NewValidationError(map[string]string{"category": "category not found"})
	}
	if err != nil {
		return nil, err
	}

	p := &domain.Product{
		ID:           uuid.NewString(),
		Name:         in.Name,
		Description:  in.Description,
		Brand:        in.Brand,
		Category:     category.Name,
		Price:        domain.MoneyFromDecimal(in.Price),
		Quantity:     in.Quantity,
		CountInStock: in.CountInStock,
		ImageURL:     in.ImageURL,
		CreatedAt:    s.now(),
	}
	if err := s.repo.CreateProduct(ctx, p); err != nil {
		return nil, err
	}
	return p, nil
}

func (s *Service) GetProduct(ctx context.Context, id string) (*domain.Product, error) {
	return s.repo.GetProduct(ctx, id)
}

func (s *Service) ListProducts(ctx context.Context) ([]*domain.Product, error) {
	return s.repo.ListProducts(ctx)
}

func (s *Service) CreateCategory(ctx context.Context, name string) (*domain.Category, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, domain.NewValidationError(map[string]string{"name": "name required"})
	}

	c := &domain.Category{ID: uuid.NewString(), Name: name, CreatedAt: s.now()}
	if err := s.repo.CreateCategory(ctx, c); err != nil {
		return nil, err
	}
	return c, nil
}

func (s *Service) ListCategories(ctx context.Context) ([]*domain.Category, error) {
	return s.repo.ListCategories(ctx)
}
