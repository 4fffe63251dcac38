package catalog

import (
	"context"
	"sort"
	"strings"
	"sync"

	"github.com/Tashika-Wijesooriya/GemXpert/internal/domain"
)

// MemoryRepository implements Repository with in-memory storage
type MemoryRepository struct {
	mu         sync.RWMutex
	products   map[string]*domain.Product
	categories map[string]*domain.Category // lower-cased name -> category
}

func NewMemoryRepository() *MemoryRepository {
	return &MemoryRepository{
		products:   make(map[string]*domain.Product),
		categories: make(map[string]*domain.Category),
	}
}

func (r *MemoryRepository) CreateProduct(_ context.Context, p *domain.Product) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	cp := *p
	r.products[p.ID] = &cp
	return nil
}

func (r *MemoryRepository) GetProduct(_ context.Context, id string) (*domain.Product, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	p, ok := r.products[id]
	if !ok {
		return nil, domain.ErrProductNotFound
	}
	cp := *p
	return &cp, nil
}

func (r *MemoryRepository) ListProducts(_ context.Context) ([]*domain.Product, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]*domain.Product, 0, len(r.products))
	for _, p := range r.products {
		cp := *p
		out = append(out, &cp)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.After(out[j].CreatedAt) })
	return out, nil
}

func (r *MemoryRepository) CreateCategory(_ context.Context, c *domain.Category) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	key := strings.ToLower(c.Name)
	if _, exists := r.categories[key]; exists {
		return domain.ErrCategoryExists
	}
	cp := *c
	r.categories[key] = &cp
	return nil
}

func (r *MemoryRepository) GetCategoryByName(_ context.Context, name string) (*domain.Category, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	c, ok := r.categories[strings.ToLower(name)]
	if !ok {
		return nil, domain.ErrCategoryNotFound
	}
	cp := *c
	return &cp, nil
}

func (r *MemoryRepository) ListCategories(_ context.Context) ([]*domain.Category, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]*domain.Category, 0, len(r.categories))
	for _, c := range r.categories {
		cp := *c
		out = append(out, &cp)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out, nil
}
