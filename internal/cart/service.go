// Package cart persists checkout sessions: the per-user cart plus the
// checkout progress saved between steps.
package cart

import (
	"context"
	"errors"
	"time"

	"github.com/Tashika-Wijesooriya/GemXpert/internal/domain"
	"github.com/Tashika-Wijesooriya/GemXpert/internal/logger"
	"golang.org/x/sync/singleflight"
)

// ProductLookup resolves catalog products so cart lines are priced by the server.
type ProductLookup interface {
	GetProduct(ctx context.Context, id string) (*domain.Product, error)
}

type Service struct {
	repo     SessionRepository
	cache    SessionCache
	products ProductLookup
	sfg      singleflight.Group // Prevents cache stampede
}

func NewService(repo SessionRepository, cache SessionCache, products ProductLookup) *Service {
	return &Service{
		repo:     repo,
		cache:    cache,
		products: products,
	}
}

// Load returns the user's session, or a fresh empty one. Every caller gets
// its own copy.
func (s *Service) Load(ctx context.Context, userID string) (*domain.CheckoutSession, error) {
	v, err, _ := s.sfg.Do(userID, func() (interface{}, error) {
		session, err := s.cache.Get(ctx, userID)
		if err == nil {
			return session, nil
		}
		if !errors.Is(err, ErrCacheMiss) {
			logger.Errorf(ctx, "cache get error: %v", err)
		}

		session, err = s.repo.GetSession(ctx, userID)
		if errors.Is(err, ErrSessionNotFound) {
			return domain.NewCheckoutSession(userID), nil
		}
		if err != nil {
			return nil, err
		}

		// Populated before returning so a later Save cannot be overtaken by a stale write.
		setCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), time.Second)
		defer cancel()
		if errSet := s.cache.Set(setCtx, userID, session); errSet != nil {
			logger.Errorf(ctx, "cache set error: %v", errSet)
		}

		return session, nil
	})
	if err != nil {
		return nil, err
	}
	return clone(v.(*domain.CheckoutSession)), nil
}

// Save persists the session and drops the cached copy.
func (s *Service) Save(ctx context.Context, session *domain.CheckoutSession) error {
	if err := s.repo.UpsertSession(ctx, session); err != nil {
		logger.Errorf(ctx, "repo upsert session error: %v", err)
		return err
	}
	s.invalidateCache(ctx, session.UserID)
	return nil
}

func (s *Service) AddItem(ctx context.Context, userID, productID string, quantity int) (*domain.CheckoutSession, error) {
	if quantity < 1 {
		return nil, domain.ErrInvalidQuantity
	}
	product, err := s.products.GetProduct(ctx, productID)
	if err != nil {
		return nil, err
	}
	if quantity > product.CountInStock {
		return nil, domain.ErrInsufficientStock
	}

	session, err := s.Load(ctx, userID)
	if err != nil {
		return nil, err
	}
	if err := session.AddOrUpdate(product.CartItem(), quantity); err != nil {
		return nil, err
	}
	return s.save(ctx, session)
}

// UpdateQuantity sets the quantity of a line already in the cart. Values
// below one are clamped to one.
func (s *Service) UpdateQuantity(ctx context.Context, userID, productID string, quantity int) (*domain.CheckoutSession, error) {
	session, err := s.Load(ctx, userID)
	if err != nil {
		return nil, err
	}
	if _, ok := session.Cart.Find(productID); !ok {
		return nil, domain.ErrItemNotInCart
	}

	product, err := s.products.GetProduct(ctx, productID)
	if err != nil {
		return nil, err
	}
	if quantity > product.CountInStock {
		return nil, domain.ErrInsufficientStock
	}

	if err := session.Cart.SetQuantity(productID, quantity); err != nil {
		return nil, err
	}
	return s.save(ctx, session)
}

func (s *Service) RemoveItem(ctx context.Context, userID, productID string) (*domain.CheckoutSession, error) {
	session, err := s.Load(ctx, userID)
	if err != nil {
		return nil, err
	}
	session.Cart.Remove(productID)
	return s.save(ctx, session)
}

// Clear empties the cart but keeps the saved shipping details.
func (s *Service) Clear(ctx context.Context, userID string) (*domain.CheckoutSession, error) {
	session, err := s.Load(ctx, userID)
	if err != nil {
		return nil, err
	}
	session.Cart.Clear()
	return s.save(ctx, session)
}

func (s *Service) save(ctx context.Context, session *domain.CheckoutSession) (*domain.CheckoutSession, error) {
	session.Guard()
	if err := s.Save(ctx, session); err != nil {
		return nil, err
	}
	return session, nil
}

func (s *Service) invalidateCache(ctx context.Context, userID string) {
	delCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), time.Second)
	defer cancel()
	if err := s.cache.Delete(delCtx, userID); err != nil {
		logger.Errorf(ctx, "cache invalidate error: %v", err)
	}
}

func clone(s *domain.CheckoutSession) *domain.CheckoutSession {
	c := *s
	c.Cart.Items = s.Cart.Snapshot()
	if s.ShippingAddress != nil {
		addr := *s.ShippingAddress
		c.ShippingAddress = &addr
	}
	return &c
}
