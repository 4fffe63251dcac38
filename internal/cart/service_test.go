package cart

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"testing"

	"github.com/Tashika-Wijesooriya/GemXpert/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type countingRepository struct {
	*MemoryRepository
	gets atomic.Int32
	err  error
}

func (r *countingRepository) GetSession(ctx context.Context, userID string) (*domain.CheckoutSession, error) {
	r.gets.Add(1)
	if r.err != nil {
		return nil, r.err
	}
	return r.MemoryRepository.GetSession(ctx, userID)
}

type fakeCache struct {
	mu      sync.Mutex
	entries map[string]*domain.CheckoutSession
	deletes int
}

func newFakeCache() *fakeCache {
	return &fakeCache{entries: make(map[string]*domain.CheckoutSession)}
}

func (c *fakeCache) Get(_ context.Context, userID string) (*domain.CheckoutSession, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	s, ok := c.entries[userID]
	if !ok {
		return nil, ErrCacheMiss
	}
	return clone(s), nil
}

func (c *fakeCache) Set(_ context.Context, userID string, s *domain.CheckoutSession) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.entries[userID] = clone(s)
	return nil
}

func (c *fakeCache) Delete(_ context.Context, userID string) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	delete(c.entries, userID)
	c.deletes++
	return nil
}

type fakeProducts map[string]*domain.Product

func (f fakeProducts) GetProduct(_ context.Context, id string) (*domain.Product, error) {
	p, ok := f[id]
	if !ok {
		return nil, domain.ErrProductNotFound
	}
	return p, nil
}

func catalogFixture() fakeProducts {
	return fakeProducts{
		"ruby":  {ID: "ruby", Name: "Ruby ring", Price: 1355900, CountInStock: 2},
		"pearl": {ID: "pearl", Name: "Pearl pendant", Price: 314500, CountInStock: 10},
		"topaz": {ID: "topaz", Name: "Topaz studs", Price: 4500, CountInStock: 0},
	}
}

func setupService(t *testing.T) (*Service, *countingRepository, *fakeCache) {
	t.Helper()
	repo := &countingRepository{MemoryRepository: NewMemoryRepository()}
	cache := newFakeCache()
	return NewService(repo, cache, catalogFixture()), repo, cache
}

func TestService_Load_NewUserGetsEmptyCart(t *testing.T) {
	svc, _, _ := setupService(t)

	s, err := svc.Load(context.Background(), "u1")
	require.NoError(t, err)

	assert.Equal(t, "u1", s.UserID)
	assert.True(t, s.Cart.IsEmpty())
	assert.Equal(t, domain.StepCart, s.Step)
}

func TestService_Load_RepositoryError(t *testing.T) {
	svc, repo, _ := setupService(t)
	repo.err = errors.New("mongo down")

	_, err := svc.Load(context.Background(), "u1")
	assert.ErrorContains(t, err, "mongo down")
}

func TestService_AddItem_PricesFromCatalog(t *testing.T) {
	svc, _, _ := setupService(t)
	ctx := context.Background()

	_, err := svc.AddItem(ctx, "u1", "ruby", 1)
	require.NoError(t, err)
	s, err := svc.AddItem(ctx, "u1", "pearl", 1)
	require.NoError(t, err)

	assert.Equal(t, domain.Money(1670400), s.Cart.TotalAmount())

	reloaded, err := svc.Load(ctx, "u1")
	require.NoError(t, err)
	assert.Equal(t, domain.Money(1670400), reloaded.Cart.TotalAmount())
	assert.Equal(t, "Ruby ring", reloaded.Cart.Items[0].Name)
}

func TestService_AddItem_Errors(t *testing.T) {
	svc, _, _ := setupService(t)
	ctx := context.Background()

	_, err := svc.AddItem(ctx, "u1", "ruby", 0)
	assert.ErrorIs(t, err, domain.ErrInvalidQuantity)

	_, err = svc.AddItem(ctx, "u1", "ruby", 3)
	assert.ErrorIs(t, err, domain.ErrInsufficientStock)

	_, err = svc.AddItem(ctx, "u1", "topaz", 1)
	assert.ErrorIs(t, err, domain.ErrInsufficientStock)

	_, err = svc.AddItem(ctx, "u1", "missing", 1)
	assert.ErrorIs(t, err, domain.ErrProductNotFound)

	s, err := svc.Load(ctx, "u1")
	require.NoError(t, err)
	assert.True(t, s.Cart.IsEmpty())
}

func TestService_UpdateQuantity_Clamps(t *testing.T) {
	svc, _, _ := setupService(t)
	ctx := context.Background()
	_, err := svc.AddItem(ctx, "u1", "pearl", 5)
	require.NoError(t, err)

	s, err := svc.UpdateQuantity(ctx, "u1", "pearl", -3)
	require.NoError(t, err)
	assert.Equal(t, 1, s.Cart.Items[0].Quantity)

	_, err = svc.UpdateQuantity(ctx, "u1", "ruby", 1)
	assert.ErrorIs(t, err, domain.ErrItemNotInCart)
}

func TestService_RemoveAndClear(t *testing.T) {
	svc, _, _ := setupService(t)
	ctx := context.Background()
	_, err := svc.AddItem(ctx, "u1", "pearl", 1)
	require.NoError(t, err)
	_, err = svc.AddItem(ctx, "u1", "ruby", 1)
	require.NoError(t, err)

	s, err := svc.RemoveItem(ctx, "u1", "absent")
	require.NoError(t, err)
	assert.Len(t, s.Cart.Items, 2)

	s, err = svc.RemoveItem(ctx, "u1", "pearl")
	require.NoError(t, err)
	assert.Len(t, s.Cart.Items, 1)

	s, err = svc.Clear(ctx, "u1")
	require.NoError(t, err)
	assert.True(t, s.Cart.IsEmpty())
}

func TestService_Clear_KeepsShippingDetails(t *testing.T) {
	svc, _, _ := setupService(t)
	ctx := context.Background()

	s, err := svc.AddItem(ctx, "u1", "pearl", 1)
	require.NoError(t, err)
	s.ShippingAddress = &domain.ShippingAddress{Address: "1 Gem St", City: "Galle", PostalCode: "80000", Country: "LK"}
	s.PaymentMethod = domain.PaymentMethodPayPal
	s.Step = domain.StepPlaceOrder
	require.NoError(t, svc.Save(ctx, s))

	cleared, err := svc.Clear(ctx, "u1")
	require.NoError(t, err)

	assert.Equal(t, domain.StepCart, cleared.Step)
	require.NotNil(t, cleared.ShippingAddress)
	assert.Equal(t, "Galle", cleared.ShippingAddress.City)
}

func TestService_WritesInvalidateCache(t *testing.T) {
	svc, _, cache := setupService(t)
	ctx := context.Background()

	_, err := svc.AddItem(ctx, "u1", "pearl", 1)
	require.NoError(t, err)
	require.NoError(t, cache.Set(ctx, "u1", domain.NewCheckoutSession("u1")))

	_, err = svc.RemoveItem(ctx, "u1", "pearl")
	require.NoError(t, err)

	_, err = cache.Get(ctx, "u1")
	assert.ErrorIs(t, err, ErrCacheMiss)
	assert.Equal(t, 2, cache.deletes)
}

func TestService_Load_ReturnsIndependentCopies(t *testing.T) {
	svc, _, _ := setupService(t)
	ctx := context.Background()
	_, err := svc.AddItem(ctx, "u1", "pearl", 1)
	require.NoError(t, err)

	var wg sync.WaitGroup
	sessions := make([]*domain.CheckoutSession, 20)
	for i := range sessions {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			s, err := svc.Load(ctx, "u1")
			assert.NoError(t, err)
			sessions[i] = s
		}(i)
	}
	wg.Wait()

	require.NotNil(t, sessions[0])
	sessions[0].Cart.Items[0].Quantity = 42
	for _, s := range sessions[1:] {
		require.NotNil(t, s)
		assert.Equal(t, 1, s.Cart.Items[0].Quantity)
	}
}

var (
	_ SessionRepository = (*MemoryRepository)(nil)
	_ SessionRepository = (*MongoRepository)(nil)
	_ SessionCache      = (*RedisCache)(nil)
)
