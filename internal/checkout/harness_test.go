package checkout

import (
	"context"
	"sync"
	"testing"

	"github.com/Tashika-Wijesooriya/GemXpert/internal/cart"
	"github.com/Tashika-Wijesooriya/GemXpert/internal/catalog"
	"github.com/Tashika-Wijesooriya/GemXpert/internal/domain"
	"github.com/Tashika-Wijesooriya/GemXpert/internal/orders"
	"github.com/Tashika-Wijesooriya/GemXpert/internal/payment"
	"github.com/Tashika-Wijesooriya/GemXpert/internal/pricing"
	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
)

// scriptedStatus returns queued outcomes, then approves everything.
type scriptedStatus struct {
	mu       sync.Mutex
	outcomes []bool
}

func (s *scriptedStatus) queue(outcomes ...bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.outcomes = append(s.outcomes, outcomes...)
}

func (s *scriptedStatus) GetStatus() (bool, payment.Refusal) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if len(s.outcomes) == 0 {
		return true, payment.RefusalUnknown
	}
	ok := s.outcomes[0]
	s.outcomes = s.outcomes[1:]
	if ok {
		return true, payment.RefusalUnknown
	}
	return false, payment.RefusalInsufficientFunds
}

type harness struct {
	checkout *Service
	carts    *cart.Service
	orders   *orders.Service
	store    *orders.MemoryStore
	products *catalog.MemoryRepository
	payments *payment.Simulated
	status   *scriptedStatus
	redis    *miniredis.Miniredis
	client   *redis.Client
}

var (
	buyer = domain.User{ID: "u-1", Name: "Nimali Perera"}
	admin = domain.User{ID: "admin-1", Name: "Store Admin", IsAdmin: true}

	validShipping = ShippingInput{
		ShippingAddress: domain.ShippingAddress{
			Address:    "12 Temple Road",
			City:       "Ratnapura",
			PostalCode: "70000",
			Country:    "Sri Lanka",
		},
		PaymentMethod: domain.PaymentMethodPayPal,
	}
)

func newHarness() (*harness, error) {
	mr, err := miniredis.Run()
	if err != nil {
		return nil, err
	}
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})

	products := catalog.NewMemoryRepository()
	ctx := context.Background()
	for _, p := range []*domain.Product{
		{ID: "ruby", Name: "Ruby ring", Category: "rings", Price: 1355900, Quantity: 1, CountInStock: 5},
		{ID: "pearl", Name: "Pearl pendant", Category: "pendants", Price: 314500, Quantity: 1, CountInStock: 5},
		{ID: "charm", Name: "Silver charm", Category: "charms", Price: 2500, Quantity: 1, CountInStock: 50},
	} {
		if err := products.CreateProduct(ctx, p); err != nil {
			return nil, err
		}
	}

	h := &harness{
		status:   &scriptedStatus{},
		store:    orders.NewMemoryStore(),
		products: products,
		redis:    mr,
		client:   client,
	}
	h.carts = cart.NewService(cart.NewMemoryRepository(), cart.NewRedisCache(client), catalog.NewService(products))
	h.orders = orders.NewService(h.store, orders.NopPublisher{})
	h.payments = payment.NewSimulated(h.status)
	h.checkout = NewService(h.carts, h.orders, h.payments, Config{
		Pricing:  pricing.DefaultPolicy(),
		Currency: "USD",
	})
	return h, nil
}

func (h *harness) close() {
	h.client.Close()
	h.redis.Close()
}

func setupHarness(t *testing.T) *harness {
	t.Helper()
	h, err := newHarness()
	if err != nil {
		t.Fatalf("harness: %v", err)
	}
	t.Cleanup(h.close)
	return h
}

func (h *harness) orderCount(t *testing.T) int {
	t.Helper()
	list, err := h.store.List(context.Background(), orders.Filter{})
	if err != nil {
		t.Fatalf("list orders: %v", err)
	}
	return len(list)
}
