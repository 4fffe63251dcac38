package payment

import (
	"context"
	"fmt"
	"math/rand"
	"sync"
	"time"

	"github.com/Tashika-Wijesooriya/GemXpert/internal/domain"
	"github.com/google/uuid"
)

type Refusal int

const (
	RefusalUnknown Refusal = iota
	RefusalInsufficientFunds
	RefusalCardExpired
	RefusalFraudSuspected
	RefusalLimitExceeded
	RefusalInvalidAccount
)

func (r Refusal) String() string {
	switch r {
	case RefusalInsufficientFunds:
		return "insufficient funds"
	case RefusalCardExpired:
		return "card expired"
	case RefusalFraudSuspected:
		return "fraud suspected"
	case RefusalLimitExceeded:
		return "limit exceeded"
	case RefusalInvalidAccount:
		return "invalid account"
	default:
		return "unknown reason"
	}
}

// StatusSource decides the outcome of a simulated capture.
type StatusSource interface {
	GetStatus() (bool, Refusal)
}

// RandomStatus approves SuccessRate percent of captures.
type RandomStatus struct {
	SuccessRate int
}

func (r RandomStatus) GetStatus() (bool, Refusal) {
	randomInt := rand.Intn(101) // 101 because Intn is exclusive of the upper bound
	return calcStatus(randomInt, r.SuccessRate)
}

func calcStatus(randomInt, successRate int) (bool, Refusal) {
	if randomInt < successRate {
		return true, RefusalUnknown
	}
	reason := Refusal(randomInt - successRate)
	if reason > RefusalInvalidAccount {
		return false, RefusalUnknown
	}
	return false, reason
}

// FixedStatus always returns the same outcome.
type FixedStatus struct {
	Success bool
	Refusal Refusal
}

func (f FixedStatus) GetStatus() (bool, Refusal) {
	return f.Success, f.Refusal
}

type intent struct {
	reference string
	amount    domain.Money
	currency  string
	capture   *Capture
}

// Simulated is an in-process provider. Captures are idempotent per intent.
type Simulated struct {
	mu      sync.Mutex
	intents map[string]*intent
	status  StatusSource
	email   string
	now     func() time.Time
}

func NewSimulated(status StatusSource) *Simulated {
	return &Simulated{
		intents: make(map[string]*intent),
		status:  status,
		email:   "buyer@example.com",
		now:     time.Now,
	}
}

func (s *Simulated) CreatePaymentIntent(ctx context.Context, reference string, amount domain.Money, currency string) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}
	if reference == "" {
		return "", ErrNoReference
	}
	if amount <= 0 {
		return "", ErrInvalidAmount
	}

	id := "PAYID-" + uuid.NewString()
	s.mu.Lock()
	s.intents[id] = &intent{reference: reference, amount: amount, currency: currency}
	s.mu.Unlock()
	return id, nil
}

func (s *Simulated) Capture(ctx context.Context, intentID string) (*Capture, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	in, ok := s.intents[intentID]
	if !ok {
		return nil, ErrIntentNotFound
	}
	if in.capture != nil {
		return captureResult(in.capture)
	}

	success, refusal := s.status.GetStatus()
	c := &Capture{
		IntentID:      intentID,
		Reference:     in.reference,
		TransactionID: fmt.Sprintf("TXN-%s", uuid.NewString()),
		Success:       success,
		Status:        "COMPLETED",
		Amount:        in.amount,
		Currency:      in.currency,
		PayerEmail:    s.email,
		UpdateTime:    s.now().UTC().Format(time.RFC3339),
	}
	if !success {
		c.Status = "DECLINED: " + refusal.String()
	}
	in.capture = c
	return captureResult(c)
}

func captureResult(c *Capture) (*Capture, error) {
	out := *c
	if !c.Success {
		return &out, fmt.Errorf("%w: %s", domain.ErrPaymentDeclined, c.Status)
	}
	return &out, nil
}
