package orders

import (
	"context"
	"strings"
	"time"

	"github.com/Tashika-Wijesooriya/GemXpert/internal/domain"
)

// Store persists order records. MarkPaid and MarkDelivered are atomic
// check-and-set operations: concurrent callers can never flip a flag twice.
type Store interface {
	Create(ctx context.Context, order *domain.Order) error
	Get(ctx context.Context, id string) (*domain.Order, error)
	MarkPaid(ctx context.Context, id string, result domain.PaymentResult, at time.Time) (*domain.Order, error)
	MarkDelivered(ctx context.Context, id string, at time.Time) (*domain.Order, error)
	List(ctx context.Context, f Filter) ([]*domain.Order, error)
	Delete(ctx context.Context, id string) error
}

// Filter narrows List results. Empty fields match everything.
type Filter struct {
	UserID string
	// User matches a case-insensitive substring of the buyer's name.
	User string
	// OrderID matches a case-insensitive substring of the order id.
	OrderID string
	// Date is a prefix of the UTC creation date: "2026", "2026-03" or "2026-03-01".
	Date string
}

var dateLayouts = []struct {
	layout string
	next   func(time.Time) time.Time
}{
	{"2006-01-02", func(t time.Time) time.Time { return t.AddDate(0, 0, 1) }},
	{"2006-01", func(t time.Time) time.Time { return t.AddDate(0, 1, 0) }},
	{"2006", func(t time.Time) time.Time { return t.AddDate(1, 0, 0) }},
}

// DateRange converts Date into a half-open [from, to) UTC interval.
func (f Filter) DateRange() (from, to time.Time, ok bool, err error) {
	date := strings.TrimSpace(f.Date)
	if date == "" {
		return time.Time{}, time.Time{}, false, nil
	}
	for _, l := range dateLayouts {
		if len(date) != len(l.layout) {
			continue
		}
		start, perr := time.ParseInLocation(l.layout, date, time.UTC)
		if perr == nil {
			return start, l.next(start), true, nil
		}
	}
	return time.Time{}, time.Time{}, false, domain.NewValidationError(map[string]string{
		"date": "date invalid format",
	})
}

func (f Filter) Matches(o *domain.Order) bool {
	if f.UserID != "" && o.User.ID != f.UserID {
		return false
	}
	if f.User != "" && !containsFold(o.User.Name, f.User) {
		return false
	}
	if f.OrderID != "" && !containsFold(o.ID, f.OrderID) {
		return false
	}
	if from, to, ok, err := f.DateRange(); err == nil && ok {
		created := o.CreatedAt.UTC()
		if created.Before(from) || !created.Before(to) {
			return false
		}
	}
	return true
}

func containsFold(s, substr string) bool {
	return strings.Contains(strings.ToLower(s), strings.ToLower(strings.TrimSpace(substr)))
}
