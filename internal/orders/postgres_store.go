package orders

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/Tashika-Wijesooriya/GemXpert/internal/domain"
	"github.com/lib/pq"
)

const orderColumns = `id, user_id, user_name, items, shipping_address, payment_method,
	items_price, shipping_price, tax_price, total_price, currency,
	is_paid, paid_at, payment_result, is_delivered, delivered_at, created_at, updated_at`

type PostgresStore struct {
	db *sql.DB
}

func NewPostgresStore(db *sql.DB) *PostgresStore {
	return &PostgresStore{db: db}
}

func (r *PostgresStore) Create(ctx context.Context, order *domain.Order) error {
	itemsJSON, err := json.Marshal(order.Items)
	if err != nil {
		return fmt.Errorf("failed to marshal order items: %w", err)
	}
	addressJSON, err := json.Marshal(order.ShippingAddress)
	if err != nil {
		return fmt.Errorf("failed to marshal shipping address: %w", err)
	}

	query := `INSERT INTO orders (id, user_id, user_name, items, shipping_address, payment_method,
	          items_price, shipping_price, tax_price, total_price, currency, created_at, updated_at)
	          VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13)`

	_, insertErr := r.db.ExecContext(ctx, query,
		order.ID,
		order.User.ID,
		order.User.Name,
		itemsJSON,
		addressJSON,
		string(order.PaymentMethod),
		int64(order.ItemsPrice),
		int64(order.ShippingPrice),
		int64(order.TaxPrice),
		int64(order.TotalPrice),
		order.Currency,
		order.CreatedAt,
		order.UpdatedAt)

	if insertErr != nil {
		var pqErr *pq.Error
		if errors.As(insertErr, &pqErr) {
			switch pqErr.Code {
			case "23505":
				return ErrDuplicateOrder
			case "23514":
				return domain.ErrPricingMismatch
			}
		}
		return fmt.Errorf("insert order: %w", insertErr)
	}
	return nil
}

func (r *PostgresStore) Get(ctx context.Context, id string) (*domain.Order, error) {
	query := `SELECT ` + orderColumns + ` FROM orders WHERE id = $1`

	order, err := scanOrder(r.db.QueryRowContext(ctx, query, id))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, domain.ErrOrderNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("query order by id: %w", err)
	}
	return order, nil
}

func (r *PostgresStore) MarkPaid(ctx context.Context, id string, result domain.PaymentResult, at time.Time) (*domain.Order, error) {
	resultJSON, err := json.Marshal(result)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal payment result: %w", err)
	}

	query := `UPDATE orders SET is_paid = TRUE, paid_at = $2, payment_result = $3, updated_at = $2
	          WHERE id = $1 AND is_paid = FALSE
	          RETURNING ` + orderColumns

	order, err := scanOrder(r.db.QueryRowContext(ctx, query, id, at, resultJSON))
	if errors.Is(err, sql.ErrNoRows) {
		if _, getErr := r.Get(ctx, id); getErr != nil {
			return nil, getErr
		}
		return nil, domain.ErrAlreadyPaid
	}
	if err != nil {
		return nil, fmt.Errorf("mark order paid: %w", err)
	}
	return order, nil
}

func (r *PostgresStore) MarkDelivered(ctx context.Context, id string, at time.Time) (*domain.Order, error) {
	query := `UPDATE orders SET is_delivered = TRUE, delivered_at = $2, updated_at = $2
	          WHERE id = $1 AND is_paid = TRUE AND is_delivered = FALSE
	          RETURNING ` + orderColumns

	order, err := scanOrder(r.db.QueryRowContext(ctx, query, id, at))
	if errors.Is(err, sql.ErrNoRows) {
		current, getErr := r.Get(ctx, id)
		if getErr != nil {
			return nil, getErr
		}
		if !current.IsPaid {
			return nil, domain.ErrNotYetPaid
		}
		return nil, domain.ErrAlreadyDelivered
	}
	if err != nil {
		return nil, fmt.Errorf("mark order delivered: %w", err)
	}
	return order, nil
}

func (r *PostgresStore) List(ctx context.Context, f Filter) ([]*domain.Order, error) {
	var (
		where []string
		args  []interface{}
	)
	add := func(clause string, arg interface{}) {
		args = append(args, arg)
		where = append(where, fmt.Sprintf(clause, len(args)))
	}

	if f.UserID != "" {
		add("user_id = $%d", f.UserID)
	}
	if q := strings.TrimSpace(f.User); q != "" {
		add(`user_name ILIKE '%%' || $%d || '%%'`, escapeLike(q))
	}
	if q := strings.TrimSpace(f.OrderID); q != "" {
		add(`id ILIKE '%%' || $%d || '%%'`, escapeLike(q))
	}
	from, to, ok, err := f.DateRange()
	if err != nil {
		return nil, err
	}
	if ok {
		add("created_at >= $%d", from)
		add("created_at < $%d", to)
	}

	query := `SELECT ` + orderColumns + ` FROM orders`
	if len(where) > 0 {
		query += " WHERE " + strings.Join(where, " AND ")
	}
	query += " ORDER BY created_at DESC"

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("query orders: %w", err)
	}
	defer rows.Close()

	orders := make([]*domain.Order, 0)
	for rows.Next() {
		order, err := scanOrder(rows)
		if err != nil {
			return nil, fmt.Errorf("scan order row: %w", err)
		}
		orders = append(orders, order)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("row iteration error: %w", err)
	}
	return orders, nil
}

func (r *PostgresStore) Delete(ctx context.Context, id string) error {
	result, err := r.db.ExecContext(ctx, `DELETE FROM orders WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("delete order: %w", err)
	}
	n, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("delete order: %w", err)
	}
	if n == 0 {
		return domain.ErrOrderNotFound
	}
	return nil
}

func (r *PostgresStore) Close() error {
	return r.db.Close()
}

type rowScanner interface {
	Scan(dest ...interface{}) error
}

func scanOrder(row rowScanner) (*domain.Order, error) {
	var (
		order                                      domain.Order
		itemsJSON, addressJSON, resultJSON         []byte
		method                                     string
		itemsPrice, shippingPrice, taxPrice, total int64
		paidAt, deliveredAt                        sql.NullTime
	)

	err := row.Scan(
		&order.ID,
		&order.User.ID,
		&order.User.Name,
		&itemsJSON,
		&addressJSON,
		&method,
		&itemsPrice,
		&shippingPrice,
		&taxPrice,
		&total,
		&order.Currency,
		&order.IsPaid,
		&paidAt,
		&resultJSON,
		&order.IsDelivered,
		&deliveredAt,
		&order.CreatedAt,
		&order.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}

	if err := json.Unmarshal(itemsJSON, &order.Items); err != nil {
		return nil, fmt.Errorf("unmarshal order items: %w", err)
	}
	if err := json.Unmarshal(addressJSON, &order.ShippingAddress); err != nil {
		return nil, fmt.Errorf("unmarshal shipping address: %w", err)
	}
	if len(resultJSON) > 0 {
		var result domain.PaymentResult
		if err := json.Unmarshal(resultJSON, &result); err != nil {
			return nil, fmt.Errorf("unmarshal payment result: %w", err)
		}
		order.PaymentResult = &result
	}

	order.PaymentMethod = domain.PaymentMethod(method)
	order.Pricing = domain.Pricing{
		ItemsPrice:    domain.Money(itemsPrice),
		ShippingPrice: domain.Money(shippingPrice),
		TaxPrice:      domain.Money(taxPrice),
		TotalPrice:    domain.Money(total),
	}
	if paidAt.Valid {
		t := paidAt.Time
		order.PaidAt = &t
	}
	if deliveredAt.Valid {
		t := deliveredAt.Time
		order.DeliveredAt = &t
	}
	return &order, nil
}

func escapeLike(s string) string {
	return strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`).Replace(s)
}
