package repository

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/RaikyD/store-admin/internal/domain"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

type OrderFilter struct {
	Status domain.OrderStatus
	Search string
	Limit  int
}

type OrderRepo interface {
	ListOrdersBetween(ctx context.Context, from, to time.Time) ([]domain.Order, error)
	ListOrders(ctx context.Context, f OrderFilter) ([]domain.Order, error)
	GetOrder(ctx context.Context, id uuid.UUID) (*domain.Order, error)
	UpdateOrder(ctx context.Context, id uuid.UUID, status *domain.OrderStatus, notes *string) error
	CountOrders(ctx context.Context) (int, error)
	RevenueExcluding(ctx context.Context, status domain.OrderStatus) (float64, error)
	RecentOrders(ctx context.Context, limit int) ([]domain.Order, error)
	ListOrderTotals(ctx context.Context) ([]domain.Order, error)
}

type OrderRepository struct {
	pool *pgxpool.Pool
}

func NewOrderRepository(p *pgxpool.Pool) *OrderRepository {
	return &OrderRepository{pool: p}
}

const orderColumns = `
	o.id, o.user_id, o.order_number, o.status,
	COALESCE(o.subtotal, 0)::float8, COALESCE(o.tax, 0)::float8,
	COALESCE(o.shipping, 0)::float8, COALESCE(o.total, 0)::float8,
	o.notes, o.created_at, o.updated_at`

func scanOrder(row pgx.Row, extra ...any) (domain.Order, error) {
	var o domain.Order
	var status string
	dest := append([]any{
		&o.ID, &o.UserID, &o.OrderNumber, &status,
		&o.Subtotal, &o.Tax, &o.Shipping, &o.Total,
		&o.Notes, &o.CreatedAt, &o.UpdatedAt,
	}, extra...)
	if err := row.Scan(dest...); err != nil {
		return domain.Order{}, err
	}
	o.Status = domain.OrderStatus(status)
	return o, nil
}

// ListOrdersBetween returns orders created in [from, to) oldest first, each
// with its line items.
func (p *OrderRepository) ListOrdersBetween(ctx context.Context, from, to time.Time) ([]domain.Order, error) {
	rows, err := p.pool.Query(ctx, `
		SELECT `+orderColumns+`
		FROM orders o
		WHERE o.created_at >= $1 AND o.created_at < $2
		ORDER BY o.created_at ASC`, from, to)
	if err != nil {
		return nil, fmt.Errorf("query orders: %w", err)
	}
	orders, err := collectOrders(rows)
	if err != nil {
		return nil, err
	}
	if err := p.attachItems(ctx, orders); err != nil {
		return nil, err
	}
	return orders, nil
}

func (p *OrderRepository) ListOrders(ctx context.Context, f OrderFilter) ([]domain.Order, error) {
	var (
		where []string
		args  []any
	)
	if f.Status != "" {
		args = append(args, string(f.Status))
		where = append(where, fmt.Sprintf("o.status = $%d", len(args)))
	}
	if s := strings.TrimSpace(f.Search); s != "" {
		args = append(args, containsPattern(s))
		where = append(where, fmt.Sprintf(`(o.order_number ILIKE $%[1]d ESCAPE '\' OR c.full_name ILIKE $%[1]d ESCAPE '\')`, len(args)))
	}

	q := `SELECT ` + orderColumns + `, c.full_name, c.email
		FROM orders o
		LEFT JOIN profiles c ON c.id = o.user_id`
	if len(where) > 0 {
		q += " WHERE " + strings.Join(where, " AND ")
	}
	q += " ORDER BY o.created_at DESC"
	if f.Limit > 0 {
		args = append(args, f.Limit)
		q += fmt.Sprintf(" LIMIT $%d", len(args))
	}

	rows, err := p.pool.Query(ctx, q, args...)
	if err != nil {
		return nil, fmt.Errorf("query orders: %w", err)
	}
	orders, err := collectOrdersWithCustomer(rows)
	if err != nil {
		return nil, err
	}
	if err := p.attachItems(ctx, orders); err != nil {
		return nil, err
	}
	return orders, nil
}

func (p *OrderRepository) RecentOrders(ctx context.Context, limit int) ([]domain.Order, error) {
	return p.ListOrders(ctx, OrderFilter{Limit: limit})
}

func (p *OrderRepository) GetOrder(ctx context.Context, id uuid.UUID) (*domain.Order, error) {
	row := p.pool.QueryRow(ctx, `
		SELECT `+orderColumns+`, c.full_name, c.email
		FROM orders o
		LEFT JOIN profiles c ON c.id = o.user_id
		WHERE o.id = $1`, id)

	var name, email *string
	o, err := scanOrder(row, &name, &email)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("get order %s: %w", id, err)
	}
	o.Customer = &domain.Customer{ID: o.UserID, FullName: name, Email: email}

	orders := []domain.Order{o}
	if err := p.attachItems(ctx, orders); err != nil {
		return nil, err
	}
	return &orders[0], nil
}

func (p *OrderRepository) UpdateOrder(ctx context.Context, id uuid.UUID, status *domain.OrderStatus, notes *string) error {
	var st *string
	if status != nil {
		s := string(*status)
		st = &s
	}
	tag, err := p.pool.Exec(ctx, `
		UPDATE orders
		SET status = COALESCE($2, status),
		    notes = CASE WHEN $3::boolean THEN $4 ELSE notes END,
		    updated_at = now()
		WHERE id = $1`, id, st, notes != nil, notes)
	if err != nil {
		return fmt.Errorf("update order %s: %w", id, err)
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

func (p *OrderRepository) CountOrders(ctx context.Context) (int, error) {
	var n int
	if err := p.pool.QueryRow(ctx, `SELECT count(*) FROM orders`).Scan(&n); err != nil {
		return 0, fmt.Errorf("count orders: %w", err)
	}
	return n, nil
}

func (p *OrderRepository) RevenueExcluding(ctx context.Context, status domain.OrderStatus) (float64, error) {
	var sum float64
	err := p.pool.QueryRow(ctx, `
		SELECT COALESCE(sum(COALESCE(total, 0)), 0)::float8
		FROM orders WHERE status <> $1`, string(status)).Scan(&sum)
	if err != nil {
		return 0, fmt.Errorf("sum revenue: %w", err)
	}
	return sum, nil
}

// ListOrderTotals loads only user_id and total of every order.
func (p *OrderRepository) ListOrderTotals(ctx context.Context) ([]domain.Order, error) {
	rows, err := p.pool.Query(ctx, `SELECT user_id, COALESCE(total, 0)::float8 FROM orders`)
	if err != nil {
		return nil, fmt.Errorf("query order totals: %w", err)
	}
	defer rows.Close()

	var out []domain.Order
	for rows.Next() {
		var o domain.Order
		if err := rows.Scan(&o.UserID, &o.Total); err != nil {
			return nil, err
		}
		out = append(out, o)
	}
	return out, rows.Err()
}

func collectOrders(rows pgx.Rows) ([]domain.Order, error) {
	defer rows.Close()
	out := make([]domain.Order, 0)
	for rows.Next() {
		o, err := scanOrder(rows)
		if err != nil {
			return nil, fmt.Errorf("scan order: %w", err)
		}
		out = append(out, o)
	}
	return out, rows.Err()
}

func collectOrdersWithCustomer(rows pgx.Rows) ([]domain.Order, error) {
	defer rows.Close()
	out := make([]domain.Order, 0)
	for rows.Next() {
		var name, email *string
		o, err := scanOrder(rows, &name, &email)
		if err != nil {
			return nil, fmt.Errorf("scan order: %w", err)
		}
		o.Customer = &domain.Customer{ID: o.UserID, FullName: name, Email: email}
		out = append(out, o)
	}
	return out, rows.Err()
}

// attachItems loads line items (with their product, when it still exists)
// for all given orders in one round trip.
func (p *OrderRepository) attachItems(ctx context.Context, orders []domain.Order) error {
	if len(orders) == 0 {
		return nil
	}
	ids := make([]uuid.UUID, len(orders))
	byID := make(map[uuid.UUID]int, len(orders))
	for i, o := range orders {
		ids[i] = o.ID
		byID[o.ID] = i
		orders[i].Items = make([]domain.OrderItem, 0)
	}

	rows, err := p.pool.Query(ctx, `
		SELECT i.id, i.order_id, i.product_id, i.product_name,
		       COALESCE(i.product_price, 0)::float8, COALESCE(i.quantity, 0),
		       COALESCE(i.total_price, 0)::float8, i.created_at,
		       pr.id, pr.name, pr.price::float8
		FROM order_items i
		LEFT JOIN products pr ON pr.id = i.product_id
		WHERE i.order_id = ANY($1)
		ORDER BY i.created_at ASC, i.id ASC`, ids)
	if err != nil {
		return fmt.Errorf("query order items: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var (
			it     domain.OrderItem
			prodID *uuid.UUID
			name   *string
			price  *float64
		)
		if err := rows.Scan(&it.ID, &it.OrderID, &it.ProductID, &it.ProductName,
			&it.ProductPrice, &it.Quantity, &it.TotalPrice, &it.CreatedAt,
			&prodID, &name, &price); err != nil {
			return fmt.Errorf("scan order item: %w", err)
		}
		if prodID != nil {
			it.Product = &domain.Product{ID: *prodID}
			if name != nil {
				it.Product.Name = *name
			}
			if price != nil {
				it.Product.Price = *price
			}
		}
		if i, ok := byID[it.OrderID]; ok {
			orders[i].Items = append(orders[i].Items, it)
		}
	}
	return rows.Err()
}
