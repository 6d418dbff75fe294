package repository

import (
	"context"
	"fmt"
	"strings"

	"github.com/RaikyD/store-admin/internal/domain"
	"github.com/jackc/pgx/v5/pgxpool"
)

type CustomerRepo interface {
	ListCustomers(ctx context.Context, search string) ([]domain.Customer, error)
	CountCustomers(ctx context.Context) (int, error)
}

type CustomerRepository struct {
	pool *pgxpool.Pool
}

func NewCustomerRepository(p *pgxpool.Pool) *CustomerRepository {
	return &CustomerRepository{pool: p}
}

// ListCustomers returns profiles newest first, optionally filtered by a
// case-insensitive match on name or phone.
func (r *CustomerRepository) ListCustomers(ctx context.Context, search string) ([]domain.Customer, error) {
	q := `SELECT id, full_name, email, phone, avatar_url, COALESCE(role, 'user'), created_at, updated_at
		FROM profiles`
	args := []any{}
	if s := strings.TrimSpace(search); s != "" {
		q += ` WHERE full_name ILIKE $1 ESCAPE '\' OR phone ILIKE $1 ESCAPE '\'`
		args = append(args, containsPattern(s))
	}
	q += ` ORDER BY created_at DESC`

	rows, err := r.pool.Query(ctx, q, args...)
	if err != nil {
		return nil, fmt.Errorf("query customers: %w", err)
	}
	defer rows.Close()

	out := make([]domain.Customer, 0)
	for rows.Next() {
		var c domain.Customer
		if err := rows.Scan(&c.ID, &c.FullName, &c.Email, &c.Phone, &c.AvatarURL,
			&c.Role, &c.CreatedAt, &c.UpdatedAt); err != nil {
			return nil, fmt.Errorf("scan customer: %w", err)
		}
		out = append(out, c)
	}
	return out, rows.Err()
}

func (r *CustomerRepository) CountCustomers(ctx context.Context) (int, error) {
	var n int
	if err := r.pool.QueryRow(ctx, `SELECT count(*) FROM profiles`).Scan(&n); err != nil {
		return 0, fmt.Errorf("count customers: %w", err)
	}
	return n, nil
}
