// Package memrepo is an in-memory implementation of the repository
// interfaces for tests.
package memrepo

import (
	"context"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/RaikyD/store-admin/internal/domain"
	"github.com/RaikyD/store-admin/internal/repository"
	"github.com/google/uuid"
)

type Store struct {
	mu        sync.RWMutex
	orders    []domain.Order
	products  []domain.Product
	customers []domain.Customer

	// Err, when set, is returned by every call.
	Err error
	// Calls counts ListOrdersBetween invocations.
	Calls int
}

var (
	_ repository.OrderRepo    = (*Store)(nil)
	_ repository.ProductRepo  = (*Store)(nil)
	_ repository.CustomerRepo = (*Store)(nil)
)

func New() *Store { return &Store{} }

func (s *Store) AddOrders(o ...domain.Order) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.orders = append(s.orders, o...)
}

func (s *Store) AddProducts(p ...domain.Product) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.products = append(s.products, p...)
}

func (s *Store) AddCustomers(c ...domain.Customer) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.customers = append(s.customers, c...)
}

func (s *Store) ListOrdersBetween(_ context.Context, from, to time.Time) ([]domain.Order, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.Calls++
	if s.Err != nil {
		return nil, s.Err
	}
	out := make([]domain.Order, 0)
	for _, o := range s.orders {
		if !o.CreatedAt.Before(from) && o.CreatedAt.Before(to) {
			out = append(out, o)
		}
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].CreatedAt.Before(out[j].CreatedAt) })
	return out, nil
}

func (s *Store) ListOrders(_ context.Context, f repository.OrderFilter) ([]domain.Order, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.Err != nil {
		return nil, s.Err
	}
	search := strings.ToLower(strings.TrimSpace(f.Search))
	out := make([]domain.Order, 0)
	for _, o := range s.orders {
		if f.Status != "" && o.Status != f.Status {
			continue
		}
		if search != "" && !strings.Contains(strings.ToLower(o.OrderNumber), search) {
			continue
		}
		out = append(out, o)
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].CreatedAt.After(out[j].CreatedAt) })
	if f.Limit > 0 && len(out) > f.Limit {
		out = out[:f.Limit]
	}
	return out, nil
}

func (s *Store) GetOrder(_ context.Context, id uuid.UUID) (*domain.Order, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.Err != nil {
		return nil, s.Err
	}
	for _, o := range s.orders {
		if o.ID == id {
			cp := o
			return &cp, nil
		}
	}
	return nil, repository.ErrNotFound
}

func (s *Store) UpdateOrder(_ context.Context, id uuid.UUID, status *domain.OrderStatus, notes *string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.Err != nil {
		return s.Err
	}
	for i := range s.orders {
		if s.orders[i].ID != id {
			continue
		}
		if status != nil {
			s.orders[i].Status = *status
		}
		if notes != nil {
			n := *notes
			s.orders[i].Notes = &n
		}
		s.orders[i].UpdatedAt = time.Now().UTC()
		return nil
	}
	return repository.ErrNotFound
}

func (s *Store) CountOrders(_ context.Context) (int, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.orders), s.Err
}

func (s *Store) RevenueExcluding(_ context.Context, status domain.OrderStatus) (float64, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	var sum float64
	for _, o := range s.orders {
		if o.Status != status {
			sum += o.Total
		}
	}
	return sum, s.Err
}

func (s *Store) RecentOrders(ctx context.Context, limit int) ([]domain.Order, error) {
	return s.ListOrders(ctx, repository.OrderFilter{Limit: limit})
}

func (s *Store) ListOrderTotals(_ context.Context) ([]domain.Order, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.Err != nil {
		return nil, s.Err
	}
	out := make([]domain.Order, len(s.orders))
	for i, o := range s.orders {
		out[i] = domain.Order{UserID: o.UserID, Total: o.Total}
	}
	return out, nil
}

func (s *Store) ListProducts(_ context.Context, limit int) ([]domain.Product, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.Err != nil {
		return nil, s.Err
	}
	out := append([]domain.Product{}, s.products...)
	sort.SliceStable(out, func(i, j int) bool { return out[i].CreatedAt.After(out[j].CreatedAt) })
	if limit > 0 && len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}

func (s *Store) GetProduct(_ context.Context, id uuid.UUID) (*domain.Product, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.Err != nil {
		return nil, s.Err
	}
	for _, p := range s.products {
		if p.ID == id {
			cp := p
			return &cp, nil
		}
	}
	return nil, repository.ErrNotFound
}

func (s *Store) CreateProduct(_ context.Context, p *domain.Product) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.Err != nil {
		return s.Err
	}
	if p.ID == uuid.Nil {
		p.ID = uuid.New()
	}
	now := time.Now().UTC()
	p.CreatedAt, p.UpdatedAt = now, now
	s.products = append(s.products, *p)
	return nil
}

func (s *Store) UpdateProduct(_ context.Context, p *domain.Product) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.Err != nil {
		return s.Err
	}
	for i := range s.products {
		if s.products[i].ID == p.ID {
			p.CreatedAt = s.products[i].CreatedAt
			p.UpdatedAt = time.Now().UTC()
			s.products[i] = *p
			return nil
		}
	}
	return repository.ErrNotFound
}

func (s *Store) DeleteProduct(_ context.Context, id uuid.UUID) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.Err != nil {
		return s.Err
	}
	for i := range s.products {
		if s.products[i].ID == id {
			s.products = append(s.products[:i], s.products[i+1:]...)
			return nil
		}
	}
	return repository.ErrNotFound
}

func (s *Store) SetProductImage(_ context.Context, id uuid.UUID, url string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.Err != nil {
		return s.Err
	}
	for i := range s.products {
		if s.products[i].ID == id {
			u := url
			s.products[i].ImageURL = &u
			return nil
		}
	}
	return repository.ErrNotFound
}

func (s *Store) CountProducts(_ context.Context) (int, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.products), s.Err
}

func (s *Store) ListCustomers(_ context.Context, search string) ([]domain.Customer, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.Err != nil {
		return nil, s.Err
	}
	search = strings.ToLower(strings.TrimSpace(search))
	out := make([]domain.Customer, 0)
	for _, c := range s.customers {
		if search != "" && !contains(c.FullName, search) && !contains(c.Phone, search) {
			continue
		}
		out = append(out, c)
	}
	return out, nil
}

func (s *Store) CountCustomers(_ context.Context) (int, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.customers), s.Err
}

func contains(field *string, needle string) bool {
	return field != nil && strings.Contains(strings.ToLower(*field), needle)
}
