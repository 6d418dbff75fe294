package application

import (
	"context"

	"github.com/RaikyD/store-admin/internal/analytics"
	"github.com/RaikyD/store-admin/internal/domain"
	"github.com/RaikyD/store-admin/internal/repository"
	"golang.org/x/sync/errgroup"
)

type CustomerView struct {
	domain.Customer
	Stats analytics.CustomerStats `json:"stats"`
}

type CustomersService struct {
	customers repository.CustomerRepo
	orders    repository.OrderRepo
}

func NewCustomersService(c repository.CustomerRepo, o repository.OrderRepo) *CustomersService {
	return &CustomersService{customers: c, orders: o}
}

// List returns matching customers with their order count and spend.
func (s *CustomersService) List(ctx context.Context, search string) ([]CustomerView, error) {
	var (
		customers []domain.Customer
		totals    []domain.Order
	)
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() (err error) {
		customers, err = s.customers.ListCustomers(gctx, search)
		return
	})
	g.Go(func() (err error) {
		totals, err = s.orders.ListOrderTotals(gctx)
		return
	})
	if err := g.Wait(); err != nil {
		return nil, err
	}

	stats := analytics.CustomerOrderStats(totals)
	out := make([]CustomerView, 0, len(customers))
	for _, c := range customers {
		out = append(out, CustomerView{Customer: c, Stats: stats[c.ID]})
	}
	return out, nil
}
