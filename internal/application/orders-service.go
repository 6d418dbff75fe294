package application

import (
	"context"
	"fmt"
	"strings"

	"github.com/RaikyD/store-admin/internal/analytics"
	"github.com/RaikyD/store-admin/internal/domain"
	"github.com/RaikyD/store-admin/internal/logger"
	"github.com/RaikyD/store-admin/internal/repository"
	"github.com/google/uuid"
)

type OrderList struct {
	Orders []domain.Order            `json:"orders"`
	Counts map[domain.OrderStatus]int `json:"counts"`
}

type OrderUpdate struct {
	Status *string `json:"status"`
	Notes  *string `json:"notes"`
}

type OrdersService struct {
	repo    repository.OrderRepo
	changes *ChangeNotifier
}

func NewOrdersService(r repository.OrderRepo, changes *ChangeNotifier) *OrdersService {
	return &OrdersService{repo: r, changes: changes}
}

// List returns orders matching search and status, newest first. Counts
// cover every order regardless of either filter so that the header totals
// stay stable while searching or switching tabs.
func (s *OrdersService) List(ctx context.Context, status, search string) (*OrderList, error) {
	if status == "all" {
		status = ""
	}
	st := domain.OrderStatus(status)
	if st != "" && !st.Valid() {
		return nil, fmt.Errorf("%w: %q", ErrInvalidStatus, status)
	}

	all, err := s.repo.ListOrders(ctx, repository.OrderFilter{})
	if err != nil {
		logger.Warn("list orders failed", "err", err)
		return nil, err
	}
	matched := all
	if strings.TrimSpace(search) != "" {
		if matched, err = s.repo.ListOrders(ctx, repository.OrderFilter{Search: search}); err != nil {
			logger.Warn("search orders failed", "err", err)
			return nil, err
		}
	}

	out := &OrderList{Orders: matched, Counts: analytics.StatusCounts(all)}
	if st != "" {
		filtered := make([]domain.Order, 0, len(matched))
		for _, o := range matched {
			if o.Status == st {
				filtered = append(filtered, o)
			}
		}
		out.Orders = filtered
	}
	return out, nil
}

func (s *OrdersService) Get(ctx context.Context, id uuid.UUID) (*domain.Order, error) {
	return s.repo.GetOrder(ctx, id)
}

// Update changes the status and/or notes of an order.
func (s *OrdersService) Update(ctx context.Context, id uuid.UUID, u OrderUpdate) (*domain.Order, error) {
	if u.Status == nil && u.Notes == nil {
		return nil, ErrEmptyUpdate
	}

	var st *domain.OrderStatus
	if u.Status != nil {
		v := domain.OrderStatus(*u.Status)
		if !v.Valid() {
			return nil, fmt.Errorf("%w: %q", ErrInvalidStatus, *u.Status)
		}
		st = &v
	}

	if err := s.repo.UpdateOrder(ctx, id, st, u.Notes); err != nil {
		return nil, err
	}
	logger.Info("order updated", "id", id, "status_changed", st != nil, "notes_changed", u.Notes != nil)
	s.changes.Notify(ctx, domain.EntityOrder, id, domain.ActionUpdated)

	return s.repo.GetOrder(ctx, id)
}
