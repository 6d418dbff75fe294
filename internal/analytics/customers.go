package analytics

import (
	"github.com/RaikyD/store-admin/internal/domain"
	"github.com/google/uuid"
)

// CustomerOrderStats tallies order count and spend per customer.
func CustomerOrderStats(orders []domain.Order) map[uuid.UUID]CustomerStats {
	out := make(map[uuid.UUID]CustomerStats)
	for _, o := range orders {
		s := out[o.UserID]
		s.OrderCount++
		s.TotalSpent += amount(o.Total)
		out[o.UserID] = s
	}
	return out
}

// StatusCounts returns a counter for every known status, zero when absent.
// Unknown statuses are not counted.
func StatusCounts(orders []domain.Order) map[domain.OrderStatus]int {
	out := make(map[domain.OrderStatus]int, len(domain.KnownStatuses))
	for _, s := range domain.KnownStatuses {
		out[s] = 0
	}
	for _, o := range orders {
		if _, ok := out[o.Status]; ok {
			out[o.Status]++
		}
	}
	return out
}
