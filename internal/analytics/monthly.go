package analytics

import (
	"time"

	"github.com/RaikyD/store-admin/internal/domain"
)

// MonthlyRevenue buckets orders into the given number of calendar months
// ending with the month of now, oldest first. Orders outside the window are
// ignored.
func MonthlyRevenue(orders []domain.Order, now time.Time, months int, loc *time.Location) []MonthlyRevenuePoint {
	if months <= 0 {
		return []MonthlyRevenuePoint{}
	}
	if loc == nil {
		loc = time.UTC
	}

	first := MonthWindowStart(now, months, loc)

	out := make([]MonthlyRevenuePoint, months)
	for i := range out {
		out[i].Month = first.AddDate(0, i, 0).Format("Jan 2006")
	}

	for _, o := range orders {
		t := o.CreatedAt.In(loc)
		i := (t.Year()-first.Year())*12 + int(t.Month()) - int(first.Month())
		if i < 0 || i >= months {
			continue
		}
		out[i].Revenue += amount(o.Total)
		out[i].Orders++
	}
	return out
}

// MonthWindowStart is the first instant covered by MonthlyRevenue for the same arguments.
func MonthWindowStart(now time.Time, months int, loc *time.Location) time.Time {
	if loc == nil {
		loc = time.UTC
	}
	if months <= 0 {
		months = 1
	}
	n := now.In(loc)
	return time.Date(n.Year(), n.Month(), 1, 0, 0, 0, 0, loc).AddDate(0, -(months - 1), 0)
}
