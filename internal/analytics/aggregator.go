package analytics

import (
	"sort"
	"time"
	"unicode"
	"unicode/utf8"

	"github.com/RaikyD/store-admin/internal/domain"
)

const (
	topProductsLimit = 5
	dateLabelLayout  = "1/2/2006"
)

// ProcessChartData derives the dashboard chart series from already fetched
// collections. Orders are bucketed by calendar day in loc (UTC when nil).
// It never fails: empty input yields empty series and a zero summary.
func ProcessChartData(data Data, loc *time.Location) ChartData {
	if loc == nil {
		loc = time.UTC
	}

	return ChartData{
		DailyRevenueData:   dailyRevenue(data.Orders, loc),
		StatusDistribution: statusDistribution(data.Orders),
		TopProducts:        topProducts(data.Orders, data.Products),
		Summary:            summarize(data.Orders, data.Customers),
	}
}

func dailyRevenue(orders []domain.Order, loc *time.Location) []DailyRevenuePoint {
	byDay := make(map[time.Time]*DailyRevenuePoint)
	for _, o := range orders {
		t := o.CreatedAt.In(loc)
		day := time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, loc)

		p, ok := byDay[day]
		if !ok {
			p = &DailyRevenuePoint{Date: day.Format(dateLabelLayout), Day: day}
			byDay[day] = p
		}
		p.Revenue += amount(o.Total)
		p.Orders++
	}

	out := make([]DailyRevenuePoint, 0, len(byDay))
	for _, p := range byDay {
		out = append(out, *p)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Day.Before(out[j].Day) })
	return out
}

func statusDistribution(orders []domain.Order) []StatusPoint {
	idx := make(map[domain.OrderStatus]int)
	out := make([]StatusPoint, 0)
	for _, o := range orders {
		if i, ok := idx[o.Status]; ok {
			out[i].Value++
			continue
		}
		idx[o.Status] = len(out)
		out = append(out, StatusPoint{Name: capitalize(string(o.Status)), Value: 1})
	}
	return out
}

// topProducts counts only the first line item of an order that references a
// product, so duplicated lines for the same product in one order are ignored.
func topProducts(orders []domain.Order, products []domain.Product) []ProductPerformance {
	perf := make([]ProductPerformance, 0, len(products))
	for _, p := range products {
		pp := ProductPerformance{ID: p.ID, Name: p.Name, Price: amount(p.Price)}
		for _, o := range orders {
			item, ok := firstItemFor(o, p)
			if !ok {
				continue
			}
			pp.Sales += quantity(item.Quantity)
			pp.Revenue += amount(item.TotalPrice)
		}
		if pp.Revenue > 0 {
			perf = append(perf, pp)
		}
	}

	sort.SliceStable(perf, func(i, j int) bool { return perf[i].Revenue > perf[j].Revenue })
	if len(perf) > topProductsLimit {
		perf = perf[:topProductsLimit]
	}
	return perf
}

func firstItemFor(o domain.Order, p domain.Product) (domain.OrderItem, bool) {
	for _, it := range o.Items {
		if it.ProductID == p.ID {
			return it, true
		}
	}
	return domain.OrderItem{}, false
}

func summarize(orders []domain.Order, customers []domain.Customer) Summary {
	s := Summary{
		TotalOrders:    len(orders),
		TotalCustomers: len(customers),
	}
	for _, o := range orders {
		s.TotalRevenue += amount(o.Total)
	}
	if s.TotalOrders > 0 {
		s.AvgOrderValue = s.TotalRevenue / float64(s.TotalOrders)
	}
	return s
}

func capitalize(s string) string {
	r, size := utf8.DecodeRuneInString(s)
	if r == utf8.RuneError {
		return s
	}
	return string(unicode.ToUpper(r)) + s[size:]
}
