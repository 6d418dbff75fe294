package application

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/RaikyD/store-admin/internal/analytics"
	"github.com/RaikyD/store-admin/internal/domain"
	"github.com/RaikyD/store-admin/internal/logger"
	"github.com/RaikyD/store-admin/internal/metrics"
	"github.com/RaikyD/store-admin/internal/repository"
	"golang.org/x/sync/errgroup"
)

const (
	DefaultRangeDays = 30
	maxRangeDays     = 3650
	maxMonths        = 36
	recentLimit      = 5
)

type Growth struct {
	Revenue float64 `json:"revenue"`
	Orders  float64 `json:"orders"`
}

// Display carries the summary scalars already formatted for the dashboard.
type Display struct {
	TotalRevenue  string `json:"totalRevenue"`
	AvgOrderValue string `json:"avgOrderValue"`
	RevenueGrowth string `json:"revenueGrowth"`
	OrdersGrowth  string `json:"ordersGrowth"`
}

type Report struct {
	analytics.ChartData
	RangeDays   int       `json:"rangeDays"`
	From        time.Time `json:"from"`
	To          time.Time `json:"to"`
	Growth      Growth    `json:"growth"`
	Display     Display   `json:"display"`
	GeneratedAt time.Time `json:"generatedAt"`
}

type Dashboard struct {
	TotalOrders    int              `json:"totalOrders"`
	TotalRevenue   float64          `json:"totalRevenue"`
	TotalProducts  int              `json:"totalProducts"`
	TotalCustomers int              `json:"totalCustomers"`
	RecentOrders   []domain.Order   `json:"recentOrders"`
	RecentProducts []domain.Product `json:"recentProducts"`
	Display        struct {
		TotalRevenue string `json:"totalRevenue"`
	} `json:"display"`
}

type cachedReport struct {
	report  *Report
	expires time.Time
}

type AnalyticsService struct {
	orders    repository.OrderRepo
	products  repository.ProductRepo
	customers repository.CustomerRepo
	metrics   *metrics.Registry
	loc       *time.Location
	ttl       time.Duration
	now       func() time.Time

	mu    sync.RWMutex
	cache map[int]cachedReport
	// gen is bumped by Invalidate; a report built across a bump is not cached.
	gen uint64
}

func NewAnalyticsService(
	orders repository.OrderRepo,
	products repository.ProductRepo,
	customers repository.CustomerRepo,
	reg *metrics.Registry,
	loc *time.Location,
	ttl time.Duration,
) *AnalyticsService {
	if loc == nil {
		loc = time.UTC
	}
	if reg == nil {
		reg = metrics.NewRegistry()
	}
	return &AnalyticsService{
		orders:    orders,
		products:  products,
		customers: customers,
		metrics:   reg,
		loc:       loc,
		ttl:       ttl,
		now:       time.Now,
		cache:     make(map[int]cachedReport),
	}
}

// FetchAnalyticsData loads the orders of the last days together with the
// full product and customer sets.
func (s *AnalyticsService) FetchAnalyticsData(ctx context.Context, days int) (analytics.Data, error) {
	if days <= 0 || days > maxRangeDays {
		return analytics.Data{}, fmt.Errorf("%w: %d days", ErrInvalidRange, days)
	}
	now := s.now()
	data, _, err := s.fetch(ctx, now.AddDate(0, 0, -days), now, false)
	return data, err
}

func (s *AnalyticsService) fetch(ctx context.Context, from, to time.Time, withPrevious bool) (analytics.Data, []domain.Order, error) {
	var (
		data     analytics.Data
		previous []domain.Order
	)
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		data.Orders, err = s.orders.ListOrdersBetween(gctx, from, to)
		return err
	})
	g.Go(func() error {
		var err error
		data.Products, err = s.products.ListProducts(gctx, 0)
		return err
	})
	g.Go(func() error {
		var err error
		data.Customers, err = s.customers.ListCustomers(gctx, "")
		return err
	})
	if withPrevious {
		g.Go(func() error {
			var err error
			previous, err = s.orders.ListOrdersBetween(gctx, from.Add(-to.Sub(from)), from)
			return err
		})
	}
	if err := g.Wait(); err != nil {
		return analytics.Data{}, nil, fmt.Errorf("fetch analytics data: %w", err)
	}
	return data, previous, nil
}

// Report aggregates the last days of activity and compares it with the
// window of the same length right before it. Results are cached per range
// until the TTL passes or a change invalidates them.
func (s *AnalyticsService) Report(ctx context.Context, days int) (*Report, error) {
	if days <= 0 || days > maxRangeDays {
		return nil, fmt.Errorf("%w: %d days", ErrInvalidRange, days)
	}

	now := s.now()
	s.mu.RLock()
	c, ok := s.cache[days]
	gen := s.gen
	s.mu.RUnlock()
	if ok && now.Before(c.expires) {
		s.metrics.CacheHits.Inc()
		return c.report, nil
	}
	s.metrics.CacheMisses.Inc()

	from := now.AddDate(0, 0, -days)
	data, previous, err := s.fetch(ctx, from, now, true)
	if err != nil {
		return nil, err
	}

	start := time.Now()
	chart := analytics.ProcessChartData(data, s.loc)
	prev := analytics.ProcessChartData(analytics.Data{Orders: previous}, s.loc).Summary
	s.metrics.AggregationSec.Observe(time.Since(start).Seconds())

	r := &Report{
		ChartData: chart,
		RangeDays: days,
		From:      from,
		To:        now,
		Growth: Growth{
			Revenue: analytics.GrowthRate(chart.Summary.TotalRevenue, prev.TotalRevenue),
			Orders:  analytics.GrowthRate(float64(chart.Summary.TotalOrders), float64(prev.TotalOrders)),
		},
		GeneratedAt: now,
	}
	r.Display = Display{
		TotalRevenue:  analytics.FormatCurrency(chart.Summary.TotalRevenue),
		AvgOrderValue: analytics.FormatCurrency(chart.Summary.AvgOrderValue),
		RevenueGrowth: analytics.FormatPercentage(r.Growth.Revenue),
		OrdersGrowth:  analytics.FormatPercentage(r.Growth.Orders),
	}

	if s.ttl > 0 {
		s.mu.Lock()
		if s.gen == gen {
			s.cache[days] = cachedReport{report: r, expires: now.Add(s.ttl)}
		}
		s.mu.Unlock()
	}
	return r, nil
}

// Monthly returns revenue per calendar month for the last months.
func (s *AnalyticsService) Monthly(ctx context.Context, months int) ([]analytics.MonthlyRevenuePoint, error) {
	if months <= 0 || months > maxMonths {
		return nil, fmt.Errorf("%w: %d months", ErrInvalidRange, months)
	}
	now := s.now()
	orders, err := s.orders.ListOrdersBetween(ctx, analytics.MonthWindowStart(now, months, s.loc), now)
	if err != nil {
		return nil, fmt.Errorf("fetch monthly orders: %w", err)
	}
	return analytics.MonthlyRevenue(orders, now, months, s.loc), nil
}

// Dashboard gathers the landing page figures. Revenue leaves out cancelled orders.
func (s *AnalyticsService) Dashboard(ctx context.Context) (*Dashboard, error) {
	d := &Dashboard{}
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() (err error) {
		d.TotalOrders, err = s.orders.CountOrders(gctx)
		return
	})
	g.Go(func() (err error) {
		d.TotalProducts, err = s.products.CountProducts(gctx)
		return
	})
	g.Go(func() (err error) {
		d.TotalCustomers, err = s.customers.CountCustomers(gctx)
		return
	})
	g.Go(func() (err error) {
		d.TotalRevenue, err = s.orders.RevenueExcluding(gctx, domain.StatusCancelled)
		return
	})
	g.Go(func() (err error) {
		d.RecentOrders, err = s.orders.RecentOrders(gctx, recentLimit)
		return
	})
	g.Go(func() (err error) {
		d.RecentProducts, err = s.products.ListProducts(gctx, recentLimit)
		return
	})
	if err := g.Wait(); err != nil {
		return nil, fmt.Errorf("dashboard: %w", err)
	}
	d.Display.TotalRevenue = analytics.FormatCurrency(d.TotalRevenue)
	return d, nil
}

func (s *AnalyticsService) Invalidate() {
	s.mu.Lock()
	s.gen++
	s.cache = make(map[int]cachedReport)
	s.mu.Unlock()
}

// HandleChange drops cached reports when any instance mutates data.
func (s *AnalyticsService) HandleChange(_ context.Context, ev domain.ChangeEvent) {
	s.metrics.EventsConsumed.Inc()
	s.Invalidate()
	logger.Debug("analytics cache invalidated", "entity", ev.Entity, "id", ev.ID, "action", ev.Action)
}
