package application

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/RaikyD/store-admin/internal/domain"
	"github.com/RaikyD/store-admin/internal/metrics"
	"github.com/RaikyD/store-admin/internal/repository/memrepo"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var fixedNow = time.Date(2026, 3, 20, 12, 0, 0, 0, time.UTC)

func newAnalytics(t *testing.T, store *memrepo.Store, ttl time.Duration) *AnalyticsService {
	t.Helper()
	s := NewAnalyticsService(store, store, store, metrics.NewRegistry(), time.UTC, ttl)
	s.now = func() time.Time { return fixedNow }
	return s
}

func seed(store *memrepo.Store) domain.Product {
	watch := domain.Product{ID: uuid.New(), Name: "Watch", Price: 100, CreatedAt: fixedNow.AddDate(0, -1, 0)}
	store.AddProducts(watch)
	store.AddCustomers(domain.Customer{ID: uuid.New()}, domain.Customer{ID: uuid.New()})
	store.AddOrders(
		domain.Order{ID: uuid.New(), Status: domain.StatusPending, Total: 100, CreatedAt: fixedNow.AddDate(0, 0, -2),
			Items: []domain.OrderItem{{ProductID: watch.ID, Quantity: 1, TotalPrice: 100}}},
		domain.Order{ID: uuid.New(), Status: domain.StatusDelivered, Total: 200, CreatedAt: fixedNow.AddDate(0, 0, -2).Add(time.Hour),
			Items: []domain.OrderItem{{ProductID: watch.ID, Quantity: 2, TotalPrice: 200}}},
		domain.Order{ID: uuid.New(), Status: domain.StatusPending, Total: 50, CreatedAt: fixedNow.AddDate(0, 0, -1)},
		// previous 7-day window
		domain.Order{ID: uuid.New(), Status: domain.StatusShipped, Total: 100, CreatedAt: fixedNow.AddDate(0, 0, -10)},
		// outside both windows
		domain.Order{ID: uuid.New(), Status: domain.StatusShipped, Total: 999, CreatedAt: fixedNow.AddDate(0, 0, -30)},
	)
	return watch
}

func TestAnalyticsService_Report(t *testing.T) {
	store := memrepo.New()
	watch := seed(store)
	svc := newAnalytics(t, store, time.Minute)

	r, err := svc.Report(context.Background(), 7)
	require.NoError(t, err)

	assert.Equal(t, 7, r.RangeDays)
	assert.Equal(t, 350.0, r.Summary.TotalRevenue)
	assert.Equal(t, 3, r.Summary.TotalOrders)
	assert.Equal(t, 2, r.Summary.TotalCustomers)
	require.Len(t, r.DailyRevenueData, 2)
	assert.Equal(t, "3/18/2026", r.DailyRevenueData[0].Date)
	require.Len(t, r.TopProducts, 1)
	assert.Equal(t, watch.ID, r.TopProducts[0].ID)
	assert.Equal(t, 3, r.TopProducts[0].Sales)

	assert.Equal(t, 250.0, r.Growth.Revenue)
	assert.Equal(t, 200.0, r.Growth.Orders)
	assert.Equal(t, "$350.00", r.Display.TotalRevenue)
	assert.Equal(t, "$116.67", r.Display.AvgOrderValue)
	assert.Equal(t, "+250.0%", r.Display.RevenueGrowth)
}

func TestAnalyticsService_ReportCaching(t *testing.T) {
	store := memrepo.New()
	seed(store)
	svc := newAnalytics(t, store, time.Minute)
	ctx := context.Background()

	first, err := svc.Report(ctx, 7)
	require.NoError(t, err)
	calls := store.Calls

	second, err := svc.Report(ctx, 7)
	require.NoError(t, err)
	assert.Same(t, first, second)
	assert.Equal(t, calls, store.Calls, "cached report must not hit the store")

	svc.HandleChange(ctx, domain.ChangeEvent{Entity: domain.EntityOrder, ID: uuid.New()})
	third, err := svc.Report(ctx, 7)
	require.NoError(t, err)
	assert.NotSame(t, first, third)
	assert.Greater(t, store.Calls, calls)

	svc.now = func() time.Time { return fixedNow.Add(2 * time.Minute) }
	calls = store.Calls
	_, err = svc.Report(ctx, 7)
	require.NoError(t, err)
	assert.Greater(t, store.Calls, calls, "expired entry is recomputed")
}

func TestAnalyticsService_ConcurrentReports(t *testing.T) {
	store := memrepo.New()
	seed(store)
	svc := newAnalytics(t, store, time.Minute)

	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func(days int) {
			defer wg.Done()
			_, err := svc.Report(context.Background(), days)
			assert.NoError(t, err)
			svc.Invalidate()
		}(i%3 + 1)
	}
	wg.Wait()
}

func TestAnalyticsService_Errors(t *testing.T) {
	store := memrepo.New()
	svc := newAnalytics(t, store, 0)
	ctx := context.Background()

	_, err := svc.Report(ctx, 0)
	assert.ErrorIs(t, err, ErrInvalidRange)
	_, err = svc.FetchAnalyticsData(ctx, 4000)
	assert.ErrorIs(t, err, ErrInvalidRange)
	_, err = svc.Monthly(ctx, 0)
	assert.ErrorIs(t, err, ErrInvalidRange)

	boom := errors.New("db down")
	store.Err = boom
	_, err = svc.Report(ctx, 30)
	assert.ErrorIs(t, err, boom)
}

func TestAnalyticsService_EmptyStore(t *testing.T) {
	svc := newAnalytics(t, memrepo.New(), 0)

	r, err := svc.Report(context.Background(), 30)
	require.NoError(t, err)

	assert.Empty(t, r.DailyRevenueData)
	assert.Empty(t, r.StatusDistribution)
	assert.Empty(t, r.TopProducts)
	assert.Zero(t, r.Summary.AvgOrderValue)
	assert.Equal(t, "+0.0%", r.Display.RevenueGrowth)
}

func TestAnalyticsService_FetchAnalyticsData(t *testing.T) {
	store := memrepo.New()
	seed(store)
	svc := newAnalytics(t, store, 0)

	data, err := svc.FetchAnalyticsData(context.Background(), 7)
	require.NoError(t, err)

	assert.Len(t, data.Orders, 3)
	assert.Len(t, data.Products, 1)
	assert.Len(t, data.Customers, 2)
}

func TestAnalyticsService_Monthly(t *testing.T) {
	store := memrepo.New()
	seed(store)
	svc := newAnalytics(t, store, 0)

	got, err := svc.Monthly(context.Background(), 2)
	require.NoError(t, err)

	require.Len(t, got, 2)
	assert.Equal(t, "Feb 2026", got[0].Month)
	assert.Equal(t, 999.0, got[0].Revenue)
	assert.Equal(t, "Mar 2026", got[1].Month)
	assert.Equal(t, 450.0, got[1].Revenue)
	assert.Equal(t, 4, got[1].Orders)
}

func TestAnalyticsService_Dashboard(t *testing.T) {
	store := memrepo.New()
	seed(store)
	store.AddOrders(domain.Order{ID: uuid.New(), Status: domain.StatusCancelled, Total: 500, CreatedAt: fixedNow})
	svc := newAnalytics(t, store, 0)

	d, err := svc.Dashboard(context.Background())
	require.NoError(t, err)

	assert.Equal(t, 6, d.TotalOrders)
	assert.Equal(t, 1, d.TotalProducts)
	assert.Equal(t, 2, d.TotalCustomers)
	assert.Equal(t, 1449.0, d.TotalRevenue)
	assert.Equal(t, "$1,449.00", d.Display.TotalRevenue)
	assert.Len(t, d.RecentOrders, 5)
	assert.Equal(t, domain.StatusCancelled, d.RecentOrders[0].Status)
}

// stallingOrders pauses the current-window read after it has loaded its rows.
type stallingOrders struct {
	*memrepo.Store
	once    sync.Once
	loaded  chan struct{}
	release chan struct{}
}

func (s *stallingOrders) ListOrdersBetween(ctx context.Context, from, to time.Time) ([]domain.Order, error) {
	orders, err := s.Store.ListOrdersBetween(ctx, from, to)
	if to.Equal(fixedNow) {
		s.once.Do(func() {
			close(s.loaded)
			<-s.release
		})
	}
	return orders, err
}

func TestAnalyticsService_InvalidateDuringReport(t *testing.T) {
	store := memrepo.New()
	store.AddOrders(domain.Order{ID: uuid.New(), Status: domain.StatusPending, Total: 10, CreatedAt: fixedNow.AddDate(0, 0, -1)})
	orders := &stallingOrders{Store: store, loaded: make(chan struct{}), release: make(chan struct{})}

	svc := NewAnalyticsService(orders, store, store, metrics.NewRegistry(), time.UTC, time.Minute)
	svc.now = func() time.Time { return fixedNow }
	ctx := context.Background()

	done := make(chan *Report, 1)
	go func() {
		r, err := svc.Report(ctx, 7)
		assert.NoError(t, err)
		done <- r
	}()

	<-orders.loaded
	store.AddOrders(domain.Order{ID: uuid.New(), Status: domain.StatusPending, Total: 20, CreatedAt: fixedNow.AddDate(0, 0, -1)})
	svc.Invalidate()
	close(orders.release)

	stale := <-done
	require.NotNil(t, stale)
	assert.Equal(t, 1, stale.Summary.TotalOrders)

	fresh, err := svc.Report(ctx, 7)
	require.NoError(t, err)
	assert.Equal(t, 2, fresh.Summary.TotalOrders)
	assert.Equal(t, 30.0, fresh.Summary.TotalRevenue)
}

func TestAnalyticsService_NilRegistry(t *testing.T) {
	store := memrepo.New()
	seed(store)
	svc := NewAnalyticsService(store, store, store, nil, nil, time.Minute)
	svc.now = func() time.Time { return fixedNow }

	r, err := svc.Report(context.Background(), 7)
	require.NoError(t, err)
	assert.Equal(t, 3, r.Summary.TotalOrders)
	svc.HandleChange(context.Background(), domain.ChangeEvent{Entity: domain.EntityOrder})
}
