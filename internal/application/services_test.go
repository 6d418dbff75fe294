package application

import (
	"context"
	"errors"
	"io"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/RaikyD/store-admin/internal/domain"
	"github.com/RaikyD/store-admin/internal/metrics"
	"github.com/RaikyD/store-admin/internal/repository"
	"github.com/RaikyD/store-admin/internal/repository/memrepo"
	"github.com/RaikyD/store-admin/internal/validation"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakePublisher struct {
	mu     sync.Mutex
	events []domain.ChangeEvent
	err    error
}

func (p *fakePublisher) PublishChange(_ context.Context, ev domain.ChangeEvent) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.events = append(p.events, ev)
	return p.err
}

type countingCache struct{ n int }

func (c *countingCache) Invalidate() { c.n++ }

type fakeImages struct {
	key, filename, body string
}

func (f *fakeImages) Put(_ context.Context, key, filename, _ string, body io.Reader) (string, error) {
	b, _ := io.ReadAll(body)
	f.key, f.filename, f.body = key, filename, string(b)
	return "https://cdn.example.com/" + key, nil
}

func newNotifier(pub Publisher) (*ChangeNotifier, *countingCache) {
	cache := &countingCache{}
	return NewChangeNotifier(cache, pub, metrics.NewRegistry()), cache
}

func TestOrdersService_List(t *testing.T) {
	store := memrepo.New()
	store.AddOrders(
		domain.Order{ID: uuid.New(), OrderNumber: "A-100", Status: domain.StatusPending, CreatedAt: fixedNow},
		domain.Order{ID: uuid.New(), OrderNumber: "A-101", Status: domain.StatusShipped, CreatedAt: fixedNow.Add(time.Hour)},
		domain.Order{ID: uuid.New(), OrderNumber: "B-200", Status: domain.StatusPending, CreatedAt: fixedNow.Add(2 * time.Hour)},
	)
	notifier, _ := newNotifier(nil)
	svc := NewOrdersService(store, notifier)
	ctx := context.Background()

	all, err := svc.List(ctx, "all", "")
	require.NoError(t, err)
	assert.Len(t, all.Orders, 3)
	assert.Equal(t, "B-200", all.Orders[0].OrderNumber)
	assert.Equal(t, 2, all.Counts[domain.StatusPending])
	assert.Equal(t, 0, all.Counts[domain.StatusCancelled])

	pending, err := svc.List(ctx, "pending", "a-")
	require.NoError(t, err)
	require.Len(t, pending.Orders, 1)
	assert.Equal(t, "A-100", pending.Orders[0].OrderNumber)
	assert.Equal(t, 1, pending.Counts[domain.StatusShipped], "counts ignore the status filter")
	assert.Equal(t, 2, pending.Counts[domain.StatusPending], "counts ignore the search")

	searched, err := svc.List(ctx, "all", "b-2")
	require.NoError(t, err)
	require.Len(t, searched.Orders, 1)
	assert.Equal(t, "B-200", searched.Orders[0].OrderNumber)
	assert.Equal(t, map[domain.OrderStatus]int{
		domain.StatusPending:    2,
		domain.StatusProcessing: 0,
		domain.StatusShipped:    1,
		domain.StatusDelivered:  0,
		domain.StatusCancelled:  0,
	}, searched.Counts)

	_, err = svc.List(ctx, "lost", "")
	assert.ErrorIs(t, err, ErrInvalidStatus)
}

func TestOrdersService_Update(t *testing.T) {
	store := memrepo.New()
	id := uuid.New()
	store.AddOrders(domain.Order{ID: id, Status: domain.StatusPending, CreatedAt: fixedNow})
	pub := &fakePublisher{}
	notifier, cache := newNotifier(pub)
	svc := NewOrdersService(store, notifier)
	ctx := context.Background()

	status, notes := "shipped", "left the warehouse"
	o, err := svc.Update(ctx, id, OrderUpdate{Status: &status, Notes: &notes})
	require.NoError(t, err)
	assert.Equal(t, domain.StatusShipped, o.Status)
	require.NotNil(t, o.Notes)
	assert.Equal(t, notes, *o.Notes)

	assert.Equal(t, 1, cache.n)
	require.Len(t, pub.events, 1)
	assert.Equal(t, domain.EntityOrder, pub.events[0].Entity)
	assert.Equal(t, id, pub.events[0].ID)

	bad := "teleported"
	_, err = svc.Update(ctx, id, OrderUpdate{Status: &bad})
	assert.ErrorIs(t, err, ErrInvalidStatus)

	_, err = svc.Update(ctx, id, OrderUpdate{})
	assert.ErrorIs(t, err, ErrEmptyUpdate)

	_, err = svc.Update(ctx, uuid.New(), OrderUpdate{Status: &status})
	assert.ErrorIs(t, err, repository.ErrNotFound)
	assert.Equal(t, 1, cache.n, "failed updates do not invalidate")
}

func TestProductsService_CreateUpdateDelete(t *testing.T) {
	store := memrepo.New()
	pub := &fakePublisher{err: errors.New("kafka down")}
	notifier, cache := newNotifier(pub)
	svc := NewProductsService(store, nil, notifier)
	ctx := context.Background()

	p, err := svc.Create(ctx, validation.ProductForm{Name: "Diver", Price: "250.5", StockQuantity: "4", Brand: "Seiko"})
	require.NoError(t, err, "publish failures do not fail the mutation")
	assert.Equal(t, 250.5, p.Price)
	assert.True(t, p.IsActive)
	assert.Equal(t, 1, cache.n)

	off := false
	updated, err := svc.Update(ctx, p.ID, validation.ProductForm{Name: "Diver II", Price: "260", StockQuantity: "3", IsActive: &off})
	require.NoError(t, err)
	assert.False(t, updated.IsActive)

	got, err := svc.Get(ctx, p.ID)
	require.NoError(t, err)
	assert.Equal(t, "Diver II", got.Name)
	assert.Nil(t, got.Brand)

	require.NoError(t, svc.Delete(ctx, p.ID))
	assert.ErrorIs(t, svc.Delete(ctx, p.ID), repository.ErrNotFound)

	assert.Equal(t, 3, cache.n)
	require.Len(t, pub.events, 3)
	assert.Equal(t, []domain.Action{domain.ActionCreated, domain.ActionUpdated, domain.ActionDeleted},
		[]domain.Action{pub.events[0].Action, pub.events[1].Action, pub.events[2].Action})
}

func TestProductsService_ValidationErrors(t *testing.T) {
	store := memrepo.New()
	notifier, cache := newNotifier(nil)
	svc := NewProductsService(store, nil, notifier)

	_, err := svc.Create(context.Background(), validation.ProductForm{Price: "abc"})

	var verrs validation.Errors
	require.ErrorAs(t, err, &verrs)
	assert.Equal(t, "Product name is required", verrs["name"])
	assert.Contains(t, verrs, "price")
	assert.Contains(t, verrs, "stock_quantity")
	assert.Equal(t, 0, cache.n)

	list, err := svc.List(context.Background())
	require.NoError(t, err)
	assert.Empty(t, list)
}

func TestProductsService_UploadImage(t *testing.T) {
	store := memrepo.New()
	id := uuid.New()
	store.AddProducts(domain.Product{ID: id, Name: "Diver"})
	notifier, _ := newNotifier(nil)
	ctx := context.Background()

	_, err := NewProductsService(store, nil, notifier).UploadImage(ctx, id, "a.png", "image/png", strings.NewReader("x"))
	assert.ErrorIs(t, err, ErrImagesDisabled)

	images := &fakeImages{}
	svc := NewProductsService(store, images, notifier)

	p, err := svc.UploadImage(ctx, id, "a.png", "image/png", strings.NewReader("png-bytes"))
	require.NoError(t, err)
	require.NotNil(t, p.ImageURL)
	assert.True(t, strings.HasPrefix(*p.ImageURL, "https://cdn.example.com/"+id.String()))
	assert.Equal(t, "png-bytes", images.body)

	_, err = svc.UploadImage(ctx, uuid.New(), "a.png", "image/png", strings.NewReader("x"))
	assert.ErrorIs(t, err, repository.ErrNotFound)
}

func TestCustomersService_List(t *testing.T) {
	store := memrepo.New()
	ann, bob := "Ann Lee", "Bob Stone"
	a := domain.Customer{ID: uuid.New(), FullName: &ann}
	b := domain.Customer{ID: uuid.New(), FullName: &bob}
	store.AddCustomers(a, b)
	store.AddOrders(
		domain.Order{ID: uuid.New(), UserID: a.ID, Total: 10},
		domain.Order{ID: uuid.New(), UserID: a.ID, Total: 15},
	)
	svc := NewCustomersService(store, store)

	all, err := svc.List(context.Background(), "")
	require.NoError(t, err)
	require.Len(t, all, 2)
	assert.Equal(t, 2, all[0].Stats.OrderCount)
	assert.Equal(t, 25.0, all[0].Stats.TotalSpent)
	assert.Zero(t, all[1].Stats.OrderCount)

	found, err := svc.List(context.Background(), "STONE")
	require.NoError(t, err)
	require.Len(t, found, 1)
	assert.Equal(t, b.ID, found[0].ID)
}
