package application

import (
	"context"
	"time"

	"github.com/RaikyD/store-admin/internal/domain"
	"github.com/RaikyD/store-admin/internal/logger"
	"github.com/RaikyD/store-admin/internal/metrics"
	"github.com/google/uuid"
)

type Publisher interface {
	PublishChange(ctx context.Context, ev domain.ChangeEvent) error
}

type invalidator interface {
	Invalidate()
}

// ChangeNotifier drops the local analytics cache after a mutation and tells
// other instances to do the same. pub may be nil when Kafka is disabled.
type ChangeNotifier struct {
	cache   invalidator
	pub     Publisher
	metrics *metrics.Registry
}

func NewChangeNotifier(cache invalidator, pub Publisher, reg *metrics.Registry) *ChangeNotifier {
	if reg == nil {
		reg = metrics.NewRegistry()
	}
	return &ChangeNotifier{cache: cache, pub: pub, metrics: reg}
}

func (n *ChangeNotifier) Notify(ctx context.Context, entity domain.Entity, id uuid.UUID, action domain.Action) {
	n.cache.Invalidate()
	if n.pub == nil {
		return
	}

	ev := domain.ChangeEvent{Entity: entity, ID: id, Action: action, At: time.Now().UTC()}
	if err := n.pub.PublishChange(ctx, ev); err != nil {
		n.metrics.EventsPublished.WithLabelValues(string(entity), "error").Inc()
		logger.Warn("publish change failed", "entity", entity, "id", id, "err", err)
		return
	}
	n.metrics.EventsPublished.WithLabelValues(string(entity), "ok").Inc()
}
