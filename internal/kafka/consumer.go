package kafka

import (
	"context"
	"encoding/json"
	"os"
	"strings"
	"time"

	"github.com/RaikyD/store-admin/internal/domain"
	"github.com/RaikyD/store-admin/internal/logger"
	"github.com/google/uuid"
	"github.com/segmentio/kafka-go"
)

type ConsumerConfig struct {
	Brokers string
	Topic   string
	// GroupID is a prefix; every instance joins a group of its own so that
	// each one sees every change event.
	GroupID string
}

// Handler reacts to a change made by any instance.
type Handler interface {
	HandleChange(ctx context.Context, ev domain.ChangeEvent)
}

type messageReader interface {
	FetchMessage(ctx context.Context) (kafka.Message, error)
	CommitMessages(ctx context.Context, msgs ...kafka.Message) error
	Close() error
}

// InstanceGroupID derives a consumer group unique to this process from prefix.
func InstanceGroupID(prefix string) string {
	host, err := os.Hostname()
	if err != nil || host == "" {
		host = "local"
	}
	return prefix + "-" + host + "-" + uuid.NewString()[:8]
}

func StartConsumer(ctx context.Context, h Handler, cfg ConsumerConfig) *kafka.Reader {
	brokers := strings.Split(cfg.Brokers, ",")
	group := InstanceGroupID(cfg.GroupID)

	r := kafka.NewReader(kafka.ReaderConfig{
		Brokers:         brokers,
		GroupID:         group,
		Topic:           cfg.Topic,
		MinBytes:        1,
		MaxBytes:        10e6,
		CommitInterval:  0,
		StartOffset:     kafka.LastOffset,
		ReadLagInterval: -1,
	})

	logger.Info("kafka consumer starting", "brokers", cfg.Brokers, "topic", cfg.Topic, "group", group)

	go consume(ctx, r, h, 300*time.Millisecond)
	return r
}

func consume(ctx context.Context, r messageReader, h Handler, backoff time.Duration) {
	defer r.Close()

	for {
		m, err := r.FetchMessage(ctx)
		if err != nil {
			if ctx.Err() != nil {
				return
			}
			logger.Warn("kafka fetch error", "err", err)
			select {
			case <-ctx.Done():
				return
			case <-time.After(backoff):
			}
			continue
		}

		var ev domain.ChangeEvent
		if err = json.Unmarshal(m.Value, &ev); err != nil {
			logger.Warn("kafka invalid json. skip and commit", "err", err, "offset", m.Offset)
			_ = r.CommitMessages(ctx, m)
			continue
		}

		h.HandleChange(ctx, ev)

		if err := r.CommitMessages(ctx, m); err != nil {
			logger.Warn("[kafka] commit failed", "err", err)
		} else {
			logger.Debug("[kafka] committed", "topic", m.Topic, "partition", m.Partition, "offset", m.Offset, "entity", ev.Entity, "id", ev.ID)
		}
	}
}
