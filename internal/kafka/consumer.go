package kafka

import (
	"context"
	"errors"
	"fmt"

	"github.com/twmb/franz-go/pkg/kgo"
	"go.opentelemetry.io/otel"
	"go.uber.org/zap"

	"github.com/SARVESHVARADKAR123/townsquare/internal/events"
	"github.com/SARVESHVARADKAR123/townsquare/internal/observability"
)

type Handler interface {
	Handle(ctx context.Context, ev events.Event)
}

type kgoRecordCarrier struct {
	record *kgo.Record
}

func (c kgoRecordCarrier) Get(key string) string {
	for _, h := range c.record.Headers {
		if h.Key == key {
			return string(h.Value)
		}
	}
	return ""
}

func (c kgoRecordCarrier) Set(key string, value string) {
	// Not needed for consumer
}

func (c kgoRecordCarrier) Keys() []string {
	keys := make([]string, 0, len(c.record.Headers))
	for _, h := range c.record.Headers {
		keys = append(keys, h.Key)
	}
	return keys
}

var errMissingTopic = errors.New("record has no realtime topic")

// eventFromRecord rebuilds the outbox event carried by a record. The
// realtime topic comes from its header, falling back to the record key.
func eventFromRecord(r *kgo.Record) (events.Event, error) {
	c := kgoRecordCarrier{record: r}
	topic := c.Get(headerTopic)
	if topic == "" {
		topic = string(r.Key)
	}
	if topic == "" {
		return events.Event{}, errMissingTopic
	}
	return events.Event{
		Topic:   topic,
		Type:    events.Type(c.Get(headerEventType)),
		Payload: r.Value,
	}, nil
}

type Consumer struct {
	client  *kgo.Client
	handler Handler
}

func NewConsumer(brokers []string, group, topic string, handler Handler) (*Consumer, error) {
	cl, err := kgo.NewClient(
		kgo.SeedBrokers(brokers...),
		kgo.ConsumerGroup(group),
		kgo.ConsumeTopics(topic),
		kgo.OnPartitionsRevoked(func(ctx context.Context, _ *kgo.Client, _ map[string][]int32) {
			observability.GetLogger(ctx).Info("kafka partitions revoked")
		}),
		kgo.OnPartitionsAssigned(func(ctx context.Context, _ *kgo.Client, _ map[string][]int32) {
			observability.GetLogger(ctx).Info("kafka partitions assigned")
		}),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create kafka consumer: %w", err)
	}
	return &Consumer{client: cl, handler: handler}, nil
}

func (c *Consumer) Start(ctx context.Context) {
	go func() {
		log := observability.GetLogger(ctx)
		log.Info("kafka consumer started")
		for {
			select {
			case <-ctx.Done():
				log.Info("kafka consumer loop stopping: context canceled")
				return
			default:
				fetches := c.client.PollFetches(ctx)
				if errs := fetches.Errors(); len(errs) > 0 {
					for _, ferr := range errs {
						if errors.Is(ferr.Err, context.Canceled) {
							return
						}
						log.Error("kafka fetch error", zap.String("topic", ferr.Topic), zap.Int32("partition", ferr.Partition), zap.Error(ferr.Err))
					}
					continue
				}

				fetches.EachRecord(func(r *kgo.Record) {
					ev, err := eventFromRecord(r)
					if err != nil {
						log.Warn("skipping kafka record", zap.Int64("offset", r.Offset), zap.Error(err))
						return
					}
					// Extract trace context
					ctx := otel.GetTextMapPropagator().Extract(ctx, kgoRecordCarrier{record: r})
					c.handler.Handle(ctx, ev)
				})
			}
		}
	}()
}

func (c *Consumer) Close() {
	if c.client != nil {
		c.client.Close()
	}
}
