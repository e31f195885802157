package kafka

import (
	"context"
	"time"

	"github.com/segmentio/kafka-go"
	"go.opentelemetry.io/otel"

	"github.com/SARVESHVARADKAR123/townsquare/internal/events"
)

const (
	headerEventType = "event-type"
	headerTopic     = "realtime-topic"
)

// messageWriter is the part of *kafka.Writer the producer uses.
type messageWriter interface {
	WriteMessages(ctx context.Context, msgs ...kafka.Message) error
	Close() error
}

// Producer publishes outbox events to a single Kafka topic keyed by the
// realtime topic, so events of one conversation or post stay ordered.
type Producer struct {
	w messageWriter
}

func NewProducer(brokers []string, topic string) *Producer {
	return &Producer{
		w: &kafka.Writer{
			Addr:         kafka.TCP(brokers...),
			Topic:        topic,
			Balancer:     &kafka.Hash{},
			RequiredAcks: kafka.RequireAll,
			BatchTimeout: 10 * time.Millisecond,
		},
	}
}

type kafkaHeaderCarrier struct {
	headers *[]kafka.Header
}

func (c kafkaHeaderCarrier) Get(key string) string {
	for _, h := range *c.headers {
		if h.Key == key {
			return string(h.Value)
		}
	}
	return ""
}

func (c kafkaHeaderCarrier) Set(key string, value string) {
	*c.headers = append(*c.headers, kafka.Header{
		Key:   key,
		Value: []byte(value),
	})
}

func (c kafkaHeaderCarrier) Keys() []string {
	keys := make([]string, 0, len(*c.headers))
	for _, h := range *c.headers {
		keys = append(keys, h.Key)
	}
	return keys
}

func (p *Producer) Publish(ctx context.Context, ev events.Event) error {
	headers := []kafka.Header{
		{Key: headerEventType, Value: []byte(ev.Type)},
		{Key: headerTopic, Value: []byte(ev.Topic)},
	}
	otel.GetTextMapPropagator().Inject(ctx, kafkaHeaderCarrier{headers: &headers})

	return p.w.WriteMessages(ctx, kafka.Message{
		Key:     []byte(ev.Topic),
		Value:   ev.Payload,
		Headers: headers,
	})
}

// Close flushes pending writes and closes the writer.
func (p *Producer) Close() error { return p.w.Close() }
