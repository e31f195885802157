package kafka

import (
	"context"

	"go.uber.org/zap"

	"github.com/SARVESHVARADKAR123/townsquare/internal/events"
	"github.com/SARVESHVARADKAR123/townsquare/internal/observability"
)

type publisher interface {
	Publish(ctx context.Context, topic string, payload []byte) error
}

// Relay forwards consumed events onto the realtime bus of this instance.
type Relay struct {
	Bus publisher
}

func (r Relay) Handle(ctx context.Context, ev events.Event) {
	if err := r.Bus.Publish(ctx, ev.Topic, ev.Payload); err != nil {
		observability.GetLogger(ctx).Error("relay to realtime bus failed",
			zap.String("topic", ev.Topic),
			zap.String("aggregate_id", events.AggregateID(ev.Topic)),
			zap.String("event_type", string(ev.Type)),
			zap.Error(err),
		)
	}
}
