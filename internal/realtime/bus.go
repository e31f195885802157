package realtime

import (
	"context"

	"github.com/SARVESHVARADKAR123/townsquare/internal/events"
)

// Bus fans payloads out to every subscriber of a topic. Subscribe returns
// once the subscription is active; it stays active until ctx is done.
type Bus interface {
	Publish(ctx context.Context, topic string, payload []byte) error
	Subscribe(ctx context.Context, topic string, handler func([]byte)) error
}

// BusPublisher delivers outbox events straight onto a Bus.
type BusPublisher struct {
	Bus Bus
}

func (p BusPublisher) Publish(ctx context.Context, ev events.Event) error {
	return p.Bus.Publish(ctx, ev.Topic, ev.Payload)
}
