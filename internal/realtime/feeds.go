package realtime

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"github.com/SARVESHVARADKAR123/townsquare/internal/domain"
	"github.com/SARVESHVARADKAR123/townsquare/internal/events"
	"github.com/SARVESHVARADKAR123/townsquare/internal/observability"
)

const subscriptionBuffer = 16

// Feeds turns bus topics into typed subscriptions.
type Feeds struct {
	Bus Bus
}

func NewFeeds(bus Bus) *Feeds {
	return &Feeds{Bus: bus}
}

func (f *Feeds) Messages(ctx context.Context, id domain.ConversationID) (*Subscription[*domain.Message], error) {
	return subscribe(ctx, f.Bus, events.MessagesTopic(id), "messages", events.Envelope.Message)
}

func (f *Feeds) Comments(ctx context.Context, id domain.PostID) (*Subscription[*domain.Comment], error) {
	return subscribe(ctx, f.Bus, events.CommentsTopic(id), "comments", events.Envelope.Comment)
}

func (f *Feeds) ReadReceipts(ctx context.Context, id domain.ConversationID) (*Subscription[domain.ReadPosition], error) {
	return subscribe(ctx, f.Bus, events.ReceiptsTopic(id), "read_receipts", events.Envelope.ReadPosition)
}

func subscribe[T any](
	ctx context.Context,
	bus Bus,
	topic, feed string,
	decode func(events.Envelope) (T, error),
) (*Subscription[T], error) {

	subCtx, cancel := context.WithCancel(ctx)
	sub := newSubscription[T](cancel, subscriptionBuffer)
	log := observability.GetLogger(ctx).With(zap.String("topic", topic))

	handler := func(payload []byte) {
		env, err := events.Decode(payload)
		if err != nil {
			log.Warn("dropping undecodable event", zap.Error(err))
			return
		}
		v, err := decode(env)
		if err != nil {
			log.Warn("dropping event of unexpected type", zap.Error(err))
			return
		}
		if sub.deliver(v) {
			observability.RealtimeEventsTotal.WithLabelValues(feed).Inc()
		}
	}

	if err := bus.Subscribe(subCtx, topic, handler); err != nil {
		cancel()
		return nil, fmt.Errorf("failed to subscribe to %s: %w", topic, err)
	}

	observability.ActiveSubscriptions.WithLabelValues(feed).Inc()
	go func() {
		select {
		case <-ctx.Done():
			sub.Unsubscribe()
		case <-sub.done:
		}
		observability.ActiveSubscriptions.WithLabelValues(feed).Dec()
	}()

	return sub, nil
}
