package realtime

import (
	"context"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"github.com/SARVESHVARADKAR123/townsquare/internal/observability"
)

// RedisBus carries topics over redis pub/sub so every server instance sees
// every event.
type RedisBus struct {
	client *redis.Client
}

func NewRedisBus(client *redis.Client) *RedisBus {
	return &RedisBus{client: client}
}

func (b *RedisBus) channel(topic string) string {
	return "townsquare:" + topic
}

func (b *RedisBus) Publish(ctx context.Context, topic string, payload []byte) error {
	log := observability.GetLogger(ctx)
	log.Debug("publishing to topic", zap.String("topic", topic))
	return b.client.Publish(ctx, b.channel(topic), payload).Err()
}

func (b *RedisBus) Subscribe(ctx context.Context, topic string, handler func([]byte)) error {
	channelName := b.channel(topic)
	pubsub := b.client.Subscribe(ctx, channelName)

	// Wait for the subscribe confirmation so no event published after this
	// call returns is missed.
	if _, err := pubsub.Receive(ctx); err != nil {
		pubsub.Close()
		return err
	}

	go func() {
		log := observability.GetLogger(ctx)
		log.Debug("bus: subscribed to channel", zap.String("channel", channelName))
		defer pubsub.Close()

		ch := pubsub.Channel()
		for {
			select {
			case <-ctx.Done():
				log.Debug("bus: subscription loop stopping: context canceled", zap.String("channel", channelName))
				return
			case msg, ok := <-ch:
				if !ok {
					log.Warn("bus: pubsub channel closed", zap.String("channel", channelName))
					return
				}
				handler([]byte(msg.Payload))
			}
		}
	}()
	return nil
}
