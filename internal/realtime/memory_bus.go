package realtime

import (
	"context"
	"sync"

	"go.uber.org/zap"

	"github.com/SARVESHVARADKAR123/townsquare/internal/observability"
)

const memoryQueueSize = 128

// MemoryBus is an in-process Bus for single-instance deployments and tests.
// Each subscriber has its own queue so a slow one never stalls publishers;
// when its queue is full further payloads for it are dropped.
type MemoryBus struct {
	mu     sync.RWMutex
	nextID uint64
	subs   map[string]map[uint64]chan []byte
}

func NewMemoryBus() *MemoryBus {
	return &MemoryBus{subs: map[string]map[uint64]chan []byte{}}
}

func (b *MemoryBus) Publish(ctx context.Context, topic string, payload []byte) error {
	b.mu.RLock()
	defer b.mu.RUnlock()
	for _, q := range b.subs[topic] {
		select {
		case q <- payload:
		default:
			observability.GetLogger(ctx).Warn("bus: subscriber queue full, dropping event", zap.String("topic", topic))
		}
	}
	return nil
}

func (b *MemoryBus) Subscribe(ctx context.Context, topic string, handler func([]byte)) error {
	q := make(chan []byte, memoryQueueSize)

	b.mu.Lock()
	b.nextID++
	id := b.nextID
	if b.subs[topic] == nil {
		b.subs[topic] = map[uint64]chan []byte{}
	}
	b.subs[topic][id] = q
	b.mu.Unlock()

	go func() {
		defer b.remove(topic, id)
		for {
			select {
			case <-ctx.Done():
				return
			case payload := <-q:
				handler(payload)
			}
		}
	}()
	return nil
}

func (b *MemoryBus) remove(topic string, id uint64) {
	b.mu.Lock()
	defer b.mu.Unlock()
	delete(b.subs[topic], id)
	if len(b.subs[topic]) == 0 {
		delete(b.subs, topic)
	}
}

// Subscribers reports the number of live subscriptions on topic.
func (b *MemoryBus) Subscribers(topic string) int {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return len(b.subs[topic])
}
