package realtime

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/SARVESHVARADKAR123/townsquare/internal/domain"
	"github.com/SARVESHVARADKAR123/townsquare/internal/events"
)

var at = time.Date(2024, 4, 4, 4, 4, 0, 0, time.UTC)

func receive[T any](t *testing.T, sub *Subscription[T]) T {
	t.Helper()
	select {
	case v, ok := <-sub.Events():
		require.True(t, ok, "subscription closed")
		return v
	case <-time.After(2 * time.Second):
		t.Fatal("timed out waiting for event")
	}
	var zero T
	return zero
}

func publishMessage(t *testing.T, pub BusPublisher, conv domain.ConversationID, body string) *domain.Message {
	t.Helper()
	msg := domain.NewMessage(domain.NewMessageID(), conv, domain.UserID(uuid.NewString()), domain.RestoreMessageBody(body), at)
	ev, err := events.NewMessageSent(msg)
	require.NoError(t, err)
	require.NoError(t, pub.Publish(context.Background(), ev))
	return msg
}

func TestFeeds_MessagesOverMemoryBus(t *testing.T) {
	bus := NewMemoryBus()
	feeds := NewFeeds(bus)
	conv := domain.NewConversationID()

	sub, err := feeds.Messages(context.Background(), conv)
	require.NoError(t, err)
	defer sub.Unsubscribe()

	// other conversations are not delivered
	publishMessage(t, BusPublisher{Bus: bus}, domain.NewConversationID(), "elsewhere")
	sent := publishMessage(t, BusPublisher{Bus: bus}, conv, "hello")

	got := receive(t, sub)
	assert.True(t, domain.SameEntity(sent, got))
	assert.Equal(t, "hello", got.Body().String())
}

func TestFeeds_ReadReceiptsIgnoreForeignEventTypes(t *testing.T) {
	bus := NewMemoryBus()
	feeds := NewFeeds(bus)
	conv := domain.NewConversationID()

	sub, err := feeds.ReadReceipts(context.Background(), conv)
	require.NoError(t, err)
	defer sub.Unsubscribe()

	// a message event on the receipts topic is dropped
	msg := domain.NewMessage(domain.NewMessageID(), conv, "u", domain.RestoreMessageBody("x"), at)
	ev, err := events.NewMessageSent(msg)
	require.NoError(t, err)
	require.NoError(t, bus.Publish(context.Background(), events.ReceiptsTopic(conv), ev.Payload))
	require.NoError(t, bus.Publish(context.Background(), events.ReceiptsTopic(conv), []byte("garbage")))

	pos := domain.NewReadPosition(conv, domain.UserID(uuid.NewString()), at)
	ev, err = events.NewReadPositionChanged(pos)
	require.NoError(t, err)
	require.NoError(t, BusPublisher{Bus: bus}.Publish(context.Background(), ev))

	assert.True(t, pos.Equal(receive(t, sub)))
}

func TestSubscription_UnsubscribeIsIdempotent(t *testing.T) {
	bus := NewMemoryBus()
	feeds := NewFeeds(bus)
	postID := domain.NewPostID()
	topic := events.CommentsTopic(postID)

	sub, err := feeds.Comments(context.Background(), postID)
	require.NoError(t, err)
	assert.Equal(t, 1, bus.Subscribers(topic))

	var wg sync.WaitGroup
	for i := 0; i < 10; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			sub.Unsubscribe()
		}()
	}
	wg.Wait()

	_, open := <-sub.Events()
	assert.False(t, open)
	assert.Eventually(t, func() bool { return bus.Subscribers(topic) == 0 }, time.Second, 5*time.Millisecond)

	// publishing after unsubscribe is harmless
	assert.NoError(t, bus.Publish(context.Background(), topic, []byte("{}")))
}

func TestSubscription_EndsWithContext(t *testing.T) {
	bus := NewMemoryBus()
	feeds := NewFeeds(bus)

	ctx, cancel := context.WithCancel(context.Background())
	sub, err := feeds.Messages(ctx, domain.NewConversationID())
	require.NoError(t, err)

	cancel()

	select {
	case _, open := <-sub.Events():
		assert.False(t, open)
	case <-time.After(2 * time.Second):
		t.Fatal("subscription not closed after context cancel")
	}
}

func TestRedisBus_FansOutAcrossSubscribers(t *testing.T) {
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { client.Close() })

	bus := NewRedisBus(client)
	feeds := NewFeeds(bus)
	conv := domain.NewConversationID()

	first, err := feeds.Messages(context.Background(), conv)
	require.NoError(t, err)
	defer first.Unsubscribe()
	second, err := feeds.Messages(context.Background(), conv)
	require.NoError(t, err)
	defer second.Unsubscribe()

	sent := publishMessage(t, BusPublisher{Bus: bus}, conv, "over redis")

	assert.True(t, domain.SameEntity(sent, receive(t, first)))
	assert.True(t, domain.SameEntity(sent, receive(t, second)))
}
