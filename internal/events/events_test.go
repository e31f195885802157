package events

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/SARVESHVARADKAR123/townsquare/internal/domain"
)

var at = time.Date(2024, 3, 9, 10, 30, 0, 0, time.UTC)

func TestMessageSent_Decode(t *testing.T) {
	conv := domain.NewConversationID()
	msg := domain.NewMessage(domain.NewMessageID(), conv, "0b6f2f3c-7d59-4f8e-9a34-1f5b3c3f5a10", domain.RestoreMessageBody("hi"), at)

	ev, err := NewMessageSent(msg)
	require.NoError(t, err)
	assert.Equal(t, "messages:"+string(conv), ev.Topic)
	assert.Equal(t, MessageSent, ev.Type)
	assert.Equal(t, string(conv), AggregateID(ev.Topic))

	env, err := Decode(ev.Payload)
	require.NoError(t, err)
	assert.Equal(t, 1, env.SchemaVersion)

	got, err := env.Message()
	require.NoError(t, err)
	assert.True(t, domain.SameEntity(msg, got))
	assert.Equal(t, "hi", got.Body().String())
	assert.True(t, at.Equal(got.CreatedAt()))

	_, err = env.Comment()
	assert.ErrorIs(t, err, ErrUnknownEvent)
}

func TestReadPositionChanged_Topic(t *testing.T) {
	conv := domain.NewConversationID()
	pos := domain.NewReadPosition(conv, "0b6f2f3c-7d59-4f8e-9a34-1f5b3c3f5a10", at)

	ev, err := NewReadPositionChanged(pos)
	require.NoError(t, err)
	assert.Equal(t, ReceiptsTopic(conv), ev.Topic)

	env, err := Decode(ev.Payload)
	require.NoError(t, err)
	got, err := env.ReadPosition()
	require.NoError(t, err)
	assert.True(t, pos.Equal(got))
}

func TestDecode_RejectsUnknown(t *testing.T) {
	_, err := Decode([]byte(`{"event_type":"USER_BANNED","payload":{}}`))
	assert.ErrorIs(t, err, ErrUnknownEvent)

	_, err = Decode([]byte(`not json`))
	assert.Error(t, err)
}
