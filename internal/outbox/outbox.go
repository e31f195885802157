package outbox

import (
	"context"
	"time"

	"github.com/SARVESHVARADKAR123/townsquare/internal/events"
)

// Record is a pending outbox row.
type Record struct {
	ID         int64
	Topic      string
	EventType  events.Type
	Payload    []byte
	CreatedAt  time.Time
	RetryCount int
}

func (r Record) Event() events.Event {
	return events.Event{Topic: r.Topic, Type: r.EventType, Payload: r.Payload}
}

// Batch is a set of claimed records. Claims are held until the enclosing
// ProcessBatch call returns.
type Batch interface {
	Records() []Record
	MarkProcessed(ctx context.Context, id int64) error
	RecordFailure(ctx context.Context, id int64, reason string) error
	DeadLetter(ctx context.Context, rec Record, reason string) error
}

type Store interface {
	// ProcessBatch claims up to limit pending records, oldest first, and
	// commits whatever fn recorded unless fn fails.
	ProcessBatch(ctx context.Context, limit int, fn func(ctx context.Context, b Batch) error) error
}

type Publisher interface {
	Publish(ctx context.Context, ev events.Event) error
}
