package outbox

import (
	"context"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/SARVESHVARADKAR123/townsquare/internal/observability"
)

type Worker struct {
	Store       Store
	Publisher   Publisher
	ServiceName string
	BatchSize   int
	PollDelay   time.Duration
	MaxRetries  int
}

// Start runs until ctx is cancelled.
func (w *Worker) Start(ctx context.Context) {

	log := observability.GetLogger(ctx)
	for {
		n, err := w.processBatch(ctx)
		if err != nil {
			log.Error("outbox error", zap.Error(err))
		}

		if n > 0 && err == nil {
			if ctx.Err() != nil {
				return
			}
			continue
		}

		delay := w.PollDelay
		if err != nil {
			delay = time.Second
		}
		select {
		case <-ctx.Done():
			return
		case <-time.After(delay):
		}
	}
}

// processBatch publishes records in order and stops at the first failure so
// later records of the same topic are not delivered ahead of it.
func (w *Worker) processBatch(ctx context.Context) (int, error) {
	batchSize := w.BatchSize
	if batchSize <= 0 {
		batchSize = 100
	}
	maxRetries := w.MaxRetries
	if maxRetries == 0 {
		maxRetries = 3 // default
	}

	var published int
	var batchErr error

	err := w.Store.ProcessBatch(ctx, batchSize, func(ctx context.Context, b Batch) error {
		for _, rec := range b.Records() {
			if err := w.Publisher.Publish(ctx, rec.Event()); err != nil {
				observability.OutboxPublishFailuresTotal.WithLabelValues(w.ServiceName, string(rec.EventType)).Inc()

				if rec.RetryCount >= maxRetries {
					if dbErr := b.DeadLetter(ctx, rec, err.Error()); dbErr != nil {
						return dbErr
					}
					observability.OutboxDeadLetteredTotal.WithLabelValues(w.ServiceName, string(rec.EventType)).Inc()
				} else if dbErr := b.RecordFailure(ctx, rec.ID, err.Error()); dbErr != nil {
					return dbErr
				}

				batchErr = fmt.Errorf("publish outbox event %d: %w", rec.ID, err)
				break
			}

			if err := b.MarkProcessed(ctx, rec.ID); err != nil {
				return err
			}
			published++
		}
		return nil
	})
	if err != nil {
		return published, err
	}
	return published, batchErr
}
