package memory

import (
	"context"

	"github.com/SARVESHVARADKAR123/townsquare/internal/outbox"
)

// ProcessBatch implements outbox.Store. Batches are processed one at a time.
func (s *Store) ProcessBatch(ctx context.Context, limit int, fn func(ctx context.Context, b outbox.Batch) error) error {
	s.batchMu.Lock()
	defer s.batchMu.Unlock()

	s.outboxMu.Lock()
	n := len(s.pending)
	if n > limit {
		n = limit
	}
	claimed := append([]outbox.Record(nil), s.pending[:n]...)
	s.outboxMu.Unlock()

	b := &batch{s: s, recs: claimed}
	return fn(ctx, b)
}

// Pending returns a snapshot of unpublished records.
func (s *Store) Pending() []outbox.Record {
	s.outboxMu.Lock()
	defer s.outboxMu.Unlock()
	return append([]outbox.Record(nil), s.pending...)
}

func (s *Store) DeadLetters() []outbox.Record {
	s.outboxMu.Lock()
	defer s.outboxMu.Unlock()
	return append([]outbox.Record(nil), s.dlq...)
}

type batch struct {
	s    *Store
	recs []outbox.Record
}

func (b *batch) Records() []outbox.Record { return b.recs }

func (b *batch) MarkProcessed(_ context.Context, id int64) error {
	b.s.outboxMu.Lock()
	defer b.s.outboxMu.Unlock()
	b.s.removePending(id)
	return nil
}

func (b *batch) RecordFailure(_ context.Context, id int64, _ string) error {
	b.s.outboxMu.Lock()
	defer b.s.outboxMu.Unlock()
	for i := range b.s.pending {
		if b.s.pending[i].ID == id {
			b.s.pending[i].RetryCount++
		}
	}
	return nil
}

func (b *batch) DeadLetter(_ context.Context, rec outbox.Record, _ string) error {
	b.s.outboxMu.Lock()
	defer b.s.outboxMu.Unlock()
	rec.RetryCount++
	b.s.dlq = append(b.s.dlq, rec)
	b.s.removePending(rec.ID)
	return nil
}

func (s *Store) removePending(id int64) {
	for i := range s.pending {
		if s.pending[i].ID == id {
			s.pending = append(s.pending[:i], s.pending[i+1:]...)
			return
		}
	}
}
