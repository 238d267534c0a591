package queue

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/rs/zerolog"

	"github.com/storefront/catalog-api/internal/core/domain"
)

type recordingPublisher struct {
	mu     sync.Mutex
	events []domain.ProductEvent
	fail   bool
	done   chan struct{}
	want   int
}

func newRecordingPublisher(want int) *recordingPublisher {
	return &recordingPublisher{done: make(chan struct{}), want: want}
}

func (p *recordingPublisher) Publish(_ context.Context, e domain.ProductEvent) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.events = append(p.events, e)
	if len(p.events) == p.want {
		close(p.done)
	}
	if p.fail {
		return errors.New("broker down")
	}
	return nil
}

func (p *recordingPublisher) snapshot() []domain.ProductEvent {
	p.mu.Lock()
	defer p.mu.Unlock()
	return append([]domain.ProductEvent(nil), p.events...)
}

func (p *recordingPublisher) wait(t *testing.T) {
	t.Helper()
	select {
	case <-p.done:
	case <-time.After(2 * time.Second):
		t.Fatalf("timed out waiting for %d events, got %d", p.want, len(p.snapshot()))
	}
}

func TestDispatcher_PreservesPerProductOrder(t *testing.T) {
	pub := newRecordingPublisher(6)
	d := NewDispatcher(3, pub, zerolog.Nop())

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	d.Start(ctx)

	sequence := []domain.ProductEventType{
		domain.ProductCreated, domain.ProductUpdated, domain.ProductDeleted,
	}
	for _, typ := range sequence {
		d.Enqueue(domain.ProductEvent{Type: typ, ProductID: 7})
		d.Enqueue(domain.ProductEvent{Type: typ, ProductID: 8})
	}
	pub.wait(t)

	byProduct := map[int64][]domain.ProductEventType{}
	for _, e := range pub.snapshot() {
		byProduct[e.ProductID] = append(byProduct[e.ProductID], e.Type)
	}
	for _, id := range []int64{7, 8} {
		got := byProduct[id]
		if len(got) != len(sequence) {
			t.Fatalf("product %d: expected %d events, got %d", id, len(sequence), len(got))
		}
		for i := range sequence {
			if got[i] != sequence[i] {
				t.Fatalf("product %d: event %d = %s, want %s", id, i, got[i], sequence[i])
			}
		}
	}
}

func TestDispatcher_RunDrainsOnShutdown(t *testing.T) {
	pub := newRecordingPublisher(3)
	d := NewDispatcher(1, pub, zerolog.Nop())

	for i := int64(1); i <= 3; i++ {
		d.Enqueue(domain.ProductEvent{Type: domain.ProductCreated, ProductID: i})
	}

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	if err := d.Run(ctx); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	got := pub.snapshot()
	if len(got) != 3 {
		t.Fatalf("expected 3 drained events, got %d", len(got))
	}
	for i, e := range got {
		if e.ProductID != int64(i+1) {
			t.Fatalf("event %d has product %d, want %d", i, e.ProductID, i+1)
		}
	}
}

func TestDispatcher_EnqueueNeverBlocks(t *testing.T) {
	d := NewDispatcher(1, newRecordingPublisher(-1), zerolog.Nop())

	done := make(chan struct{})
	go func() {
		for i := 0; i < channelBuffer+10; i++ {
			d.Enqueue(domain.ProductEvent{Type: domain.ProductCreated, ProductID: 1})
		}
		close(done)
	}()

	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("Enqueue blocked on a full worker channel")
	}
	if n := len(d.workers[0]); n != channelBuffer {
		t.Fatalf("expected a full buffer of %d, got %d", channelBuffer, n)
	}
}

func TestDispatcher_PublishErrorDoesNotStopWorker(t *testing.T) {
	pub := newRecordingPublisher(2)
	pub.fail = true
	d := NewDispatcher(1, pub, zerolog.Nop())

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	d.Start(ctx)

	d.Enqueue(domain.ProductEvent{Type: domain.ProductCreated, ProductID: 1})
	d.Enqueue(domain.ProductEvent{Type: domain.ProductDeleted, ProductID: 1})
	pub.wait(t)
}

func TestDispatcher_ShardIndexIsStable(t *testing.T) {
	d := NewDispatcher(0, newRecordingPublisher(-1), zerolog.Nop())
	if len(d.workers) != defaultWorkers {
		t.Fatalf("expected %d workers, got %d", defaultWorkers, len(d.workers))
	}
	for id := int64(-5); id < 50; id++ {
		first := d.shardIndex(id)
		if first < 0 || first >= len(d.workers) {
			t.Fatalf("shard %d out of range for id %d", first, id)
		}
		if again := d.shardIndex(id); again != first {
			t.Fatalf("shard for id %d changed from %d to %d", id, first, again)
		}
	}
}
