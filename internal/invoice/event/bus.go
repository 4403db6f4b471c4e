package event

import (
	"context"
	"errors"
	"sync"

	"github.com/phoenixsheppard28/vendorcafe-csv/internal/invoice/entity"
)

var (
	ErrBusClosed = errors.New("event bus is closed")
	ErrBusFull   = errors.New("event bus is full")
)

// Bus is a bounded in-process queue of aggregation events. Publish never
// blocks the caller: when the buffer is full the event is rejected.
type Bus struct {
	mu     sync.RWMutex
	closed bool
	ch     chan entity.AggregationEvent
}

func NewBus(buffer int) *Bus {
	if buffer < 1 {
		buffer = 1
	}

	return &Bus{
		ch: make(chan entity.AggregationEvent, buffer),
	}
}

func (b *Bus) Publish(ctx context.Context, event entity.AggregationEvent) error {
	b.mu.RLock()
	defer b.mu.RUnlock()

	if b.closed {
		return ErrBusClosed
	}

	if err := ctx.Err(); err != nil {
		return err
	}

	select {
	case b.ch <- event:
		return nil
	default:
		return ErrBusFull
	}
}

func (b *Bus) Subscribe() <-chan entity.AggregationEvent {
	return b.ch
}

func (b *Bus) Close() {
	b.mu.Lock()
	defer b.mu.Unlock()

	if b.closed {
		return
	}

	b.closed = true
	close(b.ch)
}
