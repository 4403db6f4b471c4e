package event

import (
	"context"
	"errors"
	"log/slog"
	"sync"
	"time"

	"github.com/phoenixsheppard28/vendorcafe-csv/internal/invoice/entity"
)

type Handler interface {
	Handle(ctx context.Context, event entity.AggregationEvent) error
}

type ConsumerConfig struct {
	Workers     int
	MaxRetries  int
	BaseBackoff time.Duration
	// DedupeWindow is how many recent event IDs are remembered.
	DedupeWindow int
}

// AuditConsumer drains the bus with a fixed set of workers and hands every
// event to a Handler, retrying with exponential backoff.
type AuditConsumer struct {
	bus         *Bus
	handler     Handler
	workers     int
	maxRetries  int
	baseBackoff time.Duration
	seen        *recentIDs
	wg          sync.WaitGroup
}

func NewAuditConsumer(bus *Bus, handler Handler, cfg ConsumerConfig) *AuditConsumer {
	workers := cfg.Workers
	if workers < 1 {
		workers = 2
	}

	maxRetries := cfg.MaxRetries
	if maxRetries < 0 {
		maxRetries = 0
	}

	baseBackoff := cfg.BaseBackoff
	if baseBackoff <= 0 {
		baseBackoff = 100 * time.Millisecond
	}

	window := cfg.DedupeWindow
	if window < 1 {
		window = 1024
	}

	return &AuditConsumer{
		bus:         bus,
		handler:     handler,
		workers:     workers,
		maxRetries:  maxRetries,
		baseBackoff: baseBackoff,
		seen:        newRecentIDs(window),
	}
}

func (c *AuditConsumer) Start() {
	for i := 0; i < c.workers; i++ {
		c.wg.Add(1)
		go c.worker()
	}
}

// Stop closes the bus and waits for queued events to drain.
func (c *AuditConsumer) Stop(ctx context.Context) error {
	if c.bus != nil {
		c.bus.Close()
	}

	done := make(chan struct{})
	go func() {
		c.wg.Wait()
		close(done)
	}()

	select {
	case <-done:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

func (c *AuditConsumer) worker() {
	defer c.wg.Done()

	for event := range c.bus.Subscribe() {
		c.processEvent(event)
	}
}

func (c *AuditConsumer) processEvent(event entity.AggregationEvent) {
	if c.handler == nil {
		return
	}

	if event.EventID != "" && !c.seen.add(event.EventID) {
		slog.Info("skip duplicate aggregation event", "event_id", event.EventID, "run_id", event.RunID)
		return
	}

	backoff := c.baseBackoff
	for attempt := 0; attempt <= c.maxRetries; attempt++ {
		err := c.handler.Handle(context.Background(), event)
		if err == nil {
			return
		}

		if attempt == c.maxRetries {
			slog.Error("failed to audit aggregation after retries", "event_id", event.EventID, "run_id", event.RunID, "error", err)
			return
		}

		if !sleepBackoff(backoff) {
			return
		}
		backoff *= 2
	}
}

func sleepBackoff(d time.Duration) bool {
	if d <= 0 {
		return false
	}
	timer := time.NewTimer(d)
	defer timer.Stop()
	<-timer.C
	return true
}

// recentIDs remembers the last n IDs in insertion order.
type recentIDs struct {
	mu    sync.Mutex
	ids   map[string]struct{}
	order []string
	next  int
}

func newRecentIDs(n int) *recentIDs {
	return &recentIDs{
		ids:   make(map[string]struct{}, n),
		order: make([]string, 0, n),
	}
}

// add returns false when id was already seen.
func (r *recentIDs) add(id string) bool {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.ids[id]; ok {
		return false
	}

	if len(r.order) < cap(r.order) {
		r.order = append(r.order, id)
	} else {
		delete(r.ids, r.order[r.next])
		r.order[r.next] = id
		r.next = (r.next + 1) % len(r.order)
	}
	r.ids[id] = struct{}{}

	return true
}

// LogAuditor writes one structured audit line per aggregation run.
type LogAuditor struct{}

func (LogAuditor) Handle(ctx context.Context, event entity.AggregationEvent) error {
	if event.EventID == "" {
		return errors.New("missing event id")
	}

	attrs := []any{
		"event_id", event.EventID,
		"run_id", event.RunID,
		"session_id", event.SessionID,
		"file", event.FileName,
		"kind", event.Kind,
	}

	if event.Kind == entity.EventKindFailed {
		slog.WarnContext(ctx, "aggregation audit", append(attrs, "error", event.Err)...)
		return nil
	}

	slog.InfoContext(ctx, "aggregation audit", append(attrs, "total", event.Total)...)
	return nil
}
