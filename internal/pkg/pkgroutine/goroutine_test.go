package pkgroutine

import (
	"context"
	"errors"
	"testing"
	"time"
)

func TestNewManagerDefaultMax(t *testing.T) {
	mgr := NewManager(0)
	if got := cap(mgr.sema); got != DefaultMaxGoroutine {
		t.Fatalf("expected cap %d, got %d", DefaultMaxGoroutine, got)
	}
}

func TestManagerCollectsErrors(t *testing.T) {
	mgr := NewManager(2)
	errOne := errors.New("one")
	errTwo := errors.New("two")

	mgr.Go(context.Background(), func(ctx context.Context) error {
		return errOne
	})
	mgr.Go(context.Background(), func(ctx context.Context) error {
		return errTwo
	})

	joined := mgr.Wait()
	if joined == nil {
		t.Fatalf("expected errors")
	}
	if !errors.Is(joined, errOne) {
		t.Fatalf("expected errOne to be present")
	}
	if !errors.Is(joined, errTwo) {
		t.Fatalf("expected errTwo to be present")
	}
}

func TestManagerRecoversPanics(t *testing.T) {
	mgr := NewManager(1)
	mgr.Go(context.Background(), func(ctx context.Context) error {
		panic("boom")
	})

	if err := mgr.Wait(); err != nil {
		t.Fatalf("expected nil error, got %v", err)
	}
}

func TestManagerEveryStopsWithContext(t *testing.T) {
	mgr := NewManager(1)
	ctx, cancel := context.WithCancel(context.Background())

	ticks := make(chan struct{}, 10)
	mgr.Every(ctx, time.Millisecond, func(ctx context.Context) {
		select {
		case ticks <- struct{}{}:
		default:
		}
	})

	select {
	case <-ticks:
	case <-time.After(2 * time.Second):
		t.Fatal("timeout waiting for tick")
	}

	cancel()
	if err := mgr.Wait(); err != nil {
		t.Fatalf("expected nil error, got %v", err)
	}
}

func TestManagerEveryRejectsZeroInterval(t *testing.T) {
	mgr := NewManager(1)
	mgr.Every(context.Background(), 0, func(ctx context.Context) {
		t.Fatal("should not run")
	})
	if err := mgr.Wait(); err != nil {
		t.Fatalf("expected nil error, got %v", err)
	}
}
