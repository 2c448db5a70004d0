package watch

import (
	"context"
	"testing"
	"time"
)

func TestGetReturnsCurrent(t *testing.T) {
	v := NewValue("a")
	if got := v.Get(); got != "a" {
		t.Fatalf("unexpected value: %q", got)
	}
	v.Set("b")
	if got := v.Get(); got != "b" {
		t.Fatalf("unexpected value: %q", got)
	}
}

func TestWatchSeedsCurrentValue(t *testing.T) {
	v := NewValue(1)
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	ch := v.Watch(ctx)
	if got := <-ch; got != 1 {
		t.Fatalf("unexpected seed: %d", got)
	}

	v.Set(2)
	if got := <-ch; got != 2 {
		t.Fatalf("unexpected value: %d", got)
	}
}

func TestWatchLatestWins(t *testing.T) {
	v := NewValue(0)
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	ch := v.Watch(ctx)

	// Not consuming in between: only the newest value must be pending.
	v.Set(1)
	v.Set(2)
	v.Set(3)

	if got := <-ch; got != 3 {
		t.Fatalf("expected latest value, got %d", got)
	}
}

func TestWatchClosesOnCancel(t *testing.T) {
	v := NewValue(0)
	ctx, cancel := context.WithCancel(context.Background())

	ch := v.Watch(ctx)
	<-ch
	cancel()

	deadline := time.After(time.Second)
	for {
		select {
		case _, ok := <-ch:
			if !ok {
				return
			}
		case <-deadline:
			t.Fatalf("channel not closed after cancel")
		}
	}
}

func TestIndependentWatchers(t *testing.T) {
	v := NewValue("x")
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	a := v.Watch(ctx)
	b := v.Watch(ctx)
	<-a
	<-b

	v.Set("y")
	if got := <-a; got != "y" {
		t.Fatalf("watcher a: %q", got)
	}
	if got := <-b; got != "y" {
		t.Fatalf("watcher b: %q", got)
	}
}
