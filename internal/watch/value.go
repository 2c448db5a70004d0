// Package watch provides a small observable value: one writer, any number of
// watchers, each watcher seeing the latest value only.
package watch

import (
	"context"
	"sync"
)

type Value[T any] struct {
	mu   sync.Mutex
	cur  T
	subs map[uint64]chan T
	next uint64
}

func NewValue[T any](initial T) *Value[T] {
	return &Value[T]{cur: initial, subs: make(map[uint64]chan T)}
}

func (v *Value[T]) Get() T {
	v.mu.Lock()
	defer v.mu.Unlock()
	return v.cur
}

// Set publishes a new value. Watchers that have not consumed the previous
// value see only the newest one; emissions replace, they do not queue.
func (v *Value[T]) Set(val T) {
	v.mu.Lock()
	defer v.mu.Unlock()
	v.cur = val
	for _, ch := range v.subs {
		select {
		case <-ch:
		default:
		}
		select {
		case ch <- val:
		default:
		}
	}
}

// Watch returns a channel that yields the current value immediately and every
// subsequent value until ctx is done, at which point the channel is closed.
func (v *Value[T]) Watch(ctx context.Context) <-chan T {
	v.mu.Lock()
	id := v.next
	v.next++
	ch := make(chan T, 1)
	ch <- v.cur
	v.subs[id] = ch
	v.mu.Unlock()

	go func() {
		<-ctx.Done()
		v.mu.Lock()
		delete(v.subs, id)
		v.mu.Unlock()
		close(ch)
	}()
	return ch
}
