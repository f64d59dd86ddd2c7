package core

import (
	"context"
	"sync"
)

// Notifier broadcasts "something changed" signals to its listeners.
// Signals are coalesced: a listener that has not consumed the previous signal gets only one.
type Notifier struct {
	mu        sync.Mutex
	listeners map[chan struct{}]struct{}
}

func NewNotifier() *Notifier {
	return &Notifier{listeners: make(map[chan struct{}]struct{})}
}

func (n *Notifier) listen() (<-chan struct{}, func()) {
	ch := make(chan struct{}, 1)
	n.mu.Lock()
	n.listeners[ch] = struct{}{}
	n.mu.Unlock()
	return ch, func() {
		n.mu.Lock()
		delete(n.listeners, ch)
		n.mu.Unlock()
	}
}

// Notify signals every listener without blocking.
func (n *Notifier) Notify() {
	n.mu.Lock()
	defer n.mu.Unlock()
	for ch := range n.listeners {
		select {
		case ch <- struct{}{}:
		default: // a signal is already pending
		}
	}
}

// Subscription delivers the result of a query every time its source changes.
type Subscription[T any] struct {
	c      chan T
	cancel context.CancelFunc
	done   chan struct{}

	mu  sync.Mutex
	err error
}

// Watch runs load once right away and again after every n.Notify, delivering each result on
// the returned Subscription until ctx is done or the Subscription is closed.
// A slow consumer never blocks writers: changes made meanwhile collapse into a single reload.
func Watch[T any](ctx context.Context, n *Notifier, load func(context.Context) (T, error)) *Subscription[T] {
	ctx, cancel := context.WithCancel(ctx)
	sub := &Subscription[T]{
		c:      make(chan T),
		cancel: cancel,
		done:   make(chan struct{}),
	}

	// listen before the first load so that no change is missed in between
	changed, stop := n.listen()

	go func() {
		defer close(sub.done)
		defer close(sub.c)
		defer stop()

		for {
			val, err := load(ctx)
			if err != nil {
				if ctx.Err() == nil {
					sub.setErr(err)
				}
				return
			}
			select {
			case sub.c <- val:
			case <-ctx.Done():
				return
			}
			select {
			case <-changed:
			case <-ctx.Done():
				return
			}
		}
	}()
	return sub
}

// C returns the delivery channel. It is closed when the Subscription ends.
func (sub *Subscription[T]) C() <-chan T {
	return sub.c
}

// Close unsubscribes and waits for the delivery goroutine to exit.
func (sub *Subscription[T]) Close() {
	sub.cancel()
	<-sub.done
}

// Err returns the load error that ended the Subscription, if any.
func (sub *Subscription[T]) Err() error {
	sub.mu.Lock()
	defer sub.mu.Unlock()
	return sub.err
}

func (sub *Subscription[T]) setErr(err error) {
	sub.mu.Lock()
	sub.err = err
	sub.mu.Unlock()
}
