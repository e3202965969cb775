// Package dispatch provides a main-loop dispatcher that runs scheduled
// actions on a single owning goroutine.
//
// Completion callbacks from asynchronous tool runs are delivered through a
// dispatcher so that callers observe them on their own loop rather than on
// the goroutine that ran the tool:
//
//	loop := dispatch.NewMainLoop(log)
//	defer loop.Close()
//
//	go producer(loop)        // calls loop.Schedule(fn) from any goroutine
//	err := loop.Run(ctx)     // executes fn on this goroutine
package dispatch

import (
	"context"
	"log/slog"
	"sync"
)

// MainLoop is a FIFO of actions executed by whichever goroutine pumps it.
type MainLoop struct {
	log *slog.Logger

	mu      sync.Mutex
	pending []func()
	closed  bool
	wake    chan struct{}
	done    chan struct{}
}

// NewMainLoop creates an empty loop.
func NewMainLoop(log *slog.Logger) *MainLoop {
	if log == nil {
		log = slog.New(slog.DiscardHandler)
	}

	return &MainLoop{
		log:  log.With("component", "dispatch"),
		wake: make(chan struct{}, 1),
		done: make(chan struct{}),
	}
}

// Schedule enqueues action. It never blocks and is safe to call from any
// goroutine. Actions scheduled after Close are dropped.
func (l *MainLoop) Schedule(action func()) {
	if action == nil {
		return
	}

	l.mu.Lock()

	if l.closed {
		l.mu.Unlock()
		l.log.Warn("Dropping action scheduled on closed main loop")

		return
	}

	l.pending = append(l.pending, action)
	l.mu.Unlock()

	select {
	case l.wake <- struct{}{}:
	default:
	}
}

// RunPending executes every action queued so far on the calling goroutine
// and returns how many ran. Actions scheduled while running are left for the
// next call.
func (l *MainLoop) RunPending() int {
	l.mu.Lock()
	batch := l.pending
	l.pending = nil
	l.mu.Unlock()

	for _, action := range batch {
		action()
	}

	return len(batch)
}

// Run pumps the loop until ctx is done or Close is called. Actions still
// queued when Close is called are executed before Run returns.
func (l *MainLoop) Run(ctx context.Context) error {
	for {
		l.RunPending()

		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-l.done:
			l.RunPending()

			return nil
		case <-l.wake:
		}
	}
}

// Len returns the number of queued actions.
func (l *MainLoop) Len() int {
	l.mu.Lock()
	defer l.mu.Unlock()

	return len(l.pending)
}

// Close stops accepting actions and releases a pending Run. Close is
// idempotent.
func (l *MainLoop) Close() {
	l.mu.Lock()
	defer l.mu.Unlock()

	if l.closed {
		return
	}

	l.closed = true
	close(l.done)
}
