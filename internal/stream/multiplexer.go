package stream

import (
	"log/slog"
	"sync"
)

// Multiplexer merges the chunks of several readers onto one ordered queue.
//
// A single worker goroutine drains the queue and hands every chunk to the
// chunk handler. When a final chunk arrives its stream is removed from the
// active set; once the active set is empty and the queue is drained the
// completion handler runs exactly once and the worker exits.
//
// Producers never block on the handler: the queue is unbounded so readers keep
// draining OS pipes even while the handler is busy writing to the child.
type Multiplexer struct {
	log        *slog.Logger
	onChunk    func(Chunk)
	onComplete func()

	mu        sync.Mutex
	cond      *sync.Cond
	queue     []Chunk
	active    map[ID]struct{}
	stopped   bool
	completed bool

	done chan struct{}
}

// NewMultiplexer subscribes to every reader, starts the worker and then starts
// the readers. The readers must not have been started yet. onComplete may be nil.
func NewMultiplexer(
	log *slog.Logger,
	readers []*Reader,
	onChunk func(Chunk),
	onComplete func(),
) *Multiplexer {
	if log == nil {
		log = slog.New(slog.DiscardHandler)
	}

	m := &Multiplexer{
		log:        log.With("component", "stream_multiplexer"),
		onChunk:    onChunk,
		onComplete: onComplete,
		active:     make(map[ID]struct{}, len(readers)),
		done:       make(chan struct{}),
	}
	m.cond = sync.NewCond(&m.mu)

	for _, r := range readers {
		m.active[r.ID()] = struct{}{}
		r.Subscribe(m.enqueue)
	}

	go m.run()

	for _, r := range readers {
		r.Start()
	}

	return m
}

// Done is closed when the worker has exited, after completion or Shutdown.
func (m *Multiplexer) Done() <-chan struct{} {
	return m.done
}

// Completed reports whether every stream delivered its final chunk and the
// completion handler ran.
func (m *Multiplexer) Completed() bool {
	m.mu.Lock()
	defer m.mu.Unlock()

	return m.completed
}

// Shutdown stops the worker without delivering queued chunks and without
// running the completion handler. It is meant for abnormal teardown only.
func (m *Multiplexer) Shutdown() {
	m.mu.Lock()
	m.stopped = true
	clear(m.active)
	m.queue = nil
	m.mu.Unlock()

	m.cond.Broadcast()
}

func (m *Multiplexer) enqueue(c Chunk) {
	m.mu.Lock()
	if !m.stopped {
		m.queue = append(m.queue, c)
	}
	m.mu.Unlock()

	m.cond.Signal()
}

func (m *Multiplexer) run() {
	defer close(m.done)

	for {
		m.mu.Lock()
		for len(m.queue) == 0 && len(m.active) > 0 && !m.stopped {
			m.cond.Wait()
		}

		if m.stopped {
			m.mu.Unlock()
			m.log.Debug("Multiplexer shut down before completion")

			return
		}

		batch := m.queue
		m.queue = nil
		m.mu.Unlock()

		for _, c := range batch {
			if !m.deliver(c) {
				m.log.Debug("Multiplexer shut down before completion")

				return
			}
		}

		m.mu.Lock()
		finished := len(m.queue) == 0 && len(m.active) == 0 && !m.stopped
		if finished {
			m.completed = true
		}
		m.mu.Unlock()

		if finished {
			m.log.Debug("All streams complete")

			if m.onComplete != nil {
				m.onComplete()
			}

			return
		}
	}
}

// deliver hands c to the chunk handler and retires its stream on the final
// chunk. It returns false once Shutdown was called.
func (m *Multiplexer) deliver(c Chunk) bool {
	m.mu.Lock()
	stopped := m.stopped
	m.mu.Unlock()

	if stopped {
		return false
	}

	m.onChunk(c)

	if c.Final {
		m.mu.Lock()
		delete(m.active, c.Stream)
		m.mu.Unlock()
	}

	return true
}
