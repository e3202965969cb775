package stream

import (
	"errors"
	"io"
	"log/slog"
	"sync"
)

// DefaultBufferSize is the read buffer size used when none is configured.
const DefaultBufferSize = 4096

// Reader continuously reads one byte stream and publishes each read as a Chunk.
//
// Reads are strictly sequential: there is never more than one outstanding
// read, so subscribers observe the stream's data in order. Once the stream
// reaches end of file, or a read fails, the reader emits exactly one final
// chunk and stops.
type Reader struct {
	log        *slog.Logger
	id         ID
	r          io.Reader
	bufferSize int

	mu        sync.Mutex
	observers []func(Chunk)
	started   bool
	done      chan struct{}
}

// NewReader creates a reader for r that publishes chunks tagged with id.
// A bufferSize below one selects DefaultBufferSize.
func NewReader(log *slog.Logger, id ID, r io.Reader, bufferSize int) *Reader {
	if log == nil {
		log = slog.New(slog.DiscardHandler)
	}

	if bufferSize < 1 {
		bufferSize = DefaultBufferSize
	}

	return &Reader{
		log:        log.With("component", "stream_reader", "stream", id.String()),
		id:         id,
		r:          r,
		bufferSize: bufferSize,
		done:       make(chan struct{}),
	}
}

// NewReaders creates one reader per stream. The id of each reader is its
// index in rs, so the first reader is Stdout and the second Stderr.
func NewReaders(log *slog.Logger, bufferSize int, rs ...io.Reader) []*Reader {
	readers := make([]*Reader, 0, len(rs))
	for i, r := range rs {
		readers = append(readers, NewReader(log, ID(i), r, bufferSize))
	}

	return readers
}

// ID returns the stream id this reader publishes.
func (r *Reader) ID() ID {
	return r.id
}

// Subscribe registers fn to receive every chunk read from the stream.
// Subscribers must be registered before Start.
func (r *Reader) Subscribe(fn func(Chunk)) {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.observers = append(r.observers, fn)
}

// Start launches the read loop. Calling Start more than once has no effect.
func (r *Reader) Start() {
	r.mu.Lock()
	if r.started {
		r.mu.Unlock()

		return
	}

	r.started = true
	r.mu.Unlock()

	go r.loop()
}

// Done is closed after the final chunk was published.
func (r *Reader) Done() <-chan struct{} {
	return r.done
}

func (r *Reader) loop() {
	defer close(r.done)

	buf := make([]byte, r.bufferSize)
	total := 0

	for {
		n, err := r.r.Read(buf)
		if n > 0 {
			data := make([]byte, n)
			copy(data, buf[:n])
			total += n

			r.publish(newChunk(r.id, data, false))
		}

		if err != nil {
			// A failed read ends the stream; whatever was read so far stays
			// valid and the final chunk below still unblocks consumers.
			if !errors.Is(err, io.EOF) {
				r.log.Debug("Stream read failed, treating as end of stream", "error", err)
			}

			break
		}
	}

	r.log.Debug("Stream reached end", "bytes", total)
	r.publish(newChunk(r.id, []byte{}, true))
}

func (r *Reader) publish(c Chunk) {
	r.mu.Lock()
	observers := r.observers
	r.mu.Unlock()

	for _, fn := range observers {
		fn(c)
	}
}
