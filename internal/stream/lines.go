package stream

import (
	"bytes"
	"sync"
)

// LineAggregator reassembles newline-terminated lines from a chunk sequence.
//
// Line terminators are normalized: "\r\n" and a lone "\r" both become "\n".
// Normalization runs over the buffered bytes rather than each chunk, so a
// "\r\n" pair or a multi-byte rune split across chunks yields the same lines
// as unsplit input.
//
// Every call to OnChunk produces at least one event. When a chunk completes no
// line, the line handler receives a marker chunk (nil Bytes) instead, which
// lets callers run look-ahead logic between lines. The last event delivered
// for a stream always has Final set.
type LineAggregator struct {
	onLine func(Chunk)

	mu      sync.Mutex
	buffers map[ID][]Chunk
}

// NewLineAggregator creates an aggregator that reports lines to onLine.
func NewLineAggregator(onLine func(Chunk)) *LineAggregator {
	return &LineAggregator{
		onLine:  onLine,
		buffers: make(map[ID][]Chunk),
	}
}

// OnChunk consumes the next chunk of a stream. Chunks of one stream must be
// passed in the order they were read.
func (a *LineAggregator) OnChunk(c Chunk) {
	lines := a.aggregate(c)
	if len(lines) == 0 {
		a.onLine(Marker(c.Stream, c.Final))

		return
	}

	for _, line := range lines {
		a.onLine(line)
	}
}

// Buffered returns a copy of the data buffered for id that has not been
// terminated by a newline yet.
func (a *LineAggregator) Buffered(id ID) []Chunk {
	a.mu.Lock()
	defer a.mu.Unlock()

	pending := a.buffers[id]
	if len(pending) == 0 {
		return nil
	}

	snapshot := make([]Chunk, len(pending))
	for i, c := range pending {
		snapshot[i] = c.clone()
	}

	return snapshot
}

// Flush discards all buffered data without emitting it.
func (a *LineAggregator) Flush() {
	a.mu.Lock()
	defer a.mu.Unlock()

	clear(a.buffers)
}

func (a *LineAggregator) aggregate(c Chunk) []Chunk {
	a.mu.Lock()
	defer a.mu.Unlock()

	pending := a.buffers[c.Stream]
	if len(c.Bytes) > 0 {
		pending = append(pending, c.clone())
	}

	if len(pending) == 0 {
		delete(a.buffers, c.Stream)

		return nil
	}

	data := normalizeNewlines(joinChunks(pending))

	// A trailing carriage return may be the first half of "\r\n" whose line
	// feed has not arrived yet.
	var held []byte
	if !c.Final && data[len(data)-1] == '\r' {
		held = []byte{'\r'}
		data = data[:len(data)-1]
	} else if data[len(data)-1] == '\r' {
		data[len(data)-1] = '\n'
	}

	var lines []Chunk

	for {
		idx := bytes.IndexByte(data, '\n')
		if idx < 0 {
			break
		}

		lines = append(lines, newChunk(c.Stream, data[:idx+1:idx+1], false))
		data = data[idx+1:]
	}

	if c.Final {
		delete(a.buffers, c.Stream)

		switch {
		case len(data) > 0:
			lines = append(lines, newChunk(c.Stream, append([]byte{}, data...), true))
		case len(lines) > 0:
			lines[len(lines)-1].Final = true
		}

		return lines
	}

	if len(lines) == 0 {
		// Nothing terminated yet; keep the chunks as they arrived.
		a.buffers[c.Stream] = pending

		return nil
	}

	remainder := append(append([]byte{}, data...), held...)
	if len(remainder) == 0 {
		delete(a.buffers, c.Stream)
	} else {
		a.buffers[c.Stream] = []Chunk{newChunk(c.Stream, remainder, false)}
	}

	return lines
}

func joinChunks(chunks []Chunk) []byte {
	size := 0
	for _, c := range chunks {
		size += len(c.Bytes)
	}

	data := make([]byte, 0, size)
	for _, c := range chunks {
		data = append(data, c.Bytes...)
	}

	return data
}

// normalizeNewlines rewrites "\r\n" to "\n" and every other "\r" except a
// trailing one to "\n". The trailing "\r" is left for the caller to decide on.
func normalizeNewlines(data []byte) []byte {
	if bytes.IndexByte(data, '\r') < 0 {
		return data
	}

	out := make([]byte, 0, len(data))
	for i := 0; i < len(data); i++ {
		b := data[i]
		if b != '\r' {
			out = append(out, b)

			continue
		}

		switch {
		case i+1 < len(data) && data[i+1] == '\n':
			// The line feed is appended by the next iteration.
		case i+1 == len(data):
			out = append(out, '\r')
		default:
			out = append(out, '\n')
		}
	}

	return out
}
