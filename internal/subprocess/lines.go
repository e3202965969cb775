package subprocess

import (
	"io"
	"strings"
	"sync"

	"github.com/wagiedev/toolrun-go/internal/config"
	"github.com/wagiedev/toolrun-go/internal/stream"
)

// outputStreams is the number of streams a direct run reports.
const outputStreams = 2

// Lines adapts a per-line handler to the per-chunk IOHandler contract.
//
// Each run gets its own LineAggregator, keyed by the process handle, so one
// adapter can serve concurrent runs. The aggregator is released once every
// stream of the run has delivered its final chunk.
func Lines(fn config.LineFunc) config.IOHandler {
	if fn == nil {
		return nil
	}

	var (
		mu   sync.Mutex
		runs = make(map[config.Process]*lineRun)
	)

	return func(proc config.Process, stdin io.WriteCloser, chunk stream.Chunk) {
		mu.Lock()

		run, ok := runs[proc]
		if !ok {
			run = newLineRun(proc, fn)
			runs[proc] = run
		}

		if chunk.Final && !chunk.IsMarker() {
			run.finals++
			if run.finals == outputStreams {
				delete(runs, proc)
			}
		}

		mu.Unlock()

		run.stdin = stdin
		run.agg.OnChunk(chunk)
	}
}

// lineRun is the line state of one process. It implements config.Pending.
type lineRun struct {
	stdin  io.WriteCloser
	agg    *stream.LineAggregator
	finals int
}

func newLineRun(proc config.Process, fn config.LineFunc) *lineRun {
	run := &lineRun{}
	run.agg = stream.NewLineAggregator(func(line stream.Chunk) {
		fn(proc, run.stdin, line, run)
	})

	return run
}

// Text returns the partial line buffered for id.
func (r *lineRun) Text(id stream.ID) string {
	var sb strings.Builder
	for _, c := range r.agg.Buffered(id) {
		sb.Write(c.Bytes)
	}

	return sb.String()
}

// Discard drops the partial lines of every stream.
func (r *lineRun) Discard() {
	r.agg.Flush()
}
