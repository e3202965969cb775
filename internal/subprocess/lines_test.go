package subprocess

import (
	"io"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/wagiedev/toolrun-go/internal/config"
	"github.com/wagiedev/toolrun-go/internal/stream"
)

type fakeProcess struct{ pid int }

func (p *fakeProcess) Pid() int              { return p.pid }
func (p *fakeProcess) Wait() int             { return 0 }
func (p *fakeProcess) ExitCode() (int, bool) { return 0, true }

func dataChunk(id stream.ID, s string, final bool) stream.Chunk {
	return stream.Chunk{Stream: id, Text: s, Bytes: []byte(s), Final: final}
}

func TestLines_NilHandler(t *testing.T) {
	require.Nil(t, Lines(nil))
}

func TestLines_SeparatesRuns(t *testing.T) {
	type event struct {
		pid  int
		text string
	}

	var events []event

	handler := Lines(func(proc config.Process, _ io.WriteCloser, c stream.Chunk, _ config.Pending) {
		if !c.IsMarker() {
			events = append(events, event{pid: proc.Pid(), text: c.Text})
		}
	})

	a, b := &fakeProcess{pid: 1}, &fakeProcess{pid: 2}

	handler(a, nil, dataChunk(stream.Stdout, "hel", false))
	handler(b, nil, dataChunk(stream.Stdout, "other\n", false))
	handler(a, nil, dataChunk(stream.Stdout, "lo\nwor", false))
	handler(a, nil, dataChunk(stream.Stdout, "ld", true))
	handler(a, nil, dataChunk(stream.Stderr, "", true))

	require.Equal(t, []event{
		{pid: 2, text: "other\n"},
		{pid: 1, text: "hello\n"},
		{pid: 1, text: "world"},
	}, events)
}

func TestLines_PassesLatestStdin(t *testing.T) {
	var seen []io.WriteCloser

	handler := Lines(func(_ config.Process, stdin io.WriteCloser, _ stream.Chunk, _ config.Pending) {
		seen = append(seen, stdin)
	})

	proc := &fakeProcess{pid: 7}
	_, w := io.Pipe()

	handler(proc, w, stream.Marker(stream.Stdout, false))
	handler(proc, w, dataChunk(stream.Stdout, "x\n", false))

	require.Len(t, seen, 2)
	require.Same(t, w, seen[0])
	require.Same(t, w, seen[1])
}

func TestLines_PendingExposesPartialLine(t *testing.T) {
	type event struct {
		marker  bool
		text    string
		pending string
	}

	var events []event

	handler := Lines(func(_ config.Process, _ io.WriteCloser, c stream.Chunk, pending config.Pending) {
		events = append(events, event{marker: c.IsMarker(), text: c.Text, pending: pending.Text(c.Stream)})
	})

	proc := &fakeProcess{pid: 3}

	handler(proc, nil, dataChunk(stream.Stdout, "Contin", false))
	handler(proc, nil, dataChunk(stream.Stdout, "ue? ", false))
	handler(proc, nil, dataChunk(stream.Stdout, "yes\nName: ", false))

	require.Equal(t, []event{
		{marker: true, pending: "Contin"},
		{marker: true, pending: "Continue? "},
		{text: "Continue? yes\n", pending: "Name: "},
	}, events)
}

func TestLines_DiscardDropsPartialLine(t *testing.T) {
	var texts []string

	handler := Lines(func(_ config.Process, _ io.WriteCloser, c stream.Chunk, pending config.Pending) {
		if c.IsMarker() && pending.Text(stream.Stdout) == "Password: " {
			pending.Discard()
		}

		if !c.IsMarker() {
			texts = append(texts, c.Text)
		}
	})

	proc := &fakeProcess{pid: 4}

	handler(proc, nil, dataChunk(stream.Stdout, "Password: ", false))
	handler(proc, nil, dataChunk(stream.Stdout, "ok\n", false))
	handler(proc, nil, dataChunk(stream.Stdout, "", true))

	require.Equal(t, []string{"ok\n"}, texts)
}
