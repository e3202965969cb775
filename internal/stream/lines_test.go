package stream

import (
	"math/rand/v2"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
)

// lineRecorder collects every event the aggregator emits.
type lineRecorder struct {
	events []Chunk
}

func (r *lineRecorder) record(c Chunk) {
	r.events = append(r.events, c)
}

// lines returns the non-marker events.
func (r *lineRecorder) lines() []Chunk {
	var out []Chunk

	for _, e := range r.events {
		if !e.IsMarker() {
			out = append(out, e)
		}
	}

	return out
}

func (r *lineRecorder) texts() []string {
	var out []string
	for _, l := range r.lines() {
		out = append(out, l.Text)
	}

	return out
}

// feed pushes input through a fresh aggregator split at the given offsets,
// followed by the final chunk a Reader emits at end of stream.
func feed(input string, cuts []int) *lineRecorder {
	rec := &lineRecorder{}
	agg := NewLineAggregator(rec.record)

	prev := 0
	for _, cut := range cuts {
		agg.OnChunk(newChunk(Stdout, []byte(input[prev:cut]), false))
		prev = cut
	}

	if prev < len(input) {
		agg.OnChunk(newChunk(Stdout, []byte(input[prev:]), false))
	}

	agg.OnChunk(newChunk(Stdout, []byte{}, true))

	return rec
}

func TestLineAggregator_SplitsCompleteLines(t *testing.T) {
	rec := feed("alpha\nbeta\ngamma\n", nil)

	require.Equal(t, []string{"alpha\n", "beta\n", "gamma\n"}, rec.texts())

	for _, l := range rec.lines() {
		require.False(t, l.Final)
	}

	// The end of the stream arrives as its own empty chunk, which completes
	// no line and therefore surfaces as a final marker.
	last := rec.events[len(rec.events)-1]
	require.True(t, last.IsMarker())
	require.True(t, last.Final)
}

func TestLineAggregator_FinalChunkWithDataMarksLastLine(t *testing.T) {
	rec := &lineRecorder{}
	agg := NewLineAggregator(rec.record)

	agg.OnChunk(newChunk(Stdout, []byte("x\ny\n"), true))

	lines := rec.lines()
	require.Len(t, lines, 2)
	require.False(t, lines[0].Final)
	require.True(t, lines[1].Final)
}

func TestLineAggregator_FlushesUnterminatedRemainder(t *testing.T) {
	rec := feed("line1\nline2\nline3", nil)

	require.Equal(t, []string{"line1\n", "line2\n", "line3"}, rec.texts())

	lines := rec.lines()
	require.True(t, lines[2].Final)
}

func TestLineAggregator_LineSplitAcrossChunks(t *testing.T) {
	rec := &lineRecorder{}
	agg := NewLineAggregator(rec.record)

	agg.OnChunk(newChunk(Stdout, []byte("hel"), false))
	agg.OnChunk(newChunk(Stdout, []byte("lo wo"), false))
	agg.OnChunk(newChunk(Stdout, []byte("rld\nnext"), false))

	require.Equal(t, []string{"hello world\n"}, rec.texts())

	buffered := agg.Buffered(Stdout)
	require.Len(t, buffered, 1)
	require.Equal(t, "next", buffered[0].Text)
}

func TestLineAggregator_MarkerWhenNoLineCompleted(t *testing.T) {
	rec := &lineRecorder{}
	agg := NewLineAggregator(rec.record)

	agg.OnChunk(newChunk(Stderr, []byte("partial"), false))

	require.Len(t, rec.events, 1)
	require.True(t, rec.events[0].IsMarker())
	require.Equal(t, Stderr, rec.events[0].Stream)
	require.False(t, rec.events[0].Final)

	agg.OnChunk(Marker(Stdout, false))
	require.Len(t, rec.events, 2)
	require.True(t, rec.events[1].IsMarker())
	require.Equal(t, Stdout, rec.events[1].Stream)
}

func TestLineAggregator_FinalWithoutRemainderEmitsFinalMarker(t *testing.T) {
	rec := &lineRecorder{}
	agg := NewLineAggregator(rec.record)

	agg.OnChunk(newChunk(Stdout, []byte{}, true))

	require.Len(t, rec.events, 1)
	require.True(t, rec.events[0].IsMarker())
	require.True(t, rec.events[0].Final)
}

func TestLineAggregator_NormalizesLineEndings(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  []string
	}{
		{name: "crlf", input: "a\r\nb\r\n", want: []string{"a\n", "b\n"}},
		{name: "lone cr", input: "a\rb\r", want: []string{"a\n", "b\n"}},
		{name: "mixed", input: "a\r\nb\rc\nd", want: []string{"a\n", "b\n", "c\n", "d"}},
		{name: "blank lines", input: "\n\r\n\r", want: []string{"\n", "\n", "\n"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			require.Equal(t, tt.want, feed(tt.input, nil).texts())
		})
	}
}

func TestLineAggregator_CRLFSplitAcrossChunks(t *testing.T) {
	rec := &lineRecorder{}
	agg := NewLineAggregator(rec.record)

	agg.OnChunk(newChunk(Stdout, []byte("one\r"), false))
	require.Empty(t, rec.lines())

	agg.OnChunk(newChunk(Stdout, []byte("\ntwo\r"), false))
	require.Equal(t, []string{"one\n"}, rec.texts())

	agg.OnChunk(newChunk(Stdout, []byte("three"), false))
	require.Equal(t, []string{"one\n", "two\n"}, rec.texts())
}

func TestLineAggregator_StreamsAreIndependent(t *testing.T) {
	rec := &lineRecorder{}
	agg := NewLineAggregator(rec.record)

	agg.OnChunk(newChunk(Stdout, []byte("out-"), false))
	agg.OnChunk(newChunk(Stderr, []byte("err-"), false))
	agg.OnChunk(newChunk(Stderr, []byte("line\n"), false))
	agg.OnChunk(newChunk(Stdout, []byte("line\n"), false))

	lines := rec.lines()
	require.Len(t, lines, 2)
	require.Equal(t, Stderr, lines[0].Stream)
	require.Equal(t, "err-line\n", lines[0].Text)
	require.Equal(t, Stdout, lines[1].Stream)
	require.Equal(t, "out-line\n", lines[1].Text)
}

func TestLineAggregator_BufferedIsSnapshot(t *testing.T) {
	agg := NewLineAggregator(func(Chunk) {})

	agg.OnChunk(newChunk(Stdout, []byte("abc"), false))
	agg.OnChunk(newChunk(Stdout, []byte("def"), false))

	snapshot := agg.Buffered(Stdout)
	require.Len(t, snapshot, 2)

	snapshot[0].Bytes[0] = 'X'

	again := agg.Buffered(Stdout)
	require.Equal(t, "abc", string(again[0].Bytes))
	require.Nil(t, agg.Buffered(Stderr))
}

func TestLineAggregator_FlushDiscardsWithoutEmitting(t *testing.T) {
	rec := &lineRecorder{}
	agg := NewLineAggregator(rec.record)

	agg.OnChunk(newChunk(Stdout, []byte("dangling"), false))
	agg.OnChunk(newChunk(Stderr, []byte("also"), false))
	eventsBefore := len(rec.events)

	agg.Flush()

	require.Len(t, rec.events, eventsBefore)
	require.Nil(t, agg.Buffered(Stdout))
	require.Nil(t, agg.Buffered(Stderr))

	agg.OnChunk(newChunk(Stdout, []byte{}, true))
	require.Empty(t, rec.lines())
}

func TestLineAggregator_MultiByteRuneSplitAcrossChunks(t *testing.T) {
	input := "héllo wörld ✓\n"
	raw := []byte(input)

	rec := &lineRecorder{}
	agg := NewLineAggregator(rec.record)

	for _, b := range raw {
		agg.OnChunk(newChunk(Stdout, []byte{b}, false))
	}

	require.Equal(t, []string{input}, rec.texts())
}

func TestLineAggregator_LineCountMatchesNewlines(t *testing.T) {
	inputs := []string{
		"",
		"no newline",
		"one\n",
		"a\nb\nc",
		"\n\n\n",
		"trailing\n\nblank",
	}

	for _, input := range inputs {
		rec := feed(input, nil)

		want := strings.Count(input, "\n")
		if input != "" && !strings.HasSuffix(input, "\n") {
			want++
		}

		require.Len(t, rec.lines(), want, "input %q", input)
		require.Equal(t, input, strings.Join(rec.texts(), ""), "input %q", input)
	}
}

func TestLineAggregator_RechunkingIsIdempotent(t *testing.T) {
	inputs := []string{
		"line1\nline2\nline3",
		"a\r\nbb\r\nccc\r\n",
		"mixed\rendings\r\nhere\n\rand there",
		"unicode ✓ ünïcødé\nsecond\n",
	}

	for _, input := range inputs {
		want := feed(input, nil).texts()

		// Every single split point.
		for cut := 1; cut < len(input); cut++ {
			require.Equal(t, want, feed(input, []int{cut}).texts(), "input %q cut %d", input, cut)
		}

		// One byte at a time.
		bytewise := make([]int, 0, len(input))
		for i := 1; i < len(input); i++ {
			bytewise = append(bytewise, i)
		}

		require.Equal(t, want, feed(input, bytewise).texts(), "input %q bytewise", input)
	}
}

func TestLineAggregator_RandomChunkingRoundTrip(t *testing.T) {
	rng := rand.New(rand.NewPCG(7, 11))

	alphabet := []byte("ab \r\n✓")

	for range 200 {
		size := rng.IntN(64)

		var sb strings.Builder
		for range size {
			sb.WriteByte(alphabet[rng.IntN(len(alphabet))])
		}

		input := sb.String()

		var cuts []int
		for i := 1; i < len(input); i++ {
			if rng.IntN(3) == 0 {
				cuts = append(cuts, i)
			}
		}

		expected := strings.ReplaceAll(input, "\r\n", "\n")
		expected = strings.ReplaceAll(expected, "\r", "\n")

		got := feed(input, cuts)
		require.Equal(t, expected, strings.Join(got.texts(), ""), "input %q cuts %v", input, cuts)
		require.Equal(t, feed(input, nil).texts(), got.texts(), "input %q cuts %v", input, cuts)
	}
}
