//go:build integration

package integration

import (
	"io"
	"strings"
	"sync"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/wagiedev/toolrun-go"
)

// TestStreaming_LargeOutput tests that output much larger than the read
// buffer and the pipe capacity is collected completely on both streams.
func TestStreaming_LargeOutput(t *testing.T) {
	requirePOSIX(t)

	const lines = 20000

	tool := writeScript(t, t.TempDir(), "flood", `i=0
while [ $i -lt 20000 ]; do
  echo "stdout line $i"
  echo "stderr line $i" >&2
  i=$((i+1))
done`)

	result, err := toolrun.Run(tool, nil, toolrun.WithReadBufferSize(512))
	require.NoError(t, err)
	require.True(t, result.Success(), result.Message)

	require.Equal(t, lines, strings.Count(result.Stdout, "\n"))
	require.Equal(t, lines, strings.Count(result.Stderr, "\n"))
	require.True(t, strings.HasSuffix(result.Stdout, "stdout line 19999\n"))
	require.True(t, strings.HasSuffix(result.Stderr, "stderr line 19999\n"))
}

// TestStreaming_LinesMatchResult tests that the lines seen by a line handler
// reassemble into the collected output.
func TestStreaming_LinesMatchResult(t *testing.T) {
	requirePOSIX(t)

	tool := writeScript(t, t.TempDir(), "mixed", `printf 'one\r\ntwo\rthree\n'
printf 'partial'`)

	var (
		mu     sync.Mutex
		lines  []string
		finals int
	)

	result, err := toolrun.Run(tool, nil,
		toolrun.WithReadBufferSize(3),
		toolrun.WithLineHandler(func(_ toolrun.Process, _ io.WriteCloser, c toolrun.Chunk, _ toolrun.Pending) {
			mu.Lock()
			defer mu.Unlock()

			if c.Stream != toolrun.Stdout {
				return
			}

			if c.Text != "" {
				lines = append(lines, c.Text)
			}

			if c.Final {
				finals++
			}
		}),
	)
	require.NoError(t, err)
	require.Equal(t, "one\r\ntwo\rthree\npartial", result.Stdout)
	require.Equal(t, []string{"one\n", "two\n", "three\n", "partial"}, lines)
	require.Equal(t, 1, finals)
}

// TestStreaming_Conversation tests a multi-step exchange over stdin.
func TestStreaming_Conversation(t *testing.T) {
	requirePOSIX(t)

	tool := writeScript(t, t.TempDir(), "quiz", `echo "name?"
read name
echo "color?"
read color
echo "$name likes $color"`)

	answers := map[string]string{"name?\n": "ada\n", "color?\n": "green\n"}

	var writeErr error

	result, err := toolrun.Run(tool, nil,
		toolrun.WithLineHandler(func(_ toolrun.Process, stdin io.WriteCloser, c toolrun.Chunk, _ toolrun.Pending) {
			reply, ok := answers[c.Text]
			if !ok || stdin == nil {
				return
			}

			if _, err := io.WriteString(stdin, reply); err != nil {
				writeErr = err
			}
		}),
	)
	require.NoError(t, err)
	require.NoError(t, writeErr)
	require.Equal(t, "name?\ncolor?\nada likes green\n", result.Stdout)
}
