package dispatch

import (
	"context"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestMainLoop_RunPendingIsFIFO(t *testing.T) {
	loop := NewMainLoop(nil)

	var order []int
	for i := range 5 {
		loop.Schedule(func() { order = append(order, i) })
	}

	require.Equal(t, 5, loop.Len())
	require.Equal(t, 5, loop.RunPending())
	require.Equal(t, []int{0, 1, 2, 3, 4}, order)
	require.Equal(t, 0, loop.RunPending())
}

func TestMainLoop_ActionsScheduledDuringRunWaitForNextCall(t *testing.T) {
	loop := NewMainLoop(nil)

	ran := 0
	loop.Schedule(func() {
		ran++
		loop.Schedule(func() { ran++ })
	})

	require.Equal(t, 1, loop.RunPending())
	require.Equal(t, 1, ran)
	require.Equal(t, 1, loop.RunPending())
	require.Equal(t, 2, ran)
}

func TestMainLoop_RunExecutesOnCallerGoroutine(t *testing.T) {
	loop := NewMainLoop(nil)

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	var count atomic.Int32

	var wg sync.WaitGroup
	for range 8 {
		wg.Go(func() {
			for range 10 {
				loop.Schedule(func() {
					if count.Add(1) == 80 {
						loop.Close()
					}
				})
			}
		})
	}

	require.NoError(t, loop.Run(ctx))
	wg.Wait()
	require.Equal(t, int32(80), count.Load())
}

func TestMainLoop_RunStopsOnContext(t *testing.T) {
	loop := NewMainLoop(nil)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	require.ErrorIs(t, loop.Run(ctx), context.Canceled)
}

func TestMainLoop_ScheduleAfterCloseIsDropped(t *testing.T) {
	loop := NewMainLoop(nil)
	loop.Close()
	loop.Close()

	loop.Schedule(func() { t.Fatal("must not run") })
	loop.Schedule(nil)

	require.Equal(t, 0, loop.Len())
	require.NoError(t, loop.Run(context.Background()))
}

func TestMainLoop_CloseDrainsQueued(t *testing.T) {
	loop := NewMainLoop(nil)

	ran := false
	loop.Schedule(func() { ran = true })
	loop.Close()

	require.NoError(t, loop.Run(context.Background()))
	require.True(t, ran)
}
