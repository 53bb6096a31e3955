package barrier

import (
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func noAbort() bool { return false }

func TestBarrier_AllArriveBeforeAnyReturns(t *testing.T) {
	const p = 8
	b := New(p)

	var arrived atomic.Int32
	var wg sync.WaitGroup
	start := make(chan struct{})

	wg.Add(p)
	for i := 0; i < p; i++ {
		i := i
		go func() {
			defer wg.Done()
			<-start
			time.Sleep(time.Duration(i) * time.Millisecond)
			arrived.Add(1)
			require.NoError(t, b.Wait(noAbort))
			assert.Equal(t, int32(p), arrived.Load())
		}()
	}

	close(start)
	wg.Wait()
	assert.Equal(t, int32(p), arrived.Load())
}

func TestBarrier_Reusable(t *testing.T) {
	const p = 4
	const rounds = 50
	b := New(p)

	var wg sync.WaitGroup
	wg.Add(p)
	for i := 0; i < p; i++ {
		go func() {
			defer wg.Done()
			for r := 0; r < rounds; r++ {
				require.NoError(t, b.Wait(noAbort))
			}
		}()
	}
	wg.Wait()
}

func TestBarrier_AbortWakesAllWaiters(t *testing.T) {
	const p = 4
	b := New(p)

	var aborted atomic.Bool
	abortFn := func() bool { return aborted.Load() }

	var wg sync.WaitGroup
	errs := make(chan error, p-1)

	wg.Add(p - 1)
	for i := 0; i < p-1; i++ {
		go func() {
			defer wg.Done()
			errs <- b.Wait(abortFn)
		}()
	}

	// Give the waiters a chance to park before aborting.
	time.Sleep(10 * time.Millisecond)
	aborted.Store(true)
	b.Abandon()

	wg.Wait()
	close(errs)
	for err := range errs {
		assert.ErrorIs(t, err, ErrAborted)
	}
}

func TestBarrier_SetSizeResets(t *testing.T) {
	b := New(4)
	b.SetSize(2)

	var wg sync.WaitGroup
	wg.Add(2)
	for i := 0; i < 2; i++ {
		go func() {
			defer wg.Done()
			require.NoError(t, b.Wait(noAbort))
		}()
	}
	wg.Wait()
}
