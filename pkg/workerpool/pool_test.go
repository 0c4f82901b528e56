package workerpool

import (
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSubmitRunsTasks(t *testing.T) {
	pool := New(4)
	defer pool.Shutdown()

	var count int64
	var wg sync.WaitGroup
	for i := 0; i < 20; i++ {
		wg.Add(1)
		require.NoError(t, pool.SubmitWait(func() {
			atomic.AddInt64(&count, 1)
			wg.Done()
		}))
	}
	wg.Wait()

	assert.Equal(t, int64(20), atomic.LoadInt64(&count))
}

func TestSubmitReturnsErrPoolFull(t *testing.T) {
	pool := New(1)
	defer pool.Shutdown()

	block := make(chan struct{})
	started := make(chan struct{})
	require.NoError(t, pool.Submit(func() {
		close(started)
		<-block
	}))
	<-started

	// One task holds the worker; fill the buffer (size*2 = 2) and then
	// the next submit must be rejected.
	filled := 0
	rejected := false
	for i := 0; i < 10; i++ {
		if err := pool.Submit(func() { <-block }); err != nil {
			assert.ErrorIs(t, err, ErrPoolFull)
			rejected = true
			break
		}
		filled++
	}
	assert.True(t, rejected, "pool never reported full after %d buffered tasks", filled)

	close(block)
}

func TestSubmitAfterShutdown(t *testing.T) {
	pool := New(2)
	pool.Shutdown()

	assert.ErrorIs(t, pool.Submit(func() {}), ErrPoolClosed)
	assert.ErrorIs(t, pool.SubmitWait(func() {}), ErrPoolClosed)
}

func TestShutdownDrainsPendingTasks(t *testing.T) {
	pool := New(2)

	var count int64
	for i := 0; i < 4; i++ {
		require.NoError(t, pool.SubmitWait(func() {
			time.Sleep(10 * time.Millisecond)
			atomic.AddInt64(&count, 1)
		}))
	}

	pool.Shutdown()
	assert.Equal(t, int64(4), atomic.LoadInt64(&count))
}

func TestShutdownIsIdempotent(t *testing.T) {
	pool := New(1)
	pool.Shutdown()
	assert.NotPanics(t, pool.Shutdown)
}

func TestPanickingTaskDoesNotKillWorker(t *testing.T) {
	pool := New(1)
	defer pool.Shutdown()

	require.NoError(t, pool.SubmitWait(func() { panic("boom") }))

	done := make(chan struct{})
	require.NoError(t, pool.SubmitWait(func() { close(done) }))

	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("worker did not survive the panic")
	}
}

func TestNewClampsSize(t *testing.T) {
	pool := New(0)
	defer pool.Shutdown()

	done := make(chan struct{})
	require.NoError(t, pool.SubmitWait(func() { close(done) }))
	<-done
}
