package event

import (
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestFireReachesAllListeners(t *testing.T) {
	Flush()
	t.Cleanup(Flush)

	var calls int64
	Listen("ping", func(payload interface{}) {
		assert.Equal(t, "pong", payload)
		atomic.AddInt64(&calls, 1)
	})
	Listen("ping", func(payload interface{}) { atomic.AddInt64(&calls, 1) })

	Fire("ping", "pong")
	assert.Equal(t, int64(2), atomic.LoadInt64(&calls))
}

func TestFireUnknownEventIsNoOp(t *testing.T) {
	Flush()
	assert.NotPanics(t, func() { Fire("nobody.listens", nil) })
}

func TestFireAsyncDelivers(t *testing.T) {
	Flush()
	t.Cleanup(Flush)

	done := make(chan interface{}, 1)
	Listen("async", func(payload interface{}) { done <- payload })

	FireAsync("async", 42)

	select {
	case got := <-done:
		assert.Equal(t, 42, got)
	case <-time.After(2 * time.Second):
		t.Fatal("async listener never ran")
	}
}

func TestFlushDropsListeners(t *testing.T) {
	var calls int64
	Listen("gone", func(interface{}) { atomic.AddInt64(&calls, 1) })
	Flush()

	Fire("gone", nil)
	assert.Zero(t, atomic.LoadInt64(&calls))
}
