// Package workerpool bounds the number of goroutines running concurrent
// work. The event fan-out and PDF rendering go through a pool so bursty
// traffic cannot spawn goroutines without limit.
//
//	pool := workerpool.New(20)
//	defer pool.Shutdown()
//
//	if err := pool.Submit(render); errors.Is(err, workerpool.ErrPoolFull) {
//	    // reject or fall back to synchronous work
//	}
package workerpool

import (
	"errors"
	"sync"
)

// ErrPoolFull is returned by Submit when every worker is busy and the
// task buffer is at capacity.
var ErrPoolFull = errors.New("workerpool: pool is full")

// ErrPoolClosed is returned by Submit after Shutdown.
var ErrPoolClosed = errors.New("workerpool: pool is closed")

// Pool is a fixed-size goroutine pool.
type Pool struct {
	tasks   chan func()
	wg      sync.WaitGroup
	once    sync.Once
	closeCh chan struct{}
}

// New starts a pool with the given worker count. size below 1 is bumped
// to 1.
func New(size int) *Pool {
	if size <= 0 {
		size = 1
	}

	p := &Pool{
		// Buffer twice the worker count to absorb short bursts.
		tasks:   make(chan func(), size*2),
		closeCh: make(chan struct{}),
	}

	for i := 0; i < size; i++ {
		p.wg.Add(1)
		go p.worker()
	}

	return p
}

// Submit enqueues task without blocking. It returns ErrPoolFull when the
// buffer is at capacity and ErrPoolClosed after Shutdown.
func (p *Pool) Submit(task func()) error {
	select {
	case <-p.closeCh:
		return ErrPoolClosed
	default:
	}

	select {
	case p.tasks <- task:
		return nil
	default:
		return ErrPoolFull
	}
}

// SubmitWait blocks until a slot frees up or the pool closes.
func (p *Pool) SubmitWait(task func()) error {
	select {
	case <-p.closeCh:
		return ErrPoolClosed
	case p.tasks <- task:
		return nil
	}
}

// Shutdown stops intake, drains in-flight tasks and releases the workers.
// Safe to call more than once.
func (p *Pool) Shutdown() {
	p.once.Do(func() {
		close(p.closeCh)
		close(p.tasks)
		p.wg.Wait()
	})
}

func (p *Pool) worker() {
	defer p.wg.Done()
	for task := range p.tasks {
		safeRun(task)
	}
}

// safeRun keeps a panicking task from taking its worker down with it.
func safeRun(task func()) {
	defer func() { recover() }() //nolint:errcheck
	task()
}
