package queue

import "context"

const memoryQueueDepth = 1000

// MemoryDriver keeps jobs in a buffered channel. The default for
// development and tests; jobs are lost on restart, so production wires
// the Redis driver instead.
type MemoryDriver struct {
	jobs chan []byte
}

func NewMemoryDriver() *MemoryDriver {
	return &MemoryDriver{jobs: make(chan []byte, memoryQueueDepth)}
}

func (d *MemoryDriver) Push(payload []byte) error {
	d.jobs <- payload
	return nil
}

func (d *MemoryDriver) Pop(ctx context.Context) ([]byte, error) {
	select {
	case <-ctx.Done():
		return nil, ctx.Err()
	case payload := <-d.jobs:
		return payload, nil
	}
}
