// Package queue runs background jobs. Contact notifications and other
// slow work are dispatched here instead of blocking the request.
//
//	queue.Register("jobs.ContactNotification", func() queue.Job {
//	    return &jobs.ContactNotification{}
//	})
//	queue.Dispatch("jobs.ContactNotification", jobs.ContactNotification{MessageID: 7})
package queue

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"
	"time"

	"github.com/duolink/cotizador/pkg/logger"
	"github.com/duolink/cotizador/pkg/metrics"
)

// Job is a unit of background work.
type Job interface {
	// Handle executes the job. A non-nil error triggers a retry.
	Handle() error
}

// FailedJob describes a job that exhausted its retries.
type FailedJob struct {
	Type     string
	Job      Job
	Err      error
	FailedAt time.Time
	Attempts int
}

// Driver is the storage backend jobs are pushed through.
type Driver interface {
	Push(payload []byte) error
	Pop(ctx context.Context) ([]byte, error)
}

// delayedDriver is implemented by drivers with native scheduling, like
// the Redis sorted-set queue.
type delayedDriver interface {
	PushDelayed(payload []byte, delay time.Duration) error
}

// envelope is the wire format: the registered type name plus the job's
// own JSON payload.
type envelope struct {
	Type    string          `json:"type"`
	Payload json.RawMessage `json:"payload"`
}

// Manager owns the driver, the job registry and the failed-job list.
type Manager struct {
	mu       sync.RWMutex
	driver   Driver
	registry map[string]func() Job
	failed   []FailedJob
	maxRetry int
}

var defaultManager = &Manager{
	registry: map[string]func() Job{},
	maxRetry: 3,
	driver:   NewMemoryDriver(),
}

// SetDriver swaps the backend, e.g. for the Redis driver in production.
func SetDriver(d Driver) {
	defaultManager.mu.Lock()
	defaultManager.driver = d
	defaultManager.mu.Unlock()
}

// SetMaxRetry changes how many attempts a job gets before it is parked.
func SetMaxRetry(n int) { defaultManager.maxRetry = n }

// Register binds a job type name to its constructor so workers can
// deserialize it. Call once per job type at boot.
func Register(name string, factory func() Job) {
	defaultManager.mu.Lock()
	defaultManager.registry[name] = factory
	defaultManager.mu.Unlock()
}

// Dispatch serializes the job under its registered name and pushes it.
func Dispatch(name string, job Job) error {
	payload, err := seal(name, job)
	if err != nil {
		return err
	}
	return defaultManager.backend().Push(payload)
}

// DispatchAfter pushes the job after a delay, natively when the driver
// schedules, otherwise via a timer goroutine.
func DispatchAfter(name string, job Job, delay time.Duration) {
	payload, err := seal(name, job)
	if err != nil {
		logger.Error("queue: delayed dispatch failed", "type", name, "error", err)
		return
	}

	if d, ok := defaultManager.backend().(delayedDriver); ok {
		if err := d.PushDelayed(payload, delay); err != nil {
			logger.Error("queue: delayed dispatch failed", "type", name, "error", err)
		}
		return
	}

	go func() {
		time.Sleep(delay)
		if err := defaultManager.backend().Push(payload); err != nil {
			logger.Error("queue: delayed dispatch failed", "type", name, "error", err)
		}
	}()
}

// StartWorkers launches n workers that pull and run jobs until ctx ends.
func StartWorkers(ctx context.Context, n int) {
	for i := 0; i < n; i++ {
		go defaultManager.consume(ctx)
	}
	logger.Info("queue: workers started", "count", n)
}

// FailedJobs returns a snapshot of jobs that exhausted their retries.
func FailedJobs() []FailedJob {
	defaultManager.mu.RLock()
	defer defaultManager.mu.RUnlock()
	out := make([]FailedJob, len(defaultManager.failed))
	copy(out, defaultManager.failed)
	return out
}

func seal(name string, job Job) ([]byte, error) {
	payload, err := json.Marshal(job)
	if err != nil {
		return nil, fmt.Errorf("queue: marshal job %s: %w", name, err)
	}
	raw, err := json.Marshal(envelope{Type: name, Payload: payload})
	if err != nil {
		return nil, fmt.Errorf("queue: marshal envelope: %w", err)
	}
	return raw, nil
}

func (m *Manager) backend() Driver {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.driver
}

func (m *Manager) consume(ctx context.Context) {
	for ctx.Err() == nil {
		raw, err := m.backend().Pop(ctx)
		if err != nil {
			if ctx.Err() != nil {
				return
			}
			time.Sleep(500 * time.Millisecond)
			continue
		}
		if raw == nil {
			continue
		}
		m.unsealAndRun(raw)
	}
}

// unsealAndRun decodes an envelope back into a registered job and
// executes it. Malformed or unknown payloads are logged and dropped.
func (m *Manager) unsealAndRun(raw []byte) {
	var env envelope
	if err := json.Unmarshal(raw, &env); err != nil {
		logger.Error("queue: bad envelope", "error", err)
		return
	}

	m.mu.RLock()
	factory, ok := m.registry[env.Type]
	m.mu.RUnlock()
	if !ok {
		logger.Warn("queue: unregistered job type", "type", env.Type)
		return
	}

	job := factory()
	if err := json.Unmarshal(env.Payload, job); err != nil {
		logger.Error("queue: unmarshal payload", "type", env.Type, "error", err)
		return
	}

	m.execute(job, env.Type)
}

// execute runs the job with linear backoff between attempts. A job that
// exhausts its retries is parked in the failed list and, when a database
// is attached, the failed_jobs table.
func (m *Manager) execute(job Job, typeName string) {
	start := time.Now()

	var lastErr error
	for attempt := 1; attempt <= m.maxRetry; attempt++ {
		lastErr = job.Handle()
		if lastErr == nil {
			logger.Info("queue: job processed", "type", typeName, "attempt", attempt)
			metrics.RecordQueueJob(typeName, "ok", start)
			return
		}
		logger.Warn("queue: job failed",
			"type", typeName, "attempt", attempt, "error", lastErr)
		if attempt < m.maxRetry {
			time.Sleep(time.Duration(attempt) * time.Second)
		}
	}

	m.persistFailed(job, typeName, lastErr, m.maxRetry)
	metrics.RecordQueueJob(typeName, "failed", start)
	logger.Error("queue: job exhausted retries", "type", typeName, "error", lastErr)
}
