package queue

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type echoJob struct {
	Value string `json:"value"`
}

var echoed = make(chan string, 10)

func (j *echoJob) Handle() error {
	echoed <- j.Value
	return nil
}

type alwaysFailJob struct{}

func (j *alwaysFailJob) Handle() error { return errors.New("boom") }

func startTestWorkers(t *testing.T) {
	t.Helper()
	SetDriver(NewMemoryDriver())
	ctx, cancel := context.WithCancel(context.Background())
	t.Cleanup(cancel)
	StartWorkers(ctx, 1)
}

func TestDispatchRunsRegisteredJob(t *testing.T) {
	Register("test.Echo", func() Job { return &echoJob{} })
	startTestWorkers(t)

	require.NoError(t, Dispatch("test.Echo", &echoJob{Value: "hola"}))

	select {
	case got := <-echoed:
		assert.Equal(t, "hola", got)
	case <-time.After(2 * time.Second):
		t.Fatal("job was never processed")
	}
}

func TestUnregisteredJobIsDropped(t *testing.T) {
	Register("test.Echo", func() Job { return &echoJob{} })
	startTestWorkers(t)

	require.NoError(t, Dispatch("test.Missing", &echoJob{Value: "lost"}))
	require.NoError(t, Dispatch("test.Echo", &echoJob{Value: "kept"}))

	select {
	case got := <-echoed:
		assert.Equal(t, "kept", got, "unregistered job must not reach a handler")
	case <-time.After(2 * time.Second):
		t.Fatal("follow-up job was never processed")
	}
}

func TestExhaustedRetriesLandInFailedJobs(t *testing.T) {
	Register("test.AlwaysFail", func() Job { return &alwaysFailJob{} })
	SetMaxRetry(1)
	t.Cleanup(func() { SetMaxRetry(3) })
	startTestWorkers(t)

	before := len(FailedJobs())
	require.NoError(t, Dispatch("test.AlwaysFail", &alwaysFailJob{}))

	assert.Eventually(t, func() bool {
		return len(FailedJobs()) > before
	}, 3*time.Second, 20*time.Millisecond)

	failed := FailedJobs()
	last := failed[len(failed)-1]
	assert.Equal(t, "test.AlwaysFail", last.Type)
	assert.EqualError(t, last.Err, "boom")
	assert.Equal(t, 1, last.Attempts)
	assert.WithinDuration(t, time.Now(), last.FailedAt, 5*time.Second)
}

func TestDispatchAfterDelaysJob(t *testing.T) {
	Register("test.Echo", func() Job { return &echoJob{} })
	startTestWorkers(t)

	DispatchAfter("test.Echo", &echoJob{Value: "later"}, 20*time.Millisecond)

	select {
	case got := <-echoed:
		assert.Equal(t, "later", got)
	case <-time.After(2 * time.Second):
		t.Fatal("delayed job was never processed")
	}
}
