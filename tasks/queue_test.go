package tasks

import (
	"context"
	"errors"
	"io"
	"sync/atomic"
	"testing"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func quietLogger() *logrus.Logger {
	l := logrus.New()
	l.SetOutput(io.Discard)
	return l
}

func TestRunnerRunsTasksAndShutdownWaits(t *testing.T) {
	r := NewRunner(quietLogger(), time.Second)
	var count int32

	for i := 0; i < 10; i++ {
		r.Enqueue("count", func(ctx context.Context) error {
			time.Sleep(5 * time.Millisecond)
			atomic.AddInt32(&count, 1)
			return nil
		})
	}

	require.NoError(t, r.Shutdown(context.Background()))
	assert.Equal(t, int32(10), atomic.LoadInt32(&count))
}

func TestRunnerRecoversPanicsAndErrors(t *testing.T) {
	r := NewRunner(quietLogger(), time.Second)
	var ran int32

	r.Enqueue("panics", func(ctx context.Context) error { panic("boom") })
	r.Enqueue("fails", func(ctx context.Context) error { return errors.New("nope") })
	r.Enqueue("works", func(ctx context.Context) error {
		atomic.AddInt32(&ran, 1)
		return nil
	})

	require.NoError(t, r.Shutdown(context.Background()))
	assert.Equal(t, int32(1), atomic.LoadInt32(&ran))
}

func TestRunnerTaskContextHasTimeout(t *testing.T) {
	r := NewRunner(quietLogger(), 20*time.Millisecond)
	errCh := make(chan error, 1)

	r.Enqueue("slow", func(ctx context.Context) error {
		<-ctx.Done()
		errCh <- ctx.Err()
		return ctx.Err()
	})

	select {
	case err := <-errCh:
		assert.ErrorIs(t, err, context.DeadlineExceeded)
	case <-time.After(time.Second):
		t.Fatal("task context never expired")
	}
	require.NoError(t, r.Shutdown(context.Background()))
}

func TestRunnerDropsTasksAfterShutdown(t *testing.T) {
	r := NewRunner(quietLogger(), time.Second)
	require.NoError(t, r.Shutdown(context.Background()))

	var ran int32
	r.Enqueue("late", func(ctx context.Context) error {
		atomic.AddInt32(&ran, 1)
		return nil
	})
	time.Sleep(10 * time.Millisecond)
	assert.Equal(t, int32(0), atomic.LoadInt32(&ran))
}

func TestRunnerShutdownDeadline(t *testing.T) {
	r := NewRunner(quietLogger(), time.Minute)
	r.Enqueue("stuck", func(ctx context.Context) error {
		<-ctx.Done()
		return ctx.Err()
	})

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Millisecond)
	defer cancel()
	assert.ErrorIs(t, r.Shutdown(ctx), context.DeadlineExceeded)
}
