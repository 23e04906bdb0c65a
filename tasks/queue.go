package tasks

import (
	"HaloBackend/metrics"
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/sirupsen/logrus"
)

// Runner executes fire-and-forget tasks in their own goroutines. A task gets a fresh
// context bounded by the runner timeout, so it outlives the request that queued it.
// Outcomes are logged and counted, never returned.
type Runner struct {
	logger  *logrus.Entry
	timeout time.Duration

	mu      sync.Mutex
	closed  bool
	wg      sync.WaitGroup
	baseCtx context.Context
	cancel  context.CancelFunc
}

func NewRunner(logger *logrus.Logger, timeout time.Duration) *Runner {
	if timeout <= 0 {
		timeout = 15 * time.Second
	}
	ctx, cancel := context.WithCancel(context.Background())
	return &Runner{
		logger:  logger.WithField("component", "tasks"),
		timeout: timeout,
		baseCtx: ctx,
		cancel:  cancel,
	}
}

// Enqueue schedules fn and returns immediately. Tasks queued after Shutdown are dropped.
func (r *Runner) Enqueue(name string, fn func(ctx context.Context) error) {
	r.mu.Lock()
	if r.closed {
		r.mu.Unlock()
		r.logger.WithField("task", name).Warn("task dropped, runner is shut down")
		metrics.ObserveTask("dropped")
		return
	}
	r.wg.Add(1)
	r.mu.Unlock()

	go func() {
		defer r.wg.Done()
		ctx, cancel := context.WithTimeout(r.baseCtx, r.timeout)
		defer cancel()

		if err := r.run(ctx, fn); err != nil {
			r.logger.WithField("task", name).WithError(err).Warn("task failed")
			metrics.ObserveTask("failed")
			return
		}
		metrics.ObserveTask("ok")
	}()
}

func (r *Runner) run(ctx context.Context, fn func(ctx context.Context) error) (err error) {
	defer func() {
		if p := recover(); p != nil {
			err = fmt.Errorf("panic: %v", p)
		}
	}()
	return fn(ctx)
}

// Shutdown stops accepting tasks and waits for running ones. When ctx expires first,
// running tasks are cancelled and ctx.Err() is returned.
func (r *Runner) Shutdown(ctx context.Context) error {
	r.mu.Lock()
	r.closed = true
	r.mu.Unlock()

	done := make(chan struct{})
	go func() {
		r.wg.Wait()
		close(done)
	}()

	select {
	case <-done:
		r.cancel()
		return nil
	case <-ctx.Done():
		r.cancel()
		return ctx.Err()
	}
}
