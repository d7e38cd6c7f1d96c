package async

import (
	"context"
	"sync"

	"github.com/pkg/errors"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"golang.org/x/sync/semaphore"
)

// ErrShuttingDown is returned when work is submitted to an executor that has been stopped.
var ErrShuttingDown = errors.New("executor is shutting down")

// DefaultMaxBlockingTasks bounds the blocking pool when no explicit limit is configured.
const DefaultMaxBlockingTasks = 16

var (
	spawnedTasks = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "async_executor_spawned_tasks_total",
		Help: "Number of tasks spawned on the executor, by task name.",
	}, []string{"task"})
	blockingTasksWaiting = promauto.NewGauge(prometheus.GaugeOpts{
		Name: "async_executor_blocking_tasks_waiting",
		Help: "Number of blocking tasks waiting for a free slot in the blocking pool.",
	})
)

// Executor runs units of work in their own goroutines, all derived from a single parent context.
// Blocking work is throttled by a weighted semaphore so it cannot starve request handling.
// Stopping the executor cancels every task it spawned and rejects new submissions.
type Executor struct {
	ctx      context.Context
	cancel   context.CancelFunc
	blocking *semaphore.Weighted
	wg       sync.WaitGroup
	lock     sync.RWMutex
	stopped  bool
}

// NewExecutor returns an executor whose tasks live at most as long as ctx. maxBlocking bounds
// the number of concurrent SpawnBlocking calls; non-positive values use DefaultMaxBlockingTasks.
func NewExecutor(ctx context.Context, maxBlocking int64) *Executor {
	if maxBlocking <= 0 {
		maxBlocking = DefaultMaxBlockingTasks
	}
	ctx, cancel := context.WithCancel(ctx)
	return &Executor{
		ctx:      ctx,
		cancel:   cancel,
		blocking: semaphore.NewWeighted(maxBlocking),
	}
}

// Stop cancels all running tasks and waits for them to return.
func (e *Executor) Stop() {
	e.lock.Lock()
	e.stopped = true
	e.cancel()
	e.lock.Unlock()
	e.wg.Wait()
}

// IsStopped reports whether Stop was called or the parent context is done.
func (e *Executor) IsStopped() bool {
	e.lock.RLock()
	defer e.lock.RUnlock()
	return e.stopped || e.ctx.Err() != nil
}

// register reserves a slot in the wait group, failing once the executor stopped.
func (e *Executor) register() error {
	e.lock.RLock()
	defer e.lock.RUnlock()
	if e.stopped || e.ctx.Err() != nil {
		return ErrShuttingDown
	}
	e.wg.Add(1)
	return nil
}

// Handle is the result of a spawned task. It is resolved exactly once.
type Handle[T any] struct {
	done   chan struct{}
	val    T
	err    error
	cancel context.CancelFunc
}

// Await blocks until the task finishes or ctx is done.
func (h *Handle[T]) Await(ctx context.Context) (T, error) {
	select {
	case <-h.done:
		return h.val, h.err
	case <-ctx.Done():
		var zero T
		return zero, ctx.Err()
	}
}

// Cancel cancels the task's context. The task still resolves its handle when it returns.
func (h *Handle[T]) Cancel() {
	h.cancel()
}

// Done is closed once the task has returned.
func (h *Handle[T]) Done() <-chan struct{} {
	return h.done
}

// SpawnHandle runs f in a new goroutine and returns a handle to its result.
// ErrShuttingDown is returned synchronously if the executor is stopped.
func SpawnHandle[T any](e *Executor, name string, f func(ctx context.Context) (T, error)) (*Handle[T], error) {
	if err := e.register(); err != nil {
		return nil, err
	}
	ctx, cancel := context.WithCancel(e.ctx)
	h := &Handle[T]{
		done:   make(chan struct{}),
		cancel: cancel,
	}
	spawnedTasks.WithLabelValues(name).Inc()
	go func() {
		defer e.wg.Done()
		defer cancel()
		defer close(h.done)
		h.val, h.err = f(ctx)
		if h.err != nil {
			log.WithError(h.err).WithField("task", name).Debug("Task returned an error")
		}
	}()
	return h, nil
}

// SpawnBlocking runs f on the bounded blocking pool and waits for it. f cannot be interrupted,
// so when ctx is done first the call returns early and f's result is discarded.
func SpawnBlocking[T any](ctx context.Context, e *Executor, name string, f func() (T, error)) (T, error) {
	var zero T
	if err := e.register(); err != nil {
		return zero, err
	}
	blockingTasksWaiting.Inc()
	if err := e.blocking.Acquire(ctx, 1); err != nil {
		blockingTasksWaiting.Dec()
		e.wg.Done()
		return zero, errors.Wrapf(err, "could not acquire blocking slot for %s", name)
	}
	blockingTasksWaiting.Dec()
	spawnedTasks.WithLabelValues(name).Inc()

	type result struct {
		val T
		err error
	}
	res := make(chan result, 1)
	go func() {
		defer e.wg.Done()
		defer e.blocking.Release(1)
		v, err := f()
		res <- result{val: v, err: err}
	}()
	select {
	case r := <-res:
		return r.val, r.err
	case <-ctx.Done():
		return zero, ctx.Err()
	case <-e.ctx.Done():
		return zero, ErrShuttingDown
	}
}
