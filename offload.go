package moro

import (
	"context"
	"sync"

	"golang.org/x/sync/semaphore"
)

// Result pairs an offloaded call's value with its error.
type Result[T any] struct {
	Value T
	Err   error
}

// Pool bounds how many offloaded calls run at once. The zero Pool
// is not usable; construct with NewPool.
type Pool struct {
	sem *semaphore.Weighted
}

// NewPool returns a pool admitting at most n concurrent calls.
func NewPool(n int64) *Pool {
	return &Pool{sem: semaphore.NewWeighted(n)}
}

// Offload runs fn on its own goroutine (the one place this package
// uses real parallelism) and returns a future for its outcome. The
// future is pollable from the cooperative world: it suspends until
// fn finishes, then resolves with fn's value and error. Use it for
// work that genuinely blocks (disk, sockets, CPU-heavy calls) and
// would otherwise stall every interleaved task.
//
// The goroutine waits for a pool slot before calling fn; if ctx is
// done first, the future resolves with ctx's error and fn never
// runs. Abandoning the future does not interrupt fn: the goroutine
// finishes its call and its send lands on a cell nobody reads.
func Offload[T any](p *Pool, ctx context.Context, fn func(context.Context) (T, error)) Future[Result[T]] {
	job := new(offloadJob[T])

	go func() {
		var res Result[T]
		if err := p.sem.Acquire(ctx, 1); err != nil {
			res.Err = err
		} else {
			res.Value, res.Err = fn(ctx)
			p.sem.Release(1)
		}
		job.complete(res)
	}()

	return job
}

// offloadJob is the handoff cell between fn's goroutine and the
// driver. Unlike the scope's oneshot it is crossed by a foreign
// goroutine, so it carries a real lock.
type offloadJob[T any] struct {
	mu    sync.Mutex
	done  bool
	res   Result[T]
	waker Waker
}

func (j *offloadJob[T]) Poll(cx *Context) (Result[T], bool) {
	j.mu.Lock()
	defer j.mu.Unlock()

	if j.done {
		return j.res, true
	}
	j.waker = cx.Waker()
	return Result[T]{}, false
}

func (j *offloadJob[T]) complete(res Result[T]) {
	j.mu.Lock()
	j.done = true
	j.res = res
	w := j.waker
	j.waker = nil
	j.mu.Unlock()

	if w != nil {
		w()
	}
}
