package moro

import (
	"errors"

	"github.com/webriots/coro"
)

// Coroutine is the execution context handed to an Async body. It
// lets the body suspend cooperatively at Await points. A Coroutine
// is only valid inside the body it was created for.
type Coroutine struct {
	cx      *Context
	suspend func() *Context
}

// Async turns an imperative function into a future backed by a
// coroutine. The body runs on its own coroutine stack and may call
// Await wherever it needs the value of another future; each Await
// that cannot complete immediately suspends the whole body until
// the awaited future wakes it.
//
// If the future is abandoned before the body returns (its scope
// was terminated or cleared), the coroutine is cancelled: the body
// stops at its current suspension point, its deferred cleanup runs,
// and it never resumes. A body that panics for its own reasons
// propagates that panic to whoever polled it.
func Async[T any](fn func(co *Coroutine) T) Future[T] {
	af := &asyncFuture[T]{co: new(Coroutine)}

	af.resume, af.cancel = coro.New(
		func(_ func(struct{}) *Context, suspend func() *Context) (z struct{}) {
			defer func() {
				p := recover()
				if p == nil {
					return
				}
				if err, ok := p.(error); ok && errors.Is(err, coro.ErrCanceled) {
					// Abandoned at a suspension point; unwind
					// quietly after the body's own defers ran.
					return
				}
				panic(p)
			}()

			af.co.suspend = suspend
			af.val = fn(af.co)
			return
		},
	)

	return af
}

// Await polls fut to completion on behalf of an Async body,
// suspending the body whenever fut cannot progress. It returns
// fut's value.
func Await[T any](co *Coroutine, fut Future[T]) T {
	for {
		if v, ok := fut.Poll(co.cx); ok {
			return v
		}
		co.cx = co.suspend()
	}
}

type asyncFuture[T any] struct {
	co     *Coroutine
	resume func(*Context) (struct{}, bool)
	cancel func()
	val    T
	done   bool
}

func (af *asyncFuture[T]) Poll(cx *Context) (T, bool) {
	if af.done {
		return af.val, true
	}

	af.co.cx = cx
	if _, running := af.resume(cx); running {
		var zero T
		return zero, false
	}

	af.done = true
	return af.val, true
}

// Drop cancels the coroutine so an abandoned body releases its
// stack instead of parking forever.
func (af *asyncFuture[T]) Drop() {
	if !af.done {
		af.cancel()
		af.done = true
	}
}
