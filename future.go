package moro

// Waker signals that a suspended future may be able to make
// progress and should be polled again. Wakers must be safe to
// invoke from any goroutine: blocking work that finishes on a
// foreign goroutine wakes the driver through one. Invoking a waker
// more than once, or after the future it belongs to has completed,
// is harmless.
type Waker func()

// Context carries the waker for the current poll. It is passed down
// through every Poll call so that whichever future ends up
// suspending can arrange to be re-polled.
type Context struct {
	waker Waker
}

// NewContext returns a Context that wakes with w. Drivers construct
// one per poll pass; everything below shares it.
func NewContext(w Waker) *Context {
	return &Context{waker: w}
}

// Waker returns the context's waker. It never returns nil; a
// context built without a waker wakes into nothing.
func (cx *Context) Waker() Waker {
	if cx.waker == nil {
		return func() {}
	}
	return cx.waker
}

// Wake invokes the context's waker.
func (cx *Context) Wake() {
	if cx.waker != nil {
		cx.waker()
	}
}

// Future is a unit of cooperative work. Poll either completes the
// work and returns (value, true), or returns (zero, false) after
// arranging, via the context's waker, to be polled again once
// progress is possible. A future that returns false without
// stashing the waker anywhere will only be re-polled incidentally.
//
// Futures are single-threaded: Poll is never called concurrently
// with itself and all polling happens on the driver's goroutine.
type Future[T any] interface {
	Poll(cx *Context) (T, bool)
}

// FutureFunc adapts a plain function to the Future interface.
type FutureFunc[T any] func(cx *Context) (T, bool)

// Poll calls fn.
func (fn FutureFunc[T]) Poll(cx *Context) (T, bool) {
	return fn(cx)
}

// Ready returns a future that completes immediately with v.
func Ready[T any](v T) Future[T] {
	return FutureFunc[T](func(*Context) (T, bool) {
		return v, true
	})
}

// Dropper is implemented by futures that hold resources which must
// be released if the future is abandoned before completion, such as
// a parked coroutine or the producer end of a result channel. Drop must
// be idempotent and must not resume the future's work.
type Dropper interface {
	Drop()
}

// DropFuture releases f if it implements Dropper. The registry
// calls this for every job it discards, and the scope combinator
// calls it for an abandoned body.
func DropFuture(f any) {
	if d, ok := f.(Dropper); ok {
		d.Drop()
	}
}
