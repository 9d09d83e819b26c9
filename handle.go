package moro

// Handle is the caller-facing future for one spawned job's eventual
// result. Awaiting it suspends the caller until the job's value
// arrives. The value is delivered at most once.
//
// If the job backing the handle was abandoned before sending (its
// scope was cleared while something still depended on the result),
// polling the handle panics. Correct use of a scope never observes
// this: handles of abandoned jobs are torn down along with the
// scope, not awaited.
type Handle[T any] struct {
	rx *receiver[T]
}

// Poll implements Future.
func (h Handle[T]) Poll(cx *Context) (T, bool) {
	return h.rx.Poll(cx)
}
