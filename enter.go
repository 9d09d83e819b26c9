package moro

// Enter creates a scope, hands it to body, and returns a future for
// the scope's overall result. The body builds a future (typically
// with Async) that runs interleaved with everything it spawns; the
// returned future races the two:
//
//   - If the scope is terminated, by the body or by any job, the
//     result is the termination value. All other jobs, and the body
//     itself if still running, are dropped at their current
//     suspension points.
//   - If the body completes normally, remaining jobs are driven
//     until the scope is quiescent and the result is the body's
//     value.
//
// Either way the scope is cleared before the future resolves, so no
// job retains a reference into it afterwards.
func Enter[R any](body func(s *Scope[R]) Future[R], opts ...Option) Future[R] {
	s := New[R](opts...)
	return &scopeFuture[R]{scope: s, body: body(s)}
}

type scopeFuture[R any] struct {
	scope    *Scope[R]
	body     Future[R]
	bodyVal  R
	bodyDone bool
}

func (f *scopeFuture[R]) Poll(cx *Context) (R, bool) {
	for {
		r, state := f.scope.PollJobs(cx)
		if state == JobsTerminated {
			f.scope.Clear()
			if !f.bodyDone {
				DropFuture(f.body)
				f.bodyDone = true
			}
			return r, true
		}

		if !f.bodyDone {
			v, ok := f.body.Poll(cx)
			if !ok {
				// The body may have spawned or terminated just now;
				// spawning wakes the driver, so suspending here
				// cannot strand the scope.
				var zero R
				return zero, false
			}
			f.bodyVal = v
			f.bodyDone = true
			// Jobs spawned on the body's final stretch, or a
			// terminate it issued, are picked up by re-polling.
			continue
		}

		if state == JobsQuiescent {
			f.scope.Clear()
			return f.bodyVal, true
		}

		var zero R
		return zero, false
	}
}

// Drop tears the scope down if the future is abandoned mid-flight.
func (f *scopeFuture[R]) Drop() {
	if !f.bodyDone {
		DropFuture(f.body)
		f.bodyDone = true
	}
	f.scope.Clear()
}
