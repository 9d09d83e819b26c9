package moro

// JobsState reports the outcome of a PollJobs pass.
type JobsState int

const (
	// JobsPending: some jobs exist but none could complete; the
	// driver should suspend until re-woken.
	JobsPending JobsState = iota
	// JobsTerminated: the scope was collapsed early; the
	// accompanying value is its final result. The scope must not be
	// polled again.
	JobsTerminated
	// JobsQuiescent: no spawned jobs are outstanding right now.
	// This is not overall completion; the owning body may spawn
	// more work and poll again.
	JobsQuiescent
)

// Scope coordinates a set of concurrently-interleaved jobs and an
// optional early-termination value of type R. The body that owns
// the scope, and every job spawned into it, share it by reference;
// none of the jobs outlives it.
//
// A Scope is strictly single-threaded. Reentrant use is fine (a
// job being polled may spawn or terminate on its own scope) but
// overlapping use from another goroutine panics.
type Scope[R any] struct {
	noCopy  noCopy
	jobs    jobSet
	termSet bool
	termVal R
	obs     Observer
}

// New allocates a scope.
func New[R any](opts ...Option) *Scope[R] {
	var o options
	for _, fn := range opts {
		fn(&o)
	}

	s := &Scope[R]{obs: o.obs}
	if s.obs != nil {
		s.obs.ScopeCreated()
	}
	return s
}

// Spawn runs fut concurrently with everything else in the scope and
// returns a handle to its eventual result. The job may reference
// any data whose lifetime covers the scope's, and may itself spawn
// or terminate. The scope does not go quiescent until the job
// completes or the scope is terminated. Spawn always succeeds.
//
// The handle is independent of the job: discarding it does not
// cancel anything, and the job's completion send is silently
// ignored if nobody kept the handle.
func Spawn[T, R any](s *Scope[R], fut Future[T]) Handle[T] {
	tx, rx := newOneshot[T]()
	s.jobs.push(&spawnedJob[T]{fut: fut, tx: tx, obs: s.obs})
	if s.obs != nil {
		s.obs.TaskSpawned()
	}
	return Handle[T]{rx: rx}
}

// Terminate collapses the scope to v: every job still resident
// stops at its next suspension point and never runs again, and the
// scope's final result becomes v. The first caller wins; later
// calls on the same scope are no-ops, not errors.
//
// The returned handle never resolves. Its only use is to suspend
// the current execution path: awaiting it parks the caller, and the
// scope's teardown drops the caller before it would ever wake.
// Callers must not rely on it resolving.
func Terminate[T, R any](s *Scope[R], v R) Handle[T] {
	if !s.termSet {
		s.termSet = true
		s.termVal = v
		if s.obs != nil {
			s.obs.ScopeTerminated()
		}
	}

	// The job below is never scheduled: termination is consumed
	// before the registry is stepped again. It can only run under a
	// driver that keeps polling after JobsTerminated, which is a
	// contract violation worth crashing on.
	return Spawn[T](s, FutureFunc[T](func(*Context) (T, bool) {
		panic("moro: scope polled after termination")
	}))
}

// PollJobs steps the jobs spawned so far. It returns:
//
//   - JobsTerminated and the termination value if the scope was
//     collapsed; consume the value, call Clear, and never poll this
//     scope again.
//   - JobsPending if jobs remain but none could complete.
//   - JobsQuiescent if no jobs remain; polling again later is fine.
//
// The termination slot is checked before the registry is touched
// and re-checked after every single completion, so termination
// always pre-empts further normal progress, even completions that
// were ready in the same pass.
func (s *Scope[R]) PollJobs(cx *Context) (R, JobsState) {
	for {
		if s.termSet {
			s.termSet = false
			r := s.termVal
			var zero R
			s.termVal = zero
			return r, JobsTerminated
		}

		switch s.jobs.pollStep(cx) {
		case stepAdvanced:
			// A just-completed job may have terminated the scope.
			continue
		case stepEmpty:
			var zero R
			return zero, JobsQuiescent
		default:
			var zero R
			return zero, JobsPending
		}
	}
}

// Clear drops every pending job without resuming it. It must run
// before the scope itself is discarded so that no job still holds a
// back-reference into it. Safe to call more than once.
func (s *Scope[R]) Clear() {
	dropped := s.jobs.clear()
	if s.obs != nil {
		s.obs.ScopeCleared(dropped)
	}
}

// spawnedJob adapts a value-producing future into the unit-shaped
// job the registry stores, delivering the value through a oneshot
// on completion.
type spawnedJob[T any] struct {
	fut Future[T]
	tx  *sender[T]
	obs Observer
}

func (j *spawnedJob[T]) Poll(cx *Context) (struct{}, bool) {
	v, done := j.fut.Poll(cx)
	if !done {
		return struct{}{}, false
	}

	j.tx.send(v)
	if j.obs != nil {
		j.obs.TaskCompleted()
	}
	return struct{}{}, true
}

// Drop abandons the job: the inner future releases its resources
// and the producer end reports itself gone.
func (j *spawnedJob[T]) Drop() {
	DropFuture(j.fut)
	j.tx.drop()
}
