package moro

// SpawnErr spawns a fallible job into an error-typed scope and
// wires fail-fast semantics: the first job to return a non-nil
// error terminates the whole scope with it, abandoning every
// sibling at its next suspension point. Jobs that return nil just
// complete. Terminate's first-caller-wins rule makes the first
// error the scope's result regardless of interleaving.
//
// The returned handle resolves with the job's error only when the
// job completes before any termination; like any handle, it need
// not be awaited.
func SpawnErr(s *Scope[error], fut Future[error]) Handle[error] {
	return Spawn[error](s, &errJob{scope: s, fut: fut})
}

// errJob completes with the inner job's error and, on a non-nil
// error, terminates the owning scope as a side effect. The
// termination handle is discarded: this job has already reached its
// end and has nothing left to suspend.
type errJob struct {
	scope *Scope[error]
	fut   Future[error]
}

func (j *errJob) Poll(cx *Context) (error, bool) {
	err, done := j.fut.Poll(cx)
	if !done {
		return nil, false
	}
	if err != nil {
		Terminate[struct{}](j.scope, err)
	}
	return err, true
}

func (j *errJob) Drop() {
	DropFuture(j.fut)
}
