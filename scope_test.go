package moro

import (
	"testing"

	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"
)

func TestMain(m *testing.M) {
	goleak.VerifyTestMain(m)
}

// stepper completes with v after n suspensions, waking itself so a
// parked driver re-polls.
type stepper[T any] struct {
	v     T
	n     int
	polls int
	done  bool
}

func (st *stepper[T]) Poll(cx *Context) (T, bool) {
	st.polls++
	if st.n > 0 {
		st.n--
		cx.Wake()
		var zero T
		return zero, false
	}
	st.done = true
	return st.v, true
}

// pending suspends forever and records whether it was dropped.
type pending[T any] struct {
	polls   int
	dropped bool
}

func (p *pending[T]) Poll(*Context) (T, bool) {
	p.polls++
	var zero T
	return zero, false
}

func (p *pending[T]) Drop() {
	p.dropped = true
}

func TestSpawnPollToQuiescent(t *testing.T) {
	r := require.New(t)

	s := New[string]()
	h1 := Spawn[int](s, Ready(1))
	h2 := Spawn[int](s, Ready(2))
	h3 := Spawn[int](s, Ready(3))

	cx := NewContext(nil)
	v, state := s.PollJobs(cx)
	r.Equal(JobsQuiescent, state)
	r.Empty(v)

	sum := 0
	for _, h := range []Handle[int]{h1, h2, h3} {
		n, ok := h.Poll(cx)
		r.True(ok)
		sum += n
	}
	r.Equal(6, sum)

	s.Clear()
}

func TestHandleUnresolvedUntilPolled(t *testing.T) {
	r := require.New(t)

	s := New[string]()
	h := Spawn[int](s, Ready(42))

	// Nothing has stepped the scope yet, so the handle is pending.
	cx := NewContext(nil)
	_, ok := h.Poll(cx)
	r.False(ok)

	_, state := s.PollJobs(cx)
	r.Equal(JobsQuiescent, state)

	n, ok := h.Poll(cx)
	r.True(ok)
	r.Equal(42, n)
}

func TestQuiescentThenSpawnMore(t *testing.T) {
	r := require.New(t)

	s := New[string]()
	cx := NewContext(nil)

	_, state := s.PollJobs(cx)
	r.Equal(JobsQuiescent, state)

	h := Spawn[int](s, Ready(7))
	_, state = s.PollJobs(cx)
	r.Equal(JobsQuiescent, state)

	n, ok := h.Poll(cx)
	r.True(ok)
	r.Equal(7, n)
}

func TestTerminatePreemptsCompletions(t *testing.T) {
	r := require.New(t)

	s := New[string]()
	cx := NewContext(nil)

	// A terminates as its first action and then parks, exactly like
	// a body awaiting the termination handle.
	Spawn[int](s, FutureFunc[int](func(*Context) (int, bool) {
		Terminate[int](s, "stopped")
		return 0, false
	}))

	b := &stepper[int]{v: 99, n: 1}
	hb := Spawn[int](s, b)

	// First pass: A parks after terminating, B suspends once. The
	// pass reports pending; the termination is honored at the top
	// of the next pass, before B would complete.
	_, state := s.PollJobs(cx)
	r.Equal(JobsPending, state)

	v, state := s.PollJobs(cx)
	r.Equal(JobsTerminated, state)
	r.Equal("stopped", v)

	s.Clear()
	r.False(b.done)

	// B's handle never resolved; with its job dropped, polling it
	// is the abandoned-result fault.
	r.PanicsWithValue("moro: task abandoned before delivering its result", func() {
		hb.Poll(cx)
	})
}

func TestTerminateAfterCompletionSamePass(t *testing.T) {
	r := require.New(t)

	s := New[string]()
	cx := NewContext(nil)

	// A completes in the same poll in which it terminates; the
	// termination must still win over C's pending completion.
	Spawn[int](s, FutureFunc[int](func(*Context) (int, bool) {
		Terminate[int](s, "early")
		return 1, true
	}))
	c := &stepper[int]{v: 3}
	Spawn[int](s, c)

	v, state := s.PollJobs(cx)
	r.Equal(JobsTerminated, state)
	r.Equal("early", v)
	r.False(c.done)

	s.Clear()
}

func TestTerminateFirstWins(t *testing.T) {
	r := require.New(t)

	s := New[string]()
	Terminate[int](s, "a")
	Terminate[int](s, "b")

	v, state := s.PollJobs(NewContext(nil))
	r.Equal(JobsTerminated, state)
	r.Equal("a", v)

	s.Clear()
}

func TestTerminationHandleNeverResolves(t *testing.T) {
	r := require.New(t)

	s := New[string]()
	cx := NewContext(nil)
	h := Terminate[int](s, "done")

	_, ok := h.Poll(cx)
	r.False(ok)

	v, state := s.PollJobs(cx)
	r.Equal(JobsTerminated, state)
	r.Equal("done", v)

	_, ok = h.Poll(cx)
	r.False(ok)

	s.Clear()
}

func TestPollAfterTerminatedFaults(t *testing.T) {
	r := require.New(t)

	s := New[string]()
	cx := NewContext(nil)
	Terminate[int](s, "done")

	_, state := s.PollJobs(cx)
	r.Equal(JobsTerminated, state)

	// The driver contract forbids polling again; doing so anyway
	// reaches the job Terminate parked in the registry.
	r.PanicsWithValue("moro: scope polled after termination", func() {
		s.PollJobs(cx)
	})

	s.Clear()
}

func TestReentrantSpawn(t *testing.T) {
	r := require.New(t)

	s := New[string]()
	cx := NewContext(nil)

	inner := &stepper[int]{v: 10}
	var hInner Handle[int]
	Spawn[int](s, FutureFunc[int](func(*Context) (int, bool) {
		hInner = Spawn[int](s, inner)
		return 0, true
	}))

	_, state := s.PollJobs(cx)
	r.Equal(JobsQuiescent, state)
	r.True(inner.done)

	n, ok := hInner.Poll(cx)
	r.True(ok)
	r.Equal(10, n)
}

func TestReentrantSpawnDeferredToNextStep(t *testing.T) {
	r := require.New(t)

	var js jobSet
	cx := NewContext(nil)

	inner := new(pending[struct{}])
	js.push(FutureFunc[struct{}](func(*Context) (struct{}, bool) {
		js.push(inner)
		return struct{}{}, false
	}))

	r.Equal(stepPending, js.pollStep(cx))
	r.Zero(inner.polls)

	r.Equal(stepPending, js.pollStep(cx))
	r.Equal(1, inner.polls)

	js.clear()
	r.True(inner.dropped)
}

func TestClearDropsWithoutResuming(t *testing.T) {
	r := require.New(t)

	s := New[string]()
	cx := NewContext(nil)

	p := new(pending[int])
	h := Spawn[int](s, p)

	_, state := s.PollJobs(cx)
	r.Equal(JobsPending, state)
	r.Equal(1, p.polls)

	s.Clear()
	r.True(p.dropped)

	_, state = s.PollJobs(cx)
	r.Equal(JobsQuiescent, state)
	r.Equal(1, p.polls)

	r.Panics(func() { h.Poll(cx) })

	// Clear is idempotent.
	s.Clear()
	s.Clear()
}

func TestHandleDoubleReceiveFaults(t *testing.T) {
	r := require.New(t)

	s := New[string]()
	cx := NewContext(nil)
	h := Spawn[int](s, Ready(5))

	_, state := s.PollJobs(cx)
	r.Equal(JobsQuiescent, state)

	n, ok := h.Poll(cx)
	r.True(ok)
	r.Equal(5, n)

	r.PanicsWithValue("moro: result received twice from the same handle", func() {
		h.Poll(cx)
	})
}

func TestOverlappingPollFaults(t *testing.T) {
	r := require.New(t)

	s := New[string]()
	cx := NewContext(nil)

	Spawn[int](s, FutureFunc[int](func(*Context) (int, bool) {
		s.PollJobs(cx) // non-reentrant use of the registry
		return 0, true
	}))

	r.PanicsWithValue("moro: job set polled concurrently", func() {
		s.PollJobs(cx)
	})
}

func TestDiscardedHandleSendIgnored(t *testing.T) {
	r := require.New(t)

	s := New[string]()
	cx := NewContext(nil)

	// Spawn without keeping the handle; completion must not fault.
	_ = Spawn[int](s, Ready(1))

	_, state := s.PollJobs(cx)
	r.Equal(JobsQuiescent, state)
}
