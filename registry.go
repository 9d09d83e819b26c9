package moro

import "github.com/gammazero/deque"

// pollStep outcomes.
const (
	// stepPending: no job could complete this step; the caller
	// should suspend until a waker fires.
	stepPending = iota
	// stepAdvanced: exactly one job finished this step. The caller
	// re-checks its own state before stepping again.
	stepAdvanced
	// stepEmpty: no jobs remain.
	stepEmpty
)

// jobSet is the task registry: a dynamic, unordered collection of
// erased unit-producing jobs. Jobs live in a slot arena so that
// handles and wakers refer to them by index, never by nested
// pointer; a freed slot is nil and every access checks liveness.
//
// The set is single-writer. It tolerates reentrant mutation (a job
// being polled may push new jobs into the same set) but detects
// overlapping, non-reentrant use (a second goroutine stepping the
// set mid-step) and treats it as a contract violation.
type jobSet struct {
	noCopy  noCopy
	slots   []Future[struct{}] // arena; nil slot = dead
	free    []int              // indices of dead slots
	order   deque.Deque[int]   // rotation queue of live slot ids
	live    int
	waker   Waker // waker of the most recent pollStep caller
	polling bool
}

// push inserts a job. Safe to call at any time, including from a
// job that is currently being polled: jobs pushed during a step are
// queued behind the step's snapshot and are not polled until the
// next step. Pushing wakes whoever polled the set last, so a parked
// driver learns there is new work.
func (js *jobSet) push(job Future[struct{}]) {
	var id int
	if n := len(js.free); n > 0 {
		id = js.free[n-1]
		js.free = js.free[:n-1]
		js.slots[id] = job
	} else {
		id = len(js.slots)
		js.slots = append(js.slots, job)
	}

	js.order.PushBack(id)
	js.live++

	if js.waker != nil {
		js.waker()
	}
}

// pollStep advances the set by at most one completion. It polls the
// jobs that were queued when the step began, in rotation; the first
// job to finish ends the step with stepAdvanced. If every polled
// job suspends, the step ends with stepPending; if no jobs remain,
// stepEmpty. No ordering is guaranteed among jobs; completion
// order is whatever readiness delivers.
func (js *jobSet) pollStep(cx *Context) int {
	if js.polling {
		panic("moro: job set polled concurrently")
	}
	js.polling = true
	defer func() { js.polling = false }()

	js.waker = cx.Waker()

	// Snapshot the queue length so jobs pushed reentrantly during
	// this step wait for the next one.
	for k := js.order.Len(); k > 0; k-- {
		id := js.order.PopFront()
		job := js.slots[id]
		if job == nil {
			continue
		}

		if _, done := job.Poll(cx); done {
			js.release(id)
			return stepAdvanced
		}

		js.order.PushBack(id)
	}

	if js.live == 0 {
		return stepEmpty
	}
	return stepPending
}

// clear synchronously discards every job without resuming it. Jobs
// holding resources are dropped so nothing dangles: coroutines are
// cancelled, result-channel producers report themselves gone.
// Idempotent. Returns how many jobs were discarded.
func (js *jobSet) clear() int {
	if js.polling {
		panic("moro: job set cleared while being polled")
	}

	dropped := 0
	for id, job := range js.slots {
		if job == nil {
			continue
		}
		js.release(id)
		DropFuture(job)
		dropped++
	}

	js.order.Clear()
	return dropped
}

// release frees a slot for reuse.
func (js *jobSet) release(id int) {
	js.slots[id] = nil
	js.free = append(js.free, id)
	js.live--
}

// noCopy flags types that must not be copied after first use. It
// implements sync.Locker so `go vet` reports copies, the same trick
// sync.Mutex uses.
type noCopy struct{}

func (*noCopy) Lock()   {}
func (*noCopy) Unlock() {}
