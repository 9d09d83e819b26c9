package moro

// oneshot states. A channel starts empty, moves to sent or dropped
// exactly once, and moves from sent to taken when the receiver
// consumes the value.
const (
	oneshotEmpty = iota
	oneshotSent
	oneshotTaken
	oneshotDropped
)

// oneshot is a single-use, single-producer/single-consumer handoff
// of one value. It underlies every spawn handle: the wrapped job
// holds the sender, the handle holds the receiver. No locking;
// both ends live on the driver's goroutine.
type oneshot[T any] struct {
	state int
	val   T
	waker Waker
}

// newOneshot returns the two ends of a fresh channel.
func newOneshot[T any]() (*sender[T], *receiver[T]) {
	ch := new(oneshot[T])
	return &sender[T]{ch: ch}, &receiver[T]{ch: ch}
}

type sender[T any] struct {
	ch *oneshot[T]
}

type receiver[T any] struct {
	ch *oneshot[T]
}

// send delivers v to the receiver, waking it if it is parked. Send
// is best-effort: on a channel that is no longer empty it does
// nothing, so a producer racing a teardown never faults.
func (s *sender[T]) send(v T) {
	ch := s.ch
	if ch.state != oneshotEmpty {
		return
	}
	ch.state = oneshotSent
	ch.val = v
	if w := ch.waker; w != nil {
		ch.waker = nil
		w()
	}
}

// drop marks the producer gone without a value. A receiver polled
// after this faults; a receiver that already has its value is
// unaffected.
func (s *sender[T]) drop() {
	ch := s.ch
	if ch.state != oneshotEmpty {
		return
	}
	ch.state = oneshotDropped
	if w := ch.waker; w != nil {
		ch.waker = nil
		w()
	}
}

// Poll implements Future for the consumer end. The value is
// delivered at most once; polling again after taking it is misuse.
// A producer dropped without sending is an unrecoverable fault: it
// means the task backing this receiver was abandoned while
// something still depended on its result.
func (r *receiver[T]) Poll(cx *Context) (T, bool) {
	ch := r.ch
	switch ch.state {
	case oneshotSent:
		ch.state = oneshotTaken
		var zero T
		v := ch.val
		ch.val = zero
		return v, true
	case oneshotTaken:
		panic("moro: result received twice from the same handle")
	case oneshotDropped:
		panic("moro: task abandoned before delivering its result")
	}

	ch.waker = cx.Waker()
	var zero T
	return zero, false
}
