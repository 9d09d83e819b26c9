package moro

// Block drives fut to completion on the calling goroutine and
// returns its value. All polling happens right here, nothing runs
// in parallel, but the waker handed down is safe to fire from
// other goroutines, so offloaded work can unpark the driver.
//
// Block is the root of a cooperative program; everything beneath it
// interleaves at suspension points. If fut suspends and nothing
// ever wakes it, Block parks forever, the cooperative equivalent
// of a deadlock.
func Block[T any](fut Future[T]) T {
	wake := make(chan struct{}, 1)
	cx := NewContext(func() {
		select {
		case wake <- struct{}{}:
		default:
		}
	})

	for {
		if v, ok := fut.Poll(cx); ok {
			return v
		}
		<-wake
	}
}
