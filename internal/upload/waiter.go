package upload

import "sync"

// waiter is a one-shot completion handle: created by the upload
// goroutine before a wait, signalled at most once by the notification
// dispatcher, and discarded afterward. Signal after the waiter has
// already fired is a safe no-op.
type waiter struct {
	once sync.Once
	done chan struct{}
}

func newWaiter() *waiter {
	return &waiter{done: make(chan struct{})}
}

// signal resolves the waiter. Safe to call more than once or
// concurrently with a receive on channel().
func (w *waiter) signal() {
	w.once.Do(func() { close(w.done) })
}

// channel returns the underlying channel for use in a select statement
// alongside a timer or context cancellation.
func (w *waiter) channel() <-chan struct{} {
	return w.done
}
