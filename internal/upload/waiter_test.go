package upload

import (
	"testing"
	"time"
)

func TestWaiter_SignalUnblocksChannel(t *testing.T) {
	w := newWaiter()
	done := make(chan struct{})
	go func() {
		<-w.channel()
		close(done)
	}()

	w.signal()

	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("waiter did not unblock after signal")
	}
}

func TestWaiter_DoubleSignalIsSafe(t *testing.T) {
	w := newWaiter()
	w.signal()
	w.signal()

	select {
	case <-w.channel():
	default:
		t.Fatal("channel should already be closed after first signal")
	}
}

func TestWaiter_UnsignaledChannelBlocks(t *testing.T) {
	w := newWaiter()
	select {
	case <-w.channel():
		t.Fatal("channel should not be ready before signal")
	default:
	}
}
