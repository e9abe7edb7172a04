package ui

import (
	"sync/atomic"
	"testing"
	"time"
)

func TestDebouncerReplacesPendingAction(t *testing.T) {
	d := NewDebouncer(30 * time.Millisecond)
	var first, second atomic.Int32

	d.Schedule(func() { first.Add(1) })
	d.Schedule(func() { second.Add(1) })

	time.Sleep(120 * time.Millisecond)
	if first.Load() != 0 {
		t.Error("replaced action still fired")
	}
	if second.Load() != 1 {
		t.Errorf("latest action fired %d times, want 1", second.Load())
	}
}

func TestDebouncerCancel(t *testing.T) {
	d := NewDebouncer(30 * time.Millisecond)
	var fired atomic.Int32

	d.Schedule(func() { fired.Add(1) })
	d.Cancel()

	time.Sleep(120 * time.Millisecond)
	if fired.Load() != 0 {
		t.Error("cancelled action fired")
	}
}

func TestDebouncerFiresAfterDelay(t *testing.T) {
	d := NewScrollDebouncer()
	done := make(chan struct{})

	d.Schedule(func() { close(done) })
	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatal("scheduled action never fired")
	}
}
