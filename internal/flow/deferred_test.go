package flow

import (
	"testing"
	"time"
)

func TestDeferred_CoalescesToLastArgument(t *testing.T) {
	rec := &recorder[int]{}
	d := NewDeferred(40*time.Millisecond, rec.emit)
	defer d.Stop()

	for i := 1; i <= 5; i++ {
		d.Call(i)
	}

	waitFor(t, time.Second, func() bool { return rec.count() == 1 })
	if got, _ := rec.last(); got != 5 {
		t.Errorf("callback got %d, want argument of the last call (5)", got)
	}

	time.Sleep(100 * time.Millisecond)
	if rec.count() != 1 {
		t.Errorf("got %d invocations, want exactly 1", rec.count())
	}
}

func TestDeferred_ZeroDelayFiresSynchronously(t *testing.T) {
	rec := &recorder[string]{}
	d := NewDeferred(0, rec.emit)
	defer d.Stop()

	d.Call("now")
	if rec.count() != 1 {
		t.Fatalf("zero delay should fire on the calling goroutine")
	}
	if got, _ := rec.last(); got != "now" {
		t.Errorf("callback got %q, want %q", got, "now")
	}
}

func TestDeferred_StopPreventsFire(t *testing.T) {
	rec := &recorder[int]{}
	d := NewDeferred(30*time.Millisecond, rec.emit)

	d.Call(1)
	d.Stop()

	time.Sleep(100 * time.Millisecond)
	if rec.count() != 0 {
		t.Errorf("callback fired after Stop")
	}

	d.Call(2)
	time.Sleep(80 * time.Millisecond)
	if rec.count() != 0 {
		t.Errorf("Call after Stop scheduled a fire")
	}
}
