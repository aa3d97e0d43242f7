package arch

import (
	"time"

	"github.com/zoobzio/clockz"
)

// TickSource is the tick ISR contract of spec §6: every tick interrupt
// must advance the tick counter and invoke PollHook. The core places no
// other demand on the ISR.
type TickSource interface {
	Advance()
}

// PollHook is the function a TickSource invokes after every Advance,
// normally ptimer.Timers.PollIfNecessary.
type PollHook func()

// Advancer is anything with a tick-advancing method, satisfied by
// *clock.Source. *clock.Source64 does not satisfy it, since its Advance
// takes and returns clock.Tick64.
type Advancer interface {
	Advance(by uint32) uint32
}

// Ticker is a goroutine-based reference TickSource for hosted or
// simulated use, standing in for a periodic hardware timer interrupt: it
// calls source.Advance(1) then hook once per period, driven off a
// clockz.Clock so tests can use a fake clock instead of a real period.
type Ticker struct {
	clock  clockz.Clock
	period time.Duration
	source func(uint32) uint32
	hook   PollHook

	stop chan struct{}
	done chan struct{}
}

// NewTicker constructs a Ticker. advance is normally (*clock.Source).Advance
// or (*clock.Source64).Advance wrapped to the uint32 span Advance expects.
func NewTicker(c clockz.Clock, period time.Duration, advance func(by uint32) uint32, hook PollHook) *Ticker {
	return &Ticker{
		clock:  c,
		period: period,
		source: advance,
		hook:   hook,
		stop:   make(chan struct{}),
		done:   make(chan struct{}),
	}
}

// Run drives the tick loop until Stop is called. Intended to run on its
// own goroutine.
func (t *Ticker) Run() {
	defer close(t.done)
	for {
		select {
		case <-t.clock.After(t.period):
			t.source(1)
			if t.hook != nil {
				t.hook()
			}
		case <-t.stop:
			return
		}
	}
}

// Stop signals Run to exit and waits for it to do so.
func (t *Ticker) Stop() {
	close(t.stop)
	<-t.done
}

var _ TickSource = (*Ticker)(nil)

// Advance satisfies TickSource by performing a single tick immediately,
// without waiting on the clock — used by tests and by PollIfNecessary
// callers that drive the tick manually.
func (t *Ticker) Advance() {
	t.source(1)
	if t.hook != nil {
		t.hook()
	}
}
