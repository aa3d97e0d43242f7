// Package etimer implements the event timer (C9): a process timer whose
// expiry posts a prebuilt event to a target process, plus the
// PROCESS_SLEEP-equivalent helper built on it.
package etimer

import (
	"github.com/marcas756/myos-sub000/clock"
	"github.com/marcas756/myos-sub000/process"
	"github.com/marcas756/myos-sub000/pt"
	"github.com/marcas756/myos-sub000/ptimer"
)

// EventTimer composes a ptimer.Timer with the (to, id, data) fields of
// the event it delivers on expiry.
type EventTimer struct {
	inner *ptimer.Timer
	ts    *ptimer.Timers
	d     *process.Dispatcher

	to   *process.Process
	id   process.ID
	data any
}

// New constructs an EventTimer bound to the given process timer service
// and event dispatcher.
func New(ts *ptimer.Timers, d *process.Dispatcher) *EventTimer {
	et := &EventTimer{ts: ts, d: d}
	et.inner = ts.NewTimer(et.fire)
	return et
}

func (et *EventTimer) fire(*ptimer.Timer) {
	if et.to == nil || !et.to.Running() {
		return
	}
	et.d.PostSync(et.to, et.id, et.data)
}

// Start stores the event fields and arms the inner process timer for span
// ticks.
func (et *EventTimer) Start(span clock.Duration, to *process.Process, id process.ID, data any) {
	et.to, et.id, et.data = to, id, data
	et.ts.StartTimer(et.inner, span, et.fire)
}

// Expired reports whether the inner timer has reached its stop tick.
func (et *EventTimer) Expired(now clock.Tick) bool { return et.inner.Expired(now) }

// Left returns ticks remaining until the inner timer expires.
func (et *EventTimer) Left(now clock.Tick) clock.Duration { return et.inner.Left(now) }

// Stop unlinks the inner timer, preventing its delivery.
func (et *EventTimer) Stop() { et.ts.Stop(et.inner) }

// Sleep is the PROCESS_SLEEP macro: starts et with to=self, id=continue,
// data=nil, then waits for that continue event. Any intervening event
// with a different id does not wake the sleep, since WaitEvent re-yields
// until one with the matching id arrives.
func Sleep(et *EventTimer, p *process.Process, ptr *pt.PT, span clock.Duration) {
	et.Start(span, p, process.EventContinue, nil)
	process.WaitEvent(p, ptr, process.EventContinue)
}
