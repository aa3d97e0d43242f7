// Package ctimer implements the callback timer (C9): a process timer that
// invokes a caller-supplied callback, with a saved process context and
// data payload, on expiry — rather than posting an event to a process.
package ctimer

import (
	"github.com/marcas756/myos-sub000/clock"
	"github.com/marcas756/myos-sub000/process"
	"github.com/marcas756/myos-sub000/ptimer"
)

// CallbackFunc runs when a CallbackTimer expires, receiving the timer
// itself so it can read Context/Data or rearm (Start/Stop) from within
// the callback.
type CallbackFunc func(self *CallbackTimer)

// CallbackTimer composes a ptimer.Timer with the (context, callback,
// data) fields of the C original's struct ctimer_t, invoked synchronously
// inside the ptimer process body on expiry as callback(self).
type CallbackTimer struct {
	inner *ptimer.Timer
	ts    *ptimer.Timers

	context  *process.Process
	callback CallbackFunc
	data     any
}

// New constructs a CallbackTimer bound to the given process timer
// service.
func New(ts *ptimer.Timers) *CallbackTimer {
	ct := &CallbackTimer{ts: ts}
	ct.inner = ts.NewTimer(ct.fire)
	return ct
}

// Context returns the process saved at Start.
func (ct *CallbackTimer) Context() *process.Process { return ct.context }

// Data returns the payload saved at Start.
func (ct *CallbackTimer) Data() any { return ct.data }

func (ct *CallbackTimer) fire(*ptimer.Timer) {
	if ct.callback != nil {
		ct.callback(ct)
	}
}

// Start saves context, data, and callback, then arms the inner process
// timer for span ticks.
func (ct *CallbackTimer) Start(span clock.Duration, context *process.Process, data any, callback CallbackFunc) {
	ct.context, ct.data, ct.callback = context, data, callback
	ct.ts.StartTimer(ct.inner, span, ct.fire)
}

// Expired reports whether the inner timer has reached its stop tick.
func (ct *CallbackTimer) Expired(now clock.Tick) bool { return ct.inner.Expired(now) }

// Left returns ticks remaining until the inner timer expires.
func (ct *CallbackTimer) Left(now clock.Tick) clock.Duration { return ct.inner.Left(now) }

// Stop unlinks the inner timer, preventing its callback from firing.
func (ct *CallbackTimer) Stop() { ct.ts.Stop(ct.inner) }
