// Package timer implements the one-shot timer predicate of spec §4.5: a
// start tick plus a span, from which Expired/Left are derived. Timer is a
// pure value — it has no goroutine, no callback, and does not register
// itself anywhere; it is the building block every other timing layer
// (ptimer, etimer, ctimer, rtimer) composes.
package timer

import "github.com/marcas756/myos-sub000/clock"

// Timer is the start+span predicate of spec §3: "stop = start + span
// (modular); expired ⇔ ¬(now < stop); left = max(0, stop − now) under
// modular comparison."
type Timer struct {
	start clock.Tick
	span  clock.Duration
}

// Start sets start to now and span to the given duration.
func (t *Timer) Start(now clock.Tick, span clock.Duration) {
	t.start = now
	t.span = span
}

// Restart resets only start to now, keeping the existing span.
func (t *Timer) Restart(now clock.Tick) {
	t.start = now
}

// SetSpan updates the span without touching start.
func (t *Timer) SetSpan(span clock.Duration) {
	t.span = span
}

// Reset advances start by span, for drift-free periodic re-arming ("a
// periodic tick without drift" per spec §4.5), rather than resetting to
// now (which would accumulate drift equal to however late Reset was
// called).
func (t *Timer) Reset() {
	t.start += t.span
}

// Span returns the timer's configured span.
func (t *Timer) Span() clock.Duration { return t.span }

// Stop returns the tick at which the timer expires (start + span, modular).
func (t *Timer) Stop() clock.Tick { return t.start + t.span }

// Left returns the number of ticks remaining until expiry as of now, or 0
// if already expired.
func (t *Timer) Left(now clock.Tick) clock.Duration {
	return clock.Sub(t.Stop(), now)
}

// Expired reports whether the timer has reached or passed its stop tick
// as of now.
func (t *Timer) Expired(now clock.Tick) bool {
	return t.Left(now) == 0
}
