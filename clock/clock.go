// Package clock implements the core's monotonic time source: a
// free-running tick counter advanced from an interrupt, with modular
// (wrap-safe) comparison, per spec §4.4 and the Tick/Duration data model
// of spec §3.
package clock

import "sync/atomic"

// Tick is a monotonic counter value, or (as Duration) a span between two
// such values. The type wraps; comparisons must use Less/Expired-style
// modular arithmetic, never plain "<".
type Tick = uint32

// Duration is an alias of Tick used where a value is conceptually a span
// rather than an absolute point, matching spec §3 ("same underlying type
// as Tick; interpreted as a span").
type Duration = Tick

// Less implements the spec's modular comparison: a < b iff the signed
// difference (a-b) is negative. This is correct for any pair of ticks
// less than half the counter's range apart, which is the usual assumption
// for wrap-safe tick arithmetic.
func Less(a, b Tick) bool {
	return lessMod(a, b)
}

// Sub returns a - b as a signed difference, saturated to zero if b is not
// before a (Less(a, b) would be true) — used by Timer.Left, where a
// negative difference means "already expired", reported as 0 remaining.
func Sub(a, b Tick) Duration {
	return subMod(a, b)
}

// Source is a free-running tick counter, advanced from a single interrupt
// context (the "ISR") and read from anywhere. Reads are lock-free; a
// single atomic load suffices because Tick is a native word. The zero
// value starts at tick 0 and is immediately usable.
type Source struct {
	ticks atomic.Uint32
}

// Now returns the current tick value.
func (s *Source) Now() Tick {
	return s.ticks.Load()
}

// Advance adds by ticks to the counter. Called once per hardware tick
// interrupt (by is normally 1), or by an arch tick driver simulating one.
func (s *Source) Advance(by Duration) Tick {
	return s.ticks.Add(by)
}

// Set forces the counter to an absolute value. Intended for tests that
// need to place the clock near a wrap boundary; production code should
// only ever call Advance.
func (s *Source) Set(t Tick) {
	s.ticks.Store(t)
}

// TicksPerSecond is the compile-time tick rate. Spec §3/§6 treat this as
// architecture-defined; it is a variable (not a const) purely so a
// program can report a rate derived from its chosen arch.Ticker period —
// the core itself never reads this value, only callers converting
// durations do.
var TicksPerSecond Tick = 1000
