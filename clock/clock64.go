package clock

import (
	"sync"
	"sync/atomic"
)

// Tick64 is the wide counter variant of Tick, for targets whose hardware
// timer is wider than the platform's atomic word (the usual case being a
// 64-bit tick on a 32-bit MCU). Source64 stores it as two 32-bit halves
// and reads them with the double-read-and-retry discipline spec §4.4
// requires for that situation: "on platforms where the counter width
// exceeds a single atomic load, now() reads twice and retries until two
// consecutive reads agree."
type Tick64 uint64

// Duration64 is the Tick64 span alias, mirroring Duration.
type Duration64 = Tick64

// Less64 is the Tick64 analogue of Less.
func Less64(a, b Tick64) bool {
	return lessMod(a, b)
}

// Sub64 is the Tick64 analogue of Sub.
func Sub64(a, b Tick64) Duration64 {
	return subMod(a, b)
}

// Source64 is a free-running 64-bit tick counter, updated under a short
// critical section (standing in for the interrupt disabling the spec
// assumes for the writer side) and read lock-free via a retry loop.
type Source64 struct {
	mu sync.Mutex // serializes Advance; Now never takes it
	hi atomic.Uint32
	lo atomic.Uint32
}

// Now reads the counter without ever blocking on the writer: it reads hi,
// then lo, then hi again, discarding the result and retrying if the two hi
// reads disagree (a carry from lo into hi happened mid-read).
func (s *Source64) Now() Tick64 {
	for {
		hi1 := s.hi.Load()
		lo := s.lo.Load()
		hi2 := s.hi.Load()
		if hi1 == hi2 {
			return Tick64(hi1)<<32 | Tick64(lo)
		}
	}
}

// Advance adds by ticks to the counter, carrying from the low half into
// the high half as needed. Must be called from the single writer context
// (the simulated ISR); concurrent Advance calls are not supported, per
// the single-writer assumption of spec §3's ring-buffer note extended to
// the tick source.
func (s *Source64) Advance(by Duration64) Tick64 {
	s.mu.Lock()
	defer s.mu.Unlock()

	sum := uint64(s.lo.Load()) + uint64(by)
	newLo := uint32(sum)
	carry := uint32(sum >> 32)

	// lo is published first; a concurrent Now() reading the old hi
	// alongside the new lo would see a torn value, which is exactly what
	// the hi-lo-hi retry in Now detects and retries past.
	s.lo.Store(newLo)
	newHi := s.hi.Load() + carry
	s.hi.Store(newHi)

	return Tick64(newHi)<<32 | Tick64(newLo)
}
