// Package rtimer implements the real-time timer (C10): a single-instance,
// hardware-timer-backed timer. At most one RTimer may be armed at a time,
// gated by a process-global boolean mutex, mirroring the spec's
// "process-global next rtimer pointer and boolean mutex" data model.
package rtimer

import (
	"errors"
	"sync"
	"sync/atomic"

	"github.com/marcas756/myos-sub000/arch"
	"github.com/marcas756/myos-sub000/clock"
	"github.com/marcas756/myos-sub000/internal/logging"
	"github.com/marcas756/myos-sub000/pt"
)

// ErrLocked names the lock-contention failure: another RTimer already holds
// the single-instance mutex. Lock reports that case as a false return;
// no function in this package returns ErrLocked.
var ErrLocked = errors.New("rtimer: already locked")

// CallbackFunc runs when an armed RTimer's deadline is reached, invoked
// from the scheduler (the hardware-timer ISR equivalent). It may call
// Start again to rearm a new real-time timer.
type CallbackFunc func(rt *RTimer, data any)

// RTimer is a single real-time timer record: start tick, span, and the
// callback plus data to invoke on expiry.
type RTimer struct {
	start    clock.Tick
	span     clock.Duration
	callback CallbackFunc
	data     any
}

// Left returns ticks remaining until this timer's stop, under modular
// comparison, as of now.
func (rt *RTimer) Left(now clock.Tick) clock.Duration {
	return clock.Sub(rt.start+rt.span, now)
}

// Timers is the process-global single-instance gate plus hardware driver
// binding: exactly one RTimer may be armed through a given Timers at a
// time.
type Timers struct {
	driver arch.RTimerDriver
	locked atomic.Bool
	mu     sync.Mutex
	next   *RTimer

	logger logging.Logger
}

// New constructs a Timers bound to driver, installing Timers.scheduler as
// the driver's interrupt-equivalent callback.
func New(driver arch.RTimerDriver, opts ...Option) *Timers {
	cfg := defaultConfig()
	for _, opt := range opts {
		opt(&cfg)
	}
	logger := cfg.Logger
	if logger == nil {
		logger = logging.NoOp{}
	}

	ts := &Timers{driver: driver, logger: logger}
	driver.Init(ts.scheduler)
	return ts
}

// Lock attempts to transition the mutex from free to held, returning true
// iff this call performed that transition. Safe to call from the
// scheduler/ISR context: a single CompareAndSwap.
func (ts *Timers) Lock() bool {
	return ts.locked.CompareAndSwap(false, true)
}

// Release clears both the mutex and the next-timer pointer.
func (ts *Timers) Release() {
	ts.mu.Lock()
	ts.next = nil
	ts.mu.Unlock()
	ts.locked.Store(false)
}

// Start records {start: now, span, callback, data}, stores rt as the
// pending timer, and programs the hardware timer to interrupt at
// start+span. The caller must already hold the mutex (via Lock).
func (ts *Timers) Start(rt *RTimer, span clock.Duration, callback CallbackFunc, data any) {
	now := ts.driver.Now()
	rt.start, rt.span, rt.callback, rt.data = now, span, callback, data

	ts.mu.Lock()
	ts.next = rt
	ts.mu.Unlock()

	ts.driver.Set(now + span)
}

// Restart refreshes rt's start to now, keeping its span, and reprograms
// the hardware timer.
func (ts *Timers) Restart(rt *RTimer) {
	now := ts.driver.Now()
	rt.start = now

	ts.mu.Lock()
	ts.next = rt
	ts.mu.Unlock()

	ts.driver.Set(now + rt.span)
}

// Reset advances rt's start by its span (periodic, drift-free) and
// reprograms the hardware timer relative to the new stop.
func (ts *Timers) Reset(rt *RTimer) {
	rt.start += rt.span

	ts.mu.Lock()
	ts.next = rt
	ts.mu.Unlock()

	ts.driver.Set(rt.start + rt.span)
}

// scheduler is invoked from the driver's interrupt-equivalent context:
// read next, release the mutex, then invoke the callback. The callback
// itself may call Start again to arm a new real-time timer.
func (ts *Timers) scheduler() {
	ts.mu.Lock()
	rt := ts.next
	ts.mu.Unlock()
	if rt == nil {
		return
	}

	ts.Release()

	if ts.logger.IsEnabled(logging.LevelDebug) {
		ts.logger.Log(logging.LogEntry{
			Level: logging.LevelDebug, Category: "rtimer",
			Message: "real-time timer fired",
		})
	}
	if rt.callback != nil {
		rt.callback(rt, rt.data)
	}
}

// Obtain is PROCESS_RTIMER_OBTAIN: suspends cooperatively in a loop until
// Lock succeeds.
func Obtain(ts *Timers, ptr *pt.PT) {
	ptr.WaitUntil(ts.Lock)
}
