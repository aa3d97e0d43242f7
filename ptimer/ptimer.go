// Package ptimer implements the process timer (C8): software timers whose
// expiry is discovered by a dedicated dispatcher process rather than by a
// hardware interrupt directly. It composes package timer (the start+span
// predicate), package dlist (the running-timer list), and package process
// (the dedicated timer process and its poll delivery).
package ptimer

import (
	"context"
	"sync"

	"github.com/marcas756/myos-sub000/clock"
	"github.com/marcas756/myos-sub000/dlist"
	"github.com/marcas756/myos-sub000/internal/logging"
	"github.com/marcas756/myos-sub000/process"
	"github.com/marcas756/myos-sub000/pt"
	"github.com/marcas756/myos-sub000/timer"
	"github.com/zoobzio/metricz"
	"github.com/zoobzio/tracez"
)

// HandlerFunc runs when a Timer expires. It may re-link the timer (by
// calling Start/Restart/Reset on it again) from within the call.
type HandlerFunc func(t *Timer)

// Timer is a process timer: the start+span predicate plus the expiry
// handler and the intrusive link that holds it in Timers' running list.
type Timer struct {
	node    *dlist.Node[*Timer]
	inner   timer.Timer
	handler HandlerFunc
}

// Expired reports whether the timer has reached its stop tick as of now.
func (t *Timer) Expired(now clock.Tick) bool { return t.inner.Expired(now) }

// Left returns ticks remaining until expiry as of now.
func (t *Timer) Left(now clock.Tick) clock.Duration { return t.inner.Left(now) }

// Running reports whether the timer is currently linked into its owner's
// running list.
func (t *Timer) Running() bool { return t.node != nil && t.node.Linked() }

const (
	// MetricTimersFired counts handler invocations.
	MetricTimersFired = metricz.Key("ptimer.timers.fired")
	// MetricTimersRunning gauges the running-list size.
	MetricTimersRunning = metricz.Key("ptimer.timers.running")
	// SpanPoll traces one poll-triggered pass over the running list.
	SpanPoll = tracez.Key("ptimer.poll")
)

// NowFunc returns the current tick, normally (*clock.Source).Now or
// (*clock.Source64).Now narrowed to clock.Tick.
type NowFunc func() clock.Tick

// Timers is a running-timer list owned and serviced by a single dedicated
// process (the "ptimer process"): spec's model of a loop that waits for a
// poll, then walks the list firing expired timers and recomputing the
// hint to the next one due.
type Timers struct {
	d    *process.Dispatcher
	proc process.Process
	now  NowFunc

	mu       sync.Mutex // protects list + hint against PollIfNecessary's ISR-side read
	list     *dlist.List[*Timer]
	nextHint *Timer

	logger  logging.Logger
	metrics *metricz.Registry
	tracer  *tracez.Tracer
}

// New constructs a Timers bound to dispatcher d and tick source now, but
// does not start its process — call Start for that (module bring-up, C11,
// sequences this after the time source and timer module are ready).
func New(d *process.Dispatcher, now NowFunc, opts ...Option) *Timers {
	cfg := defaultConfig()
	for _, opt := range opts {
		opt(&cfg)
	}
	logger := cfg.Logger
	if logger == nil {
		logger = logging.NoOp{}
	}

	metrics := metricz.New()
	metrics.Counter(MetricTimersFired)
	metrics.Gauge(MetricTimersRunning)

	return &Timers{
		d:       d,
		now:     now,
		list:    dlist.New[*Timer](),
		logger:  logger,
		metrics: metrics,
		tracer:  tracez.New(),
	}
}

// Metrics returns the ptimer metricz registry.
func (ts *Timers) Metrics() *metricz.Registry { return ts.metrics }

// Tracer returns the ptimer tracez tracer.
func (ts *Timers) Tracer() *tracez.Tracer { return ts.tracer }

// Start launches the dedicated timer process: loop waiting for a poll
// event, then fire expired timers and rebuild the hint. The running list
// itself is created by New.
func (ts *Timers) Start() {
	ts.proc.Init(func(p *process.Process, ptr *pt.PT) {
		for {
			process.WaitEvent(p, ptr, process.EventPoll)
			ts.poll()
		}
	})
	ts.d.Start(&ts.proc, nil)
}

// NewTimer constructs a Timer bound to ts, unlinked and unarmed.
func (ts *Timers) NewTimer(handler HandlerFunc) *Timer {
	t := &Timer{handler: handler}
	t.node = dlist.NewNode(t)
	return t
}

// poll is the ptimer process body's per-wakeup work: clear the hint,
// walk the list firing or re-hinting, all under the list mutex (standing
// in for the spec's "clear next-to-expire hint under critical section").
func (ts *Timers) poll() {
	_, span := ts.tracer.StartSpan(context.Background(), SpanPoll)
	defer span.Finish()

	ts.mu.Lock()
	ts.nextHint = nil
	now := ts.now()

	var expired []*Timer
	ts.list.Do(func(n *dlist.Node[*Timer]) {
		t := n.Owner()
		if t.inner.Expired(now) {
			ts.list.Erase(t.node)
			expired = append(expired, t)
		} else {
			ts.rehint(t)
		}
	})
	ts.metrics.Gauge(MetricTimersRunning).Set(float64(ts.list.Size()))
	ts.mu.Unlock()

	for _, t := range expired {
		ts.metrics.Counter(MetricTimersFired).Inc()
		if ts.logger.IsEnabled(logging.LevelDebug) {
			ts.logger.Log(logging.LogEntry{
				Level: logging.LevelDebug, Category: "ptimer",
				Message: "timer fired",
			})
		}
		if t.handler != nil {
			t.handler(t)
		}
	}
}

// rehint updates nextHint if t expires no later than the current hint,
// under modular comparison. Caller must hold ts.mu.
func (ts *Timers) rehint(t *Timer) {
	if ts.nextHint == nil || !clock.Less(ts.nextHint.inner.Stop(), t.inner.Stop()) {
		ts.nextHint = t
	}
}

// PollIfNecessary is the tick-ISR-side helper of spec §4.8: if the
// next-to-expire hint is set and expired, poll the ptimer process and
// return. The hint is a cache that may be stale; the worst case is a
// missed poll the next tick catches, so this never takes the list lock
// for longer than reading one pointer and one Timer's stop tick.
func (ts *Timers) PollIfNecessary() {
	ts.mu.Lock()
	hint := ts.nextHint
	ts.mu.Unlock()
	if hint == nil {
		return
	}
	if hint.Expired(ts.now()) {
		ts.d.Poll(&ts.proc)
	}
}

// StartTimer arms t's handler and inner timer for span ticks from now, linking
// it into the running list if not already linked.
func (ts *Timers) StartTimer(t *Timer, span clock.Duration, handler HandlerFunc) {
	ts.mu.Lock()
	defer ts.mu.Unlock()

	if handler != nil {
		t.handler = handler
	}
	t.inner.Start(ts.now(), span)
	if !t.Running() {
		ts.list.PushBack(t.node)
	}
	ts.rehint(t)
	ts.metrics.Gauge(MetricTimersRunning).Set(float64(ts.list.Size()))
}

// Restart rearms t's inner timer to now (keeping its span) and ensures it
// is linked.
func (ts *Timers) Restart(t *Timer) {
	ts.mu.Lock()
	defer ts.mu.Unlock()

	t.inner.Restart(ts.now())
	if !t.Running() {
		ts.list.PushBack(t.node)
	}
	ts.rehint(t)
}

// RestartWithNewSpan updates t's span, then restarts it as Restart does.
func (ts *Timers) RestartWithNewSpan(t *Timer, span clock.Duration) {
	ts.mu.Lock()
	defer ts.mu.Unlock()

	t.inner.SetSpan(span)
	t.inner.Restart(ts.now())
	if !t.Running() {
		ts.list.PushBack(t.node)
	}
	ts.rehint(t)
}

// Reset advances t's start by its span (periodic, drift-free) and ensures
// it is linked.
func (ts *Timers) Reset(t *Timer) {
	ts.mu.Lock()
	defer ts.mu.Unlock()

	t.inner.Reset()
	if !t.Running() {
		ts.list.PushBack(t.node)
	}
	ts.rehint(t)
}

// ResetWithNewSpan updates t's span, then resets it as Reset does.
func (ts *Timers) ResetWithNewSpan(t *Timer, span clock.Duration) {
	ts.mu.Lock()
	defer ts.mu.Unlock()

	t.inner.SetSpan(span)
	t.inner.Reset()
	if !t.Running() {
		ts.list.PushBack(t.node)
	}
	ts.rehint(t)
}

// Stop unlinks t and clears its running state. Stopping a timer that is
// not running is a no-op.
func (ts *Timers) Stop(t *Timer) {
	ts.mu.Lock()
	defer ts.mu.Unlock()

	if t.Running() {
		ts.list.Erase(t.node)
		ts.metrics.Gauge(MetricTimersRunning).Set(float64(ts.list.Size()))
	}
}
