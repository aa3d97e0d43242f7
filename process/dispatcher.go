// Package process implements the spec's process/event dispatcher (C7): a
// running-process list, a fixed-capacity event queue, synchronous and
// asynchronous delivery, and an interrupt-safe polling mechanism, built on
// package dlist (the running list), package ring (the event queue), and
// package pt (each process's protothread).
package process

import (
	"context"
	"sync/atomic"

	"github.com/marcas756/myos-sub000/dlist"
	"github.com/marcas756/myos-sub000/internal/logging"
	"github.com/marcas756/myos-sub000/pt"
	"github.com/marcas756/myos-sub000/ring"
	"github.com/zoobzio/hookz"
	"github.com/zoobzio/metricz"
	"github.com/zoobzio/tracez"
)

// Observability keys, grounded on the pipz connectors' constant-key
// convention for metricz/tracez/hookz.
const (
	MetricQueueDepth       = metricz.Key("process.queue.depth")
	MetricEventsDelivered  = metricz.Key("process.events.delivered")
	MetricEventsDropped    = metricz.Key("process.events.dropped")
	MetricPollsDelivered   = metricz.Key("process.polls.delivered")
	MetricProcessesRunning = metricz.Key("process.processes.running")

	SpanRun = tracez.Key("process.run")

	HookDispatched  = hookz.Key("process.event_dispatched")
	HookTerminated  = hookz.Key("process.process_terminated")
)

// Dispatcher is the core context of spec §9's "Global mutable state" note:
// the running-processes list, the event queue, the poll flag, and the
// current-process pointer, gathered into one value rather than left as
// free globals. Exactly one Dispatcher drives a given set of processes.
type Dispatcher struct {
	processes     *dlist.List[*Process]
	queue         *ring.Buffer[Event]
	globalPollReq atomic.Bool
	current       *Process

	logger  logging.Logger
	metrics *metricz.Registry
	tracer  *tracez.Tracer
	hooks   *hookz.Hooks[LifecycleEvent]
}

// NewDispatcher constructs an empty Dispatcher: no running processes, an
// empty queue, no current process, no pending poll — the Go realization
// of spec's module_init. Panics only for programmer errors detectable
// before any I/O (an invalid Option); there is no "missing processor" to
// check here, unlike microbatch.NewBatcher, since processes are supplied
// later via Start.
func NewDispatcher(opts ...Option) *Dispatcher {
	cfg := defaultConfig()
	for _, opt := range opts {
		if err := opt(&cfg); err != nil {
			panic("process: " + err.Error())
		}
	}

	logger := cfg.Logger
	if logger == nil {
		logger = logging.NoOp{}
	}

	metrics := metricz.New()
	metrics.Gauge(MetricQueueDepth)
	metrics.Counter(MetricEventsDelivered)
	metrics.Counter(MetricEventsDropped)
	metrics.Counter(MetricPollsDelivered)
	metrics.Gauge(MetricProcessesRunning)

	return &Dispatcher{
		processes: dlist.New[*Process](),
		queue:     ring.New[Event](cfg.QueueCapacity),
		logger:    logger,
		metrics:   metrics,
		tracer:    tracez.New(),
		hooks:     hookz.New[LifecycleEvent](),
	}
}

// Metrics returns the dispatcher's metricz registry.
func (d *Dispatcher) Metrics() *metricz.Registry { return d.metrics }

// Tracer returns the dispatcher's tracez tracer.
func (d *Dispatcher) Tracer() *tracez.Tracer { return d.tracer }

// Hooks returns the dispatcher's hookz registry, for registering external
// lifecycle observers.
func (d *Dispatcher) Hooks() *hookz.Hooks[LifecycleEvent] { return d.hooks }

// Current returns the process currently being dispatched to, or nil if
// none (called from outside any thread_fn). Thread functions use this
// indirectly via Post's implicit sender tracking.
func (d *Dispatcher) Current() *Process { return d.current }

// Start links p into the running list and synchronously delivers it a
// start event. Returns false without any state change if p is already
// running. If the start delivery itself terminates the protothread
// (an unusual but legal body), p is unlinked again before Start returns.
func (d *Dispatcher) Start(p *Process, data any) bool {
	if p.Running() {
		return false
	}
	p.data = data
	p.thread.Init()
	d.processes.PushBack(p.node)
	d.gaugeProcessCount()

	ev := Event{ID: EventStart, To: p, From: d.current}
	d.deliver(&ev)
	return true
}

// Post queues an event for later delivery by Run. Returns false (no
// partial state change) if the queue is full. The sender is recorded as
// the process currently being dispatched to, if any.
func (d *Dispatcher) Post(to *Process, id ID, data any) bool {
	if d.queue.Full() {
		d.metrics.Counter(MetricEventsDropped).Inc()
		if d.logger.IsEnabled(logging.LevelWarn) {
			d.logger.Log(logging.LogEntry{
				Level: logging.LevelWarn, Category: "process",
				Message: "event dropped: queue full",
				Fields:  map[string]any{"event_id": id},
			})
		}
		return false
	}
	d.queue.Write(Event{ID: id, To: to, Data: data, From: d.current})
	d.gaugeQueueDepth()
	return true
}

// PostSync builds an event and delivers it immediately, reentering the
// target's thread_fn before returning. Returns whether the target was
// running (for to != nil) or true for a broadcast.
func (d *Dispatcher) PostSync(to *Process, id ID, data any) bool {
	ev := Event{ID: id, To: to, Data: data, From: d.current}
	return d.deliver(&ev)
}

// Poll sets p's per-process poll request and the dispatcher's global poll
// flag. Safe to call from an interrupt context: both are single atomic
// stores.
func (d *Dispatcher) Poll(p *Process) {
	p.pollReq.Store(true)
	d.globalPollReq.Store(true)
}

// Run performs one iteration of the dispatch loop: first it drains every
// pending poll request (synthesizing a poll event per requesting
// process), then it delivers at most one queued event. Returns a hint
// that is non-zero while work remains (queue depth plus whether a global
// poll request is still outstanding).
func (d *Dispatcher) Run() int {
	ctx, span := d.tracer.StartSpan(context.Background(), SpanRun)
	defer span.Finish()

	for d.globalPollReq.Load() {
		d.globalPollReq.Store(false)
		d.processes.Do(func(n *dlist.Node[*Process]) {
			p := n.Owner()
			if p.pollReq.CompareAndSwap(true, false) {
				ev := Event{ID: EventPoll, To: p}
				d.deliverCtx(ctx, &ev)
				d.metrics.Counter(MetricPollsDelivered).Inc()
			}
		})
	}

	if !d.queue.Empty() {
		var ev Event
		d.queue.Read(&ev)
		d.gaugeQueueDepth()
		d.deliverCtx(ctx, &ev)
	}

	hint := d.queue.Len()
	if d.globalPollReq.Load() {
		hint++
	}
	return hint
}

// deliver is PostSync/Start's entry point into delivery, using a
// background context for the trace span (those calls are not already
// inside a Run span).
func (d *Dispatcher) deliver(ev *Event) bool {
	return d.deliverCtx(context.Background(), ev)
}

func (d *Dispatcher) deliverCtx(ctx context.Context, ev *Event) bool {
	if ev.To == nil {
		return d.broadcast(ctx, ev)
	}
	if !ev.To.Running() {
		return false
	}

	p := ev.To
	prev := d.current
	d.current = p
	defer func() { d.current = prev }()

	state := p.schedule(ev)
	d.metrics.Counter(MetricEventsDelivered).Inc()
	_ = d.hooks.Emit(ctx, HookDispatched, LifecycleEvent{Kind: EventDispatched, Process: p, Event: *ev})

	if state == pt.Terminated {
		d.terminate(ctx, p)
	}
	return true
}

// broadcast delivers ev to every process linked into the running list at
// the moment of delivery, tolerating a process unlinking itself (or being
// unlinked on termination) mid-walk: dlist.List.Do snapshots "next" before
// invoking the per-node callback, so a removal never corrupts the walk.
func (d *Dispatcher) broadcast(ctx context.Context, ev *Event) bool {
	d.processes.Do(func(n *dlist.Node[*Process]) {
		p := n.Owner()
		e := *ev
		e.To = p

		prev := d.current
		d.current = p
		state := p.schedule(&e)
		d.metrics.Counter(MetricEventsDelivered).Inc()
		_ = d.hooks.Emit(ctx, HookDispatched, LifecycleEvent{Kind: EventDispatched, Process: p, Event: e})
		d.current = prev

		if state == pt.Terminated {
			d.terminate(ctx, p)
		}
	})
	return true
}

func (d *Dispatcher) terminate(ctx context.Context, p *Process) {
	if !p.Running() {
		return
	}
	d.processes.Erase(p.node)
	d.gaugeProcessCount()
	_ = d.hooks.Emit(ctx, HookTerminated, LifecycleEvent{Kind: ProcessTerminated, Process: p})
	if d.logger.IsEnabled(logging.LevelDebug) {
		d.logger.Log(logging.LogEntry{
			Level: logging.LevelDebug, Category: "process",
			Message: "process terminated",
		})
	}
}

func (d *Dispatcher) gaugeQueueDepth() {
	d.metrics.Gauge(MetricQueueDepth).Set(float64(d.queue.Len()))
}

func (d *Dispatcher) gaugeProcessCount() {
	d.metrics.Gauge(MetricProcessesRunning).Set(float64(d.processes.Size()))
}
