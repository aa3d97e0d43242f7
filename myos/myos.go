// Package myos wires the core's subsystems together in the bring-up order
// the spec requires: the process dispatcher, then a monotonic time
// source, then the timer module, then the dedicated process-timer
// process, then the (no-op at this layer) event/callback timer
// compositions, then the architecture-specific real-time timer.
package myos

import (
	"github.com/marcas756/myos-sub000/arch"
	"github.com/marcas756/myos-sub000/clock"
	"github.com/marcas756/myos-sub000/process"
	"github.com/marcas756/myos-sub000/ptimer"
	"github.com/marcas756/myos-sub000/rtimer"
)

// System is a fully wired-up core instance: a dispatcher, a tick source,
// the dedicated timer process, and (if a driver was supplied) the
// real-time timer.
type System struct {
	Dispatcher *process.Dispatcher
	Clock      *clock.Source
	Timers     *ptimer.Timers
	RTimer     *rtimer.Timers
}

// Option configures System construction.
type Option func(*config)

type config struct {
	dispatcherOpts []process.Option
	ptimerOpts     []ptimer.Option
	rtimerDriver   arch.RTimerDriver
	rtimerOpts     []rtimer.Option
}

// WithDispatcherOptions forwards opts to process.NewDispatcher.
func WithDispatcherOptions(opts ...process.Option) Option {
	return func(c *config) { c.dispatcherOpts = opts }
}

// WithTimerOptions forwards opts to ptimer.New.
func WithTimerOptions(opts ...ptimer.Option) Option {
	return func(c *config) { c.ptimerOpts = opts }
}

// WithRTimerDriver enables the real-time timer, backed by driver.
// Omitting this option leaves System.RTimer nil, matching the spec's
// treatment of rtimer as architecture-specific and optional.
func WithRTimerDriver(driver arch.RTimerDriver, opts ...rtimer.Option) Option {
	return func(c *config) {
		c.rtimerDriver = driver
		c.rtimerOpts = opts
	}
}

// New brings up a System in the spec-mandated order: C7 process
// dispatcher, C4 time source, C5 timer module (implicit in ptimer's use
// of clock.Source.Now), C8 ptimer process, C9 ctimer/etimer (no-op here —
// they are constructed per-use, not as part of bring-up), C10 rtimer.
func New(opts ...Option) *System {
	var cfg config
	for _, opt := range opts {
		opt(&cfg)
	}

	sys := &System{
		Dispatcher: process.NewDispatcher(cfg.dispatcherOpts...),
		Clock:      &clock.Source{},
	}
	sys.Timers = ptimer.New(sys.Dispatcher, sys.Clock.Now, cfg.ptimerOpts...)
	sys.Timers.Start()

	if cfg.rtimerDriver != nil {
		sys.RTimer = rtimer.New(cfg.rtimerDriver, cfg.rtimerOpts...)
	}

	return sys
}

// Tick advances the tick counter by one and polls the ptimer process if
// its next-to-expire hint has elapsed — the two things spec §6 requires
// of every tick interrupt.
func (s *System) Tick() {
	s.Clock.Advance(1)
	s.Timers.PollIfNecessary()
}
