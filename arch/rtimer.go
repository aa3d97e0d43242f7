package arch

import (
	"context"
	"sync"
	"time"

	"github.com/marcas756/myos-sub000/clock"
	"github.com/zoobzio/clockz"
)

// RTimerDriver is the hardware compare-match timer the real-time timer
// module programs: a current-tick source plus a single pending deadline,
// with the scheduler callback invoked once that deadline is reached.
type RTimerDriver interface {
	Now() clock.Tick
	Set(deadline clock.Tick)
	Init(scheduler func())
}

// ClockzRTimerDriver backs RTimerDriver with a clockz.Clock, running a
// goroutine that selects on Clock.After to stand in for the hardware
// compare-match interrupt. Production wiring uses clockz.RealClock; tests
// inject clockz.NewFakeClock() to move the deadline without sleeping
// instead of actually waiting out real time.
type ClockzRTimerDriver struct {
	clock clockz.Clock

	epochOnce sync.Once
	epoch     time.Time

	mu        sync.Mutex
	scheduler func()
	cancel    context.CancelFunc
}

// NewClockzRTimerDriver constructs a driver backed by c. The tick epoch is
// fixed at c's current instant on first use.
func NewClockzRTimerDriver(c clockz.Clock) *ClockzRTimerDriver {
	return &ClockzRTimerDriver{clock: c}
}

func (d *ClockzRTimerDriver) ensureEpoch() {
	d.epochOnce.Do(func() { d.epoch = d.clock.Now() })
}

// Now returns elapsed ticks since the driver's epoch, scaled by
// clock.TicksPerSecond.
func (d *ClockzRTimerDriver) Now() clock.Tick {
	d.ensureEpoch()
	elapsed := d.clock.Now().Sub(d.epoch)
	return clock.Tick(elapsed * time.Duration(clock.TicksPerSecond) / time.Second)
}

// Init records the scheduler callback the interrupt-equivalent goroutine
// invokes once a programmed deadline elapses.
func (d *ClockzRTimerDriver) Init(scheduler func()) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.scheduler = scheduler
}

// Set programs the driver to invoke the scheduler once deadline is
// reached, replacing (canceling) any previously armed deadline — mirroring
// the single-instance discipline of the rtimer module above it.
func (d *ClockzRTimerDriver) Set(deadline clock.Tick) {
	d.ensureEpoch()

	d.mu.Lock()
	if d.cancel != nil {
		d.cancel()
	}
	scheduler := d.scheduler
	ctx, cancel := context.WithCancel(context.Background())
	d.cancel = cancel
	d.mu.Unlock()

	delay := clock.Sub(deadline, d.Now())
	wait := time.Duration(delay) * time.Second / time.Duration(clock.TicksPerSecond)

	go func() {
		select {
		case <-d.clock.After(wait):
			if scheduler != nil {
				scheduler()
			}
		case <-ctx.Done():
		}
	}()
}

var _ RTimerDriver = (*ClockzRTimerDriver)(nil)
