package myos

import (
	"testing"

	"github.com/marcas756/myos-sub000/etimer"
	"github.com/marcas756/myos-sub000/process"
	"github.com/marcas756/myos-sub000/pt"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// TestSystem_EventTimerSleepResumesAfterPoll matches S5: a process sleeps
// on an event timer; advancing the tick past its span and polling wakes
// it on the next run.
func TestSystem_EventTimerSleepResumesAfterPoll(t *testing.T) {
	sys := New()

	woke := false
	p := &process.Process{}
	p.Init(func(p *process.Process, ptr *pt.PT) {
		et := etimer.New(sys.Timers, sys.Dispatcher)
		etimer.Sleep(et, p, ptr, 100)
		woke = true
		ptr.WaitUntil(func() bool { return false })
	})
	sys.Dispatcher.Start(p, nil)
	require.False(t, woke)

	for i := 0; i < 100; i++ {
		sys.Tick()
	}
	sys.Dispatcher.Run()

	assert.True(t, woke)
}

// TestSystem_BringUpOrderStartsTimerProcessRunning exercises C11's
// bring-up sequence: by the time New returns, the dedicated ptimer
// process must already be running, ready to receive polls.
func TestSystem_BringUpOrderStartsTimerProcessRunning(t *testing.T) {
	sys := New()
	assert.NotNil(t, sys.Dispatcher)
	assert.NotNil(t, sys.Clock)
	assert.NotNil(t, sys.Timers)
	assert.Nil(t, sys.RTimer, "rtimer is architecture-specific and optional")

	// A timer armed before any explicit dispatcher Run() must still fire,
	// which only happens if the ptimer process was started during bring-up.
	fired := false
	p := &process.Process{}
	p.Init(func(p *process.Process, ptr *pt.PT) {
		et := etimer.New(sys.Timers, sys.Dispatcher)
		et.Start(5, p, process.EventContinue, nil)
		process.WaitEvent(p, ptr, process.EventContinue)
		fired = true
		ptr.WaitUntil(func() bool { return false })
	})
	sys.Dispatcher.Start(p, nil)

	for i := 0; i < 5; i++ {
		sys.Tick()
	}
	sys.Dispatcher.Run()

	assert.True(t, fired)
}
