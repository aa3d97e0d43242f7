package process

import (
	"testing"

	"github.com/marcas756/myos-sub000/pt"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func echoThread(got *Event) ThreadFunc {
	return func(p *Process, ptr *pt.PT) {
		for {
			*got = *p.currentEvent()
			ptr.Yield()
		}
	}
}

func TestProcess_StartDeliversStartEvent(t *testing.T) {
	d := NewDispatcher()
	var got Event
	p := &Process{}
	p.Init(echoThread(&got))

	require.True(t, d.Start(p, "hello"))
	assert.Equal(t, EventStart, got.ID)
	assert.Equal(t, "hello", p.Data())
	assert.True(t, p.Running())
}

func TestProcess_StartTwiceReturnsFalse(t *testing.T) {
	d := NewDispatcher()
	p := &Process{}
	p.Init(func(p *Process, ptr *pt.PT) {
		for {
			ptr.Yield()
		}
	})

	require.True(t, d.Start(p, nil))
	assert.False(t, d.Start(p, nil))
}

func TestProcess_TerminatingThreadUnlinksOnStart(t *testing.T) {
	d := NewDispatcher()
	p := &Process{}
	p.Init(func(p *Process, ptr *pt.PT) {})

	require.True(t, d.Start(p, nil))
	assert.False(t, p.Running())
}

func TestWaitEvent_AlwaysYieldsOnceEvenIfAlreadyMatching(t *testing.T) {
	d := NewDispatcher()
	resumeCount := 0
	p := &Process{}
	p.Init(func(p *Process, ptr *pt.PT) {
		WaitEvent(p, ptr, EventContinue)
		resumeCount++
		WaitEvent(p, ptr, EventContinue)
		resumeCount++
		ptr.WaitUntil(func() bool { return false })
	})

	d.Start(p, nil)
	// Start delivered EventStart, which does not match, so the first
	// WaitEvent suspends.
	assert.Equal(t, 0, resumeCount)

	// The second WaitEvent is entered while the current event is already
	// EventContinue; it must still suspend (yield_until semantics), so the
	// count stops at 1 rather than running on to 2.
	d.PostSync(p, EventContinue, nil)
	assert.Equal(t, 1, resumeCount)

	d.PostSync(p, EventContinue, nil)
	assert.Equal(t, 2, resumeCount)
}

func TestSuspend_PostsContinueToSelf(t *testing.T) {
	d := NewDispatcher()
	reached := false
	p := &Process{}
	p.Init(func(p *Process, ptr *pt.PT) {
		Suspend(d, p, ptr)
		reached = true
		ptr.WaitUntil(func() bool { return false })
	})

	d.Start(p, nil)
	assert.False(t, reached)

	d.Run()
	assert.True(t, reached)
}
