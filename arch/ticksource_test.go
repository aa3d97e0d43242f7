package arch

import (
	"testing"
	"time"

	"github.com/marcas756/myos-sub000/clock"
	"github.com/zoobzio/clockz"

	"github.com/stretchr/testify/assert"
)

func TestTicker_RunAdvancesSourceAndInvokesHookPerPeriod(t *testing.T) {
	fc := clockz.NewFakeClock()
	var src clock.Source
	hookCalls := 0

	tk := NewTicker(fc, 10*time.Millisecond, src.Advance, func() { hookCalls++ })
	go tk.Run()
	defer tk.Stop()

	fc.Advance(10 * time.Millisecond)
	fc.BlockUntilReady()
	fc.Advance(10 * time.Millisecond)
	fc.BlockUntilReady()

	assert.Eventually(t, func() bool { return src.Now() == 2 }, time.Second, time.Millisecond)
	assert.Eventually(t, func() bool { return hookCalls == 2 }, time.Second, time.Millisecond)
}

func TestTicker_StopHaltsTheRunLoop(t *testing.T) {
	fc := clockz.NewFakeClock()
	var src clock.Source

	tk := NewTicker(fc, 10*time.Millisecond, src.Advance, nil)
	go tk.Run()

	fc.Advance(10 * time.Millisecond)
	fc.BlockUntilReady()
	assert.Eventually(t, func() bool { return src.Now() == 1 }, time.Second, time.Millisecond)

	tk.Stop()

	fc.Advance(10 * time.Millisecond)
	fc.BlockUntilReady()
	time.Sleep(10 * time.Millisecond)
	assert.Equal(t, clock.Tick(1), src.Now(), "no further advances after Stop")
}

func TestTicker_AdvanceTicksOnceImmediately(t *testing.T) {
	fc := clockz.NewFakeClock()
	var src clock.Source
	hookCalls := 0

	tk := NewTicker(fc, time.Second, src.Advance, func() { hookCalls++ })

	var ts TickSource = tk
	ts.Advance()
	ts.Advance()

	assert.Equal(t, clock.Tick(2), src.Now())
	assert.Equal(t, 2, hookCalls)
}
