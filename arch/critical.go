// Package arch collects the external-collaborator contracts the core
// leaves to the platform: critical sections, the real-time timer's
// hardware compare-match interrupt, and the periodic tick source. Each
// contract gets one reference implementation so the rest of this module
// is runnable and testable without real hardware.
package arch

import "sync"

// Critical is the `critical { ... }` primitive: a region during which the
// tick ISR (or whatever plays its role) must not interleave with the
// caller. Enter returns an opaque token that must be passed to the
// matching Exit.
type Critical interface {
	Enter() (token any)
	Exit(token any)
}

// MutexCritical implements Critical with a plain mutex, for use when the
// "interrupt" is actually a second goroutine, as in tests and the
// goroutine-based reference Ticker.
type MutexCritical struct {
	mu sync.Mutex
}

// Enter locks the mutex. The returned token carries no information; it
// exists only to satisfy the Critical interface shape.
func (c *MutexCritical) Enter() any {
	c.mu.Lock()
	return nil
}

// Exit unlocks the mutex.
func (c *MutexCritical) Exit(any) {
	c.mu.Unlock()
}

var _ Critical = (*MutexCritical)(nil)
