//go:build linux

package arch

import "golang.org/x/sys/unix"

// PosixSignalCritical implements Critical by masking SIGALRM and
// SIGVTALRM for the duration of the section, modeling "disable
// interrupts" on a POSIX host that drives its tick source off a real
// timer signal (ITIMER_REAL or ITIMER_VIRTUAL). Only meaningful when the
// tick source actually delivers one of those signals; the goroutine-based
// arch.Ticker does not, so MutexCritical is the right choice alongside it.
type PosixSignalCritical struct{}

// Enter blocks SIGALRM and SIGVTALRM on the calling thread, returning the
// previous signal mask as the token Exit must restore.
func (PosixSignalCritical) Enter() any {
	var set, old unix.Sigset_t
	sigaddset(&set, unix.SIGALRM)
	sigaddset(&set, unix.SIGVTALRM)
	if err := unix.PthreadSigmask(unix.SIG_BLOCK, &set, &old); err != nil {
		panic("arch: PthreadSigmask block: " + err.Error())
	}
	return old
}

// Exit restores the signal mask captured by Enter.
func (PosixSignalCritical) Exit(token any) {
	old := token.(unix.Sigset_t)
	if err := unix.PthreadSigmask(unix.SIG_SETMASK, &old, nil); err != nil {
		panic("arch: PthreadSigmask restore: " + err.Error())
	}
}

var _ Critical = PosixSignalCritical{}

// sigaddset sets sig's bit in the Linux sigset_t (16 uint64 words, bit
// (sig-1) within the flattened 1024-bit mask).
func sigaddset(set *unix.Sigset_t, sig unix.Signal) {
	bit := uint(sig) - 1
	set.Val[bit/64] |= 1 << (bit % 64)
}
