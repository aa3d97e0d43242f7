//go:build !linux

package arch

// PosixSignalCritical is unavailable outside Linux; use MutexCritical on
// these platforms instead.
