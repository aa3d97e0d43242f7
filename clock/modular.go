package clock

import "golang.org/x/exp/constraints"

// lessMod is the width-independent core of Less/Less64: a < b iff the
// unsigned difference (a-b) falls in the upper half of T's range, which is
// exactly the condition int32(a-b) < 0 (or its 64-bit analogue) tests,
// without needing a same-width signed type to cast through. Parameterizing
// this once over constraints.Unsigned, rather than hand-duplicating the
// comparison per tick width, mirrors how catrate/ring.go parameterizes its
// buffer over constraints.Ordered instead of one copy per element type.
func lessMod[T constraints.Unsigned](a, b T) bool {
	return a-b > ^T(0)>>1
}

// subMod is the shared core of Sub/Sub64: a - b, saturated to zero when b
// is not before a.
func subMod[T constraints.Unsigned](a, b T) T {
	if lessMod(a, b) {
		return 0
	}
	return a - b
}
