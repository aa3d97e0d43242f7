package process

import "errors"

// ErrInvalidQueueCapacity is returned by Option application when
// WithQueueCapacity is given a non-positive value.
var ErrInvalidQueueCapacity = errors.New("process: queue capacity must be positive")
