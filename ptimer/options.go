package ptimer

import "github.com/marcas756/myos-sub000/internal/logging"

// Config holds Timers construction options.
type Config struct {
	Logger logging.Logger
}

func defaultConfig() Config {
	return Config{}
}

// Option configures a Timers at construction time.
type Option func(*Config)

// WithLogger attaches a structured logger for lifecycle tracing: a
// debug-level entry each time a timer fires. Arming a timer and the poll
// pass itself are not logged. Never called on the hot path beyond the
// logger's own IsEnabled guard.
func WithLogger(l logging.Logger) Option {
	return func(c *Config) { c.Logger = l }
}
