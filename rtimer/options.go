package rtimer

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
// debug-level entry each time the scheduler fires a timer. Arming a timer
// is not logged.
func WithLogger(l logging.Logger) Option {
	return func(c *Config) { c.Logger = l }
}
