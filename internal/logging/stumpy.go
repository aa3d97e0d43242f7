package logging

import (
	"github.com/joeycumines/logiface"
	"github.com/joeycumines/stumpy"
)

// NewStumpyLogger wraps a logiface Logger backed by the stumpy JSON writer
// (this codebase's own structured-logging stack) as a Logger, rather than
// a hand-rolled os.Stdout writer. minLevel sets the floor below which
// entries are dropped before ever reaching stumpy.
func NewStumpyLogger(minLevel Level) Logger {
	return &stumpyLogger{
		min:    minLevel,
		logger: stumpy.L.New(),
	}
}

type stumpyLogger struct {
	min    Level
	logger *logiface.Logger[*stumpy.Event]
}

func (l *stumpyLogger) IsEnabled(level Level) bool {
	return level >= l.min
}

func (l *stumpyLogger) Log(entry LogEntry) {
	if !l.IsEnabled(entry.Level) {
		return
	}

	b := l.builder(entry.Level)
	if b == nil {
		return
	}

	b = b.Str("category", entry.Category)
	if entry.Err != nil {
		b = b.Err(entry.Err)
	}
	for k, v := range entry.Fields {
		b = b.Field(k, v)
	}
	if !entry.Timestamp.IsZero() {
		b = b.Time("ts", entry.Timestamp)
	}
	b.Log(entry.Message)
}

func (l *stumpyLogger) builder(level Level) *logiface.Builder[*stumpy.Event] {
	switch level {
	case LevelDebug:
		return l.logger.Debug()
	case LevelInfo:
		return l.logger.Info()
	case LevelWarn:
		return l.logger.Warning()
	case LevelError:
		return l.logger.Err()
	default:
		return l.logger.Info()
	}
}

var _ Logger = (*stumpyLogger)(nil)
