package runset

import (
	"io"
	"log/slog"
	"sync/atomic"
)

var logger atomic.Pointer[slog.Logger]

func init() {
	logger.Store(slog.New(slog.NewTextHandler(io.Discard, nil)))
}

// SetLogger sets the logger used by the redis persistence layer.
// Logs are discarded until a logger is set; passing nil discards them again.
// Bitset operations themselves never log.
func SetLogger(l *slog.Logger) {
	if l == nil {
		l = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	logger.Store(l)
}

func getLogger() *slog.Logger {
	return logger.Load()
}
