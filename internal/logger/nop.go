// Package logger provides the no-op and test loggers used as defaults and in tests.
package logger

import "github.com/William-Gardner-Biotech/SRA-Dispatch/types"

// NopLogger discards all log messages.
//
// It is the default logger of the balancer, the size normalizer and the
// dispatcher, so none of them needs a nil check before logging.
//
// Example:
//
//	b := balancer.New(writer, balancer.WithLogger(logger.NewNop()))
type NopLogger struct{}

var _ types.Logger = (*NopLogger)(nil)

// NewNop creates a new no-op logger.
func NewNop() *NopLogger {
	return &NopLogger{}
}

func (n *NopLogger) Debug(_ string, _ ...any) {}

func (n *NopLogger) Info(_ string, _ ...any) {}

func (n *NopLogger) Warn(_ string, _ ...any) {}

func (n *NopLogger) Error(_ string, _ ...any) {}

// Fatal discards the message and does NOT call os.Exit.
func (n *NopLogger) Fatal(_ string, _ ...any) {}

// OrNop returns l, or a NopLogger when l is nil.
func OrNop(l types.Logger) types.Logger {
	if l == nil {
		return NewNop()
	}

	return l
}
