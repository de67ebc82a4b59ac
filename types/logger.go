package types

// Logger defines methods for structured logging.
//
// Compatible with zap.SugaredLogger, the slog and zerolog adapters in
// internal/logging, and other key/value loggers. Logging is a side channel:
// the balancer produces identical results with a no-op logger.
type Logger interface {
	// Debug logs a message at DebugLevel.
	Debug(msg string, keysAndValues ...any)

	// Info logs a message at InfoLevel.
	Info(msg string, keysAndValues ...any)

	// Warn logs a message at WarnLevel.
	// Used for recoverable data problems such as unparseable sizes.
	Warn(msg string, keysAndValues ...any)

	// Error logs a message at ErrorLevel.
	Error(msg string, keysAndValues ...any)

	// Fatal logs a message at FatalLevel and calls os.Exit(1).
	//
	// Library code never calls Fatal; it is reserved for command entry points.
	Fatal(msg string, keysAndValues ...any)
}
