package dispatch

import "time"

// Option configures a Dispatcher with optional dependencies.
type Option func(*dispatcherOptions)

// dispatcherOptions holds optional Dispatcher configuration.
type dispatcherOptions struct {
	hooks   *Hooks
	metrics MetricsCollector
	logger  Logger
	now     func() time.Time
}

// WithHooks sets pipeline event hooks.
//
// Parameters:
//   - hooks: Hooks structure with callback functions
//
// Returns:
//   - Option: Functional option for NewDispatcher
//
// Example:
//
//	hooks := &dispatch.Hooks{
//	    OnGroupsWritten: func(ctx context.Context, groups []dispatch.Group) error {
//	        return announce(ctx, groups)
//	    },
//	}
//	d, err := dispatch.NewDispatcher(cfg, src, w, dispatch.WithHooks(hooks))
func WithHooks(hooks *Hooks) Option {
	return func(o *dispatcherOptions) {
		o.hooks = hooks
	}
}

// WithMetrics sets a metrics collector.
//
// Parameters:
//   - metrics: MetricsCollector implementation
//
// Returns:
//   - Option: Functional option for NewDispatcher
//
// Example:
//
//	collector := metrics.NewPrometheus(registry, "")
//	d, err := dispatch.NewDispatcher(cfg, src, w, dispatch.WithMetrics(collector))
func WithMetrics(metrics MetricsCollector) Option {
	return func(o *dispatcherOptions) {
		o.metrics = metrics
	}
}

// WithLogger sets a logger.
//
// Parameters:
//   - logger: Logger implementation (compatible with zap.SugaredLogger)
//
// Returns:
//   - Option: Functional option for NewDispatcher
func WithLogger(logger Logger) Option {
	return func(o *dispatcherOptions) {
		o.logger = logger
	}
}

// WithClock overrides the time source used to resolve "today" in the dates
// section and to time runs.
func WithClock(now func() time.Time) Option {
	return func(o *dispatcherOptions) {
		o.now = now
	}
}
