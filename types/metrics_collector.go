package types

// MetricsCollector defines methods for recording operational metrics.
//
// Implementations should be non-blocking and handle failures gracefully.
//
// This interface composes smaller, domain-focused interfaces for better modularity.
type MetricsCollector interface {
	BalancerMetrics
	DispatchMetrics
}

// BalancerMetrics defines metrics for a balancing run.
type BalancerMetrics interface {
	// RecordItemCount sets the number of items in the current run (gauge metric).
	RecordItemCount(count int)

	// RecordMalformedSize records an item whose size could not be parsed.
	RecordMalformedSize()

	// RecordThresholdAdjustment records one increment of the per-node disk threshold.
	RecordThresholdAdjustment()

	// RecordGroupClosed records a group being closed and written.
	//
	// Parameters:
	//   - weight: Accumulated disk requirement of the group in megabytes
	//   - members: Number of items in the group
	RecordGroupClosed(weight float64, members int)

	// RecordPlan records the final resource plan (gauge metrics).
	RecordPlan(plan ResourcePlan)

	// RecordBalanceDuration records the time taken for a balancing run.
	//
	// Parameters:
	//   - duration: Time taken in seconds
	RecordBalanceDuration(duration float64)
}

// DispatchMetrics defines metrics for the end-to-end dispatch pipeline.
type DispatchMetrics interface {
	// RecordDispatch records a dispatch attempt.
	//
	// Parameters:
	//   - result: Outcome ("success", "too_few", "error")
	RecordDispatch(result string)
}
