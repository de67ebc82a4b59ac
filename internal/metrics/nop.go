package metrics

import "github.com/William-Gardner-Biotech/SRA-Dispatch/types"

// NopMetrics implements a no-op metrics collector.
//
// All metrics are discarded. Useful for testing or when external
// metrics collection is used.
type NopMetrics struct{}

// Compile-time assertion that NopMetrics implements MetricsCollector.
var _ types.MetricsCollector = (*NopMetrics)(nil)

// NewNop creates a new no-op metrics collector.
//
// Returns:
//   - *NopMetrics: A new no-op metrics collector instance
//
// Example:
//
//	b, err := balancer.New(w, balancer.WithMetrics(metrics.NewNop()))
func NewNop() *NopMetrics {
	return &NopMetrics{}
}

// BalancerMetrics implementation

// RecordItemCount discards the item count metric.
func (n *NopMetrics) RecordItemCount(_ /* count */ int) {}

// RecordMalformedSize discards the malformed size counter.
func (n *NopMetrics) RecordMalformedSize() {}

// RecordThresholdAdjustment discards the threshold adjustment counter.
func (n *NopMetrics) RecordThresholdAdjustment() {}

// RecordGroupClosed discards the group closed metric.
func (n *NopMetrics) RecordGroupClosed(_ /* weight */ float64, _ /* members */ int) {}

// RecordPlan discards the resource plan gauges.
func (n *NopMetrics) RecordPlan(_ /* plan */ types.ResourcePlan) {}

// RecordBalanceDuration discards the balance duration metric.
func (n *NopMetrics) RecordBalanceDuration(_ /* duration */ float64) {}

// DispatchMetrics implementation

// RecordDispatch discards the dispatch result counter.
func (n *NopMetrics) RecordDispatch(_ /* result */ string) {}
