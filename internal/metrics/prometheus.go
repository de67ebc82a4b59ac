package metrics

import (
	"sync"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/William-Gardner-Biotech/SRA-Dispatch/types"
)

// DefaultNamespace is used when NewPrometheus receives an empty namespace.
const DefaultNamespace = "sra_dispatch"

// PrometheusCollector implements types.MetricsCollector backed by Prometheus.
//
// Collectors are created and registered lazily on first use, so constructing
// one that is never exercised leaves the registry untouched.
type PrometheusCollector struct {
	*NopMetrics

	reg       prometheus.Registerer
	namespace string
	once      sync.Once

	items                prometheus.Gauge
	malformedSizes       prometheus.Counter
	thresholdAdjustments prometheus.Counter
	groupsClosed         prometheus.Counter
	groupWeight          prometheus.Histogram
	groupMembers         prometheus.Histogram
	nodeCount            prometheus.Gauge
	diskPerNode          prometheus.Gauge
	cpuPerNode           prometheus.Gauge
	balanceDuration      prometheus.Histogram
	dispatches           *prometheus.CounterVec
}

// Compile-time assertion that PrometheusCollector implements MetricsCollector.
var _ types.MetricsCollector = (*PrometheusCollector)(nil)

// NewPrometheus creates a new Prometheus-backed metrics collector.
//
// Parameters:
//   - reg: Prometheus registerer interface (uses prometheus.DefaultRegisterer if nil)
//   - namespace: Prometheus metrics namespace (defaults to "sra_dispatch" if empty)
//
// Returns:
//   - *PrometheusCollector: A MetricsCollector implementation using Prometheus
func NewPrometheus(reg prometheus.Registerer, namespace string) *PrometheusCollector {
	if reg == nil {
		reg = prometheus.DefaultRegisterer
	}
	if namespace == "" {
		namespace = DefaultNamespace
	}

	return &PrometheusCollector{NopMetrics: NewNop(), reg: reg, namespace: namespace}
}

func (p *PrometheusCollector) ensureRegistered() {
	p.once.Do(func() {
		p.items = prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: p.namespace,
			Subsystem: "balancer",
			Name:      "items",
			Help:      "Number of items in the most recent balancing run.",
		})
		p.malformedSizes = prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: p.namespace,
			Subsystem: "balancer",
			Name:      "malformed_sizes_total",
			Help:      "Items whose reported size could not be parsed and counted as zero.",
		})
		p.thresholdAdjustments = prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: p.namespace,
			Subsystem: "balancer",
			Name:      "threshold_adjustments_total",
			Help:      "Increments applied to the per-node disk threshold.",
		})
		p.groupsClosed = prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: p.namespace,
			Subsystem: "balancer",
			Name:      "groups_closed_total",
			Help:      "Groups closed and written.",
		})
		p.groupWeight = prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: p.namespace,
			Subsystem: "balancer",
			Name:      "group_weight_megabytes",
			Help:      "Accumulated disk requirement of closed groups in megabytes.",
			Buckets:   prometheus.ExponentialBuckets(1024, 2, 12), // 1 GiB .. 2 TiB
		})
		p.groupMembers = prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: p.namespace,
			Subsystem: "balancer",
			Name:      "group_members",
			Help:      "Number of items in closed groups.",
			Buckets:   []float64{1, 2, 5, 10, 25, 50, 100, 250},
		})
		p.nodeCount = prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: p.namespace,
			Subsystem: "plan",
			Name:      "node_count",
			Help:      "Node count of the most recent resource plan.",
		})
		p.diskPerNode = prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: p.namespace,
			Subsystem: "plan",
			Name:      "disk_per_node_megabytes",
			Help:      "Per-node disk threshold of the most recent resource plan.",
		})
		p.cpuPerNode = prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: p.namespace,
			Subsystem: "plan",
			Name:      "cpu_per_node",
			Help:      "CPU request per node of the most recent resource plan.",
		})
		p.balanceDuration = prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: p.namespace,
			Subsystem: "balancer",
			Name:      "duration_seconds",
			Help:      "Duration of balancing runs in seconds.",
			Buckets:   prometheus.ExponentialBuckets(0.001, 4, 8), // 1ms .. ~16s
		})
		p.dispatches = prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: p.namespace,
			Subsystem: "dispatch",
			Name:      "runs_total",
			Help:      "Dispatch runs by result (success,too_few,error).",
		}, []string{"result"})

		p.reg.MustRegister(p.items)
		p.reg.MustRegister(p.malformedSizes)
		p.reg.MustRegister(p.thresholdAdjustments)
		p.reg.MustRegister(p.groupsClosed)
		p.reg.MustRegister(p.groupWeight)
		p.reg.MustRegister(p.groupMembers)
		p.reg.MustRegister(p.nodeCount)
		p.reg.MustRegister(p.diskPerNode)
		p.reg.MustRegister(p.cpuPerNode)
		p.reg.MustRegister(p.balanceDuration)
		p.reg.MustRegister(p.dispatches)
	})
}

// RecordItemCount sets the item gauge.
func (p *PrometheusCollector) RecordItemCount(count int) {
	p.ensureRegistered()
	p.items.Set(float64(count))
}

// RecordMalformedSize increments the malformed size counter.
func (p *PrometheusCollector) RecordMalformedSize() {
	p.ensureRegistered()
	p.malformedSizes.Inc()
}

// RecordThresholdAdjustment increments the threshold adjustment counter.
func (p *PrometheusCollector) RecordThresholdAdjustment() {
	p.ensureRegistered()
	p.thresholdAdjustments.Inc()
}

// RecordGroupClosed counts the group and observes its weight and size.
func (p *PrometheusCollector) RecordGroupClosed(weight float64, members int) {
	p.ensureRegistered()
	p.groupsClosed.Inc()
	p.groupWeight.Observe(weight)
	p.groupMembers.Observe(float64(members))
}

// RecordPlan sets the plan gauges.
func (p *PrometheusCollector) RecordPlan(plan types.ResourcePlan) {
	p.ensureRegistered()
	p.nodeCount.Set(float64(plan.NodeCount))
	p.diskPerNode.Set(plan.DiskPerNode)
	p.cpuPerNode.Set(float64(plan.CPUPerNode))
}

// RecordBalanceDuration observes a balancing run duration.
func (p *PrometheusCollector) RecordBalanceDuration(seconds float64) {
	p.ensureRegistered()
	p.balanceDuration.Observe(seconds)
}

// RecordDispatch increments the dispatch counter for result.
func (p *PrometheusCollector) RecordDispatch(result string) {
	p.ensureRegistered()
	if result == "" {
		result = "unknown"
	}
	p.dispatches.WithLabelValues(result).Inc()
}
