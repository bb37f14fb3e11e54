// Package metrics implements counters, gauges and histograms that render
// in the Prometheus text exposition format.
package metrics

// MetricType is the TYPE line value of a metric family.
type MetricType string

// Supported metric types.
const (
	TypeCounter   MetricType = "counter"
	TypeGauge     MetricType = "gauge"
	TypeHistogram MetricType = "histogram"
)

// Metric is a named metric family.
type Metric interface {
	Name() string
	Help() string
	Type() MetricType
	// Describe renders the family, HELP and TYPE lines included.
	Describe() string
}

// Counter only goes up.
type Counter interface {
	Metric
	Inc()
	Add(float64)
	Get() float64
}

// Gauge can be set to any value.
type Gauge interface {
	Metric
	Set(float64)
	Inc()
	Dec()
	Add(float64)
	Get() float64
}

// Histogram counts observations in cumulative buckets.
type Histogram interface {
	Metric
	Observe(float64)
	Count() uint64
	Sum() float64
}

// CounterVec partitions a counter by label values.
type CounterVec interface {
	Metric
	With(labels map[string]string) Counter
}

// HistogramVec partitions a histogram by label values.
type HistogramVec interface {
	Metric
	With(labels map[string]string) Histogram
}
