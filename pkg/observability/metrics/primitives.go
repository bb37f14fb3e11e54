package metrics

import (
	"fmt"
	"math"
	"sort"
	"strconv"
	"strings"
	"sync"
	"sync/atomic"
)

// DefaultBuckets suit request latencies measured in seconds.
var DefaultBuckets = []float64{0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1, 2.5, 5, 10}

type baseMetric struct {
	name string
	help string
	typ  MetricType
}

func (m *baseMetric) Name() string     { return m.name }
func (m *baseMetric) Help() string     { return m.help }
func (m *baseMetric) Type() MetricType { return m.typ }

func (m *baseMetric) header(sb *strings.Builder) {
	fmt.Fprintf(sb, "# HELP %s %s\n", m.name, m.help)
	fmt.Fprintf(sb, "# TYPE %s %s\n", m.name, m.typ)
}

func formatValue(v float64) string {
	switch {
	case math.IsInf(v, 1):
		return "+Inf"
	case math.IsInf(v, -1):
		return "-Inf"
	}
	return strconv.FormatFloat(v, 'g', -1, 64)
}

// formatLabels renders labels sorted by key, with extra pairs first.
func formatLabels(labels map[string]string, extra ...string) string {
	pairs := append([]string(nil), extra...)
	keys := make([]string, 0, len(labels))
	for k := range labels {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	for _, k := range keys {
		pairs = append(pairs, k+"="+strconv.Quote(labels[k]))
	}
	if len(pairs) == 0 {
		return ""
	}
	return "{" + strings.Join(pairs, ",") + "}"
}

// atomicFloat is a float64 updated with compare-and-swap.
type atomicFloat struct {
	bits atomic.Uint64
}

func (f *atomicFloat) add(v float64) {
	for {
		old := f.bits.Load()
		if f.bits.CompareAndSwap(old, math.Float64bits(math.Float64frombits(old)+v)) {
			return
		}
	}
}

func (f *atomicFloat) set(v float64) { f.bits.Store(math.Float64bits(v)) }
func (f *atomicFloat) get() float64  { return math.Float64frombits(f.bits.Load()) }

// --- Counter ---

type counter struct {
	baseMetric
	val atomicFloat
}

// NewCounter creates a counter.
func NewCounter(name, help string) Counter {
	return &counter{baseMetric: baseMetric{name: name, help: help, typ: TypeCounter}}
}

func (c *counter) Inc() { c.Add(1) }

// Add ignores negative deltas.
func (c *counter) Add(v float64) {
	if v < 0 {
		return
	}
	c.val.add(v)
}

func (c *counter) Get() float64 { return c.val.get() }

func (c *counter) Describe() string {
	var sb strings.Builder
	c.header(&sb)
	fmt.Fprintf(&sb, "%s %s\n", c.name, formatValue(c.Get()))
	return sb.String()
}

// --- Gauge ---

type gauge struct {
	baseMetric
	val atomicFloat
}

// NewGauge creates a gauge.
func NewGauge(name, help string) Gauge {
	return &gauge{baseMetric: baseMetric{name: name, help: help, typ: TypeGauge}}
}

func (g *gauge) Set(v float64) { g.val.set(v) }
func (g *gauge) Inc()          { g.val.add(1) }
func (g *gauge) Dec()          { g.val.add(-1) }
func (g *gauge) Add(v float64) { g.val.add(v) }
func (g *gauge) Get() float64  { return g.val.get() }

func (g *gauge) Describe() string {
	var sb strings.Builder
	g.header(&sb)
	fmt.Fprintf(&sb, "%s %s\n", g.name, formatValue(g.Get()))
	return sb.String()
}

// --- Histogram ---

type histogram struct {
	baseMetric
	buckets []float64

	mu     sync.Mutex
	counts []uint64
	count  uint64
	sum    float64
}

// NewHistogram creates a histogram. Nil buckets mean DefaultBuckets.
func NewHistogram(name, help string, buckets []float64) Histogram {
	return newHistogram(name, help, buckets)
}

func newHistogram(name, help string, buckets []float64) *histogram {
	if len(buckets) == 0 {
		buckets = DefaultBuckets
	}
	b := append([]float64(nil), buckets...)
	sort.Float64s(b)
	return &histogram{
		baseMetric: baseMetric{name: name, help: help, typ: TypeHistogram},
		buckets:    b,
		counts:     make([]uint64, len(b)),
	}
}

func (h *histogram) Observe(v float64) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.count++
	h.sum += v
	for i, bound := range h.buckets {
		if v <= bound {
			h.counts[i]++
		}
	}
}

func (h *histogram) Count() uint64 {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.count
}

func (h *histogram) Sum() float64 {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.sum
}

// samples renders bucket, sum and count lines under name with labels.
func (h *histogram) samples(sb *strings.Builder, name string, labels map[string]string) {
	h.mu.Lock()
	defer h.mu.Unlock()
	for i, bound := range h.buckets {
		le := "le=" + strconv.Quote(formatValue(bound))
		fmt.Fprintf(sb, "%s_bucket%s %d\n", name, formatLabels(labels, le), h.counts[i])
	}
	fmt.Fprintf(sb, "%s_bucket%s %d\n", name, formatLabels(labels, `le="+Inf"`), h.count)
	fmt.Fprintf(sb, "%s_sum%s %s\n", name, formatLabels(labels), formatValue(h.sum))
	fmt.Fprintf(sb, "%s_count%s %d\n", name, formatLabels(labels), h.count)
}

func (h *histogram) Describe() string {
	var sb strings.Builder
	h.header(&sb)
	h.samples(&sb, h.name, nil)
	return sb.String()
}

// --- Vectors ---

type child[T any] struct {
	labels map[string]string
	metric T
}

// family keeps one child per distinct label set.
type family[T any] struct {
	children sync.Map // map[string]*child[T]
}

func (f *family[T]) get(labels map[string]string, create func() T) T {
	key := formatLabels(labels)
	if val, ok := f.children.Load(key); ok {
		return val.(*child[T]).metric
	}
	copied := make(map[string]string, len(labels))
	for k, v := range labels {
		copied[k] = v
	}
	actual, _ := f.children.LoadOrStore(key, &child[T]{labels: copied, metric: create()})
	return actual.(*child[T]).metric
}

func (f *family[T]) each(fn func(c *child[T])) {
	var keys []string
	f.children.Range(func(key, _ any) bool {
		keys = append(keys, key.(string))
		return true
	})
	sort.Strings(keys)
	for _, key := range keys {
		if val, ok := f.children.Load(key); ok {
			fn(val.(*child[T]))
		}
	}
}

type counterVec struct {
	baseMetric
	family[*counter]
}

// NewCounterVec creates a labelled counter family.
func NewCounterVec(name, help string) CounterVec {
	return &counterVec{baseMetric: baseMetric{name: name, help: help, typ: TypeCounter}}
}

func (v *counterVec) With(labels map[string]string) Counter {
	return v.get(labels, func() *counter {
		return &counter{baseMetric: v.baseMetric}
	})
}

func (v *counterVec) Describe() string {
	var sb strings.Builder
	v.header(&sb)
	v.each(func(c *child[*counter]) {
		fmt.Fprintf(&sb, "%s%s %s\n", v.name, formatLabels(c.labels), formatValue(c.metric.Get()))
	})
	return sb.String()
}

type histogramVec struct {
	baseMetric
	family[*histogram]
	buckets []float64
}

// NewHistogramVec creates a labelled histogram family.
func NewHistogramVec(name, help string, buckets []float64) HistogramVec {
	return &histogramVec{
		baseMetric: baseMetric{name: name, help: help, typ: TypeHistogram},
		buckets:    buckets,
	}
}

func (v *histogramVec) With(labels map[string]string) Histogram {
	return v.get(labels, func() *histogram {
		return newHistogram(v.name, v.help, v.buckets)
	})
}

func (v *histogramVec) Describe() string {
	var sb strings.Builder
	v.header(&sb)
	v.each(func(c *child[*histogram]) {
		c.metric.samples(&sb, v.name, c.labels)
	})
	return sb.String()
}
