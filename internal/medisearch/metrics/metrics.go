// Package metrics 提供 MediSearch 的业务指标收集。
package metrics

import (
	"sync"
	"time"

	obs "github.com/kart-io/medisearch/pkg/observability/metrics"
)

// DefaultNamespace 默认指标前缀。
const DefaultNamespace = "medisearch"

// Metrics MediSearch 业务指标。
type Metrics struct {
	namespace string
	registry  *obs.Registry

	// 对话指标
	chatTurns          obs.Counter   // 对话轮次
	chatFailures       obs.Counter   // 失败的对话轮次
	chatDuration       obs.Histogram // 对话耗时
	extractionFailures obs.Counter   // 实体抽取失败次数
	generationFallback obs.Counter   // 使用兜底回复的次数

	// 检索指标
	searches         obs.Counter   // 实际执行的检索次数
	searchFaults     obs.Counter   // 检索异常次数
	searchesDegraded obs.Counter   // 未连接而跳过的检索次数
	searchDuration   obs.Histogram // 检索耗时

	// 存储指标
	messagesPersisted obs.Counter
	queriesLogged     obs.Counter

	// 索引指标
	documentsIndexed obs.Counter
	indexFailures    obs.Counter
}

var (
	global     *Metrics
	globalOnce sync.Once
)

// New 创建独立的指标实例，所有指标名以 namespace 为前缀。
func New(namespace string) *Metrics {
	if namespace == "" {
		namespace = DefaultNamespace
	}
	name := func(s string) string { return namespace + "_" + s }

	m := &Metrics{
		namespace:          namespace,
		registry:           obs.NewRegistry(),
		chatTurns:          obs.NewCounter(name("chat_turns_total"), "Total number of chat turns."),
		chatFailures:       obs.NewCounter(name("chat_failures_total"), "Chat turns answered with an error."),
		chatDuration:       obs.NewHistogram(name("chat_duration_seconds"), "Time spent in chat turns.", []float64{0.1, 0.5, 1, 2.5, 5, 10, 30, 60}),
		extractionFailures: obs.NewCounter(name("extraction_failures_total"), "Entity extractions that failed or returned invalid output."),
		generationFallback: obs.NewCounter(name("generation_fallbacks_total"), "Replies replaced by the fallback text."),
		searches:           obs.NewCounter(name("searches_total"), "Searches sent to the search engine."),
		searchFaults:       obs.NewCounter(name("search_faults_total"), "Searches that failed and returned no results."),
		searchesDegraded:   obs.NewCounter(name("searches_degraded_total"), "Searches skipped because the engine is not connected."),
		searchDuration:     obs.NewHistogram(name("search_duration_seconds"), "Time spent searching.", nil),
		messagesPersisted:  obs.NewCounter(name("messages_persisted_total"), "Chat messages written to the session store."),
		queriesLogged:      obs.NewCounter(name("queries_logged_total"), "Query logs written to the session store."),
		documentsIndexed:   obs.NewCounter(name("documents_indexed_total"), "Condition documents indexed."),
		indexFailures:      obs.NewCounter(name("index_failures_total"), "Condition documents rejected by the search engine."),
	}

	started := obs.NewGauge(name("process_start_time_seconds"), "Start time of the process in unix seconds.")
	started.Set(float64(time.Now().Unix()))

	m.registry.MustRegister(
		m.chatTurns, m.chatFailures, m.chatDuration,
		m.extractionFailures, m.generationFallback,
		m.searches, m.searchFaults, m.searchesDegraded, m.searchDuration,
		m.messagesPersisted, m.queriesLogged,
		m.documentsIndexed, m.indexFailures,
		started,
	)
	return m
}

// Default 获取全局指标实例。
func Default() *Metrics {
	globalOnce.Do(func() {
		global = New(DefaultNamespace)
	})
	return global
}

// Namespace 返回指标前缀。
func (m *Metrics) Namespace() string {
	return m.namespace
}

// Registry 返回底层注册表，HTTP 指标等其他指标族可注册到同一处导出。
func (m *Metrics) Registry() *obs.Registry {
	return m.registry
}

// RecordChat 记录一次对话轮次。
func (m *Metrics) RecordChat(duration time.Duration, err error) {
	m.chatTurns.Inc()
	if err != nil {
		m.chatFailures.Inc()
	}
	m.chatDuration.Observe(duration.Seconds())
}

// RecordExtractionFailure 记录实体抽取失败。
func (m *Metrics) RecordExtractionFailure() {
	m.extractionFailures.Inc()
}

// RecordGenerationFallback 记录生成失败或空回复。
func (m *Metrics) RecordGenerationFallback() {
	m.generationFallback.Inc()
}

// RecordSearch 记录一次实际执行的检索。
func (m *Metrics) RecordSearch(duration time.Duration, err error) {
	m.searches.Inc()
	if err != nil {
		m.searchFaults.Inc()
	}
	m.searchDuration.Observe(duration.Seconds())
}

// RecordSearchDegraded 记录因未连接而跳过的检索。
func (m *Metrics) RecordSearchDegraded() {
	m.searchesDegraded.Inc()
}

// RecordMessagePersisted 记录一条已保存的消息。
func (m *Metrics) RecordMessagePersisted() {
	m.messagesPersisted.Inc()
}

// RecordQueryLogged 记录一条查询日志。
func (m *Metrics) RecordQueryLogged() {
	m.queriesLogged.Inc()
}

// RecordIndexing 记录语料索引结果，负数按 0 计。
func (m *Metrics) RecordIndexing(indexed, failed int) {
	m.documentsIndexed.Add(float64(indexed))
	m.indexFailures.Add(float64(failed))
}

// Export 导出注册表中全部指标的 Prometheus 文本格式。
func (m *Metrics) Export() string {
	return m.registry.Export()
}
