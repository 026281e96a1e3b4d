package metrics

import (
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Metrics 履职引擎指标
type Metrics struct {
	registry *prometheus.Registry

	// 分配结果（按结果类型与渠道）
	AssignmentOutcome *prometheus.CounterVec
	// 分配被拒绝（按原因与渠道）
	AssignmentRejected *prometheus.CounterVec
	// 证据核验结果与耗时
	EvidenceResult  *prometheus.CounterVec
	EvidenceLatency prometheus.Histogram
	// 批量对账条目结果
	ReconcileItems *prometheus.CounterVec
	// 评分条目保留/丢弃（按班次）
	ScoreEntries *prometheus.CounterVec
}

// New 创建指标实例，使用独立 registry 以便多实例共存
func New() *Metrics {
	registry := prometheus.NewRegistry()
	registry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	factory := promauto.With(registry)
	return &Metrics{
		registry: registry,
		AssignmentOutcome: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "cumplido_assignment_outcomes_total",
			Help: "Shift assignment outcomes by kind and channel",
		}, []string{"kind", "channel"}),
		AssignmentRejected: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "cumplido_assignment_rejections_total",
			Help: "Shift assignment rejections by reason and channel",
		}, []string{"reason", "channel"}),
		EvidenceResult: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "cumplido_evidence_checks_total",
			Help: "Evidence verifier results by state",
		}, []string{"state"}),
		EvidenceLatency: factory.NewHistogram(prometheus.HistogramOpts{
			Name:    "cumplido_evidence_check_duration_seconds",
			Help:    "Duration of evidence verifier calls",
			Buckets: []float64{0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1, 2.5, 5, 10},
		}),
		ReconcileItems: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "cumplido_reconcile_items_total",
			Help: "Batch reconciliation items by outcome",
		}, []string{"outcome"}),
		ScoreEntries: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "cumplido_score_entries_total",
			Help: "Submitted score entries kept or discarded by shift type",
		}, []string{"shift", "action"}),
	}
}

// Registry 返回底层 registry
func (m *Metrics) Registry() *prometheus.Registry {
	if m == nil {
		return nil
	}
	return m.registry
}

// Handler 返回 /metrics 处理器
func (m *Metrics) Handler() http.Handler {
	if m == nil {
		return http.NotFoundHandler()
	}
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}

// IncAssignment 记录分配结果
func (m *Metrics) IncAssignment(kind, channel string) {
	if m != nil {
		m.AssignmentOutcome.WithLabelValues(kind, channel).Inc()
	}
}

// IncRejection 记录分配拒绝
func (m *Metrics) IncRejection(reason, channel string) {
	if m != nil {
		m.AssignmentRejected.WithLabelValues(reason, channel).Inc()
	}
}

// ObserveEvidence 记录证据核验结果与耗时
func (m *Metrics) ObserveEvidence(state string, elapsed time.Duration) {
	if m != nil {
		m.EvidenceResult.WithLabelValues(state).Inc()
		m.EvidenceLatency.Observe(elapsed.Seconds())
	}
}

// IncReconcileItem 记录批量对账条目结果
func (m *Metrics) IncReconcileItem(outcome string) {
	if m != nil {
		m.ReconcileItems.WithLabelValues(outcome).Inc()
	}
}

// AddScoreEntries 记录评分条目保留与丢弃数
func (m *Metrics) AddScoreEntries(shift string, kept, discarded int) {
	if m == nil {
		return
	}
	if kept > 0 {
		m.ScoreEntries.WithLabelValues(shift, "kept").Add(float64(kept))
	}
	if discarded > 0 {
		m.ScoreEntries.WithLabelValues(shift, "discarded").Add(float64(discarded))
	}
}
