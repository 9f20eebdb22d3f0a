package pipeline

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"

	"contentstudio/pkg/monitoring"
)

// Metrics holds the Prometheus instruments for pipeline runs. A nil
// *Metrics is valid and records nothing, so tests can run without a
// collector.
type Metrics struct {
	runsTotal     *prometheus.CounterVec
	stageDuration *prometheus.HistogramVec
	activeRuns    *prometheus.GaugeVec
	agentCalls    *prometheus.CounterVec
	agentDuration *prometheus.HistogramVec
}

// NewMetrics registers pipeline metrics on the collector.
func NewMetrics(mc *monitoring.MetricsCollector) *Metrics {
	if mc == nil {
		return nil
	}

	runs, stageDuration, active := mc.CreatePipelineMetrics()
	calls, callDuration := mc.CreateAgentMetrics()

	return &Metrics{
		runsTotal:     runs,
		stageDuration: stageDuration,
		activeRuns:    active,
		agentCalls:    calls,
		agentDuration: callDuration,
	}
}

func (m *Metrics) runFinished(outcome string) {
	if m == nil {
		return
	}
	m.runsTotal.WithLabelValues(outcome).Inc()
}

func (m *Metrics) stageStarted(stage string) {
	if m == nil {
		return
	}
	m.activeRuns.WithLabelValues(stage).Inc()
}

func (m *Metrics) stageFinished(stage string, start time.Time) {
	if m == nil {
		return
	}
	m.activeRuns.WithLabelValues(stage).Dec()
	m.stageDuration.WithLabelValues(stage).Observe(time.Since(start).Seconds())
}

func (m *Metrics) agentCall(agentID, status string, start time.Time) {
	if m == nil {
		return
	}
	m.agentCalls.WithLabelValues(agentID, status).Inc()
	m.agentDuration.WithLabelValues(agentID).Observe(time.Since(start).Seconds())
}
