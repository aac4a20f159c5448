package metrics

import "github.com/prometheus/client_golang/prometheus"

// ConciergeMetrics exposes counters/histograms for the chat pipeline.
// All methods are nil-safe so callers can run unmetered.
type ConciergeMetrics struct {
	messagesTotal      *prometheus.CounterVec
	extractedFields    *prometheus.CounterVec
	completedProfiles  prometheus.Counter
	crmHandoffs        *prometheus.CounterVec
	catalogResolutions *prometheus.CounterVec
	replyLatency       *prometheus.HistogramVec
}

func NewConciergeMetrics(reg prometheus.Registerer) *ConciergeMetrics {
	m := &ConciergeMetrics{
		messagesTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "concierge",
			Subsystem: "chat",
			Name:      "messages_total",
			Help:      "Total inbound chat messages",
		}, []string{"channel", "status"}),
		extractedFields: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "concierge",
			Subsystem: "extraction",
			Name:      "fields_total",
			Help:      "Total entity fields extracted from utterances",
		}, []string{"field"}),
		completedProfiles: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "concierge",
			Subsystem: "profile",
			Name:      "completed_total",
			Help:      "Total visitor profiles that reached completion",
		}),
		crmHandoffs: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "concierge",
			Subsystem: "crm",
			Name:      "handoffs_total",
			Help:      "Total CRM hand-off attempts",
		}, []string{"status"}),
		catalogResolutions: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "concierge",
			Subsystem: "catalog",
			Name:      "resolutions_total",
			Help:      "Total catalog intent resolutions",
		}, []string{"intent", "matched"}),
		replyLatency: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: "concierge",
			Subsystem: "chat",
			Name:      "reply_latency_seconds",
			Help:      "Latency of producing a chat reply",
			Buckets:   prometheus.DefBuckets,
		}, []string{"channel"}),
	}
	if reg == nil {
		reg = prometheus.DefaultRegisterer
	}
	reg.MustRegister(m.messagesTotal, m.extractedFields, m.completedProfiles,
		m.crmHandoffs, m.catalogResolutions, m.replyLatency)
	return m
}

func (m *ConciergeMetrics) ObserveMessage(channel, status string) {
	if m == nil {
		return
	}
	m.messagesTotal.WithLabelValues(channel, status).Inc()
}

func (m *ConciergeMetrics) ObserveExtractedField(field string) {
	if m == nil {
		return
	}
	m.extractedFields.WithLabelValues(field).Inc()
}

func (m *ConciergeMetrics) ObserveCompletedProfile() {
	if m == nil {
		return
	}
	m.completedProfiles.Inc()
}

func (m *ConciergeMetrics) ObserveHandoff(status string) {
	if m == nil {
		return
	}
	m.crmHandoffs.WithLabelValues(status).Inc()
}

func (m *ConciergeMetrics) ObserveCatalogResolution(intent string, matched bool) {
	if m == nil {
		return
	}
	label := "false"
	if matched {
		label = "true"
	}
	m.catalogResolutions.WithLabelValues(intent, label).Inc()
}

func (m *ConciergeMetrics) ObserveReplyLatency(channel string, seconds float64) {
	if m == nil {
		return
	}
	m.replyLatency.WithLabelValues(channel).Observe(seconds)
}
