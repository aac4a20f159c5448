package metrics

import (
	"testing"

	"github.com/prometheus/client_golang/prometheus"
)

func TestConciergeMetricsObserve(t *testing.T) {
	reg := prometheus.NewRegistry()
	m := NewConciergeMetrics(reg)
	m.ObserveMessage("web", "ok")
	m.ObserveExtractedField("email")
	m.ObserveCompletedProfile()
	m.ObserveHandoff("delivered")
	m.ObserveCatalogResolution("add_to_cart", true)
	m.ObserveReplyLatency("web", 0.5)

	families, err := reg.Gather()
	if err != nil {
		t.Fatalf("gather: %v", err)
	}
	if len(families) != 6 {
		t.Errorf("expected 6 metric families, got %d", len(families))
	}
}

func TestConciergeMetricsNilSafe(t *testing.T) {
	var m *ConciergeMetrics
	m.ObserveMessage("web", "ok")
	m.ObserveExtractedField("name")
	m.ObserveCompletedProfile()
	m.ObserveHandoff("failed")
	m.ObserveCatalogResolution("none", false)
	m.ObserveReplyLatency("whatsapp", 0.1)
}
